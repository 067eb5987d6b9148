package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasus_scraper/models"
)

func TestNaming(t *testing.T) {
	n := Naming{Dir: "out", Prefix: "datev"}
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	assert.Equal(t, filepath.Join("out", "datev_progress_20260304_050607.xlsx"), n.Progress(ts))
	assert.Equal(t, filepath.Join("out", "datev_all_contacts_final.xlsx"), n.Final(models.OutcomeCompleted))
	assert.Equal(t, filepath.Join("out", "datev_partial_contacts.xlsx"), n.Final(models.OutcomeInterrupted))
	assert.Equal(t, filepath.Join("out", "datev_error_recovery.xlsx"), n.Final(models.OutcomeFailed))
}

func TestColumns_FixedOrderFullTextLast(t *testing.T) {
	records := []models.ContactRecord{
		{Key: "a", City: "Berlin", Name: "A", FullText: "a"},
		{Key: "b", Phone: "030", Company: "B GmbH", FullText: "b"},
	}
	assert.Equal(t,
		[]string{"name", "company", "city", "phone", "full_text"},
		Columns(records))
}

func TestColumns_OnlyFullText(t *testing.T) {
	assert.Equal(t, []string{"full_text"}, Columns([]models.ContactRecord{{Key: "a"}}))
	assert.Equal(t, []string{"full_text"}, Columns(nil))
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "datev_all_contacts_final.xlsx")
	records := []models.ContactRecord{
		{Key: "max_hauptstraße_12", Name: "Max", Address: "Hauptstraße 12", Phone: "030 1", FullText: "Max\nSteuerberater"},
		{Key: "erika_", Name: "Erika", Chamber: "Steuerberaterkammer München", FullText: "Erika"},
		{Key: "max_hauptstraße_12", Name: "Max duplicate", FullText: "dup"},
	}

	n, err := WriteXLSX(path, records)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"name", "address", "phone", "chamber", "full_text"}, rows[0])
	assert.Equal(t, []string{"Max", "Hauptstraße 12", "030 1", "", "Max\nSteuerberater"}, rows[1])
	assert.Equal(t, "Erika", rows[2][0])
	assert.Equal(t, "Erika", rows[2][len(rows[2])-1])
}

func TestWriteXLSX_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := WriteXLSX(filepath.Join(blocker, "out.xlsx"), []models.ContactRecord{{Key: "a", FullText: "a"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWrite))
}
