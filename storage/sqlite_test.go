package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasus_scraper/identity"
	"kasus_scraper/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func contact(name, address, phone string) models.ContactRecord {
	return models.ContactRecord{
		Name:       name,
		Profession: "Steuerberater",
		Address:    address,
		Phone:      phone,
		Key:        identity.Key(name, address),
	}
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	store := newTestStore(t)

	run := &models.ScrapeRun{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC().Truncate(time.Second),
		Status:    models.RunStatusRunning,
	}
	require.NoError(t, store.CreateRun(run))

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusRunning, got.Status)
	assert.Nil(t, got.FinishedAt)

	finished := run.StartedAt.Add(time.Minute)
	run.FinishedAt = &finished
	run.Status = models.RunStatusInterrupted
	run.Searches = 12
	run.SearchesFailed = 2
	run.RecordsParsed = 40
	run.RecordsNew = 17
	run.ExportPath = "out/datev_partial_contacts.xlsx"
	require.NoError(t, store.UpdateRun(run))

	got, err = store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, models.RunStatusInterrupted, got.Status)
	require.NotNil(t, got.FinishedAt)
	assert.True(t, finished.Equal(*got.FinishedAt))
	assert.Equal(t, 12, got.Searches)
	assert.Equal(t, 2, got.SearchesFailed)
	assert.Equal(t, 40, got.RecordsParsed)
	assert.Equal(t, 17, got.RecordsNew)
	assert.Equal(t, "out/datev_partial_contacts.xlsx", got.ExportPath)
}

func TestSQLiteStore_Logs(t *testing.T) {
	store := newTestStore(t)
	runID := uuid.New()

	require.NoError(t, store.Log(runID, models.LogLevelInfo, "Executing strategy 1/5", "random"))
	require.NoError(t, store.Log(runID, models.LogLevelWarn, "Search failed", "city"))
	require.NoError(t, store.Log(uuid.New(), models.LogLevelInfo, "other run", "random"))

	logs, err := store.GetLogs(runID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.LogLevelInfo, logs[0].Level)
	assert.Equal(t, "random", logs[0].Strategy)
	assert.Equal(t, models.LogLevelWarn, logs[1].Level)
	assert.Equal(t, "Search failed", logs[1].Message)
	assert.Equal(t, runID, logs[1].RunID)
}

func TestSQLiteStore_ContactsFirstSeenWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	runID := uuid.New()

	first := contact("Dr. Max Mustermann", "Hauptstraße 12", "030 1")
	dup := contact("Dr. Max  Mustermann", "Hauptstraße 12", "030 2")
	other := contact("Erika Musterfrau", "Marktplatz 3", "")

	require.NoError(t, store.SaveContact(ctx, runID, &first))
	require.NoError(t, store.SaveContact(ctx, runID, &dup))
	require.NoError(t, store.SaveContact(ctx, uuid.New(), &other))

	n, err := store.ContactCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	contacts, err := store.Contacts()
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "030 1", contacts[0].Phone)
	assert.Equal(t, first.Key, contacts[0].Key)
	assert.Equal(t, "Erika Musterfrau", contacts[1].Name)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	rec := contact("Erika Musterfrau", "Marktplatz 3", "")
	require.NoError(t, store.SaveContact(context.Background(), uuid.New(), &rec))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()
	n, err := store.ContactCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
