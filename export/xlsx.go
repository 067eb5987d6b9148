// Package export writes contact records to XLSX spreadsheets.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"kasus_scraper/models"
)

var ErrWrite = errors.New("export write failed")

const (
	progressTimeLayout = "20060102_150405"
	columnWidth        = 28
	fullTextWidth      = 80
)

// Naming builds export file paths. The file name alone tells how a run
// ended.
type Naming struct {
	Dir    string
	Prefix string
}

func (n Naming) Progress(t time.Time) string {
	return filepath.Join(n.Dir, fmt.Sprintf("%s_progress_%s.xlsx", n.Prefix, t.Format(progressTimeLayout)))
}

func (n Naming) Final(outcome models.Outcome) string {
	var name string
	switch outcome {
	case models.OutcomeInterrupted:
		name = "partial_contacts"
	case models.OutcomeFailed:
		name = "error_recovery"
	default:
		name = "all_contacts_final"
	}
	return filepath.Join(n.Dir, fmt.Sprintf("%s_%s.xlsx", n.Prefix, name))
}

// Dedupe drops records whose key was already seen, keeping the first.
func Dedupe(records []models.ContactRecord) []models.ContactRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]models.ContactRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Key]; ok {
			continue
		}
		seen[rec.Key] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// Columns returns the sheet columns for records: the fixed contact columns
// that hold a value in at least one record, then full_text.
func Columns(records []models.ContactRecord) []string {
	var cols []string
	for _, col := range models.ContactColumns {
		for i := range records {
			if records[i].Field(col) != "" {
				cols = append(cols, col)
				break
			}
		}
	}
	return append(cols, models.ColFullText)
}

// WriteXLSX dedups records and writes them as one sheet with a header row.
// It returns the number of rows written.
func WriteXLSX(path string, records []models.ContactRecord) (int, error) {
	records = Dedupe(records)
	cols := Columns(records)

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]any, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return 0, fmt.Errorf("%w: header: %v", ErrWrite, err)
	}

	for r := range records {
		row := make([]any, len(cols))
		for c, col := range cols {
			row[c] = records[r].Field(col)
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return 0, fmt.Errorf("%w: row %d: %v", ErrWrite, r+2, err)
		}
	}

	for i := range cols {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(columnWidth)
		if i == len(cols)-1 {
			width = fullTextWidth
		}
		_ = f.SetColWidth(sheet, col, col, width)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	return len(records), nil
}

// ReadRows returns every row of the first sheet of an exported file,
// header included.
func ReadRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetRows(f.GetSheetName(0))
}
