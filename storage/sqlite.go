package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"kasus_scraper/identity"
	"kasus_scraper/models"
)

// SQLiteStore is the local run ledger: runs, their log lines and every
// contact ever accepted, keyed by identity key.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dbPath, err)
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scrape_runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		searches INTEGER DEFAULT 0,
		searches_failed INTEGER DEFAULT 0,
		records_parsed INTEGER DEFAULT 0,
		records_new INTEGER DEFAULT 0,
		export_path TEXT
	);

	CREATE TABLE IF NOT EXISTS scrape_logs (
		id INTEGER PRIMARY KEY,
		run_id TEXT,
		timestamp DATETIME,
		level TEXT,
		message TEXT,
		strategy TEXT
	);

	CREATE TABLE IF NOT EXISTS contacts (
		identity_key TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		title TEXT,
		name TEXT,
		profession TEXT,
		company TEXT,
		address TEXT,
		postal_code TEXT,
		city TEXT,
		phone TEXT,
		fax TEXT,
		mobile TEXT,
		email TEXT,
		website TEXT,
		chamber TEXT,
		full_text TEXT,
		run_id TEXT,
		first_seen_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_logs_run ON scrape_logs(run_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON scrape_runs(status, started_at);
	CREATE INDEX IF NOT EXISTS idx_contacts_run ON contacts(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateRun(run *models.ScrapeRun) error {
	_, err := s.db.Exec(`
		INSERT INTO scrape_runs (id, started_at, status) VALUES (?, ?, ?)`,
		run.ID.String(), run.StartedAt, run.Status)
	return err
}

func (s *SQLiteStore) UpdateRun(run *models.ScrapeRun) error {
	_, err := s.db.Exec(`
		UPDATE scrape_runs SET finished_at = ?, status = ?, searches = ?, searches_failed = ?,
			records_parsed = ?, records_new = ?, export_path = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, run.Searches, run.SearchesFailed,
		run.RecordsParsed, run.RecordsNew, run.ExportPath, run.ID.String())
	return err
}

func (s *SQLiteStore) GetRun(id uuid.UUID) (*models.ScrapeRun, error) {
	var run models.ScrapeRun
	var rawID string
	var finished sql.NullTime
	var exportPath sql.NullString
	err := s.db.QueryRow(`
		SELECT id, started_at, finished_at, status, searches, searches_failed,
			records_parsed, records_new, export_path
		FROM scrape_runs WHERE id = ?`, id.String()).Scan(
		&rawID, &run.StartedAt, &finished, &run.Status, &run.Searches, &run.SearchesFailed,
		&run.RecordsParsed, &run.RecordsNew, &exportPath)
	if err != nil {
		return nil, err
	}
	if run.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("run id %q: %w", rawID, err)
	}
	if finished.Valid {
		run.FinishedAt = &finished.Time
	}
	run.ExportPath = exportPath.String
	return &run, nil
}

func (s *SQLiteStore) Log(runID uuid.UUID, level models.LogLevel, message, strategy string) error {
	_, err := s.db.Exec(`
		INSERT INTO scrape_logs (run_id, timestamp, level, message, strategy)
		VALUES (?, ?, ?, ?, ?)`,
		runID.String(), time.Now(), level, message, strategy)
	return err
}

func (s *SQLiteStore) GetLogs(runID uuid.UUID) ([]models.ScrapeLog, error) {
	rows, err := s.db.Query(`
		SELECT id, timestamp, level, message, strategy
		FROM scrape_logs WHERE run_id = ? ORDER BY id`, runID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.ScrapeLog
	for rows.Next() {
		l := models.ScrapeLog{RunID: runID}
		if err := rows.Scan(&l.ID, &l.Timestamp, &l.Level, &l.Message, &l.Strategy); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// SaveContact stores rec unless a contact with the same identity key is
// already known. The first stored version is kept.
func (s *SQLiteStore) SaveContact(ctx context.Context, runID uuid.UUID, rec *models.ContactRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO contacts (identity_key, fingerprint, title, name, profession, company,
			address, postal_code, city, phone, fax, mobile, email, website, chamber, full_text,
			run_id, first_seen_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Key, identity.Fingerprint(rec.Key), rec.Title, rec.Name, rec.Profession, rec.Company,
		rec.Address, rec.PostalCode, rec.City, rec.Phone, rec.Fax, rec.Mobile, rec.Email, rec.Website,
		rec.Chamber, rec.FullText, runID.String(), time.Now())
	return err
}

// Contacts returns every stored contact in first-seen order.
func (s *SQLiteStore) Contacts() ([]models.ContactRecord, error) {
	rows, err := s.db.Query(`
		SELECT identity_key, title, name, profession, company, address, postal_code, city,
			phone, fax, mobile, email, website, chamber, full_text
		FROM contacts ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ContactRecord
	for rows.Next() {
		var c models.ContactRecord
		if err := rows.Scan(&c.Key, &c.Title, &c.Name, &c.Profession, &c.Company, &c.Address,
			&c.PostalCode, &c.City, &c.Phone, &c.Fax, &c.Mobile, &c.Email, &c.Website,
			&c.Chamber, &c.FullText); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ContactCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM contacts`).Scan(&n)
	return n, err
}
