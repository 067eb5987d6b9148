package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"kasus_scraper/identity"
	"kasus_scraper/models"
)

// PostgresStore mirrors accepted contacts into a shared Postgres table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS advisor_contacts (
			id UUID PRIMARY KEY,
			fingerprint TEXT NOT NULL UNIQUE,
			identity_key TEXT NOT NULL,
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
			run_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_advisor_contacts_city ON advisor_contacts(city);
	`)
	return err
}

// SaveContact inserts rec. Rows already present for the same fingerprint
// are left untouched.
func (s *PostgresStore) SaveContact(ctx context.Context, runID uuid.UUID, rec *models.ContactRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO advisor_contacts (
			id, fingerprint, identity_key, title, name, profession, company, address, postal_code,
			city, phone, fax, mobile, email, website, chamber, full_text, run_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
		ON CONFLICT (fingerprint) DO NOTHING`,
		uuid.New(), identity.Fingerprint(rec.Key), rec.Key,
		nullIfEmpty(rec.Title), nullIfEmpty(rec.Name), nullIfEmpty(rec.Profession), nullIfEmpty(rec.Company),
		nullIfEmpty(rec.Address), nullIfEmpty(rec.PostalCode), nullIfEmpty(rec.City),
		nullIfEmpty(rec.Phone), nullIfEmpty(rec.Fax), nullIfEmpty(rec.Mobile), nullIfEmpty(rec.Email),
		nullIfEmpty(rec.Website), nullIfEmpty(rec.Chamber), rec.FullText, runID,
	)
	if err != nil {
		return fmt.Errorf("insert contact %s: %w", rec.Key, err)
	}
	return nil
}

func (s *PostgresStore) CountContacts(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM advisor_contacts`).Scan(&n)
	return n, err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
