// Package dedup keeps the contacts accepted during one run, keyed by
// identity key. The first record seen for a key is kept for the rest of
// the run.
package dedup

import "kasus_scraper/models"

type Store struct {
	seen    map[string]struct{}
	records []models.ContactRecord
}

func NewStore() *Store {
	return &Store{seen: make(map[string]struct{})}
}

// Accept stores rec if its key is non-empty and unseen. It reports whether
// the record was stored.
func (s *Store) Accept(rec models.ContactRecord) bool {
	if rec.Key == "" {
		return false
	}
	if _, ok := s.seen[rec.Key]; ok {
		return false
	}
	s.seen[rec.Key] = struct{}{}
	s.records = append(s.records, rec)
	return true
}

// AcceptAll offers every record in order and returns how many were stored.
func (s *Store) AcceptAll(recs []models.ContactRecord) int {
	n := 0
	for _, rec := range recs {
		if s.Accept(rec) {
			n++
		}
	}
	return n
}

func (s *Store) Seen(key string) bool {
	_, ok := s.seen[key]
	return ok
}

func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy of the accepted records in acceptance order.
func (s *Store) Records() []models.ContactRecord {
	out := make([]models.ContactRecord, len(s.records))
	copy(out, s.records)
	return out
}
