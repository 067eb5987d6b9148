package models

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusRunning     RunStatus = "running"
	RunStatusCompleted   RunStatus = "completed"
	RunStatusInterrupted RunStatus = "interrupted"
	RunStatusFailed      RunStatus = "failed"
)

// Outcome is how a run terminated. It selects the final export file name.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeInterrupted
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeInterrupted:
		return "interrupted"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (o Outcome) Status() RunStatus {
	switch o {
	case OutcomeInterrupted:
		return RunStatusInterrupted
	case OutcomeFailed:
		return RunStatusFailed
	default:
		return RunStatusCompleted
	}
}

type ScrapeRun struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	FinishedAt     *time.Time `json:"finished_at" db:"finished_at"`
	Status         RunStatus  `json:"status" db:"status"`
	Searches       int        `json:"searches" db:"searches"`
	SearchesFailed int        `json:"searches_failed" db:"searches_failed"`
	RecordsParsed  int        `json:"records_parsed" db:"records_parsed"`
	RecordsNew     int        `json:"records_new" db:"records_new"`
	ExportPath     string     `json:"export_path" db:"export_path"`
}
