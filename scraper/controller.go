package scraper

import (
	"context"
	"errors"

	"kasus_scraper/models"
)

var (
	ErrNavigation      = errors.New("navigation failed")
	ErrElementNotFound = errors.New("element not found")
	ErrTimeout         = errors.New("timed out")
)

// PageController drives the directory search form. Implementations own the
// browser; the orchestrator only sees these steps.
type PageController interface {
	// LoadSearchForm opens the search page. Fails with ErrNavigation.
	LoadSearchForm(ctx context.Context) error
	// SetResultPageSize picks the results-per-page option. Best effort: it
	// reports whether the option could be set and never fails the search.
	SetResultPageSize(n int) bool
	// FillForm writes every non-empty criteria field into its form control.
	// Controls missing from the page are skipped.
	FillForm(criteria models.SearchCriteria) error
	// Submit runs the search and waits for the result page. Fails with
	// ErrElementNotFound or ErrTimeout.
	Submit(ctx context.Context) error
	// VisibleText returns the rendered text of the current page.
	VisibleText() (string, error)
}
