package scraper

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"kasus_scraper/dedup"
	"kasus_scraper/export"
	"kasus_scraper/logging"
	"kasus_scraper/models"
	"kasus_scraper/parser"
)

// RunLedger records runs and their log lines.
type RunLedger interface {
	CreateRun(run *models.ScrapeRun) error
	UpdateRun(run *models.ScrapeRun) error
	Log(runID uuid.UUID, level models.LogLevel, message, strategy string) error
}

// ContactSink receives every newly accepted contact.
type ContactSink interface {
	SaveContact(ctx context.Context, runID uuid.UUID, rec *models.ContactRecord) error
}

// Uploader copies an export file to remote storage and returns its location.
type Uploader interface {
	UploadFile(ctx context.Context, path string) (string, error)
}

type Options struct {
	Naming         export.Naming
	ResultsPerPage int
	SearchPacer    *Pacer
	StrategyPacer  *Pacer
}

// Orchestrator runs the strategies one after another against a single page
// controller and owns everything accepted during the run.
type Orchestrator struct {
	controller PageController
	strategies []Strategy
	store      *dedup.Store
	opts       Options
	now        func() time.Time

	run         *models.ScrapeRun
	checkpoints []string
	uploaded    []string

	ledgerLogFailed bool

	ledger   RunLedger
	sinks    []ContactSink
	uploader Uploader
}

func NewOrchestrator(controller PageController, strategies []Strategy, opts Options) *Orchestrator {
	if opts.ResultsPerPage == 0 {
		opts.ResultsPerPage = 50
	}
	return &Orchestrator{
		controller: controller,
		strategies: strategies,
		store:      dedup.NewStore(),
		opts:       opts,
		now:        time.Now,
	}
}

func (o *Orchestrator) SetLedger(ledger RunLedger) {
	o.ledger = ledger
}

func (o *Orchestrator) AddSink(sink ContactSink) {
	o.sinks = append(o.sinks, sink)
}

func (o *Orchestrator) SetUploader(u Uploader) {
	o.uploader = u
}

func (o *Orchestrator) Store() *dedup.Store {
	return o.store
}

// Uploaded lists the remote locations of every export uploaded so far.
func (o *Orchestrator) Uploaded() []string {
	return append([]string(nil), o.uploaded...)
}

// Checkpoints lists the progress files written so far.
func (o *Orchestrator) Checkpoints() []string {
	return append([]string(nil), o.checkpoints...)
}

// Stats returns a copy of the current run record.
func (o *Orchestrator) Stats() models.ScrapeRun {
	o.ensureRun()
	return *o.run
}

// Run executes every strategy in order. A failing strategy is logged and the
// next one starts; a progress snapshot is written after each. Run returns
// ctx.Err() as soon as the context is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.ensureRun()

	for i, strategy := range o.strategies {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			if err := o.opts.StrategyPacer.Wait(ctx); err != nil {
				return err
			}
		}

		o.log(models.LogLevelInfo, strategy.Name(), fmt.Sprintf("Executing strategy %d/%d", i+1, len(o.strategies)))
		if err := o.RunStrategy(ctx, strategy); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			o.log(models.LogLevelError, strategy.Name(), fmt.Sprintf("Strategy failed: %v", err))
		}
		o.log(models.LogLevelInfo, strategy.Name(), fmt.Sprintf("Current unique contacts: %d", o.store.Len()))

		o.checkpoint(ctx)
	}
	return nil
}

// RunStrategy searches every criteria value of one strategy. Failed searches
// are counted and skipped.
func (o *Orchestrator) RunStrategy(ctx context.Context, strategy Strategy) (err error) {
	o.ensureRun()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy %s panicked: %v", strategy.Name(), r)
		}
	}()

	first := true
	for criteria := range strategy.Criteria() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !first {
			if err := o.opts.SearchPacer.Wait(ctx); err != nil {
				return err
			}
		}
		first = false

		o.run.Searches++
		parsed, accepted, err := o.Search(ctx, criteria)
		if err != nil {
			o.run.SearchesFailed++
			o.log(models.LogLevelWarn, strategy.Name(), fmt.Sprintf("Search %s failed: %v", criteria, err))
			continue
		}
		logging.Debugf("%s: search %s: %d parsed, %d new (total %d)",
			strategy.Name(), criteria, parsed, accepted, o.store.Len())
	}
	return nil
}

// Search performs one form submission and ingests the result page.
func (o *Orchestrator) Search(ctx context.Context, criteria models.SearchCriteria) (parsed, accepted int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("search panicked: %v", r)
		}
	}()

	if err := o.controller.LoadSearchForm(ctx); err != nil {
		return 0, 0, err
	}
	if !o.controller.SetResultPageSize(o.opts.ResultsPerPage) {
		logging.Debugf("Could not set %d results per page", o.opts.ResultsPerPage)
	}
	if err := o.controller.FillForm(criteria); err != nil {
		return 0, 0, err
	}
	if err := o.controller.Submit(ctx); err != nil {
		return 0, 0, err
	}
	text, err := o.controller.VisibleText()
	if err != nil {
		return 0, 0, err
	}

	parsed, accepted = o.Ingest(ctx, text)
	return parsed, accepted, nil
}

// Ingest parses a page's visible text and keeps the records not seen yet.
func (o *Orchestrator) Ingest(ctx context.Context, text string) (parsed, accepted int) {
	o.ensureRun()
	sinkCtx := context.WithoutCancel(ctx)

	for rec := range parser.Page(text) {
		parsed++
		if !o.store.Accept(rec) {
			continue
		}
		accepted++
		for _, sink := range o.sinks {
			if err := sink.SaveContact(sinkCtx, o.run.ID, &rec); err != nil {
				log.Printf("Failed to save contact %s: %v", rec.Key, err)
			}
		}
	}

	o.run.RecordsParsed += parsed
	o.run.RecordsNew += accepted
	return parsed, accepted
}

// Replay ingests previously archived result pages (.html or .txt) from dir
// in file name order.
func (o *Orchestrator) Replay(ctx context.Context, dir string) error {
	o.ensureRun()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".html" || ext == ".htm" || ext == ".txt") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := readPageText(filepath.Join(dir, name))
		if err != nil {
			o.log(models.LogLevelWarn, "replay", fmt.Sprintf("Skipping %s: %v", name, err))
			continue
		}
		parsed, accepted := o.Ingest(ctx, text)
		o.run.Searches++
		o.log(models.LogLevelInfo, "replay", fmt.Sprintf("%s: %d parsed, %d new", name, parsed, accepted))
	}
	return nil
}

// Finish writes the final export for the given outcome and closes the run
// record. With no accepted records nothing is written and path is empty.
func (o *Orchestrator) Finish(ctx context.Context, outcome models.Outcome) (string, error) {
	o.ensureRun()
	now := o.now()
	o.run.FinishedAt = &now
	o.run.Status = outcome.Status()
	defer o.updateRun()

	if o.store.Len() == 0 {
		o.log(models.LogLevelWarn, "", "No data to save")
		return "", nil
	}

	path := o.opts.Naming.Final(outcome)
	n, err := export.WriteXLSX(path, o.store.Records())
	if err != nil {
		o.log(models.LogLevelError, "", fmt.Sprintf("Final export failed: %v", err))
		return "", err
	}
	o.run.ExportPath = path
	o.log(models.LogLevelInfo, "", fmt.Sprintf("Final results saved: %d unique contacts in %s", n, path))

	o.upload(ctx, path)
	return path, nil
}

// upload copies an export to remote storage when an uploader is set.
// Failures are logged; the local file stays authoritative.
func (o *Orchestrator) upload(ctx context.Context, path string) {
	if o.uploader == nil {
		return
	}
	location, err := o.uploader.UploadFile(ctx, path)
	if err != nil {
		o.log(models.LogLevelWarn, "", fmt.Sprintf("Upload of %s failed: %v", path, err))
		return
	}
	o.uploaded = append(o.uploaded, location)
	o.log(models.LogLevelInfo, "", fmt.Sprintf("Uploaded %s to %s", filepath.Base(path), location))
}

func (o *Orchestrator) checkpoint(ctx context.Context) {
	if o.store.Len() == 0 {
		return
	}
	path := o.opts.Naming.Progress(o.now())
	n, err := export.WriteXLSX(path, o.store.Records())
	if err != nil {
		o.log(models.LogLevelError, "", fmt.Sprintf("Progress save failed: %v", err))
		return
	}
	o.checkpoints = append(o.checkpoints, path)
	o.log(models.LogLevelInfo, "", fmt.Sprintf("Progress saved: %d unique contacts in %s", n, path))
	o.upload(ctx, path)
}

func (o *Orchestrator) ensureRun() {
	if o.run != nil {
		return
	}
	o.run = &models.ScrapeRun{
		ID:        uuid.New(),
		StartedAt: o.now(),
		Status:    models.RunStatusRunning,
	}
	if o.ledger != nil {
		if err := o.ledger.CreateRun(o.run); err != nil {
			log.Printf("Warning: failed to record run: %v", err)
		}
	}
}

func (o *Orchestrator) updateRun() {
	if o.ledger == nil {
		return
	}
	if err := o.ledger.UpdateRun(o.run); err != nil {
		log.Printf("Warning: failed to update run: %v", err)
	}
}

func (o *Orchestrator) log(level models.LogLevel, strategy, message string) {
	if strategy == "" {
		strategy = "run"
	}
	log.Printf("[%s] %s: %s", level, strategy, message)
	if o.ledger == nil || o.run == nil {
		return
	}
	if err := o.ledger.Log(o.run.ID, level, message, strategy); err != nil && !o.ledgerLogFailed {
		o.ledgerLogFailed = true
		log.Printf("Warning: failed to write log row to ledger (further failures not reported): %v", err)
	}
}
