package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"kasus_scraper/config"
	"kasus_scraper/export"
	"kasus_scraper/logging"
	"kasus_scraper/models"
	"kasus_scraper/scraper"
	"kasus_scraper/storage"
)

var (
	strategiesFlag = flag.String("strategies", "", "Comma-separated strategies to run (random,city,industry,surname,postal)")
	headlessFlag   = flag.Bool("headless", false, "Run the browser without a window")
	reparseDir     = flag.String("reparse", "", "Re-parse archived result pages from this directory instead of scraping")
	exportLedger   = flag.String("export-ledger", "", "Export every contact in the run ledger to this XLSX file and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	os.Exit(run())
}

// run does the work of main and returns the process exit code, so deferred
// cleanup finishes before the process exits.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}
	applyFlags(cfg)

	logFile, err := logging.Setup(cfg.LogFile, logging.DefaultMaxSize)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}
	logging.SetLevel(cfg.LogLevel)

	if *exportLedger != "" {
		if err := runLedgerExport(cfg, *exportLedger); err != nil {
			log.Printf("Ledger export failed: %v", err)
			return 1
		}
		return 0
	}

	strategies, err := scraper.StrategiesFromConfig(cfg.Strategies)
	if err != nil {
		log.Printf("Invalid strategies: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var controller *scraper.BrowserController
	var pc scraper.PageController
	if *reparseDir == "" {
		controller = scraper.NewBrowserController(cfg.Browser)
		defer controller.Close()
		pc = controller
	}

	orch := scraper.NewOrchestrator(pc, strategies, scraper.Options{
		Naming:         export.Naming{Dir: cfg.Export.Dir, Prefix: cfg.Export.Prefix},
		ResultsPerPage: cfg.Browser.ResultsPerPage,
		SearchPacer:    scraper.NewPacer(cfg.Pacing.SearchDelayMin, cfg.Pacing.SearchDelayMax),
		StrategyPacer:  scraper.NewPacer(cfg.Pacing.StrategyDelayMin, cfg.Pacing.StrategyDelayMax),
	})
	st := wireStores(ctx, cfg, orch)
	defer st.close()

	log.Println("Starting kasus_scraper...")
	start := time.Now()

	var outcome models.Outcome
	if *reparseDir != "" {
		outcome = execute(func() error { return orch.Replay(ctx, *reparseDir) })
	} else {
		log.Printf("Strategies: %s", strings.Join(cfg.Strategies.Enabled, ", "))
		outcome = execute(func() error { return orch.Run(ctx) })
	}
	if outcome == models.OutcomeInterrupted {
		log.Println("Interrupted, saving partial results...")
	}

	path, err := orch.Finish(context.Background(), outcome)
	if err != nil {
		log.Printf("Failed to save results: %v", err)
	}
	if controller != nil {
		controller.Close()
	}

	printSummary(orch.Stats(), path, time.Since(start))
	st.printTotals(context.Background())
	if outcome == models.OutcomeFailed || err != nil {
		return 1
	}
	return 0
}

// execute runs fn and maps its result, including a panic, to an outcome.
func execute(fn func() error) (outcome models.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Critical error: %v", r)
			outcome = models.OutcomeFailed
		}
	}()

	err := fn()
	switch {
	case err == nil:
		return models.OutcomeCompleted
	case errors.Is(err, context.Canceled):
		return models.OutcomeInterrupted
	default:
		log.Printf("Critical error: %v", err)
		return models.OutcomeFailed
	}
}

func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strategies":
			cfg.Strategies.Enabled = config.ParseList(*strategiesFlag)
		case "headless":
			cfg.Browser.Headless = *headlessFlag
		}
	})
}

// stores holds the optional persistence targets attached to a run.
type stores struct {
	ledger   *storage.SQLiteStore
	postgres *storage.PostgresStore
}

// wireStores attaches the optional ledger, Postgres sink and S3 uploader.
// A store that cannot be opened is logged and skipped.
func wireStores(ctx context.Context, cfg *config.Config, orch *scraper.Orchestrator) *stores {
	st := &stores{}

	if cfg.Ledger.SQLitePath != "" {
		ledger, err := storage.NewSQLiteStore(cfg.Ledger.SQLitePath)
		if err != nil {
			log.Printf("Warning: run ledger disabled: %v", err)
		} else {
			orch.SetLedger(ledger)
			orch.AddSink(ledger)
			st.ledger = ledger
			log.Printf("Run ledger: %s", cfg.Ledger.SQLitePath)
		}
	}

	if cfg.Ledger.PostgresURL != "" {
		pg, err := storage.NewPostgresStore(ctx, cfg.Ledger.PostgresURL)
		if err == nil {
			err = pg.EnsureSchema(ctx)
			if err != nil {
				pg.Close()
			}
		}
		if err != nil {
			log.Printf("Warning: Postgres sink disabled: %v", err)
		} else {
			orch.AddSink(pg)
			st.postgres = pg
			log.Printf("Connected to Postgres: %s", maskConnectionString(cfg.Ledger.PostgresURL))
		}
	}

	if cfg.S3.Enabled() {
		uploader, err := storage.NewS3Uploader(ctx, cfg.S3)
		if err != nil {
			log.Printf("Warning: S3 upload disabled: %v", err)
		} else {
			orch.SetUploader(uploader)
			log.Printf("Exports will be uploaded to bucket %s", cfg.S3.Bucket)
		}
	}

	return st
}

// printTotals reports how many contacts each persistent store holds across
// all runs.
func (st *stores) printTotals(ctx context.Context) {
	if st.ledger != nil {
		if n, err := st.ledger.ContactCount(); err != nil {
			log.Printf("Warning: could not count ledger contacts: %v", err)
		} else {
			fmt.Printf("  Ledger total:    %d\n", n)
		}
	}
	if st.postgres != nil {
		if n, err := st.postgres.CountContacts(ctx); err != nil {
			log.Printf("Warning: could not count Postgres contacts: %v", err)
		} else {
			fmt.Printf("  Postgres total:  %d\n", n)
		}
	}
}

func (st *stores) close() {
	if st.ledger != nil {
		st.ledger.Close()
	}
	if st.postgres != nil {
		st.postgres.Close()
	}
}

func runLedgerExport(cfg *config.Config, path string) error {
	if cfg.Ledger.SQLitePath == "" {
		return fmt.Errorf("LEDGER_DB_PATH is not set")
	}
	ledger, err := storage.NewSQLiteStore(cfg.Ledger.SQLitePath)
	if err != nil {
		return err
	}
	defer ledger.Close()

	contacts, err := ledger.Contacts()
	if err != nil {
		return err
	}
	n, err := export.WriteXLSX(path, contacts)
	if err != nil {
		return err
	}
	log.Printf("Exported %d contacts from %s to %s", n, cfg.Ledger.SQLitePath, path)
	return nil
}

func printSummary(run models.ScrapeRun, path string, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("Scraping finished")
	fmt.Printf("  Status:          %s\n", run.Status)
	fmt.Printf("  Searches:        %d (%d failed)\n", run.Searches, run.SearchesFailed)
	fmt.Printf("  Records parsed:  %d\n", run.RecordsParsed)
	fmt.Printf("  Unique contacts: %d\n", run.RecordsNew)
	fmt.Printf("  Duration:        %s\n", elapsed.Round(time.Second))
	if path != "" {
		fmt.Printf("  Output:          %s\n", path)
	}
}

// maskConnectionString masks password in connection string for logging
func maskConnectionString(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return connStr
	}
	return u.Redacted()
}
