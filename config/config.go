package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultSearchURL = "https://www.datev.de/kasus/Start?KammerId=BuKa&Suffix1=BuKaY&Suffix2=BuKaXY"

type Config struct {
	Browser    BrowserConfig
	Pacing     PacingConfig
	Strategies StrategyConfig
	Export     ExportConfig
	Ledger     LedgerConfig
	S3         S3Config
	LogFile    string
	LogLevel   string
}

type BrowserConfig struct {
	SearchURL      string
	Headless       bool
	UserAgent      string
	UserDataDir    string
	ResultsPerPage int
	NavTimeout     time.Duration
	LoadSettle     time.Duration
	SubmitSettle   time.Duration
	ArchiveDir     string // result pages are saved here as HTML when set
	DebugDir       string
}

type PacingConfig struct {
	SearchDelayMin   time.Duration
	SearchDelayMax   time.Duration
	StrategyDelayMin time.Duration
	StrategyDelayMax time.Duration
}

// StrategyConfig selects the enabled strategies and, optionally, replaces
// their built-in value lists.
type StrategyConfig struct {
	Enabled          []string `yaml:"enabled"`
	RandomIterations int      `yaml:"random_iterations"`
	Cities           []string `yaml:"cities"`
	Industries       []string `yaml:"industries"`
	Surnames         []string `yaml:"surnames"`
	PostalPrefixFrom int      `yaml:"postal_prefix_from"`
	PostalPrefixTo   int      `yaml:"postal_prefix_to"`
}

type ExportConfig struct {
	Dir    string
	Prefix string
}

type LedgerConfig struct {
	SQLitePath  string
	PostgresURL string
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

var AllStrategies = []string{"random", "city", "industry", "surname", "postal"}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Browser: BrowserConfig{
			SearchURL:      getEnv("SEARCH_URL", DefaultSearchURL),
			Headless:       getEnvBool("HEADLESS", false),
			UserAgent:      getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
			UserDataDir:    getEnv("BROWSER_DATA_DIR", "browser_data"),
			ResultsPerPage: getEnvInt("RESULTS_PER_PAGE", 50),
			NavTimeout:     getEnvMillis("NAV_TIMEOUT_MS", 15000),
			LoadSettle:     getEnvMillis("LOAD_SETTLE_MS", 2000),
			SubmitSettle:   getEnvMillis("SUBMIT_SETTLE_MS", 3000),
			ArchiveDir:     os.Getenv("ARCHIVE_DIR"),
			DebugDir:       getEnv("DEBUG_DIR", "debug"),
		},
		Pacing: PacingConfig{
			SearchDelayMin:   getEnvMillis("SEARCH_DELAY_MIN_MS", 2000),
			SearchDelayMax:   getEnvMillis("SEARCH_DELAY_MAX_MS", 4000),
			StrategyDelayMin: getEnvMillis("STRATEGY_DELAY_MIN_MS", 2000),
			StrategyDelayMax: getEnvMillis("STRATEGY_DELAY_MAX_MS", 5000),
		},
		Strategies: StrategyConfig{
			Enabled:          getEnvList("STRATEGIES", AllStrategies),
			RandomIterations: getEnvInt("RANDOM_ITERATIONS", 200),
			PostalPrefixFrom: 1,
			PostalPrefixTo:   99,
		},
		Export: ExportConfig{
			Dir:    getEnv("OUTPUT_DIR", "."),
			Prefix: getEnv("EXPORT_PREFIX", "datev"),
		},
		Ledger: LedgerConfig{
			SQLitePath:  os.Getenv("LEDGER_DB_PATH"),
			PostgresURL: os.Getenv("DATABASE_URL"),
		},
		S3: S3Config{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          getEnv("S3_REGION", "eu-central-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			Prefix:          getEnv("S3_PREFIX", "exports/"),
		},
		LogFile:  getEnv("LOG_FILE", "scraper.log"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.loadStrategyFile(getEnv("STRATEGIES_FILE", "config/strategies.yaml")); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadStrategyFile overlays non-empty values from a YAML file. A missing
// file is not an error.
func (c *Config) loadStrategyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var file StrategyConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	s := &c.Strategies
	if len(file.Enabled) > 0 && os.Getenv("STRATEGIES") == "" {
		s.Enabled = file.Enabled
	}
	if file.RandomIterations > 0 && os.Getenv("RANDOM_ITERATIONS") == "" {
		s.RandomIterations = file.RandomIterations
	}
	if len(file.Cities) > 0 {
		s.Cities = file.Cities
	}
	if len(file.Industries) > 0 {
		s.Industries = file.Industries
	}
	if len(file.Surnames) > 0 {
		s.Surnames = file.Surnames
	}
	if file.PostalPrefixFrom > 0 {
		s.PostalPrefixFrom = file.PostalPrefixFrom
	}
	if file.PostalPrefixTo > 0 {
		s.PostalPrefixTo = file.PostalPrefixTo
	}
	return nil
}

func (c *Config) Validate() error {
	known := make(map[string]bool, len(AllStrategies))
	for _, name := range AllStrategies {
		known[name] = true
	}
	for _, name := range c.Strategies.Enabled {
		if !known[name] {
			return fmt.Errorf("unknown strategy %q (want one of %s)", name, strings.Join(AllStrategies, ", "))
		}
	}
	s := c.Strategies
	if s.PostalPrefixFrom < 1 || s.PostalPrefixTo > 99 || s.PostalPrefixFrom > s.PostalPrefixTo {
		return fmt.Errorf("invalid postal prefix range %02d..%02d", s.PostalPrefixFrom, s.PostalPrefixTo)
	}
	if c.Pacing.SearchDelayMax < c.Pacing.SearchDelayMin || c.Pacing.StrategyDelayMax < c.Pacing.StrategyDelayMin {
		return fmt.Errorf("delay max must not be below delay min")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvMillis(key string, defaultMS int) time.Duration {
	return time.Duration(getEnvInt(key, defaultMS)) * time.Millisecond
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return append([]string(nil), defaultVal...)
	}
	return ParseList(val)
}

// ParseList splits a comma-separated list of names, lowercasing each and
// dropping empty items.
func ParseList(val string) []string {
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(strings.ToLower(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}
