package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STRATEGIES_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultSearchURL, cfg.Browser.SearchURL)
	assert.Equal(t, 50, cfg.Browser.ResultsPerPage)
	assert.Equal(t, 15*time.Second, cfg.Browser.NavTimeout)
	assert.Equal(t, 2*time.Second, cfg.Pacing.SearchDelayMin)
	assert.Equal(t, 4*time.Second, cfg.Pacing.SearchDelayMax)
	assert.Equal(t, AllStrategies, cfg.Strategies.Enabled)
	assert.Equal(t, 200, cfg.Strategies.RandomIterations)
	assert.Equal(t, "datev", cfg.Export.Prefix)
	assert.False(t, cfg.S3.Enabled())
	assert.Empty(t, cfg.Ledger.SQLitePath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STRATEGIES_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("STRATEGIES", "City, postal")
	t.Setenv("RANDOM_ITERATIONS", "5")
	t.Setenv("HEADLESS", "true")
	t.Setenv("SEARCH_DELAY_MIN_MS", "10")
	t.Setenv("SEARCH_DELAY_MAX_MS", "20")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "postal"}, cfg.Strategies.Enabled)
	assert.Equal(t, 5, cfg.Strategies.RandomIterations)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 10*time.Millisecond, cfg.Pacing.SearchDelayMin)
}

func TestLoad_StrategyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
enabled: [surname]
random_iterations: 3
cities: [Jena, Gera]
postal_prefix_from: 10
postal_prefix_to: 12
`), 0644))
	t.Setenv("STRATEGIES_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"surname"}, cfg.Strategies.Enabled)
	assert.Equal(t, 3, cfg.Strategies.RandomIterations)
	assert.Equal(t, []string{"Jena", "Gera"}, cfg.Strategies.Cities)
	assert.Empty(t, cfg.Strategies.Surnames)
	assert.Equal(t, 10, cfg.Strategies.PostalPrefixFrom)
	assert.Equal(t, 12, cfg.Strategies.PostalPrefixTo)
}

func TestLoad_UnknownStrategy(t *testing.T) {
	t.Setenv("STRATEGIES_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("STRATEGIES", "random,zipcode")

	_, err := Load()
	assert.ErrorContains(t, err, `unknown strategy "zipcode"`)
}

func TestValidate_PostalRange(t *testing.T) {
	cfg := &Config{Strategies: StrategyConfig{PostalPrefixFrom: 50, PostalPrefixTo: 10}}
	assert.Error(t, cfg.Validate())
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"city", "postal"}, ParseList(" City ,,POSTAL, "))
	assert.Empty(t, ParseList(" , "))
}
