package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/quote"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticConfig() *Config {
	cfg := Default()
	cfg.Quotes = QuotesConfig{
		Provider: "static",
		Static: map[string]StaticQuote{
			"AAPL": {Name: "Apple Inc.", Price: decimal.NewFromInt(150)},
		},
	}
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "USD", cfg.Account.Currency)
	assert.True(t, cfg.Account.StartingCash.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, "http", cfg.Quotes.Provider)
	assert.Equal(t, "API_KEY", cfg.Quotes.TokenEnv)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid default",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing currency",
			mutate:  func(c *Config) { c.Account.Currency = "" },
			wantErr: true,
			errMsg:  "account.currency is required",
		},
		{
			name:    "unknown currency",
			mutate:  func(c *Config) { c.Account.Currency = "ZZZ" },
			wantErr: true,
			errMsg:  "unknown currency",
		},
		{
			name:    "negative starting cash",
			mutate:  func(c *Config) { c.Account.StartingCash = decimal.NewFromInt(-1) },
			wantErr: true,
			errMsg:  "account.starting_cash must not be negative",
		},
		{
			name:   "zero starting cash",
			mutate: func(c *Config) { c.Account.StartingCash = decimal.Zero },
		},
		{
			name:    "missing store path",
			mutate:  func(c *Config) { c.Store.Path = "" },
			wantErr: true,
			errMsg:  "store.path is required",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Quotes.Provider = "carrier-pigeon" },
			wantErr: true,
			errMsg:  "quotes.provider must be",
		},
		{
			name:    "http without token env",
			mutate:  func(c *Config) { c.Quotes.TokenEnv = "" },
			wantErr: true,
			errMsg:  "quotes.token_env is required",
		},
		{
			name:    "static without quotes",
			mutate:  func(c *Config) { c.Quotes = QuotesConfig{Provider: "static"} },
			wantErr: true,
			errMsg:  "at least one symbol",
		},
		{
			name: "static with zero price",
			mutate: func(c *Config) {
				c.Quotes = QuotesConfig{Provider: "static", Static: map[string]StaticQuote{"X": {Name: "X"}}}
			},
			wantErr: true,
			errMsg:  "quotes.static.X.price must be positive",
		},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.Quotes.Timeout = "soon" },
			wantErr: true,
			errMsg:  "quotes.timeout",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Quotes.Timeout = "-1s" },
			wantErr: true,
			errMsg:  "quotes.timeout must not be negative",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "chatty" },
			wantErr: true,
			errMsg:  "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := staticConfig()
			cfg.Account.StartingCash = decimal.RequireFromString("2500.75")
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Account.Currency, loaded.Account.Currency)
			assert.True(t, cfg.Account.StartingCash.Equal(loaded.Account.StartingCash), "cash %s", loaded.Account.StartingCash)
			assert.Equal(t, cfg.Store.Path, loaded.Store.Path)
			assert.Equal(t, cfg.Quotes.Provider, loaded.Quotes.Provider)
			require.Contains(t, loaded.Quotes.Static, "AAPL")
			assert.Equal(t, "Apple Inc.", loaded.Quotes.Static["AAPL"].Name)
			assert.True(t, loaded.Quotes.Static["AAPL"].Price.Equal(decimal.NewFromInt(150)))
		})
	}
}

func TestLoadHandWrittenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papertrade.yaml")
	data := `
account:
  starting_cash: 10000
  currency: USD
store:
  path: ./ledger.sqlite
quotes:
  provider: static
  static:
    aapl:
      name: Apple Inc.
      price: 150.25
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Account.StartingCash.Equal(decimal.NewFromInt(10000)))
	assert.True(t, cfg.Quotes.Static["aapl"].Price.Equal(decimal.RequireFromString("150.25")))

	q, err := cfg.Quoter()
	require.NoError(t, err)
	got, err := q.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", got.Name)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestQuoter(t *testing.T) {
	t.Run("static", func(t *testing.T) {
		q, err := staticConfig().Quoter()
		require.NoError(t, err)
		assert.IsType(t, &market.StaticQuotes{}, q)
	})

	t.Run("http with token", func(t *testing.T) {
		t.Setenv("PAPERTRADE_TEST_TOKEN", "secret")
		cfg := Default()
		cfg.Quotes.TokenEnv = "PAPERTRADE_TEST_TOKEN"

		q, err := cfg.Quoter()
		require.NoError(t, err)
		assert.IsType(t, &quote.Client{}, q)
	})

	t.Run("http without token", func(t *testing.T) {
		t.Setenv("PAPERTRADE_TEST_TOKEN", "")
		cfg := Default()
		cfg.Quotes.TokenEnv = "PAPERTRADE_TEST_TOKEN"

		_, err := cfg.Quoter()
		assert.ErrorContains(t, err, "PAPERTRADE_TEST_TOKEN not set")
	})
}

func TestOpenStore(t *testing.T) {
	cfg := staticConfig()
	cfg.Store.Path = filepath.Join(t.TempDir(), "ledger.sqlite")

	store, err := cfg.OpenStore()
	require.NoError(t, err)
	defer store.Close()

	a, err := store.CreateAccount(context.Background(), "alice", "", cfg.Account.StartingCash)
	require.NoError(t, err)
	assert.True(t, a.Cash.Equal(decimal.NewFromInt(10000)))
}

func TestQuotesParseTimeout(t *testing.T) {
	tests := []struct {
		timeout  string
		expected string
		wantErr  bool
	}{
		{"10s", "10s", false},
		{"1m", "1m0s", false},
		{"", "0s", false},
		{"invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.timeout, func(t *testing.T) {
			d, err := QuotesConfig{Timeout: tt.timeout}.ParseTimeout()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, d.String())
			}
		})
	}
}

func TestLogLevels(t *testing.T) {
	for _, lvl := range []string{"", "debug", "info", "warn", "warning", "error", "DEBUG"} {
		_, err := LogConfig{Level: lvl}.NewLogger(os.Stderr)
		assert.NoError(t, err, lvl)
	}
	_, err := LogConfig{Level: "loud"}.NewLogger(os.Stderr)
	assert.Error(t, err)
}
