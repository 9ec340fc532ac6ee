package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/quote"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the complete papertrade configuration.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Quotes  QuotesConfig  `json:"quotes" yaml:"quotes"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// AccountConfig holds the terms new accounts are opened with.
type AccountConfig struct {
	StartingCash decimal.Decimal `json:"starting_cash" yaml:"starting_cash"`
	Currency     string          `json:"currency" yaml:"currency"`
}

type StoreConfig struct {
	Path string `json:"path" yaml:"path"`
}

// QuotesConfig selects where prices come from.
type QuotesConfig struct {
	Provider string                 `json:"provider" yaml:"provider"` // "http" or "static"
	BaseURL  string                 `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	TokenEnv string                 `json:"token_env,omitempty" yaml:"token_env,omitempty"`
	Timeout  string                 `json:"timeout,omitempty" yaml:"timeout,omitempty"` // e.g. "10s"
	Static   map[string]StaticQuote `json:"static,omitempty" yaml:"static,omitempty"`
}

type StaticQuote struct {
	Name  string          `json:"name" yaml:"name"`
	Price decimal.Decimal `json:"price" yaml:"price"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// ParseTimeout converts the timeout string to a duration. Empty means zero.
func (q QuotesConfig) ParseTimeout() (time.Duration, error) {
	if q.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(q.Timeout)
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if money.GetCurrency(c.Account.Currency) == nil {
		return fmt.Errorf("unknown currency: %s", c.Account.Currency)
	}
	if c.Account.StartingCash.IsNegative() {
		return fmt.Errorf("account.starting_cash must not be negative")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}

	switch c.Quotes.Provider {
	case "http":
		if c.Quotes.TokenEnv == "" {
			return fmt.Errorf("quotes.token_env is required for the http provider")
		}
	case "static":
		if len(c.Quotes.Static) == 0 {
			return fmt.Errorf("quotes.static needs at least one symbol for the static provider")
		}
		for sym, q := range c.Quotes.Static {
			if market.NormalizeSymbol(sym) == "" {
				return fmt.Errorf("quotes.static has an empty symbol")
			}
			if !q.Price.IsPositive() {
				return fmt.Errorf("quotes.static.%s.price must be positive", sym)
			}
		}
	default:
		return fmt.Errorf("quotes.provider must be 'http' or 'static'")
	}

	if d, err := c.Quotes.ParseTimeout(); err != nil {
		return fmt.Errorf("quotes.timeout: %w", err)
	} else if d < 0 {
		return fmt.Errorf("quotes.timeout must not be negative")
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			StartingCash: decimal.NewFromInt(10000),
			Currency:     "USD",
		},
		Store: StoreConfig{
			Path: "./papertrade.sqlite",
		},
		Quotes: QuotesConfig{
			Provider: "http",
			BaseURL:  quote.CloudURL,
			TokenEnv: "API_KEY",
			Timeout:  "10s",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// OpenStore opens the SQLite ledger named by the config.
func (c *Config) OpenStore(opts ...journal.Option) (*journal.SQLite, error) {
	return journal.NewSQLite(c.Store.Path, opts...)
}

// Quoter builds the configured quote source.
func (c *Config) Quoter() (market.Quoter, error) {
	switch c.Quotes.Provider {
	case "static":
		sq := market.NewStaticQuotes()
		for sym, q := range c.Quotes.Static {
			sq.Set(sym, q.Name, q.Price)
		}
		return sq, nil

	case "http":
		token := os.Getenv(c.Quotes.TokenEnv)
		if token == "" {
			return nil, fmt.Errorf("%s not set", c.Quotes.TokenEnv)
		}
		timeout, err := c.Quotes.ParseTimeout()
		if err != nil {
			return nil, fmt.Errorf("quotes.timeout: %w", err)
		}
		return quote.NewClient(c.Quotes.BaseURL, token, timeout), nil
	}
	return nil, fmt.Errorf("unknown quote provider %q", c.Quotes.Provider)
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level must be one of debug, info, warn, error")
}

// NewLogger returns a text logger writing to w at the configured level.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
