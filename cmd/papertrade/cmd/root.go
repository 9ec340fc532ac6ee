package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rustyeddy/papertrade/broker"
	"github.com/rustyeddy/papertrade/config"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/market"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "papertrade",
	Short: "A paper stock brokerage with a SQLite ledger",
	Long: `Papertrade runs simulated stock accounts against live quotes.

It provides tools for:
  - Registering accounts with a starting cash balance
  - Looking up current stock quotes
  - Buying and selling shares against an append-only ledger
  - Valuing a portfolio at current market prices
  - Reviewing and exporting transaction history

Complete documentation is available at https://github.com/rustyeddy/papertrade`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	dbPath   string
	logLevel string
	username string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default settings when empty)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite ledger (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
}

// addUserFlag registers the --user flag on commands that act on an account.
func addUserFlag(c *cobra.Command) {
	c.Flags().StringVarP(&username, "user", "u", "", "account username (required)")
	_ = c.MarkFlagRequired("user")
}

// app holds the handles one command invocation needs.
type app struct {
	cfg    *config.Config
	store  *journal.SQLite
	quotes market.Quoter
	log    *slog.Logger
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// openApp opens the store and, when needQuotes is set, the quote source.
func openApp(cmd *cobra.Command, needQuotes bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	a := &app{cfg: cfg, log: logger}
	if needQuotes {
		a.quotes, err = cfg.Quoter()
		if err != nil {
			return nil, fmt.Errorf("quotes: %w", err)
		}
	}

	a.store, err = cfg.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	logger.Debug("ledger opened", "path", cfg.Store.Path)
	return a, nil
}

func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *app) engine() *broker.Engine {
	return broker.NewEngine(a.store, a.quotes, broker.WithLogger(a.log))
}

func (a *app) account(ctx context.Context, name string) (broker.Account, error) {
	acct, err := a.store.AccountByUsername(ctx, name)
	if err != nil {
		return broker.Account{}, fmt.Errorf("user %q: %w", name, err)
	}
	return acct, nil
}
