package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rustyeddy/papertrade/broker"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var buyCmd = &cobra.Command{
	Use:   "buy SYMBOL SHARES",
	Short: "Buy shares at the current price",
	Long: `Buy whole shares of a stock at its current quoted price.

Example:
  papertrade buy AAPL 10 --user alice`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrade(cmd, args, (*broker.Engine).Buy, "Bought")
	},
}

var sellCmd = &cobra.Command{
	Use:   "sell SYMBOL SHARES",
	Short: "Sell held shares at the current price",
	Long: `Sell whole shares of a stock the account holds at its current quoted price.

Example:
  papertrade sell AAPL 5 --user alice`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrade(cmd, args, (*broker.Engine).Sell, "Sold")
	},
}

type tradeFunc func(e *broker.Engine, ctx context.Context, accountID int64, symbol string, quantity int64) (broker.Receipt, error)

func init() {
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(sellCmd)
	addUserFlag(buyCmd)
	addUserFlag(sellCmd)
}

func parseShares(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("shares %q: %w", s, broker.ErrInvalidQuantity)
	}
	return n, nil
}

func runTrade(cmd *cobra.Command, args []string, trade tradeFunc, verb string) error {
	shares, err := parseShares(args[1])
	if err != nil {
		return err
	}

	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	acct, err := a.account(ctx, username)
	if err != nil {
		return err
	}

	r, err := trade(a.engine(), ctx, acct.ID, args[0], shares)
	if err != nil {
		return err
	}

	cur := a.cfg.Account.Currency
	tx := r.Transaction
	total := tx.Price.Mul(decimal.NewFromInt(shares))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %d %s at %s (total %s)\n",
		verb, shares, tx.Symbol, formatMoney(tx.Price, cur), formatMoney(total, cur))
	fmt.Fprintf(cmd.OutOrStdout(), "  Cash: %s\n", formatMoney(r.Cash, cur))
	return nil
}
