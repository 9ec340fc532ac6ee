package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote SYMBOL...",
	Short: "Look up current stock prices",
	Long: `Print the company name and latest price for each symbol.

Example:
  papertrade quote AAPL MSFT`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, sym := range args {
		q, err := a.quotes.Quote(cmd.Context(), sym)
		if err != nil {
			return fmt.Errorf("quote %s: %w", sym, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s\n",
			q.Name, q.Symbol, formatMoney(q.Price, a.cfg.Account.Currency))
	}
	return nil
}
