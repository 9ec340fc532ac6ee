package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/rustyeddy/papertrade/portfolio"
	"github.com/spf13/cobra"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Value an account at current prices",
	Long: `List every open position with its current price and market value,
followed by the cash balance and the account total.

Example:
  papertrade portfolio --user alice`,
	Args: cobra.NoArgs,
	RunE: runPortfolio,
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
	addUserFlag(portfolioCmd)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
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

	v, err := portfolio.NewValuator(a.store, a.quotes).Valuate(ctx, acct.ID)
	if err != nil {
		return fmt.Errorf("valuate: %w", err)
	}

	cur := a.cfg.Account.Currency
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SYMBOL\tNAME\tSHARES\tPRICE\tTOTAL\t")
	for _, h := range v.Holdings {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t\n",
			h.Symbol, h.Name, h.Shares, formatMoney(h.Price, cur), formatMoney(h.Value, cur))
	}
	fmt.Fprintf(tw, "CASH\t\t\t\t%s\t\n", formatMoney(v.Cash, cur))
	fmt.Fprintf(tw, "TOTAL\t\t\t\t%s\t\n", formatMoney(v.Total, cur))
	return tw.Flush()
}
