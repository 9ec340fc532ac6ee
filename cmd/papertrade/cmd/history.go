package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/rustyeddy/papertrade/journal"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show an account's transactions",
	Long: `List every committed buy and sell in commit order. Sales show
negative shares and a positive amount.

Examples:
  papertrade history --user alice
  papertrade history --user alice --csv > alice.csv`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyCSV bool

func init() {
	rootCmd.AddCommand(historyCmd)
	addUserFlag(historyCmd)
	historyCmd.Flags().BoolVar(&historyCSV, "csv", false, "write CSV instead of a table")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	acct, err := a.account(ctx, username)
	if err != nil {
		return err
	}

	txs, err := a.store.Transactions(ctx, acct.ID)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	if historyCSV {
		return journal.WriteCSV(cmd.OutOrStdout(), txs)
	}

	cur := a.cfg.Account.Currency
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TRANSACTED\tSYMBOL\tSHARES\tPRICE\tAMOUNT")
	for _, t := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			t.Time.Local().Format("2006-01-02 15:04:05"), t.Symbol, t.Shares,
			formatMoney(t.Price, cur), formatMoney(t.Amount(), cur))
	}
	return tw.Flush()
}
