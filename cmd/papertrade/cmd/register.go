package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register USERNAME",
	Short: "Open a new account",
	Long: `Create an account funded with the configured starting cash.

Example:
  papertrade register alice
  papertrade register bob --credential s3cret`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

var registerCredential string

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerCredential, "credential", "", "opaque credential stored with the account")
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	acct, err := a.store.CreateAccount(cmd.Context(), args[0], registerCredential, a.cfg.Account.StartingCash)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	a.log.Info("account registered", "account", acct.ID, "username", acct.Username)

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Registered %s (account %d) with %s\n",
		acct.Username, acct.ID, formatMoney(acct.Cash, a.cfg.Account.Currency))
	return nil
}
