package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/storage"
)

func newAccountsCommand() *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect and edit stored accounts",
	}
	accountsCmd.AddCommand(newAccountsListCommand())
	accountsCmd.AddCommand(newAccountsAddCommand())
	return accountsCmd
}

func newAccountsListCommand() *cobra.Command {
	var manualOnly bool
	var linkedOnly bool
	var accountType string
	var institution string
	var limit int
	var offset int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if manualOnly && linkedOnly {
				return fmt.Errorf("--manual and --linked are mutually exclusive")
			}

			cfg := loadConfig(cmd)
			store, err := storage.NewStorage(cfg.Storage.DatabasePath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filters := storage.AccountFilters{
				Type:        accountType,
				Institution: institution,
				Limit:       limit,
				Offset:      offset,
			}
			if manualOnly {
				t := true
				filters.IsManual = &t
			}
			if linkedOnly {
				f := false
				filters.IsManual = &f
			}

			return runAccountsList(cmd.OutOrStdout(), store, filters, asJSON)
		},
	}

	cmd.Flags().BoolVar(&manualOnly, "manual", false, "only manually entered accounts")
	cmd.Flags().BoolVar(&linkedOnly, "linked", false, "only linked accounts")
	cmd.Flags().StringVar(&accountType, "type", "", "filter by account type")
	cmd.Flags().StringVar(&institution, "institution", "", "filter by institution name substring")
	cmd.Flags().IntVar(&limit, "limit", storage.DefaultListLimit, "maximum rows to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print accounts as JSON")

	return cmd
}

func runAccountsList(out io.Writer, repo storage.Repository, filters storage.AccountFilters, asJSON bool) error {
	result, err := repo.ListAccounts(filters)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if len(result.Accounts) == 0 {
		fmt.Fprintln(out, "no accounts found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tINSTITUTION\tLAST4\tTYPE\tSIDE\tBALANCE")
	for _, a := range result.Accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s %s\n",
			a.ID, a.Name, a.Institution(), a.Last4(), a.Type, accountSide(a),
			a.Balance.StringFixed(2), a.Currency)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d of %d account(s)\n", len(result.Accounts), result.TotalCount)
	return nil
}

func newAccountsAddCommand() *cobra.Command {
	var institution string
	var last4 string
	var accountType string
	var balance string
	var linked bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			store, err := storage.NewStorage(cfg.Storage.DatabasePath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return runAccountsAdd(cmd.OutOrStdout(), store, args[0], institution, last4, accountType, balance, linked)
		},
	}

	cmd.Flags().StringVar(&institution, "institution", "", "institution name")
	cmd.Flags().StringVar(&last4, "last4", "", "last four digits of the account number")
	cmd.Flags().StringVar(&accountType, "type", accounts.TypeOther, "account type")
	cmd.Flags().StringVar(&balance, "balance", "0", "current balance")
	cmd.Flags().BoolVar(&linked, "linked", false, "record as a linked account instead of a manual one")

	return cmd
}

func runAccountsAdd(out io.Writer, repo storage.Repository, name, institution, last4, accountType, balance string, linked bool) error {
	if !accounts.IsValidType(accountType) {
		return fmt.Errorf("account type must be one of: %s", strings.Join(accounts.ValidTypes(), ", "))
	}
	if last4 != "" && !accounts.IsValidLast4(last4) {
		return fmt.Errorf("last4 must be exactly four digits")
	}
	amount, err := decimal.NewFromString(balance)
	if err != nil {
		return fmt.Errorf("invalid balance %q: %w", balance, err)
	}

	account := accounts.NewManualAccount(name, institution, last4, accountType, amount)
	if linked {
		account = accounts.NewLinkedAccount(name, institution, last4, accountType, amount)
	}

	if err := repo.SaveAccount(account); err != nil {
		return err
	}
	fmt.Fprintf(out, "created %s account %s\n", accountSide(account), account.ID)
	return nil
}

func accountSide(a *accounts.Account) string {
	if a.IsManual {
		return "manual"
	}
	return "linked"
}
