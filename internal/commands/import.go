package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline-backend/internal/adapters/aggregator"
	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/storage"
)

func newImportCommand() *cobra.Command {
	var manual bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import accounts from a JSON snapshot",
		Long: "Import reads an aggregator snapshot and stores its accounts as\n" +
			"linked accounts. Re-importing a snapshot replaces existing rows\n" +
			"because provider account IDs are stable. With --manual the file is\n" +
			"read as a list of manually entered accounts instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			var store storage.Repository
			if !dryRun {
				store, err = storage.NewStorage(cfg.Storage.DatabasePath)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
			}

			return runImport(cmd.OutOrStdout(), store, f, manual, dryRun)
		},
	}

	cmd.Flags().BoolVar(&manual, "manual", false, "read the file as manually entered accounts")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and print without writing to storage")

	return cmd
}

// runImport parses accounts from r and saves them. With dryRun the repo
// is never touched and may be nil.
func runImport(out io.Writer, repo storage.Repository, r io.Reader, manual, dryRun bool) error {
	var parsed []*accounts.Account
	var err error
	if manual {
		parsed, err = aggregator.ParseManualAccounts(r)
	} else {
		parsed, err = aggregator.ParseLinkedSnapshot(r)
	}
	if err != nil {
		return err
	}

	for _, a := range parsed {
		if dryRun {
			fmt.Fprintf(out, "would import %s\n", describeAccount(a))
			continue
		}
		if err := repo.SaveAccount(a); err != nil {
			return fmt.Errorf("failed to save account %s: %w", a.ID, err)
		}
	}

	side := "linked"
	if manual {
		side = "manual"
	}
	if dryRun {
		fmt.Fprintf(out, "%d %s account(s) parsed (dry run)\n", len(parsed), side)
		return nil
	}
	fmt.Fprintf(out, "imported %d %s account(s)\n", len(parsed), side)
	return nil
}
