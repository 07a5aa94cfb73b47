package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline-backend/internal/adapters/aggregator"
	"github.com/ledgerline/ledgerline-backend/internal/application/linking"
	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
	"github.com/ledgerline/ledgerline-backend/internal/domain/matcher"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/config"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/logging"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/storage"
)

func newMatchCommand() *cobra.Command {
	var manualFile string
	var linkedFile string
	var exclude []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Propose matches between manual and linked accounts",
		Long: "Match runs the account matcher over the accounts in storage.\n" +
			"With --manual-file and --linked-file it matches JSON fixture files\n" +
			"instead, without touching the database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			if manualFile != "" || linkedFile != "" {
				if manualFile == "" || linkedFile == "" {
					return fmt.Errorf("--manual-file and --linked-file must be used together")
				}
				return runMatchFiles(cmd.Context(), cmd.OutOrStdout(), cfg, manualFile, linkedFile, exclude, asJSON)
			}
			return runMatchStorage(cmd.Context(), cmd.OutOrStdout(), cfg, exclude, asJSON)
		},
	}

	cmd.Flags().StringVar(&manualFile, "manual-file", "", "JSON file of manual accounts to match instead of storage")
	cmd.Flags().StringVar(&linkedFile, "linked-file", "", "JSON snapshot of linked accounts to match instead of storage")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "linked account IDs to exclude from matching")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print matches as JSON")

	return cmd
}

func runMatchStorage(ctx context.Context, out io.Writer, cfg *config.Config, exclude []string, asJSON bool) error {
	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc := linking.NewService(store, cfg.Matching, nil,
		logging.NewLoggerWithSystem(cfg.Observability.Logging, "matcher"))
	matches, err := svc.Matches(ctx, linking.MatchOptions{ExcludeLinkedIDs: exclude})
	if err != nil {
		return err
	}
	return printMatches(out, matches, asJSON)
}

func runMatchFiles(ctx context.Context, out io.Writer, cfg *config.Config, manualPath, linkedPath string, exclude []string, asJSON bool) error {
	manual, err := loadManualFile(manualPath)
	if err != nil {
		return err
	}
	linked, err := loadLinkedFile(linkedPath)
	if err != nil {
		return err
	}

	// Preview runs entirely on the provided slices, so no storage is
	// opened here.
	svc := linking.NewService(nil, cfg.Matching, nil,
		logging.NewLoggerWithSystem(cfg.Observability.Logging, "matcher"))
	matches, err := svc.Preview(ctx, manual, linked, exclude)
	if err != nil {
		return err
	}
	return printMatches(out, matches, asJSON)
}

func loadManualFile(path string) ([]*accounts.Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manual accounts file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return aggregator.ParseManualAccounts(f)
}

func loadLinkedFile(path string) ([]*accounts.Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open linked snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()
	return aggregator.ParseLinkedSnapshot(f)
}

func printMatches(out io.Writer, matches []matcher.AccountMatch, asJSON bool) error {
	if asJSON {
		if matches == nil {
			matches = []matcher.AccountMatch{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	if len(matches) == 0 {
		fmt.Fprintln(out, "no matches found")
		return nil
	}

	fmt.Fprintf(out, "%d proposed match(es)\n", len(matches))
	for _, m := range matches {
		fmt.Fprintf(out, "\n[%3d] %s  ->  %s\n", m.Score, describeAccount(m.Manual), describeAccount(m.Linked))
		for _, r := range m.Reasons {
			fmt.Fprintf(out, "      - %s\n", r)
		}
	}
	return nil
}

// describeAccount renders an account as a one-line label for match output.
func describeAccount(a *accounts.Account) string {
	desc := a.Name
	if a.HasInstitution() {
		desc += " @ " + a.Institution()
	}
	if a.HasLast4() {
		desc += " ****" + a.Last4()
	}
	return desc
}
