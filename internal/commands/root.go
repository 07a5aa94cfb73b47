// Package commands defines the ledgerline CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline-backend/internal/buildinfo"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ledgerline",
		Short:   "Account reconciliation backend for personal finance data",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "config.yaml", "path to the config file")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newAccountsCommand())
	rootCmd.AddCommand(newMatchCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newSuggestCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// loadConfig resolves the --config flag and loads configuration, falling
// back to environment variables when the file is absent.
func loadConfig(cmd *cobra.Command) *config.Config {
	path, err := cmd.Flags().GetString("config")
	if err != nil || path == "" {
		return config.LoadOrEnv()
	}
	return config.LoadOrEnvWithPath(path)
}
