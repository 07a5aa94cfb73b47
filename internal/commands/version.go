package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline-backend/internal/buildinfo"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ledgerline "+buildinfo.Summary())
		},
	}
}
