package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ledgerline/ledgerline-backend/internal/domain/institutions"
)

func newSuggestCommand() *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "suggest <query>",
		Short: "Suggest canonical institution names for free text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd.OutOrStdout(), args[0], limit, asJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", institutions.DefaultLimit, "maximum suggestions to return")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print suggestions as JSON")

	return cmd
}

func runSuggest(out io.Writer, query string, limit int, asJSON bool) error {
	suggester := institutions.NewSuggester(institutions.DefaultDirectory())
	suggestions := suggester.Suggest(query, limit)

	if asJSON {
		if suggestions == nil {
			suggestions = []institutions.Suggestion{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(suggestions)
	}

	if len(suggestions) == 0 {
		fmt.Fprintf(out, "no suggestions for %q\n", query)
		return nil
	}

	for _, s := range suggestions {
		fmt.Fprintf(out, "%.2f  %s\n", s.Score, s.Name)
	}
	return nil
}
