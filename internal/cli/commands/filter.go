package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewFilterCommand creates the filter command.
func NewFilterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "filter <expression>",
		Short: "Parse a filter expression",
		Long: `Parse a filter expression and print the resulting filters in their
canonical form, together with the dataset variables each one reads.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := getEngine(cmd)
			cfg := getConfig(cmd)

			filters, err := eng.ParseFilters(args[0])
			if err != nil {
				return err
			}
			if len(filters) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "(no filters)")
				return nil
			}

			rows := make([]table.Row, len(filters))
			for i, f := range filters {
				rows[i] = table.Row{
					i + 1, f.String(), strings.Join(f.RequiredVariables(), ", "),
				}
			}
			renderTable(cmd.OutOrStdout(), cfg.Output,
				table.Row{"#", "Filter", "Variables"}, rows)
			return nil
		},
	}
}
