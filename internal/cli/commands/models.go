package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewModelsCommand creates the models command.
func NewModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models <list>",
		Short: "Parse and resolve a model list",
		Long: `Parse a comma-separated model list, resolve composed-model references
and print the resulting composed models together with the distinct
source models they are built from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := getEngine(cmd)
			cfg := getConfig(cmd)

			models, sources, err := eng.ParseModelList(args[0])
			if err != nil {
				return err
			}

			modelRows := make([]table.Row, len(models))
			for i, m := range models {
				modelRows[i] = table.Row{m.ID, m.Expression()}
			}
			renderTable(cmd.OutOrStdout(), cfg.Output,
				table.Row{"Model", "Expression"}, modelRows)

			if len(sources) > 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
				sourceRows := make([]table.Row, len(sources))
				for i, src := range sources {
					sourceRows[i] = table.Row{src.Name(), src.Expression()}
				}
				renderTable(cmd.OutOrStdout(), cfg.Output,
					table.Row{"Source", "Expression"}, sourceRows)
			}
			return nil
		},
	}
}
