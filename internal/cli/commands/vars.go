package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewVarsCommand creates the vars command.
func NewVarsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "vars <list>",
		Short: "Parse a variable alias list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := getEngine(cmd)
			cfg := getConfig(cmd)

			variables, err := eng.ParseVariableList(args[0])
			if err != nil {
				return err
			}
			if len(variables) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "(no variables)")
				return nil
			}

			rows := make([]table.Row, len(variables))
			for i, v := range variables {
				rows[i] = table.Row{v.Name, v.Source}
			}
			renderTable(cmd.OutOrStdout(), cfg.Output,
				table.Row{"Name", "Source"}, rows)
			return nil
		},
	}
}
