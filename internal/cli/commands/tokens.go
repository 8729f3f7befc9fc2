package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/heliolab/seriesq/pkg/parser"
	"github.com/heliolab/seriesq/pkg/token"
)

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	var grammar string

	cmd := &cobra.Command{
		Use:   "tokens <input>",
		Short: "Tokenize an expression",
		Long:  `Tokenize an expression with one of the grammar lexers and dump the token stream.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := getEngine(cmd)
			cfg := getConfig(cmd)
			limits := eng.Limits()

			var tokens []token.Token
			var err error
			switch grammar {
			case "filter":
				tokens, err = parser.NewFilterLexerWithLimits(args[0], limits).Tokenize()
			case "model":
				tokens, err = parser.NewModelLexerWithLimits(args[0], limits).Tokenize()
			case "variable", "vars":
				tokens, err = parser.NewVariableLexerWithLimits(args[0], limits).Tokenize()
			default:
				return fmt.Errorf("unknown grammar %q (want filter, model or variable)", grammar)
			}
			if err != nil {
				return err
			}

			rows := make([]table.Row, len(tokens))
			for i, tok := range tokens {
				rows[i] = table.Row{
					i + 1, tok.Type.String(), tok.Literal, tok.Pos.Line, tok.Pos.Column,
				}
			}
			renderTable(cmd.OutOrStdout(), cfg.Output,
				table.Row{"#", "Type", "Literal", "Line", "Col"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&grammar, "grammar", "g", "filter", "Grammar to tokenize with (filter|model|variable)")
	_ = cmd.RegisterFlagCompletionFunc("grammar", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"filter", "model", "variable"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
