package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/heliolab/seriesq/internal/engine"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive expression shell",
		Long: `Start an interactive shell parsing expressions and echoing their
canonical forms. The active grammar is switched with .grammar.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, getEngine(cmd))
		},
	}
}

var replCompleter = readline.NewPrefixCompleter(
	readline.PcItem(".grammar",
		readline.PcItem("filter"),
		readline.PcItem("model"),
		readline.PcItem("vars"),
	),
	readline.PcItem(".help"),
	readline.PcItem(".quit"),
)

func runREPL(cmd *cobra.Command, eng *engine.Engine) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "seriesq> ",
		AutoComplete:    replCompleter,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "seriesq expression shell")
	_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	grammar := "filter"
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if line == ".quit" || line == ".exit" {
				break
			}
			grammar = handleREPLCommand(out, line, grammar)
			continue
		}

		if err := evalREPLLine(out, eng, grammar, line); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}
	return nil
}

func handleREPLCommand(out io.Writer, line, grammar string) string {
	fields := strings.Fields(line)
	switch fields[0] {
	case ".help":
		_, _ = fmt.Fprintln(out, "Commands:")
		_, _ = fmt.Fprintln(out, "  .grammar [filter|model|vars]   show or switch the active grammar")
		_, _ = fmt.Fprintln(out, "  .help                          show this help")
		_, _ = fmt.Fprintln(out, "  .quit                          exit the shell")
	case ".grammar":
		if len(fields) < 2 {
			_, _ = fmt.Fprintf(out, "grammar: %s\n", grammar)
			return grammar
		}
		switch fields[1] {
		case "filter", "model", "vars":
			_, _ = fmt.Fprintf(out, "grammar: %s\n", fields[1])
			return fields[1]
		default:
			_, _ = fmt.Fprintf(out, "unknown grammar %q (want filter, model or vars)\n", fields[1])
		}
	default:
		_, _ = fmt.Fprintf(out, "unknown command %s\n", fields[0])
	}
	return grammar
}

func evalREPLLine(out io.Writer, eng *engine.Engine, grammar, line string) error {
	switch grammar {
	case "model":
		models, sources, err := eng.ParseModelList(line)
		if err != nil {
			return err
		}
		for _, m := range models {
			_, _ = fmt.Fprintf(out, "%s = %s\n", m.ID, m.Expression())
		}
		for _, src := range sources {
			_, _ = fmt.Fprintf(out, "source: %s\n", src.Name())
		}
	case "vars":
		variables, err := eng.ParseVariableList(line)
		if err != nil {
			return err
		}
		for _, v := range variables {
			_, _ = fmt.Fprintf(out, "%s = %s\n", v.Name, v.Source)
		}
	default:
		filters, err := eng.ParseFilters(line)
		if err != nil {
			return err
		}
		for _, f := range filters {
			_, _ = fmt.Fprintf(out, "%s   [%s]\n",
				f.String(), strings.Join(f.RequiredVariables(), ", "))
		}
	}
	return nil
}
