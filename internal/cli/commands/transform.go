package commands

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/heliolab/seriesq/pkg/transform"
)

// transformSpec is the YAML layout of a transformation spec file:
//
//	variable: A
//	pipeline:
//	  - op: index
//	    args: {helper: B, values: [1, 2, 3, 4], dtype: int64}
//	  - op: ravel
type transformSpec struct {
	Variable string             `koanf:"variable"`
	Pipeline []transform.OpSpec `koanf:"pipeline"`
}

// NewTransformCommand creates the transform command.
func NewTransformCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "transform <spec.yaml>",
		Short: "Parse a transformation spec file",
		Long: `Parse a YAML transformation spec into a pipeline and print the produced
variable and the external variables the pipeline requires.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := getEngine(cmd)

			k := koanf.New(".")
			if err := k.Load(file.Provider(args[0]), yaml.Parser()); err != nil {
				return fmt.Errorf("error reading spec file %s: %w", args[0], err)
			}
			var spec transformSpec
			if err := k.Unmarshal("", &spec); err != nil {
				return fmt.Errorf("invalid spec file %s: %w", args[0], err)
			}
			if spec.Variable == "" {
				return fmt.Errorf("spec file %s: missing variable", args[0])
			}

			t, err := eng.ParseTransformationSpec(spec.Variable, spec.Pipeline)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Produces: %s\n", t.ProducedVariable())
			_, _ = fmt.Fprintf(out, "Requires: %s\n", strings.Join(t.RequiredVariables(), ", "))
			_, _ = fmt.Fprintf(out, "Steps:    %d\n", len(spec.Pipeline))
			return nil
		},
	}
}
