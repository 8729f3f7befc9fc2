package transform

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/heliolab/seriesq/pkg/array"
)

// OpSpec is one step of a declarative transformation pipeline.
type OpSpec struct {
	Op   string         `mapstructure:"op" koanf:"op" yaml:"op" json:"op"`
	Args map[string]any `mapstructure:"args" koanf:"args" yaml:"args,omitempty" json:"args,omitempty"`
}

// Builder constructs a transform producing the given variable from the
// loosely typed argument map of an OpSpec.
type Builder func(variable string, args map[string]any) (Transform, error)

// Registry maps operation names to transform builders. Registries are
// explicit values so callers can carry differently configured instances
// side by side.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry returns a registry populated with the built-in operations
// index, broadcast and ravel.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}
	r.Register("index", buildIndex)
	r.Register("broadcast", buildBroadcast)
	r.Register("ravel", buildRavel)
	return r
}

// Register binds a builder to an operation name, replacing any previous
// binding.
func (r *Registry) Register(op string, b Builder) {
	r.builders[op] = b
}

// ParseSpec builds the pipeline producing the given variable from an
// ordered list of operation specs.
func (r *Registry) ParseSpec(variable string, spec []OpSpec) (Transform, error) {
	transforms := make([]Transform, 0, len(spec))
	for _, item := range spec {
		builder, ok := r.builders[item.Op]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, item.Op)
		}
		t, err := builder(variable, item.Args)
		if err != nil {
			return nil, fmt.Errorf("cannot build %q transformation of %s: %w",
				item.Op, variable, err)
		}
		transforms = append(transforms, t)
	}
	return Compose(transforms...)
}

// decodeArgs decodes a loosely typed argument map into a typed argument
// struct, converting compatible scalar types along the way.
func decodeArgs(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(args)
}

type indexArgs struct {
	Helper string `mapstructure:"helper"`
	Values []any  `mapstructure:"values"`
	Dtype  string `mapstructure:"dtype"`
}

func buildIndex(variable string, args map[string]any) (Transform, error) {
	var decoded indexArgs
	if err := decodeArgs(args, &decoded); err != nil {
		return nil, err
	}
	if decoded.Helper == "" {
		return nil, fmt.Errorf("missing helper variable")
	}
	table, err := buildTable(decoded.Values, decoded.Dtype)
	if err != nil {
		return nil, err
	}
	return NewIndex(variable, decoded.Helper, table), nil
}

// buildTable converts the raw side-table values to a one-dimensional
// array of the requested element type. The default type is float64.
func buildTable(values []any, dtype string) (array.Array, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("empty side table")
	}
	switch dtype {
	case "", "float64":
		return decodeTable[float64](values)
	case "int64":
		return decodeTable[int64](values)
	case "string":
		return decodeTable[string](values)
	case "bool":
		return decodeTable[bool](values)
	}
	return nil, fmt.Errorf("unsupported side table type %q", dtype)
}

func decodeTable[T array.Element](values []any) (array.Array, error) {
	out := make([]T, 0, len(values))
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(values); err != nil {
		return nil, fmt.Errorf("invalid side table: %w", err)
	}
	return array.Vector(out...), nil
}

type broadcastArgs struct {
	Shape []int `mapstructure:"shape"`
}

func buildBroadcast(variable string, args map[string]any) (Transform, error) {
	var decoded broadcastArgs
	if err := decodeArgs(args, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Shape) == 0 {
		return nil, fmt.Errorf("missing record shape")
	}
	for _, dim := range decoded.Shape {
		if dim < 1 {
			return nil, fmt.Errorf("invalid record shape %v", decoded.Shape)
		}
	}
	return NewBroadcast(variable, decoded.Shape), nil
}

func buildRavel(variable string, args map[string]any) (Transform, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("unexpected arguments %v", args)
	}
	return NewRavel(variable), nil
}
