package filter

import (
	"fmt"
	"strings"

	"github.com/heliolab/seriesq/pkg/parser"
)

// ConstructionError reports a predicate node that could not be turned into
// a filter.
type ConstructionError struct {
	Tag     string
	Message string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cannot construct %q filter: %s", e.Tag, e.Message)
}

// Constructor builds a filter from the arguments extracted from a parsed
// predicate node.
type Constructor func(args ...any) (Filter, error)

// Registry maps constructor tags to filter constructors. Registries are
// explicit values so callers can carry differently configured instances
// side by side.
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry returns a registry populated with the default constructors
// for every predicate tag of the filter grammar.
func NewRegistry() *Registry {
	r := &Registry{constructors: make(map[string]Constructor)}
	r.Register("equal", constructEqual)
	r.Register("not_equal", constructNotEqual)
	r.Register("greater_than", ordinalConstructor("greater_than", func(v Variable, value float64) Filter {
		return NewGreaterThan(v, value)
	}))
	r.Register("less_than", ordinalConstructor("less_than", func(v Variable, value float64) Filter {
		return NewLessThan(v, value)
	}))
	r.Register("greater_than_or_equal", ordinalConstructor("greater_than_or_equal", func(v Variable, value float64) Filter {
		return NewGreaterThanOrEqual(v, value)
	}))
	r.Register("less_than_or_equal", ordinalConstructor("less_than_or_equal", func(v Variable, value float64) Filter {
		return NewLessThanOrEqual(v, value)
	}))
	r.Register("bitmask_equal", constructBitmask(false))
	r.Register("bitmask_not_equal", constructBitmask(true))
	r.Register("not", constructNot)
	r.Register("conjunction", junctionConstructor("conjunction", func(members []Filter) Filter {
		return &Conjunction{Predicates: members}
	}))
	r.Register("disjunction", junctionConstructor("disjunction", func(members []Filter) Filter {
		return &Disjunction{Predicates: members}
	}))
	return r
}

// Register binds a constructor to a tag, replacing any previous binding.
func (r *Registry) Register(tag string, c Constructor) {
	r.constructors[tag] = c
}

// Construct invokes the constructor registered for the tag.
func (r *Registry) Construct(tag string, args ...any) (Filter, error) {
	c, ok := r.constructors[tag]
	if !ok {
		return nil, &ConstructionError{Tag: tag, Message: "no constructor registered"}
	}
	return c(args...)
}

// Build turns a parsed filter node into a runtime filter.
func (r *Registry) Build(node parser.FilterNode) (Filter, error) {
	switch node := node.(type) {
	case *parser.Comparison:
		return r.Construct(node.Tag(), node.Variable, node.Value)
	case *parser.Bitmask:
		return r.Construct(node.Tag(), node.Variable, node.Mask, node.Value)
	case *parser.Not:
		child, err := r.Build(node.Child)
		if err != nil {
			return nil, err
		}
		return r.Construct(node.Tag(), child)
	case *parser.Junction:
		members := make([]Filter, len(node.Members))
		for i, m := range node.Members {
			child, err := r.Build(m)
			if err != nil {
				return nil, err
			}
			members[i] = child
		}
		return r.Construct(node.Tag(), members)
	default:
		return nil, &ConstructionError{Tag: node.Tag(), Message: fmt.Sprintf("unsupported node type %T", node)}
	}
}

// BuildList turns a parsed filter expression into a deduplicated list of
// filters. A top-level conjunction contributes its members individually;
// any other node contributes a single filter.
func (r *Registry) BuildList(root parser.FilterNode) ([]Filter, error) {
	nodes := []parser.FilterNode{root}
	if junction, ok := root.(*parser.Junction); ok && junction.Kind == parser.KindConjunction {
		nodes = junction.Members
	}
	filters := make([]Filter, 0, len(nodes))
	for _, node := range nodes {
		f, err := r.Build(node)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return Unique(filters), nil
}

// ParseFilters parses a filter expression into a deduplicated filter list
// using the default registry and limits. Blank input yields an empty
// list.
func ParseFilters(text string) ([]Filter, error) {
	return ParseFiltersWith(NewRegistry(), text, parser.DefaultLimits())
}

// ParseFiltersWith parses a filter expression with an explicit registry
// and limits.
func ParseFiltersWith(r *Registry, text string, limits parser.Limits) ([]Filter, error) {
	if strings.TrimSpace(text) == "" {
		return []Filter{}, nil
	}
	root, err := parser.ParseFilterExpressionWithLimits(text, limits)
	if err != nil {
		return nil, err
	}
	return r.BuildList(root)
}

// ---------- default constructors ----------

func comparisonArgs(tag string, args []any) (Variable, parser.Literal, error) {
	if len(args) != 2 {
		return Variable{}, parser.Literal{}, &ConstructionError{Tag: tag,
			Message: fmt.Sprintf("expected 2 arguments, got %d", len(args))}
	}
	ref, ok := args[0].(parser.VarRef)
	if !ok {
		return Variable{}, parser.Literal{}, &ConstructionError{Tag: tag,
			Message: fmt.Sprintf("expected variable reference, got %T", args[0])}
	}
	lit, ok := args[1].(parser.Literal)
	if !ok {
		return Variable{}, parser.Literal{}, &ConstructionError{Tag: tag,
			Message: fmt.Sprintf("expected literal value, got %T", args[1])}
	}
	return Variable{Name: ref.Name, Index: ref.Index}, lit, nil
}

// constructEqual dispatches on the literal kind: strings get a string
// comparison, the NaN sentinel an IS NaN test, everything else a numeric
// equality.
func constructEqual(args ...any) (Filter, error) {
	variable, lit, err := comparisonArgs("equal", args)
	if err != nil {
		return nil, err
	}
	switch lit.Kind {
	case parser.LiteralString:
		return NewStringEqual(variable, lit.Str), nil
	case parser.LiteralNaN:
		return NewIsNaN(variable), nil
	default:
		return NewEqual(variable, lit.Number()), nil
	}
}

func constructNotEqual(args ...any) (Filter, error) {
	variable, lit, err := comparisonArgs("not_equal", args)
	if err != nil {
		return nil, err
	}
	switch lit.Kind {
	case parser.LiteralString:
		return NewStringNotEqual(variable, lit.Str), nil
	case parser.LiteralNaN:
		return NewIsNotNaN(variable), nil
	default:
		return NewNotEqual(variable, lit.Number()), nil
	}
}

func ordinalConstructor(tag string, build func(Variable, float64) Filter) Constructor {
	return func(args ...any) (Filter, error) {
		variable, lit, err := comparisonArgs(tag, args)
		if err != nil {
			return nil, err
		}
		if !lit.IsOrdinal() {
			return nil, &ConstructionError{Tag: tag,
				Message: fmt.Sprintf("value %s is not ordinal", lit)}
		}
		return build(variable, lit.Number()), nil
	}
}

func constructBitmask(negated bool) Constructor {
	tag := "bitmask_equal"
	if negated {
		tag = "bitmask_not_equal"
	}
	return func(args ...any) (Filter, error) {
		if len(args) != 3 {
			return nil, &ConstructionError{Tag: tag,
				Message: fmt.Sprintf("expected 3 arguments, got %d", len(args))}
		}
		ref, ok := args[0].(parser.VarRef)
		if !ok {
			return nil, &ConstructionError{Tag: tag,
				Message: fmt.Sprintf("expected variable reference, got %T", args[0])}
		}
		mask, ok := args[1].(int64)
		if !ok {
			return nil, &ConstructionError{Tag: tag,
				Message: fmt.Sprintf("expected integer mask, got %T", args[1])}
		}
		value, ok := args[2].(int64)
		if !ok {
			return nil, &ConstructionError{Tag: tag,
				Message: fmt.Sprintf("expected integer value, got %T", args[2])}
		}
		variable := Variable{Name: ref.Name, Index: ref.Index}
		if negated {
			return NewBitmaskNotEqual(variable, mask, value), nil
		}
		return NewBitmaskEqual(variable, mask, value), nil
	}
}

func constructNot(args ...any) (Filter, error) {
	if len(args) != 1 {
		return nil, &ConstructionError{Tag: "not",
			Message: fmt.Sprintf("expected 1 argument, got %d", len(args))}
	}
	child, ok := args[0].(Filter)
	if !ok {
		return nil, &ConstructionError{Tag: "not",
			Message: fmt.Sprintf("expected filter argument, got %T", args[0])}
	}
	return NewNegation(child), nil
}

func junctionConstructor(tag string, build func([]Filter) Filter) Constructor {
	return func(args ...any) (Filter, error) {
		if len(args) != 1 {
			return nil, &ConstructionError{Tag: tag,
				Message: fmt.Sprintf("expected 1 argument, got %d", len(args))}
		}
		members, ok := args[0].([]Filter)
		if !ok {
			return nil, &ConstructionError{Tag: tag,
				Message: fmt.Sprintf("expected filter list, got %T", args[0])}
		}
		if len(members) == 0 {
			return nil, &ConstructionError{Tag: tag, Message: "empty member list"}
		}
		return build(members), nil
	}
}
