package parser

import (
	"math"
	"strconv"
	"strings"
)

// ---------- Filter expression AST ----------

// FilterNode represents a node of a parsed filter expression.
type FilterNode interface {
	// Tag returns the constructor tag of the node, used to look up the
	// semantic constructor building the runtime predicate.
	Tag() string
	filterNode()
}

// CompareOp enumerates the comparison operators of the filter grammar.
type CompareOp int

// Comparison operators.
const (
	OpEqual CompareOp = iota
	OpNotEqual
	OpGreaterThan
	OpLessThan
	OpGreaterThanOrEqual
	OpLessThanOrEqual
)

// compareTags maps comparison operators to their constructor tags.
var compareTags = map[CompareOp]string{
	OpEqual:              "equal",
	OpNotEqual:           "not_equal",
	OpGreaterThan:        "greater_than",
	OpLessThan:           "less_than",
	OpGreaterThanOrEqual: "greater_than_or_equal",
	OpLessThanOrEqual:    "less_than_or_equal",
}

// String returns the operator's surface form.
func (op CompareOp) String() string {
	switch op {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpGreaterThan:
		return ">"
	case OpLessThan:
		return "<"
	case OpGreaterThanOrEqual:
		return ">="
	case OpLessThanOrEqual:
		return "<="
	}
	return "?"
}

// Comparison is a single-variable comparison predicate node.
type Comparison struct {
	Op       CompareOp
	Variable VarRef
	Value    Literal
}

// Tag returns the constructor tag of the comparison.
func (c *Comparison) Tag() string { return compareTags[c.Op] }

func (c *Comparison) filterNode() {}

// Bitmask is a bitmask comparison node (variable & mask ==/!= value).
type Bitmask struct {
	Negated  bool // true for !=
	Variable VarRef
	Mask     int64
	Value    int64
}

// Tag returns the constructor tag of the bitmask comparison.
func (b *Bitmask) Tag() string {
	if b.Negated {
		return "bitmask_not_equal"
	}
	return "bitmask_equal"
}

func (b *Bitmask) filterNode() {}

// Not is a negation node. Double negations are cancelled by the parser
// and never appear in the AST.
type Not struct {
	Child FilterNode
}

// Tag returns the constructor tag of the negation.
func (n *Not) Tag() string { return "not" }

func (n *Not) filterNode() {}

// JunctionKind distinguishes conjunctions from disjunctions.
type JunctionKind int

// Junction kinds.
const (
	KindConjunction JunctionKind = iota
	KindDisjunction
)

// Junction is a flat n-ary AND/OR group. Nested same-kind junctions are
// flattened by the parser.
type Junction struct {
	Kind    JunctionKind
	Members []FilterNode
}

// Tag returns the constructor tag of the junction.
func (j *Junction) Tag() string {
	if j.Kind == KindDisjunction {
		return "disjunction"
	}
	return "conjunction"
}

func (j *Junction) filterNode() {}

// ---------- Shared leaf types ----------

// VarRef references a dataset variable, optionally addressing a single
// element of a vector variable by its zero-based index.
type VarRef struct {
	Name  string
	Index []int
}

// String formats the reference in its canonical form, e.g. "B_NEC[0]".
func (v VarRef) String() string {
	if len(v.Index) == 0 {
		return v.Name
	}
	parts := make([]string, len(v.Index))
	for i, idx := range v.Index {
		parts[i] = strconv.Itoa(idx)
	}
	return v.Name + "[" + strings.Join(parts, ",") + "]"
}

// LiteralKind tags the lexical class of a literal. The parser assigns the
// kind; downstream constructors dispatch on it rather than inspecting the
// runtime type of the value.
type LiteralKind int

// Literal kinds.
const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralBool
	LiteralString
	LiteralNaN
)

// Literal is a tagged literal value of the filter grammar.
type Literal struct {
	Kind  LiteralKind
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

// IntLiteral returns an integer literal.
func IntLiteral(v int64) Literal { return Literal{Kind: LiteralInt, Int: v} }

// FloatLiteral returns a float literal. NaN values are tagged as the NaN
// sentinel kind.
func FloatLiteral(v float64) Literal {
	if math.IsNaN(v) {
		return Literal{Kind: LiteralNaN, Float: v}
	}
	return Literal{Kind: LiteralFloat, Float: v}
}

// BoolLiteral returns a boolean literal.
func BoolLiteral(v bool) Literal { return Literal{Kind: LiteralBool, Bool: v} }

// StringLiteral returns a string literal.
func StringLiteral(v string) Literal { return Literal{Kind: LiteralString, Str: v} }

// Number returns the literal's numeric value. Booleans map to 0 and 1.
func (l Literal) Number() float64 {
	switch l.Kind {
	case LiteralInt:
		return float64(l.Int)
	case LiteralBool:
		if l.Bool {
			return 1
		}
		return 0
	default:
		return l.Float
	}
}

// IsOrdinal returns true for literal kinds usable in ordering comparisons.
func (l Literal) IsOrdinal() bool {
	switch l.Kind {
	case LiteralInt, LiteralFloat, LiteralBool:
		return true
	}
	return false
}

// String formats the literal in its canonical form.
func (l Literal) String() string {
	switch l.Kind {
	case LiteralInt:
		return strconv.FormatInt(l.Int, 10)
	case LiteralBool:
		if l.Bool {
			return "TRUE"
		}
		return "FALSE"
	case LiteralString:
		return "'" + strings.ReplaceAll(l.Str, "'", "''") + "'"
	case LiteralNaN:
		return "NaN"
	default:
		return FormatNumber(l.Float)
	}
}

// FormatNumber formats a float in the grammar's canonical form: shortest
// decimal representation, with the NaN and INF reserved words for the
// non-finite specials.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ---------- Model expression AST ----------

// ModelComponent is one term of a model-composition expression:
// a model identifier with its parameter map. A subtracted term carries
// the synthetic parameter scale = -1; the parser fills in no other
// defaults.
type ModelComponent struct {
	ID     string
	Params map[string]int
}

// Model is one entry of a model list: an identifier optionally bound to a
// composition expression. A bare identifier denotes a single self-named
// component.
type Model struct {
	ID         string
	Components []ModelComponent
}

// ---------- Variable list AST ----------

// Variable is one entry of a variable alias list. An unaliased entry has
// Source equal to Name.
type Variable struct {
	Name   string
	Source string
}
