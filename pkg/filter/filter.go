// Package filter implements the composable boolean predicates evaluated
// against datasets by narrowing row-index selections.
package filter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/heliolab/seriesq/pkg/parser"
)

// Variable identifies a dataset variable, optionally addressing a single
// element of a vector variable.
type Variable struct {
	Name  string
	Index []int
}

// Var builds a variable reference: Var("B_NEC", 0) addresses the first
// element of the vector variable B_NEC.
func Var(name string, index ...int) Variable {
	return Variable{Name: name, Index: index}
}

// String formats the variable in its canonical form.
func (v Variable) String() string {
	if len(v.Index) == 0 {
		return v.Name
	}
	parts := make([]string, len(v.Index))
	for i, idx := range v.Index {
		parts[i] = strconv.Itoa(idx)
	}
	return v.Name + "[" + strings.Join(parts, ",") + "]"
}

// Filter is an immutable boolean predicate over dataset variables. Two
// filters are interchangeable when their Keys are equal: the key encodes
// the concrete kind and all constructor arguments.
//
// The set of implementations is closed; evaluation happens through the
// package-level Apply function.
type Filter interface {
	// RequiredVariables returns the dataset variables the filter reads.
	RequiredVariables() []string
	// Key returns the canonical identity of the filter, used for value
	// equality and deduplication.
	Key() string
	// String returns the canonical human-readable form.
	String() string

	isFilter()
}

// Equals reports value equality of two filters: same kind and same
// constructor arguments.
func Equals(a, b Filter) bool {
	return a.Key() == b.Key()
}

// Unique deduplicates filters by value equality, keeping the first
// occurrence of each and preserving order.
func Unique(filters []Filter) []Filter {
	seen := make(map[string]bool, len(filters))
	out := make([]Filter, 0, len(filters))
	for _, f := range filters {
		key := f.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}

// ---------- Leaf comparisons ----------

// Equal selects rows where variable == value.
type Equal struct {
	Variable Variable
	Value    float64
}

// NewEqual creates a numeric equality predicate.
func NewEqual(variable Variable, value float64) *Equal {
	return &Equal{Variable: variable, Value: value}
}

func (f *Equal) RequiredVariables() []string { return []string{f.Variable.Name} }

// Key returns the canonical identity of the filter.
func (f *Equal) Key() string { return leafKey("Equal", f.Variable, parser.FormatNumber(f.Value)) }

func (f *Equal) String() string {
	return fmt.Sprintf("%s == %s", f.Variable, parser.FormatNumber(f.Value))
}

func (f *Equal) isFilter() {}

// NotEqual selects rows where variable != value.
type NotEqual struct {
	Variable Variable
	Value    float64
}

// NewNotEqual creates a numeric non-equality predicate.
func NewNotEqual(variable Variable, value float64) *NotEqual {
	return &NotEqual{Variable: variable, Value: value}
}

func (f *NotEqual) RequiredVariables() []string { return []string{f.Variable.Name} }

// Key returns the canonical identity of the filter.
func (f *NotEqual) Key() string { return leafKey("NotEqual", f.Variable, parser.FormatNumber(f.Value)) }

func (f *NotEqual) String() string {
	return fmt.Sprintf("%s != %s", f.Variable, parser.FormatNumber(f.Value))
}

func (f *NotEqual) isFilter() {}

// StringEqual selects rows where the string variable equals the value.
type StringEqual struct {
	Variable Variable
	Value    string
}

// NewStringEqual creates a string equality predicate.
func NewStringEqual(variable Variable, value string) *StringEqual {
	return &StringEqual{Variable: variable, Value: value}
}

func (f *StringEqual) RequiredVariables() []string { return []string{f.Variable.Name} }

// Key returns the canonical identity of the filter.
func (f *StringEqual) Key() string { return leafKey("StringEqual", f.Variable, f.Value) }

func (f *StringEqual) String() string {
	return fmt.Sprintf("%s == %s", f.Variable, quote(f.Value))
}

func (f *StringEqual) isFilter() {}

// StringNotEqual selects rows where the string variable differs from the
// value.
type StringNotEqual struct {
	Variable Variable
	Value    string
}

// NewStringNotEqual creates a string non-equality predicate.
func NewStringNotEqual(variable Variable, value string) *StringNotEqual {
	return &StringNotEqual{Variable: variable, Value: value}
}

func (f *StringNotEqual) RequiredVariables() []string { return []string{f.Variable.Name} }

// Key returns the canonical identity of the filter.
func (f *StringNotEqual) Key() string { return leafKey("StringNotEqual", f.Variable, f.Value) }

func (f *StringNotEqual) String() string {
	return fmt.Sprintf("%s != %s", f.Variable, quote(f.Value))
}

func (f *StringNotEqual) isFilter() {}

// LessThan selects rows where variable < value.
type LessThan struct {
	Variable Variable
	Value    float64
}

// NewLessThan creates a less-than predicate.
func NewLessThan(variable Variable, value float64) *LessThan {
	return &LessThan{Variable: variable, Value: value}
}

func (f *LessThan) RequiredVariables() []string { return []string{f.Variable.Name} }

// Key returns the canonical identity of the filter.
func (f *LessThan) Key() string { return leafKey("LessThan", f.Variable, parser.FormatNumber(f.Value)) }

func (f *LessThan) String() string {
	return fmt.Sprintf("%s < %s", f.Variable, parser.FormatNumber(f.Value))
}

func (f *LessThan) isFilter() {}

// LessThanOrEqual selects rows where variable <= value.
type LessThanOrEqual struct {
	Variable Variable
	Value    float64
}

// NewLessThanOrEqual creates a less-than-or-equal predicate.
func NewLessThanOrEqual(variable Variable, value float64) *LessThanOrEqual {
	return &LessThanOrEqual{Variable: variable, Value: value}
}

func (f *LessThanOrEqual) RequiredVariables() []string { return []string{f.Variable.Name} }

// Key returns the canonical identity of the filter.
func (f *LessThanOrEqual) Key() string {
	return leafKey("LessThanOrEqual", f.Variable, parser.FormatNumber(f.Value))
}

func (f *LessThanOrEqual) String() string {
	return fmt.Sprintf("%s <= %s", f.Variable, parser.FormatNumber(f.Value))
}

func (f *LessThanOrEqual) isFilter() {}

// GreaterThan selects rows where variable > value.
type GreaterThan struct {
	Variable Variable
	Value    float64
}

// NewGreaterThan creates a greater-than predicate.
func NewGreaterThan(variable Variable, value float64) *GreaterThan {
	return &GreaterThan{Variable: variable, Value: value}
}

func (f *GreaterThan) RequiredVariables() []string { return []string{f.Variable.Name} }

// Key returns the canonical identity of the filter.
func (f *GreaterThan) Key() string {
	return leafKey("GreaterThan", f.Variable, parser.FormatNumber(f.Value))
}

func (f *GreaterThan) String() string {
	return fmt.Sprintf("%s > %s", f.Variable, parser.FormatNumber(f.Value))
}

func (f *GreaterThan) isFilter() {}

// GreaterThanOrEqual selects rows where variable >= value.
type GreaterThanOrEqual struct {
	Variable Variable
	Value    float64
}

// NewGreaterThanOrEqual creates a greater-than-or-equal predicate.
func NewGreaterThanOrEqual(variable Variable, value float64) *GreaterThanOrEqual {
	return &GreaterThanOrEqual{Variable: variable, Value: value}
}

func (f *GreaterThanOrEqual) RequiredVariables() []string { return []string{f.Variable.Name} }

// Key returns the canonical identity of the filter.
func (f *GreaterThanOrEqual) Key() string {
	return leafKey("GreaterThanOrEqual", f.Variable, parser.FormatNumber(f.Value))
}

func (f *GreaterThanOrEqual) String() string {
	return fmt.Sprintf("%s >= %s", f.Variable, parser.FormatNumber(f.Value))
}

func (f *GreaterThanOrEqual) isFilter() {}

// BitmaskEqual selects rows where variable & mask == value & mask.
type BitmaskEqual struct {
	Variable Variable
	Mask     int64
	Value    int64
}

// NewBitmaskEqual creates a bitmask equality predicate. The stored value
// is pre-masked.
func NewBitmaskEqual(variable Variable, mask, value int64) *BitmaskEqual {
	return &BitmaskEqual{Variable: variable, Mask: mask, Value: mask & value}
}

func (f *BitmaskEqual) RequiredVariables() []string { return []string{f.Variable.Name} }

// Key returns the canonical identity of the filter.
func (f *BitmaskEqual) Key() string {
	return leafKey("BitmaskEqual", f.Variable,
		strconv.FormatInt(f.Mask, 10), strconv.FormatInt(f.Value, 10))
}

func (f *BitmaskEqual) String() string {
	return fmt.Sprintf("%s & %d == %d", f.Variable, f.Mask, f.Value)
}

func (f *BitmaskEqual) isFilter() {}

// BitmaskNotEqual selects rows where variable & mask != value & mask.
type BitmaskNotEqual struct {
	Variable Variable
	Mask     int64
	Value    int64
}

// NewBitmaskNotEqual creates a bitmask non-equality predicate. The stored
// value is pre-masked.
func NewBitmaskNotEqual(variable Variable, mask, value int64) *BitmaskNotEqual {
	return &BitmaskNotEqual{Variable: variable, Mask: mask, Value: mask & value}
}

func (f *BitmaskNotEqual) RequiredVariables() []string { return []string{f.Variable.Name} }

// Key returns the canonical identity of the filter.
func (f *BitmaskNotEqual) Key() string {
	return leafKey("BitmaskNotEqual", f.Variable,
		strconv.FormatInt(f.Mask, 10), strconv.FormatInt(f.Value, 10))
}

func (f *BitmaskNotEqual) String() string {
	return fmt.Sprintf("%s & %d != %d", f.Variable, f.Mask, f.Value)
}

func (f *BitmaskNotEqual) isFilter() {}

// IsNaN selects rows where the variable is NaN.
type IsNaN struct {
	Variable Variable
}

// NewIsNaN creates an is-NaN predicate.
func NewIsNaN(variable Variable) *IsNaN {
	return &IsNaN{Variable: variable}
}

func (f *IsNaN) RequiredVariables() []string { return []string{f.Variable.Name} }

// Key returns the canonical identity of the filter.
func (f *IsNaN) Key() string { return leafKey("IsNaN", f.Variable) }

func (f *IsNaN) String() string { return fmt.Sprintf("%s IS NaN", f.Variable) }

func (f *IsNaN) isFilter() {}

// IsNotNaN selects rows where the variable is not NaN.
type IsNotNaN struct {
	Variable Variable
}

// NewIsNotNaN creates an is-not-NaN predicate.
func NewIsNotNaN(variable Variable) *IsNotNaN {
	return &IsNotNaN{Variable: variable}
}

func (f *IsNotNaN) RequiredVariables() []string { return []string{f.Variable.Name} }

// Key returns the canonical identity of the filter.
func (f *IsNotNaN) Key() string { return leafKey("IsNotNaN", f.Variable) }

func (f *IsNotNaN) String() string { return fmt.Sprintf("%s IS NOT NaN", f.Variable) }

func (f *IsNotNaN) isFilter() {}

// ---------- Combinators ----------

// Negation inverts its predicate.
type Negation struct {
	Predicate Filter
}

// NewNegation creates a NOT combinator.
func NewNegation(predicate Filter) *Negation {
	return &Negation{Predicate: predicate}
}

func (f *Negation) RequiredVariables() []string { return f.Predicate.RequiredVariables() }

// Key returns the canonical identity of the filter.
func (f *Negation) Key() string { return "Negation(" + f.Predicate.Key() + ")" }

func (f *Negation) String() string { return "NOT " + f.Predicate.String() }

func (f *Negation) isFilter() {}

// Conjunction selects rows satisfying all of its predicates. Members are
// order-insensitive for value equality.
type Conjunction struct {
	Predicates []Filter
}

// NewConjunction creates an AND combinator over one or more predicates.
func NewConjunction(predicate Filter, others ...Filter) *Conjunction {
	return &Conjunction{Predicates: append([]Filter{predicate}, others...)}
}

func (f *Conjunction) RequiredVariables() []string { return unionVariables(f.Predicates) }

// Key returns the canonical identity of the filter.
func (f *Conjunction) Key() string { return junctionKey("Conjunction", f.Predicates) }

func (f *Conjunction) String() string { return junctionString(" AND ", f.Predicates) }

func (f *Conjunction) isFilter() {}

// Disjunction selects rows satisfying any of its predicates. Members are
// order-insensitive for value equality.
type Disjunction struct {
	Predicates []Filter
}

// NewDisjunction creates an OR combinator over one or more predicates.
func NewDisjunction(predicate Filter, others ...Filter) *Disjunction {
	return &Disjunction{Predicates: append([]Filter{predicate}, others...)}
}

func (f *Disjunction) RequiredVariables() []string { return unionVariables(f.Predicates) }

// Key returns the canonical identity of the filter.
func (f *Disjunction) Key() string { return junctionKey("Disjunction", f.Predicates) }

func (f *Disjunction) String() string { return junctionString(" OR ", f.Predicates) }

func (f *Disjunction) isFilter() {}

// ---------- helpers ----------

func leafKey(kind string, variable Variable, args ...string) string {
	parts := append([]string{variable.String()}, args...)
	return kind + "(" + strings.Join(parts, ",") + ")"
}

// junctionKey builds an order-insensitive identity from the member keys.
func junctionKey(kind string, predicates []Filter) string {
	keys := make([]string, len(predicates))
	for i, p := range predicates {
		keys[i] = p.Key()
	}
	sort.Strings(keys)
	return kind + "(" + strings.Join(keys, ";") + ")"
}

func junctionString(sep string, predicates []Filter) string {
	parts := make([]string, len(predicates))
	for i, p := range predicates {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// unionVariables returns the union of the predicates' required variables
// in first-use order.
func unionVariables(predicates []Filter) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range predicates {
		for _, variable := range p.RequiredVariables() {
			if !seen[variable] {
				seen[variable] = true
				out = append(out, variable)
			}
		}
	}
	return out
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
