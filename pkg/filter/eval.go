package filter

import (
	"fmt"
	"math"

	"github.com/heliolab/seriesq/pkg/array"
	"github.com/heliolab/seriesq/pkg/dataset"
)

// EvaluationError reports a filter that could not be evaluated against a
// dataset, typically because of a variable type mismatch.
type EvaluationError struct {
	Filter  Filter
	Message string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("cannot evaluate %s: %s", e.Filter, e.Message)
}

func evalErrorf(f Filter, format string, args ...any) error {
	return &EvaluationError{Filter: f, Message: fmt.Sprintf(format, args...)}
}

// Apply evaluates the filter against the dataset and returns the rows of
// the selection that satisfy it. A nil index means all rows. The result
// is always an order-preserving subset of the input selection.
func Apply(f Filter, ds *dataset.Dataset, index []int) ([]int, error) {
	switch f := f.(type) {
	case *Equal:
		col, err := numericColumn(f, ds, f.Variable)
		if err != nil {
			return nil, err
		}
		return narrow(ds.Length(), index, func(row int) bool { return col[row] == f.Value }), nil

	case *NotEqual:
		col, err := numericColumn(f, ds, f.Variable)
		if err != nil {
			return nil, err
		}
		return narrow(ds.Length(), index, func(row int) bool { return col[row] != f.Value }), nil

	case *StringEqual:
		col, err := stringColumn(f, ds, f.Variable)
		if err != nil {
			return nil, err
		}
		return narrow(ds.Length(), index, func(row int) bool { return col[row] == f.Value }), nil

	case *StringNotEqual:
		col, err := stringColumn(f, ds, f.Variable)
		if err != nil {
			return nil, err
		}
		return narrow(ds.Length(), index, func(row int) bool { return col[row] != f.Value }), nil

	case *LessThan:
		col, err := numericColumn(f, ds, f.Variable)
		if err != nil {
			return nil, err
		}
		return narrow(ds.Length(), index, func(row int) bool { return col[row] < f.Value }), nil

	case *LessThanOrEqual:
		col, err := numericColumn(f, ds, f.Variable)
		if err != nil {
			return nil, err
		}
		return narrow(ds.Length(), index, func(row int) bool { return col[row] <= f.Value }), nil

	case *GreaterThan:
		col, err := numericColumn(f, ds, f.Variable)
		if err != nil {
			return nil, err
		}
		return narrow(ds.Length(), index, func(row int) bool { return col[row] > f.Value }), nil

	case *GreaterThanOrEqual:
		col, err := numericColumn(f, ds, f.Variable)
		if err != nil {
			return nil, err
		}
		return narrow(ds.Length(), index, func(row int) bool { return col[row] >= f.Value }), nil

	case *BitmaskEqual:
		col, err := integerColumn(f, ds, f.Variable)
		if err != nil {
			return nil, err
		}
		return narrow(ds.Length(), index, func(row int) bool { return col[row]&f.Mask == f.Value }), nil

	case *BitmaskNotEqual:
		col, err := integerColumn(f, ds, f.Variable)
		if err != nil {
			return nil, err
		}
		return narrow(ds.Length(), index, func(row int) bool { return col[row]&f.Mask != f.Value }), nil

	case *IsNaN:
		col, err := numericColumn(f, ds, f.Variable)
		if err != nil {
			return nil, err
		}
		return narrow(ds.Length(), index, func(row int) bool { return math.IsNaN(col[row]) }), nil

	case *IsNotNaN:
		col, err := numericColumn(f, ds, f.Variable)
		if err != nil {
			return nil, err
		}
		return narrow(ds.Length(), index, func(row int) bool { return !math.IsNaN(col[row]) }), nil

	case *Negation:
		selected, err := Apply(f.Predicate, ds, index)
		if err != nil {
			return nil, err
		}
		return complement(ds.Length(), index, selected), nil

	case *Conjunction:
		// Sequential narrowing. An empty intermediate selection cannot
		// grow back, so stop early.
		selection := index
		for _, p := range f.Predicates {
			var err error
			selection, err = Apply(p, ds, selection)
			if err != nil {
				return nil, err
			}
			if len(selection) == 0 {
				return []int{}, nil
			}
		}
		return selection, nil

	case *Disjunction:
		member := make(map[int]bool)
		for _, p := range f.Predicates {
			selected, err := Apply(p, ds, index)
			if err != nil {
				return nil, err
			}
			for _, row := range selected {
				member[row] = true
			}
		}
		return narrow(ds.Length(), index, func(row int) bool { return member[row] }), nil

	default:
		return nil, evalErrorf(f, "unsupported filter type %T", f)
	}
}

// narrow filters the selection through the row predicate, preserving the
// selection order. A nil index scans all n rows.
func narrow(n int, index []int, pred func(row int) bool) []int {
	out := []int{}
	if index == nil {
		for row := 0; row < n; row++ {
			if pred(row) {
				out = append(out, row)
			}
		}
		return out
	}
	for _, row := range index {
		if pred(row) {
			out = append(out, row)
		}
	}
	return out
}

// complement returns the rows of the selection not present in excluded,
// preserving the selection order.
func complement(n int, index []int, excluded []int) []int {
	drop := make(map[int]bool, len(excluded))
	for _, row := range excluded {
		drop[row] = true
	}
	return narrow(n, index, func(row int) bool { return !drop[row] })
}

// numericColumn extracts the addressed variable as float64 values, one
// per dataset row. Integer and boolean variables are widened.
func numericColumn(f Filter, ds *dataset.Dataset, variable Variable) ([]float64, error) {
	arr, ok := ds.Get(variable.Name)
	if !ok {
		return nil, evalErrorf(f, "variable %s not in dataset", variable.Name)
	}
	switch arr := arr.(type) {
	case *array.Dense[float64]:
		col, err := arr.Column(variable.Index)
		if err != nil {
			return nil, evalErrorf(f, "%v", err)
		}
		return col, nil
	case *array.Dense[int64]:
		col, err := arr.Column(variable.Index)
		if err != nil {
			return nil, evalErrorf(f, "%v", err)
		}
		out := make([]float64, len(col))
		for i, v := range col {
			out[i] = float64(v)
		}
		return out, nil
	case *array.Dense[bool]:
		col, err := arr.Column(variable.Index)
		if err != nil {
			return nil, evalErrorf(f, "%v", err)
		}
		out := make([]float64, len(col))
		for i, v := range col {
			if v {
				out[i] = 1
			}
		}
		return out, nil
	default:
		return nil, evalErrorf(f, "variable %s is not numeric", variable)
	}
}

// integerColumn extracts the addressed variable as int64 values.
func integerColumn(f Filter, ds *dataset.Dataset, variable Variable) ([]int64, error) {
	arr, ok := ds.Get(variable.Name)
	if !ok {
		return nil, evalErrorf(f, "variable %s not in dataset", variable.Name)
	}
	ints, ok := arr.(*array.Dense[int64])
	if !ok {
		return nil, evalErrorf(f, "variable %s is not an integer variable", variable)
	}
	col, err := ints.Column(variable.Index)
	if err != nil {
		return nil, evalErrorf(f, "%v", err)
	}
	return col, nil
}

// stringColumn extracts the addressed variable as string values.
func stringColumn(f Filter, ds *dataset.Dataset, variable Variable) ([]string, error) {
	arr, ok := ds.Get(variable.Name)
	if !ok {
		return nil, evalErrorf(f, "variable %s not in dataset", variable.Name)
	}
	strs, ok := arr.(*array.Dense[string])
	if !ok {
		return nil, evalErrorf(f, "variable %s is not a string variable", variable)
	}
	col, err := strs.Column(variable.Index)
	if err != nil {
		return nil, evalErrorf(f, "%v", err)
	}
	return col, nil
}

// ApplyFilters evaluates every filter whose required variables are present
// in the dataset, narrowing the selection as it goes, and returns the
// narrowed dataset together with the applied filters and the deferred
// ones. Deferred filters are meant to be retried once more variables have
// been merged into the dataset.
func ApplyFilters(ds *dataset.Dataset, filters []Filter, index []int) (*dataset.Dataset, []Filter, []Filter, error) {
	applied := []Filter{}
	remaining := []Filter{}
	selection := index
	for _, f := range filters {
		if !ds.HasAll(f.RequiredVariables()) {
			remaining = append(remaining, f)
			continue
		}
		var err error
		selection, err = Apply(f, ds, selection)
		if err != nil {
			return nil, nil, nil, err
		}
		applied = append(applied, f)
	}
	return ds.Subset(selection), applied, remaining, nil
}

// NewBoundingBox builds a conjunction constraining two coordinate
// variables to the rectangle [min1, max1] x [min2, max2].
func NewBoundingBox(coord1, coord2 Variable, min1, max1, min2, max2 float64) *Conjunction {
	return NewConjunction(
		NewGreaterThanOrEqual(coord1, min1),
		NewLessThanOrEqual(coord1, max1),
		NewGreaterThanOrEqual(coord2, min2),
		NewLessThanOrEqual(coord2, max2),
	)
}
