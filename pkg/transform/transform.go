// Package transform implements the data transformations that derive new
// dataset variables from existing ones, and their composition into
// pipelines.
package transform

import (
	"errors"
	"fmt"

	"github.com/heliolab/seriesq/pkg/array"
)

// Sentinel errors of the transform pipeline.
var (
	// ErrEmptyComposition is returned when composing zero transforms.
	ErrEmptyComposition = errors.New("empty list of transformations not allowed")
	// ErrUnknownOperation is returned for an unregistered operation name.
	ErrUnknownOperation = errors.New("unknown transformation")
	// ErrMissingVariable is returned when a required input variable is
	// absent from the evaluation data.
	ErrMissingVariable = errors.New("missing variable")
)

// Transform derives one variable from the values of its required
// variables.
type Transform interface {
	// ProducedVariable returns the name of the output variable.
	ProducedVariable() string
	// RequiredVariables returns the input variables, in first-use order.
	RequiredVariables() []string
	// Eval computes the output from the given variable values.
	Eval(data map[string]array.Array) (array.Array, error)
}

func fetch(data map[string]array.Array, variable string) (array.Array, error) {
	arr, ok := data[variable]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingVariable, variable)
	}
	return arr, nil
}

func ones(n int) []int {
	shape := make([]int, n)
	for i := range shape {
		shape[i] = 1
	}
	return shape
}

// Index attaches a constant side table to every record of the helper
// variable: the output shape is the helper shape extended by the table
// shape, with the table repeated for each record.
type Index struct {
	variable string
	helper   string
	table    array.Array
}

// NewIndex creates an index transform producing variable from the given
// helper variable and side table.
func NewIndex(variable, helper string, table array.Array) *Index {
	return &Index{variable: variable, helper: helper, table: table}
}

func (t *Index) ProducedVariable() string { return t.variable }

func (t *Index) RequiredVariables() []string { return []string{t.helper} }

func (t *Index) Eval(data map[string]array.Array) (array.Array, error) {
	input, err := fetch(data, t.helper)
	if err != nil {
		return nil, err
	}
	tmpShape := append(ones(len(input.Shape())), t.table.Shape()...)
	dstShape := append(input.Shape(), t.table.Shape()...)
	reshaped, err := array.Reshape(t.table, tmpShape)
	if err != nil {
		return nil, err
	}
	return array.BroadcastTo(reshaped, dstShape)
}

// Broadcast expands the variable by repeating each record over the given
// record shape: the output shape is the input shape extended by the
// record shape.
type Broadcast struct {
	variable    string
	recordShape []int
}

// NewBroadcast creates a broadcast transform over the variable.
func NewBroadcast(variable string, recordShape []int) *Broadcast {
	return &Broadcast{variable: variable, recordShape: recordShape}
}

func (t *Broadcast) ProducedVariable() string { return t.variable }

func (t *Broadcast) RequiredVariables() []string { return []string{t.variable} }

func (t *Broadcast) Eval(data map[string]array.Array) (array.Array, error) {
	input, err := fetch(data, t.variable)
	if err != nil {
		return nil, err
	}
	tmpShape := append(input.Shape(), ones(len(t.recordShape))...)
	dstShape := append(input.Shape(), t.recordShape...)
	reshaped, err := array.Reshape(input, tmpShape)
	if err != nil {
		return nil, err
	}
	return array.BroadcastTo(reshaped, dstShape)
}

// Ravel flattens the variable to one dimension in row-major order.
type Ravel struct {
	variable string
}

// NewRavel creates a ravel transform over the variable.
func NewRavel(variable string) *Ravel {
	return &Ravel{variable: variable}
}

func (t *Ravel) ProducedVariable() string { return t.variable }

func (t *Ravel) RequiredVariables() []string { return []string{t.variable} }

func (t *Ravel) Eval(data map[string]array.Array) (array.Array, error) {
	input, err := fetch(data, t.variable)
	if err != nil {
		return nil, err
	}
	return array.Ravel(input)
}

// Composed chains transforms, feeding each stage the original data merged
// with the outputs of the earlier stages.
type Composed struct {
	produced string
	required []string
	stages   []Transform
}

// Compose builds a pipeline from the given transforms. A single transform
// is returned unwrapped; composing nothing is an error.
//
// The pipeline requires the union of the stages' inputs in first-use
// order, except variables produced by an earlier stage, which are
// internal to the pipeline. It produces the last stage's variable.
func Compose(transforms ...Transform) (Transform, error) {
	switch len(transforms) {
	case 0:
		return nil, ErrEmptyComposition
	case 1:
		return transforms[0], nil
	}

	var required []string
	external := make(map[string]bool)
	intermediate := make(map[string]bool)
	produced := ""
	for _, stage := range transforms {
		for _, variable := range stage.RequiredVariables() {
			if !external[variable] && !intermediate[variable] {
				external[variable] = true
				required = append(required, variable)
			}
		}
		produced = stage.ProducedVariable()
		intermediate[produced] = true
	}
	return &Composed{produced: produced, required: required, stages: transforms}, nil
}

func (t *Composed) ProducedVariable() string { return t.produced }

func (t *Composed) RequiredVariables() []string { return t.required }

func (t *Composed) Eval(data map[string]array.Array) (array.Array, error) {
	env := make(map[string]array.Array, len(data)+len(t.stages))
	for variable, arr := range data {
		env[variable] = arr
	}
	var result array.Array
	for _, stage := range t.stages {
		var err error
		result, err = stage.Eval(env)
		if err != nil {
			return nil, err
		}
		env[stage.ProducedVariable()] = result
	}
	return result, nil
}
