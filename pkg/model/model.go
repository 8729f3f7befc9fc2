// Package model resolves parsed model lists and composition expressions
// into composed models backed by scaled source-model components.
package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/heliolab/seriesq/pkg/parser"
)

// ResolutionError reports a model reference that could not be resolved.
type ResolutionError struct {
	ModelID string
	Message string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("invalid model %s: %s", e.ModelID, e.Message)
}

// SourceModel is a leaf model: an identifier with its evaluation
// parameters.
type SourceModel struct {
	ID     string
	Params map[string]int
}

// Name returns the canonical name identifying the parametrized source
// model: the identifier followed by the sorted parameter assignments.
func (m *SourceModel) Name() string {
	return formatName(m.ID, m.Params)
}

// Expression returns the source model's expression form, quoting
// identifiers that contain a dash.
func (m *SourceModel) Expression() string {
	id := m.ID
	if strings.Contains(id, "-") {
		id = "'" + id + "'"
	}
	return formatName(id, m.Params)
}

func (m *SourceModel) String() string {
	return "<SourceModel: " + m.Expression() + ">"
}

func formatName(id string, params map[string]int) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = fmt.Sprintf("%s=%d", key, params[key])
	}
	return id + "(" + strings.Join(parts, ",") + ")"
}

// Component is one term of a composed model: a source model with its
// signed scale.
type Component struct {
	Scale int
	Model *SourceModel
}

// ComposedModel is a named signed sum of source-model components.
type ComposedModel struct {
	ID         string
	Components []Component
}

// Expression returns the composed model's expression form.
func (m *ComposedModel) Expression() string {
	var parts []string
	for i, c := range m.Components {
		switch {
		case i == 0 && c.Scale < 0:
			parts = append(parts, "- "+c.Model.Expression())
		case i == 0:
			parts = append(parts, c.Model.Expression())
		case c.Scale < 0:
			parts = append(parts, "- "+c.Model.Expression())
		default:
			parts = append(parts, "+ "+c.Model.Expression())
		}
	}
	return strings.Join(parts, " ")
}

func (m *ComposedModel) String() string {
	return fmt.Sprintf("<ComposedModel: %s = %s>", m.ID, m.Expression())
}

// Resolver turns parsed model definitions into composed models. Earlier
// definitions are visible to later expressions: referencing a known
// composed model inlines its components with scale multiplication.
// Distinct parametrized source models are collected by name along the
// way.
type Resolver struct {
	known   map[string]*ComposedModel
	sources map[string]*SourceModel
	limits  parser.Limits
}

// NewResolver returns an empty resolver with default parser limits.
func NewResolver() *Resolver {
	return NewResolverWithLimits(parser.DefaultLimits())
}

// NewResolverWithLimits returns an empty resolver with explicit parser
// limits.
func NewResolverWithLimits(limits parser.Limits) *Resolver {
	return &Resolver{
		known:   make(map[string]*ComposedModel),
		sources: make(map[string]*SourceModel),
		limits:  limits,
	}
}

// ResolveList parses and resolves a comma-separated model list. The
// returned models are in definition order.
func (r *Resolver) ResolveList(input string) ([]*ComposedModel, error) {
	defs, err := parser.ParseModelListWithLimits(input, r.limits)
	if err != nil {
		return nil, err
	}
	models := make([]*ComposedModel, 0, len(defs))
	for _, def := range defs {
		m, err := r.resolve(def.ID, def.Components)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}

// ResolveExpression parses and resolves a single model-composition
// expression, assigning it the given identifier.
func (r *Resolver) ResolveExpression(id, expression string) (*ComposedModel, error) {
	components, err := parser.ParseModelExpressionWithLimits(expression, r.limits)
	if err != nil {
		return nil, err
	}
	return r.resolve(id, components)
}

// SourceModels returns the distinct parametrized source models collected
// so far, sorted by name.
func (r *Resolver) SourceModels() []*SourceModel {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	models := make([]*SourceModel, len(names))
	for i, name := range names {
		models[i] = r.sources[name]
	}
	return models
}

// resolve builds a composed model from parsed components and records it
// under its identifier for later references.
func (r *Resolver) resolve(id string, components []parser.ModelComponent) (*ComposedModel, error) {
	model := &ComposedModel{ID: id}
	for _, component := range components {
		resolved, err := r.resolveComponent(component)
		if err != nil {
			return nil, err
		}
		model.Components = append(model.Components, resolved...)
	}
	r.known[id] = model
	return model, nil
}

func (r *Resolver) resolveComponent(def parser.ModelComponent) ([]Component, error) {
	params := make(map[string]int, len(def.Params))
	for key, value := range def.Params {
		params[key] = value
	}
	scale := 1
	if s, ok := params["scale"]; ok {
		scale = s
		delete(params, "scale")
	}

	if known, ok := r.known[def.ID]; ok {
		// inline an earlier composed model; parameters cannot be
		// re-bound on a reference
		if len(params) > 0 {
			keys := make([]string, 0, len(params))
			for key := range params {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			return nil, &ResolutionError{ModelID: def.ID,
				Message: fmt.Sprintf("the model does not accept the %s parameter", keys[0])}
		}
		components := make([]Component, len(known.Components))
		for i, c := range known.Components {
			components[i] = Component{Scale: scale * c.Scale, Model: c.Model}
		}
		return components, nil
	}

	source := &SourceModel{ID: def.ID, Params: params}
	r.sources[source.Name()] = source
	return []Component{{Scale: scale, Model: source}}, nil
}
