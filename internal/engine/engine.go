// Package engine provides the seriesq query engine: the programmatic
// surface tying the parsers, the predicate algebra, the model resolver
// and the transform pipeline together.
package engine

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heliolab/seriesq/pkg/dataset"
	"github.com/heliolab/seriesq/pkg/filter"
	"github.com/heliolab/seriesq/pkg/model"
	"github.com/heliolab/seriesq/pkg/parser"
	"github.com/heliolab/seriesq/pkg/transform"
)

// Config holds engine configuration.
type Config struct {
	// Limits holds the parser limits. Zero-valued fields fall back to
	// the defaults.
	Limits parser.Limits
	// Logger is the structured logger. A nil logger discards all
	// output.
	Logger *slog.Logger
}

// Engine owns the registries and limits shared by all query operations.
type Engine struct {
	limits     parser.Limits
	filters    *filter.Registry
	transforms *transform.Registry
	logger     *slog.Logger
}

// New creates a query engine from the configuration.
func New(cfg Config) *Engine {
	limits := cfg.Limits
	defaults := parser.DefaultLimits()
	if limits.MaxIdentLen == 0 {
		limits.MaxIdentLen = defaults.MaxIdentLen
	}
	if limits.MaxPredicates == 0 {
		limits.MaxPredicates = defaults.MaxPredicates
	}
	if limits.MaxDimensions == 0 {
		limits.MaxDimensions = defaults.MaxDimensions
	}
	if limits.MaxIntDigits == 0 {
		limits.MaxIntDigits = defaults.MaxIntDigits
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Engine{
		limits:     limits,
		filters:    filter.NewRegistry(),
		transforms: transform.NewRegistry(),
		logger:     logger,
	}
}

// Limits returns the engine's parser limits.
func (e *Engine) Limits() parser.Limits { return e.limits }

// FilterRegistry returns the engine's filter constructor registry.
func (e *Engine) FilterRegistry() *filter.Registry { return e.filters }

// TransformRegistry returns the engine's transform builder registry.
func (e *Engine) TransformRegistry() *transform.Registry { return e.transforms }

// ParseFilters parses a filter expression into a deduplicated filter
// list. Blank input yields an empty list.
func (e *Engine) ParseFilters(text string) ([]filter.Filter, error) {
	filters, err := filter.ParseFiltersWith(e.filters, text, e.limits)
	if err != nil {
		e.logger.Debug("filter parsing failed", "error", err)
		return nil, err
	}
	e.logger.Debug("parsed filters", "count", len(filters))
	return filters, nil
}

// ApplyFilters evaluates the applicable filters against the dataset,
// narrowing the selection filter by filter, and returns the narrowed
// dataset together with the applied and the deferred filters.
func (e *Engine) ApplyFilters(ds *dataset.Dataset, filters []filter.Filter, index []int) (*dataset.Dataset, []filter.Filter, []filter.Filter, error) {
	runID := uuid.NewString()
	logger := e.logger.With("run_id", runID)
	logger.Debug("applying filters", "filters", len(filters), "rows", ds.Length())

	applied := []filter.Filter{}
	remaining := []filter.Filter{}
	selection := index
	for _, f := range filters {
		if !ds.HasAll(f.RequiredVariables()) {
			logger.Debug("filter deferred", "filter", f.String())
			remaining = append(remaining, f)
			continue
		}
		var err error
		selection, err = filter.Apply(f, ds, selection)
		if err != nil {
			logger.Debug("filter evaluation failed", "filter", f.String(), "error", err)
			return nil, nil, nil, err
		}
		logger.Debug("filter applied", "filter", f.String(), "selected", len(selection))
		applied = append(applied, f)
	}
	return ds.Subset(selection), applied, remaining, nil
}

// ParseModelList parses and resolves a model list, returning the
// composed models in definition order and the distinct source models
// they are built from.
func (e *Engine) ParseModelList(input string) ([]*model.ComposedModel, []*model.SourceModel, error) {
	resolver := model.NewResolverWithLimits(e.limits)
	models, err := resolver.ResolveList(input)
	if err != nil {
		return nil, nil, err
	}
	sources := resolver.SourceModels()
	e.logger.Debug("resolved model list", "models", len(models), "sources", len(sources))
	return models, sources, nil
}

// ParseVariableList parses a variable alias list. Blank input yields an
// empty list.
func (e *Engine) ParseVariableList(input string) ([]parser.Variable, error) {
	if strings.TrimSpace(input) == "" {
		return []parser.Variable{}, nil
	}
	return parser.ParseVariableListWithLimits(input, e.limits)
}

// ParseTransformationSpec builds the transform pipeline producing the
// given variable from an ordered operation spec.
func (e *Engine) ParseTransformationSpec(variable string, spec []transform.OpSpec) (transform.Transform, error) {
	t, err := e.transforms.ParseSpec(variable, spec)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("parsed transformation",
		"variable", t.ProducedVariable(), "requires", t.RequiredVariables())
	return t, nil
}
