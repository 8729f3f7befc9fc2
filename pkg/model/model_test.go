package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliolab/seriesq/pkg/model"
)

func componentScales(m *model.ComposedModel) []int {
	scales := make([]int, len(m.Components))
	for i, c := range m.Components {
		scales[i] = c.Scale
	}
	return scales
}

func componentIDs(m *model.ComposedModel) []string {
	ids := make([]string, len(m.Components))
	for i, c := range m.Components {
		ids[i] = c.Model.ID
	}
	return ids
}

// ---------- Expression resolution ----------

func TestResolveExpressionSigns(t *testing.T) {
	r := model.NewResolver()
	m, err := r.ResolveExpression("Combined", "-MODEL1+MODEL2-MODEL3")
	require.NoError(t, err)

	assert.Equal(t, "Combined", m.ID)
	assert.Equal(t, []string{"MODEL1", "MODEL2", "MODEL3"}, componentIDs(m))
	assert.Equal(t, []int{-1, 1, -1}, componentScales(m))
	assert.Equal(t, "- MODEL1() + MODEL2() - MODEL3()", m.Expression())
}

func TestResolveExpressionParameters(t *testing.T) {
	r := model.NewResolver()
	m, err := r.ResolveExpression("Core", "CHAOS(min_degree=1,max_degree=20)")
	require.NoError(t, err)

	require.Len(t, m.Components, 1)
	source := m.Components[0].Model
	assert.Equal(t, map[string]int{"min_degree": 1, "max_degree": 20}, source.Params)
	assert.Equal(t, "CHAOS(max_degree=20,min_degree=1)", source.Name())
	assert.Equal(t, "CHAOS(max_degree=20,min_degree=1)", m.Expression())
}

func TestResolveExpressionParseError(t *testing.T) {
	r := model.NewResolver()
	_, err := r.ResolveExpression("X", "")
	require.Error(t, err)
}

// ---------- Known-model inlining ----------

func TestResolveListInlinesKnownModels(t *testing.T) {
	r := model.NewResolver()
	models, err := r.ResolveList("A = X - Y, B = -A")
	require.NoError(t, err)
	require.Len(t, models, 2)

	a := models[0]
	assert.Equal(t, []int{1, -1}, componentScales(a))

	b := models[1]
	assert.Equal(t, []string{"X", "Y"}, componentIDs(b))
	assert.Equal(t, []int{-1, 1}, componentScales(b))
	assert.Equal(t, "- X() + Y()", b.Expression())
}

func TestResolveListBareEntry(t *testing.T) {
	r := model.NewResolver()
	models, err := r.ResolveList("MCO")
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "MCO", models[0].ID)
	assert.Equal(t, "MCO()", models[0].Expression())
}

func TestResolveListRejectsParametersOnKnownModel(t *testing.T) {
	r := model.NewResolver()
	_, err := r.ResolveList("A = X, B = A(max_degree=5)")
	var resolutionErr *model.ResolutionError
	require.ErrorAs(t, err, &resolutionErr)
	assert.Equal(t, "A", resolutionErr.ModelID)
	assert.Contains(t, resolutionErr.Error(), "does not accept the max_degree parameter")
}

func TestResolveListEmpty(t *testing.T) {
	r := model.NewResolver()
	models, err := r.ResolveList("  ")
	require.NoError(t, err)
	assert.Empty(t, models)
}

// ---------- Source model collection ----------

func TestSourceModelsSortedAndDeduplicated(t *testing.T) {
	r := model.NewResolver()
	_, err := r.ResolveList("A = ZMODEL + CHAOS(max_degree=5), B = CHAOS(max_degree=5) - ZMODEL")
	require.NoError(t, err)

	sources := r.SourceModels()
	require.Len(t, sources, 2)
	assert.Equal(t, "CHAOS(max_degree=5)", sources[0].Name())
	assert.Equal(t, "ZMODEL()", sources[1].Name())
}

func TestSourceModelsDistinguishParameters(t *testing.T) {
	r := model.NewResolver()
	_, err := r.ResolveList("A = CHAOS(max_degree=5) + CHAOS(max_degree=10)")
	require.NoError(t, err)
	assert.Len(t, r.SourceModels(), 2)
}

// ---------- Formatting ----------

func TestSourceModelExpressionQuotesDashes(t *testing.T) {
	r := model.NewResolver()
	m, err := r.ResolveExpression("X", "'CHAOS-Core'(max_degree=5)")
	require.NoError(t, err)

	source := m.Components[0].Model
	assert.Equal(t, "CHAOS-Core(max_degree=5)", source.Name())
	assert.Equal(t, "'CHAOS-Core'(max_degree=5)", source.Expression())
	assert.Equal(t, "'CHAOS-Core'(max_degree=5)", m.Expression())
}

func TestComposedModelString(t *testing.T) {
	r := model.NewResolver()
	m, err := r.ResolveExpression("Combined", "A - B")
	require.NoError(t, err)
	assert.Equal(t, "<ComposedModel: Combined = A() - B()>", m.String())
}

func TestSourceModelString(t *testing.T) {
	source := &model.SourceModel{ID: "CHAOS", Params: map[string]int{"max_degree": 5}}
	assert.Equal(t, "<SourceModel: CHAOS(max_degree=5)>", source.String())
}
