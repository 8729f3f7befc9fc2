package filter_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliolab/seriesq/pkg/array"
	"github.com/heliolab/seriesq/pkg/dataset"
	"github.com/heliolab/seriesq/pkg/filter"
)

func floats(ds *dataset.Dataset, variable string) []float64 {
	data, ok := ds.Get(variable)
	if !ok {
		return nil
	}
	return data.(*array.Dense[float64]).Data()
}

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New()
	require.NoError(t, ds.Set("I", array.Vector(4.0, -1.0, 1.0, 2.0, 5.0, 0.0, 3.0)))
	require.NoError(t, ds.Set("J", array.Vector(5.0, 4.0, -1.0, 2.0, 1.0, 0.0, 3.0)))
	return ds
}

// ---------- Combinators over the shared fixture ----------

func TestApplyNegation(t *testing.T) {
	ds := testDataset(t)
	f := filter.NewNegation(filter.NewEqual(filter.Var("I"), 2))
	assert.Equal(t, "NOT I == 2", f.String())

	selected, err := filter.Apply(f, ds, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 4, 5, 6}, selected)
}

func TestApplyConjunction(t *testing.T) {
	ds := testDataset(t)
	f := filter.NewConjunction(
		filter.NewGreaterThanOrEqual(filter.Var("I"), 1),
		filter.NewGreaterThanOrEqual(filter.Var("J"), 2),
	)
	assert.Equal(t, "(I >= 1 AND J >= 2)", f.String())

	selected, err := filter.Apply(f, ds, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 6}, selected)
}

func TestApplyDisjunction(t *testing.T) {
	ds := testDataset(t)
	f := filter.NewDisjunction(
		filter.NewEqual(filter.Var("I"), -1),
		filter.NewEqual(filter.Var("I"), 0),
		filter.NewEqual(filter.Var("J"), 2),
		filter.NewEqual(filter.Var("J"), 5),
	)
	assert.Equal(t, "(I == -1 OR I == 0 OR J == 2 OR J == 5)", f.String())

	selected, err := filter.Apply(f, ds, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3, 5}, selected)
}

func TestApplyBoundingBox(t *testing.T) {
	ds := dataset.New()
	require.NoError(t, ds.Set("Latitude", array.Vector(-90.0, -45.0, 0.0, 45.0, 90.0)))
	require.NoError(t, ds.Set("Longitude", array.Vector(-180.0, -90.0, 0.0, 90.0, 180.0)))

	box := filter.NewBoundingBox(
		filter.Var("Latitude"), filter.Var("Longitude"),
		-45, 45, -90, 90,
	)
	selected, err := filter.Apply(box, ds, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, selected)
}

// ---------- Selection narrowing ----------

func TestApplyPreservesSelectionOrder(t *testing.T) {
	ds := testDataset(t)
	f := filter.NewGreaterThanOrEqual(filter.Var("I"), 1)

	selected, err := filter.Apply(f, ds, []int{6, 3, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, []int{6, 3, 0}, selected)
}

func TestApplyNegationWithinSelection(t *testing.T) {
	ds := testDataset(t)
	f := filter.NewNegation(filter.NewEqual(filter.Var("I"), 2))

	selected, err := filter.Apply(f, ds, []int{5, 3, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{5, 1}, selected)
}

func TestApplyDisjunctionWithinSelection(t *testing.T) {
	ds := testDataset(t)
	f := filter.NewDisjunction(
		filter.NewEqual(filter.Var("I"), -1),
		filter.NewEqual(filter.Var("J"), 5),
	)

	selected, err := filter.Apply(f, ds, []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, selected)
}

func TestApplyConjunctionShortCircuit(t *testing.T) {
	ds := testDataset(t)
	f := filter.NewConjunction(
		filter.NewGreaterThan(filter.Var("I"), 100),
		filter.NewGreaterThanOrEqual(filter.Var("J"), 2),
	)
	selected, err := filter.Apply(f, ds, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{}, selected)
}

// ---------- Column types ----------

func TestApplyIntegerAndBooleanWidening(t *testing.T) {
	ds := dataset.New()
	require.NoError(t, ds.Set("Count", array.Vector(int64(0), 1, 2, 3)))
	require.NoError(t, ds.Set("Valid", array.Vector(false, true, true, false)))

	selected, err := filter.Apply(filter.NewGreaterThan(filter.Var("Count"), 1), ds, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, selected)

	selected, err = filter.Apply(filter.NewEqual(filter.Var("Valid"), 1), ds, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, selected)
}

func TestApplyStringComparison(t *testing.T) {
	ds := dataset.New()
	require.NoError(t, ds.Set("Label", array.Vector("A", "B", "A", "C")))

	selected, err := filter.Apply(filter.NewStringEqual(filter.Var("Label"), "A"), ds, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, selected)

	selected, err = filter.Apply(filter.NewStringNotEqual(filter.Var("Label"), "A"), ds, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, selected)
}

func TestApplyBitmask(t *testing.T) {
	ds := dataset.New()
	require.NoError(t, ds.Set("Flags", array.Vector(int64(0), 2, 3, 6, 7)))

	f := filter.NewBitmaskEqual(filter.Var("Flags"), 6, 2)
	selected, err := filter.Apply(f, ds, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, selected)

	g := filter.NewBitmaskNotEqual(filter.Var("Flags"), 6, 2)
	selected, err = filter.Apply(g, ds, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 4}, selected)
}

func TestApplyElementAccess(t *testing.T) {
	ds := dataset.New()
	b, err := array.NewDense([]int{3, 3}, []float64{
		1, -2, 3,
		4, 5, -6,
		-7, 8, 9,
	})
	require.NoError(t, err)
	require.NoError(t, ds.Set("B_NEC", b))

	selected, err := filter.Apply(
		filter.NewGreaterThan(filter.Var("B_NEC", 1), 0), ds, nil,
	)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, selected)
}

func TestApplyNaNPredicates(t *testing.T) {
	ds := dataset.New()
	require.NoError(t, ds.Set("X", array.Vector(1.0, math.NaN(), 3.0, math.NaN())))

	selected, err := filter.Apply(filter.NewIsNaN(filter.Var("X")), ds, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, selected)

	selected, err = filter.Apply(filter.NewIsNotNaN(filter.Var("X")), ds, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, selected)

	// direct comparison against NaN never matches
	selected, err = filter.Apply(filter.NewEqual(filter.Var("X"), math.NaN()), ds, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{}, selected)
}

// ---------- Errors ----------

func TestApplyTypeMismatch(t *testing.T) {
	ds := dataset.New()
	require.NoError(t, ds.Set("Label", array.Vector("A", "B")))
	require.NoError(t, ds.Set("X", array.Vector(1.0, 2.0)))

	var evalErr *filter.EvaluationError

	_, err := filter.Apply(filter.NewEqual(filter.Var("Label"), 1), ds, nil)
	require.ErrorAs(t, err, &evalErr)
	assert.Contains(t, evalErr.Error(), "not numeric")

	_, err = filter.Apply(filter.NewStringEqual(filter.Var("X"), "A"), ds, nil)
	require.ErrorAs(t, err, &evalErr)
	assert.Contains(t, evalErr.Error(), "not a string variable")

	_, err = filter.Apply(filter.NewBitmaskEqual(filter.Var("X"), 1, 1), ds, nil)
	require.ErrorAs(t, err, &evalErr)
	assert.Contains(t, evalErr.Error(), "not an integer variable")

	_, err = filter.Apply(filter.NewEqual(filter.Var("Missing"), 1), ds, nil)
	require.ErrorAs(t, err, &evalErr)
	assert.Contains(t, evalErr.Error(), "not in dataset")
}

// ---------- Deferred application ----------

func TestApplyFilters(t *testing.T) {
	ds := testDataset(t)
	available := filter.NewGreaterThanOrEqual(filter.Var("I"), 1)
	deferred := filter.NewEqual(filter.Var("Missing"), 0)

	subset, applied, remaining, err := filter.ApplyFilters(
		ds, []filter.Filter{available, deferred}, nil,
	)
	require.NoError(t, err)
	assert.Equal(t, []filter.Filter{available}, applied)
	assert.Equal(t, []filter.Filter{deferred}, remaining)
	assert.Equal(t, 5, subset.Length())
	assert.Equal(t, []float64{4, 1, 2, 5, 3}, floats(subset, "I"))
}

func TestApplyFiltersSequentialNarrowing(t *testing.T) {
	ds := testDataset(t)
	subset, applied, remaining, err := filter.ApplyFilters(ds, []filter.Filter{
		filter.NewGreaterThanOrEqual(filter.Var("I"), 1),
		filter.NewGreaterThanOrEqual(filter.Var("J"), 2),
	}, nil)
	require.NoError(t, err)
	assert.Len(t, applied, 2)
	assert.Empty(t, remaining)
	assert.Equal(t, []float64{4, 2, 3}, floats(subset, "I"))
}

func TestApplyFiltersNoFilters(t *testing.T) {
	ds := testDataset(t)
	subset, applied, remaining, err := filter.ApplyFilters(ds, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Empty(t, remaining)
	assert.Equal(t, ds.Length(), subset.Length())
}
