package parser_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliolab/seriesq/pkg/parser"
)

func parseFilter(t *testing.T, input string) parser.FilterNode {
	t.Helper()
	node, err := parser.ParseFilterExpression(input)
	require.NoError(t, err, "input %q", input)
	return node
}

func TestParseFilterComparisons(t *testing.T) {
	tests := []struct {
		input string
		tag   string
	}{
		{"I == 2", "equal"},
		{"I != 2", "not_equal"},
		{"I > 2", "greater_than"},
		{"I < 2", "less_than"},
		{"I >= 2", "greater_than_or_equal"},
		{"I <= 2", "less_than_or_equal"},
	}
	for _, tt := range tests {
		node := parseFilter(t, tt.input)
		cmp, ok := node.(*parser.Comparison)
		require.True(t, ok, "input %q", tt.input)
		assert.Equal(t, tt.tag, cmp.Tag(), "input %q", tt.input)
		assert.Equal(t, "I", cmp.Variable.Name)
		assert.Equal(t, parser.LiteralInt, cmp.Value.Kind)
		assert.Equal(t, int64(2), cmp.Value.Int)
	}
}

func TestParseFilterLiteralKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  parser.LiteralKind
	}{
		{"X == 2", parser.LiteralInt},
		{"X == 2.5", parser.LiteralFloat},
		{"X == NaN", parser.LiteralNaN},
		{"X == TRUE", parser.LiteralBool},
		{"X == 'text'", parser.LiteralString},
	}
	for _, tt := range tests {
		cmp := parseFilter(t, tt.input).(*parser.Comparison)
		assert.Equal(t, tt.kind, cmp.Value.Kind, "input %q", tt.input)
	}
}

func TestParseFilterInfinity(t *testing.T) {
	cmp := parseFilter(t, "X < INF").(*parser.Comparison)
	assert.True(t, math.IsInf(cmp.Value.Float, 1))

	cmp = parseFilter(t, "X > -INF").(*parser.Comparison)
	assert.True(t, math.IsInf(cmp.Value.Float, -1))
}

func TestParseFilterOrderingRejectsNonOrdinal(t *testing.T) {
	for _, input := range []string{"X > 'text'", "X <= 'text'"} {
		_, err := parser.ParseFilterExpression(input)
		var parseErr *parser.ParseError
		require.ErrorAs(t, err, &parseErr, "input %q", input)
	}
}

func TestParseFilterElementAccess(t *testing.T) {
	cmp := parseFilter(t, "B_NEC[0] >= 1").(*parser.Comparison)
	assert.Equal(t, "B_NEC", cmp.Variable.Name)
	assert.Equal(t, []int{0}, cmp.Variable.Index)
	assert.Equal(t, "B_NEC[0]", cmp.Variable.String())

	cmp = parseFilter(t, "M[1,2] == 0").(*parser.Comparison)
	assert.Equal(t, []int{1, 2}, cmp.Variable.Index)
	assert.Equal(t, "M[1,2]", cmp.Variable.String())
}

func TestParseFilterElementAccessErrors(t *testing.T) {
	inputs := []string{
		"B[-1] == 0",  // negative index
		"B[1.5] == 0", // non-integer index
		"B[1 == 0",    // missing close bracket
		"B[1234567890] == 0", // too many digits
	}
	for _, input := range inputs {
		_, err := parser.ParseFilterExpression(input)
		var parseErr *parser.ParseError
		require.ErrorAs(t, err, &parseErr, "input %q", input)
	}
}

func TestParseFilterDimensionLimit(t *testing.T) {
	limits := parser.DefaultLimits()
	limits.MaxDimensions = 2
	_, err := parser.ParseFilterExpressionWithLimits("B[1,2,3] == 0", limits)
	var parseErr *parser.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "dimensions")
}

func TestParseFilterBitmask(t *testing.T) {
	node := parseFilter(t, "Flags & 6 == 2")
	bm, ok := node.(*parser.Bitmask)
	require.True(t, ok)
	assert.False(t, bm.Negated)
	assert.Equal(t, int64(6), bm.Mask)
	assert.Equal(t, int64(2), bm.Value)

	bm = parseFilter(t, "Flags & 6 != 15").(*parser.Bitmask)
	assert.True(t, bm.Negated)
	// the stored value is pre-masked
	assert.Equal(t, int64(6), bm.Value)
}

func TestParseFilterNegation(t *testing.T) {
	node := parseFilter(t, "NOT I == 2")
	not, ok := node.(*parser.Not)
	require.True(t, ok)
	_, ok = not.Child.(*parser.Comparison)
	assert.True(t, ok)
}

func TestParseFilterDoubleNegationCancels(t *testing.T) {
	node := parseFilter(t, "NOT NOT I == 2")
	_, ok := node.(*parser.Comparison)
	assert.True(t, ok)

	node = parseFilter(t, "NOT NOT NOT I == 2")
	_, ok = node.(*parser.Not)
	assert.True(t, ok)
}

func TestParseFilterConjunction(t *testing.T) {
	node := parseFilter(t, "I >= 1 AND J >= 2 AND K == 0")
	junction, ok := node.(*parser.Junction)
	require.True(t, ok)
	assert.Equal(t, parser.KindConjunction, junction.Kind)
	assert.Len(t, junction.Members, 3)
}

func TestParseFilterDisjunction(t *testing.T) {
	node := parseFilter(t, "I == -1 OR I == 0 OR J == 2")
	junction, ok := node.(*parser.Junction)
	require.True(t, ok)
	assert.Equal(t, parser.KindDisjunction, junction.Kind)
	assert.Len(t, junction.Members, 3)
}

func TestParseFilterJunctionFlattening(t *testing.T) {
	// nested same-kind junctions are spliced into one flat level
	node := parseFilter(t, "(I == 1 AND J == 2) AND K == 3")
	junction, ok := node.(*parser.Junction)
	require.True(t, ok)
	assert.Equal(t, parser.KindConjunction, junction.Kind)
	assert.Len(t, junction.Members, 3)

	node = parseFilter(t, "I == 1 OR (J == 2 OR K == 3)")
	junction = node.(*parser.Junction)
	assert.Len(t, junction.Members, 3)
}

func TestParseFilterMixedJunctionNeedsParentheses(t *testing.T) {
	_, err := parser.ParseFilterExpression("I == 1 AND J == 2 OR K == 3")
	var parseErr *parser.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "mix AND and OR")

	// parenthesized mixing is fine
	node := parseFilter(t, "(I == 1 AND J == 2) OR K == 3")
	junction, ok := node.(*parser.Junction)
	require.True(t, ok)
	assert.Equal(t, parser.KindDisjunction, junction.Kind)
	assert.Len(t, junction.Members, 2)
}

func TestParseFilterPredicateLimit(t *testing.T) {
	limits := parser.DefaultLimits()
	limits.MaxPredicates = 3

	_, err := parser.ParseFilterExpressionWithLimits("A == 1 AND B == 2 AND C == 3", limits)
	assert.NoError(t, err)

	_, err = parser.ParseFilterExpressionWithLimits("A == 1 AND B == 2 AND C == 3 AND D == 4", limits)
	var parseErr *parser.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "maximum allowed number of predicates")
}

func TestParseFilterRangeList(t *testing.T) {
	node := parseFilter(t, "Latitude:-45,45;Longitude:-90,90")
	junction, ok := node.(*parser.Junction)
	require.True(t, ok)
	assert.Equal(t, parser.KindConjunction, junction.Kind)
	require.Len(t, junction.Members, 4)

	lower := junction.Members[0].(*parser.Comparison)
	assert.Equal(t, parser.OpGreaterThanOrEqual, lower.Op)
	assert.Equal(t, "Latitude", lower.Variable.Name)
	assert.Equal(t, int64(-45), lower.Value.Int)

	upper := junction.Members[3].(*parser.Comparison)
	assert.Equal(t, parser.OpLessThanOrEqual, upper.Op)
	assert.Equal(t, "Longitude", upper.Variable.Name)
	assert.Equal(t, int64(90), upper.Value.Int)
}

func TestParseFilterRangeListWithElementAccess(t *testing.T) {
	node := parseFilter(t, "B_NEC[2]:-1000,1000")
	junction := node.(*parser.Junction)
	require.Len(t, junction.Members, 2)
	assert.Equal(t, []int{2}, junction.Members[0].(*parser.Comparison).Variable.Index)
}

func TestParseFilterEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := parser.ParseFilterExpression(input)
		var parseErr *parser.ParseError
		require.ErrorAs(t, err, &parseErr, "input %q", input)
		assert.Contains(t, parseErr.Message, "empty input")
	}
}

func TestParseFilterTrailingGarbage(t *testing.T) {
	_, err := parser.ParseFilterExpression("I == 2 J == 3")
	var parseErr *parser.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseFilterMissingCloseParen(t *testing.T) {
	_, err := parser.ParseFilterExpression("(I == 1 AND J == 2")
	var parseErr *parser.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "parenthesis")
}

func TestParseFilterStringEscapes(t *testing.T) {
	cmp := parseFilter(t, "Spacecraft == 'it''s'").(*parser.Comparison)
	assert.Equal(t, "it's", cmp.Value.Str)
	assert.Equal(t, "'it''s'", cmp.Value.String())
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{2, "2"},
		{-1, "-1"},
		{2.5, "2.5"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "INF"},
		{math.Inf(-1), "-INF"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parser.FormatNumber(tt.value))
	}
}

func TestParseFilterLongStringLiteral(t *testing.T) {
	_, err := parser.ParseFilterExpression("X == '" + strings.Repeat("s", 129) + "'")
	var lexErr *parser.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Contains(t, lexErr.Message, "string literal longer")
}
