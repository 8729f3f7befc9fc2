package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliolab/seriesq/pkg/parser"
)

func TestParseVariableList(t *testing.T) {
	variables, err := parser.ParseVariableList(
		"Var_01, Var_02 = Src_02, Var_03 = Src_03, Var_04",
	)
	require.NoError(t, err)
	assert.Equal(t, []parser.Variable{
		{Name: "Var_01", Source: "Var_01"},
		{Name: "Var_02", Source: "Src_02"},
		{Name: "Var_03", Source: "Src_03"},
		{Name: "Var_04", Source: "Var_04"},
	}, variables)
}

func TestParseVariableListQuotedName(t *testing.T) {
	variables, err := parser.ParseVariableList("'B-NEC' = B_NEC")
	require.NoError(t, err)
	assert.Equal(t, []parser.Variable{{Name: "B-NEC", Source: "B_NEC"}}, variables)
}

func TestParseVariableListEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		variables, err := parser.ParseVariableList(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, []parser.Variable{}, variables)
	}
}

func TestParseVariableListErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"Var_01 = ", "missing source variable after '='"},
		{"Var_01,", "unexpected trailing comma"},
		{"Var_01 Var_02", "unexpected"},
		{"= Var_01", "unexpected"},
	}
	for _, tt := range tests {
		_, err := parser.ParseVariableList(tt.input)
		var parseErr *parser.ParseError
		require.ErrorAs(t, err, &parseErr, "input %q", tt.input)
		assert.Contains(t, parseErr.Message, tt.message, "input %q", tt.input)
	}
}
