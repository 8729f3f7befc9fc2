package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliolab/seriesq/pkg/parser"
	"github.com/heliolab/seriesq/pkg/token"
)

// tokenTypes strips the trailing EOF and returns the token types.
func tokenTypes(tokens []token.Token) []token.Type {
	types := make([]token.Type, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == token.EOF {
			break
		}
		types = append(types, tok.Type)
	}
	return types
}

func tokenLiterals(tokens []token.Token) []string {
	literals := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == token.EOF {
			break
		}
		literals = append(literals, tok.Literal)
	}
	return literals
}

// ---------- Filter lexer ----------

func TestFilterLexerOperators(t *testing.T) {
	tokens, err := parser.TokenizeFilter("== != < > <= >= & : ; , ( ) [ ]")
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE,
		token.AMP, token.COLON, token.SEMICOLON, token.COMMA,
		token.LPAREN, token.RPAREN, token.LBRACKET, token.RBRACKET,
	}, tokenTypes(tokens))
}

func TestFilterLexerComparison(t *testing.T) {
	tokens, err := parser.TokenizeFilter("B_NEC[0] >= -1.5e3")
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.IDENT, token.LBRACKET, token.INTEGER, token.RBRACKET,
		token.GE, token.FLOAT,
	}, tokenTypes(tokens))
	assert.Equal(t, []string{"B_NEC", "[", "0", "]", ">=", "-1.5e3"}, tokenLiterals(tokens))
}

func TestFilterLexerKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  token.Type
	}{
		{"AND", token.AND},
		{"and", token.AND},
		{"Or", token.OR},
		{"NOT", token.NOT},
		{"NaN", token.FLOAT},
		{"nan", token.FLOAT},
		{"INF", token.FLOAT},
		{"TRUE", token.BOOL},
		{"false", token.BOOL},
		{"Flags", token.IDENT},
	}
	for _, tt := range tests {
		tokens, err := parser.TokenizeFilter(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		require.Len(t, tokens, 2)
		assert.Equal(t, tt.want, tokens[0].Type, "input %q", tt.input)
	}
}

func TestFilterLexerSignedSpecials(t *testing.T) {
	for _, input := range []string{"-NaN", "+NaN", "-INF", "+INF"} {
		tokens, err := parser.TokenizeFilter(input)
		require.NoError(t, err, "input %q", input)
		require.Len(t, tokens, 2)
		assert.Equal(t, token.FLOAT, tokens[0].Type, "input %q", input)
		assert.Equal(t, input, tokens[0].Literal)
	}
}

func TestFilterLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  token.Type
	}{
		{"0", token.INTEGER},
		{"-42", token.INTEGER},
		{"+7", token.INTEGER},
		{"4.5", token.FLOAT},
		{".5", token.FLOAT},
		{"1e-3", token.FLOAT},
		{"-1.5E+10", token.FLOAT},
	}
	for _, tt := range tests {
		tokens, err := parser.TokenizeFilter(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		require.Len(t, tokens, 2)
		assert.Equal(t, tt.want, tokens[0].Type, "input %q", tt.input)
		assert.Equal(t, tt.input, tokens[0].Literal)
	}
}

func TestFilterLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`'SW_OPER'`, "SW_OPER"},
		{`"SW_OPER"`, "SW_OPER"},
		{`'it''s'`, "it's"},
		{`''`, ""},
	}
	for _, tt := range tests {
		tokens, err := parser.TokenizeFilter(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		require.Len(t, tokens, 2)
		assert.Equal(t, token.STRING, tokens[0].Type)
		assert.Equal(t, tt.want, tokens[0].Literal)
	}
}

func TestFilterLexerUnterminatedQuote(t *testing.T) {
	_, err := parser.TokenizeFilter("'unterminated")
	require.Error(t, err)
	var lexErr *parser.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Contains(t, lexErr.Message, "closing quote")
}

func TestFilterLexerIdentifierTooLong(t *testing.T) {
	_, err := parser.TokenizeFilter(strings.Repeat("a", 129))
	require.Error(t, err)
	var lexErr *parser.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Contains(t, lexErr.Message, "longer than 128")

	_, err = parser.TokenizeFilter(strings.Repeat("a", 128))
	assert.NoError(t, err)
}

func TestFilterLexerIllegalCharacter(t *testing.T) {
	for _, input := range []string{"#", "=", "!", "a @ b"} {
		_, err := parser.TokenizeFilter(input)
		var lexErr *parser.LexError
		require.ErrorAs(t, err, &lexErr, "input %q", input)
	}
}

func TestFilterLexerPositions(t *testing.T) {
	tokens, err := parser.TokenizeFilter("I == 2")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 3, Offset: 2}, tokens[1].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 6, Offset: 5}, tokens[2].Pos)
}

// ---------- Model lexer ----------

func TestModelLexerDashSplitsBareIdentifier(t *testing.T) {
	tokens, err := parser.TokenizeModel("MODEL-TEST")
	require.NoError(t, err)
	assert.Equal(t, []token.Type{token.IDENT, token.MINUS, token.IDENT}, tokenTypes(tokens))
	assert.Equal(t, []string{"MODEL", "-", "TEST"}, tokenLiterals(tokens))
}

func TestModelLexerQuotedIdentifierKeepsDash(t *testing.T) {
	for _, input := range []string{`'MODEL-1'`, `"MODEL-1"`} {
		tokens, err := parser.TokenizeModel(input)
		require.NoError(t, err, "input %q", input)
		require.Len(t, tokens, 2)
		assert.Equal(t, token.IDENT, tokens[0].Type)
		assert.Equal(t, "MODEL-1", tokens[0].Literal)
	}
}

func TestModelLexerExpression(t *testing.T) {
	tokens, err := parser.TokenizeModel("CHAOS(max_degree=20) - MCO")
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.IDENT, token.LPAREN, token.IDENT, token.ASSIGN, token.INTEGER,
		token.RPAREN, token.MINUS, token.IDENT,
	}, tokenTypes(tokens))
}

func TestModelLexerIntegerDigitLimit(t *testing.T) {
	_, err := parser.TokenizeModel("M(max_degree=1234567890)")
	require.Error(t, err)
	var lexErr *parser.LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Contains(t, lexErr.Message, "more than 9 digits")

	_, err = parser.TokenizeModel("M(max_degree=123456789)")
	assert.NoError(t, err)
}

// ---------- Variable lexer ----------

func TestVariableLexerList(t *testing.T) {
	tokens, err := parser.TokenizeVariables("Var_01, Var_02 = Src_02")
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.IDENT, token.COMMA, token.IDENT, token.ASSIGN, token.IDENT,
	}, tokenTypes(tokens))
}

func TestVariableLexerQuotedName(t *testing.T) {
	tokens, err := parser.TokenizeVariables(`'Odd Name' = Source`)
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, "Odd Name", tokens[0].Literal)
}

func TestVariableLexerWhitespaceOnly(t *testing.T) {
	tokens, err := parser.TokenizeVariables("   \t ")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, token.EOF, tokens[0].Type)
}
