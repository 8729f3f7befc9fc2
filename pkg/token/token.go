// Package token defines the lexical tokens shared by the seriesq
// expression grammars (filter expressions, model expressions and
// variable lists).
package token

import "fmt"

// Type represents the type of a lexical token.
type Type int32

const (
	// Special tokens
	EOF Type = iota

	// Literals
	IDENT   // bare or quoted identifier
	STRING  // 'string literal'
	INTEGER // 123, -42
	FLOAT   // 4.5, 1e-3, NaN, INF
	BOOL    // TRUE, FALSE

	// Operators
	EQ        // ==
	NE        // !=
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	AMP       // &
	ASSIGN    // =
	PLUS      // +
	MINUS     // -
	COMMA     // ,
	COLON     // :
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]

	// Keywords
	AND
	OR
	NOT
)

// String returns a human-readable representation of the token type.
func (t Type) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps token types to their string representations.
var tokenNames = map[Type]string{
	EOF: "EOF",

	IDENT:   "IDENT",
	STRING:  "STRING",
	INTEGER: "INTEGER",
	FLOAT:   "FLOAT",
	BOOL:    "BOOL",

	EQ:        "==",
	NE:        "!=",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	AMP:       "&",
	ASSIGN:    "=",
	PLUS:      "+",
	MINUS:     "-",
	COMMA:     ",",
	COLON:     ":",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",

	AND: "AND",
	OR:  "OR",
	NOT: "NOT",
}

// keywords maps reserved words of the filter grammar to their token types.
var keywords = map[string]Type{
	"AND":   AND,
	"OR":    OR,
	"NOT":   NOT,
	"NAN":   FLOAT,
	"INF":   FLOAT,
	"TRUE":  BOOL,
	"FALSE": BOOL,
}

// LookupWord returns the token type for the given bare word.
// Reserved words are matched case-insensitively on their canonical
// upper-case form; anything else is an IDENT.
func LookupWord(word string) Type {
	if tok, ok := keywords[word]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a boolean-operator keyword.
func IsKeyword(t Type) bool {
	return t == AND || t == OR || t == NOT
}

// IsComparison returns true if the token type is a comparison operator.
func IsComparison(t Type) bool {
	return t >= EQ && t <= GE
}

// Token represents a lexical token with position information.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}
