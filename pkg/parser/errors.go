package parser

import (
	"fmt"

	"github.com/heliolab/seriesq/pkg/token"
)

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Input   string // offending substring
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf(
		"lexer error at line %d, column %d: %s",
		e.Pos.Line, e.Pos.Column, e.Message,
	)
}

// ParseError represents a grammar-level parsing error.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf(
		"parse error at line %d, column %d: %s",
		e.Pos.Line, e.Pos.Column, e.Message,
	)
}

// Common error messages
const (
	ErrUnexpectedToken     = "unexpected %s %q, expected %s"
	ErrEmptyInput          = "empty input"
	ErrUnterminatedQuote   = "missing closing quote"
	ErrIdentifierTooLong   = "identifier longer than %d characters"
	ErrStringTooLong       = "string literal longer than %d characters"
	ErrIllegalCharacter    = "illegal character %q"
	ErrInvalidNumber       = "invalid number literal %q"
	ErrTooManyDigits       = "integer value has more than %d digits"
	ErrDuplicateParameter  = "duplicate model parameter %q"
	ErrInvalidParameter    = "invalid model parameter %q"
	ErrTrailingComma       = "unexpected trailing comma"
	ErrMixedJunction       = "cannot mix AND and OR without parentheses"
	ErrTooManyPredicates   = "the %s exceeds the maximum allowed number of predicates (%d)"
	ErrTooManyDimensions   = "the array index exceeds the maximum allowed number of dimensions (%d)"
	ErrMissingAliasSource  = "missing source variable after '='"
	ErrMissingCloseParen   = "missing closing parenthesis"
	ErrMissingCloseBracket = "missing closing square bracket"
)
