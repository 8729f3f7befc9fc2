// Package parser implements the lexers and parsers of the seriesq
// expression grammars.
//
// # Grammars
//
// Three small independent grammars are supported:
//
//	filter      → comparison | NOT filter | filter (AND filter)+ | filter (OR filter)+
//	model list  → model ("," model)* ; model → id ["=" expression]
//	variables   → (item ("," item)*)? ; item → name ["=" source]
//
// Parsing is a pure function of the input: it either returns the AST or
// fails with a LexError/ParseError; no partial AST is ever returned.
package parser

import (
	"fmt"
	"strconv"

	"github.com/heliolab/seriesq/pkg/token"
)

// cursor walks an eagerly tokenized input.
type cursor struct {
	tokens []token.Token
	pos    int
	limits Limits
}

func newCursor(tokens []token.Token, limits Limits) *cursor {
	return &cursor{tokens: tokens, limits: limits}
}

// token returns the current token.
func (c *cursor) token() token.Token {
	return c.tokens[c.pos]
}

// next advances to the next token. The trailing EOF token is sticky.
func (c *cursor) next() {
	if c.pos < len(c.tokens)-1 {
		c.pos++
	}
}

// check returns true if the current token is of the given type.
func (c *cursor) check(t token.Type) bool {
	return c.token().Type == t
}

// match consumes the current token if it matches and returns true.
func (c *cursor) match(t token.Type) bool {
	if c.check(t) {
		c.next()
		return true
	}
	return false
}

// expect consumes and returns the current token if it matches, otherwise
// it fails with a ParseError.
func (c *cursor) expect(t token.Type) (token.Token, error) {
	tok := c.token()
	if tok.Type != t {
		return token.Token{}, c.unexpected(t.String())
	}
	c.next()
	return tok, nil
}

// errorf returns a ParseError at the current token's position.
func (c *cursor) errorf(format string, args ...any) *ParseError {
	return &ParseError{
		Pos:     c.token().Pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// unexpected returns a ParseError describing the current token.
func (c *cursor) unexpected(expected string) *ParseError {
	tok := c.token()
	return c.errorf(ErrUnexpectedToken, tok.Type, tok.Literal, expected)
}

// parseBoundedInt parses an integer token whose digit count is bounded by
// MaxIntDigits.
func (c *cursor) parseBoundedInt(tok token.Token) (int, error) {
	digits := tok.Literal
	if len(digits) > 0 && (digits[0] == '+' || digits[0] == '-') {
		digits = digits[1:]
	}
	if len(digits) > c.limits.MaxIntDigits {
		return 0, &ParseError{
			Pos:     tok.Pos,
			Message: fmt.Sprintf(ErrTooManyDigits, c.limits.MaxIntDigits),
		}
	}
	value, err := strconv.Atoi(tok.Literal)
	if err != nil {
		return 0, &ParseError{
			Pos:     tok.Pos,
			Message: fmt.Sprintf(ErrInvalidNumber, tok.Literal),
		}
	}
	return value, nil
}
