package parser

import (
	"github.com/heliolab/seriesq/pkg/token"
)

// VariableLexer tokenizes variable alias lists.
type VariableLexer struct {
	scanner
}

// NewVariableLexer creates a variable-list lexer with default limits.
func NewVariableLexer(input string) *VariableLexer {
	return NewVariableLexerWithLimits(input, DefaultLimits())
}

// NewVariableLexerWithLimits creates a variable-list lexer with the given
// input limits.
func NewVariableLexerWithLimits(input string, limits Limits) *VariableLexer {
	return &VariableLexer{scanner: newScanner(input, limits)}
}

// NextToken returns the next token or a LexError.
func (l *VariableLexer) NextToken() (token.Token, error) {
	l.skipWhitespace()

	pos := l.currentPos()

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Pos: pos}, nil
	case '=':
		tok := l.newToken(token.ASSIGN, "=")
		l.readChar()
		return tok, nil
	case ',':
		tok := l.newToken(token.COMMA, ",")
		l.readChar()
		return tok, nil
	case '\'', '"':
		value, err := l.readQuoted(l.ch, pos)
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Type: token.IDENT, Literal: value, Pos: pos}, nil
	}

	if isLetter(l.ch) || l.ch == '_' {
		word := l.readBareWord()
		if len(word) > l.limits.MaxIdentLen {
			return token.Token{}, l.errorf(pos, word, ErrIdentifierTooLong, l.limits.MaxIdentLen)
		}
		return token.Token{Type: token.IDENT, Literal: word, Pos: pos}, nil
	}

	return token.Token{}, l.errorf(pos, string(l.ch), ErrIllegalCharacter, l.ch)
}

// TokenizeVariables returns all tokens of a variable list, terminated by
// EOF. A fresh lexer is created per call.
func TokenizeVariables(input string) ([]token.Token, error) {
	return NewVariableLexer(input).Tokenize()
}

// Tokenize returns all remaining tokens, terminated by EOF.
func (l *VariableLexer) Tokenize() ([]token.Token, error) {
	return drain(l)
}
