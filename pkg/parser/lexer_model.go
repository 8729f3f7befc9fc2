package parser

import (
	"github.com/heliolab/seriesq/pkg/token"
)

// ModelLexer tokenizes model lists and model-composition expressions.
//
// A bare model identifier never contains a dash: "MODEL-1" tokenizes as
// the identifier "MODEL", a minus and the integer 1. A quoted identifier
// preserves the dash verbatim ("'MODEL-1'" is a single token).
type ModelLexer struct {
	scanner
}

// NewModelLexer creates a model-grammar lexer with default limits.
func NewModelLexer(input string) *ModelLexer {
	return NewModelLexerWithLimits(input, DefaultLimits())
}

// NewModelLexerWithLimits creates a model-grammar lexer with the given
// input limits.
func NewModelLexerWithLimits(input string, limits Limits) *ModelLexer {
	return &ModelLexer{scanner: newScanner(input, limits)}
}

// NextToken returns the next token or a LexError.
func (l *ModelLexer) NextToken() (token.Token, error) {
	l.skipWhitespace()

	pos := l.currentPos()

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Pos: pos}, nil
	case '+':
		tok := l.newToken(token.PLUS, "+")
		l.readChar()
		return tok, nil
	case '-':
		tok := l.newToken(token.MINUS, "-")
		l.readChar()
		return tok, nil
	case '=':
		tok := l.newToken(token.ASSIGN, "=")
		l.readChar()
		return tok, nil
	case ',':
		tok := l.newToken(token.COMMA, ",")
		l.readChar()
		return tok, nil
	case '(':
		tok := l.newToken(token.LPAREN, "(")
		l.readChar()
		return tok, nil
	case ')':
		tok := l.newToken(token.RPAREN, ")")
		l.readChar()
		return tok, nil
	case '\'', '"':
		value, err := l.readQuoted(l.ch, pos)
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Type: token.IDENT, Literal: value, Pos: pos}, nil
	}

	switch {
	case isLetter(l.ch):
		word := l.readBareWord()
		if len(word) > l.limits.MaxIdentLen {
			return token.Token{}, l.errorf(pos, word, ErrIdentifierTooLong, l.limits.MaxIdentLen)
		}
		return token.Token{Type: token.IDENT, Literal: word, Pos: pos}, nil
	case isDigit(l.ch):
		start := l.pos
		for isDigit(l.ch) {
			l.readChar()
		}
		text := l.input[start:l.pos]
		if len(text) > l.limits.MaxIntDigits {
			return token.Token{}, l.errorf(pos, text, ErrTooManyDigits, l.limits.MaxIntDigits)
		}
		return token.Token{Type: token.INTEGER, Literal: text, Pos: pos}, nil
	}

	return token.Token{}, l.errorf(pos, string(l.ch), ErrIllegalCharacter, l.ch)
}

// TokenizeModel returns all tokens of a model list or expression,
// terminated by EOF. A fresh lexer is created per call.
func TokenizeModel(input string) ([]token.Token, error) {
	return NewModelLexer(input).Tokenize()
}

// Tokenize returns all remaining tokens, terminated by EOF.
func (l *ModelLexer) Tokenize() ([]token.Token, error) {
	return drain(l)
}
