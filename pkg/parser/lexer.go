package parser

import (
	"fmt"
	"strings"

	"github.com/heliolab/seriesq/pkg/token"
)

// scanner is the byte-level input reader shared by the grammar lexers.
type scanner struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	limits Limits
}

func newScanner(input string, limits Limits) scanner {
	s := scanner{
		input:  input,
		line:   1,
		col:    0,
		limits: limits,
	}
	s.readChar()
	return s
}

// readChar advances to the next character.
func (s *scanner) readChar() {
	if s.readPos >= len(s.input) {
		s.ch = 0 // ASCII NUL = EOF
	} else {
		s.ch = s.input[s.readPos]
	}
	s.pos = s.readPos
	s.readPos++

	if s.ch == '\n' {
		s.line++
		s.col = 0
	} else {
		s.col++
	}
}

// peekChar returns the next character without advancing.
func (s *scanner) peekChar() byte {
	if s.readPos >= len(s.input) {
		return 0
	}
	return s.input[s.readPos]
}

// currentPos returns the current position.
func (s *scanner) currentPos() token.Position {
	return token.Position{
		Line:   s.line,
		Column: s.col,
		Offset: s.pos,
	}
}

// skipWhitespace skips blanks outside quoted regions.
func (s *scanner) skipWhitespace() {
	for s.ch == ' ' || s.ch == '\t' || s.ch == '\n' || s.ch == '\r' {
		s.readChar()
	}
}

// errorf returns a LexError at the given position carrying the offending
// substring.
func (s *scanner) errorf(pos token.Position, offending, format string, args ...any) *LexError {
	return &LexError{
		Pos:     pos,
		Input:   offending,
		Message: fmt.Sprintf(format, args...),
	}
}

// newToken creates a token at the current position.
func (s *scanner) newToken(t token.Type, literal string) token.Token {
	return token.Token{Type: t, Literal: literal, Pos: s.currentPos()}
}

// readBareWord reads a run of identifier characters (letters, digits,
// underscores) starting at the current position.
func (s *scanner) readBareWord() string {
	start := s.pos
	for isLetter(s.ch) || isDigit(s.ch) || s.ch == '_' {
		s.readChar()
	}
	return s.input[start:s.pos]
}

// readQuoted reads a quoted region opened by the given quote character.
// Doubled quotes are unescaped; the quote forms must match. The length of
// the unescaped content is bounded by MaxIdentLen.
func (s *scanner) readQuoted(quote byte, pos token.Position) (string, error) {
	s.readChar() // skip opening quote

	var out strings.Builder
	for s.ch != 0 {
		if s.ch == quote {
			if s.peekChar() == quote {
				out.WriteByte(quote)
				s.readChar()
				s.readChar()
				continue
			}
			s.readChar() // skip closing quote
			if out.Len() > s.limits.MaxIdentLen {
				return "", s.errorf(pos, out.String(), ErrStringTooLong, s.limits.MaxIdentLen)
			}
			return out.String(), nil
		}
		out.WriteByte(s.ch)
		s.readChar()
	}
	return "", s.errorf(pos, out.String(), ErrUnterminatedQuote)
}

// isLetter returns true if ch is an ASCII letter.
func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// FilterLexer tokenizes filter expressions.
type FilterLexer struct {
	scanner
}

// NewFilterLexer creates a filter-expression lexer with default limits.
func NewFilterLexer(input string) *FilterLexer {
	return NewFilterLexerWithLimits(input, DefaultLimits())
}

// NewFilterLexerWithLimits creates a filter-expression lexer with the
// given input limits.
func NewFilterLexerWithLimits(input string, limits Limits) *FilterLexer {
	return &FilterLexer{scanner: newScanner(input, limits)}
}

// NextToken returns the next token or a LexError. After an error the
// lexer must not be used further.
func (l *FilterLexer) NextToken() (token.Token, error) {
	l.skipWhitespace()

	pos := l.currentPos()

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Pos: pos}, nil
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.EQ, Literal: "==", Pos: pos}, nil
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.NE, Literal: "!=", Pos: pos}, nil
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.LE, Literal: "<=", Pos: pos}, nil
		}
		tok := l.newToken(token.LT, "<")
		l.readChar()
		return tok, nil
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.GE, Literal: ">=", Pos: pos}, nil
		}
		tok := l.newToken(token.GT, ">")
		l.readChar()
		return tok, nil
	case '&':
		tok := l.newToken(token.AMP, "&")
		l.readChar()
		return tok, nil
	case ':':
		tok := l.newToken(token.COLON, ":")
		l.readChar()
		return tok, nil
	case ';':
		tok := l.newToken(token.SEMICOLON, ";")
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
	case '[':
		tok := l.newToken(token.LBRACKET, "[")
		l.readChar()
		return tok, nil
	case ']':
		tok := l.newToken(token.RBRACKET, "]")
		l.readChar()
		return tok, nil
	case '\'', '"':
		value, err := l.readQuoted(l.ch, pos)
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Type: token.STRING, Literal: value, Pos: pos}, nil
	}

	switch {
	case isLetter(l.ch) || l.ch == '_':
		word := l.readBareWord()
		if len(word) > l.limits.MaxIdentLen {
			return token.Token{}, l.errorf(pos, word, ErrIdentifierTooLong, l.limits.MaxIdentLen)
		}
		return token.Token{
			Type:    token.LookupWord(strings.ToUpper(word)),
			Literal: word,
			Pos:     pos,
		}, nil
	case isDigit(l.ch) || l.ch == '.' || l.ch == '+' || l.ch == '-':
		return l.readNumber(pos)
	}

	return token.Token{}, l.errorf(pos, string(l.ch), ErrIllegalCharacter, l.ch)
}

// readNumber reads a signed numeric literal: integer, decimal, scientific,
// or the signed NaN/INF reserved words.
func (l *FilterLexer) readNumber(pos token.Position) (token.Token, error) {
	start := l.pos

	if l.ch == '+' || l.ch == '-' {
		l.readChar()
	}

	// Signed NaN/INF word
	if isLetter(l.ch) {
		word := l.readBareWord()
		upper := strings.ToUpper(word)
		if upper == "NAN" || upper == "INF" {
			return token.Token{Type: token.FLOAT, Literal: l.input[start:l.pos], Pos: pos}, nil
		}
		return token.Token{}, l.errorf(pos, l.input[start:l.pos], ErrInvalidNumber, l.input[start:l.pos])
	}

	isFloat := false
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		isFloat = true
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	text := l.input[start:l.pos]
	if !hasDigit(text) {
		return token.Token{}, l.errorf(pos, text, ErrInvalidNumber, text)
	}
	if len(text) > l.limits.MaxIdentLen {
		return token.Token{}, l.errorf(pos, text, ErrInvalidNumber, text)
	}

	t := token.INTEGER
	if isFloat {
		t = token.FLOAT
	}
	return token.Token{Type: t, Literal: text, Pos: pos}, nil
}

func hasDigit(text string) bool {
	for i := 0; i < len(text); i++ {
		if isDigit(text[i]) {
			return true
		}
	}
	return false
}

// TokenizeFilter returns all tokens of a filter expression, terminated by
// EOF. A fresh lexer is created per call, making repeated tokenization of
// the same input independent.
func TokenizeFilter(input string) ([]token.Token, error) {
	return NewFilterLexer(input).Tokenize()
}

// Tokenize returns all remaining tokens, terminated by EOF.
func (l *FilterLexer) Tokenize() ([]token.Token, error) {
	return drain(l)
}

// tokenReader is the pull interface implemented by the grammar lexers.
type tokenReader interface {
	NextToken() (token.Token, error)
}

// drain collects tokens until EOF or a lexing failure. On failure no
// partial token stream is returned.
func drain(r tokenReader) ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := r.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}
