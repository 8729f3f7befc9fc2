package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/heliolab/seriesq/pkg/token"
)

// filterParser parses filter expressions into FilterNode ASTs.
type filterParser struct {
	*cursor
}

// ParseFilterExpression parses a filter expression with default limits.
func ParseFilterExpression(input string) (FilterNode, error) {
	return ParseFilterExpressionWithLimits(input, DefaultLimits())
}

// ParseFilterExpressionWithLimits parses a filter expression.
//
// Two surface forms are accepted: the boolean predicate grammar and the
// legacy range-filter list ("Var:lo,hi;Other:lo,hi"), which expands each
// item into a pair of >= and <= comparisons joined in one conjunction.
func ParseFilterExpressionWithLimits(input string, limits Limits) (FilterNode, error) {
	tokens, err := drain(NewFilterLexerWithLimits(input, limits))
	if err != nil {
		return nil, err
	}

	p := &filterParser{cursor: newCursor(tokens, limits)}
	if p.check(token.EOF) {
		return nil, p.errorf(ErrEmptyInput)
	}

	var node FilterNode
	if p.isRangeList() {
		node, err = p.parseRangeList()
	} else {
		node, err = p.parseExpression()
	}
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	return node, nil
}

// isRangeList reports whether the token stream is a legacy range-filter
// list: an identifier, optionally indexed, followed by a colon.
func (p *filterParser) isRangeList() bool {
	if !p.check(token.IDENT) {
		return false
	}
	i := p.pos + 1
	if i < len(p.tokens) && p.tokens[i].Type == token.LBRACKET {
		for i < len(p.tokens) && p.tokens[i].Type != token.RBRACKET {
			i++
		}
		i++
	}
	return i < len(p.tokens) && p.tokens[i].Type == token.COLON
}

// parseRangeList parses "variable : lo , hi (; variable : lo , hi)*" into
// a single flat conjunction of range comparisons.
func (p *filterParser) parseRangeList() (FilterNode, error) {
	members, err := p.parseRangeItem(nil)
	if err != nil {
		return nil, err
	}
	for p.match(token.SEMICOLON) {
		members, err = p.parseRangeItem(members)
		if err != nil {
			return nil, err
		}
		if len(members) > p.limits.MaxPredicates {
			return nil, p.errorf(ErrTooManyPredicates, "conjunction", p.limits.MaxPredicates)
		}
	}
	return &Junction{Kind: KindConjunction, Members: members}, nil
}

// parseRangeItem parses one "variable : lo , hi" item and appends its two
// comparisons.
func (p *filterParser) parseRangeItem(members []FilterNode) ([]FilterNode, error) {
	variable, err := p.parseVarRef()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	lower, err := p.parseOrdinalLiteral()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COMMA); err != nil {
		return nil, err
	}
	upper, err := p.parseOrdinalLiteral()
	if err != nil {
		return nil, err
	}
	return append(members,
		&Comparison{Op: OpGreaterThanOrEqual, Variable: variable, Value: lower},
		&Comparison{Op: OpLessThanOrEqual, Variable: variable, Value: upper},
	), nil
}

// parseExpression parses a predicate optionally followed by a uniform
// AND- or OR-chain. Same-kind nested junctions are flattened; mixing AND
// and OR at one level requires parentheses.
func (p *filterParser) parseExpression() (FilterNode, error) {
	first, err := p.parsePredicate()
	if err != nil {
		return nil, err
	}

	var kind JunctionKind
	switch p.token().Type {
	case token.AND:
		kind = KindConjunction
	case token.OR:
		kind = KindDisjunction
	default:
		return first, nil
	}

	members := spliceJunction(nil, first, kind)
	for {
		switch p.token().Type {
		case token.AND:
			if kind != KindConjunction {
				return nil, p.errorf(ErrMixedJunction)
			}
		case token.OR:
			if kind != KindDisjunction {
				return nil, p.errorf(ErrMixedJunction)
			}
		default:
			return &Junction{Kind: kind, Members: members}, nil
		}
		p.next()

		member, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		members = spliceJunction(members, member, kind)
		if len(members) > p.limits.MaxPredicates {
			name := "conjunction"
			if kind == KindDisjunction {
				name = "disjunction"
			}
			return nil, p.errorf(ErrTooManyPredicates, name, p.limits.MaxPredicates)
		}
	}
}

// spliceJunction appends a member, inlining same-kind nested junctions so
// that "(a AND b) AND c" parses the same as "a AND b AND c".
func spliceJunction(members []FilterNode, member FilterNode, kind JunctionKind) []FilterNode {
	if j, ok := member.(*Junction); ok && j.Kind == kind {
		return append(members, j.Members...)
	}
	return append(members, member)
}

// parsePredicate parses a comparison, a negation, or a parenthesized
// group.
func (p *filterParser) parsePredicate() (FilterNode, error) {
	switch p.token().Type {
	case token.NOT:
		p.next()
		child, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		// double negation cancels
		if not, ok := child.(*Not); ok {
			return not.Child, nil
		}
		return &Not{Child: child}, nil

	case token.LPAREN:
		p.next()
		node, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if !p.match(token.RPAREN) {
			return nil, p.errorf(ErrMissingCloseParen)
		}
		return node, nil

	case token.IDENT:
		return p.parseComparison()
	}
	return nil, p.unexpected("predicate")
}

// parseComparison parses "variable <op> literal" and the bitmask forms
// "variable & mask == value" and "variable & mask != value".
func (p *filterParser) parseComparison() (FilterNode, error) {
	variable, err := p.parseVarRef()
	if err != nil {
		return nil, err
	}

	opTok := p.token()
	switch opTok.Type {
	case token.EQ, token.NE:
		p.next()
		value, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		op := OpEqual
		if opTok.Type == token.NE {
			op = OpNotEqual
		}
		return &Comparison{Op: op, Variable: variable, Value: value}, nil

	case token.GT, token.LT, token.GE, token.LE:
		p.next()
		value, err := p.parseOrdinalLiteral()
		if err != nil {
			return nil, err
		}
		op := map[token.Type]CompareOp{
			token.GT: OpGreaterThan,
			token.LT: OpLessThan,
			token.GE: OpGreaterThanOrEqual,
			token.LE: OpLessThanOrEqual,
		}[opTok.Type]
		return &Comparison{Op: op, Variable: variable, Value: value}, nil

	case token.AMP:
		p.next()
		return p.parseBitmask(variable)
	}
	return nil, p.unexpected("comparison operator")
}

// parseBitmask parses the "mask ==/!= value" tail of a bitmask predicate.
// The stored value is pre-masked (mask & value).
func (p *filterParser) parseBitmask(variable VarRef) (FilterNode, error) {
	maskTok, err := p.expect(token.INTEGER)
	if err != nil {
		return nil, err
	}
	mask, err := strconv.ParseInt(maskTok.Literal, 10, 64)
	if err != nil {
		return nil, p.errorf(ErrInvalidNumber, maskTok.Literal)
	}

	negated := false
	switch {
	case p.match(token.EQ):
	case p.match(token.NE):
		negated = true
	default:
		return nil, p.unexpected("== or !=")
	}

	valueTok, err := p.expect(token.INTEGER)
	if err != nil {
		return nil, err
	}
	value, err := strconv.ParseInt(valueTok.Literal, 10, 64)
	if err != nil {
		return nil, p.errorf(ErrInvalidNumber, valueTok.Literal)
	}

	return &Bitmask{
		Negated:  negated,
		Variable: variable,
		Mask:     mask,
		Value:    mask & value,
	}, nil
}

// parseVarRef parses an identifier with an optional bracketed element
// index ("B_NEC[0]", "M[1,2]").
func (p *filterParser) parseVarRef() (VarRef, error) {
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return VarRef{}, err
	}
	ref := VarRef{Name: nameTok.Literal}

	if !p.match(token.LBRACKET) {
		return ref, nil
	}
	for {
		idxTok := p.token()
		if idxTok.Type != token.INTEGER || strings.HasPrefix(idxTok.Literal, "-") || strings.HasPrefix(idxTok.Literal, "+") {
			return VarRef{}, p.unexpected("array index")
		}
		p.next()
		idx, err := p.parseBoundedInt(idxTok)
		if err != nil {
			return VarRef{}, err
		}
		ref.Index = append(ref.Index, idx)
		if len(ref.Index) > p.limits.MaxDimensions {
			return VarRef{}, p.errorf(ErrTooManyDimensions, p.limits.MaxDimensions)
		}
		if p.match(token.COMMA) {
			continue
		}
		if p.match(token.RBRACKET) {
			return ref, nil
		}
		return VarRef{}, p.errorf(ErrMissingCloseBracket)
	}
}

// parseLiteral parses any literal: numeric, boolean or string.
func (p *filterParser) parseLiteral() (Literal, error) {
	tok := p.token()
	switch tok.Type {
	case token.STRING:
		p.next()
		return StringLiteral(tok.Literal), nil
	case token.INTEGER, token.FLOAT, token.BOOL:
		return p.parseOrdinalLiteral()
	}
	return Literal{}, p.unexpected("literal")
}

// parseOrdinalLiteral parses a numeric or boolean literal.
func (p *filterParser) parseOrdinalLiteral() (Literal, error) {
	tok := p.token()
	switch tok.Type {
	case token.INTEGER:
		p.next()
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return Literal{}, p.errorf(ErrInvalidNumber, tok.Literal)
		}
		return IntLiteral(value), nil
	case token.FLOAT:
		p.next()
		value, err := parseFloatWord(tok.Literal)
		if err != nil {
			return Literal{}, p.errorf(ErrInvalidNumber, tok.Literal)
		}
		return FloatLiteral(value), nil
	case token.BOOL:
		p.next()
		return BoolLiteral(strings.EqualFold(tok.Literal, "TRUE")), nil
	}
	return Literal{}, p.unexpected("numeric literal")
}

// parseFloatWord parses a float literal including the optionally signed
// NaN and INF reserved words.
func parseFloatWord(text string) (float64, error) {
	body := text
	negative := false
	if len(body) > 0 && (body[0] == '+' || body[0] == '-') {
		negative = body[0] == '-'
		body = body[1:]
	}
	switch strings.ToUpper(body) {
	case "NAN":
		return math.NaN(), nil
	case "INF":
		if negative {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	}
	return strconv.ParseFloat(text, 64)
}
