package parser

import (
	"github.com/heliolab/seriesq/pkg/token"
)

// ParseVariableList parses a variable alias list with default limits.
func ParseVariableList(input string) ([]Variable, error) {
	return ParseVariableListWithLimits(input, DefaultLimits())
}

// ParseVariableListWithLimits parses a comma-separated variable alias
// list. An entry without "=" aliases itself (source defaults to the
// name). Empty or whitespace-only input yields an empty list.
func ParseVariableListWithLimits(input string, limits Limits) ([]Variable, error) {
	tokens, err := drain(NewVariableLexerWithLimits(input, limits))
	if err != nil {
		return nil, err
	}

	p := newCursor(tokens, limits)
	if p.check(token.EOF) {
		return []Variable{}, nil
	}

	var variables []Variable
	for {
		nameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		variable := Variable{Name: nameTok.Literal, Source: nameTok.Literal}
		if p.match(token.ASSIGN) {
			sourceTok := p.token()
			if sourceTok.Type != token.IDENT {
				return nil, p.errorf(ErrMissingAliasSource)
			}
			p.next()
			variable.Source = sourceTok.Literal
		}
		variables = append(variables, variable)

		if !p.match(token.COMMA) {
			break
		}
		if p.check(token.EOF) {
			return nil, p.errorf(ErrTrailingComma)
		}
	}
	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	return variables, nil
}
