package parser

import (
	"github.com/heliolab/seriesq/pkg/token"
)

// AllowedModelParameters lists the parameter keys accepted inside a model
// definition's parenthesized parameter list. The synthetic "scale"
// parameter is produced only by a subtracting sign, never written
// explicitly.
var AllowedModelParameters = map[string]bool{
	"min_degree": true,
	"max_degree": true,
}

// modelParser parses model lists and model-composition expressions.
type modelParser struct {
	*cursor
}

// ParseModelList parses a comma-separated model list with default limits.
func ParseModelList(input string) ([]Model, error) {
	return ParseModelListWithLimits(input, DefaultLimits())
}

// ParseModelListWithLimits parses a comma-separated model list. Each
// entry is either a bare model identifier or "id = expression". Empty or
// whitespace-only input yields an empty list.
func ParseModelListWithLimits(input string, limits Limits) ([]Model, error) {
	tokens, err := drain(NewModelLexerWithLimits(input, limits))
	if err != nil {
		return nil, err
	}

	p := &modelParser{cursor: newCursor(tokens, limits)}
	if p.check(token.EOF) {
		return []Model{}, nil
	}

	var models []Model
	for {
		model, err := p.parseModel()
		if err != nil {
			return nil, err
		}
		models = append(models, model)
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
	return models, nil
}

// ParseModelExpression parses a standalone model-composition expression
// with default limits.
func ParseModelExpression(input string) ([]ModelComponent, error) {
	return ParseModelExpressionWithLimits(input, DefaultLimits())
}

// ParseModelExpressionWithLimits parses a standalone model-composition
// expression: one or more signed model definitions.
func ParseModelExpressionWithLimits(input string, limits Limits) ([]ModelComponent, error) {
	tokens, err := drain(NewModelLexerWithLimits(input, limits))
	if err != nil {
		return nil, err
	}

	p := &modelParser{cursor: newCursor(tokens, limits)}
	if p.check(token.EOF) {
		return nil, p.errorf(ErrEmptyInput)
	}
	components, err := p.parseModelExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	return components, nil
}

// parseModel parses one model-list entry.
func (p *modelParser) parseModel() (Model, error) {
	idTok, err := p.expect(token.IDENT)
	if err != nil {
		return Model{}, err
	}
	if !p.match(token.ASSIGN) {
		return Model{
			ID:         idTok.Literal,
			Components: []ModelComponent{{ID: idTok.Literal, Params: map[string]int{}}},
		}, nil
	}
	components, err := p.parseModelExpression()
	if err != nil {
		return Model{}, err
	}
	return Model{ID: idTok.Literal, Components: components}, nil
}

// parseModelExpression parses "term ((+|-) term)*". A subtracting sign
// synthesizes the scale = -1 parameter of its term.
func (p *modelParser) parseModelExpression() ([]ModelComponent, error) {
	var components []ModelComponent
	for {
		negative := false
		switch {
		case p.match(token.PLUS):
		case p.match(token.MINUS):
			negative = true
		default:
			if len(components) == 0 {
				break // leading sign is optional
			}
			return components, nil
		}

		component, err := p.parseModelDefinition()
		if err != nil {
			return nil, err
		}
		if negative {
			component.Params["scale"] = -1
		}
		components = append(components, component)
	}
}

// parseModelDefinition parses "model_id" or
// "model_id ( key = integer, ... )".
func (p *modelParser) parseModelDefinition() (ModelComponent, error) {
	idTok, err := p.expect(token.IDENT)
	if err != nil {
		return ModelComponent{}, err
	}
	component := ModelComponent{ID: idTok.Literal, Params: map[string]int{}}

	if !p.match(token.LPAREN) {
		return component, nil
	}
	if p.match(token.RPAREN) {
		return component, nil
	}

	for {
		if err := p.parseModelParameter(component.Params); err != nil {
			return ModelComponent{}, err
		}
		if p.match(token.COMMA) {
			if p.check(token.RPAREN) || p.check(token.EOF) {
				return ModelComponent{}, p.errorf(ErrTrailingComma)
			}
			continue
		}
		break
	}
	if !p.match(token.RPAREN) {
		return ModelComponent{}, p.errorf(ErrMissingCloseParen)
	}
	return component, nil
}

// parseModelParameter parses one "key = integer" parameter into params.
func (p *modelParser) parseModelParameter(params map[string]int) error {
	keyTok, err := p.expect(token.IDENT)
	if err != nil {
		return err
	}
	key := keyTok.Literal
	if !AllowedModelParameters[key] {
		return p.errorf(ErrInvalidParameter, key)
	}
	if _, dup := params[key]; dup {
		return p.errorf(ErrDuplicateParameter, key)
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return err
	}

	negative := false
	switch {
	case p.match(token.PLUS):
	case p.match(token.MINUS):
		negative = true
	}
	valueTok, err := p.expect(token.INTEGER)
	if err != nil {
		return err
	}
	value, err := p.parseBoundedInt(valueTok)
	if err != nil {
		return err
	}
	if negative {
		value = -value
	}
	params[key] = value
	return nil
}
