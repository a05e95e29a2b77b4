package parser

import (
	"github.com/GiGurra/fl/pkg/ast"
	"github.com/GiGurra/fl/pkg/lexer"
)

func (p *Parser) parseTypeExpression() (ast.TypeExpression, error) {
	first, err := p.parsePostfixType()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.TokenPipe) {
		return first, nil
	}
	members := []ast.TypeExpression{first}
	for p.match(lexer.TokenPipe) {
		member, err := p.parsePostfixType()
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return ast.NewUnionTypeExpression(members), nil
}

func (p *Parser) parsePostfixType() (ast.TypeExpression, error) {
	t, err := p.parsePrimaryType()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.TokenQuestion) {
		t = ast.NewNullableTypeExpression(t)
	}
	return t, nil
}

func (p *Parser) parsePrimaryType() (ast.TypeExpression, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenIdent:
		p.advance()
		return ast.NewSimpleTypeExpression(ast.NewIdentifier(tok.Lexeme)), nil
	case lexer.TokenLBrace:
		return p.parseRecordTypeExpression()
	case lexer.TokenLBracket:
		p.advance()
		element, err := p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRBracket); err != nil {
			return nil, err
		}
		return ast.NewListTypeExpression(element), nil
	case lexer.TokenLParen:
		p.advance()
		var params []ast.TypeExpression
		for !p.check(lexer.TokenRParen) {
			param, err := p.parseTypeExpression()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		if _, err := p.expect(lexer.TokenRParen); err != nil {
			return nil, err
		}
		if p.match(lexer.TokenArrow) {
			ret, err := p.parseTypeExpression()
			if err != nil {
				return nil, err
			}
			return ast.NewFunctionTypeExpression(params, ret), nil
		}
		if len(params) == 1 {
			return params[0], nil
		}
		return nil, p.errorAt(tok, "parenthesized type list requires '->'")
	}
	return nil, p.errorAt(tok, "expected type, got %s", tok)
}

func (p *Parser) parseRecordTypeExpression() (*ast.RecordTypeExpression, error) {
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	var fields []*ast.RecordTypeField
	for !p.check(lexer.TokenRBrace) {
		nameTok, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon); err != nil {
			return nil, err
		}
		fieldType, err := p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.NewRecordTypeField(ast.NewIdentifier(nameTok.Lexeme), fieldType))
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	return ast.NewRecordTypeExpression(fields), nil
}
