package parser

import (
	"github.com/GiGurra/fl/pkg/ast"
	"github.com/GiGurra/fl/pkg/lexer"
)

func (p *Parser) parseVariableDeclaration() (ast.Statement, error) {
	kw := p.advance() // let | var
	mutable := kw.Lexeme == "var"

	nameTok, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}

	var annotation ast.TypeExpression
	if p.match(lexer.TokenColon) {
		annotation, err = p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.TokenEq); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.match(lexer.TokenSemicolon)
	return ast.NewVariableDeclaration(mutable, ast.NewIdentifier(nameTok.Lexeme), annotation, value), nil
}

func (p *Parser) parseFunctionDefinition() (ast.Statement, error) {
	p.advance() // fn
	nameTok, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}

	params, err := p.parseParameterList()
	if err != nil {
		return nil, err
	}

	// The '->' before the return type is optional, but once written the
	// type must follow (a '{' after '->' is a record return type, not
	// the body).
	var returnType ast.TypeExpression
	if p.match(lexer.TokenArrow) {
		returnType, err = p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
	} else if !p.check(lexer.TokenLBrace) {
		returnType, err = p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDefinition(ast.NewIdentifier(nameTok.Lexeme), params, returnType, body), nil
}

func (p *Parser) parseParameterList() ([]*ast.FunctionParameter, error) {
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}
	var params []*ast.FunctionParameter
	for !p.check(lexer.TokenRParen) {
		nameTok, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		var typeExpr ast.TypeExpression
		if p.match(lexer.TokenColon) {
			typeExpr, err = p.parseTypeExpression()
			if err != nil {
				return nil, err
			}
		}
		params = append(params, ast.NewFunctionParameter(ast.NewIdentifier(nameTok.Lexeme), typeExpr))
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	return params, nil
}

// parseTypeDeclaration handles the three declaration forms:
//
//	type Person { name: String, age: Int }
//	type Age = Int
//	type Adult = Person where age >= 18
func (p *Parser) parseTypeDeclaration() (ast.Statement, error) {
	p.advance() // type
	nameTok, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	name := ast.NewIdentifier(nameTok.Lexeme)

	if p.check(lexer.TokenLBrace) {
		body, err := p.parseRecordTypeExpression()
		if err != nil {
			return nil, err
		}
		return ast.NewTypeDeclaration(name, body, nil), nil
	}

	if _, err := p.expect(lexer.TokenEq); err != nil {
		return nil, err
	}
	body, err := p.parseTypeExpression()
	if err != nil {
		return nil, err
	}

	var where ast.Expression
	if p.peek().IsKeyword("where") {
		p.advance()
		where, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	p.match(lexer.TokenSemicolon)
	return ast.NewTypeDeclaration(name, body, where), nil
}

func (p *Parser) parseWhileLoop() (ast.Statement, error) {
	p.advance() // while
	condition, err := p.parseHeaderExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileLoop(condition, body), nil
}

func (p *Parser) parseForLoop() (ast.Statement, error) {
	p.advance() // for
	nameTok, err := p.expect(lexer.TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("in"); err != nil {
		return nil, err
	}
	iterable, err := p.parseHeaderExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewForLoop(ast.NewIdentifier(nameTok.Lexeme), iterable, body), nil
}
