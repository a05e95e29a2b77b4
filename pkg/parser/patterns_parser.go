package parser

import (
	"math/big"
	"strconv"

	"github.com/GiGurra/fl/pkg/ast"
	"github.com/GiGurra/fl/pkg/lexer"
)

func (p *Parser) parsePattern() (ast.Pattern, error) {
	base, err := p.parseBasePattern()
	if err != nil {
		return nil, err
	}
	if p.match(lexer.TokenColon) {
		typeExpr, err := p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
		return ast.NewTypedPattern(base, typeExpr), nil
	}
	return base, nil
}

func (p *Parser) parseBasePattern() (ast.Pattern, error) {
	tok := p.peek()

	switch tok.Type {
	case lexer.TokenIdent:
		if tok.Lexeme == "_" {
			p.advance()
			return ast.NewWildcardPattern(), nil
		}
		// `Name { ... }` destructures a named record shape.
		if p.peekAt(1).Type == lexer.TokenLBrace {
			p.advance()
			fields, err := p.parseRecordPatternFields()
			if err != nil {
				return nil, err
			}
			return ast.NewRecordPattern(ast.NewIdentifier(tok.Lexeme), fields), nil
		}
		p.advance()
		return ast.NewIdentifier(tok.Lexeme), nil
	case lexer.TokenLBrace:
		fields, err := p.parseRecordPatternFields()
		if err != nil {
			return nil, err
		}
		return ast.NewRecordPattern(nil, fields), nil
	case lexer.TokenInt:
		p.advance()
		value, ok := new(big.Int).SetString(tok.Lexeme, 10)
		if !ok {
			return nil, p.errorAt(tok, "malformed integer literal %q", tok.Lexeme)
		}
		return ast.NewLiteralPattern(ast.NewIntegerLiteral(value)), nil
	case lexer.TokenFloat:
		p.advance()
		value, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorAt(tok, "malformed float literal %q", tok.Lexeme)
		}
		return ast.NewLiteralPattern(ast.NewFloatLiteral(value)), nil
	case lexer.TokenMinus:
		p.advance()
		num := p.peek()
		switch num.Type {
		case lexer.TokenInt:
			p.advance()
			value, ok := new(big.Int).SetString(num.Lexeme, 10)
			if !ok {
				return nil, p.errorAt(num, "malformed integer literal %q", num.Lexeme)
			}
			return ast.NewLiteralPattern(ast.NewIntegerLiteral(value.Neg(value))), nil
		case lexer.TokenFloat:
			p.advance()
			value, err := strconv.ParseFloat(num.Lexeme, 64)
			if err != nil {
				return nil, p.errorAt(num, "malformed float literal %q", num.Lexeme)
			}
			return ast.NewLiteralPattern(ast.NewFloatLiteral(-value)), nil
		}
		return nil, p.errorAt(num, "expected number after '-' in pattern")
	case lexer.TokenString:
		p.advance()
		if len(tok.Segments) != 1 || tok.Segments[0].IsExpr {
			return nil, p.errorAt(tok, "string pattern must not interpolate")
		}
		return ast.NewLiteralPattern(ast.NewStringLiteral(tok.Segments[0].Text)), nil
	case lexer.TokenKeyword:
		switch tok.Lexeme {
		case "true", "false":
			p.advance()
			return ast.NewLiteralPattern(ast.NewBooleanLiteral(tok.Lexeme == "true")), nil
		case "nil":
			p.advance()
			return ast.NewLiteralPattern(ast.NewNilLiteral()), nil
		}
	}

	return nil, p.errorAt(tok, "expected pattern, got %s", tok)
}

func (p *Parser) parseRecordPatternFields() ([]*ast.RecordPatternField, error) {
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	var fields []*ast.RecordPatternField
	for !p.check(lexer.TokenRBrace) {
		nameTok, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		var sub ast.Pattern
		if p.match(lexer.TokenColon) {
			sub, err = p.parsePattern()
			if err != nil {
				return nil, err
			}
		}
		fields = append(fields, ast.NewRecordPatternField(ast.NewIdentifier(nameTok.Lexeme), sub))
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	return fields, nil
}
