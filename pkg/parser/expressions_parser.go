package parser

import (
	"math/big"
	"strconv"

	"github.com/GiGurra/fl/pkg/ast"
	"github.com/GiGurra/fl/pkg/lexer"
)

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (ast.Expression, error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.TokenEq) {
		eqTok := p.advance()
		switch left.(type) {
		case *ast.Identifier, *ast.MemberAccessExpression, *ast.IndexExpression:
		default:
			return nil, p.errorAt(eqTok, "invalid assignment target %s", left.NodeType())
		}
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return ast.NewAssignmentExpression(left, value), nil
	}
	return left, nil
}

func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokenPipePipe) {
		p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpression("||", left, right)
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokenAmpAmp) {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpression("&&", left, right)
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokenEqEq) || p.check(lexer.TokenBangEq) {
		op := p.advance().Lexeme
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpression(op, left, right)
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseRange()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(lexer.TokenLt) || p.check(lexer.TokenLtEq) || p.check(lexer.TokenGt) || p.check(lexer.TokenGtEq):
			op := p.advance().Lexeme
			right, err := p.parseRange()
			if err != nil {
				return nil, err
			}
			left = ast.NewBinaryExpression(op, left, right)
		case p.peek().IsKeyword("is"):
			p.advance()
			typeExpr, err := p.parseTypeExpression()
			if err != nil {
				return nil, err
			}
			left = ast.NewIsExpression(left, typeExpr)
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseRange() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.TokenDotDot) {
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return ast.NewRangeExpression(left, right), nil
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokenPlus) || p.check(lexer.TokenMinus) {
		op := p.advance().Lexeme
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpression(op, left, right)
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokenStar) || p.check(lexer.TokenSlash) || p.check(lexer.TokenPercent) {
		op := p.advance().Lexeme
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpression(op, left, right)
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.check(lexer.TokenBang) || p.check(lexer.TokenMinus) {
		op := p.advance().Lexeme
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(op, operand), nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(lexer.TokenLParen):
			p.advance()
			var args []ast.Expression
			for !p.check(lexer.TokenRParen) {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if !p.match(lexer.TokenComma) {
					break
				}
			}
			if _, err := p.expect(lexer.TokenRParen); err != nil {
				return nil, err
			}
			expr = ast.NewFunctionCall(expr, args)
		case p.check(lexer.TokenDot):
			p.advance()
			nameTok, err := p.expect(lexer.TokenIdent)
			if err != nil {
				return nil, err
			}
			expr = ast.NewMemberAccessExpression(expr, ast.NewIdentifier(nameTok.Lexeme))
		case p.check(lexer.TokenLBracket):
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenRBracket); err != nil {
				return nil, err
			}
			expr = ast.NewIndexExpression(expr, index)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.peek()

	switch tok.Type {
	case lexer.TokenInt:
		p.advance()
		value, ok := new(big.Int).SetString(tok.Lexeme, 10)
		if !ok {
			return nil, p.errorAt(tok, "malformed integer literal %q", tok.Lexeme)
		}
		return ast.NewIntegerLiteral(value), nil
	case lexer.TokenFloat:
		p.advance()
		value, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorAt(tok, "malformed float literal %q", tok.Lexeme)
		}
		return ast.NewFloatLiteral(value), nil
	case lexer.TokenString:
		p.advance()
		return p.buildStringExpression(tok)
	case lexer.TokenIdent:
		p.advance()
		ident := ast.NewIdentifier(tok.Lexeme)
		// `Name { ... }` constructs a named record unless suppressed in a
		// control-form header.
		if p.check(lexer.TokenLBrace) && !p.noRecordLiteral && p.looksLikeRecordLiteralBody() {
			fields, err := p.parseRecordLiteralFields()
			if err != nil {
				return nil, err
			}
			return ast.NewRecordLiteral(ident, fields), nil
		}
		return ident, nil
	case lexer.TokenKeyword:
		switch tok.Lexeme {
		case "true", "false":
			p.advance()
			return ast.NewBooleanLiteral(tok.Lexeme == "true"), nil
		case "nil":
			p.advance()
			return ast.NewNilLiteral(), nil
		case "if":
			return p.parseIfExpression()
		case "match":
			return p.parseMatchExpression()
		}
		return nil, p.errorAt(tok, "unexpected keyword '%s'", tok.Lexeme)
	case lexer.TokenLBracket:
		p.advance()
		var elements []ast.Expression
		for !p.check(lexer.TokenRBracket) {
			elem, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		if _, err := p.expect(lexer.TokenRBracket); err != nil {
			return nil, err
		}
		return ast.NewListLiteral(elements), nil
	case lexer.TokenLBrace:
		if p.looksLikeRecordLiteralBody() {
			fields, err := p.parseRecordLiteralFields()
			if err != nil {
				return nil, err
			}
			return ast.NewRecordLiteral(nil, fields), nil
		}
		return p.parseBlock()
	case lexer.TokenLParen:
		if p.looksLikeLambda() {
			return p.parseLambdaExpression()
		}
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, p.errorAt(tok, "unexpected %s", tok)
}

// looksLikeRecordLiteralBody distinguishes `{ name: value }` / `{}` from a
// block expression at the current `{`.
func (p *Parser) looksLikeRecordLiteralBody() bool {
	if !p.check(lexer.TokenLBrace) {
		return false
	}
	if p.peekAt(1).Type == lexer.TokenRBrace {
		return true
	}
	return p.peekAt(1).Type == lexer.TokenIdent && p.peekAt(2).Type == lexer.TokenColon
}

func (p *Parser) parseRecordLiteralFields() ([]*ast.RecordFieldInitializer, error) {
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	var fields []*ast.RecordFieldInitializer
	for !p.check(lexer.TokenRBrace) {
		nameTok, err := p.expect(lexer.TokenIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon); err != nil {
			return nil, err
		}
		saved := p.noRecordLiteral
		p.noRecordLiteral = false
		value, err := p.parseExpression()
		p.noRecordLiteral = saved
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.NewRecordFieldInitializer(ast.NewIdentifier(nameTok.Lexeme), value))
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	return fields, nil
}

// looksLikeLambda scans ahead from a `(` for a matching `)` followed by `=>`.
func (p *Parser) looksLikeLambda() bool {
	depth := 0
	for i := 0; ; i++ {
		tok := p.peekAt(i)
		switch tok.Type {
		case lexer.TokenLParen:
			depth++
		case lexer.TokenRParen:
			depth--
			if depth == 0 {
				return p.peekAt(i+1).Type == lexer.TokenFatArrow
			}
		case lexer.TokenEOF:
			return false
		}
	}
}

func (p *Parser) parseLambdaExpression() (ast.Expression, error) {
	params, err := p.parseParameterList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenFatArrow); err != nil {
		return nil, err
	}
	saved := p.noRecordLiteral
	p.noRecordLiteral = false
	body, err := p.parseExpression()
	p.noRecordLiteral = saved
	if err != nil {
		return nil, err
	}
	return ast.NewLambdaExpression(params, nil, body), nil
}

func (p *Parser) parseIfExpression() (ast.Expression, error) {
	p.advance() // if
	condition, err := p.parseHeaderExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var orClauses []*ast.OrClause
	for {
		if p.peek().IsKeyword("elsif") {
			p.advance()
			cond, err := p.parseHeaderExpression()
			if err != nil {
				return nil, err
			}
			block, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			orClauses = append(orClauses, ast.NewOrClause(cond, block))
			continue
		}
		if p.peek().IsKeyword("else") {
			p.advance()
			block, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			orClauses = append(orClauses, ast.NewOrClause(nil, block))
		}
		break
	}
	return ast.NewIfExpression(condition, body, orClauses), nil
}

func (p *Parser) parseMatchExpression() (ast.Expression, error) {
	p.advance() // match
	subject, err := p.parseHeaderExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}

	var clauses []*ast.MatchClause
	for p.peek().IsKeyword("case") {
		p.advance()
		pattern, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		var guard ast.Expression
		if p.peek().IsKeyword("if") {
			p.advance()
			guard, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.TokenFatArrow); err != nil {
			return nil, err
		}
		body, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.match(lexer.TokenComma)
		clauses = append(clauses, ast.NewMatchClause(pattern, guard, body))
	}
	if len(clauses) == 0 {
		return nil, p.errorAt(p.peek(), "match expression requires at least one case")
	}
	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	return ast.NewMatchExpression(subject, clauses), nil
}

// buildStringExpression turns a lexed string token into either a plain
// literal or an interpolation whose holes are parsed recursively.
func (p *Parser) buildStringExpression(tok lexer.Token) (ast.Expression, error) {
	if len(tok.Segments) == 1 && !tok.Segments[0].IsExpr {
		return ast.NewStringLiteral(tok.Segments[0].Text), nil
	}
	var parts []ast.Expression
	for _, seg := range tok.Segments {
		if !seg.IsExpr {
			if seg.Text != "" {
				parts = append(parts, ast.NewStringLiteral(seg.Text))
			}
			continue
		}
		expr, err := ParseExpression(seg.Text)
		if err != nil {
			return nil, p.errorAt(tok, "in interpolation ${%s}: %v", seg.Text, err)
		}
		parts = append(parts, expr)
	}
	return ast.NewStringInterpolation(parts), nil
}
