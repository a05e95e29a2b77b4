package parser

import (
	"fmt"

	"github.com/GiGurra/fl/pkg/ast"
	"github.com/GiGurra/fl/pkg/lexer"
)

// Parser turns a token stream into the canonical Fluffy AST.
type Parser struct {
	tokens []lexer.Token
	pos    int

	// Composite literals are suppressed while parsing the header expression
	// of if/while/for/match, so `if x { ... }` reads the brace as the body.
	noRecordLiteral bool
}

// ParseModule parses a whole source file.
func ParseModule(src string) (*ast.Module, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens}

	var imports []*ast.ImportStatement
	for p.peek().IsKeyword("import") {
		imp, err := p.parseImportStatement()
		if err != nil {
			return nil, err
		}
		imports = append(imports, imp)
	}

	var body []ast.Statement
	for p.peek().Type != lexer.TokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	return ast.NewModule(imports, body), nil
}

// ParseExpression parses a standalone expression, requiring full consumption
// of the input.
func ParseExpression(src string) (ast.Expression, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != lexer.TokenEOF {
		return nil, p.errorAt(p.peek(), "unexpected %s after expression", p.peek())
	}
	return expr, nil
}

func (p *Parser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) lexer.Token {
	if p.pos+offset >= len(p.tokens) {
		return lexer.Token{Type: lexer.TokenEOF}
	}
	return p.tokens[p.pos+offset]
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(typ lexer.TokenType) bool {
	return p.peek().Type == typ
}

func (p *Parser) match(typ lexer.TokenType) bool {
	if p.check(typ) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(typ lexer.TokenType) (lexer.Token, error) {
	if p.check(typ) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorAt(p.peek(), "expected %s, got %s", typ, p.peek())
}

func (p *Parser) expectKeyword(word string) (lexer.Token, error) {
	if p.peek().IsKeyword(word) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorAt(p.peek(), "expected '%s', got %s", word, p.peek())
}

func (p *Parser) errorAt(tok lexer.Token, format string, args ...interface{}) error {
	line, col := tok.Line, tok.Col
	if line == 0 {
		line, col = 1, 1
	}
	return fmt.Errorf("parser: %d:%d: %s", line, col, fmt.Sprintf(format, args...))
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.peek()
	if tok.Type == lexer.TokenKeyword {
		switch tok.Lexeme {
		case "let", "var":
			return p.parseVariableDeclaration()
		case "fn":
			// `fn` is a definition only when a name follows.
			if p.peekAt(1).Type == lexer.TokenIdent {
				return p.parseFunctionDefinition()
			}
		case "type":
			return p.parseTypeDeclaration()
		case "while":
			return p.parseWhileLoop()
		case "for":
			return p.parseForLoop()
		case "return":
			p.advance()
			if p.statementBoundary() {
				return ast.NewReturnStatement(nil), nil
			}
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			p.match(lexer.TokenSemicolon)
			return ast.NewReturnStatement(arg), nil
		case "break":
			p.advance()
			p.match(lexer.TokenSemicolon)
			return ast.NewBreakStatement(), nil
		case "continue":
			p.advance()
			p.match(lexer.TokenSemicolon)
			return ast.NewContinueStatement(), nil
		case "import":
			return nil, p.errorAt(tok, "import statements must appear before any other statement")
		}
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.match(lexer.TokenSemicolon)
	return expr, nil
}

// statementBoundary reports whether the current token cannot begin an
// expression, which delimits bare `return`.
func (p *Parser) statementBoundary() bool {
	switch p.peek().Type {
	case lexer.TokenEOF, lexer.TokenRBrace, lexer.TokenSemicolon:
		return true
	case lexer.TokenKeyword:
		switch p.peek().Lexeme {
		case "let", "var", "fn", "type", "while", "for", "return", "break", "continue", "case":
			return true
		}
	}
	return false
}

func (p *Parser) parseImportStatement() (*ast.ImportStatement, error) {
	if _, err := p.expectKeyword("import"); err != nil {
		return nil, err
	}
	tok, err := p.expect(lexer.TokenString)
	if err != nil {
		return nil, err
	}
	if len(tok.Segments) != 1 || tok.Segments[0].IsExpr {
		return nil, p.errorAt(tok, "import path must be a plain string literal")
	}
	path := tok.Segments[0].Text
	if path == "" {
		return nil, p.errorAt(tok, "import path must not be empty")
	}
	p.match(lexer.TokenSemicolon)
	return ast.NewImportStatement(path), nil
}

func (p *Parser) parseBlock() (*ast.BlockExpression, error) {
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	var body []ast.Statement
	for !p.check(lexer.TokenRBrace) {
		if p.check(lexer.TokenEOF) {
			return nil, p.errorAt(p.peek(), "unterminated block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.advance() // closing brace
	return ast.NewBlockExpression(body), nil
}

// parseHeaderExpression parses the condition/subject of a control form with
// record literals suppressed.
func (p *Parser) parseHeaderExpression() (ast.Expression, error) {
	saved := p.noRecordLiteral
	p.noRecordLiteral = true
	expr, err := p.parseExpression()
	p.noRecordLiteral = saved
	return expr, err
}
