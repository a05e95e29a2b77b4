package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer walks Fluffy source and produces tokens with positions.
type Lexer struct {
	src  string
	pos  int
	line int
	col  int
}

// New returns a lexer over the given source.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize consumes the whole input, ending with an EOF token.
func Tokenize(src string) ([]Token, error) {
	lx := New(src)
	var tokens []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) errorf(line, col int, format string, args ...interface{}) error {
	return fmt.Errorf("lexer: %d:%d: %s", line, col, fmt.Sprintf(format, args...))
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *Lexer) peekAt(offset int) rune {
	pos := l.pos
	for i := 0; i < offset; i++ {
		if pos >= len(l.src) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(l.src[pos:])
		pos += size
	}
	if pos >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[pos:])
	return r
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		r := l.peek()
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		case r == '#':
			for l.peek() != '\n' && l.peek() != 0 {
				l.advance()
			}
		default:
			return
		}
	}
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespaceAndComments()

	line, col := l.line, l.col
	r := l.peek()
	if r == 0 {
		return Token{Type: TokenEOF, Line: line, Col: col}, nil
	}

	switch {
	case isIdentStart(r):
		return l.lexIdentOrKeyword(line, col), nil
	case unicode.IsDigit(r):
		return l.lexNumber(line, col)
	case r == '"':
		return l.lexString(line, col)
	}

	l.advance()
	simple := func(t TokenType, lexeme string) (Token, error) {
		return Token{Type: t, Lexeme: lexeme, Line: line, Col: col}, nil
	}

	switch r {
	case '+':
		return simple(TokenPlus, "+")
	case '-':
		if l.peek() == '>' {
			l.advance()
			return simple(TokenArrow, "->")
		}
		return simple(TokenMinus, "-")
	case '*':
		return simple(TokenStar, "*")
	case '/':
		return simple(TokenSlash, "/")
	case '%':
		return simple(TokenPercent, "%")
	case '=':
		if l.peek() == '=' {
			l.advance()
			return simple(TokenEqEq, "==")
		}
		if l.peek() == '>' {
			l.advance()
			return simple(TokenFatArrow, "=>")
		}
		return simple(TokenEq, "=")
	case '!':
		if l.peek() == '=' {
			l.advance()
			return simple(TokenBangEq, "!=")
		}
		return simple(TokenBang, "!")
	case '<':
		if l.peek() == '=' {
			l.advance()
			return simple(TokenLtEq, "<=")
		}
		return simple(TokenLt, "<")
	case '>':
		if l.peek() == '=' {
			l.advance()
			return simple(TokenGtEq, ">=")
		}
		return simple(TokenGt, ">")
	case '&':
		if l.peek() == '&' {
			l.advance()
			return simple(TokenAmpAmp, "&&")
		}
		return Token{}, l.errorf(line, col, "unexpected character '&'")
	case '|':
		if l.peek() == '|' {
			l.advance()
			return simple(TokenPipePipe, "||")
		}
		return simple(TokenPipe, "|")
	case '.':
		if l.peek() == '.' {
			l.advance()
			return simple(TokenDotDot, "..")
		}
		return simple(TokenDot, ".")
	case ',':
		return simple(TokenComma, ",")
	case ':':
		return simple(TokenColon, ":")
	case ';':
		return simple(TokenSemicolon, ";")
	case '?':
		return simple(TokenQuestion, "?")
	case '(':
		return simple(TokenLParen, "(")
	case ')':
		return simple(TokenRParen, ")")
	case '{':
		return simple(TokenLBrace, "{")
	case '}':
		return simple(TokenRBrace, "}")
	case '[':
		return simple(TokenLBracket, "[")
	case ']':
		return simple(TokenRBracket, "]")
	}

	return Token{}, l.errorf(line, col, "unexpected character %q", r)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *Lexer) lexIdentOrKeyword(line, col int) Token {
	var b strings.Builder
	for isIdentPart(l.peek()) {
		b.WriteRune(l.advance())
	}
	word := b.String()

	// Word aliases for the symbolic logical operators.
	switch word {
	case "and":
		return Token{Type: TokenAmpAmp, Lexeme: "&&", Line: line, Col: col}
	case "or":
		return Token{Type: TokenPipePipe, Lexeme: "||", Line: line, Col: col}
	case "not":
		return Token{Type: TokenBang, Lexeme: "!", Line: line, Col: col}
	}

	if keywords[word] {
		return Token{Type: TokenKeyword, Lexeme: word, Line: line, Col: col}
	}
	return Token{Type: TokenIdent, Lexeme: word, Line: line, Col: col}
}

func (l *Lexer) lexNumber(line, col int) (Token, error) {
	var b strings.Builder
	digits := func() {
		for unicode.IsDigit(l.peek()) || l.peek() == '_' {
			r := l.advance()
			if r != '_' {
				b.WriteRune(r)
			}
		}
	}

	digits()
	isFloat := false

	// `1..5` is a range over integer endpoints, not a float.
	if l.peek() == '.' && unicode.IsDigit(l.peekAt(1)) {
		isFloat = true
		b.WriteRune(l.advance())
		digits()
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		isFloat = true
		b.WriteRune(l.advance())
		if l.peek() == '+' || l.peek() == '-' {
			b.WriteRune(l.advance())
		}
		if !unicode.IsDigit(l.peek()) {
			return Token{}, l.errorf(l.line, l.col, "malformed float exponent")
		}
		digits()
	}

	typ := TokenInt
	if isFloat {
		typ = TokenFloat
	}
	return Token{Type: typ, Lexeme: b.String(), Line: line, Col: col}, nil
}

// lexString decodes a double-quoted literal into segments, splitting out
// `${...}` interpolation holes with their raw source preserved.
func (l *Lexer) lexString(line, col int) (Token, error) {
	l.advance() // opening quote

	var segments []StringSegment
	var lit strings.Builder
	litLine, litCol := l.line, l.col

	flushLiteral := func() {
		if lit.Len() > 0 {
			segments = append(segments, StringSegment{Text: lit.String(), Line: litLine, Col: litCol})
			lit.Reset()
		}
		litLine, litCol = l.line, l.col
	}

	for {
		r := l.peek()
		switch r {
		case 0, '\n':
			return Token{}, l.errorf(line, col, "unterminated string literal")
		case '"':
			l.advance()
			flushLiteral()
			if segments == nil {
				segments = []StringSegment{{Text: "", Line: litLine, Col: litCol}}
			}
			return Token{Type: TokenString, Lexeme: rawLexeme(segments), Line: line, Col: col, Segments: segments}, nil
		case '\\':
			l.advance()
			esc := l.advance()
			switch esc {
			case 'n':
				lit.WriteRune('\n')
			case 't':
				lit.WriteRune('\t')
			case '"':
				lit.WriteRune('"')
			case '\\':
				lit.WriteRune('\\')
			case '$':
				lit.WriteRune('$')
			default:
				return Token{}, l.errorf(l.line, l.col, "unsupported escape '\\%c'", esc)
			}
		case '$':
			if l.peekAt(1) == '{' {
				flushLiteral()
				l.advance() // $
				l.advance() // {
				exprLine, exprCol := l.line, l.col
				var expr strings.Builder
				depth := 1
				for depth > 0 {
					r := l.peek()
					if r == 0 || r == '\n' {
						return Token{}, l.errorf(line, col, "unterminated interpolation in string literal")
					}
					if r == '{' {
						depth++
					}
					if r == '}' {
						depth--
						if depth == 0 {
							l.advance()
							break
						}
					}
					expr.WriteRune(l.advance())
				}
				if strings.TrimSpace(expr.String()) == "" {
					return Token{}, l.errorf(exprLine, exprCol, "empty interpolation in string literal")
				}
				segments = append(segments, StringSegment{IsExpr: true, Text: expr.String(), Line: exprLine, Col: exprCol})
				litLine, litCol = l.line, l.col
			} else {
				lit.WriteRune(l.advance())
			}
		default:
			lit.WriteRune(l.advance())
		}
	}
}

func rawLexeme(segments []StringSegment) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.IsExpr {
			b.WriteString("${")
			b.WriteString(seg.Text)
			b.WriteString("}")
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}
