package lexer

import "fmt"

// TokenType identifies the lexical category of a token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenInt
	TokenFloat
	TokenString
	TokenKeyword

	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenEq
	TokenEqEq
	TokenBangEq
	TokenLt
	TokenLtEq
	TokenGt
	TokenGtEq
	TokenAmpAmp
	TokenPipePipe
	TokenBang
	TokenArrow
	TokenFatArrow
	TokenDot
	TokenDotDot
	TokenComma
	TokenColon
	TokenSemicolon
	TokenQuestion
	TokenPipe
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenIdent:     "identifier",
	TokenInt:       "integer",
	TokenFloat:     "float",
	TokenString:    "string",
	TokenKeyword:   "keyword",
	TokenPlus:      "'+'",
	TokenMinus:     "'-'",
	TokenStar:      "'*'",
	TokenSlash:     "'/'",
	TokenPercent:   "'%'",
	TokenEq:        "'='",
	TokenEqEq:      "'=='",
	TokenBangEq:    "'!='",
	TokenLt:        "'<'",
	TokenLtEq:      "'<='",
	TokenGt:        "'>'",
	TokenGtEq:      "'>='",
	TokenAmpAmp:    "'&&'",
	TokenPipePipe:  "'||'",
	TokenBang:      "'!'",
	TokenArrow:     "'->'",
	TokenFatArrow:  "'=>'",
	TokenDot:       "'.'",
	TokenDotDot:    "'..'",
	TokenComma:     "','",
	TokenColon:     "':'",
	TokenSemicolon: "';'",
	TokenQuestion:  "'?'",
	TokenPipe:      "'|'",
	TokenLParen:    "'('",
	TokenRParen:    "')'",
	TokenLBrace:    "'{'",
	TokenRBrace:    "'}'",
	TokenLBracket:  "'['",
	TokenRBracket:  "']'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Keywords recognized by the lexer. `and`, `or`, and `not` are aliases for
// the symbolic logical operators and are rewritten during lexing.
var keywords = map[string]bool{
	"let":      true,
	"var":      true,
	"fn":       true,
	"type":     true,
	"where":    true,
	"if":       true,
	"elsif":    true,
	"else":     true,
	"match":    true,
	"case":     true,
	"while":    true,
	"for":      true,
	"in":       true,
	"return":   true,
	"break":    true,
	"continue": true,
	"is":       true,
	"import":   true,
	"true":     true,
	"false":    true,
	"nil":      true,
}

// StringSegment is one piece of a (possibly interpolated) string literal.
// Exactly one of Literal/Expr semantics applies: IsExpr selects between the
// raw source of an `${...}` hole and decoded literal text.
type StringSegment struct {
	IsExpr bool
	Text   string
	Line   int
	Col    int
}

// Token carries the lexeme plus its source position (1-based).
type Token struct {
	Type     TokenType
	Lexeme   string
	Line     int
	Col      int
	Segments []StringSegment // set for TokenString only
}

// IsKeyword reports whether the token is the given keyword.
func (t Token) IsKeyword(word string) bool {
	return t.Type == TokenKeyword && t.Lexeme == word
}

func (t Token) String() string {
	switch t.Type {
	case TokenIdent, TokenKeyword:
		return fmt.Sprintf("%s %q", t.Type, t.Lexeme)
	case TokenInt, TokenFloat, TokenString:
		return fmt.Sprintf("%s %q", t.Type, t.Lexeme)
	default:
		return t.Type.String()
	}
}
