package lexer

import "testing"

func mustTokenize(t *testing.T, src string) []Token {
	t.Helper()
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) returned error: %v", src, err)
	}
	return tokens
}

func TestTokenizeDeclaration(t *testing.T) {
	tokens := mustTokenize(t, "let answer = 42")
	want := []struct {
		typ    TokenType
		lexeme string
	}{
		{TokenKeyword, "let"},
		{TokenIdent, "answer"},
		{TokenEq, "="},
		{TokenInt, "42"},
		{TokenEOF, ""},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d (%v)", len(want), len(tokens), tokens)
	}
	for i, w := range want {
		if tokens[i].Type != w.typ || tokens[i].Lexeme != w.lexeme {
			t.Fatalf("token %d: expected %v %q, got %v %q", i, w.typ, w.lexeme, tokens[i].Type, tokens[i].Lexeme)
		}
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens := mustTokenize(t, "let x = 1\nlet y = 2")
	if tokens[0].Line != 1 || tokens[0].Col != 1 {
		t.Fatalf("expected first token at 1:1, got %d:%d", tokens[0].Line, tokens[0].Col)
	}
	// Second `let` starts the second line.
	if tokens[4].Line != 2 || tokens[4].Col != 1 {
		t.Fatalf("expected second let at 2:1, got %d:%d", tokens[4].Line, tokens[4].Col)
	}
	if tokens[5].Lexeme != "y" || tokens[5].Col != 5 {
		t.Fatalf("expected y at col 5, got %q at col %d", tokens[5].Lexeme, tokens[5].Col)
	}
}

func TestTokenizeOperators(t *testing.T) {
	tokens := mustTokenize(t, "a >= 1 && b != 2 || !c")
	types := []TokenType{
		TokenIdent, TokenGtEq, TokenInt, TokenAmpAmp,
		TokenIdent, TokenBangEq, TokenInt, TokenPipePipe,
		TokenBang, TokenIdent, TokenEOF,
	}
	if len(tokens) != len(types) {
		t.Fatalf("expected %d tokens, got %d", len(types), len(tokens))
	}
	for i, typ := range types {
		if tokens[i].Type != typ {
			t.Fatalf("token %d: expected %v, got %v", i, typ, tokens[i].Type)
		}
	}
}

func TestTokenizeWordOperatorAliases(t *testing.T) {
	tokens := mustTokenize(t, "a and b or not c")
	types := []TokenType{TokenIdent, TokenAmpAmp, TokenIdent, TokenPipePipe, TokenBang, TokenIdent, TokenEOF}
	for i, typ := range types {
		if tokens[i].Type != typ {
			t.Fatalf("token %d: expected %v, got %v", i, typ, tokens[i].Type)
		}
	}
}

func TestTokenizeRangeVersusFloat(t *testing.T) {
	tokens := mustTokenize(t, "1..5")
	types := []TokenType{TokenInt, TokenDotDot, TokenInt, TokenEOF}
	for i, typ := range types {
		if tokens[i].Type != typ {
			t.Fatalf("token %d: expected %v, got %v (%v)", i, typ, tokens[i].Type, tokens)
		}
	}

	tokens = mustTokenize(t, "1.5")
	if tokens[0].Type != TokenFloat || tokens[0].Lexeme != "1.5" {
		t.Fatalf("expected float 1.5, got %v %q", tokens[0].Type, tokens[0].Lexeme)
	}
}

func TestTokenizeUnderscoreSeparators(t *testing.T) {
	tokens := mustTokenize(t, "1_000_000")
	if tokens[0].Type != TokenInt || tokens[0].Lexeme != "1000000" {
		t.Fatalf("expected int 1000000, got %v %q", tokens[0].Type, tokens[0].Lexeme)
	}
}

func TestTokenizeComments(t *testing.T) {
	tokens := mustTokenize(t, "# heading\nlet x = 1 # trailing\n")
	if tokens[0].Type != TokenKeyword || tokens[0].Lexeme != "let" {
		t.Fatalf("expected comment to be skipped, got %v", tokens[0])
	}
	if len(tokens) != 5 {
		t.Fatalf("expected 5 tokens, got %d (%v)", len(tokens), tokens)
	}
}

func TestTokenizePlainString(t *testing.T) {
	tokens := mustTokenize(t, `"hello\nworld"`)
	tok := tokens[0]
	if tok.Type != TokenString {
		t.Fatalf("expected string token, got %v", tok.Type)
	}
	if len(tok.Segments) != 1 || tok.Segments[0].IsExpr {
		t.Fatalf("expected single literal segment, got %v", tok.Segments)
	}
	if tok.Segments[0].Text != "hello\nworld" {
		t.Fatalf("unexpected decoded text %q", tok.Segments[0].Text)
	}
}

func TestTokenizeInterpolatedString(t *testing.T) {
	tokens := mustTokenize(t, `"hi ${name}, you are ${age + 1}"`)
	tok := tokens[0]
	if tok.Type != TokenString {
		t.Fatalf("expected string token, got %v", tok.Type)
	}
	if len(tok.Segments) != 4 {
		t.Fatalf("expected 4 segments, got %d (%v)", len(tok.Segments), tok.Segments)
	}
	if tok.Segments[0].IsExpr || tok.Segments[0].Text != "hi " {
		t.Fatalf("unexpected first segment %v", tok.Segments[0])
	}
	if !tok.Segments[1].IsExpr || tok.Segments[1].Text != "name" {
		t.Fatalf("unexpected second segment %v", tok.Segments[1])
	}
	if !tok.Segments[3].IsExpr || tok.Segments[3].Text != "age + 1" {
		t.Fatalf("unexpected fourth segment %v", tok.Segments[3])
	}
}

func TestTokenizeEscapedDollar(t *testing.T) {
	tokens := mustTokenize(t, `"cost: \$5"`)
	tok := tokens[0]
	if len(tok.Segments) != 1 || tok.Segments[0].Text != "cost: $5" {
		t.Fatalf("unexpected segments %v", tok.Segments)
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []string{
		`"unterminated`,
		`"bad ${`,
		`"bad escape \q"`,
		"1e",
		"@",
	}
	for _, src := range cases {
		if _, err := Tokenize(src); err == nil {
			t.Errorf("Tokenize(%q): expected error, got none", src)
		}
	}
}
