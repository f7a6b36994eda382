package lexer

import (
	"testing"

	"github.com/cadenzalang/cadenzac/pkg/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func TestLexHelloWorld(t *testing.T) {
	src := `function main() -> string { return "Hello, Cadenza!" }`
	toks, diags := New("hello.cdz", []byte(src)).Lex()
	if len(diags.Items()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}

	want := []token.Kind{
		token.FUNCTION, token.IDENT, token.LPAREN, token.RPAREN, token.ARROW,
		token.IDENT, token.LBRACE, token.RETURN, token.STRING, token.RBRACE,
		token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexOperators(t *testing.T) {
	src := `-> == != <= >= && || + - * / < > = !`
	toks, diags := New("ops.cdz", []byte(src)).Lex()
	if len(diags.Items()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	want := []token.Kind{
		token.ARROW, token.EQ, token.NEQ, token.LE, token.GE, token.AND, token.OR,
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.LT, token.GT,
		token.ASSIGN, token.BANG, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexKeywordsAndEffects(t *testing.T) {
	src := `pure function uses Database Network Logging FileSystem Memory IO`
	toks, _ := New("kw.cdz", []byte(src)).Lex()
	if toks[0].Kind != token.PURE || toks[1].Kind != token.FUNCTION || toks[2].Kind != token.USES {
		t.Fatalf("unexpected keyword tokens: %v", toks[:3])
	}
	for _, effect := range []string{"Database", "Network", "Logging", "FileSystem", "Memory", "IO"} {
		if !token.IsValidEffect(effect) {
			t.Errorf("expected %s to be a valid effect", effect)
		}
	}
	if token.IsValidEffect("Time") {
		t.Errorf("Time should not be a valid effect")
	}
}

func TestLexStringEscapes(t *testing.T) {
	src := `"line1\nline2\ttab\\slash\"quote"`
	toks, diags := New("str.cdz", []byte(src)).Lex()
	if len(diags.Items()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	want := "line1\nline2\ttab\\slash\"quote"
	if toks[0].Lexeme != want {
		t.Errorf("got %q, want %q", toks[0].Lexeme, want)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	src := `"no closing quote`
	_, diags := New("bad.cdz", []byte(src)).Lex()
	if len(diags.Items()) == 0 {
		t.Fatal("expected a diagnostic for unterminated string")
	}
	if diags.Items()[0].Rule != "lex.unterminated-string" {
		t.Errorf("unexpected rule: %s", diags.Items()[0].Rule)
	}
}

func TestLexInterpolatedString(t *testing.T) {
	src := `$"Hello {name}, you have {n + 1} messages"`
	toks, diags := New("interp.cdz", []byte(src)).Lex()
	if len(diags.Items()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	if toks[0].Kind != token.INTERP_STRING {
		t.Fatalf("expected INTERP_STRING, got %s", toks[0].Kind)
	}
	if toks[0].Lexeme != "Hello {name}, you have {n + 1} messages" {
		t.Errorf("unexpected lexeme: %q", toks[0].Lexeme)
	}
}

func TestLexSpecBlock(t *testing.T) {
	src := "/*spec\nintent: \"divide two numbers\"\n*/\nfunction f() -> int { return 1 }"
	toks, diags := New("spec.cdz", []byte(src)).Lex()
	if len(diags.Items()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	if toks[0].Kind != token.SPEC {
		t.Fatalf("expected SPEC token first, got %s", toks[0].Kind)
	}
}

func TestLexLineAndBlockComments(t *testing.T) {
	src := "// a comment\nfunction f() -> int { /* inline */ return 1 }"
	toks, diags := New("comments.cdz", []byte(src)).Lex()
	if len(diags.Items()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	if toks[0].Kind != token.FUNCTION {
		t.Fatalf("expected comments to be skipped, got %s first", toks[0].Kind)
	}
}

func TestLexPositions(t *testing.T) {
	src := "let x = 1\nlet y = 2"
	toks, _ := New("pos.cdz", []byte(src)).Lex()
	if toks[0].Pos.Line != 1 || toks[0].Pos.Column != 1 {
		t.Errorf("unexpected position for first token: %v", toks[0].Pos)
	}
	// find second "let" (index into second line)
	var secondLet token.Token
	count := 0
	for _, tk := range toks {
		if tk.Kind == token.LET {
			count++
			if count == 2 {
				secondLet = tk
			}
		}
	}
	if secondLet.Pos.Line != 2 {
		t.Errorf("expected second let on line 2, got %v", secondLet.Pos)
	}
}
