package lexer

import (
	"testing"

	"github.com/skx/cc/internal/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	toks, err := Lex(append([]byte(src), 0))
	if err != nil {
		t.Fatalf("Lex(%q) unexpected error: %s", src, err)
	}
	var out []token.Kind
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func TestLexOperatorTieBreak(t *testing.T) {
	tests := []struct {
		src  string
		want []token.Kind
	}{
		{"<<=", []token.Kind{token.SHL_ASSIGN, token.END}},
		{"<<", []token.Kind{token.SHL, token.END}},
		{"<", []token.Kind{token.LT, token.END}},
		{"<=", []token.Kind{token.LE, token.END}},
		{"++", []token.Kind{token.INC, token.END}},
		{"+ +", []token.Kind{token.PLUS, token.PLUS, token.END}},
		{"&&", []token.Kind{token.AND, token.END}},
		{"&", []token.Kind{token.AMP, token.END}},
		{"&=", []token.Kind{token.AMP_ASSIGN, token.END}},
	}
	for _, tt := range tests {
		got := kinds(t, tt.src)
		if len(got) != len(tt.want) {
			t.Fatalf("Lex(%q) = %v, want %v", tt.src, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("Lex(%q) = %v, want %v", tt.src, got, tt.want)
			}
		}
	}
}

func TestLexKeywordsVsIdentifiers(t *testing.T) {
	got := kinds(t, "int fortune return_value")
	want := []token.Kind{token.INT_KW, token.IDENT, token.IDENT, token.END}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLexIntLiteral(t *testing.T) {
	toks, err := Lex(append([]byte("12345"), 0))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if toks[0].Kind != token.INT || toks[0].IntVal != 12345 || toks[0].Lit != "12345" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexSkipsLineAndBlockComments(t *testing.T) {
	src := "1 // trailing comment\n/* block\nspans lines */2"
	got := kinds(t, src)
	want := []token.Kind{token.INT, token.INT, token.END}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLexUnterminatedBlockCommentIsFatal(t *testing.T) {
	_, err := Lex(append([]byte("1 /* never closed"), 0))
	if err == nil {
		t.Fatalf("expected an error for an unterminated comment")
	}
}

func TestLexUnrecognisedCharacter(t *testing.T) {
	_, err := Lex(append([]byte("int x = 1 @ 2;"), 0))
	if err == nil {
		t.Fatalf("expected an error for '@'")
	}
}

func TestLexPositionTracksLineAndColumn(t *testing.T) {
	l := New(append([]byte("int\nx;"), 0))
	first, _ := l.Next()
	if first.Pos.Line != 1 || first.Pos.Col != 0 {
		t.Fatalf("got pos %+v", first.Pos)
	}
	second, _ := l.Next()
	if second.Pos.Line != 2 || second.Pos.Col != 0 {
		t.Fatalf("got pos %+v", second.Pos)
	}
}

func TestLexNegativeNumberIsTwoTokens(t *testing.T) {
	got := kinds(t, "-3")
	want := []token.Kind{token.MINUS, token.INT, token.END}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
