package dotprinter

import (
	"strings"
	"testing"

	"github.com/skx/cc/internal/lexer"
	"github.com/skx/cc/internal/parser"
)

func TestPrintProducesADigraphWithNodesAndEdges(t *testing.T) {
	toks, err := lexer.Lex([]byte("int main(void) { return 1 + 2; }\x00"))
	if err != nil {
		t.Fatalf("lex error: %s", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}

	var b strings.Builder
	if err := Print(&b, prog); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	out := b.String()
	if !strings.HasPrefix(out, "digraph program {\n") {
		t.Fatalf("missing digraph header, got:\n%s", out)
	}
	if !strings.Contains(out, `"Binary op: '+'"`) {
		t.Fatalf("missing binary op node, got:\n%s", out)
	}
	if !strings.Contains(out, "->") {
		t.Fatalf("missing edges, got:\n%s", out)
	}
}
