// Package dotprinter renders a parsed program as a Graphviz dot graph, for
// the `-t`/`--tree` debugging flag.
//
// Nodes are numbered as they're discovered, depth-first; each node carries
// a human-readable label (its syntactic role, plus any scalar payload like
// an operator spelling or integer value) and an edge back to whichever node
// referenced it.
package dotprinter

import (
	"fmt"
	"io"

	"github.com/skx/cc/internal/ast"
	"github.com/skx/cc/internal/ccerror"
)

type printer struct {
	w      io.Writer
	nextID int
	err    error
}

// Print writes prog to w as a single `digraph program { ... }` block.
func Print(w io.Writer, prog *ast.Program) error {
	p := &printer{w: w}
	p.printf("digraph program {\n")
	for _, item := range prog.Items {
		p.topLevel(item)
	}
	p.printf("}\n")
	return p.err
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) node(label string) int {
	id := p.nextID
	p.nextID++
	p.printf("  %d [label=%q];\n", id, label)
	return id
}

func (p *printer) edge(from, to int) {
	p.printf("  %d -> %d;\n", from, to)
}

func (p *printer) topLevel(item ast.TopLevel) {
	switch n := item.(type) {
	case *ast.FuncDecl:
		id := p.node(fmt.Sprintf("Function: %s", n.Name))
		if n.Body != nil {
			p.edge(id, p.block(n.Body))
		}
	case *ast.GlobalVarDecl:
		id := p.node("Global var decl")
		for _, d := range n.Decls {
			child := p.node(fmt.Sprintf("Global: %s", d.Name))
			p.edge(id, child)
			if d.Init != nil {
				p.edge(child, p.expr(d.Init))
			}
		}
	default:
		p.err = ccerror.Internalf("dotprinter: unhandled top-level node %T", item)
	}
}

func (p *printer) block(b *ast.Block) int {
	id := p.node("Block")
	for _, s := range b.Stmts {
		p.edge(id, p.stmt(s))
	}
	return id
}

func (p *printer) stmt(s ast.Stmt) int {
	switch n := s.(type) {
	case *ast.ExprStmt:
		id := p.node("ExprStmt")
		p.edge(id, p.expr(n.X))
		return id
	case *ast.Empty:
		return p.node("Empty")
	case *ast.Return:
		id := p.node("Return")
		if n.Value != nil {
			p.edge(id, p.expr(n.Value))
		}
		return id
	case *ast.VarDeclStmt:
		id := p.node("VarDecl")
		for _, d := range n.Decls {
			child := p.node(fmt.Sprintf("Local: %s", d.Name))
			p.edge(id, child)
			if d.Init != nil {
				p.edge(child, p.expr(d.Init))
			}
		}
		return id
	case *ast.Block:
		return p.block(n)
	case *ast.If:
		id := p.node("If")
		p.edge(id, p.expr(n.Cond))
		p.edge(id, p.stmt(n.Then))
		if n.Else != nil {
			p.edge(id, p.stmt(n.Else))
		}
		return id
	case *ast.While:
		id := p.node("While")
		p.edge(id, p.expr(n.Cond))
		p.edge(id, p.stmt(n.Body))
		return id
	case *ast.DoWhile:
		id := p.node("DoWhile")
		p.edge(id, p.stmt(n.Body))
		p.edge(id, p.expr(n.Cond))
		return id
	case *ast.For:
		id := p.node("For")
		if n.Init != nil {
			p.edge(id, p.stmt(n.Init))
		}
		if n.Cond != nil {
			p.edge(id, p.expr(n.Cond))
		}
		if n.Post != nil {
			p.edge(id, p.expr(n.Post))
		}
		p.edge(id, p.stmt(n.Body))
		return id
	case *ast.Break:
		return p.node("Break")
	case *ast.Continue:
		return p.node("Continue")
	case *ast.Goto:
		return p.node(fmt.Sprintf("Goto: %s", n.Label))
	case *ast.Labeled:
		id := p.node(fmt.Sprintf("Label: %s", n.Label))
		p.edge(id, p.stmt(n.Stmt))
		return id
	}
	p.err = ccerror.Internalf("dotprinter: unhandled statement node %T", s)
	return p.node("?")
}

func (p *printer) expr(e ast.Expr) int {
	switch n := e.(type) {
	case *ast.IntLit:
		return p.node(fmt.Sprintf("Constant int: %d", n.Value))
	case *ast.VarRef:
		return p.node(fmt.Sprintf("Var: %s", n.Name))
	case *ast.Assign:
		id := p.node("Assign")
		p.edge(id, p.expr(n.Target))
		p.edge(id, p.expr(n.Value))
		return id
	case *ast.Unary:
		id := p.node(fmt.Sprintf("Unary op: %s", n.Op))
		p.edge(id, p.expr(n.Operand))
		return id
	case *ast.IncDec:
		shape := "suffix"
		if n.Prefix {
			shape = "prefix"
		}
		id := p.node(fmt.Sprintf("%s %s", shape, n.Op))
		p.edge(id, p.expr(n.Target))
		return id
	case *ast.Binary:
		id := p.node(fmt.Sprintf("Binary op: %s", n.Op))
		p.edge(id, p.expr(n.L))
		p.edge(id, p.expr(n.R))
		return id
	case *ast.Logical:
		id := p.node(fmt.Sprintf("Logical op: %s", n.Op))
		p.edge(id, p.expr(n.L))
		p.edge(id, p.expr(n.R))
		return id
	case *ast.Ternary:
		id := p.node("Ternary")
		p.edge(id, p.expr(n.Cond))
		p.edge(id, p.expr(n.Then))
		p.edge(id, p.expr(n.Else))
		return id
	case *ast.Call:
		id := p.node(fmt.Sprintf("Call: %s", n.Callee))
		for _, a := range n.Args {
			p.edge(id, p.expr(a))
		}
		return id
	}
	p.err = ccerror.Internalf("dotprinter: unhandled expression node %T", e)
	return p.node("?")
}
