// Package codegen walks a parsed program and emits x86-64 AT&T-syntax
// assembly directly, in a single pass, with no intermediate representation.
//
// The result-in-%eax convention is constant throughout: generating any
// ast.Expr leaves its value in %eax when it returns. Locals live in 4-byte
// slots below %rbp; the symbol table (internal/symtable) is cloned on every
// new scope and discarded on exit, so leaving a block is just "pop back to
// the parent clone, add the scope's byte count back to %rsp".
package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/skx/cc/internal/ast"
	"github.com/skx/cc/internal/ccerror"
	"github.com/skx/cc/internal/symtable"
	"github.com/skx/cc/internal/token"
)

// argRegs holds the System V AMD64 integer argument registers, in order.
// Arguments past the sixth are passed on the stack in 8-byte slots: genCall
// leaves them pushed and reclaims them after the call, and genFuncDecl
// copies them from 16(%rbp), 24(%rbp), ... into local slots.
var argRegs = []string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}

// Generator holds all per-translation-unit state: the output writer, the
// evolving symbol table, and the bookkeeping breadcrumbs (stack depth,
// label counters, break/continue targets, goto labels) that only make
// sense while a single function body is being walked.
type Generator struct {
	out *strings.Builder

	sym *symtable.Table

	stackIndex int            // signed byte offset from %rbp of the lowest slot in use
	labelSeq   map[string]int // per-kind counters for newLabel

	breakLabels    []string
	continueLabels []string

	labels *labelSet

	funcTok         token.Token // for diagnostics citing the enclosing function
	funcReturnsVoid bool
}

// Generate compiles prog to AT&T assembly text.
func Generate(prog *ast.Program) (string, error) {
	g := &Generator{out: &strings.Builder{}, sym: symtable.New(), labels: newLabelSet()}

	if err := g.predeclare(prog); err != nil {
		return "", err
	}

	for _, item := range prog.Items {
		switch n := item.(type) {
		case *ast.FuncDecl:
			if err := g.genFuncDecl(n); err != nil {
				return "", err
			}
		case *ast.GlobalVarDecl:
			if err := g.genGlobalVarDecl(n); err != nil {
				return "", err
			}
		default:
			return "", ccerror.Internalf("unhandled top-level node %T", item)
		}
	}

	g.genUninitializedGlobals()

	return g.out.String(), nil
}

// Write generates prog and writes the resulting assembly to w. The whole
// text is built in memory by Generate first, then written in one call.
func Write(w io.Writer, prog *ast.Program) error {
	asm, err := Generate(prog)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, asm)
	return err
}

// predeclare registers every top-level function and global before
// generating any code, so forward references ("a function calling another
// one declared later in the file") resolve correctly.
func (g *Generator) predeclare(prog *ast.Program) error {
	for _, item := range prog.Items {
		switch n := item.(type) {
		case *ast.FuncDecl:
			arity := len(n.Params)
			arityKnown := !n.EmptyParens
			if err := g.sym.DeclareFunc(n.Name, n.Tok, arity, arityKnown, n.Body != nil, n.ReturnsVoid); err != nil {
				return err
			}
		case *ast.GlobalVarDecl:
			for _, d := range n.Decls {
				if err := g.sym.DeclareGlobal(d.Name, d.Tok, d.Init != nil); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (g *Generator) emit(format string, args ...any) {
	fmt.Fprintf(g.out, format, args...)
	g.out.WriteByte('\n')
}

func (g *Generator) emitLabel(name string) {
	fmt.Fprintf(g.out, "%s:\n", name)
}

// newLabel mints a unique local assembly label of the form _KIND_N, where N
// counts up from 1 separately for each kind.
func (g *Generator) newLabel(kind string) string {
	if g.labelSeq == nil {
		g.labelSeq = make(map[string]int)
	}
	g.labelSeq[kind]++
	return fmt.Sprintf("_%s_%d", kind, g.labelSeq[kind])
}

// ---- globals ----------------------------------------------------------

func (g *Generator) genGlobalVarDecl(decl *ast.GlobalVarDecl) error {
	for _, d := range decl.Decls {
		if d.Init == nil {
			continue // emitted later, in .bss, after everything else
		}
		// The parser only ever accepts a *ast.IntLit initializer for a
		// global (a constant-integer check enforced at parse time).
		lit, ok := d.Init.(*ast.IntLit)
		if !ok {
			return ccerror.Internalf("global initializer for %q was not a constant integer", d.Name)
		}
		g.emit(".data")
		g.emit(".globl %s", d.Name)
		g.emit(".align 4")
		g.emitLabel(d.Name)
		g.emit(".long %d", lit.Value)
	}
	return nil
}

func (g *Generator) genUninitializedGlobals() {
	for _, sym := range g.sym.UninitializedGlobals() {
		g.emit(".bss")
		g.emit(".globl %s", sym.Name)
		g.emit(".align 4")
		g.emitLabel(sym.Name)
		g.emit(".zero 4")
	}
}

// ---- functions ----------------------------------------------------------

func (g *Generator) genFuncDecl(fn *ast.FuncDecl) error {
	if fn.Body == nil {
		return nil // prototype only, nothing to emit
	}

	g.funcTok = fn.Tok
	g.funcReturnsVoid = fn.ReturnsVoid
	g.stackIndex = 0
	g.breakLabels = nil
	g.continueLabels = nil

	g.emit(".text")
	g.emit(".globl %s", fn.Name)
	g.emitLabel(fn.Name)
	g.emit("push %%rbp")
	g.emit("mov %%rsp, %%rbp")

	bodyScope := g.sym.Clone()
	saved := g.sym
	g.sym = bodyScope

	for i, p := range fn.Params {
		g.stackIndex -= 4
		if err := g.sym.DeclareLocal(p.Name, p.Tok, g.stackIndex); err != nil {
			g.sym = saved
			return err
		}
		g.emit("sub $4, %%rsp")
		if i < len(argRegs) {
			reg32 := reg32Of(argRegs[i])
			g.emit("movl %s, %d(%%rbp)", reg32, g.stackIndex)
		} else {
			incoming := 16 + (i-len(argRegs))*8
			g.emit("movl %d(%%rbp), %%eax", incoming)
			g.emit("movl %%eax, %d(%%rbp)", g.stackIndex)
		}
	}

	for _, stmt := range fn.Body.Stmts {
		if err := g.genStatement(stmt); err != nil {
			g.sym = saved
			return err
		}
	}

	g.sym = saved

	if len(g.breakLabels) != 0 || len(g.continueLabels) != 0 {
		return ccerror.Internalf("break/continue label stacks not empty at end of %q", fn.Name)
	}
	if err := g.labels.check(); err != nil {
		return err
	}
	g.labels = newLabelSet()

	// Fallback return, matching a non-void function that falls off its
	// closing brace without an explicit return (most visibly main()).
	g.emit("mov $0, %%eax")
	g.emit("mov %%rbp, %%rsp")
	g.emit("pop %%rbp")
	g.emit("ret")
	return nil
}

func reg32Of(reg64 string) string {
	switch reg64 {
	case "%rdi":
		return "%edi"
	case "%rsi":
		return "%esi"
	case "%rdx":
		return "%edx"
	case "%rcx":
		return "%ecx"
	case "%r8":
		return "%r8d"
	case "%r9":
		return "%r9d"
	}
	return reg64
}
