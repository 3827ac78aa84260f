package codegen

import (
	"github.com/skx/cc/internal/ast"
	"github.com/skx/cc/internal/ccerror"
)

func (g *Generator) genStatement(stmt ast.Stmt) error {
	switch n := stmt.(type) {
	case *ast.ExprStmt:
		err := g.genExprReq(n.X, false)
		return err

	case *ast.Empty:
		return nil

	case *ast.Return:
		if n.Value != nil {
			if g.funcReturnsVoid {
				return ccerror.Semanticf(&n.Tok, &g.funcTok, "returning a value from a void function")
			}
			if err := g.genExpr(n.Value); err != nil {
				return err
			}
		} else {
			if !g.funcReturnsVoid {
				return ccerror.Semanticf(&n.Tok, &g.funcTok, "missing return value in a non-void function")
			}
			g.emit("mov $0, %%eax")
		}
		g.emit("mov %%rbp, %%rsp")
		g.emit("pop %%rbp")
		g.emit("ret")
		return nil

	case *ast.VarDeclStmt:
		return g.genVarDeclStmt(n)

	case *ast.Block:
		return g.genNewScope(func() error {
			for _, s := range n.Stmts {
				if err := g.genStatement(s); err != nil {
					return err
				}
			}
			return nil
		})

	case *ast.If:
		return g.genIf(n)

	case *ast.While:
		return g.genWhile(n)

	case *ast.DoWhile:
		return g.genDoWhile(n)

	case *ast.For:
		return g.genFor(n)

	case *ast.Break:
		if len(g.breakLabels) == 0 {
			return ccerror.Semanticf(&n.Tok, nil, "'break' used outside of a loop")
		}
		g.emit("jmp %s", g.breakLabels[len(g.breakLabels)-1])
		return nil

	case *ast.Continue:
		if len(g.continueLabels) == 0 {
			return ccerror.Semanticf(&n.Tok, nil, "'continue' used outside of a loop")
		}
		g.emit("jmp %s", g.continueLabels[len(g.continueLabels)-1])
		return nil

	case *ast.Goto:
		g.labels.reference(n.Label, n.Tok)
		g.emit("jmp _label_%s", n.Label)
		return nil

	case *ast.Labeled:
		if err := g.labels.define(n.Label, n.Tok); err != nil {
			return err
		}
		g.emitLabel("_label_" + n.Label)
		return g.genStatement(n.Stmt)
	}

	return ccerror.Internalf("unhandled statement node %T", stmt)
}

// genNewScope clones the symbol table for a nested block, runs body against
// the clone, then restores the stack pointer and the parent table - the
// copy-on-enter scope discipline this compiler's design mandates.
func (g *Generator) genNewScope(body func() error) error {
	saved := g.sym
	savedIndex := g.stackIndex

	g.sym = saved.Clone()
	if err := body(); err != nil {
		g.sym = saved
		return err
	}

	bytes := g.sym.BytesInScope()
	if bytes > 0 {
		g.emit("add $%d, %%rsp", bytes)
	}

	g.sym = saved
	g.stackIndex = savedIndex
	return nil
}

func (g *Generator) genVarDeclStmt(n *ast.VarDeclStmt) error {
	for _, d := range n.Decls {
		g.stackIndex -= 4
		// Put the name into scope before generating its initializer, so
		// `int v = v = 2;` resolves the inner `v` to this new local rather
		// than erroring or reaching an outer one.
		if err := g.sym.DeclareLocal(d.Name, d.Tok, g.stackIndex); err != nil {
			return err
		}
		g.emit("sub $4, %%rsp")
		if d.Init != nil {
			if err := g.genExpr(d.Init); err != nil {
				return err
			}
		} else {
			g.emit("mov $0, %%eax")
		}
		g.emit("movl %%eax, %d(%%rbp)", g.stackIndex)
	}
	return nil
}

func (g *Generator) genIf(n *ast.If) error {
	if err := g.genExpr(n.Cond); err != nil {
		return err
	}
	g.emit("cmp $0, %%eax")

	if n.Else == nil {
		end := g.newLabel("if_end")
		g.emit("je %s", end)
		if err := g.genStatement(n.Then); err != nil {
			return err
		}
		g.emitLabel(end)
		return nil
	}

	elseLabel := g.newLabel("if_else")
	end := g.newLabel("if_end")
	g.emit("je %s", elseLabel)
	if err := g.genStatement(n.Then); err != nil {
		return err
	}
	g.emit("jmp %s", end)
	g.emitLabel(elseLabel)
	if err := g.genStatement(n.Else); err != nil {
		return err
	}
	g.emitLabel(end)
	return nil
}

func (g *Generator) pushLoopLabels(breakLabel, continueLabel string) {
	g.breakLabels = append(g.breakLabels, breakLabel)
	g.continueLabels = append(g.continueLabels, continueLabel)
}

func (g *Generator) popLoopLabels() {
	g.breakLabels = g.breakLabels[:len(g.breakLabels)-1]
	g.continueLabels = g.continueLabels[:len(g.continueLabels)-1]
}

func (g *Generator) genWhile(n *ast.While) error {
	start := g.newLabel("while_start")
	end := g.newLabel("while_end")

	g.emitLabel(start)
	if err := g.genExpr(n.Cond); err != nil {
		return err
	}
	g.emit("cmp $0, %%eax")
	g.emit("je %s", end)

	g.pushLoopLabels(end, start)
	err := g.genStatement(n.Body)
	g.popLoopLabels()
	if err != nil {
		return err
	}

	g.emit("jmp %s", start)
	g.emitLabel(end)
	return nil
}

func (g *Generator) genDoWhile(n *ast.DoWhile) error {
	start := g.newLabel("do_start")
	continueLabel := g.newLabel("do_continue")
	end := g.newLabel("do_end")

	g.emitLabel(start)

	g.pushLoopLabels(end, continueLabel)
	err := g.genStatement(n.Body)
	g.popLoopLabels()
	if err != nil {
		return err
	}

	g.emitLabel(continueLabel)
	if err := g.genExpr(n.Cond); err != nil {
		return err
	}
	g.emit("cmp $0, %%eax")
	g.emit("jne %s", start)
	g.emitLabel(end)
	return nil
}

func (g *Generator) genFor(n *ast.For) error {
	return g.genNewScope(func() error {
		if n.Init != nil {
			if err := g.genStatement(n.Init); err != nil {
				return err
			}
		}

		start := g.newLabel("for_start")
		continueLabel := g.newLabel("for_continue")
		end := g.newLabel("for_end")

		g.emitLabel(start)
		if n.Cond != nil {
			if err := g.genExpr(n.Cond); err != nil {
				return err
			}
			g.emit("cmp $0, %%eax")
			g.emit("je %s", end)
		}

		g.pushLoopLabels(end, continueLabel)
		err := g.genStatement(n.Body)
		g.popLoopLabels()
		if err != nil {
			return err
		}

		g.emitLabel(continueLabel)
		if n.Post != nil {
			if err := g.genExprReq(n.Post, false); err != nil {
				return err
			}
		}
		g.emit("jmp %s", start)
		g.emitLabel(end)
		return nil
	})
}
