package codegen

import (
	"github.com/skx/cc/internal/ast"
	"github.com/skx/cc/internal/ccerror"
	"github.com/skx/cc/internal/symtable"
	"github.com/skx/cc/internal/token"
)

// genExpr generates n, leaving its value in %eax. The result is always
// required here; use genExprReq directly for the handful of contexts (an
// expression statement, a for-loop's init/post clause) where a void call's
// result may legally be discarded.
func (g *Generator) genExpr(n ast.Expr) error {
	return g.genExprReq(n, true)
}

// genExprReq generates n, leaving its value in %eax. required reports
// whether the caller actually needs that value: it is false only for a
// bare expression statement and a for-loop's init/post clause, and
// propagates through the ternary operator's branches the same way the
// original compiler threads its require_value flag. Every other context
// (operands of a binary/logical/unary op, an assignment's RHS, a return
// value, call arguments, ...) always requires a value.
func (g *Generator) genExprReq(n ast.Expr, required bool) error {
	switch e := n.(type) {
	case *ast.IntLit:
		g.emit("mov $%d, %%eax", e.Value)
		return nil

	case *ast.VarRef:
		return g.genVarRead(e)

	case *ast.Assign:
		return g.genAssign(e)

	case *ast.Unary:
		return g.genUnary(e)

	case *ast.IncDec:
		return g.genIncDec(e)

	case *ast.Binary:
		return g.genBinary(e)

	case *ast.Logical:
		return g.genLogical(e)

	case *ast.Ternary:
		return g.genTernary(e, required)

	case *ast.Call:
		return g.genCall(e, required)
	}
	return ccerror.Internalf("unhandled expression node %T", n)
}

func (g *Generator) genVarRead(v *ast.VarRef) error {
	ref, err := g.varRef(v)
	if err != nil {
		return err
	}
	g.emit("movl %s, %%eax", ref)
	return nil
}

// varRef resolves a variable name to its assembly operand: a frame-relative
// offset for a local, or the symbol name for a global.
func (g *Generator) varRef(v *ast.VarRef) (string, error) {
	sym, err := g.sym.LookupVar(v.Name, v.Tok)
	if err != nil {
		return "", err
	}
	if sym.Kind == symtable.LocalVar {
		return sprintfOffset(sym.StackOffset), nil
	}
	return v.Name + "(%rip)", nil
}

func sprintfOffset(off int) string {
	return itoa(off) + "(%rbp)"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (g *Generator) genAssign(a *ast.Assign) error {
	if err := g.genExpr(a.Value); err != nil {
		return err
	}
	ref, err := g.varRef(a.Target)
	if err != nil {
		return err
	}
	g.emit("movl %%eax, %s", ref)
	return nil
}

func (g *Generator) genUnary(u *ast.Unary) error {
	if err := g.genExpr(u.Operand); err != nil {
		return err
	}
	switch u.Op {
	case token.MINUS:
		g.emit("neg %%eax")
	case token.TILDE:
		g.emit("not %%eax")
	case token.NOT:
		g.emit("cmp $0, %%eax")
		g.emit("mov $0, %%eax")
		g.emit("sete %%al")
	default:
		return ccerror.Internalf("unhandled unary operator %s", u.Op)
	}
	return nil
}

func (g *Generator) genIncDec(n *ast.IncDec) error {
	ref, err := g.varRef(n.Target)
	if err != nil {
		return err
	}

	delta := "$1"
	instr := "add"
	if n.Op == token.DEC {
		instr = "sub"
	}

	if n.Prefix {
		g.emit("movl %s, %%eax", ref)
		g.emit("%s %s, %%eax", instr, delta)
		g.emit("movl %%eax, %s", ref)
		return nil
	}

	// Suffix form: the expression's value is the variable's value before
	// the update, but the memory slot itself is bumped directly.
	g.emit("movl %s, %%eax", ref)
	g.emit("%sl %s, %s", instr, delta, ref)
	return nil
}

func (g *Generator) genBinary(b *ast.Binary) error {
	if b.Op == token.COMMA {
		if err := g.genExpr(b.L); err != nil {
			return err
		}
		return g.genExpr(b.R)
	}

	if err := g.genExpr(b.R); err != nil {
		return err
	}
	g.emit("push %%rax")
	g.stackIndex -= 8
	if err := g.genExpr(b.L); err != nil {
		return err
	}
	g.emit("pop %%rcx")
	g.stackIndex += 8

	switch b.Op {
	case token.PLUS:
		g.emit("add %%ecx, %%eax")
	case token.MINUS:
		g.emit("sub %%ecx, %%eax")
	case token.STAR:
		g.emit("imul %%ecx, %%eax")
	case token.SLASH:
		g.emit("cdq")
		g.emit("idiv %%ecx")
	case token.PERCENT:
		g.emit("cdq")
		g.emit("idiv %%ecx")
		g.emit("mov %%edx, %%eax")
	case token.AMP:
		g.emit("and %%ecx, %%eax")
	case token.PIPE:
		g.emit("or %%ecx, %%eax")
	case token.CARET:
		g.emit("xor %%ecx, %%eax")
	case token.SHL:
		g.emit("shl %%cl, %%eax")
	case token.SHR:
		g.emit("shr %%cl, %%eax")
	case token.EQ:
		g.emitCompare("sete")
	case token.NEQ:
		g.emitCompare("setne")
	case token.LT:
		g.emitCompare("setl")
	case token.LE:
		g.emitCompare("setle")
	case token.GT:
		g.emitCompare("setg")
	case token.GE:
		g.emitCompare("setge")
	default:
		return ccerror.Internalf("unhandled binary operator %s", b.Op)
	}
	return nil
}

func (g *Generator) emitCompare(setInstr string) {
	g.emit("cmp %%ecx, %%eax")
	g.emit("mov $0, %%eax")
	g.emit("%s %%al", setInstr)
}

// genLogical generates short-circuiting && and ||: the right operand is
// only evaluated when the left one didn't already decide the answer.
func (g *Generator) genLogical(l *ast.Logical) error {
	if l.Op == token.AND {
		skip := g.newLabel("and_skip")
		end := g.newLabel("and_end")

		if err := g.genExpr(l.L); err != nil {
			return err
		}
		g.emit("cmp $0, %%eax")
		g.emit("je %s", skip)

		if err := g.genExpr(l.R); err != nil {
			return err
		}
		g.emit("cmp $0, %%eax")
		g.emit("mov $0, %%eax")
		g.emit("setne %%al")
		g.emit("jmp %s", end)

		g.emitLabel(skip)
		g.emit("mov $0, %%eax")
		g.emitLabel(end)
		return nil
	}

	skip := g.newLabel("or_skip")
	end := g.newLabel("or_end")

	if err := g.genExpr(l.L); err != nil {
		return err
	}
	g.emit("cmp $0, %%eax")
	g.emit("jne %s", skip)

	if err := g.genExpr(l.R); err != nil {
		return err
	}
	g.emit("cmp $0, %%eax")
	g.emit("mov $0, %%eax")
	g.emit("setne %%al")
	g.emit("jmp %s", end)

	g.emitLabel(skip)
	g.emit("mov $1, %%eax")
	g.emitLabel(end)
	return nil
}

func (g *Generator) genTernary(t *ast.Ternary, required bool) error {
	elseLabel := g.newLabel("ternary_else")
	end := g.newLabel("ternary_end")

	if err := g.genExpr(t.Cond); err != nil {
		return err
	}
	g.emit("cmp $0, %%eax")
	g.emit("je %s", elseLabel)

	if err := g.genExprReq(t.Then, required); err != nil {
		return err
	}
	g.emit("jmp %s", end)

	g.emitLabel(elseLabel)
	if err := g.genExprReq(t.Else, required); err != nil {
		return err
	}
	g.emitLabel(end)
	return nil
}

func (g *Generator) genCall(c *ast.Call, required bool) error {
	sym, err := g.sym.LookupCall(c.Callee, c.Tok, len(c.Args))
	if err != nil {
		return err
	}
	if required && sym.ReturnsVoid {
		return ccerror.Semanticf(&c.Tok, nil, "void value not ignored as it ought to be")
	}

	// Push every argument in reverse, matching C's unspecified-but-this-
	// compiler's-chosen evaluation order, so the first len(argRegs) pops
	// land in the right registers without extra shuffling.
	for i := len(c.Args) - 1; i >= 0; i-- {
		if err := g.genExpr(c.Args[i]); err != nil {
			return err
		}
		g.emit("push %%rax")
		g.stackIndex -= 8
	}

	regCount := len(c.Args)
	if regCount > len(argRegs) {
		regCount = len(argRegs)
	}
	for i := 0; i < regCount; i++ {
		g.emit("pop %s", argRegs[i])
		g.stackIndex += 8
	}

	g.emit("call %s", c.Callee)

	stackArgs := len(c.Args) - len(argRegs)
	if stackArgs > 0 {
		g.emit("add $%d, %%rsp", stackArgs*8)
		g.stackIndex += stackArgs * 8
	}
	return nil
}
