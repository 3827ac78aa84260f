package ast

import (
	"testing"

	"github.com/skx/cc/internal/token"
)

func TestPosDelegatesToToken(t *testing.T) {
	tok := token.Token{Kind: token.IDENT, Lit: "x", Pos: token.Pos{Line: 3, Col: 7}}

	nodes := []interface{ Pos() token.Pos }{
		&IntLit{Tok: tok},
		&VarRef{Tok: tok},
		&Assign{Tok: tok},
		&Unary{Tok: tok},
		&IncDec{Tok: tok},
		&Binary{Tok: tok},
		&Logical{Tok: tok},
		&Ternary{Tok: tok},
		&Call{Tok: tok},
		&ExprStmt{Tok: tok},
		&Return{Tok: tok},
		&Break{Tok: tok},
		&Continue{Tok: tok},
		&FuncDecl{Tok: tok},
		&GlobalVarDecl{Tok: tok},
	}

	for _, n := range nodes {
		if got := n.Pos(); got != tok.Pos {
			t.Fatalf("%T.Pos() = %+v, want %+v", n, got, tok.Pos)
		}
	}
}

func TestClosedInterfacesAreSatisfied(t *testing.T) {
	var _ Expr = &IntLit{}
	var _ Expr = &VarRef{}
	var _ Expr = &Assign{}
	var _ Expr = &Unary{}
	var _ Expr = &IncDec{}
	var _ Expr = &Binary{}
	var _ Expr = &Logical{}
	var _ Expr = &Ternary{}
	var _ Expr = &Call{}

	var _ Stmt = &ExprStmt{}
	var _ Stmt = &Empty{}
	var _ Stmt = &Return{}
	var _ Stmt = &VarDeclStmt{}
	var _ Stmt = &Block{}
	var _ Stmt = &If{}
	var _ Stmt = &While{}
	var _ Stmt = &DoWhile{}
	var _ Stmt = &For{}
	var _ Stmt = &Break{}
	var _ Stmt = &Continue{}
	var _ Stmt = &Goto{}
	var _ Stmt = &Labeled{}

	var _ TopLevel = &FuncDecl{}
	var _ TopLevel = &GlobalVarDecl{}
}
