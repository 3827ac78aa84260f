package ast

import "github.com/skx/cc/internal/token"

// Stmt is any node that appears in a function body's statement sequence.
type Stmt interface {
	stmtNode()
	Pos() token.Pos
}

// ExprStmt is an expression evaluated for its side effect, its value
// discarded.
type ExprStmt struct {
	X   Expr
	Tok token.Token
}

func (*ExprStmt) stmtNode()       {}
func (n *ExprStmt) Pos() token.Pos { return n.Tok.Pos }

// Empty is a bare `;`.
type Empty struct {
	Tok token.Token
}

func (*Empty) stmtNode()        {}
func (n *Empty) Pos() token.Pos { return n.Tok.Pos }

// Return is `return;` (Value == nil) or `return expr;`.
type Return struct {
	Value Expr
	Tok   token.Token
}

func (*Return) stmtNode()        {}
func (n *Return) Pos() token.Pos { return n.Tok.Pos }

// LocalVar is a single `name` or `name = init` entry in a var-decl list.
type LocalVar struct {
	Name string
	Init Expr
	Tok  token.Token
}

// VarDeclStmt is `int a, b = 2, c;` - one or more locals sharing a single
// `int` keyword, each entered into the enclosing scope in left-to-right
// order so later initializers may reference earlier names.
type VarDeclStmt struct {
	Decls []*LocalVar
	Tok   token.Token
}

func (*VarDeclStmt) stmtNode()        {}
func (n *VarDeclStmt) Pos() token.Pos { return n.Tok.Pos }

// Block is a brace-delimited statement sequence: a fresh scope.
type Block struct {
	Stmts []Stmt
	Tok   token.Token
}

func (*Block) stmtNode()        {}
func (n *Block) Pos() token.Pos { return n.Tok.Pos }

// If is `if (Cond) Then [else Else]`. Else is nil when absent.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt
	Tok  token.Token
}

func (*If) stmtNode()        {}
func (n *If) Pos() token.Pos { return n.Tok.Pos }

// While is `while (Cond) Body`.
type While struct {
	Cond Expr
	Body Stmt
	Tok  token.Token
}

func (*While) stmtNode()        {}
func (n *While) Pos() token.Pos { return n.Tok.Pos }

// DoWhile is `do Body while (Cond);`.
type DoWhile struct {
	Body Stmt
	Cond Expr
	Tok  token.Token
}

func (*DoWhile) stmtNode()        {}
func (n *DoWhile) Pos() token.Pos { return n.Tok.Pos }

// For is the general C for-loop. Init may be nil, an ExprStmt, or a
// VarDeclStmt (the latter opens a scope enclosing Cond, Post, and Body, the
// way a declared-in-the-header loop variable must be visible to all three).
// Cond and Post may be nil; a nil Cond means "loop forever" (codegen treats
// it as a literal true).
type For struct {
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
	Tok  token.Token
}

func (*For) stmtNode()        {}
func (n *For) Pos() token.Pos { return n.Tok.Pos }

// Break is `break;`. Valid only inside a loop.
type Break struct {
	Tok token.Token
}

func (*Break) stmtNode()        {}
func (n *Break) Pos() token.Pos { return n.Tok.Pos }

// Continue is `continue;`. Valid only inside a loop.
type Continue struct {
	Tok token.Token
}

func (*Continue) stmtNode()        {}
func (n *Continue) Pos() token.Pos { return n.Tok.Pos }

// Goto is `goto label;`.
type Goto struct {
	Label string
	Tok   token.Token
}

func (*Goto) stmtNode()        {}
func (n *Goto) Pos() token.Pos { return n.Tok.Pos }

// Labeled is `label: Stmt`, the target of a Goto elsewhere in the same
// function.
type Labeled struct {
	Label string
	Stmt  Stmt
	Tok   token.Token
}

func (*Labeled) stmtNode()        {}
func (n *Labeled) Pos() token.Pos { return n.Tok.Pos }
