// Package ast defines the syntax tree the parser builds and the codegen and
// dotprinter packages walk.
//
// Every node kind is a distinct Go type; Expr and Stmt are closed interfaces
// ("sealed" by an unexported marker method), so no type outside this package
// can satisfy them. The type switches in codegen and dotprinter are not
// checked for exhaustiveness by the compiler: a node kind with no case falls
// through to their internal-error branch at runtime.
package ast

import "github.com/skx/cc/internal/token"

// Expr is any node that evaluates to a value in %eax.
type Expr interface {
	exprNode()
	Pos() token.Pos
}

// IntLit is a decimal integer literal.
type IntLit struct {
	Value int64
	Tok   token.Token
}

func (*IntLit) exprNode()          {}
func (n *IntLit) Pos() token.Pos   { return n.Tok.Pos }

// VarRef names a local or global variable.
type VarRef struct {
	Name string
	Tok  token.Token
}

func (*VarRef) exprNode()        {}
func (n *VarRef) Pos() token.Pos { return n.Tok.Pos }

// Assign is `Target = Value`. Compound assignment (`x += e`) is desugared by
// the parser into Assign{Target: x, Value: Binary{PLUS, copyOf(x), e}} so
// codegen only ever has one assignment shape to generate.
type Assign struct {
	Target *VarRef
	Value  Expr
	Tok    token.Token
}

func (*Assign) exprNode()        {}
func (n *Assign) Pos() token.Pos { return n.Tok.Pos }

// Unary is a prefix operator: -, ~, or logical !.
type Unary struct {
	Op      token.Kind
	Operand Expr
	Tok     token.Token
}

func (*Unary) exprNode()        {}
func (n *Unary) Pos() token.Pos { return n.Tok.Pos }

// IncDec is ++x, --x, x++, or x--. The parser only ever builds one of these
// around a VarRef; building one around anything else is a parse error, not a
// codegen concern.
type IncDec struct {
	Op     token.Kind // INC or DEC
	Target *VarRef
	Prefix bool
	Tok    token.Token
}

func (*IncDec) exprNode()        {}
func (n *IncDec) Pos() token.Pos { return n.Tok.Pos }

// Binary is any left/right operator pair that isn't short-circuiting:
// arithmetic, bitwise, shift, relational, equality, or comma.
type Binary struct {
	Op   token.Kind
	L, R Expr
	Tok  token.Token
}

func (*Binary) exprNode()        {}
func (n *Binary) Pos() token.Pos { return n.Tok.Pos }

// Logical is && or ||, kept distinct from Binary because codegen must
// short-circuit: the right operand is only ever evaluated conditionally.
type Logical struct {
	Op   token.Kind // AND or OR
	L, R Expr
	Tok  token.Token
}

func (*Logical) exprNode()        {}
func (n *Logical) Pos() token.Pos { return n.Tok.Pos }

// Ternary is `Cond ? Then : Else`.
type Ternary struct {
	Cond, Then, Else Expr
	Tok              token.Token
}

func (*Ternary) exprNode()        {}
func (n *Ternary) Pos() token.Pos { return n.Tok.Pos }

// Call invokes a declared function. Codegen evaluates Args from last to
// first, pushing each result before evaluating the next.
type Call struct {
	Callee string
	Args   []Expr
	Tok    token.Token
}

func (*Call) exprNode()        {}
func (n *Call) Pos() token.Pos { return n.Tok.Pos }
