package ast

import "github.com/skx/cc/internal/token"

// TopLevel is a function declaration/definition or a global var-decl list.
type TopLevel interface {
	topLevelNode()
	Pos() token.Pos
}

// Param is one entry in a function's parameter list.
type Param struct {
	Name string
	Tok  token.Token
}

// FuncDecl is a function prototype (Body == nil) or definition (Body set).
//
// EmptyParens distinguishes `f()` from `f(void)`: the former is the
// old-style "unspecified parameters" form, which skips arity checking at
// call sites; the latter declares a zero-argument function whose calls are
// checked like any other.
//
// ReturnsVoid records whether the declaration used `void` or `int` as its
// return type, so codegen can reject a value-returning `return` in a void
// function (and vice versa) and reject using a void call's result where a
// value is required.
type FuncDecl struct {
	Name        string
	Params      []*Param
	EmptyParens bool
	ReturnsVoid bool
	Body        *Block
	Tok         token.Token
}

func (*FuncDecl) topLevelNode()     {}
func (n *FuncDecl) Pos() token.Pos  { return n.Tok.Pos }

// GlobalVar is one entry in a top-level var-decl list. Init is nil for an
// uninitialized global, which lands in .bss rather than .data.
type GlobalVar struct {
	Name string
	Init Expr
	Tok  token.Token
}

// GlobalVarDecl is `int a, b = 2;` at file scope.
type GlobalVarDecl struct {
	Decls []*GlobalVar
	Tok   token.Token
}

func (*GlobalVarDecl) topLevelNode()    {}
func (n *GlobalVarDecl) Pos() token.Pos { return n.Tok.Pos }

// Program is a whole translation unit: the parsed form of one source file.
type Program struct {
	Items []TopLevel
}
