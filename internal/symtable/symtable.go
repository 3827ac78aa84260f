// Package symtable tracks declared variables and functions as codegen walks
// the tree.
//
// Scoping is copy-on-enter: entering a block clones the current symbol map
// wholesale, so mutations inside the block (new locals shadowing an outer
// name) never touch the enclosing scope's copy, and leaving the block just
// drops the clone. This trades a shallow map copy per scope for the
// simplicity of never having to undo individual inserts - the approach this
// compiler's design mandates over a mark/pop stack.
package symtable

import (
	"sort"

	"github.com/skx/cc/internal/ccerror"
	"github.com/skx/cc/internal/token"
)

// Kind distinguishes the three things a name can refer to.
type Kind int

const (
	LocalVar Kind = iota
	GlobalVar
	Func
)

// Symbol is one entry: a local variable's frame offset, a global variable's
// initializer/zero-state, or a function's parameter count and known-ness.
type Symbol struct {
	Kind Kind
	Name string
	Tok  token.Token

	// LocalVar
	StackOffset int // e.g. -4, -8, ... for -N(%rbp)

	// GlobalVar
	Initialized bool

	// Func
	Arity       int
	ArityKnown  bool // false for the `f()` empty-parens form
	HasBody     bool
	ReturnsVoid bool

	scope int // the Clone depth this symbol was declared at
}

// Table is the symbol table codegen consults and mutates as it walks the
// tree. Scope 0 is file scope; functions and copy-on-enter blocks hold
// higher-numbered scopes that shadow it.
type Table struct {
	syms  map[string]*Symbol
	scope int
}

// New returns an empty, file-scope symbol table.
func New() *Table {
	return &Table{syms: make(map[string]*Symbol), scope: 0}
}

// Scope reports the current scope depth (0 is file scope).
func (t *Table) Scope() int { return t.scope }

// Clone makes a copy-on-enter snapshot for a nested scope. The map is
// copied but the *Symbol entries are shared: a new declaration in the clone
// replaces its map entry and never affects t, while an in-place update of an
// existing Symbol (DeclareGlobal, DeclareFunc) is seen by both tables.
func (t *Table) Clone() *Table {
	cp := make(map[string]*Symbol, len(t.syms))
	for k, v := range t.syms {
		cp[k] = v
	}
	return &Table{syms: cp, scope: t.scope + 1}
}

// DeclareLocal adds a local variable at the current scope, stored at the
// given frame offset (in bytes, negative, e.g. -4, -8, ...). It is an error
// to redeclare a name already present at this exact scope.
func (t *Table) DeclareLocal(name string, tok token.Token, offset int) error {
	if prior, ok := t.syms[name]; ok && prior.Kind == LocalVar && prior.scopeOf() == t.scope {
		return ccerror.Semanticf(&tok, &prior.Tok, "redeclaration of %q in the same scope", name)
	}
	t.syms[name] = &Symbol{Kind: LocalVar, Name: name, Tok: tok, StackOffset: offset, scope: t.scope}
	return nil
}

// DeclareGlobal adds (or re-adds) a file-scope variable. A second
// declaration is permitted as long as at most one carries an initializer;
// two initializers for the same name is an error.
func (t *Table) DeclareGlobal(name string, tok token.Token, initialized bool) error {
	if prior, ok := t.syms[name]; ok && prior.Kind == GlobalVar {
		if prior.Initialized && initialized {
			return ccerror.Semanticf(&tok, &prior.Tok, "redefinition of global %q", name)
		}
		if initialized {
			prior.Initialized = true
			prior.Tok = tok
		}
		return nil
	}
	t.syms[name] = &Symbol{Kind: GlobalVar, Name: name, Tok: tok, Initialized: initialized, scope: t.scope}
	return nil
}

// DeclareFunc records a prototype or definition. Redeclaring with a
// different arity, or a different return type, is an error; redeclaring a
// defined function with another body is an error; a bodyless redeclaration
// after a definition is allowed and only records the parameter count if
// that was not known yet.
func (t *Table) DeclareFunc(name string, tok token.Token, arity int, arityKnown, hasBody, returnsVoid bool) error {
	prior, ok := t.syms[name]
	if !ok {
		t.syms[name] = &Symbol{Kind: Func, Name: name, Tok: tok, Arity: arity, ArityKnown: arityKnown, HasBody: hasBody, ReturnsVoid: returnsVoid, scope: t.scope}
		return nil
	}
	if prior.Kind != Func {
		return ccerror.Semanticf(&tok, &prior.Tok, "%q redeclared as a function but was previously a variable", name)
	}
	if prior.ReturnsVoid != returnsVoid {
		return ccerror.Semanticf(&tok, &prior.Tok, "conflicting declarations of %q: different return type", name)
	}
	if prior.ArityKnown && arityKnown && prior.Arity != arity {
		return ccerror.Semanticf(&tok, &prior.Tok, "conflicting declarations of %q: %d parameters, then %d", name, prior.Arity, arity)
	}
	if prior.HasBody && hasBody {
		return ccerror.Semanticf(&tok, &prior.Tok, "redefinition of function %q", name)
	}
	if hasBody {
		prior.HasBody = true
		prior.Tok = tok
	}
	if arityKnown && !prior.ArityKnown {
		prior.Arity = arity
		prior.ArityKnown = true
	}
	return nil
}

// LookupVar resolves a variable reference, local or global.
func (t *Table) LookupVar(name string, tok token.Token) (*Symbol, error) {
	sym, ok := t.syms[name]
	if !ok || (sym.Kind != LocalVar && sym.Kind != GlobalVar) {
		return nil, ccerror.Semanticf(&tok, nil, "use of undeclared variable %q", name)
	}
	return sym, nil
}

// LookupCall resolves a function call, verifying arity when known.
func (t *Table) LookupCall(name string, tok token.Token, argc int) (*Symbol, error) {
	sym, ok := t.syms[name]
	if !ok || sym.Kind != Func {
		return nil, ccerror.Semanticf(&tok, nil, "call to undeclared function %q", name)
	}
	if sym.ArityKnown && sym.Arity != argc {
		return nil, ccerror.Semanticf(&tok, &sym.Tok, "%q expects %d argument(s), got %d", name, sym.Arity, argc)
	}
	return sym, nil
}

// BytesInScope sums the frame space consumed by locals declared at exactly
// the current scope, the amount a block must give back to %rsp on exit.
func (t *Table) BytesInScope() int {
	n := 0
	for _, sym := range t.syms {
		if sym.Kind == LocalVar && sym.scopeOf() == t.scope {
			n += 4
		}
	}
	return n
}

// UninitializedGlobals returns every global left without an initializer, in
// a deterministic (name-sorted) order, for emission into .bss after all
// other top-level items.
func (t *Table) UninitializedGlobals() []*Symbol {
	var out []*Symbol
	for _, sym := range t.syms {
		if sym.Kind == GlobalVar && !sym.Initialized {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Symbol) scopeOf() int { return s.scope }
