// Package parser turns a token stream into an *ast.Program by recursive
// descent, with a precedence-climbing core for expressions.
//
// There is no error recovery: the first unexpected token aborts parsing
// with a *ccerror.Error carrying enough source position to render a caret
// under the offending byte.
package parser

import (
	"strings"

	"github.com/skx/cc/internal/ast"
	"github.com/skx/cc/internal/ccerror"
	"github.com/skx/cc/internal/token"
)

// Parser holds the token stream and the read cursor.
type Parser struct {
	toks []token.Token
	pos  int
}

// Parse consumes every token in toks (expected to end in exactly one
// token.END, as internal/lexer produces) and returns the parsed program.
func Parse(toks []token.Token) (*ast.Program, error) {
	p := &Parser{toks: toks}
	var items []ast.TopLevel
	for !p.check(token.END) {
		item, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &ast.Program{Items: items}, nil
}

func (p *Parser) cur() token.Token { return p.toks[p.pos] }

func (p *Parser) peek(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if t.Kind != token.END {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// expect consumes the current token if it matches one of kinds, fatally
// erroring "expecting A, B, or C, got D" otherwise - check_and_pop's role in
// the original grammar.
func (p *Parser) expect(kinds ...token.Kind) (token.Token, error) {
	cur := p.cur()
	for _, k := range kinds {
		if cur.Kind == k {
			return p.advance(), nil
		}
	}
	return token.Token{}, ccerror.Syntaxf(&cur, "expecting %s, got %s", joinKinds(kinds), describe(cur))
}

func joinKinds(kinds []token.Kind) string {
	var parts []string
	for _, k := range kinds {
		parts = append(parts, k.String())
	}
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " or " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", or " + parts[len(parts)-1]
	}
}

func describe(t token.Token) string {
	if t.Kind == token.IDENT || t.Kind == token.INT {
		return t.Kind.String() + " " + t.Lit
	}
	return t.Kind.String()
}

// ---- top level ----------------------------------------------------------

func (p *Parser) parseTopLevel() (ast.TopLevel, error) {
	typeTok, err := p.expect(token.INT_KW, token.VOID_KW)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if p.check(token.LPAREN) {
		return p.parseFuncDeclRest(typeTok, nameTok)
	}
	return p.parseGlobalVarDeclRest(typeTok, nameTok)
}

func (p *Parser) parseFuncDeclRest(typeTok, nameTok token.Token) (*ast.FuncDecl, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var params []*ast.Param
	emptyParens := false

	switch {
	case p.check(token.RPAREN):
		emptyParens = true
		p.advance()
	case p.check(token.VOID_KW) && p.peek(1).Kind == token.RPAREN:
		p.advance()
		p.advance()
	default:
		for {
			if _, err := p.expect(token.INT_KW); err != nil {
				return nil, err
			}
			pname, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			params = append(params, &ast.Param{Name: pname.Lit, Tok: pname})
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}

	decl := &ast.FuncDecl{
		Name:        nameTok.Lit,
		Params:      params,
		EmptyParens: emptyParens,
		ReturnsVoid: typeTok.Kind == token.VOID_KW,
		Tok:         nameTok,
	}

	if _, ok := p.accept(token.SEMI); ok {
		return decl, nil
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	decl.Body = body
	return decl, nil
}

func (p *Parser) parseGlobalVarDeclRest(typeTok, nameTok token.Token) (*ast.GlobalVarDecl, error) {
	first, err := p.parseGlobalVar(nameTok)
	if err != nil {
		return nil, err
	}
	decls := []*ast.GlobalVar{first}

	for {
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
		n, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		gv, err := p.parseGlobalVar(n)
		if err != nil {
			return nil, err
		}
		decls = append(decls, gv)
	}

	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.GlobalVarDecl{Decls: decls, Tok: typeTok}, nil
}

func (p *Parser) parseGlobalVar(nameTok token.Token) (*ast.GlobalVar, error) {
	var init ast.Expr
	if assignTok, ok := p.accept(token.ASSIGN); ok {
		e, err := p.parseExprPrec(2, false)
		if err != nil {
			return nil, err
		}
		if _, ok := e.(*ast.IntLit); !ok {
			return nil, ccerror.Syntaxf(&assignTok, "a global initializer must be a constant integer")
		}
		init = e
	}
	return &ast.GlobalVar{Name: nameTok.Lit, Init: init, Tok: nameTok}, nil
}

// ---- statements -----------------------------------------------------------

func (p *Parser) parseBlock() (*ast.Block, error) {
	lbrace, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.check(token.END) {
		s, err := p.parseStatement(true)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.Block{Stmts: stmts, Tok: lbrace}, nil
}

// parseStatement parses one statement. allowDecl is false for the
// un-braced body of an if/while/do/for: C does not allow a bare
// declaration there, only inside a block.
func (p *Parser) parseStatement(allowDecl bool) (ast.Stmt, error) {
	tok := p.cur()

	switch tok.Kind {
	case token.LBRACE:
		return p.parseBlock()

	case token.RETURN:
		p.advance()
		if _, ok := p.accept(token.SEMI); ok {
			return &ast.Return{Tok: tok}, nil
		}
		val, err := p.parseExprPrec(0, true)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.Return{Value: val, Tok: tok}, nil

	case token.IF:
		return p.parseIf()

	case token.WHILE:
		return p.parseWhile()

	case token.DO:
		return p.parseDoWhile()

	case token.FOR:
		return p.parseFor()

	case token.BREAK:
		p.advance()
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.Break{Tok: tok}, nil

	case token.CONTINUE:
		p.advance()
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.Continue{Tok: tok}, nil

	case token.GOTO:
		p.advance()
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.Goto{Label: name.Lit, Tok: tok}, nil

	case token.SEMI:
		p.advance()
		return &ast.Empty{Tok: tok}, nil

	case token.INT_KW:
		if !allowDecl {
			return nil, ccerror.Syntaxf(&tok, "a declaration is not allowed here; wrap it in a block")
		}
		return p.parseVarDeclStmt()

	case token.IDENT:
		if p.peek(1).Kind == token.COLON {
			p.advance()
			p.advance()
			stmt, err := p.parseStatement(allowDecl)
			if err != nil {
				return nil, err
			}
			return &ast.Labeled{Label: tok.Lit, Stmt: stmt, Tok: tok}, nil
		}
	}

	expr, err := p.parseExprPrec(0, true)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: expr, Tok: tok}, nil
}

func (p *Parser) parseVarDeclStmt() (*ast.VarDeclStmt, error) {
	tok, err := p.expect(token.INT_KW)
	if err != nil {
		return nil, err
	}
	var decls []*ast.LocalVar
	for {
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		var init ast.Expr
		if _, ok := p.accept(token.ASSIGN); ok {
			e, err := p.parseExprPrec(2, false)
			if err != nil {
				return nil, err
			}
			init = e
		}
		decls = append(decls, &ast.LocalVar{Name: name.Lit, Init: init, Tok: name})
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.VarDeclStmt{Decls: decls, Tok: tok}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	tok, _ := p.expect(token.IF)
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExprPrec(0, true)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseStatement(false)
	if err != nil {
		return nil, err
	}
	n := &ast.If{Cond: cond, Then: then, Tok: tok}
	if _, ok := p.accept(token.ELSE); ok {
		elseStmt, err := p.parseStatement(false)
		if err != nil {
			return nil, err
		}
		n.Else = elseStmt
	}
	return n, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	tok, _ := p.expect(token.WHILE)
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExprPrec(0, true)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement(false)
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, Tok: tok}, nil
}

func (p *Parser) parseDoWhile() (ast.Stmt, error) {
	tok, _ := p.expect(token.DO)
	body, err := p.parseStatement(false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.WHILE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExprPrec(0, true)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.DoWhile{Body: body, Cond: cond, Tok: tok}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	tok, _ := p.expect(token.FOR)
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var init ast.Stmt
	switch {
	case p.check(token.INT_KW):
		decl, err := p.parseVarDeclStmt()
		if err != nil {
			return nil, err
		}
		init = decl
	case p.check(token.SEMI):
		p.advance()
	default:
		e, err := p.parseExprPrec(0, true)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		init = &ast.ExprStmt{X: e, Tok: tok}
	}

	var cond ast.Expr
	if !p.check(token.SEMI) {
		c, err := p.parseExprPrec(0, true)
		if err != nil {
			return nil, err
		}
		cond = c
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}

	var post ast.Expr
	if !p.check(token.RPAREN) {
		pe, err := p.parseExprPrec(0, true)
		if err != nil {
			return nil, err
		}
		post = pe
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseStatement(false)
	if err != nil {
		return nil, err
	}
	return &ast.For{Init: init, Cond: cond, Post: post, Body: body, Tok: tok}, nil
}
