package parser

import (
	"github.com/skx/cc/internal/ast"
	"github.com/skx/cc/internal/ccerror"
	"github.com/skx/cc/internal/token"
)

// opInfo is one entry of the static precedence table for the left-
// associative binary operators that build an ast.Binary. Comma (1),
// assignment (2), ternary (3), || (4) and && (5) are handled inline in
// parseExprPrec rather than through this table: assignment and ternary are
// right-associative and need their own shape (an lvalue check, a ":" to
// consume), comma can be switched off, and || and && build ast.Logical.
type opInfo struct {
	prec int
}

var binOpInfo = map[token.Kind]opInfo{
	token.PIPE:    {6},
	token.CARET:   {7},
	token.AMP:     {8},
	token.EQ:      {9},
	token.NEQ:     {9},
	token.LT:      {10},
	token.LE:      {10},
	token.GT:      {10},
	token.GE:      {10},
	token.SHL:     {11},
	token.SHR:     {11},
	token.PLUS:    {12},
	token.MINUS:   {12},
	token.STAR:    {13},
	token.SLASH:   {13},
	token.PERCENT: {13},
}

const (
	precComma     = 1
	precAssign    = 2
	precTernary   = 3
	precLogicOr   = 4
	precLogicAnd  = 5
)

// parseExprPrec is the precedence-climbing core: it parses an expression
// whose outermost operator binds at least as tightly as minPrec. allowComma
// enables the top-level comma operator, which is disabled inside function
// call arguments and declaration initializers so that `,` there can do its
// ordinary job of separating a list.
func (p *Parser) parseExprPrec(minPrec int, allowComma bool) (ast.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.cur()

		switch {
		case allowComma && precComma >= minPrec && tok.Kind == token.COMMA:
			p.advance()
			rhs, err := p.parseExprPrec(precComma+1, allowComma)
			if err != nil {
				return nil, err
			}
			lhs = &ast.Binary{Op: token.COMMA, L: lhs, R: rhs, Tok: tok}
			continue

		case precAssign >= minPrec && token.IsAssignKind(tok.Kind):
			varRef, ok := lhs.(*ast.VarRef)
			if !ok {
				return nil, ccerror.Syntaxf(&tok, "left-hand side of an assignment must be a variable")
			}
			p.advance()
			rhs, err := p.parseExprPrec(precAssign, allowComma)
			if err != nil {
				return nil, err
			}
			value := rhs
			if base, ok := token.CompoundOp(tok.Kind); ok {
				dup := &ast.VarRef{Name: varRef.Name, Tok: varRef.Tok}
				value = &ast.Binary{Op: base, L: dup, R: rhs, Tok: tok}
			}
			lhs = &ast.Assign{Target: varRef, Value: value, Tok: tok}
			continue

		case precTernary >= minPrec && tok.Kind == token.QUESTION:
			p.advance()
			thenExpr, err := p.parseExprPrec(0, true)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COLON); err != nil {
				return nil, err
			}
			elseExpr, err := p.parseExprPrec(precTernary, allowComma)
			if err != nil {
				return nil, err
			}
			lhs = &ast.Ternary{Cond: lhs, Then: thenExpr, Else: elseExpr, Tok: tok}
			continue

		case precLogicOr >= minPrec && tok.Kind == token.OR:
			p.advance()
			rhs, err := p.parseExprPrec(precLogicOr+1, allowComma)
			if err != nil {
				return nil, err
			}
			lhs = &ast.Logical{Op: token.OR, L: lhs, R: rhs, Tok: tok}
			continue

		case precLogicAnd >= minPrec && tok.Kind == token.AND:
			p.advance()
			rhs, err := p.parseExprPrec(precLogicAnd+1, allowComma)
			if err != nil {
				return nil, err
			}
			lhs = &ast.Logical{Op: token.AND, L: lhs, R: rhs, Tok: tok}
			continue
		}

		info, ok := binOpInfo[tok.Kind]
		if !ok || info.prec < minPrec {
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseExprPrec(info.prec+1, allowComma)
		if err != nil {
			return nil, err
		}
		lhs = &ast.Binary{Op: tok.Kind, L: lhs, R: rhs, Tok: tok}
	}
}

// parseUnary handles prefix operators: unary +/-/~/!, and prefix ++/--,
// which (like the original grammar) requires its operand resolve to a
// variable reference.
func (p *Parser) parseUnary() (ast.Expr, error) {
	tok := p.cur()

	switch tok.Kind {
	case token.PLUS:
		p.advance()
		return p.parseUnary()

	case token.MINUS, token.TILDE, token.NOT:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: tok.Kind, Operand: operand, Tok: tok}, nil

	case token.INC, token.DEC:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		varRef, ok := operand.(*ast.VarRef)
		if !ok {
			return nil, ccerror.Syntaxf(&tok, "increment/decrement target must be a variable")
		}
		return &ast.IncDec{Op: tok.Kind, Target: varRef, Prefix: true, Tok: tok}, nil

	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary expression and an optional trailing ++/--.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind == token.INC || p.cur().Kind == token.DEC {
		opTok := p.cur()
		varRef, ok := e.(*ast.VarRef)
		if !ok {
			return nil, ccerror.Syntaxf(&opTok, "increment/decrement target must be a variable")
		}
		p.advance()
		return &ast.IncDec{Op: opTok.Kind, Target: varRef, Prefix: false, Tok: opTok}, nil
	}
	return e, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()

	switch tok.Kind {
	case token.INT:
		p.advance()
		return &ast.IntLit{Value: tok.IntVal, Tok: tok}, nil

	case token.LPAREN:
		p.advance()
		e, err := p.parseExprPrec(0, true)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil

	case token.IDENT:
		p.advance()
		if _, ok := p.accept(token.LPAREN); ok {
			var args []ast.Expr
			if !p.check(token.RPAREN) {
				for {
					arg, err := p.parseExprPrec(precAssign, false)
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if _, ok := p.accept(token.COMMA); !ok {
						break
					}
				}
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			return &ast.Call{Callee: tok.Lit, Args: args, Tok: tok}, nil
		}
		return &ast.VarRef{Name: tok.Lit, Tok: tok}, nil
	}

	return nil, ccerror.Syntaxf(&tok, "expecting an expression, got %s", describe(tok))
}
