// Package lexer turns a source buffer into a token stream.
//
// The lexer tracks (line, column) precisely enough that every diagnostic
// downstream - lexical, syntactic, or semantic - can point a caret at the
// exact offending byte. There is no recovery: the first unrecognised
// character, or a multi-line comment left unclosed at end-of-file, aborts
// the whole pipeline.
package lexer

import (
	"strings"

	"github.com/skx/cc/internal/ccerror"
	"github.com/skx/cc/internal/token"
)

// Lexer holds scanning state over a single source buffer.
type Lexer struct {
	src       []byte // NUL-terminated
	pos       int    // index of the next unread byte
	line      int    // 1-based
	lineStart int     // index of the first byte of the current line
}

// New creates a Lexer over a NUL-terminated source buffer.
func New(src []byte) *Lexer {
	return &Lexer{src: src, pos: 0, line: 1, lineStart: 0}
}

// Lex runs the lexer to completion, returning the full token stream
// (terminated by exactly one token.END) or the first lexical error.
func Lex(src []byte) ([]token.Token, error) {
	l := New(src)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.END {
			return toks, nil
		}
	}
}

func (l *Lexer) byteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) cur() byte { return l.byteAt(0) }

func (l *Lexer) advance() {
	if l.cur() == '\n' {
		l.pos++
		l.line++
		l.lineStart = l.pos
		return
	}
	l.pos++
}

func (l *Lexer) pos_() token.Pos {
	return token.Pos{Line: l.line, Col: l.pos - l.lineStart, Text: l.lineText()}
}

// lineText returns the full text of the current line, tabs expanded to
// single spaces, regardless of how far into the line the cursor has read.
func (l *Lexer) lineText() string {
	end := l.lineStart
	for end < len(l.src) && l.src[end] != 0 && l.src[end] != '\n' {
		end++
	}
	return strings.ReplaceAll(string(l.src[l.lineStart:end]), "\t", " ")
}

func isDigit(b byte) bool      { return b >= '0' && b <= '9' }
func isIdentStart(b byte) bool { return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isIdentCont(b byte) bool  { return isIdentStart(b) || isDigit(b) }
func isSpace(b byte) bool      { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

// skipWhitespaceAndComments advances past whitespace and comments. It
// returns an error if a multi-line comment is left unclosed at EOF.
func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		switch {
		case isSpace(l.cur()):
			l.advance()
		case l.cur() == '/' && l.byteAt(1) == '/':
			for l.cur() != 0 && l.cur() != '\n' {
				l.advance()
			}
		case l.cur() == '/' && l.byteAt(1) == '*':
			start := l.pos_()
			l.advance()
			l.advance()
			closed := false
			for l.cur() != 0 {
				if l.cur() == '*' && l.byteAt(1) == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				return &ccerror.Error{
					Kind:    ccerror.KindLex,
					Message: "unterminated comment starting here",
					At:      &token.Token{Kind: token.ILLEGAL, Pos: start},
				}
			}
		default:
			return nil
		}
	}
}

// threeCharOps and twoCharOps are tried before their shorter prefixes, per
// spec.md's explicit longest-match tie-break ordering.
var threeCharOps = []struct {
	s string
	k token.Kind
}{
	{"<<=", token.SHL_ASSIGN},
	{">>=", token.SHR_ASSIGN},
}

var twoCharOps = []struct {
	s string
	k token.Kind
}{
	{"<<", token.SHL},
	{">>", token.SHR},
	{"+=", token.PLUS_ASSIGN},
	{"-=", token.MINUS_ASSIGN},
	{"*=", token.STAR_ASSIGN},
	{"/=", token.SLASH_ASSIGN},
	{"%=", token.PERCENT_ASSIGN},
	{"&=", token.AMP_ASSIGN},
	{"|=", token.PIPE_ASSIGN},
	{"^=", token.CARET_ASSIGN},
	{"&&", token.AND},
	{"||", token.OR},
	{"==", token.EQ},
	{"!=", token.NEQ},
	{"<=", token.LE},
	{">=", token.GE},
	{"++", token.INC},
	{"--", token.DEC},
}

var oneCharOps = map[byte]token.Kind{
	'{': token.LBRACE,
	'}': token.RBRACE,
	'(': token.LPAREN,
	')': token.RPAREN,
	';': token.SEMI,
	':': token.COLON,
	'?': token.QUESTION,
	',': token.COMMA,
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.STAR,
	'/': token.SLASH,
	'%': token.PERCENT,
	'&': token.AMP,
	'|': token.PIPE,
	'^': token.CARET,
	'<': token.LT,
	'>': token.GT,
	'=': token.ASSIGN,
	'!': token.NOT,
	'~': token.TILDE,
}

func (l *Lexer) matchLiteral(s string) bool {
	for i := 0; i < len(s); i++ {
		if l.byteAt(i) != s[i] {
			return false
		}
	}
	return true
}

// Next scans and returns the next token, advancing the cursor past it.
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	pos := l.pos_()

	if l.cur() == 0 {
		return token.Token{Kind: token.END, Pos: pos}, nil
	}

	if isDigit(l.cur()) {
		return l.lexNumber(pos), nil
	}

	if isIdentStart(l.cur()) {
		return l.lexIdent(pos), nil
	}

	for _, op := range threeCharOps {
		if l.matchLiteral(op.s) {
			for range op.s {
				l.advance()
			}
			return token.Token{Kind: op.k, Pos: pos}, nil
		}
	}
	for _, op := range twoCharOps {
		if l.matchLiteral(op.s) {
			for range op.s {
				l.advance()
			}
			return token.Token{Kind: op.k, Pos: pos}, nil
		}
	}
	if k, ok := oneCharOps[l.cur()]; ok {
		l.advance()
		return token.Token{Kind: k, Pos: pos}, nil
	}

	bad := string(l.cur())
	l.advance()
	return token.Token{}, &ccerror.Error{
		Kind:    ccerror.KindLex,
		Message: "unrecognised character " + quoteByte(bad),
		At:      &token.Token{Kind: token.ILLEGAL, Pos: pos},
	}
}

func quoteByte(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	b.WriteString(s)
	b.WriteByte('\'')
	return b.String()
}

func (l *Lexer) lexNumber(pos token.Pos) token.Token {
	start := l.pos
	for isDigit(l.cur()) {
		l.advance()
	}
	lit := string(l.src[start:l.pos])
	var v int64
	for _, c := range lit {
		v = v*10 + int64(c-'0')
	}
	return token.Token{Kind: token.INT, Lit: lit, IntVal: v, Pos: pos}
}

func (l *Lexer) lexIdent(pos token.Pos) token.Token {
	start := l.pos
	for isIdentCont(l.cur()) {
		l.advance()
	}
	lit := string(l.src[start:l.pos])
	if k, ok := token.LookupIdent(lit); ok {
		return token.Token{Kind: k, Lit: lit, Pos: pos}
	}
	return token.Token{Kind: token.IDENT, Lit: lit, Pos: pos}
}
