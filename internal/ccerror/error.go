// Package ccerror defines the compiler's diagnostic taxonomy and the exit
// codes each kind of failure maps to.
//
// Every fatal condition in the pipeline - a bad CLI flag, a failed read, an
// unrecognised character, an unexpected token, an undeclared identifier - is
// represented as a single *Error value and returned up the call stack. There
// is no recovery and no accumulation: the first error wins.
package ccerror

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/skx/cc/internal/token"
)

// Kind classifies a failure and determines its process exit code.
type Kind int

const (
	// KindUsage is a bad CLI invocation. Exit 129.
	KindUsage Kind = iota
	// KindIO is a failure reading source, writing assembly, or invoking
	// the external toolchain. Exit 128.
	KindIO
	// KindLex is an unrecognised character or a runaway comment. Exit 128.
	KindLex
	// KindSyntax is an unexpected or missing token. Exit 128.
	KindSyntax
	// KindSemantic is a scope, type, or declaration-consistency error.
	// Exit 128.
	KindSemantic
	// KindInternal marks an unreachable-case contract violation: a bug
	// in the compiler itself, not in the input program. Exit 128.
	KindInternal
)

// ExitCode returns the process exit status this Kind maps to.
func (k Kind) ExitCode() int {
	if k == KindUsage {
		return 129
	}
	return 128
}

// Error is a single diagnostic. At is the primary source position; Prior is
// set for diagnostics that also cite an earlier declaration ("First: ...
// Then: ...").
type Error struct {
	Kind    Kind
	Message string
	At      *token.Token
	Prior   *token.Token
}

func (e *Error) Error() string {
	var b strings.Builder

	switch e.Kind {
	case KindUsage:
		b.WriteString(e.Message)
		return b.String()
	case KindLex:
		b.WriteString("lex error: ")
	case KindSyntax:
		b.WriteString("parse error: ")
	case KindSemantic:
		b.WriteString("semantic error: ")
	case KindInternal:
		b.WriteString("internal error: ")
	default:
		b.WriteString("error: ")
	}

	b.WriteString(e.Message)

	if e.Prior != nil {
		b.WriteString("\nFirst:\n")
		b.WriteString(caret(e.Prior))
		b.WriteString("\nThen:\n")
	} else {
		b.WriteString("\n")
	}

	if e.At != nil {
		b.WriteString(caret(e.At))
	}

	return b.String()
}

// caret renders the two-line "offending source line + caret" diagnostic
// format spec.md mandates for lexical errors, and reuses it for every other
// diagnostic that carries a source token.
func caret(tok *token.Token) string {
	line := tok.Pos.Text
	col := tok.Pos.Col
	if col < 0 {
		col = 0
	}
	pad := strings.Repeat(" ", col)
	return fmt.Sprintf("%d: %s\n%s^", tok.Pos.Line, line, pad)
}

// Usagef builds a KindUsage error from a formatted message.
func Usagef(format string, args ...any) *Error {
	return &Error{Kind: KindUsage, Message: fmt.Sprintf(format, args...)}
}

// IOf builds a KindIO error from a formatted message.
func IOf(format string, args ...any) *Error {
	return &Error{Kind: KindIO, Message: fmt.Sprintf(format, args...)}
}

// Lexf builds a KindLex error anchored at tok.
func Lexf(tok *token.Token, format string, args ...any) *Error {
	return &Error{Kind: KindLex, Message: fmt.Sprintf(format, args...), At: tok}
}

// Syntaxf builds a KindSyntax error anchored at tok.
func Syntaxf(tok *token.Token, format string, args ...any) *Error {
	return &Error{Kind: KindSyntax, Message: fmt.Sprintf(format, args...), At: tok}
}

// Semanticf builds a KindSemantic error anchored at tok, optionally citing a
// prior declaration.
func Semanticf(tok, prior *token.Token, format string, args ...any) *Error {
	return &Error{Kind: KindSemantic, Message: fmt.Sprintf(format, args...), At: tok, Prior: prior}
}

// Internalf builds a KindInternal error - an unreachable-case contract
// violation - citing the file/line of the contract that was broken.
func Internalf(format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if _, file, line, ok := runtime.Caller(1); ok {
		msg = fmt.Sprintf("%s (at %s:%d)", msg, filepath.Base(file), line)
	}
	return &Error{Kind: KindInternal, Message: msg}
}

// ExitCode extracts the process exit code from err, defaulting to 128 for
// any error that isn't a *Error (e.g. a wrapped stdlib I/O error).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ce *Error
	if ok := asError(err, &ce); ok {
		return ce.Kind.ExitCode()
	}
	return 128
}

func asError(err error, target **Error) bool {
	for err != nil {
		if ce, ok := err.(*Error); ok {
			*target = ce
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
