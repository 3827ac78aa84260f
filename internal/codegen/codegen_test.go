package codegen

import (
	"strings"
	"testing"

	"github.com/skx/cc/internal/lexer"
	"github.com/skx/cc/internal/parser"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	toks, err := lexer.Lex(append([]byte(src), 0))
	if err != nil {
		t.Fatalf("lex error: %s", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	asm, err := Generate(prog)
	if err != nil {
		t.Fatalf("codegen error: %s", err)
	}
	return asm
}

func compileErr(t *testing.T, src string) error {
	t.Helper()
	toks, err := lexer.Lex(append([]byte(src), 0))
	if err != nil {
		t.Fatalf("lex error: %s", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	_, err = Generate(prog)
	return err
}

func mustContain(t *testing.T, asm, substr string) {
	t.Helper()
	if !strings.Contains(asm, substr) {
		t.Fatalf("expected generated assembly to contain %q, got:\n%s", substr, asm)
	}
}

func TestGenMainReturningConstant(t *testing.T) {
	asm := compile(t, "int main(void) { return 42; }")
	mustContain(t, asm, ".globl main")
	mustContain(t, asm, "main:")
	mustContain(t, asm, "push %rbp")
	mustContain(t, asm, "mov %rsp, %rbp")
	mustContain(t, asm, "mov $42, %eax")
	mustContain(t, asm, "pop %rbp")
	mustContain(t, asm, "ret")
}

func TestGenFallbackReturnForMissingReturn(t *testing.T) {
	asm := compile(t, "int main(void) { int x = 1; }")
	// The body has no return statement, so the output must still contain
	// the fallback zeroing of %eax and a ret.
	mustContain(t, asm, "mov $0, %eax")
	mustContain(t, asm, "ret")
}

func TestGenBinaryArithmeticOrder(t *testing.T) {
	asm := compile(t, "int main(void) { return 1 - 2; }")
	// rexp is pushed first, then lexp is evaluated, then the operands
	// are combined rexp-in-%ecx, lexp-in-%eax: sub %ecx, %eax.
	mustContain(t, asm, "push %rax")
	mustContain(t, asm, "pop %rcx")
	mustContain(t, asm, "sub %ecx, %eax")
}

func TestGenDivisionUsesCdqIdiv(t *testing.T) {
	asm := compile(t, "int main(void) { return 10 / 3; }")
	mustContain(t, asm, "cdq")
	mustContain(t, asm, "idiv %ecx")
}

func TestGenModulusMovesRemainder(t *testing.T) {
	asm := compile(t, "int main(void) { return 10 % 3; }")
	mustContain(t, asm, "idiv %ecx")
	mustContain(t, asm, "mov %edx, %eax")
}

func TestGenComparisonSetsAl(t *testing.T) {
	asm := compile(t, "int main(void) { return 1 < 2; }")
	mustContain(t, asm, "setl %al")
}

func TestGenLocalVarSlotAndAssignment(t *testing.T) {
	asm := compile(t, "int main(void) { int x = 5; x = x + 1; return x; }")
	mustContain(t, asm, "sub $4, %rsp")
	mustContain(t, asm, "movl %eax, -4(%rbp)")
	mustContain(t, asm, "movl -4(%rbp), %eax")
}

func TestGenIfElseLabels(t *testing.T) {
	asm := compile(t, "int main(void) { if (1) { return 1; } else { return 0; } return 2; }")
	mustContain(t, asm, "je _if_else_1")
	mustContain(t, asm, "jmp _if_end_1")
	mustContain(t, asm, "_if_else_1:")
	mustContain(t, asm, "_if_end_1:")
}

func TestGenWhileLoopStructure(t *testing.T) {
	asm := compile(t, "int main(void) { int i = 0; while (i < 3) { i = i + 1; } return i; }")
	mustContain(t, asm, "_while_start_")
	mustContain(t, asm, "_while_end_")
	mustContain(t, asm, "je _while_end_")
}

func TestGenBreakAndContinueTargets(t *testing.T) {
	asm := compile(t, "int main(void) { int i = 0; while (i < 3) { if (i) { break; } i = i + 1; continue; } return i; }")
	mustContain(t, asm, "jmp _while_end_")
	mustContain(t, asm, "jmp _while_start_")
}

func TestGenBreakOutsideLoopIsError(t *testing.T) {
	if err := compileErr(t, "int main(void) { break; return 0; }"); err == nil {
		t.Fatalf("expected an error for break outside a loop")
	}
}

func TestGenShortCircuitAnd(t *testing.T) {
	asm := compile(t, "int main(void) { return 1 && 0; }")
	mustContain(t, asm, "_and_skip_")
	mustContain(t, asm, "_and_end_")
}

func TestGenTernaryLabels(t *testing.T) {
	asm := compile(t, "int main(void) { return 1 ? 2 : 3; }")
	mustContain(t, asm, "_ternary_else_")
	mustContain(t, asm, "_ternary_end_")
}

func TestGenFunctionCallArgumentRegisters(t *testing.T) {
	asm := compile(t, "int add(int a, int b) { return a + b; } int main(void) { return add(1, 2); }")
	mustContain(t, asm, "call add")
	mustContain(t, asm, "pop %rdi")
	mustContain(t, asm, "pop %rsi")
}

func TestGenCallArityMismatchIsError(t *testing.T) {
	if err := compileErr(t, "int add(int a, int b); int main(void) { return add(1); }"); err == nil {
		t.Fatalf("expected an arity mismatch error")
	}
}

func TestGenUndeclaredFunctionCallIsError(t *testing.T) {
	if err := compileErr(t, "int main(void) { return missing(); }"); err == nil {
		t.Fatalf("expected an error for an undeclared function call")
	}
}

func TestGenInitializedGlobalInData(t *testing.T) {
	asm := compile(t, "int counter = 7; int main(void) { return counter; }")
	mustContain(t, asm, ".data")
	mustContain(t, asm, ".globl counter")
	mustContain(t, asm, ".long 7")
}

func TestGenUninitializedGlobalInBss(t *testing.T) {
	asm := compile(t, "int counter; int main(void) { return counter; }")
	mustContain(t, asm, ".bss")
	mustContain(t, asm, ".zero 4")
}

func TestGenGotoAndLabel(t *testing.T) {
	asm := compile(t, "int main(void) { goto done; done: return 0; }")
	mustContain(t, asm, "jmp _label_done")
	mustContain(t, asm, "_label_done:")
}

func TestGenUndefinedGotoLabelIsError(t *testing.T) {
	if err := compileErr(t, "int main(void) { goto nowhere; return 0; }"); err == nil {
		t.Fatalf("expected an error for a goto with no matching label")
	}
}

func TestGenPrefixVsSuffixIncrement(t *testing.T) {
	asm := compile(t, "int main(void) { int x = 0; return x++ + ++x; }")
	mustContain(t, asm, "addl $1, -4(%rbp)")
	mustContain(t, asm, "add $1, %eax")
}

func TestGenNestedScopeReclaimsStack(t *testing.T) {
	asm := compile(t, "int main(void) { int x = 1; { int y = 2; } return x; }")
	mustContain(t, asm, "add $4, %rsp")
}

func TestGenRightShiftUsesLogicalShift(t *testing.T) {
	asm := compile(t, "int main(void) { return -1 >> 28; }")
	mustContain(t, asm, "shr %cl, %eax")
}

func TestGenVoidFunctionReturningValueIsError(t *testing.T) {
	if err := compileErr(t, "void f(void) { return 1; }"); err == nil {
		t.Fatalf("expected an error for returning a value from a void function")
	}
}

func TestGenNonVoidFunctionEmptyReturnIsError(t *testing.T) {
	if err := compileErr(t, "int f(void) { return; }"); err == nil {
		t.Fatalf("expected an error for a bare return in a non-void function")
	}
}

func TestGenVoidCallResultUsedAsValueIsError(t *testing.T) {
	if err := compileErr(t, "void f(void) { return; } int main(void) { return f(); }"); err == nil {
		t.Fatalf("expected an error for using a void call's result")
	}
}

func TestGenVoidCallAsStatementIsFine(t *testing.T) {
	asm := compile(t, "void f(void) { return; } int main(void) { f(); return 0; }")
	mustContain(t, asm, "call f")
}

func TestGenConflictingReturnTypeRedeclarationIsError(t *testing.T) {
	if err := compileErr(t, "int f(void); void f(void) { return; }"); err == nil {
		t.Fatalf("expected an error for conflicting return types")
	}
}
