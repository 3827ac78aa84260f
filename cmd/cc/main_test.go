package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSrc(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %s", err)
	}
	return path
}

func TestRunHelpExitsZero(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-h"}, &out, &errOut)
	if code != 0 {
		t.Fatalf("run(-h) = %d, want 0", code)
	}
}

func TestRunNoInputFilesIsUsageError(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(nil, &out, &errOut)
	if code != 129 {
		t.Fatalf("run() with no args = %d, want 129", code)
	}
}

func TestRunLexAndTreeAreIncompatible(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-l", "-t", "whatever.c"}, &out, &errOut)
	if code != 129 {
		t.Fatalf("run(-l -t) = %d, want 129", code)
	}
}

func TestRunLexPrintsTokens(t *testing.T) {
	dir := t.TempDir()
	src := writeSrc(t, dir, "in.c", "int main(void) { return 0; }")

	var out, errOut bytes.Buffer
	code := run([]string{"-l", src}, &out, &errOut)
	if code != 0 {
		t.Fatalf("run(-l) = %d, stderr: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "'int'") {
		t.Fatalf("expected token dump to mention 'int', got:\n%s", out.String())
	}
}

func TestRunTreePrintsDot(t *testing.T) {
	dir := t.TempDir()
	src := writeSrc(t, dir, "in.c", "int main(void) { return 0; }")

	var out, errOut bytes.Buffer
	code := run([]string{"-t", src}, &out, &errOut)
	if code != 0 {
		t.Fatalf("run(-t) = %d, stderr: %s", code, errOut.String())
	}
	if !strings.HasPrefix(out.String(), "digraph program {") {
		t.Fatalf("expected a dot digraph, got:\n%s", out.String())
	}
}

func TestRunSyntaxErrorExitsNonZero(t *testing.T) {
	dir := t.TempDir()
	src := writeSrc(t, dir, "bad.c", "int main(void) { return }")

	var out, errOut bytes.Buffer
	code := run([]string{"-t", src}, &out, &errOut)
	if code == 0 {
		t.Fatalf("expected a non-zero exit for a syntax error")
	}
	if !strings.Contains(errOut.String(), "parse error") {
		t.Fatalf("expected a parse error on stderr, got:\n%s", errOut.String())
	}
}

func TestRunLexRequiresExactlyOneInputFile(t *testing.T) {
	dir := t.TempDir()
	a := writeSrc(t, dir, "a.c", "int main(void) { return 0; }")
	b := writeSrc(t, dir, "b.c", "int main(void) { return 0; }")

	var out, errOut bytes.Buffer
	code := run([]string{"-l", a, b}, &out, &errOut)
	if code != 129 {
		t.Fatalf("run(-l a.c b.c) = %d, want 129", code)
	}
}

func TestRunLexIncompatibleWithAssembleFlags(t *testing.T) {
	dir := t.TempDir()
	src := writeSrc(t, dir, "in.c", "int main(void) { return 0; }")

	var out, errOut bytes.Buffer
	code := run([]string{"-l", "-S", src}, &out, &errOut)
	if code != 129 {
		t.Fatalf("run(-l -S) = %d, want 129", code)
	}
}

func TestRunOutputFlagRejectedWithMultipleFilesAndDashS(t *testing.T) {
	dir := t.TempDir()
	a := writeSrc(t, dir, "a.c", "int main(void) { return 0; }")
	b := writeSrc(t, dir, "b.c", "int f(void) { return 0; }")

	var out, errOut bytes.Buffer
	code := run([]string{"-S", "-o", filepath.Join(dir, "out.s"), a, b}, &out, &errOut)
	if code != 129 {
		t.Fatalf("run(-S -o with two inputs) = %d, want 129", code)
	}
}

func TestRunEmitsAssemblyWithoutInvokingTheToolchain(t *testing.T) {
	dir := t.TempDir()
	src := writeSrc(t, dir, "in.c", "int main(void) { return 42; }")
	outS := filepath.Join(dir, "in.s")

	var out, errOut bytes.Buffer
	code := run([]string{"-S", "-o", outS, src}, &out, &errOut)
	if code != 0 {
		t.Fatalf("run(-S) = %d, stderr: %s", code, errOut.String())
	}

	data, err := os.ReadFile(outS)
	if err != nil {
		t.Fatalf("expected %s to exist: %s", outS, err)
	}
	if !strings.Contains(string(data), "mov $42, %eax") {
		t.Fatalf("generated assembly missing expected instruction, got:\n%s", string(data))
	}
}
