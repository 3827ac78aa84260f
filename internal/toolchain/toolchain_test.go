package toolchain

import (
	"os"
	"testing"
)

func TestDriverDefaultsToGcc(t *testing.T) {
	old := os.Getenv("CC")
	os.Unsetenv("CC")
	defer os.Setenv("CC", old)

	if got := Driver(); got != "gcc" {
		t.Fatalf("Driver() = %q, want gcc", got)
	}
}

func TestDriverHonorsCCEnvVar(t *testing.T) {
	old := os.Getenv("CC")
	os.Setenv("CC", "clang")
	defer os.Setenv("CC", old)

	if got := Driver(); got != "clang" {
		t.Fatalf("Driver() = %q, want clang", got)
	}
}

func TestPipelineRunsEveryPathAndPreservesOrder(t *testing.T) {
	paths := []string{"a.c", "b.c", "c.c"}
	out, err := Pipeline(paths, func(p string) (string, error) {
		return p + ".s", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := []string{"a.c.s", "b.c.s", "c.c.s"}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("got %v, want %v", out, want)
		}
	}
}

func TestPipelinePropagatesFirstError(t *testing.T) {
	paths := []string{"a.c", "bad.c", "c.c"}
	_, err := Pipeline(paths, func(p string) (string, error) {
		if p == "bad.c" {
			return "", os.ErrInvalid
		}
		return p + ".s", nil
	})
	if err == nil {
		t.Fatalf("expected an error")
	}
}
