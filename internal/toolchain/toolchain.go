// Package toolchain shells out to the system assembler/linker to turn
// generated .s files into an object or executable, the same way the
// teacher's own main.go piped its output straight into `gcc -x assembler`.
package toolchain

import (
	"bytes"
	"os"
	"os/exec"

	"github.com/skx/cc/internal/ccerror"
)

// Driver is the external compiler driver invoked to assemble and link, "gcc"
// unless overridden by the CC environment variable.
func Driver() string {
	if cc := os.Getenv("CC"); cc != "" {
		return cc
	}
	return "gcc"
}

// Assemble invokes the driver on the given assembly files, producing output
// at outPath. compileOnly passes -c (object file, no link); otherwise the
// driver assembles and links an executable.
func Assemble(asmPaths []string, outPath string, compileOnly bool) error {
	args := append([]string{}, asmPaths...)
	args = append(args, "-o", outPath)
	if compileOnly {
		args = append(args, "-c")
	}

	cmd := exec.Command(Driver(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return ccerror.IOf("%s failed: %s\n%s", Driver(), err, stderr.String())
	}
	return nil
}

// Run executes path with args, streaming its stdio through to the caller's,
// and returns its exit code.
func Run(path string, args []string) (int, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return 0, ccerror.IOf("failed to run %q: %s", path, err)
}
