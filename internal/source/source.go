// Package source reads compiler input off disk.
//
// It is one of the out-of-scope collaborators spec.md §6 describes only by
// interface: read(path) -> byte-buffer | error, a full read, NUL-terminated.
package source

import (
	"os"

	"github.com/skx/cc/internal/ccerror"
)

// Read slurps path into memory and returns it NUL-terminated, the way the
// lexer's contract expects ("zero-terminated UTF-ASCII byte buffer").
func Read(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, ccerror.IOf("failed to open %q: %s", path, err)
	}
	return append(buf, 0), nil
}
