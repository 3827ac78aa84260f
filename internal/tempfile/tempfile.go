// Package tempfile manages intermediate .s files created while compiling,
// guaranteeing they never survive the process, clean or not.
//
// Every File is registered in a process-wide list the moment it's created.
// A normal exit - Commit followed by Cleanup, or just Cleanup - removes it
// from the list as well as from disk. A SIGINT/SIGTERM/SIGHUP instead runs
// the signal handler installed in init, which sweeps whatever's left in the
// list before re-raising the signal, the same "never leave a stray file
// behind even when killed" guarantee Git's own tempfile.c exists to give
// its callers.
package tempfile

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// File is a named temporary file tracked by the package-wide registry.
type File struct {
	Name string

	mu        sync.Mutex
	committed bool
	cleaned   bool
}

var (
	registryMu sync.Mutex
	registry   = map[*File]struct{}{}
)

func init() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		sig := <-c
		cleanupAll()
		signal.Reset(sig.(syscall.Signal))
		_ = syscall.Kill(os.Getpid(), sig.(syscall.Signal))
	}()
}

// Create makes a new empty temporary file in dir matching pattern (as
// os.CreateTemp), and registers it for signal-driven cleanup.
func Create(dir, pattern string) (*File, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return nil, err
	}

	tf := &File{Name: name}
	registryMu.Lock()
	registry[tf] = struct{}{}
	registryMu.Unlock()
	return tf, nil
}

// Commit renames the temp file to finalPath, taking it out of the registry
// on success since it's no longer temporary.
func (f *File) Commit(finalPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.committed || f.cleaned {
		return nil
	}
	if err := os.Rename(f.Name, finalPath); err != nil {
		return err
	}
	f.committed = true
	registryMu.Lock()
	delete(registry, f)
	registryMu.Unlock()
	return nil
}

// Cleanup removes the temp file if it hasn't already been committed or
// cleaned, and is always safe to call more than once.
func (f *File) Cleanup() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.committed || f.cleaned {
		return
	}
	os.Remove(f.Name)
	f.cleaned = true
	registryMu.Lock()
	delete(registry, f)
	registryMu.Unlock()
}

func cleanupAll() {
	registryMu.Lock()
	files := make([]*File, 0, len(registry))
	for f := range registry {
		files = append(files, f)
	}
	registryMu.Unlock()

	for _, f := range files {
		f.Cleanup()
	}
}
