package toolchain

import (
	"runtime"
	"sync"
)

// CompileFunc is the per-file front-end pipeline (read, lex, parse, codegen)
// a Pipeline call fans out across a bounded set of workers; cmd/cc's
// version returns the generated assembly text for path.
type CompileFunc func(path string) (asm string, err error)

// Pipeline runs fn over every path concurrently, bounded to GOMAXPROCS
// workers, and returns fn's results in the same order as inputs. Every path
// is processed even after one fails; if any failed, the error of the
// earliest failing path in input order is returned and all results are
// discarded.
func Pipeline(paths []string, fn CompileFunc) ([]string, error) {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(paths) {
		workers = len(paths)
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]string, len(paths))
	errs := make([]error, len(paths))

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				asm, err := fn(paths[idx])
				results[idx] = asm
				errs[idx] = err
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
