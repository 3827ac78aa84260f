// Command cc compiles one or more C-subset source files to a native
// executable (or, with the right flags, to assembly, an object file, or
// just a token/tree dump), by invoking the external system assembler and
// linker on the code this package generates.
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
