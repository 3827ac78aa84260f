package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/skx/cc/internal/ast"
	"github.com/skx/cc/internal/ccerror"
	"github.com/skx/cc/internal/cclog"
	"github.com/skx/cc/internal/codegen"
	"github.com/skx/cc/internal/dotprinter"
	"github.com/skx/cc/internal/lexer"
	"github.com/skx/cc/internal/parser"
	"github.com/skx/cc/internal/source"
	"github.com/skx/cc/internal/tempfile"
	"github.com/skx/cc/internal/toolchain"
)

// run is the whole CLI, factored out of main so it's testable without
// touching os.Exit or the real argv/stdio.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var help, lexOnly, treeOnly, compileOnly, asmOnly, debug bool
	var outPath string

	fs.BoolVar(&help, "h", false, "show this help text")
	fs.BoolVar(&help, "help", false, "show this help text")
	fs.BoolVar(&lexOnly, "l", false, "print the token stream and stop")
	fs.BoolVar(&lexOnly, "lex", false, "print the token stream and stop")
	fs.BoolVar(&treeOnly, "t", false, "print the syntax tree as dot and stop")
	fs.BoolVar(&treeOnly, "tree", false, "print the syntax tree as dot and stop")
	fs.BoolVar(&compileOnly, "c", false, "compile to an object file, don't link")
	fs.BoolVar(&asmOnly, "S", false, "stop after generating assembly")
	fs.StringVar(&outPath, "o", "", "output file name")
	fs.BoolVar(&debug, "debug", false, "enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: cc [flags] file.c ...\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return ccerror.KindUsage.ExitCode()
	}

	if help {
		fs.Usage()
		return 0
	}

	if lexOnly && treeOnly {
		fmt.Fprintln(stderr, "cc: -l/--lex and -t/--tree cannot be used together")
		return ccerror.KindUsage.ExitCode()
	}

	if (lexOnly || treeOnly) && (asmOnly || compileOnly || outPath != "") {
		fmt.Fprintln(stderr, "cc: -l/--lex and -t/--tree cannot be combined with -S, -c, or -o")
		return ccerror.KindUsage.ExitCode()
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(stderr, "cc: no input files")
		return ccerror.KindUsage.ExitCode()
	}

	if (lexOnly || treeOnly) && len(inputs) != 1 {
		fmt.Fprintln(stderr, "cc: -l/--lex and -t/--tree require exactly one input file")
		return ccerror.KindUsage.ExitCode()
	}

	if (asmOnly || compileOnly) && outPath != "" && len(inputs) > 1 {
		fmt.Fprintln(stderr, "cc: -o cannot be used with -S or -c when compiling multiple files")
		return ccerror.KindUsage.ExitCode()
	}

	cclog.SetDebug(debug)

	if lexOnly {
		for _, path := range inputs {
			if err := lexAndPrint(path, stdout); err != nil {
				fmt.Fprintln(stderr, err)
				return ccerror.ExitCode(err)
			}
		}
		return 0
	}

	if treeOnly {
		for _, path := range inputs {
			if err := parseAndPrintTree(path, stdout); err != nil {
				fmt.Fprintln(stderr, err)
				return ccerror.ExitCode(err)
			}
		}
		return 0
	}

	asmFiles, err := compileAll(inputs)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ccerror.ExitCode(err)
	}

	switch {
	case asmOnly:
		err = commitAssembly(inputs, asmFiles, outPath)
	case compileOnly:
		err = assembleObjects(inputs, asmFiles, outPath)
	default:
		err = link(asmFiles, outPath)
	}
	for _, f := range asmFiles {
		f.Cleanup()
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ccerror.ExitCode(err)
	}
	return 0
}

func lexAndPrint(path string, stdout io.Writer) error {
	src, err := source.Read(path)
	if err != nil {
		return err
	}
	toks, err := lexer.Lex(src)
	if err != nil {
		return err
	}
	for _, tok := range toks {
		fmt.Fprintf(stdout, "%d:%d\t%s\t%s\n", tok.Pos.Line, tok.Pos.Col, tok.Kind, tok.Lit)
	}
	return nil
}

func parseAndPrintTree(path string, stdout io.Writer) error {
	prog, err := parseFile(path)
	if err != nil {
		return err
	}
	return dotprinter.Print(stdout, prog)
}

func parseFile(path string) (*ast.Program, error) {
	src, err := source.Read(path)
	if err != nil {
		return nil, err
	}
	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	return parser.Parse(toks)
}

// compileAll runs the lex/parse/codegen front end over every input file
// concurrently (bounded by toolchain.Pipeline) and returns one registered
// temp file holding the assembly per input, in input order.
func compileAll(inputs []string) ([]*tempfile.File, error) {
	asmTexts, err := toolchain.Pipeline(inputs, func(path string) (string, error) {
		prog, err := parseFile(path)
		if err != nil {
			return "", err
		}
		return codegen.Generate(prog)
	})
	if err != nil {
		return nil, err
	}

	files := make([]*tempfile.File, len(inputs))
	for i, asm := range asmTexts {
		f, err := tempfile.Create("", "cc-*.s")
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(f.Name, []byte(asm), 0o600); err != nil {
			f.Cleanup()
			return nil, ccerror.IOf("failed to write assembly for %q: %s", inputs[i], err)
		}
		files[i] = f
	}
	return files, nil
}

// commitAssembly and assembleObjects are only ever called with a non-empty
// outPath when len(asmFiles) == 1 - run validates that combination (-S/-c
// plus -o with more than one input file is a usage error) before dispatch.
func commitAssembly(inputs []string, asmFiles []*tempfile.File, outPath string) error {
	for i, f := range asmFiles {
		dest := outPath
		if dest == "" {
			dest = replaceExt(inputs[i], ".s")
		}
		if err := copyFile(f.Name, dest); err != nil {
			return err
		}
	}
	return nil
}

func assembleObjects(inputs []string, asmFiles []*tempfile.File, outPath string) error {
	for i, f := range asmFiles {
		dest := outPath
		if dest == "" {
			dest = replaceExt(inputs[i], ".o")
		}
		if err := toolchain.Assemble([]string{f.Name}, dest, true); err != nil {
			return err
		}
	}
	return nil
}

func link(asmFiles []*tempfile.File, outPath string) error {
	if outPath == "" {
		outPath = "a.out"
	}
	var paths []string
	for _, f := range asmFiles {
		paths = append(paths, f.Name)
	}
	return toolchain.Assemble(paths, outPath, false)
}

func replaceExt(path, ext string) string {
	base := filepath.Base(path)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return base + ext
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return ccerror.IOf("failed to read %q: %s", src, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return ccerror.IOf("failed to write %q: %s", dst, err)
	}
	return nil
}
