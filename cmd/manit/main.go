// Command manit compiles a single ManiT source file to LLVM-like textual IR
// (spec.md §7 EXTERNAL INTERFACES).
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/manishthatte/ManiT/internal/compiler"
	"github.com/manishthatte/ManiT/internal/lexer"
	"github.com/manishthatte/ManiT/internal/parser"
)

func main() {
	app := &cli.Command{
		Name:        "manit",
		Description: "manit compiles ManiT source to LLVM-like IR",
		Action:      compileAct,
		Args:        cli.Args{},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

// compileAct implements the exit-code contract of spec §7: 0 on success, 1
// when the source file can't be read, 2 when the parser records any error, 3
// when the verifier finds problems (the module is still printed: "the
// process continues to print the IR for inspection" regardless of the
// verifier's verdict).
func compileAct(c *cli.Command) error {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	var srcName, outName string
	var emitAST bool
	skipNext := false
	for i, a := range c.Args {
		if skipNext {
			skipNext = false
			continue
		}
		switch {
		case strings.HasPrefix(a, "-o="):
			outName = strings.TrimPrefix(a, "-o=")
		case a == "-o":
			if i+1 < len(c.Args) {
				outName = c.Args[i+1]
				skipNext = true
			}
		case a == "-S" || a == "--emit-ast":
			emitAST = true
		case strings.HasPrefix(a, "-"):
			// unrecognized flag, ignored
		default:
			if srcName == "" {
				srcName = a
			}
		}
	}

	if srcName == "" {
		return errors.New("usage: manit [-o out.ll] [-S] <source.manit>")
	}

	if _, err := os.Stat(srcName); err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "open source"))
		os.Exit(1)
	}

	if emitAST {
		return emitASTAct(srcName)
	}

	result, err := compiler.CompileFile(ctx, srcName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if outName != "" {
		if werr := os.WriteFile(outName, []byte(result.IR), 0o644); werr != nil {
			fmt.Fprintln(os.Stderr, errors.Wrap(werr, "write output"))
			os.Exit(1)
		}
	} else {
		fmt.Print(result.IR)
	}

	if len(result.Problems) > 0 {
		for _, p := range result.Problems {
			fmt.Fprintln(os.Stderr, "verify:", p)
		}
		os.Exit(3)
	}

	return nil
}

// emitASTAct implements the -S/--emit-ast debug path: print the parsed
// program's own String() form instead of lowering it, skipping irgen
// entirely.
func emitASTAct(srcName string) error {
	text, err := os.ReadFile(srcName)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "read source"))
		os.Exit(1)
	}

	p := parser.New(lexer.New(string(text)))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, "parse:", e)
		}
		os.Exit(2)
	}

	fmt.Println(prog.String())
	return nil
}
