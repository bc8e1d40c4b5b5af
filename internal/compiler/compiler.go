// Package compiler wires the lexer, parser and IR generator into the single
// pipeline spec.md §3 describes: source text in, printable LLVM-like IR text
// and verifier problems out.
package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/manishthatte/ManiT/internal/irgen"
	"github.com/manishthatte/ManiT/internal/lexer"
	"github.com/manishthatte/ManiT/internal/parser"
)

// Result carries everything a driver needs to decide what to print and which
// exit code to use (spec §7).
type Result struct {
	IR       string
	Problems []string
}

// CompileFile reads name from disk and compiles its contents.
func CompileFile(ctx context.Context, name string) (*Result, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, string(text))
}

// Compile lexes, parses and lowers text, returning the printed module and any
// verifier problems. A nil Program (spec §4.2: "the parser never panics;
// every failure to build a node is addressed by returning nil and recording
// an error on the Parser") is reported as an error rather than lowered.
func Compile(ctx context.Context, name string, text string) (*Result, error) {
	span := tlog.SpanFromContext(ctx)

	l := lexer.New(text)
	p := parser.New(l)

	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		span.Printw("parse errors", "name", name, "errors", p.Errors(), "from", loc.Caller(0))
		return nil, errors.New("parse %v: %v", name, p.Errors())
	}

	if prog == nil {
		return nil, errors.New("parse %v: empty program", name)
	}

	span.Printw("parsed program", "name", name, "statements", len(prog.Statements))

	module, problems := irgen.Generate(prog)
	if len(problems) > 0 {
		span.Printw("verifier problems", "name", name, "problems", problems)
	}

	return &Result{IR: module.String(), Problems: problems}, nil
}
