package compiler_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/manishthatte/ManiT/internal/compiler"
)

func TestCompileSmoke(t *testing.T) {
	ctx := context.Background()

	result, err := compiler.Compile(ctx, "inline", `
		let main = fn() {
			return 7;
		};
	`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(result.Problems) != 0 {
		t.Errorf("unexpected verifier problems: %v", result.Problems)
	}

	t.Logf("result:\n%s", result.IR)
}

func TestCompileEmptyProgramSucceeds(t *testing.T) {
	_, err := compiler.Compile(context.Background(), "empty", "")
	if err != nil {
		t.Fatalf("an empty source is a valid zero-statement program, not an error: %v", err)
	}
}

func TestCompileFileReadError(t *testing.T) {
	_, err := compiler.CompileFile(context.Background(), "/nonexistent/path/does-not-exist.manit")
	if err == nil {
		t.Fatalf("expected an error for a missing source file")
	}
}

func TestCompileFileReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.manit")
	if err := os.WriteFile(path, []byte("let main = fn() { return 1; };"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	result, err := compiler.CompileFile(context.Background(), path)
	if err != nil {
		t.Fatalf("compile file: %v", err)
	}
	if len(result.Problems) != 0 {
		t.Errorf("unexpected verifier problems: %v", result.Problems)
	}
}
