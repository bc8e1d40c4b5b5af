// Package irgen lowers an ast.Program to an LLIR module using
// github.com/llir/llvm as the host IR-builder facility spec.md §3
// describes: modules, functions, basic blocks, a positional instruction
// builder, typed values, stack-slot allocations, phi nodes, calls, and a
// verifier.
package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"tlog.app/go/tlog"

	"github.com/manishthatte/ManiT/internal/ast"
)

// builder tracks the current insertion point, mirroring the host facility's
// Builder contract: instructions append to Block until the point moves or a
// terminator is emitted.
type builder struct {
	block *ir.Block
}

func (b *builder) SetInsertPoint(blk *ir.Block) { b.block = blk }
func (b *builder) Terminated() bool             { return b.block.Term != nil }

// Generator lowers a Program to an IR module. named holds the current
// function's local bindings (name -> stack slot); it is mutated
// transactionally at function-literal and for-loop boundaries via
// save/restore snapshots to simulate lexical scoping (spec §5).
type Generator struct {
	Module *ir.Module

	b *builder

	named   map[string]*ir.InstAlloca
	structs map[string]*types.StructType

	anonCounter int
}

// New creates a Generator over a fresh, empty module.
func New() *Generator {
	return &Generator{
		Module:  ir.NewModule(),
		b:       &builder{},
		named:   make(map[string]*ir.InstAlloca),
		structs: make(map[string]*types.StructType),
	}
}

// snapshotNamed copies the current binding set so it can be restored after a
// nested lexical scope (function literal, for-loop initializer) exits.
func (g *Generator) snapshotNamed() map[string]*ir.InstAlloca {
	snap := make(map[string]*ir.InstAlloca, len(g.named))
	for k, v := range g.named {
		snap[k] = v
	}
	return snap
}

func (g *Generator) restoreNamed(snap map[string]*ir.InstAlloca) {
	g.named = snap
}

// entryAlloca places a stack slot in the current function's entry block,
// regardless of where the builder is currently positioned, matching the
// host facility's "alloca lives in the entry block" convention. Insts and
// Term are distinct on ir.Block, so appending here is safe even after the
// entry block has already branched away to other blocks: the printer always
// renders Term last regardless of insertion order.
func (g *Generator) entryAlloca(elemType types.Type) *ir.InstAlloca {
	entry := g.b.block.Parent.Blocks[0]
	return entry.NewAlloca(elemType)
}

// Generate lowers a full Program to an IR module: it synthesizes a default
// main, lowers every top-level statement into it, replaces the default with
// a user-provided `let main = fn...` binding if one exists, verifies every
// function, and returns the module.
func Generate(prog *ast.Program) (*ir.Module, []string) {
	g := New()

	mainFn := g.Module.NewFunc("main", types.I32)
	mainFn.Linkage = externalLinkage
	entry := mainFn.NewBlock("entry")
	g.b.SetInsertPoint(entry)

	for _, stmt := range prog.Statements {
		g.lowerStatement(stmt)
	}

	if !g.b.Terminated() {
		g.b.block.NewRet(constI32(0))
	}

	if g.hasUserMain(prog) {
		g.removeFunc(mainFn)
	}

	tlog.Printw("lowered program", "statements", len(prog.Statements), "functions", len(g.Module.Funcs))

	return g.Module, Verify(g.Module)
}

// hasUserMain scans the original top-level statements for a `let main =
// ...;` binding (spec §4.3: "the only place control-flow is governed by
// binding identity rather than syntax").
func (g *Generator) hasUserMain(prog *ast.Program) bool {
	for _, stmt := range prog.Statements {
		if ls, ok := stmt.(*ast.LetStatement); ok && ls.Name.Value == "main" {
			return true
		}
	}
	return false
}

func (g *Generator) removeFunc(fn *ir.Func) {
	funcs := g.Module.Funcs[:0]
	for _, f := range g.Module.Funcs {
		if f != fn {
			funcs = append(funcs, f)
		}
	}
	g.Module.Funcs = funcs
}
