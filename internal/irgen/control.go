package irgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/manishthatte/ManiT/internal/ast"
)

// lowerBlockValue lowers every statement of block in order. If the last
// statement is an ExpressionStatement its value becomes the block's value
// (spec §3); otherwise the block has no value.
func (g *Generator) lowerBlockValue(block *ast.BlockStatement) value.Value {
	if len(block.Statements) == 0 {
		return nil
	}

	last, isExprStmt := block.Statements[len(block.Statements)-1].(*ast.ExpressionStatement)
	if !isExprStmt {
		for _, stmt := range block.Statements {
			g.lowerStatement(stmt)
		}
		return nil
	}

	for _, stmt := range block.Statements[:len(block.Statements)-1] {
		g.lowerStatement(stmt)
	}
	if last.Expression == nil {
		return nil
	}
	return g.lowerExpression(last.Expression)
}

// lowerIf lowers an if-expression into three blocks (then/else/ifcont) with a
// phi join at ifcont, per spec §4.3.
func (g *Generator) lowerIf(expr *ast.IfExpression) value.Value {
	cond := g.lowerExpression(expr.Condition)
	if cond == nil {
		return nil
	}
	condBlock := g.b.block

	fn := g.b.block.Parent
	thenBlock := fn.NewBlock("then")
	var elseBlock *ir.Block
	ifcont := ir.NewBlock("ifcont")

	if expr.Alternative != nil {
		elseBlock = ir.NewBlock("else")
		condBlock.NewCondBr(cond, thenBlock, elseBlock)
	} else {
		condBlock.NewCondBr(cond, thenBlock, ifcont)
	}

	g.b.SetInsertPoint(thenBlock)
	thenVal := g.lowerBlockValue(expr.Consequence)
	if !g.b.Terminated() {
		g.b.block.NewBr(ifcont)
	}
	thenEnd := g.b.block

	var elseVal value.Value
	var elseEnd *ir.Block
	if expr.Alternative != nil {
		fn.Blocks = append(fn.Blocks, elseBlock)
		g.b.SetInsertPoint(elseBlock)
		elseVal = g.lowerBlockValue(expr.Alternative)
		if !g.b.Terminated() {
			g.b.block.NewBr(ifcont)
		}
		elseEnd = g.b.block
	}

	fn.Blocks = append(fn.Blocks, ifcont)
	g.b.SetInsertPoint(ifcont)

	if thenVal != nil || elseVal != nil {
		thenIncoming := thenVal
		if thenIncoming == nil {
			thenIncoming = constI32(0)
		}
		incomings := []*ir.Incoming{ir.NewIncoming(thenIncoming, thenEnd)}

		if expr.Alternative != nil {
			elseIncoming := elseVal
			if elseIncoming == nil {
				elseIncoming = constI32(0)
			}
			incomings = append(incomings, ir.NewIncoming(elseIncoming, elseEnd))
		} else {
			// No alternative: ifcont's other predecessor is condBlock itself,
			// reached along the conditional branch's false edge.
			incomings = append(incomings, ir.NewIncoming(constI32(0), condBlock))
		}

		return ifcont.NewPhi(incomings...)
	}

	return constI32(0)
}

// lowerWhile lowers a while-expression into header/body/exit blocks.
func (g *Generator) lowerWhile(expr *ast.WhileExpression) value.Value {
	fn := g.b.block.Parent
	header := fn.NewBlock("loop_header")
	body := fn.NewBlock("loop_body")
	exit := fn.NewBlock("loop_exit")

	g.b.block.NewBr(header)

	g.b.SetInsertPoint(header)
	cond := g.lowerExpression(expr.Condition)
	if cond == nil {
		return nil
	}
	g.b.block.NewCondBr(cond, body, exit)

	g.b.SetInsertPoint(body)
	for _, stmt := range expr.Body.Statements {
		g.lowerStatement(stmt)
	}
	if !g.b.Terminated() {
		g.b.block.NewBr(header)
	}

	g.b.SetInsertPoint(exit)
	return constI32(0)
}

// lowerForLoop lowers a for-loop into header/body/inc/exit blocks. The
// initializer's bindings are scoped to the loop via a named-values
// snapshot/restore (spec §4.3, §8: "not visible after the loop's exit
// block").
func (g *Generator) lowerForLoop(expr *ast.ForLoopExpression) value.Value {
	snapshot := g.snapshotNamed()

	if expr.Initializer != nil {
		g.lowerStatement(expr.Initializer)
	}

	fn := g.b.block.Parent
	header := fn.NewBlock("for_header")
	body := fn.NewBlock("for_body")
	inc := fn.NewBlock("for_inc")
	exit := fn.NewBlock("for_exit")

	g.b.block.NewBr(header)

	g.b.SetInsertPoint(header)
	var cond value.Value
	if expr.Condition != nil {
		cond = g.lowerExpression(expr.Condition)
		if cond == nil {
			return nil
		}
	} else {
		cond = constI1(true)
	}
	g.b.block.NewCondBr(cond, body, exit)

	g.b.SetInsertPoint(body)
	for _, stmt := range expr.Body.Statements {
		g.lowerStatement(stmt)
	}
	if !g.b.Terminated() {
		g.b.block.NewBr(inc)
	}

	g.b.SetInsertPoint(inc)
	if expr.Increment != nil {
		g.lowerExpression(expr.Increment)
	}
	if !g.b.Terminated() {
		g.b.block.NewBr(header)
	}

	g.b.SetInsertPoint(exit)
	g.restoreNamed(snapshot)
	return constI32(0)
}

// lowerFunctionLiteral lowers a function value: every parameter is typed
// i32, the return type is i32, linkage is internal, and the name is a
// placeholder until a LetStatement renames it (spec §4.3).
func (g *Generator) lowerFunctionLiteral(lit *ast.FunctionLiteral) value.Value {
	savedBlock := g.b.block
	savedNamed := g.named

	params := make([]*ir.Param, len(lit.Parameters))
	for i, p := range lit.Parameters {
		params[i] = ir.NewParam(p.Value, types.I32)
	}

	fn := g.Module.NewFunc(g.anonName(), types.I32, params...)
	fn.Linkage = internalLinkage

	entry := fn.NewBlock("entry")
	g.b.SetInsertPoint(entry)

	g.named = make(map[string]*ir.InstAlloca)
	for i, p := range lit.Parameters {
		slot := g.entryAlloca(types.I32)
		entry.NewStore(fn.Params[i], slot)
		g.named[p.Value] = slot
	}

	for _, stmt := range lit.Body.Statements {
		g.lowerStatement(stmt)
	}

	if !g.b.Terminated() {
		g.b.block.NewRet(constI32(0))
	}

	g.b.SetInsertPoint(savedBlock)
	g.named = savedNamed

	return fn
}

// anonName hands out a unique placeholder function name. A LetStatement's
// rename shortcut overwrites it once the literal has been lowered; a function
// literal never bound via `let` keeps this name but cannot be called by
// name (calls resolve callees by identifier lookup in the module).
func (g *Generator) anonName() string {
	g.anonCounter++
	return fmt.Sprintf("__anon_fn.%d", g.anonCounter)
}
