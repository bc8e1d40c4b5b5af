package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/manishthatte/ManiT/internal/ast"
)

// lowerExpression lowers e to an IR value, or returns nil when the
// expression is ill-formed (unknown name, wrong arity, unsupported
// operator). A nil return propagates to the caller without emitting further
// instructions for this expression (spec §4.3 "Failure semantics").
func (g *Generator) lowerExpression(e ast.Expression) value.Value {
	switch expr := e.(type) {
	case *ast.IntegerLiteral:
		return constI32(expr.Value)
	case *ast.BooleanLiteral:
		return constI1(expr.Value)
	case *ast.Identifier:
		return g.lowerIdentifier(expr)
	case *ast.AssignmentExpression:
		return g.lowerAssignment(expr)
	case *ast.PrefixExpression:
		return g.lowerPrefix(expr)
	case *ast.InfixExpression:
		return g.lowerInfix(expr)
	case *ast.ArrayLiteral:
		return g.lowerArrayLiteral(expr)
	case *ast.IndexExpression:
		return g.lowerIndex(expr)
	case *ast.CallExpression:
		return g.lowerCall(expr)
	case *ast.IfExpression:
		return g.lowerIf(expr)
	case *ast.WhileExpression:
		return g.lowerWhile(expr)
	case *ast.ForLoopExpression:
		return g.lowerForLoop(expr)
	case *ast.FunctionLiteral:
		return g.lowerFunctionLiteral(expr)
	default:
		return nil
	}
}

func (g *Generator) lowerIdentifier(id *ast.Identifier) value.Value {
	slot, ok := g.named[id.Value]
	if !ok {
		return nil
	}
	if _, isArray := slot.ElemType.(*types.ArrayType); isArray {
		return slot
	}
	return g.b.block.NewLoad(slot.ElemType, slot)
}

func (g *Generator) lowerAssignment(expr *ast.AssignmentExpression) value.Value {
	val := g.lowerExpression(expr.Value)
	if val == nil {
		return nil
	}
	slot, ok := g.named[expr.Target.Value]
	if !ok {
		return nil
	}
	g.b.block.NewStore(val, slot)
	return val
}

func (g *Generator) lowerPrefix(expr *ast.PrefixExpression) value.Value {
	right := g.lowerExpression(expr.Right)
	if right == nil {
		return nil
	}
	switch expr.Operator {
	case "-":
		return g.b.block.NewSub(constI32(0), right)
	default:
		// "!" is tokenized and parsed but spec.md leaves boolean negation
		// unlowered (open question); no other prefix operator exists.
		return nil
	}
}

func (g *Generator) lowerInfix(expr *ast.InfixExpression) value.Value {
	left := g.lowerExpression(expr.Left)
	right := g.lowerExpression(expr.Right)
	if left == nil || right == nil {
		return nil
	}

	switch expr.Operator {
	case "+":
		return g.b.block.NewAdd(left, right)
	case "-":
		return g.b.block.NewSub(left, right)
	case "*":
		return g.b.block.NewMul(left, right)
	case "/":
		return g.b.block.NewSDiv(left, right)
	case "%":
		return g.b.block.NewSRem(left, right)
	case "==":
		return g.b.block.NewICmp(enum.IPredEQ, left, right)
	case "!=":
		return g.b.block.NewICmp(enum.IPredNE, left, right)
	case "<":
		return g.b.block.NewICmp(enum.IPredSLT, left, right)
	case "<=":
		return g.b.block.NewICmp(enum.IPredSLE, left, right)
	case ">":
		return g.b.block.NewICmp(enum.IPredSGT, left, right)
	case ">=":
		return g.b.block.NewICmp(enum.IPredSGE, left, right)
	case "&&":
		return g.b.block.NewAnd(left, right)
	case "||":
		return g.b.block.NewOr(left, right)
	default:
		return nil
	}
}

func (g *Generator) lowerArrayLiteral(expr *ast.ArrayLiteral) value.Value {
	arrType := types.NewArray(uint64(len(expr.Elements)), types.I32)
	slot := g.entryAlloca(arrType)

	for i, elemExpr := range expr.Elements {
		elem := g.lowerExpression(elemExpr)
		if elem == nil {
			return nil
		}
		addr := g.b.block.NewGetElementPtr(arrType, slot, constI32(0), constI32(int64(i)))
		g.b.block.NewStore(elem, addr)
	}

	return slot
}

func (g *Generator) lowerIndex(expr *ast.IndexExpression) value.Value {
	left := g.lowerExpression(expr.Left)
	if left == nil {
		return nil
	}
	index := g.lowerExpression(expr.Index)
	if index == nil {
		return nil
	}

	arrType, ok := elemArrayType(left)
	if !ok {
		return nil
	}

	addr := g.b.block.NewGetElementPtr(arrType, left, constI32(0), index)
	return g.b.block.NewLoad(arrType.ElemType, addr)
}

func elemArrayType(v value.Value) (*types.ArrayType, bool) {
	ptr, ok := v.Type().(*types.PointerType)
	if !ok {
		return nil, false
	}
	arr, ok := ptr.ElemType.(*types.ArrayType)
	return arr, ok
}

func (g *Generator) lowerCall(expr *ast.CallExpression) value.Value {
	callee, ok := expr.Function.(*ast.Identifier)
	if !ok {
		return nil
	}

	target := g.lookupFunc(callee.Value)
	if target == nil {
		return nil
	}

	if len(target.Params) != len(expr.Arguments) {
		return nil
	}

	args := make([]value.Value, len(expr.Arguments))
	for i, a := range expr.Arguments {
		v := g.lowerExpression(a)
		if v == nil {
			return nil
		}
		args[i] = v
	}

	return g.b.block.NewCall(target, args...)
}

// lookupFunc resolves a call target directly in the module's function
// table, by name (spec §4.3: "the callee must be an Identifier naming a
// module-level function ... look up the function directly in the module").
func (g *Generator) lookupFunc(name string) *ir.Func {
	for _, f := range g.Module.Funcs {
		if f.Name() == name {
			return f
		}
	}
	return nil
}
