package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"github.com/manishthatte/ManiT/internal/ast"
)

func (g *Generator) lowerStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		g.lowerLetStatement(s)
	case *ast.VarStatement:
		g.lowerVarStatement(s)
	case *ast.StructDefinitionStatement:
		g.lowerStructDefinition(s)
	case *ast.ReturnStatement:
		g.lowerReturnStatement(s)
	case *ast.ExpressionStatement:
		if s.Expression != nil {
			g.lowerExpression(s.Expression)
		}
	}
}

// lowerLetStatement implements the Let-only shortcuts of spec §4.3: a
// Function value is renamed to the binding name in the module's function
// table rather than stored through a local slot, and an array literal's own
// alloca is adopted directly rather than copied into a fresh slot.
func (g *Generator) lowerLetStatement(s *ast.LetStatement) {
	val := g.lowerExpression(s.Value)
	if val == nil {
		return
	}

	if fn, ok := val.(*ir.Func); ok {
		fn.SetName(s.Name.Value)
		return
	}

	if alloca, ok := val.(*ir.InstAlloca); ok {
		if _, isArray := alloca.ElemType.(*types.ArrayType); isArray {
			g.named[s.Name.Value] = alloca
			return
		}
	}

	slot := g.entryAlloca(val.Type())
	g.b.block.NewStore(val, slot)
	g.named[s.Name.Value] = slot
}

func (g *Generator) lowerVarStatement(s *ast.VarStatement) {
	val := g.lowerExpression(s.Value)
	if val == nil {
		return
	}

	slot := g.entryAlloca(val.Type())
	g.b.block.NewStore(val, slot)
	g.named[s.Name.Value] = slot
}

func (g *Generator) lowerStructDefinition(s *ast.StructDefinitionStatement) {
	if _, exists := g.structs[s.Name.Value]; exists {
		return
	}

	fieldTypes := make([]types.Type, len(s.Fields))
	for i, f := range s.Fields {
		fieldTypes[i] = typeForAnnotation(f.Type.Value)
	}

	def := g.Module.NewTypeDef(s.Name.Value, types.NewStruct(fieldTypes...))
	if st, ok := def.(*types.StructType); ok {
		g.structs[s.Name.Value] = st
	}
}

func (g *Generator) lowerReturnStatement(s *ast.ReturnStatement) {
	if s.Value == nil {
		g.b.block.NewRet(nil)
		return
	}
	val := g.lowerExpression(s.Value)
	if val == nil {
		return
	}
	g.b.block.NewRet(val)
}
