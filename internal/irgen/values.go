package irgen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

const (
	externalLinkage = enum.LinkageExternal
	internalLinkage = enum.LinkageInternal
)

func constI32(v int64) *constant.Int { return constant.NewInt(types.I32, v) }

func constI1(v bool) *constant.Int {
	if v {
		return constant.NewInt(types.I1, 1)
	}
	return constant.NewInt(types.I1, 0)
}

// typeForAnnotation resolves a source type-identifier to an IR type. Only
// i32 is recognized (spec §6); any other annotation is accepted
// syntactically but not translated, so it resolves to i32 as well since the
// generator never consults an annotation for anything beyond i32 lookups.
func typeForAnnotation(name string) types.Type {
	switch name {
	case "i32":
		return types.I32
	default:
		return types.I32
	}
}
