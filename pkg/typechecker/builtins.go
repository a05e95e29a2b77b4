package typechecker

import (
	"github.com/GiGurra/fl/pkg/types"
)

// installBuiltins registers the native functions every module sees. The
// interpreter provides the matching implementations.
func installBuiltins(env *Environment) {
	env.Define("print", types.FunctionType{
		Params:   []types.Type{types.AnyType{}},
		Return:   types.Nil,
		Variadic: true,
	}, false)
	env.Define("len", types.FunctionType{
		Params: []types.Type{types.AnyType{}},
		Return: types.Int,
	}, false)
	env.Define("str", types.FunctionType{
		Params: []types.Type{types.AnyType{}},
		Return: types.String,
	}, false)
	env.Define("push", types.FunctionType{
		Params: []types.Type{types.ListType{Element: types.AnyType{}}, types.AnyType{}},
		Return: types.ListType{Element: types.AnyType{}},
	}, false)
}
