package interpreter

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/GiGurra/fl/pkg/runtime"
)

func (i *Interpreter) installBuiltins() {
	i.global.Define("print", runtime.NativeFunctionValue{
		Name:  "print",
		Arity: -1,
		Impl: func(args []runtime.Value) (runtime.Value, error) {
			parts := make([]string, len(args))
			for idx, arg := range args {
				parts[idx] = runtime.Stringify(arg)
			}
			fmt.Fprintln(i.out, strings.Join(parts, " "))
			return runtime.NilValue{}, nil
		},
	})

	i.global.Define("len", runtime.NativeFunctionValue{
		Name:  "len",
		Arity: 1,
		Impl: func(args []runtime.Value) (runtime.Value, error) {
			switch v := args[0].(type) {
			case runtime.StringValue:
				return runtime.NewInt(int64(len([]rune(v.Val)))), nil
			case *runtime.ListValue:
				return runtime.NewInt(int64(len(v.Elements))), nil
			case *runtime.RecordValue:
				return runtime.NewInt(int64(len(v.Fields))), nil
			}
			return nil, fmt.Errorf("len: unsupported value of kind %s", args[0].Kind())
		},
	})

	i.global.Define("str", runtime.NativeFunctionValue{
		Name:  "str",
		Arity: 1,
		Impl: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.StringValue{Val: runtime.Stringify(args[0])}, nil
		},
	})

	i.global.Define("push", runtime.NativeFunctionValue{
		Name:  "push",
		Arity: 2,
		Impl: func(args []runtime.Value) (runtime.Value, error) {
			list, ok := args[0].(*runtime.ListValue)
			if !ok {
				return nil, fmt.Errorf("push: first argument must be a list, got %s", args[0].Kind())
			}
			elements := make([]runtime.Value, 0, len(list.Elements)+1)
			elements = append(elements, list.Elements...)
			elements = append(elements, args[1])
			return &runtime.ListValue{Elements: elements}, nil
		},
	})
}

// intFromValue extracts an exact machine int for indexing.
func intFromValue(v runtime.Value) (int, bool) {
	iv, ok := v.(runtime.IntValue)
	if !ok || !iv.Val.IsInt64() {
		return 0, false
	}
	n := iv.Val.Int64()
	if int64(int(n)) != n {
		return 0, false
	}
	return int(n), true
}

var bigOne = big.NewInt(1)
