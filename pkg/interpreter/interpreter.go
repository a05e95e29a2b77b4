package interpreter

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/fl/pkg/ast"
	"github.com/GiGurra/fl/pkg/runtime"
)

// Interpreter drives evaluation of Fluffy AST nodes.
type Interpreter struct {
	global *runtime.Environment
	decls  map[string]*ast.TypeDeclaration
	out    io.Writer
}

// New returns an interpreter with builtins installed in the global
// environment and output going to stdout.
func New() *Interpreter {
	i := &Interpreter{
		global: runtime.NewEnvironment(nil),
		decls:  make(map[string]*ast.TypeDeclaration),
		out:    os.Stdout,
	}
	i.installBuiltins()
	return i
}

// SetOutput redirects `print`, mostly for tests.
func (i *Interpreter) SetOutput(w io.Writer) {
	i.out = w
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// EvaluateModule executes a module and returns the last evaluated value and
// the module environment.
func (i *Interpreter) EvaluateModule(module *ast.Module) (runtime.Value, *runtime.Environment, error) {
	return i.EvaluateModuleWithImports(module, nil)
}

// EvaluateModuleWithImports executes a module with each import bound to an
// already-evaluated module value. The driver supplies the bindings in
// dependency order; a missing binding resolves to nil.
func (i *Interpreter) EvaluateModuleWithImports(module *ast.Module, imports map[string]runtime.Value) (runtime.Value, *runtime.Environment, error) {
	if module == nil {
		return nil, nil, fmt.Errorf("interpreter: module is nil")
	}
	env := i.global.Extend()

	for _, imp := range module.Imports {
		name := importBindingName(imp.Path)
		if bound, ok := imports[imp.Path]; ok {
			env.Define(name, bound)
			continue
		}
		env.Define(name, runtime.NilValue{})
	}

	// Type declarations are visible to the whole module body.
	for _, stmt := range module.Body {
		if decl, ok := stmt.(*ast.TypeDeclaration); ok {
			i.decls[decl.Name.Name] = decl
		}
	}

	var last runtime.Value = runtime.NilValue{}
	for _, stmt := range module.Body {
		val, err := i.evalStatement(env, stmt)
		if err != nil {
			switch err.(type) {
			case returnSignal, breakSignal, continueSignal:
				return nil, env, fmt.Errorf("unexpected %s at module level", err.Error())
			}
			return nil, env, err
		}
		if val != nil {
			last = val
		}
	}
	return last, env, nil
}

func importBindingName(path string) string {
	name := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			name = path[i+1:]
			break
		}
	}
	return name
}

// ModuleValue wraps a module environment as a record so importers reach its
// bindings through member access.
func ModuleValue(env *runtime.Environment) runtime.Value {
	return &runtime.RecordValue{Fields: env.Snapshot()}
}

//-----------------------------------------------------------------------------
// Control-flow signals
//-----------------------------------------------------------------------------

type returnSignal struct {
	value runtime.Value
}

func (returnSignal) Error() string { return "return" }

type breakSignal struct{}

func (breakSignal) Error() string { return "break" }

type continueSignal struct{}

func (continueSignal) Error() string { return "continue" }
