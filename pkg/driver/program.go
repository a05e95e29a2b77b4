package driver

import (
	"io"

	"github.com/GiGurra/fl/pkg/interpreter"
	"github.com/GiGurra/fl/pkg/runtime"
	"github.com/GiGurra/fl/pkg/typechecker"
)

// CheckResult pairs a module with its diagnostics.
type CheckResult struct {
	Module      *Module
	Diagnostics []typechecker.Diagnostic
}

// Check typechecks every module in dependency order and returns the modules
// that produced diagnostics.
func (p *Program) Check() ([]CheckResult, error) {
	var results []CheckResult
	for _, module := range p.Modules {
		checker := typechecker.New()
		diags, err := checker.CheckModule(module.AST)
		if err != nil {
			return nil, err
		}
		if len(diags) > 0 {
			results = append(results, CheckResult{Module: module, Diagnostics: diags})
		}
	}
	return results, nil
}

// Run evaluates the program module by module in dependency order, binding
// each import to the already-evaluated module. The entry module's last value
// is returned.
func (p *Program) Run(out io.Writer) (runtime.Value, error) {
	interp := interpreter.New()
	if out != nil {
		interp.SetOutput(out)
	}

	evaluated := make(map[string]runtime.Value, len(p.Modules))
	var last runtime.Value = runtime.NilValue{}
	for _, module := range p.Modules {
		imports := make(map[string]runtime.Value)
		for _, imp := range module.AST.Imports {
			if v, ok := evaluated[imp.Path]; ok {
				imports[imp.Path] = v
			}
		}
		value, env, err := interp.EvaluateModuleWithImports(module.AST, imports)
		if err != nil {
			return nil, err
		}
		evaluated[module.ImportPath] = interpreter.ModuleValue(env)
		if module == p.Entry {
			last = value
		}
	}
	return last, nil
}
