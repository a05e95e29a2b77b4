package typechecker

import (
	"fmt"

	"github.com/GiGurra/fl/pkg/ast"
	"github.com/GiGurra/fl/pkg/types"
)

// Checker traverses Fluffy AST nodes and records diagnostics.
type Checker struct {
	decls           map[string]types.Type
	global          *Environment
	returnTypeStack []types.Type
	loopDepth       int
	obligations     []ConstraintObligation
}

// Diagnostic represents a type-checking error.
type Diagnostic struct {
	Message string
	Node    ast.Node
}

// New returns a checker instance.
func New() *Checker {
	return &Checker{
		decls:  make(map[string]types.Type),
		global: NewEnvironment(nil),
	}
}

// DeclaredType exposes a named type declaration, mostly for tests and the
// interpreter's runtime narrowing.
func (c *Checker) DeclaredType(name string) (types.Type, bool) {
	t, ok := c.decls[name]
	return t, ok
}

// CheckModule performs typechecking on a module AST and returns diagnostics.
func (c *Checker) CheckModule(module *ast.Module) ([]Diagnostic, error) {
	if module == nil {
		return nil, fmt.Errorf("typechecker: module is nil")
	}
	c.decls = make(map[string]types.Type)
	c.global = NewEnvironment(nil)
	installBuiltins(c.global)
	c.returnTypeStack = nil
	c.loopDepth = 0
	c.obligations = nil

	var diagnostics []Diagnostic
	diagnostics = append(diagnostics, c.collectDeclarations(module)...)

	env := c.global.Extend()
	c.applyImports(env, module.Imports)
	for _, stmt := range module.Body {
		diagnostics = append(diagnostics, c.checkStatement(env, stmt)...)
	}

	diagnostics = append(diagnostics, c.resolveObligations()...)
	return diagnostics, nil
}

// applyImports binds each imported module under its final path segment.
// Cross-module types flow in via the driver; standalone checks see Unknown.
func (c *Checker) applyImports(env *Environment, imports []*ast.ImportStatement) {
	for _, imp := range imports {
		if imp == nil || imp.Path == "" {
			continue
		}
		env.Define(importBindingName(imp.Path), types.UnknownType{}, false)
	}
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

// collectDeclarations registers type declarations and function signatures
// before the body walk, so later statements can reference them.
func (c *Checker) collectDeclarations(module *ast.Module) []Diagnostic {
	var diags []Diagnostic
	for _, stmt := range module.Body {
		switch decl := stmt.(type) {
		case *ast.TypeDeclaration:
			diags = append(diags, c.collectTypeDeclaration(decl)...)
		case *ast.FunctionDefinition:
			fnType, fnDiags := c.functionSignature(decl)
			diags = append(diags, fnDiags...)
			c.global.Define(decl.Name.Name, fnType, false)
		}
	}
	return diags
}

func (c *Checker) collectTypeDeclaration(decl *ast.TypeDeclaration) []Diagnostic {
	var diags []Diagnostic
	if decl.Name == nil || decl.Name.Name == "" {
		return []Diagnostic{{Message: "typechecker: type declaration requires a name", Node: decl}}
	}
	name := decl.Name.Name
	if _, exists := c.decls[name]; exists {
		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("typechecker: type '%s' redeclared", name),
			Node:    decl,
		})
	}

	body, bodyDiags := c.resolveTypeExpression(decl.Body, decl)
	diags = append(diags, bodyDiags...)

	if decl.Where == nil {
		// A declared record keeps its label for diagnostics.
		if record, ok := body.(types.RecordType); ok && record.TypeName == "" {
			record.TypeName = name
			body = record
		}
		c.decls[name] = body
		return diags
	}

	diags = append(diags, c.checkPredicate(name, body, decl.Where)...)
	c.decls[name] = types.RefinementType{RefName: name, Base: body, Predicate: decl.Where}
	return diags
}

// checkPredicate typechecks a where clause against its base: `self` plus, for
// records, every field is in scope, and the predicate must be Bool.
func (c *Checker) checkPredicate(name string, base types.Type, predicate ast.Expression) []Diagnostic {
	env := c.global.Extend()
	env.Define("self", base, false)
	if record, ok := types.Underlying(base).(types.RecordType); ok {
		for fieldName, fieldType := range record.Fields {
			env.Define(fieldName, fieldType, false)
		}
	}
	predType, diags := c.checkExpression(env, predicate)
	if !types.Assignable(types.Bool, predType) {
		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("typechecker: constraint on '%s' must be Bool, got %s", name, types.Format(predType)),
			Node:    predicate,
		})
	}
	return diags
}

func (c *Checker) functionSignature(decl *ast.FunctionDefinition) (types.FunctionType, []Diagnostic) {
	var diags []Diagnostic
	params := make([]types.Type, len(decl.Params))
	for i, param := range decl.Params {
		if param.Type == nil {
			params[i] = types.UnknownType{}
			continue
		}
		t, paramDiags := c.resolveTypeExpression(param.Type, param)
		diags = append(diags, paramDiags...)
		params[i] = t
	}
	var ret types.Type = types.Nil
	if decl.ReturnType != nil {
		t, retDiags := c.resolveTypeExpression(decl.ReturnType, decl)
		diags = append(diags, retDiags...)
		ret = t
	}
	return types.FunctionType{Params: params, Return: ret}, diags
}

// resolveTypeExpression lowers a syntactic type to the structural model.
func (c *Checker) resolveTypeExpression(expr ast.TypeExpression, node ast.Node) (types.Type, []Diagnostic) {
	switch t := expr.(type) {
	case nil:
		return types.UnknownType{}, nil
	case *ast.SimpleTypeExpression:
		name := t.Name.Name
		switch name {
		case "Int":
			return types.Int, nil
		case "Float":
			return types.Float, nil
		case "Bool":
			return types.Bool, nil
		case "String":
			return types.String, nil
		case "Nil":
			return types.Nil, nil
		case "Any":
			return types.AnyType{}, nil
		}
		if declared, ok := c.decls[name]; ok {
			return declared, nil
		}
		return types.UnknownType{}, []Diagnostic{{
			Message: fmt.Sprintf("typechecker: unknown type '%s'", name),
			Node:    node,
		}}
	case *ast.RecordTypeExpression:
		fields := make(map[string]types.Type, len(t.Fields))
		var diags []Diagnostic
		for _, field := range t.Fields {
			fieldType, fieldDiags := c.resolveTypeExpression(field.Type, field)
			diags = append(diags, fieldDiags...)
			if _, dup := fields[field.Name.Name]; dup {
				diags = append(diags, Diagnostic{
					Message: fmt.Sprintf("typechecker: duplicate field '%s' in record type", field.Name.Name),
					Node:    field,
				})
			}
			fields[field.Name.Name] = fieldType
		}
		return types.RecordType{Fields: fields}, diags
	case *ast.ListTypeExpression:
		element, diags := c.resolveTypeExpression(t.Element, node)
		return types.ListType{Element: element}, diags
	case *ast.FunctionTypeExpression:
		var diags []Diagnostic
		params := make([]types.Type, len(t.Params))
		for i, param := range t.Params {
			p, paramDiags := c.resolveTypeExpression(param, node)
			diags = append(diags, paramDiags...)
			params[i] = p
		}
		ret, retDiags := c.resolveTypeExpression(t.Return, node)
		diags = append(diags, retDiags...)
		return types.FunctionType{Params: params, Return: ret}, diags
	case *ast.NullableTypeExpression:
		inner, diags := c.resolveTypeExpression(t.Inner, node)
		return types.Optional(inner), diags
	case *ast.UnionTypeExpression:
		var diags []Diagnostic
		members := make([]types.Type, len(t.Members))
		for i, member := range t.Members {
			m, memberDiags := c.resolveTypeExpression(member, node)
			diags = append(diags, memberDiags...)
			members[i] = m
		}
		return types.UnionType{Members: members}, diags
	}
	return types.UnknownType{}, []Diagnostic{{
		Message: fmt.Sprintf("typechecker: unsupported type expression %s", expr.NodeType()),
		Node:    node,
	}}
}

func (c *Checker) pushReturnType(typ types.Type) {
	c.returnTypeStack = append(c.returnTypeStack, typ)
}

func (c *Checker) popReturnType() {
	if len(c.returnTypeStack) == 0 {
		return
	}
	c.returnTypeStack = c.returnTypeStack[:len(c.returnTypeStack)-1]
}

func (c *Checker) currentReturnType() (types.Type, bool) {
	if len(c.returnTypeStack) == 0 {
		return nil, false
	}
	return c.returnTypeStack[len(c.returnTypeStack)-1], true
}

func isUnknown(t types.Type) bool {
	_, ok := t.(types.UnknownType)
	return ok
}
