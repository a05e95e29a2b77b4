package ast

// Patterns

type WildcardPattern struct {
	nodeImpl
	patternMarker
}

func NewWildcardPattern() *WildcardPattern {
	return &WildcardPattern{nodeImpl: newNodeImpl(NodeWildcardPattern)}
}

type LiteralPattern struct {
	nodeImpl
	patternMarker

	Literal Literal `json:"literal"`
}

func NewLiteralPattern(literal Literal) *LiteralPattern {
	return &LiteralPattern{nodeImpl: newNodeImpl(NodeLiteralPattern), Literal: literal}
}

// TypedPattern binds when the subject structurally matches the type, running
// any constraint predicate against the live value.
type TypedPattern struct {
	nodeImpl
	patternMarker

	Pattern Pattern        `json:"pattern"`
	Type    TypeExpression `json:"typeExpression"`
}

func NewTypedPattern(pattern Pattern, typeExpr TypeExpression) *TypedPattern {
	return &TypedPattern{nodeImpl: newNodeImpl(NodeTypedPattern), Pattern: pattern, Type: typeExpr}
}

// RecordPatternField destructures one field. Pattern may be nil, which binds
// the field under its own name.
type RecordPatternField struct {
	nodeImpl

	Name    *Identifier `json:"name"`
	Pattern Pattern     `json:"pattern,omitempty"`
}

func NewRecordPatternField(name *Identifier, pattern Pattern) *RecordPatternField {
	return &RecordPatternField{nodeImpl: newNodeImpl(NodeRecordPatternField), Name: name, Pattern: pattern}
}

type RecordPattern struct {
	nodeImpl
	patternMarker

	TypeName *Identifier           `json:"typeName,omitempty"`
	Fields   []*RecordPatternField `json:"fields"`
}

func NewRecordPattern(typeName *Identifier, fields []*RecordPatternField) *RecordPattern {
	return &RecordPattern{nodeImpl: newNodeImpl(NodeRecordPattern), TypeName: typeName, Fields: fields}
}

// Type expressions

type SimpleTypeExpression struct {
	nodeImpl
	typeExpressionMarker

	Name *Identifier `json:"name"`
}

func NewSimpleTypeExpression(name *Identifier) *SimpleTypeExpression {
	return &SimpleTypeExpression{nodeImpl: newNodeImpl(NodeSimpleTypeExpression), Name: name}
}

type RecordTypeField struct {
	nodeImpl

	Name *Identifier    `json:"name"`
	Type TypeExpression `json:"fieldType"`
}

func NewRecordTypeField(name *Identifier, typeExpr TypeExpression) *RecordTypeField {
	return &RecordTypeField{nodeImpl: newNodeImpl(NodeRecordTypeField), Name: name, Type: typeExpr}
}

type RecordTypeExpression struct {
	nodeImpl
	typeExpressionMarker

	Fields []*RecordTypeField `json:"fields"`
}

func NewRecordTypeExpression(fields []*RecordTypeField) *RecordTypeExpression {
	return &RecordTypeExpression{nodeImpl: newNodeImpl(NodeRecordTypeExpression), Fields: fields}
}

type ListTypeExpression struct {
	nodeImpl
	typeExpressionMarker

	Element TypeExpression `json:"element"`
}

func NewListTypeExpression(element TypeExpression) *ListTypeExpression {
	return &ListTypeExpression{nodeImpl: newNodeImpl(NodeListTypeExpression), Element: element}
}

type FunctionTypeExpression struct {
	nodeImpl
	typeExpressionMarker

	Params []TypeExpression `json:"params"`
	Return TypeExpression   `json:"returnType"`
}

func NewFunctionTypeExpression(params []TypeExpression, returnType TypeExpression) *FunctionTypeExpression {
	return &FunctionTypeExpression{nodeImpl: newNodeImpl(NodeFunctionTypeExpression), Params: params, Return: returnType}
}

// NullableTypeExpression is the `T?` sugar for `T | Nil`.
type NullableTypeExpression struct {
	nodeImpl
	typeExpressionMarker

	Inner TypeExpression `json:"inner"`
}

func NewNullableTypeExpression(inner TypeExpression) *NullableTypeExpression {
	return &NullableTypeExpression{nodeImpl: newNodeImpl(NodeNullableTypeExpression), Inner: inner}
}

type UnionTypeExpression struct {
	nodeImpl
	typeExpressionMarker

	Members []TypeExpression `json:"members"`
}

func NewUnionTypeExpression(members []TypeExpression) *UnionTypeExpression {
	return &UnionTypeExpression{nodeImpl: newNodeImpl(NodeUnionTypeExpression), Members: members}
}

// Declarations and statements

// VariableDeclaration covers both `let` (immutable) and `var`.
type VariableDeclaration struct {
	nodeImpl
	statementMarker

	Mutable        bool           `json:"mutable"`
	Name           *Identifier    `json:"name"`
	TypeAnnotation TypeExpression `json:"typeAnnotation,omitempty"`
	Value          Expression     `json:"value"`
}

func NewVariableDeclaration(mutable bool, name *Identifier, typeAnnotation TypeExpression, value Expression) *VariableDeclaration {
	return &VariableDeclaration{nodeImpl: newNodeImpl(NodeVariableDeclaration), Mutable: mutable, Name: name, TypeAnnotation: typeAnnotation, Value: value}
}

type FunctionParameter struct {
	nodeImpl

	Name *Identifier    `json:"name"`
	Type TypeExpression `json:"paramType,omitempty"`
}

func NewFunctionParameter(name *Identifier, typeExpr TypeExpression) *FunctionParameter {
	return &FunctionParameter{nodeImpl: newNodeImpl(NodeFunctionParameter), Name: name, Type: typeExpr}
}

type FunctionDefinition struct {
	nodeImpl
	statementMarker

	Name       *Identifier          `json:"name"`
	Params     []*FunctionParameter `json:"params"`
	ReturnType TypeExpression       `json:"returnType,omitempty"`
	Body       *BlockExpression     `json:"body"`
}

func NewFunctionDefinition(name *Identifier, params []*FunctionParameter, returnType TypeExpression, body *BlockExpression) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), Name: name, Params: params, ReturnType: returnType, Body: body}
}

// TypeDeclaration names a shape (`type P { ... }`), an alias
// (`type Age = Int`), or a refinement when Where is set
// (`type Adult = Person where age >= 18`).
type TypeDeclaration struct {
	nodeImpl
	statementMarker

	Name  *Identifier    `json:"name"`
	Body  TypeExpression `json:"body"`
	Where Expression     `json:"where,omitempty"`
}

func NewTypeDeclaration(name *Identifier, body TypeExpression, where Expression) *TypeDeclaration {
	return &TypeDeclaration{nodeImpl: newNodeImpl(NodeTypeDeclaration), Name: name, Body: body, Where: where}
}

type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression       `json:"condition"`
	Body      *BlockExpression `json:"body"`
}

func NewWhileLoop(condition Expression, body *BlockExpression) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

type ForLoop struct {
	nodeImpl
	statementMarker

	Binding  *Identifier      `json:"binding"`
	Iterable Expression       `json:"iterable"`
	Body     *BlockExpression `json:"body"`
}

func NewForLoop(binding *Identifier, iterable Expression, body *BlockExpression) *ForLoop {
	return &ForLoop{nodeImpl: newNodeImpl(NodeForLoop), Binding: binding, Iterable: iterable, Body: body}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument,omitempty"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

// ImportStatement brings another module's top-level bindings into scope under
// the final path segment.
type ImportStatement struct {
	nodeImpl
	statementMarker

	Path string `json:"path"`
}

func NewImportStatement(path string) *ImportStatement {
	return &ImportStatement{nodeImpl: newNodeImpl(NodeImportStatement), Path: path}
}

type Module struct {
	nodeImpl

	Imports []*ImportStatement `json:"imports"`
	Body    []Statement        `json:"body"`
}

func NewModule(imports []*ImportStatement, body []Statement) *Module {
	return &Module{nodeImpl: newNodeImpl(NodeModule), Imports: imports, Body: body}
}
