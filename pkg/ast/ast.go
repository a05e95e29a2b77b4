package ast

import "math/big"

type NodeType string

const (
	NodeIdentifier             NodeType = "Identifier"
	NodeStringLiteral          NodeType = "StringLiteral"
	NodeIntegerLiteral         NodeType = "IntegerLiteral"
	NodeFloatLiteral           NodeType = "FloatLiteral"
	NodeBooleanLiteral         NodeType = "BooleanLiteral"
	NodeNilLiteral             NodeType = "NilLiteral"
	NodeListLiteral            NodeType = "ListLiteral"
	NodeRecordFieldInitializer NodeType = "RecordFieldInitializer"
	NodeRecordLiteral          NodeType = "RecordLiteral"
	NodeStringInterpolation    NodeType = "StringInterpolation"
	NodeUnaryExpression        NodeType = "UnaryExpression"
	NodeBinaryExpression       NodeType = "BinaryExpression"
	NodeAssignmentExpression   NodeType = "AssignmentExpression"
	NodeFunctionCall           NodeType = "FunctionCall"
	NodeMemberAccessExpression NodeType = "MemberAccessExpression"
	NodeIndexExpression        NodeType = "IndexExpression"
	NodeRangeExpression        NodeType = "RangeExpression"
	NodeLambdaExpression       NodeType = "LambdaExpression"
	NodeBlockExpression        NodeType = "BlockExpression"
	NodeIfExpression           NodeType = "IfExpression"
	NodeOrClause               NodeType = "OrClause"
	NodeMatchExpression        NodeType = "MatchExpression"
	NodeMatchClause            NodeType = "MatchClause"
	NodeIsExpression           NodeType = "IsExpression"
	NodeWildcardPattern        NodeType = "WildcardPattern"
	NodeLiteralPattern         NodeType = "LiteralPattern"
	NodeTypedPattern           NodeType = "TypedPattern"
	NodeRecordPatternField     NodeType = "RecordPatternField"
	NodeRecordPattern          NodeType = "RecordPattern"
	NodeSimpleTypeExpression   NodeType = "SimpleTypeExpression"
	NodeRecordTypeField        NodeType = "RecordTypeField"
	NodeRecordTypeExpression   NodeType = "RecordTypeExpression"
	NodeListTypeExpression     NodeType = "ListTypeExpression"
	NodeFunctionTypeExpression NodeType = "FunctionTypeExpression"
	NodeNullableTypeExpression NodeType = "NullableTypeExpression"
	NodeUnionTypeExpression    NodeType = "UnionTypeExpression"
	NodeVariableDeclaration    NodeType = "VariableDeclaration"
	NodeFunctionParameter      NodeType = "FunctionParameter"
	NodeFunctionDefinition     NodeType = "FunctionDefinition"
	NodeTypeDeclaration        NodeType = "TypeDeclaration"
	NodeWhileLoop              NodeType = "WhileLoop"
	NodeForLoop                NodeType = "ForLoop"
	NodeReturnStatement        NodeType = "ReturnStatement"
	NodeBreakStatement         NodeType = "BreakStatement"
	NodeContinueStatement      NodeType = "ContinueStatement"
	NodeImportStatement        NodeType = "ImportStatement"
	NodeModule                 NodeType = "Module"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Pattern interface {
	Node
	patternNode()
}

type patternMarker struct{}

func (patternMarker) patternNode() {}

type TypeExpression interface {
	Node
	typeExpressionNode()
}

type typeExpressionMarker struct{}

func (typeExpressionMarker) typeExpressionNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker
	patternMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

type StringLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value *big.Int `json:"value"`
}

func NewIntegerLiteral(value *big.Int) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type FloatLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value float64 `json:"value"`
}

func NewFloatLiteral(value float64) *FloatLiteral {
	return &FloatLiteral{nodeImpl: newNodeImpl(NodeFloatLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type NilLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker
}

func NewNilLiteral() *NilLiteral {
	return &NilLiteral{nodeImpl: newNodeImpl(NodeNilLiteral)}
}

type ListLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Elements []Expression `json:"elements"`
}

func NewListLiteral(elements []Expression) *ListLiteral {
	return &ListLiteral{nodeImpl: newNodeImpl(NodeListLiteral), Elements: elements}
}

// RecordFieldInitializer names one field of a record literal.
type RecordFieldInitializer struct {
	nodeImpl

	Name  *Identifier `json:"name"`
	Value Expression  `json:"value"`
}

func NewRecordFieldInitializer(name *Identifier, value Expression) *RecordFieldInitializer {
	return &RecordFieldInitializer{nodeImpl: newNodeImpl(NodeRecordFieldInitializer), Name: name, Value: value}
}

// RecordLiteral constructs a record value. TypeName is nil for anonymous
// records; when present it only names the declared shape, compatibility
// stays structural.
type RecordLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	TypeName *Identifier               `json:"typeName,omitempty"`
	Fields   []*RecordFieldInitializer `json:"fields"`
}

func NewRecordLiteral(typeName *Identifier, fields []*RecordFieldInitializer) *RecordLiteral {
	return &RecordLiteral{nodeImpl: newNodeImpl(NodeRecordLiteral), TypeName: typeName, Fields: fields}
}

// StringInterpolation holds alternating literal and expression parts of an
// interpolated string.
type StringInterpolation struct {
	nodeImpl
	expressionMarker
	statementMarker

	Parts []Expression `json:"parts"`
}

func NewStringInterpolation(parts []Expression) *StringInterpolation {
	return &StringInterpolation{nodeImpl: newNodeImpl(NodeStringInterpolation), Parts: parts}
}

// Operators

type UnaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(operator string, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// AssignmentExpression updates an existing binding, member, or index slot.
type AssignmentExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Target Expression `json:"target"`
	Value  Expression `json:"value"`
}

func NewAssignmentExpression(target, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Target: target, Value: value}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee Expression, arguments []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: arguments}
}

type MemberAccessExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression  `json:"object"`
	Member *Identifier `json:"member"`
}

func NewMemberAccessExpression(object Expression, member *Identifier) *MemberAccessExpression {
	return &MemberAccessExpression{nodeImpl: newNodeImpl(NodeMemberAccessExpression), Object: object, Member: member}
}

type IndexExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(object, index Expression) *IndexExpression {
	return &IndexExpression{nodeImpl: newNodeImpl(NodeIndexExpression), Object: object, Index: index}
}

// RangeExpression is the inclusive `start..end` form.
type RangeExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Start Expression `json:"start"`
	End   Expression `json:"end"`
}

func NewRangeExpression(start, end Expression) *RangeExpression {
	return &RangeExpression{nodeImpl: newNodeImpl(NodeRangeExpression), Start: start, End: end}
}

type LambdaExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Params     []*FunctionParameter `json:"params"`
	ReturnType TypeExpression       `json:"returnType,omitempty"`
	Body       Expression           `json:"body"`
}

func NewLambdaExpression(params []*FunctionParameter, returnType TypeExpression, body Expression) *LambdaExpression {
	return &LambdaExpression{nodeImpl: newNodeImpl(NodeLambdaExpression), Params: params, ReturnType: returnType, Body: body}
}

type BlockExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlockExpression(body []Statement) *BlockExpression {
	return &BlockExpression{nodeImpl: newNodeImpl(NodeBlockExpression), Body: body}
}

// OrClause is one `elsif` arm, or the final `else` when Condition is nil.
type OrClause struct {
	nodeImpl

	Condition Expression       `json:"condition,omitempty"`
	Body      *BlockExpression `json:"body"`
}

func NewOrClause(condition Expression, body *BlockExpression) *OrClause {
	return &OrClause{nodeImpl: newNodeImpl(NodeOrClause), Condition: condition, Body: body}
}

type IfExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Condition Expression       `json:"condition"`
	Body      *BlockExpression `json:"body"`
	OrClauses []*OrClause      `json:"orClauses"`
}

func NewIfExpression(condition Expression, body *BlockExpression, orClauses []*OrClause) *IfExpression {
	return &IfExpression{nodeImpl: newNodeImpl(NodeIfExpression), Condition: condition, Body: body, OrClauses: orClauses}
}

type MatchClause struct {
	nodeImpl

	Pattern Pattern    `json:"pattern"`
	Guard   Expression `json:"guard,omitempty"`
	Body    Expression `json:"body"`
}

func NewMatchClause(pattern Pattern, guard Expression, body Expression) *MatchClause {
	return &MatchClause{nodeImpl: newNodeImpl(NodeMatchClause), Pattern: pattern, Guard: guard, Body: body}
}

type MatchExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Subject Expression     `json:"subject"`
	Clauses []*MatchClause `json:"clauses"`
}

func NewMatchExpression(subject Expression, clauses []*MatchClause) *MatchExpression {
	return &MatchExpression{nodeImpl: newNodeImpl(NodeMatchExpression), Subject: subject, Clauses: clauses}
}

// IsExpression tests a value against a type, including its constraint
// predicate, at runtime.
type IsExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value Expression     `json:"value"`
	Type  TypeExpression `json:"typeExpression"`
}

func NewIsExpression(value Expression, typeExpr TypeExpression) *IsExpression {
	return &IsExpression{nodeImpl: newNodeImpl(NodeIsExpression), Value: value, Type: typeExpr}
}
