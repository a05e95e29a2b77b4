package ast

import "math/big"

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(big.NewInt(value))
}

func IntBig(value *big.Int) *IntegerLiteral {
	return NewIntegerLiteral(new(big.Int).Set(value))
}

func Flt(value float64) *FloatLiteral {
	return NewFloatLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Nil() *NilLiteral {
	return NewNilLiteral()
}

func List(elements ...Expression) *ListLiteral {
	return NewListLiteral(elements)
}

func Field(name string, value Expression) *RecordFieldInitializer {
	return NewRecordFieldInitializer(ID(name), value)
}

func Rec(typeName string, fields ...*RecordFieldInitializer) *RecordLiteral {
	var id *Identifier
	if typeName != "" {
		id = ID(typeName)
	}
	return NewRecordLiteral(id, fields)
}

func Interp(parts ...Expression) *StringInterpolation {
	return NewStringInterpolation(parts)
}

// Type expression helpers.

func Ty(name string) *SimpleTypeExpression {
	return NewSimpleTypeExpression(ID(name))
}

func RecTyField(name string, typeExpr TypeExpression) *RecordTypeField {
	return NewRecordTypeField(ID(name), typeExpr)
}

func RecTy(fields ...*RecordTypeField) *RecordTypeExpression {
	return NewRecordTypeExpression(fields)
}

func ListTy(element TypeExpression) *ListTypeExpression {
	return NewListTypeExpression(element)
}

func FnTy(params []TypeExpression, returnType TypeExpression) *FunctionTypeExpression {
	return NewFunctionTypeExpression(params, returnType)
}

func Nullable(inner TypeExpression) *NullableTypeExpression {
	return NewNullableTypeExpression(inner)
}

func UnionTy(members ...TypeExpression) *UnionTypeExpression {
	return NewUnionTypeExpression(members)
}

// Expression helpers.

func Un(operator string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand)
}

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func Assign(target, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(target, value)
}

func Call(callee Expression, args ...Expression) *FunctionCall {
	return NewFunctionCall(callee, args)
}

func CallN(name string, args ...Expression) *FunctionCall {
	return NewFunctionCall(ID(name), args)
}

func Member(object Expression, member string) *MemberAccessExpression {
	return NewMemberAccessExpression(object, ID(member))
}

func Index(object, index Expression) *IndexExpression {
	return NewIndexExpression(object, index)
}

func Rng(start, end Expression) *RangeExpression {
	return NewRangeExpression(start, end)
}

func Param(name string, typeExpr TypeExpression) *FunctionParameter {
	return NewFunctionParameter(ID(name), typeExpr)
}

func Lam(params []*FunctionParameter, body Expression) *LambdaExpression {
	return NewLambdaExpression(params, nil, body)
}

func Block(body ...Statement) *BlockExpression {
	return NewBlockExpression(body)
}

func If(condition Expression, body *BlockExpression, orClauses ...*OrClause) *IfExpression {
	return NewIfExpression(condition, body, orClauses)
}

func Elsif(condition Expression, body *BlockExpression) *OrClause {
	return NewOrClause(condition, body)
}

func Else(body *BlockExpression) *OrClause {
	return NewOrClause(nil, body)
}

func Match(subject Expression, clauses ...*MatchClause) *MatchExpression {
	return NewMatchExpression(subject, clauses)
}

func Case(pattern Pattern, body Expression) *MatchClause {
	return NewMatchClause(pattern, nil, body)
}

func CaseIf(pattern Pattern, guard Expression, body Expression) *MatchClause {
	return NewMatchClause(pattern, guard, body)
}

func Is(value Expression, typeExpr TypeExpression) *IsExpression {
	return NewIsExpression(value, typeExpr)
}

// Pattern helpers.

func Wildcard() *WildcardPattern {
	return NewWildcardPattern()
}

func LitP(literal Literal) *LiteralPattern {
	return NewLiteralPattern(literal)
}

func TypedP(pattern Pattern, typeExpr TypeExpression) *TypedPattern {
	return NewTypedPattern(pattern, typeExpr)
}

func RecFieldP(name string, pattern Pattern) *RecordPatternField {
	return NewRecordPatternField(ID(name), pattern)
}

func RecP(typeName string, fields ...*RecordPatternField) *RecordPattern {
	var id *Identifier
	if typeName != "" {
		id = ID(typeName)
	}
	return NewRecordPattern(id, fields)
}

// Statement helpers.

func Let(name string, typeExpr TypeExpression, value Expression) *VariableDeclaration {
	return NewVariableDeclaration(false, ID(name), typeExpr, value)
}

func Var(name string, typeExpr TypeExpression, value Expression) *VariableDeclaration {
	return NewVariableDeclaration(true, ID(name), typeExpr, value)
}

func Fn(name string, params []*FunctionParameter, returnType TypeExpression, body ...Statement) *FunctionDefinition {
	return NewFunctionDefinition(ID(name), params, returnType, Block(body...))
}

func TyDecl(name string, body TypeExpression) *TypeDeclaration {
	return NewTypeDeclaration(ID(name), body, nil)
}

func TyWhere(name string, body TypeExpression, where Expression) *TypeDeclaration {
	return NewTypeDeclaration(ID(name), body, where)
}

func While(condition Expression, body *BlockExpression) *WhileLoop {
	return NewWhileLoop(condition, body)
}

func For(binding string, iterable Expression, body *BlockExpression) *ForLoop {
	return NewForLoop(ID(binding), iterable, body)
}

func Ret(argument Expression) *ReturnStatement {
	return NewReturnStatement(argument)
}

func Brk() *BreakStatement {
	return NewBreakStatement()
}

func Cont() *ContinueStatement {
	return NewContinueStatement()
}

func Imp(path string) *ImportStatement {
	return NewImportStatement(path)
}

func Mod(imports []*ImportStatement, body ...Statement) *Module {
	return NewModule(imports, body)
}
