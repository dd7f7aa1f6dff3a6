package ast

import (
	"github.com/psrlang/psr/internal/token"
)

// ============================================================================
// AST 节点工厂函数
// ============================================================================
//
// 所有节点统一经工厂函数从 Arena 分配，Parser 不直接 new 节点。
//
// PERF: 工厂函数都是内联友好的简单函数
//
// ============================================================================

// ============================================================================
// 类型节点工厂
// ============================================================================

// NewSimpleType 创建简单类型节点
func (a *Arena) NewSimpleType(tok token.Token) *SimpleType {
	node := AllocType[SimpleType](a)
	node.Token = tok
	node.Name = tok.Literal
	return node
}

// NewGenericType 创建泛型类型实例化节点
func (a *Arena) NewGenericType(base TypeNode, lAngle token.Token, args []TypeNode, rAngle token.Token) *GenericType {
	node := AllocType[GenericType](a)
	node.BaseType = base
	node.LAngle = lAngle
	node.TypeArgs = args
	node.RAngle = rAngle
	return node
}

// NewUnionType 创建联合类型节点
func (a *Arena) NewUnionType(types []TypeNode) *UnionType {
	node := AllocType[UnionType](a)
	node.Types = types
	return node
}

// NewNullType 创建 null 类型节点
func (a *Arena) NewNullType(tok token.Token) *NullType {
	node := AllocType[NullType](a)
	node.Token = tok
	return node
}

// NewArrayType 创建数组类型节点
func (a *Arena) NewArrayType(elem TypeNode, lbracket, rbracket token.Token) *ArrayType {
	node := AllocType[ArrayType](a)
	node.ElementType = elem
	node.LBracket = lbracket
	node.RBracket = rbracket
	return node
}

// NewReadonlyType 创建 readonly 类型节点
func (a *Arena) NewReadonlyType(tok token.Token, inner TypeNode) *ReadonlyType {
	node := AllocType[ReadonlyType](a)
	node.Token = tok
	node.Inner = inner
	return node
}

// NewTypeParameter 创建泛型类型参数节点
func (a *Arena) NewTypeParameter(name token.Token, constraint TypeNode) *TypeParameter {
	node := AllocType[TypeParameter](a)
	node.Name = name
	node.Constraint = constraint
	return node
}

// ============================================================================
// 表达式节点工厂
// ============================================================================

// NewIdentifier 创建标识符节点
func (a *Arena) NewIdentifier(tok token.Token) *Identifier {
	node := AllocType[Identifier](a)
	node.Token = tok
	node.Name = tok.Literal
	return node
}

// NewIntegerLiteral 创建整数字面量节点
func (a *Arena) NewIntegerLiteral(tok token.Token, value int64) *IntegerLiteral {
	node := AllocType[IntegerLiteral](a)
	node.Token = tok
	node.Value = value
	return node
}

// NewFloatLiteral 创建浮点数字面量节点
func (a *Arena) NewFloatLiteral(tok token.Token, value float64) *FloatLiteral {
	node := AllocType[FloatLiteral](a)
	node.Token = tok
	node.Value = value
	return node
}

// NewStringLiteral 创建字符串字面量节点
func (a *Arena) NewStringLiteral(tok token.Token, value string) *StringLiteral {
	node := AllocType[StringLiteral](a)
	node.Token = tok
	node.Value = value
	return node
}

// NewBooleanLiteral 创建布尔字面量节点
func (a *Arena) NewBooleanLiteral(tok token.Token, value bool) *BooleanLiteral {
	node := AllocType[BooleanLiteral](a)
	node.Token = tok
	node.Value = value
	return node
}

// NewNullLiteral 创建 null 字面量节点
func (a *Arena) NewNullLiteral(tok token.Token) *NullLiteral {
	node := AllocType[NullLiteral](a)
	node.Token = tok
	return node
}

// NewTemplateLiteral 创建模板字符串节点
func (a *Arena) NewTemplateLiteral(start, end token.Token, quasis []string, exprs []Expression) *TemplateLiteral {
	node := AllocType[TemplateLiteral](a)
	node.Start = start
	node.EndTok = end
	node.Quasis = quasis
	node.Exprs = exprs
	return node
}

// NewArrayLiteral 创建数组字面量节点
func (a *Arena) NewArrayLiteral(lbracket token.Token, elements []Expression, rbracket token.Token) *ArrayLiteral {
	node := AllocType[ArrayLiteral](a)
	node.LBracket = lbracket
	node.Elements = elements
	node.RBracket = rbracket
	return node
}

// NewObjectLiteral 创建对象字面量节点
func (a *Arena) NewObjectLiteral(lbrace token.Token, props []*ObjectProperty, rbrace token.Token) *ObjectLiteral {
	node := AllocType[ObjectLiteral](a)
	node.LBrace = lbrace
	node.Properties = props
	node.RBrace = rbrace
	return node
}

// NewPrefixExpr 创建前缀表达式节点
func (a *Arena) NewPrefixExpr(tok token.Token, right Expression) *PrefixExpr {
	node := AllocType[PrefixExpr](a)
	node.Token = tok
	node.Operator = tok.Literal
	node.Right = right
	return node
}

// NewBinaryExpr 创建二元表达式节点
func (a *Arena) NewBinaryExpr(left Expression, tok token.Token, right Expression) *BinaryExpr {
	node := AllocType[BinaryExpr](a)
	node.Left = left
	node.Token = tok
	node.Operator = tok.Literal
	node.Right = right
	return node
}

// NewAssignExpr 创建赋值表达式节点
func (a *Arena) NewAssignExpr(target Expression, tok token.Token, value Expression) *AssignExpr {
	node := AllocType[AssignExpr](a)
	node.Target = target
	node.Token = tok
	node.Operator = tok.Literal
	node.Value = value
	return node
}

// NewConditionalExpr 创建条件表达式节点
func (a *Arena) NewConditionalExpr(cond, then, els Expression) *ConditionalExpr {
	node := AllocType[ConditionalExpr](a)
	node.Cond = cond
	node.Then = then
	node.Else = els
	return node
}

// NewCallExpr 创建调用表达式节点
func (a *Arena) NewCallExpr(callee Expression, typeArgs []TypeNode, lparen token.Token, args []Expression, rparen token.Token) *CallExpr {
	node := AllocType[CallExpr](a)
	node.Callee = callee
	node.TypeArgs = typeArgs
	node.LParen = lparen
	node.Args = args
	node.RParen = rparen
	return node
}

// NewMemberExpr 创建成员访问节点
func (a *Arena) NewMemberExpr(object Expression, property token.Token) *MemberExpr {
	node := AllocType[MemberExpr](a)
	node.Object = object
	node.Property = property
	return node
}

// NewIndexExpr 创建下标访问节点
func (a *Arena) NewIndexExpr(object Expression, lbracket token.Token, index Expression, rbracket token.Token) *IndexExpr {
	node := AllocType[IndexExpr](a)
	node.Object = object
	node.LBracket = lbracket
	node.Index = index
	node.RBracket = rbracket
	return node
}

// NewParameter 创建参数节点
func (a *Arena) NewParameter(name token.Token, typ TypeNode, def Expression) *Parameter {
	node := AllocType[Parameter](a)
	node.Name = name
	node.Type = typ
	node.Default = def
	return node
}

// NewArrowFuncExpr 创建箭头函数节点
func (a *Arena) NewArrowFuncExpr(lparen token.Token, params []*Parameter, arrow token.Token, body Node) *ArrowFuncExpr {
	node := AllocType[ArrowFuncExpr](a)
	node.LParen = lparen
	node.Params = params
	node.Arrow = arrow
	node.Body = body
	return node
}

// NewSpreadExpr 创建展开表达式节点
func (a *Arena) NewSpreadExpr(ellipsis token.Token, arg Expression) *SpreadExpr {
	node := AllocType[SpreadExpr](a)
	node.Ellipsis = ellipsis
	node.Arg = arg
	return node
}

// ============================================================================
// 标记节点工厂
// ============================================================================

// NewMarkupElement 创建标记元素节点
func (a *Arena) NewMarkupElement(tagOpen, tagName token.Token) *MarkupElement {
	node := AllocType[MarkupElement](a)
	node.TagOpen = tagOpen
	node.TagName = tagName
	return node
}

// NewComponentRef 把解析完的标记元素收敛为组件引用节点
func (a *Arena) NewComponentRef(elem *MarkupElement) *ComponentRef {
	node := AllocType[ComponentRef](a)
	node.MarkupElement = *elem
	return node
}

// NewMarkupAttribute 创建标记属性节点
func (a *Arena) NewMarkupAttribute(name token.Token, value Expression) *MarkupAttribute {
	node := AllocType[MarkupAttribute](a)
	node.Name = name
	node.Value = value
	return node
}

// NewMarkupSpreadAttribute 创建展开属性节点 ({...props})
func (a *Arena) NewMarkupSpreadAttribute(spread Expression) *MarkupAttribute {
	node := AllocType[MarkupAttribute](a)
	node.Spread = spread
	return node
}

// NewMarkupText 创建标记文本节点
func (a *Arena) NewMarkupText(tok token.Token) *MarkupText {
	node := AllocType[MarkupText](a)
	node.Token = tok
	if s, ok := tok.Value.(string); ok {
		node.Value = s
	} else {
		node.Value = tok.Literal
	}
	return node
}

// NewSignalBindingExpr 创建信号绑定节点
func (a *Arena) NewSignalBindingExpr(tok token.Token) *SignalBindingExpr {
	node := AllocType[SignalBindingExpr](a)
	node.Token = tok
	if s, ok := tok.Value.(string); ok {
		node.Name = s
	}
	return node
}

// ============================================================================
// 语句节点工厂
// ============================================================================

// NewBlockStmt 创建语句块节点
func (a *Arena) NewBlockStmt(lbrace token.Token, stmts []Statement, rbrace token.Token) *BlockStmt {
	node := AllocType[BlockStmt](a)
	node.LBrace = lbrace
	node.Statements = stmts
	node.RBrace = rbrace
	return node
}

// NewExprStmt 创建表达式语句节点
func (a *Arena) NewExprStmt(expr Expression) *ExprStmt {
	node := AllocType[ExprStmt](a)
	node.Expr = expr
	return node
}

// NewVarDeclStmt 创建变量声明节点
func (a *Arena) NewVarDeclStmt(declTok token.Token) *VarDeclStmt {
	node := AllocType[VarDeclStmt](a)
	node.DeclToken = declTok
	return node
}

// NewReturnStmt 创建 return 语句节点
func (a *Arena) NewReturnStmt(tok token.Token, value Expression) *ReturnStmt {
	node := AllocType[ReturnStmt](a)
	node.Token = tok
	node.Value = value
	return node
}

// NewIfStmt 创建 if 语句节点
func (a *Arena) NewIfStmt(tok token.Token, cond Expression, then *BlockStmt, els Statement) *IfStmt {
	node := AllocType[IfStmt](a)
	node.Token = tok
	node.Cond = cond
	node.Then = then
	node.Else = els
	return node
}

// ============================================================================
// 声明节点工厂
// ============================================================================

// NewComponentDecl 创建组件声明节点
func (a *Arena) NewComponentDecl(tok, name token.Token) *ComponentDecl {
	node := AllocType[ComponentDecl](a)
	node.Token = tok
	node.Name = name
	return node
}

// NewTypeAliasDecl 创建类型别名声明节点
func (a *Arena) NewTypeAliasDecl(tok, name token.Token) *TypeAliasDecl {
	node := AllocType[TypeAliasDecl](a)
	node.Token = tok
	node.Name = name
	return node
}

// NewImportDecl 创建导入声明节点
func (a *Arena) NewImportDecl(tok token.Token) *ImportDecl {
	node := AllocType[ImportDecl](a)
	node.Token = tok
	return node
}

// NewImportSpecifier 创建导入说明符
func (a *Arena) NewImportSpecifier(kind ImportKind, name, alias token.Token) *ImportSpecifier {
	node := AllocType[ImportSpecifier](a)
	node.Kind = kind
	node.Name = name
	node.Alias = alias
	return node
}

// NewExportDecl 创建导出声明节点
func (a *Arena) NewExportDecl(tok token.Token) *ExportDecl {
	node := AllocType[ExportDecl](a)
	node.Token = tok
	return node
}

// NewExportSpecifier 创建导出说明符
func (a *Arena) NewExportSpecifier(name, alias token.Token) *ExportSpecifier {
	node := AllocType[ExportSpecifier](a)
	node.Name = name
	node.Alias = alias
	return node
}

// NewExportVarDecl 包装变量声明为可导出声明
func (a *Arena) NewExportVarDecl(v *VarDeclStmt) *ExportVarDecl {
	node := AllocType[ExportVarDecl](a)
	node.Var = v
	return node
}

// NewObjectProperty 创建对象属性
func (a *Arena) NewObjectProperty(key token.Token, value Expression, shorthand bool) *ObjectProperty {
	node := AllocType[ObjectProperty](a)
	node.Key = key
	node.Value = value
	node.Shorthand = shorthand
	return node
}
