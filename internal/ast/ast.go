// Package ast 定义 PSR 源代码的抽象语法树
package ast

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/psrlang/psr/internal/token"
)

// Node 是所有 AST 节点的基接口
type Node interface {
	Pos() token.Position // 返回节点在源代码中的位置
	End() token.Position // 返回节点结束位置
	String() string      // 返回节点的字符串表示（用于调试）
}

// Expression 表示一个表达式节点
type Expression interface {
	Node
	exprNode()
}

// Statement 表示一个语句节点
type Statement interface {
	Node
	stmtNode()
}

// Declaration 表示一个声明节点
type Declaration interface {
	Node
	declNode()
}

// TypeNode 表示类型节点
type TypeNode interface {
	Node
	typeNode()
}

// ============================================================================
// 文件
// ============================================================================

// File 一个编译单元（一个 .psr 文件）
type File struct {
	Filename string
	Body     []Node // 顶层声明和语句，按出现顺序
}

func (f *File) Pos() token.Position {
	if len(f.Body) > 0 {
		return f.Body[0].Pos()
	}
	return token.Position{Filename: f.Filename, Line: 1, Column: 1}
}
func (f *File) End() token.Position {
	if len(f.Body) > 0 {
		return f.Body[len(f.Body)-1].End()
	}
	return token.Position{Filename: f.Filename, Line: 1, Column: 1}
}
func (f *File) String() string {
	var parts []string
	for _, n := range f.Body {
		parts = append(parts, n.String())
	}
	return strings.Join(parts, "\n")
}

// ============================================================================
// 类型节点
// ============================================================================

// SimpleType 简单类型引用 (number, string, User, ...)
type SimpleType struct {
	Token token.Token // 类型名 token
	Name  string
}

func (t *SimpleType) Pos() token.Position { return t.Token.Pos }
func (t *SimpleType) End() token.Position { return t.Token.EndPos() }
func (t *SimpleType) String() string      { return t.Name }
func (t *SimpleType) typeNode()           {}

// GenericType 泛型类型实例化 Array<string>, Map<K, V>
type GenericType struct {
	BaseType TypeNode
	LAngle   token.Token // <
	TypeArgs []TypeNode
	RAngle   token.Token // >
}

func (t *GenericType) Pos() token.Position { return t.BaseType.Pos() }
func (t *GenericType) End() token.Position { return t.RAngle.EndPos() }
func (t *GenericType) String() string {
	var args []string
	for _, arg := range t.TypeArgs {
		args = append(args, arg.String())
	}
	return t.BaseType.String() + "<" + strings.Join(args, ", ") + ">"
}
func (t *GenericType) typeNode() {}

// UnionType 联合类型 (T | null)
type UnionType struct {
	Types []TypeNode // 至少 2 个
}

func (t *UnionType) Pos() token.Position { return t.Types[0].Pos() }
func (t *UnionType) End() token.Position { return t.Types[len(t.Types)-1].End() }
func (t *UnionType) String() string {
	var parts []string
	for _, typ := range t.Types {
		parts = append(parts, typ.String())
	}
	return strings.Join(parts, " | ")
}
func (t *UnionType) typeNode() {}

// NullType null 类型（联合类型的一员）
type NullType struct {
	Token token.Token
}

func (t *NullType) Pos() token.Position { return t.Token.Pos }
func (t *NullType) End() token.Position { return t.Token.EndPos() }
func (t *NullType) String() string      { return "null" }
func (t *NullType) typeNode()           {}

// ArrayType 数组类型 (string[])
type ArrayType struct {
	ElementType TypeNode
	LBracket    token.Token
	RBracket    token.Token
}

func (t *ArrayType) Pos() token.Position { return t.ElementType.Pos() }
func (t *ArrayType) End() token.Position { return t.RBracket.EndPos() }
func (t *ArrayType) String() string      { return t.ElementType.String() + "[]" }
func (t *ArrayType) typeNode()           {}

// ReadonlyType readonly 修饰的类型
type ReadonlyType struct {
	Token token.Token // readonly
	Inner TypeNode
}

func (t *ReadonlyType) Pos() token.Position { return t.Token.Pos }
func (t *ReadonlyType) End() token.Position { return t.Inner.End() }
func (t *ReadonlyType) String() string      { return "readonly " + t.Inner.String() }
func (t *ReadonlyType) typeNode()           {}

// TypeParameter 泛型类型参数 <T extends Base>
type TypeParameter struct {
	Name       token.Token
	Constraint TypeNode // extends 后的约束，可为 nil
}

func (t *TypeParameter) Pos() token.Position { return t.Name.Pos }
func (t *TypeParameter) End() token.Position {
	if t.Constraint != nil {
		return t.Constraint.End()
	}
	return t.Name.EndPos()
}
func (t *TypeParameter) String() string {
	if t.Constraint != nil {
		return t.Name.Literal + " extends " + t.Constraint.String()
	}
	return t.Name.Literal
}
func (t *TypeParameter) typeNode() {}

// ============================================================================
// 表达式节点
// ============================================================================

// Identifier 标识符
type Identifier struct {
	Token token.Token
	Name  string
}

func (e *Identifier) Pos() token.Position { return e.Token.Pos }
func (e *Identifier) End() token.Position { return e.Token.EndPos() }
func (e *Identifier) String() string      { return e.Name }
func (e *Identifier) exprNode()           {}

// IntegerLiteral 整数字面量
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (e *IntegerLiteral) Pos() token.Position { return e.Token.Pos }
func (e *IntegerLiteral) End() token.Position { return e.Token.EndPos() }
func (e *IntegerLiteral) String() string      { return e.Token.Literal }
func (e *IntegerLiteral) exprNode()           {}

// FloatLiteral 浮点数字面量
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (e *FloatLiteral) Pos() token.Position { return e.Token.Pos }
func (e *FloatLiteral) End() token.Position { return e.Token.EndPos() }
func (e *FloatLiteral) String() string      { return e.Token.Literal }
func (e *FloatLiteral) exprNode()           {}

// StringLiteral 字符串字面量
type StringLiteral struct {
	Token token.Token
	Value string // 转义处理后的值
}

func (e *StringLiteral) Pos() token.Position { return e.Token.Pos }
func (e *StringLiteral) End() token.Position { return e.Token.EndPos() }
func (e *StringLiteral) String() string      { return e.Token.Literal }
func (e *StringLiteral) exprNode()           {}

// BooleanLiteral 布尔字面量
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (e *BooleanLiteral) Pos() token.Position { return e.Token.Pos }
func (e *BooleanLiteral) End() token.Position { return e.Token.EndPos() }
func (e *BooleanLiteral) String() string      { return e.Token.Literal }
func (e *BooleanLiteral) exprNode()           {}

// NullLiteral null 字面量
type NullLiteral struct {
	Token token.Token
}

func (e *NullLiteral) Pos() token.Position { return e.Token.Pos }
func (e *NullLiteral) End() token.Position { return e.Token.EndPos() }
func (e *NullLiteral) String() string      { return "null" }
func (e *NullLiteral) exprNode()           {}

// TemplateLiteral 模板字符串 `a ${x} b`
//
// Quasis 是文本段（转义处理后），Exprs 是插值表达式，
// 恒有 len(Quasis) == len(Exprs) + 1。
type TemplateLiteral struct {
	Start  token.Token // TEMPLATE_HEAD 或 TEMPLATE_NO_SUB
	EndTok token.Token // TEMPLATE_TAIL 或与 Start 相同
	Quasis []string
	Exprs  []Expression
}

func (e *TemplateLiteral) Pos() token.Position { return e.Start.Pos }
func (e *TemplateLiteral) End() token.Position { return e.EndTok.EndPos() }
func (e *TemplateLiteral) String() string {
	var sb strings.Builder
	sb.WriteByte('`')
	for i, q := range e.Quasis {
		sb.WriteString(q)
		if i < len(e.Exprs) {
			sb.WriteString("${")
			sb.WriteString(e.Exprs[i].String())
			sb.WriteString("}")
		}
	}
	sb.WriteByte('`')
	return sb.String()
}
func (e *TemplateLiteral) exprNode() {}

// ArrayLiteral 数组字面量 [1, 2, 3]
type ArrayLiteral struct {
	LBracket token.Token
	Elements []Expression
	RBracket token.Token
}

func (e *ArrayLiteral) Pos() token.Position { return e.LBracket.Pos }
func (e *ArrayLiteral) End() token.Position { return e.RBracket.EndPos() }
func (e *ArrayLiteral) String() string {
	var parts []string
	for _, el := range e.Elements {
		parts = append(parts, el.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (e *ArrayLiteral) exprNode() {}

// ObjectProperty 对象字面量的一个属性
type ObjectProperty struct {
	Key       token.Token // IDENT 或 STRING
	Value     Expression  // 简写属性时为 nil
	Shorthand bool
}

// ObjectLiteral 对象字面量 {a: 1, b}
type ObjectLiteral struct {
	LBrace     token.Token
	Properties []*ObjectProperty
	RBrace     token.Token
}

func (e *ObjectLiteral) Pos() token.Position { return e.LBrace.Pos }
func (e *ObjectLiteral) End() token.Position { return e.RBrace.EndPos() }
func (e *ObjectLiteral) String() string {
	var parts []string
	for _, p := range e.Properties {
		if p.Shorthand {
			parts = append(parts, p.Key.Literal)
		} else {
			parts = append(parts, p.Key.Literal+": "+p.Value.String())
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (e *ObjectLiteral) exprNode() {}

// PrefixExpr 前缀表达式 (!x, -x)
type PrefixExpr struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (e *PrefixExpr) Pos() token.Position { return e.Token.Pos }
func (e *PrefixExpr) End() token.Position { return e.Right.End() }
func (e *PrefixExpr) String() string      { return "(" + e.Operator + e.Right.String() + ")" }
func (e *PrefixExpr) exprNode()           {}

// BinaryExpr 二元表达式 (a + b)
type BinaryExpr struct {
	Left     Expression
	Token    token.Token
	Operator string
	Right    Expression
}

func (e *BinaryExpr) Pos() token.Position { return e.Left.Pos() }
func (e *BinaryExpr) End() token.Position { return e.Right.End() }
func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}
func (e *BinaryExpr) exprNode() {}

// AssignExpr 赋值表达式 (x = v, x += v)
type AssignExpr struct {
	Target   Expression
	Token    token.Token
	Operator string
	Value    Expression
}

func (e *AssignExpr) Pos() token.Position { return e.Target.Pos() }
func (e *AssignExpr) End() token.Position { return e.Value.End() }
func (e *AssignExpr) String() string {
	return e.Target.String() + " " + e.Operator + " " + e.Value.String()
}
func (e *AssignExpr) exprNode() {}

// ConditionalExpr 条件表达式 (cond ? a : b)
type ConditionalExpr struct {
	Cond Expression
	Then Expression
	Else Expression
}

func (e *ConditionalExpr) Pos() token.Position { return e.Cond.Pos() }
func (e *ConditionalExpr) End() token.Position { return e.Else.End() }
func (e *ConditionalExpr) String() string {
	return "(" + e.Cond.String() + " ? " + e.Then.String() + " : " + e.Else.String() + ")"
}
func (e *ConditionalExpr) exprNode() {}

// CallExpr 调用表达式 (f(a, b))
type CallExpr struct {
	Callee   Expression
	TypeArgs []TypeNode // 显式类型实参，可为 nil
	LParen   token.Token
	Args     []Expression
	RParen   token.Token
}

func (e *CallExpr) Pos() token.Position { return e.Callee.Pos() }
func (e *CallExpr) End() token.Position { return e.RParen.EndPos() }
func (e *CallExpr) String() string {
	var args []string
	for _, a := range e.Args {
		args = append(args, a.String())
	}
	return e.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}
func (e *CallExpr) exprNode() {}

// MemberExpr 成员访问 (obj.prop)
type MemberExpr struct {
	Object   Expression
	Property token.Token
}

func (e *MemberExpr) Pos() token.Position { return e.Object.Pos() }
func (e *MemberExpr) End() token.Position { return e.Property.EndPos() }
func (e *MemberExpr) String() string      { return e.Object.String() + "." + e.Property.Literal }
func (e *MemberExpr) exprNode()           {}

// IndexExpr 下标访问 (arr[i])
type IndexExpr struct {
	Object   Expression
	LBracket token.Token
	Index    Expression
	RBracket token.Token
}

func (e *IndexExpr) Pos() token.Position { return e.Object.Pos() }
func (e *IndexExpr) End() token.Position { return e.RBracket.EndPos() }
func (e *IndexExpr) String() string {
	return e.Object.String() + "[" + e.Index.String() + "]"
}
func (e *IndexExpr) exprNode() {}

// Parameter 一个参数（组件或箭头函数）
type Parameter struct {
	Name    token.Token
	Type    TypeNode   // 类型标注，可为 nil
	Default Expression // 默认值，可为 nil
}

func (p *Parameter) Pos() token.Position { return p.Name.Pos }
func (p *Parameter) End() token.Position {
	if p.Default != nil {
		return p.Default.End()
	}
	if p.Type != nil {
		return p.Type.End()
	}
	return p.Name.EndPos()
}
func (p *Parameter) String() string {
	s := p.Name.Literal
	if p.Type != nil {
		s += ": " + p.Type.String()
	}
	if p.Default != nil {
		s += " = " + p.Default.String()
	}
	return s
}

// ArrowFuncExpr 箭头函数 ((a, b) => expr 或 () => { ... })
//
// Body 是 *BlockStmt 或 Expression 二者之一。
type ArrowFuncExpr struct {
	LParen token.Token
	Params []*Parameter
	Arrow  token.Token
	Body   Node
}

func (e *ArrowFuncExpr) Pos() token.Position { return e.LParen.Pos }
func (e *ArrowFuncExpr) End() token.Position { return e.Body.End() }
func (e *ArrowFuncExpr) String() string {
	var params []string
	for _, p := range e.Params {
		params = append(params, p.String())
	}
	return "(" + strings.Join(params, ", ") + ") => " + e.Body.String()
}
func (e *ArrowFuncExpr) exprNode() {}

// SpreadExpr 展开表达式 (...props)
type SpreadExpr struct {
	Ellipsis token.Token
	Arg      Expression
}

func (e *SpreadExpr) Pos() token.Position { return e.Ellipsis.Pos }
func (e *SpreadExpr) End() token.Position { return e.Arg.End() }
func (e *SpreadExpr) String() string      { return "..." + e.Arg.String() }
func (e *SpreadExpr) exprNode()           {}

// ============================================================================
// 标记节点
// ============================================================================

// MarkupAttribute 标记属性
//
// 四种形态：
//
//	disabled           裸属性 (Value == nil, Spread == nil)
//	class="btn"        字符串值
//	onClick={handler}  表达式值
//	{...props}         展开 (Spread != nil，其余字段为零值)
type MarkupAttribute struct {
	Name   token.Token
	Value  Expression
	Spread Expression
}

func (a *MarkupAttribute) Pos() token.Position {
	if a.Spread != nil {
		return a.Spread.Pos()
	}
	return a.Name.Pos
}
func (a *MarkupAttribute) End() token.Position {
	if a.Spread != nil {
		return a.Spread.End()
	}
	if a.Value != nil {
		return a.Value.End()
	}
	return a.Name.EndPos()
}
func (a *MarkupAttribute) String() string {
	if a.Spread != nil {
		return "{..." + a.Spread.String() + "}"
	}
	if a.Value != nil {
		return a.Name.Literal + "=" + a.Value.String()
	}
	return a.Name.Literal
}

// MarkupElement 标记元素
//
// 首字母大写的标签名是组件引用，小写是原生元素；
// 用 IsComponentRef 区分。自闭合元素没有子节点和闭合标签。
type MarkupElement struct {
	TagOpen    token.Token // <
	TagName    token.Token
	Attributes []*MarkupAttribute
	SelfClose  bool
	Children   []Node      // 子节点：MarkupElement / MarkupText / SignalBindingExpr / 表达式
	CloseName  token.Token // 闭合标签名（自闭合时为零值）
	TagEnd     token.Token // 末尾的 > 或 />
}

func (e *MarkupElement) Pos() token.Position { return e.TagOpen.Pos }
func (e *MarkupElement) End() token.Position { return e.TagEnd.EndPos() }
func (e *MarkupElement) String() string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(e.TagName.Literal)
	for _, attr := range e.Attributes {
		sb.WriteByte(' ')
		sb.WriteString(attr.String())
	}
	if e.SelfClose {
		sb.WriteString(" />")
		return sb.String()
	}
	sb.WriteByte('>')
	for _, c := range e.Children {
		sb.WriteString(c.String())
	}
	sb.WriteString("</")
	sb.WriteString(e.TagName.Literal)
	sb.WriteByte('>')
	return sb.String()
}
func (e *MarkupElement) exprNode() {}

// IsComponentRef 标签名首字母大写即为组件引用
func (e *MarkupElement) IsComponentRef() bool {
	r, _ := utf8.DecodeRuneInString(e.TagName.Literal)
	return unicode.IsUpper(r)
}

// ComponentRef 组件引用 <Widget ... />
//
// 结构与原生元素相同，但作为独立的节点形态交付，
// 消费方按节点类型区分，不必重新检查标签名大小写。
type ComponentRef struct {
	MarkupElement
}

// MarkupText 标记文本（空白有意义）
type MarkupText struct {
	Token token.Token
	Value string
}

func (e *MarkupText) Pos() token.Position { return e.Token.Pos }
func (e *MarkupText) End() token.Position { return e.Token.EndPos() }
func (e *MarkupText) String() string      { return e.Value }
func (e *MarkupText) exprNode()           {}

// SignalBindingExpr 信号绑定 $(name)
type SignalBindingExpr struct {
	Token token.Token
	Name  string
}

func (e *SignalBindingExpr) Pos() token.Position { return e.Token.Pos }
func (e *SignalBindingExpr) End() token.Position { return e.Token.EndPos() }
func (e *SignalBindingExpr) String() string      { return "$(" + e.Name + ")" }
func (e *SignalBindingExpr) exprNode()           {}

// ============================================================================
// 语句节点
// ============================================================================

// BlockStmt 语句块 { ... }
type BlockStmt struct {
	LBrace     token.Token
	Statements []Statement
	RBrace     token.Token
}

func (s *BlockStmt) Pos() token.Position { return s.LBrace.Pos }
func (s *BlockStmt) End() token.Position { return s.RBrace.EndPos() }
func (s *BlockStmt) String() string {
	var parts []string
	for _, stmt := range s.Statements {
		parts = append(parts, stmt.String())
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}
func (s *BlockStmt) stmtNode() {}

// ExprStmt 表达式语句
type ExprStmt struct {
	Expr Expression
}

func (s *ExprStmt) Pos() token.Position { return s.Expr.Pos() }
func (s *ExprStmt) End() token.Position { return s.Expr.End() }
func (s *ExprStmt) String() string      { return s.Expr.String() }
func (s *ExprStmt) stmtNode()           {}

// VarDeclStmt 变量声明 (const/let)
//
// 单名绑定用 Name；解构绑定用 Destructuring（此时 Name 为零值），
// 形如 const [count, setCount] = createSignal(0)。
type VarDeclStmt struct {
	DeclToken     token.Token // const 或 let
	Name          token.Token
	Destructuring []token.Token // 解构出的绑定名
	ArrayPattern  bool          // 解构样式：true 为 [a, b]，false 为 {a, b}
	Type          TypeNode      // 类型标注，可为 nil
	Value         Expression    // 初始化表达式，可为 nil
}

func (s *VarDeclStmt) Pos() token.Position { return s.DeclToken.Pos }
func (s *VarDeclStmt) End() token.Position {
	if s.Value != nil {
		return s.Value.End()
	}
	if s.Type != nil {
		return s.Type.End()
	}
	if len(s.Destructuring) > 0 {
		return s.Destructuring[len(s.Destructuring)-1].EndPos()
	}
	return s.Name.EndPos()
}
func (s *VarDeclStmt) String() string {
	var sb strings.Builder
	sb.WriteString(s.DeclToken.Literal)
	sb.WriteByte(' ')
	if len(s.Destructuring) > 0 {
		var names []string
		for _, n := range s.Destructuring {
			names = append(names, n.Literal)
		}
		opener, closer := "[", "]"
		if !s.ArrayPattern {
			opener, closer = "{", "}"
		}
		sb.WriteString(opener + strings.Join(names, ", ") + closer)
	} else {
		sb.WriteString(s.Name.Literal)
	}
	if s.Type != nil {
		sb.WriteString(": " + s.Type.String())
	}
	if s.Value != nil {
		sb.WriteString(" = " + s.Value.String())
	}
	return sb.String()
}
func (s *VarDeclStmt) stmtNode() {}

// BindingNames 返回这条声明引入的全部绑定名
func (s *VarDeclStmt) BindingNames() []string {
	if len(s.Destructuring) > 0 {
		names := make([]string, len(s.Destructuring))
		for i, n := range s.Destructuring {
			names[i] = n.Literal
		}
		return names
	}
	return []string{s.Name.Literal}
}

// ReturnStmt return 语句
type ReturnStmt struct {
	Token token.Token
	Value Expression // 可为 nil
}

func (s *ReturnStmt) Pos() token.Position { return s.Token.Pos }
func (s *ReturnStmt) End() token.Position {
	if s.Value != nil {
		return s.Value.End()
	}
	return s.Token.EndPos()
}
func (s *ReturnStmt) String() string {
	if s.Value != nil {
		return "return " + s.Value.String()
	}
	return "return"
}
func (s *ReturnStmt) stmtNode() {}

// IfStmt if 语句
//
// Else 是 *BlockStmt 或 *IfStmt（else if 链），可为 nil。
type IfStmt struct {
	Token token.Token
	Cond  Expression
	Then  *BlockStmt
	Else  Statement
}

func (s *IfStmt) Pos() token.Position { return s.Token.Pos }
func (s *IfStmt) End() token.Position {
	if s.Else != nil {
		return s.Else.End()
	}
	return s.Then.End()
}
func (s *IfStmt) String() string {
	result := "if (" + s.Cond.String() + ") " + s.Then.String()
	if s.Else != nil {
		result += " else " + s.Else.String()
	}
	return result
}
func (s *IfStmt) stmtNode() {}

// ============================================================================
// 声明节点
// ============================================================================

// ComponentDecl 组件声明
type ComponentDecl struct {
	Token      token.Token // component 关键字
	Name       token.Token
	TypeParams []*TypeParameter // 泛型参数，可为 nil
	Params     []*Parameter
	ReturnType TypeNode // 可为 nil
	Body       *BlockStmt
}

func (d *ComponentDecl) Pos() token.Position { return d.Token.Pos }
func (d *ComponentDecl) End() token.Position { return d.Body.End() }
func (d *ComponentDecl) String() string {
	var sb strings.Builder
	sb.WriteString("component ")
	sb.WriteString(d.Name.Literal)
	if len(d.TypeParams) > 0 {
		var tps []string
		for _, tp := range d.TypeParams {
			tps = append(tps, tp.String())
		}
		sb.WriteString("<" + strings.Join(tps, ", ") + ">")
	}
	var params []string
	for _, p := range d.Params {
		params = append(params, p.String())
	}
	sb.WriteString("(" + strings.Join(params, ", ") + ")")
	if d.ReturnType != nil {
		sb.WriteString(": " + d.ReturnType.String())
	}
	sb.WriteString(" " + d.Body.String())
	return sb.String()
}
func (d *ComponentDecl) declNode() {}
func (d *ComponentDecl) stmtNode() {}

// TypeAliasDecl 类型别名声明 (type Name<T> = ...)
type TypeAliasDecl struct {
	Token      token.Token // type 关键字
	Name       token.Token
	TypeParams []*TypeParameter
	Aliased    TypeNode
}

func (d *TypeAliasDecl) Pos() token.Position { return d.Token.Pos }
func (d *TypeAliasDecl) End() token.Position { return d.Aliased.End() }
func (d *TypeAliasDecl) String() string {
	var sb strings.Builder
	sb.WriteString("type ")
	sb.WriteString(d.Name.Literal)
	if len(d.TypeParams) > 0 {
		var tps []string
		for _, tp := range d.TypeParams {
			tps = append(tps, tp.String())
		}
		sb.WriteString("<" + strings.Join(tps, ", ") + ">")
	}
	sb.WriteString(" = " + d.Aliased.String())
	return sb.String()
}
func (d *TypeAliasDecl) declNode() {}
func (d *TypeAliasDecl) stmtNode() {}

// ImportKind 导入说明符的种类
type ImportKind int

const (
	ImportNamed     ImportKind = iota // import { a } from "m"
	ImportDefault                     // import a from "m"
	ImportNamespace                   // import * as a from "m"
)

func (k ImportKind) String() string {
	switch k {
	case ImportDefault:
		return "ImportDefaultSpecifier"
	case ImportNamespace:
		return "ImportNamespaceSpecifier"
	default:
		return "ImportSpecifier"
	}
}

// ImportSpecifier 一个导入说明符
type ImportSpecifier struct {
	Kind  ImportKind
	Name  token.Token // 导出名（namespace 导入时为 * token）
	Alias token.Token // as 后的本地名，可为零值
}

// LocalName 该说明符在本模块内引入的名字
func (s *ImportSpecifier) LocalName() string {
	if s.Alias.Literal != "" {
		return s.Alias.Literal
	}
	return s.Name.Literal
}

// ImportDecl 导入声明
//
// Specifiers 为空表示副作用导入 (import "m")。
type ImportDecl struct {
	Token      token.Token // import 关键字
	Specifiers []*ImportSpecifier
	Path       token.Token // 模块路径字符串
}

func (d *ImportDecl) Pos() token.Position { return d.Token.Pos }
func (d *ImportDecl) End() token.Position { return d.Path.EndPos() }
func (d *ImportDecl) String() string {
	if len(d.Specifiers) == 0 {
		return "import " + d.Path.Literal
	}
	var defaultName, namespace string
	var named []string
	for _, s := range d.Specifiers {
		switch s.Kind {
		case ImportDefault:
			defaultName = s.LocalName()
		case ImportNamespace:
			namespace = "* as " + s.LocalName()
		default:
			if s.Alias.Literal != "" {
				named = append(named, s.Name.Literal+" as "+s.Alias.Literal)
			} else {
				named = append(named, s.Name.Literal)
			}
		}
	}
	var parts []string
	if defaultName != "" {
		parts = append(parts, defaultName)
	}
	if namespace != "" {
		parts = append(parts, namespace)
	}
	if len(named) > 0 {
		parts = append(parts, "{ "+strings.Join(named, ", ")+" }")
	}
	return "import " + strings.Join(parts, ", ") + " from " + d.Path.Literal
}
func (d *ImportDecl) declNode() {}
func (d *ImportDecl) stmtNode() {}

// ExportSpecifier 一个导出说明符 (export { a as b })
type ExportSpecifier struct {
	Name  token.Token
	Alias token.Token // 可为零值
}

// ExportDecl 导出声明
//
// 四种形态：
//
//	export component App() {...}   Decl != nil
//	export default expr            Default == true, Expr != nil
//	export { a, b as c }           Specifiers != nil
//	export { a } from "m"          Specifiers != nil 且 Source 非零值
type ExportDecl struct {
	Token      token.Token // export 关键字
	Default    bool
	Decl       Declaration
	Expr       Expression
	Specifiers []*ExportSpecifier
	Source     token.Token // 再导出的模块路径，可为零值
}

func (d *ExportDecl) Pos() token.Position { return d.Token.Pos }
func (d *ExportDecl) End() token.Position {
	if d.Decl != nil {
		return d.Decl.End()
	}
	if d.Expr != nil {
		return d.Expr.End()
	}
	if d.Source.Literal != "" {
		return d.Source.EndPos()
	}
	return d.Token.EndPos()
}
func (d *ExportDecl) String() string {
	var sb strings.Builder
	sb.WriteString("export ")
	if d.Default {
		sb.WriteString("default ")
	}
	switch {
	case d.Decl != nil:
		sb.WriteString(d.Decl.String())
	case d.Expr != nil:
		sb.WriteString(d.Expr.String())
	default:
		var parts []string
		for _, s := range d.Specifiers {
			if s.Alias.Literal != "" {
				parts = append(parts, s.Name.Literal+" as "+s.Alias.Literal)
			} else {
				parts = append(parts, s.Name.Literal)
			}
		}
		sb.WriteString("{ " + strings.Join(parts, ", ") + " }")
		if d.Source.Literal != "" {
			sb.WriteString(" from " + d.Source.Literal)
		}
	}
	return sb.String()
}
func (d *ExportDecl) declNode() {}
func (d *ExportDecl) stmtNode() {}

// ExportVarDecl 导出的变量声明 (export const x = 1)
//
// 变量声明在语句层是 Statement，包一层让它能作为 ExportDecl.Decl。
type ExportVarDecl struct {
	Var *VarDeclStmt
}

func (d *ExportVarDecl) Pos() token.Position { return d.Var.Pos() }
func (d *ExportVarDecl) End() token.Position { return d.Var.End() }
func (d *ExportVarDecl) String() string      { return d.Var.String() }
func (d *ExportVarDecl) declNode()           {}
