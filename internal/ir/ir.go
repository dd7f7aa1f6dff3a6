// Package ir 定义分析器输出的语义标注中间表示
//
// IR 与 AST 的区别：
//
//   - 标识符带有分类（局部/参数/导入/全局）
//   - 组件带有响应性信息（使用的信号、响应依赖、注册键）
//   - 标记元素区分原生元素和组件引用，并标出静态子树
//   - 事件属性（on 前缀）被显式标记
//
// IR 一经构建即视为不可变，可以安全地被多个下游消费者共享；
// 整棵树可直接 JSON 序列化（psrc -ir）。
package ir

import (
	"github.com/psrlang/psr/internal/token"
)

// NodeKind IR 节点种类
type NodeKind string

const (
	KindModule        NodeKind = "Module"
	KindImport        NodeKind = "ImportDeclaration"
	KindExport        NodeKind = "ExportDeclaration"
	KindComponent     NodeKind = "Component"
	KindTypeAlias     NodeKind = "TypeAlias"
	KindVarDecl       NodeKind = "VariableDeclaration"
	KindReturn        NodeKind = "ReturnStatement"
	KindIf            NodeKind = "IfStatement"
	KindExprStmt      NodeKind = "ExpressionStatement"
	KindBlock         NodeKind = "Block"
	KindIdentifier    NodeKind = "Identifier"
	KindLiteral       NodeKind = "Literal"
	KindTemplate      NodeKind = "TemplateLiteral"
	KindArray         NodeKind = "ArrayExpression"
	KindObject        NodeKind = "ObjectExpression"
	KindUnary         NodeKind = "UnaryExpression"
	KindBinary        NodeKind = "BinaryExpression"
	KindAssign        NodeKind = "AssignmentExpression"
	KindConditional   NodeKind = "ConditionalExpression"
	KindCall          NodeKind = "CallExpression"
	KindMember        NodeKind = "MemberExpression"
	KindIndex         NodeKind = "IndexExpression"
	KindArrow         NodeKind = "ArrowFunction"
	KindSpread        NodeKind = "SpreadElement"
	KindElement       NodeKind = "Element"
	KindComponentRef  NodeKind = "ComponentReference"
	KindText          NodeKind = "Text"
	KindSignalBinding NodeKind = "SignalBinding"
)

// 导入说明符的 Type 值
const (
	ImportDefaultSpecifier   = "ImportDefaultSpecifier"
	ImportNamedSpecifier     = "ImportSpecifier"
	ImportNamespaceSpecifier = "ImportNamespaceSpecifier"
)

// 标识符分类，优先级 imported > parameter > global > local
const (
	ClassImported  = "imported"  // 模块导入
	ClassParameter = "parameter" // 组件或箭头函数的参数
	ClassGlobal    = "global"    // 不在任何作用域链中（宿主环境提供）
	ClassLocal     = "local"     // 作用域链中声明的绑定
)

// Node IR 节点
type Node interface {
	NodeKind() NodeKind
}

// Loc 源码位置（行列从 1 开始）
type Loc struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span 源码范围
type Span struct {
	Start Loc `json:"start"`
	End   Loc `json:"end"`
}

// SpanOf 从 token 位置构建范围
func SpanOf(start, end token.Position) Span {
	return Span{
		Start: Loc{Line: start.Line, Column: start.Column},
		End:   Loc{Line: end.Line, Column: end.Column},
	}
}

// ============================================================================
// 模块
// ============================================================================

// Module 一个编译单元的 IR 根节点
type Module struct {
	Kind       NodeKind     `json:"type"`
	Filename   string       `json:"filename"`
	Imports    []*Import    `json:"imports"`
	Exports    []*Export    `json:"exports"`
	Components []*Component `json:"components"`
	Statements []Node       `json:"statements,omitempty"` // 其余顶层节点
}

func (m *Module) NodeKind() NodeKind { return KindModule }

// Component 根据注册键查找组件
func (m *Module) Component(registryKey string) *Component {
	for _, c := range m.Components {
		if c.RegistryKey == registryKey {
			return c
		}
	}
	return nil
}

// ImportSpec 一个导入说明符
type ImportSpec struct {
	Type     string `json:"type"` // ImportDefaultSpecifier / ImportSpecifier / ImportNamespaceSpecifier
	Imported string `json:"imported,omitempty"`
	Local    string `json:"local"`
}

// Import 一条导入声明
type Import struct {
	Kind       NodeKind      `json:"type"`
	Specifiers []*ImportSpec `json:"specifiers"`
	Source     string        `json:"source"`
	SideEffect bool          `json:"sideEffect,omitempty"`
	Span       Span          `json:"span"`
}

func (i *Import) NodeKind() NodeKind { return KindImport }

// Export 一条导出声明
type Export struct {
	Kind    NodeKind `json:"type"`
	Default bool     `json:"default,omitempty"`
	Names   []string `json:"names,omitempty"`  // 导出名（本模块可见名）
	Source  string   `json:"source,omitempty"` // 再导出来源
	Decl    Node     `json:"declaration,omitempty"`
	Span    Span     `json:"span"`
}

func (e *Export) NodeKind() NodeKind { return KindExport }

// ============================================================================
// 组件
// ============================================================================

// Param 组件参数
type Param struct {
	Name       string `json:"name"`
	TypeRef    string `json:"typeRef,omitempty"`
	HasDefault bool   `json:"hasDefault,omitempty"`
	Default    Node   `json:"default,omitempty"`
}

// SignalDecl 一次 createSignal 声明的结果
type SignalDecl struct {
	Name       string `json:"name"`       // getter 名
	SetterName string `json:"setterName"` // setter 名，可为空
	Initial    Node   `json:"initial,omitempty"`
}

// Component 一个分析完成的组件
type Component struct {
	Kind        NodeKind      `json:"type"`
	Name        string        `json:"name"`
	RegistryKey string        `json:"registryKey"`
	TypeParams  []string      `json:"typeParams,omitempty"`
	Params      []*Param      `json:"params"`
	Body        []Node        `json:"body"`
	Exported    bool          `json:"exported,omitempty"`
	Default     bool          `json:"defaultExport,omitempty"`

	// 响应性标注
	UsesSignals          bool          `json:"usesSignals"`
	Signals              []*SignalDecl `json:"signals,omitempty"`
	ReactiveDependencies []string      `json:"reactiveDependencies"`

	// 优化标注
	IsStatic  bool `json:"isStatic"`  // 渲染输出不依赖任何信号或参数
	IsPure    bool `json:"isPure"`    // 除 createSignal/createMemo 外无副作用调用
	CanInline bool `json:"canInline"` // 静态且体量小，可内联进调用方

	Span Span `json:"span"`
}

func (c *Component) NodeKind() NodeKind { return KindComponent }

// TypeAlias 类型别名
type TypeAlias struct {
	Kind       NodeKind `json:"type"`
	Name       string   `json:"name"`
	TypeParams []string `json:"typeParams,omitempty"`
	Aliased    string   `json:"aliased"` // 类型表达式的文本形式
	Span       Span     `json:"span"`
}

func (t *TypeAlias) NodeKind() NodeKind { return KindTypeAlias }

// ============================================================================
// 语句
// ============================================================================

// VarDecl 变量声明
type VarDecl struct {
	Kind               NodeKind `json:"type"`
	DeclKind           string   `json:"kind"` // "const" 或 "let"
	Name               string   `json:"name,omitempty"`
	DestructuringNames []string `json:"destructuringNames,omitempty"`
	TypeRef            string   `json:"typeRef,omitempty"`
	Init               Node     `json:"init,omitempty"`
	IsSignal           bool     `json:"isSignal,omitempty"` // 初始化为 createSignal 调用
	Span               Span     `json:"span"`
}

func (v *VarDecl) NodeKind() NodeKind { return KindVarDecl }

// Return return 语句
type Return struct {
	Kind  NodeKind `json:"type"`
	Value Node     `json:"value,omitempty"`
	Span  Span     `json:"span"`
}

func (r *Return) NodeKind() NodeKind { return KindReturn }

// If if 语句
type If struct {
	Kind NodeKind `json:"type"`
	Cond Node     `json:"condition"`
	Then []Node   `json:"then"`
	Else Node     `json:"else,omitempty"` // *If 或 *Block
	Span Span     `json:"span"`
}

func (i *If) NodeKind() NodeKind { return KindIf }

// Block 语句块
type Block struct {
	Kind NodeKind `json:"type"`
	Body []Node   `json:"body"`
	Span Span     `json:"span"`
}

func (b *Block) NodeKind() NodeKind { return KindBlock }

// ExprStmt 表达式语句
type ExprStmt struct {
	Kind NodeKind `json:"type"`
	Expr Node     `json:"expression"`
	Span Span     `json:"span"`
}

func (e *ExprStmt) NodeKind() NodeKind { return KindExprStmt }

// ============================================================================
// 表达式
// ============================================================================

// Identifier 分类后的标识符
//
// 引用已注册信号的标识符在节点上自带依赖列表 [name]，
// 下游对单个节点做模式匹配时不需要回溯组件级的依赖集合。
type Identifier struct {
	Kind           NodeKind `json:"type"`
	Name           string   `json:"name"`
	Classification string   `json:"classification"`
	Deps           []string `json:"deps,omitempty"`
	Span           Span     `json:"span"`
}

func (i *Identifier) NodeKind() NodeKind { return KindIdentifier }

// Literal 字面量（整数、浮点、字符串、布尔、null）
type Literal struct {
	Kind  NodeKind    `json:"type"`
	Value interface{} `json:"value"`
	Raw   string      `json:"raw"`
	Span  Span        `json:"span"`
}

func (l *Literal) NodeKind() NodeKind { return KindLiteral }

// Template 模板字符串
type Template struct {
	Kind   NodeKind `json:"type"`
	Quasis []string `json:"quasis"`
	Exprs  []Node   `json:"expressions"`
	Span   Span     `json:"span"`
}

func (t *Template) NodeKind() NodeKind { return KindTemplate }

// Array 数组字面量
type Array struct {
	Kind     NodeKind `json:"type"`
	Elements []Node   `json:"elements"`
	Span     Span     `json:"span"`
}

func (a *Array) NodeKind() NodeKind { return KindArray }

// ObjectProp 对象字面量属性
type ObjectProp struct {
	Key   string `json:"key"`
	Value Node   `json:"value"`
}

// Object 对象字面量
type Object struct {
	Kind  NodeKind      `json:"type"`
	Props []*ObjectProp `json:"properties"`
	Span  Span          `json:"span"`
}

func (o *Object) NodeKind() NodeKind { return KindObject }

// Unary 前缀表达式
type Unary struct {
	Kind    NodeKind `json:"type"`
	Op      string   `json:"operator"`
	Operand Node     `json:"operand"`
	Span    Span     `json:"span"`
}

func (u *Unary) NodeKind() NodeKind { return KindUnary }

// Binary 二元表达式
type Binary struct {
	Kind  NodeKind `json:"type"`
	Op    string   `json:"operator"`
	Left  Node     `json:"left"`
	Right Node     `json:"right"`
	Span  Span     `json:"span"`
}

func (b *Binary) NodeKind() NodeKind { return KindBinary }

// Assign 赋值表达式
type Assign struct {
	Kind   NodeKind `json:"type"`
	Op     string   `json:"operator"`
	Target Node     `json:"target"`
	Value  Node     `json:"value"`
	Span   Span     `json:"span"`
}

func (a *Assign) NodeKind() NodeKind { return KindAssign }

// Conditional 条件表达式
type Conditional struct {
	Kind NodeKind `json:"type"`
	Cond Node     `json:"condition"`
	Then Node     `json:"then"`
	Else Node     `json:"else"`
	Span Span     `json:"span"`
}

func (c *Conditional) NodeKind() NodeKind { return KindConditional }

// Call 调用表达式
type Call struct {
	Kind   NodeKind `json:"type"`
	Callee Node     `json:"callee"`
	Args   []Node   `json:"arguments"`
	// 响应原语调用的标记："createSignal" / "createMemo" / "createEffect"，
	// 普通调用为空
	ReactivePrimitive string `json:"reactivePrimitive,omitempty"`
	Span              Span   `json:"span"`
}

func (c *Call) NodeKind() NodeKind { return KindCall }

// Member 成员访问
type Member struct {
	Kind     NodeKind `json:"type"`
	Object   Node     `json:"object"`
	Property string   `json:"property"`
	Span     Span     `json:"span"`
}

func (m *Member) NodeKind() NodeKind { return KindMember }

// Index 下标访问
type Index struct {
	Kind   NodeKind `json:"type"`
	Object Node     `json:"object"`
	Idx    Node     `json:"index"`
	Span   Span     `json:"span"`
}

func (i *Index) NodeKind() NodeKind { return KindIndex }

// Arrow 箭头函数
type Arrow struct {
	Kind   NodeKind `json:"type"`
	Params []*Param `json:"params"`
	Body   Node     `json:"body"` // *Block 或表达式
	Span   Span     `json:"span"`
}

func (a *Arrow) NodeKind() NodeKind { return KindArrow }

// Spread 展开表达式
type Spread struct {
	Kind NodeKind `json:"type"`
	Arg  Node     `json:"argument"`
	Span Span     `json:"span"`
}

func (s *Spread) NodeKind() NodeKind { return KindSpread }

// ============================================================================
// 标记
// ============================================================================

// Attribute 标记属性
type Attribute struct {
	Name    string `json:"name,omitempty"`
	IsEvent bool   `json:"isEvent,omitempty"` // on 前缀的事件处理器
	Value   Node   `json:"value,omitempty"`   // 裸属性为 nil
	Spread  Node   `json:"spread,omitempty"`  // {...props}
}

// Element 标记节点：原生元素或组件引用
//
// Kind 为 Element 或 ComponentReference，由标签名首字母大小写决定。
type Element struct {
	Kind       NodeKind     `json:"type"`
	TagName    string       `json:"tagName"`
	Attributes []*Attribute `json:"attributes"`
	Children   []Node       `json:"children"`
	SelfClose  bool         `json:"selfClose,omitempty"`
	IsStatic   bool         `json:"isStatic"` // 子树不含信号绑定/动态表达式
	Span       Span         `json:"span"`
}

func (e *Element) NodeKind() NodeKind { return e.Kind }

// Text 标记文本
type Text struct {
	Kind  NodeKind `json:"type"`
	Value string   `json:"value"`
	Span  Span     `json:"span"`
}

func (t *Text) NodeKind() NodeKind { return KindText }

// SignalBinding 信号绑定 $(name)
type SignalBinding struct {
	Kind       NodeKind `json:"type"`
	SignalName string   `json:"signalName"`
	// IsExternal 表示信号并非当前组件内 createSignal 声明的
	// getter（来自导入、参数或模块级声明）
	IsExternal bool `json:"isExternal"`
	Span       Span `json:"span"`
}

func (s *SignalBinding) NodeKind() NodeKind { return KindSignalBinding }
