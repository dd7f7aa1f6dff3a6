// Package analyzer 实现语义分析：单次自顶向下遍历 AST，
// 解析词法作用域、分类标识符、追踪信号声明与使用点，
// 输出带语义标注的 IR 和结构化诊断。
package analyzer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/psrlang/psr/internal/ast"
	"github.com/psrlang/psr/internal/errors"
	"github.com/psrlang/psr/internal/i18n"
	"github.com/psrlang/psr/internal/ir"
	"github.com/psrlang/psr/internal/token"
)

// ============================================================================
// 配置
// ============================================================================

// Options 分析器配置
type Options struct {
	MaxDiagnostics     int      // 软性诊断上限，超出后中止分析
	IterationCeiling   int      // 节点访问次数上限（死循环保险）
	ReactivePrimitives []string // 响应原语函数名
	EventPrefix        string   // 事件属性前缀
}

// DefaultOptions 默认配置
func DefaultOptions() Options {
	return Options{
		MaxDiagnostics:     20,
		IterationCeiling:   1 << 20,
		ReactivePrimitives: []string{"createSignal", "createMemo", "createEffect"},
		EventPrefix:        "on",
	}
}

// ============================================================================
// 作用域
// ============================================================================

type symbolKind int

const (
	symVar symbolKind = iota
	symParam
	symComponent
	symTypeAlias
)

// scope 一层词法作用域
//
// 作用域集中存放在 Context.scopes 里，父链用下标表示，
// 避免遍历过程中产生指针环。
type scope struct {
	parent int // 父作用域下标，根为 -1
	names  map[string]symbolKind
}

// ============================================================================
// AnalyzerContext
// ============================================================================

// signalInfo 一次信号声明
type signalInfo struct {
	setter  string // setter 名，可为空
	inScope int    // 声明所在的作用域下标
}

// Context 单次分析的全部状态
//
// 每次 Analyze 调用开始时整体重置，分析结束后随 IR 一起返回给
// 调用方只读使用；两次 Analyze 之间不泄露导入、导出或信号名。
type Context struct {
	scopes  []scope
	current int // 当前作用域下标

	imports  map[string]string // 本地名 -> 来源模块
	exports  map[string]bool   // 导出名集合
	registry map[string]string // 组件名 -> 注册键

	// 组件内状态（进入组件时保存/恢复）
	componentSignals map[string]signalInfo // 当前组件内声明的信号
	moduleSignals    map[string]signalInfo // 模块级声明的信号

	diagnostics []*errors.Diagnostic
	softCount   int // 软性诊断计数（预算用）
	visits      int // 节点访问计数（迭代上限用）
}

func newContext() *Context {
	ctx := &Context{}
	ctx.reset()
	return ctx
}

func (c *Context) reset() {
	c.scopes = c.scopes[:0]
	c.scopes = append(c.scopes, scope{parent: -1, names: make(map[string]symbolKind)})
	c.current = 0
	c.imports = make(map[string]string)
	c.exports = make(map[string]bool)
	c.registry = make(map[string]string)
	c.componentSignals = make(map[string]signalInfo)
	c.moduleSignals = make(map[string]signalInfo)
	c.diagnostics = nil
	c.softCount = 0
	c.visits = 0
}

// Imports 返回本地名到来源模块的映射
func (c *Context) Imports() map[string]string { return c.imports }

// Exports 返回导出名集合
func (c *Context) Exports() map[string]bool { return c.exports }

// Registry 返回组件名到注册键的映射
func (c *Context) Registry() map[string]string { return c.registry }

func (c *Context) pushScope() {
	c.scopes = append(c.scopes, scope{
		parent: c.current,
		names:  make(map[string]symbolKind),
	})
	c.current = len(c.scopes) - 1
}

func (c *Context) popScope() {
	if parent := c.scopes[c.current].parent; parent >= 0 {
		c.current = parent
	}
}

// declare 在当前作用域声明一个名字，重复声明返回 false
func (c *Context) declare(name string, kind symbolKind) bool {
	s := &c.scopes[c.current]
	if _, exists := s.names[name]; exists {
		return false
	}
	s.names[name] = kind
	return true
}

// lookup 沿作用域链查找名字
func (c *Context) lookup(name string) (symbolKind, bool) {
	for i := c.current; i >= 0; i = c.scopes[i].parent {
		if kind, ok := c.scopes[i].names[name]; ok {
			return kind, true
		}
	}
	return 0, false
}

// isSignal 名字是否为可见的信号声明
func (c *Context) isSignal(name string) bool {
	if _, ok := c.componentSignals[name]; ok {
		return true
	}
	_, ok := c.moduleSignals[name]
	return ok
}

// ============================================================================
// Analyzer
// ============================================================================

// Analyzer AST 到 IR 的语义分析器
//
// 单线程使用；多文件并行编译时每个文件一个实例。
type Analyzer struct {
	opts Options
	ctx  *Context

	// 组件内遍历状态
	inMarkupChildren bool
	currentComponent string
	reactiveDeps     []string
	depSeen          map[string]bool
	signalOrder      []string // 组件内信号的声明顺序
	hasEventHandlers bool
	lastNodeKind     string

	fatal *errors.Diagnostic // 致命错误，置位后遍历整体短路
}

// New 创建分析器
func New(opts Options) *Analyzer {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 20
	}
	if opts.IterationCeiling <= 0 {
		opts.IterationCeiling = 1 << 20
	}
	if len(opts.ReactivePrimitives) == 0 {
		opts.ReactivePrimitives = DefaultOptions().ReactivePrimitives
	}
	if opts.EventPrefix == "" {
		opts.EventPrefix = "on"
	}
	return &Analyzer{opts: opts, ctx: newContext()}
}

// NewDefault 用默认配置创建分析器
func NewDefault() *Analyzer {
	return New(DefaultOptions())
}

// Analyze 分析一个编译单元，返回 IR 根节点
//
// 状态在入口处整体重置。发生致命错误（无效 AST 结构、诊断超限、
// 迭代上限）时返回 nil，诊断通过 Errors 获取。
func (a *Analyzer) Analyze(file *ast.File) *ir.Module {
	a.ctx.reset()
	a.fatal = nil
	a.inMarkupChildren = false
	a.currentComponent = ""
	a.reactiveDeps = nil
	a.depSeen = nil
	a.hasEventHandlers = false
	a.lastNodeKind = ""

	mod := &ir.Module{
		Kind:     ir.KindModule,
		Filename: file.Filename,
	}

	for _, node := range file.Body {
		if a.fatal != nil {
			break
		}
		a.analyzeTopLevel(mod, node, false, false)
	}

	if a.fatal != nil {
		return nil
	}
	if mod.Imports == nil {
		mod.Imports = []*ir.Import{}
	}
	if mod.Exports == nil {
		mod.Exports = []*ir.Export{}
	}
	if mod.Components == nil {
		mod.Components = []*ir.Component{}
	}
	return mod
}

// Context 返回本次分析的上下文（只读）
func (a *Analyzer) Context() *Context { return a.ctx }

// HasErrors 是否有错误级诊断
func (a *Analyzer) HasErrors() bool {
	if a.fatal != nil {
		return true
	}
	for _, d := range a.ctx.diagnostics {
		if d.Level == errors.LevelError {
			return true
		}
	}
	return false
}

// Errors 返回全部诊断
func (a *Analyzer) Errors() []*errors.Diagnostic {
	return a.ctx.diagnostics
}

// ============================================================================
// 诊断
// ============================================================================

// diagnose 记录一条软性诊断，超出预算时升级为致命错误
func (a *Analyzer) diagnose(code string, level errors.Level, message string, pos token.Position) {
	d := errors.New(code, level, message, pos)
	if a.currentComponent != "" {
		d.Context = a.currentComponent
	}
	a.ctx.diagnostics = append(a.ctx.diagnostics, d)
	a.ctx.softCount++
	if a.ctx.softCount > a.opts.MaxDiagnostics {
		a.raise(errors.A0004, i18n.T(i18n.ErrTooManyDiagnostics), pos)
	}
}

// raise 记录一条致命错误并中止后续遍历
func (a *Analyzer) raise(code, message string, pos token.Position) {
	if a.fatal != nil {
		return
	}
	d := errors.NewError(code, message, pos)
	if a.currentComponent != "" {
		d.Context = a.currentComponent
	}
	a.fatal = d
	a.ctx.diagnostics = append(a.ctx.diagnostics, d)
}

// enter 记录一次节点访问，超过迭代上限视为编译器内部缺陷
func (a *Analyzer) enter(kind string, pos token.Position) bool {
	if a.fatal != nil {
		return false
	}
	a.lastNodeKind = kind
	a.ctx.visits++
	if a.ctx.visits > a.opts.IterationCeiling {
		a.raise(errors.X0001,
			i18n.T(i18n.ErrIterationCeiling, kind, a.currentComponent), pos)
		return false
	}
	return true
}

// ============================================================================
// 顶层
// ============================================================================

func (a *Analyzer) analyzeTopLevel(mod *ir.Module, node ast.Node, exported, isDefault bool) {
	if a.fatal != nil {
		return
	}
	switch n := node.(type) {
	case *ast.ImportDecl:
		if imp := a.analyzeImport(n); imp != nil {
			mod.Imports = append(mod.Imports, imp)
		}
	case *ast.ExportDecl:
		a.analyzeExport(mod, n)
	case *ast.ComponentDecl:
		if comp := a.analyzeComponent(n, exported, isDefault); comp != nil {
			mod.Components = append(mod.Components, comp)
		}
	case *ast.TypeAliasDecl:
		if alias := a.analyzeTypeAlias(n); alias != nil {
			mod.Statements = append(mod.Statements, alias)
		}
	case *ast.VarDeclStmt:
		if decl := a.analyzeVarDecl(n); decl != nil {
			mod.Statements = append(mod.Statements, decl)
		}
	case ast.Statement:
		if stmt := a.analyzeStmt(n); stmt != nil {
			mod.Statements = append(mod.Statements, stmt)
		}
	default:
		a.diagnose(errors.A0001, errors.LevelWarning,
			i18n.T(i18n.ErrUnknownNodeKind, fmt.Sprintf("%T", node)), node.Pos())
	}
}

// ============================================================================
// 导入与导出
// ============================================================================

func (a *Analyzer) analyzeImport(decl *ast.ImportDecl) *ir.Import {
	if !a.enter("Import", decl.Pos()) {
		return nil
	}
	imp := &ir.Import{
		Kind:       ir.KindImport,
		Source:     importSource(decl.Path),
		SideEffect: len(decl.Specifiers) == 0,
		Span:       ir.SpanOf(decl.Pos(), decl.End()),
	}
	for _, spec := range decl.Specifiers {
		local := spec.LocalName()
		s := &ir.ImportSpec{
			Type:  spec.Kind.String(),
			Local: local,
		}
		if spec.Kind == ast.ImportNamed {
			s.Imported = spec.Name.Literal
		}
		imp.Specifiers = append(imp.Specifiers, s)
		a.ctx.imports[local] = imp.Source
	}
	if imp.Specifiers == nil {
		imp.Specifiers = []*ir.ImportSpec{}
	}
	return imp
}

// importSource 去掉模块路径字符串的引号
func importSource(path token.Token) string {
	if s, ok := path.Value.(string); ok {
		return s
	}
	return strings.Trim(path.Literal, `"'`)
}

func (a *Analyzer) analyzeExport(mod *ir.Module, decl *ast.ExportDecl) {
	if !a.enter("Export", decl.Pos()) {
		return
	}
	exp := &ir.Export{
		Kind:    ir.KindExport,
		Default: decl.Default,
		Span:    ir.SpanOf(decl.Pos(), decl.End()),
	}

	switch {
	case decl.Decl != nil:
		switch d := decl.Decl.(type) {
		case *ast.ComponentDecl:
			comp := a.analyzeComponent(d, true, decl.Default)
			if comp != nil {
				mod.Components = append(mod.Components, comp)
				exp.Names = []string{comp.Name}
				a.ctx.exports[comp.Name] = true
			}
		case *ast.TypeAliasDecl:
			if alias := a.analyzeTypeAlias(d); alias != nil {
				exp.Decl = alias
				exp.Names = []string{alias.Name}
				a.ctx.exports[alias.Name] = true
			}
		case *ast.ExportVarDecl:
			if v := a.analyzeVarDecl(d.Var); v != nil {
				exp.Decl = v
				exp.Names = d.Var.BindingNames()
				for _, name := range exp.Names {
					a.ctx.exports[name] = true
				}
			}
		default:
			a.diagnose(errors.A0001, errors.LevelWarning,
				i18n.T(i18n.ErrUnknownNodeKind, fmt.Sprintf("%T", decl.Decl)), decl.Pos())
			return
		}

	case decl.Expr != nil:
		// export default <expr>
		exp.Decl = a.analyzeExpr(decl.Expr)
		if ident, ok := decl.Expr.(*ast.Identifier); ok {
			exp.Names = []string{ident.Name}
		}

	default:
		// export { a, b as c } [from "m"]
		reExport := decl.Source.Literal != ""
		if reExport {
			exp.Source = importSource(decl.Source)
		}
		for _, spec := range decl.Specifiers {
			name := spec.Name.Literal
			if spec.Alias.Literal != "" {
				name = spec.Alias.Literal
			}
			exp.Names = append(exp.Names, name)
			// 再导出不引入本地绑定，不进导出名集合
			if !reExport {
				a.ctx.exports[name] = true
			}
		}
	}

	mod.Exports = append(mod.Exports, exp)
}

// ============================================================================
// 组件
// ============================================================================

func (a *Analyzer) analyzeComponent(decl *ast.ComponentDecl, exported, isDefault bool) *ir.Component {
	if !a.enter("Component", decl.Pos()) {
		return nil
	}
	name := decl.Name.Literal

	if _, dup := a.ctx.registry[name]; dup {
		a.diagnose(errors.A0005, errors.LevelError,
			i18n.T(i18n.ErrDuplicateComponent, name), decl.Name.Pos)
	}
	registryKey := "component:" + name
	a.ctx.registry[name] = registryKey
	a.ctx.declare(name, symComponent)

	// 保存外层遍历状态（组件不嵌套，但分析器自身要可重入）
	savedComponent := a.currentComponent
	savedDeps, savedSeen := a.reactiveDeps, a.depSeen
	savedSignals := a.ctx.componentSignals
	savedOrder := a.signalOrder
	savedEvents := a.hasEventHandlers
	savedInChildren := a.inMarkupChildren
	defer func() {
		a.currentComponent = savedComponent
		a.reactiveDeps, a.depSeen = savedDeps, savedSeen
		a.ctx.componentSignals = savedSignals
		a.signalOrder = savedOrder
		a.hasEventHandlers = savedEvents
		a.inMarkupChildren = savedInChildren
	}()

	a.currentComponent = name
	a.reactiveDeps = []string{}
	a.depSeen = make(map[string]bool)
	a.signalOrder = nil
	a.ctx.componentSignals = make(map[string]signalInfo)
	a.hasEventHandlers = false
	a.inMarkupChildren = false

	a.ctx.pushScope()
	defer a.ctx.popScope()

	comp := &ir.Component{
		Kind:        ir.KindComponent,
		Name:        name,
		RegistryKey: registryKey,
		Params:      []*ir.Param{},
		Exported:    exported,
		Default:     isDefault,
		Span:        ir.SpanOf(decl.Pos(), decl.End()),
	}

	for _, tp := range decl.TypeParams {
		comp.TypeParams = append(comp.TypeParams, tp.Name.Literal)
		a.ctx.declare(tp.Name.Literal, symTypeAlias)
	}

	for _, p := range decl.Params {
		param := &ir.Param{Name: p.Name.Literal}
		if p.Type != nil {
			param.TypeRef = p.Type.String()
		}
		if p.Default != nil {
			param.HasDefault = true
			param.Default = a.analyzeExpr(p.Default)
		}
		comp.Params = append(comp.Params, param)
		if !a.ctx.declare(p.Name.Literal, symParam) {
			a.diagnose(errors.A0005, errors.LevelError,
				i18n.T(i18n.ErrDuplicateVariable, p.Name.Literal), p.Name.Pos)
		}
	}

	body := a.analyzeComponentBody(decl.Body)
	if a.fatal != nil {
		return nil
	}

	comp.Body = body
	comp.ReactiveDependencies = a.reactiveDeps
	comp.UsesSignals = len(a.ctx.componentSignals) > 0 || len(a.reactiveDeps) > 0
	for _, getter := range a.signalOrder {
		comp.Signals = append(comp.Signals, &ir.SignalDecl{
			Name:       getter,
			SetterName: a.ctx.componentSignals[getter].setter,
		})
	}

	comp.IsStatic = len(comp.ReactiveDependencies) == 0
	comp.IsPure = len(body) == 1 && isReturnNode(body[0])
	comp.CanInline = len(comp.Params) == 0 && !a.hasEventHandlers

	return comp
}

// analyzeComponentBody 分析组件体，末尾的裸标记表达式隐式包装为 return
func (a *Analyzer) analyzeComponentBody(block *ast.BlockStmt) []ir.Node {
	body := []ir.Node{}
	explicitReturn := false
	for _, stmt := range block.Statements {
		if _, ok := stmt.(*ast.ReturnStmt); ok {
			explicitReturn = true
		}
	}

	for i, stmt := range block.Statements {
		if a.fatal != nil {
			return body
		}
		node := a.analyzeStmt(stmt)
		if node == nil {
			continue
		}
		// 无显式 return 时，末尾的标记表达式视为组件的渲染输出
		if !explicitReturn && i == len(block.Statements)-1 {
			if es, ok := stmt.(*ast.ExprStmt); ok {
				switch es.Expr.(type) {
				case *ast.MarkupElement, *ast.ComponentRef:
					value := node.(*ir.ExprStmt).Expr
					node = &ir.Return{
						Kind:  ir.KindReturn,
						Value: value,
						Span:  ir.SpanOf(stmt.Pos(), stmt.End()),
					}
				}
			}
		}
		body = append(body, node)
	}
	return body
}

func isReturnNode(n ir.Node) bool {
	_, ok := n.(*ir.Return)
	return ok
}

func (a *Analyzer) analyzeTypeAlias(decl *ast.TypeAliasDecl) *ir.TypeAlias {
	if !a.enter("TypeAlias", decl.Pos()) {
		return nil
	}
	a.ctx.declare(decl.Name.Literal, symTypeAlias)
	alias := &ir.TypeAlias{
		Kind:    ir.KindTypeAlias,
		Name:    decl.Name.Literal,
		Aliased: decl.Aliased.String(),
		Span:    ir.SpanOf(decl.Pos(), decl.End()),
	}
	for _, tp := range decl.TypeParams {
		alias.TypeParams = append(alias.TypeParams, tp.Name.Literal)
	}
	return alias
}

// ============================================================================
// 语句
// ============================================================================

func (a *Analyzer) analyzeStmt(stmt ast.Statement) ir.Node {
	if a.fatal != nil {
		return nil
	}
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		return a.analyzeVarDecl(s)
	case *ast.ReturnStmt:
		return a.analyzeReturn(s)
	case *ast.IfStmt:
		return a.analyzeIf(s)
	case *ast.BlockStmt:
		return a.analyzeBlock(s)
	case *ast.ExprStmt:
		if !a.enter("ExpressionStatement", s.Pos()) {
			return nil
		}
		return &ir.ExprStmt{
			Kind: ir.KindExprStmt,
			Expr: a.analyzeExpr(s.Expr),
			Span: ir.SpanOf(s.Pos(), s.End()),
		}
	case *ast.ComponentDecl, *ast.TypeAliasDecl, *ast.ImportDecl, *ast.ExportDecl:
		// 声明节点不应出现在语句位置之外的地方到这里
		a.diagnose(errors.A0001, errors.LevelWarning,
			i18n.T(i18n.ErrUnknownNodeKind, fmt.Sprintf("%T", stmt)), stmt.Pos())
		return nil
	default:
		a.diagnose(errors.A0001, errors.LevelWarning,
			i18n.T(i18n.ErrUnknownNodeKind, fmt.Sprintf("%T", stmt)), stmt.Pos())
		return nil
	}
}

func (a *Analyzer) analyzeVarDecl(decl *ast.VarDeclStmt) *ir.VarDecl {
	if !a.enter("VariableDeclaration", decl.Pos()) {
		return nil
	}
	v := &ir.VarDecl{
		Kind:     ir.KindVarDecl,
		DeclKind: decl.DeclToken.Literal,
		Span:     ir.SpanOf(decl.Pos(), decl.End()),
	}
	if decl.Type != nil {
		v.TypeRef = decl.Type.String()
	}

	// 先分析初始化表达式，再注册绑定名：
	// const count = count 里右侧的 count 不指向新声明
	if decl.Value != nil {
		v.Init = a.analyzeExpr(decl.Value)
	}
	v.IsSignal = a.isReactiveInit(decl.Value)

	names := decl.BindingNames()
	if len(decl.Destructuring) > 0 {
		v.DestructuringNames = names
	} else {
		v.Name = names[0]
	}

	for _, name := range names {
		if !a.ctx.declare(name, symVar) {
			a.diagnose(errors.A0005, errors.LevelError,
				i18n.T(i18n.ErrDuplicateVariable, name), decl.Pos())
		}
	}

	if v.IsSignal {
		a.registerSignal(decl, names)
	}
	return v
}

// isReactiveInit 初始化表达式是否为响应原语调用
func (a *Analyzer) isReactiveInit(value ast.Expression) bool {
	call, ok := value.(*ast.CallExpr)
	if !ok {
		return false
	}
	ident, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return false
	}
	return a.reactivePrimitive(ident.Name) != ""
}

// reactivePrimitive 返回匹配的响应原语名，不匹配返回空串
func (a *Analyzer) reactivePrimitive(name string) string {
	for _, p := range a.opts.ReactivePrimitives {
		if name == p {
			return p
		}
	}
	return ""
}

// registerSignal 把信号声明登记到当前可见的信号集合
//
// 数组解构 [getter, setter] 只有第一个名字是响应读取端。
func (a *Analyzer) registerSignal(decl *ast.VarDeclStmt, names []string) {
	info := signalInfo{inScope: a.ctx.current}
	getter := names[0]
	if decl.ArrayPattern && len(names) > 1 {
		info.setter = names[1]
	}
	if a.currentComponent != "" {
		if _, exists := a.ctx.componentSignals[getter]; !exists {
			a.signalOrder = append(a.signalOrder, getter)
		}
		a.ctx.componentSignals[getter] = info
	} else {
		a.ctx.moduleSignals[getter] = info
	}
}

func (a *Analyzer) analyzeReturn(stmt *ast.ReturnStmt) *ir.Return {
	if !a.enter("ReturnStatement", stmt.Pos()) {
		return nil
	}
	r := &ir.Return{
		Kind: ir.KindReturn,
		Span: ir.SpanOf(stmt.Pos(), stmt.End()),
	}
	if stmt.Value != nil {
		r.Value = a.analyzeExpr(stmt.Value)
	}
	return r
}

func (a *Analyzer) analyzeIf(stmt *ast.IfStmt) *ir.If {
	if !a.enter("IfStatement", stmt.Pos()) {
		return nil
	}
	if stmt.Cond == nil || stmt.Then == nil {
		a.raise(errors.A0003, i18n.T(i18n.ErrInvalidASTShape, "if statement missing condition or body"), stmt.Pos())
		return nil
	}
	node := &ir.If{
		Kind: ir.KindIf,
		Cond: a.analyzeExpr(stmt.Cond),
		Span: ir.SpanOf(stmt.Pos(), stmt.End()),
	}
	node.Then = a.analyzeBlockBody(stmt.Then)
	if stmt.Else != nil {
		node.Else = a.analyzeStmt(stmt.Else)
	}
	return node
}

func (a *Analyzer) analyzeBlock(block *ast.BlockStmt) *ir.Block {
	if !a.enter("Block", block.Pos()) {
		return nil
	}
	return &ir.Block{
		Kind: ir.KindBlock,
		Body: a.analyzeBlockBody(block),
		Span: ir.SpanOf(block.Pos(), block.End()),
	}
}

// analyzeBlockBody 块引入一层新作用域
func (a *Analyzer) analyzeBlockBody(block *ast.BlockStmt) []ir.Node {
	a.ctx.pushScope()
	defer a.ctx.popScope()
	body := []ir.Node{}
	for _, stmt := range block.Statements {
		if a.fatal != nil {
			break
		}
		if node := a.analyzeStmt(stmt); node != nil {
			body = append(body, node)
		}
	}
	return body
}

// ============================================================================
// 表达式
// ============================================================================

func (a *Analyzer) analyzeExpr(expr ast.Expression) ir.Node {
	if a.fatal != nil || expr == nil {
		return nil
	}
	switch e := expr.(type) {
	case *ast.Identifier:
		return a.analyzeIdentifier(e)
	case *ast.IntegerLiteral:
		return a.literal(e, e.Value, e.Token.Literal)
	case *ast.FloatLiteral:
		return a.literal(e, e.Value, e.Token.Literal)
	case *ast.StringLiteral:
		return a.literal(e, e.Value, e.Token.Literal)
	case *ast.BooleanLiteral:
		return a.literal(e, e.Value, e.Token.Literal)
	case *ast.NullLiteral:
		return a.literal(e, nil, "null")
	case *ast.TemplateLiteral:
		return a.analyzeTemplate(e)
	case *ast.ArrayLiteral:
		return a.analyzeArray(e)
	case *ast.ObjectLiteral:
		return a.analyzeObject(e)
	case *ast.PrefixExpr:
		return a.analyzePrefix(e)
	case *ast.BinaryExpr:
		return a.analyzeBinary(e)
	case *ast.AssignExpr:
		return a.analyzeAssign(e)
	case *ast.ConditionalExpr:
		return a.analyzeConditional(e)
	case *ast.CallExpr:
		return a.analyzeCall(e)
	case *ast.MemberExpr:
		return a.analyzeMember(e)
	case *ast.IndexExpr:
		return a.analyzeIndex(e)
	case *ast.ArrowFuncExpr:
		return a.analyzeArrow(e)
	case *ast.SpreadExpr:
		return a.analyzeSpread(e)
	case *ast.MarkupElement:
		return a.analyzeMarkupElement(e)
	case *ast.ComponentRef:
		return a.analyzeMarkupElement(&e.MarkupElement)
	case *ast.MarkupText:
		return a.analyzeMarkupText(e)
	case *ast.SignalBindingExpr:
		return a.analyzeSignalBinding(e)
	default:
		a.diagnose(errors.A0001, errors.LevelWarning,
			i18n.T(i18n.ErrUnknownNodeKind, fmt.Sprintf("%T", expr)), expr.Pos())
		return nil
	}
}

func (a *Analyzer) literal(e ast.Expression, value interface{}, raw string) ir.Node {
	if !a.enter("Literal", e.Pos()) {
		return nil
	}
	return &ir.Literal{
		Kind:  ir.KindLiteral,
		Value: value,
		Raw:   raw,
		Span:  ir.SpanOf(e.Pos(), e.End()),
	}
}

func (a *Analyzer) analyzeIdentifier(e *ast.Identifier) ir.Node {
	if !a.enter("Identifier", e.Pos()) {
		return nil
	}
	node := &ir.Identifier{
		Kind:           ir.KindIdentifier,
		Name:           e.Name,
		Classification: a.classify(e.Name),
		Span:           ir.SpanOf(e.Pos(), e.End()),
	}
	if a.ctx.isSignal(e.Name) {
		node.Deps = []string{e.Name}
		a.addReactiveDep(e.Name)
	}
	return node
}

// classify 标识符的作用域分类，优先级 imported > parameter > global > local
func (a *Analyzer) classify(name string) string {
	if _, ok := a.ctx.imports[name]; ok {
		return ir.ClassImported
	}
	kind, found := a.ctx.lookup(name)
	if found && kind == symParam {
		return ir.ClassParameter
	}
	if !found {
		return ir.ClassGlobal
	}
	return ir.ClassLocal
}

// addReactiveDep 记录一次响应依赖，去重
func (a *Analyzer) addReactiveDep(name string) {
	if a.currentComponent == "" || a.depSeen[name] {
		return
	}
	a.depSeen[name] = true
	a.reactiveDeps = append(a.reactiveDeps, name)
}

func (a *Analyzer) analyzeTemplate(e *ast.TemplateLiteral) ir.Node {
	if !a.enter("TemplateLiteral", e.Pos()) {
		return nil
	}
	node := &ir.Template{
		Kind:   ir.KindTemplate,
		Quasis: append([]string{}, e.Quasis...),
		Exprs:  []ir.Node{},
		Span:   ir.SpanOf(e.Pos(), e.End()),
	}
	for _, sub := range e.Exprs {
		if child := a.analyzeExpr(sub); child != nil {
			node.Exprs = append(node.Exprs, child)
		}
	}
	return node
}

func (a *Analyzer) analyzeArray(e *ast.ArrayLiteral) ir.Node {
	if !a.enter("ArrayExpression", e.Pos()) {
		return nil
	}
	node := &ir.Array{
		Kind:     ir.KindArray,
		Elements: []ir.Node{},
		Span:     ir.SpanOf(e.Pos(), e.End()),
	}
	for _, el := range e.Elements {
		if child := a.analyzeExpr(el); child != nil {
			node.Elements = append(node.Elements, child)
		}
	}
	return node
}

func (a *Analyzer) analyzeObject(e *ast.ObjectLiteral) ir.Node {
	if !a.enter("ObjectExpression", e.Pos()) {
		return nil
	}
	node := &ir.Object{
		Kind:  ir.KindObject,
		Props: []*ir.ObjectProp{},
		Span:  ir.SpanOf(e.Pos(), e.End()),
	}
	for _, p := range e.Properties {
		prop := &ir.ObjectProp{Key: p.Key.Literal}
		if p.Shorthand {
			prop.Value = a.analyzeIdentifier(&ast.Identifier{Token: p.Key, Name: p.Key.Literal})
		} else {
			prop.Value = a.analyzeExpr(p.Value)
		}
		node.Props = append(node.Props, prop)
	}
	return node
}

func (a *Analyzer) analyzePrefix(e *ast.PrefixExpr) ir.Node {
	if !a.enter("UnaryExpression", e.Pos()) {
		return nil
	}
	if e.Right == nil {
		a.raise(errors.A0002, i18n.T(i18n.ErrMissingOperand, "right", "unary"), e.Pos())
		return nil
	}
	return &ir.Unary{
		Kind:    ir.KindUnary,
		Op:      e.Operator,
		Operand: a.analyzeExpr(e.Right),
		Span:    ir.SpanOf(e.Pos(), e.End()),
	}
}

func (a *Analyzer) analyzeBinary(e *ast.BinaryExpr) ir.Node {
	if !a.enter("BinaryExpression", e.Pos()) {
		return nil
	}
	if e.Left == nil {
		a.raise(errors.A0002, i18n.T(i18n.ErrMissingOperand, "left", "binary"), e.Pos())
		return nil
	}
	if e.Right == nil {
		a.raise(errors.A0002, i18n.T(i18n.ErrMissingOperand, "right", "binary"), e.Pos())
		return nil
	}
	return &ir.Binary{
		Kind:  ir.KindBinary,
		Op:    e.Operator,
		Left:  a.analyzeExpr(e.Left),
		Right: a.analyzeExpr(e.Right),
		Span:  ir.SpanOf(e.Pos(), e.End()),
	}
}

func (a *Analyzer) analyzeAssign(e *ast.AssignExpr) ir.Node {
	if !a.enter("AssignmentExpression", e.Pos()) {
		return nil
	}
	return &ir.Assign{
		Kind:   ir.KindAssign,
		Op:     e.Operator,
		Target: a.analyzeExpr(e.Target),
		Value:  a.analyzeExpr(e.Value),
		Span:   ir.SpanOf(e.Pos(), e.End()),
	}
}

func (a *Analyzer) analyzeConditional(e *ast.ConditionalExpr) ir.Node {
	if !a.enter("ConditionalExpression", e.Pos()) {
		return nil
	}
	return &ir.Conditional{
		Kind: ir.KindConditional,
		Cond: a.analyzeExpr(e.Cond),
		Then: a.analyzeExpr(e.Then),
		Else: a.analyzeExpr(e.Else),
		Span: ir.SpanOf(e.Pos(), e.End()),
	}
}

func (a *Analyzer) analyzeCall(e *ast.CallExpr) ir.Node {
	if !a.enter("CallExpression", e.Pos()) {
		return nil
	}
	if e.Callee == nil {
		a.raise(errors.A0002, i18n.T(i18n.ErrMissingOperand, "callee", "call"), e.Pos())
		return nil
	}

	// 标记子节点位置的零参信号读取转换为信号绑定：
	// <div>{count()}</div> 与 <div>$(count)</div> 等价
	if a.inMarkupChildren && len(e.Args) == 0 {
		if ident, ok := e.Callee.(*ast.Identifier); ok && a.ctx.isSignal(ident.Name) {
			a.addReactiveDep(ident.Name)
			_, inComponent := a.ctx.componentSignals[ident.Name]
			return &ir.SignalBinding{
				Kind:       ir.KindSignalBinding,
				SignalName: ident.Name,
				IsExternal: !inComponent,
				Span:       ir.SpanOf(e.Pos(), e.End()),
			}
		}
	}

	node := &ir.Call{
		Kind:   ir.KindCall,
		Callee: a.analyzeExpr(e.Callee),
		Args:   []ir.Node{},
		Span:   ir.SpanOf(e.Pos(), e.End()),
	}
	if ident, ok := e.Callee.(*ast.Identifier); ok {
		node.ReactivePrimitive = a.reactivePrimitive(ident.Name)
	}
	for _, arg := range e.Args {
		if child := a.analyzeExpr(arg); child != nil {
			node.Args = append(node.Args, child)
		}
	}
	return node
}

func (a *Analyzer) analyzeMember(e *ast.MemberExpr) ir.Node {
	if !a.enter("MemberExpression", e.Pos()) {
		return nil
	}
	return &ir.Member{
		Kind:     ir.KindMember,
		Object:   a.analyzeExpr(e.Object),
		Property: e.Property.Literal,
		Span:     ir.SpanOf(e.Pos(), e.End()),
	}
}

func (a *Analyzer) analyzeIndex(e *ast.IndexExpr) ir.Node {
	if !a.enter("IndexExpression", e.Pos()) {
		return nil
	}
	return &ir.Index{
		Kind:   ir.KindIndex,
		Object: a.analyzeExpr(e.Object),
		Idx:    a.analyzeExpr(e.Index),
		Span:   ir.SpanOf(e.Pos(), e.End()),
	}
}

func (a *Analyzer) analyzeArrow(e *ast.ArrowFuncExpr) ir.Node {
	if !a.enter("ArrowFunction", e.Pos()) {
		return nil
	}
	// 箭头函数体不是标记子节点位置
	savedInChildren := a.inMarkupChildren
	a.inMarkupChildren = false
	defer func() { a.inMarkupChildren = savedInChildren }()

	a.ctx.pushScope()
	defer a.ctx.popScope()

	node := &ir.Arrow{
		Kind:   ir.KindArrow,
		Params: []*ir.Param{},
		Span:   ir.SpanOf(e.Pos(), e.End()),
	}
	for _, p := range e.Params {
		param := &ir.Param{Name: p.Name.Literal}
		if p.Type != nil {
			param.TypeRef = p.Type.String()
		}
		if p.Default != nil {
			param.HasDefault = true
			param.Default = a.analyzeExpr(p.Default)
		}
		node.Params = append(node.Params, param)
		a.ctx.declare(p.Name.Literal, symParam)
	}

	switch body := e.Body.(type) {
	case *ast.BlockStmt:
		node.Body = &ir.Block{
			Kind: ir.KindBlock,
			Body: a.analyzeBlockBody(body),
			Span: ir.SpanOf(body.Pos(), body.End()),
		}
	case ast.Expression:
		node.Body = a.analyzeExpr(body)
	default:
		a.raise(errors.A0003, i18n.T(i18n.ErrInvalidASTShape, "arrow function body"), e.Pos())
		return nil
	}
	return node
}

func (a *Analyzer) analyzeSpread(e *ast.SpreadExpr) ir.Node {
	if !a.enter("SpreadElement", e.Pos()) {
		return nil
	}
	return &ir.Spread{
		Kind: ir.KindSpread,
		Arg:  a.analyzeExpr(e.Arg),
		Span: ir.SpanOf(e.Pos(), e.End()),
	}
}

// ============================================================================
// 标记
// ============================================================================

func (a *Analyzer) analyzeMarkupElement(e *ast.MarkupElement) ir.Node {
	if !a.enter("Element", e.Pos()) {
		return nil
	}
	kind := ir.KindElement
	if e.IsComponentRef() {
		kind = ir.KindComponentRef
	}
	node := &ir.Element{
		Kind:       kind,
		TagName:    e.TagName.Literal,
		Attributes: []*ir.Attribute{},
		Children:   []ir.Node{},
		SelfClose:  e.SelfClose,
		Span:       ir.SpanOf(e.Pos(), e.End()),
	}

	static := true
	for _, attr := range e.Attributes {
		node.Attributes = append(node.Attributes, a.analyzeAttribute(attr, &static))
	}

	// 子节点位置打开信号绑定转换
	savedInChildren := a.inMarkupChildren
	a.inMarkupChildren = true
	for _, child := range e.Children {
		if a.fatal != nil {
			break
		}
		childNode := a.analyzeMarkupChild(child)
		if childNode == nil {
			continue
		}
		if !isStaticChild(childNode) {
			static = false
		}
		node.Children = append(node.Children, childNode)
	}
	a.inMarkupChildren = savedInChildren

	node.IsStatic = static
	return node
}

// analyzeAttribute 分析一个属性并更新元素的静态性
func (a *Analyzer) analyzeAttribute(attr *ast.MarkupAttribute, static *bool) *ir.Attribute {
	// 属性值不是标记子节点位置
	savedInChildren := a.inMarkupChildren
	a.inMarkupChildren = false
	defer func() { a.inMarkupChildren = savedInChildren }()

	if attr.Spread != nil {
		*static = false
		return &ir.Attribute{Spread: a.analyzeExpr(attr.Spread)}
	}

	name := attr.Name.Literal
	out := &ir.Attribute{
		Name:    name,
		IsEvent: a.isEventAttribute(name),
	}
	if out.IsEvent {
		a.hasEventHandlers = true
		*static = false
	}
	if attr.Value != nil {
		out.Value = a.analyzeExpr(attr.Value)
		// 字符串/数字等字面量值是静态的，表达式值是动态的
		if _, isLit := out.Value.(*ir.Literal); !isLit {
			*static = false
		}
	}
	return out
}

// isEventAttribute 事件属性：前缀匹配且后跟大写字母（onClick、onInput）
func (a *Analyzer) isEventAttribute(name string) bool {
	prefix := a.opts.EventPrefix
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name[len(prefix):])
	return unicode.IsUpper(r)
}

func (a *Analyzer) analyzeMarkupChild(child ast.Node) ir.Node {
	switch c := child.(type) {
	case *ast.MarkupText:
		return a.analyzeMarkupText(c)
	case *ast.SignalBindingExpr:
		return a.analyzeSignalBinding(c)
	case ast.Expression:
		return a.analyzeExpr(c)
	default:
		a.diagnose(errors.A0001, errors.LevelWarning,
			i18n.T(i18n.ErrUnknownNodeKind, fmt.Sprintf("%T", child)), child.Pos())
		return nil
	}
}

func (a *Analyzer) analyzeMarkupText(e *ast.MarkupText) ir.Node {
	if !a.enter("Text", e.Pos()) {
		return nil
	}
	return &ir.Text{
		Kind:  ir.KindText,
		Value: e.Value,
		Span:  ir.SpanOf(e.Pos(), e.End()),
	}
}

func (a *Analyzer) analyzeSignalBinding(e *ast.SignalBindingExpr) ir.Node {
	if !a.enter("SignalBinding", e.Pos()) {
		return nil
	}
	_, inComponent := a.ctx.componentSignals[e.Name]
	if a.ctx.isSignal(e.Name) {
		a.addReactiveDep(e.Name)
	}
	return &ir.SignalBinding{
		Kind:       ir.KindSignalBinding,
		SignalName: e.Name,
		IsExternal: !inComponent,
		Span:       ir.SpanOf(e.Pos(), e.End()),
	}
}

// isStaticChild 子节点是否静态：文本、字面量、静态子元素
func isStaticChild(n ir.Node) bool {
	switch c := n.(type) {
	case *ir.Text:
		return true
	case *ir.Literal:
		return true
	case *ir.Element:
		return c.IsStatic
	default:
		return false
	}
}
