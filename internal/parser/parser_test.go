package parser

import (
	"strings"
	"testing"

	"github.com/psrlang/psr/internal/ast"
)

func parseFile(t *testing.T, source string) *ast.File {
	t.Helper()
	p := New(source, "test.psr")
	file := p.Parse()
	if p.Lexer().HasErrors() {
		t.Fatalf("unexpected lex errors: %v", p.Lexer().Errors())
	}
	if p.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return file
}

func parseWithError(t *testing.T, source string) []Error {
	t.Helper()
	p := New(source, "test.psr")
	p.Parse()
	if !p.HasErrors() {
		t.Fatalf("expected parse error, got none")
	}
	return p.Errors()
}

// ============================================================================
// 声明
// ============================================================================

func TestParseComponentDecl(t *testing.T) {
	file := parseFile(t, `
component Counter(start: number = 0) {
	const [count, setCount] = createSignal(start);
	return <div>$(count)</div>;
}
`)

	if len(file.Body) != 1 {
		t.Fatalf("body length mismatch: got %d, want 1", len(file.Body))
	}

	decl, ok := file.Body[0].(*ast.ComponentDecl)
	if !ok {
		t.Fatalf("node type mismatch: got %T, want *ast.ComponentDecl", file.Body[0])
	}
	if decl.Name.Literal != "Counter" {
		t.Errorf("component name mismatch: got %q, want %q", decl.Name.Literal, "Counter")
	}
	if len(decl.Params) != 1 {
		t.Fatalf("param count mismatch: got %d, want 1", len(decl.Params))
	}
	param := decl.Params[0]
	if param.Name.Literal != "start" {
		t.Errorf("param name mismatch: got %q, want %q", param.Name.Literal, "start")
	}
	if param.Type == nil || param.Type.String() != "number" {
		t.Errorf("param type mismatch: got %v, want number", param.Type)
	}
	if param.Default == nil {
		t.Error("param default missing")
	}
	if len(decl.Body.Statements) != 2 {
		t.Fatalf("body statement count mismatch: got %d, want 2", len(decl.Body.Statements))
	}
}

func TestParseSignalDestructuring(t *testing.T) {
	file := parseFile(t, `component App() {
	const [count, setCount] = createSignal(0);
	return <p>$(count)</p>;
}`)

	decl := file.Body[0].(*ast.ComponentDecl)
	stmt, ok := decl.Body.Statements[0].(*ast.VarDeclStmt)
	if !ok {
		t.Fatalf("statement type mismatch: got %T, want *ast.VarDeclStmt", decl.Body.Statements[0])
	}
	if !stmt.ArrayPattern {
		t.Error("expected array destructuring pattern")
	}
	names := stmt.BindingNames()
	if len(names) != 2 || names[0] != "count" || names[1] != "setCount" {
		t.Errorf("destructuring names mismatch: got %v", names)
	}
	call, ok := stmt.Value.(*ast.CallExpr)
	if !ok {
		t.Fatalf("initializer type mismatch: got %T, want *ast.CallExpr", stmt.Value)
	}
	if call.Callee.String() != "createSignal" {
		t.Errorf("callee mismatch: got %q", call.Callee.String())
	}
}

func TestParseTypeAliasWithGenerics(t *testing.T) {
	// 泛型参数列表不能被误认成标记元素
	file := parseFile(t, `
type Nullable<T> = T | null;
let x: Nullable<string> = null;
`)

	if len(file.Body) != 2 {
		t.Fatalf("body length mismatch: got %d, want 2", len(file.Body))
	}

	alias, ok := file.Body[0].(*ast.TypeAliasDecl)
	if !ok {
		t.Fatalf("node type mismatch: got %T, want *ast.TypeAliasDecl", file.Body[0])
	}
	if alias.Name.Literal != "Nullable" {
		t.Errorf("alias name mismatch: got %q", alias.Name.Literal)
	}
	if len(alias.TypeParams) != 1 || alias.TypeParams[0].Name.Literal != "T" {
		t.Fatalf("type params mismatch: %v", alias.TypeParams)
	}
	union, ok := alias.Aliased.(*ast.UnionType)
	if !ok {
		t.Fatalf("aliased type mismatch: got %T, want *ast.UnionType", alias.Aliased)
	}
	if len(union.Types) != 2 {
		t.Fatalf("union member count mismatch: got %d, want 2", len(union.Types))
	}

	decl := file.Body[1].(*ast.VarDeclStmt)
	generic, ok := decl.Type.(*ast.GenericType)
	if !ok {
		t.Fatalf("var type mismatch: got %T, want *ast.GenericType", decl.Type)
	}
	if generic.String() != "Nullable<string>" {
		t.Errorf("generic type mismatch: got %q", generic.String())
	}
}

func TestParseNestedGenerics(t *testing.T) {
	file := parseFile(t, `let m: Map<string, Array<number>> = makeMap();`)

	decl := file.Body[0].(*ast.VarDeclStmt)
	if decl.Type.String() != "Map<string, Array<number>>" {
		t.Errorf("nested generic mismatch: got %q", decl.Type.String())
	}
}

func TestParseTypeParameterConstraint(t *testing.T) {
	file := parseFile(t, `component List<T extends Item>(items: T[]) { return <ul></ul>; }`)

	decl := file.Body[0].(*ast.ComponentDecl)
	if len(decl.TypeParams) != 1 {
		t.Fatalf("type param count mismatch: got %d", len(decl.TypeParams))
	}
	tp := decl.TypeParams[0]
	if tp.Name.Literal != "T" || tp.Constraint == nil || tp.Constraint.String() != "Item" {
		t.Errorf("type param mismatch: %s", tp.String())
	}
	if decl.Params[0].Type.String() != "T[]" {
		t.Errorf("array type mismatch: got %q", decl.Params[0].Type.String())
	}
}

// ============================================================================
// 导入导出
// ============================================================================

func TestParseImportForms(t *testing.T) {
	tests := []struct {
		input string
		kinds []ast.ImportKind
		path  string
	}{
		{`import "./styles.psr";`, nil, `"./styles.psr"`},
		{`import App from "./app.psr";`, []ast.ImportKind{ast.ImportDefault}, `"./app.psr"`},
		{`import { a, b as c } from "m";`, []ast.ImportKind{ast.ImportNamed, ast.ImportNamed}, `"m"`},
		{`import * as ns from "m";`, []ast.ImportKind{ast.ImportNamespace}, `"m"`},
		{`import App, { helper } from "m";`, []ast.ImportKind{ast.ImportDefault, ast.ImportNamed}, `"m"`},
		{`import App, * as ns from "m";`, []ast.ImportKind{ast.ImportDefault, ast.ImportNamespace}, `"m"`},
	}

	for _, tt := range tests {
		file := parseFile(t, tt.input)
		decl, ok := file.Body[0].(*ast.ImportDecl)
		if !ok {
			t.Errorf("input %q: node type mismatch: got %T", tt.input, file.Body[0])
			continue
		}
		if decl.Path.Literal != tt.path {
			t.Errorf("input %q: path mismatch: got %q, want %q", tt.input, decl.Path.Literal, tt.path)
		}
		if len(decl.Specifiers) != len(tt.kinds) {
			t.Errorf("input %q: specifier count mismatch: got %d, want %d",
				tt.input, len(decl.Specifiers), len(tt.kinds))
			continue
		}
		for i, kind := range tt.kinds {
			if decl.Specifiers[i].Kind != kind {
				t.Errorf("input %q: specifier[%d] kind mismatch: got %s, want %s",
					tt.input, i, decl.Specifiers[i].Kind, kind)
			}
		}
	}
}

func TestParseImportAlias(t *testing.T) {
	file := parseFile(t, `import { createSignal as signal } from "psr";`)
	decl := file.Body[0].(*ast.ImportDecl)
	spec := decl.Specifiers[0]
	if spec.Name.Literal != "createSignal" {
		t.Errorf("imported name mismatch: got %q", spec.Name.Literal)
	}
	if spec.LocalName() != "signal" {
		t.Errorf("local name mismatch: got %q, want %q", spec.LocalName(), "signal")
	}
}

func TestParseExportForms(t *testing.T) {
	file := parseFile(t, `
export component App() { return <div></div>; }
export default App;
export const version = "1.0";
export { helper, App as Root };
export { x } from "./other.psr";
`)

	if len(file.Body) != 5 {
		t.Fatalf("body length mismatch: got %d, want 5", len(file.Body))
	}

	e0 := file.Body[0].(*ast.ExportDecl)
	if _, ok := e0.Decl.(*ast.ComponentDecl); !ok {
		t.Errorf("export[0] decl type mismatch: got %T", e0.Decl)
	}

	e1 := file.Body[1].(*ast.ExportDecl)
	if !e1.Default || e1.Expr == nil {
		t.Errorf("export[1] should be default expression export")
	}

	e2 := file.Body[2].(*ast.ExportDecl)
	if _, ok := e2.Decl.(*ast.ExportVarDecl); !ok {
		t.Errorf("export[2] decl type mismatch: got %T", e2.Decl)
	}

	e3 := file.Body[3].(*ast.ExportDecl)
	if len(e3.Specifiers) != 2 || e3.Specifiers[1].Alias.Literal != "Root" {
		t.Errorf("export[3] specifiers mismatch: %s", e3.String())
	}

	e4 := file.Body[4].(*ast.ExportDecl)
	if e4.Source.Literal != `"./other.psr"` {
		t.Errorf("export[4] source mismatch: got %q", e4.Source.Literal)
	}
}

// ============================================================================
// 标记
// ============================================================================

func TestParseMarkupElement(t *testing.T) {
	file := parseFile(t, `component App() {
	return <div class="box" onClick={handleClick}>
		<span>Hello</span>
		{count() + 1}
		<Widget enabled {...props} />
	</div>;
}`)

	decl := file.Body[0].(*ast.ComponentDecl)
	ret := decl.Body.Statements[0].(*ast.ReturnStmt)
	div, ok := ret.Value.(*ast.MarkupElement)
	if !ok {
		t.Fatalf("return value type mismatch: got %T, want *ast.MarkupElement", ret.Value)
	}

	if div.TagName.Literal != "div" {
		t.Errorf("tag name mismatch: got %q", div.TagName.Literal)
	}
	if div.IsComponentRef() {
		t.Error("div should not be a component reference")
	}
	if len(div.Attributes) != 2 {
		t.Fatalf("attribute count mismatch: got %d, want 2", len(div.Attributes))
	}
	if div.Attributes[0].Name.Literal != "class" {
		t.Errorf("attr[0] name mismatch: got %q", div.Attributes[0].Name.Literal)
	}
	if _, ok := div.Attributes[0].Value.(*ast.StringLiteral); !ok {
		t.Errorf("attr[0] value type mismatch: got %T", div.Attributes[0].Value)
	}
	if div.Attributes[1].Name.Literal != "onClick" {
		t.Errorf("attr[1] name mismatch: got %q", div.Attributes[1].Name.Literal)
	}
	if _, ok := div.Attributes[1].Value.(*ast.Identifier); !ok {
		t.Errorf("attr[1] value type mismatch: got %T", div.Attributes[1].Value)
	}

	// 子节点：文本空白 + span + 空白 + 表达式 + 空白 + Widget + 空白
	var span *ast.MarkupElement
	var widget *ast.ComponentRef
	var exprChild ast.Node
	for _, c := range div.Children {
		switch n := c.(type) {
		case *ast.MarkupElement:
			if n.TagName.Literal == "span" {
				span = n
			}
		case *ast.ComponentRef:
			if n.TagName.Literal == "Widget" {
				widget = n
			}
		case *ast.BinaryExpr:
			exprChild = n
		}
	}
	if span == nil {
		t.Fatal("span child missing")
	}
	if len(span.Children) != 1 {
		t.Fatalf("span child count mismatch: got %d", len(span.Children))
	}
	if text, ok := span.Children[0].(*ast.MarkupText); !ok || text.Value != "Hello" {
		t.Errorf("span text mismatch: %v", span.Children[0])
	}
	if exprChild == nil {
		t.Error("expression child missing")
	}
	if widget == nil {
		t.Fatal("Widget child missing")
	}
	if !widget.IsComponentRef() {
		t.Error("Widget should be a component reference")
	}
	if !widget.SelfClose {
		t.Error("Widget should be self-closing")
	}
	if len(widget.Attributes) != 2 {
		t.Fatalf("Widget attribute count mismatch: got %d", len(widget.Attributes))
	}
	if widget.Attributes[0].Name.Literal != "enabled" || widget.Attributes[0].Value != nil {
		t.Errorf("bare attribute mismatch: %s", widget.Attributes[0].String())
	}
	if widget.Attributes[1].Spread == nil {
		t.Error("spread attribute missing")
	}
}

func TestParseSignalBindingChild(t *testing.T) {
	file := parseFile(t, `component C() { return <p>count: $(count)</p>; }`)

	decl := file.Body[0].(*ast.ComponentDecl)
	ret := decl.Body.Statements[0].(*ast.ReturnStmt)
	p := ret.Value.(*ast.MarkupElement)

	if len(p.Children) != 2 {
		t.Fatalf("child count mismatch: got %d, want 2", len(p.Children))
	}
	text := p.Children[0].(*ast.MarkupText)
	if text.Value != "count: " {
		t.Errorf("text mismatch: got %q", text.Value)
	}
	binding, ok := p.Children[1].(*ast.SignalBindingExpr)
	if !ok {
		t.Fatalf("child type mismatch: got %T, want *ast.SignalBindingExpr", p.Children[1])
	}
	if binding.Name != "count" {
		t.Errorf("signal name mismatch: got %q", binding.Name)
	}
}

func TestParseMismatchedCloseTag(t *testing.T) {
	errs := parseWithError(t, `component C() { return <div>hello</span>; }`)

	if errs[0].Code != "P0003" {
		t.Errorf("error code mismatch: got %s, want P0003", errs[0].Code)
	}
	if !strings.Contains(errs[0].Message, "div") || !strings.Contains(errs[0].Message, "span") {
		t.Errorf("error message should name both tags: %q", errs[0].Message)
	}
}

// ============================================================================
// 表达式
// ============================================================================

func TestParseOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a || b && c", "(a || (b && c))"},
		{"!a == b", "((!a) == b)"},
		{"-a * b", "((-a) * b)"},
		{"a == b != c", "((a == b) != c)"},
		{"a + b < c * d", "((a + b) < (c * d))"},
		{"x << 2 + 1", "(x << (2 + 1))"},
	}

	for _, tt := range tests {
		file := parseFile(t, tt.input)
		stmt := file.Body[0].(*ast.ExprStmt)
		if got := stmt.Expr.String(); got != tt.expected {
			t.Errorf("input %q: got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestParseComparisonWithoutSpace(t *testing.T) {
	// `a<b` 先被暂定成标签开始，中缀位置必须退回比较
	file := parseFile(t, `const r = a<b;`)

	decl := file.Body[0].(*ast.VarDeclStmt)
	bin, ok := decl.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("value type mismatch: got %T, want *ast.BinaryExpr", decl.Value)
	}
	if bin.Operator != "<" {
		t.Errorf("operator mismatch: got %q, want %q", bin.Operator, "<")
	}
}

func TestParseGenericCallExpr(t *testing.T) {
	// 显式类型实参：配对 '>' 紧跟 '(' 才走泛型路径
	file := parseFile(t, `const x = identity<number>(1);`)

	decl := file.Body[0].(*ast.VarDeclStmt)
	call, ok := decl.Value.(*ast.CallExpr)
	if !ok {
		t.Fatalf("value type mismatch: got %T, want *ast.CallExpr", decl.Value)
	}
	if len(call.TypeArgs) != 1 {
		t.Fatalf("type arg count mismatch: got %d, want 1", len(call.TypeArgs))
	}
	if call.TypeArgs[0].String() != "number" {
		t.Errorf("type arg mismatch: got %q, want %q", call.TypeArgs[0].String(), "number")
	}
	if len(call.Args) != 1 {
		t.Errorf("arg count mismatch: got %d, want 1", len(call.Args))
	}
}

func TestParseGenericCallNestedTypeArgs(t *testing.T) {
	file := parseFile(t, `const x = first<Array<number>, string>(xs);`)

	decl := file.Body[0].(*ast.VarDeclStmt)
	call := decl.Value.(*ast.CallExpr)
	if len(call.TypeArgs) != 2 {
		t.Fatalf("type arg count mismatch: got %d, want 2", len(call.TypeArgs))
	}
	if _, ok := call.TypeArgs[0].(*ast.GenericType); !ok {
		t.Errorf("type arg[0] type mismatch: got %T, want *ast.GenericType", call.TypeArgs[0])
	}
}

func TestParseGenericCallFallsBackToComparison(t *testing.T) {
	// '>' 之后不是 '('：保持比较运算符链
	file := parseFile(t, `const r = a<b || c>d;`)

	decl := file.Body[0].(*ast.VarDeclStmt)
	if _, ok := decl.Value.(*ast.BinaryExpr); !ok {
		t.Fatalf("value type mismatch: got %T, want *ast.BinaryExpr", decl.Value)
	}
}

func TestParseEmptyDestructuringPattern(t *testing.T) {
	// 空模式不引入绑定，必须报语法错误
	tests := []string{
		`const [] = createSignal(0);`,
		`const {} = props;`,
	}
	for _, src := range tests {
		errs := parseWithError(t, src)
		if errs[0].Code != "P0002" {
			t.Errorf("input %q: error code mismatch: got %s, want P0002", src, errs[0].Code)
		}
	}
}

func TestParseArrowFunctions(t *testing.T) {
	file := parseFile(t, `
const inc = (x) => x + 1;
const log = () => { return null; };
const add = (a: number, b: number) => a + b;
`)

	d0 := file.Body[0].(*ast.VarDeclStmt)
	arrow, ok := d0.Value.(*ast.ArrowFuncExpr)
	if !ok {
		t.Fatalf("value type mismatch: got %T, want *ast.ArrowFuncExpr", d0.Value)
	}
	if len(arrow.Params) != 1 || arrow.Params[0].Name.Literal != "x" {
		t.Errorf("arrow params mismatch: %v", arrow.Params)
	}
	if _, ok := arrow.Body.(*ast.BinaryExpr); !ok {
		t.Errorf("arrow body type mismatch: got %T", arrow.Body)
	}

	d1 := file.Body[1].(*ast.VarDeclStmt)
	arrow1 := d1.Value.(*ast.ArrowFuncExpr)
	if _, ok := arrow1.Body.(*ast.BlockStmt); !ok {
		t.Errorf("block-bodied arrow mismatch: got %T", arrow1.Body)
	}

	d2 := file.Body[2].(*ast.VarDeclStmt)
	arrow2 := d2.Value.(*ast.ArrowFuncExpr)
	if len(arrow2.Params) != 2 || arrow2.Params[0].Type == nil {
		t.Errorf("typed arrow params mismatch: %v", arrow2.Params)
	}
}

func TestParseGroupedExpressionNotArrow(t *testing.T) {
	// 前瞻判定后分组表达式正常解析
	file := parseFile(t, `const y = (a + b) * c;`)

	decl := file.Body[0].(*ast.VarDeclStmt)
	if got := decl.Value.String(); got != "((a + b) * c)" {
		t.Errorf("grouped expression mismatch: got %q", got)
	}
}

func TestParseTemplateLiteral(t *testing.T) {
	file := parseFile(t, "const msg = `hello ${name}, you have ${count()} items`;")

	decl := file.Body[0].(*ast.VarDeclStmt)
	tpl, ok := decl.Value.(*ast.TemplateLiteral)
	if !ok {
		t.Fatalf("value type mismatch: got %T, want *ast.TemplateLiteral", decl.Value)
	}
	if len(tpl.Quasis) != 3 || len(tpl.Exprs) != 2 {
		t.Fatalf("template shape mismatch: %d quasis, %d exprs", len(tpl.Quasis), len(tpl.Exprs))
	}
	if tpl.Quasis[0] != "hello " || tpl.Quasis[1] != ", you have " || tpl.Quasis[2] != " items" {
		t.Errorf("quasis mismatch: %v", tpl.Quasis)
	}
	if _, ok := tpl.Exprs[1].(*ast.CallExpr); !ok {
		t.Errorf("expr[1] type mismatch: got %T", tpl.Exprs[1])
	}
}

func TestParseAssignmentTargets(t *testing.T) {
	file := parseFile(t, `
x = 1;
obj.field = 2;
arr[0] += 3;
`)
	if len(file.Body) != 3 {
		t.Fatalf("body length mismatch: got %d", len(file.Body))
	}

	errs := parseWithError(t, `1 = x;`)
	if errs[0].Code != "P0004" {
		t.Errorf("error code mismatch: got %s, want P0004", errs[0].Code)
	}
}

func TestParseIfElseChain(t *testing.T) {
	file := parseFile(t, `component C() {
	if (count() > 10) {
		return <p>many</p>;
	} else if (count() > 0) {
		return <p>some</p>;
	} else {
		return <p>none</p>;
	}
}`)

	decl := file.Body[0].(*ast.ComponentDecl)
	ifStmt := decl.Body.Statements[0].(*ast.IfStmt)
	elseIf, ok := ifStmt.Else.(*ast.IfStmt)
	if !ok {
		t.Fatalf("else branch type mismatch: got %T, want *ast.IfStmt", ifStmt.Else)
	}
	if _, ok := elseIf.Else.(*ast.BlockStmt); !ok {
		t.Errorf("final else type mismatch: got %T", elseIf.Else)
	}
}

func TestParseObjectAndArrayLiterals(t *testing.T) {
	file := parseFile(t, `const cfg = { name: "a", count, items: [1, 2, 3] };`)

	decl := file.Body[0].(*ast.VarDeclStmt)
	obj, ok := decl.Value.(*ast.ObjectLiteral)
	if !ok {
		t.Fatalf("value type mismatch: got %T, want *ast.ObjectLiteral", decl.Value)
	}
	if len(obj.Properties) != 3 {
		t.Fatalf("property count mismatch: got %d", len(obj.Properties))
	}
	if !obj.Properties[1].Shorthand {
		t.Error("property[1] should be shorthand")
	}
	arr, ok := obj.Properties[2].Value.(*ast.ArrayLiteral)
	if !ok {
		t.Fatalf("items type mismatch: got %T", obj.Properties[2].Value)
	}
	if len(arr.Elements) != 3 {
		t.Errorf("array element count mismatch: got %d", len(arr.Elements))
	}
}

func TestParseTernary(t *testing.T) {
	file := parseFile(t, `const v = ok ? 1 : other ? 2 : 3;`)
	decl := file.Body[0].(*ast.VarDeclStmt)
	if got := decl.Value.String(); got != "(ok ? 1 : (other ? 2 : 3))" {
		t.Errorf("ternary mismatch: got %q", got)
	}
}

// ============================================================================
// 错误行为
// ============================================================================

func TestParseErrorIsTerminal(t *testing.T) {
	// 第一个语法错误后整个解析停止，不做重同步
	p := New(`component C( { return 1; } component D() {}`, "test.psr")
	p.Parse()

	if len(p.Errors()) != 1 {
		t.Errorf("error count mismatch: got %d, want 1 (terminal errors)", len(p.Errors()))
	}
}

func TestParseErrorCodes(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{`component () {}`, "P0002"},
		{`const = 1;`, "P0002"},
		{`let x: = 1;`, "P0006"},
		{`const x = ;`, "P0005"},
		{`import { a } "m";`, "P0002"},
		{`const x = <div>a</span>;`, "P0003"},
	}

	for _, tt := range tests {
		errs := parseWithError(t, tt.input)
		if errs[0].Code != tt.code {
			t.Errorf("input %q: error code mismatch: got %s, want %s", tt.input, errs[0].Code, tt.code)
		}
	}
}

func TestParseDeepNestingLimit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("const x = ")
	for i := 0; i < 300; i++ {
		sb.WriteString("(1 + ")
	}
	sb.WriteString("1")
	for i := 0; i < 300; i++ {
		sb.WriteString(")")
	}
	sb.WriteString(";")

	errs := parseWithError(t, sb.String())
	if errs[0].Code != "P0008" {
		t.Errorf("error code mismatch: got %s, want P0008", errs[0].Code)
	}
}
