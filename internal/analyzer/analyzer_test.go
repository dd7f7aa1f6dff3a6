package analyzer

import (
	"testing"

	"github.com/psrlang/psr/internal/errors"
	"github.com/psrlang/psr/internal/ir"
	"github.com/psrlang/psr/internal/parser"
)

// ============================================================================
// 辅助函数
// ============================================================================

func analyzeSource(t *testing.T, source string) (*ir.Module, *Analyzer) {
	t.Helper()
	p := parser.New(source, "test.psr")
	file := p.Parse()
	if p.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	a := NewDefault()
	mod := a.Analyze(file)
	if mod == nil {
		t.Fatalf("analysis aborted: %v", a.Errors())
	}
	return mod, a
}

func onlyComponent(t *testing.T, mod *ir.Module) *ir.Component {
	t.Helper()
	if len(mod.Components) != 1 {
		t.Fatalf("expected 1 component, got %d", len(mod.Components))
	}
	return mod.Components[0]
}

// returnValue 取组件体里唯一 return 语句的返回值
func returnValue(t *testing.T, comp *ir.Component) ir.Node {
	t.Helper()
	for _, stmt := range comp.Body {
		if ret, ok := stmt.(*ir.Return); ok {
			return ret.Value
		}
	}
	t.Fatalf("component %s has no return statement", comp.Name)
	return nil
}

// ============================================================================
// 组件
// ============================================================================

func TestAnalyzeSimpleComponent(t *testing.T) {
	mod, a := analyzeSource(t, `component MyButton() { return <button>Click</button>; }`)
	if a.HasErrors() {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}

	comp := onlyComponent(t, mod)
	if comp.Name != "MyButton" {
		t.Errorf("expected name MyButton, got %s", comp.Name)
	}
	if comp.RegistryKey != "component:MyButton" {
		t.Errorf("expected registry key component:MyButton, got %s", comp.RegistryKey)
	}
	if len(comp.Params) != 0 {
		t.Errorf("expected 0 params, got %d", len(comp.Params))
	}
	if comp.UsesSignals {
		t.Error("expected usesSignals=false")
	}
	if !comp.IsStatic {
		t.Error("expected isStatic=true for component without reactive deps")
	}
	if !comp.IsPure {
		t.Error("expected isPure=true for single-return body")
	}
	if !comp.CanInline {
		t.Error("expected canInline=true for param-free component without event handlers")
	}

	el, ok := returnValue(t, comp).(*ir.Element)
	if !ok {
		t.Fatalf("expected Element return value, got %T", returnValue(t, comp))
	}
	if el.TagName != "button" || el.Kind != ir.KindElement {
		t.Errorf("expected intrinsic <button>, got %s %s", el.Kind, el.TagName)
	}
	if !el.IsStatic {
		t.Error("expected static element")
	}
}

func TestAnalyzeSignalComponent(t *testing.T) {
	mod, a := analyzeSource(t, `
component Counter() {
	const count = createSignal(0);
	return <div>$(count)</div>;
}`)
	if a.HasErrors() {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}

	comp := onlyComponent(t, mod)
	if !comp.UsesSignals {
		t.Error("expected usesSignals=true")
	}
	if len(comp.ReactiveDependencies) != 1 || comp.ReactiveDependencies[0] != "count" {
		t.Errorf("expected reactiveDependencies [count], got %v", comp.ReactiveDependencies)
	}
	if comp.IsStatic {
		t.Error("expected isStatic=false for reactive component")
	}

	el := returnValue(t, comp).(*ir.Element)
	if len(el.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(el.Children))
	}
	binding, ok := el.Children[0].(*ir.SignalBinding)
	if !ok {
		t.Fatalf("expected SignalBinding child, got %T", el.Children[0])
	}
	if binding.SignalName != "count" {
		t.Errorf("expected signalName count, got %s", binding.SignalName)
	}
	if binding.IsExternal {
		t.Error("expected isExternal=false for locally declared signal")
	}
	if el.IsStatic {
		t.Error("element with signal binding must not be static")
	}
}

func TestAnalyzeDestructuredSignal(t *testing.T) {
	mod, a := analyzeSource(t, `
component Counter() {
	const [count, setCount] = createSignal(0);
	return <div>$(count)</div>;
}`)
	if a.HasErrors() {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}

	comp := onlyComponent(t, mod)
	decl, ok := comp.Body[0].(*ir.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", comp.Body[0])
	}
	if !decl.IsSignal {
		t.Error("expected isSignal=true")
	}
	if len(decl.DestructuringNames) != 2 ||
		decl.DestructuringNames[0] != "count" || decl.DestructuringNames[1] != "setCount" {
		t.Errorf("expected destructuringNames [count setCount], got %v", decl.DestructuringNames)
	}

	if len(comp.Signals) != 1 {
		t.Fatalf("expected 1 signal decl, got %d", len(comp.Signals))
	}
	if comp.Signals[0].Name != "count" || comp.Signals[0].SetterName != "setCount" {
		t.Errorf("expected signal count/setCount, got %s/%s",
			comp.Signals[0].Name, comp.Signals[0].SetterName)
	}
}

func TestAnalyzeImplicitReturn(t *testing.T) {
	mod, a := analyzeSource(t, `component App() { <div>hi</div> }`)
	if a.HasErrors() {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}

	comp := onlyComponent(t, mod)
	if len(comp.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(comp.Body))
	}
	ret, ok := comp.Body[0].(*ir.Return)
	if !ok {
		t.Fatalf("expected trailing markup to be wrapped in Return, got %T", comp.Body[0])
	}
	if _, ok := ret.Value.(*ir.Element); !ok {
		t.Errorf("expected Element return value, got %T", ret.Value)
	}
	if !comp.IsPure {
		t.Error("expected isPure=true after implicit return wrapping")
	}
}

// ============================================================================
// 导入与导出
// ============================================================================

func TestAnalyzeImportSpecifiers(t *testing.T) {
	mod, a := analyzeSource(t, `import React, { useState } from 'react';`)
	if a.HasErrors() {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}

	if len(mod.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(mod.Imports))
	}
	imp := mod.Imports[0]
	if imp.Source != "react" {
		t.Errorf("expected source react, got %s", imp.Source)
	}
	if len(imp.Specifiers) != 2 {
		t.Fatalf("expected 2 specifiers, got %d", len(imp.Specifiers))
	}
	if imp.Specifiers[0].Type != ir.ImportDefaultSpecifier || imp.Specifiers[0].Local != "React" {
		t.Errorf("expected default specifier React, got %s %s",
			imp.Specifiers[0].Type, imp.Specifiers[0].Local)
	}
	if imp.Specifiers[1].Type != ir.ImportNamedSpecifier || imp.Specifiers[1].Local != "useState" {
		t.Errorf("expected named specifier useState, got %s %s",
			imp.Specifiers[1].Type, imp.Specifiers[1].Local)
	}

	if a.Context().Imports()["React"] != "react" || a.Context().Imports()["useState"] != "react" {
		t.Errorf("import map not populated: %v", a.Context().Imports())
	}
}

func TestAnalyzeExports(t *testing.T) {
	mod, a := analyzeSource(t, `
export component App() { return <div/>; }
export { App as Root } from "./app";
export default App;
`)
	if a.HasErrors() {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}
	if len(mod.Exports) != 3 {
		t.Fatalf("expected 3 exports, got %d", len(mod.Exports))
	}

	if !a.Context().Exports()["App"] {
		t.Error("expected App in export set")
	}
	// 再导出不引入本地绑定
	if a.Context().Exports()["Root"] {
		t.Error("re-export name Root must not enter the local export set")
	}
	if mod.Exports[1].Source != "./app" {
		t.Errorf("expected re-export source ./app, got %s", mod.Exports[1].Source)
	}
	if !mod.Exports[2].Default {
		t.Error("expected third export to be default")
	}

	comp := onlyComponent(t, mod)
	if !comp.Exported {
		t.Error("expected exported component")
	}
}

// ============================================================================
// 标识符分类
// ============================================================================

func TestAnalyzeIdentifierClassification(t *testing.T) {
	mod, a := analyzeSource(t, `
import { helper } from "lib";
component View(label: string) {
	const local = 1;
	return <div>{helper(local, label, window)}</div>;
}`)
	if a.HasErrors() {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}

	comp := onlyComponent(t, mod)
	el := returnValue(t, comp).(*ir.Element)
	call, ok := el.Children[0].(*ir.Call)
	if !ok {
		t.Fatalf("expected Call child, got %T", el.Children[0])
	}

	tests := []struct {
		node     ir.Node
		name     string
		expected string
	}{
		{call.Callee, "helper", ir.ClassImported},
		{call.Args[0], "local", ir.ClassLocal},
		{call.Args[1], "label", ir.ClassParameter},
		{call.Args[2], "window", ir.ClassGlobal},
	}
	for _, tt := range tests {
		ident, ok := tt.node.(*ir.Identifier)
		if !ok {
			t.Errorf("%s: expected Identifier, got %T", tt.name, tt.node)
			continue
		}
		if ident.Name != tt.name {
			t.Errorf("expected identifier %s, got %s", tt.name, ident.Name)
		}
		if ident.Classification != tt.expected {
			t.Errorf("%s: expected classification %s, got %s",
				tt.name, tt.expected, ident.Classification)
		}
	}
}

func TestAnalyzeSignalIdentifierCarriesDeps(t *testing.T) {
	// 引用已注册信号的标识符节点自带依赖列表，
	// 不依赖组件级的 reactiveDependencies 汇总
	mod, a := analyzeSource(t, `
component C() {
	const [count, setCount] = createSignal(0);
	const alias = count;
	const plain = helper;
	return <div/>;
}`)
	if a.HasErrors() {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}

	comp := onlyComponent(t, mod)
	aliasDecl, ok := comp.Body[1].(*ir.VarDecl)
	if !ok {
		t.Fatalf("body[1] type mismatch: got %T, want *ir.VarDecl", comp.Body[1])
	}
	ident, ok := aliasDecl.Init.(*ir.Identifier)
	if !ok {
		t.Fatalf("init type mismatch: got %T, want *ir.Identifier", aliasDecl.Init)
	}
	if len(ident.Deps) != 1 || ident.Deps[0] != "count" {
		t.Errorf("deps mismatch: got %v, want [count]", ident.Deps)
	}

	plainDecl := comp.Body[2].(*ir.VarDecl)
	plain := plainDecl.Init.(*ir.Identifier)
	if plain.Deps != nil {
		t.Errorf("non-signal identifier must not carry deps: %v", plain.Deps)
	}
}

// ============================================================================
// 信号绑定转换
// ============================================================================

func TestAnalyzeMarkupChildSignalCall(t *testing.T) {
	mod, a := analyzeSource(t, `
component C() {
	const count = createSignal(0);
	const v = count();
	return <div>{count()}</div>;
}`)
	if a.HasErrors() {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}

	comp := onlyComponent(t, mod)

	// 标记子节点位置的零参信号调用转换为信号绑定
	el := returnValue(t, comp).(*ir.Element)
	if _, ok := el.Children[0].(*ir.SignalBinding); !ok {
		t.Errorf("expected markup-child signal call to become SignalBinding, got %T", el.Children[0])
	}

	// 其它位置的同一调用保持普通调用
	decl := comp.Body[1].(*ir.VarDecl)
	if _, ok := decl.Init.(*ir.Call); !ok {
		t.Errorf("expected non-markup signal call to stay Call, got %T", decl.Init)
	}
}

func TestAnalyzeExternalSignalBinding(t *testing.T) {
	mod, a := analyzeSource(t, `component C() { return <div>$(theme)</div>; }`)
	if a.HasErrors() {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}

	comp := onlyComponent(t, mod)
	el := returnValue(t, comp).(*ir.Element)
	binding := el.Children[0].(*ir.SignalBinding)
	if !binding.IsExternal {
		t.Error("expected isExternal=true for undeclared signal name")
	}
	// 未注册的信号不进依赖表
	if len(comp.ReactiveDependencies) != 0 {
		t.Errorf("expected no reactive deps, got %v", comp.ReactiveDependencies)
	}
}

func TestAnalyzeReactiveDepsDeduped(t *testing.T) {
	mod, a := analyzeSource(t, `
component C() {
	const count = createSignal(0);
	return <div>$(count)$(count)$(count)</div>;
}`)
	if a.HasErrors() {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}
	comp := onlyComponent(t, mod)
	if len(comp.ReactiveDependencies) != 1 {
		t.Errorf("expected deduped deps [count], got %v", comp.ReactiveDependencies)
	}
}

// ============================================================================
// 静态分类与事件属性
// ============================================================================

func TestAnalyzeEventAttributes(t *testing.T) {
	mod, a := analyzeSource(t, `
component Button(handler: Function) {
	return <button onClick={handler} class="btn">Go</button>;
}`)
	if a.HasErrors() {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}

	comp := onlyComponent(t, mod)
	el := returnValue(t, comp).(*ir.Element)

	if len(el.Attributes) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(el.Attributes))
	}
	if !el.Attributes[0].IsEvent {
		t.Error("expected onClick to be an event attribute")
	}
	if el.Attributes[1].IsEvent {
		t.Error("expected class to be a plain attribute")
	}
	if el.IsStatic {
		t.Error("element with event handler must not be static")
	}
	if comp.CanInline {
		t.Error("component with params and event handlers must not be inlinable")
	}
}

func TestAnalyzeStaticSubtree(t *testing.T) {
	mod, a := analyzeSource(t, `
component Page() {
	return <div class="page"><span>static</span></div>;
}`)
	if a.HasErrors() {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}

	comp := onlyComponent(t, mod)
	el := returnValue(t, comp).(*ir.Element)
	if !el.IsStatic {
		t.Error("expected fully literal subtree to be static")
	}
	if !comp.IsStatic {
		t.Error("expected component without reactive deps to be static")
	}
}

func TestAnalyzeComponentReference(t *testing.T) {
	mod, a := analyzeSource(t, `
component App() {
	return <div><Widget size={3}/></div>;
}`)
	if a.HasErrors() {
		t.Fatalf("unexpected errors: %v", a.Errors())
	}

	comp := onlyComponent(t, mod)
	el := returnValue(t, comp).(*ir.Element)
	ref, ok := el.Children[0].(*ir.Element)
	if !ok {
		t.Fatalf("expected child element, got %T", el.Children[0])
	}
	if ref.Kind != ir.KindComponentRef {
		t.Errorf("expected ComponentReference for capitalized tag, got %s", ref.Kind)
	}
}

// ============================================================================
// 诊断
// ============================================================================

func TestAnalyzeDuplicateDeclaration(t *testing.T) {
	src := `component C() { const x = 1; const x = 2; return <div/>; }`
	p := parser.New(src, "test.psr")
	file := p.Parse()
	if p.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	a := NewDefault()
	mod := a.Analyze(file)
	if mod == nil {
		t.Fatal("duplicate declaration should not abort analysis")
	}
	if !a.HasErrors() {
		t.Fatal("expected duplicate declaration error")
	}
	found := false
	for _, d := range a.Errors() {
		if d.Code == errors.A0005 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected diagnostic A0005, got %v", a.Errors())
	}
}

func TestAnalyzeIterationCeiling(t *testing.T) {
	src := `component C() { return <div><span>deep</span></div>; }`
	p := parser.New(src, "test.psr")
	file := p.Parse()
	if p.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}

	opts := DefaultOptions()
	opts.IterationCeiling = 3
	a := New(opts)
	if mod := a.Analyze(file); mod != nil {
		t.Fatal("expected ceiling breach to abort analysis")
	}
	if !a.HasErrors() {
		t.Fatal("expected internal error")
	}
	last := a.Errors()[len(a.Errors())-1]
	if last.Code != errors.X0001 {
		t.Errorf("expected X0001, got %s", last.Code)
	}
}

func TestAnalyzeIdempotentReset(t *testing.T) {
	a := NewDefault()

	p1 := parser.New(`
import { helper } from "lib";
component First() {
	const count = createSignal(0);
	return <div>$(count)</div>;
}`, "first.psr")
	if mod := a.Analyze(p1.Parse()); mod == nil {
		t.Fatalf("first analysis aborted: %v", a.Errors())
	}

	p2 := parser.New(`component Second() { return <div/>; }`, "second.psr")
	mod := a.Analyze(p2.Parse())
	if mod == nil {
		t.Fatalf("second analysis aborted: %v", a.Errors())
	}

	if len(a.Context().Imports()) != 0 {
		t.Errorf("imports leaked across analyses: %v", a.Context().Imports())
	}
	if _, ok := a.Context().Registry()["First"]; ok {
		t.Error("registry leaked across analyses")
	}
	comp := onlyComponent(t, mod)
	if comp.UsesSignals || len(comp.ReactiveDependencies) != 0 {
		t.Error("signal state leaked across analyses")
	}
}

// ============================================================================
// 确定性
// ============================================================================

func TestAnalyzeDeterministicClassification(t *testing.T) {
	src := `
import { api } from "net";
component C(x: number) {
	const y = 2;
	return <div>{api(x, y)}</div>;
}`
	var first []string
	for i := 0; i < 3; i++ {
		mod, _ := analyzeSource(t, src)
		comp := onlyComponent(t, mod)
		el := returnValue(t, comp).(*ir.Element)
		call := el.Children[0].(*ir.Call)
		classes := []string{
			call.Callee.(*ir.Identifier).Classification,
			call.Args[0].(*ir.Identifier).Classification,
			call.Args[1].(*ir.Identifier).Classification,
		}
		if first == nil {
			first = classes
			continue
		}
		for j := range classes {
			if classes[j] != first[j] {
				t.Fatalf("classification not deterministic: run %d got %v, want %v", i, classes, first)
			}
		}
	}
}
