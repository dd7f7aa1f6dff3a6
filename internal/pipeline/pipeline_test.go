package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/psrlang/psr/internal/loader"
	"github.com/psrlang/psr/internal/project"
)

func TestCompileValidSource(t *testing.T) {
	p := New()
	result := p.Compile(`component App() { return <div>hi</div>; }`, "app.psr")
	if result.Failed() {
		t.Fatalf("unexpected failure: %v", result.Diagnostics)
	}
	if result.Module == nil || len(result.Module.Components) != 1 {
		t.Fatal("expected module with 1 component")
	}
	if result.Module.Components[0].RegistryKey != "component:App" {
		t.Errorf("unexpected registry key %s", result.Module.Components[0].RegistryKey)
	}
}

func TestCompileLexError(t *testing.T) {
	p := New()
	result := p.Compile("const x = @;", "bad.psr")
	if !result.Failed() {
		t.Fatal("expected failure")
	}
	if result.Module != nil {
		t.Error("failed compilation must not produce a module")
	}
	found := false
	for _, d := range result.Diagnostics {
		if strings.HasPrefix(d.Code, "L") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected lexical diagnostic, got %v", result.Diagnostics)
	}
}

func TestCompileParseError(t *testing.T) {
	p := New()
	result := p.Compile("component () {}", "bad.psr")
	if !result.Failed() {
		t.Fatal("expected failure")
	}
	found := false
	for _, d := range result.Diagnostics {
		if strings.HasPrefix(d.Code, "P") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected parse diagnostic, got %v", result.Diagnostics)
	}
}

func TestCompileWithConfig(t *testing.T) {
	config := project.Default(".")
	config.Compiler.ReactivePrimitives = []string{"makeSignal"}
	p := NewWithConfig(config)

	result := p.Compile(`
component C() {
	const count = makeSignal(0);
	return <div>$(count)</div>;
}`, "app.psr")
	if result.Failed() {
		t.Fatalf("unexpected failure: %v", result.Diagnostics)
	}
	comp := result.Module.Components[0]
	if !comp.UsesSignals {
		t.Error("expected configured primitive makeSignal to register a signal")
	}
}

func TestCompileFilesParallel(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	sources := map[string]string{
		"a.psr": `component A() { return <div>a</div>; }`,
		"b.psr": `component B() { return <div>b</div>; }`,
		"c.psr": `component C() { return <div`, // 故意残缺
	}
	for name, src := range sources {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(src), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}

	l, err := loader.New(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	results, err := New().CompileFiles(context.Background(), l, paths)
	if err != nil {
		t.Fatalf("CompileFiles failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	failed := 0
	for i, r := range results {
		if r.Filename != paths[i] {
			t.Errorf("result %d out of order: %s vs %s", i, r.Filename, paths[i])
		}
		if r.Failed() {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly 1 failed file, got %d", failed)
	}
}

func TestCompileFilesIndependence(t *testing.T) {
	// 一个文件的信号声明不泄漏到另一个文件
	p := New()
	r1 := p.Compile(`
component First() {
	const count = createSignal(0);
	return <div>$(count)</div>;
}`, "first.psr")
	r2 := p.Compile(`component Second() { return <div>{count()}</div>; }`, "second.psr")

	if r1.Failed() || r2.Failed() {
		t.Fatalf("unexpected failure: %v %v", r1.Diagnostics, r2.Diagnostics)
	}
	second := r2.Module.Components[0]
	if second.UsesSignals {
		t.Error("signal state leaked between compilations")
	}
}
