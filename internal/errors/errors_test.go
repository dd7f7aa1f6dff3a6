package errors

import (
	"bytes"
	"strings"
	"testing"

	"github.com/psrlang/psr/internal/token"
)

func pos(line, col int) token.Position {
	return token.Position{Filename: "test.psr", Line: line, Column: col}
}

func TestDiagnosticError(t *testing.T) {
	d := NewError(P0003, "mismatched closing tag", pos(3, 7))
	s := d.Error()
	for _, want := range []string{"test.psr:3:7", "P0003", "mismatched closing tag"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in %q", want, s)
		}
	}
}

func TestDiagnosticWithoutPosition(t *testing.T) {
	d := NewError(X0001, "internal defect", token.Position{})
	s := d.Error()
	if strings.Contains(s, ":0:0") {
		t.Errorf("invalid position must not be rendered: %q", s)
	}
	if !d.IsInternal() {
		t.Error("X codes are internal defects")
	}
	if NewError(L0001, "x", pos(1, 1)).IsInternal() {
		t.Error("L codes are user errors, not internal")
	}
}

func TestReporterBudget(t *testing.T) {
	r := NewReporter()
	r.SetMaxErrors(3)

	for i := 0; i < 5; i++ {
		r.Report(NewError(P0001, "unexpected token", pos(i+1, 1)))
	}
	if len(r.Diagnostics()) != 3 {
		t.Errorf("expected 3 retained diagnostics, got %d", len(r.Diagnostics()))
	}
	if !r.Truncated() {
		t.Error("expected reporter to be truncated")
	}
	if !r.HasErrors() {
		t.Error("expected HasErrors")
	}
}

func TestReporterWarningsDoNotConsumeBudget(t *testing.T) {
	r := NewReporter()
	r.SetMaxErrors(2)

	for i := 0; i < 5; i++ {
		r.Report(NewWarning(A0001, "unknown node kind", pos(i+1, 1)))
	}
	if r.Truncated() {
		t.Error("warnings must not trip the error budget")
	}
	if r.HasErrors() {
		t.Error("warnings are not errors")
	}
}

func TestReporterFlushWithSource(t *testing.T) {
	r := NewReporter()
	r.SetFormatter(&Formatter{Colors: false, ShowSource: true, TabWidth: 4})
	r.SetSource("test.psr", "const x = 1;\nconst y = @;\n")
	r.Report(NewError(L0001, "unexpected character '@'", pos(2, 11)))

	var buf bytes.Buffer
	r.Flush(&buf)
	out := buf.String()
	if !strings.Contains(out, "const y = @;") {
		t.Errorf("expected source line in output:\n%s", out)
	}
	if !strings.Contains(out, "L0001") {
		t.Errorf("expected code in output:\n%s", out)
	}
}

func TestCodeNamespaces(t *testing.T) {
	tests := []struct {
		code     string
		internal bool
	}{
		{L0001, false},
		{P0008, false},
		{A0004, false},
		{X0001, true},
		{X0003, true},
	}
	for _, tt := range tests {
		if IsInternal(tt.code) != tt.internal {
			t.Errorf("IsInternal(%s) = %v, want %v", tt.code, !tt.internal, tt.internal)
		}
	}
}
