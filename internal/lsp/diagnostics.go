package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/psrlang/psr/internal/errors"
)

// toProtocolDiagnostic 把编译器诊断转成 LSP 诊断
//
// 编译器的行列从 1 开始，协议从 0 开始。
func toProtocolDiagnostic(d *errors.Diagnostic) protocol.Diagnostic {
	start := protocol.Position{}
	end := protocol.Position{}
	if d.Pos.IsValid() {
		start.Line = uint32(d.Pos.Line - 1)
		start.Character = uint32(d.Pos.Column - 1)
		end = start
	}
	if d.Span.End.IsValid() && d.Span.End.Line >= d.Span.Start.Line {
		end.Line = uint32(d.Span.End.Line - 1)
		end.Character = uint32(d.Span.End.Column - 1)
	}

	severity := protocol.DiagnosticSeverityError
	switch d.Level {
	case errors.LevelWarning:
		severity = protocol.DiagnosticSeverityWarning
	case errors.LevelError:
		severity = protocol.DiagnosticSeverityError
	default:
		severity = protocol.DiagnosticSeverityInformation
	}

	return protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: severity,
		Code:     d.Code,
		Source:   "psr",
		Message:  d.Message,
	}
}
