package lsp

import (
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/psrlang/psr/internal/ir"
)

// hoverAt 返回指定位置的悬停信息
//
// 位置落在某个组件声明范围内时，展示该组件的语义元数据。
// line/character 是协议的 0 基坐标。
func hoverAt(doc *Document, line, character int) *protocol.Hover {
	result := doc.Compile()
	if result.Module == nil {
		return nil
	}

	comp := componentAt(result.Module, line+1, character+1)
	if comp == nil {
		return nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: formatComponentHover(comp),
		},
		Range: &protocol.Range{
			Start: protocol.Position{
				Line:      uint32(comp.Span.Start.Line - 1),
				Character: uint32(comp.Span.Start.Column - 1),
			},
			End: protocol.Position{
				Line:      uint32(comp.Span.End.Line - 1),
				Character: uint32(comp.Span.End.Column - 1),
			},
		},
	}
}

// componentAt 查找覆盖指定位置（1 基行列）的组件
func componentAt(mod *ir.Module, line, column int) *ir.Component {
	for _, comp := range mod.Components {
		if spanContains(comp.Span, line, column) {
			return comp
		}
	}
	return nil
}

func spanContains(span ir.Span, line, column int) bool {
	if line < span.Start.Line || line > span.End.Line {
		return false
	}
	if line == span.Start.Line && column < span.Start.Column {
		return false
	}
	if line == span.End.Line && column > span.End.Column {
		return false
	}
	return true
}

// formatComponentHover 组件元数据的 Markdown 展示
func formatComponentHover(comp *ir.Component) string {
	var sb strings.Builder

	var params []string
	for _, p := range comp.Params {
		if p.TypeRef != "" {
			params = append(params, p.Name+": "+p.TypeRef)
		} else {
			params = append(params, p.Name)
		}
	}
	fmt.Fprintf(&sb, "```psr\ncomponent %s(%s)\n```\n\n", comp.Name, strings.Join(params, ", "))
	fmt.Fprintf(&sb, "registry key: `%s`\n\n", comp.RegistryKey)

	if comp.UsesSignals {
		fmt.Fprintf(&sb, "reactive dependencies: `%s`\n", strings.Join(comp.ReactiveDependencies, "`, `"))
	} else {
		sb.WriteString("no reactive dependencies\n")
	}

	var flags []string
	if comp.IsStatic {
		flags = append(flags, "static")
	}
	if comp.IsPure {
		flags = append(flags, "pure")
	}
	if comp.CanInline {
		flags = append(flags, "inlinable")
	}
	if len(flags) > 0 {
		fmt.Fprintf(&sb, "\nflags: %s\n", strings.Join(flags, ", "))
	}
	return sb.String()
}
