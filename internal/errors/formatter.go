package errors

import (
	"fmt"
	"strings"
)

// ============================================================================
// ANSI 颜色
// ============================================================================

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

// ============================================================================
// 格式化器
// ============================================================================

// Formatter 诊断格式化器
type Formatter struct {
	Colors     bool // 是否使用颜色
	ShowSource bool // 是否显示源代码
	TabWidth   int  // Tab 宽度
}

// NewFormatter 创建默认格式化器
func NewFormatter() *Formatter {
	return &Formatter{
		Colors:     true,
		ShowSource: true,
		TabWidth:   4,
	}
}

// Format 格式化一条诊断
//
// 输出形如：
//
//	error[P0003]: mismatched closing tag: expected </div> but found </span>
//	 --> app.psr:5:12
//	  |
//	5 |     return <div>hello</span>;
//	  |                      ^^^^^^^
//
// 内部缺陷 (X 码) 额外标注 internal compiler defect，
// 提示用户这是编译器 bug 而不是源码问题。
func (f *Formatter) Format(d *Diagnostic, sourceLines []string) string {
	var sb strings.Builder

	// 诊断头: error[P0003]: ...
	levelStr := f.colorize(d.Level.String(), f.levelColor(d.Level))
	codeStr := f.colorize(fmt.Sprintf("[%s]", d.Code), f.levelColor(d.Level))
	sb.WriteString(fmt.Sprintf("%s%s: %s\n", levelStr, codeStr, d.Message))

	if d.IsInternal() {
		note := f.colorize(" = note:", ColorCyan)
		sb.WriteString(fmt.Sprintf("%s this is an internal compiler defect, please report it\n", note))
	}

	if d.Context != "" {
		note := f.colorize(" = note:", ColorCyan)
		sb.WriteString(fmt.Sprintf("%s in %s\n", note, d.Context))
	}

	// 位置: --> file.psr:5:12
	if d.Pos.IsValid() {
		arrow := f.colorize("-->", ColorCyan)
		location := f.colorize(d.Pos.String(), ColorCyan)
		sb.WriteString(fmt.Sprintf(" %s %s\n", arrow, location))
	}

	// 源代码和下划线标注
	if f.ShowSource && d.Pos.IsValid() && d.Pos.Line > 0 && d.Pos.Line <= len(sourceLines) {
		sb.WriteString(f.formatSourceLine(sourceLines[d.Pos.Line-1], d))
	}

	return sb.String()
}

// formatSourceLine 渲染出错行和下划线
func (f *Formatter) formatSourceLine(line string, d *Diagnostic) string {
	var sb strings.Builder

	expanded := strings.ReplaceAll(line, "\t", strings.Repeat(" ", f.TabWidth))
	lineNo := fmt.Sprintf("%d", d.Pos.Line)
	gutter := strings.Repeat(" ", len(lineNo))

	sb.WriteString(fmt.Sprintf("%s |\n", gutter))
	sb.WriteString(fmt.Sprintf("%s | %s\n", lineNo, expanded))

	// 下划线长度来自 Span，最少 1 个字符
	length := d.Span.Length()
	if length < 1 {
		length = 1
	}
	col := d.Pos.Column
	if col < 1 {
		col = 1
	}
	// Tab 展开后列号偏移
	tabs := strings.Count(line[:min(col-1, len(line))], "\t")
	col += tabs * (f.TabWidth - 1)

	caret := strings.Repeat(" ", col-1) + strings.Repeat("^", length)
	sb.WriteString(fmt.Sprintf("%s | %s\n", gutter, f.colorize(caret, f.levelColor(d.Level))))

	return sb.String()
}

// colorize 给文本着色（颜色关闭时原样返回）
func (f *Formatter) colorize(text, color string) string {
	if !f.Colors {
		return text
	}
	return color + text + ColorReset
}

// levelColor 返回级别对应的颜色
func (f *Formatter) levelColor(l Level) string {
	switch l {
	case LevelError:
		return ColorRed
	case LevelWarning:
		return ColorYellow
	default:
		return ColorCyan
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
