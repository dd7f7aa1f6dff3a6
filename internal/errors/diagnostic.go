package errors

import (
	"fmt"

	"github.com/psrlang/psr/internal/token"
)

// ============================================================================
// Diagnostic - 结构化诊断
// ============================================================================

// Diagnostic 一条结构化诊断
//
// 诊断的形状对下游报告器保持稳定：code 是短的带前缀字符串
// （词法 L、语法 P、分析 A、内部 X），位置可选，级别三档。
type Diagnostic struct {
	Code    string         // 诊断码 (L0001, P0003, ...)
	Message string         // 主消息
	Pos     token.Position // 位置（可能无效，用 Pos.IsValid 判断）
	Span    token.Span     // 范围（可选，用于高亮）
	Level   Level          // 级别
	Context string         // 附加上下文（组件名等，可为空）
}

// Error 实现 error 接口
func (d *Diagnostic) Error() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s[%s]: %s", d.Pos, d.Level, d.Code, d.Message)
	}
	return fmt.Sprintf("%s[%s]: %s", d.Level, d.Code, d.Message)
}

// IsInternal 判断是否为编译器内部缺陷
func (d *Diagnostic) IsInternal() bool {
	return IsInternal(d.Code)
}

// New 创建一条诊断
func New(code string, level Level, message string, pos token.Position) *Diagnostic {
	return &Diagnostic{
		Code:    code,
		Message: message,
		Pos:     pos,
		Span:    token.Span{Start: pos, End: pos},
		Level:   level,
	}
}

// NewError 创建一条错误级诊断
func NewError(code, message string, pos token.Position) *Diagnostic {
	return New(code, LevelError, message, pos)
}

// NewWarning 创建一条警告级诊断
func NewWarning(code, message string, pos token.Position) *Diagnostic {
	return New(code, LevelWarning, message, pos)
}

// WithSpan 附加范围信息
func (d *Diagnostic) WithSpan(span token.Span) *Diagnostic {
	d.Span = span
	return d
}

// WithContext 附加上下文信息
func (d *Diagnostic) WithContext(ctx string) *Diagnostic {
	d.Context = ctx
	return d
}
