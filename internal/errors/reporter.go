package errors

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ============================================================================
// 诊断报告器
// ============================================================================

// DefaultMaxErrors 默认错误预算
//
// 超过预算后 Reporter 拒绝继续收集，避免错误爆炸刷屏。
const DefaultMaxErrors = 50

// Reporter 诊断报告器
//
// 收集各阶段产生的诊断，缓存源代码行，最后统一渲染输出。
// 每个编译单元使用独立的 Reporter，不跨文件共享。
type Reporter struct {
	formatter   *Formatter
	sourceCache map[string][]string // 文件名 -> 源代码行
	diagnostics []*Diagnostic
	maxErrors   int
	truncated   bool // 是否因超过预算而截断
}

// NewReporter 创建诊断报告器
func NewReporter() *Reporter {
	return &Reporter{
		formatter:   NewFormatter(),
		sourceCache: make(map[string][]string),
		maxErrors:   DefaultMaxErrors,
	}
}

// SetFormatter 设置格式化器
func (r *Reporter) SetFormatter(f *Formatter) {
	r.formatter = f
}

// SetMaxErrors 设置错误预算
func (r *Reporter) SetMaxErrors(n int) {
	if n > 0 {
		r.maxErrors = n
	}
}

// LoadSource 从磁盘加载源文件（用于渲染出错行）
func (r *Reporter) LoadSource(filename string) error {
	if _, ok := r.sourceCache[filename]; ok {
		return nil // 已加载
	}

	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	r.sourceCache[filename] = lines
	return nil
}

// SetSource 设置源代码（用于测试或内存中的源代码）
func (r *Reporter) SetSource(filename string, content string) {
	r.sourceCache[filename] = strings.Split(content, "\n")
}

// Report 收集一条诊断
//
// 返回 false 表示错误预算已用尽，调用方应中止当前文件的编译。
func (r *Reporter) Report(d *Diagnostic) bool {
	if r.truncated {
		return false
	}
	if r.errorCount() >= r.maxErrors {
		r.truncated = true
		return false
	}
	r.diagnostics = append(r.diagnostics, d)
	return true
}

// ReportAll 批量收集诊断
func (r *Reporter) ReportAll(ds []*Diagnostic) {
	for _, d := range ds {
		if !r.Report(d) {
			return
		}
	}
}

// Diagnostics 返回收集到的全部诊断
func (r *Reporter) Diagnostics() []*Diagnostic {
	return r.diagnostics
}

// HasErrors 是否收集到了错误级诊断
func (r *Reporter) HasErrors() bool {
	return r.errorCount() > 0
}

// Truncated 是否因超过错误预算而截断
func (r *Reporter) Truncated() bool {
	return r.truncated
}

func (r *Reporter) errorCount() int {
	n := 0
	for _, d := range r.diagnostics {
		if d.Level == LevelError {
			n++
		}
	}
	return n
}

// Flush 渲染全部诊断到 w
func (r *Reporter) Flush(w io.Writer) {
	for _, d := range r.diagnostics {
		lines := r.sourceCache[d.Pos.Filename]
		fmt.Fprint(w, r.formatter.Format(d, lines))
		fmt.Fprintln(w)
	}

	if r.truncated {
		fmt.Fprintf(w, "error: too many errors emitted, stopping now\n")
	}
}
