// Package pipeline 串联 Lexer → Parser → Analyzer 的单文件编译流程，
// 并提供多文件并行编译。
package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/psrlang/psr/internal/analyzer"
	"github.com/psrlang/psr/internal/errors"
	"github.com/psrlang/psr/internal/ir"
	"github.com/psrlang/psr/internal/loader"
	"github.com/psrlang/psr/internal/parser"
	"github.com/psrlang/psr/internal/project"
)

// Result 一个文件的编译结果
type Result struct {
	Filename    string
	Module      *ir.Module // 失败时为 nil
	Diagnostics []*errors.Diagnostic
}

// Failed 该文件是否编译失败
func (r *Result) Failed() bool {
	if r.Module == nil {
		return true
	}
	for _, d := range r.Diagnostics {
		if d.Level == errors.LevelError {
			return true
		}
	}
	return false
}

// Pipeline 编译管线
//
// 每个文件使用全新的 Lexer/Parser/Analyzer 实例，
// Pipeline 自身只携带配置，可安全地并发使用。
type Pipeline struct {
	opts analyzer.Options
}

// New 用默认配置创建管线
func New() *Pipeline {
	return &Pipeline{opts: analyzer.DefaultOptions()}
}

// NewWithConfig 用项目配置创建管线
func NewWithConfig(config *project.Config) *Pipeline {
	opts := analyzer.DefaultOptions()
	if config != nil {
		if config.Compiler.MaxErrors > 0 {
			opts.MaxDiagnostics = config.Compiler.MaxErrors
		}
		if len(config.Compiler.ReactivePrimitives) > 0 {
			opts.ReactivePrimitives = config.Compiler.ReactivePrimitives
		}
		if config.Compiler.EventPrefix != "" {
			opts.EventPrefix = config.Compiler.EventPrefix
		}
	}
	return &Pipeline{opts: opts}
}

// Compile 编译一个源文件
//
// 任何阶段出错都不会中断后续文件：词法/语法错误终止本文件的
// 编译并收集诊断，分析阶段的致命错误同理。
func (p *Pipeline) Compile(source, filename string) *Result {
	result := &Result{Filename: filename}

	ps := parser.New(source, filename)
	file := ps.Parse()

	for _, e := range ps.Lexer().Errors() {
		result.Diagnostics = append(result.Diagnostics,
			errors.NewError(e.Code, e.Message, e.Pos))
	}
	for _, e := range ps.Errors() {
		result.Diagnostics = append(result.Diagnostics,
			errors.NewError(e.Code, e.Message, e.Pos))
	}
	if len(result.Diagnostics) > 0 {
		return result
	}

	a := analyzer.New(p.opts)
	mod := a.Analyze(file)
	result.Diagnostics = append(result.Diagnostics, a.Errors()...)
	if mod != nil && !a.HasErrors() {
		result.Module = mod
	}
	return result
}

// CompileFiles 并行编译多个源文件
//
// 每个文件独立失败；返回的结果与输入路径一一对应。
// ctx 取消后未开始的文件不再编译。
func (p *Pipeline) CompileFiles(ctx context.Context, l *loader.Loader, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			source, err := l.LoadFile(path)
			if err != nil {
				return err
			}
			results[i] = p.Compile(source, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
