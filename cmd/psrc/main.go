package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/psrlang/psr/internal/errors"
	"github.com/psrlang/psr/internal/i18n"
	"github.com/psrlang/psr/internal/lexer"
	"github.com/psrlang/psr/internal/loader"
	"github.com/psrlang/psr/internal/parser"
	"github.com/psrlang/psr/internal/pipeline"
)

const (
	Version = "0.1.0"
)

// 全局语言参数
var globalLang string

func main() {
	// 预扫描全局参数 --lang 或 -lang
	args := preprocessArgs(os.Args[1:])

	InitLanguage(globalLang)

	// 同步设置内部模块语言
	switch GetLanguage() {
	case LangChinese:
		i18n.SetLanguage(i18n.LangChinese)
	default:
		i18n.SetLanguage(i18n.LangEnglish)
	}

	if len(args) < 1 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]

	switch command {
	case "check":
		cmdCheck(args[1:])
	case "tokens":
		cmdTokens(args[1:])
	case "ast":
		cmdAST(args[1:])
	case "ir":
		cmdIR(args[1:])
	case "version", "-v", "--version":
		fmt.Printf(Msg().VersionTitle+"\n", Version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, Msg().ErrUnknownCmd+"\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// preprocessArgs 预处理参数，提取全局 --lang 参数
func preprocessArgs(args []string) []string {
	var result []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--lang" || arg == "-lang" {
			if i+1 < len(args) {
				globalLang = args[i+1]
				i++
				continue
			}
		} else if strings.HasPrefix(arg, "--lang=") {
			globalLang = strings.TrimPrefix(arg, "--lang=")
			continue
		} else if strings.HasPrefix(arg, "-lang=") {
			globalLang = strings.TrimPrefix(arg, "-lang=")
			continue
		}
		result = append(result, arg)
	}
	return result
}

func printUsage() {
	m := Msg()
	fmt.Printf(m.VersionTitle+"\n\n", Version)
	fmt.Println(m.HelpUsage)
	fmt.Println("  psrc [--lang en|zh] <command> [options] <file...>")
	fmt.Println()
	fmt.Println(m.HelpCommands)
	fmt.Printf("  check <file...>  %s\n", m.CmdCheck)
	fmt.Printf("  tokens <file>    %s\n", m.CmdTokens)
	fmt.Printf("  ast <file>       %s\n", m.CmdAST)
	fmt.Printf("  ir <file>        %s\n", m.CmdIR)
	fmt.Printf("  version          %s\n", m.CmdVersion)
	fmt.Printf("  help             %s\n", m.CmdHelp)
	fmt.Println()
	fmt.Println(m.HelpOptions)
	fmt.Printf("  --lang <en|zh>   %s\n", m.OptLang)
	fmt.Println()
	fmt.Println(m.HelpExamples)
	fmt.Printf("  psrc check src/app%s\n", loader.SourceFileExtension)
	fmt.Printf("  psrc ir src/app%s\n", loader.SourceFileExtension)
	fmt.Printf("  psrc --lang zh check src/\n")
}

// resolveInputs 把参数展开成源文件列表（目录递归查找 .psr）
func resolveInputs(l *loader.Loader, args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := l.Discover(arg)
			if err != nil {
				return nil, err
			}
			paths = append(paths, found...)
			continue
		}
		paths = append(paths, arg)
	}
	return paths, nil
}

// cmdCheck 检查源文件
func cmdCheck(args []string) {
	m := Msg()
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, m.OptVerbose)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, m.ErrNoInput)
		os.Exit(1)
	}

	l, err := loader.New(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, m.ErrReadFile+"\n", err)
		os.Exit(1)
	}
	paths, err := resolveInputs(l, fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, m.ErrReadFile+"\n", err)
		os.Exit(1)
	}

	p := pipeline.NewWithConfig(l.Config())
	results, err := p.CompileFiles(context.Background(), l, paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, m.ErrReadFile+"\n", err)
		os.Exit(1)
	}

	failed := 0
	for _, result := range results {
		if result.Failed() {
			failed++
			errorCount := 0
			reporter := errors.NewReporter()
			reporter.LoadSource(result.Filename)
			for _, d := range result.Diagnostics {
				reporter.Report(d)
				if d.Level == errors.LevelError {
					errorCount++
				}
			}
			reporter.Flush(os.Stderr)
			fmt.Fprintf(os.Stderr, m.CheckFailed+"\n", result.Filename, errorCount)
			continue
		}
		if *verbose {
			fmt.Printf(m.CheckOK+"\n", result.Filename, len(result.Module.Components))
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// readSource 读取单个源文件参数
func readSource(args []string) (source, filename string) {
	m := Msg()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, m.ErrNoInput)
		os.Exit(1)
	}
	filename = args[0]

	l, err := loader.New(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, m.ErrReadFile+"\n", err)
		os.Exit(1)
	}
	source, err = l.LoadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, m.ErrReadFile+"\n", err)
		os.Exit(1)
	}
	return source, filename
}

// cmdTokens 输出 token 流
func cmdTokens(args []string) {
	source, filename := readSource(args)

	lex := lexer.New(source, filename)
	tokens := lex.ScanTokens()
	for _, tok := range tokens {
		fmt.Printf("%4d:%-3d %-20s %q\n", tok.Pos.Line, tok.Pos.Column, tok.Type, tok.Literal)
	}

	if lex.HasErrors() {
		for _, e := range lex.Errors() {
			fmt.Fprintf(os.Stderr, "%s\n", e.Error())
		}
		os.Exit(1)
	}
}

// cmdAST 输出语法树
func cmdAST(args []string) {
	source, filename := readSource(args)

	p := parser.New(source, filename)
	file := p.Parse()

	if p.Lexer().HasErrors() || p.HasErrors() {
		reporter := errors.NewReporter()
		reporter.SetSource(filename, source)
		for _, e := range p.Lexer().Errors() {
			reporter.Report(errors.NewError(e.Code, e.Message, e.Pos))
		}
		for _, e := range p.Errors() {
			reporter.Report(errors.NewError(e.Code, e.Message, e.Pos))
		}
		reporter.Flush(os.Stderr)
		os.Exit(1)
	}

	fmt.Println(file.String())
}

// cmdIR 输出分析后的 IR
func cmdIR(args []string) {
	m := Msg()
	source, filename := readSource(args)

	p := pipeline.New()
	result := p.Compile(source, filename)
	if result.Failed() {
		reporter := errors.NewReporter()
		reporter.SetSource(filename, source)
		reporter.ReportAll(result.Diagnostics)
		reporter.Flush(os.Stderr)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(result.Module, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, m.ErrReadFile+"\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
	fmt.Println()
}
