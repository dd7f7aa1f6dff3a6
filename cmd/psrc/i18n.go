package main

import (
	"os"
	"strings"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// Messages CLI 消息
type Messages struct {
	VersionTitle string

	HelpUsage    string
	HelpCommands string
	HelpOptions  string
	HelpExamples string

	CmdCheck   string
	CmdTokens  string
	CmdAST     string
	CmdIR      string
	CmdVersion string
	CmdHelp    string

	OptLang    string
	OptVerbose string

	ErrNoInput    string
	ErrReadFile   string
	ErrUnknownCmd string

	CheckOK     string
	CheckFailed string
}

var messagesEN = Messages{
	VersionTitle: "PSR Compiler v%s",

	HelpUsage:    "Usage:",
	HelpCommands: "Commands:",
	HelpOptions:  "Options:",
	HelpExamples: "Examples:",

	CmdCheck:   "check source files, print diagnostics",
	CmdTokens:  "print the token stream",
	CmdAST:     "print the abstract syntax tree",
	CmdIR:      "print the analyzed IR as JSON",
	CmdVersion: "show version",
	CmdHelp:    "show this help",

	OptLang:    "diagnostic message language",
	OptVerbose: "verbose output",

	ErrNoInput:    "error: no input file",
	ErrReadFile:   "error: failed to read file: %v",
	ErrUnknownCmd: "error: unknown command: %s",

	CheckOK:     "%s: OK (%d components)",
	CheckFailed: "%s: FAILED (%d errors)",
}

var messagesZH = Messages{
	VersionTitle: "PSR 编译器 v%s",

	HelpUsage:    "用法:",
	HelpCommands: "命令:",
	HelpOptions:  "选项:",
	HelpExamples: "示例:",

	CmdCheck:   "检查源文件并输出诊断",
	CmdTokens:  "输出 token 流",
	CmdAST:     "输出抽象语法树",
	CmdIR:      "输出分析后的 IR（JSON）",
	CmdVersion: "显示版本",
	CmdHelp:    "显示帮助",

	OptLang:    "诊断消息语言",
	OptVerbose: "详细输出",

	ErrNoInput:    "错误: 缺少输入文件",
	ErrReadFile:   "错误: 读取文件失败: %v",
	ErrUnknownCmd: "错误: 未知命令: %s",

	CheckOK:     "%s: 通过 (%d 个组件)",
	CheckFailed: "%s: 失败 (%d 个错误)",
}

var currentLang = LangEnglish

// InitLanguage 初始化语言，空值时根据环境变量自动检测
func InitLanguage(lang string) {
	switch strings.ToLower(lang) {
	case "zh", "zh-cn", "chinese":
		currentLang = LangChinese
	case "en", "english":
		currentLang = LangEnglish
	case "":
		currentLang = detectLanguage()
	}
}

// detectLanguage 从 LANG/LC_ALL 环境变量检测语言
func detectLanguage() Language {
	for _, env := range []string{"LC_ALL", "LANG"} {
		if v := os.Getenv(env); strings.HasPrefix(strings.ToLower(v), "zh") {
			return LangChinese
		}
	}
	return LangEnglish
}

// GetLanguage 当前语言
func GetLanguage() Language {
	return currentLang
}

// Msg 当前语言的消息表
func Msg() *Messages {
	if currentLang == LangChinese {
		return &messagesZH
	}
	return &messagesEN
}
