// Package project 实现 PSR 项目配置 (psr.toml) 的读写与校验
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"
)

// 常量定义
const (
	ConfigFileName = "psr.toml" // 配置文件名
)

// Config 项目配置
type Config struct {
	Package  PackageInfo     `toml:"package"`
	Compiler CompilerOptions `toml:"compiler"`
}

// PackageInfo 包信息
type PackageInfo struct {
	// Name 包名（小写，连字符分隔，如 my-app）
	Name string `toml:"name"`

	// Version 版本号（遵循语义化版本，如 1.0.0）
	Version string `toml:"version"`

	// Namespace 命名空间（用于生成的组件注册键前缀，如 my.app）
	Namespace string `toml:"namespace"`
}

// CompilerOptions 编译器选项
type CompilerOptions struct {
	// MaxErrors 单文件诊断上限，超出后中止分析
	MaxErrors int `toml:"max_errors"`

	// ReactivePrimitives 识别为响应原语的函数名
	ReactivePrimitives []string `toml:"reactive_primitives"`

	// EventPrefix 标记属性中识别为事件处理器的前缀
	EventPrefix string `toml:"event_prefix"`

	// Language 诊断消息语言 (en / zh)
	Language string `toml:"language"`
}

// Default 生成默认配置
//
// dir 是项目目录路径，用于从目录名生成默认包名。
func Default(dir string) *Config {
	baseName := filepath.Base(dir)
	if baseName == "" || baseName == "." || baseName == "/" {
		baseName = "my-app"
	}

	return &Config{
		Package: PackageInfo{
			Name:      sanitizeName(baseName),
			Version:   "0.1.0",
			Namespace: "app",
		},
		Compiler: defaultCompilerOptions(),
	}
}

func defaultCompilerOptions() CompilerOptions {
	return CompilerOptions{
		MaxErrors:          20,
		ReactivePrimitives: []string{"createSignal", "createMemo", "createEffect"},
		EventPrefix:        "on",
		Language:           "en",
	}
}

// Load 从文件加载配置
//
// 缺失的编译器选项用默认值补齐，版本号做语义化版本校验。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults 补齐缺失的选项
func (c *Config) applyDefaults() {
	defaults := defaultCompilerOptions()
	if c.Compiler.MaxErrors <= 0 {
		c.Compiler.MaxErrors = defaults.MaxErrors
	}
	if len(c.Compiler.ReactivePrimitives) == 0 {
		c.Compiler.ReactivePrimitives = defaults.ReactivePrimitives
	}
	if c.Compiler.EventPrefix == "" {
		c.Compiler.EventPrefix = defaults.EventPrefix
	}
	if c.Compiler.Language == "" {
		c.Compiler.Language = defaults.Language
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Package.Version != "" {
		// semver 包要求 v 前缀，psr.toml 里按惯例不带
		if !semver.IsValid("v" + c.Package.Version) {
			return fmt.Errorf("invalid package version %q: not a semantic version", c.Package.Version)
		}
	}
	if c.Compiler.Language != "en" && c.Compiler.Language != "zh" {
		return fmt.Errorf("invalid language %q: must be en or zh", c.Compiler.Language)
	}
	return nil
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	content := generateConfigWithComments(c)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// generateConfigWithComments 生成带注释的配置文件内容
func generateConfigWithComments(c *Config) string {
	var sb strings.Builder

	sb.WriteString("[package]\n")
	sb.WriteString("# 包名（小写，连字符分隔）\n")
	sb.WriteString(fmt.Sprintf("name = %q\n\n", c.Package.Name))
	sb.WriteString("# 版本号（遵循语义化版本）\n")
	sb.WriteString(fmt.Sprintf("version = %q\n\n", c.Package.Version))
	sb.WriteString("# 命名空间（组件注册键前缀）\n")
	sb.WriteString(fmt.Sprintf("namespace = %q\n\n", c.Package.Namespace))

	sb.WriteString("[compiler]\n")
	sb.WriteString("# 单文件诊断上限\n")
	sb.WriteString(fmt.Sprintf("max_errors = %d\n\n", c.Compiler.MaxErrors))
	sb.WriteString("# 响应原语函数名\n")
	sb.WriteString("reactive_primitives = [")
	for i, p := range c.Compiler.ReactivePrimitives {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%q", p))
	}
	sb.WriteString("]\n\n")
	sb.WriteString("# 事件属性前缀\n")
	sb.WriteString(fmt.Sprintf("event_prefix = %q\n\n", c.Compiler.EventPrefix))
	sb.WriteString("# 诊断消息语言 (en / zh)\n")
	sb.WriteString(fmt.Sprintf("language = %q\n", c.Compiler.Language))

	return sb.String()
}

// sanitizeName 清理包名
func sanitizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "_", "-")

	var result strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '.' {
			result.WriteRune(r)
		}
	}

	s := result.String()
	if s == "" {
		return "my-app"
	}
	return s
}
