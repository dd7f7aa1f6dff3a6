// Package loader 实现 PSR 源文件的发现与读取
//
// 核心编译阶段假定输入是干净的解码文本，BOM 剥离等预处理在这里完成。
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/psrlang/psr/internal/project"
)

// 常量定义
const (
	SourceFileExtension = ".psr"     // 源码文件后缀
	ProjectConfigFile   = "psr.toml" // 项目配置文件名
)

// utf8BOM UTF-8 字节序标记
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader 源文件加载器
type Loader struct {
	rootDir     string // 项目根目录
	config      *project.Config
	loadedFiles map[string]bool
}

// New 创建加载器
//
// 从入口文件向上查找包含 psr.toml 的项目根目录；
// 找不到时用入口文件所在目录，按默认配置编译。
func New(entryFile string) (*Loader, error) {
	rootDir, err := findProjectRoot(entryFile)
	if err != nil {
		rootDir = filepath.Dir(entryFile)
	}

	loader := &Loader{
		rootDir:     rootDir,
		loadedFiles: make(map[string]bool),
	}

	configFile := filepath.Join(rootDir, ProjectConfigFile)
	if _, err := os.Stat(configFile); err == nil {
		config, err := project.Load(configFile)
		if err != nil {
			return nil, err
		}
		loader.config = config
	}

	return loader, nil
}

// findProjectRoot 向上查找包含 psr.toml 的目录
func findProjectRoot(startPath string) (string, error) {
	dir, err := filepath.Abs(filepath.Dir(startPath))
	if err != nil {
		return "", err
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found above %s", ProjectConfigFile, startPath)
		}
		dir = parent
	}
}

// RootDir 项目根目录
func (l *Loader) RootDir() string {
	return l.rootDir
}

// Config 项目配置，未找到 psr.toml 时为 nil
func (l *Loader) Config() *project.Config {
	return l.config
}

// LoadFile 读取一个源文件，剥离 BOM
func (l *Loader) LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read source file %s: %w", path, err)
	}

	if len(data) >= 3 && data[0] == utf8BOM[0] && data[1] == utf8BOM[1] && data[2] == utf8BOM[2] {
		data = data[3:]
	}

	l.MarkLoaded(path)
	return string(data), nil
}

// Discover 递归查找目录下的全部 .psr 源文件
//
// 跳过隐藏目录和 node_modules。
func (l *Loader) Discover(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == SourceFileExtension {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return files, nil
}

// MarkLoaded 标记文件已加载
func (l *Loader) MarkLoaded(path string) {
	l.loadedFiles[normalizePath(path)] = true
}

// IsLoaded 文件是否已加载
func (l *Loader) IsLoaded(path string) bool {
	return l.loadedFiles[normalizePath(path)]
}

// normalizePath 归一化路径（统一分隔符，转绝对路径）
func normalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return filepath.ToSlash(abs)
}
