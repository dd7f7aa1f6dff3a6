// Package errors 提供 PSR 编译器的诊断系统
package errors

// ============================================================================
// 诊断级别
// ============================================================================

// Level 诊断级别
type Level int

const (
	LevelError   Level = iota // 错误
	LevelWarning              // 警告
	LevelInfo                 // 提示
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ============================================================================
// 诊断错误码
// ============================================================================
//
// 错误码按阶段分前缀：
//   L 开头：词法错误（对当前文件总是致命，不做恢复）
//   P 开头：语法错误（对当前文件致命，不做语句级重同步）
//   A 开头：分析期诊断（结构性错误立即中止，软性诊断累计到上限）
//   X 开头：内部缺陷（编译器 bug，不是用户输入问题）
//
// ============================================================================

// 词法错误码
const (
	L0001 = "L0001" // 意外的字符
	L0002 = "L0002" // 未闭合的字符串
	L0003 = "L0003" // 未闭合的注释
	L0004 = "L0004" // 无效的数字
	L0005 = "L0005" // 信号绑定格式错误
	L0006 = "L0006" // 未闭合的模板字符串
	L0007 = "L0007" // 未闭合的标记标签
)

// 语法错误码
const (
	P0001 = "P0001" // 意外的 token
	P0002 = "P0002" // 期望的 token 缺失
	P0003 = "P0003" // 闭合标签不匹配
	P0004 = "P0004" // 无效的赋值目标
	P0005 = "P0005" // 期望表达式
	P0006 = "P0006" // 期望类型
	P0007 = "P0007" // 错误过多
	P0008 = "P0008" // 嵌套过深
)

// 分析错误码
const (
	A0001 = "A0001" // 未知的节点类型（软性，记录后跳过）
	A0002 = "A0002" // 缺少必需的操作数
	A0003 = "A0003" // 无效的 AST 结构
	A0004 = "A0004" // 诊断数量超限
	A0005 = "A0005" // 重复声明
)

// 内部缺陷码
const (
	X0001 = "X0001" // 迭代次数超限（遍历疑似死循环）
	X0002 = "X0002" // 扫描模式栈下溢
	X0003 = "X0003" // re-scan 协议违规
)

// IsInternal 判断错误码是否表示编译器内部缺陷
//
// 内部缺陷在展示时需要与用户语法错误区分开，
// 它表示编译器 bug 而不是输入有问题。
func IsInternal(code string) bool {
	return len(code) > 0 && code[0] == 'X'
}
