package i18n

var messagesZH = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:       "意外的字符 '%c'",
	ErrUnterminatedComment:  "未闭合的块注释",
	ErrUnterminatedString:   "未闭合的字符串",
	ErrUnterminatedTemplate: "未闭合的模板字符串",
	ErrUnterminatedMarkup:   "未闭合的标记：缺少闭合标签",
	ErrUnterminatedTag:      "未闭合的标记标签",
	ErrMalformedSignal:      "信号绑定格式错误：应为 $(name)",
	ErrInvalidHexNumber:     "无效的十六进制数: %s",
	ErrInvalidBinaryNumber:  "无效的二进制数: %s",
	ErrInvalidExponent:      "无效的数字：缺少指数部分",
	ErrInvalidFloat:         "无效的浮点数: %s",
	ErrInvalidInteger:       "无效的整数: %s",
	ErrUnexpectedDoubleDot:  "意外的 '..'",
	ErrModeStackUnderflow:   "内部错误：扫描模式栈下溢",
	ErrBadReScan:            "内部错误：re-scan 位置落后于已提交的 token",

	// ========== Parser ==========
	ErrExpectedToken:       "期望 %s",
	ErrUnexpectedToken:     "意外的 token: %s",
	ErrExpectedExpression:  "期望表达式",
	ErrExpectedType:        "期望类型",
	ErrExpectedIdent:       "期望标识符",
	ErrExpectedTagName:     "'<' 之后期望标签名",
	ErrMismatchedCloseTag:  "闭合标签不匹配：期望 </%s>，实际为 </%s>",
	ErrExpectedAttrValue:   "期望属性值：字符串字面量或 {表达式}",
	ErrInvalidAssignTarget: "无效的赋值目标",
	ErrExpectedParamName:   "期望参数名",
	ErrExpectedImportFrom:  "import 说明符之后期望 'from'",
	ErrExpectedModulePath:  "期望模块路径字符串",
	ErrTooManyErrors:       "错误过多，中止解析",
	ErrExprTooDeep:         "表达式嵌套过深",

	// ========== Analyzer ==========
	ErrUnknownNodeKind:    "未知的节点类型: %s",
	ErrMissingOperand:     "%[2]s 表达式缺少 %[1]s 操作数",
	ErrInvalidASTShape:    "无效的 AST: %s",
	ErrTooManyDiagnostics: "诊断过多，中止分析",
	ErrIterationCeiling:   "内部错误：分析迭代次数超限，位于组件 '%[2]s' 的 %[1]s 节点",
	ErrDuplicateComponent: "组件 '%s' 已经声明",
	ErrDuplicateVariable:  "变量 '%s' 在当前作用域已经声明",
}
