package token

import "fmt"

// ============================================================================
// Token 类型定义
// ============================================================================
//
// TokenType 使用 iota 自动编号，按类别分组：
// 1. 特殊标记（ILLEGAL, EOF, COMMENT）
// 2. 字面量（标识符、数字、字符串、模板字符串）
// 3. 标记语法（标签、标记文本、信号绑定）
// 4. 运算符（算术、比较、逻辑、位运算）
// 5. 分隔符（括号、逗号、分号等）
// 6. 关键字（声明、控制流、模块等）
//
// 标记语法和模板字符串的 token 是上下文相关的：同一段源码可能在
// Parser 请求 re-scan 之后被重新归类（见 lexer 包的 ReScan* 方法）。
//
// ============================================================================

// TokenType 表示 Token 的类型
type TokenType int

const (
	// ----------------------------------------------------------
	// 特殊标记
	// ----------------------------------------------------------
	ILLEGAL TokenType = iota // 非法字符
	EOF                      // 文件结束
	COMMENT                  // 注释

	// ----------------------------------------------------------
	// 字面量
	// ----------------------------------------------------------
	IDENT  // 标识符 (变量名、组件名等)
	INT    // 整数字面量
	FLOAT  // 浮点数字面量
	STRING // 字符串字面量

	// 模板字符串 `a${b}c${d}e` 会被切分为：
	//   TEMPLATE_HEAD   `a${
	//   ... b 的普通 token ...
	//   TEMPLATE_MIDDLE }c${
	//   ... d 的普通 token ...
	//   TEMPLATE_TAIL   }e`
	// 无插值的 `abc` 则是单个 TEMPLATE_NO_SUB。
	TEMPLATE_NO_SUB // `...`
	TEMPLATE_HEAD   // `...${
	TEMPLATE_MIDDLE // }...${
	TEMPLATE_TAIL   // }...`

	// ----------------------------------------------------------
	// 标记语法 (markup)
	// ----------------------------------------------------------
	TAG_OPEN       // < (后面紧跟字母，开始标签)
	TAG_CLOSE_OPEN // </ (闭合标签)
	TAG_END        // > (结束标签头，进入标记文本)
	TAG_SELF_CLOSE // /> (自闭合标签)
	MARKUP_TEXT    // 标记文本（空白有意义，不跳过）
	SIGNAL_BINDING // $(name) 信号绑定

	// ----------------------------------------------------------
	// 算术运算符
	// ----------------------------------------------------------
	PLUS         // +
	MINUS        // -
	STAR         // *
	SLASH        // /
	PERCENT      // %
	ASSIGN       // =
	PLUS_ASSIGN  // +=
	MINUS_ASSIGN // -=

	// ----------------------------------------------------------
	// 比较运算符
	// ----------------------------------------------------------
	EQ // ==
	NE // !=
	LT // <
	LE // <=
	GT // >
	GE // >=

	// ----------------------------------------------------------
	// 逻辑运算符
	// ----------------------------------------------------------
	AND // &&
	OR  // ||
	NOT // !

	// ----------------------------------------------------------
	// 位运算符
	// ----------------------------------------------------------
	BIT_AND     // &
	BIT_OR      // |
	LEFT_SHIFT  // <<
	RIGHT_SHIFT // >>

	// ----------------------------------------------------------
	// 分隔符
	// ----------------------------------------------------------
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	DOT       // .
	SEMICOLON // ;
	COLON     // :
	QUESTION  // ?
	ARROW     // =>
	ELLIPSIS  // ...

	// ----------------------------------------------------------
	// 关键字
	// ----------------------------------------------------------
	keyword_beg // 关键字起始标记（不是实际 token）
	COMPONENT   // component
	CONST       // const
	LET         // let
	RETURN      // return
	IF          // if
	ELSE        // else
	IMPORT      // import
	EXPORT      // export
	FROM        // from
	DEFAULT     // default
	AS          // as
	TYPE        // type
	EXTENDS     // extends
	READONLY    // readonly
	TRUE        // true
	FALSE       // false
	NULL        // null
	keyword_end // 关键字结束标记（不是实际 token）
)

// ============================================================================
// Token 类型名称映射
// ============================================================================

var tokenNames = map[TokenType]string{
	// 特殊标记
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	COMMENT: "COMMENT",

	// 字面量
	IDENT:  "IDENT",
	INT:    "INT",
	FLOAT:  "FLOAT",
	STRING: "STRING",

	TEMPLATE_NO_SUB: "TEMPLATE_NO_SUB",
	TEMPLATE_HEAD:   "TEMPLATE_HEAD",
	TEMPLATE_MIDDLE: "TEMPLATE_MIDDLE",
	TEMPLATE_TAIL:   "TEMPLATE_TAIL",

	// 标记语法
	TAG_OPEN:       "<",
	TAG_CLOSE_OPEN: "</",
	TAG_END:        ">",
	TAG_SELF_CLOSE: "/>",
	MARKUP_TEXT:    "MARKUP_TEXT",
	SIGNAL_BINDING: "SIGNAL_BINDING",

	// 算术运算符
	PLUS:         "+",
	MINUS:        "-",
	STAR:         "*",
	SLASH:        "/",
	PERCENT:      "%",
	ASSIGN:       "=",
	PLUS_ASSIGN:  "+=",
	MINUS_ASSIGN: "-=",

	// 比较运算符
	EQ: "==",
	NE: "!=",
	LT: "<",
	LE: "<=",
	GT: ">",
	GE: ">=",

	// 逻辑运算符
	AND: "&&",
	OR:  "||",
	NOT: "!",

	// 位运算符
	BIT_AND:     "&",
	BIT_OR:      "|",
	LEFT_SHIFT:  "<<",
	RIGHT_SHIFT: ">>",

	// 分隔符
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	DOT:       ".",
	SEMICOLON: ";",
	COLON:     ":",
	QUESTION:  "?",
	ARROW:     "=>",
	ELLIPSIS:  "...",

	// 关键字
	COMPONENT: "component",
	CONST:     "const",
	LET:       "let",
	RETURN:    "return",
	IF:        "if",
	ELSE:      "else",
	IMPORT:    "import",
	EXPORT:    "export",
	FROM:      "from",
	DEFAULT:   "default",
	AS:        "as",
	TYPE:      "type",
	EXTENDS:   "extends",
	READONLY:  "readonly",
	TRUE:      "true",
	FALSE:     "false",
	NULL:      "null",
}

// ============================================================================
// 关键字查找表
// ============================================================================
//
// keywords 将关键字字符串映射到对应的 TokenType。
// 用于在词法分析时区分标识符和关键字。
//
// 注意：关键字识别只在普通扫描模式下进行。标签内部的属性名
// （如 <input type="text"> 中的 type）永远是 IDENT，不会被关键字化。
//
// ============================================================================

var keywords = map[string]TokenType{
	"component": COMPONENT,
	"const":     CONST,
	"let":       LET,
	"return":    RETURN,
	"if":        IF,
	"else":      ELSE,
	"import":    IMPORT,
	"export":    EXPORT,
	"from":      FROM,
	"default":   DEFAULT,
	"as":        AS,
	"type":      TYPE,
	"extends":   EXTENDS,
	"readonly":  READONLY,
	"true":      TRUE,
	"false":     FALSE,
	"null":      NULL,
}

// ============================================================================
// 关键字查找函数
// ============================================================================

// LookupIdent 查找标识符是否为关键字
//
// 优化说明:
//   - 对于短关键字（2-4字符），使用 switch 语句直接匹配
//   - 短字符串的 switch 比 map 查找更快，因为避免了哈希计算
//   - 较长的关键字仍使用 map 查找
//
// 参数:
//   - ident: 标识符字符串
//
// 返回:
//   - TokenType: 如果是关键字返回对应类型，否则返回 IDENT
func LookupIdent(ident string) TokenType {
	// ==========================================================
	// 优化：短关键字使用 switch 快速匹配
	// ==========================================================

	switch len(ident) {
	case 2:
		// 两字符关键字：if, as
		switch ident {
		case "if":
			return IF
		case "as":
			return AS
		}

	case 3:
		// 三字符关键字：let
		if ident == "let" {
			return LET
		}

	case 4:
		// 四字符关键字：else, from, true, null, type
		switch ident {
		case "else":
			return ELSE
		case "from":
			return FROM
		case "true":
			return TRUE
		case "null":
			return NULL
		case "type":
			return TYPE
		}
	}

	// ==========================================================
	// 较长的关键字使用 map 查找
	// ==========================================================
	if tok, ok := keywords[ident]; ok {
		return tok
	}

	return IDENT
}

// IsKeyword 判断 TokenType 是否为关键字
func IsKeyword(t TokenType) bool {
	return t > keyword_beg && t < keyword_end
}

// String 返回 TokenType 的字符串表示
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// ============================================================================
// Position - 源代码位置
// ============================================================================

// Position 表示源代码中的位置
type Position struct {
	Filename string // 文件名
	Line     int    // 行号 (从1开始)
	Column   int    // 列号 (从1开始)
	Offset   int    // 字节偏移量 (从0开始)
}

// String 返回位置的字符串表示，格式为 "filename:line:column"
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid 检查位置是否有效
func (p Position) IsValid() bool {
	return p.Line > 0
}

// ============================================================================
// Span - 源代码范围
// ============================================================================

// Span 表示源代码中的一个范围（开始到结束）
//
// 用于错误报告和代码高亮，可以精确定位问题代码的起止位置。
type Span struct {
	Start Position // 开始位置
	End   Position // 结束位置
}

// NewSpan 创建新的 Span
func NewSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}

// SpanFromToken 从 Token 创建 Span
//
// 计算 Token 的结束位置，创建覆盖整个 Token 的 Span。
func SpanFromToken(t Token) Span {
	return Span{Start: t.Pos, End: t.EndPos()}
}

// Length 返回 Span 的长度（仅在同一行有效）
func (s Span) Length() int {
	if s.Start.Line == s.End.Line {
		return s.End.Column - s.Start.Column
	}
	return 1 // 多行时返回 1
}

// String 返回 Span 的字符串表示
func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Start.Filename, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", s.Start.Filename, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// ============================================================================
// Token - 词法单元
// ============================================================================

// Token 表示一个词法单元
//
// Token 是词法分析的产物，一旦生成不再修改，包含：
// - Type: token 类型（如 IDENT, INT, TAG_OPEN 等）
// - Literal: 原始字面量文本（与源码字节一一对应）
// - Value: 解析后的值（数字、转义后的字符串、信号名等）
// - Pos: 在源代码中的位置（Offset 为 token 起始字节）
type Token struct {
	Type    TokenType   // Token 类型
	Literal string      // 原始字面量
	Value   interface{} // 解析后的值 (用于数字、字符串等)
	Pos     Position    // 位置信息
}

// EndPos 返回 Token 结束位置（不含）
//
// MARKUP_TEXT 等 token 可能跨行，结束位置按字节偏移推进，
// 行列信息只在单行 token 上精确。
func (t Token) EndPos() Position {
	end := t.Pos
	end.Offset += len(t.Literal)
	end.Column += len(t.Literal)
	return end
}

// String 返回 Token 的字符串表示（用于调试）
func (t Token) String() string {
	switch t.Type {
	case IDENT, INT, FLOAT, STRING, MARKUP_TEXT, SIGNAL_BINDING,
		TEMPLATE_NO_SUB, TEMPLATE_HEAD, TEMPLATE_MIDDLE, TEMPLATE_TAIL:
		return fmt.Sprintf("%s(%s) at %s", t.Type, t.Literal, t.Pos)
	default:
		return fmt.Sprintf("%s at %s", t.Type, t.Pos)
	}
}

// ============================================================================
// Token 构造函数
// ============================================================================

// New 创建一个新的 Token
func New(tokenType TokenType, literal string, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Pos:     pos,
	}
}

// NewWithValue 创建一个带值的 Token
//
// 用于数字、字符串和信号绑定，value 参数存储解析后的实际值。
func NewWithValue(tokenType TokenType, literal string, value interface{}, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Value:   value,
		Pos:     pos,
	}
}
