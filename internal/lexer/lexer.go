package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/psrlang/psr/internal/i18n"
	"github.com/psrlang/psr/internal/token"
)

// ============================================================================
// Lexer - 上下文相关词法分析器
// ============================================================================
//
// 词法分析器负责将 PSR 源代码字符串转换为 Token 序列。
//
// 与普通语言不同，PSR 在表达式语言中内嵌了声明式标记语法和模板字符串，
// 因此扫描是上下文相关的，由一个显式的模式栈驱动：
//
//   Normal           普通代码：跳过空白和注释，识别关键字
//   MarkupText       标记文本：空白有意义，遇到 < { $( 切出
//   MarkupExpression 标记中的 {表达式}：同 Normal，额外跟踪花括号深度
//   TypeParameter    泛型参数列表：< 和 > 永远不会被合并为比较/移位运算符
//
// 模式栈永远不为空；把初始 Normal 帧弹出属于内部缺陷 (X0002)。
//
// `<` 后紧跟字母只是 *暂定* 的标签开始 (tagPending)，模式并不切换；
// 只有扫到配对的 `>`（且不是自闭合 `/>`）才真正进入 MarkupText。
// Parser 在语法上下文确定后可以通过 ReScan* 系列方法让词法器
// 重新归类最近的 token（见下方 re-scan 协议）。
//
// 列号不做增量维护，统一由 当前偏移 - 行起始偏移 计算，避免
// 多字节字符和回退扫描造成的漂移。
//
// ============================================================================

// ScanMode 扫描模式
type ScanMode int

const (
	ModeNormal           ScanMode = iota // 普通代码
	ModeMarkupText                       // 标记文本
	ModeMarkupExpression                 // 标记中的表达式
	ModeTypeParameter                    // 泛型参数列表
)

func (m ScanMode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeMarkupText:
		return "MarkupText"
	case ModeMarkupExpression:
		return "MarkupExpression"
	case ModeTypeParameter:
		return "TypeParameter"
	default:
		return fmt.Sprintf("ScanMode(%d)", int(m))
	}
}

// markupExprFrame 一个 {表达式} 区域的状态
type markupExprFrame struct {
	depth int  // 区域内的花括号嵌套深度
	inTag bool // true 表示是属性值表达式，弹出后回到标签扫描
}

// templateFrame 一个模板字符串的插值状态
type templateFrame struct {
	braceDepth int // 插值表达式内的花括号嵌套深度
	modeDepth  int // 进入插值时的模式栈深度（嵌套标记里的 } 不归它管）
}

// checkpoint 扫描 token 之前的完整状态快照
//
// 每个已提交的 token 都保留一份，re-scan 协议据此把扫描
// 位置回退到被重新考虑的那个 token 的起点。
type checkpoint struct {
	current     int
	line        int
	lineStart   int
	markupDepth int
	tagPending  bool
	tagClosing  bool
	modes       []ScanMode
	exprFrames  []markupExprFrame
	templates   []templateFrame
	errCount    int
}

// Lexer 词法分析器结构体
//
// 单线程、单实例独占状态；每次调用 New 得到全新状态，
// 不支持跨文件复用。
type Lexer struct {
	source   string        // 源代码字符串
	filename string        // 源文件名（用于错误报告）
	tokens   []token.Token // 已提交的 Token 列表
	points   []checkpoint  // 与 tokens 对齐的扫描前快照

	start          int // 当前 Token 的起始位置（字节偏移）
	startLine      int // 当前 Token 起始行号
	startLineStart int // 当前 Token 起始行的行首偏移
	current        int // 当前扫描位置（字节偏移）
	line           int // 当前行号（从1开始）
	lineStart      int // 当前行的起始偏移（列号 = current - lineStart + 1）

	modes       []ScanMode        // 模式栈，永不为空
	exprFrames  []markupExprFrame // MarkupExpression 帧
	templates   []templateFrame   // 模板字符串帧
	markupDepth int               // 当前打开的标记元素层数
	tagPending  bool              // 正在扫描标签头（< 之后、> 之前）
	tagClosing  bool              // 当前标签头是闭合标签 </...

	finished     bool       // 已产出 EOF
	lastSnapshot checkpoint // 最近一次 resetTo 恢复的快照（ReScan* 补录用）
	errors       []Error
}

// Error 表示词法分析错误
type Error struct {
	Code    string         // 诊断码 (L0001 等)
	Pos     token.Position // 错误位置
	Message string         // 错误信息
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ============================================================================
// 构造函数
// ============================================================================

// New 创建一个新的词法分析器
//
// 参数:
//   - source: 源代码字符串（假定已由上游完成 BOM 剥离等预处理）
//   - filename: 源文件名（用于错误报告）
func New(source, filename string) *Lexer {
	// 预估 token 数量：源码长度 / 5 是一个经验值
	estimatedTokens := len(source) / 5
	if estimatedTokens < 16 {
		estimatedTokens = 16
	}

	return &Lexer{
		source:   source,
		filename: filename,
		tokens:   make([]token.Token, 0, estimatedTokens),
		points:   make([]checkpoint, 0, estimatedTokens),
		line:     1,
		modes:    []ScanMode{ModeNormal},
	}
}

// ============================================================================
// 公共方法
// ============================================================================

// ScanTokens 扫描所有 tokens
//
// 一次性物化整个 Token 序列，最后一个 Token 总是 EOF。
// 用于工具链（token dump）和测试；Parser 走按需的 TokenAt。
func (l *Lexer) ScanTokens() []token.Token {
	for !l.finished {
		l.scanNext()
	}
	return l.tokens
}

// TokenAt 返回第 i 个 token，按需推进扫描
//
// 越过 EOF 的索引返回 EOF token 本身。
func (l *Lexer) TokenAt(i int) token.Token {
	for len(l.tokens) <= i && !l.finished {
		l.scanNext()
	}
	if i < len(l.tokens) {
		return l.tokens[i]
	}
	return l.tokens[len(l.tokens)-1] // EOF
}

// TokenCount 返回已提交的 token 数量
func (l *Lexer) TokenCount() int {
	return len(l.tokens)
}

// Errors 返回所有词法错误
func (l *Lexer) Errors() []Error {
	return l.errors
}

// HasErrors 检查是否有错误
func (l *Lexer) HasErrors() bool {
	return len(l.errors) > 0
}

// ============================================================================
// Re-scan 协议
// ============================================================================
//
// `<` `>` 在比较运算符和泛型定界符之间、`}` 在普通右花括号和模板
// 续段之间都是文法相关的。Parser 在上下文确定后调用下列方法把
// 已产出的 token 重新归类。约束：只允许重新考虑仍处于（或落后于）
// 扫描游标的位置，已提交的多字符 token 不会被跨越回退。
//
// ============================================================================

// ReScanLessThan 把第 i 个 token 重新扫描为单字符 '<'
//
// 用于两种场景：暂定的标签开始 (TAG_OPEN) 出现在中缀位置时退回
// 比较运算符；以及 `<<`/`<=` 在类型参数上下文里拆出单个 '<'。
func (l *Lexer) ReScanLessThan(i int) token.Token {
	if !l.resetTo(i) {
		return l.TokenAt(i)
	}
	l.beginToken()
	if l.peekByte() == '<' {
		l.advanceByte()
		l.addToken(token.LT)
	} else {
		// 起点不是 '<'：协议违规
		l.internalError(i18n.T(i18n.ErrBadReScan))
	}
	l.points = append(l.points, l.lastSnapshot)
	return l.tokens[len(l.tokens)-1]
}

// ReScanGreaterThan 把第 i 个 token 重新扫描为单字符 '>'
//
// 用于把 `>>`/`>=` 在嵌套泛型闭合处拆出单个 '>'。
func (l *Lexer) ReScanGreaterThan(i int) token.Token {
	if !l.resetTo(i) {
		return l.TokenAt(i)
	}
	l.beginToken()
	if l.peekByte() == '>' {
		l.advanceByte()
		l.addToken(token.GT)
	} else {
		l.internalError(i18n.T(i18n.ErrBadReScan))
	}
	l.points = append(l.points, l.lastSnapshot)
	return l.tokens[len(l.tokens)-1]
}

// ReScanTemplateToken 把第 i 个 token（应为 '}'）重新扫描为模板续段
//
// 正常情况下模板帧的花括号计数会自动产出 TEMPLATE_MIDDLE/TAIL；
// 本方法是 Parser 在回退解析后重建被截断的续段时使用的兜底。
func (l *Lexer) ReScanTemplateToken(i int) token.Token {
	if !l.resetTo(i) {
		return l.TokenAt(i)
	}
	l.beginToken()
	if l.peekByte() == '}' && len(l.templates) > 0 {
		l.advanceByte()
		l.scanTemplateContinuation()
	} else {
		l.internalError(i18n.T(i18n.ErrBadReScan))
	}
	l.points = append(l.points, l.lastSnapshot)
	return l.tokens[len(l.tokens)-1]
}

// PushTypeParameterContext 在第 i 个 token 处进入泛型参数上下文
//
// 由 Parser 在即将消费类型参数列表的 '<' 之前调用；
// 上下文激活期间 '<' '>' 不会被合并，也不会触发标记模式。
func (l *Lexer) PushTypeParameterContext(i int) {
	if i < len(l.tokens) {
		l.resetTo(i)
	}
	l.modes = append(l.modes, ModeTypeParameter)
	l.tagPending = false
	l.tagClosing = false
}

// PopTypeParameterContext 在第 i 个 token 处退出泛型参数上下文
//
// 由 Parser 在消费完闭合 '>' 之后调用，i 指向下一个待解析 token。
func (l *Lexer) PopTypeParameterContext(i int) {
	if i < len(l.tokens) {
		l.resetTo(i)
	}
	if l.mode() == ModeTypeParameter {
		l.modes = l.modes[:len(l.modes)-1]
	} else {
		l.recordInternalError(i18n.T(i18n.ErrBadReScan))
	}
}

// Rewind 作废从第 i 个 token 起的全部扫描结果
//
// 供 Parser 回退解析使用：前瞻决策期间推测性扫描出的 token
// （以及它们顺带记录的错误）整体作废，之后从 i 重新按需扫描。
func (l *Lexer) Rewind(i int) bool {
	if i >= len(l.tokens) {
		return true // 没有需要作废的 token
	}
	return l.resetTo(i)
}

// InTypeParameterContext 当前是否处于泛型参数上下文（测试用）
func (l *Lexer) InTypeParameterContext() bool {
	return l.mode() == ModeTypeParameter
}

// ModeDepth 当前模式栈深度（测试用）
func (l *Lexer) ModeDepth() int {
	return len(l.modes)
}

// ============================================================================
// 快照与回退
// ============================================================================

// snapshot 捕获扫描前状态
func (l *Lexer) snapshot() checkpoint {
	return checkpoint{
		current:     l.current,
		line:        l.line,
		lineStart:   l.lineStart,
		markupDepth: l.markupDepth,
		tagPending:  l.tagPending,
		tagClosing:  l.tagClosing,
		modes:       append([]ScanMode(nil), l.modes...),
		exprFrames:  append([]markupExprFrame(nil), l.exprFrames...),
		templates:   append([]templateFrame(nil), l.templates...),
		errCount:    len(l.errors),
	}
}

// resetTo 把扫描状态回退到第 i 个 token 之前
//
// i 之后（含 i）已提交的 token 全部作废，后续按需重扫。
// 返回 false 表示 i 超出已提交范围（属于协议违规，不回退）。
func (l *Lexer) resetTo(i int) bool {
	if i < 0 || i >= len(l.tokens) {
		l.recordInternalError(i18n.T(i18n.ErrBadReScan))
		return false
	}
	cp := l.points[i]
	l.lastSnapshot = cp
	l.current = cp.current
	l.line = cp.line
	l.lineStart = cp.lineStart
	l.markupDepth = cp.markupDepth
	l.tagPending = cp.tagPending
	l.tagClosing = cp.tagClosing
	l.modes = append(l.modes[:0], cp.modes...)
	l.exprFrames = append(l.exprFrames[:0], cp.exprFrames...)
	l.templates = append(l.templates[:0], cp.templates...)
	l.errors = l.errors[:cp.errCount]
	l.tokens = l.tokens[:i]
	l.points = l.points[:i]
	l.finished = false
	// re-scan 起点可能有前导空白（正常扫描时已跳过）；
	// 标记文本里空白有意义，不能动
	if !l.tagPending && l.mode() != ModeMarkupText {
		l.skipWhitespace()
	}
	return true
}

// ============================================================================
// 核心扫描循环
// ============================================================================

// scanNext 产出下一个 token（可能顺带记录错误）
func (l *Lexer) scanNext() {
	if l.finished {
		return
	}

	snap := l.snapshot()
	before := len(l.tokens)

	for len(l.tokens) == before && !l.finished {
		if l.isAtEnd() {
			l.finishAtEOF()
			continue
		}
		l.scanStep()
	}

	if len(l.tokens) > before {
		l.points = append(l.points, snap)
	}
}

// finishAtEOF 在文件末尾收尾
//
// 未闭合的标签/模板/标记区域在这里集中报告，然后产出 EOF。
func (l *Lexer) finishAtEOF() {
	l.beginToken()

	switch {
	case l.tagPending:
		l.tagPending = false
		l.tagClosing = false
		l.error(ErrCodeUnterminatedTag, i18n.T(i18n.ErrUnterminatedTag))

	case len(l.templates) > 0:
		l.templates = l.templates[:0]
		l.error(ErrCodeUnterminatedTemplate, i18n.T(i18n.ErrUnterminatedTemplate))

	case l.mode() == ModeMarkupText || l.mode() == ModeMarkupExpression:
		l.modes = l.modes[:1]
		l.exprFrames = l.exprFrames[:0]
		l.markupDepth = 0
		l.error(ErrCodeUnterminatedMarkup, i18n.T(i18n.ErrUnterminatedMarkup))

	default:
		l.tokens = append(l.tokens, token.Token{
			Type: token.EOF,
			Pos:  l.tokenPos(),
		})
		l.finished = true
	}
}

// scanStep 执行一步扫描（至多产出一个 token）
func (l *Lexer) scanStep() {
	if l.tagPending {
		l.scanTagToken()
		return
	}

	switch l.mode() {
	case ModeMarkupText:
		l.scanMarkupText()
	default:
		// Normal / MarkupExpression / TypeParameter 共用普通扫描，
		// 差异集中在 < > { } 四个字符的处理上。
		l.scanNormal()
	}
}

// ============================================================================
// 普通模式扫描
// ============================================================================

// scanNormal 普通代码扫描
//
// 分支按字符出现频率排序：空白 > 标识符/数字 > 常用符号 > 其他。
func (l *Lexer) scanNormal() {
	l.beginToken()
	ch := l.advance()

	switch ch {

	// ----------------------------------------------------------
	// 高频：空白字符
	// ----------------------------------------------------------
	case ' ', '\t', '\r':
		l.skipWhitespace()

	case '\n':
		l.newLine()
		l.skipWhitespace()

	// ----------------------------------------------------------
	// 高频：常用分隔符
	// ----------------------------------------------------------
	case '(':
		l.addToken(token.LPAREN)
	case ')':
		l.addToken(token.RPAREN)
	case '[':
		l.addToken(token.LBRACKET)
	case ']':
		l.addToken(token.RBRACKET)
	case ',':
		l.addToken(token.COMMA)
	case ';':
		l.addToken(token.SEMICOLON)
	case ':':
		l.addToken(token.COLON)

	// ----------------------------------------------------------
	// 花括号：与标记表达式和模板插值联动
	// ----------------------------------------------------------
	case '{':
		l.openBrace()
	case '}':
		l.closeBrace()

	// ----------------------------------------------------------
	// 运算符（可能是多字符）
	// ----------------------------------------------------------
	case '=':
		// = 或 == 或 =>
		if l.match('=') {
			l.addToken(token.EQ)
		} else if l.match('>') {
			l.addToken(token.ARROW)
		} else {
			l.addToken(token.ASSIGN)
		}

	case '+':
		if l.match('=') {
			l.addToken(token.PLUS_ASSIGN)
		} else {
			l.addToken(token.PLUS)
		}

	case '-':
		if l.match('=') {
			l.addToken(token.MINUS_ASSIGN)
		} else {
			l.addToken(token.MINUS)
		}

	case '*':
		l.addToken(token.STAR)

	case '/':
		// / 或 // 注释 或 /* 块注释
		if l.match('/') {
			l.lineComment()
		} else if l.match('*') {
			l.blockComment()
		} else {
			l.addToken(token.SLASH)
		}

	case '%':
		l.addToken(token.PERCENT)

	case '.':
		// . 或 ...
		if l.match('.') {
			if l.match('.') {
				l.addToken(token.ELLIPSIS)
			} else {
				l.error(ErrCodeUnexpectedChar, i18n.T(i18n.ErrUnexpectedDoubleDot))
			}
		} else {
			l.addToken(token.DOT)
		}

	case '!':
		if l.match('=') {
			l.addToken(token.NE)
		} else {
			l.addToken(token.NOT)
		}

	case '<':
		l.scanLess()

	case '>':
		l.scanGreater()

	case '&':
		if l.match('&') {
			l.addToken(token.AND)
		} else {
			l.addToken(token.BIT_AND)
		}

	case '|':
		if l.match('|') {
			l.addToken(token.OR)
		} else {
			l.addToken(token.BIT_OR)
		}

	case '?':
		l.addToken(token.QUESTION)

	// ----------------------------------------------------------
	// 字符串与模板
	// ----------------------------------------------------------
	case '"':
		l.string('"')
	case '\'':
		l.string('\'')
	case '`':
		l.scanTemplateHead()

	// ----------------------------------------------------------
	// 信号绑定 $(name)
	// ----------------------------------------------------------
	case '$':
		if l.peekByte() == '(' {
			l.signalBinding()
		} else {
			l.error(ErrCodeMalformedSignal, i18n.T(i18n.ErrMalformedSignal))
		}

	// ----------------------------------------------------------
	// 默认：标识符、数字或非法字符
	// ----------------------------------------------------------
	default:
		if isDigit(ch) {
			l.number()
		} else if isAlpha(ch) {
			l.identifier()
		} else {
			l.error(ErrCodeUnexpectedChar, i18n.T(i18n.ErrUnexpectedChar, ch))
		}
	}
}

// scanLess 处理 '<'
//
// 类型参数上下文里永远是单字符 LT；普通上下文里紧跟字母或 '/'
// 则暂定为标签开始（模式不切换，只立 tagPending 标志），
// 其余情况做常规多字符合并。
func (l *Lexer) scanLess() {
	if l.mode() == ModeTypeParameter {
		l.addToken(token.LT)
		return
	}

	next := l.peekByte()
	if next < utf8.RuneSelf && isAlpha(rune(next)) {
		l.tagPending = true
		l.tagClosing = false
		l.addToken(token.TAG_OPEN)
		return
	}
	if next == '/' {
		after := l.peekNextByte()
		if after < utf8.RuneSelf && isAlpha(rune(after)) {
			l.advanceByte()
			l.tagPending = true
			l.tagClosing = true
			l.addToken(token.TAG_CLOSE_OPEN)
			return
		}
	}

	if l.match('=') {
		l.addToken(token.LE)
	} else if l.match('<') {
		l.addToken(token.LEFT_SHIFT)
	} else {
		l.addToken(token.LT)
	}
}

// scanGreater 处理 '>'
func (l *Lexer) scanGreater() {
	if l.mode() == ModeTypeParameter {
		l.addToken(token.GT)
		return
	}

	if l.match('=') {
		l.addToken(token.GE)
	} else if l.match('>') {
		l.addToken(token.RIGHT_SHIFT)
	} else {
		l.addToken(token.GT)
	}
}

// openBrace 处理 '{'
//
// 花括号的归属规则：最内层的构造优先。模板帧记录了进入插值时
// 的模式栈深度，深度相等说明模板是在当前模式下打开的（比任何
// 同深度的标记表达式区域更晚），由它接管计数。
func (l *Lexer) openBrace() {
	if f := l.activeTemplate(); f != nil {
		f.braceDepth++
	} else if l.mode() == ModeMarkupExpression {
		l.exprFrames[len(l.exprFrames)-1].depth++
	}
	l.addToken(token.LBRACE)
}

// closeBrace 处理 '}'
//
// 三种归属按优先级判定：模板插值的续段、标记表达式区域的闭合、
// 普通右花括号。
func (l *Lexer) closeBrace() {
	if f := l.activeTemplate(); f != nil {
		if f.braceDepth > 0 {
			f.braceDepth--
			l.addToken(token.RBRACE)
			return
		}
		l.scanTemplateContinuation()
		return
	}

	if l.mode() == ModeMarkupExpression {
		frame := &l.exprFrames[len(l.exprFrames)-1]
		if frame.depth > 0 {
			frame.depth--
			l.addToken(token.RBRACE)
			return
		}
		// 表达式区域闭合，回到标记文本或标签头
		inTag := frame.inTag
		l.exprFrames = l.exprFrames[:len(l.exprFrames)-1]
		l.popMode()
		l.tagPending = inTag
		l.addToken(token.RBRACE)
		return
	}

	l.addToken(token.RBRACE)
}

// activeTemplate 返回当前可接管 '}' 的模板帧
//
// 只有插值自身所在的模式栈深度（嵌套标记会加深栈）才算。
func (l *Lexer) activeTemplate() *templateFrame {
	if len(l.templates) == 0 {
		return nil
	}
	f := &l.templates[len(l.templates)-1]
	if f.modeDepth != len(l.modes) {
		return nil
	}
	return f
}

// ============================================================================
// 标签头扫描
// ============================================================================

// scanTagToken 扫描标签头内部的 token
//
// 标签头是 < 或 </ 之后、> 或 /> 之前的区域。
// 空白不敏感；标识符不做关键字化（属性可以叫 type、if 等）；
// 标识符额外允许 '-'（如 data-id、aria-label）。
func (l *Lexer) scanTagToken() {
	// 标签头内空白不敏感
	for !l.isAtEnd() {
		switch l.peekByte() {
		case ' ', '\t', '\r':
			l.advanceByte()
			continue
		case '\n':
			l.advanceByte()
			l.newLine()
			continue
		}
		break
	}

	l.beginToken()
	if l.isAtEnd() {
		return // finishAtEOF 负责报告未闭合标签
	}

	ch := l.advance()
	switch {
	case ch == '>':
		l.tagPending = false
		if l.tagClosing {
			l.tagClosing = false
			if l.mode() == ModeMarkupText {
				l.popMode()
				l.markupDepth--
			}
		} else {
			l.pushMode(ModeMarkupText)
			l.markupDepth++
		}
		l.addToken(token.TAG_END)

	case ch == '/' && l.peekByte() == '>':
		l.advanceByte()
		l.tagPending = false
		l.tagClosing = false
		l.addToken(token.TAG_SELF_CLOSE)

	case ch == '=':
		l.addToken(token.ASSIGN)

	case ch == '"' || ch == '\'':
		l.string(ch)

	case ch == '{':
		l.exprFrames = append(l.exprFrames, markupExprFrame{depth: 0, inTag: true})
		l.pushMode(ModeMarkupExpression)
		l.tagPending = false // 弹出表达式帧时恢复
		l.addToken(token.LBRACE)

	case isAlpha(ch):
		for isAlphaNumeric(l.peek()) || l.peekByte() == '-' {
			l.advance()
		}
		// 不查关键字表：标签名/属性名永远是 IDENT
		l.addToken(token.IDENT)

	default:
		l.error(ErrCodeUnexpectedChar, i18n.T(i18n.ErrUnexpectedChar, ch))
	}
}

// ============================================================================
// 标记文本扫描
// ============================================================================

// scanMarkupText 扫描标记文本
//
// 文本一直累积到 '<'（下一个标签）、'{'（表达式逃逸）或
// '$('（信号绑定）为止。空白在这里有意义，不跳过。
func (l *Lexer) scanMarkupText() {
	l.beginToken()

	for !l.isAtEnd() {
		ch := l.peekByte()

		if ch == '<' {
			next := l.peekNextByte()
			if next == '/' || (next < utf8.RuneSelf && isAlpha(rune(next))) {
				break
			}
			// 孤立的 '<' 按文本处理
			l.advanceByte()
			continue
		}
		if ch == '{' {
			break
		}
		if ch == '$' && l.peekNextByte() == '(' {
			break
		}
		if ch == '\n' {
			l.advanceByte()
			l.newLine()
			continue
		}
		l.advance()
	}

	// 先交出累积的文本
	if l.current > l.start {
		text := l.source[l.start:l.current]
		l.addTokenWithValue(token.MARKUP_TEXT, text)
		return
	}

	if l.isAtEnd() {
		return // finishAtEOF 负责报告未闭合标记
	}

	// 处理切出点
	l.beginToken()
	switch l.peekByte() {
	case '<':
		l.advanceByte()
		if l.peekByte() == '/' {
			l.advanceByte()
			l.tagPending = true
			l.tagClosing = true
			l.addToken(token.TAG_CLOSE_OPEN)
		} else {
			l.tagPending = true
			l.tagClosing = false
			l.addToken(token.TAG_OPEN)
		}
	case '{':
		l.advanceByte()
		l.exprFrames = append(l.exprFrames, markupExprFrame{depth: 0, inTag: false})
		l.pushMode(ModeMarkupExpression)
		l.addToken(token.LBRACE)
	case '$':
		l.advanceByte() // '$'
		l.signalBinding()
	}
}

// ============================================================================
// 信号绑定
// ============================================================================

// signalBinding 扫描 $(name)
//
// 调用时 '$' 已被消费，当前位置应为 '('。
// 标识符缺失或右括号缺失都是词法错误（不做恢复）。
func (l *Lexer) signalBinding() {
	if l.peekByte() != '(' {
		l.error(ErrCodeMalformedSignal, i18n.T(i18n.ErrMalformedSignal))
		return
	}
	l.advanceByte() // '('

	nameStart := l.current
	if !isAlpha(l.peek()) {
		l.error(ErrCodeMalformedSignal, i18n.T(i18n.ErrMalformedSignal))
		return
	}
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	name := l.source[nameStart:l.current]

	if l.peekByte() != ')' {
		l.error(ErrCodeMalformedSignal, i18n.T(i18n.ErrMalformedSignal))
		return
	}
	l.advanceByte() // ')'

	l.addTokenWithValue(token.SIGNAL_BINDING, name)
}

// ============================================================================
// 模板字符串
// ============================================================================

// scanTemplateHead 扫描模板字符串的起始段
//
// 调用时反引号已被消费。产出 TEMPLATE_NO_SUB（无插值）或
// TEMPLATE_HEAD（遇到 ${，压入模板帧）。
func (l *Lexer) scanTemplateHead() {
	l.scanTemplatePart(token.TEMPLATE_NO_SUB, token.TEMPLATE_HEAD)
}

// scanTemplateContinuation 扫描模板字符串的续段
//
// 调用时 '}' 已被消费且栈顶模板帧的花括号深度为零。
// 产出 TEMPLATE_TAIL（弹出模板帧）或 TEMPLATE_MIDDLE。
func (l *Lexer) scanTemplateContinuation() {
	l.scanTemplatePart(token.TEMPLATE_TAIL, token.TEMPLATE_MIDDLE)
}

// scanTemplatePart 模板段的公共扫描逻辑
//
// closeType 在遇到反引号时产出，substType 在遇到 ${ 时产出。
// Value 为去掉定界符、处理完转义的文本。
func (l *Lexer) scanTemplatePart(closeType, substType token.TokenType) {
	var sb strings.Builder

	for !l.isAtEnd() {
		ch := l.peek()

		if ch == '`' {
			l.advance()
			if closeType == token.TEMPLATE_TAIL {
				l.templates = l.templates[:len(l.templates)-1]
			}
			l.addTokenWithValue(closeType, sb.String())
			return
		}

		if ch == '$' && l.peekNextByte() == '{' {
			l.advance()
			l.advance()
			if substType == token.TEMPLATE_HEAD {
				l.templates = append(l.templates, templateFrame{modeDepth: len(l.modes)})
			} else {
				l.templates[len(l.templates)-1].braceDepth = 0
			}
			l.addTokenWithValue(substType, sb.String())
			return
		}

		if ch == '\\' {
			l.advance()
			if l.isAtEnd() {
				break
			}
			escaped := l.advance()
			switch escaped {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '`':
				sb.WriteByte('`')
			case '$':
				sb.WriteByte('$')
			default:
				sb.WriteRune(escaped)
			}
			continue
		}

		if ch == '\n' {
			l.advance()
			l.newLine()
			sb.WriteByte('\n')
			continue
		}

		sb.WriteRune(l.advance())
	}

	l.error(ErrCodeUnterminatedTemplate, i18n.T(i18n.ErrUnterminatedTemplate))
}

// ============================================================================
// 空白与注释
// ============================================================================

// skipWhitespace 批量跳过连续的空白字符
func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.peekByte() {
		case ' ', '\t', '\r':
			l.advanceByte()
		case '\n':
			l.advanceByte()
			l.newLine()
		default:
			return
		}
	}
}

// lineComment 处理单行注释 //
func (l *Lexer) lineComment() {
	for !l.isAtEnd() && l.peekByte() != '\n' {
		l.advance()
	}
	// 不消费换行符，让主循环处理（更新行号）
}

// blockComment 处理多行注释 /* */，支持嵌套
func (l *Lexer) blockComment() {
	depth := 1

	for depth > 0 && !l.isAtEnd() {
		if l.peekByte() == '/' && l.peekNextByte() == '*' {
			l.advanceByte()
			l.advanceByte()
			depth++
			continue
		}
		if l.peekByte() == '*' && l.peekNextByte() == '/' {
			l.advanceByte()
			l.advanceByte()
			depth--
			continue
		}
		if l.peekByte() == '\n' {
			l.advanceByte()
			l.newLine()
			continue
		}
		l.advance()
	}

	if depth > 0 {
		l.error(ErrCodeUnterminatedComment, i18n.T(i18n.ErrUnterminatedComment))
	}
}

// ============================================================================
// 字符串处理
// ============================================================================

// string 处理普通字符串字面量
//
// 支持单引号和双引号；转义：\n \r \t \\ \' \" \0。
// 快速路径：无转义时直接切片，避免逐字符拷贝。
func (l *Lexer) string(quote rune) {
	startOffset := l.current

	hasEscape := false
	scanPos := l.current
	for scanPos < len(l.source) {
		b := l.source[scanPos]
		if b == '\\' {
			hasEscape = true
			break
		}
		if b == byte(quote) || b == '\n' {
			break
		}
		scanPos++
	}

	// 快速路径：无转义字符，直接切片
	if !hasEscape {
		for l.current < scanPos {
			l.advance()
		}
		if l.isAtEnd() || l.peekByte() == '\n' {
			l.error(ErrCodeUnterminatedString, i18n.T(i18n.ErrUnterminatedString))
			return
		}
		value := l.source[startOffset:l.current]
		l.advance() // 跳过结束引号
		l.addTokenWithValue(token.STRING, value)
		return
	}

	// 慢速路径：处理转义
	var sb strings.Builder
	sb.Grow(scanPos - startOffset + 16)

	for !l.isAtEnd() {
		ch := l.peek()
		if ch == quote {
			break
		}
		if ch == '\n' {
			l.error(ErrCodeUnterminatedString, i18n.T(i18n.ErrUnterminatedString))
			return
		}
		if ch == '\\' {
			l.advance()
			if l.isAtEnd() {
				l.error(ErrCodeUnterminatedString, i18n.T(i18n.ErrUnterminatedString))
				return
			}
			escaped := l.advance()
			switch escaped {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '\'':
				sb.WriteByte('\'')
			case '"':
				sb.WriteByte('"')
			case '0':
				sb.WriteByte(0)
			default:
				sb.WriteRune(escaped)
			}
		} else {
			sb.WriteRune(l.advance())
		}
	}

	if l.isAtEnd() {
		l.error(ErrCodeUnterminatedString, i18n.T(i18n.ErrUnterminatedString))
		return
	}

	l.advance() // 跳过结束引号
	l.addTokenWithValue(token.STRING, sb.String())
}

// ============================================================================
// 数字处理
// ============================================================================

// number 处理数字字面量
//
// 支持十进制、0x 十六进制、0b 二进制、小数和科学计数法。
func (l *Lexer) number() {
	firstDigit := l.source[l.start]

	// 十六进制 0x...
	if firstDigit == '0' && (l.peekByte() == 'x' || l.peekByte() == 'X') {
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
		literal := l.source[l.start:l.current]
		value, err := strconv.ParseInt(literal, 0, 64)
		if err != nil {
			l.error(ErrCodeInvalidNumber, i18n.T(i18n.ErrInvalidHexNumber, literal))
			return
		}
		l.addTokenWithValue(token.INT, value)
		return
	}

	// 二进制 0b...
	if firstDigit == '0' && (l.peekByte() == 'b' || l.peekByte() == 'B') {
		l.advance()
		for l.peekByte() == '0' || l.peekByte() == '1' {
			l.advance()
		}
		literal := l.source[l.start:l.current]
		value, err := strconv.ParseInt(literal, 0, 64)
		if err != nil {
			l.error(ErrCodeInvalidNumber, i18n.T(i18n.ErrInvalidBinaryNumber, literal))
			return
		}
		l.addTokenWithValue(token.INT, value)
		return
	}

	// 十进制整数部分
	for isDigit(l.peek()) {
		l.advance()
	}

	// 小数部分
	isFloat := false
	if l.peekByte() == '.' && isDigit(l.peekNextRune()) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	// 科学计数法
	if l.peekByte() == 'e' || l.peekByte() == 'E' {
		isFloat = true
		l.advance()
		if l.peekByte() == '+' || l.peekByte() == '-' {
			l.advance()
		}
		if !isDigit(l.peek()) {
			l.error(ErrCodeInvalidNumber, i18n.T(i18n.ErrInvalidExponent))
			return
		}
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	literal := l.source[l.start:l.current]

	if isFloat {
		value, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			l.error(ErrCodeInvalidNumber, i18n.T(i18n.ErrInvalidFloat, literal))
			return
		}
		l.addTokenWithValue(token.FLOAT, value)
		return
	}

	// 优化：一两位整数直接计算，避免 strconv 调用
	if len(literal) == 1 {
		l.addTokenWithValue(token.INT, int64(literal[0]-'0'))
		return
	}
	if len(literal) == 2 {
		value := int64(literal[0]-'0')*10 + int64(literal[1]-'0')
		l.addTokenWithValue(token.INT, value)
		return
	}

	value, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		l.error(ErrCodeInvalidNumber, i18n.T(i18n.ErrInvalidInteger, literal))
		return
	}
	l.addTokenWithValue(token.INT, value)
}

// ============================================================================
// 标识符处理
// ============================================================================

// identifier 处理标识符和关键字
func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}

	text := l.source[l.start:l.current]
	l.addToken(token.LookupIdent(text))
}

// ============================================================================
// 模式栈操作
// ============================================================================

// mode 当前扫描模式（栈顶）
func (l *Lexer) mode() ScanMode {
	return l.modes[len(l.modes)-1]
}

// pushMode 压入扫描模式
func (l *Lexer) pushMode(m ScanMode) {
	l.modes = append(l.modes, m)
}

// popMode 弹出扫描模式
//
// 初始 Normal 帧不可弹出：下溢表示词法器自身的状态机出了问题，
// 记录 X0002 并保持栈不变。
func (l *Lexer) popMode() {
	if len(l.modes) <= 1 {
		l.errors = append(l.errors, Error{
			Code:    ErrCodeModeUnderflow,
			Pos:     l.tokenPos(),
			Message: i18n.T(i18n.ErrModeStackUnderflow),
		})
		return
	}
	l.modes = l.modes[:len(l.modes)-1]
}

// ============================================================================
// 底层字符操作（带 ASCII 优化）
// ============================================================================

// isAtEnd 检查是否到达源代码末尾
func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// beginToken 记录下一个 token 的起点
func (l *Lexer) beginToken() {
	l.start = l.current
	l.startLine = l.line
	l.startLineStart = l.lineStart
}

// advance 前进一个字符并返回它
//
// ASCII 快速路径：大多数源代码字符 < 128，无需 UTF-8 解码。
func (l *Lexer) advance() rune {
	if l.current >= len(l.source) {
		return 0
	}

	b := l.source[l.current]
	if b < utf8.RuneSelf {
		l.current++
		return rune(b)
	}

	r, size := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += size
	return r
}

// advanceByte 前进一个字节（仅用于已知是 ASCII 的情况）
func (l *Lexer) advanceByte() {
	l.current++
}

// peek 查看当前字符但不前进
func (l *Lexer) peek() rune {
	if l.current >= len(l.source) {
		return 0
	}
	b := l.source[l.current]
	if b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.current:])
	return r
}

// peekByte 查看当前字节（仅用于 ASCII 检查）
func (l *Lexer) peekByte() byte {
	if l.current >= len(l.source) {
		return 0
	}
	return l.source[l.current]
}

// peekNextByte 查看下一个字节（仅用于 ASCII 检查）
func (l *Lexer) peekNextByte() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

// peekNextRune 查看下一个 rune（用于浮点数检测）
func (l *Lexer) peekNextRune() rune {
	if l.current+1 >= len(l.source) {
		return 0
	}
	b := l.source[l.current+1]
	if b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.current+1:])
	return r
}

// match 如果当前字符匹配则前进
func (l *Lexer) match(expected rune) bool {
	if l.current >= len(l.source) {
		return false
	}
	b := l.source[l.current]
	if b < utf8.RuneSelf {
		if rune(b) != expected {
			return false
		}
		l.current++
		return true
	}
	r, size := utf8.DecodeRuneInString(l.source[l.current:])
	if r != expected {
		return false
	}
	l.current += size
	return true
}

// ============================================================================
// 位置追踪
// ============================================================================

// newLine 处理换行
func (l *Lexer) newLine() {
	l.line++
	l.lineStart = l.current
}

// tokenPos 计算当前 token 的起始位置
//
// 列号 = 起始偏移 - 起始行首偏移 + 1，不做增量维护。
func (l *Lexer) tokenPos() token.Position {
	return token.Position{
		Filename: l.filename,
		Line:     l.startLine,
		Column:   l.start - l.startLineStart + 1,
		Offset:   l.start,
	}
}

// ============================================================================
// Token 生成
// ============================================================================

// addToken 添加一个无值的 Token
func (l *Lexer) addToken(tokenType token.TokenType) {
	l.tokens = append(l.tokens, token.Token{
		Type:    tokenType,
		Literal: l.source[l.start:l.current],
		Pos:     l.tokenPos(),
	})
}

// addTokenWithValue 添加一个带值的 Token
func (l *Lexer) addTokenWithValue(tokenType token.TokenType, value interface{}) {
	l.tokens = append(l.tokens, token.Token{
		Type:    tokenType,
		Literal: l.source[l.start:l.current],
		Value:   value,
		Pos:     l.tokenPos(),
	})
}

// ============================================================================
// 错误处理
// ============================================================================

// 词法错误码（与 internal/errors 的 L/X 码对应，
// 在这里用常量避免包依赖环）
const (
	ErrCodeUnexpectedChar       = "L0001"
	ErrCodeUnterminatedString   = "L0002"
	ErrCodeUnterminatedComment  = "L0003"
	ErrCodeInvalidNumber        = "L0004"
	ErrCodeMalformedSignal      = "L0005"
	ErrCodeUnterminatedTemplate = "L0006"
	ErrCodeUnterminatedTag      = "L0007"
	ErrCodeUnterminatedMarkup   = "L0007"
	ErrCodeModeUnderflow        = "X0002"
	ErrCodeBadReScan            = "X0003"
)

// error 记录一个词法错误并产出 ILLEGAL token
//
// 词法错误对当前文件是致命的：这里不做恢复，
// 调用方（pipeline）看到任何词法错误都会中止该文件的编译。
func (l *Lexer) error(code, message string) {
	l.errors = append(l.errors, Error{
		Code:    code,
		Pos:     l.tokenPos(),
		Message: message,
	})
	l.addToken(token.ILLEGAL)
}

// internalError 记录一个内部缺陷并产出 ILLEGAL token
func (l *Lexer) internalError(message string) {
	l.recordInternalError(message)
	l.addToken(token.ILLEGAL)
}

// recordInternalError 只记录内部缺陷，不产出 token
//
// 在 token 和快照数组必须保持对齐的路径上使用。
func (l *Lexer) recordInternalError(message string) {
	l.errors = append(l.errors, Error{
		Code:    ErrCodeBadReScan,
		Pos:     l.tokenPos(),
		Message: message,
	})
}

// ============================================================================
// 字符分类函数
// ============================================================================

// isDigit 判断是否为数字 0-9
func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// isHexDigit 判断是否为十六进制数字
func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// isAlpha 判断是否为字母或下划线
//
// 支持 Unicode 字母，允许标识符使用非 ASCII 字符。
func isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		ch == '_' ||
		unicode.IsLetter(ch)
}

// isAlphaNumeric 判断是否为字母、数字或下划线
func isAlphaNumeric(ch rune) bool {
	return isAlpha(ch) || isDigit(ch)
}
