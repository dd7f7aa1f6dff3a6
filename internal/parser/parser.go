// Package parser 实现 PSR 的递归下降语法分析器
package parser

import (
	"fmt"

	"github.com/psrlang/psr/internal/ast"
	"github.com/psrlang/psr/internal/i18n"
	"github.com/psrlang/psr/internal/lexer"
	"github.com/psrlang/psr/internal/token"
)

// ============================================================================
// Parser - 递归下降语法分析器
// ============================================================================
//
// Parser 按需从词法器拉取 token（TokenAt），并在语法上下文确定时
// 通过 re-scan 协议让词法器重新归类歧义 token：
//
//   - 中缀位置出现暂定标签开始 (TAG_OPEN) -> ReScanLessThan 退回比较
//   - 泛型参数列表 -> Push/PopTypeParameterContext
//   - 箭头函数前瞻失败 -> Rewind 作废推测性扫描
//
// 语法错误对当前文件是终止性的：报告第一个错误后整个解析立即
// 收敛返回，不做语句级重同步。局部 AST 会被整体丢弃，所以错误
// 路径上允许节点字段为 nil。
//
// ============================================================================

// maxExprDepth 最大表达式嵌套深度，防止栈溢出
const maxExprDepth = 200

// maxArrowLookahead 箭头函数前瞻的 token 上限
const maxArrowLookahead = 1024

// Parser 语法分析器
type Parser struct {
	lex       *lexer.Lexer
	arena     *ast.Arena
	current   int // 当前 token 索引
	filename  string
	errors    []Error
	panicMode bool // 首个错误后置位，所有解析函数随之收敛
	exprDepth int  // 表达式解析深度
}

// Error 语法分析错误
type Error struct {
	Code    string
	Pos     token.Position
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// New 创建一个新的语法分析器
func New(source, filename string) *Parser {
	return &Parser{
		lex:      lexer.New(source, filename),
		arena:    ast.NewArena(0),
		filename: filename,
	}
}

// NewWithArena 使用外部 Arena 创建语法分析器（多文件编译时复用内存）
func NewWithArena(source, filename string, arena *ast.Arena) *Parser {
	return &Parser{
		lex:      lexer.New(source, filename),
		arena:    arena,
		filename: filename,
	}
}

// Lexer 返回底层词法器（用于收集词法错误）
func (p *Parser) Lexer() *lexer.Lexer {
	return p.lex
}

// Arena 返回节点分配器
//
// AST 的生命周期由 Arena 决定，调用方在丢弃 AST 前不得 Reset。
func (p *Parser) Arena() *ast.Arena {
	return p.arena
}

// Parse 解析整个编译单元
func (p *Parser) Parse() *ast.File {
	file := &ast.File{Filename: p.filename}

	for !p.isAtEnd() && !p.panicMode {
		var node ast.Node
		switch p.peek().Type {
		case token.IMPORT:
			node = p.parseImportDecl()
		case token.EXPORT:
			node = p.parseExportDecl()
		case token.COMPONENT:
			node = p.parseComponentDecl()
		case token.TYPE:
			node = p.parseTypeAliasDecl()
		default:
			node = p.parseStatement()
		}
		if p.panicMode {
			break
		}
		if node != nil {
			file.Body = append(file.Body, node)
		}
	}

	return file
}

// Errors 返回所有语法错误
func (p *Parser) Errors() []Error {
	return p.errors
}

// HasErrors 检查是否有错误
func (p *Parser) HasErrors() bool {
	return len(p.errors) > 0
}

// ============================================================================
// 辅助方法
// ============================================================================

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.lex.TokenAt(p.current)
}

func (p *Parser) peekNext() token.Token {
	return p.lex.TokenAt(p.current + 1)
}

func (p *Parser) previous() token.Token {
	return p.lex.TokenAt(p.current - 1)
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t token.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) checkAny(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

func (p *Parser) match(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t token.TokenType, code, message string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.error(code, message)
	return token.Token{} // 零值，调用方靠 panicMode 收敛
}

func (p *Parser) expect(t token.TokenType) token.Token {
	return p.consume(t, "P0002", i18n.T(i18n.ErrExpectedToken, t.String()))
}

// error 在当前 token 处报告语法错误
//
// 语法错误是终止性的：第一个错误置位 panicMode，
// 之后的所有报告和消费都静默跳过。
func (p *Parser) error(code, message string) {
	p.errorAt(p.peek().Pos, code, message)
}

func (p *Parser) errorAt(pos token.Position, code, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.errors = append(p.errors, Error{Code: code, Pos: pos, Message: message})
}

// ============================================================================
// 声明解析
// ============================================================================

// parseComponentDecl 解析组件声明
//
//	component Counter<T>(start: number = 0): Element { ... }
func (p *Parser) parseComponentDecl() *ast.ComponentDecl {
	tok := p.advance() // component
	name := p.consume(token.IDENT, "P0002", i18n.T(i18n.ErrExpectedIdent))
	decl := p.arena.NewComponentDecl(tok, name)

	if p.atGenericStart() {
		decl.TypeParams = p.parseTypeParameters()
	}

	p.expect(token.LPAREN)
	decl.Params = p.parseParameterList()
	p.expect(token.RPAREN)

	if p.match(token.COLON) {
		decl.ReturnType = p.parseType()
	}

	decl.Body = p.parseBlockStmt()
	return decl
}

// parseParameterList 解析参数列表（不含括号）
func (p *Parser) parseParameterList() []*ast.Parameter {
	var params []*ast.Parameter
	if p.check(token.RPAREN) {
		return params
	}
	for !p.panicMode {
		params = append(params, p.parseParameter())
		if !p.match(token.COMMA) {
			break
		}
	}
	return params
}

// parseParameter 解析一个参数 (name[: Type][= default])
func (p *Parser) parseParameter() *ast.Parameter {
	name := p.consume(token.IDENT, "P0002", i18n.T(i18n.ErrExpectedParamName))

	var typ ast.TypeNode
	if p.match(token.COLON) {
		typ = p.parseType()
	}

	var def ast.Expression
	if p.match(token.ASSIGN) {
		def = p.parseExpression()
	}

	return p.arena.NewParameter(name, typ, def)
}

// parseTypeAliasDecl 解析类型别名声明
//
//	type Nullable<T> = T | null
func (p *Parser) parseTypeAliasDecl() *ast.TypeAliasDecl {
	tok := p.advance() // type
	name := p.consume(token.IDENT, "P0002", i18n.T(i18n.ErrExpectedIdent))
	decl := p.arena.NewTypeAliasDecl(tok, name)

	if p.atGenericStart() {
		decl.TypeParams = p.parseTypeParameters()
	}

	p.expect(token.ASSIGN)
	decl.Aliased = p.parseType()
	p.match(token.SEMICOLON)
	return decl
}

// parseTypeParameters 解析泛型参数列表 <T, K extends Base>
//
// 整个列表在类型参数上下文中扫描，其中 '<' '>' 不会被
// 合并为运算符，也不会被暂定为标记标签。
func (p *Parser) parseTypeParameters() []*ast.TypeParameter {
	p.lex.PushTypeParameterContext(p.current)
	p.expect(token.LT)

	var params []*ast.TypeParameter
	for !p.panicMode {
		name := p.consume(token.IDENT, "P0002", i18n.T(i18n.ErrExpectedIdent))
		var constraint ast.TypeNode
		if p.match(token.EXTENDS) {
			constraint = p.parseType()
		}
		params = append(params, p.arena.NewTypeParameter(name, constraint))
		if !p.match(token.COMMA) {
			break
		}
	}

	p.expect(token.GT)
	p.lex.PopTypeParameterContext(p.current)
	return params
}

// parseImportDecl 解析导入声明
//
// 支持的形态：
//
//	import "side-effect"
//	import def from "m"
//	import { a, b as c } from "m"
//	import * as ns from "m"
//	import def, { a } from "m"
//	import def, * as ns from "m"
func (p *Parser) parseImportDecl() *ast.ImportDecl {
	tok := p.advance() // import
	decl := p.arena.NewImportDecl(tok)

	// 副作用导入
	if p.check(token.STRING) {
		decl.Path = p.advance()
		p.match(token.SEMICOLON)
		return decl
	}

	if p.check(token.IDENT) {
		// 默认导入
		name := p.advance()
		decl.Specifiers = append(decl.Specifiers,
			p.arena.NewImportSpecifier(ast.ImportDefault, name, token.Token{}))
		if p.match(token.COMMA) {
			p.parseImportSpecifiers(decl)
		}
	} else {
		p.parseImportSpecifiers(decl)
	}

	p.consume(token.FROM, "P0002", i18n.T(i18n.ErrExpectedImportFrom))
	decl.Path = p.consume(token.STRING, "P0002", i18n.T(i18n.ErrExpectedModulePath))
	p.match(token.SEMICOLON)
	return decl
}

// parseImportSpecifiers 解析命名导入或命名空间导入
func (p *Parser) parseImportSpecifiers(decl *ast.ImportDecl) {
	switch {
	case p.check(token.STAR):
		star := p.advance()
		p.expect(token.AS)
		local := p.consume(token.IDENT, "P0002", i18n.T(i18n.ErrExpectedIdent))
		decl.Specifiers = append(decl.Specifiers,
			p.arena.NewImportSpecifier(ast.ImportNamespace, star, local))

	case p.check(token.LBRACE):
		p.advance()
		for !p.panicMode && !p.check(token.RBRACE) {
			name := p.consume(token.IDENT, "P0002", i18n.T(i18n.ErrExpectedIdent))
			var alias token.Token
			if p.match(token.AS) {
				alias = p.consume(token.IDENT, "P0002", i18n.T(i18n.ErrExpectedIdent))
			}
			decl.Specifiers = append(decl.Specifiers,
				p.arena.NewImportSpecifier(ast.ImportNamed, name, alias))
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACE)

	default:
		p.error("P0001", i18n.T(i18n.ErrUnexpectedToken, p.peek().Type.String()))
	}
}

// parseExportDecl 解析导出声明
func (p *Parser) parseExportDecl() *ast.ExportDecl {
	tok := p.advance() // export
	decl := p.arena.NewExportDecl(tok)

	switch {
	case p.match(token.DEFAULT):
		decl.Default = true
		if p.check(token.COMPONENT) {
			decl.Decl = p.parseComponentDecl()
		} else {
			decl.Expr = p.parseExpression()
			p.match(token.SEMICOLON)
		}

	case p.check(token.COMPONENT):
		decl.Decl = p.parseComponentDecl()

	case p.check(token.TYPE):
		decl.Decl = p.parseTypeAliasDecl()

	case p.checkAny(token.CONST, token.LET):
		v := p.parseVarDeclStmt()
		decl.Decl = p.arena.NewExportVarDecl(v)

	case p.check(token.LBRACE):
		p.advance()
		for !p.panicMode && !p.check(token.RBRACE) {
			name := p.consume(token.IDENT, "P0002", i18n.T(i18n.ErrExpectedIdent))
			var alias token.Token
			if p.match(token.AS) {
				alias = p.consume(token.IDENT, "P0002", i18n.T(i18n.ErrExpectedIdent))
			}
			decl.Specifiers = append(decl.Specifiers, p.arena.NewExportSpecifier(name, alias))
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACE)
		if p.match(token.FROM) {
			decl.Source = p.consume(token.STRING, "P0002", i18n.T(i18n.ErrExpectedModulePath))
		}
		p.match(token.SEMICOLON)

	default:
		p.error("P0001", i18n.T(i18n.ErrUnexpectedToken, p.peek().Type.String()))
	}

	return decl
}

// ============================================================================
// 语句解析
// ============================================================================

func (p *Parser) parseStatement() ast.Statement {
	switch p.peek().Type {
	case token.CONST, token.LET:
		return p.parseVarDeclStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.IF:
		return p.parseIfStmt()
	case token.LBRACE:
		return p.parseBlockStmt()
	default:
		return p.parseExprStmt()
	}
}

// parseBlockStmt 解析语句块
func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	lbrace := p.expect(token.LBRACE)

	var stmts []ast.Statement
	for !p.panicMode && !p.check(token.RBRACE) && !p.isAtEnd() {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	rbrace := p.expect(token.RBRACE)
	return p.arena.NewBlockStmt(lbrace, stmts, rbrace)
}

// parseVarDeclStmt 解析变量声明
//
//	const x: number = 1
//	let y = 2
//	const [count, setCount] = createSignal(0)
//	const { a, b } = props
func (p *Parser) parseVarDeclStmt() *ast.VarDeclStmt {
	declTok := p.advance() // const 或 let
	stmt := p.arena.NewVarDeclStmt(declTok)

	switch {
	case p.match(token.LBRACKET):
		stmt.ArrayPattern = true
		for !p.panicMode && !p.check(token.RBRACKET) {
			stmt.Destructuring = append(stmt.Destructuring,
				p.consume(token.IDENT, "P0002", i18n.T(i18n.ErrExpectedIdent)))
			if !p.match(token.COMMA) {
				break
			}
		}
		if len(stmt.Destructuring) == 0 {
			// 空模式不引入任何绑定
			p.error("P0002", i18n.T(i18n.ErrExpectedIdent))
		}
		p.expect(token.RBRACKET)

	case p.match(token.LBRACE):
		for !p.panicMode && !p.check(token.RBRACE) {
			stmt.Destructuring = append(stmt.Destructuring,
				p.consume(token.IDENT, "P0002", i18n.T(i18n.ErrExpectedIdent)))
			if !p.match(token.COMMA) {
				break
			}
		}
		if len(stmt.Destructuring) == 0 {
			// 空模式不引入任何绑定
			p.error("P0002", i18n.T(i18n.ErrExpectedIdent))
		}
		p.expect(token.RBRACE)

	default:
		stmt.Name = p.consume(token.IDENT, "P0002", i18n.T(i18n.ErrExpectedIdent))
	}

	if p.match(token.COLON) {
		stmt.Type = p.parseType()
	}

	if p.match(token.ASSIGN) {
		stmt.Value = p.parseExpression()
	} else if len(stmt.Destructuring) > 0 || declTok.Type == token.CONST {
		// 解构和 const 都必须带初始化
		p.error("P0002", i18n.T(i18n.ErrExpectedToken, "="))
	}

	p.match(token.SEMICOLON)
	return stmt
}

// parseReturnStmt 解析 return 语句
func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	tok := p.advance() // return

	var value ast.Expression
	if !p.checkAny(token.SEMICOLON, token.RBRACE) && !p.isAtEnd() {
		value = p.parseExpression()
	}
	p.match(token.SEMICOLON)
	return p.arena.NewReturnStmt(tok, value)
}

// parseIfStmt 解析 if 语句
func (p *Parser) parseIfStmt() *ast.IfStmt {
	tok := p.advance() // if
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)

	then := p.parseBlockStmt()

	var els ast.Statement
	if p.match(token.ELSE) {
		if p.check(token.IF) {
			els = p.parseIfStmt()
		} else {
			els = p.parseBlockStmt()
		}
	}

	return p.arena.NewIfStmt(tok, cond, then, els)
}

// parseExprStmt 解析表达式语句
func (p *Parser) parseExprStmt() ast.Statement {
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	p.match(token.SEMICOLON)
	return p.arena.NewExprStmt(expr)
}

// ============================================================================
// 类型解析
// ============================================================================

// parseType 解析类型（入口为联合类型）
func (p *Parser) parseType() ast.TypeNode {
	first := p.parsePostfixType()
	if first == nil || !p.check(token.BIT_OR) {
		return first
	}

	types := []ast.TypeNode{first}
	for p.match(token.BIT_OR) {
		t := p.parsePostfixType()
		if t == nil {
			break
		}
		types = append(types, t)
	}
	return p.arena.NewUnionType(types)
}

// parsePostfixType 解析带数组后缀的类型 (T[])
func (p *Parser) parsePostfixType() ast.TypeNode {
	t := p.parsePrimaryType()
	for t != nil && p.check(token.LBRACKET) && p.peekNext().Type == token.RBRACKET {
		lbracket := p.advance()
		rbracket := p.advance()
		t = p.arena.NewArrayType(t, lbracket, rbracket)
	}
	return t
}

// parsePrimaryType 解析基础类型
func (p *Parser) parsePrimaryType() ast.TypeNode {
	switch p.peek().Type {
	case token.NULL:
		return p.arena.NewNullType(p.advance())

	case token.READONLY:
		tok := p.advance()
		inner := p.parsePostfixType()
		return p.arena.NewReadonlyType(tok, inner)

	case token.IDENT:
		base := p.arena.NewSimpleType(p.advance())
		if p.atGenericStart() {
			return p.parseGenericType(base)
		}
		return base

	default:
		p.error("P0006", i18n.T(i18n.ErrExpectedType))
		return nil
	}
}

// atGenericStart 当前 token 是否可能是泛型参数列表的 '<'
//
// 类型上下文外的词法器可能已把 '<' 暂定成了标签开始，
// 两种形态都接受，由 PushTypeParameterContext 重新归类。
func (p *Parser) atGenericStart() bool {
	return p.check(token.LT) || p.check(token.TAG_OPEN)
}

// parseGenericType 解析泛型类型实例化 Array<string>
func (p *Parser) parseGenericType(base ast.TypeNode) ast.TypeNode {
	p.lex.PushTypeParameterContext(p.current)
	lAngle := p.expect(token.LT)

	var args []ast.TypeNode
	for !p.panicMode {
		arg := p.parseType()
		if arg == nil {
			break
		}
		args = append(args, arg)
		if !p.match(token.COMMA) {
			break
		}
	}

	rAngle := p.expect(token.GT)
	p.lex.PopTypeParameterContext(p.current)
	return p.arena.NewGenericType(base, lAngle, args, rAngle)
}

// ============================================================================
// 表达式解析 (Pratt)
// ============================================================================

// 运算符优先级，从低到高
const (
	PrecNone = iota
	PrecAssign
	PrecTernary
	PrecOr
	PrecAnd
	PrecBitOr
	PrecBitAnd
	PrecEquality
	PrecComparison
	PrecShift
	PrecAdditive
	PrecMultiplicative
	PrecPrefix
	PrecCall
)

// getPrecedence 返回 token 作为中缀运算符的优先级
func (p *Parser) getPrecedence(t token.TokenType) int {
	switch t {
	case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN:
		return PrecAssign
	case token.QUESTION:
		return PrecTernary
	case token.OR:
		return PrecOr
	case token.AND:
		return PrecAnd
	case token.BIT_OR:
		return PrecBitOr
	case token.BIT_AND:
		return PrecBitAnd
	case token.EQ, token.NE:
		return PrecEquality
	case token.LT, token.LE, token.GT, token.GE:
		return PrecComparison
	case token.TAG_OPEN:
		// 中缀位置的暂定标签开始其实是比较运算符，
		// 解析时经 ReScanLessThan 退回 '<'
		return PrecComparison
	case token.LEFT_SHIFT, token.RIGHT_SHIFT:
		return PrecShift
	case token.PLUS, token.MINUS:
		return PrecAdditive
	case token.STAR, token.SLASH, token.PERCENT:
		return PrecMultiplicative
	case token.LPAREN, token.DOT, token.LBRACKET:
		return PrecCall
	default:
		return PrecNone
	}
}

// parseExpression 解析表达式
func (p *Parser) parseExpression() ast.Expression {
	return p.parsePrecedence(PrecNone)
}

// parsePrecedence 解析优先级不低于 precedence 的表达式
func (p *Parser) parsePrecedence(precedence int) ast.Expression {
	p.exprDepth++
	defer func() { p.exprDepth-- }()
	if p.exprDepth > maxExprDepth {
		p.error("P0008", i18n.T(i18n.ErrExprTooDeep))
		return nil
	}

	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for !p.panicMode && precedence < p.getPrecedence(p.peek().Type) {
		left = p.parseInfixExpr(left)
		if left == nil {
			return nil
		}
	}

	return left
}

// parsePrefixExpr 解析前缀表达式
func (p *Parser) parsePrefixExpr() ast.Expression {
	switch p.peek().Type {
	case token.IDENT:
		return p.arena.NewIdentifier(p.advance())

	case token.INT:
		tok := p.advance()
		value, _ := tok.Value.(int64)
		return p.arena.NewIntegerLiteral(tok, value)

	case token.FLOAT:
		tok := p.advance()
		value, _ := tok.Value.(float64)
		return p.arena.NewFloatLiteral(tok, value)

	case token.STRING:
		tok := p.advance()
		value, _ := tok.Value.(string)
		return p.arena.NewStringLiteral(tok, value)

	case token.TRUE:
		return p.arena.NewBooleanLiteral(p.advance(), true)

	case token.FALSE:
		return p.arena.NewBooleanLiteral(p.advance(), false)

	case token.NULL:
		return p.arena.NewNullLiteral(p.advance())

	case token.TEMPLATE_NO_SUB, token.TEMPLATE_HEAD:
		return p.parseTemplateLiteral()

	case token.NOT, token.MINUS:
		tok := p.advance()
		right := p.parsePrecedence(PrecPrefix)
		return p.arena.NewPrefixExpr(tok, right)

	case token.LPAREN:
		return p.parseGroupOrArrowFunc()

	case token.LBRACKET:
		return p.parseArrayLiteral()

	case token.LBRACE:
		return p.parseObjectLiteral()

	case token.TAG_OPEN:
		return p.parseMarkupElement()

	case token.SIGNAL_BINDING:
		return p.arena.NewSignalBindingExpr(p.advance())

	case token.ELLIPSIS:
		tok := p.advance()
		arg := p.parsePrecedence(PrecAssign)
		return p.arena.NewSpreadExpr(tok, arg)

	default:
		p.error("P0005", i18n.T(i18n.ErrExpectedExpression))
		return nil
	}
}

// parseInfixExpr 解析中缀表达式
func (p *Parser) parseInfixExpr(left ast.Expression) ast.Expression {
	switch p.peek().Type {
	case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN:
		return p.parseAssignExpr(left)

	case token.QUESTION:
		return p.parseTernaryExpr(left)

	case token.LPAREN:
		return p.parseCallExpr(left, nil)

	case token.DOT:
		p.advance()
		prop := p.consume(token.IDENT, "P0002", i18n.T(i18n.ErrExpectedIdent))
		return p.arena.NewMemberExpr(left, prop)

	case token.LBRACKET:
		lbracket := p.advance()
		index := p.parseExpression()
		rbracket := p.expect(token.RBRACKET)
		return p.arena.NewIndexExpr(left, lbracket, index, rbracket)

	case token.LT, token.TAG_OPEN:
		// 中缀位置的 '<'：先探测显式类型实参的调用 foo<Bar>(x)，
		// 不成立的暂定标签开始退回比较运算符
		if call := p.tryGenericCallExpr(left); call != nil {
			return call
		}
		if p.check(token.TAG_OPEN) {
			p.lex.ReScanLessThan(p.current)
		}
		return p.parseBinaryExpr(left)

	default:
		return p.parseBinaryExpr(left)
	}
}

// parseBinaryExpr 解析二元表达式
func (p *Parser) parseBinaryExpr(left ast.Expression) ast.Expression {
	op := p.advance()
	right := p.parsePrecedence(p.getPrecedence(op.Type))
	return p.arena.NewBinaryExpr(left, op, right)
}

// parseAssignExpr 解析赋值表达式（右结合）
func (p *Parser) parseAssignExpr(left ast.Expression) ast.Expression {
	if !isValidAssignTarget(left) {
		p.errorAt(left.Pos(), "P0004", i18n.T(i18n.ErrInvalidAssignTarget))
		return nil
	}
	op := p.advance()
	value := p.parsePrecedence(PrecAssign - 1)
	return p.arena.NewAssignExpr(left, op, value)
}

func isValidAssignTarget(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.Identifier, *ast.MemberExpr, *ast.IndexExpr:
		return true
	default:
		return false
	}
}

// parseTernaryExpr 解析条件表达式（右结合）
func (p *Parser) parseTernaryExpr(cond ast.Expression) ast.Expression {
	p.advance() // ?
	then := p.parseExpression()
	p.expect(token.COLON)
	els := p.parsePrecedence(PrecTernary - 1)
	return p.arena.NewConditionalExpr(cond, then, els)
}

// parseCallExpr 解析调用表达式
func (p *Parser) parseCallExpr(callee ast.Expression, typeArgs []ast.TypeNode) ast.Expression {
	lparen := p.advance()

	var args []ast.Expression
	for !p.panicMode && !p.check(token.RPAREN) {
		args = append(args, p.parsePrecedence(PrecAssign-1))
		if !p.match(token.COMMA) {
			break
		}
	}

	rparen := p.expect(token.RPAREN)
	return p.arena.NewCallExpr(callee, typeArgs, lparen, args, rparen)
}

// tryGenericCallExpr 尝试把中缀位置的 '<' 解析为显式类型实参的调用
//
// 进入泛型参数上下文重扫后做两步判定：'<' 之后必须是类型起始
// token（标识符、const、readonly、null），且配对的 '>' 必须紧跟
// '('。任一步不成立都整体作废重扫，退回比较运算符路径。
func (p *Parser) tryGenericCallExpr(callee ast.Expression) ast.Expression {
	switch callee.(type) {
	case *ast.Identifier, *ast.MemberExpr:
	default:
		return nil
	}

	start := p.current
	p.lex.PushTypeParameterContext(start)

	if !p.isGenericCallAhead(start) {
		p.lex.PopTypeParameterContext(start)
		return nil
	}

	p.expect(token.LT)
	var typeArgs []ast.TypeNode
	for !p.panicMode {
		arg := p.parseType()
		if arg == nil {
			break
		}
		typeArgs = append(typeArgs, arg)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.GT)
	p.lex.PopTypeParameterContext(p.current)

	if p.panicMode || !p.check(token.LPAREN) {
		return nil
	}
	return p.parseCallExpr(callee, typeArgs)
}

// isGenericCallAhead 在泛型参数上下文里前瞻确认 <...>( 形态
//
// 只允许类型文法的 token 出现在尖括号之间，遇到其他 token
// 或前瞻耗尽即判定失败。前瞻不移动解析游标。
func (p *Parser) isGenericCallAhead(start int) bool {
	first := p.lex.TokenAt(start + 1)
	switch first.Type {
	case token.IDENT, token.CONST, token.READONLY, token.NULL:
	default:
		return false
	}

	depth := 0
	for i, n := start, 0; n < maxArrowLookahead; i, n = i+1, n+1 {
		switch p.lex.TokenAt(i).Type {
		case token.LT:
			depth++
		case token.GT:
			depth--
			if depth == 0 {
				return p.lex.TokenAt(i+1).Type == token.LPAREN
			}
		case token.IDENT, token.CONST, token.READONLY, token.NULL,
			token.COMMA, token.LBRACKET, token.RBRACKET, token.BIT_OR:
			// 类型文法允许的 token
		default:
			return false
		}
	}
	return false
}

// parseArrayLiteral 解析数组字面量
func (p *Parser) parseArrayLiteral() ast.Expression {
	lbracket := p.advance()

	var elements []ast.Expression
	for !p.panicMode && !p.check(token.RBRACKET) {
		elements = append(elements, p.parsePrecedence(PrecAssign-1))
		if !p.match(token.COMMA) {
			break
		}
	}

	rbracket := p.expect(token.RBRACKET)
	return p.arena.NewArrayLiteral(lbracket, elements, rbracket)
}

// parseObjectLiteral 解析对象字面量
func (p *Parser) parseObjectLiteral() ast.Expression {
	lbrace := p.advance()

	var props []*ast.ObjectProperty
	for !p.panicMode && !p.check(token.RBRACE) {
		if !p.checkAny(token.IDENT, token.STRING) {
			p.error("P0002", i18n.T(i18n.ErrExpectedIdent))
			break
		}
		key := p.advance()
		if p.match(token.COLON) {
			value := p.parsePrecedence(PrecAssign - 1)
			props = append(props, p.arena.NewObjectProperty(key, value, false))
		} else {
			props = append(props, p.arena.NewObjectProperty(key, nil, true))
		}
		if !p.match(token.COMMA) {
			break
		}
	}

	rbrace := p.expect(token.RBRACE)
	return p.arena.NewObjectLiteral(lbrace, props, rbrace)
}

// parseTemplateLiteral 解析模板字符串
//
// 词法器按 HEAD/MIDDLE/TAIL 切段交付；若回退解析把某个续段
// 截断成了普通 '}'，通过 ReScanTemplateToken 让词法器重建。
func (p *Parser) parseTemplateLiteral() ast.Expression {
	start := p.advance()
	headValue, _ := start.Value.(string)

	if start.Type == token.TEMPLATE_NO_SUB {
		return p.arena.NewTemplateLiteral(start, start, []string{headValue}, nil)
	}

	quasis := []string{headValue}
	var exprs []ast.Expression

	for !p.panicMode {
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		exprs = append(exprs, expr)

		if p.check(token.RBRACE) {
			p.lex.ReScanTemplateToken(p.current)
		}

		next := p.peek()
		switch next.Type {
		case token.TEMPLATE_MIDDLE:
			value, _ := next.Value.(string)
			quasis = append(quasis, value)
			p.advance()

		case token.TEMPLATE_TAIL:
			value, _ := next.Value.(string)
			quasis = append(quasis, value)
			end := p.advance()
			return p.arena.NewTemplateLiteral(start, end, quasis, exprs)

		default:
			p.error("P0001", i18n.T(i18n.ErrUnexpectedToken, next.Type.String()))
			return nil
		}
	}
	return nil
}

// ============================================================================
// 箭头函数
// ============================================================================

// parseGroupOrArrowFunc 区分分组表达式和箭头函数
//
// 前瞻到配对的 ')' 并检查下一个 token 是否为 '=>'；
// 前瞻产生的推测性 token 随后整体作废重扫。
func (p *Parser) parseGroupOrArrowFunc() ast.Expression {
	if p.isArrowFunction() {
		return p.parseArrowFunc()
	}

	p.advance() // (
	expr := p.parseExpression()
	p.expect(token.RPAREN)
	return expr
}

// isArrowFunction 前瞻判定当前 '(' 是否开启箭头函数参数列表
func (p *Parser) isArrowFunction() bool {
	start := p.current
	depth := 0

	for i, n := p.current, 0; n < maxArrowLookahead; i, n = i+1, n+1 {
		t := p.lex.TokenAt(i)
		switch t.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				isArrow := p.lex.TokenAt(i+1).Type == token.ARROW
				p.lex.Rewind(start)
				return isArrow
			}
		case token.EOF:
			p.lex.Rewind(start)
			return false
		}
	}

	p.lex.Rewind(start)
	return false
}

// parseArrowFunc 解析箭头函数
//
//	(a, b: number) => a + b
//	() => { return 1; }
func (p *Parser) parseArrowFunc() ast.Expression {
	lparen := p.advance() // (
	params := p.parseParameterList()
	p.expect(token.RPAREN)
	arrow := p.expect(token.ARROW)

	var body ast.Node
	if p.check(token.LBRACE) {
		body = p.parseBlockStmt()
	} else {
		body = p.parsePrecedence(PrecAssign - 1)
	}

	return p.arena.NewArrowFuncExpr(lparen, params, arrow, body)
}

// ============================================================================
// 标记解析
// ============================================================================

// parseMarkupElement 解析标记元素
//
//	<div class="x" onClick={f}>...</div>
//	<Widget {...props} />
//
// 标签名首字母大小写决定是原生元素还是组件引用，
// 组件引用产出独立的 ComponentRef 节点。闭合标签名必须与打开标签一致。
func (p *Parser) parseMarkupElement() ast.Expression {
	tagOpen := p.advance() // <
	tagName := p.consume(token.IDENT, "P0002", i18n.T(i18n.ErrExpectedTagName))
	elem := p.arena.NewMarkupElement(tagOpen, tagName)

	// 属性
	for !p.panicMode {
		if p.check(token.IDENT) {
			name := p.advance()
			var value ast.Expression
			if p.match(token.ASSIGN) {
				value = p.parseAttributeValue()
			}
			elem.Attributes = append(elem.Attributes, p.arena.NewMarkupAttribute(name, value))
			continue
		}
		if p.check(token.LBRACE) {
			// 展开属性 {...props}
			p.advance()
			ellipsis := p.expect(token.ELLIPSIS)
			arg := p.parseExpression()
			p.expect(token.RBRACE)
			elem.Attributes = append(elem.Attributes,
				p.arena.NewMarkupSpreadAttribute(p.arena.NewSpreadExpr(ellipsis, arg)))
			continue
		}
		break
	}

	// 自闭合
	if p.check(token.TAG_SELF_CLOSE) {
		elem.SelfClose = true
		elem.TagEnd = p.advance()
		if elem.IsComponentRef() {
			return p.arena.NewComponentRef(elem)
		}
		return elem
	}

	p.expect(token.TAG_END)

	// 子节点
	for !p.panicMode && !p.check(token.TAG_CLOSE_OPEN) && !p.isAtEnd() {
		switch p.peek().Type {
		case token.MARKUP_TEXT:
			elem.Children = append(elem.Children, p.arena.NewMarkupText(p.advance()))

		case token.SIGNAL_BINDING:
			elem.Children = append(elem.Children, p.arena.NewSignalBindingExpr(p.advance()))

		case token.TAG_OPEN:
			elem.Children = append(elem.Children, p.parseMarkupElement())

		case token.LBRACE:
			p.advance()
			expr := p.parseExpression()
			p.expect(token.RBRACE)
			if expr != nil {
				elem.Children = append(elem.Children, expr)
			}

		default:
			p.error("P0001", i18n.T(i18n.ErrUnexpectedToken, p.peek().Type.String()))
		}
	}

	// 闭合标签
	p.expect(token.TAG_CLOSE_OPEN)
	closeName := p.consume(token.IDENT, "P0002", i18n.T(i18n.ErrExpectedTagName))
	if !p.panicMode && closeName.Literal != tagName.Literal {
		p.errorAt(closeName.Pos, "P0003",
			i18n.T(i18n.ErrMismatchedCloseTag, tagName.Literal, closeName.Literal))
	}
	elem.CloseName = closeName
	elem.TagEnd = p.expect(token.TAG_END)
	if elem.IsComponentRef() {
		return p.arena.NewComponentRef(elem)
	}
	return elem
}

// parseAttributeValue 解析属性值：字符串字面量或 {表达式}
func (p *Parser) parseAttributeValue() ast.Expression {
	switch p.peek().Type {
	case token.STRING:
		tok := p.advance()
		value, _ := tok.Value.(string)
		return p.arena.NewStringLiteral(tok, value)

	case token.LBRACE:
		p.advance()
		expr := p.parseExpression()
		p.expect(token.RBRACE)
		return expr

	default:
		p.error("P0002", i18n.T(i18n.ErrExpectedAttrValue))
		return nil
	}
}
