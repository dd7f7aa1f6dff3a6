package i18n

import (
	"fmt"
	"sync"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// 全局语言设置
var (
	currentLang Language = LangEnglish
	mu          sync.RWMutex
)

// ============================================================================
// 消息 ID 常量
// ============================================================================
//
// 所有面向用户的诊断文案统一经过 i18n 查表，
// lexer/parser/analyzer 内部只持有消息 ID。
//
// ============================================================================

const (
	// ========== Lexer ==========
	ErrUnexpectedChar       = "lexer.unexpected_char"
	ErrUnterminatedComment  = "lexer.unterminated_comment"
	ErrUnterminatedString   = "lexer.unterminated_string"
	ErrUnterminatedTemplate = "lexer.unterminated_template"
	ErrUnterminatedMarkup   = "lexer.unterminated_markup"
	ErrUnterminatedTag      = "lexer.unterminated_tag"
	ErrMalformedSignal      = "lexer.malformed_signal"
	ErrInvalidHexNumber     = "lexer.invalid_hex"
	ErrInvalidBinaryNumber  = "lexer.invalid_binary"
	ErrInvalidExponent      = "lexer.invalid_exponent"
	ErrInvalidFloat         = "lexer.invalid_float"
	ErrInvalidInteger       = "lexer.invalid_integer"
	ErrUnexpectedDoubleDot  = "lexer.unexpected_double_dot"
	ErrModeStackUnderflow   = "lexer.mode_stack_underflow"
	ErrBadReScan            = "lexer.bad_rescan"

	// ========== Parser ==========
	ErrExpectedToken       = "parser.expected_token"
	ErrUnexpectedToken     = "parser.unexpected_token"
	ErrExpectedExpression  = "parser.expected_expression"
	ErrExpectedType        = "parser.expected_type"
	ErrExpectedIdent       = "parser.expected_ident"
	ErrExpectedTagName     = "parser.expected_tag_name"
	ErrMismatchedCloseTag  = "parser.mismatched_close_tag"
	ErrExpectedAttrValue   = "parser.expected_attr_value"
	ErrInvalidAssignTarget = "parser.invalid_assign_target"
	ErrExpectedParamName   = "parser.expected_param_name"
	ErrExpectedImportFrom  = "parser.expected_import_from"
	ErrExpectedModulePath  = "parser.expected_module_path"
	ErrTooManyErrors       = "parser.too_many_errors"
	ErrExprTooDeep         = "parser.expr_too_deep"

	// ========== Analyzer ==========
	ErrUnknownNodeKind     = "analyzer.unknown_node_kind"
	ErrMissingOperand      = "analyzer.missing_operand"
	ErrInvalidASTShape     = "analyzer.invalid_ast_shape"
	ErrTooManyDiagnostics  = "analyzer.too_many_diagnostics"
	ErrIterationCeiling    = "analyzer.iteration_ceiling"
	ErrDuplicateComponent  = "analyzer.duplicate_component"
	ErrDuplicateVariable   = "analyzer.duplicate_variable"
)

// SetLanguage 设置当前语言
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	currentLang = lang
}

// SetLanguageFromString 从字符串设置语言
func SetLanguageFromString(lang string) {
	switch lang {
	case "zh", "zh-cn", "zh-tw", "zh-hk", "chinese":
		SetLanguage(LangChinese)
	default:
		SetLanguage(LangEnglish)
	}
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

// T 翻译消息（支持格式化参数）
func T(msgID string, args ...interface{}) string {
	mu.RLock()
	lang := currentLang
	mu.RUnlock()

	var messages map[string]string
	switch lang {
	case LangChinese:
		messages = messagesZH
	default:
		messages = messagesEN
	}

	if msg, ok := messages[msgID]; ok {
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...)
		}
		return msg
	}

	// 回退到英文
	if msg, ok := messagesEN[msgID]; ok {
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...)
		}
		return msg
	}

	// 找不到翻译则返回原始 ID
	return msgID
}
