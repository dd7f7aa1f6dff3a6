package i18n

var messagesEN = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:       "unexpected character '%c'",
	ErrUnterminatedComment:  "unterminated block comment",
	ErrUnterminatedString:   "unterminated string",
	ErrUnterminatedTemplate: "unterminated template literal",
	ErrUnterminatedMarkup:   "unterminated markup: missing closing tag",
	ErrUnterminatedTag:      "unterminated markup tag",
	ErrMalformedSignal:      "malformed signal binding: expected $(name)",
	ErrInvalidHexNumber:     "invalid hex number: %s",
	ErrInvalidBinaryNumber:  "invalid binary number: %s",
	ErrInvalidExponent:      "invalid number: expected exponent",
	ErrInvalidFloat:         "invalid float number: %s",
	ErrInvalidInteger:       "invalid integer: %s",
	ErrUnexpectedDoubleDot:  "unexpected '..'",
	ErrModeStackUnderflow:   "internal: scanning mode stack underflow",
	ErrBadReScan:            "internal: re-scan requested behind committed tokens",

	// ========== Parser ==========
	ErrExpectedToken:       "expected %s",
	ErrUnexpectedToken:     "unexpected token: %s",
	ErrExpectedExpression:  "expected expression",
	ErrExpectedType:        "expected type",
	ErrExpectedIdent:       "expected identifier",
	ErrExpectedTagName:     "expected tag name after '<'",
	ErrMismatchedCloseTag:  "mismatched closing tag: expected </%s> but found </%s>",
	ErrExpectedAttrValue:   "expected attribute value: string literal or {expression}",
	ErrInvalidAssignTarget: "invalid assignment target",
	ErrExpectedParamName:   "expected parameter name",
	ErrExpectedImportFrom:  "expected 'from' after import specifiers",
	ErrExpectedModulePath:  "expected module path string",
	ErrTooManyErrors:       "too many errors, aborting",
	ErrExprTooDeep:         "expression nesting too deep",

	// ========== Analyzer ==========
	ErrUnknownNodeKind:    "unknown node kind: %s",
	ErrMissingOperand:     "missing %s operand in %s expression",
	ErrInvalidASTShape:    "invalid AST: %s",
	ErrTooManyDiagnostics: "too many diagnostics, aborting analysis",
	ErrIterationCeiling:   "internal: analysis iteration ceiling exceeded at %s node in component '%s'",
	ErrDuplicateComponent: "component '%s' is already declared",
	ErrDuplicateVariable:  "variable '%s' is already declared in this scope",
}
