package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynExpectType         Code = 2003
	SynExpectExpression   Code = 2004
	SynUnclosedParen      Code = 2005
	SynUnclosedBrace      Code = 2006
	SynUnclosedBracket    Code = 2007
	SynExpectBody         Code = 2008
	SynUnexpectedTopLevel Code = 2009
	SynExpectElse         Code = 2010
	SynExpectIn           Code = 2011
	SynExpectPattern      Code = 2012
	SynTooDeep            Code = 2013

	// Стиль: один код на правило
	StyLineLength           Code = 3001
	StyIndentation          Code = 3002
	StyTrailingWhitespace   Code = 3003
	StyVerticalWhitespace   Code = 3004
	StyTrailingNewline      Code = 3005
	StyFileLength           Code = 3006
	StyTrailingSemicolon    Code = 3007
	StyCommaSpacing         Code = 3008
	StyColonSpacing         Code = 3009
	StyOperatorSpacing      Code = 3010
	StyOpeningBrace         Code = 3011
	StyNamingCase           Code = 3012
	StyForceUnwrap          Code = 3013
	StyBooleanParameter     Code = 3014
	StyExplicitSelf         Code = 3015
	StyVoidReturn           Code = 3016
	StyNestingDepth         Code = 3017
	StyModifierOrder        Code = 3018
	StyConditionParentheses Code = 3019
	StyShorthandType        Code = 3020
	StyPreferPrivate        Code = 3021

	// I/O
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002
	IOCacheError     Code = 4003

	// Конфигурация
	CfgUnknownRule   Code = 5001
	CfgBadSeverity   Code = 5002
	CfgUnknownParam  Code = 5003
	CfgBadParamType  Code = 5004
	CfgBadParamValue Code = 5005
	CfgBadGlob       Code = 5006
	CfgParseError    Code = 5007

	// Внутренние ошибки правил
	RuleInternalError Code = 6001
	RuleTimeout       Code = 6002
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexBadEscape:                "Invalid escape sequence",

	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynExpectIdentifier:   "Expected identifier",
	SynExpectType:         "Expected type",
	SynExpectExpression:   "Expected expression",
	SynUnclosedParen:      "Unclosed parenthesis",
	SynUnclosedBrace:      "Unclosed brace",
	SynUnclosedBracket:    "Unclosed bracket",
	SynExpectBody:         "Expected body",
	SynUnexpectedTopLevel: "Unexpected top-level construct",
	SynExpectElse:         "Expected 'else' after guard condition",
	SynExpectIn:           "Expected 'in'",
	SynExpectPattern:      "Expected pattern",
	SynTooDeep:            "Nesting too deep",

	StyLineLength:           "Line too long",
	StyIndentation:          "Inconsistent indentation",
	StyTrailingWhitespace:   "Trailing whitespace",
	StyVerticalWhitespace:   "Too many blank lines",
	StyTrailingNewline:      "File must end with a single newline",
	StyFileLength:           "File too long",
	StyTrailingSemicolon:    "Trailing semicolon",
	StyCommaSpacing:         "Comma spacing",
	StyColonSpacing:         "Colon spacing",
	StyOperatorSpacing:      "Operator spacing",
	StyOpeningBrace:         "Opening brace placement",
	StyNamingCase:           "Naming case",
	StyForceUnwrap:          "Force unwrap",
	StyBooleanParameter:     "Unlabelled boolean parameter",
	StyExplicitSelf:         "Redundant explicit self",
	StyVoidReturn:           "Redundant Void return type",
	StyNestingDepth:         "Nesting too deep",
	StyModifierOrder:        "Modifier order",
	StyConditionParentheses: "Redundant condition parentheses",
	StyShorthandType:        "Prefer shorthand type syntax",
	StyPreferPrivate:        "Prefer private over fileprivate",

	IOLoadFileError:  "I/O load file error",
	IOWriteFileError: "I/O write file error",
	IOCacheError:     "Result cache error",

	CfgUnknownRule:   "Unknown rule",
	CfgBadSeverity:   "Invalid severity",
	CfgUnknownParam:  "Unknown rule parameter",
	CfgBadParamType:  "Wrong parameter type",
	CfgBadParamValue: "Parameter value out of range",
	CfgBadGlob:       "Invalid glob pattern",
	CfgParseError:    "Malformed configuration file",

	RuleInternalError: "Rule failed internally",
	RuleTimeout:       "Rule cancelled",
}

// Category groups codes by the pipeline stage that produces them.
type Category uint8

const (
	CatUnknown Category = iota
	CatLex
	CatSyntax
	CatStyle
	CatIO
	CatConfig
	CatRule
)

func (c Code) Category() Category {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return CatLex
	case ic >= 2000 && ic < 3000:
		return CatSyntax
	case ic >= 3000 && ic < 4000:
		return CatStyle
	case ic >= 4000 && ic < 5000:
		return CatIO
	case ic >= 5000 && ic < 6000:
		return CatConfig
	case ic >= 6000 && ic < 7000:
		return CatRule
	}
	return CatUnknown
}

func (c Code) ID() string {
	switch c.Category() {
	case CatLex:
		return fmt.Sprintf("LEX%04d", int(c))
	case CatSyntax:
		return fmt.Sprintf("SYN%04d", int(c))
	case CatStyle:
		return fmt.Sprintf("STY%04d", int(c))
	case CatIO:
		return fmt.Sprintf("IO%04d", int(c))
	case CatConfig:
		return fmt.Sprintf("CFG%04d", int(c))
	case CatRule:
		return fmt.Sprintf("RUL%04d", int(c))
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// IsTooling reports whether the code signals a tool failure rather than a
// style finding.
func (c Code) IsTooling() bool {
	return c.Category() != CatStyle
}
