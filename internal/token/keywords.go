package token

var keywords = map[string]Kind{
	"associatedtype": KwAssociatedtype,
	"class":          KwClass,
	"deinit":         KwDeinit,
	"enum":           KwEnum,
	"extension":      KwExtension,
	"fileprivate":    KwFileprivate,
	"func":           KwFunc,
	"import":         KwImport,
	"init":           KwInit,
	"inout":          KwInout,
	"internal":       KwInternal,
	"let":            KwLet,
	"open":           KwOpen,
	"operator":       KwOperator,
	"private":        KwPrivate,
	"protocol":       KwProtocol,
	"public":         KwPublic,
	"static":         KwStatic,
	"struct":         KwStruct,
	"subscript":      KwSubscript,
	"typealias":      KwTypealias,
	"var":            KwVar,

	"break":       KwBreak,
	"case":        KwCase,
	"catch":       KwCatch,
	"continue":    KwContinue,
	"default":     KwDefault,
	"defer":       KwDefer,
	"do":          KwDo,
	"else":        KwElse,
	"fallthrough": KwFallthrough,
	"for":         KwFor,
	"guard":       KwGuard,
	"if":          KwIf,
	"in":          KwIn,
	"repeat":      KwRepeat,
	"return":      KwReturn,
	"switch":      KwSwitch,
	"throw":       KwThrow,
	"where":       KwWhere,
	"while":       KwWhile,

	"Any":      KwAny,
	"as":       KwAs,
	"false":    KwFalse,
	"is":       KwIs,
	"nil":      KwNil,
	"rethrows": KwRethrows,
	"self":     KwSelf,
	"Self":     KwSelfType,
	"super":    KwSuper,
	"throws":   KwThrows,
	"true":     KwTrue,
	"try":      KwTry,
}

// spellings maps keyword and punctuation kinds back to their source text.
var spellings = func() map[Kind]string {
	m := map[Kind]string{
		Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
		Assign: "=", PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=",
		SlashAssign: "/=", PercentAssign: "%=", AmpAssign: "&=", PipeAssign: "|=",
		CaretAssign: "^=", ShlAssign: "<<=",
		EqEq: "==", EqEqEq: "===", Bang: "!", BangEq: "!=", BangEqEq: "!==",
		Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=", Shl: "<<",
		Amp: "&", Pipe: "|", Caret: "^", Tilde: "~", AndAnd: "&&", OrOr: "||",
		Question: "?", QQ: "??", Colon: ":", Semicolon: ";", Comma: ",",
		Dot: ".", DotDotDot: "...", DotDotLt: "..<", Arrow: "->",
		LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
		At: "@", Hash: "#", Backslash: "\\", Underscore: "_",
	}
	for text, k := range keywords {
		m[k] = text
	}
	return m
}()

// LookupKeyword reports the keyword kind for ident.
// Keywords are case-sensitive ("Self" and "self" differ).
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
