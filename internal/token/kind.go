package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token, including `quoted` and $0 forms.
	Ident

	// declaration keywords
	KwAssociatedtype
	KwClass
	KwDeinit
	KwEnum
	KwExtension
	KwFileprivate
	KwFunc
	KwImport
	KwInit
	KwInout
	KwInternal
	KwLet
	KwOpen
	KwOperator
	KwPrivate
	KwProtocol
	KwPublic
	KwStatic
	KwStruct
	KwSubscript
	KwTypealias
	KwVar

	// statement keywords
	KwBreak
	KwCase
	KwCatch
	KwContinue
	KwDefault
	KwDefer
	KwDo
	KwElse
	KwFallthrough
	KwFor
	KwGuard
	KwIf
	KwIn
	KwRepeat
	KwReturn
	KwSwitch
	KwThrow
	KwWhere
	KwWhile

	// expression and type keywords
	KwAny
	KwAs
	KwFalse
	KwIs
	KwNil
	KwRethrows
	KwSelf
	KwSelfType // Self
	KwSuper
	KwThrows
	KwTrue
	KwTry

	IntLit
	FloatLit
	StringLit // "...", """...""" and #"..."# forms

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	EqEq          // ==
	EqEqEq        // ===
	Bang          // !
	BangEq        // !=
	BangEqEq      // !==
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	Shl           // <<
	Amp           // &
	Pipe          // |
	Caret         // ^
	Tilde         // ~
	AndAnd        // &&
	OrOr          // ||
	Question      // ?
	QQ            // ??
	Colon         // :
	Semicolon     // ;
	Comma         // ,
	Dot           // .
	DotDotDot     // ...
	DotDotLt      // ..<
	Arrow         // ->
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]
	At            // @
	Hash          // #
	Backslash     // \ (key paths)
	Underscore    // _

	kindCount
)

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF", Ident: "Ident",
	IntLit: "IntLit", FloatLit: "FloatLit", StringLit: "StringLit",
}

// String returns the keyword or operator spelling, or a descriptive name.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	if s, ok := spellings[k]; ok {
		return s
	}
	return "Kind(?)"
}
