package parser

import (
	"swiftstyle/internal/token"
)

// Таблица приоритетов для бинарных операторов.
// Чем больше число, тем выше приоритет. Группы повторяют стандартные
// precedencegroup из Swift.
const (
	precAssignment     = 1  // = += -= ...
	precTernary        = 2  // ?:
	precDisjunction    = 3  // ||
	precConjunction    = 4  // &&
	precComparison     = 5  // == != < <= > >= === !==
	precNilCoalescing  = 6  // ??
	precCasting        = 7  // as as? as! is
	precRangeFormation = 8  // ... ..<
	precAddition       = 9  // + - | ^
	precMultiplication = 10 // * / % &
	precShift          = 11 // << >>
)

// binaryPrec returns the precedence and right-associativity of a binary
// operator token, or -1.
func binaryPrec(kind token.Kind) (int, bool) {
	switch kind {
	case token.Assign, token.PlusAssign, token.MinusAssign, token.StarAssign,
		token.SlashAssign, token.PercentAssign, token.AmpAssign, token.PipeAssign,
		token.CaretAssign, token.ShlAssign:
		return precAssignment, true
	case token.OrOr:
		return precDisjunction, false
	case token.AndAnd:
		return precConjunction, false
	case token.EqEq, token.EqEqEq, token.BangEq, token.BangEqEq,
		token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison, false
	case token.QQ:
		return precNilCoalescing, true
	case token.DotDotDot, token.DotDotLt:
		return precRangeFormation, false
	case token.Plus, token.Minus, token.Pipe, token.Caret:
		return precAddition, false
	case token.Star, token.Slash, token.Percent, token.Amp:
		return precMultiplication, false
	case token.Shl:
		return precShift, false
	default:
		return -1, false
	}
}

// isPrefixOp reports whether kind may start a prefix operator expression.
func isPrefixOp(kind token.Kind) bool {
	switch kind {
	case token.Bang, token.Minus, token.Plus, token.Tilde, token.Amp,
		token.DotDotDot, token.DotDotLt:
		return true
	default:
		return false
	}
}
