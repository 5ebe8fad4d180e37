package rules

import (
	"swiftstyle/internal/rule"
)

// All returns the built-in rules in table order. Every call builds fresh
// values, so callers may adjust them freely.
func All() []*rule.Rule {
	return []*rule.Rule{
		lineLength(),
		indentation(),
		trailingWhitespace(),
		verticalWhitespace(),
		trailingNewline(),
		fileLength(),
		trailingSemicolon(),
		commaSpacing(),
		colonSpacing(),
		operatorSpacing(),
		openingBrace(),
		namingCase(),
		forceUnwrap(),
		booleanParameter(),
		explicitSelf(),
		voidReturn(),
		nestingDepth(),
		modifierOrder(),
		conditionParentheses(),
		shorthandType(),
		preferPrivate(),
	}
}

// NewRegistry returns a registry holding the built-in table.
func NewRegistry() *rule.Registry {
	reg, err := rule.NewRegistry(All()...)
	if err != nil {
		// таблица статична: дубликат — ошибка программиста
		panic(err)
	}
	return reg
}
