package ast

import (
	"slices"
	"strings"
)

// ModifierGroup classifies declaration modifiers for ordering checks.
type ModifierGroup uint8

const (
	ModGroupNone     ModifierGroup = iota
	ModGroupOverride   // override
	ModGroupAccess     // private, fileprivate, internal, public, open
	ModGroupSetter     // private(set) and friends
	ModGroupDynamic    // dynamic
	ModGroupTypeMember // static, class
	ModGroupFinal      // final
	ModGroupRequired   // required, convenience
	ModGroupMutation   // mutating, nonmutating
	ModGroupOwnership  // weak, unowned, lazy
	ModGroupOptional   // optional, indirect
	ModGroupIsolation  // nonisolated
)

// ModifierSpec describes a Swift declaration modifier.
type ModifierSpec struct {
	Name  string
	Group ModifierGroup
}

var modifierRegistry = map[string]ModifierSpec{
	"override":    {Name: "override", Group: ModGroupOverride},
	"private":     {Name: "private", Group: ModGroupAccess},
	"fileprivate": {Name: "fileprivate", Group: ModGroupAccess},
	"internal":    {Name: "internal", Group: ModGroupAccess},
	"public":      {Name: "public", Group: ModGroupAccess},
	"open":        {Name: "open", Group: ModGroupAccess},
	"dynamic":     {Name: "dynamic", Group: ModGroupDynamic},
	"static":      {Name: "static", Group: ModGroupTypeMember},
	"class":       {Name: "class", Group: ModGroupTypeMember},
	"final":       {Name: "final", Group: ModGroupFinal},
	"required":    {Name: "required", Group: ModGroupRequired},
	"convenience": {Name: "convenience", Group: ModGroupRequired},
	"mutating":    {Name: "mutating", Group: ModGroupMutation},
	"nonmutating": {Name: "nonmutating", Group: ModGroupMutation},
	"weak":        {Name: "weak", Group: ModGroupOwnership},
	"unowned":     {Name: "unowned", Group: ModGroupOwnership},
	"lazy":        {Name: "lazy", Group: ModGroupOwnership},
	"optional":    {Name: "optional", Group: ModGroupOptional},
	"indirect":    {Name: "indirect", Group: ModGroupOptional},
	"nonisolated": {Name: "nonisolated", Group: ModGroupIsolation},
	"prefix":      {Name: "prefix", Group: ModGroupNone},
	"postfix":     {Name: "postfix", Group: ModGroupNone},
	"infix":       {Name: "infix", Group: ModGroupNone},
}

// LookupModifier returns the spec for a modifier spelled name.
// Setter forms such as "private(set)" resolve to ModGroupSetter.
func LookupModifier(name string) (ModifierSpec, bool) {
	if base, ok := strings.CutSuffix(name, "(set)"); ok {
		if spec, ok := modifierRegistry[base]; ok && spec.Group == ModGroupAccess {
			return ModifierSpec{Name: name, Group: ModGroupSetter}, true
		}
		return ModifierSpec{}, false
	}
	spec, ok := modifierRegistry[name]
	return spec, ok
}

// IsModifier reports whether name is a declaration modifier.
func IsModifier(name string) bool {
	_, ok := modifierRegistry[name]
	return ok
}

// ModifierSpecs returns all known modifiers sorted by name.
func ModifierSpecs() []ModifierSpec {
	specs := make([]ModifierSpec, 0, len(modifierRegistry))
	for _, spec := range modifierRegistry {
		specs = append(specs, spec)
	}
	slices.SortFunc(specs, func(a, b ModifierSpec) int { return strings.Compare(a.Name, b.Name) })
	return specs
}
