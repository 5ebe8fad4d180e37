package ast

import (
	"testing"
)

func TestLookupModifier(t *testing.T) {
	spec, ok := LookupModifier("fileprivate")
	if !ok || spec.Group != ModGroupAccess {
		t.Fatalf("fileprivate: %+v, %v", spec, ok)
	}
	setter, ok := LookupModifier("private(set)")
	if !ok || setter.Group != ModGroupSetter {
		t.Fatalf("private(set): %+v, %v", setter, ok)
	}
	if _, ok := LookupModifier("static(set)"); ok {
		t.Fatal("static(set) is not a setter modifier")
	}
	if _, ok := LookupModifier("Private"); ok {
		t.Fatal("modifiers are case-sensitive")
	}
}

func TestModifierSpecsSortedUnique(t *testing.T) {
	specs := ModifierSpecs()
	if len(specs) != len(modifierRegistry) {
		t.Fatalf("expected %d specs, got %d", len(modifierRegistry), len(specs))
	}
	for i := 1; i < len(specs); i++ {
		if specs[i-1].Name >= specs[i].Name {
			t.Fatalf("specs not sorted: %q before %q", specs[i-1].Name, specs[i].Name)
		}
	}
}
