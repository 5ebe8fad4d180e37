package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/lexer"
	"swiftstyle/internal/parser"
	"swiftstyle/internal/rule"
	"swiftstyle/internal/rules"
	"swiftstyle/internal/source"
)

func parseUnit(t *testing.T, src string) *rule.Unit {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("engine.swift", []byte(src)))
	toks, err := lexer.All(file, lexer.Options{})
	require.NoError(t, err)
	tree, err := parser.ParseFile(context.Background(), file, toks, parser.Options{})
	require.NoError(t, err)
	return rule.NewUnit(tree)
}

// subset builds a registry holding only the named built-in rules.
func subset(t *testing.T, ids ...string) *rule.Registry {
	t.Helper()
	builtin := rules.NewRegistry()
	picked := make([]*rule.Rule, 0, len(ids))
	for _, id := range ids {
		rl, ok := builtin.Lookup(id)
		require.True(t, ok, "unknown rule %s", id)
		picked = append(picked, rl)
	}
	reg, err := rule.NewRegistry(picked...)
	require.NoError(t, err)
	return reg
}

// located renders findings as "rule@line" for compact comparison.
func located(unit *rule.Unit, diags []diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, fmt.Sprintf("%s@%d", d.Rule, unit.File.Position(d.Primary.Start).Line))
	}
	return out
}

const messySource = `import UIKit

class widget {
  var Count = 0;
  func update(_ animated: Bool) -> Void {
    if (Count > 0) {
      print(self.Count)
    }
  }
}
`

func TestEvaluateIsDeterministic(t *testing.T) {
	unit := parseUnit(t, messySource)
	reg := rules.NewRegistry()
	opts := Options{Registry: reg, Workers: 4}

	first := Evaluate(context.Background(), unit, reg.Defaults(), opts)
	second := Evaluate(context.Background(), unit, reg.Defaults(), opts)
	require.NotEmpty(t, first)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second evaluation differs (-first +second):\n%s", diff)
	}

	size := unit.File.Size()
	for i, d := range first {
		require.LessOrEqual(t, d.Primary.Start, d.Primary.End, "finding %d", i)
		require.LessOrEqual(t, d.Primary.End, size, "finding %d", i)
		if i > 0 {
			require.False(t, diag.Less(d, first[i-1]), "findings out of order at %d", i)
		}
	}
}

func TestEvaluateSingleWorkerMatchesParallel(t *testing.T) {
	unit := parseUnit(t, messySource)
	reg := rules.NewRegistry()

	serial := Evaluate(context.Background(), unit, reg.Defaults(), Options{Registry: reg, Workers: 1})
	parallel := Evaluate(context.Background(), unit, reg.Defaults(), Options{Registry: reg, Workers: 8})
	if diff := cmp.Diff(serial, parallel); diff != "" {
		t.Fatalf("worker count changed the result (-serial +parallel):\n%s", diff)
	}
}

func TestDisabledRuleNeverReports(t *testing.T) {
	unit := parseUnit(t, "let MAX_COUNT = 3;\n")
	reg := subset(t, "naming_case", "trailing_semicolon")

	settings := reg.Defaults()
	got := located(unit, Evaluate(context.Background(), unit, settings, Options{Registry: reg}))
	require.Equal(t, []string{"naming_case@1", "trailing_semicolon@1"}, got)

	st := settings["naming_case"]
	st.Enabled = false
	settings["naming_case"] = st
	got = located(unit, Evaluate(context.Background(), unit, settings, Options{Registry: reg}))
	require.Equal(t, []string{"trailing_semicolon@1"}, got)
}

func TestSeverityOverride(t *testing.T) {
	unit := parseUnit(t, "let MAX_COUNT = 3\n")
	reg := subset(t, "naming_case")
	settings := reg.Defaults()
	st := settings["naming_case"]
	st.Severity = diag.SevInfo
	settings["naming_case"] = st

	got := Evaluate(context.Background(), unit, settings, Options{Registry: reg})
	require.Len(t, got, 1)
	require.Equal(t, diag.SevInfo, got[0].Severity)
	require.Equal(t, diag.StyNamingCase, got[0].Code)
}

func TestPanickingRuleIsIsolated(t *testing.T) {
	unit := parseUnit(t, "let a = 1;\n")
	semicolon, ok := rules.NewRegistry().Lookup("trailing_semicolon")
	require.True(t, ok)
	boom := &rule.Rule{
		ID:          "boom",
		Code:        diag.Code(3099),
		Description: "always panics",
		Severity:    diag.SevWarning,
		Check: func(*rule.Pass) {
			panic("kaboom")
		},
	}
	reg, err := rule.NewRegistry(semicolon, boom)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.ErrorLevel)
	got := Evaluate(context.Background(), unit, reg.Defaults(), Options{
		Registry: reg,
		Logger:   zap.New(core),
	})

	require.Len(t, got, 2)
	var internal, findings int
	for _, d := range got {
		switch {
		case d.Code == diag.RuleInternalError:
			internal++
			require.Equal(t, "boom", d.Rule)
			require.Contains(t, d.Message, "kaboom")
			require.False(t, d.IsFinding())
		case d.Rule == "trailing_semicolon":
			findings++
		}
	}
	require.Equal(t, 1, internal)
	require.Equal(t, 1, findings)

	entries := logs.FilterMessage("rule panicked").All()
	require.Len(t, entries, 1)
	require.Equal(t, "boom", entries[0].ContextMap()["rule"])
}

func TestEvaluateCancelled(t *testing.T) {
	unit := parseUnit(t, "let a = 1;\n")
	reg := rules.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := Evaluate(ctx, unit, reg.Defaults(), Options{Registry: reg})
	require.Empty(t, got)
}
