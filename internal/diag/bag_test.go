package diag

import (
	"testing"

	"swiftstyle/internal/source"
)

func finding(rule string, code Code, sev Severity, start, end uint32, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Rule:     rule,
		Message:  msg,
		Primary:  source.Span{File: 0, Start: start, End: end},
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	b.Add(finding("naming_case", StyNamingCase, SevError, 10, 14, "b"))
	b.Add(finding("line_length", StyLineLength, SevWarning, 0, 130, "a"))
	b.Add(finding("force_unwrap", StyForceUnwrap, SevWarning, 10, 11, "c"))
	b.Add(finding("naming_case", StyNamingCase, SevError, 10, 14, "b"))

	b.Dedup()
	b.Sort()

	if b.Len() != 3 {
		t.Fatalf("expected 3 items after dedup, got %d", b.Len())
	}
	want := []string{"line_length", "force_unwrap", "naming_case"}
	for i, d := range b.Items() {
		if d.Rule != want[i] {
			t.Fatalf("item %d: rule %q, want %q", i, d.Rule, want[i])
		}
	}
}

func TestBagDedupKeepsDifferentMessages(t *testing.T) {
	b := NewBag(0)
	b.Add(finding("naming_case", StyNamingCase, SevError, 1, 2, "x"))
	b.Add(finding("naming_case", StyNamingCase, SevError, 1, 2, "y"))
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("same span, different message must both survive, got %d", b.Len())
	}
}

func TestBagLimitAndCounts(t *testing.T) {
	b := NewBag(2)
	b.Add(finding("a", StyLineLength, SevWarning, 0, 1, ""))
	b.Add(Diagnostic{Severity: SevError, Code: SynUnexpectedToken})
	if b.Add(finding("b", StyNamingCase, SevError, 0, 1, "")) {
		t.Fatal("limit must reject third diagnostic")
	}
	if b.Dropped() != 1 {
		t.Fatalf("Dropped = %d", b.Dropped())
	}
	c := b.Count()
	if c.Warning != 1 || c.Error != 0 || c.Tooling != 1 {
		t.Fatalf("unexpected counts %+v", c)
	}
	if !b.HasTooling() {
		t.Fatal("HasTooling must see SYN diagnostic")
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexUnterminatedString: "LEX1002",
		SynUnexpectedToken:    "SYN2001",
		StyLineLength:         "STY3001",
		IOLoadFileError:       "IO4001",
		CfgUnknownRule:        "CFG5001",
		RuleInternalError:     "RUL6001",
	}
	for c, want := range cases {
		if got := c.ID(); got != want {
			t.Fatalf("ID() = %q, want %q", got, want)
		}
	}
	if StyNamingCase.IsTooling() || !RuleInternalError.IsTooling() {
		t.Fatal("IsTooling misclassifies codes")
	}
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{"Error": SevError, "warning": SevWarning, "INFO": SevInfo} {
		got, err := ParseSeverity(in)
		if err != nil || got != want {
			t.Fatalf("ParseSeverity(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Fatal("expected error for unknown severity")
	}
}
