package diag

import (
	"sort"
)

// Bag collects diagnostics for one file or one run. It is not safe for
// concurrent use; producers on several goroutines should guard it.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

// NewBag returns a bag holding at most max diagnostics. A max of zero or less
// means unlimited.
func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 64 {
		capHint = 64
	}
	return &Bag{
		items: make([]Diagnostic, 0, capHint),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Dropped reports how many diagnostics were rejected by the limit.
func (b *Bag) Dropped() int { return b.dropped }

// HasErrors reports whether any diagnostic has Severity >= Error.
func (b *Bag) HasErrors() bool {
	return b.HasAtLeast(SevError)
}

// HasAtLeast reports whether any diagnostic is at or above sev.
func (b *Bag) HasAtLeast(sev Severity) bool {
	for i := range b.items {
		if b.items[i].Severity >= sev {
			return true
		}
	}
	return false
}

// HasTooling reports whether the bag holds a non-finding diagnostic.
func (b *Bag) HasTooling() bool {
	for i := range b.items {
		if b.items[i].Code.IsTooling() {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// Не модифицируйте возвращаемый срез: он указывает на внутренний массив Bag.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends diagnostics from other, growing the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if b.max > 0 {
		if total := len(b.items) + len(other.items); total > b.max {
			b.max = total
		}
	}
	b.items = append(b.items, other.items...)
	b.dropped += other.dropped
}

// Sort orders diagnostics by file, start, end, rule id, code and message.
// Byte offset order matches (line, column) order within a file.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		return Less(b.items[i], b.items[j])
	})
}

// Less is the canonical diagnostic ordering used by Bag.Sort.
func Less(di, dj Diagnostic) bool {
	if di.Primary.File != dj.Primary.File {
		return di.Primary.File < dj.Primary.File
	}
	if di.Primary.Start != dj.Primary.Start {
		return di.Primary.Start < dj.Primary.Start
	}
	if di.Rule != dj.Rule {
		return di.Rule < dj.Rule
	}
	if di.Primary.End != dj.Primary.End {
		return di.Primary.End < dj.Primary.End
	}
	if di.Code != dj.Code {
		return di.Code < dj.Code
	}
	return di.Message < dj.Message
}

type dedupKey struct {
	code Code
	rule string
	span string
	msg  string
}

// Dedup drops exact duplicates: same rule, code, span and message.
// The first occurrence wins.
func (b *Bag) Dedup() {
	seen := make(map[dedupKey]struct{}, len(b.items))
	items := b.items[:0]
	for _, d := range b.items {
		key := dedupKey{code: d.Code, rule: d.Rule, span: d.Primary.String(), msg: d.Message}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, d)
	}
	b.items = items
}

// Filter keeps only diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	items := b.items[:0]
	for _, d := range b.items {
		if keep(d) {
			items = append(items, d)
		}
	}
	b.items = items
}

// Counts tallies diagnostics per severity.
type Counts struct {
	Info    int
	Warning int
	Error   int
	Tooling int
}

// Total returns the number of counted findings.
func (c Counts) Total() int { return c.Info + c.Warning + c.Error }

// Add merges other into c.
func (c *Counts) Add(other Counts) {
	c.Info += other.Info
	c.Warning += other.Warning
	c.Error += other.Error
	c.Tooling += other.Tooling
}

// Count returns the per-severity totals of findings and the number of
// tooling diagnostics. Tooling diagnostics are not counted as findings.
func (b *Bag) Count() Counts {
	var c Counts
	for _, d := range b.items {
		if d.Code.IsTooling() {
			c.Tooling++
			continue
		}
		switch d.Severity {
		case SevInfo:
			c.Info++
		case SevWarning:
			c.Warning++
		case SevError:
			c.Error++
		}
	}
	return c
}
