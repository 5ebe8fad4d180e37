package trace

import "time"

// Kind tells what an event marks.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindHeartbeat
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindHeartbeat:
		return "heartbeat"
	}
	return "unknown"
}

// Scope is the granularity of a span. Coarser scopes have smaller values.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // whole run: discovery, lint, report
	ScopePass                    // read, lex, parse, rules, aggregate
	ScopeFile                    // one source file
	ScopeRule                    // одно правило над одним файлом
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeFile:
		return "file"
	case ScopeRule:
		return "rule"
	}
	return "unknown"
}

// Attr is one key/value pair attached to the end of a span.
type Attr struct {
	Key   string
	Value string
}

// Event is a single trace record.
type Event struct {
	At       time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string        // stage name, file path or rule id
	Status   string        // set on end events: "", "ok", "cancelled", ...
	Elapsed  time.Duration // set on end events
	Attrs    []Attr
}
