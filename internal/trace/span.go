package trace

import (
	"sync/atomic"
	"time"
)

var (
	lastSpanID atomic.Uint64
	openSpans  atomic.Int64
)

// Span is an open interval on a tracer. A nil *Span is valid and inert,
// which is what Begin returns when the scope is filtered out.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
	ended   bool
}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Level().Covers(scope) {
		return nil
	}
	s := &Span{
		tracer:  t,
		id:      lastSpanID.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	openSpans.Add(1)
	t.Emit(Event{
		At:       s.started,
		Kind:     KindBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: parent,
		Name:     name,
	})
	return s
}

// WithExtra attaches a key/value pair reported with the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s != nil {
		s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	}
	return s
}

// End closes the span once; later calls are no-ops.
func (s *Span) End(status string) time.Duration {
	if s == nil || s.ended {
		return 0
	}
	s.ended = true
	openSpans.Add(-1)
	now := time.Now()
	elapsed := now.Sub(s.started)
	s.tracer.Emit(Event{
		At:       now,
		Kind:     KindEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Status:   status,
		Elapsed:  elapsed,
		Attrs:    s.attrs,
	})
	return elapsed
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
