package trace

import (
	"errors"
	"io"
	"sync"

	"go.uber.org/zap/zapcore"
)

type nopTracer struct{}

func (nopTracer) Emit(Event)   {}
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Flush() error { return nil }
func (nopTracer) Close() error { return nil }

// Nop drops every event.
var Nop Tracer = nopTracer{}

func accepts(l Level, ev *Event) bool {
	return ev.Kind == KindHeartbeat || l.Covers(ev.Scope)
}

// streamTracer writes each event as soon as it is emitted. The first write
// error is kept and reported by Flush; later events are dropped.
type streamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	enc    zapcore.Encoder
	level  Level
	seq    uint64
	err    error
}

func newStream(w io.Writer, closer io.Closer, level Level, format Format) *streamTracer {
	return &streamTracer{w: w, closer: closer, enc: newEncoder(format), level: level}
}

func (t *streamTracer) Emit(ev Event) {
	if !accepts(t.level, &ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return
	}
	t.seq++
	ev.Seq = t.seq
	data, err := encodeEvent(t.enc, ev)
	if err == nil {
		_, err = t.w.Write(data)
	}
	t.err = err
}

func (t *streamTracer) Level() Level { return t.level }

func (t *streamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	if s, ok := t.w.(interface{ Sync() error }); ok && t.closer != nil {
		return s.Sync()
	}
	return nil
}

func (t *streamTracer) Close() error {
	err := t.Flush()
	if t.closer != nil {
		err = errors.Join(err, t.closer.Close())
	}
	return err
}

// ringTracer keeps the most recent events in memory and writes them out on Close.
type ringTracer struct {
	mu     sync.Mutex
	buf    []Event
	next   int
	full   bool
	seq    uint64
	level  Level
	out    io.Writer
	closer io.Closer
	format Format
}

func newRing(size int, level Level, out io.Writer, closer io.Closer, format Format) *ringTracer {
	return &ringTracer{buf: make([]Event, size), level: level, out: out, closer: closer, format: format}
}

func (t *ringTracer) Emit(ev Event) {
	if !accepts(t.level, &ev) {
		return
	}
	t.mu.Lock()
	t.seq++
	ev.Seq = t.seq
	t.buf[t.next] = ev
	t.next++
	if t.next == len(t.buf) {
		t.next = 0
		t.full = true
	}
	t.mu.Unlock()
}

// Events returns the retained events, oldest first.
func (t *ringTracer) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return append([]Event(nil), t.buf[:t.next]...)
	}
	out := make([]Event, 0, len(t.buf))
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}

func (t *ringTracer) Level() Level { return t.level }

func (t *ringTracer) Flush() error { return nil }

func (t *ringTracer) Close() error {
	var err error
	if t.out != nil {
		enc := newEncoder(t.format)
		for _, ev := range t.Events() {
			data, encErr := encodeEvent(enc, ev)
			if encErr != nil {
				err = encErr
				break
			}
			if _, err = t.out.Write(data); err != nil {
				break
			}
		}
		t.out = nil
	}
	if t.closer != nil {
		err = errors.Join(err, t.closer.Close())
		t.closer = nil
	}
	return err
}
