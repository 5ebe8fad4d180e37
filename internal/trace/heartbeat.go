package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a periodic event carrying the number of spans still open.
// A trace whose heartbeats keep coming while the open count stays put points
// at a stuck rule or file.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat returns nil when tracing is off or every is not positive.
func StartHeartbeat(t Tracer, every time.Duration) *Heartbeat {
	if t == nil || t.Level() == LevelOff || every <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.loop(t, every)
	return h
}

func (h *Heartbeat) loop(t Tracer, every time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	beat := 0
	for {
		select {
		case now := <-ticker.C:
			beat++
			t.Emit(Event{
				At:    now,
				Kind:  KindHeartbeat,
				Scope: ScopeDriver,
				Name:  "heartbeat",
				Attrs: []Attr{
					{Key: "beat", Value: strconv.Itoa(beat)},
					{Key: "open_spans", Value: strconv.FormatInt(openSpans.Load(), 10)},
				},
			})
		case <-h.stop:
			return
		}
	}
}

// Stop ends the loop and waits for it. Safe on nil and safe to repeat.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
