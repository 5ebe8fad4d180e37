package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerAccumulates(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("discover")
	timer.End(idx, "3 files")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer.Add("parse", time.Millisecond)
		}()
	}
	wg.Wait()

	rep := timer.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(rep.Phases))
	}
	parse := rep.Phases[1]
	if parse.Name != "parse" || parse.Count != 8 || parse.DurationMS != 8 {
		t.Fatalf("unexpected parse phase %+v", parse)
	}
	if rep.TotalMS != rep.Phases[0].DurationMS {
		t.Fatalf("total %.3f should only cover sequential phases", rep.TotalMS)
	}
	if s := timer.Summary(); !strings.Contains(s, "x8") || !strings.Contains(s, "// 3 files") {
		t.Fatalf("summary:\n%s", s)
	}
}

func TestTimerNil(t *testing.T) {
	var timer *Timer
	timer.End(timer.Begin("x"), "")
	timer.Add("y", time.Second)
	if rep := timer.Report(); len(rep.Phases) != 0 {
		t.Fatalf("nil timer reported phases")
	}
}
