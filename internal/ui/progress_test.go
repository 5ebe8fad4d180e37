package ui

import (
	"strings"
	"testing"

	"swiftstyle/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("lint", []string{"A.swift", "B.swift"}, events).(*progressModel)

	m.Update(eventMsg(driver.Event{File: "A.swift", Stage: driver.StageParse, Status: driver.StatusWorking}))
	m.Update(eventMsg(driver.Event{File: "B.swift", Status: driver.StatusDone}))
	m.Update(eventMsg(driver.Event{File: "Unknown.swift", Status: driver.StatusDone}))

	view := m.View()
	if !strings.Contains(view, "parsing") || !strings.Contains(view, "A.swift") {
		t.Fatalf("active file missing from view:\n%s", view)
	}
	if strings.Contains(view, "B.swift") {
		t.Fatalf("finished file should only be counted:\n%s", view)
	}
	if !strings.Contains(view, "1/2 files") {
		t.Fatalf("expected 1/2 files in view:\n%s", view)
	}

	m.Update(eventMsg(driver.Event{File: "A.swift", Status: driver.StatusError}))
	view = m.View()
	if !strings.Contains(view, "error") || !strings.Contains(view, "2/2 files") {
		t.Fatalf("expected error line and 2/2 files:\n%s", view)
	}
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	events := make(chan driver.Event)
	close(events)
	m := NewProgressModel("lint", []string{"A.swift"}, events).(*progressModel)

	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("expected doneMsg, got %T", msg)
	}
	_, cmd := m.Update(msg)
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if !m.done || !strings.Contains(m.View(), "done: lint") {
		t.Fatalf("model not finished:\n%s", m.View())
	}
}

func TestProgressFraction(t *testing.T) {
	if progressFromStage(driver.StageRead) >= progressFromStage(driver.StageRules) {
		t.Fatalf("stages must advance the bar")
	}
	if got := statusLabel(driver.StageLex, driver.StatusWorking); got != "lexing" {
		t.Fatalf("statusLabel = %q", got)
	}
	if got := statusLabel(driver.StageLex, driver.StatusCached); got != "cached" {
		t.Fatalf("statusLabel = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.swift", 20, "short.swift"},
		{"Sources/App/VeryLongName.swift", 10, "Sour..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
