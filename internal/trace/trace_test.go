package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "phase", "file", "rule"} {
		l, err := ParseLevel(strings.ToUpper(name))
		require.NoError(t, err)
		require.Equal(t, name, l.String())
	}
	_, err := ParseLevel("verbose")
	require.Error(t, err)
}

func TestLevelCovers(t *testing.T) {
	require.False(t, LevelOff.Covers(ScopeDriver))
	require.True(t, LevelPhase.Covers(ScopePass))
	require.False(t, LevelPhase.Covers(ScopeFile))
	require.True(t, LevelFile.Covers(ScopeFile))
	require.False(t, LevelFile.Covers(ScopeRule))
	require.True(t, LevelRule.Covers(ScopeRule))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("RING")
	require.NoError(t, err)
	require.Equal(t, ModeRing, m)
	m, err = ParseMode("")
	require.NoError(t, err)
	require.Equal(t, ModeStream, m)
	_, err = ParseMode("both")
	require.Error(t, err)
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	require.Equal(t, Nop, tr)
	require.Nil(t, Begin(tr, ScopeDriver, "lint", 0))
}

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(data), []byte("\n")) {
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m), "line %q", line)
		out = append(out, m)
	}
	return out
}

func TestStreamNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	tr, err := New(Config{Level: LevelFile, Mode: ModeStream, OutputPath: path})
	require.NoError(t, err)

	run := Begin(tr, ScopeDriver, "lint", 0)
	file := Begin(tr, ScopeFile, "Sources/App.swift", run.ID())
	require.Nil(t, Begin(tr, ScopeRule, "line_length", file.ID()))
	file.WithExtra("diagnostics", "2").End("ok")
	run.End("")
	require.NoError(t, tr.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	events := decodeLines(t, data)
	require.Len(t, events, 4)

	require.Equal(t, "begin", events[0]["kind"])
	require.Equal(t, "driver", events[0]["scope"])
	require.Equal(t, "lint", events[0]["name"])

	end := events[2]
	require.Equal(t, "end", end["kind"])
	require.Equal(t, "file", end["scope"])
	require.Equal(t, "Sources/App.swift", end["name"])
	require.Equal(t, "ok", end["status"])
	require.Equal(t, "2", end["diagnostics"])
	require.EqualValues(t, run.ID(), end["parent"])
	require.EqualValues(t, 3, end["seq"])
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Output: &buf})
	require.NoError(t, err)

	Begin(tr, ScopePass, "parse", 0).End("")
	require.NoError(t, tr.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "pass")
	require.Contains(t, lines[0], "parse")
	require.Contains(t, lines[1], "elapsed")
}

func TestSpanEndOnce(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Output: &buf})
	require.NoError(t, err)

	s := Begin(tr, ScopePass, "rules", 0)
	s.End("")
	require.Zero(t, s.End("again"))
	require.Equal(t, 2, strings.Count(buf.String(), "\n"))

	var nilSpan *Span
	require.Nil(t, nilSpan.WithExtra("k", "v"))
	require.Zero(t, nilSpan.End(""))
	require.Zero(t, nilSpan.ID())
}

func TestRingKeepsTail(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelRule, Mode: ModeRing, RingSize: 3, Output: &buf})
	require.NoError(t, err)
	ring := tr.(*ringTracer)

	for _, name := range []string{"a", "b", "c", "d"} {
		Begin(tr, ScopeRule, name, 0)
	}
	events := ring.Events()
	require.Len(t, events, 3)
	require.Equal(t, "b", events[0].Name)
	require.Equal(t, "d", events[2].Name)
	require.Equal(t, uint64(4), events[2].Seq)

	require.Zero(t, buf.Len())
	require.NoError(t, tr.Close())
	require.Equal(t, 3, strings.Count(buf.String(), "\n"))
	require.NoError(t, tr.Close())
}

func TestContextPropagation(t *testing.T) {
	require.Equal(t, Nop, FromContext(context.Background()))
	require.Zero(t, CurrentSpan(context.Background()).SpanID)

	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Output: &buf})
	require.NoError(t, err)
	ctx := WithTracer(context.Background(), tr)
	ctx = WithSpanContext(ctx, SpanContext{SpanID: 7})
	require.Equal(t, tr, FromContext(ctx))
	require.Equal(t, uint64(7), CurrentSpan(ctx).SpanID)
	require.Equal(t, Nop, FromContext(WithTracer(context.Background(), nil)))
}

func TestHeartbeat(t *testing.T) {
	defer goleak.VerifyNone(t)

	require.Nil(t, StartHeartbeat(Nop, time.Millisecond))

	var buf syncBuffer
	tr, err := New(Config{Level: LevelPhase, Output: &buf})
	require.NoError(t, err)
	h := StartHeartbeat(tr, time.Millisecond)
	require.NotNil(t, h)
	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "open_spans")
	}, time.Second, time.Millisecond)
	h.Stop()
	h.Stop()
}
