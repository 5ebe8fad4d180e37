package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives span events. Implementations must be safe for concurrent use.
type Tracer interface {
	Emit(ev Event)
	Level() Level
	Flush() error
	Close() error
}

// Mode selects where events go.
type Mode uint8

const (
	ModeStream Mode = iota + 1 // write every event as it happens
	ModeRing                   // keep the last RingSize events, write them on Close
)

func (m Mode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	}
	return "unknown"
}

// ParseMode accepts "stream" or "ring".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	}
	return 0, fmt.Errorf("invalid trace mode %q (expected stream|ring)", s)
}

const defaultRingSize = 4096

type Config struct {
	Level      Level
	Mode       Mode
	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "" or "-" means stderr; .ndjson/.jsonl/.json switch to NDJSON
	RingSize   int
}

// New builds a tracer for cfg. A LevelOff config yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	w, closer, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	format := formatFor(cfg.OutputPath)

	switch cfg.Mode {
	case ModeStream, 0:
		return newStream(w, closer, cfg.Level, format), nil
	case ModeRing:
		size := cfg.RingSize
		if size <= 0 {
			size = defaultRingSize
		}
		return newRing(size, cfg.Level, w, closer, format), nil
	}
	if closer != nil {
		closer.Close()
	}
	return nil, fmt.Errorf("unknown trace mode %v", cfg.Mode)
}

func openOutput(cfg Config) (io.Writer, io.Closer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, f, nil
}
