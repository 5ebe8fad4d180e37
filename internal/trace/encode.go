package trace

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format is the on-disk shape of trace events.
type Format uint8

const (
	FormatText Format = iota
	FormatNDJSON
)

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl", ".json":
		return FormatNDJSON
	}
	return FormatText
}

// newEncoder reuses zap's entry encoders: the scope goes in the logger-name
// slot and the span name in the message slot.
func newEncoder(f Format) zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		NameKey:        "scope",
		MessageKey:     "name",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	if f == FormatNDJSON {
		cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	return zapcore.NewConsoleEncoder(cfg)
}

func encodeEvent(enc zapcore.Encoder, ev Event) ([]byte, error) {
	fields := make([]zapcore.Field, 0, 6+len(ev.Attrs))
	fields = append(fields,
		zap.String("kind", ev.Kind.String()),
		zap.Uint64("seq", ev.Seq),
	)
	if ev.SpanID != 0 {
		fields = append(fields, zap.Uint64("span", ev.SpanID))
	}
	if ev.ParentID != 0 {
		fields = append(fields, zap.Uint64("parent", ev.ParentID))
	}
	if ev.Kind == KindEnd {
		fields = append(fields, zap.Duration("elapsed", ev.Elapsed))
	}
	if ev.Status != "" {
		fields = append(fields, zap.String("status", ev.Status))
	}
	for _, a := range ev.Attrs {
		fields = append(fields, zap.String(a.Key, a.Value))
	}

	entry := zapcore.Entry{Time: ev.At, LoggerName: ev.Scope.String(), Message: ev.Name}
	buf, err := enc.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	out := append([]byte(nil), buf.Bytes()...)
	buf.Free()
	return out, nil
}
