// Package trace records the lint pipeline as nested spans.
//
// A run opens a driver span, each stage of the pipeline a pass span, each
// analysed file a file span and each rule evaluated over a file a rule span.
// The level picked with --trace-level decides how deep the recording goes:
//
//	off    nothing
//	phase  driver and pass spans
//	file   plus one span per file
//	rule   plus one span per rule and file
//
// Events either stream straight to the output (text or NDJSON, chosen by the
// output file extension) or stay in a bounded ring that is written out when
// the tracer closes. The ring mode is meant for long watch sessions where only
// the last events before a hang matter.
//
// The tracer travels through the pipeline in the context:
//
//	ctx = trace.WithTracer(ctx, t)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", trace.CurrentSpan(ctx).SpanID)
//	defer span.End("")
package trace
