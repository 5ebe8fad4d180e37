package engine

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/rule"
	"swiftstyle/internal/trace"
)

// Options tune a single evaluation.
type Options struct {
	Registry *rule.Registry
	Workers  int         // 0 means GOMAXPROCS
	Logger   *zap.Logger // nil means no logging
	// NoSuppressions ignores swiftstyle: comment directives.
	NoSuppressions bool
}

// Evaluate runs every enabled rule of opts.Registry over unit and returns the
// merged findings sorted by (offset, rule id) with exact duplicates removed.
// If ctx is cancelled, rules that have not started are skipped; callers must
// check ctx.Err() before trusting the result.
func Evaluate(ctx context.Context, unit *rule.Unit, settings rule.Settings, opts Options) []diag.Diagnostic {
	if unit == nil || opts.Registry == nil {
		return nil
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	enabled := make([]*rule.Rule, 0, opts.Registry.Len())
	for _, rl := range opts.Registry.All() {
		if settings.For(rl).Enabled {
			enabled = append(enabled, rl)
		}
	}
	if len(enabled) == 0 {
		return nil
	}

	bag := diag.NewBag(0)
	var sink diag.Reporter = diag.BagReporter{Bag: bag}
	if !opts.NoSuppressions {
		if supp := ParseSuppressions(unit.File, unit.Tokens); !supp.Empty() {
			sink = supp.Filter(sink)
		}
	}
	reporter := &diag.SyncReporter{Next: diag.NewDedupReporter(sink)}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(enabled)))
	for _, rl := range enabled {
		st := settings.For(rl)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			span := trace.Begin(tracer, trace.ScopeRule, rl.ID, parent)
			n := runRule(rl, unit, st, reporter, logger)
			span.WithExtra("findings", strconv.Itoa(n)).End("")
			return nil
		})
	}
	// ошибки здесь только от отмены контекста
	if err := g.Wait(); err != nil {
		logger.Debug("rule evaluation cancelled",
			zap.String("file", unit.File.Path),
			zap.Error(err))
	}

	bag.Sort()
	bag.Dedup()
	return bag.Items()
}

// runRule executes one rule, converting a panic into RUL6001. It returns the
// number of diagnostics the rule produced.
func runRule(rl *rule.Rule, unit *rule.Unit, st rule.Setting, next diag.Reporter, logger *zap.Logger) (n int) {
	counter := &countingReporter{next: next}
	defer func() {
		r := recover()
		if r == nil {
			n = counter.n
			return
		}
		logger.Error("rule panicked",
			zap.String("rule", rl.ID),
			zap.String("file", unit.File.Path),
			zap.Any("panic", r),
			zap.Stack("stack"))
		d := diag.NewError(diag.RuleInternalError, unit.Span(0, 0),
			fmt.Sprintf("rule %s failed: %v", rl.ID, r))
		d.Rule = rl.ID
		next.Report(d)
		n = counter.n + 1
	}()
	rl.Check(&rule.Pass{
		Rule:     rl,
		Unit:     unit,
		Severity: st.Severity,
		Params:   st.Params,
		Reporter: counter,
	})
	return counter.n
}

// countingReporter is owned by a single rule goroutine.
type countingReporter struct {
	next diag.Reporter
	n    int
}

func (r *countingReporter) Report(d diag.Diagnostic) {
	r.n++
	r.next.Report(d)
}
