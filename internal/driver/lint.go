package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swiftstyle/internal/config"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/engine"
	"swiftstyle/internal/lexer"
	"swiftstyle/internal/observ"
	"swiftstyle/internal/parser"
	"swiftstyle/internal/report"
	"swiftstyle/internal/rule"
	"swiftstyle/internal/source"
	"swiftstyle/internal/trace"
)

// Options configure a lint run.
type Options struct {
	Registry *rule.Registry
	Settings rule.Settings
	Exclude  *config.Excluder
	BaseDir  string // base for relative paths in output; "" means the working directory

	Jobs           int // files in flight; 0 means GOMAXPROCS
	RuleWorkers    int // rules in flight per file; 0 means GOMAXPROCS
	MaxDiagnostics int // per file; 0 means unlimited
	FailFast       bool
	NoSuppressions bool

	Cache    *Cache
	Logger   *zap.Logger
	Progress ProgressSink
	Metrics  *observ.Metrics
	Timer    *observ.Timer
}

// Result is the outcome of a run: the files that were read and one
// FileResult per input path, in input order.
type Result struct {
	FileSet *source.FileSet
	Files   []report.FileResult
}

// errFailFast stops the pool after the first tooling diagnostic.
var errFailFast = errors.New("fail-fast: tooling error")

// Lint collects the Swift files under paths and lints them.
func Lint(ctx context.Context, paths []string, opts Options) (*Result, error) {
	return LintFiles(ctx, Collect(paths, opts.Exclude), opts)
}

// LintFiles lints the given files on a worker pool. Each file runs
// read -> lex -> parse -> rules -> aggregate independently; a tooling error in
// one file never affects another. Files abandoned because of cancellation
// are returned with Skipped set. The error is non-nil only when ctx itself
// was cancelled.
func LintFiles(ctx context.Context, files []string, opts Options) (*Result, error) {
	if opts.Registry == nil {
		return nil, errors.New("driver: nil rule registry")
	}
	if opts.Settings == nil {
		opts.Settings = opts.Registry.Defaults()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	baseDir := opts.BaseDir
	if baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			baseDir = wd
		}
	}
	fileSet := source.NewFileSetWithBase(baseDir)

	results := make([]report.FileResult, len(files))
	for i, path := range files {
		results[i] = report.FileResult{Path: path, Skipped: true}
	}
	if len(files) == 0 {
		return &Result{FileSet: fileSet, Files: results}, nil
	}

	started := time.Now()
	tracer := trace.FromContext(ctx)
	runSpan := trace.Begin(tracer, trace.ScopeDriver, "lint", trace.CurrentSpan(ctx).SpanID)
	ctx = withSpan(ctx, runSpan)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	logger.Debug("lint started", zap.Int("files", len(files)), zap.Int("jobs", jobs))
	emitQueued(opts.Progress, files)

	fingerprint := opts.Settings.Fingerprint()
	l := &linter{opts: opts, fs: fileSet, logger: logger, fingerprint: fingerprint}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			// Проверка отмены
			if gctx.Err() != nil {
				l.skipped(path)
				return nil
			}
			res, ok := l.lintFile(gctx, path)
			if !ok {
				l.skipped(path)
				return nil
			}
			// индекс уникален для горутины, мьютекс не нужен
			results[i] = res
			if opts.FailFast && res.Counts().Tooling > 0 {
				return errFailFast
			}
			return nil
		})
	}
	err := g.Wait()
	if err != nil && !errors.Is(err, errFailFast) {
		// горутины возвращают только errFailFast
		return nil, err
	}

	skipped := 0
	for i := range results {
		if results[i].Skipped {
			skipped++
		}
	}
	runSpan.WithExtra("files", strconv.Itoa(len(files))).WithExtra("skipped", strconv.Itoa(skipped)).End("")
	logger.Debug("lint finished", zap.Int("files", len(files)), zap.Int("skipped", skipped))
	opts.Metrics.ObserveRun(time.Since(started))

	res := &Result{FileSet: fileSet, Files: results}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}
	return res, nil
}

type linter struct {
	opts        Options
	fs          *source.FileSet
	logger      *zap.Logger
	fingerprint string
}

func (l *linter) skipped(path string) {
	emit(l.opts.Progress, Event{File: path, Status: StatusSkipped})
	l.opts.Metrics.ObserveFile(observ.FileSkipped, 0)
}

// lintFile runs the pipeline for one file. ok is false when the context was
// cancelled between stages; the partial result is then discarded.
func (l *linter) lintFile(ctx context.Context, path string) (report.FileResult, bool) {
	started := time.Now()
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, path, trace.CurrentSpan(ctx).SpanID)
	ctx = withSpan(ctx, span)
	res := report.FileResult{Path: path}

	finish := func(status Status, diags []diag.Diagnostic) (report.FileResult, bool) {
		res.Diagnostics, res.Dropped = l.limit(diags, res.Dropped)
		res.Duration = time.Since(started)
		span.WithExtra("diagnostics", strconv.Itoa(len(res.Diagnostics))).End(string(status))
		emit(l.opts.Progress, Event{File: path, Status: status, Elapsed: res.Duration})
		l.observe(&res, status)
		return res, true
	}
	abandon := func() (report.FileResult, bool) {
		span.End("cancelled")
		return report.FileResult{}, false
	}

	// read
	stage := l.stage(ctx, path, StageRead)
	content, err := readFile(path)
	stage.end()
	if err != nil {
		// пустой файл-заглушка, чтобы у диагностики была позиция
		res.FileID = l.fs.Add(path, nil, 0)
		l.logger.Warn("cannot read file", zap.String("file", path), zap.Error(err))
		d := diag.NewError(diag.IOLoadFileError, source.Span{File: res.FileID}, "failed to read file: "+err.Error())
		return finish(StatusError, []diag.Diagnostic{d})
	}
	res.FileID = l.fs.AddBytes(path, content)
	file := l.fs.Get(res.FileID)
	if ctx.Err() != nil {
		return abandon()
	}

	var key Digest
	if l.opts.Cache != nil {
		key = CacheKey(file, l.fingerprint)
		diags, dropped, hit, err := l.opts.Cache.Get(key, file.ID)
		switch {
		case err != nil:
			l.logger.Warn("cache read failed", zap.String("file", path), zap.Error(err))
		case hit:
			l.logger.Debug("cache hit", zap.String("file", path))
			res.Cached = true
			res.Dropped = dropped
			return finish(StatusCached, diags)
		}
	}

	// lex
	stage = l.stage(ctx, path, StageLex)
	toks, err := lexer.All(file, lexer.Options{})
	stage.end()
	if err != nil {
		return finish(StatusError, []diag.Diagnostic{toolingDiagnostic(err, file)})
	}
	if ctx.Err() != nil {
		return abandon()
	}

	// parse
	stage = l.stage(ctx, path, StageParse)
	tree, err := parser.ParseFile(ctx, file, toks, parser.Options{})
	stage.end()
	if err != nil {
		if ctx.Err() != nil {
			return abandon()
		}
		return finish(StatusError, []diag.Diagnostic{toolingDiagnostic(err, file)})
	}

	// rules
	stage = l.stage(ctx, path, StageRules)
	diags := engine.Evaluate(ctx, rule.NewUnit(tree), l.opts.Settings, engine.Options{
		Registry:       l.opts.Registry,
		Workers:        l.opts.RuleWorkers,
		Logger:         l.logger,
		NoSuppressions: l.opts.NoSuppressions,
	})
	stage.end()
	if ctx.Err() != nil {
		return abandon()
	}

	status := StatusDone
	for _, d := range diags {
		if d.Code.IsTooling() {
			status = StatusError
			break
		}
	}
	if l.opts.Cache != nil && status == StatusDone {
		if err := l.opts.Cache.Put(key, diags, 0); err != nil {
			l.logger.Warn("cache write failed", zap.String("file", path), zap.Error(err))
		}
	}
	return finish(status, diags)
}

// limit applies MaxDiagnostics through a bounded bag.
func (l *linter) limit(diags []diag.Diagnostic, dropped int) ([]diag.Diagnostic, int) {
	if l.opts.MaxDiagnostics <= 0 || len(diags) <= l.opts.MaxDiagnostics {
		return diags, dropped
	}
	bag := diag.NewBag(l.opts.MaxDiagnostics)
	for _, d := range diags {
		bag.Add(d)
	}
	return bag.Items(), dropped + bag.Dropped()
}

func (l *linter) observe(res *report.FileResult, status Status) {
	m := l.opts.Metrics
	if m == nil {
		return
	}
	outcome := observ.FileOK
	switch status {
	case StatusCached:
		outcome = observ.FileCached
	case StatusError:
		outcome = observ.FileTooling
	}
	m.ObserveFile(outcome, res.Duration)
	for _, d := range res.Diagnostics {
		if d.IsFinding() {
			m.ObserveFinding(d.Rule, d.Severity.Label())
		} else {
			m.ObserveTooling(d.Code.ID())
		}
	}
}

// withSpan makes span the parent of spans opened under ctx. Spans filtered out
// by the trace level leave the current parent in place.
func withSpan(ctx context.Context, span *trace.Span) context.Context {
	if span == nil {
		return ctx
	}
	return trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})
}

type stageTimer struct {
	l       *linter
	path    string
	stage   Stage
	span    *trace.Span
	started time.Time
}

func (l *linter) stage(ctx context.Context, path string, stage Stage) stageTimer {
	emit(l.opts.Progress, Event{File: path, Stage: stage, Status: StatusWorking})
	return stageTimer{
		l:       l,
		path:    path,
		stage:   stage,
		span:    trace.Begin(trace.FromContext(ctx), trace.ScopePass, string(stage), trace.CurrentSpan(ctx).SpanID),
		started: time.Now(),
	}
}

func (s stageTimer) end() {
	s.span.End("")
	s.l.opts.Timer.Add(string(s.stage), time.Since(s.started))
}

// readFile reads the whole file; the analysis pipeline never touches the
// file system after this.
func readFile(path string) ([]byte, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return content, nil
}

// toolingDiagnostic converts a lexer or parser error into the single tooling
// diagnostic of the file.
func toolingDiagnostic(err error, file *source.File) diag.Diagnostic {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return lexErr.Diagnostic()
	}
	var parseErr *parser.Error
	if errors.As(err, &parseErr) {
		return parseErr.Diagnostic()
	}
	return diag.NewError(diag.RuleInternalError, source.Span{File: file.ID}, err.Error())
}
