package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"mercator-hq/tensorix/pkg/config"
	"mercator-hq/tensorix/pkg/notation"
	"mercator-hq/tensorix/pkg/notation/parser"
	"mercator-hq/tensorix/pkg/telemetry/logging"
	"mercator-hq/tensorix/pkg/telemetry/tracing"
	"mercator-hq/tensorix/pkg/tensor"
	"mercator-hq/tensorix/pkg/tensor/dense"
	"mercator-hq/tensorix/pkg/tensor/symbolic"
)

// Check statuses.
const (
	StatusPass  = "pass"
	StatusFail  = "fail"
	StatusError = "error"
)

// Result is the outcome of one check.
type Result struct {
	Suite      string               `json:"suite"`
	Check      string               `json:"check"`
	Notation   string               `json:"notation,omitempty"`
	Status     string               `json:"status"`
	Message    string               `json:"message,omitempty"`
	Operations []notation.Operation `json:"operations,omitempty"`
	Duration   time.Duration        `json:"duration_ns"`
}

// Report is the outcome of running one suite.
type Report struct {
	RunID    string        `json:"run_id"`
	Suite    string        `json:"suite"`
	Source   string        `json:"source"`
	Results  []Result      `json:"results"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Errored  int           `json:"errored"`
	Duration time.Duration `json:"duration_ns"`
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	return r.Failed == 0 && r.Errored == 0
}

// Sink receives every result as it is produced.
type Sink interface {
	Record(ctx context.Context, runID string, res Result) error
}

// CheckRecorder counts check outcomes.
type CheckRecorder interface {
	RecordCheck(suite, status string, d time.Duration)
}

// RunnerConfig configures a Runner. Every field is optional.
type RunnerConfig struct {
	Defaults Defaults
	Parser   *parser.Parser
	Observer notation.Observer
	Checks   CheckRecorder
	Sink     Sink
	Logger   *slog.Logger
	Tracer   trace.Tracer
}

// Runner evaluates suites.
type Runner struct {
	cfg    RunnerConfig
	logger *slog.Logger
}

// DefaultsFromConfig returns the tensor defaults of cfg.
func DefaultsFromConfig(cfg config.TensorConfig) Defaults {
	return Defaults{Dimension: cfg.Dimension, Basis: cfg.Basis}
}

// NewRunner creates a runner.
func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.Defaults.Dimension == 0 {
		cfg.Defaults.Dimension = config.DefaultTensorDimension
	}
	if cfg.Defaults.Basis == "" {
		cfg.Defaults.Basis = config.DefaultTensorBasis
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = noop.NewTracerProvider().Tracer(tracing.InstrumentationName)
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run evaluates every check of s in order. The run ID is taken from ctx
// when present. Run stops early only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, s *Suite) (*Report, error) {
	runID := logging.GetRunID(ctx)
	if runID == "" {
		runID = uuid.New().String()
		ctx = logging.WithRunID(ctx, runID)
	}
	ctx = logging.WithSuite(ctx, s.Name)
	logger := r.logger.With("run_id", runID, "suite", s.Name)

	ctx, span := r.cfg.Tracer.Start(ctx, tracing.SpanSuite, trace.WithAttributes(
		tracing.AttrRunID.String(runID),
		tracing.AttrSuite.String(s.Name),
		tracing.AttrSource.String(s.Source),
	))
	defer span.End()

	start := time.Now()
	report := &Report{RunID: runID, Suite: s.Name, Source: s.Source}

	tensors, err := buildTensors(s, r.cfg.Defaults)
	if err != nil {
		lerr := &LoadError{Source: s.Source, Message: "cannot build tensors", Err: err}
		tracing.SetError(span, lerr)
		return nil, lerr
	}

	for i := range s.Checks {
		if err := ctx.Err(); err != nil {
			tracing.SetError(span, err)
			return report, err
		}
		c := &s.Checks[i]
		res := r.runCheck(ctx, s, c, tensors)

		switch res.Status {
		case StatusPass:
			report.Passed++
		case StatusFail:
			report.Failed++
		default:
			report.Errored++
		}
		report.Results = append(report.Results, res)

		if r.cfg.Checks != nil {
			r.cfg.Checks.RecordCheck(s.Name, res.Status, res.Duration)
		}
		if r.cfg.Sink != nil {
			if err := r.cfg.Sink.Record(logging.WithCheck(ctx, c.Name), runID, res); err != nil {
				logger.Warn("failed to record result", "check", c.Name, "error", err)
			}
		}
		logger.Debug("check finished", "check", c.Name, "status", res.Status, "duration", res.Duration)
	}

	report.Duration = time.Since(start)
	span.SetAttributes(
		tracing.AttrPassed.Int(report.Passed),
		tracing.AttrFailed.Int(report.Failed),
		tracing.AttrErrored.Int(report.Errored),
	)
	if !report.OK() {
		tracing.SetFailed(span, fmt.Sprintf("%d failed, %d errored", report.Failed, report.Errored))
	}
	logger.Info("suite finished",
		"passed", report.Passed,
		"failed", report.Failed,
		"errored", report.Errored,
		"duration", report.Duration,
	)
	return report, nil
}

// RunFile loads and runs a suite file.
func (r *Runner) RunFile(ctx context.Context, path string) (*Report, error) {
	s, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, s)
}

func (r *Runner) runCheck(ctx context.Context, s *Suite, c *Check, tensors map[string]tensor.Tensor) Result {
	_, span := r.cfg.Tracer.Start(ctx, tracing.SpanCheck, trace.WithAttributes(
		tracing.AttrSuite.String(s.Name),
		tracing.AttrCheck.String(c.Name),
	))
	defer span.End()

	start := time.Now()
	rec := &opRecorder{next: r.cfg.Observer}
	e := &env{tensors: tensors, opts: r.options(rec)}

	res := Result{Suite: s.Name, Check: c.Name}
	if c.Left.Indices != nil {
		res.Notation = *c.Left.Indices
	}

	left, err := e.eval(&c.Left)
	var right any
	if err == nil && c.Right != nil {
		right, err = e.eval(c.Right)
	}
	var eq bool
	if err == nil && c.Right != nil {
		eq, err = compare(left, right)
	}

	res.Status, res.Message = judge(c, left, eq, err)
	res.Operations = rec.operations()
	res.Duration = time.Since(start)

	ops := make([]string, len(res.Operations))
	for i, op := range res.Operations {
		ops[i] = op.String()
	}
	span.SetAttributes(
		tracing.AttrNotation.String(res.Notation),
		tracing.AttrStatus.String(res.Status),
		tracing.AttrOperations.StringSlice(ops),
	)
	switch res.Status {
	case StatusError:
		tracing.SetError(span, err)
	case StatusFail:
		tracing.SetFailed(span, res.Message)
	}
	return res
}

func (r *Runner) options(obs notation.Observer) []notation.Option {
	opts := []notation.Option{
		notation.WithLogger(r.logger),
		notation.WithObserver(obs),
	}
	if r.cfg.Parser != nil {
		opts = append(opts, notation.WithParser(r.cfg.Parser))
	}
	return opts
}

// judge turns the evaluation of a check into a status and message.
func judge(c *Check, left any, eq bool, err error) (string, string) {
	x := c.Expect
	if x.Error != "" {
		if err == nil {
			return StatusFail, fmt.Sprintf("expected a %s error, got none", x.Error)
		}
		if kind := ErrorKind(err); kind != x.Error {
			return StatusFail, fmt.Sprintf("expected a %s error, got %s: %v", x.Error, kind, err)
		}
		return StatusPass, ""
	}
	if err != nil {
		return StatusError, err.Error()
	}

	if c.Right != nil {
		want := x.Result != "not_equal"
		if eq != want {
			if want {
				return StatusFail, "operands differ"
			}
			return StatusFail, "operands are equal"
		}
	}
	if x.Display != "" {
		if got := display(left); got != x.Display {
			return StatusFail, fmt.Sprintf("display = %q, want %q", got, x.Display)
		}
	}
	if x.Scalar != "" {
		want, _ := new(big.Rat).SetString(x.Scalar)
		d, ok := tensorOf(resolve(left)).(*dense.Tensor)
		if !ok {
			return StatusFail, "result has no components"
		}
		got, ok := d.Scalar()
		if !ok {
			return StatusFail, fmt.Sprintf("result %s is not a scalar", display(left))
		}
		if got.Cmp(want) != 0 {
			return StatusFail, fmt.Sprintf("scalar = %s, want %s", got.RatString(), want.RatString())
		}
	}
	if x.Expr != "" {
		st, ok := tensorOf(resolve(left)).(*symbolic.Tensor)
		if !ok {
			return StatusFail, "result is not symbolic"
		}
		if got := st.Expr(); got != x.Expr {
			return StatusFail, fmt.Sprintf("expr = %q, want %q", got, x.Expr)
		}
	}
	return StatusPass, ""
}

// opRecorder collects the operations of one check and forwards every
// notification.
type opRecorder struct {
	next notation.Observer

	mu  sync.Mutex
	ops []notation.Operation
}

func (o *opRecorder) NotationParsed(outcome string, d time.Duration) {
	if o.next != nil {
		o.next.NotationParsed(outcome, d)
	}
}

func (o *opRecorder) OperationApplied(op notation.Operation) {
	o.mu.Lock()
	o.ops = append(o.ops, op)
	o.mu.Unlock()
	if o.next != nil {
		o.next.OperationApplied(op)
	}
}

func (o *opRecorder) operations() []notation.Operation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]notation.Operation(nil), o.ops...)
}
