package notation

import (
	"log/slog"
	"time"

	"mercator-hq/tensorix/pkg/notation/parser"
)

// Observer is notified while expressions are built and multiplied.
// Implementations must be safe for concurrent use.
type Observer interface {
	// NotationParsed reports the outcome of checking a notation: "ok" or
	// the error type.
	NotationParsed(outcome string, d time.Duration)

	// OperationApplied reports each operation invoked on a tensor.
	OperationApplied(op Operation)
}

type nopObserver struct{}

func (nopObserver) NotationParsed(string, time.Duration) {}
func (nopObserver) OperationApplied(Operation)           {}

// Option configures New.
type Option func(*options)

type options struct {
	parser   *parser.Parser
	logger   *slog.Logger
	observer Observer
}

// WithParser sets the parser used to read notations.
func WithParser(p *parser.Parser) Option {
	return func(o *options) { o.parser = p }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver registers an observer.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

var defaultParser = parser.NewParser()

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.parser == nil {
		o.parser = defaultParser
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	return o
}
