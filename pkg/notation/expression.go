package notation

import (
	"context"
	"log/slog"
	"time"

	notationErrors "mercator-hq/tensorix/pkg/notation/errors"
	"mercator-hq/tensorix/pkg/notation/parser"
	"mercator-hq/tensorix/pkg/tensor"
)

// Expression is a tensor annotated with index notation. Con and cov hold
// the indices left after groups were applied and repeated letters traced
// out; their lengths always match the rank of the wrapped tensor.
type Expression struct {
	tensor   tensor.Tensor
	notation string
	con      string
	cov      string
	modified bool
	ops      []Operation

	opts []Option
	o    options
}

// New checks notation against t and applies every operation it requests.
// Format and rank problems are reported as *errors.Error; failures of the
// tensor itself are returned wrapped.
func New(t tensor.Tensor, notation string, opts ...Option) (*Expression, error) {
	o := buildOptions(opts)
	if t == nil {
		return nil, &notationErrors.Error{
			Type:    notationErrors.TypeOperandType,
			Message: "index notation needs a tensor, got nil",
		}
	}

	start := time.Now()
	ind, err := o.parser.Parse(notation)
	if err == nil {
		p, q := t.Rank()
		err = parser.ValidateRank(ind, p, q)
	}
	outcome := "ok"
	if err != nil {
		outcome = string(notationErrors.TypeOf(err))
	}
	o.observer.NotationParsed(outcome, time.Since(start))
	if err != nil {
		return nil, err
	}

	e := &Expression{
		tensor:   t,
		notation: notation,
		con:      ind.Contravariant.Letters(),
		cov:      ind.Covariant.Letters(),
		opts:     opts,
		o:        o,
	}
	if err := e.applyGroups(ind.Contravariant); err != nil {
		return nil, err
	}
	if err := e.applyGroups(ind.Covariant); err != nil {
		return nil, err
	}
	if err := e.selfContract(); err != nil {
		return nil, err
	}

	o.logger.LogAttrs(context.Background(), slog.LevelDebug, "notation applied",
		slog.String("notation", notation),
		slog.String("result", e.String()),
		slog.Int("operations", len(e.ops)),
	)
	return e, nil
}

// apply runs op against the current tensor and records it.
func (e *Expression) apply(op Operation, fn func() (tensor.Tensor, error)) error {
	t, err := fn()
	if err != nil {
		return &OperationError{Op: op, Notation: e.notation, Err: err}
	}
	e.tensor = t
	e.modified = true
	e.ops = append(e.ops, op)
	e.o.observer.OperationApplied(op)
	return nil
}

// Tensor returns the current tensor.
func (e *Expression) Tensor() tensor.Tensor { return e.tensor }

// Notation returns the notation the expression was built from.
func (e *Expression) Notation() string { return e.notation }

// Contravariant returns the remaining upper indices.
func (e *Expression) Contravariant() string { return e.con }

// Covariant returns the remaining lower indices.
func (e *Expression) Covariant() string { return e.cov }

// Modified reports whether any operation ran during construction.
func (e *Expression) Modified() bool { return e.modified }

// IsScalar reports whether every index was traced out.
func (e *Expression) IsScalar() bool { return e.con == "" && e.cov == "" }

// Operations returns the operations applied during construction, in order.
func (e *Expression) Operations() []Operation {
	return append([]Operation(nil), e.ops...)
}

// Resolve returns the tensor when construction changed it, otherwise the
// expression itself.
func (e *Expression) Resolve() any {
	if e.modified {
		return e.tensor
	}
	return e
}

// String renders the expression as name^con_cov, or "scalar" once every
// index is gone. Unnamed tensors are shown as X.
func (e *Expression) String() string {
	if e.IsScalar() {
		return "scalar"
	}
	name := tensor.NameOf(e.tensor)
	if name == "" {
		name = "X"
	}
	s := name
	if e.con != "" {
		s += "^" + e.con
	}
	if e.cov != "" {
		s += "_" + e.cov
	}
	return s
}

// Equal reports whether both expressions wrap equal tensors and carry the
// same remaining indices. Errors from the tensor comparison are returned
// unchanged.
func (e *Expression) Equal(other *Expression) (bool, error) {
	if other == nil {
		return false, nil
	}
	eq, err := e.tensor.Equal(other.tensor)
	if err != nil {
		return false, err
	}
	return eq && e.con == other.con && e.cov == other.cov, nil
}

// reduced renders the remaining indices in a form New accepts.
func (e *Expression) reduced() string {
	return e.con + "_" + e.cov
}
