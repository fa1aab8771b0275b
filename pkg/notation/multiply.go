package notation

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	notationErrors "mercator-hq/tensorix/pkg/notation/errors"
	"mercator-hq/tensorix/pkg/tensor"
)

// Multiply combines e with other. Letters that are upper on one side and
// lower on the other are contracted in a single call; with no such letter
// the result is the tensor product. Wildcards never contract.
func (e *Expression) Multiply(other *Expression) (tensor.Tensor, error) {
	if other == nil {
		return nil, &notationErrors.Error{
			Type:    notationErrors.TypeOperandType,
			Message: "cannot multiply with a nil index expression",
		}
	}
	axes, otherAxes, err := contractionPairs(e, other)
	if err != nil {
		return nil, err
	}

	var op Operation
	var result tensor.Tensor
	if len(axes) == 0 {
		op = Operation{Kind: OpProduct}
		result, err = e.tensor.Product(other.tensor)
	} else {
		op = Operation{Kind: OpContract, Axes: axes, OtherAxes: otherAxes}
		result, err = e.tensor.Contract(axes, other.tensor, otherAxes)
	}
	if err != nil {
		return nil, &OperationError{Op: op, Err: err}
	}
	e.o.observer.OperationApplied(op)
	e.o.logger.LogAttrs(context.Background(), slog.LevelDebug, "expressions multiplied",
		slog.String("left", e.String()),
		slog.String("right", other.String()),
		slog.String("operation", op.String()),
	)
	return result, nil
}

// Mul multiplies two operands that must both be expressions. It serves
// callers holding values of mixed kinds, such as scenario evaluation.
func Mul(a, b any) (tensor.Tensor, error) {
	x, ok := a.(*Expression)
	if !ok || x == nil {
		return nil, notationErrors.NewOperandError(a)
	}
	y, ok := b.(*Expression)
	if !ok || y == nil {
		return nil, notationErrors.NewOperandError(b)
	}
	return x.Multiply(y)
}

// Scale multiplies the tensor by factor, keeping the remaining indices.
func (e *Expression) Scale(factor *big.Rat) (*Expression, error) {
	t, err := e.tensor.Scale(factor)
	if err != nil {
		return nil, fmt.Errorf("scale %s: %w", e, err)
	}
	return New(t, e.reduced(), e.opts...)
}

// Neg negates the tensor, keeping the remaining indices.
func (e *Expression) Neg() (*Expression, error) {
	t, err := e.tensor.Neg()
	if err != nil {
		return nil, fmt.Errorf("negate %s: %w", e, err)
	}
	return New(t, e.reduced(), e.opts...)
}

// Pos applies unary plus to the tensor, keeping the remaining indices.
func (e *Expression) Pos() (*Expression, error) {
	t, err := e.tensor.Pos()
	if err != nil {
		return nil, fmt.Errorf("unary plus %s: %w", e, err)
	}
	return New(t, e.reduced(), e.opts...)
}
