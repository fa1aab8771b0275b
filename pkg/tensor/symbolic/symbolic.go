// Package symbolic implements tensor.Tensor without components. A symbolic
// tensor only knows its type and the expression that produced it, which is
// enough to explain and test which operations an index notation triggers.
package symbolic

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"mercator-hq/tensorix/pkg/tensor"
)

// Tensor is a symbolic tensor of type (p, q) on a named space.
type Tensor struct {
	space string
	p, q  int
	name  string
	expr  string
}

var _ tensor.Tensor = (*Tensor)(nil)

// New returns a named symbolic tensor of type (p, q) on space.
func New(space, name string, p, q int) *Tensor {
	expr := name
	if expr == "" {
		expr = "T"
	}
	return &Tensor{space: space, p: p, q: q, name: name, expr: expr}
}

func (t *Tensor) derive(p, q int, expr string) *Tensor {
	return &Tensor{space: t.space, p: p, q: q, expr: expr}
}

// Rank implements tensor.Tensor.
func (t *Tensor) Rank() (int, int) { return t.p, t.q }

// Name implements tensor.Named.
func (t *Tensor) Name() string { return t.name }

// Space returns the space the tensor lives on.
func (t *Tensor) Space() string { return t.space }

// Expr returns the expression that produced the tensor, e.g. "tr[0 2](t)".
func (t *Tensor) Expr() string { return t.expr }

func (t *Tensor) String() string {
	return fmt.Sprintf("%s : (%d,%d)", t.expr, t.p, t.q)
}

func axisList(axes []int) string {
	parts := make([]string, len(axes))
	for i, a := range axes {
		parts[i] = strconv.Itoa(a)
	}
	return strings.Join(parts, " ")
}

// Symmetrize implements tensor.Tensor.
func (t *Tensor) Symmetrize(axes ...int) (tensor.Tensor, error) {
	if err := tensor.CheckGroup(t, axes); err != nil {
		return nil, fmt.Errorf("symmetrize: %w", err)
	}
	return t.derive(t.p, t.q, fmt.Sprintf("sym[%s](%s)", axisList(axes), t.expr)), nil
}

// Antisymmetrize implements tensor.Tensor.
func (t *Tensor) Antisymmetrize(axes ...int) (tensor.Tensor, error) {
	if err := tensor.CheckGroup(t, axes); err != nil {
		return nil, fmt.Errorf("antisymmetrize: %w", err)
	}
	return t.derive(t.p, t.q, fmt.Sprintf("asym[%s](%s)", axisList(axes), t.expr)), nil
}

// Trace implements tensor.Tensor.
func (t *Tensor) Trace(a, b int) (tensor.Tensor, error) {
	if err := tensor.CheckTrace(t, a, b); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	return t.derive(t.p-1, t.q-1, fmt.Sprintf("tr[%d %d](%s)", a, b, t.expr)), nil
}

// Contract implements tensor.Tensor.
func (t *Tensor) Contract(axes []int, other tensor.Tensor, otherAxes []int) (tensor.Tensor, error) {
	o, err := t.compatible(other)
	if err != nil {
		return nil, fmt.Errorf("contract: %w", err)
	}
	if err := tensor.CheckContraction(t, axes, o, otherAxes); err != nil {
		return nil, fmt.Errorf("contract: %w", err)
	}
	// Every pair removes one contravariant and one covariant axis.
	n := len(axes)
	p, q := t.p+o.p-n, t.q+o.q-n
	expr := fmt.Sprintf("contract(%s[%s], %s[%s])", t.expr, axisList(axes), o.expr, axisList(otherAxes))
	return t.derive(p, q, expr), nil
}

// Product implements tensor.Tensor.
func (t *Tensor) Product(other tensor.Tensor) (tensor.Tensor, error) {
	o, err := t.compatible(other)
	if err != nil {
		return nil, fmt.Errorf("product: %w", err)
	}
	out := t.derive(t.p+o.p, t.q+o.q, fmt.Sprintf("(%s*%s)", t.expr, o.expr))
	if t.name != "" && o.name != "" {
		out.name = t.name + "*" + o.name
	}
	return out, nil
}

// Scale implements tensor.Tensor.
func (t *Tensor) Scale(factor *big.Rat) (tensor.Tensor, error) {
	if factor == nil {
		return nil, fmt.Errorf("scale by nil factor: %w", tensor.ErrIncompatible)
	}
	return t.derive(t.p, t.q, fmt.Sprintf("%s*%s", factor.RatString(), t.expr)), nil
}

// Neg implements tensor.Tensor.
func (t *Tensor) Neg() (tensor.Tensor, error) {
	out := t.derive(t.p, t.q, "-"+t.expr)
	if t.name != "" {
		out.name = "-" + t.name
	}
	return out, nil
}

// Pos implements tensor.Tensor.
func (t *Tensor) Pos() (tensor.Tensor, error) {
	out := t.derive(t.p, t.q, "+"+t.expr)
	if t.name != "" {
		out.name = "+" + t.name
	}
	return out, nil
}

// Equal implements tensor.Tensor. Two symbolic tensors are equal when they
// have the same type and were produced by the same expression.
func (t *Tensor) Equal(other tensor.Tensor) (bool, error) {
	o, ok := other.(*Tensor)
	if !ok || o.space != t.space {
		return false, fmt.Errorf("compare %s with %T: %w", t.expr, other, tensor.ErrNoCommonBasis)
	}
	return t.p == o.p && t.q == o.q && t.expr == o.expr, nil
}

func (t *Tensor) compatible(other tensor.Tensor) (*Tensor, error) {
	o, ok := other.(*Tensor)
	if !ok {
		return nil, fmt.Errorf("symbolic tensor and %T: %w", other, tensor.ErrIncompatible)
	}
	if o.space != t.space {
		return nil, fmt.Errorf("spaces %q and %q: %w", t.space, o.space, tensor.ErrNoCommonBasis)
	}
	return o, nil
}
