// Package dense implements tensor.Tensor with explicit components over a
// finite basis. Components are exact rationals so that identities between
// symmetrizations and contractions can be compared without rounding.
package dense

import (
	"fmt"
	"math/big"
	"math/rand/v2"
	"strings"

	"mercator-hq/tensorix/pkg/tensor"
)

// Basis identifies the vector space a tensor is built on. Tensors can only be
// compared or combined when their bases are equal.
type Basis struct {
	Name string
	Dim  int
}

func (b Basis) String() string {
	return fmt.Sprintf("%s(%d)", b.Name, b.Dim)
}

// Tensor is a tensor of type (p, q) whose dim^(p+q) components are stored in
// row-major order, contravariant axes first.
type Tensor struct {
	basis Basis
	p, q  int
	name  string
	data  []*big.Rat
}

var _ tensor.Tensor = (*Tensor)(nil)

// New returns the zero tensor of type (p, q) over basis.
func New(basis Basis, p, q int) (*Tensor, error) {
	if basis.Dim < 1 {
		return nil, fmt.Errorf("basis %q: dimension must be positive, got %d", basis.Name, basis.Dim)
	}
	if p < 0 || q < 0 {
		return nil, fmt.Errorf("invalid tensor type (%d,%d)", p, q)
	}
	return zero(basis, p, q), nil
}

// MustNew is like New but panics on error.
func MustNew(basis Basis, p, q int) *Tensor {
	t, err := New(basis, p, q)
	if err != nil {
		panic(err)
	}
	return t
}

// Random returns a tensor of type (p, q) filled with small integers drawn
// from a generator seeded with seed. Equal seeds give equal tensors.
func Random(basis Basis, p, q int, seed uint64) (*Tensor, error) {
	t, err := New(basis, p, q)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range t.data {
		t.data[i].SetInt64(int64(rng.IntN(19) - 9))
	}
	return t, nil
}

func zero(basis Basis, p, q int) *Tensor {
	n := 1
	for i := 0; i < p+q; i++ {
		n *= basis.Dim
	}
	data := make([]*big.Rat, n)
	for i := range data {
		data[i] = new(big.Rat)
	}
	return &Tensor{basis: basis, p: p, q: q, data: data}
}

// Basis returns the basis the tensor is built on.
func (t *Tensor) Basis() Basis { return t.basis }

// Rank returns the tensor type (p, q).
func (t *Tensor) Rank() (int, int) { return t.p, t.q }

// Name returns the display name, "" when unnamed.
func (t *Tensor) Name() string { return t.name }

// WithName returns a copy of t carrying the given display name.
func (t *Tensor) WithName(name string) *Tensor {
	c := t.clone()
	c.name = name
	return c
}

// Set assigns the component at idx. It is meant for building tensors; a
// tensor handed to other code must not be modified afterwards.
func (t *Tensor) Set(value *big.Rat, idx ...int) error {
	off, err := t.offset(idx)
	if err != nil {
		return err
	}
	t.data[off].Set(value)
	return nil
}

// SetInt is Set for integer values.
func (t *Tensor) SetInt(value int64, idx ...int) error {
	return t.Set(new(big.Rat).SetInt64(value), idx...)
}

// At returns a copy of the component at idx.
func (t *Tensor) At(idx ...int) (*big.Rat, error) {
	off, err := t.offset(idx)
	if err != nil {
		return nil, err
	}
	return new(big.Rat).Set(t.data[off]), nil
}

// Scalar returns the single component of a tensor of type (0, 0).
func (t *Tensor) Scalar() (*big.Rat, bool) {
	if t.p != 0 || t.q != 0 {
		return nil, false
	}
	return new(big.Rat).Set(t.data[0]), true
}

// Add returns the componentwise sum of t and other.
func (t *Tensor) Add(other *Tensor) (*Tensor, error) {
	if t.basis != other.basis {
		return nil, fmt.Errorf("add over %s and %s: %w", t.basis, other.basis, tensor.ErrNoCommonBasis)
	}
	if t.p != other.p || t.q != other.q {
		return nil, fmt.Errorf("add (%d,%d) and (%d,%d): %w", t.p, t.q, other.p, other.q, tensor.ErrIncompatible)
	}
	out := zero(t.basis, t.p, t.q)
	for i := range out.data {
		out.data[i].Add(t.data[i], other.data[i])
	}
	return out, nil
}

// String lists the non-zero components, e.g. "T[0,1]=2 T[1,0]=-1/3".
func (t *Tensor) String() string {
	name := t.name
	if name == "" {
		name = "T"
	}
	var b strings.Builder
	idx := make([]int, t.p+t.q)
	for off, v := range t.data {
		if v.Sign() == 0 {
			continue
		}
		t.unravel(off, idx)
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		parts := make([]string, len(idx))
		for i, x := range idx {
			parts[i] = fmt.Sprint(x)
		}
		fmt.Fprintf(&b, "%s[%s]=%s", name, strings.Join(parts, ","), v.RatString())
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

func (t *Tensor) clone() *Tensor {
	c := &Tensor{basis: t.basis, p: t.p, q: t.q, name: t.name, data: make([]*big.Rat, len(t.data))}
	for i, v := range t.data {
		c.data[i] = new(big.Rat).Set(v)
	}
	return c
}

func (t *Tensor) offset(idx []int) (int, error) {
	if len(idx) != t.p+t.q {
		return 0, fmt.Errorf("%d indices for a tensor of type (%d,%d)", len(idx), t.p, t.q)
	}
	off := 0
	for _, x := range idx {
		if x < 0 || x >= t.basis.Dim {
			return 0, fmt.Errorf("index %d outside 0..%d: %w", x, t.basis.Dim-1, tensor.ErrAxisOutOfRange)
		}
		off = off*t.basis.Dim + x
	}
	return off, nil
}

// at reads a component without bounds checks.
func (t *Tensor) at(idx []int) *big.Rat {
	off := 0
	for _, x := range idx {
		off = off*t.basis.Dim + x
	}
	return t.data[off]
}

func (t *Tensor) unravel(off int, idx []int) {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i] = off % t.basis.Dim
		off /= t.basis.Dim
	}
}

// compatible returns other as a dense tensor over the same basis.
func (t *Tensor) compatible(other tensor.Tensor) (*Tensor, error) {
	o, ok := other.(*Tensor)
	if !ok {
		return nil, fmt.Errorf("dense tensor and %T: %w", other, tensor.ErrIncompatible)
	}
	if t.basis != o.basis {
		return nil, fmt.Errorf("tensors over %s and %s: %w", t.basis, o.basis, tensor.ErrNoCommonBasis)
	}
	return o, nil
}
