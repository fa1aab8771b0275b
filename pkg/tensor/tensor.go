// Package tensor defines the capability set that index notation needs from a
// tensor, along with the axis checks every implementation shares.
//
// Axes are numbered contravariant first: a tensor of type (p, q) has
// contravariant axes 0..p-1 and covariant axes p..p+q-1. Products and
// contractions order their free axes as the first operand's contravariant
// axes, the second operand's contravariant axes, the first operand's
// covariant axes and finally the second operand's covariant axes.
package tensor

import (
	"errors"
	"math/big"
)

// Tensor is an immutable tensor value. Every operation returns a new tensor.
type Tensor interface {
	// Rank returns the number of contravariant and covariant axes.
	Rank() (contravariant, covariant int)

	// Symmetrize averages the tensor over all permutations of the given axes.
	Symmetrize(axes ...int) (Tensor, error)

	// Antisymmetrize averages the tensor over all permutations of the given
	// axes, weighting each permutation by its sign.
	Antisymmetrize(axes ...int) (Tensor, error)

	// Trace contracts one contravariant axis with one covariant axis.
	Trace(a, b int) (Tensor, error)

	// Contract sums axes[i] of the receiver against otherAxes[i] of other.
	Contract(axes []int, other Tensor, otherAxes []int) (Tensor, error)

	// Product returns the tensor product of the receiver and other.
	Product(other Tensor) (Tensor, error)

	Scale(factor *big.Rat) (Tensor, error)
	Neg() (Tensor, error)
	Pos() (Tensor, error)

	// Equal reports whether both tensors have the same components. It fails
	// with ErrNoCommonBasis when the tensors cannot be compared.
	Equal(other Tensor) (bool, error)
}

// Named is implemented by tensors that carry a display name.
type Named interface {
	Name() string
}

var (
	// ErrNoCommonBasis is returned when two tensors live on different spaces.
	ErrNoCommonBasis = errors.New("no common basis for the comparison")

	// ErrAxisOutOfRange is returned for an axis outside 0..p+q-1.
	ErrAxisOutOfRange = errors.New("axis out of range")

	// ErrMixedVariance is returned when an operation mixes contravariant and
	// covariant axes where it must not.
	ErrMixedVariance = errors.New("axes of different variance")

	// ErrIncompatible is returned when two operands cannot be combined.
	ErrIncompatible = errors.New("incompatible tensors")
)

// NameOf returns the display name of t, or "" when t carries none.
func NameOf(t Tensor) string {
	if n, ok := t.(Named); ok {
		return n.Name()
	}
	return ""
}
