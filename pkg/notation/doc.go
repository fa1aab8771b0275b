// Package notation applies index notation to tensors.
//
// An Expression pairs a tensor with a notation string. Building one checks
// the notation against the tensor type, symmetrizes or antisymmetrizes over
// every group, and traces out every letter that appears both as an upper
// and as a lower index:
//
//	e, err := notation.New(t, "^(ij)_[kl]") // sym over 0,1 then asym over 2,3
//	e, err := notation.New(t, "^ki_kj")     // trace over axes 0 and 2
//
// Two expressions multiply into a tensor product, or into a contraction
// over the letters they share in opposite positions:
//
//	a, _ := notation.New(v, "^i")
//	b, _ := notation.New(w, "_i")
//	s, err := a.Multiply(b) // v.Contract([0], w, [0])
//
// Expressions are immutable. The tensor algebra itself is delegated to the
// tensor.Tensor implementation.
package notation
