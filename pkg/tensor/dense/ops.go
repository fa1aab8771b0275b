package dense

import (
	"fmt"
	"math/big"

	"mercator-hq/tensorix/pkg/tensor"
)

// Symmetrize implements tensor.Tensor.
func (t *Tensor) Symmetrize(axes ...int) (tensor.Tensor, error) {
	if err := tensor.CheckGroup(t, axes); err != nil {
		return nil, fmt.Errorf("symmetrize: %w", err)
	}
	return t.average(axes, false), nil
}

// Antisymmetrize implements tensor.Tensor.
func (t *Tensor) Antisymmetrize(axes ...int) (tensor.Tensor, error) {
	if err := tensor.CheckGroup(t, axes); err != nil {
		return nil, fmt.Errorf("antisymmetrize: %w", err)
	}
	return t.average(axes, true), nil
}

func (t *Tensor) average(axes []int, signed bool) *Tensor {
	perms := permutations(len(axes))
	out := zero(t.basis, t.p, t.q)
	idx := make([]int, t.p+t.q)
	src := make([]int, t.p+t.q)
	for off := range out.data {
		t.unravel(off, idx)
		sum := out.data[off]
		for _, perm := range perms {
			copy(src, idx)
			for i, j := range perm.order {
				src[axes[i]] = idx[axes[j]]
			}
			if signed && perm.odd {
				sum.Sub(sum, t.at(src))
			} else {
				sum.Add(sum, t.at(src))
			}
		}
		sum.Quo(sum, new(big.Rat).SetInt64(int64(len(perms))))
	}
	return out
}

// Trace implements tensor.Tensor.
func (t *Tensor) Trace(a, b int) (tensor.Tensor, error) {
	if err := tensor.CheckTrace(t, a, b); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	out := zero(t.basis, t.p-1, t.q-1)
	free := make([]int, 0, t.p+t.q-2)
	for ax := 0; ax < t.p+t.q; ax++ {
		if ax != a && ax != b {
			free = append(free, ax)
		}
	}
	idx := make([]int, len(free))
	src := make([]int, t.p+t.q)
	for off := range out.data {
		out.unravel(off, idx)
		for i, ax := range free {
			src[ax] = idx[i]
		}
		for k := 0; k < t.basis.Dim; k++ {
			src[a], src[b] = k, k
			out.data[off].Add(out.data[off], t.at(src))
		}
	}
	return out, nil
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
	return combine(t, axes, o, otherAxes), nil
}

// Product implements tensor.Tensor.
func (t *Tensor) Product(other tensor.Tensor) (tensor.Tensor, error) {
	o, err := t.compatible(other)
	if err != nil {
		return nil, fmt.Errorf("product: %w", err)
	}
	out := combine(t, nil, o, nil)
	if t.name != "" && o.name != "" {
		out.name = t.name + "*" + o.name
	}
	return out, nil
}

// combine sums t and o over the paired axes; with no pairs it is the tensor
// product. The free axes of the result are ordered t contravariant, o
// contravariant, t covariant, o covariant.
func combine(t *Tensor, axes []int, o *Tensor, otherAxes []int) *Tensor {
	con1, cov1 := freeAxes(t, axes)
	con2, cov2 := freeAxes(o, otherAxes)
	out := zero(t.basis, len(con1)+len(con2), len(cov1)+len(cov2))

	// Position in the result index for each free axis of the operands.
	type slot struct{ from, to int }
	var slots1, slots2 []slot
	pos := 0
	for _, ax := range con1 {
		slots1 = append(slots1, slot{ax, pos})
		pos++
	}
	for _, ax := range con2 {
		slots2 = append(slots2, slot{ax, pos})
		pos++
	}
	for _, ax := range cov1 {
		slots1 = append(slots1, slot{ax, pos})
		pos++
	}
	for _, ax := range cov2 {
		slots2 = append(slots2, slot{ax, pos})
		pos++
	}

	idx := make([]int, out.p+out.q)
	src1 := make([]int, t.p+t.q)
	src2 := make([]int, o.p+o.q)
	summed := make([]int, len(axes))
	term := new(big.Rat)
	for off := range out.data {
		out.unravel(off, idx)
		for _, s := range slots1 {
			src1[s.from] = idx[s.to]
		}
		for _, s := range slots2 {
			src2[s.from] = idx[s.to]
		}
		for i := range summed {
			summed[i] = 0
		}
		for {
			for i, k := range summed {
				src1[axes[i]] = k
				src2[otherAxes[i]] = k
			}
			term.Mul(t.at(src1), o.at(src2))
			out.data[off].Add(out.data[off], term)
			if !next(summed, t.basis.Dim) {
				break
			}
		}
	}
	return out
}

// freeAxes splits the axes of t not listed in used by variance.
func freeAxes(t *Tensor, used []int) (con, cov []int) {
	skip := make(map[int]bool, len(used))
	for _, ax := range used {
		skip[ax] = true
	}
	for ax := 0; ax < t.p+t.q; ax++ {
		switch {
		case skip[ax]:
		case ax < t.p:
			con = append(con, ax)
		default:
			cov = append(cov, ax)
		}
	}
	return con, cov
}

// next advances an odometer over 0..dim-1 digits and reports whether it did
// not wrap around.
func next(digits []int, dim int) bool {
	for i := len(digits) - 1; i >= 0; i-- {
		digits[i]++
		if digits[i] < dim {
			return true
		}
		digits[i] = 0
	}
	return false
}

// Scale implements tensor.Tensor.
func (t *Tensor) Scale(factor *big.Rat) (tensor.Tensor, error) {
	if factor == nil {
		return nil, fmt.Errorf("scale by nil factor: %w", tensor.ErrIncompatible)
	}
	out := zero(t.basis, t.p, t.q)
	for i, v := range t.data {
		out.data[i].Mul(v, factor)
	}
	return out, nil
}

// Neg implements tensor.Tensor.
func (t *Tensor) Neg() (tensor.Tensor, error) {
	out := zero(t.basis, t.p, t.q)
	for i, v := range t.data {
		out.data[i].Neg(v)
	}
	if t.name != "" {
		out.name = "-" + t.name
	}
	return out, nil
}

// Pos implements tensor.Tensor.
func (t *Tensor) Pos() (tensor.Tensor, error) {
	out := t.clone()
	if t.name != "" {
		out.name = "+" + t.name
	}
	return out, nil
}

// Equal implements tensor.Tensor. Tensors of different type are unequal;
// tensors over different bases cannot be compared.
func (t *Tensor) Equal(other tensor.Tensor) (bool, error) {
	o, ok := other.(*Tensor)
	if !ok || t.basis != o.basis {
		return false, fmt.Errorf("compare with %v: %w", describe(other), tensor.ErrNoCommonBasis)
	}
	if t.p != o.p || t.q != o.q {
		return false, nil
	}
	for i, v := range t.data {
		if v.Cmp(o.data[i]) != 0 {
			return false, nil
		}
	}
	return true, nil
}

func describe(other tensor.Tensor) string {
	if o, ok := other.(*Tensor); ok {
		return "tensor over " + o.basis.String()
	}
	return fmt.Sprintf("%T", other)
}
