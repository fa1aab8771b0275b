package dense

import (
	"errors"
	"math/big"
	"testing"

	"mercator-hq/tensorix/pkg/tensor"
)

var plane = Basis{Name: "e", Dim: 2}

func rat(s string) *big.Rat {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		panic("bad rational " + s)
	}
	return r
}

func component(t *testing.T, x tensor.Tensor, idx ...int) string {
	t.Helper()
	v, err := x.(*Tensor).At(idx...)
	if err != nil {
		t.Fatalf("At(%v) error = %v", idx, err)
	}
	return v.RatString()
}

func TestSymmetrizeAndAntisymmetrize(t *testing.T) {
	a := MustNew(plane, 2, 0)
	if err := a.SetInt(2, 0, 1); err != nil {
		t.Fatal(err)
	}

	sym, err := a.Symmetrize(0, 1)
	if err != nil {
		t.Fatalf("Symmetrize() error = %v", err)
	}
	asym, err := a.Antisymmetrize(0, 1)
	if err != nil {
		t.Fatalf("Antisymmetrize() error = %v", err)
	}

	tests := []struct {
		name string
		x    tensor.Tensor
		idx  []int
		want string
	}{
		{"sym 01", sym, []int{0, 1}, "1"},
		{"sym 10", sym, []int{1, 0}, "1"},
		{"sym 00", sym, []int{0, 0}, "0"},
		{"asym 01", asym, []int{0, 1}, "1"},
		{"asym 10", asym, []int{1, 0}, "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := component(t, tt.x, tt.idx...); got != tt.want {
				t.Errorf("component %v = %q, want %q", tt.idx, got, tt.want)
			}
		})
	}
}

func TestSymmetrizeThreeAxes(t *testing.T) {
	a := MustNew(Basis{Name: "e", Dim: 3}, 3, 0)
	_ = a.SetInt(6, 0, 1, 2)

	sym, err := a.Symmetrize(0, 1, 2)
	if err != nil {
		t.Fatalf("Symmetrize() error = %v", err)
	}
	asym, err := a.Antisymmetrize(0, 1, 2)
	if err != nil {
		t.Fatalf("Antisymmetrize() error = %v", err)
	}
	if got := component(t, sym, 2, 0, 1); got != "1" {
		t.Errorf("sym[2,0,1] = %q, want %q", got, "1")
	}
	if got := component(t, asym, 1, 0, 2); got != "-1" {
		t.Errorf("asym[1,0,2] = %q, want %q", got, "-1")
	}
	if got := component(t, asym, 1, 2, 0); got != "1" {
		t.Errorf("asym[1,2,0] = %q, want %q", got, "1")
	}
}

func TestSymmetrizeRejectsBadAxes(t *testing.T) {
	a := MustNew(plane, 1, 1)
	tests := []struct {
		name string
		axes []int
		want error
	}{
		{"single axis", []int{0}, tensor.ErrIncompatible},
		{"mixed variance", []int{0, 1}, tensor.ErrMixedVariance},
		{"out of range", []int{0, 5}, tensor.ErrAxisOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Symmetrize(tt.axes...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Symmetrize(%v) error = %v, want %v", tt.axes, err, tt.want)
			}
		})
	}
}

func TestTrace(t *testing.T) {
	m := MustNew(plane, 1, 1)
	_ = m.SetInt(1, 0, 0)
	_ = m.SetInt(3, 1, 1)
	_ = m.SetInt(5, 0, 1)

	tr, err := m.Trace(0, 1)
	if err != nil {
		t.Fatalf("Trace() error = %v", err)
	}
	s, ok := tr.(*Tensor).Scalar()
	if !ok {
		t.Fatal("Trace() did not return a scalar")
	}
	if s.RatString() != "4" {
		t.Errorf("trace = %s, want 4", s.RatString())
	}

	if _, err := m.Trace(1, 0); !errors.Is(err, tensor.ErrMixedVariance) {
		t.Errorf("Trace(1, 0) error = %v, want ErrMixedVariance", err)
	}
}

func TestContractMatchesProductTrace(t *testing.T) {
	v := MustNew(plane, 1, 0)
	_ = v.SetInt(1, 0)
	_ = v.SetInt(2, 1)
	w := MustNew(plane, 0, 1)
	_ = w.SetInt(3, 0)
	_ = w.SetInt(4, 1)

	c, err := v.Contract([]int{0}, w, []int{0})
	if err != nil {
		t.Fatalf("Contract() error = %v", err)
	}
	prod, err := v.Product(w)
	if err != nil {
		t.Fatalf("Product() error = %v", err)
	}
	tr, err := prod.Trace(0, 1)
	if err != nil {
		t.Fatalf("Trace() error = %v", err)
	}
	eq, err := c.Equal(tr)
	if err != nil {
		t.Fatalf("Equal() error = %v", err)
	}
	if !eq {
		t.Errorf("contraction %v differs from trace of product %v", c, tr)
	}
	if got := component(t, c); got != "11" {
		t.Errorf("contraction = %q, want %q", got, "11")
	}
}

func TestProductAxisOrder(t *testing.T) {
	a := MustNew(plane, 1, 1)
	_ = a.SetInt(1, 0, 1)
	b := MustNew(plane, 1, 0)
	_ = b.SetInt(1, 1)

	prod, err := a.Product(b)
	if err != nil {
		t.Fatalf("Product() error = %v", err)
	}
	p, q := prod.Rank()
	if p != 2 || q != 1 {
		t.Fatalf("Rank() = (%d,%d), want (2,1)", p, q)
	}
	// a^0_1 b^1 lands at [a-con, b-con, a-cov].
	if got := component(t, prod, 0, 1, 1); got != "1" {
		t.Errorf("product[0,1,1] = %q, want %q", got, "1")
	}
}

func TestEqualAcrossBases(t *testing.T) {
	a := MustNew(plane, 1, 0)
	b := MustNew(Basis{Name: "f", Dim: 2}, 1, 0)
	if _, err := a.Equal(b); !errors.Is(err, tensor.ErrNoCommonBasis) {
		t.Errorf("Equal() error = %v, want ErrNoCommonBasis", err)
	}
	if _, err := a.Product(b); !errors.Is(err, tensor.ErrNoCommonBasis) {
		t.Errorf("Product() error = %v, want ErrNoCommonBasis", err)
	}

	c := MustNew(plane, 0, 1)
	eq, err := a.Equal(c)
	if err != nil || eq {
		t.Errorf("Equal() across types = %v, %v, want false, nil", eq, err)
	}
}

func TestRandomIsDeterministic(t *testing.T) {
	a, err := Random(plane, 2, 1, 42)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Random(plane, 2, 1, 42)
	c, _ := Random(plane, 2, 1, 43)

	if eq, _ := a.Equal(b); !eq {
		t.Error("Random() with equal seeds gave different tensors")
	}
	if eq, _ := a.Equal(c); eq {
		t.Error("Random() with different seeds gave equal tensors")
	}
}

func TestNames(t *testing.T) {
	a := MustNew(plane, 1, 0).WithName("a")
	b := MustNew(plane, 0, 1).WithName("b")

	neg, _ := a.Neg()
	pos, _ := a.Pos()
	prod, _ := a.Product(b)
	sym, _ := MustNew(plane, 2, 0).WithName("s").Symmetrize(0, 1)

	tests := []struct {
		x    tensor.Tensor
		want string
	}{
		{neg, "-a"},
		{pos, "+a"},
		{prod, "a*b"},
		{sym, ""},
	}
	for _, tt := range tests {
		if got := tensor.NameOf(tt.x); got != tt.want {
			t.Errorf("NameOf() = %q, want %q", got, tt.want)
		}
	}
}

func TestScaleAndAdd(t *testing.T) {
	a := MustNew(plane, 1, 0)
	_ = a.Set(rat("1/2"), 0)

	s, err := a.Scale(rat("-4"))
	if err != nil {
		t.Fatalf("Scale() error = %v", err)
	}
	if got := component(t, s, 0); got != "-2" {
		t.Errorf("scaled = %q, want %q", got, "-2")
	}

	sum, err := a.Add(s.(*Tensor))
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got := component(t, sum, 0); got != "-3/2" {
		t.Errorf("sum = %q, want %q", got, "-3/2")
	}
}

func TestPermutations(t *testing.T) {
	perms := permutations(3)
	if len(perms) != 6 {
		t.Fatalf("len(permutations(3)) = %d, want 6", len(perms))
	}
	odd := 0
	for _, p := range perms {
		if p.odd {
			odd++
		}
	}
	if odd != 3 {
		t.Errorf("odd permutations = %d, want 3", odd)
	}
}

func TestString(t *testing.T) {
	a := MustNew(plane, 1, 0).WithName("a")
	if got := a.String(); got != "0" {
		t.Errorf("String() = %q, want %q", got, "0")
	}
	a = a.WithName("a")
	_ = a.Set(rat("-1/3"), 1)
	if got := a.String(); got != "a[1]=-1/3" {
		t.Errorf("String() = %q, want %q", got, "a[1]=-1/3")
	}
}
