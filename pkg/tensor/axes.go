package tensor

import "fmt"

// CheckGroup validates the axes of a symmetrization or antisymmetrization:
// at least two distinct axes, all in range and all of the same variance.
func CheckGroup(t Tensor, axes []int) error {
	p, q := t.Rank()
	if len(axes) < 2 {
		return fmt.Errorf("at least two axes required, got %d: %w", len(axes), ErrIncompatible)
	}
	seen := make(map[int]bool, len(axes))
	for _, a := range axes {
		if a < 0 || a >= p+q {
			return fmt.Errorf("axis %d of a tensor of type (%d,%d): %w", a, p, q, ErrAxisOutOfRange)
		}
		if seen[a] {
			return fmt.Errorf("axis %d repeated: %w", a, ErrIncompatible)
		}
		seen[a] = true
		if (a < p) != (axes[0] < p) {
			return fmt.Errorf("axes %d and %d: %w", axes[0], a, ErrMixedVariance)
		}
	}
	return nil
}

// CheckTrace validates a trace over a contravariant axis a and a covariant
// axis b.
func CheckTrace(t Tensor, a, b int) error {
	p, q := t.Rank()
	if a < 0 || a >= p+q {
		return fmt.Errorf("axis %d of a tensor of type (%d,%d): %w", a, p, q, ErrAxisOutOfRange)
	}
	if b < 0 || b >= p+q {
		return fmt.Errorf("axis %d of a tensor of type (%d,%d): %w", b, p, q, ErrAxisOutOfRange)
	}
	if a >= p || b < p {
		return fmt.Errorf("trace over axes %d and %d: %w", a, b, ErrMixedVariance)
	}
	return nil
}

// CheckContraction validates a contraction of axes of t against otherAxes of
// other. Each pair must join a contravariant axis with a covariant one.
func CheckContraction(t Tensor, axes []int, other Tensor, otherAxes []int) error {
	if len(axes) == 0 || len(axes) != len(otherAxes) {
		return fmt.Errorf("contraction needs matching axis lists, got %d and %d: %w",
			len(axes), len(otherAxes), ErrIncompatible)
	}
	p1, q1 := t.Rank()
	p2, q2 := other.Rank()
	seen1 := make(map[int]bool, len(axes))
	seen2 := make(map[int]bool, len(otherAxes))
	for i := range axes {
		a, b := axes[i], otherAxes[i]
		if a < 0 || a >= p1+q1 {
			return fmt.Errorf("axis %d of a tensor of type (%d,%d): %w", a, p1, q1, ErrAxisOutOfRange)
		}
		if b < 0 || b >= p2+q2 {
			return fmt.Errorf("axis %d of a tensor of type (%d,%d): %w", b, p2, q2, ErrAxisOutOfRange)
		}
		if seen1[a] || seen2[b] {
			return fmt.Errorf("axis pair (%d,%d) repeats an axis: %w", a, b, ErrIncompatible)
		}
		seen1[a], seen2[b] = true, true
		if (a < p1) == (b < p2) {
			return fmt.Errorf("contraction of axis %d with axis %d: %w", a, b, ErrMixedVariance)
		}
	}
	return nil
}
