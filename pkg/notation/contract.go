package notation

import (
	"strings"

	"mercator-hq/tensorix/pkg/notation/ast"
	notationErrors "mercator-hq/tensorix/pkg/notation/errors"
	"mercator-hq/tensorix/pkg/tensor"
)

// axisPair joins a contravariant axis with a covariant axis, both counted
// on the full axis list of a tensor.
type axisPair struct {
	upper, lower int
}

// selfContractionPairs lists, in contravariant order, the letters present in
// both con and cov together with their axes on a tensor of contravariant
// rank len(con).
func selfContractionPairs(con, cov string) ([]axisPair, []byte) {
	var pairs []axisPair
	var letters []byte
	for i := 0; i < len(con); i++ {
		c := con[i]
		if c == ast.Wildcard {
			continue
		}
		if j := strings.IndexByte(cov, c); j >= 0 {
			pairs = append(pairs, axisPair{upper: i, lower: len(con) + j})
			letters = append(letters, c)
		}
	}
	return pairs, letters
}

// renumber shifts a pending pair after removed was traced out. Removing
// one contravariant axis moves every covariant axis down by one.
func renumber(pending, removed axisPair) axisPair {
	if pending.upper > removed.upper {
		pending.upper--
	}
	if pending.lower > removed.lower {
		pending.lower--
	}
	pending.lower--
	return pending
}

// selfContract traces every letter shared by con and cov, last pair first.
func (e *Expression) selfContract() error {
	pairs, letters := selfContractionPairs(e.con, e.cov)
	for len(pairs) > 0 {
		last := len(pairs) - 1
		pair, letter := pairs[last], letters[last]
		pairs, letters = pairs[:last], letters[:last]

		op := Operation{Kind: OpTrace, Axes: []int{pair.upper, pair.lower}}
		if err := e.apply(op, func() (tensor.Tensor, error) {
			return e.tensor.Trace(pair.upper, pair.lower)
		}); err != nil {
			return err
		}
		for i := range pairs {
			pairs[i] = renumber(pairs[i], pair)
		}
		e.con = removeByte(e.con, letter)
		e.cov = removeByte(e.cov, letter)
	}
	return nil
}

func removeByte(s string, c byte) string {
	i := strings.IndexByte(s, c)
	if i < 0 {
		return s
	}
	return s[:i] + s[i+1:]
}

// contractionPairs lists the axes joined when multiplying e with other.
// A letter found in the same variance on both sides is an error.
func contractionPairs(e, other *Expression) (axes, otherAxes []int, err error) {
	p, _ := e.tensor.Rank()
	op, _ := other.tensor.Rank()
	for i := 0; i < len(e.con); i++ {
		c := e.con[i]
		if c == ast.Wildcard {
			continue
		}
		if strings.IndexByte(other.con, c) >= 0 {
			return nil, nil, notationErrors.NewCollisionError(c, "contravariant")
		}
		if j := strings.IndexByte(other.cov, c); j >= 0 {
			axes = append(axes, i)
			otherAxes = append(otherAxes, op+j)
		}
	}
	for i := 0; i < len(e.cov); i++ {
		c := e.cov[i]
		if c == ast.Wildcard {
			continue
		}
		if strings.IndexByte(other.cov, c) >= 0 {
			return nil, nil, notationErrors.NewCollisionError(c, "covariant")
		}
		if j := strings.IndexByte(other.con, c); j >= 0 {
			axes = append(axes, p+i)
			otherAxes = append(otherAxes, j)
		}
	}
	return axes, otherAxes, nil
}
