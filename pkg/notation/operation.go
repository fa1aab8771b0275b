package notation

import (
	"fmt"
	"strconv"
	"strings"
)

// OpKind names a tensor operation triggered by notation.
type OpKind string

const (
	OpSymmetrize     OpKind = "symmetrize"
	OpAntisymmetrize OpKind = "antisymmetrize"
	OpTrace          OpKind = "trace"
	OpContract       OpKind = "contract"
	OpProduct        OpKind = "product"
)

// Operation records one call into the tensor. For OpTrace, Axes holds the
// contravariant and covariant axis; for OpContract, Axes belong to the left
// operand and OtherAxes to the right one.
type Operation struct {
	Kind      OpKind `json:"kind"`
	Axes      []int  `json:"axes,omitempty"`
	OtherAxes []int  `json:"other_axes,omitempty"`
}

func (op Operation) String() string {
	switch op.Kind {
	case OpContract:
		return fmt.Sprintf("contract(%s; %s)", joinAxes(op.Axes), joinAxes(op.OtherAxes))
	case OpProduct:
		return "product"
	default:
		return fmt.Sprintf("%s(%s)", op.Kind, joinAxes(op.Axes))
	}
}

func joinAxes(axes []int) string {
	parts := make([]string, len(axes))
	for i, a := range axes {
		parts[i] = strconv.Itoa(a)
	}
	return strings.Join(parts, ",")
}
