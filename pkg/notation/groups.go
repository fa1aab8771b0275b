package notation

import (
	"mercator-hq/tensorix/pkg/notation/ast"
	"mercator-hq/tensorix/pkg/tensor"
)

// applyGroups symmetrizes or antisymmetrizes over each group of part,
// leftmost first. Covariant groups are offset by the contravariant rank of
// the current tensor.
func (e *Expression) applyGroups(part ast.Part) error {
	for _, g := range part.Groups {
		offset := 0
		if part.Variance == ast.Covariant {
			offset, _ = e.tensor.Rank()
		}
		axes := make([]int, g.Len())
		for i := range axes {
			axes[i] = offset + g.Start + i
		}

		var err error
		if g.Kind == ast.Antisymmetric {
			err = e.apply(Operation{Kind: OpAntisymmetrize, Axes: axes}, func() (tensor.Tensor, error) {
				return e.tensor.Antisymmetrize(axes...)
			})
		} else {
			err = e.apply(Operation{Kind: OpSymmetrize, Axes: axes}, func() (tensor.Tensor, error) {
				return e.tensor.Symmetrize(axes...)
			})
		}
		if err != nil {
			return err
		}
	}
	return nil
}
