package scenario

import (
	"errors"
	"fmt"
	"math/big"

	"mercator-hq/tensorix/pkg/notation"
	notationErrors "mercator-hq/tensorix/pkg/notation/errors"
	"mercator-hq/tensorix/pkg/tensor"
	"mercator-hq/tensorix/pkg/tensor/dense"
	"mercator-hq/tensorix/pkg/tensor/symbolic"
)

// Defaults supply the basis of suites that do not declare one.
type Defaults struct {
	Dimension int
	Basis     string
}

// buildTensors creates the tensors declared by s.
func buildTensors(s *Suite, d Defaults) (map[string]tensor.Tensor, error) {
	dim := s.Dimension
	if dim == 0 {
		dim = d.Dimension
	}
	basisName := s.Basis
	if basisName == "" {
		basisName = d.Basis
	}

	out := make(map[string]tensor.Tensor, len(s.Tensors))
	for _, spec := range s.Tensors {
		b := dense.Basis{Name: basisName, Dim: dim}
		if spec.Basis != "" {
			b.Name = spec.Basis
		}
		p, q := spec.Type[0], spec.Type[1]

		if spec.Symbolic {
			out[spec.Name] = symbolic.New(b.Name, spec.Name, p, q)
			continue
		}

		var t *dense.Tensor
		var err error
		if spec.Seed != nil {
			t, err = dense.Random(b, p, q, *spec.Seed)
		} else {
			t, err = dense.New(b, p, q)
		}
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", spec.Name, err)
		}
		t = t.WithName(spec.Name)
		for _, c := range spec.Components {
			v, _ := new(big.Rat).SetString(c.Value)
			if err := t.Set(v, c.Index...); err != nil {
				return nil, fmt.Errorf("tensor %q: component %v: %w", spec.Name, c.Index, err)
			}
		}
		out[spec.Name] = t
	}
	return out, nil
}

// env evaluates operands of one check.
type env struct {
	tensors map[string]tensor.Tensor
	opts    []notation.Option
}

// eval returns a *notation.Expression or a tensor.Tensor.
func (e *env) eval(o *Operand) (any, error) {
	var v any
	if len(o.Product) > 0 {
		a, err := e.eval(&o.Product[0])
		if err != nil {
			return nil, err
		}
		b, err := e.eval(&o.Product[1])
		if err != nil {
			return nil, err
		}
		if v, err = notation.Mul(a, b); err != nil {
			return nil, err
		}
	} else {
		t, ok := e.tensors[o.Tensor]
		if !ok {
			return nil, fmt.Errorf("unknown tensor %q", o.Tensor)
		}
		v = t
		if o.Indices != nil {
			ex, err := notation.New(t, *o.Indices, e.opts...)
			if err != nil {
				return nil, err
			}
			v = ex
		}
	}
	return e.apply(o, v)
}

func (e *env) apply(o *Operand, v any) (any, error) {
	ex, isExpr := v.(*notation.Expression)
	switch o.Op {
	case "":
		return v, nil
	case "resolve":
		return resolve(v), nil
	case "scale":
		f, _ := new(big.Rat).SetString(o.Factor)
		if isExpr {
			return ex.Scale(f)
		}
		return tensorOf(v).Scale(f)
	case "neg":
		if isExpr {
			return ex.Neg()
		}
		return tensorOf(v).Neg()
	case "pos":
		if isExpr {
			return ex.Pos()
		}
		return tensorOf(v).Pos()
	case "symmetrize":
		return tensorOf(v).Symmetrize(o.Axes...)
	case "antisymmetrize":
		return tensorOf(v).Antisymmetrize(o.Axes...)
	case "trace":
		return tensorOf(v).Trace(o.Axes[0], o.Axes[1])
	case "contract", "product":
		w, err := e.eval(o.With)
		if err != nil {
			return nil, err
		}
		if o.Op == "product" {
			return tensorOf(v).Product(tensorOf(w))
		}
		return tensorOf(v).Contract(o.Axes, tensorOf(w), o.WithAxes)
	default:
		return nil, fmt.Errorf("unknown op %q", o.Op)
	}
}

func tensorOf(v any) tensor.Tensor {
	if ex, ok := v.(*notation.Expression); ok {
		return ex.Tensor()
	}
	return v.(tensor.Tensor)
}

func resolve(v any) any {
	if ex, ok := v.(*notation.Expression); ok {
		return ex.Resolve()
	}
	return v
}

// compare resolves both values and compares expressions with expressions
// and tensors with tensors. Values of different kinds are unequal.
func compare(l, r any) (bool, error) {
	l, r = resolve(l), resolve(r)
	le, lok := l.(*notation.Expression)
	re, rok := r.(*notation.Expression)
	switch {
	case lok && rok:
		return le.Equal(re)
	case !lok && !rok:
		return l.(tensor.Tensor).Equal(r.(tensor.Tensor))
	default:
		return false, nil
	}
}

// display renders a value the way a user refers to it.
func display(v any) string {
	switch x := v.(type) {
	case *notation.Expression:
		return x.String()
	case *symbolic.Tensor:
		return x.Expr()
	case tensor.Tensor:
		if name := tensor.NameOf(x); name != "" {
			return name
		}
		return fmt.Sprint(x)
	default:
		return fmt.Sprint(v)
	}
}

// Error kinds that a check can expect besides the notation error types.
const (
	KindNoCommonBasis  = "no_common_basis"
	KindAxisOutOfRange = "axis_out_of_range"
	KindMixedVariance  = "mixed_variance"
	KindIncompatible   = "incompatible"
	KindUnclassified   = "error"
)

// ErrorKind classifies err for comparison with an expected error.
func ErrorKind(err error) string {
	if t := notationErrors.TypeOf(err); t != "" {
		return string(t)
	}
	switch {
	case errors.Is(err, tensor.ErrNoCommonBasis):
		return KindNoCommonBasis
	case errors.Is(err, tensor.ErrAxisOutOfRange):
		return KindAxisOutOfRange
	case errors.Is(err, tensor.ErrMixedVariance):
		return KindMixedVariance
	case errors.Is(err, tensor.ErrIncompatible):
		return KindIncompatible
	default:
		return KindUnclassified
	}
}
