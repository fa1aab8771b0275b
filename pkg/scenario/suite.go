package scenario

import (
	"fmt"
	"math/big"
	"os"

	"gopkg.in/yaml.v3"
)

// Suite is a named collection of tensors and checks.
type Suite struct {
	Name      string       `yaml:"name"`
	Dimension int          `yaml:"dimension"`
	Basis     string       `yaml:"basis"`
	Tensors   []TensorSpec `yaml:"tensors"`
	Checks    []Check      `yaml:"checks"`

	// Source is the file the suite was loaded from.
	Source string `yaml:"-"`
}

// TensorSpec declares a tensor of the suite.
type TensorSpec struct {
	Name string `yaml:"name"`
	Type []int  `yaml:"type"`

	// Seed fills the tensor with deterministic small integers.
	Seed *uint64 `yaml:"seed"`

	// Components set individual components, after Seed if both are given.
	Components []ComponentSpec `yaml:"components"`

	// Basis overrides the suite basis name for this tensor.
	Basis string `yaml:"basis"`

	// Symbolic declares a component-free tensor that records the
	// operations applied to it.
	Symbolic bool `yaml:"symbolic"`
}

// ComponentSpec is one component of a tensor.
type ComponentSpec struct {
	Index []int  `yaml:"index"`
	Value string `yaml:"value"`
}

// Check compares Left with Right, or Left with Expect.
type Check struct {
	Name   string      `yaml:"name"`
	Left   Operand     `yaml:"left"`
	Right  *Operand    `yaml:"right"`
	Expect Expectation `yaml:"expect"`
}

// Operand describes a value to evaluate.
type Operand struct {
	Tensor  string  `yaml:"tensor"`
	Indices *string `yaml:"indices"`

	// Op applies one more operation: symmetrize, antisymmetrize, trace,
	// contract, product, scale, neg, pos or resolve.
	Op       string   `yaml:"op"`
	Axes     []int    `yaml:"axes"`
	With     *Operand `yaml:"with"`
	WithAxes []int    `yaml:"with_axes"`
	Factor   string   `yaml:"factor"`

	// Product multiplies exactly two operands as index expressions.
	Product []Operand `yaml:"product"`
}

// Expectation is what a check asserts.
type Expectation struct {
	// Result is "equal" (default with a right operand) or "not_equal".
	Result string `yaml:"result"`

	// Error is the expected error kind, e.g. "format" or "no_common_basis".
	Error string `yaml:"error"`

	// Display is the expected rendering of the left operand.
	Display string `yaml:"display"`

	// Scalar is the expected value of a scalar result, e.g. "-3/2".
	Scalar string `yaml:"scalar"`

	// Expr is the expected expression of a symbolic result.
	Expr string `yaml:"expr"`
}

// LoadError reports a suite that cannot be read or is malformed.
type LoadError struct {
	Source  string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("suite %s: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("suite %s: %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadFile reads and validates a suite file.
func LoadFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Message: "failed to read file", Err: err}
	}
	return LoadBytes(data, path)
}

// LoadBytes parses and validates a suite; source names it in errors.
func LoadBytes(data []byte, source string) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, &LoadError{Source: source, Message: "invalid YAML", Err: err}
	}
	s.Source = source
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

var validOps = map[string]bool{
	"": true, "symmetrize": true, "antisymmetrize": true, "trace": true,
	"contract": true, "product": true, "scale": true, "neg": true,
	"pos": true, "resolve": true,
}

var validResults = map[string]bool{"": true, "equal": true, "not_equal": true}

func (s *Suite) validate() error {
	fail := func(format string, args ...any) error {
		return &LoadError{Source: s.Source, Message: fmt.Sprintf(format, args...)}
	}

	if s.Name == "" {
		return fail("name is required")
	}
	if s.Dimension < 0 {
		return fail("dimension must be positive, got %d", s.Dimension)
	}

	names := make(map[string]bool, len(s.Tensors))
	for i, t := range s.Tensors {
		if t.Name == "" {
			return fail("tensors[%d]: name is required", i)
		}
		if names[t.Name] {
			return fail("tensor %q declared twice", t.Name)
		}
		names[t.Name] = true
		if len(t.Type) != 2 || t.Type[0] < 0 || t.Type[1] < 0 {
			return fail("tensor %q: type must be [p, q] with p, q >= 0, got %v", t.Name, t.Type)
		}
		if t.Symbolic && (t.Seed != nil || len(t.Components) > 0) {
			return fail("tensor %q: a symbolic tensor has no components", t.Name)
		}
		for j, c := range t.Components {
			if len(c.Index) != t.Type[0]+t.Type[1] {
				return fail("tensor %q: components[%d] needs %d indices, got %d",
					t.Name, j, t.Type[0]+t.Type[1], len(c.Index))
			}
			if _, ok := new(big.Rat).SetString(c.Value); !ok {
				return fail("tensor %q: components[%d]: %q is not a rational number", t.Name, j, c.Value)
			}
		}
	}

	if len(s.Checks) == 0 {
		return fail("no checks")
	}
	for i, c := range s.Checks {
		if c.Name == "" {
			return fail("checks[%d]: name is required", i)
		}
		if err := validateOperand(&c.Left, names); err != nil {
			return fail("check %q: left: %s", c.Name, err)
		}
		if c.Right != nil {
			if err := validateOperand(c.Right, names); err != nil {
				return fail("check %q: right: %s", c.Name, err)
			}
		}
		if !validResults[c.Expect.Result] {
			return fail("check %q: result must be equal or not_equal, got %q", c.Name, c.Expect.Result)
		}
		if c.Right == nil && c.Expect.Error == "" && c.Expect.Display == "" &&
			c.Expect.Scalar == "" && c.Expect.Expr == "" {
			return fail("check %q: nothing to check, give a right operand or an expectation", c.Name)
		}
		if c.Expect.Scalar != "" {
			if _, ok := new(big.Rat).SetString(c.Expect.Scalar); !ok {
				return fail("check %q: scalar %q is not a rational number", c.Name, c.Expect.Scalar)
			}
		}
	}
	return nil
}

func validateOperand(o *Operand, tensors map[string]bool) error {
	if len(o.Product) > 0 {
		if o.Tensor != "" || o.Indices != nil {
			return fmt.Errorf("product cannot be combined with tensor or indices")
		}
		if len(o.Product) != 2 {
			return fmt.Errorf("product takes exactly 2 operands, got %d", len(o.Product))
		}
		for i := range o.Product {
			if err := validateOperand(&o.Product[i], tensors); err != nil {
				return fmt.Errorf("product[%d]: %s", i, err)
			}
		}
	} else {
		if o.Tensor == "" {
			return fmt.Errorf("tensor or product is required")
		}
		if !tensors[o.Tensor] {
			return fmt.Errorf("unknown tensor %q", o.Tensor)
		}
	}

	if !validOps[o.Op] {
		return fmt.Errorf("unknown op %q", o.Op)
	}
	switch o.Op {
	case "trace":
		if len(o.Axes) != 2 {
			return fmt.Errorf("trace takes 2 axes, got %d", len(o.Axes))
		}
	case "contract", "product":
		if o.With == nil {
			return fmt.Errorf("%s needs a with operand", o.Op)
		}
		if err := validateOperand(o.With, tensors); err != nil {
			return fmt.Errorf("with: %s", err)
		}
		if o.Op == "contract" && len(o.Axes) != len(o.WithAxes) {
			return fmt.Errorf("contract needs as many axes as with_axes")
		}
	case "scale":
		if _, ok := new(big.Rat).SetString(o.Factor); !ok {
			return fmt.Errorf("scale factor %q is not a rational number", o.Factor)
		}
	}
	return nil
}
