// Package scenario runs YAML suites of index notation checks.
//
// A suite declares tensors and checks. Each check evaluates a left operand,
// optionally a right operand, and compares the outcome with an
// expectation:
//
//	name: identities
//	dimension: 3
//	tensors:
//	  - name: t
//	    type: [2, 2]
//	    seed: 7
//	checks:
//	  - name: symmetrize upper pair
//	    left:  {tensor: t, indices: "^(ij)_kl"}
//	    right: {tensor: t, op: symmetrize, axes: [0, 1]}
//	  - name: nested groups are rejected
//	    left:   {tensor: t, indices: "^([ij])_kl"}
//	    expect: {error: format}
//
// An operand names a tensor, optionally applies index notation to it and
// optionally applies one more operation; or it multiplies two operands
// with the product key. Expressions are resolved before comparison.
package scenario
