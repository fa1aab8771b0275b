// Package parser turns index notation strings into ast.Indices.
//
// # Grammar
//
// Curly braces are ignored everywhere so that LaTeX-style input such as
// "^{ij}_{k}" is accepted. After that a notation is one of
//
//	[^] PART [_ PART]      contravariant part first
//	_ PART [^ PART]        covariant part first
//
// where PART is a sequence of index symbols (ASCII letters or '.') and
// groups. A group is "(" or "[" followed by at least two symbols and the
// matching closer; groups do not nest. A letter may occur once per part;
// the wildcard '.' may repeat.
//
// # Basic Usage
//
//	p := parser.NewParser().WithMaxLength(128)
//	ind, err := p.Parse("^(ij)_k")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := parser.ValidateRank(ind, 2, 1); err != nil {
//	    log.Fatal(err)
//	}
package parser
