// Package ast defines the parsed form of an index notation string.
//
// A notation such as "^(ij)_k[lm]" parses into an Indices value holding two
// Parts, one per variance. Each Part is an ordered list of Tokens (a letter
// or the wildcard '.') together with the Groups that asked for a
// symmetrization or antisymmetrization over a run of those tokens.
//
// # Core Types
//
// Indices: both parts of a notation and the notation itself
//
// Part: tokens and groups of one variance
//
// Token: one index symbol and its byte offset in the notation
//
// Group: a half-open token range with its kind
//
// # Basic Usage
//
//	ind, err := parser.NewParser().Parse("^(ij)_[kl]")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ind.Contravariant.Letters()) // "ij"
//	for _, g := range ind.Contravariant.Groups {
//	    fmt.Println(g.Kind, g.Start, g.End) // symmetric 0 2
//	}
package ast
