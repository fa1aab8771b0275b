// Package errors provides the error type reported by index notation parsing
// and evaluation.
//
// Every failure carries an ErrorType so callers can branch with errors.Is:
//
//	_, err := notation.New(t, "^ii")
//	if errors.Is(err, notationErrors.ErrFormat) {
//	    // malformed notation
//	}
//
// # Error Types
//
// TypeFormat: the notation does not follow the grammar, or repeats a letter
// within one variance
//
// TypeRankMismatch: the number of indices differs from the tensor type
//
// TypeContractionCollision: a letter appears in the same variance on both
// operands of a multiplication
//
// TypeOperandType: a multiplication operand is not an index expression
//
// Errors that know where in the notation they happened render a caret
// under the offending character.
package errors
