package errors

import (
	"fmt"
	"strings"
)

// ErrorType categorizes a notation error.
type ErrorType string

const (
	TypeFormat               ErrorType = "format"
	TypeRankMismatch         ErrorType = "rank_mismatch"
	TypeContractionCollision ErrorType = "contraction_collision"
	TypeOperandType          ErrorType = "operand_type"
)

// Sentinels for errors.Is. They match any *Error of the same type.
var (
	ErrFormat               = &Error{Type: TypeFormat}
	ErrRankMismatch         = &Error{Type: TypeRankMismatch}
	ErrContractionCollision = &Error{Type: TypeContractionCollision}
	ErrOperandType          = &Error{Type: TypeOperandType}
)

// Error is a notation error with optional position and suggestion.
type Error struct {
	Type       ErrorType
	Message    string
	Notation   string // notation being processed, if any
	Column     int    // 1-based byte column in Notation, 0 when unknown
	Suggestion string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Type, e.Message)
	if e.Notation != "" || e.Column > 0 {
		sb.WriteByte('\n')
		sb.WriteString(Context(e.Notation, e.Column))
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, "\n  = suggestion: %s", e.Suggestion)
	}
	return sb.String()
}

// Is reports whether target is a sentinel of the same type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return t.Type == e.Type
	}
	return t == e
}

// TypeOf returns the ErrorType of err, or "" when err is not a notation
// error.
func TypeOf(err error) ErrorType {
	var e *Error
	if As(err, &e) {
		return e.Type
	}
	return ""
}

// NewFormatError reports a malformed notation at the given 0-based offset;
// pass a negative offset when no position applies.
func NewFormatError(notation string, offset int, format string, args ...any) *Error {
	return &Error{
		Type:     TypeFormat,
		Message:  fmt.Sprintf(format, args...),
		Notation: notation,
		Column:   offset + 1,
	}
}

// NewRankMismatchError reports a part whose index count differs from the
// tensor rank.
func NewRankMismatchError(notation, variance string, got, want int) *Error {
	return &Error{
		Type:       TypeRankMismatch,
		Message:    fmt.Sprintf("number of %s indices (%d) does not match the tensor rank (%d)", variance, got, want),
		Notation:   notation,
		Suggestion: SuggestRank(variance, want),
	}
}

// NewCollisionError reports a letter found in the same variance of both
// multiplication operands.
func NewCollisionError(letter byte, variance string) *Error {
	return &Error{
		Type:       TypeContractionCollision,
		Message:    fmt.Sprintf("index %c appears twice in a %s position", letter, variance),
		Suggestion: "contracted indices must be upper on one operand and lower on the other",
	}
}

// NewOperandError reports an operand that is not an index expression.
func NewOperandError(operand any) *Error {
	return &Error{
		Type:    TypeOperandType,
		Message: fmt.Sprintf("cannot multiply an index expression with %T", operand),
	}
}
