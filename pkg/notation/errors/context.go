package errors

import (
	stderrors "errors"
	"strings"
)

// Context renders the notation with a caret under the 1-based column:
//
//	| ^(ij)^(kl)
//	|      ^
func Context(notation string, column int) string {
	var sb strings.Builder
	sb.WriteString("  | ")
	sb.WriteString(notation)
	if column > 0 {
		sb.WriteString("\n  | ")
		sb.WriteString(strings.Repeat(" ", column-1))
		sb.WriteByte('^')
	}
	return sb.String()
}

// As is errors.As, re-exported because this package shadows the standard
// library name.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
