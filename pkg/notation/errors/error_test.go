package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := NewFormatError("^(ij)^(kl)", 5, "unexpected %q", '^')
	err.Suggestion = "give each variance once"

	want := "[format] unexpected '^'\n" +
		"  | ^(ij)^(kl)\n" +
		"  |      ^\n" +
		"  = suggestion: give each variance once"
	if got := err.Error(); got != want {
		t.Errorf("Error() =\n%s\nwant\n%s", got, want)
	}
}

func TestError_NoPosition(t *testing.T) {
	err := NewCollisionError('k', "covariant")
	want := "[contraction_collision] index k appears twice in a covariant position\n" +
		"  = suggestion: contracted indices must be upper on one operand and lower on the other"
	if got := err.Error(); got != want {
		t.Errorf("Error() =\n%s\nwant\n%s", got, want)
	}
}

func TestError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"format", NewFormatError("ii", 1, "repeated"), ErrFormat, true},
		{"wrapped", fmt.Errorf("parse: %w", NewFormatError("ii", 1, "repeated")), ErrFormat, true},
		{"other type", NewFormatError("ii", 1, "repeated"), ErrRankMismatch, false},
		{"rank", NewRankMismatchError("^i", "contravariant", 1, 2), ErrRankMismatch, true},
		{"operand", NewOperandError(3), ErrOperandType, true},
		{"plain", errors.New("x"), ErrFormat, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTypeOf(t *testing.T) {
	if got := TypeOf(fmt.Errorf("x: %w", NewOperandError("s"))); got != TypeOperandType {
		t.Errorf("TypeOf() = %q, want %q", got, TypeOperandType)
	}
	if got := TypeOf(errors.New("x")); got != "" {
		t.Errorf("TypeOf() = %q, want empty", got)
	}
}

func TestSuggestRank(t *testing.T) {
	tests := []struct {
		want int
		out  string
	}{
		{0, "the tensor has no covariant indices; drop that part"},
		{1, "give exactly 1 covariant index"},
		{3, "give exactly 3 covariant indices"},
	}
	for _, tt := range tests {
		if got := SuggestRank("covariant", tt.want); got != tt.out {
			t.Errorf("SuggestRank(%d) = %q, want %q", tt.want, got, tt.out)
		}
	}
}
