package errors

import "fmt"

// SuggestRank tells how many indices a part needs.
func SuggestRank(variance string, want int) string {
	switch want {
	case 0:
		return fmt.Sprintf("the tensor has no %s indices; drop that part", variance)
	case 1:
		return fmt.Sprintf("give exactly 1 %s index", variance)
	default:
		return fmt.Sprintf("give exactly %d %s indices", want, variance)
	}
}

// SuggestWildcard is attached to repeated letters within one part.
func SuggestWildcard(letter byte) string {
	return fmt.Sprintf("use distinct letters, or '.' if index %c should be left alone", letter)
}

// SuggestGroup is attached to malformed groups.
func SuggestGroup() string {
	return "groups hold at least two indices, e.g. (ij) or [kl], and cannot be nested"
}
