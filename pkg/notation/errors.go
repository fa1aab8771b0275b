package notation

import "fmt"

// OperationError wraps a failure of the tensor while applying notation.
type OperationError struct {
	Op       Operation
	Notation string
	Err      error
}

func (e *OperationError) Error() string {
	if e.Notation == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s for %q: %v", e.Op, e.Notation, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
