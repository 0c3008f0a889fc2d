package classify

import "fmt"

// ProtocolError indicates the model broke the function-call contract: the
// response must contain exactly one call to the declared function.
type ProtocolError struct {
	Calls int
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("expected exactly one function call, got %d", e.Calls)
}

// SchemaError indicates the function-call payload did not satisfy the
// tagged-union invariant. The payload is rejected, never coerced.
type SchemaError struct {
	Reason  string
	Missing []string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("invalid document analysis: %s (missing: %v)", e.Reason, e.Missing)
	}
	return fmt.Sprintf("invalid document analysis: %s", e.Reason)
}
