package coach

import "fmt"

// ErrInvalidInput reports a request the coach refuses before touching
// storage.
type ErrInvalidInput struct {
	Field  string
	Reason string
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ErrInvalidInput{Field: field, Reason: fmt.Sprintf(format, args...)}
}
