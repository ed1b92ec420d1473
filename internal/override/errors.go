package override

import "fmt"

// ValidationError reports a failed Apply precondition: missing host
// configuration or an out-of-scope run. It carries the one human-readable
// reason surfaced for the attempt.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
