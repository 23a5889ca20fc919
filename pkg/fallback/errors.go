package fallback

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAllBackendsFailed is the sentinel matched by errors.Is when an
// invocation exhausts the whole chain.
var ErrAllBackendsFailed = errors.New("all generation backends failed")

// Attempt records one failed backend call within an invocation.
type Attempt struct {
	Backend string
	Err     error
}

// AllBackendsFailedError reports that every backend in the chain
// failed for a single invocation, preserving the order and cause of
// each attempt.
type AllBackendsFailedError struct {
	Attempts []Attempt
}

func (e *AllBackendsFailedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "all %d generation backends failed:", len(e.Attempts))
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, " %s: %v;", a.Backend, a.Err)
	}
	return strings.TrimSuffix(b.String(), ";")
}

func (e *AllBackendsFailedError) Is(target error) bool {
	return target == ErrAllBackendsFailed
}

// Unwrap exposes the individual attempt errors so errors.Is and
// errors.As can reach backend-level error kinds.
func (e *AllBackendsFailedError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a.Err
	}
	return errs
}
