package catalog

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned when a protected action is attempted without a
// credential, or when the server rejects the credential presented.
var ErrAuthRequired = errors.New("sign in required")

// ErrNetwork matches every *NetworkError via errors.Is.
var ErrNetwork = errors.New("network failure")

// NetworkError reports a transient failure of a remote call.
type NetworkError struct {
	Op     string
	Status int // zero when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Status > 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Status > 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": network failure"
	}
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNetwork) match any NetworkError.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }
