package domain

import (
	"errors"
	"fmt"
)

var ErrAccountNotFound = errors.New("account not found")

// TransportError is returned by the command gateway when the console endpoint
// could not be reached, answered with a non-success status, or produced a
// reply without the expected result element. It never carries credentials.
type TransportError struct {
	Status int // HTTP status, 0 when the call never completed
	Reason string
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("console endpoint: %d %s", e.Status, e.Reason)
	}
	return "console endpoint: " + e.Reason
}
