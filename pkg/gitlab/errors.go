package gitlab

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned before any network activity when no token
// has been set. Recoverable by calling configure_gitlab.
var ErrNotConfigured = errors.New("GitLab token is not set; run configure_gitlab first")

// ArgumentError reports a caller-supplied parameter that failed local
// validation. It never reaches the network.
type ArgumentError struct {
	Name   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %q %s", e.Name, e.Reason)
}

// RemoteError carries an upstream API failure. StatusCode is zero for
// transport-level failures, in which case exactly one of Timeout or
// Unreachable is set.
type RemoteError struct {
	StatusCode  int
	Message     string
	Timeout     bool
	Unreachable bool
}

func (e *RemoteError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("request timed out: %s", e.Message)
	case e.Unreachable:
		return fmt.Sprintf("GitLab unreachable: %s", e.Message)
	default:
		return fmt.Sprintf("GitLab API returned %d: %s", e.StatusCode, e.Message)
	}
}

// InternalError signals a contract drift with the upstream API, such as
// a response body that could not be decoded.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}
