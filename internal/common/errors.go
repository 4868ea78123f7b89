package common

import (
	"fmt"
)

// RemoteCallError is returned when an upstream call fails at the transport level
// or answers with a non-2xx status.
type RemoteCallError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *RemoteCallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote call to %s failed with status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("remote call to %s failed: %v", e.URL, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// ParseError is returned when an upstream payload (JSON or image data) cannot be decoded.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
