// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a completion call failed.
type ErrorKind string

const (
	// KindConfig: the request could not be built (missing model or URL).
	KindConfig ErrorKind = "config"
	// KindTransport: connection failure, timeout, or a broken stream.
	KindTransport ErrorKind = "transport"
	// KindStatus: the service answered with a non-200 status or an error object.
	KindStatus ErrorKind = "status"
	// KindDecode: the response body was not the expected JSON.
	KindDecode ErrorKind = "decode"
	// KindEmpty: the response carried no completion text.
	KindEmpty ErrorKind = "empty"
)

// Error is a classified completion failure.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm %s error (HTTP %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("llm %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the classification of err, or "" when err is nil or did not
// come from this package.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
