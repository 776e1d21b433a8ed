package codacy

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of a client error
type ErrorKind string

const (
	ErrorKindRequest   ErrorKind = "request"
	ErrorKindTransport ErrorKind = "transport"
	ErrorKindDecode    ErrorKind = "decode"
)

// ClientError represents a structured error with additional context
type ClientError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface
func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ClientError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewClientError creates a new client error
func NewClientError(kind ErrorKind, message string, err error) *ClientError {
	return &ClientError{Kind: kind, Message: message, Err: err}
}

// IsTransportError checks if an error is a transport-level failure
func IsTransportError(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Kind == ErrorKindTransport
	}
	return false
}

// IsDecodeError checks if an error is a response decode failure
func IsDecodeError(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Kind == ErrorKindDecode
	}
	return false
}

// IsRequestError checks if an error is a request construction failure
func IsRequestError(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Kind == ErrorKindRequest
	}
	return false
}
