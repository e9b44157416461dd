// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-builder.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrBufferPoolClosed  = errors.New("buffer pool is closed")

	// ErrBuilderEmpty reports RemoveLast on a builder with no filled slots.
	ErrBuilderEmpty = errors.New("builder is empty")

	// ErrBuilderReleased reports use of a builder after Release.
	ErrBuilderReleased = errors.New("builder already released")

	// ErrCapacityExhausted reports that growth cannot produce a larger
	// backing store without exceeding the maximum sequence length.
	ErrCapacityExhausted = &Error{Code: ErrCodeResourceExhausted, Message: "builder capacity exhausted"}
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeResourceExhausted
	ErrCodeClosed
	ErrCodeInternal
)

var codeSentinels = map[ErrorCode]error{
	ErrCodeInvalidArgument:   ErrInvalidArgument,
	ErrCodeResourceExhausted: ErrResourceExhausted,
	ErrCodeClosed:            ErrBufferPoolClosed,
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap exposes the sentinel matching the error code, so
// errors.Is(err, ErrResourceExhausted) holds for coded errors.
func (e *Error) Unwrap() error {
	return codeSentinels[e.Code]
}

// Is matches another *Error by code and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Message == e.Message
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
