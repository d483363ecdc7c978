// Package errors provides the error types shared by all liquid S3 driver
// operations.
package errors

import (
	"errors"
	"fmt"
)

// Error describes a failed storage operation together with the context needed
// to understand it: the operation name, the bucket, and the object key when one
// was involved. It wraps the underlying cause so callers can keep using
// errors.Is and errors.As on the chain.
type Error struct {
	// Op is the operation that failed (e.g., "upload", "copy", "delete")
	Op string

	// Bucket is the bucket the operation targeted (if applicable)
	Bucket string

	// Key is the object key the operation targeted (if applicable)
	Key string

	// Err is the underlying cause
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("liquids3.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("liquids3.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("liquids3.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("liquids3.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// Sentinel errors reported by the driver. Match them with errors.Is; they
// survive any amount of wrapping done by the operation layer.
var (
	// ErrConfiguration indicates the driver was constructed with unusable
	// settings, such as a missing or malformed bucket name
	ErrConfiguration = errors.New("liquids3: invalid configuration")

	// ErrKeyNotExists indicates that the addressed object does not exist
	ErrKeyNotExists = errors.New("liquids3: key does not exist")

	// ErrPartialFailure indicates a compound operation completed some but not
	// all of its steps, e.g. a move whose copy succeeded and whose delete of
	// the source failed
	ErrPartialFailure = errors.New("liquids3: operation partially completed")

	// ErrBucketNotFound indicates that the configured bucket does not exist
	ErrBucketNotFound = errors.New("liquids3: bucket not found")

	// ErrBucketAlreadyExists indicates that the bucket already exists and is
	// owned by another account
	ErrBucketAlreadyExists = errors.New("liquids3: bucket already exists")

	// ErrAccessDenied indicates that access to the resource was denied
	ErrAccessDenied = errors.New("liquids3: access denied")

	// ErrInvalidInput indicates that a caller-provided value is invalid
	ErrInvalidInput = errors.New("liquids3: invalid input")
)

// IsConfiguration checks if an error stems from an unusable driver
// configuration.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsKeyNotExists checks if an error indicates that an object was not found.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsKeyNotExists(err error) bool {
	return errors.Is(err, ErrKeyNotExists)
}

// IsPartialFailure checks if an error indicates a partially completed
// compound operation.
func IsPartialFailure(err error) bool {
	return errors.Is(err, ErrPartialFailure)
}

// IsBucketNotFound checks if an error indicates that a bucket was not found.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsAccessDenied checks if an error indicates access was denied.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidInput checks if an error indicates invalid input.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
