// Package errors holds the sentinels repos and services wrap. apierr maps
// each one to an HTTP status.
package errors

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("unauthorized")
	// ErrConflict marks a write that collides with an existing row, such as a
	// second rating for the same student and content.
	ErrConflict = errors.New("conflict")
)
