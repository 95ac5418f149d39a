package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources, including
	// resources that exist but belong to a different user.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState is a sentinel for operations against a session whose
	// status does not admit them.
	ErrInvalidState = errors.New("invalid state")
)
