// Package storage defines the error taxonomy and outcome type shared by all
// persistence backends.
package storage

import "errors"

var (
	// ErrDuplicateEntity reports an insert that collided with an existing
	// row on a unique key.
	ErrDuplicateEntity = errors.New("duplicate entity")

	// ErrInvalidArgument reports caller input that can never succeed, such
	// as a malformed identifier or a nil required value.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidOperation reports an operation invoked in a state it does
	// not support, such as inserting an entity without an assigned id.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrStoreUnavailable reports a backend failure: connectivity, timeout,
	// or an unexpected database error.
	ErrStoreUnavailable = errors.New("store unavailable")
)
