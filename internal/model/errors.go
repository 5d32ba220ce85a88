package model

import "errors"

var (
	// ErrNotFound is returned by stores when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique constraint is violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotOwner is returned when a mutation is attempted by a user that
	// does not own the target row.
	ErrNotOwner = errors.New("not owner")
)
