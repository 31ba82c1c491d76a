package allocator

import "errors"

var (
	// ErrAlreadyExists is returned when creating an entity whose supplied id is already stored
	ErrAlreadyExists = errors.New("allocator: already exists")
	// ErrMemberNotFound is returned by per-member assignment for an unknown member
	ErrMemberNotFound = errors.New("allocator: member not found")
)
