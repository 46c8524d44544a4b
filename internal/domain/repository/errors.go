package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a uniqueness constraint rejects a write
	// (duplicate interest, duplicate active adoption request, taken email).
	ErrDuplicate = errors.New("duplicate")
	// ErrAlreadyAdopted is returned when an adoption confirmation races a
	// listing that already reached its terminal status.
	ErrAlreadyAdopted = errors.New("already adopted")
)
