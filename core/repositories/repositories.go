// Package repositories holds the error kinds shared by every repository.
// Repository specific errors wrap one of these so callers can classify them
// with errors.Is.
package repositories

import (
	"errors"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrNotOwner      = errors.New("not owner")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalid       = errors.New("invalid request")
)
