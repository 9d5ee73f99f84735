package domain

import "errors"

var (
	ErrNotFound        = errors.New("project not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrUnauthenticated = errors.New("no authenticated user")
	ErrNameRequired    = errors.New("name required")
	ErrInvalidType     = errors.New("invalid section type")
)
