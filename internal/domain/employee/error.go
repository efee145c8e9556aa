package employee

import "errors"

var (
	ErrNotFound      = errors.New("employee not found")
	ErrInvalidAuth   = errors.New("invalid password")
	ErrInvalidInput  = errors.New("invalid input")
	ErrAlreadyExists = errors.New("employee already exists")
)
