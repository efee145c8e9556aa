package sheet

import "errors"

var (
	ErrNotFound     = errors.New("entry not found")
	ErrForbidden    = errors.New("not allowed for this user")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnknownSheet = errors.New("unknown sheet")
)
