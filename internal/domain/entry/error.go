package entry

import "errors"

var (
	ErrUnknownKind    = errors.New("unknown entry kind")
	ErrInvalidPayload = errors.New("invalid entry payload")
)
