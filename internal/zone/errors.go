package zone

import "errors"

// Registry errors.
var (
	ErrExists        = errors.New("zone already exists")
	ErrNotFound      = errors.New("zone not found")
	ErrInvalidName   = errors.New("invalid zone name")
	ErrInvalidSize   = errors.New("zone width and height must be positive")
	ErrInvalidConfig = errors.New("invalid zone config")
	ErrUnknownType   = errors.New("unknown zone type")
)
