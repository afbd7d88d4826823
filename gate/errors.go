package gate

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoRole       = errors.New("no role assigned")
)
