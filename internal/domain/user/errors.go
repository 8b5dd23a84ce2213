package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrIdentifierRequired = errors.New("identifier is required")
)
