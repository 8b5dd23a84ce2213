package household

import "errors"

var (
	ErrHouseholdNotFound = errors.New("household not found")
	ErrNameRequired      = errors.New("household name is required")
)
