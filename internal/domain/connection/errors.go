package connection

import "errors"

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrInvalidKind        = errors.New("invalid relationship kind")
	ErrSelfConnection     = errors.New("cannot connect to yourself")
	ErrConnectionExists   = errors.New("connection already exists")
	ErrNotInvitee         = errors.New("only the invitee may act on a request")
	ErrNotParticipant     = errors.New("not a participant of this connection")
	ErrAlreadyResolved    = errors.New("request already resolved")
)
