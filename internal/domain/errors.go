package domain

import "errors"

// Coordination failures are always reported to the initiating connection
// only; none of them is fatal to the process.
var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room full")
	ErrAccessDenied  = errors.New("access denied")
	ErrAlreadyMember = errors.New("already a room member")
	ErrNotMember     = errors.New("not a room member")
	ErrUnauthorized  = errors.New("sender is not a member of the room")
	ErrInvalidKind   = errors.New("invalid room kind")
)
