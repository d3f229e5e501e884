package domain

import "errors"

// Sentinel errors returned by services and repositories. The HTTP layer maps
// them to status codes; callers test with errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("not allowed")
	ErrUserNotFound = errors.New("user not found")

	ErrSelfConnection      = errors.New("cannot connect to yourself")
	ErrDuplicateConnection = errors.New("connection already exists")
	ErrConnectionBlocked   = errors.New("connection is blocked")
	ErrNotPending          = errors.New("request is not pending")
	ErrRequestsDisabled    = errors.New("user is not accepting requests")
	ErrNotConnected        = errors.New("users are not connected")

	ErrSessionNotActive = errors.New("session is not active")
	ErrDeadlinePassed   = errors.New("voting deadline has passed")
	ErrDuplicateOption  = errors.New("restaurant already proposed in this session")
	ErrNotParticipant   = errors.New("not a participant of this session")
	ErrInvalidWeight    = errors.New("vote weight out of range")
)
