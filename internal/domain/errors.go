package domain

import "errors"

// Engine errors. Callers match them with errors.Is; call sites wrap them
// with context.
var (
	ErrInvalidInterval     = errors.New("invalid interval: end precedes start")
	ErrNoActiveWorkSession = errors.New("no active work session")
	ErrBreakAlreadyOpen    = errors.New("a break is already in progress")
	ErrWorkAlreadyOpen     = errors.New("a work session is already in progress")
	ErrNothingOpen         = errors.New("no open record")
	ErrIllegalTransition   = errors.New("illegal transition")
	ErrBreakInProgress     = errors.New("break in progress: end the break first")
	ErrIndexOutOfRange     = errors.New("record index out of range")
	ErrUnknownKind         = errors.New("unknown record kind")
	ErrInvalidUserName     = errors.New("invalid user name")
)

// Persistence errors.
var (
	ErrPersistenceIO     = errors.New("persistence I/O error")
	ErrPersistenceFormat = errors.New("persistence format error")
)
