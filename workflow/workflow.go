// Package workflow enforces the status state machines for research documents,
// student accounts and password reset requests. Every transition is a single
// keyed update that verifies the entity first, reports not-found distinctly
// and is idempotent when the target status is already set.
package workflow

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidStatus     = errors.New("invalid target status")
	ErrInvalidTransition = errors.New("transition not allowed from the current status")
	ErrConflict          = errors.New("entity changed concurrently")
	ErrNotStudent        = errors.New("only student accounts can be approved or rejected")
	ErrPendingExists     = errors.New("a pending reset request already exists for this user")
	ErrPasswordRequired  = errors.New("a new password is required for approval")
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
