// Package repository contains the data access layer.  This file defines
// error values that are reused across multiple repositories.  These sentinel
// values let handlers distinguish failure scenarios: ErrForbidden means the
// caller may not touch a resource owned by someone else, ErrConflict means
// an operation cannot proceed because of the current state of the data (for
// example a bid that does not beat the highest bid, or ending an auction
// that is already closed).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a mutation cannot be performed because of
// conflicting state.  Handlers translate this into HTTP 400 with a message
// describing the conflict.
var ErrConflict = errors.New("conflict")
