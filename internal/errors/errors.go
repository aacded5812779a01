// Package errors provides sentinel errors and error types for the zeroking
// move pipeline. Every rejected move carries an ErrorKind so callers can tell
// a credential problem apart from a rules problem.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for move evaluation.
// Use these with errors.Is() to check for specific failure conditions.
var (
	// ErrAuthorizationFailed indicates the move proof did not verify or the
	// domain claim did not match.
	ErrAuthorizationFailed = errors.New("authorization failed")

	// ErrIllegalMove indicates no piece movement rule accepted the move.
	ErrIllegalMove = errors.New("illegal move")

	// ErrIllegalCastle indicates a completed castle crossed an exposed square.
	ErrIllegalCastle = errors.New("illegal castle")

	// ErrMalformedInput indicates out-of-range coordinates, unparsable
	// notation, or a state whose board and piece sets disagree.
	ErrMalformedInput = errors.New("malformed input")
)

// Sentinel errors for the hosting layer.
var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameOver       = errors.New("game is over")
	ErrNotParticipant = errors.New("player is not a participant")
	ErrNoDrawOffer    = errors.New("no pending draw offer")
	ErrDrawPending    = errors.New("draw offer already pending")
	ErrAlreadyQueued  = errors.New("player already in queue")
)

// ErrorKind classifies a rejected move.
type ErrorKind string

const (
	KindNone                ErrorKind = ""
	KindAuthorizationFailed ErrorKind = "AuthorizationFailed"
	KindIllegalMove         ErrorKind = "IllegalMove"
	KindIllegalCastle       ErrorKind = "IllegalCastle"
	KindMalformedInput      ErrorKind = "MalformedInput"
)

var kindSentinels = []struct {
	kind ErrorKind
	err  error
}{
	{KindAuthorizationFailed, ErrAuthorizationFailed},
	{KindIllegalMove, ErrIllegalMove},
	{KindIllegalCastle, ErrIllegalCastle},
	{KindMalformedInput, ErrMalformedInput},
}

// KindOf returns the ErrorKind of err, or KindNone when err is nil or does
// not belong to the move pipeline.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var me *MoveError
	if errors.As(err, &me) && me.Kind != KindNone {
		return me.Kind
	}
	for _, ks := range kindSentinels {
		if errors.Is(err, ks.err) {
			return ks.kind
		}
	}
	return KindNone
}

// MoveError wraps a pipeline error with the move that caused it.
type MoveError struct {
	Kind ErrorKind // Classification of the failure
	Move string     // UCI text of the move (if known)
	Err  error      // The underlying error
}

// Error returns the move context followed by the underlying error.
func (e *MoveError) Error() string {
	if e.Move == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("move %s: %s: %v", e.Move, e.Kind, e.Err)
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As().
func (e *MoveError) Unwrap() error {
	return e.Err
}

// NewMoveError builds a MoveError whose kind is derived from err. An err
// that already is a MoveError for the same move is returned as is.
func NewMoveError(move string, err error) *MoveError {
	if me, ok := err.(*MoveError); ok && me.Move == move {
		return me
	}
	return &MoveError{Kind: KindOf(err), Move: move, Err: err}
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Malformed returns ErrMalformedInput with a formatted reason.
func Malformed(format string, args ...interface{}) error {
	return Wrapf(ErrMalformedInput, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
