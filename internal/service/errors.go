package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/lift-board/internal/repository"
)

// ErrorKind classifies board failures.
type ErrorKind string

const (
	// KindStoreUnavailable: a read or write against the store failed.
	KindStoreUnavailable ErrorKind = "store_unavailable"
	// KindNotFound: the targeted assignment, order or lift does not exist.
	KindNotFound ErrorKind = "not_found"
	// KindInvalid: the caller supplied unusable input.
	KindInvalid ErrorKind = "invalid"
	// KindDegradedJoin: technician join data was unavailable.  Recovered
	// locally and never returned from GetBoard.
	KindDegradedJoin ErrorKind = "degraded_join"
)

// Error is returned by every board operation.  Op names the step that
// failed (e.g. "orders", "assignments", "upsert_assignment").
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string // optional detail safe to show to clients
	Err  error  // underlying error, kept for logs only
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return e.Public()
}

// Unwrap exposes the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Public renders the error without store internals.
func (e *Error) Public() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// KindOf returns the kind of err, or KindStoreUnavailable for errors that
// did not originate here.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStoreUnavailable
}

// IsNotFound reports whether err is a KindNotFound error.
func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }

// IsInvalid reports whether err is a KindInvalid error.
func IsInvalid(err error) bool { return err != nil && KindOf(err) == KindInvalid }

func invalid(op, msg string) error {
	return &Error{Kind: KindInvalid, Op: op, Msg: msg}
}

// storeErr wraps a repository error for op.
func storeErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &Error{Kind: KindNotFound, Op: op, Err: err}
	}
	return &Error{Kind: KindStoreUnavailable, Op: op, Err: err}
}
