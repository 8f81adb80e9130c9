package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks an absent item or container. Recoverable: an
	// uninitialized container is valid empty state.
	ErrNotFound = errors.New("store: not found")

	// ErrUnauthorized marks a bad or expired credential. Session-ending: the
	// user must re-authenticate.
	ErrUnauthorized = errors.New("store: unauthorized")

	// ErrConflict marks a version token mismatch: another writer intervened
	// since this session last observed the item. No automatic merge or retry.
	ErrConflict = errors.New("store: version token mismatch")
)

// ReadError wraps a transport or server-side failure during Get or List.
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("store: read failed (%s): %v", e.Op, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps a transport or server-side failure during Put or Delete.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("store: write failed (%s): %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
