// Package store abstracts the remote content store: a versioned key-value API
// over hierarchical paths. Every read returns a version token alongside the
// content, and every mutation must supply the token last observed for that
// identifier (compare-and-swap). Backends exist for the GitHub contents API,
// S3-compatible object storage, local SQLite and an in-memory map.
package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/spiffler33/quill/internal/model"
)

var storeLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	storeLogger = l
}

// Default audit messages for mutating calls.
const (
	MsgCreateDraft = "Create draft"
	MsgUpdateDraft = "Update draft"
	MsgRenameDraft = "Rename draft"
	MsgPublished   = "Published"
	MsgDeleteDraft = "Delete draft"
	MsgDeletePost  = "Delete post"
)

type Store interface {
	// Get reads an item. Not-found is ErrNotFound, a distinct outcome from
	// transport or authorization failure (*ReadError, ErrUnauthorized).
	Get(ctx context.Context, id model.ItemID) (content string, token string, err error)

	// Put creates the item when expectedToken is empty, else performs a
	// conditional update. Returns the new version token. A token mismatch is
	// ErrConflict; other failures are *WriteError. message is a short
	// human-readable change description recorded by the store.
	Put(ctx context.Context, id model.ItemID, content, expectedToken, message string) (newToken string, err error)

	// Delete removes the item iff its remote token still matches expectedToken.
	Delete(ctx context.Context, id model.ItemID, expectedToken, message string) error

	// List returns the entries under a container prefix, in store order.
	// An absent container is ErrNotFound; callers treat it as empty state.
	List(ctx context.Context, prefix string) ([]model.Entry, error)
}
