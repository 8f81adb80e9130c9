// Package registry maintains the ordered set of known drafts, derived from a
// store listing and kept consistent with local mutations. Every mutation
// pushes the current snapshot to the render layer.
package registry

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/spiffler33/quill/internal/model"
	"github.com/spiffler33/quill/internal/store"
)

var regLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	regLogger = l
}

type Registry struct {
	st      store.Store
	entries []model.Entry

	notifier func([]model.Entry)
}

func New(st store.Store) *Registry {
	return &Registry{st: st}
}

// SetNotifier sets a function that will be called with a snapshot whenever
// the entries change.
func (r *Registry) SetNotifier(notifier func([]model.Entry)) {
	r.notifier = notifier
}

func (r *Registry) notify() {
	if r.notifier != nil {
		r.notifier(r.Entries())
	}
}

// Entries returns a copy of the current entries, newest first.
func (r *Registry) Entries() []model.Entry {
	return slices.Clone(r.entries)
}

// Load lists the drafts container and replaces the registry contents, newest
// first by descending identifier compare. The fixed-width timestamp prefix
// makes lexical order equal chronological order. An absent container is valid
// empty state, not an error.
func (r *Registry) Load(ctx context.Context) ([]model.Entry, error) {
	listed, err := r.st.List(ctx, model.DraftsPrefix)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			regLogger.Debug().Msg("Drafts container does not exist yet")
			r.entries = nil
			r.notify()
			return nil, nil
		}
		return nil, err
	}

	entries := make([]model.Entry, 0, len(listed))
	for _, e := range listed {
		if e.ID.IsMarkdown() {
			entries = append(entries, e)
		}
	}
	slices.SortFunc(entries, func(a, b model.Entry) int {
		return -strings.Compare(string(a.ID), string(b.ID))
	})

	r.entries = entries
	r.notify()
	return r.Entries(), nil
}

// Upsert replaces the entry whose timestamp segment matches; matching the
// full identifier would miss an entry whose slug just changed under a rename.
// Without a match the entry is prepended as most recent.
func (r *Registry) Upsert(entry model.Entry) {
	ts := entry.ID.TimestampSegment()
	for i, e := range r.entries {
		if e.ID == entry.ID || (ts != "" && e.ID.TimestampSegment() == ts) {
			r.entries[i] = entry
			r.notify()
			return
		}
	}
	r.entries = append([]model.Entry{entry}, r.entries...)
	r.notify()
}

// Remove deletes the entry with the exact identifier, if present.
func (r *Registry) Remove(id model.ItemID) {
	r.entries = slices.DeleteFunc(r.entries, func(e model.Entry) bool {
		return e.ID == id
	})
	r.notify()
}

// First returns the most recent entry, or false when the registry is empty.
func (r *Registry) First() (model.Entry, bool) {
	if len(r.entries) == 0 {
		return model.Entry{}, false
	}
	return r.entries[0], true
}

// Len reports the number of known drafts.
func (r *Registry) Len() int {
	return len(r.entries)
}
