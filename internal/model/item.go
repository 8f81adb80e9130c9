// Package model defines core data structures and types for the editor.
package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ItemID is the full store key of a draft or post: "<container>/<filename>".
// The filename is the sole identity of an item; renaming a draft changes its ID.
type ItemID string

const (
	DraftsPrefix = "drafts"
	PostsPrefix  = "posts"

	MarkdownExt = ".md"
)

var (
	draftNameRe = regexp.MustCompile(`^(\d{13})-`)
	postNameRe  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-`)
)

// Entry is a registry row mirroring what the store last reported for an item.
type Entry struct {
	ID    ItemID
	Token string
}

// Item is a stored item as read from or written to the store.
// An empty Token means the item has never been persisted.
type Item struct {
	ID      ItemID
	Token   string
	Content string
}

// DraftID builds a draft identifier from a creation timestamp and a slug.
// The wire format is "drafts/<13-digit-epoch-ms>-<slug>.md".
func DraftID(createdAt time.Time, slug string) ItemID {
	return ItemID(fmt.Sprintf("%s/%013d-%s%s", DraftsPrefix, createdAt.UnixMilli(), slug, MarkdownExt))
}

// PostID builds a post identifier from a publish date and a slug.
// The wire format is "posts/<YYYY-MM-DD>-<slug>.md".
func PostID(date string, slug string) ItemID {
	return ItemID(fmt.Sprintf("%s/%s-%s%s", PostsPrefix, date, slug, MarkdownExt))
}

// Filename returns the part of the identifier after the container prefix.
func (id ItemID) Filename() string {
	if i := strings.IndexByte(string(id), '/'); i >= 0 {
		return string(id)[i+1:]
	}
	return string(id)
}

// Container returns the container prefix of the identifier, or "" when the
// identifier has no container.
func (id ItemID) Container() string {
	if i := strings.IndexByte(string(id), '/'); i >= 0 {
		return string(id)[:i]
	}
	return ""
}

// IsPost reports whether the identifier names a published post.
func (id ItemID) IsPost() bool {
	return id.Container() == PostsPrefix
}

// TimestampSegment extracts the 13-digit epoch-millisecond prefix of a draft
// filename. It is immutable across renames: only the slug segment changes when
// a title is edited.
func (id ItemID) TimestampSegment() string {
	m := draftNameRe.FindStringSubmatch(id.Filename())
	if m == nil {
		return ""
	}
	return m[1]
}

// DateSegment extracts the YYYY-MM-DD prefix of a post filename. A published
// post keeps its original date segment across updates.
func (id ItemID) DateSegment() string {
	m := postNameRe.FindStringSubmatch(id.Filename())
	if m == nil {
		return ""
	}
	return m[1]
}

// IsMarkdown reports whether the identifier carries the markdown extension.
// Listings may contain other files (e.g. images); only markdown items are
// editor content.
func (id ItemID) IsMarkdown() bool {
	return strings.HasSuffix(string(id), MarkdownExt)
}
