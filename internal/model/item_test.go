package model

import (
	"regexp"
	"testing"
	"time"
)

func TestItemID(t *testing.T) {
	t.Run("draft wire format", func(t *testing.T) {
		createdAt := time.UnixMilli(1700000000000)
		id := DraftID(createdAt, "hello-world")
		if id != "drafts/1700000000000-hello-world.md" {
			t.Errorf("DraftID = %q", id)
		}
		if !regexp.MustCompile(`^drafts/\d{13}-hello-world\.md$`).MatchString(string(id)) {
			t.Errorf("DraftID %q does not match the wire format", id)
		}
	})

	t.Run("post wire format", func(t *testing.T) {
		id := PostID("2024-01-05", "hello-world")
		if id != "posts/2024-01-05-hello-world.md" {
			t.Errorf("PostID = %q", id)
		}
	})

	t.Run("container and filename", func(t *testing.T) {
		id := ItemID("drafts/1700000000000-a.md")
		if id.Container() != "drafts" {
			t.Errorf("Container = %q", id.Container())
		}
		if id.Filename() != "1700000000000-a.md" {
			t.Errorf("Filename = %q", id.Filename())
		}
		if id.IsPost() {
			t.Error("draft identifier reported as post")
		}
		if !ItemID("posts/2024-01-05-a.md").IsPost() {
			t.Error("post identifier not reported as post")
		}
	})

	t.Run("timestamp segment", func(t *testing.T) {
		if ts := ItemID("drafts/1700000000000-some-slug.md").TimestampSegment(); ts != "1700000000000" {
			t.Errorf("TimestampSegment = %q", ts)
		}
		if ts := ItemID("posts/2024-01-05-a.md").TimestampSegment(); ts != "" {
			t.Errorf("TimestampSegment on post = %q, want empty", ts)
		}
	})

	t.Run("date segment", func(t *testing.T) {
		if d := ItemID("posts/2024-01-05-old-slug.md").DateSegment(); d != "2024-01-05" {
			t.Errorf("DateSegment = %q", d)
		}
		if d := ItemID("drafts/1700000000000-a.md").DateSegment(); d != "" {
			t.Errorf("DateSegment on draft = %q, want empty", d)
		}
	})

	t.Run("markdown filter", func(t *testing.T) {
		if !ItemID("drafts/1700000000000-a.md").IsMarkdown() {
			t.Error("markdown file not recognized")
		}
		if ItemID("drafts/image.png").IsMarkdown() {
			t.Error("png recognized as markdown")
		}
	})
}
