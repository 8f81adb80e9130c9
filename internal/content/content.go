// Package content implements the serialized form of drafts and posts: the
// "# Title" draft heading, the post metadata block, slug derivation and the
// word count shown by the render layer.
package content

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// DefaultTitle is used wherever a title is empty or cannot be parsed.
	DefaultTitle = "untitled"

	// MaxSlugLen caps the slug segment of a filename.
	MaxSlugLen = 50
)

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the URL-safe filename segment from a title: lowercase,
// runs of non-alphanumerics collapsed to single hyphens, trimmed of leading
// and trailing hyphens, truncated to MaxSlugLen.
func Slugify(title string) string {
	slug := nonAlnumRe.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > MaxSlugLen {
		slug = strings.TrimRight(slug[:MaxSlugLen], "-")
	}
	return slug
}

// TitleOrDefault falls back to DefaultTitle for empty titles.
func TitleOrDefault(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultTitle
	}
	return title
}

// ComposeDraft serializes a draft as "# <title>\n\n<body>" with the body
// trimmed. The result for an empty draft is exactly EmptyDraft.
func ComposeDraft(title, body string) string {
	return fmt.Sprintf("# %s\n\n%s", TitleOrDefault(title), strings.TrimSpace(body))
}

// EmptyDraft is the canonical serialization of an untouched draft. Drafts
// whose composed content equals it are never persisted.
const EmptyDraft = "# " + DefaultTitle + "\n\n"

// ParseDraft splits serialized draft content back into title and body. A
// leading "# Title" line is stripped, along with one blank line following it;
// content without a heading yields DefaultTitle and the whole text as body.
func ParseDraft(raw string) (title, body string) {
	lines := strings.Split(raw, "\n")
	title = DefaultTitle
	start := 0

	if len(lines) > 0 && strings.HasPrefix(lines[0], "# ") {
		title = strings.TrimSpace(lines[0][2:])
		start = 1
		if len(lines) > 1 && lines[1] == "" {
			start = 2
		}
	}

	return title, strings.TrimSpace(strings.Join(lines[start:], "\n"))
}

// ComposePost serializes a post: a metadata block with title and date keys,
// a blank line, then the trimmed body.
func ComposePost(title, date, body string) string {
	return fmt.Sprintf("---\ntitle: %s\ndate: %s\n---\n\n%s", TitleOrDefault(title), date, strings.TrimSpace(body))
}

var postMetaRe = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n*(.*)$`)

// ParsePost splits serialized post content into title and body. The metadata
// block is scanned line by line for a "title:" key; malformed or missing
// metadata yields DefaultTitle with the entire content as body.
func ParsePost(raw string) (title, body string) {
	title = DefaultTitle
	body = raw

	m := postMetaRe.FindStringSubmatch(raw)
	if m == nil {
		return title, strings.TrimSpace(body)
	}

	for _, line := range strings.Split(m[1], "\n") {
		key, rest, ok := strings.Cut(line, ":")
		if ok && strings.TrimSpace(key) == "title" {
			title = strings.TrimSpace(rest)
		}
	}

	return title, strings.TrimSpace(m[2])
}

// WordCount splits the body on whitespace runs. An all-whitespace body counts
// zero words.
func WordCount(body string) int {
	return len(strings.Fields(body))
}

// WordCountLabel renders the count the way the status bar shows it.
func WordCountLabel(n int) string {
	if n == 1 {
		return "1 word"
	}
	return fmt.Sprintf("%d words", n)
}
