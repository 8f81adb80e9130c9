// Package render displays session state in the terminal. It is a
// collaborator of the editor core: the core pushes state, this package draws.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/spiffler33/quill/internal/content"
	"github.com/spiffler33/quill/internal/editor"
	"github.com/spiffler33/quill/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	entryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	bodyStyle   = lipgloss.NewStyle().PaddingLeft(2)
)

// Terminal collects pushed state and draws it on demand.
type Terminal struct {
	mu sync.Mutex

	out io.Writer

	entries []model.Entry
	active  model.ItemID
	title   string
	body    string
	status  editor.Status
	words   int
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) SetEntries(entries []model.Entry, active model.ItemID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = entries
	t.active = active
}

func (t *Terminal) SetBuffer(title, body string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.title = title
	t.body = body
}

func (t *Terminal) SetStatus(status editor.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
	fmt.Fprintln(t.out, statusStyle.Render(string(status)))
}

func (t *Terminal) SetWordCount(words int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.words = words
}

// entryTitle recovers a display title from a draft filename: the slug
// segment with the timestamp prefix and extension removed.
func entryTitle(id model.ItemID) string {
	name := strings.TrimSuffix(id.Filename(), model.MarkdownExt)
	if ts := id.TimestampSegment(); ts != "" {
		name = strings.TrimPrefix(name, ts+"-")
	}
	if name == "" {
		return content.DefaultTitle
	}
	return name
}

// Redraw prints the drafts list and the active buffer.
func (t *Terminal) Redraw() {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder

	b.WriteString(headerStyle.Render("drafts"))
	b.WriteByte('\n')
	for i, e := range t.entries {
		line := fmt.Sprintf("%2d. %s", i+1, entryTitle(e.ID))
		if e.ID == t.active {
			line = activeStyle.Render(line + " *")
		} else {
			line = entryStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(headerStyle.Render("# " + content.TitleOrDefault(t.title)))
	b.WriteByte('\n')
	if t.body != "" {
		b.WriteString(bodyStyle.Render(t.body))
		b.WriteByte('\n')
	}

	b.WriteString(statusStyle.Render(fmt.Sprintf("%s · %s", t.status, content.WordCountLabel(t.words))))
	b.WriteByte('\n')

	fmt.Fprint(t.out, b.String())
}
