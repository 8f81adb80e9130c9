// Package editor implements the draft/post lifecycle: one actively edited
// item kept synchronized with the remote store under version-token
// preconditions, with debounced autosave, rename-on-edit, publishing and
// deletion.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/spiffler33/quill/internal/content"
	"github.com/spiffler33/quill/internal/model"
	"github.com/spiffler33/quill/internal/registry"
	"github.com/spiffler33/quill/internal/store"
)

var editorLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	editorLogger = l
}

// ErrUnsaved is reported when publishing a draft that was never persisted.
var ErrUnsaved = errors.New("editor: save the draft first")

// Renderer receives session state for display. Rendering itself is outside
// the core.
type Renderer interface {
	SetEntries(entries []model.Entry, active model.ItemID)
	SetBuffer(title, body string)
	SetStatus(status Status)
	SetWordCount(words int)
}

// Navigator receives navigation requests after post updates and deletions.
type Navigator interface {
	GoToPost(filename string)
	GoHome()
}

// Confirmer answers the destructive-action prompts: discarding post edits,
// publishing, updating, deleting.
type Confirmer interface {
	Confirm(prompt string) bool
}

const postNavigateDelay = 500 * time.Millisecond

// Session owns the single active item and all of its transitions. Mutating
// operations serialize on one mutex, so an autosave firing while a save or
// publish is in flight waits instead of racing it.
type Session struct {
	mu sync.Mutex

	st       store.Store
	reg      *registry.Registry
	renderer Renderer
	nav      Navigator
	confirm  Confirmer

	autosave *Debouncer
	now      func() time.Time
	navDelay time.Duration

	active      model.ItemID
	token       string
	isNew       bool
	isPublished bool

	title     string
	body      string
	lastSaved string
	status    Status
}

func NewSession(st store.Store, reg *registry.Registry, r Renderer, nav Navigator, c Confirmer, autosaveDelay time.Duration) *Session {
	s := &Session{
		st:       st,
		reg:      reg,
		renderer: r,
		nav:      nav,
		confirm:  c,
		now:      time.Now,
		navDelay: postNavigateDelay,
	}
	s.autosave = NewDebouncer(autosaveDelay, func() {
		if err := s.Save(context.Background()); err != nil {
			editorLogger.Error().Err(err).Msg("Autosave failed")
		}
	})
	reg.SetNotifier(func(entries []model.Entry) {
		r.SetEntries(entries, s.active)
	})
	return s
}

// Active returns the identifier of the item currently loaded in the buffer.
func (s *Session) Active() model.ItemID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Status returns the last status pushed to the render layer.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Buffer returns the current title and body.
func (s *Session) Buffer() (title, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title, s.body
}

// Entries returns the registry snapshot, newest draft first.
func (s *Session) Entries() []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Entries()
}

// IsPublished reports whether the active item is a published post.
func (s *Session) IsPublished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isPublished
}

// Start loads the draft registry and activates the most recent draft, or a
// fresh one when none exist. The session always has an active item from here
// on.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.reg.Load(ctx); err != nil {
		return err
	}
	return s.selectNextLocked(ctx)
}

// EditPost loads a published post into the buffer, the entry point for
// editing an already published item. The registry is loaded as well so the
// drafts list stays visible alongside.
func (s *Session) EditPost(ctx context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.reg.Load(ctx); err != nil {
		return err
	}
	id := model.ItemID(model.PostsPrefix + "/" + filename)
	if err := s.loadLocked(ctx, id); err != nil {
		return fmt.Errorf("load post %s: %w", filename, err)
	}
	return nil
}

// SetBuffer replaces the editing buffers after a user edit. Draft edits
// schedule an autosave; published posts only get the status update, their
// content is written by an explicit update.
func (s *Session) SetBuffer(title, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.title, s.body = title, body
	s.setStatusLocked(StatusEditing)
	s.renderer.SetWordCount(content.WordCount(body))

	if !s.isPublished {
		s.autosave.Trigger()
	}
}

// Select makes another item the active one. Leaving a published post needs
// the caller's discard confirmation, since its edits are never autosaved;
// leaving a dirty draft flushes a save first.
func (s *Session) Select(ctx context.Context, id model.ItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isPublished && s.active != "" {
		if !s.confirm.Confirm("Discard changes to this post?") {
			return nil
		}
	} else if s.active != "" && s.dirtyLocked() {
		if err := s.saveLocked(ctx); err != nil {
			editorLogger.Warn().Err(err).Str("id", string(s.active)).Msg("Flush before select failed")
		}
	}
	s.autosave.Cancel()

	return s.loadLocked(ctx, id)
}

// CreateNew starts a fresh empty draft. No store round trip happens until
// the first save.
func (s *Session) CreateNew() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createNewLocked()
}

// Save persists the active draft. It is a no-op, not an error, for published
// posts, for unchanged content, and for the canonical empty draft. A title
// change renames the item: the old identifier is deleted before the content
// is written under the new one.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// Publish promotes the active draft into a post dated today, or updates the
// active post in place preserving its original date segment. Both paths need
// explicit confirmation; a never-saved draft cannot be published.
func (s *Session) Publish(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == "" || s.token == "" {
		return ErrUnsaved
	}

	isUpdate := s.isPublished
	prompt := "Publish this post?"
	if isUpdate {
		prompt = "Update this post?"
	}
	if !s.confirm.Confirm(prompt) {
		return nil
	}

	if isUpdate {
		return s.updatePostLocked(ctx)
	}
	return s.publishDraftLocked(ctx)
}

// Delete removes the active item from the store after confirmation. A failed
// store delete aborts the whole transition. Deleting a post navigates home;
// deleting a draft activates the next one (or a fresh draft).
func (s *Session) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == "" {
		return nil
	}

	isPost := s.isPublished
	prompt := "Delete this draft?"
	message := store.MsgDeleteDraft
	if isPost {
		prompt = "Delete this post?"
		message = store.MsgDeletePost
	}
	if !s.confirm.Confirm(prompt) {
		return nil
	}

	// Identifiers never persisted are discarded locally.
	if s.token != "" {
		if err := s.st.Delete(ctx, s.active, s.token, message); err != nil {
			editorLogger.Error().Err(err).Str("id", string(s.active)).Msg("Delete failed")
			return err
		}
	}
	s.autosave.Cancel()

	if isPost {
		s.clearLocked()
		s.nav.GoHome()
		return nil
	}

	s.reg.Remove(s.active)
	return s.selectNextLocked(ctx)
}

// Disconnect drops the session state when the credential is released.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autosave.Cancel()
	s.clearLocked()
}

func (s *Session) dirtyLocked() bool {
	return content.ComposeDraft(s.title, s.body) != s.lastSaved
}

func (s *Session) setStatusLocked(st Status) {
	s.status = st
	s.renderer.SetStatus(st)
}

func (s *Session) renderLocked() {
	s.renderer.SetBuffer(s.title, s.body)
	s.renderer.SetWordCount(content.WordCount(s.body))
	s.renderer.SetEntries(s.reg.Entries(), s.active)
}

func (s *Session) clearLocked() {
	s.active = ""
	s.token = ""
	s.isNew = false
	s.isPublished = false
	s.title, s.body, s.lastSaved = "", "", ""
}

// loadLocked fetches an item and makes it active, replacing the session
// state wholesale.
func (s *Session) loadLocked(ctx context.Context, id model.ItemID) error {
	raw, token, err := s.st.Get(ctx, id)
	if err != nil {
		editorLogger.Error().Err(err).Str("id", string(id)).Msg("Load failed")
		return err
	}

	s.active = id
	s.token = token
	s.isNew = false
	s.isPublished = id.IsPost()
	if s.isPublished {
		s.title, s.body = content.ParsePost(raw)
	} else {
		s.title, s.body = content.ParseDraft(raw)
	}
	s.lastSaved = raw

	s.renderLocked()
	return nil
}

func (s *Session) createNewLocked() {
	s.active = model.DraftID(s.now(), content.DefaultTitle)
	s.token = ""
	s.isNew = true
	s.isPublished = false
	s.title, s.body, s.lastSaved = "", "", ""

	s.renderLocked()
}

// selectNextLocked activates the most recent known draft, or a fresh one. The
// session is never left without an active item once any draft exists.
func (s *Session) selectNextLocked(ctx context.Context) error {
	if entry, ok := s.reg.First(); ok {
		return s.loadLocked(ctx, entry.ID)
	}
	s.createNewLocked()
	return nil
}

func (s *Session) saveLocked(ctx context.Context) error {
	if s.active == "" || s.isPublished {
		return nil
	}

	composed := content.ComposeDraft(s.title, s.body)
	if composed == s.lastSaved && !s.isNew {
		return nil
	}
	if composed == content.EmptyDraft {
		// Empty drafts are never persisted.
		return nil
	}

	s.setStatusLocked(StatusSaving)

	slug := content.Slugify(content.TitleOrDefault(s.title))
	newID := s.active
	if ts := s.active.TimestampSegment(); ts != "" {
		newID = model.ItemID(fmt.Sprintf("%s/%s-%s%s", model.DraftsPrefix, ts, slug, model.MarkdownExt))
	}

	// Session state is only committed on full success; a failure leaves the
	// identifier and lastSaved untouched so the next autosave retries the
	// same transition.
	putToken := s.token
	if newID != s.active && s.token != "" {
		err := s.st.Delete(ctx, s.active, s.token, store.MsgRenameDraft)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			s.setStatusLocked(StatusErrorSaving)
			return err
		}
		putToken = ""
	}

	message := store.MsgUpdateDraft
	if s.isNew {
		message = store.MsgCreateDraft
	}
	newToken, err := s.st.Put(ctx, newID, composed, putToken, message)
	if err != nil {
		s.setStatusLocked(StatusErrorSaving)
		return err
	}

	s.active = newID
	s.token = newToken
	s.isNew = false
	s.lastSaved = composed
	s.setStatusLocked(StatusSaved)
	s.reg.Upsert(model.Entry{ID: newID, Token: newToken})
	return nil
}

// updatePostLocked writes the active post in place. The date segment comes
// from the existing identifier, never from the clock: updating a post does
// not move it.
func (s *Session) updatePostLocked(ctx context.Context) error {
	s.setStatusLocked(StatusUpdating)

	title := content.TitleOrDefault(s.title)
	date := s.active.DateSegment()
	if date == "" {
		date = s.now().Format("2006-01-02")
	}
	composed := content.ComposePost(title, date, s.body)

	newToken, err := s.st.Put(ctx, s.active, composed, s.token, "Update: "+title)
	if err != nil {
		s.setStatusLocked(StatusErrorUpdating)
		return err
	}

	s.token = newToken
	s.lastSaved = composed
	s.setStatusLocked(StatusUpdated)

	filename := s.active.Filename()
	time.AfterFunc(s.navDelay, func() {
		s.nav.GoToPost(filename)
	})
	return nil
}

// publishDraftLocked creates the post dated today, deletes the source draft
// and moves the session on to the next draft.
func (s *Session) publishDraftLocked(ctx context.Context) error {
	s.setStatusLocked(StatusPublishing)

	title := content.TitleOrDefault(s.title)
	date := s.now().Format("2006-01-02")
	postID := model.PostID(date, content.Slugify(title))
	composed := content.ComposePost(title, date, s.body)

	if _, err := s.st.Put(ctx, postID, composed, "", "Publish: "+title); err != nil {
		s.setStatusLocked(StatusErrorPublishing)
		return err
	}

	if err := s.st.Delete(ctx, s.active, s.token, store.MsgPublished); err != nil {
		s.setStatusLocked(StatusErrorPublishing)
		return err
	}
	s.autosave.Cancel()

	s.reg.Remove(s.active)
	s.setStatusLocked(StatusPublished)
	return s.selectNextLocked(ctx)
}
