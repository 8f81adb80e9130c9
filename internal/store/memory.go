package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/spiffler33/quill/internal/model"
)

// MemoryStore is an in-memory Store with real compare-and-swap semantics,
// used by tests and as a scratch backend.
type MemoryStore struct {
	mu    sync.Mutex
	items map[model.ItemID]model.Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[model.ItemID]model.Item),
	}
}

func (s *MemoryStore) Get(ctx context.Context, id model.ItemID) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return "", "", ErrNotFound
	}
	return item.Content, item.Token, nil
}

func (s *MemoryStore) Put(ctx context.Context, id model.ItemID, content, expectedToken, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[id]
	if expectedToken == "" && exists {
		return "", ErrConflict
	}
	if expectedToken != "" && (!exists || item.Token != expectedToken) {
		return "", ErrConflict
	}

	token := uuid.New().String()
	s.items[id] = model.Item{ID: id, Token: token, Content: content}
	return token, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id model.ItemID, expectedToken, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[id]
	if !exists {
		return ErrNotFound
	}
	if item.Token != expectedToken {
		return ErrConflict
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, prefix string) ([]model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []model.Entry
	for id, item := range s.items {
		if strings.HasPrefix(string(id), prefix+"/") {
			entries = append(entries, model.Entry{ID: id, Token: item.Token})
		}
	}
	if entries == nil {
		return nil, ErrNotFound
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}
