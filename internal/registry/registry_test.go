package registry

import (
	"context"
	"testing"

	"github.com/spiffler33/quill/internal/model"
	"github.com/spiffler33/quill/internal/store"
)

func seed(t *testing.T, st *store.MemoryStore, ids ...model.ItemID) {
	t.Helper()
	for _, id := range ids {
		if _, err := st.Put(context.Background(), id, "# x\n\nbody", "", "seed"); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("orders newest first", func(t *testing.T) {
		st := store.NewMemoryStore()
		seed(t, st,
			"drafts/1700000000000-a.md",
			"drafts/1700000000100-b.md",
		)

		reg := New(st)
		entries, err := reg.Load(context.Background())
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("got %d entries", len(entries))
		}
		if entries[0].ID != "drafts/1700000000100-b.md" {
			t.Errorf("first entry = %s, want the later timestamp", entries[0].ID)
		}
		if entries[1].ID != "drafts/1700000000000-a.md" {
			t.Errorf("second entry = %s", entries[1].ID)
		}
	})

	t.Run("absent container is empty state", func(t *testing.T) {
		reg := New(store.NewMemoryStore())
		entries, err := reg.Load(context.Background())
		if err != nil {
			t.Fatalf("Load on empty store: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("got %d entries, want 0", len(entries))
		}
	})

	t.Run("skips non-markdown files", func(t *testing.T) {
		st := store.NewMemoryStore()
		seed(t, st, "drafts/1700000000000-a.md", "drafts/cover.png")

		reg := New(st)
		entries, err := reg.Load(context.Background())
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("got %d entries, want 1", len(entries))
		}
	})
}

func TestUpsert(t *testing.T) {
	t.Run("replaces by timestamp segment", func(t *testing.T) {
		st := store.NewMemoryStore()
		seed(t, st, "drafts/1700000000000-old-slug.md")

		reg := New(st)
		if _, err := reg.Load(context.Background()); err != nil {
			t.Fatalf("Load: %v", err)
		}

		// The slug changed under a rename; the timestamp is the stable key.
		reg.Upsert(model.Entry{ID: "drafts/1700000000000-new-slug.md", Token: "t2"})

		entries := reg.Entries()
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
		if entries[0].ID != "drafts/1700000000000-new-slug.md" || entries[0].Token != "t2" {
			t.Errorf("entry = %+v", entries[0])
		}
	})

	t.Run("prepends unknown entries", func(t *testing.T) {
		st := store.NewMemoryStore()
		seed(t, st, "drafts/1700000000000-a.md")

		reg := New(st)
		if _, err := reg.Load(context.Background()); err != nil {
			t.Fatalf("Load: %v", err)
		}

		reg.Upsert(model.Entry{ID: "drafts/1700000000200-c.md", Token: "t"})

		entries := reg.Entries()
		if len(entries) != 2 {
			t.Fatalf("got %d entries", len(entries))
		}
		if entries[0].ID != "drafts/1700000000200-c.md" {
			t.Errorf("new entry not first: %s", entries[0].ID)
		}
	})
}

func TestRemove(t *testing.T) {
	st := store.NewMemoryStore()
	seed(t, st, "drafts/1700000000000-a.md", "drafts/1700000000100-b.md")

	reg := New(st)
	if _, err := reg.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	reg.Remove("drafts/1700000000100-b.md")

	entries := reg.Entries()
	if len(entries) != 1 || entries[0].ID != "drafts/1700000000000-a.md" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestNotifier(t *testing.T) {
	st := store.NewMemoryStore()
	seed(t, st, "drafts/1700000000000-a.md")

	reg := New(st)
	var pushes [][]model.Entry
	reg.SetNotifier(func(entries []model.Entry) {
		pushes = append(pushes, entries)
	})

	if _, err := reg.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	reg.Upsert(model.Entry{ID: "drafts/1700000000100-b.md", Token: "t"})
	reg.Remove("drafts/1700000000000-a.md")

	if len(pushes) != 3 {
		t.Fatalf("got %d pushes, want one per mutation", len(pushes))
	}
	last := pushes[len(pushes)-1]
	if len(last) != 1 || last[0].ID != "drafts/1700000000100-b.md" {
		t.Errorf("final snapshot = %+v", last)
	}
}
