package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticCreds struct{ token string }

func (c *staticCreds) Token(ctx context.Context) (string, error) { return c.token, nil }
func (c *staticCreds) Verify(ctx context.Context) error          { return nil }
func (c *staticCreds) Disconnect()                               {}

func newTestStore(handler http.HandlerFunc) (*GitHubStore, *httptest.Server) {
	server := httptest.NewServer(handler)
	st := NewGitHubStore("owner", "repo", &staticCreds{token: "tok"})
	st.SetAPIBase(server.URL)
	return st, server
}

func TestGitHubStoreGet(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes wrapped base64 and returns the blob sha", func(t *testing.T) {
		// The API wraps base64 at 60 columns; the decoder must tolerate it.
		encoded := base64.StdEncoding.EncodeToString([]byte("# My Draft\n\nbody"))
		wrapped := encoded[:8] + "\n" + encoded[8:]

		st, server := newTestStore(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/repos/owner/repo/contents/drafts/1-a.md" {
				t.Errorf("path = %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "token tok" {
				t.Errorf("auth header = %q", got)
			}
			json.NewEncoder(w).Encode(map[string]string{
				"content": wrapped,
				"sha":     "abc123",
			})
		})
		defer server.Close()

		content, token, err := st.Get(ctx, "drafts/1-a.md")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if content != "# My Draft\n\nbody" {
			t.Errorf("content = %q", content)
		}
		if token != "abc123" {
			t.Errorf("token = %q", token)
		}
	})

	t.Run("status mapping", func(t *testing.T) {
		cases := []struct {
			status int
			want   error
		}{
			{http.StatusNotFound, ErrNotFound},
			{http.StatusUnauthorized, ErrUnauthorized},
			{http.StatusForbidden, ErrUnauthorized},
		}
		for _, tc := range cases {
			st, server := newTestStore(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})
			_, _, err := st.Get(ctx, "drafts/1-a.md")
			server.Close()
			if !errors.Is(err, tc.want) {
				t.Errorf("status %d: err = %v, want %v", tc.status, err, tc.want)
			}
		}
	})

	t.Run("server errors are read errors", func(t *testing.T) {
		st, server := newTestStore(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		defer server.Close()

		_, _, err := st.Get(ctx, "drafts/1-a.md")
		var readErr *ReadError
		if !errors.As(err, &readErr) {
			t.Errorf("err = %v, want *ReadError", err)
		}
	})
}

func TestGitHubStorePut(t *testing.T) {
	ctx := context.Background()

	t.Run("create carries no sha, update carries the token", func(t *testing.T) {
		var bodies []map[string]string
		st, server := newTestStore(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			bodies = append(bodies, body)
			json.NewEncoder(w).Encode(map[string]any{
				"content": map[string]string{"sha": "new-sha"},
			})
		})
		defer server.Close()

		token, err := st.Put(ctx, "drafts/1-a.md", "content", "", "Create draft")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if token != "new-sha" {
			t.Errorf("token = %q", token)
		}

		if _, err := st.Put(ctx, "drafts/1-a.md", "content2", "new-sha", "Update draft"); err != nil {
			t.Fatalf("update: %v", err)
		}

		if _, ok := bodies[0]["sha"]; ok {
			t.Error("create request carried a sha precondition")
		}
		if bodies[1]["sha"] != "new-sha" {
			t.Errorf("update sha = %q", bodies[1]["sha"])
		}
		if bodies[0]["message"] != "Create draft" {
			t.Errorf("message = %q", bodies[0]["message"])
		}
		decoded, _ := base64.StdEncoding.DecodeString(bodies[0]["content"])
		if string(decoded) != "content" {
			t.Errorf("decoded content = %q", decoded)
		}
	})

	t.Run("stale sha is a conflict", func(t *testing.T) {
		for _, status := range []int{http.StatusConflict, http.StatusUnprocessableEntity} {
			st, server := newTestStore(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			})
			_, err := st.Put(ctx, "drafts/1-a.md", "x", "stale", "Update draft")
			server.Close()
			if !errors.Is(err, ErrConflict) {
				t.Errorf("status %d: err = %v, want ErrConflict", status, err)
			}
		}
	})
}

func TestGitHubStoreDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("carries sha and message", func(t *testing.T) {
		var body map[string]string
		st, server := newTestStore(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("method = %s", r.Method)
			}
			json.NewDecoder(r.Body).Decode(&body)
			w.Write([]byte("{}"))
		})
		defer server.Close()

		if err := st.Delete(ctx, "drafts/1-a.md", "sha1", "Delete draft"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if body["sha"] != "sha1" || body["message"] != "Delete draft" {
			t.Errorf("body = %+v", body)
		}
	})

	t.Run("conflict on stale sha", func(t *testing.T) {
		st, server := newTestStore(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		})
		defer server.Close()

		if err := st.Delete(ctx, "drafts/1-a.md", "stale", "Delete draft"); !errors.Is(err, ErrConflict) {
			t.Errorf("err = %v, want ErrConflict", err)
		}
	})
}

func TestGitHubStoreList(t *testing.T) {
	ctx := context.Background()

	t.Run("maps listing entries", func(t *testing.T) {
		st, server := newTestStore(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]map[string]string{
				{"name": "1-a.md", "path": "drafts/1-a.md", "sha": "s1"},
				{"name": "2-b.md", "path": "drafts/2-b.md", "sha": "s2"},
			})
		})
		defer server.Close()

		entries, err := st.List(ctx, "drafts")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("got %d entries", len(entries))
		}
		if entries[0].ID != "drafts/1-a.md" || entries[0].Token != "s1" {
			t.Errorf("entry = %+v", entries[0])
		}
	})

	t.Run("missing container", func(t *testing.T) {
		st, server := newTestStore(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		defer server.Close()

		if _, err := st.List(ctx, "drafts"); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("conditional reads served from the etag cache", func(t *testing.T) {
		hits := 0
		st, server := newTestStore(func(w http.ResponseWriter, r *http.Request) {
			hits++
			if r.Header.Get("If-None-Match") == `"v1"` {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			w.Header().Set("ETag", `"v1"`)
			json.NewEncoder(w).Encode([]map[string]string{
				{"name": "1-a.md", "path": "drafts/1-a.md", "sha": "s1"},
			})
		})
		defer server.Close()

		for i := 0; i < 2; i++ {
			entries, err := st.List(ctx, "drafts")
			if err != nil {
				t.Fatalf("List %d: %v", i, err)
			}
			if len(entries) != 1 {
				t.Errorf("List %d: %d entries", i, len(entries))
			}
		}
		if hits != 2 {
			t.Errorf("server hits = %d", hits)
		}
	})
}
