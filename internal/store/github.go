package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spiffler33/quill/internal/auth"
	"github.com/spiffler33/quill/internal/cache"
	"github.com/spiffler33/quill/internal/model"
)

const githubAPIBase = "https://api.github.com"

// GitHubStore implements Store over the GitHub repository contents API. The
// version token is the git blob SHA the API reports for each file; PUT and
// DELETE carry the last observed SHA as their precondition, so a concurrent
// writer surfaces as a conflict instead of a lost update.
type GitHubStore struct {
	owner string
	repo  string

	creds   auth.CredentialProvider
	client  *http.Client
	apiBase string

	// Conditional-GET cache keyed by request path. Listings and reads repeat
	// often during a session; a 304 costs no rate-limit token.
	etags *cache.Cache[string, cachedBody]
}

type cachedBody struct {
	ETag string
	Body []byte
}

func NewGitHubStore(owner, repo string, creds auth.CredentialProvider) *GitHubStore {
	return &GitHubStore{
		owner:   owner,
		repo:    repo,
		creds:   creds,
		client:  http.DefaultClient,
		apiBase: githubAPIBase,
		etags:   cache.NewCache[string, cachedBody](),
	}
}

// SetAPIBase overrides the API endpoint, used by tests.
func (s *GitHubStore) SetAPIBase(base string) {
	s.apiBase = base
}

func (s *GitHubStore) contentsPath(p string) string {
	return fmt.Sprintf("/repos/%s/%s/contents/%s", s.owner, s.repo, p)
}

type contentsFile struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	SHA     string `json:"sha"`
	Content string `json:"content"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

type apiError struct {
	Message string `json:"message"`
}

// do performs an authenticated request and maps HTTP failures onto the store
// error taxonomy. GET responses flow through the ETag cache.
func (s *GitHubStore) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.apiBase+path, reqBody)
	if err != nil {
		return nil, err
	}

	token, err := s.creds.Token(ctx)
	if err != nil {
		return nil, ErrUnauthorized
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	var cached cachedBody
	if method == http.MethodGet {
		var ok bool
		if cached, ok = s.etags.Get(path); ok {
			req.Header.Set("If-None-Match", cached.ETag)
		}
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotModified {
		return cached.Body, nil
	}

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized, res.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case res.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case res.StatusCode == http.StatusConflict,
		res.StatusCode == http.StatusPreconditionFailed,
		res.StatusCode == http.StatusUnprocessableEntity && method != http.MethodGet:
		// The contents API reports a stale SHA as 409 or 422 depending on
		// whether the ref or the blob moved.
		return nil, ErrConflict
	case res.StatusCode >= 400:
		var apiErr apiError
		_ = json.Unmarshal(resBody, &apiErr)
		if apiErr.Message == "" {
			apiErr.Message = res.Status
		}
		return nil, fmt.Errorf("github: %s", apiErr.Message)
	}

	if method == http.MethodGet {
		if etag := res.Header.Get("ETag"); etag != "" {
			s.etags.Set(path, cachedBody{ETag: etag, Body: resBody})
		}
	}

	return resBody, nil
}

func (s *GitHubStore) Get(ctx context.Context, id model.ItemID) (string, string, error) {
	body, err := s.do(ctx, http.MethodGet, s.contentsPath(string(id)), nil)
	if err != nil {
		if err == ErrNotFound || err == ErrUnauthorized {
			return "", "", err
		}
		return "", "", &ReadError{Op: "get " + string(id), Err: err}
	}

	var file contentsFile
	if err := json.Unmarshal(body, &file); err != nil {
		return "", "", &ReadError{Op: "get " + string(id), Err: err}
	}

	// The API wraps base64 payloads at 60 columns.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return "", "", &ReadError{Op: "decode " + string(id), Err: err}
	}

	return string(decoded), file.SHA, nil
}

func (s *GitHubStore) Put(ctx context.Context, id model.ItemID, content, expectedToken, message string) (string, error) {
	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
	}
	if expectedToken != "" {
		payload["sha"] = expectedToken
	}

	body, err := s.do(ctx, http.MethodPut, s.contentsPath(string(id)), payload)
	if err != nil {
		if err == ErrConflict || err == ErrUnauthorized {
			return "", err
		}
		return "", &WriteError{Op: "put " + string(id), Err: err}
	}

	var res putResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", &WriteError{Op: "put " + string(id), Err: err}
	}

	storeLogger.Debug().Str("id", string(id)).Str("token", res.Content.SHA).Str("message", message).Msg("Item written")
	return res.Content.SHA, nil
}

func (s *GitHubStore) Delete(ctx context.Context, id model.ItemID, expectedToken, message string) error {
	payload := map[string]string{
		"message": message,
		"sha":     expectedToken,
	}

	if _, err := s.do(ctx, http.MethodDelete, s.contentsPath(string(id)), payload); err != nil {
		if err == ErrConflict || err == ErrUnauthorized || err == ErrNotFound {
			return err
		}
		return &WriteError{Op: "delete " + string(id), Err: err}
	}

	storeLogger.Debug().Str("id", string(id)).Str("message", message).Msg("Item deleted")
	return nil
}

func (s *GitHubStore) List(ctx context.Context, prefix string) ([]model.Entry, error) {
	body, err := s.do(ctx, http.MethodGet, s.contentsPath(prefix), nil)
	if err != nil {
		if err == ErrNotFound || err == ErrUnauthorized {
			return nil, err
		}
		return nil, &ReadError{Op: "list " + prefix, Err: err}
	}

	var files []contentsFile
	if err := json.Unmarshal(body, &files); err != nil {
		return nil, &ReadError{Op: "list " + prefix, Err: err}
	}

	entries := make([]model.Entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, model.Entry{ID: model.ItemID(f.Path), Token: f.SHA})
	}
	return entries, nil
}
