package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

const defaultAPIBase = "https://api.github.com"

// GitHubTokenProvider holds a personal access token and verifies it against
// the authenticated-user endpoint, the same probe the token capture screen
// performs. The token needs repo scope.
type GitHubTokenProvider struct {
	mu      sync.RWMutex
	token   string
	apiBase string
	client  *http.Client
}

func NewGitHubTokenProvider(token string) *GitHubTokenProvider {
	return &GitHubTokenProvider{
		token:   token,
		apiBase: defaultAPIBase,
		client:  http.DefaultClient,
	}
}

// SetAPIBase overrides the API endpoint, used by tests.
func (p *GitHubTokenProvider) SetAPIBase(base string) {
	p.apiBase = base
}

func (p *GitHubTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.token == "" {
		return "", ErrNoCredential
	}
	return p.token, nil
}

func (p *GitHubTokenProvider) Verify(ctx context.Context) error {
	token, err := p.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+"/user", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "token "+token)

	res, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		authLogger.Warn().Int("status", res.StatusCode).Msg("Credential rejected")
		return fmt.Errorf("auth: token rejected (status %d)", res.StatusCode)
	}
	return nil
}

func (p *GitHubTokenProvider) Disconnect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = ""
}
