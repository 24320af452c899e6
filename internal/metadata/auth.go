package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

// APITokenEnv is the environment variable holding the long-lived workspace
// API token used to mint database passwords.
const APITokenEnv = "AIRSTACK_METADATA_API_TOKEN"

// tokenRefreshSlack is how long before expiry a cached token is refreshed.
const tokenRefreshSlack = 5 * time.Minute

// TokenSource mints short-lived database passwords from the workspace
// token API and caches them until shortly before expiry. It is safe for
// concurrent use.
type TokenSource struct {
	endpoint string
	apiToken string
	lifetime time.Duration
	client   *http.Client
	now      func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenSource builds a token source for the given workspace endpoint.
// The long-lived API token is read from AIRSTACK_METADATA_API_TOKEN.
func NewTokenSource(endpoint string, lifetimeSeconds int) (*TokenSource, error) {
	apiToken := os.Getenv(APITokenEnv)
	if apiToken == "" {
		return nil, fmt.Errorf("%s is not set, export the workspace API token first", APITokenEnv)
	}
	return &TokenSource{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiToken: apiToken,
		lifetime: time.Duration(lifetimeSeconds) * time.Second,
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}, nil
}

// Token returns a database password, minting a new one when the cached
// token is absent or within the refresh slack of expiring.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expiry.Add(-tokenRefreshSlack)) {
		return s.token, nil
	}

	token, err := s.generate(ctx)
	if err != nil {
		return "", err
	}
	s.token = token
	s.expiry = s.now().Add(s.lifetime)
	return token, nil
}

// Invalidate drops the cached token so the next Token call mints a new one.
func (s *TokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiry = time.Time{}
}

func (s *TokenSource) generate(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]any{
		"lifetime_seconds": int(s.lifetime.Seconds()),
		"comment":          "airstack pipeline metadata",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/api/2.0/token/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("token request returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var out struct {
		TokenValue string `json:"token_value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if out.TokenValue == "" {
		return "", fmt.Errorf("token response carried no token_value")
	}
	return out.TokenValue, nil
}
