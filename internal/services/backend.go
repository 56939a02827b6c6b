// Client for the companion backend that stores radar history and social data
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/xomify/cli/internal/shared"
)

// BackendService makes raw authenticated HTTP requests against the companion
// backend. The backend issues static bearer tokens, typically imported from a
// browser session with `xomify setup token`.
type BackendService struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewBackendService creates a backend client. An empty token is allowed;
// requests then go out unauthenticated and the backend answers 401.
func NewBackendService(baseURL, token string, client *http.Client) *BackendService {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &BackendService{
		baseURL:    baseURL,
		token:      token,
		httpClient: client,
	}
}

// BackendResponse represents a raw backend response with status and body.
type BackendResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

func (b *BackendService) do(ctx context.Context, method, path string, body []byte) (*BackendResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	req.Header.Set("X-Request-ID", shared.GenerateID())

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: backend rejected token", shared.ErrNotAuthenticated)
	}

	backendResp := &BackendResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		backendResp.IsJSON = true
		backendResp.JSONData = jsonData
	}

	return backendResp, nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (b *BackendService) Get(ctx context.Context, path string) (*BackendResponse, error) {
	return b.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON body and returns the raw response.
func (b *BackendService) Post(ctx context.Context, path string, data []byte) (*BackendResponse, error) {
	return b.do(ctx, http.MethodPost, path, data)
}

// SyncReleases uploads a merged release list so the backend can keep radar
// history across devices. Failures are reported but never fatal to the radar.
func (b *BackendService) SyncReleases(ctx context.Context, payload []byte) error {
	resp, err := b.Post(ctx, "/api/releases/sync", payload)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: backend status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}
