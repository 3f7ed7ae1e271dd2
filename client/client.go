// Package client is the Go client for the session API: REST calls,
// the optimistic local mutation API, and the polling watcher that
// approximates real-time synchronization between the end-user view
// and the wizard dashboard.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/hrygo/designgenie/internal/errors"
	"github.com/hrygo/designgenie/store"
)

// Client calls the session HTTP surface.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a client against the given server base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateSession submits the intake questionnaire and returns the new
// session document.
func (c *Client) CreateSession(ctx context.Context, questionnaire map[string]string) (*store.Session, error) {
	var session store.Session
	err := c.do(ctx, http.MethodPost, "/api/sessions",
		map[string]any{"questionnaire": questionnaire}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSession fetches the authoritative session document.
func (c *Client) GetSession(ctx context.Context, id string) (*store.Session, error) {
	var session store.Session
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+id, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions fetches all session documents.
func (c *Client) ListSessions(ctx context.Context) ([]*store.Session, error) {
	var sessions []*store.Session
	if err := c.do(ctx, http.MethodGet, "/api/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateSession replaces the stored document with the given one.
func (c *Client) UpdateSession(ctx context.Context, session *store.Session) error {
	return c.do(ctx, http.MethodPut, "/api/sessions/"+session.ID, session, nil)
}

// DeleteSession removes a session document.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/sessions/"+id, nil, nil)
}

// Generate runs the server-side profile and recommendation generation
// step and returns the updated document.
func (c *Client) Generate(ctx context.Context, id string) (*store.Session, error) {
	var session store.Session
	if err := c.do(ctx, http.MethodPost, "/api/sessions/"+id+"/generate", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GenerateMoodboard asks the server for an AI moodboard on the session.
func (c *Client) GenerateMoodboard(ctx context.Context, id string) (*store.Moodboard, error) {
	var moodboard store.Moodboard
	if err := c.do(ctx, http.MethodPost, "/api/sessions/"+id+"/moodboards/generate", nil, &moodboard); err != nil {
		return nil, err
	}
	return &moodboard, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.ParseFailure("failed to encode request body", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.StoreFailure("failed to build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.StoreFailure(method+" "+path+" failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.ParseFailure("failed to decode response", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	msg := fmt.Sprintf("server returned %d", resp.StatusCode)
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperrors.NotFound(msg)
	case http.StatusBadRequest:
		return apperrors.Validation(msg)
	default:
		return apperrors.StoreFailure(msg, nil)
	}
}
