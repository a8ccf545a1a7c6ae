// Package client is the HTTP binding of the workflow service contracts: a
// resty client for the tempdescription API that the session state machines
// consume as their Generator, Translator, Store, and AuthState.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/coderRohan123/tempdescription/internal/domain"
	"github.com/coderRohan123/tempdescription/internal/logger"
	"github.com/coderRohan123/tempdescription/internal/session"
)

// Failure modes mapped from API status codes.
var (
	ErrUnauthorized = errors.New("authentication required")
	ErrNotFound     = errors.New("generation not found")

	// ErrUnreachable stands in for transport-level failures. The raw cause
	// is logged, never surfaced, since callers show Error() to the user.
	ErrUnreachable = errors.New("Unable to reach the server. Please try again.")
)

// The client is the HTTP binding of the session contracts.
var (
	_ session.Generator  = (*Client)(nil)
	_ session.Translator = (*Client)(nil)
	_ session.Store      = (*Client)(nil)
	_ session.AuthState  = (*Client)(nil)
)

// Client talks to the tempdescription HTTP API.
type Client struct {
	http *resty.Client

	mu          sync.RWMutex
	accessToken string
}

// New creates an API client for the given base URL.
// Parameters:
//   - baseURL: API origin, e.g. "http://localhost:8080".
// Returns:
//   - *Client: initialized client.
func New(baseURL string) *Client {
	http := resty.New()
	http.SetBaseURL(baseURL)
	http.SetHeader("Content-Type", "application/json")
	// Generation calls proxy a slow model; keep the window generous
	http.SetTimeout(90 * time.Second)

	return &Client{http: http}
}

// SetAccessToken stores the bearer token attached to authenticated calls.
// An empty token returns the client to the unauthenticated state.
// Parameters:
//   - token: access JWT, or empty.
// Returns: none.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

// IsAuthenticated reports whether an access token is set.
// Parameters: none.
// Returns:
//   - bool: true when a token is present.
func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken != ""
}

type errorResponse struct {
	Error string `json:"error"`
}

type generateResponse struct {
	Description string `json:"description"`
	errorResponse
}

type translateResponse struct {
	Translations map[string]string `json:"translations"`
	errorResponse
}

type saveResponse struct {
	ID      string `json:"id"`
	Updated bool   `json:"updated"`
	errorResponse
}

type listResponse struct {
	Generations []domain.Generation `json:"generations"`
	errorResponse
}

// Generate calls POST /api/generate-description.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - attrs: product attributes.
//   - images: encoded image payloads; may be empty.
// Returns:
//   - string: generated description text.
//   - error: non-nil if the request or the API fails.
func (c *Client) Generate(ctx context.Context, attrs domain.GenerationAttributes, images []string) (string, error) {
	body := map[string]interface{}{
		"product_name":     attrs.ProductName,
		"product_category": attrs.ProductCategory,
		"target_audience":  attrs.TargetAudience,
		"user_description": attrs.UserDescription,
		"target_language":  attrs.TargetLanguage,
	}
	if len(images) > 0 {
		body["images"] = images
	}

	var resp generateResponse
	httpResp, err := c.request(ctx).
		SetBody(body).
		SetResult(&resp).
		SetError(&resp).
		Post("/api/generate-description")
	if err := c.check(httpResp, err, resp.Error); err != nil {
		return "", err
	}
	return resp.Description, nil
}

// Translate calls POST /api/translate-description.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - description: text to translate.
//   - languages: validated language names.
// Returns:
//   - map[string]string: language name to translated text.
//   - error: non-nil if the request or the API fails.
func (c *Client) Translate(ctx context.Context, description string, languages []string) (map[string]string, error) {
	var resp translateResponse
	httpResp, err := c.request(ctx).
		SetBody(map[string]interface{}{
			"description": description,
			"languages":   languages,
		}).
		SetResult(&resp).
		SetError(&resp).
		Post("/api/translate-description")
	if err := c.check(httpResp, err, resp.Error); err != nil {
		return nil, err
	}
	return resp.Translations, nil
}

// SaveGeneration calls POST /api/generations/save.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - attrs: attributes the description was generated from.
//   - finalDescription: accepted description text.
//   - imageURLs: stored image references to persist.
// Returns:
//   - session.SaveResult: record ID and create-vs-overwrite flag.
//   - error: non-nil if the request or the API fails.
func (c *Client) SaveGeneration(ctx context.Context, attrs domain.GenerationAttributes, finalDescription string, imageURLs []string) (session.SaveResult, error) {
	if imageURLs == nil {
		imageURLs = []string{}
	}

	var resp saveResponse
	httpResp, err := c.request(ctx).
		SetBody(map[string]interface{}{
			"product_name":      attrs.ProductName,
			"product_category":  attrs.ProductCategory,
			"target_audience":   attrs.TargetAudience,
			"user_description":  attrs.UserDescription,
			"target_language":   attrs.TargetLanguage,
			"final_description": finalDescription,
			"image_urls":        imageURLs,
		}).
		SetResult(&resp).
		SetError(&resp).
		Post("/api/generations/save")
	if err := c.check(httpResp, err, resp.Error); err != nil {
		return session.SaveResult{}, err
	}
	return session.SaveResult{ID: resp.ID, Updated: resp.Updated}, nil
}

// ListGenerations calls GET /api/generations.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.Generation: saved records, newest first.
//   - error: non-nil if the request or the API fails.
func (c *Client) ListGenerations(ctx context.Context) ([]domain.Generation, error) {
	var resp listResponse
	httpResp, err := c.request(ctx).
		SetResult(&resp).
		SetError(&resp).
		Get("/api/generations")
	if err := c.check(httpResp, err, resp.Error); err != nil {
		return nil, err
	}
	return resp.Generations, nil
}

// DeleteGeneration calls DELETE /api/generations/:id.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: record ID to delete.
// Returns:
//   - error: ErrNotFound, ErrUnauthorized, or another request failure.
func (c *Client) DeleteGeneration(ctx context.Context, id string) error {
	var resp errorResponse
	httpResp, err := c.request(ctx).
		SetError(&resp).
		Delete("/api/generations/" + id)
	return c.check(httpResp, err, resp.Error)
}

// request builds a request with the current bearer token attached.
func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	c.mu.RLock()
	if c.accessToken != "" {
		req.SetHeader("Authorization", "Bearer "+c.accessToken)
	}
	c.mu.RUnlock()
	return req
}

// check maps transport errors and non-2xx responses to caller-facing errors.
func (c *Client) check(resp *resty.Response, err error, apiMessage string) error {
	if err != nil {
		logger.Warn("api request failed: %v", err)
		return ErrUnreachable
	}
	code := resp.StatusCode()
	if code >= 200 && code < 300 {
		return nil
	}
	switch code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	if apiMessage != "" {
		return errors.New(apiMessage)
	}
	return fmt.Errorf("request failed: HTTP %d", code)
}
