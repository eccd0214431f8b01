// Package bookcrew is the typed client for the BookCrew backend API.
//
// Every network call the application makes goes through one Client. The
// backend speaks a REST-ish protocol where every response body is the
// envelope {success, data, message?, meta?}; success:false with HTTP 200 is
// an application-level failure and is surfaced exactly like a non-2xx
// status, so callers have a single error path.
//
// The client deliberately has no retry, timeout or circuit-breaking logic of
// its own: callers bound each call with a context and handle failure at the
// call site (typically by flashing a toast and re-rendering the form).
package bookcrew

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client issues requests against the BookCrew backend.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// New builds a Client for the given backend origin.
// Per-call deadlines come from the caller's context, not the transport.
func New(baseURL string, logger *zap.Logger) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: rc, log: logger}
}

// BaseURL reports the configured backend origin.
func (c *Client) BaseURL() string { return c.http.BaseURL }

type tokenKey struct{}

// WithToken returns a context that carries the session's bearer token.
// Calls made with that context send it as an Authorization header.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom extracts the bearer token from ctx, if any.
func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// call performs one backend request and decodes the envelope.
// out, when non-nil, receives the envelope's data field.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	_, err := c.callMeta(ctx, method, path, body, out)
	return err
}

// callMeta is call plus the decoded envelope, for list endpoints that need
// pagination metadata.
func (c *Client) callMeta(ctx context.Context, method, path string, body, out any) (*Envelope, error) {
	reqID := uuid.NewString()

	req := c.http.R().SetContext(ctx)
	if tok := TokenFrom(ctx); tok != "" {
		req.SetHeader("Authorization", "Bearer "+tok)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Warn("backend request failed",
			zap.String("request_id", reqID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	var env Envelope
	if len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), &env); err != nil {
			// Not the envelope (proxy error page, truncated body, ...).
			c.log.Warn("backend response is not the expected envelope",
				zap.String("request_id", reqID),
				zap.String("path", path),
				zap.Int("status", resp.StatusCode()))
			return nil, &APIError{Status: resp.StatusCode()}
		}
	}

	if resp.IsError() || !env.Success {
		return nil, &APIError{Status: resp.StatusCode(), Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("bookcrew: decode %s %s: %w", method, path, err)
		}
	}
	return &env, nil
}
