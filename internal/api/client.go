// Package api calls the list backend through the proxy using the action
// convention: GET ?action=<name> for reads, POST {"action": ...} for writes.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// StatusError is returned for non-2xx replies. Its message is the status text.
type StatusError struct {
	StatusCode int
	StatusText string
	Body       string
}

func (e *StatusError) Error() string {
	if e.StatusText == "" {
		return "Request failed"
	}
	return e.StatusText
}

type Client struct {
	base       string
	httpClient *http.Client
}

// ResolveBase returns the proxy base URL. Absolute ("http...") and
// protocol-relative ("//...") bases are kept, others are joined to origin.
// One trailing slash is dropped.
func ResolveBase(base, origin string) string {
	if strings.HasPrefix(base, "http") || strings.HasPrefix(base, "//") {
		return strings.TrimSuffix(base, "/")
	}
	sep := ""
	if !strings.HasPrefix(base, "/") {
		sep = "/"
	}
	return strings.TrimSuffix(origin+sep+base, "/")
}

// NewClient builds a client for the proxy at base, resolved against origin.
// No timeout is set beyond the transport's defaults.
func NewClient(base, origin string) *Client {
	resolved := ResolveBase(base, origin)
	if strings.HasPrefix(resolved, "//") {
		scheme := "https"
		if u, err := url.Parse(origin); err == nil && u.Scheme != "" {
			scheme = u.Scheme
		}
		resolved = scheme + ":" + resolved
	}
	return &Client{base: resolved, httpClient: &http.Client{}}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.httpClient = h
	return c
}

func (c *Client) BaseURL() string { return c.base }

// encodeURIComponent escapes a query value the way browsers do (spaces as %20).
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Get runs a read action and decodes the JSON reply into out.
func (c *Client) Get(ctx context.Context, action string, out any) error {
	u := c.base + "?action=" + encodeURIComponent(action)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("action", action).
		Int("status", resp.StatusCode).
		Msg("GET action finished")

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Post runs a write action. payload is sent as JSON text with a text/plain
// content type, which keeps browsers from preflighting it. JSON replies are
// decoded; any other reply yields an empty object.
func (c *Client) Post(ctx context.Context, payload any) (any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	log.Debug().
		RawJSON("payload", body).
		Int("status", resp.StatusCode).
		Msg("POST action finished")

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(ct, "json") {
		_, _ = io.Copy(io.Discard, resp.Body)
		return map[string]any{}, nil
	}
	var out any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	log.Warn().
		Int("status", resp.StatusCode).
		Str("body", string(body)).
		Msg("Backend request failed")
	return &StatusError{StatusCode: resp.StatusCode, StatusText: text, Body: string(body)}
}
