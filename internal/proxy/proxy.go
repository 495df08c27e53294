// Package proxy forwards browser requests to the spreadsheet backend and adds
// permissive CORS headers to every reply.
package proxy

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const (
	defaultContentType = "application/json"
	forwardContentType = "text/plain; charset=utf-8"
)

// Handler is stateless between requests; ScriptURL is read on every call so an
// unset value is reported per request instead of at startup.
type Handler struct {
	ScriptURL string
	Client    *http.Client
}

// NewHandler returns a Handler using a client with the transport's default timeouts.
func NewHandler(scriptURL string) *Handler {
	return &Handler{ScriptURL: scriptURL, Client: &http.Client{}}
}

func setCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	setCORS(w.Header())

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if h.ScriptURL == "" {
		log.Error().Msg("SCRIPT_URL not configured")
		writeError(w, http.StatusInternalServerError, "SCRIPT_URL not configured")
		return
	}

	var (
		status int
		err    error
	)
	switch r.Method {
	case http.MethodGet:
		status, err = h.forwardGet(w, r)
	case http.MethodPost:
		status, err = h.forwardPost(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err != nil {
		log.Error().Err(err).Str("method", r.Method).Msg("Forwarding failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info().
		Str("method", r.Method).
		Str("query", r.URL.RawQuery).
		Int("status", status).
		Dur("elapsed", time.Since(start)).
		Msg("Forwarded request")
}

func (h *Handler) forwardGet(w http.ResponseWriter, r *http.Request) (int, error) {
	qs := ""
	if r.URL.RawQuery != "" || r.URL.ForceQuery {
		qs = "?" + r.URL.RawQuery
	}
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, h.ScriptURL+qs, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	return h.relay(w, req)
}

func (h *Handler) forwardPost(w http.ResponseWriter, r *http.Request) (int, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read request body: %w", err)
	}
	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.ScriptURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", forwardContentType)
	return h.relay(w, req)
}

// relay sends req and copies status, body and content type back. Nothing is
// written to w when an error is returned.
func (h *Handler) relay(w http.ResponseWriter, req *http.Request) (int, error) {
	resp, err := h.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read backend response: %w", err)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = defaultContentType
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(body)
	return resp.StatusCode, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	w.Header().Set("Content-Type", defaultContentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
