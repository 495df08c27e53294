package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"poptique_list/internal/api"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Notifier receives list events. *notifications.Client implements it.
type Notifier interface {
	NotifyItemAdded(ctx context.Context, product, platform string)
	NotifyListCleared(ctx context.Context)
}

type nopNotifier struct{}

func (nopNotifier) NotifyItemAdded(context.Context, string, string) {}
func (nopNotifier) NotifyListCleared(context.Context)                {}

// request is the union of every POST payload.
type request struct {
	Action      string `json:"action"`
	Product     string `json:"product"`
	Platform    string `json:"platform"`
	RowNumber   int    `json:"rowNumber"`
	Picked      bool   `json:"picked"`
	NewPlatform string `json:"newPlatform"`
}

// Handler serializes writes so a row check and the write it guards see the
// same rows.
type Handler struct {
	store    Store
	notifier Notifier
	mu       sync.Mutex
}

func NewHandler(store Store, notifier Notifier) *Handler {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Handler{store: store, notifier: notifier}
}

type httpError struct {
	status int
	err    error
}

func (e *httpError) Error() string { return e.err.Error() }
func (e *httpError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return &httpError{status: http.StatusBadRequest, err: fmt.Errorf(format, args...)}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var (
		action string
		reply  any
		err    error
	)

	switch r.Method {
	case http.MethodGet:
		action = r.URL.Query().Get("action")
		reply, err = h.get(r.Context(), action)
	case http.MethodPost:
		var req request
		req, err = decodeRequest(r.Body)
		action = req.Action
		if err == nil {
			reply, err = h.post(r.Context(), req)
		}
	default:
		err = &httpError{status: http.StatusMethodNotAllowed, err: errors.New("Method not allowed")}
	}

	if err != nil {
		status := statusFor(err)
		log.Warn().
			Err(err).
			Str("method", r.Method).
			Str("action", action).
			Int("status", status).
			Msg("Action failed")
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	log.Info().
		Str("method", r.Method).
		Str("action", action).
		Dur("elapsed", time.Since(start)).
		Msg("Action handled")
	writeJSON(w, http.StatusOK, reply)
}

func decodeRequest(body io.Reader) (request, error) {
	var req request
	data, err := io.ReadAll(body)
	if err != nil {
		return req, fmt.Errorf("failed to read body: %w", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, badRequest("invalid JSON payload: %v", err)
	}
	return req, nil
}

func statusFor(err error) int {
	var he *httpError
	switch {
	case errors.As(err, &he):
		return he.status
	case errors.Is(err, ErrStaleRow):
		return http.StatusConflict
	case errors.Is(err, ErrRowNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) get(ctx context.Context, action string) (any, error) {
	if action != api.ActionGetProducts {
		return nil, badRequest("unknown action %q", action)
	}
	products, err := h.store.Rows(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{p.Product, p.Platform, p.Picked})
	}
	return rows, nil
}

func (h *Handler) post(ctx context.Context, req request) (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	switch req.Action {
	case api.ActionAddProduct:
		product := strings.TrimSpace(req.Product)
		if product == "" {
			return nil, badRequest("product is required")
		}
		err = h.store.Append(ctx, Product{Product: product, Platform: req.Platform})
		if err == nil {
			h.notifier.NotifyItemAdded(ctx, product, req.Platform)
		}
	case api.ActionUpdatePicked:
		if err = h.checkRow(ctx, req.RowNumber, req.Product); err == nil {
			err = h.store.SetPicked(ctx, req.RowNumber, req.Picked)
		}
	case api.ActionUpdatePlatform:
		if err = h.checkRow(ctx, req.RowNumber, req.Product); err == nil {
			err = h.store.SetPlatform(ctx, req.RowNumber, req.NewPlatform)
		}
	case api.ActionDeleteRow:
		if err = h.checkRow(ctx, req.RowNumber, req.Product); err == nil {
			err = h.store.Delete(ctx, req.RowNumber)
		}
	case api.ActionClearList:
		err = h.store.Clear(ctx)
		if err == nil {
			h.notifier.NotifyListCleared(ctx)
		}
	case api.ActionMarkAllPicked:
		err = h.store.SetPickedForPlatform(ctx, req.Platform, true)
	case api.ActionMarkAllUnpicked:
		err = h.store.SetPickedForPlatform(ctx, req.Platform, false)
	default:
		return nil, badRequest("unknown action %q", req.Action)
	}
	if err != nil {
		return nil, err
	}
	return map[string]string{"status": "ok"}, nil
}

// checkRow verifies row exists and, when product is set, still holds it.
func (h *Handler) checkRow(ctx context.Context, row int, product string) error {
	products, err := h.store.Rows(ctx)
	if err != nil {
		return err
	}
	i, ok := rowIndex(row, len(products))
	if !ok {
		if product != "" {
			return fmt.Errorf("row %d: %w", row, ErrStaleRow)
		}
		return fmt.Errorf("row %d: %w", row, ErrRowNotFound)
	}
	if product != "" && products[i].Product != product {
		return fmt.Errorf("row %d holds %q: %w", row, products[i].Product, ErrStaleRow)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode reply")
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode reply"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
