package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

func TestResolveBase(t *testing.T) {
	tests := []struct {
		base, origin, want string
	}{
		{"/api/proxy", "https://list.example.com", "https://list.example.com/api/proxy"},
		{"api/proxy/", "https://list.example.com", "https://list.example.com/api/proxy"},
		{"https://proxy.example.com/api/proxy/", "https://pages.example.com", "https://proxy.example.com/api/proxy"},
		{"//proxy.example.com/api", "https://pages.example.com", "//proxy.example.com/api"},
	}
	for _, tt := range tests {
		if got := ResolveBase(tt.base, tt.origin); got != tt.want {
			t.Errorf("ResolveBase(%q, %q) = %q, expected %q", tt.base, tt.origin, got, tt.want)
		}
	}
}

func TestNewClientProtocolRelativeTakesOriginScheme(t *testing.T) {
	c := NewClient("//proxy.example.com/api", "http://localhost:8080")
	if c.BaseURL() != "http://proxy.example.com/api" {
		t.Errorf("Expected http scheme, got %s", c.BaseURL())
	}
}

func TestGetEncodesAction(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	var out map[string]bool
	if err := NewClient(srv.URL, "").Get(context.Background(), "get products&x", &out); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gotQuery != "action=get%20products%26x" {
		t.Errorf("Unexpected query %q", gotQuery)
	}
	if !out["ok"] {
		t.Errorf("Expected decoded body, got %v", out)
	}
}

func TestGetNonSuccessCarriesStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"error":"upstream"}`)
	}))
	defer srv.Close()

	var out any
	err := NewClient(srv.URL, "").Get(context.Background(), ActionGetProducts, &out)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != 502 || err.Error() != "Bad Gateway" {
		t.Errorf("Expected 502 Bad Gateway, got %d %q", statusErr.StatusCode, err.Error())
	}
	if statusErr.Body != `{"error":"upstream"}` {
		t.Errorf("Expected body to be kept, got %q", statusErr.Body)
	}
}

func TestStatusErrorFallbackMessage(t *testing.T) {
	if (&StatusError{StatusCode: 599}).Error() != "Request failed" {
		t.Error("Expected fallback message for empty status text")
	}
}

func TestPostSendsPlainTextJSON(t *testing.T) {
	var gotCT string
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	}))
	defer srv.Close()

	out, err := NewClient(srv.URL, "").Post(context.Background(), UpdatePickedRequest{Action: ActionUpdatePicked, RowNumber: 4, Picked: false})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gotCT != "text/plain; charset=utf-8" {
		t.Errorf("Unexpected content type %q", gotCT)
	}
	if got["action"] != "updatePicked" || got["rowNumber"] != float64(4) || got["picked"] != false {
		t.Errorf("Unexpected payload %v", got)
	}
	if _, present := got["product"]; present {
		t.Error("Expected empty product to be omitted")
	}
	if m, ok := out.(map[string]any); !ok || m["status"] != "ok" {
		t.Errorf("Expected decoded JSON reply, got %v", out)
	}
}

func TestPostNonJSONReplyIsEmptyObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>done</html>")
	}))
	defer srv.Close()

	out, err := NewClient(srv.URL, "").Post(context.Background(), ActionRequest{Action: ActionClearList})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if m, ok := out.(map[string]any); !ok || len(m) != 0 {
		t.Errorf("Expected empty object, got %#v", out)
	}
}

func TestPostNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "").DeleteRow(context.Background(), 3, "Mug")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409 StatusError, got %v", err)
	}
}

func TestGetProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[["Mug","Depop",false],["Hat","",  "TRUE"],"junk"]`)
	}))
	defer srv.Close()

	rows, err := NewClient(srv.URL, "").GetProducts(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Mug" || rows[1][2] != "TRUE" || len(rows[2]) != 0 {
		t.Errorf("Unexpected rows %v", rows)
	}
}

func TestGetProductsNonArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error":"nope"}`)
	}))
	defer srv.Close()

	rows, err := NewClient(srv.URL, "").GetProducts(context.Background())
	if err != nil || len(rows) != 0 {
		t.Errorf("Expected empty list, got %v %v", rows, err)
	}
}
