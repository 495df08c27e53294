package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

type recordingNotifier struct {
	mu      sync.Mutex
	added   []string
	cleared int
}

func (n *recordingNotifier) NotifyItemAdded(ctx context.Context, product, platform string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.added = append(n.added, product+"|"+platform)
}

func (n *recordingNotifier) NotifyListCleared(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cleared++
}

func newTestHandler(t *testing.T, products ...Product) (*Handler, *SQLiteStore, *recordingNotifier) {
	t.Helper()
	s := openTestStore(t)
	seed(t, s, products...)
	n := &recordingNotifier{}
	return NewHandler(s, n), s, n
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec
}

func getProducts(t *testing.T, h http.Handler) [][]any {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?action=getProducts", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var rows [][]any
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("Expected JSON rows, got %v", err)
	}
	return rows
}

func TestGetProductsEmptyIsArray(t *testing.T) {
	h, _, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?action=getProducts", nil))
	if rec.Body.String() != "[]" {
		t.Errorf("Expected [], got %s", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}
}

func TestAddProductAppendsAndNotifies(t *testing.T) {
	h, _, n := newTestHandler(t)

	rec := post(h, `{"action":"addProduct","product":" Mug ","platform":"Depop"}`)
	if rec.Code != http.StatusOK || rec.Body.String() != `{"status":"ok"}` {
		t.Fatalf("Unexpected reply %d %s", rec.Code, rec.Body.String())
	}

	rows := getProducts(t, h)
	if len(rows) != 1 || rows[0][0] != "Mug" || rows[0][1] != "Depop" || rows[0][2] != false {
		t.Errorf("Unexpected rows %v", rows)
	}
	if len(n.added) != 1 || n.added[0] != "Mug|Depop" {
		t.Errorf("Expected one add notification, got %v", n.added)
	}
}

func TestAddProductRequiresName(t *testing.T) {
	h, _, n := newTestHandler(t)
	rec := post(h, `{"action":"addProduct","product":"  ","platform":"eBay"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	if len(n.added) != 0 {
		t.Errorf("Expected no notification, got %v", n.added)
	}
}

func TestRowActions(t *testing.T) {
	h, _, _ := newTestHandler(t,
		Product{Product: "Mug", Platform: "Depop"},
		Product{Product: "Lamp", Platform: "eBay"},
	)

	if rec := post(h, `{"action":"updatePicked","rowNumber":3,"picked":true,"product":"Lamp"}`); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := post(h, `{"action":"updatePlatform","rowNumber":2,"newPlatform":"Vinted"}`); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rows := getProducts(t, h)
	if rows[0][1] != "Vinted" || rows[1][2] != true {
		t.Errorf("Unexpected rows %v", rows)
	}

	if rec := post(h, `{"action":"deleteRow","rowNumber":2,"product":"Mug"}`); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rows = getProducts(t, h)
	if len(rows) != 1 || rows[0][0] != "Lamp" {
		t.Errorf("Expected only Lamp left, got %v", rows)
	}
}

func TestStaleRowIsConflict(t *testing.T) {
	h, _, _ := newTestHandler(t,
		Product{Product: "Mug", Platform: "Depop"},
		Product{Product: "Lamp", Platform: "eBay"},
	)

	// another client deleted Mug, so Lamp is now row 2
	if rec := post(h, `{"action":"deleteRow","rowNumber":2}`); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	rec := post(h, `{"action":"deleteRow","rowNumber":2,"product":"Mug"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", rec.Code)
	}
	rec = post(h, `{"action":"updatePicked","rowNumber":3,"picked":true,"product":"Lamp"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 for vanished row, got %d", rec.Code)
	}
	if rows := getProducts(t, h); len(rows) != 1 || rows[0][0] != "Lamp" || rows[0][2] != false {
		t.Errorf("Expected Lamp untouched, got %v", rows)
	}
}

func TestRowWithoutProductOutOfRange(t *testing.T) {
	h, _, _ := newTestHandler(t, Product{Product: "Mug"})
	if rec := post(h, `{"action":"updatePicked","rowNumber":7,"picked":true}`); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestClearAndMarkAll(t *testing.T) {
	h, _, n := newTestHandler(t,
		Product{Product: "A", Platform: "eBay"},
		Product{Product: "B"},
	)

	if rec := post(h, `{"action":"markAllPicked","platform":"Other"}`); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	rows := getProducts(t, h)
	if rows[0][2] != false || rows[1][2] != true {
		t.Errorf("Expected only the platformless row picked, got %v", rows)
	}

	if rec := post(h, `{"action":"markAllUnpicked","platform":"Other"}`); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rows := getProducts(t, h); rows[1][2] != false {
		t.Errorf("Expected row unpicked, got %v", rows)
	}

	if rec := post(h, `{"action":"clearList"}`); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rows := getProducts(t, h); len(rows) != 0 {
		t.Errorf("Expected empty list, got %v", rows)
	}
	if n.cleared != 1 {
		t.Errorf("Expected one clear notification, got %d", n.cleared)
	}
}

func TestBadRequests(t *testing.T) {
	h, _, _ := newTestHandler(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"unknown get", http.MethodGet, "/?action=nope", "", http.StatusBadRequest},
		{"unknown post", http.MethodPost, "/", `{"action":"nope"}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/", `{`, http.StatusBadRequest},
		{"method", http.MethodPut, "/", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rec.Code)
			}
			if !strings.HasPrefix(rec.Body.String(), `{"error":`) {
				t.Errorf("Expected error envelope, got %s", rec.Body.String())
			}
		})
	}
}
