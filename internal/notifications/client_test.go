package notifications

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"poptique_list/internal/retry"
)

func fastPolicy() retry.Config {
	return retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Timeout: time.Second}
}

func TestSendNotificationDisabled(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	c := NewClient(srv.URL, "topic", false)
	if err := c.SendNotification(context.Background(), "hi"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if called {
		t.Error("Expected no request while disabled")
	}
}

func TestNotifyItemAdded(t *testing.T) {
	var mu sync.Mutex
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotPath, gotBody = r.URL.Path, string(b)
		mu.Unlock()
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "poptique", true).WithRetryPolicy(fastPolicy())
	c.NotifyItemAdded(context.Background(), "Mug", "Depop")
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	if gotPath != "/poptique" {
		t.Errorf("Expected path /poptique, got %s", gotPath)
	}
	if gotBody != "New item on the list: Mug (Depop)" {
		t.Errorf("Unexpected body %q", gotBody)
	}
	if sent, failed := c.GetMetrics(); sent != 1 || failed != 0 {
		t.Errorf("Expected 1 sent 0 failed, got %d %d", sent, failed)
	}
}

func TestSendNotificationRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", true).WithRetryPolicy(fastPolicy())
	if err := c.SendNotification(context.Background(), "x"); err != nil {
		t.Fatalf("Expected success after retry, got %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("Expected 2 calls, got %d", n)
	}
}

func TestSendNotificationDoesNotRetryAuthErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", true).WithRetryPolicy(fastPolicy())
	err := c.SendNotification(context.Background(), "x")
	notifErr, ok := err.(*NotificationError)
	if !ok {
		t.Fatalf("Expected *NotificationError, got %T (%v)", err, err)
	}
	if notifErr.Type != "auth" || notifErr.IsRetryable() {
		t.Errorf("Expected non-retryable auth error, got %+v", notifErr)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("Expected 1 call, got %d", n)
	}
}
