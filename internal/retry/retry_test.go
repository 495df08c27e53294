package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testConfig(maxRetries int) Config {
	return Config{
		MaxRetries: maxRetries,
		BaseDelay:  5 * time.Millisecond,
		MaxDelay:   20 * time.Millisecond,
		Timeout:    time.Second,
	}
}

func TestWithRetrySuccessAfterRetries(t *testing.T) {
	callCount := 0
	result, err := WithRetry(context.Background(), testConfig(3), func(ctx context.Context) ([][]any, error) {
		callCount++
		if callCount < 3 {
			return nil, errors.New("sheet read failed")
		}
		return [][]any{{"Mug", "Depop", false}}, nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result) != 1 {
		t.Errorf("Expected 1 row, got %d", len(result))
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
}

func TestWithRetryFailureAfterMaxRetries(t *testing.T) {
	callCount := 0
	_, err := WithRetry(context.Background(), testConfig(2), func(ctx context.Context) (int, error) {
		callCount++
		return 0, errors.New("persistent failure")
	})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
}

func TestWithRetryStopsOnNonRetryable(t *testing.T) {
	notFound := errors.New("not found")
	cfg := testConfig(5)
	cfg.Retryable = func(err error) bool { return !errors.Is(err, notFound) }

	callCount := 0
	_, err := WithRetry(context.Background(), cfg, func(ctx context.Context) (string, error) {
		callCount++
		return "", notFound
	})
	if !errors.Is(err, notFound) {
		t.Errorf("Expected not found error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestWithRetryPermanent(t *testing.T) {
	bad := errors.New("bad request")
	callCount := 0
	_, err := WithRetry(context.Background(), testConfig(5), func(ctx context.Context) (string, error) {
		callCount++
		return "", Permanent(bad)
	})
	if err != bad {
		t.Errorf("Expected unwrapped permanent error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
	if Permanent(nil) != nil {
		t.Error("Expected Permanent(nil) to be nil")
	}
}

func TestWithRetryContextCancellation(t *testing.T) {
	cfg := testConfig(5)
	cfg.BaseDelay = 50 * time.Millisecond
	cfg.MaxDelay = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0
	_, err := WithRetry(ctx, cfg, func(ctx context.Context) (string, error) {
		callCount++
		if callCount == 2 {
			cancel()
		}
		return "", errors.New("failure")
	})
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if callCount > 3 {
		t.Errorf("Expected at most 3 calls due to cancellation, got %d", callCount)
	}
}

func TestWithRetryNoTimeout(t *testing.T) {
	cfg := testConfig(0)
	cfg.Timeout = 0
	_, err := WithRetry(context.Background(), cfg, func(ctx context.Context) (bool, error) {
		if _, ok := ctx.Deadline(); ok {
			return false, errors.New("unexpected deadline")
		}
		return true, nil
	})
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestCalculateBackoffDelay(t *testing.T) {
	baseDelay := 10 * time.Millisecond
	maxDelay := 100 * time.Millisecond

	tests := []struct {
		attempt     int
		minDelay    time.Duration
		maxExpected time.Duration
	}{
		{0, 5 * time.Millisecond, 15 * time.Millisecond},
		{1, 10 * time.Millisecond, 30 * time.Millisecond},
		{2, 20 * time.Millisecond, 60 * time.Millisecond},
		{4, 50 * time.Millisecond, 100 * time.Millisecond},
		{100, 50 * time.Millisecond, 100 * time.Millisecond},
	}

	for _, test := range tests {
		for i := 0; i < 10; i++ {
			result := calculateBackoffDelay(test.attempt, baseDelay, maxDelay)
			if result < test.minDelay || result > test.maxExpected {
				t.Errorf("calculateBackoffDelay(%d) = %v, expected between %v and %v",
					test.attempt, result, test.minDelay, test.maxExpected)
			}
		}
	}
}
