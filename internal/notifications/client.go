package notifications

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"poptique_list/internal/config"
	"poptique_list/internal/retry"

	"github.com/rs/zerolog/log"
)

// Client publishes list events to an ntfy topic.
type Client struct {
	httpClient *http.Client
	baseURL    string
	topic      string
	enabled    bool
	policy     retry.Config

	mutex       sync.Mutex
	totalSent   int64
	totalFailed int64
	wg          sync.WaitGroup
}

type NotificationError struct {
	Type       string
	StatusCode int
	Underlying error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification failed [%s]: %v", e.Type, e.Underlying)
}

func (e *NotificationError) Unwrap() error { return e.Underlying }

func (e *NotificationError) IsRetryable() bool {
	switch e.Type {
	case "network", "server", "rate_limit":
		return true
	case "auth", "client":
		return false
	default:
		return e.StatusCode >= 500
	}
}

func NewClient(baseURL, topic string, enabled bool) *Client {
	policy := config.DefaultResilienceConfig.Notify
	policy.Retryable = func(err error) bool {
		if notifErr, ok := err.(*NotificationError); ok {
			return notifErr.IsRetryable()
		}
		return true
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		topic:      topic,
		enabled:    enabled,
		policy:     policy,
	}
}

// WithRetryPolicy replaces the retry policy; the Retryable predicate is kept.
func (c *Client) WithRetryPolicy(policy retry.Config) *Client {
	policy.Retryable = c.policy.Retryable
	c.policy = policy
	return c
}

func (c *Client) Enabled() bool { return c != nil && c.enabled }

func (c *Client) SendNotification(ctx context.Context, message string) error {
	if !c.Enabled() {
		log.Debug().Msg("Notifications disabled, skipping")
		return nil
	}

	_, err := retry.WithRetry(ctx, c.policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.sendSingleNotification(ctx, message)
	})

	c.mutex.Lock()
	if err != nil {
		c.totalFailed++
	} else {
		c.totalSent++
	}
	c.mutex.Unlock()
	return err
}

func (c *Client) sendSingleNotification(ctx context.Context, message string) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.topic)

	log.Debug().
		Str("url", url).
		Str("message", message).
		Msg("Sending notification")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(message))
	if err != nil {
		return &NotificationError{Type: "client", Underlying: err}
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NotificationError{Type: "network", Underlying: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &NotificationError{
			Type:       categorizeHTTPError(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Underlying: fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status),
		}
	}

	log.Debug().Int("status_code", resp.StatusCode).Msg("Notification sent successfully")
	return nil
}

// SendNotificationAsync sends in the background. The send outlives ctx's
// cancellation so request-scoped contexts can be passed in.
func (c *Client) SendNotificationAsync(ctx context.Context, message string) {
	if !c.Enabled() {
		return
	}
	ctx = context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.SendNotification(ctx, message); err != nil {
			log.Warn().Err(err).Msg("Async notification failed")
		}
	}()
}

// Wait blocks until all async notifications have finished.
func (c *Client) Wait() {
	if c == nil {
		return
	}
	c.wg.Wait()
}

func (c *Client) NotifyItemAdded(ctx context.Context, product, platform string) {
	c.SendNotificationAsync(ctx, fmt.Sprintf("New item on the list: %s (%s)", product, platform))
}

func (c *Client) NotifyListCleared(ctx context.Context) {
	c.SendNotificationAsync(ctx, "The shopping list was cleared")
}

func categorizeHTTPError(statusCode int) string {
	switch {
	case statusCode == 401 || statusCode == 403:
		return "auth"
	case statusCode == 429:
		return "rate_limit"
	case statusCode >= 400 && statusCode < 500:
		return "client"
	case statusCode >= 500:
		return "server"
	default:
		return "unknown"
	}
}

// GetMetrics returns the number of delivered and failed notifications.
func (c *Client) GetMetrics() (sent, failed int64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.totalSent, c.totalFailed
}
