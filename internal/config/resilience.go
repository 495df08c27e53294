package config

import (
	"time"

	"poptique_list/internal/retry"
)

// ResilienceConfig groups the retry policies used on the backend side.
// The proxy and the API client never retry.
type ResilienceConfig struct {
	SheetRead retry.Config
	Notify    retry.Config
}

var DefaultResilienceConfig = ResilienceConfig{
	SheetRead: retry.Config{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Timeout:    15 * time.Second,
	},
	Notify: retry.Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    10 * time.Second,
	},
}
