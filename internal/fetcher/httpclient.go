package fetcher

import (
	"time"

	"resty.dev/v3"
)

const defaultTimeout = 10 * time.Second

// NewHTTPClient creates the HTTP client used for all requests against
// the odds API. Retries are deliberately absent: a failed aggregation
// pass is retried wholesale by the caller, never per-request.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	if apiKey != "" {
		client.SetHeader("X-API-Key", apiKey)
	}

	return client
}
