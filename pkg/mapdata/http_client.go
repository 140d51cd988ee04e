package mapdata

import (
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
)

const (
	retryBackoffInterval = 250 * time.Millisecond
	retryMaximumJitter   = 100 * time.Millisecond
)

// NewHTTPClient returns a heimdall client that retries transport errors and 5xx responses retryCount times.
func NewHTTPClient(timeout time.Duration, retryCount int) *httpclient.Client {
	backoff := heimdall.NewConstantBackoff(retryBackoffInterval, retryMaximumJitter)
	return httpclient.NewClient(
		httpclient.WithHTTPTimeout(timeout),
		httpclient.WithRetryCount(retryCount),
		httpclient.WithRetrier(heimdall.NewRetrier(backoff)),
	)
}
