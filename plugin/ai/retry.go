package ai

import (
	"context"
	"errors"
	"net"

	"github.com/sashabaranov/go-openai"
)

var errEmptyResponse = errors.New("empty completion response")

// retryClass categorizes a provider failure for the backoff policy.
// Classification is typed at this boundary: callers and the retry loop
// never inspect error text.
type retryClass int

const (
	// retryNone marks a permanent failure: invalid request,
	// authentication, quota exhaustion below the rate-limit window.
	retryNone retryClass = iota
	// retryRateLimited marks a 429 from the provider.
	retryRateLimited
	// retryTimeout marks an attempt abandoned at its deadline.
	retryTimeout
	// retryTransient marks a network-level or 5xx failure.
	retryTransient
)

func (c retryClass) String() string {
	switch c {
	case retryRateLimited:
		return "rate_limited"
	case retryTimeout:
		return "timeout"
	case retryTransient:
		return "transient"
	default:
		return "permanent"
	}
}

// classify maps a completion error to its retry class.
func classify(err error) retryClass {
	if err == nil {
		return retryNone
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return retryRateLimited
		case apiErr.HTTPStatusCode >= 500:
			return retryTransient
		default:
			return retryNone
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return retryTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return retryTimeout
		}
		return retryTransient
	}

	if errors.Is(err, errEmptyResponse) {
		return retryTransient
	}

	return retryNone
}
