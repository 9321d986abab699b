package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// CallInfo names the provider and purpose of the call an error came from.
// WithLogging fills it in; it is empty for errors from a bare provider.
type CallInfo struct {
	Provider string
	Purpose  string
}

func (c *CallInfo) setCall(provider, purpose string) {
	if c.Provider == "" {
		c.Provider, c.Purpose = provider, purpose
	}
}

// prefix renders "provider (purpose): " or "" when unset.
func (c CallInfo) prefix() string {
	switch {
	case c.Provider == "":
		return ""
	case c.Purpose == "":
		return c.Provider + ": "
	}
	return fmt.Sprintf("%s (%s): ", c.Provider, c.Purpose)
}

// callAnnotator is implemented by every error type embedding CallInfo.
type callAnnotator interface {
	setCall(provider, purpose string)
}

// ErrRateLimit is a provider 429. RetryAfter is zero when the provider
// gave no hint.
type ErrRateLimit struct {
	CallInfo
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%srate limited, retry after %s: %v", e.prefix(), e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("%srate limited: %v", e.prefix(), e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse is output that is not JSON or breaks the request
// schema. Content holds the raw output for the event log.
type ErrInvalidResponse struct {
	CallInfo
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("%sresponse rejected: %v", e.prefix(), e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers transport failures and 5xx replies, and
// an exhausted mock queue.
type ErrProviderUnavailable struct {
	CallInfo
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return e.prefix() + "provider unavailable"
	}
	return fmt.Sprintf("%sprovider unavailable: %v", e.prefix(), e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded is output cut off at Request.MaxTokens. Raising the
// limit is the only fix, so it is never retried.
type ErrMaxTokensExceeded struct {
	CallInfo
	MaxTokens int
	Content   json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return fmt.Sprintf("%sresponse truncated at %d tokens", e.prefix(), e.MaxTokens)
}
