package explorer

import "fmt"

// InvalidAddressError is a user-input failure: the given string is not a
// valid Ethereum address. Always recoverable: report and stop.
type InvalidAddressError struct {
	Input string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid wallet address format: %s (must be a 42-character 0x address)", e.Input)
}

// UpstreamError is a provider or network failure after retries were
// exhausted, or a malformed/unsuccessful provider payload.
type UpstreamError struct {
	Msg string
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// RateLimitError means the provider signaled throttling (HTTP 429).
// Not retried; the user is told to try again later.
type RateLimitError struct {
	Msg string
}

func (e *RateLimitError) Error() string { return e.Msg }
