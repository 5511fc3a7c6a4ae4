// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// LookupError is a classified place lookup failure.
type LookupError struct {
	Type    ErrorType
	Message string
	Err     error
}

// ErrorType classifies lookup failures.
type ErrorType int

const (
	// ErrorTypeUnknown is an unclassified failure.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeRateLimit means the provider throttled the caller.
	ErrorTypeRateLimit
	// ErrorTypeQuotaExceeded means the key ran out of quota or was denied.
	ErrorTypeQuotaExceeded
	// ErrorTypeTimeout means the call did not finish in time.
	ErrorTypeTimeout
	// ErrorTypeInvalidRequest means the provider rejected the request.
	ErrorTypeInvalidRequest
	// ErrorTypeNetworkError means the provider could not be reached.
	ErrorTypeNetworkError
)

var errorTypeNames = [...]string{
	ErrorTypeUnknown:        "unknown",
	ErrorTypeRateLimit:      "rate_limit",
	ErrorTypeQuotaExceeded:  "quota_exceeded",
	ErrorTypeTimeout:        "timeout",
	ErrorTypeInvalidRequest: "invalid_request",
	ErrorTypeNetworkError:   "network_error",
}

func (t ErrorType) String() string {
	if int(t) < 0 || int(t) >= len(errorTypeNames) {
		return errorTypeNames[ErrorTypeUnknown]
	}

	return errorTypeNames[t]
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// IsRateLimitError reports whether err is a throttling failure.
func IsRateLimitError(err error) bool {
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Type == ErrorTypeRateLimit
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429")
}

// IsQuotaExceededError reports whether err is a quota or authorization failure.
func IsQuotaExceededError(err error) bool {
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Type == ErrorTypeQuotaExceeded
	}

	// Google Places reports these as response statuses.
	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "over_query_limit") ||
		strings.Contains(errStr, "request_denied") ||
		strings.Contains(errStr, "quota exceeded")
}

// IsTimeoutError reports whether err is a timeout.
func IsTimeoutError(err error) bool {
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Type == ErrorTypeTimeout
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

func isInvalidRequestError(err error) bool {
	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "invalid_request")
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}

// Classify wraps err into a LookupError. Errors that already carry a
// classification are returned as they are.
func Classify(err error) *LookupError {
	if err == nil {
		return nil
	}

	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr
	}

	switch {
	case IsTimeoutError(err):
		return &LookupError{Type: ErrorTypeTimeout, Message: "lookup timed out", Err: err}
	case IsRateLimitError(err):
		return &LookupError{Type: ErrorTypeRateLimit, Message: "rate limit reached", Err: err}
	case IsQuotaExceededError(err):
		return &LookupError{Type: ErrorTypeQuotaExceeded, Message: "quota exceeded or access denied", Err: err}
	case isInvalidRequestError(err):
		return &LookupError{Type: ErrorTypeInvalidRequest, Message: "invalid request", Err: err}
	case isNetworkError(err):
		return &LookupError{Type: ErrorTypeNetworkError, Message: "provider unreachable", Err: err}
	default:
		return &LookupError{Type: ErrorTypeUnknown, Message: "lookup failed", Err: err}
	}
}
