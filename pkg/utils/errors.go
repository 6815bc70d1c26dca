package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// --- Sentinel Errors for Categorization ---
var (
	ErrRetryFailed        = errors.New("request failed after all retries") // Wraps the last classified error
	ErrTransport          = errors.New("transport failure")                // Network error or timeout, retryable
	ErrRateLimited        = errors.New("rate limited (429)")               // Retryable, rotate proxy first
	ErrServerHTTPError    = errors.New("server HTTP error (5xx)")          // Retryable
	ErrClientHTTPError    = errors.New("client HTTP error (4xx)")          // Permanent
	ErrOtherHTTPError     = errors.New("other HTTP error (non-2xx)")       // Permanent
	ErrContentTooShort    = errors.New("response body below minimum length")
	ErrRobotsDisallowed   = errors.New("disallowed by robots.txt")
	ErrSelectorExhausted  = errors.New("no candidate selector matched")
	ErrSelectorInvalid    = errors.New("invalid selector pattern")
	ErrParsing            = errors.New("parsing error") // Wraps specific parsing error (HTML, URL, JSON)
	ErrFilesystem         = errors.New("filesystem error")
	ErrDatabase           = errors.New("database error")
	ErrRequestCreation    = errors.New("failed to create HTTP request")
	ErrResponseBodyRead   = errors.New("failed to read response body")
	ErrConfigValidation   = errors.New("configuration validation error")
	ErrSessionUnavailable = errors.New("session credential unavailable")
)

// WrapErrorf wraps sentinel with a formatted message, keeping it matchable via errors.Is
func WrapErrorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// IsRetryable reports whether err belongs to a failure class worth another attempt
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrServerHTTPError)
}

// CategorizeError maps an error to a predefined category string for logging/metrics.
func CategorizeError(err error) string {
	if err == nil {
		return "None"
	}

	switch {
	case errors.Is(err, ErrRetryFailed):
		switch {
		case errors.Is(err, ErrRateLimited):
			return "RetryFailed_RateLimited"
		case errors.Is(err, ErrServerHTTPError):
			return "RetryFailed_HTTPServer"
		case errors.Is(err, ErrTransport):
			if isTimeout(err) {
				return "RetryFailed_NetworkTimeout"
			}
			return "RetryFailed_NetworkOther"
		}
		return "RetryFailed_Unknown"
	case errors.Is(err, ErrRateLimited):
		return "HTTP_429"
	case errors.Is(err, ErrClientHTTPError):
		errMsg := err.Error()
		if strings.Contains(errMsg, " 404") {
			return "HTTP_404"
		}
		if strings.Contains(errMsg, " 403") {
			return "HTTP_403"
		}
		if strings.Contains(errMsg, " 401") {
			return "HTTP_401"
		}
		return "HTTP_4xx"
	case errors.Is(err, ErrServerHTTPError):
		return "HTTP_5xx"
	case errors.Is(err, ErrOtherHTTPError):
		if strings.Contains(err.Error(), " 999") {
			return "HTTP_999" // LinkedIn's bot wall
		}
		return "HTTP_OtherStatus"
	case errors.Is(err, ErrContentTooShort):
		return "Content_TooShort"
	case errors.Is(err, ErrRobotsDisallowed):
		return "Policy_Robots"
	case errors.Is(err, ErrSelectorInvalid):
		return "Content_SelectorInvalid"
	case errors.Is(err, ErrSelectorExhausted):
		return "Content_SelectorExhausted"
	case errors.Is(err, ErrParsing):
		return "Content_Parsing"
	case errors.Is(err, ErrTransport):
		if isTimeout(err) {
			return "Network_Timeout"
		}
		return "Network_Other"
	case errors.Is(err, ErrFilesystem):
		if errors.Is(err, os.ErrPermission) {
			return "Filesystem_Permission"
		}
		if errors.Is(err, os.ErrNotExist) {
			return "Filesystem_NotExist"
		}
		return "Filesystem_Other"
	case errors.Is(err, ErrDatabase):
		return "Database_Other"
	case errors.Is(err, ErrRequestCreation):
		return "Internal_RequestCreation"
	case errors.Is(err, ErrResponseBodyRead):
		return "Network_BodyRead"
	case errors.Is(err, ErrConfigValidation):
		return "Config_Validation"
	case errors.Is(err, ErrSessionUnavailable):
		return "Session_Unavailable"
	}

	// --- Fallback checks for unwrapped errors ---
	if errors.Is(err, context.Canceled) {
		return "System_ContextCanceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "System_ContextDeadlineExceeded"
	}
	if isTimeout(err) {
		return "Network_Timeout"
	}

	lowerErrMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lowerErrMsg, "connection refused"):
		return "Network_ConnectionRefused"
	case strings.Contains(lowerErrMsg, "no such host"):
		return "Network_DNSLookup"
	case strings.Contains(lowerErrMsg, "reset by peer"):
		return "Network_ConnectionReset"
	}

	return "Unknown"
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded")
}
