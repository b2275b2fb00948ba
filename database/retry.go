package database

import (
	"context"
	"database/sql"
	"errors"
	"pizzeria_server/lib"
	"strings"
	"time"
)

// RetryConfig defines retry behavior
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	EnableRetry  bool
}

// DefaultRetryConfig returns sensible defaults for retry behavior
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		EnableRetry:  true,
	}
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, sql.ErrNoRows) {
		return false
	}

	if code := lib.SQLState(err); code != "" {
		switch {
		case code == "40001", // serialization_failure
			code == "40P01", // deadlock_detected
			code == "57P03": // cannot_connect_now
			return true
		case strings.HasPrefix(code, "08"): // connection_exception class
			return true
		case strings.HasPrefix(code, "53"): // insufficient_resources class
			return true
		default:
			// Integrity (23), syntax/access (42), read-only tx (25006) and
			// everything else are permanent.
			return false
		}
	}

	errMsg := strings.ToLower(err.Error())

	for _, transient := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"eof",
		"connection closed",
		"bad connection",
		"too many clients",
		"server is not accepting",
		"temporary failure",
	} {
		if strings.Contains(errMsg, transient) {
			return true
		}
	}

	return false
}

// RetryWithBackoff executes a function with exponential backoff retry logic
func RetryWithBackoff(ctx context.Context, config RetryConfig, operation func() error) error {
	if !config.EnableRetry {
		return operation()
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if !isRetryableError(err) {
			return err
		}

		if attempt >= config.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay = time.Duration(float64(delay) * config.Multiplier)
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		}
	}

	return lastErr
}
