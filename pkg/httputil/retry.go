package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RetryCallback handles a retry attempt error.
type RetryCallback func(attempt, maxAttempts int, err error)

// HTTPStatusError represents a non-2xx HTTP response.
type HTTPStatusError struct {
	StatusCode int
}

func (err HTTPStatusError) Error() string {
	return fmt.Sprintf("non-success status: %d", err.StatusCode)
}

// CheckStatus returns an HTTPStatusError for non-2xx codes.
func CheckStatus(statusCode int) error {
	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		return HTTPStatusError{StatusCode: statusCode}
	}
	return nil
}

// Retry calls fn until it succeeds, maxAttempts is reached or ctx is done.
// The last error is returned.
func Retry(ctx context.Context, maxAttempts int, delay time.Duration, onRetry RetryCallback, fn func(attempt int) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}

		if onRetry != nil {
			onRetry(attempt, maxAttempts, lastErr)
		}
		if attempt == maxAttempts {
			break
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return lastErr
			case <-time.After(delay):
			}
		} else if ctx.Err() != nil {
			return lastErr
		}
	}

	return lastErr
}

// PostJSONWithRetry sends a JSON POST request with retry support.
func PostJSONWithRetry(ctx context.Context, client *http.Client, url string, payload interface{}, maxRetries int, delay time.Duration, onRetry RetryCallback) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if client == nil {
		client = &http.Client{}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return Retry(ctx, maxRetries, delay, onRetry, func(int) error {
		request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
		if err != nil {
			return err
		}
		request.Header.Set("Content-Type", "application/json")

		response, err := client.Do(request)
		if err != nil {
			return err
		}
		response.Body.Close()
		return CheckStatus(response.StatusCode)
	})
}
