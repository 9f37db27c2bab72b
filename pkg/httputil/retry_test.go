package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStatus(t *testing.T) {
	assert.NoError(t, CheckStatus(http.StatusOK))
	assert.NoError(t, CheckStatus(http.StatusNoContent))
	assert.Equal(t, HTTPStatusError{StatusCode: 404}, CheckStatus(http.StatusNotFound))
	assert.Error(t, CheckStatus(http.StatusMovedPermanently))
}

func TestRetry(t *testing.T) {
	var attempts []int
	var retried []int
	err := Retry(context.Background(), 3, 0, func(attempt, maxAttempts int, err error) {
		retried = append(retried, attempt)
		assert.Equal(t, 3, maxAttempts)
	}, func(attempt int) error {
		attempts = append(attempts, attempt)
		if attempt < 2 {
			return errors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, attempts)
	assert.Equal(t, []int{1}, retried)
}

func TestRetry_ReturnsLastError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 0, 0, nil, func(attempt int) error {
		calls++
		return errors.New("down")
	})
	assert.EqualError(t, err, "down")
	assert.Equal(t, 1, calls)
}

func TestRetry_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Hour, nil, func(attempt int) error {
		calls++
		cancel()
		return errors.New("down")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestPostJSONWithRetry(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "v", body["k"])
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := PostJSONWithRetry(context.Background(), nil, server.URL, map[string]string{"k": "v"}, 3, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}
