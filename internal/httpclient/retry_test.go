package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig(maxRetries int, codes ...int) RetryHandlerConfig {
	return RetryHandlerConfig{
		MaxRetries:       maxRetries,
		BaseDelay:        1 * time.Millisecond,
		MaxDelay:         10 * time.Millisecond,
		RetryStatusCodes: codes,
	}
}

func TestRetryHandler(t *testing.T) {
	var requestCount int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := atomic.AddInt32(&requestCount, 1)
		if count <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)
	client.retryHandler = NewRetryHandler(fastRetryConfig(3, http.StatusTooManyRequests, http.StatusInternalServerError), zerolog.Nop())

	resp, err := client.Do(&HTTPRequest{URL: server.URL, Method: "GET"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requestCount))
}

func TestRetryHandler_MaxRetriesExceeded(t *testing.T) {
	var requestCount int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requestCount, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)
	client.retryHandler = NewRetryHandler(fastRetryConfig(2, http.StatusServiceUnavailable), zerolog.Nop())

	resp, err := client.Do(&HTTPRequest{URL: server.URL, Method: "GET"})
	require.Error(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requestCount))
	var httpErr *errorwrapper.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}

func TestRetryHandler_NonRetryableStatus(t *testing.T) {
	var requestCount int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requestCount, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)
	client.retryHandler = NewRetryHandler(fastRetryConfig(3, http.StatusServiceUnavailable), zerolog.Nop())

	resp, err := client.Do(&HTTPRequest{URL: server.URL, Method: "GET"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requestCount))
}

func TestRetryHandler_ContextCancelled(t *testing.T) {
	handler := NewRetryHandler(fastRetryConfig(5, http.StatusServiceUnavailable), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := handler.DoWithRetry(ctx, func(*HTTPRequest) (*HTTPResponse, error) {
		calls++
		return &HTTPResponse{StatusCode: http.StatusServiceUnavailable}, nil
	}, &HTTPRequest{URL: "https://example.com/"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestNewHTTPClient_ConfiguresRetriesFromConfig(t *testing.T) {
	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithRetries(2).Build()
	require.NoError(t, err)
	require.NotNil(t, client.retryHandler)
	assert.True(t, client.retryHandler.ShouldRetry(http.StatusTooManyRequests))
	assert.False(t, client.retryHandler.ShouldRetry(http.StatusNotFound))

	client, err = NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)
	assert.Nil(t, client.retryHandler)
}
