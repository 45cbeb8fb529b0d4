package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/cenkalti/backoff"
	"github.com/rs/zerolog"
)

// RetryHandler retries requests on network errors and retryable status codes with exponential backoff
type RetryHandler struct {
	maxRetries       int
	baseDelay        time.Duration
	maxDelay         time.Duration
	enableJitter     bool
	retryStatusCodes map[int]bool
	logger           zerolog.Logger
}

// RetryHandlerConfig configuration for retry handler
type RetryHandlerConfig struct {
	MaxRetries       int           `json:"max_retries"`
	BaseDelay        time.Duration `json:"base_delay"`
	MaxDelay         time.Duration `json:"max_delay"`
	EnableJitter     bool          `json:"enable_jitter"`
	RetryStatusCodes []int         `json:"retry_status_codes"`
}

// DefaultRetryHandlerConfig retries throttling and gateway failures.
func DefaultRetryHandlerConfig(maxRetries int) RetryHandlerConfig {
	return RetryHandlerConfig{
		MaxRetries:   maxRetries,
		BaseDelay:    500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		EnableJitter: true,
		RetryStatusCodes: []int{
			http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// NewRetryHandler creates a new retry handler
func NewRetryHandler(config RetryHandlerConfig, logger zerolog.Logger) *RetryHandler {
	statusCodeMap := make(map[int]bool)
	for _, code := range config.RetryStatusCodes {
		statusCodeMap[code] = true
	}

	return &RetryHandler{
		maxRetries:       config.MaxRetries,
		baseDelay:        config.BaseDelay,
		maxDelay:         config.MaxDelay,
		enableJitter:     config.EnableJitter,
		retryStatusCodes: statusCodeMap,
		logger:           logger.With().Str("component", "RetryHandler").Logger(),
	}
}

// ShouldRetry determines if a status code is retryable
func (rh *RetryHandler) ShouldRetry(statusCode int) bool {
	return rh.retryStatusCodes[statusCode]
}

func (rh *RetryHandler) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = rh.baseDelay
	exp.MaxInterval = rh.maxDelay
	exp.MaxElapsedTime = 0
	if !rh.enableJitter {
		exp.RandomizationFactor = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(rh.maxRetries)), ctx)
}

// DoWithRetry executes an HTTP request with retry logic.
// When the retries are exhausted on a retryable status the last response is returned with an *errorwrapper.HTTPError.
func (rh *RetryHandler) DoWithRetry(ctx context.Context, doFunc func(*HTTPRequest) (*HTTPResponse, error), req *HTTPRequest) (*HTTPResponse, error) {
	var lastResp *HTTPResponse
	attempt := 0

	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempt++

		resp, err := doFunc(req)
		if err != nil {
			lastResp = nil
			return err
		}
		lastResp = resp

		if rh.ShouldRetry(resp.StatusCode) {
			return errorwrapper.NewHTTPErrorWithURL(resp.StatusCode, http.StatusText(resp.StatusCode), req.URL)
		}
		return nil
	}

	notify := func(err error, delay time.Duration) {
		rh.logger.Warn().
			Str("url", req.URL).
			Int("attempt", attempt).
			Int("max_retries", rh.maxRetries).
			Dur("delay", delay).
			Err(err).
			Msg("Request failed, waiting before retry")
	}

	err := backoff.RetryNotify(operation, rh.newBackOff(ctx), notify)
	if err == nil {
		return lastResp, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return lastResp, errorwrapper.WrapError(err, "all retry attempts failed")
}
