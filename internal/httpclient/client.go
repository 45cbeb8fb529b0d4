package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"

	"github.com/aleister1102/jsminer/internal/common/bodydecoder"
	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// HTTPClient wraps net/http.Client with per-site rate limiting, retries and body decoding.
type HTTPClient struct {
	client       *http.Client
	config       HTTPClientConfig
	logger       zerolog.Logger
	retryHandler *RetryHandler
	limiter      *SiteRateLimiter
	bufferPool   sync.Pool
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	logger = logger.With().Str("component", "HTTPClient").Logger()

	transport := &http.Transport{
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		MaxConnsPerHost:       config.MaxConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ExpectContinueTimeout: config.ExpectContinueTimeout,
		DisableCompression:    true,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		}
	}

	if config.Proxy != "" {
		proxyURL, err := url.Parse(config.Proxy)
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to parse proxy URL")
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		logger.Info().Str("proxy", config.Proxy).Msg("HTTP client configured with proxy")
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	if !config.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else if config.MaxRedirects > 0 {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
			}
			return nil
		}
	}

	c := &HTTPClient{
		client:  client,
		config:  config,
		logger:  logger,
		limiter: NewSiteRateLimiter(config.RequestsPerSecond, config.Burst),
		bufferPool: sync.Pool{
			New: func() interface{} {
				b := make([]byte, 32*1024)
				return &b
			},
		},
	}
	if config.MaxRetries > 0 {
		c.retryHandler = NewRetryHandler(DefaultRetryHandlerConfig(config.MaxRetries), logger)
	}

	logger.Debug().
		Dur("timeout", config.Timeout).
		Bool("insecure_skip_verify", config.InsecureSkipVerify).
		Bool("http2_enabled", config.EnableHTTP2).
		Int("max_retries", config.MaxRetries).
		Float64("requests_per_second", config.RequestsPerSecond).
		Msg("HTTP client created")

	return c, nil
}

// Do performs an HTTP request, with retries if a retry handler is configured.
func (c *HTTPClient) Do(req *HTTPRequest) (*HTTPResponse, error) {
	if c.retryHandler != nil {
		return c.retryHandler.DoWithRetry(requestContext(req), c.do, req)
	}
	return c.do(req)
}

func requestContext(req *HTTPRequest) context.Context {
	if req.Context != nil {
		return req.Context
	}
	return context.Background()
}

func (c *HTTPClient) do(req *HTTPRequest) (*HTTPResponse, error) {
	ctx := requestContext(req)

	site, err := urlhandler.ToConnectionTargetString(req.URL)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx, site.Address()); err != nil {
		return nil, errorwrapper.WrapError(err, "rate limiter wait aborted")
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, req.Body)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create HTTP request")
	}

	for key, value := range c.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "*/*")
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errorwrapper.NewNetworkError(req.URL, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	bufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(bufPtr)
	buf := bytes.NewBuffer((*bufPtr)[:0])

	var reader io.Reader = resp.Body
	if c.config.MaxContentSize > 0 {
		reader = io.LimitReader(resp.Body, int64(c.config.MaxContentSize)+1)
	}
	if _, err := io.Copy(buf, reader); err != nil {
		return nil, errorwrapper.NewNetworkError(req.URL, "failed to read response body", err)
	}

	bodyBytes := make([]byte, buf.Len())
	copy(bodyBytes, buf.Bytes())

	httpResp := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    make(map[string]string),
	}
	for key, values := range resp.Header {
		if len(values) > 0 {
			httpResp.Headers[key] = values[0]
		}
	}

	if c.config.MaxContentSize > 0 && len(bodyBytes) > c.config.MaxContentSize {
		c.logger.Warn().
			Str("url", req.URL).
			Int("max_content_size", c.config.MaxContentSize).
			Msg("Content size exceeds limit, truncating")
		bodyBytes = bodyBytes[:c.config.MaxContentSize]
		httpResp.Truncated = true
	}

	if encoding := resp.Header.Get("Content-Encoding"); encoding != "" && !httpResp.Truncated {
		decoded, err := bodydecoder.Decode(encoding, bodyBytes, int64(c.maxDecodedSize()))
		if err != nil {
			c.logger.Debug().Err(err).Str("url", req.URL).Msg("Failed to decode body, keeping raw bytes")
		} else {
			bodyBytes = decoded
			delete(httpResp.Headers, "Content-Encoding")
		}
	}
	httpResp.Body = bodyBytes

	return httpResp, nil
}

func (c *HTTPClient) maxDecodedSize() int {
	if c.config.MaxContentSize > 0 {
		return c.config.MaxContentSize
	}
	return int(bodydecoder.DefaultMaxDecodedSize)
}
