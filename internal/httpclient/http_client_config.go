package httpclient

import (
	"time"

	"github.com/aleister1102/jsminer/internal/config"
)

// HTTPClientConfig holds configuration for HTTP clients
type HTTPClientConfig struct {
	Timeout               time.Duration     // Request timeout
	InsecureSkipVerify    bool              // Skip TLS verification
	FollowRedirects       bool              // Whether to follow redirects
	MaxRedirects          int               // Maximum number of redirects to follow
	Proxy                 string            // Proxy URL
	UserAgent             string            // User-Agent header sent with every request
	CustomHeaders         map[string]string // Headers added to all requests
	MaxContentSize        int               // Response body cap in bytes, 0 for no limit
	MaxRetries            int               // Retries on network errors and retryable statuses
	RequestsPerSecond     float64           // Per-site request rate, 0 disables limiting
	Burst                 int               // Per-site burst
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	MaxConnsPerHost       int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ExpectContinueTimeout time.Duration
	DialTimeout           time.Duration
	KeepAlive             time.Duration
	EnableHTTP2           bool
}

// DefaultHTTPClientConfig returns the default HTTP client configuration
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:               time.Duration(config.DefaultHTTPTimeoutSecs) * time.Second,
		FollowRedirects:       true,
		MaxRedirects:          10,
		UserAgent:             config.DefaultHTTPUserAgent,
		MaxContentSize:        config.DefaultHTTPMaxContentSizeMB * 1024 * 1024,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DialTimeout:           10 * time.Second,
		KeepAlive:             30 * time.Second,
		EnableHTTP2:           true,
		CustomHeaders: map[string]string{
			"Accept":          "*/*",
			"Accept-Language": "en-US,en;q=0.9",
			"Accept-Encoding": "gzip, deflate, br, zstd",
		},
	}
}

// FromConfig maps the file configuration onto a client configuration.
func FromConfig(cfg config.HTTPClientConfig) HTTPClientConfig {
	out := DefaultHTTPClientConfig()
	if cfg.TimeoutSecs > 0 {
		out.Timeout = time.Duration(cfg.TimeoutSecs) * time.Second
	}
	if cfg.UserAgent != "" {
		out.UserAgent = cfg.UserAgent
	}
	if cfg.MaxContentSizeMB > 0 {
		out.MaxContentSize = cfg.MaxContentSizeMB * 1024 * 1024
	}
	out.InsecureSkipVerify = cfg.InsecureSkipVerify
	out.Proxy = cfg.Proxy
	out.MaxRetries = cfg.MaxRetries
	out.RequestsPerSecond = cfg.RequestsPerSecond
	out.Burst = cfg.Burst
	for key, value := range cfg.CustomHeaders {
		out.CustomHeaders[key] = value
	}
	return out
}
