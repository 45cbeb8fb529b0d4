package config

// HTTPClientConfig configures fetching of source maps.
type HTTPClientConfig struct {
	UserAgent          string            `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	TimeoutSecs        int               `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"omitempty,min=1"`
	MaxRetries         int               `json:"max_retries,omitempty" yaml:"max_retries,omitempty" validate:"omitempty,min=0,max=10"`
	RequestsPerSecond  float64           `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty" validate:"omitempty,gte=0"`
	Burst              int               `json:"burst,omitempty" yaml:"burst,omitempty" validate:"omitempty,min=1"`
	InsecureSkipVerify bool              `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	Proxy              string            `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`
	MaxContentSizeMB   int               `json:"max_content_size_mb,omitempty" yaml:"max_content_size_mb,omitempty" validate:"omitempty,min=1"`
	CustomHeaders      map[string]string `json:"custom_headers,omitempty" yaml:"custom_headers,omitempty"`
}

// NewDefaultHTTPClientConfig creates default HTTP client configuration
func NewDefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		UserAgent:          DefaultHTTPUserAgent,
		TimeoutSecs:        DefaultHTTPTimeoutSecs,
		MaxRetries:         DefaultHTTPMaxRetries,
		RequestsPerSecond:  DefaultHTTPRequestsPerSec,
		Burst:              DefaultHTTPBurst,
		InsecureSkipVerify: false,
		MaxContentSizeMB:   DefaultHTTPMaxContentSizeMB,
		CustomHeaders:      make(map[string]string),
	}
}
