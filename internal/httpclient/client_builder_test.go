package httpclient

import (
	"testing"
	"time"

	"github.com/aleister1102/jsminer/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientBuilder(t *testing.T) {
	client, err := NewHTTPClientBuilder(zerolog.Nop()).
		WithTimeout(15 * time.Second).
		WithUserAgent("test-agent").
		WithFollowRedirects(false).
		WithInsecureSkipVerify(true).
		WithMaxRedirects(5).
		WithRateLimit(2, 4).
		Build()

	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, client.config.Timeout)
	assert.Equal(t, "test-agent", client.config.UserAgent)
	assert.False(t, client.config.FollowRedirects)
	assert.True(t, client.config.InsecureSkipVerify)
	assert.Equal(t, 5, client.config.MaxRedirects)
	assert.Equal(t, 2.0, client.config.RequestsPerSecond)
	assert.Equal(t, 4, client.config.Burst)
}

func TestHTTPClientBuilder_DefaultValues(t *testing.T) {
	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	defaults := DefaultHTTPClientConfig()
	assert.Equal(t, defaults.Timeout, client.config.Timeout)
	assert.Equal(t, defaults.UserAgent, client.config.UserAgent)
	assert.Equal(t, defaults.FollowRedirects, client.config.FollowRedirects)
	assert.Equal(t, defaults.MaxRedirects, client.config.MaxRedirects)
}

func TestHTTPClientBuilder_InvalidProxy(t *testing.T) {
	cfg := DefaultHTTPClientConfig()
	cfg.Proxy = "://bad"
	_, err := NewHTTPClientBuilder(zerolog.Nop()).WithConfig(cfg).Build()
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	fileCfg := config.NewDefaultHTTPClientConfig()
	fileCfg.TimeoutSecs = 7
	fileCfg.MaxContentSizeMB = 2
	fileCfg.MaxRetries = 3
	fileCfg.CustomHeaders = map[string]string{"X-Scan": "jsminer"}

	cfg := FromConfig(fileCfg)
	assert.Equal(t, 7*time.Second, cfg.Timeout)
	assert.Equal(t, 2*1024*1024, cfg.MaxContentSize)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, config.DefaultHTTPRequestsPerSec, cfg.RequestsPerSecond)
	assert.Equal(t, "jsminer", cfg.CustomHeaders["X-Scan"])
	assert.Equal(t, "*/*", cfg.CustomHeaders["Accept"])
}
