package urlhandler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	got, err := NormalizeURL("  Example.com/app.js ")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/app.js", got)

	got, err = NormalizeURL("http://example.com:80/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/", got)

	_, err = NormalizeURL("")
	assert.Error(t, err)
}

func TestResolveURL(t *testing.T) {
	base, err := url.Parse("https://example.com/static/js/app.js")
	require.NoError(t, err)

	got, err := ResolveURL("app.js.map", base)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/static/js/app.js.map", got)

	got, err = ResolveURL("https://cdn.example.com/x.map", base)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/x.map", got)

	_, err = ResolveURL("relative.map", nil)
	assert.Error(t, err)
}

func TestRootDomain(t *testing.T) {
	tests := []struct {
		host   string
		want   string
		wantOK bool
	}{
		{"sub.example.com", "example.com", true},
		{"example.com:8443", "example.com", true},
		{"a.b.c.example.org", "example.org", true},
		{"localhost", "", false},
		{"127.0.0.1", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := RootDomain(tt.host)
		assert.Equal(t, tt.wantOK, ok, tt.host)
		assert.Equal(t, tt.want, got, tt.host)
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "example.com_static_app.js", SanitizeFilename("https://example.com/static/app.js"))
	assert.Equal(t, "src_index.ts", SanitizeFilename("webpack:///./src/index.ts"))
	assert.Equal(t, "sanitized_empty_input", SanitizeFilename("https://"))
	assert.NotContains(t, SanitizeFilename("../../etc/passwd"), "..")
}
