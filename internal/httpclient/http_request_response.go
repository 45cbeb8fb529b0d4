package httpclient

import (
	"context"
	"io"
)

// HTTPRequest represents an HTTP request
type HTTPRequest struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    io.Reader
	Context context.Context
}

// HTTPResponse represents an HTTP response. Body is already content-decoded.
type HTTPResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Truncated  bool
}

// IsSuccess reports a 2xx status.
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
