package httpclient

import (
	"context"
	"net/http"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/aleister1102/jsminer/internal/common/urlhandler"
)

// FetchResult holds the outcome of a successful GET.
type FetchResult struct {
	Target      urlhandler.Target
	StatusCode  int
	ContentType string
	Content     []byte
	Truncated   bool
}

// Fetch GETs target. Non-2xx responses fail with *errorwrapper.HTTPError.
func (c *HTTPClient) Fetch(ctx context.Context, target urlhandler.Target) (*FetchResult, error) {
	rawURL := urlhandler.Canonicalize(target)

	resp, err := c.Do(&HTTPRequest{
		URL:     rawURL,
		Method:  http.MethodGet,
		Context: ctx,
	})
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		message := resp.Body
		if len(message) > 256 {
			message = message[:256]
		}
		return nil, errorwrapper.NewHTTPErrorWithURL(resp.StatusCode, string(message), rawURL)
	}

	c.logger.Debug().
		Str("url", rawURL).
		Int("content_size", len(resp.Body)).
		Msg("Successfully fetched content")

	return &FetchResult{
		Target:      target,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Headers["Content-Type"],
		Content:     resp.Body,
		Truncated:   resp.Truncated,
	}, nil
}
