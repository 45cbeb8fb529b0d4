package extractor

import (
	"strings"

	"github.com/aleister1102/jsminer/internal/models"
)

var scriptExtensions = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx"}

// ContentKind classifies a response body for analysis.
type ContentKind int

const (
	ContentOther ContentKind = iota
	ContentScript
	ContentHTML
)

// ClassifyRecord decides whether a record body is a script, an HTML page or neither.
// The content type wins; the path extension is the fallback.
func ClassifyRecord(record models.TrafficRecord) ContentKind {
	contentType := strings.ToLower(record.ContentType)
	switch {
	case strings.Contains(contentType, "javascript"), strings.Contains(contentType, "ecmascript"):
		return ContentScript
	case strings.Contains(contentType, "text/html"), strings.Contains(contentType, "application/xhtml"):
		return ContentHTML
	}

	path := strings.ToLower(record.Target.Path)
	for _, ext := range scriptExtensions {
		if strings.HasSuffix(path, ext) {
			return ContentScript
		}
	}
	if strings.HasSuffix(path, ".html") || strings.HasSuffix(path, ".htm") {
		return ContentHTML
	}
	return ContentOther
}
