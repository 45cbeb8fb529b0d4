package extractor

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
)

// ExtractInlineScripts returns the bodies of <script> elements without a src attribute.
// Non-JavaScript script types (JSON blobs, templates) are skipped.
func ExtractInlineScripts(htmlContent []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlContent))
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to parse HTML")
	}

	var scripts []string
	doc.Find("script").Each(func(i int, s *goquery.Selection) {
		if _, hasSrc := s.Attr("src"); hasSrc {
			return
		}
		if scriptType, ok := s.Attr("type"); ok && !isJavaScriptType(scriptType) {
			return
		}
		body := strings.TrimSpace(s.Text())
		if body != "" {
			scripts = append(scripts, body)
		}
	})
	return scripts, nil
}

func isJavaScriptType(scriptType string) bool {
	scriptType = strings.ToLower(strings.TrimSpace(scriptType))
	return scriptType == "" || scriptType == "module" ||
		strings.Contains(scriptType, "javascript") || strings.Contains(scriptType, "ecmascript")
}
