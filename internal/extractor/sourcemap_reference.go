package extractor

import (
	"context"
	"encoding/base64"
	"sort"
	"strconv"
	"strings"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/rs/zerolog"
	regexp "github.com/wasilibs/go-re2"
)

// SourceMapReferenceFindingName is the issue name for sourceMappingURL comments.
const SourceMapReferenceFindingName = "Source Map Reference"

var errMalformedDataURI = errorwrapper.WrapError(errorwrapper.ErrMalformedInput, "data URI has no payload")

var sourceMappingURLRegex = regexp.MustCompile(`(?://|/\*)[#@]\s*sourceMappingURL\s*=\s*(\S+)`)

// SourceMapReferenceDetector reports scripts that point at a source map.
type SourceMapReferenceDetector struct {
	logger    zerolog.Logger
	validator *URLValidator
}

// NewSourceMapReferenceDetector creates the detector.
func NewSourceMapReferenceDetector(logger zerolog.Logger) *SourceMapReferenceDetector {
	return &SourceMapReferenceDetector{
		logger:    logger.With().Str("component", "SourceMapReferenceDetector").Logger(),
		validator: NewURLValidator(logger),
	}
}

// Name identifies the detector in logs and metrics.
func (d *SourceMapReferenceDetector) Name() string {
	return "source-map-references"
}

// Detect lists the resolved sourceMappingURL targets of content. Inline data URIs are
// reported with the number of sources they embed.
func (d *SourceMapReferenceDetector) Detect(ctx context.Context, source urlhandler.Target, content []byte) ([]models.Finding, error) {
	refs := FindSourceMapReferences(content)
	if len(refs) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var lines []string
	for _, ref := range refs {
		if strings.HasPrefix(ref, "data:") {
			sm, err := DecodeInlineSourceMap(ref)
			if err != nil {
				d.logger.Debug().Err(err).Str("url", source.String()).Msg("Unreadable inline source map")
				lines = append(lines, "inline source map (unreadable)")
				continue
			}
			lines = append(lines, "inline source map with "+strconv.Itoa(len(sm.Sources))+" sources")
			continue
		}
		result := d.validator.ValidateAndResolveURL(ref, source)
		if !result.IsValid {
			continue
		}
		lines = append(lines, result.AbsoluteURL)
	}
	if len(lines) == 0 {
		return nil, nil
	}
	sort.Strings(lines)

	return []models.Finding{{
		Name:           SourceMapReferenceFindingName,
		Detail:         "The script references the following source maps:\n- " + strings.Join(lines, "\n- "),
		EvidenceTarget: source,
		Severity:       models.SeverityInformation,
		Confidence:     models.ConfidenceCertain,
	}}, nil
}

// FindSourceMapReferences returns the raw sourceMappingURL values in content, in order, without duplicates.
func FindSourceMapReferences(content []byte) []string {
	var refs []string
	seen := make(map[string]struct{})
	for _, m := range sourceMappingURLRegex.FindAllSubmatch(content, -1) {
		ref := strings.TrimRight(strings.TrimSuffix(string(m[1]), "*/"), ";")
		if ref == "" {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	return refs
}

// DecodeInlineSourceMap parses a data:application/json;base64 source map URI.
func DecodeInlineSourceMap(dataURI string) (*SourceMap, error) {
	comma := strings.IndexByte(dataURI, ',')
	if comma < 0 {
		return nil, errMalformedDataURI
	}
	meta, payload := dataURI[:comma], dataURI[comma+1:]
	if !strings.Contains(meta, ";base64") {
		return ParseSourceMap([]byte(payload))
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, err
		}
	}
	return ParseSourceMap(decoded)
}
