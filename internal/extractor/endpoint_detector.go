package extractor

import (
	"context"
	"sort"
	"strings"

	"github.com/BishopFox/jsluice"
	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/config"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/rs/zerolog"
	regexp "github.com/wasilibs/go-re2"
)

// EndpointFindingName is the issue name for extracted endpoints.
const EndpointFindingName = "API Endpoints"

// EndpointDetector lists URLs and paths referenced by a script.
type EndpointDetector struct {
	config        config.ExtractorConfig
	logger        zerolog.Logger
	validator     *URLValidator
	customRegexes []*regexp.Regexp
	denylist      []*regexp.Regexp
}

// NewEndpointDetector compiles the configured custom and denylist patterns.
func NewEndpointDetector(cfg config.ExtractorConfig, logger zerolog.Logger) *EndpointDetector {
	detectorLogger := logger.With().Str("component", "EndpointDetector").Logger()
	return &EndpointDetector{
		config:        cfg,
		logger:        detectorLogger,
		validator:     NewURLValidator(logger),
		customRegexes: CompileRegexes(cfg.CustomRegexes, detectorLogger),
		denylist:      CompileRegexes(cfg.Denylist, detectorLogger),
	}
}

// Name identifies the detector in logs and metrics.
func (d *EndpointDetector) Name() string {
	return "endpoints"
}

// Detect runs jsluice and the custom patterns over content and folds every
// endpoint of one source into a single finding.
func (d *EndpointDetector) Detect(ctx context.Context, source urlhandler.Target, content []byte) ([]models.Finding, error) {
	if !d.config.Enabled || len(content) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{})
	var lines []string
	add := func(raw, kind string) {
		result := d.validator.ValidateAndResolveURL(raw, source)
		if !result.IsValid {
			d.logger.Debug().Str("raw", raw).Err(result.Error).Msg("Invalid endpoint")
			return
		}
		if matchesAny(d.denylist, result.AbsoluteURL) {
			return
		}
		if _, dup := seen[result.AbsoluteURL]; dup {
			return
		}
		seen[result.AbsoluteURL] = struct{}{}
		if kind == "" {
			kind = "unknown"
		}
		lines = append(lines, result.AbsoluteURL+" ("+kind+")")
	}

	for _, u := range jsluice.NewAnalyzer(content).GetURLs() {
		if u == nil {
			continue
		}
		add(u.URL, u.Type)
	}

	if len(d.customRegexes) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := string(content)
		for _, re := range d.customRegexes {
			for _, match := range re.FindAllString(text, -1) {
				add(strings.Trim(match, `"'`+"`"), "custom")
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	if len(lines) == 0 {
		return nil, nil
	}
	sort.Strings(lines)

	d.logger.Debug().Int("count", len(lines)).Str("url", source.String()).Msg("Extracted endpoints")

	return []models.Finding{{
		Name:           EndpointFindingName,
		Detail:         "The following endpoints were found:\n- " + strings.Join(lines, "\n- "),
		EvidenceTarget: source,
		Severity:       models.SeverityInformation,
		Confidence:     models.ConfidenceTentative,
	}}, nil
}
