package extractor

import (
	"strings"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/rs/zerolog"
)

// ValidationResult holds the result of URL validation
type ValidationResult struct {
	AbsoluteURL string
	IsValid     bool
	Error       error
}

// URLValidator resolves extracted paths against the script they were found in
type URLValidator struct {
	logger zerolog.Logger
}

// NewURLValidator creates a new URL validator
func NewURLValidator(logger zerolog.Logger) *URLValidator {
	return &URLValidator{
		logger: logger.With().Str("component", "URLValidator").Logger(),
	}
}

// ValidateAndResolveURL resolves rawPath against base and canonicalizes the result.
// Template placeholders and non-web schemes are rejected.
func (uv *URLValidator) ValidateAndResolveURL(rawPath string, base urlhandler.Target) ValidationResult {
	rawPath = strings.TrimSpace(rawPath)
	if rawPath == "" {
		return ValidationResult{Error: errorwrapper.NewValidationError("raw_path", rawPath, "path cannot be empty")}
	}
	if strings.ContainsAny(rawPath, " \t\n<>{}") || strings.Contains(rawPath, "EXPR") {
		return ValidationResult{Error: errorwrapper.NewValidationError("raw_path", rawPath, "path contains template or whitespace characters")}
	}

	resolved, err := urlhandler.ResolveURL(rawPath, base.URL())
	if err != nil {
		return ValidationResult{Error: err}
	}

	target, err := urlhandler.Parse(resolved)
	if err != nil {
		return ValidationResult{Error: err}
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return ValidationResult{Error: errorwrapper.NewValidationError("scheme", target.Scheme, "only http and https endpoints are reported")}
	}

	return ValidationResult{AbsoluteURL: urlhandler.Canonicalize(target), IsValid: true}
}
