package extractor

import (
	"github.com/rs/zerolog"
	regexp "github.com/wasilibs/go-re2"
)

// CompileRegexes compiles patterns with the RE2 engine, logging and skipping invalid ones
func CompileRegexes(patterns []string, logger zerolog.Logger) []*regexp.Regexp {
	var compiledRegexes []*regexp.Regexp
	for _, pattern := range patterns {
		if re, err := regexp.Compile(pattern); err == nil {
			compiledRegexes = append(compiledRegexes, re)
		} else {
			logger.Warn().
				Str("pattern", pattern).
				Err(err).
				Msg("Failed to compile regex, skipping")
		}
	}
	return compiledRegexes
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
