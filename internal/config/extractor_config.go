package config

// ExtractorConfig defines configuration for endpoint extraction
type ExtractorConfig struct {
	Enabled       bool     `json:"enabled" yaml:"enabled"`
	CustomRegexes []string `json:"custom_regexes,omitempty" yaml:"custom_regexes,omitempty"`
	Denylist      []string `json:"denylist,omitempty" yaml:"denylist,omitempty"`
	// SourceMapReferences reports sourceMappingURL comments found in scripts.
	SourceMapReferences bool `json:"source_map_references" yaml:"source_map_references"`
}

// NewDefaultExtractorConfig creates default extractor configuration
func NewDefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Enabled:             true,
		CustomRegexes:       []string{},
		Denylist:            []string{},
		SourceMapReferences: true,
	}
}
