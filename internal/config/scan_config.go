package config

// ScanConfig selects the task families and tunes the detectors.
// Source-map fetch tasks are only dispatched when more than one candidate is derived.
type ScanConfig struct {
	SourceMapEnabled        bool   `json:"source_map_enabled" yaml:"source_map_enabled"`
	InterestingStuffEnabled bool   `json:"interesting_stuff_enabled" yaml:"interesting_stuff_enabled"`
	SourceMapOutputDir      string `json:"source_map_output_dir,omitempty" yaml:"source_map_output_dir,omitempty"`
}

// NewDefaultScanConfig creates default scan configuration
func NewDefaultScanConfig() ScanConfig {
	return ScanConfig{
		SourceMapEnabled:        true,
		InterestingStuffEnabled: true,
		SourceMapOutputDir:      DefaultScanSourceMapOutDir,
	}
}
