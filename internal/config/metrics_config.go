package config

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// ListenAddress serves /metrics when set, e.g. "127.0.0.1:9464".
	ListenAddress string `json:"listen_address,omitempty" yaml:"listen_address,omitempty" validate:"omitempty,hostname_port"`
	Path          string `json:"path,omitempty" yaml:"path,omitempty"`
}

// NewDefaultMetricsConfig creates default metrics configuration
func NewDefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{Path: DefaultMetricsPath}
}
