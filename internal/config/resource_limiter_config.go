package config

// ResourceLimiterConfig holds configuration for resource monitoring
type ResourceLimiterConfig struct {
	MaxMemoryMB       int64   `json:"max_memory_mb,omitempty" yaml:"max_memory_mb,omitempty" validate:"omitempty,min=64"`
	CheckIntervalSecs int     `json:"check_interval_secs,omitempty" yaml:"check_interval_secs,omitempty" validate:"omitempty,min=1"`
	MemoryThreshold   float64 `json:"memory_threshold,omitempty" yaml:"memory_threshold,omitempty" validate:"omitempty,min=0.1,max=1.0"`
}

// NewDefaultResourceLimiterConfig creates default resource limiter configuration
func NewDefaultResourceLimiterConfig() ResourceLimiterConfig {
	return ResourceLimiterConfig{
		MaxMemoryMB:       DefaultResourceMaxMemoryMB,
		CheckIntervalSecs: DefaultResourceCheckIntervalSecs,
		MemoryThreshold:   0.8,
	}
}
