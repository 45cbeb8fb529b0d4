package config

import "time"

// GuardConfig defines the timeout ladder applied to every detector run.
type GuardConfig struct {
	GraceMillis int   `json:"grace_ms,omitempty" yaml:"grace_ms,omitempty" validate:"omitempty,min=1"`
	TierSeconds []int `json:"tier_seconds,omitempty" yaml:"tier_seconds,omitempty" validate:"omitempty,dive,min=1"`
}

// NewDefaultGuardConfig creates default guard configuration: 1s grace then 3 tiers of 60s.
func NewDefaultGuardConfig() GuardConfig {
	tiers := make([]int, DefaultGuardTierCount)
	for i := range tiers {
		tiers[i] = DefaultGuardTierSeconds
	}
	return GuardConfig{
		GraceMillis: DefaultGuardGraceMillis,
		TierSeconds: tiers,
	}
}

// Grace returns the grace period as a duration.
func (c GuardConfig) Grace() time.Duration {
	if c.GraceMillis <= 0 {
		return DefaultGuardGraceMillis * time.Millisecond
	}
	return time.Duration(c.GraceMillis) * time.Millisecond
}

// Tiers returns the escalation tiers as durations.
func (c GuardConfig) Tiers() []time.Duration {
	if len(c.TierSeconds) == 0 {
		return DefaultGuardTiers()
	}
	tiers := make([]time.Duration, len(c.TierSeconds))
	for i, secs := range c.TierSeconds {
		tiers[i] = time.Duration(secs) * time.Second
	}
	return tiers
}
