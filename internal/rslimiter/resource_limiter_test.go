package rslimiter

import (
	"testing"

	"github.com/aleister1102/jsminer/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceLimiter_DefaultsApplied(t *testing.T) {
	rl := NewResourceLimiter(config.ResourceLimiterConfig{}, zerolog.Nop())

	require.NotNil(t, rl)
	assert.Equal(t, int64(config.DefaultResourceMaxMemoryMB), rl.config.MaxMemoryMB)
	assert.Equal(t, config.DefaultResourceCheckIntervalSecs, rl.config.CheckIntervalSecs)
	defaultMaxMemoryMB := float64(config.DefaultResourceMaxMemoryMB)
	assert.Equal(t, int64(defaultMaxMemoryMB*0.8), rl.memoryThreshold)
}

func TestResourceLimiter_StartAndStop(t *testing.T) {
	rl := NewResourceLimiter(config.NewDefaultResourceLimiterConfig(), zerolog.Nop())

	rl.Start()
	assert.True(t, rl.IsRunning())
	rl.Start()

	rl.Stop()
	assert.False(t, rl.IsRunning())
	rl.Stop()
}

func TestResourceLimiter_CheckMemoryLimit(t *testing.T) {
	cfg := config.NewDefaultResourceLimiterConfig()
	cfg.MaxMemoryMB = 1 << 20
	rl := NewResourceLimiter(cfg, zerolog.Nop())
	assert.NoError(t, rl.CheckMemoryLimit())

	rl.config.MaxMemoryMB = -1
	assert.Error(t, rl.CheckMemoryLimit())
}

func TestResourceLimiter_ExceededCallback(t *testing.T) {
	rl := NewResourceLimiter(config.NewDefaultResourceLimiterConfig(), zerolog.Nop())
	rl.config.MaxMemoryMB = -1

	var called bool
	rl.SetExceededCallback(func(usage ResourceUsage) { called = true })
	rl.checkAndLogResourceUsage()

	assert.True(t, called)
}

func TestGetResourceUsage(t *testing.T) {
	usage := GetResourceUsage()

	assert.NotZero(t, usage.SysMB)
	assert.NotZero(t, usage.Goroutines)
}
