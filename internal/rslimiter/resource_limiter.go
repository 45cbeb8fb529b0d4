package rslimiter

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/aleister1102/jsminer/internal/config"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceLimiter watches the process memory budget and system memory pressure.
type ResourceLimiter struct {
	config          config.ResourceLimiterConfig
	logger          zerolog.Logger
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	memoryThreshold int64
	isRunning       bool
	mu              sync.RWMutex
	onExceeded      func(usage ResourceUsage)
}

// NewResourceLimiter creates a new resource limiter
func NewResourceLimiter(cfg config.ResourceLimiterConfig, logger zerolog.Logger) *ResourceLimiter {
	ctx, cancel := context.WithCancel(context.Background())

	if cfg.MaxMemoryMB == 0 {
		cfg.MaxMemoryMB = config.DefaultResourceMaxMemoryMB
	}
	if cfg.CheckIntervalSecs == 0 {
		cfg.CheckIntervalSecs = config.DefaultResourceCheckIntervalSecs
	}
	if cfg.MemoryThreshold == 0 {
		cfg.MemoryThreshold = 0.8
	}

	return &ResourceLimiter{
		config:          cfg,
		logger:          logger.With().Str("component", "ResourceLimiter").Logger(),
		ctx:             ctx,
		cancel:          cancel,
		memoryThreshold: int64(float64(cfg.MaxMemoryMB) * cfg.MemoryThreshold),
	}
}

// SetExceededCallback registers a function called by the monitor loop when the memory limit is exceeded.
func (rl *ResourceLimiter) SetExceededCallback(callback func(usage ResourceUsage)) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.onExceeded = callback
}

// Start begins monitoring resource usage
func (rl *ResourceLimiter) Start() {
	rl.mu.Lock()
	if rl.isRunning {
		rl.mu.Unlock()
		return
	}
	rl.isRunning = true
	rl.mu.Unlock()

	rl.wg.Add(1)
	go rl.monitorResources()

	rl.logger.Info().
		Int64("max_memory_mb", rl.config.MaxMemoryMB).
		Dur("check_interval", rl.checkInterval()).
		Msg("Resource limiter started")
}

// Stop stops the resource monitor
func (rl *ResourceLimiter) Stop() {
	rl.mu.Lock()
	if !rl.isRunning {
		rl.mu.Unlock()
		return
	}
	rl.isRunning = false
	rl.mu.Unlock()

	rl.cancel()
	rl.wg.Wait()
	rl.logger.Info().Msg("Resource limiter stopped")
}

// IsRunning reports whether the monitor loop is active.
func (rl *ResourceLimiter) IsRunning() bool {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return rl.isRunning
}

// CheckMemoryLimit checks if current heap allocation exceeds the configured budget
func (rl *ResourceLimiter) CheckMemoryLimit() error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	currentMB := int64(m.Alloc / 1024 / 1024)
	if currentMB > rl.config.MaxMemoryMB {
		return fmt.Errorf("memory limit exceeded: current %dMB > limit %dMB", currentMB, rl.config.MaxMemoryMB)
	}
	return nil
}

// SystemMemoryUsedPercent returns system wide memory usage in percent.
func (rl *ResourceLimiter) SystemMemoryUsedPercent() (float64, error) {
	vmStat, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("failed to get system memory stats: %w", err)
	}
	return vmStat.UsedPercent, nil
}

func (rl *ResourceLimiter) checkInterval() time.Duration {
	return time.Duration(rl.config.CheckIntervalSecs) * time.Second
}

func (rl *ResourceLimiter) monitorResources() {
	defer rl.wg.Done()

	ticker := time.NewTicker(rl.checkInterval())
	defer ticker.Stop()

	for {
		select {
		case <-rl.ctx.Done():
			return
		case <-ticker.C:
			rl.checkAndLogResourceUsage()
		}
	}
}

func (rl *ResourceLimiter) checkAndLogResourceUsage() {
	usage := GetResourceUsage()

	if usage.AllocMB > rl.memoryThreshold {
		rl.logger.Warn().
			Int64("current_mb", usage.AllocMB).
			Int64("threshold_mb", rl.memoryThreshold).
			Int64("limit_mb", rl.config.MaxMemoryMB).
			Msg("Memory usage approaching limit")
	}

	if usage.AllocMB > rl.config.MaxMemoryMB {
		rl.mu.RLock()
		callback := rl.onExceeded
		rl.mu.RUnlock()
		if callback != nil {
			callback(usage)
		}
	}

	rl.logger.Debug().
		Int64("alloc_mb", usage.AllocMB).
		Int64("sys_mb", usage.SysMB).
		Int("goroutines", usage.Goroutines).
		Int64("gc_count", usage.GCCount).
		Float64("system_mem_percent", usage.SystemMemUsedPercent).
		Msg("Current resource usage")
}
