package progress

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aleister1102/jsminer/internal/workerpool"
	"github.com/rs/zerolog"
)

const defaultDisplayInterval = 3 * time.Second

// StatsSource reports the counters the display renders.
type StatsSource interface {
	Stats() workerpool.Stats
}

// Display periodically logs the task progress of a worker pool.
type Display struct {
	source   StatsSource
	progress *Progress
	interval time.Duration
	logger   zerolog.Logger

	mu            sync.Mutex
	running       bool
	cancel        context.CancelFunc
	done          chan struct{}
	lastDisplayed string
}

// NewDisplay creates a Display. A non-positive interval uses 3s.
func NewDisplay(source StatsSource, interval time.Duration, logger zerolog.Logger) *Display {
	if interval <= 0 {
		interval = defaultDisplayInterval
	}
	return &Display{
		source:   source,
		progress: NewProgress(),
		interval: interval,
		logger:   logger.With().Str("component", "ProgressDisplay").Logger(),
	}
}

// Start begins logging until ctx is done or Stop is called.
func (d *Display) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	d.running = true
	d.cancel = cancel
	d.done = make(chan struct{})

	go d.loop(loopCtx)
}

// Stop ends the loop and logs a final line.
func (d *Display) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.cancel()
	done := d.done
	d.mu.Unlock()

	<-done
	d.refresh()
	d.progress.SetStatus(StatusComplete)
	d.render()
}

// Info returns the latest snapshot.
func (d *Display) Info() Info {
	return d.progress.Info()
}

func (d *Display) loop(ctx context.Context) {
	defer close(d.done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.refresh()
			d.render()
		}
	}
}

func (d *Display) refresh() {
	stats := d.source.Stats()
	finished := stats.Completed + stats.Failed
	d.progress.Update(finished, stats.Submitted, stats.Failed, "tasks")
}

func (d *Display) render() {
	output := FormatInfo(d.progress.Info())
	if output == "" || output == d.lastDisplayed {
		return
	}
	d.lastDisplayed = output
	d.logger.Info().Msg(output)
}

// FormatInfo renders a one-line summary, or "" while nothing was submitted.
func FormatInfo(info Info) string {
	if info.Total <= 0 {
		return ""
	}

	var b strings.Builder
	percentage := info.Percentage()
	fmt.Fprintf(&b, "Scan: %s %.1f%% (%d/%d %s)", progressBar(percentage, 20), percentage, info.Current, info.Total, info.Stage)
	if info.Failed > 0 {
		fmt.Fprintf(&b, " | failed: %d", info.Failed)
	}
	if info.EstimatedETA > 0 && info.Status == StatusRunning {
		fmt.Fprintf(&b, " | ETA: %s", formatDuration(info.EstimatedETA))
	}
	if info.Status == StatusComplete {
		b.WriteString(" | done")
	}
	return b.String()
}

func progressBar(percentage float64, width int) string {
	filled := int(percentage / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.0fm", d.Minutes())
	default:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
}
