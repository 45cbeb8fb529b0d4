package progress

import (
	"sync"
	"time"
)

// Progress tracks one operation. Safe for concurrent use.
type Progress struct {
	mu   sync.RWMutex
	info Info
}

// NewProgress creates an idle Progress.
func NewProgress() *Progress {
	return &Progress{info: Info{Status: StatusIdle}}
}

// Info returns a copy of the current state.
func (p *Progress) Info() Info {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.info
}

// Update records counters. The first update starts the clock.
func (p *Progress) Update(current, total, failed int64, stage string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if p.info.Status == StatusIdle {
		p.info.StartTime = now
		p.info.Status = StatusRunning
	}

	p.info.Current = current
	p.info.Total = total
	p.info.Failed = failed
	p.info.Stage = stage
	p.info.LastUpdateTime = now
	p.info.updateETA()
}

// SetStatus moves the progress to status.
func (p *Progress) SetStatus(status Status) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.info.Status = status
	p.info.LastUpdateTime = time.Now()
	p.info.updateETA()
}
