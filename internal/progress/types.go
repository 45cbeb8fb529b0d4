package progress

import "time"

// Status is the lifecycle of a tracked operation.
type Status string

const (
	StatusIdle      Status = "IDLE"
	StatusRunning   Status = "RUNNING"
	StatusComplete  Status = "COMPLETE"
	StatusCancelled Status = "CANCELLED"
)

// Info is a snapshot of a Progress.
type Info struct {
	Status         Status
	Current        int64
	Total          int64
	Failed         int64
	Stage          string
	StartTime      time.Time
	LastUpdateTime time.Time
	EstimatedETA   time.Duration
}

// updateETA extrapolates the remaining time from the rate so far.
func (i *Info) updateETA() {
	i.EstimatedETA = 0
	if i.Total <= 0 || i.Current <= 0 || i.Status != StatusRunning {
		return
	}

	elapsed := time.Since(i.StartTime)
	if elapsed <= 0 {
		return
	}
	rate := float64(i.Current) / elapsed.Seconds()
	remaining := float64(i.Total - i.Current)
	if rate <= 0 || remaining <= 0 {
		return
	}
	i.EstimatedETA = time.Duration(remaining / rate * float64(time.Second))
}

// Percentage returns completion in [0, 100].
func (i Info) Percentage() float64 {
	if i.Total <= 0 {
		return 0
	}
	p := float64(i.Current) * 100 / float64(i.Total)
	if p > 100 {
		return 100
	}
	return p
}
