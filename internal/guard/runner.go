package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/aleister1102/jsminer/internal/common/errorwrapper"
	"github.com/rs/zerolog"
)

// Outcome is the terminal state of a guarded call.
type Outcome int

const (
	Completed Outcome = iota
	ForcedCancellation
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case ForcedCancellation:
		return "forced_cancellation"
	default:
		return "unknown"
	}
}

// Runner executes work under a timeout ladder.
type Runner struct {
	ladder Ladder
	logger zerolog.Logger
}

// NewRunner creates a Runner. A zero ladder falls back to DefaultLadder.
func NewRunner(ladder Ladder, logger zerolog.Logger) *Runner {
	if ladder.Grace <= 0 && len(ladder.Tiers) == 0 {
		ladder = DefaultLadder()
	}
	return &Runner{
		ladder: ladder,
		logger: logger.With().Str("component", "GuardRunner").Logger(),
	}
}

// Ladder returns the schedule the runner applies.
func (r *Runner) Ladder() Ladder {
	return r.ladder
}

// Run starts work and returns as soon as it completes. If it is still running
// once the grace period and every tier have elapsed, its context is cancelled,
// the goroutine is abandoned and Run returns ForcedCancellation with
// errorwrapper.ErrForcedCancellation. Cancelling ctx reclaims the work early.
func (r *Runner) Run(ctx context.Context, work func(ctx context.Context) error) (Outcome, error) {
	started := time.Now()
	h := Start(ctx, work)

	if r.wait(ctx, h, r.ladder.Grace) {
		h.release()
		return Completed, h.Err()
	}

	for i, tier := range r.ladder.Tiers {
		if ctx.Err() != nil {
			break
		}
		r.logger.Debug().
			Int("tier", i+1).
			Dur("elapsed", time.Since(started)).
			Dur("wait", tier).
			Msg("Guarded work still running, escalating")

		if r.wait(ctx, h, tier) {
			h.release()
			return Completed, h.Err()
		}
	}

	h.ForceCancel()

	if err := ctx.Err(); err != nil {
		return ForcedCancellation, fmt.Errorf("%w: %w", errorwrapper.ErrForcedCancellation, err)
	}

	r.logger.Warn().
		Dur("elapsed", time.Since(started)).
		Int("tiers", len(r.ladder.Tiers)).
		Msg("Guarded work exceeded its timeout ladder, forcing cancellation")
	return ForcedCancellation, fmt.Errorf("%w after %s", errorwrapper.ErrForcedCancellation, time.Since(started).Round(time.Millisecond))
}

// wait is Handle.Wait that also gives up when ctx is cancelled.
func (r *Runner) wait(ctx context.Context, h *Handle, d time.Duration) bool {
	if d <= 0 {
		return h.Wait(0)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-h.Done():
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		// Completion and cancellation can race; prefer a finished result.
		return h.Wait(0)
	}
}
