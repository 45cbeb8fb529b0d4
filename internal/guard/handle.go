package guard

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Handle tracks one unit of work running on its own goroutine.
type Handle struct {
	done       chan struct{}
	err        error
	cancel     context.CancelFunc
	cancelOnce sync.Once
}

// Start runs work on a new goroutine with a cancellable child of ctx.
// A panic inside work is recovered and surfaces through Err.
func Start(ctx context.Context, work func(ctx context.Context) error) *Handle {
	workCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer close(h.done)
		defer func() {
			if r := recover(); r != nil {
				h.err = fmt.Errorf("guarded work panicked: %v", r)
			}
		}()
		h.err = work(workCtx)
	}()

	return h
}

// Wait blocks until the work completes or d elapses, whichever comes first.
// It reports whether the work completed.
func (h *Handle) Wait(d time.Duration) bool {
	if d <= 0 {
		select {
		case <-h.done:
			return true
		default:
			return false
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-h.done:
		return true
	case <-timer.C:
		return false
	}
}

// Done is closed when the work returns.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the work's error. Only meaningful once Done is closed.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// ForceCancel cancels the work's context. The goroutine is not waited for.
func (h *Handle) ForceCancel() {
	h.cancelOnce.Do(h.cancel)
}

// release frees the context of completed work.
func (h *Handle) release() {
	h.ForceCancel()
}
