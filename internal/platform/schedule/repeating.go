// Package schedule runs periodic background work with an explicit lifecycle.
package schedule

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/PabloGalante/rajbari-portal/internal/observability"
)

var ErrAlreadyStarted = errors.New("task already started")

// Repeating calls Run once at Start and then every Interval until Stop or
// until the Start context is cancelled. Runs never overlap.
type Repeating struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

func (r *Repeating) Start(ctx context.Context) error {
	if r.Interval <= 0 {
		return errors.New("interval must be positive")
	}
	if r.Run == nil {
		return errors.New("run function is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.started = true

	go r.loop(ctx, r.done)
	return nil
}

func (r *Repeating) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	log := observability.Logger().With("task", r.Name, "interval", r.Interval.String())
	log.Info("repeating task started")

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	r.Run(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("repeating task stopped")
			return
		case <-ticker.C:
			r.Run(ctx)
		}
	}
}

// Stop cancels the task and waits for a run in progress to finish. It is
// safe to call more than once and on a task that never started.
func (r *Repeating) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done, r.started = nil, nil, false
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
