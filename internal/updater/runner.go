package updater

import (
	"context"
	"sync"
	"time"

	"menu-service/internal/entity"
)

// DefaultRetryDelay is the pause between attempts of a failed run.
const DefaultRetryDelay = 15 * time.Second

// Reconciler applies one snapshot.
type Reconciler interface {
	Run(ctx context.Context, snapshot entity.Snapshot) (*Plan, error)
}

// Runner drives a Reconciler: one run at a time, each retried until it
// succeeds or the context ends.
type Runner struct {
	reconciler Reconciler
	retryDelay time.Duration

	mu sync.Mutex
}

func NewRunner(reconciler Reconciler, retryDelay time.Duration) *Runner {
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	return &Runner{reconciler: reconciler, retryDelay: retryDelay}
}

// RetryDelay is the pause between failed attempts.
func (r *Runner) RetryDelay() time.Duration {
	return r.retryDelay
}

// Sync reads a snapshot from src and reconciles it. Every retry reads the
// source again.
func (r *Runner) Sync(ctx context.Context, src Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 1; ; attempt++ {
		err := r.attempt(ctx, src)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Error().Err(err).Int("attempt", attempt).Dur("retry_in", r.retryDelay).Msg("Catalog update failed")

		timer := time.NewTimer(r.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Runner) attempt(ctx context.Context, src Source) error {
	snapshot, err := src.Snapshot(ctx)
	if err != nil {
		return err
	}
	_, err = r.reconciler.Run(ctx, snapshot)
	return err
}

// Loop syncs src right away and then every interval until ctx ends.
func (r *Runner) Loop(ctx context.Context, src Source, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := r.Sync(ctx, src); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
