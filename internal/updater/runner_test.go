package updater

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-service/internal/entity"
)

type flakyReconciler struct {
	mu       sync.Mutex
	failures int
	runs     int
	active   int
	overlap  bool
}

func (r *flakyReconciler) Run(ctx context.Context, snapshot entity.Snapshot) (*Plan, error) {
	r.mu.Lock()
	r.runs++
	r.active++
	if r.active > 1 {
		r.overlap = true
	}
	fail := r.failures > 0
	if fail {
		r.failures--
	}
	r.mu.Unlock()

	time.Sleep(time.Millisecond)

	r.mu.Lock()
	r.active--
	r.mu.Unlock()
	if fail {
		return nil, errors.New("store unavailable")
	}
	return &Plan{}, nil
}

type countingSource struct {
	mu    sync.Mutex
	reads int
}

func (s *countingSource) Snapshot(context.Context) (entity.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	return baseSnapshot(), nil
}

func TestSyncRetriesUntilSuccess(t *testing.T) {
	reconciler := &flakyReconciler{failures: 3}
	src := &countingSource{}
	runner := NewRunner(reconciler, time.Millisecond)

	require.NoError(t, runner.Sync(context.Background(), src))
	assert.Equal(t, 4, reconciler.runs)
	assert.Equal(t, 4, src.reads)
}

func TestSyncStopsWithContext(t *testing.T) {
	reconciler := &flakyReconciler{failures: 1 << 30}
	runner := NewRunner(reconciler, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := runner.Sync(ctx, StaticSource(baseSnapshot()))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, reconciler.runs, 1)
}

func TestSyncRunsOneAtATime(t *testing.T) {
	reconciler := &flakyReconciler{}
	runner := NewRunner(reconciler, time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, runner.Sync(context.Background(), StaticSource(baseSnapshot())))
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, reconciler.runs)
	assert.False(t, reconciler.overlap)
}

func TestLoopSyncsPeriodically(t *testing.T) {
	reconciler := &flakyReconciler{}
	src := &countingSource{}
	runner := NewRunner(reconciler, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Loop(ctx, src, 5*time.Millisecond) }()

	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.reads >= 3
	}, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestNewRunnerDefaultsRetryDelay(t *testing.T) {
	runner := NewRunner(&flakyReconciler{}, 0)
	assert.Equal(t, DefaultRetryDelay, runner.retryDelay)
}
