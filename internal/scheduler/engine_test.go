package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourohfour/notfound-tracker/internal/logging"
	"github.com/fourohfour/notfound-tracker/internal/retention"
)

// fakeCleaner records cleanup invocations.
type fakeCleaner struct {
	mu    sync.Mutex
	calls []retention.Options
	fail  bool
}

func (f *fakeCleaner) Cleanup(_ context.Context, opts retention.Options) (retention.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, opts)
	if f.fail {
		return retention.Result{TotalDeleted: 1}, errors.New("boom")
	}
	return retention.Result{TotalEligible: 5, TotalDeleted: 5}, nil
}

func (f *fakeCleaner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestRunCleanup_PassesConfiguredOptions(t *testing.T) {
	cleaner := &fakeCleaner{}
	eng := NewEngine(cleaner, logging.NewNoOpLogger(), "0 3 * * *", 90, 1000)

	eng.runCleanup(context.Background())

	require.Len(t, cleaner.calls, 1)
	assert.Equal(t, 90, cleaner.calls[0].Days)
	assert.Equal(t, 1000, cleaner.calls[0].BatchSize)
	assert.False(t, cleaner.calls[0].DryRun)
}

func TestRunCleanup_ErrorIsLoggedNotPropagated(t *testing.T) {
	cleaner := &fakeCleaner{fail: true}
	eng := NewEngine(cleaner, logging.NewNoOpLogger(), "0 3 * * *", 90, 1000)

	// Must not panic; the scheduler keeps running after a failed cleanup.
	eng.runCleanup(context.Background())
	assert.Equal(t, 1, cleaner.callCount())
}

func TestRun_InvalidScheduleFailsFast(t *testing.T) {
	eng := NewEngine(&fakeCleaner{}, logging.NewNoOpLogger(), "not a schedule", 90, 1000)

	err := eng.Run(context.Background())
	assert.Error(t, err)
}

func TestRun_FiresOnScheduleUntilCanceled(t *testing.T) {
	cleaner := &fakeCleaner{}
	// Seconds field is accepted, so a tight schedule keeps the test fast.
	eng := NewEngine(cleaner, logging.NewNoOpLogger(), "@every 50ms", 90, 1000)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := eng.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, cleaner.callCount(), 1)
}
