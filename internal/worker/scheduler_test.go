package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"grocerytracker/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	calls atomic.Int32
	saved atomic.Bool
}

func (r *countingRunner) ScrapeAll(_ context.Context, save bool) dto.ScrapeAllResponse {
	r.calls.Add(1)
	r.saved.Store(save)
	return dto.ScrapeAllResponse{
		Success: true,
		Results: map[string]dto.ScrapeResult{
			"coop":   {Success: true, StoreID: "coop", ProductsCount: 5, SavedCount: 5},
			"saveon": {Success: false, StoreID: "saveon", Error: "timeout"},
		},
		TotalProducts: 5,
		TotalSaved:    5,
	}
}

func TestScheduler_DisabledReturnsImmediately(t *testing.T) {
	runner := &countingRunner{}
	done := make(chan struct{})
	go func() {
		NewScheduler(runner, time.Hour, false).Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled scheduler did not return")
	}
	assert.Zero(t, runner.calls.Load())
}

func TestScheduler_InitialPassThenTicks(t *testing.T) {
	runner := &countingRunner{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewScheduler(runner, 20*time.Millisecond, true).Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return runner.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.True(t, runner.saved.Load())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
}

func TestScheduler_CancelledBeforeStart(t *testing.T) {
	runner := &countingRunner{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	NewScheduler(runner, time.Hour, true).Run(ctx)
	assert.Zero(t, runner.calls.Load())
}
