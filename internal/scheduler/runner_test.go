package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yash151294/StockENT-sub002/internal/market"
)

type fakeLeader struct {
	leader   bool
	err      error
	released bool
}

func (f *fakeLeader) TryAcquire(context.Context) (bool, error) { return f.leader, f.err }
func (f *fakeLeader) Release(context.Context) error            { f.released = true; return nil }

type fakeSweeps struct {
	starts, ends, expires, retries int
}

func (f *fakeSweeps) StartDue(context.Context, time.Time) (market.SweepResult, error) {
	f.starts++
	return market.SweepResult{}, nil
}

func (f *fakeSweeps) EndDue(context.Context, time.Time) (market.SweepResult, error) {
	f.ends++
	return market.SweepResult{}, nil
}

func (f *fakeSweeps) ExpireDue(context.Context, time.Time) (market.SweepResult, error) {
	f.expires++
	return market.SweepResult{}, nil
}

func (f *fakeSweeps) Retry(context.Context, time.Time) (market.SweepResult, error) {
	f.retries++
	return market.SweepResult{}, nil
}

type fakeLastRun struct{ recorded int }

func (f *fakeLastRun) RecordLastRun(context.Context, time.Time) error {
	f.recorded++
	return nil
}

func newTestRunner(lock *fakeLeader) (*Runner, *fakeSweeps, *fakeLastRun) {
	sweeps := &fakeSweeps{}
	last := &fakeLastRun{}
	r := &Runner{
		Lock:         lock,
		Interval:     time.Hour,
		Auctions:     sweeps,
		Negotiations: sweeps,
		Settlements:  sweeps,
		LastRun:      last,
	}
	return r, sweeps, last
}

func TestTickRunsAllSweepsWhenLeader(t *testing.T) {
	r, sweeps, last := newTestRunner(&fakeLeader{leader: true})

	r.tick(context.Background())

	require.Equal(t, 1, sweeps.starts)
	require.Equal(t, 1, sweeps.ends)
	require.Equal(t, 1, sweeps.expires)
	require.Equal(t, 1, sweeps.retries)
	require.Equal(t, 1, last.recorded)
}

func TestTickSkipsWhenNotLeader(t *testing.T) {
	r, sweeps, last := newTestRunner(&fakeLeader{leader: false})

	r.tick(context.Background())

	require.Zero(t, sweeps.starts)
	require.Zero(t, sweeps.retries)
	require.Zero(t, last.recorded)
}

func TestTickSkipsOnLockError(t *testing.T) {
	r, sweeps, _ := newTestRunner(&fakeLeader{err: errors.New("redis down")})

	r.tick(context.Background())

	require.Zero(t, sweeps.starts)
}

type blockingAuctionSweeper struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingAuctionSweeper) StartDue(context.Context, time.Time) (market.SweepResult, error) {
	close(b.entered)
	<-b.release
	return market.SweepResult{}, nil
}

func (b *blockingAuctionSweeper) EndDue(context.Context, time.Time) (market.SweepResult, error) {
	return market.SweepResult{}, nil
}

// Shutdown closes shared resources (the kafka producer) only after Run
// returns, so Run must not return while a tick is still sweeping.
func TestRunWaitsForInFlightTick(t *testing.T) {
	blocker := &blockingAuctionSweeper{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	sweeps := &fakeSweeps{}
	r := &Runner{
		Lock:         &fakeLeader{leader: true},
		Interval:     time.Hour,
		Auctions:     blocker,
		Negotiations: sweeps,
		Settlements:  sweeps,
		LastRun:      &fakeLastRun{},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()

	<-blocker.entered
	cancel()

	select {
	case <-done:
		t.Fatal("Run returned while a sweep was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(blocker.release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the sweep finished")
	}
}

func TestRunReleasesLockOnShutdown(t *testing.T) {
	lock := &fakeLeader{leader: false}
	r, _, _ := newTestRunner(lock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.Run(ctx))
	require.True(t, lock.released)
}
