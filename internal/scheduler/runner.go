package scheduler

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/yash151294/StockENT-sub002/internal/market"
)

// Leader gates sweep execution to a single scheduler instance at a time.
type Leader interface {
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type AuctionSweeper interface {
	StartDue(ctx context.Context, now time.Time) (market.SweepResult, error)
	EndDue(ctx context.Context, now time.Time) (market.SweepResult, error)
}

type NegotiationSweeper interface {
	ExpireDue(ctx context.Context, now time.Time) (market.SweepResult, error)
}

type SettlementRetrier interface {
	Retry(ctx context.Context, now time.Time) (market.SweepResult, error)
}

// LastRunRecorder is observability only: the runner stamps each completed
// cycle so operators can see the sweep is alive.
type LastRunRecorder interface {
	RecordLastRun(ctx context.Context, at time.Time) error
}

// Runner invokes the time-path operations on a fixed interval while it holds
// the leader lease. The sweeps themselves are idempotent; the lease only
// prevents two instances racing the same rows.
type Runner struct {
	Lock         Leader
	Interval     time.Duration
	Auctions     AuctionSweeper
	Negotiations NegotiationSweeper
	Settlements  SettlementRetrier
	LastRun      LastRunRecorder
}

func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	defer func() {
		if err := r.Lock.Release(context.Background()); err != nil {
			log.WithField("err", err).Warn("release leader lock")
		}
	}()

	// first pass immediately, then on the interval
	r.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	leader, err := r.Lock.TryAcquire(ctx)
	if err != nil {
		log.WithField("err", err).Error("leader lock check failed")
		return
	}
	if !leader {
		return
	}

	now := time.Now().UTC()
	r.sweep(ctx, "start_due_auctions", now, r.Auctions.StartDue)
	r.sweep(ctx, "end_due_auctions", now, r.Auctions.EndDue)
	r.sweep(ctx, "expire_due_negotiations", now, r.Negotiations.ExpireDue)
	r.sweep(ctx, "retry_settlements", now, r.Settlements.Retry)

	if r.LastRun != nil {
		if err := r.LastRun.RecordLastRun(ctx, now); err != nil {
			log.WithField("err", err).Warn("record last run")
		}
	}
}

func (r *Runner) sweep(ctx context.Context, name string, now time.Time, fn func(context.Context, time.Time) (market.SweepResult, error)) {
	res, err := fn(ctx, now)
	if err != nil {
		log.WithFields(log.Fields{"sweep": name, "err": err}).Error("sweep failed")
		return
	}
	for _, itemErr := range res.Errors {
		log.WithFields(log.Fields{"sweep": name, "err": itemErr}).Warn("sweep item error")
	}
	if res.Processed > 0 {
		log.WithFields(log.Fields{"sweep": name, "processed": res.Processed}).Info("sweep completed")
	}
}
