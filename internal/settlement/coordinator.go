package settlement

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/yash151294/StockENT-sub002/internal/market"
)

// Coordinator turns committed winning outcomes into cart reservations.
// Delivery is at-least-once: the fast path runs right after commit, the
// scheduler's Retry pass reconciles whatever the fast path missed. The Cart
// collaborator dedups on provenance, so repeats are harmless.
type Coordinator struct {
	store  Store
	cart   market.CartReserver
	notify market.Notifier
}

func NewCoordinator(store Store, cart market.CartReserver, notify market.Notifier) *Coordinator {
	return &Coordinator{store: store, cart: cart, notify: notify}
}

// Settle attempts the reservation for one outbox row. A cart failure is a
// dependency error: recorded on the row for the retry pass, never propagated
// into the state transition that produced it.
func (c *Coordinator) Settle(ctx context.Context, s Settlement) error {
	res := market.Reservation{
		BeneficiaryID: s.BeneficiaryID,
		ProductID:     s.ProductID,
		Quantity:      s.Quantity,
		PriceCents:    s.PriceCents,
		Provenance:    string(s.SourceType) + ":" + s.SourceID,
	}
	if err := c.cart.Reserve(ctx, res); err != nil {
		if mErr := c.store.MarkFailed(ctx, s.ID, err.Error()); mErr != nil {
			log.WithFields(log.Fields{"settlement_id": s.ID, "err": mErr}).Error("mark settlement failed")
		}
		return market.Wrap(market.KindDependency, err, "cart reserve failed")
	}

	flipped, err := c.store.MarkReserved(ctx, s.ID)
	if err != nil {
		return err
	}
	if !flipped {
		// already reserved by an earlier attempt, nothing left to do
		return nil
	}

	c.notifyParties(ctx, s)
	return nil
}

// Retry is the reconciliation pass the scheduler runs each cycle.
func (c *Coordinator) Retry(ctx context.Context, now time.Time) (market.SweepResult, error) {
	var res market.SweepResult
	due, err := c.store.Due(ctx, 100)
	if err != nil {
		return res, err
	}
	for _, s := range due {
		if err := c.Settle(ctx, s); err != nil {
			res.Fail(err)
			continue
		}
		res.Ok(s.ID)
	}
	if res.Processed > 0 || len(res.Errors) > 0 {
		log.WithFields(log.Fields{"processed": res.Processed, "errors": len(res.Errors)}).Info("settlement retry pass")
	}
	return res, nil
}

func (c *Coordinator) notifyParties(ctx context.Context, s Settlement) {
	data := map[string]string{
		"product_id":  s.ProductID,
		"source_type": string(s.SourceType),
		"source_id":   s.SourceID,
	}
	if err := c.notify.Notify(ctx, s.BeneficiaryID, "Item reserved",
		"The item you won has been reserved in your cart.", data); err != nil {
		log.WithFields(log.Fields{"user_id": s.BeneficiaryID, "err": err}).Error("notify beneficiary")
	}
	if err := c.notify.Notify(ctx, s.SellerID, "Item sold",
		"Your item has been reserved by the winning party.", data); err != nil {
		log.WithFields(log.Fields{"user_id": s.SellerID, "err": err}).Error("notify seller")
	}
}
