package negotiation

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/yash151294/StockENT-sub002/internal/kafka"
	"github.com/yash151294/StockENT-sub002/internal/market"
	"github.com/yash151294/StockENT-sub002/internal/settlement"
)

// Offers above 150% of the product's base price are rejected as abusive.
const (
	maxOfferNum = 3
	maxOfferDen = 2
)

// fallback when the product listing carries no expiry of its own
const defaultLifetime = 7 * 24 * time.Hour

// Service drives the negotiation state machine. Same shape as the auction
// service: all state in the store, collaborators invoked post-commit.
type Service struct {
	store    Store
	products market.ProductCatalog
	settler  *settlement.Coordinator
	bus      market.Publisher
	producer string
}

func NewService(store Store, products market.ProductCatalog, settler *settlement.Coordinator, bus market.Publisher, producer string) *Service {
	return &Service{store: store, products: products, settler: settler, bus: bus, producer: producer}
}

func (s *Service) Get(ctx context.Context, id string) (Negotiation, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ByUser(ctx context.Context, userID string) ([]Negotiation, error) {
	return s.store.ByUser(ctx, userID)
}

// Create opens a PENDING negotiation from buyer to the product's seller.
func (s *Service) Create(ctx context.Context, productID, buyerID string, offer int64, message string) (Negotiation, error) {
	if buyerID == "" {
		return Negotiation{}, market.Errf(market.KindValidation, "missing buyer id")
	}
	if offer <= 0 {
		return Negotiation{}, market.Errf(market.KindValidation, "offer must be positive")
	}

	p, err := s.products.Product(ctx, productID)
	if err != nil {
		return Negotiation{}, market.Wrap(market.KindNotFound, err, "product not found")
	}
	if p.Status != market.ProductActive {
		return Negotiation{}, market.Errf(market.KindInvalidState, "product %s is not active", productID)
	}
	if p.ListingType != market.ListingNegotiable {
		return Negotiation{}, market.Errf(market.KindValidation, "product %s is not open to negotiation", productID)
	}
	if buyerID == p.SellerID {
		return Negotiation{}, market.Errf(market.KindValidation, "cannot negotiate on your own product")
	}
	if offer*maxOfferDen > p.BasePriceCents*maxOfferNum {
		return Negotiation{}, market.Errf(market.KindValidation, "offer exceeds 150%% of the asking price")
	}

	expires := p.ExpiresAt
	if expires.IsZero() {
		expires = time.Now().UTC().Add(defaultLifetime)
	}

	created, err := s.store.Create(ctx, Negotiation{
		ID:              uuid.NewString(),
		ProductID:       productID,
		BuyerID:         buyerID,
		SellerID:        p.SellerID,
		BuyerOfferCents: offer,
		BuyerMessage:    message,
		Status:          StatusPending,
		ExpiresAt:       expires,
	})
	if err != nil {
		return Negotiation{}, err
	}

	s.publish(market.TopicNegotiationCreated, market.EventNegotiationCreated, created)
	return created, nil
}

// Counter lets the seller answer a PENDING offer with a strictly higher price.
func (s *Service) Counter(ctx context.Context, id, sellerID string, counter int64, message string) (Negotiation, error) {
	n, err := s.store.Get(ctx, id)
	if err != nil {
		return Negotiation{}, err
	}
	if sellerID != n.SellerID {
		return Negotiation{}, market.Errf(market.KindUnauthorized, "only the seller may counter")
	}
	if n.Status != StatusPending {
		return Negotiation{}, market.Errf(market.KindInvalidState, "negotiation %s is %s, cannot counter", n.ID, n.Status)
	}
	if counter <= n.BuyerOfferCents {
		return Negotiation{}, market.Errf(market.KindValidation, "counter offer must be above the buyer's offer")
	}
	p, err := s.products.Product(ctx, n.ProductID)
	if err != nil {
		return Negotiation{}, market.Wrap(market.KindDependency, err, "product lookup failed")
	}
	if counter*maxOfferDen > p.BasePriceCents*maxOfferNum {
		return Negotiation{}, market.Errf(market.KindValidation, "counter offer exceeds 150%% of the asking price")
	}

	countered, err := s.store.Counter(ctx, id, counter, message)
	if err != nil {
		return Negotiation{}, err
	}

	s.publish(market.TopicNegotiationCountered, market.EventNegotiationCountered, countered)
	return countered, nil
}

// Accept closes the deal at the seller's counter offer and settles it: the
// outbox row goes into the same transaction as the ACCEPTED transition.
func (s *Service) Accept(ctx context.Context, id, buyerID string) (Negotiation, error) {
	n, err := s.store.Get(ctx, id)
	if err != nil {
		return Negotiation{}, err
	}
	if buyerID != n.BuyerID {
		return Negotiation{}, market.Errf(market.KindUnauthorized, "only the buyer may accept")
	}
	if n.Status != StatusCountered || n.SellerCounterOfferCents == nil {
		return Negotiation{}, market.Errf(market.KindInvalidState, "negotiation %s has no counter offer to accept", n.ID)
	}

	p, err := s.products.Product(ctx, n.ProductID)
	if err != nil {
		return Negotiation{}, market.Wrap(market.KindDependency, err, "product lookup failed")
	}
	if p.Status != market.ProductActive {
		return Negotiation{}, market.Errf(market.KindInvalidState, "product %s is no longer active", n.ProductID)
	}

	qty := p.MinOrderQty
	if qty < 1 {
		qty = 1
	}
	st := settlement.Settlement{
		ID:            uuid.NewString(),
		SourceType:    settlement.SourceNegotiation,
		SourceID:      n.ID,
		ProductID:     n.ProductID,
		BeneficiaryID: n.BuyerID,
		SellerID:      n.SellerID,
		PriceCents:    *n.SellerCounterOfferCents,
		Quantity:      qty,
		Status:        settlement.StatusPending,
	}

	accepted, err := s.store.Accept(ctx, id, st)
	if err != nil {
		return Negotiation{}, err
	}

	// fast path; the scheduler's retry pass reconciles failures
	if err := s.settler.Settle(ctx, st); err != nil {
		log.WithFields(log.Fields{"negotiation_id": accepted.ID, "err": err}).Error("settlement fast path failed")
	}

	s.publish(market.TopicNegotiationAccepted, market.EventNegotiationAccepted, accepted)
	return accepted, nil
}

// Decline lets the buyer reject the seller's counter offer.
func (s *Service) Decline(ctx context.Context, id, buyerID string) (Negotiation, error) {
	n, err := s.store.Get(ctx, id)
	if err != nil {
		return Negotiation{}, err
	}
	if buyerID != n.BuyerID {
		return Negotiation{}, market.Errf(market.KindUnauthorized, "only the buyer may decline")
	}
	declined, err := s.store.Decline(ctx, id)
	if err != nil {
		return Negotiation{}, err
	}
	s.publish(market.TopicNegotiationDeclined, market.EventNegotiationDeclined, declined)
	return declined, nil
}

// Cancel is open to either party while the negotiation is still open.
func (s *Service) Cancel(ctx context.Context, id, callerID string) (Negotiation, error) {
	n, err := s.store.Get(ctx, id)
	if err != nil {
		return Negotiation{}, err
	}
	if callerID != n.BuyerID && callerID != n.SellerID {
		return Negotiation{}, market.Errf(market.KindUnauthorized, "caller is not a party to this negotiation")
	}
	cancelled, err := s.store.Cancel(ctx, id)
	if err != nil {
		return Negotiation{}, err
	}
	s.publish(market.TopicNegotiationCancelled, market.EventNegotiationCancelled, cancelled)
	return cancelled, nil
}

// ExpireDue moves every open negotiation past its expiry, or whose product
// left the ACTIVE state, to EXPIRED.
func (s *Service) ExpireDue(ctx context.Context, now time.Time) (market.SweepResult, error) {
	var res market.SweepResult
	open, err := s.store.Open(ctx)
	if err != nil {
		return res, err
	}

	for _, n := range open {
		due := !n.ExpiresAt.After(now)
		if !due {
			p, err := s.products.Product(ctx, n.ProductID)
			if err != nil {
				res.Fail(market.Wrap(market.KindDependency, err, "product lookup failed"))
				continue
			}
			due = p.Status != market.ProductActive
		}
		if !due {
			continue
		}

		flipped, err := s.store.Expire(ctx, n.ID)
		if err != nil {
			res.Fail(err)
			continue
		}
		if !flipped {
			continue
		}
		n.Status = StatusExpired
		s.publish(market.TopicNegotiationExpired, market.EventNegotiationExpired, n)
		res.Ok(n.ID)
	}

	s.publishSweep("expire_due_negotiations", now, res)
	return res, nil
}

func (s *Service) publish(topic, eventType string, n Negotiation) {
	payload := market.NegotiationEventPayload{
		NegotiationID:   n.ID,
		ProductID:       n.ProductID,
		BuyerID:         n.BuyerID,
		SellerID:        n.SellerID,
		Status:          string(n.Status),
		BuyerOfferCents: n.BuyerOfferCents,
	}
	if n.SellerCounterOfferCents != nil {
		payload.CounterOfferCents = *n.SellerCounterOfferCents
	}
	env := market.NewEnvelope(s.producer, eventType, n.ID, payload)
	s.bus.Publish(topic, market.PartitionKey(n.ID), kafka.MustMarshal(env))
}

// one aggregate event per cycle, even an empty one, so subscribers can
// tell "nothing due" from "sweep not running"
func (s *Service) publishSweep(sweep string, now time.Time, res market.SweepResult) {
	env := market.NewEnvelope(s.producer, market.EventSweepCompleted, sweep, market.SweepPayload{
		Sweep:      sweep,
		RanAt:      now,
		Processed:  res.Processed,
		ErrorCount: len(res.Errors),
		EntityIDs:  res.EntityIDs,
	})
	s.bus.Publish(market.TopicNegotiationSweep, market.PartitionKey(sweep), kafka.MustMarshal(env))
}
