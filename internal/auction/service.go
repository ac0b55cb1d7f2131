package auction

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/yash151294/StockENT-sub002/internal/kafka"
	"github.com/yash151294/StockENT-sub002/internal/market"
	"github.com/yash151294/StockENT-sub002/internal/settlement"
)

// Service drives the auction state machine. State lives in the store; every
// mutation goes through one transaction there. Collaborators invoked after
// commit (catalog, settlement, events) are best-effort and never roll the
// committed transition back.
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

func (s *Service) Get(ctx context.Context, id string) (Auction, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Bids(ctx context.Context, auctionID string) ([]Bid, error) {
	return s.store.Bids(ctx, auctionID)
}

// PlaceBid records a bid against an active auction. The store transaction is
// the sole place two concurrent bids are ordered.
func (s *Service) PlaceBid(ctx context.Context, auctionID, bidderID string, amount int64) (PlacedBid, error) {
	if bidderID == "" {
		return PlacedBid{}, market.Errf(market.KindValidation, "missing bidder id")
	}
	if amount <= 0 {
		return PlacedBid{}, market.Errf(market.KindValidation, "bid amount must be positive")
	}

	placed, err := s.store.PlaceBid(ctx, auctionID, bidderID, amount, time.Now().UTC())
	if err != nil {
		return PlacedBid{}, err
	}

	s.publish(market.TopicAuctionBidPlaced, market.EventBidPlaced, placed.Auction.ID, market.BidPlacedPayload{
		AuctionID:      placed.Auction.ID,
		ProductID:      placed.Auction.ProductID,
		SellerID:       placed.Auction.SellerID,
		BidID:          placed.Bid.ID,
		BidderID:       placed.Bid.BidderID,
		AmountCents:    placed.Bid.AmountCents,
		BidCount:       placed.Auction.BidCount,
		OutbidBidderID: placed.OutbidBidderID,
		OutbidBidID:    placed.OutbidBidID,
	})
	return placed, nil
}

// StartDue activates every SCHEDULED auction whose window has opened. One
// auction failing never aborts the rest of the batch.
func (s *Service) StartDue(ctx context.Context, now time.Time) (market.SweepResult, error) {
	var res market.SweepResult
	due, err := s.store.DueToStart(ctx, now)
	if err != nil {
		return res, err
	}

	for _, a := range due {
		ok, err := s.store.MarkActive(ctx, a.ID)
		if err != nil {
			res.Fail(err)
			continue
		}
		if !ok {
			continue // someone else already activated it
		}
		if err := s.products.SetStatus(ctx, a.ProductID, market.ProductActive); err != nil {
			log.WithFields(log.Fields{"auction_id": a.ID, "product_id": a.ProductID, "err": err}).Error("set product active")
			res.Fail(market.Wrap(market.KindDependency, err, "product status update failed"))
		}
		a.Status = StatusActive
		s.publish(market.TopicAuctionStarted, market.EventAuctionStarted, a.ID, s.auctionPayload(a))
		res.Ok(a.ID)
	}

	s.publishSweep("start_due_auctions", market.TopicAuctionSweep, now, res)
	return res, nil
}

// EndDue closes every ACTIVE auction past its end time, determines the winner
// and hands winning outcomes to the settlement coordinator.
func (s *Service) EndDue(ctx context.Context, now time.Time) (market.SweepResult, error) {
	var res market.SweepResult
	due, err := s.store.DueToEnd(ctx, now)
	if err != nil {
		return res, err
	}

	for _, a := range due {
		co, st, processed, err := s.store.Close(ctx, a.ID, now)
		if err != nil {
			res.Fail(err)
			continue
		}
		if !processed {
			continue
		}

		if co.Winner != nil {
			if err := s.products.SetStatus(ctx, co.Auction.ProductID, market.ProductSold); err != nil {
				log.WithFields(log.Fields{"auction_id": a.ID, "err": err}).Error("set product sold")
				res.Fail(market.Wrap(market.KindDependency, err, "product status update failed"))
			}
			if st != nil {
				// fast path; the scheduler's retry pass reconciles failures
				if err := s.settler.Settle(ctx, *st); err != nil {
					log.WithFields(log.Fields{"auction_id": a.ID, "err": err}).Error("settlement fast path failed")
				}
			}
		} else {
			if err := s.products.SetStatus(ctx, co.Auction.ProductID, market.ProductActive); err != nil {
				log.WithFields(log.Fields{"auction_id": a.ID, "err": err}).Error("set product active")
				res.Fail(market.Wrap(market.KindDependency, err, "product status update failed"))
			}
		}

		payload := market.AuctionEndedPayload{
			AuctionID:  co.Auction.ID,
			ProductID:  co.Auction.ProductID,
			SellerID:   co.Auction.SellerID,
			ReserveMet: co.ReserveMet,
			BidCount:   co.Auction.BidCount,
		}
		if co.Winner != nil {
			payload.WinnerID = co.Winner.BidderID
			payload.WinningBidID = co.Winner.ID
			payload.WinningBidCents = co.Winner.AmountCents
		}
		s.publish(market.TopicAuctionEnded, market.EventAuctionEnded, co.Auction.ID, payload)
		res.Ok(a.ID)
	}

	s.publishSweep("end_due_auctions", market.TopicAuctionSweep, now, res)
	return res, nil
}

// Restart clears bid history and reopens an ENDED auction. Seller only.
// Defaults: start now, keep the original duration.
func (s *Service) Restart(ctx context.Context, auctionID, sellerID string, newStart, newEnd *time.Time) (Auction, error) {
	a, err := s.store.Get(ctx, auctionID)
	if err != nil {
		return Auction{}, err
	}
	if sellerID != a.SellerID {
		return Auction{}, market.Errf(market.KindUnauthorized, "only the seller may restart an auction")
	}
	if a.Status != StatusEnded {
		return Auction{}, market.Errf(market.KindInvalidState, "auction %s is %s, only ENDED auctions can restart", a.ID, a.Status)
	}

	now := time.Now().UTC()
	start := now
	if newStart != nil {
		start = newStart.UTC()
	}
	end := start.Add(a.EndTime.Sub(a.StartTime))
	if newEnd != nil {
		end = newEnd.UTC()
	}
	if !end.After(start) {
		return Auction{}, market.Errf(market.KindValidation, "end time must be after start time")
	}

	status := StatusActive
	if start.After(now) {
		status = StatusScheduled
	}

	restarted, err := s.store.Restart(ctx, auctionID, start, end, status)
	if err != nil {
		return Auction{}, err
	}

	if err := s.products.SetStatus(ctx, restarted.ProductID, market.ProductActive); err != nil {
		log.WithFields(log.Fields{"auction_id": restarted.ID, "err": err}).Error("set product active")
	}
	s.publish(market.TopicAuctionRestarted, market.EventAuctionRestarted, restarted.ID, s.auctionPayload(restarted))
	return restarted, nil
}

// Cancel is the administrative SCHEDULED/ACTIVE -> CANCELLED transition.
func (s *Service) Cancel(ctx context.Context, auctionID string) (Auction, error) {
	a, err := s.store.Cancel(ctx, auctionID)
	if err != nil {
		return Auction{}, err
	}
	s.publish(market.TopicAuctionCancelled, market.EventAuctionCancelled, a.ID, s.auctionPayload(a))
	return a, nil
}

func (s *Service) auctionPayload(a Auction) market.AuctionEventPayload {
	return market.AuctionEventPayload{
		AuctionID:       a.ID,
		ProductID:       a.ProductID,
		SellerID:        a.SellerID,
		Status:          string(a.Status),
		CurrentBidCents: a.CurrentBidCents,
		BidCount:        a.BidCount,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
	}
}

func (s *Service) publish(topic, eventType, entityID string, payload any) {
	env := market.NewEnvelope(s.producer, eventType, entityID, payload)
	s.bus.Publish(topic, market.PartitionKey(entityID), kafka.MustMarshal(env))
}

// one aggregate event per cycle, even an empty one, so subscribers can
// tell "nothing due" from "sweep not running"
func (s *Service) publishSweep(sweep, topic string, now time.Time, res market.SweepResult) {
	s.publish(topic, market.EventSweepCompleted, sweep, market.SweepPayload{
		Sweep:      sweep,
		RanAt:      now,
		Processed:  res.Processed,
		ErrorCount: len(res.Errors),
		EntityIDs:  res.EntityIDs,
	})
}
