package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	kafkax "github.com/yash151294/StockENT-sub002/internal/kafka"
	"github.com/yash151294/StockENT-sub002/internal/market"
	"github.com/yash151294/StockENT-sub002/internal/redisx"
)

// Service turns engine events into user notifications. Dedup by event id
// keeps delivery at exactly-once per event even when the consumer group
// redelivers.
type Service struct {
	Redis       *redis.Client
	Notify      market.Notifier
	ServiceName string
}

// Handle is wired as the consumer handler for every engine topic.
func (s *Service) Handle(ctx context.Context, m kafkago.Message) error {
	var env market.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	seen, _ := redisx.Exists(ctx, s.Redis, dkey)
	if seen {
		return nil
	}

	if err := s.dispatch(ctx, env); err != nil {
		return err
	}

	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	return nil
}

func (s *Service) dispatch(ctx context.Context, env market.Envelope) error {
	switch env.EventType {
	case market.EventBidPlaced:
		p, err := kafkax.UnwrapPayload[market.BidPlacedPayload](env.Payload)
		if err != nil {
			return err
		}
		s.send(ctx, p.SellerID, "New bid", "A new bid was placed on your auction.", map[string]string{
			"auction_id": p.AuctionID, "amount_cents": fmt.Sprint(p.AmountCents),
		})
		if p.OutbidBidderID != "" {
			s.send(ctx, p.OutbidBidderID, "You have been outbid", "Another buyer placed a higher bid.", map[string]string{
				"auction_id": p.AuctionID, "amount_cents": fmt.Sprint(p.AmountCents),
			})
		}

	case market.EventAuctionStarted:
		p, err := kafkax.UnwrapPayload[market.AuctionEventPayload](env.Payload)
		if err != nil {
			return err
		}
		s.send(ctx, p.SellerID, "Auction started", "Bidding on your auction is now open.", map[string]string{"auction_id": p.AuctionID})

	case market.EventAuctionEnded:
		p, err := kafkax.UnwrapPayload[market.AuctionEndedPayload](env.Payload)
		if err != nil {
			return err
		}
		if p.WinnerID != "" {
			s.send(ctx, p.WinnerID, "Auction won", "Your bid won the auction.", map[string]string{
				"auction_id": p.AuctionID, "amount_cents": fmt.Sprint(p.WinningBidCents),
			})
		} else {
			s.send(ctx, p.SellerID, "Auction ended", "Your auction ended without a winner.", map[string]string{"auction_id": p.AuctionID})
		}

	case market.EventAuctionCancelled, market.EventAuctionRestarted:
		p, err := kafkax.UnwrapPayload[market.AuctionEventPayload](env.Payload)
		if err != nil {
			return err
		}
		s.send(ctx, p.SellerID, "Auction updated", "Your auction is now "+p.Status+".", map[string]string{"auction_id": p.AuctionID})

	case market.EventNegotiationCreated:
		p, err := kafkax.UnwrapPayload[market.NegotiationEventPayload](env.Payload)
		if err != nil {
			return err
		}
		s.send(ctx, p.SellerID, "New offer", "A buyer made an offer on your product.", negotiationData(p))

	case market.EventNegotiationCountered:
		p, err := kafkax.UnwrapPayload[market.NegotiationEventPayload](env.Payload)
		if err != nil {
			return err
		}
		s.send(ctx, p.BuyerID, "Counter offer", "The seller countered your offer.", negotiationData(p))

	case market.EventNegotiationAccepted:
		p, err := kafkax.UnwrapPayload[market.NegotiationEventPayload](env.Payload)
		if err != nil {
			return err
		}
		s.send(ctx, p.SellerID, "Offer accepted", "The buyer accepted your counter offer.", negotiationData(p))

	case market.EventNegotiationDeclined:
		p, err := kafkax.UnwrapPayload[market.NegotiationEventPayload](env.Payload)
		if err != nil {
			return err
		}
		s.send(ctx, p.SellerID, "Offer declined", "The buyer declined your counter offer.", negotiationData(p))

	case market.EventNegotiationCancelled:
		p, err := kafkax.UnwrapPayload[market.NegotiationEventPayload](env.Payload)
		if err != nil {
			return err
		}
		s.send(ctx, p.BuyerID, "Negotiation cancelled", "The negotiation was cancelled.", negotiationData(p))
		s.send(ctx, p.SellerID, "Negotiation cancelled", "The negotiation was cancelled.", negotiationData(p))

	case market.EventNegotiationExpired:
		p, err := kafkax.UnwrapPayload[market.NegotiationEventPayload](env.Payload)
		if err != nil {
			return err
		}
		s.send(ctx, p.BuyerID, "Negotiation expired", "Your negotiation expired without an agreement.", negotiationData(p))
		s.send(ctx, p.SellerID, "Negotiation expired", "A negotiation on your product expired.", negotiationData(p))
	}
	// sweep aggregates carry no user-facing notification
	return nil
}

func (s *Service) send(ctx context.Context, userID, title, message string, data map[string]string) {
	if err := s.Notify.Notify(ctx, userID, title, message, data); err != nil {
		log.WithFields(log.Fields{"user_id": userID, "title": title, "err": err}).Error("notify failed")
	}
}

func negotiationData(p market.NegotiationEventPayload) map[string]string {
	return map[string]string{
		"negotiation_id": p.NegotiationID,
		"product_id":     p.ProductID,
		"status":         p.Status,
	}
}
