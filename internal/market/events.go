package market

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventAuctionStarted   = "AuctionStarted"
	EventBidPlaced        = "BidPlaced"
	EventAuctionEnded     = "AuctionEnded"
	EventAuctionRestarted = "AuctionRestarted"
	EventAuctionCancelled = "AuctionCancelled"

	EventNegotiationCreated   = "NegotiationCreated"
	EventNegotiationCountered = "NegotiationCountered"
	EventNegotiationAccepted  = "NegotiationAccepted"
	EventNegotiationDeclined  = "NegotiationDeclined"
	EventNegotiationCancelled = "NegotiationCancelled"
	EventNegotiationExpired   = "NegotiationExpired"

	EventSweepCompleted = "SweepCompleted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // entity id
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps payload into a v1 envelope. Payload types in this package
// marshal without error, so a failure here is a programming bug.
func NewEnvelope(producer, eventType, correlationID string, payload any) Envelope {
	b, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       b,
	}
}

// ---- Payload types per event ----

type AuctionEventPayload struct {
	AuctionID       string    `json:"auction_id"`
	ProductID       string    `json:"product_id"`
	SellerID        string    `json:"seller_id"`
	Status          string    `json:"status"`
	CurrentBidCents int64     `json:"current_bid_cents"`
	BidCount        int       `json:"bid_count"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
}

type BidPlacedPayload struct {
	AuctionID       string `json:"auction_id"`
	ProductID       string `json:"product_id"`
	SellerID        string `json:"seller_id"`
	BidID           string `json:"bid_id"`
	BidderID        string `json:"bidder_id"`
	AmountCents     int64  `json:"amount_cents"`
	BidCount        int    `json:"bid_count"`
	OutbidBidderID  string `json:"outbid_bidder_id,omitempty"`
	OutbidBidID     string `json:"outbid_bid_id,omitempty"`
}

type AuctionEndedPayload struct {
	AuctionID        string `json:"auction_id"`
	ProductID        string `json:"product_id"`
	SellerID         string `json:"seller_id"`
	WinnerID         string `json:"winner_id,omitempty"`
	WinningBidID     string `json:"winning_bid_id,omitempty"`
	WinningBidCents  int64  `json:"winning_bid_cents,omitempty"`
	ReserveMet       bool   `json:"reserve_met"`
	BidCount         int    `json:"bid_count"`
}

type NegotiationEventPayload struct {
	NegotiationID     string `json:"negotiation_id"`
	ProductID         string `json:"product_id"`
	BuyerID           string `json:"buyer_id"`
	SellerID          string `json:"seller_id"`
	Status            string `json:"status"`
	BuyerOfferCents   int64  `json:"buyer_offer_cents"`
	CounterOfferCents int64  `json:"counter_offer_cents,omitempty"`
}

// SweepPayload is the aggregate event published once per sweep cycle, so
// full-refresh subscribers can react once instead of N times.
type SweepPayload struct {
	Sweep      string    `json:"sweep"`
	RanAt      time.Time `json:"ran_at"`
	Processed  int       `json:"processed"`
	ErrorCount int       `json:"error_count"`
	EntityIDs  []string  `json:"entity_ids,omitempty"`
}
