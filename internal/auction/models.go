package auction

import "time"

// Auction is one time-boxed English (ascending) sale attached to a product
// listing. CurrentBidCents starts at the starting price and only moves up;
// seller_id is denormalized from the product so authorization checks stay
// inside the bidding transaction.
type Auction struct {
	ID                 string     `json:"id"`
	ProductID          string     `json:"product_id"`
	SellerID           string     `json:"seller_id"`
	Type               string     `json:"auction_type"` // ENGLISH
	StartingPriceCents int64      `json:"starting_price_cents"`
	ReservePriceCents  *int64     `json:"reserve_price_cents,omitempty"`
	CurrentBidCents    int64      `json:"current_bid_cents"`
	BidIncrementCents  int64      `json:"bid_increment_cents"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	Status             Status     `json:"status"`
	BidCount           int        `json:"bid_count"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type Bid struct {
	ID          string    `json:"id"`
	AuctionID   string    `json:"auction_id"`
	BidderID    string    `json:"bidder_id"`
	AmountCents int64     `json:"amount_cents"`
	Status      BidStatus `json:"status"`
	PlacedAt    time.Time `json:"placed_at"`
}

// PlacedBid is the outcome of one committed PlaceBid transaction.
type PlacedBid struct {
	Auction        Auction
	Bid            Bid
	OutbidBidID    string
	OutbidBidderID string
}

// Closeout is the outcome of ending one auction. Winner is nil when there
// were no bids or the reserve was not met.
type Closeout struct {
	Auction    Auction
	Winner     *Bid
	ReserveMet bool
}
