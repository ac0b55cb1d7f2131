package negotiation

import "time"

// Negotiation is one bilateral offer/counter-offer exchange between a buyer
// and the seller of a fixed product. A buyer holds at most one open
// negotiation per product; when a counter is present it is strictly above the
// buyer's offer.
type Negotiation struct {
	ID                      string     `json:"id"`
	ProductID               string     `json:"product_id"`
	BuyerID                 string     `json:"buyer_id"`
	SellerID                string     `json:"seller_id"`
	BuyerOfferCents         int64      `json:"buyer_offer_cents"`
	SellerCounterOfferCents *int64     `json:"seller_counter_offer_cents,omitempty"`
	BuyerMessage            string     `json:"buyer_message,omitempty"`
	SellerMessage           string     `json:"seller_message,omitempty"`
	Status                  Status     `json:"status"`
	ExpiresAt               time.Time  `json:"expires_at"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}
