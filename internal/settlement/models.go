package settlement

import "time"

type SourceType string

const (
	SourceAuction     SourceType = "AUCTION"
	SourceNegotiation SourceType = "NEGOTIATION"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusReserved Status = "RESERVED"
	StatusFailed   Status = "FAILED"
)

// Settlement is one outbox row: the obligation to reserve the agreed
// item/price for the winning party. It is written in the same transaction as
// the winning transition and worked off at least once; (source_type, source_id)
// is the idempotency key so a retry never double-reserves.
type Settlement struct {
	ID            string     `json:"id"`
	SourceType    SourceType `json:"source_type"`
	SourceID      string     `json:"source_id"`
	ProductID     string     `json:"product_id"`
	BeneficiaryID string     `json:"beneficiary_id"`
	SellerID      string     `json:"seller_id"`
	PriceCents    int64      `json:"price_cents"`
	Quantity      int        `json:"quantity"`
	Status        Status     `json:"status"`
	Attempts      int        `json:"attempts"`
	LastError     string     `json:"last_error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
