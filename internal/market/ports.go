package market

import (
	"context"
	"time"
)

type ProductStatus string

const (
	ProductActive   ProductStatus = "ACTIVE"
	ProductSold     ProductStatus = "SOLD"
	ProductInactive ProductStatus = "INACTIVE"
)

type ListingType string

const (
	ListingFixed      ListingType = "FIXED"
	ListingNegotiable ListingType = "NEGOTIABLE"
	ListingAuction    ListingType = "AUCTION"
)

// Product is the slice of the catalog the engine needs: ownership,
// pricing baseline and listing lifecycle. The catalog owns everything else.
type Product struct {
	ID             string
	SellerID       string
	Title          string
	BasePriceCents int64
	MinOrderQty    int
	ListingType    ListingType
	Status         ProductStatus
	ExpiresAt      time.Time
}

// ProductCatalog is the collaborator that owns product listings.
type ProductCatalog interface {
	Product(ctx context.Context, id string) (Product, error)
	SetStatus(ctx context.Context, id string, status ProductStatus) error
}

// Reservation places the agreed item/price into the beneficiary's cart.
// Provenance is the idempotency key: the originating auction or negotiation id.
type Reservation struct {
	BeneficiaryID string
	ProductID     string
	Quantity      int
	PriceCents    int64
	Provenance    string
}

type CartReserver interface {
	Reserve(ctx context.Context, res Reservation) error
}

type Notifier interface {
	Notify(ctx context.Context, userID, title, message string, data map[string]string) error
}

// Publisher is the outbound event bus. Publish must not block the caller;
// delivery is best-effort and failures are logged downstream, never returned
// into a committed transaction.
type Publisher interface {
	Publish(topic string, key, value []byte)
}
