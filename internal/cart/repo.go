package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yash151294/StockENT-sub002/internal/market"
)

// Repo implements market.CartReserver over the shared cart_items table.
// Reservations are idempotent on provenance: a retried settlement inserts
// nothing the second time.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Reserve(ctx context.Context, res market.Reservation) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO cart_items(id, user_id, product_id, quantity, price_cents, provenance)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (provenance) DO NOTHING`,
		uuid.NewString(), res.BeneficiaryID, res.ProductID, res.Quantity, res.PriceCents, res.Provenance)
	return err
}

var _ market.CartReserver = (*Repo)(nil)
