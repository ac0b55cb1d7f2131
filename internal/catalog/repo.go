package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yash151294/StockENT-sub002/internal/market"
)

// Repo implements market.ProductCatalog over the shared products table. The
// engine only ever reads the fields it needs and flips listing status; the
// catalog service owns everything else about a product.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Product(ctx context.Context, id string) (market.Product, error) {
	var p market.Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, seller_id, title, base_price_cents, min_order_qty, listing_type, status, expires_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.SellerID, &p.Title, &p.BasePriceCents, &p.MinOrderQty, &p.ListingType, &p.Status, &p.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return market.Product{}, market.Errf(market.KindNotFound, "product %s not found", id)
	}
	return p, err
}

func (r *Repo) SetStatus(ctx context.Context, id string, status market.ProductStatus) error {
	ct, err := r.DB.Exec(ctx, `UPDATE products SET status=$2, updated_at=now() WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return market.Errf(market.KindNotFound, "product %s not found", id)
	}
	return nil
}

var _ market.ProductCatalog = (*Repo)(nil)
