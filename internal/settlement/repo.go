package settlement

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yash151294/StockENT-sub002/internal/market"
)

// Store is what the coordinator needs from persistence.
type Store interface {
	Due(ctx context.Context, limit int) ([]Settlement, error)
	MarkReserved(ctx context.Context, id string) (bool, error)
	MarkFailed(ctx context.Context, id, reason string) error
}

type Repo struct{ DB *pgxpool.Pool }

const maxAttempts = 10

// Enqueue inserts the outbox row inside the caller's transaction. A duplicate
// source is a no-op: the first settlement for an auction/negotiation wins.
func (r *Repo) Enqueue(ctx context.Context, tx pgx.Tx, s Settlement) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO settlements(id, source_type, source_id, product_id, beneficiary_id, seller_id, price_cents, quantity, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,'PENDING')
		ON CONFLICT (source_type, source_id) DO NOTHING
	`, s.ID, s.SourceType, s.SourceID, s.ProductID, s.BeneficiaryID, s.SellerID, s.PriceCents, s.Quantity)
	return err
}

func (r *Repo) Due(ctx context.Context, limit int) ([]Settlement, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, source_type, source_id, product_id, beneficiary_id, seller_id, price_cents, quantity, status, attempts, COALESCE(last_error,''), created_at, updated_at
		FROM settlements
		WHERE status IN ('PENDING','FAILED') AND attempts < $1
		ORDER BY created_at
		LIMIT $2`, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Settlement
	for rows.Next() {
		var s Settlement
		if err := rows.Scan(&s.ID, &s.SourceType, &s.SourceID, &s.ProductID, &s.BeneficiaryID, &s.SellerID,
			&s.PriceCents, &s.Quantity, &s.Status, &s.Attempts, &s.LastError, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// MarkReserved flips the row to RESERVED; false means it already was.
func (r *Repo) MarkReserved(ctx context.Context, id string) (bool, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE settlements SET status='RESERVED', updated_at=now()
		WHERE id=$1 AND status <> 'RESERVED'`, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

func (r *Repo) MarkFailed(ctx context.Context, id, reason string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE settlements SET status='FAILED', attempts=attempts+1, last_error=$2, updated_at=now()
		WHERE id=$1 AND status <> 'RESERVED'`, id, reason)
	return err
}

func (r *Repo) BySource(ctx context.Context, st SourceType, sourceID string) (Settlement, error) {
	var s Settlement
	err := r.DB.QueryRow(ctx, `
		SELECT id, source_type, source_id, product_id, beneficiary_id, seller_id, price_cents, quantity, status, attempts, COALESCE(last_error,''), created_at, updated_at
		FROM settlements WHERE source_type=$1 AND source_id=$2`, st, sourceID).
		Scan(&s.ID, &s.SourceType, &s.SourceID, &s.ProductID, &s.BeneficiaryID, &s.SellerID,
			&s.PriceCents, &s.Quantity, &s.Status, &s.Attempts, &s.LastError, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settlement{}, market.Errf(market.KindNotFound, "settlement for %s %s not found", st, sourceID)
	}
	return s, err
}
