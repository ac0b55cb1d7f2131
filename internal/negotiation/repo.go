package negotiation

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yash151294/StockENT-sub002/internal/market"
	"github.com/yash151294/StockENT-sub002/internal/settlement"
)

// Store is the persistence surface of the negotiation state machine. Each
// transition is one status-guarded write, so a lost race surfaces as
// InvalidState instead of silently applying twice.
type Store interface {
	Create(ctx context.Context, n Negotiation) (Negotiation, error)
	Get(ctx context.Context, id string) (Negotiation, error)
	ByUser(ctx context.Context, userID string) ([]Negotiation, error)
	Counter(ctx context.Context, id string, counter int64, message string) (Negotiation, error)
	Accept(ctx context.Context, id string, st settlement.Settlement) (Negotiation, error)
	Decline(ctx context.Context, id string) (Negotiation, error)
	Cancel(ctx context.Context, id string) (Negotiation, error)
	Open(ctx context.Context) ([]Negotiation, error)
	Expire(ctx context.Context, id string) (bool, error)
}

type Repo struct {
	DB          *pgxpool.Pool
	Settlements *settlement.Repo
}

const negotiationCols = `id, product_id, buyer_id, seller_id, buyer_offer_cents, seller_counter_offer_cents,
	COALESCE(buyer_message,''), COALESCE(seller_message,''), status, expires_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNegotiation(row rowScanner) (Negotiation, error) {
	var n Negotiation
	err := row.Scan(&n.ID, &n.ProductID, &n.BuyerID, &n.SellerID, &n.BuyerOfferCents, &n.SellerCounterOfferCents,
		&n.BuyerMessage, &n.SellerMessage, &n.Status, &n.ExpiresAt, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// Create inserts a PENDING negotiation. The partial unique index on open
// (product_id, buyer_id) pairs turns a duplicate into a Conflict.
func (r *Repo) Create(ctx context.Context, n Negotiation) (Negotiation, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO negotiations(id, product_id, buyer_id, seller_id, buyer_offer_cents, buyer_message, status, expires_at)
		VALUES ($1,$2,$3,$4,$5,$6,'PENDING',$7)
		RETURNING `+negotiationCols,
		n.ID, n.ProductID, n.BuyerID, n.SellerID, n.BuyerOfferCents, n.BuyerMessage, n.ExpiresAt)
	created, err := scanNegotiation(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Negotiation{}, market.Errf(market.KindConflict, "an open negotiation for this product already exists")
		}
		return Negotiation{}, err
	}
	return created, nil
}

func (r *Repo) Get(ctx context.Context, id string) (Negotiation, error) {
	n, err := scanNegotiation(r.DB.QueryRow(ctx, `SELECT `+negotiationCols+` FROM negotiations WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Negotiation{}, market.Errf(market.KindNotFound, "negotiation %s not found", id)
	}
	return n, err
}

func (r *Repo) ByUser(ctx context.Context, userID string) ([]Negotiation, error) {
	return r.list(ctx, `SELECT `+negotiationCols+` FROM negotiations WHERE buyer_id=$1 OR seller_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *Repo) Open(ctx context.Context) ([]Negotiation, error) {
	return r.list(ctx, `SELECT `+negotiationCols+` FROM negotiations WHERE status IN ('PENDING','COUNTERED')`)
}

func (r *Repo) list(ctx context.Context, q string, args ...any) ([]Negotiation, error) {
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Negotiation
	for rows.Next() {
		n, err := scanNegotiation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repo) Counter(ctx context.Context, id string, counter int64, message string) (Negotiation, error) {
	n, err := scanNegotiation(r.DB.QueryRow(ctx, `
		UPDATE negotiations
		SET status='COUNTERED', seller_counter_offer_cents=$2, seller_message=$3, updated_at=now()
		WHERE id=$1 AND status='PENDING'
		RETURNING `+negotiationCols, id, counter, message))
	if errors.Is(err, pgx.ErrNoRows) {
		return Negotiation{}, market.Errf(market.KindInvalidState, "negotiation %s is not pending", id)
	}
	return n, err
}

// Accept transitions COUNTERED -> ACCEPTED and enqueues the settlement in the
// same transaction, so a crash between the two cannot lose the winner.
func (r *Repo) Accept(ctx context.Context, id string, st settlement.Settlement) (Negotiation, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Negotiation{}, err
	}
	defer tx.Rollback(ctx)

	n, err := scanNegotiation(tx.QueryRow(ctx, `
		UPDATE negotiations SET status='ACCEPTED', updated_at=now()
		WHERE id=$1 AND status='COUNTERED'
		RETURNING `+negotiationCols, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Negotiation{}, market.Errf(market.KindInvalidState, "negotiation %s has no counter offer to accept", id)
	}
	if err != nil {
		return Negotiation{}, err
	}

	if err := r.Settlements.Enqueue(ctx, tx, st); err != nil {
		return Negotiation{}, err
	}

	return n, tx.Commit(ctx)
}

func (r *Repo) Decline(ctx context.Context, id string) (Negotiation, error) {
	n, err := scanNegotiation(r.DB.QueryRow(ctx, `
		UPDATE negotiations SET status='DECLINED', updated_at=now()
		WHERE id=$1 AND status='COUNTERED'
		RETURNING `+negotiationCols, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Negotiation{}, market.Errf(market.KindInvalidState, "negotiation %s has no counter offer to decline", id)
	}
	return n, err
}

func (r *Repo) Cancel(ctx context.Context, id string) (Negotiation, error) {
	n, err := scanNegotiation(r.DB.QueryRow(ctx, `
		UPDATE negotiations SET status='CANCELLED', updated_at=now()
		WHERE id=$1 AND status IN ('PENDING','COUNTERED')
		RETURNING `+negotiationCols, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Negotiation{}, market.Errf(market.KindInvalidState, "negotiation %s is already closed", id)
	}
	return n, err
}

// Expire flips an open negotiation to EXPIRED; false means it already left
// the open set, which keeps the sweep idempotent.
func (r *Repo) Expire(ctx context.Context, id string) (bool, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE negotiations SET status='EXPIRED', updated_at=now()
		WHERE id=$1 AND status IN ('PENDING','COUNTERED')`, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

var _ Store = (*Repo)(nil)
