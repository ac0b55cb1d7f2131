package auction

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yash151294/StockENT-sub002/internal/market"
	"github.com/yash151294/StockENT-sub002/internal/settlement"
)

// Store is the persistence surface of the auction state machine. Every
// mutating call re-reads current state inside its own transaction; nothing in
// this package trusts a cached auction row.
type Store interface {
	Get(ctx context.Context, id string) (Auction, error)
	Bids(ctx context.Context, auctionID string) ([]Bid, error)
	PlaceBid(ctx context.Context, auctionID, bidderID string, amount int64, now time.Time) (PlacedBid, error)
	DueToStart(ctx context.Context, now time.Time) ([]Auction, error)
	MarkActive(ctx context.Context, id string) (bool, error)
	DueToEnd(ctx context.Context, now time.Time) ([]Auction, error)
	Close(ctx context.Context, id string, now time.Time) (Closeout, *settlement.Settlement, bool, error)
	Restart(ctx context.Context, id string, start, end time.Time, status Status) (Auction, error)
	Cancel(ctx context.Context, id string) (Auction, error)
}

type Repo struct {
	DB          *pgxpool.Pool
	Settlements *settlement.Repo
}

const auctionCols = `id, product_id, seller_id, auction_type, starting_price_cents, reserve_price_cents,
	current_bid_cents, bid_increment_cents, start_time, end_time, status, bid_count, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuction(row rowScanner) (Auction, error) {
	var a Auction
	err := row.Scan(&a.ID, &a.ProductID, &a.SellerID, &a.Type, &a.StartingPriceCents, &a.ReservePriceCents,
		&a.CurrentBidCents, &a.BidIncrementCents, &a.StartTime, &a.EndTime, &a.Status, &a.BidCount,
		&a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *Repo) Get(ctx context.Context, id string) (Auction, error) {
	a, err := scanAuction(r.DB.QueryRow(ctx, `SELECT `+auctionCols+` FROM auctions WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Auction{}, market.Errf(market.KindNotFound, "auction %s not found", id)
	}
	return a, err
}

func (r *Repo) Bids(ctx context.Context, auctionID string) ([]Bid, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, auction_id, bidder_id, amount_cents, status, placed_at
		FROM bids WHERE auction_id=$1 ORDER BY amount_cents DESC, placed_at`, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bid
	for rows.Next() {
		var b Bid
		if err := rows.Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.AmountCents, &b.Status, &b.PlacedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// PlaceBid is the serialization point for concurrent bids on one auction. The
// row lock orders committers; the second one re-reads a frontier that already
// reflects the first and fails validation instead of double-winning.
func (r *Repo) PlaceBid(ctx context.Context, auctionID, bidderID string, amount int64, now time.Time) (PlacedBid, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return PlacedBid{}, err
	}
	defer tx.Rollback(ctx)

	a, err := scanAuction(tx.QueryRow(ctx, `SELECT `+auctionCols+` FROM auctions WHERE id=$1 FOR UPDATE`, auctionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return PlacedBid{}, market.Errf(market.KindNotFound, "auction %s not found", auctionID)
	}
	if err != nil {
		return PlacedBid{}, err
	}

	if a.Status != StatusActive || now.Before(a.StartTime) || !now.Before(a.EndTime) {
		return PlacedBid{}, market.Errf(market.KindInvalidState, "auction %s is not open for bidding", auctionID)
	}
	if bidderID == a.SellerID {
		return PlacedBid{}, market.Errf(market.KindValidation, "seller cannot bid on own auction")
	}
	if amount <= a.CurrentBidCents && a.BidCount > 0 {
		// frontier already at or past this amount: the caller lost a race
		return PlacedBid{}, market.Errf(market.KindConflict, "bid of %d lost to current bid %d, retry with a higher amount", amount, a.CurrentBidCents)
	}
	if min := a.CurrentBidCents + a.BidIncrementCents; amount < min {
		return PlacedBid{}, market.Errf(market.KindValidation, "bid of %d is below minimum %d", amount, min)
	}

	var out PlacedBid
	err = tx.QueryRow(ctx, `
		UPDATE bids SET status='OUTBID' WHERE auction_id=$1 AND status='WINNING'
		RETURNING id, bidder_id`, auctionID).Scan(&out.OutbidBidID, &out.OutbidBidderID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return PlacedBid{}, err
	}

	bid := Bid{
		ID:          uuid.NewString(),
		AuctionID:   auctionID,
		BidderID:    bidderID,
		AmountCents: amount,
		Status:      BidWinning,
		PlacedAt:    now,
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO bids(id, auction_id, bidder_id, amount_cents, status, placed_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		bid.ID, bid.AuctionID, bid.BidderID, bid.AmountCents, bid.Status, bid.PlacedAt); err != nil {
		return PlacedBid{}, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE auctions SET current_bid_cents=$2, bid_count=bid_count+1, updated_at=now()
		WHERE id=$1`, auctionID, amount); err != nil {
		return PlacedBid{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return PlacedBid{}, err
	}

	a.CurrentBidCents = amount
	a.BidCount++
	out.Auction = a
	out.Bid = bid
	return out, nil
}

func (r *Repo) DueToStart(ctx context.Context, now time.Time) ([]Auction, error) {
	return r.list(ctx, `SELECT `+auctionCols+` FROM auctions WHERE status='SCHEDULED' AND start_time<=$1`, now)
}

func (r *Repo) DueToEnd(ctx context.Context, now time.Time) ([]Auction, error) {
	return r.list(ctx, `SELECT `+auctionCols+` FROM auctions WHERE status='ACTIVE' AND end_time<=$1`, now)
}

func (r *Repo) list(ctx context.Context, q string, args ...any) ([]Auction, error) {
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// MarkActive flips SCHEDULED to ACTIVE; false means another sweep got there first.
func (r *Repo) MarkActive(ctx context.Context, id string) (bool, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE auctions SET status='ACTIVE', updated_at=now()
		WHERE id=$1 AND status='SCHEDULED'`, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

// Close ends one auction: promotes the winning bid to WON (when the reserve is
// met), demotes everything else to LOST, and enqueues the settlement in the
// same transaction. Returns processed=false when the auction is no longer an
// ACTIVE row past its end time, which makes re-running the sweep a no-op.
func (r *Repo) Close(ctx context.Context, id string, now time.Time) (Closeout, *settlement.Settlement, bool, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Closeout{}, nil, false, err
	}
	defer tx.Rollback(ctx)

	a, err := scanAuction(tx.QueryRow(ctx, `SELECT `+auctionCols+` FROM auctions WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Closeout{}, nil, false, market.Errf(market.KindNotFound, "auction %s not found", id)
	}
	if err != nil {
		return Closeout{}, nil, false, err
	}
	if a.Status != StatusActive || now.Before(a.EndTime) {
		return Closeout{}, nil, false, nil
	}

	var winning Bid
	err = tx.QueryRow(ctx, `
		SELECT id, auction_id, bidder_id, amount_cents, status, placed_at
		FROM bids WHERE auction_id=$1 AND status='WINNING'`, id).
		Scan(&winning.ID, &winning.AuctionID, &winning.BidderID, &winning.AmountCents, &winning.Status, &winning.PlacedAt)
	hasWinning := err == nil
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return Closeout{}, nil, false, err
	}

	reserveMet := hasWinning && (a.ReservePriceCents == nil || winning.AmountCents >= *a.ReservePriceCents)

	if reserveMet {
		if _, err := tx.Exec(ctx, `UPDATE bids SET status='WON' WHERE id=$1`, winning.ID); err != nil {
			return Closeout{}, nil, false, err
		}
		if _, err := tx.Exec(ctx, `UPDATE bids SET status='LOST' WHERE auction_id=$1 AND id<>$2`, id, winning.ID); err != nil {
			return Closeout{}, nil, false, err
		}
	} else {
		if _, err := tx.Exec(ctx, `UPDATE bids SET status='LOST' WHERE auction_id=$1`, id); err != nil {
			return Closeout{}, nil, false, err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE auctions SET status='ENDED', updated_at=now() WHERE id=$1`, id); err != nil {
		return Closeout{}, nil, false, err
	}

	var st *settlement.Settlement
	if reserveMet {
		st = &settlement.Settlement{
			ID:            uuid.NewString(),
			SourceType:    settlement.SourceAuction,
			SourceID:      a.ID,
			ProductID:     a.ProductID,
			BeneficiaryID: winning.BidderID,
			SellerID:      a.SellerID,
			PriceCents:    winning.AmountCents,
			Quantity:      1,
			Status:        settlement.StatusPending,
		}
		if err := r.Settlements.Enqueue(ctx, tx, *st); err != nil {
			return Closeout{}, nil, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Closeout{}, nil, false, err
	}

	a.Status = StatusEnded
	co := Closeout{Auction: a, ReserveMet: reserveMet}
	if reserveMet {
		winning.Status = BidWon
		co.Winner = &winning
	}
	return co, st, true, nil
}

// Restart clears all bid history and resets the price frontier. The status
// guard keeps a concurrent restart or cancel from applying twice.
func (r *Repo) Restart(ctx context.Context, id string, start, end time.Time, status Status) (Auction, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Auction{}, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM bids WHERE auction_id=$1`, id); err != nil {
		return Auction{}, err
	}

	a, err := scanAuction(tx.QueryRow(ctx, `
		UPDATE auctions
		SET current_bid_cents=starting_price_cents, bid_count=0, start_time=$2, end_time=$3, status=$4, updated_at=now()
		WHERE id=$1 AND status='ENDED'
		RETURNING `+auctionCols, id, start, end, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return Auction{}, market.Errf(market.KindInvalidState, "auction %s is not ended, cannot restart", id)
	}
	if err != nil {
		return Auction{}, err
	}

	return a, tx.Commit(ctx)
}

func (r *Repo) Cancel(ctx context.Context, id string) (Auction, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Auction{}, err
	}
	defer tx.Rollback(ctx)

	a, err := scanAuction(tx.QueryRow(ctx, `
		UPDATE auctions SET status='CANCELLED', updated_at=now()
		WHERE id=$1 AND status IN ('SCHEDULED','ACTIVE')
		RETURNING `+auctionCols, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Auction{}, market.Errf(market.KindInvalidState, "auction %s cannot be cancelled", id)
	}
	if err != nil {
		return Auction{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE bids SET status='LOST' WHERE auction_id=$1 AND status IN ('WINNING','OUTBID')`, id); err != nil {
		return Auction{}, err
	}

	return a, tx.Commit(ctx)
}
