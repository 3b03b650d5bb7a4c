// This file implements persistence for auctions.  The denormalized
// highest_bid_id column and the winner resolution at close time are the two
// pieces of state this layer must keep consistent; both are only ever
// mutated inside a transaction that holds the auction row lock.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scrapbid/marketplace/internal/model"
)

// ErrAuctionNotFound indicates that an auction was not located in the DB.
var ErrAuctionNotFound = errors.New("auction not found")

// ErrAuctionNotOpen is returned when a bid operation targets an auction
// whose status is not "open" (closed, cancelled, or expired and closed by
// the same transaction).  It wraps ErrConflict.
var ErrAuctionNotOpen = fmt.Errorf("%w: auction is not open for bidding", ErrConflict)

// ErrAuctionAlreadyClosed is returned when ending an auction that has
// already been closed.  It wraps ErrConflict.
var ErrAuctionAlreadyClosed = fmt.Errorf("%w: auction is already closed", ErrConflict)

// AuctionRepo manages persistence for auctions.
type AuctionRepo struct {
	db *sql.DB
}

// NewAuctionRepo constructs an AuctionRepo with the given DB handle.
func NewAuctionRepo(db *sql.DB) *AuctionRepo {
	return &AuctionRepo{db: db}
}

const auctionColumns = `id, title, description, scrap_item_id, start_at, end_at, status,
	highest_bid_id, reserve_price_cents, winner_id, created_at, updated_at`

func scanAuction(row interface{ Scan(...any) error }) (model.Auction, error) {
	var (
		a       model.Auction
		highest sql.NullInt64
		winner  sql.NullInt64
	)
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.ScrapItemID, &a.StartAt, &a.EndAt,
		&a.Status, &highest, &a.ReservePriceCents, &winner, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return model.Auction{}, err
	}
	if highest.Valid {
		v := uint64(highest.Int64)
		a.HighestBidID = &v
	}
	if winner.Valid {
		v := uint64(winner.Int64)
		a.WinnerID = &v
	}
	return a, nil
}

// Create inserts a new auction and populates the generated ID and DB-default
// fields back onto the struct.  Date ordering is validated by the handler
// before this point; status always starts as "open" with no highest bid and
// no winner.
func (r *AuctionRepo) Create(ctx context.Context, a *model.Auction) error {
	const q = `INSERT INTO auctions (title, description, scrap_item_id, start_at, end_at, reserve_price_cents)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		a.Title, a.Description, a.ScrapItemID, a.StartAt.UTC(), a.EndAt.UTC(), a.ReservePriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	got, err := scanAuction(r.db.QueryRowContext(ctx,
		"SELECT "+auctionColumns+" FROM auctions WHERE id = ?", a.ID))
	if err != nil {
		return err
	}
	*a = got
	return nil
}

// GetByID retrieves an auction by its ID.  It returns ErrAuctionNotFound
// when there is no matching row.
func (r *AuctionRepo) GetByID(ctx context.Context, id uint64) (model.Auction, error) {
	a, err := scanAuction(r.db.QueryRowContext(ctx,
		"SELECT "+auctionColumns+" FROM auctions WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Auction{}, ErrAuctionNotFound
	}
	return a, err
}

// getForUpdateTx loads an auction inside tx with its row locked, serializing
// every concurrent bid or close operation on the same auction.
func getForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Auction, error) {
	a, err := scanAuction(tx.QueryRowContext(ctx,
		"SELECT "+auctionColumns+" FROM auctions WHERE id = ? FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Auction{}, ErrAuctionNotFound
	}
	return a, err
}

// closeLockedTx transitions an already-locked open auction to closed and
// resolves the winner from the highest bid's bidder when one exists.  The
// caller must hold the auction row lock within tx.
func closeLockedTx(ctx context.Context, tx *sql.Tx, a *model.Auction) error {
	var winner sql.NullInt64
	if a.HighestBidID != nil {
		var bidder uint64
		err := tx.QueryRowContext(ctx,
			"SELECT bidder_id FROM bids WHERE id = ?", *a.HighestBidID).Scan(&bidder)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err == nil {
			winner = sql.NullInt64{Int64: int64(bidder), Valid: true}
		}
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE auctions SET status = ?, winner_id = ? WHERE id = ?",
		model.AuctionClosed, winner, a.ID); err != nil {
		return err
	}
	a.Status = model.AuctionClosed
	if winner.Valid {
		w := uint64(winner.Int64)
		a.WinnerID = &w
	}
	return nil
}

// Close ends an auction: status moves to closed and the winner is resolved
// from the highest bid in the same transaction.  Returns
// ErrAuctionAlreadyClosed when the auction is not open any more.
func (r *AuctionRepo) Close(ctx context.Context, id uint64) (model.Auction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Auction{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	a, err := getForUpdateTx(ctx, tx, id)
	if err != nil {
		return model.Auction{}, err
	}
	if a.Status != model.AuctionOpen {
		return model.Auction{}, ErrAuctionAlreadyClosed
	}
	if err := closeLockedTx(ctx, tx, &a); err != nil {
		return model.Auction{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Auction{}, err
	}
	committed = true
	return a, nil
}

// AuctionFilter carries the optional predicates of the filter endpoint.
// Date bounds are inclusive; Status must be a member of the auction status
// enumeration when set.
type AuctionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
}

// Filter returns auctions matching the supplied predicates, newest first.
func (r *AuctionRepo) Filter(ctx context.Context, f AuctionFilter) ([]model.Auction, error) {
	where := []string{}
	args := []any{}
	if f.StartDate != nil {
		where = append(where, "start_at >= ?")
		args = append(args, f.StartDate.UTC())
	}
	if f.EndDate != nil {
		where = append(where, "end_at <= ?")
		args = append(args, f.EndDate.UTC())
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	q := "SELECT " + auctionColumns + " FROM auctions"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY start_at DESC"
	return r.queryAuctions(ctx, q, args...)
}

// ListActive returns auctions that are open and currently inside their
// bidding window (start_at <= now <= end_at).
func (r *AuctionRepo) ListActive(ctx context.Context, now time.Time) ([]model.Auction, error) {
	const q = "SELECT " + auctionColumns + ` FROM auctions
	           WHERE status = ? AND start_at <= ? AND end_at >= ?
	           ORDER BY end_at ASC`
	return r.queryAuctions(ctx, q, model.AuctionOpen, now.UTC(), now.UTC())
}

// ListExpiredOpen returns open auctions whose end date has passed.  The
// sweeper uses this to find auctions that still need closing.
func (r *AuctionRepo) ListExpiredOpen(ctx context.Context, now time.Time, limit int) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM auctions WHERE status = ? AND end_at <= ? ORDER BY end_at ASC LIMIT ?",
		model.AuctionOpen, now.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListUpcoming returns open auctions starting inside [from, to).  The digest
// dispatcher uses this to build "upcoming auctions" sections.
func (r *AuctionRepo) ListUpcoming(ctx context.Context, from, to time.Time) ([]model.Auction, error) {
	const q = "SELECT " + auctionColumns + ` FROM auctions
	           WHERE status = ? AND start_at >= ? AND start_at < ?
	           ORDER BY start_at ASC`
	return r.queryAuctions(ctx, q, model.AuctionOpen, from.UTC(), to.UTC())
}

// Update rewrites the caller-editable fields of an auction.  highest_bid_id
// and winner_id are deliberately excluded; only bid mutations and close
// operations may touch them.  Returns ErrAuctionNotFound when no row matched.
func (r *AuctionRepo) Update(ctx context.Context, a *model.Auction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE auctions SET title=?, description=?, scrap_item_id=?, start_at=?, end_at=?, status=?, reserve_price_cents=?
		 WHERE id=?`,
		a.Title, a.Description, a.ScrapItemID, a.StartAt.UTC(), a.EndAt.UTC(), a.Status, a.ReservePriceCents, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM auctions WHERE id=? LIMIT 1", a.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAuctionNotFound
			}
			return err
		}
	}
	got, err := scanAuction(r.db.QueryRowContext(ctx,
		"SELECT "+auctionColumns+" FROM auctions WHERE id = ?", a.ID))
	if err != nil {
		return err
	}
	*a = got
	return nil
}

// AuctionStats aggregates marketplace-wide counters for the stats endpoint.
type AuctionStats struct {
	TotalAuctions int64 `json:"total_auctions"`
	TotalBids     int64 `json:"total_bids"`
	HighestBid    int64 `json:"highest_bid_cents"`
}

// Stats returns auction and bid counts plus the single highest bid amount
// recorded anywhere (zero when there are no bids).
func (r *AuctionRepo) Stats(ctx context.Context) (AuctionStats, error) {
	var s AuctionStats
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM auctions").Scan(&s.TotalAuctions); err != nil {
		return s, err
	}
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(MAX(amount_cents), 0) FROM bids").Scan(&s.TotalBids, &s.HighestBid); err != nil {
		return s, err
	}
	return s, nil
}

func (r *AuctionRepo) queryAuctions(ctx context.Context, q string, args ...any) ([]model.Auction, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
