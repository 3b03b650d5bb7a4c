// This file implements persistence for bids.  Every mutation (create,
// update, delete) runs inside a transaction that first locks the parent
// auction row with SELECT ... FOR UPDATE.  Two concurrent bids on the same
// auction therefore serialize at the database: the second one re-reads the
// highest bid the first one just wrote and is validated against it, so
// auctions.highest_bid_id always references the true maximum.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/scrapbid/marketplace/internal/model"
)

// ErrBidNotFound indicates that a bid was not located in the DB.
var ErrBidNotFound = errors.New("bid not found")

// ErrBidTooLow is returned when a bid does not strictly exceed the
// auction's current highest bid amount.  Ties are rejected.  It wraps
// ErrConflict.
var ErrBidTooLow = fmt.Errorf("%w: bid amount must be higher than the current highest bid", ErrConflict)

// BidRepo manages persistence for bids.
type BidRepo struct {
	db *sql.DB
}

// NewBidRepo constructs a BidRepo with the given DB handle.
func NewBidRepo(db *sql.DB) *BidRepo {
	return &BidRepo{db: db}
}

const bidColumns = "id, auction_id, bidder_id, amount_cents, status, bid_at"

func scanBid(row interface{ Scan(...any) error }) (model.Bid, error) {
	var b model.Bid
	err := row.Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.AmountCents, &b.Status, &b.BidAt)
	return b, err
}

// highestAmountTx reads the amount of the auction's cached highest bid.  The
// bool result reports whether a highest bid exists at all.
func highestAmountTx(ctx context.Context, tx *sql.Tx, a model.Auction) (int64, bool, error) {
	if a.HighestBidID == nil {
		return 0, false, nil
	}
	var amount int64
	err := tx.QueryRowContext(ctx,
		"SELECT amount_cents FROM bids WHERE id = ?", *a.HighestBidID).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		// Dangling pointer; treat as no highest bid.
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return amount, true, nil
}

// requireOpenTx checks that the locked auction accepts bids right now.  An
// auction that is still marked open but past its end date is closed on the
// spot (winner resolved) before the bid is rejected, so a late bid can never
// sneak in between sweeper runs.
func requireOpenTx(ctx context.Context, tx *sql.Tx, a *model.Auction, now time.Time) error {
	if a.Status != model.AuctionOpen {
		return ErrAuctionNotOpen
	}
	if now.After(a.EndAt) {
		if err := closeLockedTx(ctx, tx, a); err != nil {
			return err
		}
		return ErrAuctionNotOpen
	}
	return nil
}

// Create validates and records a new bid.  Error returns: ErrAuctionNotFound
// when the auction is absent, ErrAuctionNotOpen when its status is not open,
// ErrBidTooLow when the amount does not strictly exceed the current highest
// bid.  On success the bid row is inserted and the auction's highest_bid_id
// repointed to it in the same transaction.  When the bid hit an auction
// that was still marked open but past its end date, the auction is closed
// on the spot and returned as closed, so the caller can publish the close
// event the sweeper would otherwise have sent.
func (r *BidRepo) Create(ctx context.Context, auctionID, bidderID uint64, amountCents int64) (model.Bid, *model.Auction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Bid{}, nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	a, err := getForUpdateTx(ctx, tx, auctionID)
	if err != nil {
		return model.Bid{}, nil, err
	}
	wasOpen := a.Status == model.AuctionOpen
	if err := requireOpenTx(ctx, tx, &a, time.Now().UTC()); err != nil {
		if errors.Is(err, ErrAuctionNotOpen) && wasOpen {
			// Keep the auto-close that just happened.
			if cerr := tx.Commit(); cerr == nil {
				committed = true
				return model.Bid{}, &a, err
			}
		}
		return model.Bid{}, nil, err
	}
	highest, has, err := highestAmountTx(ctx, tx, a)
	if err != nil {
		return model.Bid{}, nil, err
	}
	if !model.BeatsHighest(amountCents, highest, has) {
		return model.Bid{}, nil, ErrBidTooLow
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO bids (auction_id, bidder_id, amount_cents) VALUES (?, ?, ?)",
		auctionID, bidderID, amountCents)
	if err != nil {
		return model.Bid{}, nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Bid{}, nil, err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE auctions SET highest_bid_id = ? WHERE id = ?", id, auctionID); err != nil {
		return model.Bid{}, nil, err
	}
	b, err := scanBid(tx.QueryRowContext(ctx,
		"SELECT "+bidColumns+" FROM bids WHERE id = ?", id))
	if err != nil {
		return model.Bid{}, nil, err
	}
	if err := tx.Commit(); err != nil {
		return model.Bid{}, nil, err
	}
	committed = true
	return b, nil, nil
}

// Update amends a bid's amount.  The new amount is validated against the
// auction's current highest bid with the same strict comparison as Create,
// and the auction must still be open.  Only the bid's own bidder may amend
// it; anyone else gets ErrForbidden.  On success highest_bid_id is
// repointed to this bid; since the new amount had to exceed the previous
// maximum, the pointer stays consistent.  Like Create, an expired-but-open
// auction is closed in the same transaction and returned as closed.
func (r *BidRepo) Update(ctx context.Context, bidID, bidderID uint64, amountCents int64) (model.Bid, *model.Auction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Bid{}, nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := scanBid(tx.QueryRowContext(ctx,
		"SELECT "+bidColumns+" FROM bids WHERE id = ?", bidID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, nil, ErrBidNotFound
	}
	if err != nil {
		return model.Bid{}, nil, err
	}
	if b.BidderID != bidderID {
		return model.Bid{}, nil, ErrForbidden
	}
	a, err := getForUpdateTx(ctx, tx, b.AuctionID)
	if err != nil {
		return model.Bid{}, nil, err
	}
	wasOpen := a.Status == model.AuctionOpen
	if err := requireOpenTx(ctx, tx, &a, time.Now().UTC()); err != nil {
		if errors.Is(err, ErrAuctionNotOpen) && wasOpen {
			if cerr := tx.Commit(); cerr == nil {
				committed = true
				return model.Bid{}, &a, err
			}
		}
		return model.Bid{}, nil, err
	}
	highest, has, err := highestAmountTx(ctx, tx, a)
	if err != nil {
		return model.Bid{}, nil, err
	}
	if !model.BeatsHighest(amountCents, highest, has) {
		return model.Bid{}, nil, ErrBidTooLow
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE bids SET amount_cents = ? WHERE id = ?", amountCents, bidID); err != nil {
		return model.Bid{}, nil, err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE auctions SET highest_bid_id = ? WHERE id = ?", bidID, b.AuctionID); err != nil {
		return model.Bid{}, nil, err
	}
	b.AmountCents = amountCents
	if err := tx.Commit(); err != nil {
		return model.Bid{}, nil, err
	}
	committed = true
	return b, nil, nil
}

// Delete removes a bid.  A bidder may only withdraw their own bids; admin
// callers bypass the ownership check.  When the removed bid is the
// auction's cached highest, the maximum over the remaining bids is
// recomputed and the pointer repointed (or nulled when no bids remain).
func (r *BidRepo) Delete(ctx context.Context, bidID, callerID uint64, admin bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := scanBid(tx.QueryRowContext(ctx,
		"SELECT "+bidColumns+" FROM bids WHERE id = ?", bidID))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBidNotFound
	}
	if err != nil {
		return err
	}
	if !admin && b.BidderID != callerID {
		return ErrForbidden
	}
	a, err := getForUpdateTx(ctx, tx, b.AuctionID)
	if err != nil && !errors.Is(err, ErrAuctionNotFound) {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM bids WHERE id = ?", bidID); err != nil {
		return err
	}

	if a.ID != 0 && a.HighestBidID != nil && *a.HighestBidID == bidID {
		// Recompute the maximum over the remaining bids.  Earliest bid wins
		// a tie so the pointer is deterministic.
		var next sql.NullInt64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM bids WHERE auction_id = ?
			 ORDER BY amount_cents DESC, bid_at ASC, id ASC LIMIT 1`,
			b.AuctionID).Scan(&next)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE auctions SET highest_bid_id = ? WHERE id = ?", next, b.AuctionID); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// BidWithBidder is a bid row joined with the bidder's public identity, used
// by listing endpoints.
type BidWithBidder struct {
	model.Bid
	BidderName  string `json:"bidder_name"`
	BidderEmail string `json:"bidder_email"`
}

// GetByID retrieves a single bid with the bidder's identity attached.
func (r *BidRepo) GetByID(ctx context.Context, bidID uint64) (BidWithBidder, error) {
	const q = `SELECT b.id, b.auction_id, b.bidder_id, b.amount_cents, b.status, b.bid_at, u.name, u.email
	           FROM bids b JOIN users u ON u.id = b.bidder_id
	           WHERE b.id = ?`
	var bb BidWithBidder
	err := r.db.QueryRowContext(ctx, q, bidID).Scan(
		&bb.ID, &bb.AuctionID, &bb.BidderID, &bb.AmountCents, &bb.Status, &bb.BidAt,
		&bb.BidderName, &bb.BidderEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return BidWithBidder{}, ErrBidNotFound
	}
	return bb, err
}

// ListByAuction returns all bids on an auction, highest first, each enriched
// with the bidder's name and email.
func (r *BidRepo) ListByAuction(ctx context.Context, auctionID uint64) ([]BidWithBidder, error) {
	const q = `SELECT b.id, b.auction_id, b.bidder_id, b.amount_cents, b.status, b.bid_at, u.name, u.email
	           FROM bids b JOIN users u ON u.id = b.bidder_id
	           WHERE b.auction_id = ?
	           ORDER BY b.amount_cents DESC, b.bid_at ASC`
	rows, err := r.db.QueryContext(ctx, q, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []BidWithBidder
	for rows.Next() {
		var bb BidWithBidder
		if err := rows.Scan(&bb.ID, &bb.AuctionID, &bb.BidderID, &bb.AmountCents, &bb.Status, &bb.BidAt,
			&bb.BidderName, &bb.BidderEmail); err != nil {
			return nil, err
		}
		result = append(result, bb)
	}
	return result, rows.Err()
}

// BidWithAuction is a bid row joined with its auction's headline fields,
// used for the per-user bid history endpoint.
type BidWithAuction struct {
	model.Bid
	AuctionTitle string    `json:"auction_title"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
}

// ListByBidder returns all bids a user has placed, most recent first, each
// enriched with auction title and schedule.
func (r *BidRepo) ListByBidder(ctx context.Context, bidderID uint64) ([]BidWithAuction, error) {
	const q = `SELECT b.id, b.auction_id, b.bidder_id, b.amount_cents, b.status, b.bid_at, a.title, a.start_at, a.end_at
	           FROM bids b JOIN auctions a ON a.id = b.auction_id
	           WHERE b.bidder_id = ?
	           ORDER BY b.bid_at DESC`
	rows, err := r.db.QueryContext(ctx, q, bidderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []BidWithAuction
	for rows.Next() {
		var ba BidWithAuction
		if err := rows.Scan(&ba.ID, &ba.AuctionID, &ba.BidderID, &ba.AmountCents, &ba.Status, &ba.BidAt,
			&ba.AuctionTitle, &ba.StartAt, &ba.EndAt); err != nil {
			return nil, err
		}
		result = append(result, ba)
	}
	return result, rows.Err()
}

// ListRecent returns bids placed since the given time, newest first.  The
// digest dispatcher uses this for "recent bids" sections.
func (r *BidRepo) ListRecent(ctx context.Context, since time.Time, limit int) ([]model.Bid, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bidColumns+" FROM bids WHERE bid_at >= ? ORDER BY bid_at DESC LIMIT ?",
		since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}
