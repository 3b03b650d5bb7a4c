package model

import (
	"errors"
	"time"
)

// Auction status values.  An auction only ever moves open -> closed, either
// by an explicit end action or by the background sweeper once end_at has
// passed.  Cancelled exists for manual intervention and accepts no bids.
const (
	AuctionOpen      = "open"
	AuctionClosed    = "closed"
	AuctionCancelled = "cancelled"
)

// ValidAuctionStatus reports whether s is a known auction status.
func ValidAuctionStatus(s string) bool {
	switch s {
	case AuctionOpen, AuctionClosed, AuctionCancelled:
		return true
	}
	return false
}

// ErrDateOrder is returned when an auction's end does not come after its start.
var ErrDateOrder = errors.New("end date must be after the start date")

// ValidateAuctionDates enforces the start < end invariant checked before
// every auction persist (create and update).
func ValidateAuctionDates(start, end time.Time) error {
	if !start.Before(end) {
		return ErrDateOrder
	}
	return nil
}

// Auction is a timed sale of one scrap item.  HighestBidID is a cached
// pointer into the bids table; every bid mutation updates it inside the same
// database transaction so it always references the bid with the maximum
// amount.  WinnerID is resolved from the highest bid's bidder when the
// auction closes.
//
// Fields:
//  ID                – primary key identifier.
//  Title             – short auction title.
//  Description       – longer description shown to bidders.
//  ScrapItemID       – the scrap item being sold (reference, not owned).
//  StartAt           – when bidding opens.
//  EndAt             – when bidding closes (must be after StartAt).
//  Status            – one of the Auction* constants.
//  HighestBidID      – current highest bid (nil until the first bid).
//  ReservePriceCents – minimum acceptable sale price in cents; recorded but
//                      not enforced as a bid floor.
//  WinnerID          – winning bidder, set at close (nil when no bids).
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Auction struct {
	ID                uint64    `json:"id"`                  // auctions.id
	Title             string    `json:"title"`               // auctions.title
	Description       string    `json:"description"`         // auctions.description
	ScrapItemID       uint64    `json:"scrap_item_id"`       // auctions.scrap_item_id
	StartAt           time.Time `json:"start_at"`            // auctions.start_at
	EndAt             time.Time `json:"end_at"`              // auctions.end_at
	Status            string    `json:"status"`              // auctions.status
	HighestBidID      *uint64   `json:"highest_bid_id"`      // auctions.highest_bid_id (nullable)
	ReservePriceCents int64     `json:"reserve_price_cents"` // auctions.reserve_price_cents
	WinnerID          *uint64   `json:"winner_id"`           // auctions.winner_id (nullable)
	CreatedAt         time.Time `json:"created_at"`          // auctions.created_at
	UpdatedAt         time.Time `json:"updated_at"`          // auctions.updated_at
}
