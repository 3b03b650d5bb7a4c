package model

import "time"

// Bid status values.  Bids stay active for their whole life here; accepted
// and rejected are reserved for the order-fulfillment flow, which no
// operation in this service transitions to.
const (
	BidActive   = "active"
	BidAccepted = "accepted"
	BidRejected = "rejected"
)

// BeatsHighest is the single comparison rule for accepting a bid: the new
// amount must be strictly greater than the auction's current highest amount.
// Equal amounts are rejected.  When the auction has no bids yet, any
// non-negative amount is acceptable.
func BeatsHighest(amountCents int64, highestCents int64, hasHighest bool) bool {
	if amountCents < 0 {
		return false
	}
	if !hasHighest {
		return true
	}
	return amountCents > highestCents
}

// Bid is one buyer's offer on an auction.
//
// Fields:
//  ID          – primary key identifier.
//  AuctionID   – auction the bid belongs to.
//  BidderID    – user placing the bid.
//  AmountCents – offered amount in cents.
//  Status      – one of the Bid* constants.
//  BidAt       – when the bid was placed.
type Bid struct {
	ID          uint64    `json:"id"`           // bids.id
	AuctionID   uint64    `json:"auction_id"`   // bids.auction_id
	BidderID    uint64    `json:"bidder_id"`    // bids.bidder_id
	AmountCents int64     `json:"amount_cents"` // bids.amount_cents
	Status      string    `json:"status"`       // bids.status
	BidAt       time.Time `json:"bid_at"`       // bids.bid_at
}
