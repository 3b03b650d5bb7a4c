// Package queue defines message payloads exchanged over the message broker.
package queue

// AuctionClosedEvent is published when an auction closes, either through the
// explicit end operation or the background sweeper. It carries enough for
// downstream consumers to log or notify without querying the primary
// database.
type AuctionClosedEvent struct {
	AuctionID        uint64 `json:"auction_id"`
	Title            string `json:"title"`
	ScrapItemID      uint64 `json:"scrap_item_id"`
	WinnerID         uint64 `json:"winner_id,omitempty"`
	WinningBidID     uint64 `json:"winning_bid_id,omitempty"`
	WinningBidCents  int64  `json:"winning_bid_cents,omitempty"`
	ClosedBy         string `json:"closed_by"` // "manager", "sweeper" or "expiry"
	ClosedAt         string `json:"closed_at"`
}

// DigestEmailEvent is published by the digest dispatcher for each due
// subscription. The consumer appends it to the digest log; actual SMTP
// delivery is an external collaborator.
type DigestEmailEvent struct {
	UserID           uint64   `json:"user_id"`
	Frequency        string   `json:"frequency"`
	Categories       []string `json:"categories"`
	UpcomingAuctions []string `json:"upcoming_auctions"`
	RecentBidCount   int      `json:"recent_bid_count"`
	ComposedAt       string   `json:"composed_at"`
}
