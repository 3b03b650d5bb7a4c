// Package worker holds the background jobs that run alongside the HTTP
// server: the auction sweeper and the digest dispatcher.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/scrapbid/marketplace/internal/logger"
	"github.com/scrapbid/marketplace/internal/queue"
	"github.com/scrapbid/marketplace/internal/repository"
	"github.com/scrapbid/marketplace/internal/service"
)

// sweepBatchSize bounds how many expired auctions one pass closes.
const sweepBatchSize = 100

// Sweeper periodically closes open auctions whose end time has passed and
// resolves their winners. Each close runs in its own transaction with the
// auction row locked, so a concurrent bid either lands before the close or
// is rejected after it.
type Sweeper struct {
	Auctions *repository.AuctionRepo
	Bids     *repository.BidRepo
	Interval time.Duration
}

func NewSweeper(a *repository.AuctionRepo, b *repository.BidRepo, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{Auctions: a, Bids: b, Interval: interval}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	logger.Info("auction sweeper started", map[string]any{"interval": s.Interval.String()})
	for {
		select {
		case <-ctx.Done():
			logger.Info("auction sweeper stopped", nil)
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep closes every open auction past its end time, publishing an
// auction.closed event for each.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := time.Now().UTC()
	ids, err := s.Auctions.ListExpiredOpen(ctx, now, sweepBatchSize)
	if err != nil {
		logger.Error("sweep scan failed", map[string]any{"error": err.Error()})
		return
	}
	for _, id := range ids {
		a, err := s.Auctions.Close(ctx, id)
		if err != nil {
			// A bid transaction may have auto-closed it between the scan
			// and this close; that is not a failure.
			if errors.Is(err, repository.ErrAuctionAlreadyClosed) {
				continue
			}
			logger.Error("sweep close failed", map[string]any{"auction_id": id, "error": err.Error()})
			continue
		}
		ev := queue.AuctionClosedEvent{
			AuctionID:   a.ID,
			Title:       a.Title,
			ScrapItemID: a.ScrapItemID,
			ClosedBy:    "sweeper",
			ClosedAt:    now.Format(time.RFC3339),
		}
		if a.WinnerID != nil {
			ev.WinnerID = *a.WinnerID
		}
		if a.HighestBidID != nil {
			ev.WinningBidID = *a.HighestBidID
			if b, err := s.Bids.GetByID(ctx, *a.HighestBidID); err == nil {
				ev.WinningBidCents = b.AmountCents
			}
		}
		if err := queue_publisher.PublishAuctionClosed(ctx, ev); err != nil {
			logger.Warn("auction.closed publish failed", map[string]any{"auction_id": a.ID, "error": err.Error()})
		}
		fields := map[string]any{"auction_id": a.ID}
		if a.WinnerID != nil {
			fields["winner_id"] = *a.WinnerID
		}
		logger.Info("auction closed by sweeper", fields)
	}
}
