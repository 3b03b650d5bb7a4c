package worker

import (
	"context"
	"time"

	"github.com/scrapbid/marketplace/internal/logger"
	"github.com/scrapbid/marketplace/internal/model"
	"github.com/scrapbid/marketplace/internal/queue"
	"github.com/scrapbid/marketplace/internal/repository"
	"github.com/scrapbid/marketplace/internal/service"
)

// DigestDue reports whether a subscription with the given frequency should
// receive a digest on the given day: daily ones every day, weekly ones on
// Sundays, monthly ones on the first of the month.
func DigestDue(frequency string, day time.Time) bool {
	switch frequency {
	case model.FreqDaily:
		return true
	case model.FreqWeekly:
		return day.Weekday() == time.Sunday
	case model.FreqMonthly:
		return day.Day() == 1
	}
	return false
}

// DigestDispatcher composes notification digests for due subscriptions and
// publishes one digest.email event per recipient. The tick interval only
// controls how promptly a new day is noticed; digests go out at most once
// per calendar day.
type DigestDispatcher struct {
	Subs     *repository.SubscriptionRepo
	Auctions *repository.AuctionRepo
	Bids     *repository.BidRepo
	Interval time.Duration

	lastRun string // date of the last dispatch, "2006-01-02"
}

func NewDigestDispatcher(s *repository.SubscriptionRepo, a *repository.AuctionRepo, b *repository.BidRepo, interval time.Duration) *DigestDispatcher {
	if interval <= 0 {
		interval = time.Hour
	}
	return &DigestDispatcher{Subs: s, Auctions: a, Bids: b, Interval: interval}
}

// Run blocks until ctx is cancelled, checking once per interval whether a
// new day has started.
func (d *DigestDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()
	logger.Info("digest dispatcher started", map[string]any{"interval": d.Interval.String()})
	for {
		select {
		case <-ctx.Done():
			logger.Info("digest dispatcher stopped", nil)
			return
		case <-ticker.C:
			now := time.Now().UTC()
			if day := now.Format("2006-01-02"); day != d.lastRun {
				d.Dispatch(ctx, now)
				d.lastRun = day
			}
		}
	}
}

// Dispatch composes and publishes digests for every subscription due on the
// given day.
func (d *DigestDispatcher) Dispatch(ctx context.Context, now time.Time) {
	subs, err := d.Subs.ListAll(ctx)
	if err != nil {
		logger.Error("digest subscription scan failed", map[string]any{"error": err.Error()})
		return
	}

	var upcoming []string
	auctions, err := d.Auctions.ListUpcoming(ctx, now, now.Add(7*24*time.Hour))
	if err != nil {
		logger.Error("digest upcoming auctions query failed", map[string]any{"error": err.Error()})
	} else {
		for _, a := range auctions {
			upcoming = append(upcoming, a.Title)
		}
	}
	recent, err := d.Bids.ListRecent(ctx, now.Add(-24*time.Hour), 500)
	if err != nil {
		logger.Error("digest recent bids query failed", map[string]any{"error": err.Error()})
	}

	sent := 0
	for _, sub := range subs {
		if !DigestDue(sub.Frequency, now) {
			continue
		}
		ev := queue.DigestEmailEvent{
			UserID:           sub.UserID,
			Frequency:        sub.Frequency,
			Categories:       sub.Categories,
			UpcomingAuctions: upcoming,
			RecentBidCount:   len(recent),
			ComposedAt:       now.Format(time.RFC3339),
		}
		if err := queue_publisher.PublishDigestEmail(ctx, ev); err != nil {
			logger.Warn("digest.email publish failed", map[string]any{"user_id": sub.UserID, "error": err.Error()})
			continue
		}
		sent++
	}

	// Newsletter subscriptions get the same digest on their own cadence.
	news, err := d.Subs.ListNewsletter(ctx)
	if err != nil {
		logger.Error("newsletter subscription scan failed", map[string]any{"error": err.Error()})
		news = nil
	}
	for _, sub := range news {
		if !DigestDue(sub.SubscriptionType, now) {
			continue
		}
		ev := queue.DigestEmailEvent{
			UserID:           sub.UserID,
			Frequency:        sub.SubscriptionType,
			Categories:       sub.NotificationTypes,
			UpcomingAuctions: upcoming,
			RecentBidCount:   len(recent),
			ComposedAt:       now.Format(time.RFC3339),
		}
		if err := queue_publisher.PublishDigestEmail(ctx, ev); err != nil {
			logger.Warn("digest.email publish failed", map[string]any{"user_id": sub.UserID, "error": err.Error()})
			continue
		}
		sent++
	}

	logger.Info("digest dispatch complete", map[string]any{
		"due":           sent,
		"subscriptions": len(subs) + len(news),
	})
}
