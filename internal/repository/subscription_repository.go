package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/scrapbid/marketplace/internal/model"
)

// ErrSubscriptionNotFound indicates that no subscription row exists for the
// user.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// ErrAlreadySubscribed is returned when a user tries to create a second
// newsletter subscription.
var ErrAlreadySubscribed = errors.New("user already subscribed")

// SubscriptionRepo manages both notification subscriptions and newsletter
// subscriptions.  Category and type lists are stored comma-joined.
type SubscriptionRepo struct {
	db *sql.DB
}

// NewSubscriptionRepo constructs a SubscriptionRepo with the given DB
// handle.
func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

func joinList(items []string) string {
	return strings.Join(items, ",")
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// Upsert creates or replaces the notification subscription for a user.
// Subscribing twice simply updates the preferences, matching the
// subscribe-then-change flow of the clients.
func (r *SubscriptionRepo) Upsert(ctx context.Context, sub *model.Subscription) error {
	const q = `INSERT INTO subscriptions (user_id, frequency, categories) VALUES (?,?,?)
	           ON DUPLICATE KEY UPDATE frequency=VALUES(frequency), categories=VALUES(categories)`
	if _, err := r.db.ExecContext(ctx, q, sub.UserID, sub.Frequency, joinList(sub.Categories)); err != nil {
		return err
	}
	got, err := r.GetByUser(ctx, sub.UserID)
	if err != nil {
		return err
	}
	*sub = got
	return nil
}

// GetByUser returns the notification subscription of one user.
func (r *SubscriptionRepo) GetByUser(ctx context.Context, userID uint64) (model.Subscription, error) {
	var (
		s    model.Subscription
		cats string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, frequency, categories, created_at, updated_at FROM subscriptions WHERE user_id=?",
		userID).Scan(&s.ID, &s.UserID, &s.Frequency, &cats, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Subscription{}, ErrSubscriptionNotFound
	}
	if err != nil {
		return model.Subscription{}, err
	}
	s.Categories = splitList(cats)
	return s, nil
}

// ListAll returns every notification subscription.  The digest dispatcher
// iterates this on each run.
func (r *SubscriptionRepo) ListAll(ctx context.Context) ([]model.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, frequency, categories, created_at, updated_at FROM subscriptions")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Subscription
	for rows.Next() {
		var (
			s    model.Subscription
			cats string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Frequency, &cats, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Categories = splitList(cats)
		result = append(result, s)
	}
	return result, rows.Err()
}

// CreateNewsletter inserts a newsletter subscription.  A second insert for
// the same user returns ErrAlreadySubscribed.
func (r *SubscriptionRepo) CreateNewsletter(ctx context.Context, sub *model.NewsletterSubscription) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO newsletter_subscriptions (user_id, subscription_type, notification_types) VALUES (?,?,?)",
		sub.UserID, sub.SubscriptionType, joinList(sub.NotificationTypes))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrAlreadySubscribed
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	sub.ID = uint64(id)
	got, err := r.GetNewsletterByUser(ctx, sub.UserID)
	if err != nil {
		return err
	}
	*sub = got
	return nil
}

// GetNewsletterByUser returns the newsletter subscription of one user.
func (r *SubscriptionRepo) GetNewsletterByUser(ctx context.Context, userID uint64) (model.NewsletterSubscription, error) {
	var (
		s     model.NewsletterSubscription
		types string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, subscription_type, notification_types, created_at, updated_at FROM newsletter_subscriptions WHERE user_id=?",
		userID).Scan(&s.ID, &s.UserID, &s.SubscriptionType, &types, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewsletterSubscription{}, ErrSubscriptionNotFound
	}
	if err != nil {
		return model.NewsletterSubscription{}, err
	}
	s.NotificationTypes = splitList(types)
	return s, nil
}

// UpdateNewsletter rewrites the preferences of an existing newsletter
// subscription.
func (r *SubscriptionRepo) UpdateNewsletter(ctx context.Context, sub *model.NewsletterSubscription) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE newsletter_subscriptions SET subscription_type=?, notification_types=? WHERE user_id=?",
		sub.SubscriptionType, joinList(sub.NotificationTypes), sub.UserID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx,
			"SELECT 1 FROM newsletter_subscriptions WHERE user_id=? LIMIT 1", sub.UserID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSubscriptionNotFound
			}
			return err
		}
	}
	got, err := r.GetNewsletterByUser(ctx, sub.UserID)
	if err != nil {
		return err
	}
	*sub = got
	return nil
}

// DeleteNewsletter removes a user's newsletter subscription.
func (r *SubscriptionRepo) DeleteNewsletter(ctx context.Context, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM newsletter_subscriptions WHERE user_id=?", userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// ListNewsletter returns every newsletter subscription.
func (r *SubscriptionRepo) ListNewsletter(ctx context.Context) ([]model.NewsletterSubscription, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, subscription_type, notification_types, created_at, updated_at FROM newsletter_subscriptions")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.NewsletterSubscription
	for rows.Next() {
		var (
			s     model.NewsletterSubscription
			types string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.SubscriptionType, &types, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.NotificationTypes = splitList(types)
		result = append(result, s)
	}
	return result, rows.Err()
}
