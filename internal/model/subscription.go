package model

import "time"

// Digest frequency and category enumerations for notification and
// newsletter subscriptions.
const (
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
)

// ValidFrequency reports whether f is a known digest frequency.
func ValidFrequency(f string) bool {
	switch f {
	case FreqDaily, FreqWeekly, FreqMonthly:
		return true
	}
	return false
}

// Notification digest categories a user can subscribe to.
var SubscriptionCategories = []string{"auctions", "bids", "system_updates"}

// Newsletter notification types a user can opt into.
var NewsletterTypes = []string{"new_auctions", "auction_updates", "offers", "other"}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// ValidCategories reports whether every entry is a known digest category.
func ValidCategories(cats []string) bool {
	for _, c := range cats {
		if !contains(SubscriptionCategories, c) {
			return false
		}
	}
	return true
}

// ValidNewsletterTypes reports whether every entry is a known newsletter
// notification type.
func ValidNewsletterTypes(types []string) bool {
	for _, t := range types {
		if !contains(NewsletterTypes, t) {
			return false
		}
	}
	return true
}

// Subscription is a per-user notification preference: which digest
// categories to include and how often to send.  One row per user.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – owning user (unique).
//  Frequency  – daily, weekly or monthly.
//  Categories – subset of SubscriptionCategories.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Subscription struct {
	ID         uint64    `json:"id"`         // subscriptions.id
	UserID     uint64    `json:"user_id"`    // subscriptions.user_id
	Frequency  string    `json:"frequency"`  // subscriptions.frequency
	Categories []string  `json:"categories"` // subscriptions.categories (comma-joined in storage)
	CreatedAt  time.Time `json:"created_at"` // subscriptions.created_at
	UpdatedAt  time.Time `json:"updated_at"` // subscriptions.updated_at
}

// NewsletterSubscription mirrors the newsletter_subscriptions table: one
// row per user with a cadence and a set of notification types.
//
// Fields:
//  ID                – primary key identifier.
//  UserID            – owning user (unique).
//  SubscriptionType  – daily, weekly or monthly.
//  NotificationTypes – subset of NewsletterTypes.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type NewsletterSubscription struct {
	ID                uint64    `json:"id"`                 // newsletter_subscriptions.id
	UserID            uint64    `json:"user_id"`            // newsletter_subscriptions.user_id
	SubscriptionType  string    `json:"subscription_type"`  // newsletter_subscriptions.subscription_type
	NotificationTypes []string  `json:"notification_types"` // newsletter_subscriptions.notification_types
	CreatedAt         time.Time `json:"created_at"`         // newsletter_subscriptions.created_at
	UpdatedAt         time.Time `json:"updated_at"`         // newsletter_subscriptions.updated_at
}
