package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scrapbid/marketplace/internal/model"
	"github.com/scrapbid/marketplace/internal/repository"
)

// SubscriptionHandler serves notification and newsletter subscription
// endpoints.
type SubscriptionHandler struct {
	Subs *repository.SubscriptionRepo
}

func NewSubscriptionHandler(s *repository.SubscriptionRepo) *SubscriptionHandler {
	if s == nil {
		panic("nil repository passed to NewSubscriptionHandler")
	}
	return &SubscriptionHandler{Subs: s}
}

type subscribeReq struct {
	Frequency  string   `json:"frequency"`
	Categories []string `json:"categories"`
}

type newsletterReq struct {
	SubscriptionType  string   `json:"subscription_type"`
	NotificationTypes []string `json:"notification_types"`
}

// Subscribe creates or replaces the caller's notification subscription.
// Subscribing again simply updates the preferences.
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return message(c, http.StatusUnauthorized, "unauthorized")
	}
	var req subscribeReq
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid body")
	}
	var errs []string
	if !model.ValidFrequency(req.Frequency) {
		errs = append(errs, "frequency must be daily, weekly or monthly")
	}
	if len(req.Categories) == 0 {
		errs = append(errs, "categories is required")
	} else if !model.ValidCategories(req.Categories) {
		errs = append(errs, "categories may only contain auctions, bids or system_updates")
	}
	if len(errs) > 0 {
		return validationErrors(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sub := model.Subscription{UserID: uid, Frequency: req.Frequency, Categories: req.Categories}
	if err := h.Subs.Upsert(ctx, &sub); err != nil {
		return message(c, http.StatusInternalServerError, "subscribe failed")
	}
	return c.JSON(http.StatusOK, sub)
}

// NewsletterSubscribe opts the caller into the newsletter. A second
// subscribe is rejected; preferences change through the update endpoint.
func (h *SubscriptionHandler) NewsletterSubscribe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return message(c, http.StatusUnauthorized, "unauthorized")
	}
	req, errs := bindNewsletterReq(c)
	if errs != nil {
		return validationErrors(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sub := model.NewsletterSubscription{
		UserID:            uid,
		SubscriptionType:  req.SubscriptionType,
		NotificationTypes: req.NotificationTypes,
	}
	if err := h.Subs.CreateNewsletter(ctx, &sub); err != nil {
		if errors.Is(err, repository.ErrAlreadySubscribed) {
			return message(c, http.StatusBadRequest, "user already subscribed")
		}
		return message(c, http.StatusInternalServerError, "subscribe failed")
	}
	return c.JSON(http.StatusCreated, sub)
}

// NewsletterPreferences rewrites the caller's newsletter preferences.
func (h *SubscriptionHandler) NewsletterPreferences(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return message(c, http.StatusUnauthorized, "unauthorized")
	}
	req, errs := bindNewsletterReq(c)
	if errs != nil {
		return validationErrors(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sub := model.NewsletterSubscription{
		UserID:            uid,
		SubscriptionType:  req.SubscriptionType,
		NotificationTypes: req.NotificationTypes,
	}
	if err := h.Subs.UpdateNewsletter(ctx, &sub); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return message(c, http.StatusNotFound, "subscription not found")
		}
		return message(c, http.StatusInternalServerError, "update preferences failed")
	}
	return c.JSON(http.StatusOK, sub)
}

// NewsletterUnsubscribe removes the caller's newsletter subscription.
func (h *SubscriptionHandler) NewsletterUnsubscribe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return message(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Subs.DeleteNewsletter(ctx, uid); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return message(c, http.StatusNotFound, "subscription not found")
		}
		return message(c, http.StatusInternalServerError, "unsubscribe failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "unsubscribed"})
}

func bindNewsletterReq(c echo.Context) (newsletterReq, []string) {
	var req newsletterReq
	if err := c.Bind(&req); err != nil {
		return req, []string{"invalid body"}
	}
	var errs []string
	if !model.ValidFrequency(req.SubscriptionType) {
		errs = append(errs, "subscription_type must be daily, weekly or monthly")
	}
	if len(req.NotificationTypes) == 0 {
		errs = append(errs, "notification_types is required")
	} else if !model.ValidNewsletterTypes(req.NotificationTypes) {
		errs = append(errs, "notification_types may only contain new_auctions, auction_updates, offers or other")
	}
	return req, errs
}
