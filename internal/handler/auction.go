package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/scrapbid/marketplace/internal/logger"
	"github.com/scrapbid/marketplace/internal/model"
	"github.com/scrapbid/marketplace/internal/queue"
	"github.com/scrapbid/marketplace/internal/repository"
	"github.com/scrapbid/marketplace/internal/service"
)

// AuctionHandler bundles the repositories the auction endpoints touch.
type AuctionHandler struct {
	Auctions *repository.AuctionRepo
	Bids     *repository.BidRepo
	Scrap    *repository.ScrapRepo
}

func NewAuctionHandler(a *repository.AuctionRepo, b *repository.BidRepo, s *repository.ScrapRepo) *AuctionHandler {
	if a == nil || b == nil || s == nil {
		panic("nil repository passed to NewAuctionHandler")
	}
	return &AuctionHandler{Auctions: a, Bids: b, Scrap: s}
}

// ----- DTOs -----

type auctionReq struct {
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	ScrapItemID       uint64    `json:"scrap_item_id"`
	StartAt           time.Time `json:"start_at"`
	EndAt             time.Time `json:"end_at"`
	ReservePriceCents int64     `json:"reserve_price_cents"`
}

type auctionDetails struct {
	model.Auction
	Bids []repository.BidWithBidder `json:"bids"`
}

func (r auctionReq) validate() []string {
	var errs []string
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "title is required")
	}
	if r.ScrapItemID == 0 {
		errs = append(errs, "scrap_item_id is required")
	}
	if r.StartAt.IsZero() || r.EndAt.IsZero() {
		errs = append(errs, "start_at and end_at are required")
	} else if err := model.ValidateAuctionDates(r.StartAt, r.EndAt); err != nil {
		errs = append(errs, err.Error())
	}
	if r.ReservePriceCents < 0 {
		errs = append(errs, "reserve_price_cents must not be negative")
	}
	return errs
}

// Create opens a new auction for an existing scrap item. New auctions start
// open with no bids and no winner.
func (h *AuctionHandler) Create(c echo.Context) error {
	var req auctionReq
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(); len(errs) > 0 {
		return validationErrors(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Scrap.GetByID(ctx, req.ScrapItemID); err != nil {
		if errors.Is(err, repository.ErrScrapNotFound) {
			return message(c, http.StatusBadRequest, "scrap item not found")
		}
		return message(c, http.StatusInternalServerError, "query failed")
	}

	a := model.Auction{
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		ScrapItemID:       req.ScrapItemID,
		StartAt:           req.StartAt.UTC(),
		EndAt:             req.EndAt.UTC(),
		ReservePriceCents: req.ReservePriceCents,
	}
	if err := h.Auctions.Create(ctx, &a); err != nil {
		return message(c, http.StatusInternalServerError, "create auction failed")
	}
	return c.JSON(http.StatusCreated, a)
}

// End closes an auction and resolves the winner from the highest bid in one
// transaction. Ending an already closed auction is a conflict.
func (h *AuctionHandler) End(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid auction id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Auctions.Close(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAuctionNotFound):
			return message(c, http.StatusNotFound, "auction not found")
		case errors.Is(err, repository.ErrAuctionAlreadyClosed):
			return message(c, http.StatusBadRequest, "auction is already closed")
		}
		return message(c, http.StatusInternalServerError, "end auction failed")
	}

	publishClosed(ctx, h.Bids, a, "manager")
	return c.JSON(http.StatusOK, a)
}

// Filter lists auctions by inclusive date bounds and exact status. All
// three query parameters are optional.
func (h *AuctionHandler) Filter(c echo.Context) error {
	var (
		f    repository.AuctionFilter
		errs []string
	)
	if s := c.QueryParam("startDate"); s != "" {
		t, err := parseDateParam(s)
		if err != nil {
			errs = append(errs, "startDate must be an ISO date")
		} else {
			f.StartDate = &t
		}
	}
	if s := c.QueryParam("endDate"); s != "" {
		t, err := parseDateParam(s)
		if err != nil {
			errs = append(errs, "endDate must be an ISO date")
		} else {
			f.EndDate = &t
		}
	}
	if s := c.QueryParam("status"); s != "" {
		if !model.ValidAuctionStatus(s) {
			errs = append(errs, "status must be open, closed or cancelled")
		} else {
			f.Status = s
		}
	}
	if len(errs) > 0 {
		return validationErrors(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Auctions.Filter(ctx, f)
	if err != nil {
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, list)
}

// Active lists open auctions whose window contains the current time.
func (h *AuctionHandler) Active(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Auctions.ListActive(ctx, time.Now().UTC())
	if err != nil {
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, list)
}

// Details returns one auction with all its bids, each carrying the bidder's
// name and email.
func (h *AuctionHandler) Details(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid auction id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Auctions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAuctionNotFound) {
			return message(c, http.StatusNotFound, "auction not found")
		}
		return message(c, http.StatusInternalServerError, "query failed")
	}
	bids, err := h.Bids.ListByAuction(ctx, id)
	if err != nil {
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, auctionDetails{Auction: a, Bids: bids})
}

// Update rewrites the editable fields of an auction, re-running the date
// validation. The cached highest bid and winner are never touched here.
func (h *AuctionHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid auction id")
	}
	var req auctionReq
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(); len(errs) > 0 {
		return validationErrors(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a := model.Auction{
		ID:                id,
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		ScrapItemID:       req.ScrapItemID,
		StartAt:           req.StartAt.UTC(),
		EndAt:             req.EndAt.UTC(),
		ReservePriceCents: req.ReservePriceCents,
	}
	if err := h.Auctions.Update(ctx, &a); err != nil {
		if errors.Is(err, repository.ErrAuctionNotFound) {
			return message(c, http.StatusNotFound, "auction not found")
		}
		return message(c, http.StatusInternalServerError, "update auction failed")
	}
	return c.JSON(http.StatusOK, a)
}

// Stats reports marketplace-wide auction counters.
func (h *AuctionHandler) Stats(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	st, err := h.Auctions.Stats(ctx)
	if err != nil {
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, st)
}

// UserBids lists every bid one user has placed, with auction info attached.
func (h *AuctionHandler) UserBids(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid user id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Bids.ListByBidder(ctx, userID)
	if err != nil {
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, list)
}

// publishClosed fires an auction.closed event. Publish failures are logged
// and ignored; closing already committed.
func publishClosed(ctx context.Context, bids *repository.BidRepo, a model.Auction, closedBy string) {
	ev := queue.AuctionClosedEvent{
		AuctionID:   a.ID,
		Title:       a.Title,
		ScrapItemID: a.ScrapItemID,
		ClosedBy:    closedBy,
		ClosedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if a.WinnerID != nil {
		ev.WinnerID = *a.WinnerID
	}
	if a.HighestBidID != nil {
		ev.WinningBidID = *a.HighestBidID
		if b, err := bids.GetByID(ctx, *a.HighestBidID); err == nil {
			ev.WinningBidCents = b.AmountCents
		}
	}
	if err := queue_publisher.PublishAuctionClosed(ctx, ev); err != nil {
		logger.Warn("auction.closed publish failed", map[string]any{"auction_id": a.ID, "error": err.Error()})
	}
}

// parseDateParam accepts either a bare ISO date or a full RFC3339 timestamp.
func parseDateParam(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.RFC3339, s)
}
