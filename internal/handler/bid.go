package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scrapbid/marketplace/internal/repository"
)

// BidHandler serves the bid endpoints. All bid writes go through
// repository transactions that lock the auction row, so concurrent bids on
// the same auction are applied one at a time.
type BidHandler struct {
	Bids     *repository.BidRepo
	Auctions *repository.AuctionRepo
}

func NewBidHandler(b *repository.BidRepo, a *repository.AuctionRepo) *BidHandler {
	if b == nil || a == nil {
		panic("nil repository passed to NewBidHandler")
	}
	return &BidHandler{Bids: b, Auctions: a}
}

type createBidReq struct {
	AuctionID   uint64 `json:"auction_id"`
	AmountCents int64  `json:"amount_cents"`
}

type updateBidReq struct {
	AmountCents int64 `json:"amount_cents"`
}

// Create places a bid for the authenticated buyer. The amount must beat
// the current highest strictly; ties lose.
func (h *BidHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return message(c, http.StatusUnauthorized, "unauthorized")
	}
	var req createBidReq
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid body")
	}
	var errs []string
	if req.AuctionID == 0 {
		errs = append(errs, "auction_id is required")
	}
	if req.AmountCents < 0 {
		errs = append(errs, "amount_cents must not be negative")
	}
	if len(errs) > 0 {
		return validationErrors(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, closed, err := h.Bids.Create(ctx, req.AuctionID, uid, req.AmountCents)
	if closed != nil {
		// The bid arrived after end_at and the transaction closed the
		// auction instead, so announce the close like any other.
		publishClosed(ctx, h.Bids, *closed, "expiry")
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAuctionNotFound):
			return message(c, http.StatusNotFound, "auction not found")
		case errors.Is(err, repository.ErrAuctionNotOpen):
			return message(c, http.StatusBadRequest, "auction is not open for bidding")
		case errors.Is(err, repository.ErrBidTooLow):
			return message(c, http.StatusBadRequest, "bid amount must be higher than the current highest bid")
		}
		return message(c, http.StatusInternalServerError, "create bid failed")
	}
	return c.JSON(http.StatusCreated, b)
}

// Update changes the amount of an existing bid. Only the bid's owner may
// change it, and the new amount is re-validated against the current highest
// under the same lock as creation.
func (h *BidHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return message(c, http.StatusUnauthorized, "unauthorized")
	}
	bidID, ok := pathID(c, "bidId")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid bid id")
	}
	var req updateBidReq
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid body")
	}
	if req.AmountCents < 0 {
		return validationErrors(c, []string{"amount_cents must not be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, closed, err := h.Bids.Update(ctx, bidID, uid, req.AmountCents)
	if closed != nil {
		publishClosed(ctx, h.Bids, *closed, "expiry")
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBidNotFound):
			return message(c, http.StatusNotFound, "bid not found")
		case errors.Is(err, repository.ErrForbidden):
			return message(c, http.StatusForbidden, "bid belongs to another user")
		case errors.Is(err, repository.ErrAuctionNotOpen):
			return message(c, http.StatusBadRequest, "auction is not open for bidding")
		case errors.Is(err, repository.ErrBidTooLow):
			return message(c, http.StatusBadRequest, "bid amount must be higher than the current highest bid")
		}
		return message(c, http.StatusInternalServerError, "update bid failed")
	}
	return c.JSON(http.StatusOK, b)
}

// Delete withdraws a bid. Owners can withdraw their own bids and admins can
// withdraw anyone's. When the withdrawn bid was the highest, the auction's
// cached highest bid is recomputed over the remaining bids.
func (h *BidHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return message(c, http.StatusUnauthorized, "unauthorized")
	}
	bidID, ok := pathID(c, "bidId")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid bid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Bids.Delete(ctx, bidID, uid, privileged(currentRole(c))); err != nil {
		switch {
		case errors.Is(err, repository.ErrBidNotFound):
			return message(c, http.StatusNotFound, "bid not found")
		case errors.Is(err, repository.ErrForbidden):
			return message(c, http.StatusForbidden, "bid belongs to another user")
		}
		return message(c, http.StatusInternalServerError, "delete bid failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "bid deleted"})
}

// ListByAuction lists all bids on one auction, highest first.
func (h *BidHandler) ListByAuction(c echo.Context) error {
	auctionID, ok := pathID(c, "auctionId")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid auction id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Auctions.GetByID(ctx, auctionID); err != nil {
		if errors.Is(err, repository.ErrAuctionNotFound) {
			return message(c, http.StatusNotFound, "auction not found")
		}
		return message(c, http.StatusInternalServerError, "query failed")
	}
	bids, err := h.Bids.ListByAuction(ctx, auctionID)
	if err != nil {
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, bids)
}

// Get returns one bid with the bidder's identity attached.
func (h *BidHandler) Get(c echo.Context) error {
	bidID, ok := pathID(c, "bidId")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid bid id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bids.GetByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, repository.ErrBidNotFound) {
			return message(c, http.StatusNotFound, "bid not found")
		}
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, b)
}
