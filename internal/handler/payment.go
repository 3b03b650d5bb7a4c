package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scrapbid/marketplace/internal/model"
	"github.com/scrapbid/marketplace/internal/repository"
)

// PaymentHandler serves the payment ledger endpoints.
type PaymentHandler struct {
	Payments *repository.PaymentRepo
}

func NewPaymentHandler(p *repository.PaymentRepo) *PaymentHandler {
	if p == nil {
		panic("nil repository passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: p}
}

type paymentReq struct {
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
	Status      string `json:"status"`
	UserID      uint64 `json:"user_id"`
}

func (r paymentReq) validate() []string {
	var errs []string
	if r.AmountCents <= 0 {
		errs = append(errs, "amount_cents must be positive")
	}
	if !model.ValidPaymentMethod(r.Method) {
		errs = append(errs, "method must be credit_card, bank_transfer, paypal or other")
	}
	if r.Status != "" && !model.ValidPaymentStatus(r.Status) {
		errs = append(errs, "status must be pending, completed or failed")
	}
	return errs
}

// Create records a payment. The caller becomes the payer unless an
// explicit user_id is given.
func (h *PaymentHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return message(c, http.StatusUnauthorized, "unauthorized")
	}
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(); len(errs) > 0 {
		return validationErrors(c, errs)
	}
	if req.UserID == 0 {
		req.UserID = uid
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := model.Payment{
		AmountCents: req.AmountCents,
		Method:      req.Method,
		Status:      req.Status,
		UserID:      req.UserID,
	}
	if err := h.Payments.Create(ctx, &p); err != nil {
		return message(c, http.StatusInternalServerError, "create payment failed")
	}
	return c.JSON(http.StatusCreated, p)
}

// List returns all payments with their transactions, newest first.
func (h *PaymentHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Payments.List(ctx)
	if err != nil {
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns one payment with its transactions.
func (h *PaymentHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid payment id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return message(c, http.StatusNotFound, "payment not found")
		}
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, p)
}

// Update rewrites a payment's amount, method and status.
func (h *PaymentHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid payment id")
	}
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid body")
	}
	errs := req.validate()
	if req.Status == "" {
		errs = append(errs, "status is required")
	}
	if len(errs) > 0 {
		return validationErrors(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := model.Payment{
		ID:          id,
		AmountCents: req.AmountCents,
		Method:      req.Method,
		Status:      req.Status,
		UserID:      req.UserID,
	}
	if err := h.Payments.Update(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return message(c, http.StatusNotFound, "payment not found")
		}
		return message(c, http.StatusInternalServerError, "update payment failed")
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes a payment record.
func (h *PaymentHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid payment id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Payments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return message(c, http.StatusNotFound, "payment not found")
		}
		return message(c, http.StatusInternalServerError, "delete payment failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "payment deleted"})
}
