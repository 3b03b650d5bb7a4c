package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scrapbid/marketplace/internal/model"
	"github.com/scrapbid/marketplace/internal/repository"
)

// TransactionHandler serves the settlement ledger endpoints.
type TransactionHandler struct {
	Transactions *repository.TransactionRepo
}

func NewTransactionHandler(t *repository.TransactionRepo) *TransactionHandler {
	if t == nil {
		panic("nil repository passed to NewTransactionHandler")
	}
	return &TransactionHandler{Transactions: t}
}

type transactionReq struct {
	AmountCents   int64   `json:"amount_cents"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
	PaymentID     uint64  `json:"payment_id"`
	Description   *string `json:"description"`
}

func (r transactionReq) validate(forCreate bool) []string {
	var errs []string
	if r.AmountCents <= 0 {
		errs = append(errs, "amount_cents must be positive")
	}
	if !model.ValidPaymentMethod(r.PaymentMethod) {
		errs = append(errs, "payment_method must be credit_card, bank_transfer, paypal or other")
	}
	if forCreate && r.PaymentID == 0 {
		errs = append(errs, "payment_id is required")
	}
	if r.Status != "" && !model.ValidTransactionStatus(r.Status) {
		errs = append(errs, "status must be pending, completed, failed or refunded")
	}
	return errs
}

// Create records a settlement step against an existing payment.
func (h *TransactionHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return message(c, http.StatusUnauthorized, "unauthorized")
	}
	var req transactionReq
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(true); len(errs) > 0 {
		return validationErrors(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t := model.Transaction{
		AmountCents:   req.AmountCents,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		PaymentID:     req.PaymentID,
		UserID:        uid,
		Description:   req.Description,
	}
	if err := h.Transactions.Create(ctx, &t); err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return message(c, http.StatusBadRequest, "payment not found")
		}
		return message(c, http.StatusInternalServerError, "create transaction failed")
	}
	return c.JSON(http.StatusCreated, t)
}

// List returns all transactions, newest first.
func (h *TransactionHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Transactions.List(ctx)
	if err != nil {
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns one transaction.
func (h *TransactionHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid transaction id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Transactions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return message(c, http.StatusNotFound, "transaction not found")
		}
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, t)
}

// Update rewrites a transaction's amount, method, status and description.
func (h *TransactionHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid transaction id")
	}
	var req transactionReq
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid body")
	}
	errs := req.validate(false)
	if req.Status == "" {
		errs = append(errs, "status is required")
	}
	if len(errs) > 0 {
		return validationErrors(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t := model.Transaction{
		ID:            id,
		AmountCents:   req.AmountCents,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		Description:   req.Description,
	}
	if err := h.Transactions.Update(ctx, &t); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return message(c, http.StatusNotFound, "transaction not found")
		}
		return message(c, http.StatusInternalServerError, "update transaction failed")
	}
	return c.JSON(http.StatusOK, t)
}

// Delete removes a transaction record.
func (h *TransactionHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid transaction id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Transactions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return message(c, http.StatusNotFound, "transaction not found")
		}
		return message(c, http.StatusInternalServerError, "delete transaction failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "transaction deleted"})
}
