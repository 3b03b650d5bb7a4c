package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/scrapbid/marketplace/internal/model"
)

// ErrPaymentNotFound indicates that a payment was not located in the DB.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepo manages persistence for payment ledger records.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo constructs a PaymentRepo with the given DB handle.
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

const paymentColumns = "id, payment_ref, amount_cents, method, status, user_id, created_at, updated_at"

func scanPayment(row interface{ Scan(...any) error }) (model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.PaymentRef, &p.AmountCents, &p.Method, &p.Status,
		&p.UserID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create inserts a payment, assigning a fresh UUID reference when the
// caller did not supply one.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	if p.PaymentRef == "" {
		p.PaymentRef = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = model.LedgerPending
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO payments (payment_ref, amount_cents, method, status, user_id) VALUES (?,?,?,?,?)",
		p.PaymentRef, p.AmountCents, p.Method, p.Status, p.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := scanPayment(r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = ?", uint64(id)))
	if err != nil {
		return err
	}
	*p = got
	return nil
}

// PaymentWithTransactions is a payment joined with its settlement steps.
type PaymentWithTransactions struct {
	model.Payment
	Transactions []model.Transaction `json:"transactions"`
}

// GetByID retrieves a payment together with its transactions.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (PaymentWithTransactions, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return PaymentWithTransactions{}, ErrPaymentNotFound
	}
	if err != nil {
		return PaymentWithTransactions{}, err
	}
	txs, err := listTransactions(ctx, r.db, "payment_id = ?", id)
	if err != nil {
		return PaymentWithTransactions{}, err
	}
	return PaymentWithTransactions{Payment: p, Transactions: txs}, nil
}

// List returns every payment with its transactions, newest first.
func (r *PaymentRepo) List(ctx context.Context) ([]PaymentWithTransactions, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]PaymentWithTransactions, 0, len(payments))
	for _, p := range payments {
		txs, err := listTransactions(ctx, r.db, "payment_id = ?", p.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, PaymentWithTransactions{Payment: p, Transactions: txs})
	}
	return result, nil
}

// Update rewrites a payment's amount, method and status.
func (r *PaymentRepo) Update(ctx context.Context, p *model.Payment) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE payments SET amount_cents=?, method=?, status=? WHERE id=?",
		p.AmountCents, p.Method, p.Status, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM payments WHERE id=? LIMIT 1", p.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPaymentNotFound
			}
			return err
		}
	}
	got, err := scanPayment(r.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = ?", p.ID))
	if err != nil {
		return err
	}
	*p = got
	return nil
}

// Delete removes a payment row.
func (r *PaymentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM payments WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
