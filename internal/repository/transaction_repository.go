package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/scrapbid/marketplace/internal/model"
)

// ErrTransactionNotFound indicates that a transaction was not located in
// the DB.
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepo manages persistence for settlement transactions.
type TransactionRepo struct {
	db *sql.DB
}

// NewTransactionRepo constructs a TransactionRepo with the given DB handle.
func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

const transactionColumns = "id, transaction_ref, amount_cents, payment_method, status, payment_id, user_id, description, created_at, updated_at"

func scanTransaction(row interface{ Scan(...any) error }) (model.Transaction, error) {
	var t model.Transaction
	err := row.Scan(&t.ID, &t.TransactionRef, &t.AmountCents, &t.PaymentMethod, &t.Status,
		&t.PaymentID, &t.UserID, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func listTransactions(ctx context.Context, db *sql.DB, cond string, args ...any) ([]model.Transaction, error) {
	q := "SELECT " + transactionColumns + " FROM transactions"
	if cond != "" {
		q += " WHERE " + cond
	}
	q += " ORDER BY created_at DESC"
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// Create inserts a transaction.  The owning payment must exist; a fresh
// UUID reference is assigned when the caller did not supply one.
func (r *TransactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	var one int
	if err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM payments WHERE id=? LIMIT 1", t.PaymentID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPaymentNotFound
		}
		return err
	}
	if t.TransactionRef == "" {
		t.TransactionRef = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = model.LedgerPending
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (transaction_ref, amount_cents, payment_method, status, payment_id, user_id, description)
		 VALUES (?,?,?,?,?,?,?)`,
		t.TransactionRef, t.AmountCents, t.PaymentMethod, t.Status, t.PaymentID, t.UserID, t.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := scanTransaction(r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", uint64(id)))
	if err != nil {
		return err
	}
	*t = got
	return nil
}

// GetByID retrieves a transaction by its ID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uint64) (model.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, ErrTransactionNotFound
	}
	return t, err
}

// List returns all transactions, newest first.
func (r *TransactionRepo) List(ctx context.Context) ([]model.Transaction, error) {
	return listTransactions(ctx, r.db, "")
}

// Update rewrites a transaction's amount, method, status and description.
func (r *TransactionRepo) Update(ctx context.Context, t *model.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET amount_cents=?, payment_method=?, status=?, description=? WHERE id=?",
		t.AmountCents, t.PaymentMethod, t.Status, t.Description, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM transactions WHERE id=? LIMIT 1", t.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTransactionNotFound
			}
			return err
		}
	}
	got, err := scanTransaction(r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", t.ID))
	if err != nil {
		return err
	}
	*t = got
	return nil
}

// Delete removes a transaction row.
func (r *TransactionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTransactionNotFound
	}
	return nil
}
