package model

import "time"

// Payment method and ledger status enumerations.
const (
	MethodCreditCard   = "credit_card"
	MethodBankTransfer = "bank_transfer"
	MethodPaypal       = "paypal"
	MethodOther        = "other"

	LedgerPending   = "pending"
	LedgerCompleted = "completed"
	LedgerFailed    = "failed"
	LedgerRefunded  = "refunded" // transactions only
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case MethodCreditCard, MethodBankTransfer, MethodPaypal, MethodOther:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a valid status for a payment row.
func ValidPaymentStatus(s string) bool {
	switch s {
	case LedgerPending, LedgerCompleted, LedgerFailed:
		return true
	}
	return false
}

// ValidTransactionStatus reports whether s is a valid status for a
// transaction row.  Transactions additionally allow "refunded".
func ValidTransactionStatus(s string) bool {
	return ValidPaymentStatus(s) || s == LedgerRefunded
}

// Payment is a ledger record of money received from a user.  A payment can
// settle through several transactions; reads join them in.
//
// Fields:
//  ID          – primary key identifier.
//  PaymentRef  – externally visible unique reference (UUID).
//  AmountCents – amount in cents.
//  Method      – one of the Method* constants.
//  Status      – pending, completed or failed.
//  UserID      – paying user.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Payment struct {
	ID          uint64    `json:"id"`           // payments.id
	PaymentRef  string    `json:"payment_ref"`  // payments.payment_ref
	AmountCents int64     `json:"amount_cents"` // payments.amount_cents
	Method      string    `json:"method"`       // payments.method
	Status      string    `json:"status"`       // payments.status
	UserID      uint64    `json:"user_id"`      // payments.user_id
	CreatedAt   time.Time `json:"created_at"`   // payments.created_at
	UpdatedAt   time.Time `json:"updated_at"`   // payments.updated_at
}

// Transaction is one settlement step belonging to a payment.
//
// Fields:
//  ID             – primary key identifier.
//  TransactionRef – externally visible unique reference (UUID).
//  AmountCents    – amount in cents.
//  PaymentMethod  – one of the Method* constants.
//  Status         – pending, completed, failed or refunded.
//  PaymentID      – owning payment.
//  UserID         – user the settlement applies to.
//  Description    – optional free-text note.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Transaction struct {
	ID             uint64    `json:"id"`              // transactions.id
	TransactionRef string    `json:"transaction_ref"` // transactions.transaction_ref
	AmountCents    int64     `json:"amount_cents"`    // transactions.amount_cents
	PaymentMethod  string    `json:"payment_method"`  // transactions.payment_method
	Status         string    `json:"status"`          // transactions.status
	PaymentID      uint64    `json:"payment_id"`      // transactions.payment_id
	UserID         uint64    `json:"user_id"`         // transactions.user_id
	Description    *string   `json:"description"`     // transactions.description (nullable)
	CreatedAt      time.Time `json:"created_at"`      // transactions.created_at
	UpdatedAt      time.Time `json:"updated_at"`      // transactions.updated_at
}
