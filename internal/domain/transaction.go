package domain

import (
	"fmt"
	"math"
	"strings"

	"cloud.google.com/go/civil"
)

// TransactionType carries the sign of a transaction. Amounts are always
// positive; Income adds to the balance and Expense subtracts from it.
type TransactionType string

const (
	TypeIncome  TransactionType = "Income"
	TypeExpense TransactionType = "Expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// PaymentMode is the instrument a transaction was settled with.
type PaymentMode string

const (
	ModeUPI          PaymentMode = "UPI"
	ModeCash         PaymentMode = "Cash"
	ModeCard         PaymentMode = "Card"
	ModeBankTransfer PaymentMode = "Bank Transfer"
)

// PaymentModes lists the supported modes in display order.
var PaymentModes = []PaymentMode{ModeUPI, ModeCash, ModeCard, ModeBankTransfer}

// ParsePaymentMode resolves s to a PaymentMode. "BankTransfer" is accepted
// as an alias of "Bank Transfer".
func ParsePaymentMode(s string) (PaymentMode, error) {
	switch strings.TrimSpace(s) {
	case "UPI":
		return ModeUPI, nil
	case "Cash":
		return ModeCash, nil
	case "Card":
		return ModeCard, nil
	case "Bank Transfer", "BankTransfer":
		return ModeBankTransfer, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMode, s)
}

// Valid reports whether m is one of the supported payment modes.
func (m PaymentMode) Valid() bool {
	switch m {
	case ModeUPI, ModeCash, ModeCard, ModeBankTransfer:
		return true
	}
	return false
}

// UnmarshalText normalizes known aliases. Unknown values are kept as-is so
// that a single bad record does not make a whole persisted snapshot
// undecodable; Validate rejects them on the write path.
func (m *PaymentMode) UnmarshalText(b []byte) error {
	if parsed, err := ParsePaymentMode(string(b)); err == nil {
		*m = parsed
		return nil
	}
	*m = PaymentMode(b)
	return nil
}

// Category is a spending or income bucket. Membership is checked against
// the CategorySet active for the deployment.
type Category string

// Draft is a transaction that has not been assigned an id yet.
type Draft struct {
	Description string
	Amount      float64
	Category    Category
	Type        TransactionType
	PaymentMode PaymentMode
	Date        civil.Date
	Notes       string
}

// Validate checks every invariant a stored transaction must satisfy.
func (d Draft) Validate(set CategorySet) error {
	if strings.TrimSpace(d.Description) == "" {
		return ErrEmptyDescription
	}
	if math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) || d.Amount <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, d.Amount)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, d.Type)
	}
	if !d.PaymentMode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMode, d.PaymentMode)
	}
	if !set.Contains(d.Category) {
		return fmt.Errorf("%w: %q (set %s)", ErrUnknownCategory, d.Category, set.Name())
	}
	if !d.Date.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidDate, d.Date)
	}
	return nil
}

// WithID materializes the draft as a Transaction.
func (d Draft) WithID(id string) Transaction {
	return Transaction{
		ID:          id,
		Description: strings.TrimSpace(d.Description),
		Amount:      d.Amount,
		Category:    d.Category,
		Type:        d.Type,
		PaymentMode: d.PaymentMode,
		Date:        d.Date,
		Notes:       strings.TrimSpace(d.Notes),
	}
}

// Transaction is one income or expense record. Values are never edited in
// place; an edit is a delete followed by a new Add.
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Category    Category        `json:"category"`
	Type        TransactionType `json:"type"`
	PaymentMode PaymentMode     `json:"paymentMode"`
	Date        civil.Date      `json:"date"` // YYYY-MM-DD
	Notes       string          `json:"notes,omitempty"`
}

// Draft returns the id-less part of t.
func (t Transaction) Draft() Draft {
	return Draft{
		Description: t.Description,
		Amount:      t.Amount,
		Category:    t.Category,
		Type:        t.Type,
		PaymentMode: t.PaymentMode,
		Date:        t.Date,
		Notes:       t.Notes,
	}
}
