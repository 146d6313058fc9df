package domain

import "time"

// TransactionType carries the direction of a transaction. Amounts are never negative.
type TransactionType string

const (
	TypeLent     TransactionType = "lent"
	TypeBorrowed TransactionType = "borrowed"
)

// DateLayout is the calendar date format of Transaction.Date.
const DateLayout = "2006-01-02"

// Transaction is one lending or borrowing event between the owner and a person.
type Transaction struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	PersonID       string          `json:"personId"`
	Type           TransactionType `json:"type"`
	Amount         float64         `json:"amount"`
	Description    string          `json:"description"`
	Date           string          `json:"date"`
	IsSettled      bool            `json:"isSettled"`
	SettlementDate *time.Time      `json:"settlementDate"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// TransactionInsert is the shape accepted when creating a transaction.
type TransactionInsert struct {
	PersonID    string          `json:"personId"    validate:"required"`
	Type        TransactionType `json:"type"        validate:"oneof=lent borrowed"`
	Amount      float64         `json:"amount"      validate:"gte=0"`
	Description string          `json:"description"`
	Date        string          `json:"date"        validate:"datetime=2006-01-02"`
	IsSettled   bool            `json:"isSettled"`
}

// TransactionUpdate carries the fields to change. The person reference is immutable.
type TransactionUpdate struct {
	Type        *TransactionType `json:"type"        validate:"omitempty,oneof=lent borrowed"`
	Amount      *float64         `json:"amount"      validate:"omitempty,gte=0"`
	Description *string          `json:"description"`
	Date        *string          `json:"date"        validate:"omitempty,datetime=2006-01-02"`
	IsSettled   *bool            `json:"isSettled"`
}

func (in TransactionInsert) Validate() error {
	return validateStruct(in)
}

func (in TransactionUpdate) Validate() error {
	return validateStruct(in)
}

// IsEmpty reports whether the update changes nothing.
func (in TransactionUpdate) IsEmpty() bool {
	return in.Type == nil && in.Amount == nil && in.Description == nil && in.Date == nil && in.IsSettled == nil
}

// Signed returns the transaction's contribution to a balance:
// +amount when lent, -amount when borrowed.
func (t Transaction) Signed() float64 {
	if t.Type == TypeBorrowed {
		return -t.Amount
	}
	return t.Amount
}
