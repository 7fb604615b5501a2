package domain

import (
	"context"
	"time"
)

// Transaction types
const (
	TransactionTypeMembership = "membership"
	TransactionTypeEvent      = "event"
	TransactionTypeOther      = "other"
)

// Payment methods
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodOnline = "online"
	PaymentMethodFree   = "free"
)

// Transaction status constants
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"
)

var (
	TransactionTypes    = []string{TransactionTypeMembership, TransactionTypeEvent, TransactionTypeOther}
	PaymentMethods      = []string{PaymentMethodCash, PaymentMethodCard, PaymentMethodOnline, PaymentMethodFree}
	TransactionStatuses = []string{TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusCancelled}
)

// Transaction is an append-only ledger entry. It references a membership by
// number and is never updated or deleted.
type Transaction struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	TransactionID    string    `bson:"transaction_id" json:"transactionId"`
	MembershipNumber string    `bson:"membership_number" json:"membershipNumber"`
	Type             string    `bson:"type" json:"type"`
	Description      string    `bson:"description" json:"description"`
	Amount           float64   `bson:"amount" json:"amount"`
	PaymentMethod    string    `bson:"payment_method" json:"paymentMethod"`
	Status           string    `bson:"status" json:"status"`
	TransactionDate  time.Time `bson:"transaction_date" json:"transactionDate"`
}

// TransactionFilter narrows a ledger listing. Empty fields match everything.
type TransactionFilter struct {
	Type             string
	Status           string
	MembershipNumber string
}

// TransactionRepository is deliberately append-only.
type TransactionRepository interface {
	Append(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id string) (*Transaction, error)
	// List returns matching entries newest first.
	List(ctx context.Context, filter TransactionFilter) ([]*Transaction, error)
}
