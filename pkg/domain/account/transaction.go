package account

import (
	"fmt"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of money movement a transaction records.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeTransfer:
		return true
	}
	return false
}

// TransactionStatus is the outcome recorded on a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// ErrUnknownTransactionType is returned for a type outside DEPOSIT, WITHDRAWAL and TRANSFER.
var ErrUnknownTransactionType = fmt.Errorf("%w: unknown transaction type", domain.ErrInvalidOperation)

// Transaction is an immutable record of one money movement.
//
// A deposit has only a destination, a withdrawal only a source, and a transfer both.
type Transaction struct {
	ID                   uuid.UUID
	Type                 TransactionType
	Amount               decimal.Decimal
	Description          *string
	Status               TransactionStatus
	SourceAccountID      *uuid.UUID
	DestinationAccountID *uuid.UUID
	CreatedAt            time.Time
}

// NewCompletedTransaction creates a COMPLETED record with a fresh ID.
func NewCompletedTransaction(
	txType TransactionType,
	amount decimal.Decimal,
	description *string,
	source, destination *uuid.UUID,
	createdAt time.Time,
) *Transaction {
	return &Transaction{
		ID:                   uuid.New(),
		Type:                 txType,
		Amount:               amount,
		Description:          description,
		Status:               TransactionStatusCompleted,
		SourceAccountID:      source,
		DestinationAccountID: destination,
		CreatedAt:            createdAt,
	}
}

// Touches reports whether accountID is the source or destination of t.
func (t *Transaction) Touches(accountID uuid.UUID) bool {
	return (t.SourceAccountID != nil && *t.SourceAccountID == accountID) ||
		(t.DestinationAccountID != nil && *t.DestinationAccountID == accountID)
}

// Clone returns a deep copy of t.
func (t *Transaction) Clone() *Transaction {
	if t == nil {
		return nil
	}
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.SourceAccountID != nil {
		id := *t.SourceAccountID
		c.SourceAccountID = &id
	}
	if t.DestinationAccountID != nil {
		id := *t.DestinationAccountID
		c.DestinationAccountID = &id
	}
	return &c
}
