package events

import (
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionCompleted is emitted once a deposit, withdrawal or transfer has committed.
type TransactionCompleted struct {
	TransactionID        uuid.UUID               `json:"transaction_id"`
	UserID               uuid.UUID               `json:"user_id"`
	TransactionType      account.TransactionType `json:"transaction_type"`
	Amount               decimal.Decimal         `json:"amount"`
	SourceAccountID      *uuid.UUID              `json:"source_account_id,omitempty"`
	DestinationAccountID *uuid.UUID              `json:"destination_account_id,omitempty"`
	OccurredAt           time.Time               `json:"occurred_at"`
}

func (TransactionCompleted) Type() string {
	return EventTypeTransactionCompleted.String()
}

// NewTransactionCompleted builds the event for a committed transaction.
func NewTransactionCompleted(userID uuid.UUID, tx *account.Transaction) TransactionCompleted {
	return TransactionCompleted{
		TransactionID:        tx.ID,
		UserID:               userID,
		TransactionType:      tx.Type,
		Amount:               tx.Amount,
		SourceAccountID:      tx.SourceAccountID,
		DestinationAccountID: tx.DestinationAccountID,
		OccurredAt:           tx.CreatedAt,
	}
}

// AsTransactionCompleted unwraps e whether it was emitted by value or
// decoded into a pointer by a broker-backed bus.
func AsTransactionCompleted(e Event) (TransactionCompleted, bool) {
	switch v := e.(type) {
	case TransactionCompleted:
		return v, true
	case *TransactionCompleted:
		if v == nil {
			return TransactionCompleted{}, false
		}
		return *v, true
	}
	return TransactionCompleted{}, false
}
