package transaction

import (
	"strings"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is the body of POST /transactions.
// Amount accepts a JSON string or number.
type CreateTransactionRequest struct {
	Type                     string          `json:"type" validate:"required"`
	Amount                   decimal.Decimal `json:"amount"`
	Description              *string         `json:"description" validate:"omitempty,max=255"`
	SourceAccountID          *uuid.UUID      `json:"sourceAccountId"`
	DestinationAccountID     *uuid.UUID      `json:"destinationAccountId"`
	DestinationAccountNumber string          `json:"destinationAccountNumber" validate:"omitempty,max=32"`
}

func (r *CreateTransactionRequest) toInput() account.RequestInput {
	return account.RequestInput{
		Type:                     account.TransactionType(strings.ToUpper(strings.TrimSpace(r.Type))),
		Amount:                   r.Amount,
		Description:              r.Description,
		SourceAccountID:          r.SourceAccountID,
		DestinationAccountID:     r.DestinationAccountID,
		DestinationAccountNumber: r.DestinationAccountNumber,
	}
}

// TransactionDTO is the API representation of a transaction.
type TransactionDTO struct {
	ID                   string  `json:"id"`
	Type                 string  `json:"type"`
	Amount               string  `json:"amount"`
	Description          *string `json:"description,omitempty"`
	Status               string  `json:"status"`
	SourceAccountID      *string `json:"sourceAccountId,omitempty"`
	DestinationAccountID *string `json:"destinationAccountId,omitempty"`
	CreatedAt            string  `json:"createdAt"`
}

// ToTransactionDTO maps a transaction to its API representation.
func ToTransactionDTO(tx *account.Transaction) *TransactionDTO {
	if tx == nil {
		return nil
	}
	return &TransactionDTO{
		ID:                   tx.ID.String(),
		Type:                 string(tx.Type),
		Amount:               money.Format(tx.Amount),
		Description:          tx.Description,
		Status:               string(tx.Status),
		SourceAccountID:      idString(tx.SourceAccountID),
		DestinationAccountID: idString(tx.DestinationAccountID),
		CreatedAt:            tx.CreatedAt.Format(time.RFC3339),
	}
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
