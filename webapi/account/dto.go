package account

import (
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/money"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the body of POST /accounts.
type CreateAccountRequest struct {
	Type           string           `json:"type" validate:"omitempty,oneof=CHECKING SAVINGS checking savings"`
	InitialDeposit decimal.Decimal  `json:"initialDeposit"`
	OverdraftLimit *decimal.Decimal `json:"overdraftLimit"`
}

// AccountDTO is the API representation of an account, shown only to its owner.
type AccountDTO struct {
	ID                    string `json:"id"`
	AccountNumber         string `json:"accountNumber"`
	Type                  string `json:"type"`
	Status                string `json:"status"`
	Balance               string `json:"balance"`
	OverdraftLimit        string `json:"overdraftLimit"`
	DailyWithdrawalLimit  string `json:"dailyWithdrawalLimit"`
	DailyTransferLimit    string `json:"dailyTransferLimit"`
	MonthlyTransferLimit  string `json:"monthlyTransferLimit"`
	MaxTransactionsPerDay int    `json:"maxTransactionsPerDay"`
	CreatedAt             string `json:"createdAt"`
}

// ToAccountDTO maps an account to its API representation.
func ToAccountDTO(a *account.Account) *AccountDTO {
	if a == nil {
		return nil
	}
	return &AccountDTO{
		ID:                    a.ID.String(),
		AccountNumber:         a.AccountNumber,
		Type:                  string(a.Type),
		Status:                string(a.Status),
		Balance:               money.Format(a.Balance),
		OverdraftLimit:        money.Format(a.OverdraftLimit),
		DailyWithdrawalLimit:  money.Format(a.DailyWithdrawalLimit),
		DailyTransferLimit:    money.Format(a.DailyTransferLimit),
		MonthlyTransferLimit:  money.Format(a.MonthlyTransferLimit),
		MaxTransactionsPerDay: a.MaxTransactionsPerDay,
		CreatedAt:             a.CreatedAt.Format(time.RFC3339),
	}
}
