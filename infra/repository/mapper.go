package repository

import (
	"github.com/amirasaad/ledger/pkg/domain/account"
)

func toAccountModel(a *account.Account) *Account {
	return &Account{
		ID:                    a.ID,
		AccountNumber:         a.AccountNumber,
		UserID:                a.UserID,
		Type:                  string(a.Type),
		Status:                string(a.Status),
		Balance:               newAmount(a.Balance),
		OverdraftLimit:        newAmount(a.OverdraftLimit),
		DailyWithdrawalLimit:  newAmount(a.DailyWithdrawalLimit),
		DailyTransferLimit:    newAmount(a.DailyTransferLimit),
		MonthlyTransferLimit:  newAmount(a.MonthlyTransferLimit),
		MaxTransactionsPerDay: a.MaxTransactionsPerDay,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
}

// toAccountDomain hydrates a row without re-running builder validation so
// that rows written by older versions still load.
func toAccountDomain(m *Account) *account.Account {
	return &account.Account{
		ID:                    m.ID,
		AccountNumber:         m.AccountNumber,
		UserID:                m.UserID,
		Type:                  account.Type(m.Type),
		Status:                account.Status(m.Status),
		Balance:               m.Balance.Decimal,
		OverdraftLimit:        m.OverdraftLimit.Decimal,
		DailyWithdrawalLimit:  m.DailyWithdrawalLimit.Decimal,
		DailyTransferLimit:    m.DailyTransferLimit.Decimal,
		MonthlyTransferLimit:  m.MonthlyTransferLimit.Decimal,
		MaxTransactionsPerDay: m.MaxTransactionsPerDay,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func toTransactionModel(t *account.Transaction) *Transaction {
	return &Transaction{
		ID:                   t.ID,
		Type:                 string(t.Type),
		Amount:               newAmount(t.Amount),
		Description:          t.Description,
		Status:               string(t.Status),
		SourceAccountID:      t.SourceAccountID,
		DestinationAccountID: t.DestinationAccountID,
		CreatedAt:            t.CreatedAt.UTC(),
	}
}

func toTransactionDomain(m *Transaction) *account.Transaction {
	return &account.Transaction{
		ID:                   m.ID,
		Type:                 account.TransactionType(m.Type),
		Amount:               m.Amount.Decimal,
		Description:          m.Description,
		Status:               account.TransactionStatus(m.Status),
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		CreatedAt:            m.CreatedAt,
	}
}
