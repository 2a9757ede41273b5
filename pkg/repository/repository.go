package repository

import (
	"context"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data access operations.
type AccountRepository interface {
	Create(ctx context.Context, acc *account.Account) error
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByNumber(ctx context.Context, number string) (*account.Account, error)
	// GetForUpdate reads the account and holds a write lock on it until the
	// surrounding unit of work ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error)
	// ListByUser returns the user's accounts, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
}

// SumFilter selects COMPLETED transactions debited from an account.
type SumFilter struct {
	AccountID uuid.UUID
	Type      account.TransactionType
	Since     time.Time
}

// CountFilter selects COMPLETED transactions touching an account.
type CountFilter struct {
	AccountID uuid.UUID
	Since     time.Time
}

// TransactionRepository defines the interface for transaction data access operations.
// Transactions are append-only.
type TransactionRepository interface {
	Create(ctx context.Context, tx *account.Transaction) error
	// SumCompleted totals the amounts of COMPLETED transactions of the given
	// type whose source is the account, created at or after Since.
	SumCompleted(ctx context.Context, filter SumFilter) (decimal.Decimal, error)
	// CountCompleted counts COMPLETED transactions where the account is the
	// source or the destination, created at or after Since.
	CountCompleted(ctx context.Context, filter CountFilter) (int64, error)
	// ListByAccount returns every transaction touching the account, newest
	// first, ties broken by descending ID.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Transaction, error)
}
