package account

import (
	"fmt"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound is returned when an account cannot be found or is not visible to the caller.
	ErrAccountNotFound = fmt.Errorf("%w: account not found", domain.ErrNotFound)

	// ErrNotOwner is returned when a user reads an account they do not own.
	ErrNotOwner = fmt.Errorf("%w: account belongs to another user", domain.ErrAccessDenied)

	// ErrAccountNotActive is returned when a frozen or closed account is asked to move money.
	ErrAccountNotActive = fmt.Errorf("%w: account is not active", domain.ErrInvalidState)

	// ErrDestinationNotActive is returned when the destination of a transfer is frozen or closed.
	ErrDestinationNotActive = fmt.Errorf("%w: destination account is not active", domain.ErrInvalidState)

	// ErrInsufficientFunds is returned when a debit would take the balance below the overdraft floor.
	ErrInsufficientFunds = fmt.Errorf("%w: balance plus overdraft does not cover the amount", domain.ErrInsufficientFunds)

	// ErrCannotTransferToSameAccount is returned when a transfer is attempted from an account to itself.
	ErrCannotTransferToSameAccount = fmt.Errorf("%w: cannot transfer to same account", domain.ErrInvalidOperation)

	// ErrUserRequired is returned when building an account without an owner.
	ErrUserRequired = fmt.Errorf("%w: userID is required", domain.ErrValidation)

	// ErrNegativeLimit is returned when an overdraft or limit is negative.
	ErrNegativeLimit = fmt.Errorf("%w: limits must not be negative", domain.ErrValidation)

	// ErrUnknownType is returned for an account type outside CHECKING and SAVINGS.
	ErrUnknownType = fmt.Errorf("%w: unknown account type", domain.ErrValidation)

	// ErrUnknownStatus is returned for an account status outside ACTIVE, FROZEN and CLOSED.
	ErrUnknownStatus = fmt.Errorf("%w: unknown account status", domain.ErrValidation)
)

// Type is the product kind of an account.
type Type string

const (
	TypeChecking Type = "CHECKING"
	TypeSavings  Type = "SAVINGS"
)

// Valid reports whether t is a known account type.
func (t Type) Valid() bool {
	return t == TypeChecking || t == TypeSavings
}

// Status is the lifecycle state of an account. Only ACTIVE accounts move money.
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusFrozen Status = "FROZEN"
	StatusClosed Status = "CLOSED"
)

// Valid reports whether s is a known account status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusFrozen, StatusClosed:
		return true
	}
	return false
}

// Limits groups the per-account ceilings checked before money moves.
type Limits struct {
	DailyWithdrawal       decimal.Decimal
	DailyTransfer         decimal.Decimal
	MonthlyTransfer       decimal.Decimal
	MaxTransactionsPerDay int
}

// DefaultLimits returns the limits applied to accounts opened without explicit ones.
func DefaultLimits() Limits {
	return Limits{
		DailyWithdrawal:       decimal.NewFromInt(1000),
		DailyTransfer:         decimal.NewFromInt(5000),
		MonthlyTransfer:       decimal.NewFromInt(20000),
		MaxTransactionsPerDay: 50,
	}
}

func (l Limits) validate() error {
	if l.DailyWithdrawal.IsNegative() || l.DailyTransfer.IsNegative() ||
		l.MonthlyTransfer.IsNegative() || l.MaxTransactionsPerDay < 0 {
		return ErrNegativeLimit
	}
	return nil
}

// Account is the aggregate that owns a balance.
//
// Invariants:
//   - An account always has an owner (UserID).
//   - Balance never drops below -OverdraftLimit.
//   - Money only moves through ACTIVE accounts.
type Account struct {
	ID                    uuid.UUID
	AccountNumber         string
	UserID                uuid.UUID
	Type                  Type
	Status                Status
	Balance               decimal.Decimal
	OverdraftLimit        decimal.Decimal
	DailyWithdrawalLimit  decimal.Decimal
	DailyTransferLimit    decimal.Decimal
	MonthlyTransferLimit  decimal.Decimal
	MaxTransactionsPerDay int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id            uuid.UUID
	number        string
	userID        uuid.UUID
	accountType   Type
	status        Status
	balance       decimal.Decimal
	overdraft     decimal.Decimal
	limits        Limits
	createdAt     time.Time
	updatedAt     time.Time
	numberFactory func() (string, error)
}

// New creates a new Builder with a fresh ID, an ACTIVE checking account and default limits.
func New() *Builder {
	now := time.Now()
	return &Builder{
		id:            uuid.New(),
		accountType:   TypeChecking,
		status:        StatusActive,
		limits:        DefaultLimits(),
		createdAt:     now,
		updatedAt:     now,
		numberFactory: GenerateNumber,
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithUserID sets the owner. This is a mandatory field.
func (b *Builder) WithUserID(userID uuid.UUID) *Builder {
	b.userID = userID
	return b
}

// WithAccountNumber sets the public account number. When empty, Build generates one.
func (b *Builder) WithAccountNumber(number string) *Builder {
	b.number = number
	return b
}

// WithType sets the account type.
func (b *Builder) WithType(t Type) *Builder {
	b.accountType = t
	return b
}

// WithStatus sets the account status.
func (b *Builder) WithStatus(s Status) *Builder {
	b.status = s
	return b
}

// WithBalance sets the balance. Used for an initial deposit and for hydrating from a store.
func (b *Builder) WithBalance(balance decimal.Decimal) *Builder {
	b.balance = balance
	return b
}

// WithOverdraftLimit sets how far below zero the balance may go.
func (b *Builder) WithOverdraftLimit(limit decimal.Decimal) *Builder {
	b.overdraft = limit
	return b
}

// WithLimits replaces the default limits.
func (b *Builder) WithLimits(l Limits) *Builder {
	b.limits = l
	return b
}

// WithCreatedAt sets the creation timestamp. This is primarily for hydrating
// an existing account from a data store.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates the collected fields and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if b.userID == uuid.Nil {
		return nil, ErrUserRequired
	}
	if !b.accountType.Valid() {
		return nil, ErrUnknownType
	}
	if !b.status.Valid() {
		return nil, ErrUnknownStatus
	}
	if b.overdraft.IsNegative() {
		return nil, ErrNegativeLimit
	}
	if err := b.limits.validate(); err != nil {
		return nil, err
	}
	number := b.number
	if number == "" {
		var err error
		if number, err = b.numberFactory(); err != nil {
			return nil, err
		}
	}
	if !ValidNumber(number) {
		return nil, ErrInvalidNumber
	}
	return &Account{
		ID:                    b.id,
		AccountNumber:         number,
		UserID:                b.userID,
		Type:                  b.accountType,
		Status:                b.status,
		Balance:               b.balance,
		OverdraftLimit:        b.overdraft,
		DailyWithdrawalLimit:  b.limits.DailyWithdrawal,
		DailyTransferLimit:    b.limits.DailyTransfer,
		MonthlyTransferLimit:  b.limits.MonthlyTransfer,
		MaxTransactionsPerDay: b.limits.MaxTransactionsPerDay,
		CreatedAt:             b.createdAt,
		UpdatedAt:             b.updatedAt,
	}, nil
}

// Limits returns the account's limit settings.
func (a *Account) Limits() Limits {
	return Limits{
		DailyWithdrawal:       a.DailyWithdrawalLimit,
		DailyTransfer:         a.DailyTransferLimit,
		MonthlyTransfer:       a.MonthlyTransferLimit,
		MaxTransactionsPerDay: a.MaxTransactionsPerDay,
	}
}

// OwnedBy reports whether userID owns the account.
func (a *Account) OwnedBy(userID uuid.UUID) bool {
	return a != nil && a.UserID == userID
}

// CanTransact returns ErrAccountNotActive unless the account is ACTIVE.
func (a *Account) CanTransact() error {
	if a.Status != StatusActive {
		return ErrAccountNotActive
	}
	return nil
}

// ValidateDebit checks that amount can leave the account and returns the resulting balance.
// A balance landing exactly on -OverdraftLimit is allowed.
func (a *Account) ValidateDebit(amount decimal.Decimal) (decimal.Decimal, error) {
	next := a.Balance.Sub(amount)
	if next.LessThan(a.OverdraftLimit.Neg()) {
		return a.Balance, ErrInsufficientFunds
	}
	return next, nil
}

// Debit removes amount from the balance after ValidateDebit succeeds.
func (a *Account) Debit(amount decimal.Decimal) error {
	next, err := a.ValidateDebit(amount)
	if err != nil {
		return err
	}
	a.Balance = next
	return nil
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount decimal.Decimal) {
	a.Balance = a.Balance.Add(amount)
}

// ValidateTransfer checks the invariants that hold between a source and a destination.
func (a *Account) ValidateTransfer(dest *Account, amount decimal.Decimal) error {
	if a == nil || dest == nil {
		return ErrAccountNotFound
	}
	if a.ID == dest.ID {
		return ErrCannotTransferToSameAccount
	}
	if err := a.CanTransact(); err != nil {
		return err
	}
	if dest.Status != StatusActive {
		return ErrDestinationNotActive
	}
	_, err := a.ValidateDebit(amount)
	return err
}

// Clone returns a copy that shares no mutable state with a.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

