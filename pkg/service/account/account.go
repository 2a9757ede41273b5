// Package account opens accounts and looks them up on behalf of their owners.
//
// Money never moves through this package: balances change only through the
// transaction engine. An initial deposit is written as the opening balance.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/money"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// numberAttempts bounds retries when a generated account number collides.
const numberAttempts = 3

// ErrNegativeInitialDeposit is returned when an account is opened with a negative balance.
var ErrNegativeInitialDeposit = fmt.Errorf("%w: initial deposit must not be negative", domain.ErrValidation)

// CreateInput carries the caller's choices for a new account.
type CreateInput struct {
	Type           account.Type
	InitialDeposit decimal.Decimal
	// OverdraftLimit overrides the configured default when set.
	OverdraftLimit *decimal.Decimal
}

// Service provides account opening and owner-scoped lookups.
type Service struct {
	uow       repository.UnitOfWork
	logger    *slog.Logger
	limits    account.Limits
	overdraft decimal.Decimal
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultLimits sets the limits given to every new account.
func WithDefaultLimits(l account.Limits) Option {
	return func(s *Service) {
		s.limits = l
	}
}

// WithDefaultOverdraft sets the overdraft used when CreateInput leaves it unset.
func WithDefaultOverdraft(d decimal.Decimal) Option {
	return func(s *Service) {
		s.overdraft = d
	}
}

// NewService creates an account Service.
func NewService(uow repository.UnitOfWork, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		uow:    uow,
		logger: logger.With("service", "account"),
		limits: account.DefaultLimits(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens an ACTIVE account for userID with a freshly generated number.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (acc *account.Account, err error) {
	logger := s.logger.With("userID", userID, "type", in.Type)
	logger.Info("Create started")

	if in.InitialDeposit.IsNegative() {
		return nil, ErrNegativeInitialDeposit
	}
	if !in.InitialDeposit.IsZero() {
		if err := money.ValidateAmount(in.InitialDeposit); err != nil {
			return nil, err
		}
	}
	overdraft := s.overdraft
	if in.OverdraftLimit != nil {
		overdraft = *in.OverdraftLimit
	}

	for attempt := 1; attempt <= numberAttempts; attempt++ {
		err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			repo, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			acc, err = account.New().
				WithUserID(userID).
				WithType(in.Type).
				WithBalance(in.InitialDeposit).
				WithOverdraftLimit(overdraft).
				WithLimits(s.limits).
				Build()
			if err != nil {
				return err
			}
			return repo.Create(ctx, acc)
		})
		if !errors.Is(err, domain.ErrAlreadyExists) {
			break
		}
		logger.Warn("Create retrying: account number collision", "attempt", attempt)
	}
	if err != nil {
		logger.Error("Create failed", "error", err)
		return nil, err
	}
	logger.Info("Create successful", "accountID", acc.ID)
	return acc, nil
}

// ListByUser returns the user's accounts, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	list, err := repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListByUser failed", "userID", userID, "error", err)
		return nil, err
	}
	return list, nil
}

// Get returns the account when userID owns it.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	acc, err := repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	if !acc.OwnedBy(userID) {
		s.logger.Warn("Get failed: user does not own account", "userID", userID, "accountID", id)
		return nil, account.ErrNotOwner
	}
	return acc, nil
}

// GetByNumber returns the account carrying the public number, whoever owns it.
func (s *Service) GetByNumber(ctx context.Context, number string) (*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	acc, err := repo.GetByNumber(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, account.ErrAccountNotFound
	}
	return acc, err
}
