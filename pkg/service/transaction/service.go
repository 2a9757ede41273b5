// Package transaction implements the ledger's transaction engine and the
// read side that lists an account's history.
//
// Every money movement runs validate, limit check, mutate and record in that
// order. The mutation and the record it produces commit in one unit of work
// against the Ledger Store, with the touched account rows locked and
// re-validated inside the unit.
package transaction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/domain/money"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/amirasaad/ledger/pkg/service/limit"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Service executes deposits, withdrawals and transfers.
type Service struct {
	uow    repository.UnitOfWork
	limits *limit.Evaluator
	bus    eventbus.Bus
	logger *slog.Logger
	strict bool
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithStrictLimits re-runs the limit check inside the unit of work, after the
// account row is locked. Without it the only check is the pre-check, and two
// concurrent requests may jointly overshoot a window.
func WithStrictLimits(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithClock replaces time.Now for transaction timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a transaction Service. bus may be nil, in which case no
// events are emitted.
func New(
	uow repository.UnitOfWork,
	limits *limit.Evaluator,
	bus eventbus.Bus,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		uow:    uow,
		limits: limits,
		bus:    bus,
		logger: logger.With("service", "transaction"),
		strict: true,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute dispatches req to the operation matching its kind.
func (s *Service) Execute(ctx context.Context, userID uuid.UUID, req account.Request) (*account.Transaction, error) {
	switch r := req.(type) {
	case account.DepositRequest:
		return s.Deposit(ctx, userID, r)
	case account.WithdrawalRequest:
		return s.Withdraw(ctx, userID, r)
	case account.TransferRequest:
		return s.Transfer(ctx, userID, r)
	default:
		return nil, account.ErrUnknownTransactionType
	}
}

// Deposit credits req.Amount to one of the caller's accounts.
func (s *Service) Deposit(
	ctx context.Context,
	userID uuid.UUID,
	req account.DepositRequest,
) (tx *account.Transaction, err error) {
	logger := s.logger.With("op", "deposit", "userID", userID, "accountID", req.DestinationAccountID)
	logger.Info("Deposit started")
	defer s.finish(logger, "Deposit", &tx, &err)

	if err = money.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}
	dest, err := s.owned(ctx, req.DestinationAccountID, userID)
	if err != nil {
		return nil, err
	}
	if err = dest.CanTransact(); err != nil {
		return nil, err
	}
	if err = s.precheck(ctx, dest, account.TransactionTypeDeposit, req.Amount); err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		locked, err := lockOwned(ctx, accounts, req.DestinationAccountID, userID)
		if err != nil {
			return err
		}
		if err := locked.CanTransact(); err != nil {
			return err
		}
		if err := s.recheck(ctx, uow, locked, account.TransactionTypeDeposit, req.Amount); err != nil {
			return err
		}
		locked.Credit(req.Amount)
		if err := accounts.UpdateBalance(ctx, locked.ID, locked.Balance); err != nil {
			return err
		}
		tx = account.NewCompletedTransaction(
			account.TransactionTypeDeposit, req.Amount, req.Description,
			nil, &locked.ID, s.now().UTC(),
		)
		return record(ctx, uow, tx)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, logger, userID, tx)
	return tx, nil
}

// Withdraw debits req.Amount from one of the caller's accounts. The balance
// may go negative down to the account's overdraft limit.
func (s *Service) Withdraw(
	ctx context.Context,
	userID uuid.UUID,
	req account.WithdrawalRequest,
) (tx *account.Transaction, err error) {
	logger := s.logger.With("op", "withdraw", "userID", userID, "accountID", req.SourceAccountID)
	logger.Info("Withdraw started")
	defer s.finish(logger, "Withdraw", &tx, &err)

	if err = money.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}
	source, err := s.owned(ctx, req.SourceAccountID, userID)
	if err != nil {
		return nil, err
	}
	if err = s.precheck(ctx, source, account.TransactionTypeWithdrawal, req.Amount); err != nil {
		return nil, err
	}
	if err = source.CanTransact(); err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		locked, err := lockOwned(ctx, accounts, req.SourceAccountID, userID)
		if err != nil {
			return err
		}
		if err := locked.CanTransact(); err != nil {
			return err
		}
		if err := s.recheck(ctx, uow, locked, account.TransactionTypeWithdrawal, req.Amount); err != nil {
			return err
		}
		if err := locked.Debit(req.Amount); err != nil {
			return err
		}
		if err := accounts.UpdateBalance(ctx, locked.ID, locked.Balance); err != nil {
			return err
		}
		tx = account.NewCompletedTransaction(
			account.TransactionTypeWithdrawal, req.Amount, req.Description,
			&locked.ID, nil, s.now().UTC(),
		)
		return record(ctx, uow, tx)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, logger, userID, tx)
	return tx, nil
}

// Transfer moves req.Amount from one of the caller's accounts to the account
// carrying req.DestinationAccountNumber, whoever owns it. Only the source's
// overdraft floor applies.
func (s *Service) Transfer(
	ctx context.Context,
	userID uuid.UUID,
	req account.TransferRequest,
) (tx *account.Transaction, err error) {
	logger := s.logger.With("op", "transfer", "userID", userID, "accountID", req.SourceAccountID)
	logger.Info("Transfer started")
	defer s.finish(logger, "Transfer", &tx, &err)

	if err = money.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}
	source, dest, err := s.resolveTransfer(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	if source.ID == dest.ID {
		return nil, account.ErrCannotTransferToSameAccount
	}
	if err = s.precheck(ctx, source, account.TransactionTypeTransfer, req.Amount); err != nil {
		return nil, err
	}
	if err = source.ValidateTransfer(dest, req.Amount); err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		lockedSource, lockedDest, err := lockPair(ctx, accounts, source.ID, dest.ID)
		if err != nil {
			return err
		}
		if !lockedSource.OwnedBy(userID) {
			return account.ErrAccountNotFound
		}
		if err := lockedSource.ValidateTransfer(lockedDest, req.Amount); err != nil {
			return err
		}
		if err := s.recheck(ctx, uow, lockedSource, account.TransactionTypeTransfer, req.Amount); err != nil {
			return err
		}
		if err := lockedSource.Debit(req.Amount); err != nil {
			return err
		}
		lockedDest.Credit(req.Amount)
		if err := accounts.UpdateBalance(ctx, lockedSource.ID, lockedSource.Balance); err != nil {
			return err
		}
		if err := accounts.UpdateBalance(ctx, lockedDest.ID, lockedDest.Balance); err != nil {
			return err
		}
		tx = account.NewCompletedTransaction(
			account.TransactionTypeTransfer, req.Amount, req.Description,
			&lockedSource.ID, &lockedDest.ID, s.now().UTC(),
		)
		return record(ctx, uow, tx)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, logger, userID, tx)
	return tx, nil
}

// resolveTransfer loads the caller's source account and the destination by
// number concurrently.
func (s *Service) resolveTransfer(
	ctx context.Context,
	userID uuid.UUID,
	req account.TransferRequest,
) (source, dest *account.Account, err error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, nil, err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		source, err = owned(gctx, accounts, req.SourceAccountID, userID)
		return err
	})
	g.Go(func() error {
		var err error
		dest, err = accounts.GetByNumber(gctx, req.DestinationAccountNumber)
		if errors.Is(err, domain.ErrNotFound) {
			return account.ErrAccountNotFound
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return source, dest, nil
}

func (s *Service) owned(ctx context.Context, id, userID uuid.UUID) (*account.Account, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return owned(ctx, accounts, id, userID)
}

// owned returns the account when it exists and belongs to userID. An account
// owned by someone else is reported as missing.
func owned(ctx context.Context, repo repository.AccountRepository, id, userID uuid.UUID) (*account.Account, error) {
	acc, err := repo.Get(ctx, id)
	return scoped(acc, err, userID)
}

func lockOwned(ctx context.Context, repo repository.AccountRepository, id, userID uuid.UUID) (*account.Account, error) {
	acc, err := repo.GetForUpdate(ctx, id)
	return scoped(acc, err, userID)
}

func scoped(acc *account.Account, err error, userID uuid.UUID) (*account.Account, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	if !acc.OwnedBy(userID) {
		return nil, account.ErrAccountNotFound
	}
	return acc, nil
}

// lockPair locks both accounts in ascending id order so that two opposite
// transfers cannot deadlock.
func lockPair(
	ctx context.Context,
	repo repository.AccountRepository,
	sourceID, destID uuid.UUID,
) (source, dest *account.Account, err error) {
	first, second := sourceID, destID
	if destID.String() < sourceID.String() {
		first, second = destID, sourceID
	}
	a, err := repo.GetForUpdate(ctx, first)
	if err != nil {
		return nil, nil, notFound(err)
	}
	b, err := repo.GetForUpdate(ctx, second)
	if err != nil {
		return nil, nil, notFound(err)
	}
	if a.ID == sourceID {
		return a, b, nil
	}
	return b, a, nil
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return account.ErrAccountNotFound
	}
	return err
}

func record(ctx context.Context, uow repository.UnitOfWork, tx *account.Transaction) error {
	txs, err := uow.TransactionRepository()
	if err != nil {
		return err
	}
	return txs.Create(ctx, tx)
}

func (s *Service) precheck(
	ctx context.Context,
	acc *account.Account,
	txType account.TransactionType,
	amount decimal.Decimal,
) error {
	res, err := s.limits.CheckWith(ctx, s.uow, acc, txType, amount)
	if err != nil {
		return err
	}
	return res.Err()
}

func (s *Service) recheck(
	ctx context.Context,
	uow repository.UnitOfWork,
	acc *account.Account,
	txType account.TransactionType,
	amount decimal.Decimal,
) error {
	if !s.strict {
		return nil
	}
	res, err := s.limits.CheckWith(ctx, uow, acc, txType, amount)
	if err != nil {
		return err
	}
	return res.Err()
}

// emit publishes TransactionCompleted. The ledger has already committed, so
// a failed publish is logged and swallowed.
func (s *Service) emit(ctx context.Context, logger *slog.Logger, userID uuid.UUID, tx *account.Transaction) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, events.NewTransactionCompleted(userID, tx)); err != nil {
		logger.Warn("TransactionCompleted emit failed", "transactionID", tx.ID, "error", err)
	}
}

func (s *Service) finish(logger *slog.Logger, op string, tx **account.Transaction, err *error) {
	if *err != nil {
		logger.Error(op+" failed", "error", *err)
		return
	}
	logger.Info(op+" successful", "transactionID", (*tx).ID)
}
