package transaction

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
)

// QueryService lists transactions. It never writes.
type QueryService struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewQueryService creates a QueryService reading through uow.
func NewQueryService(uow repository.UnitOfWork, logger *slog.Logger) *QueryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryService{uow: uow, logger: logger.With("service", "transaction-query")}
}

// FindAllByAccount returns every transaction where accountID is the source
// or the destination, newest first. Unlike the engine, an account owned by
// another user is reported as access denied.
func (q *QueryService) FindAllByAccount(
	ctx context.Context,
	accountID, userID uuid.UUID,
) ([]*account.Transaction, error) {
	logger := q.logger.With("userID", userID, "accountID", accountID)

	accounts, err := q.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	acc, err := accounts.Get(ctx, accountID)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Info("FindAllByAccount failed: account not found")
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		logger.Error("FindAllByAccount failed: account lookup", "error", err)
		return nil, err
	}
	if !acc.OwnedBy(userID) {
		logger.Warn("FindAllByAccount failed: user does not own account")
		return nil, account.ErrNotOwner
	}

	txs, err := q.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	list, err := txs.ListByAccount(ctx, accountID)
	if err != nil {
		logger.Error("FindAllByAccount failed: list transactions", "error", err)
		return nil, err
	}
	logger.Debug("FindAllByAccount successful", "count", len(list))
	return list, nil
}
