package repository

import (
	"context"
)

// UnitOfWork defines the contract for transactional work and type-safe repository access.
//
// Do runs fn inside one atomic boundary. Repositories obtained from the
// UnitOfWork passed to fn share that boundary; repositories obtained from the
// outer UnitOfWork read and write outside of it.
type UnitOfWork interface {
	// Do executes the given function within a transaction boundary.
	// If the function returns an error, every write made through the
	// provided UnitOfWork is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (AccountRepository, error)
	TransactionRepository() (TransactionRepository, error)
}
