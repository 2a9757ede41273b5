package repository

import (
	"context"
	"errors"
	"time"

	"github.com/amirasaad/ledger/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Repositories handed out by the UoW passed to Do share its database transaction.
type UoW struct {
	db      *gorm.DB
	tx      *gorm.DB
	timeout time.Duration
}

// UoWOption configures a UoW.
type UoWOption func(*UoW)

// WithTimeout bounds the lifetime of every transaction started by Do.
func WithTimeout(d time.Duration) UoWOption {
	return func(u *UoW) {
		u.timeout = d
	}
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB, opts ...UoWOption) *UoW {
	u := &UoW{db: db}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Do runs fn inside a database transaction. Calling Do on the UoW handed to
// fn opens a savepoint.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.timeout > 0 && u.tx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}
	err := u.session().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, timeout: u.timeout})
	})
	if err != nil && ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
		// the driver reported the abort in its own words
		err = errors.Join(err, ctx.Err())
	}
	return MapGormErrorToDomain(err)
}

// AccountRepository returns an account repository bound to the current session.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return NewAccountRepository(u.session()), nil
}

// TransactionRepository returns a transaction repository bound to the current session.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return NewTransactionRepository(u.session()), nil
}

// Ping checks that the database answers.
func (u *UoW) Ping(ctx context.Context) error {
	sqlDB, err := u.db.DB()
	if err != nil {
		return err
	}
	return MapGormErrorToDomain(sqlDB.PingContext(ctx))
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

var _ repository.UnitOfWork = (*UoW)(nil)
