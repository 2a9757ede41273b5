package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUoW_TypeSafeMethods(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	accountRepo, err := uow.AccountRepository()
	require.NoError(err)
	_, ok := accountRepo.(*accountRepository)
	assert.True(ok)

	transactionRepo, err := uow.TransactionRepository()
	require.NoError(err)
	_, ok = transactionRepo.(*transactionRepository)
	assert.True(ok)

	mock.ExpectBegin()
	mock.ExpectCommit()
	err = uow.Do(context.Background(), func(txUow repository.UnitOfWork) error {
		repo, err := txUow.AccountRepository()
		require.NoError(err)
		assert.NotNil(repo)
		return nil
	})
	assert.NoError(err)
	require.NoError(mock.ExpectationsWereMet())
}

func TestUoW_DoCommitsLockedUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(accountRow(sqlmock.NewRows(accountColumns), id, uuid.New(), "FR7612345678901234", "100"))
	mock.ExpectExec(`UPDATE "accounts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(txUow repository.UnitOfWork) error {
		repo, err := txUow.AccountRepository()
		if err != nil {
			return err
		}
		acc, err := repo.GetForUpdate(context.Background(), id)
		if err != nil {
			return err
		}
		return repo.UpdateBalance(context.Background(), acc.ID, acc.Balance.Sub(decimal.RequireFromString("40")))
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_DoRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := uow.Do(context.Background(), func(repository.UnitOfWork) error {
		return domain.ErrInsufficientFunds
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_DoCanceledContextIsTransient(t *testing.T) {
	db, _ := newMockDB(t)
	uow := NewUoW(db)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.Do(ctx, func(repository.UnitOfWork) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.False(t, called)
}

func TestMapGormErrorToDomain(t *testing.T) {
	assert.NoError(t, MapGormErrorToDomain(nil))
	assert.ErrorIs(t, MapGormErrorToDomain(context.DeadlineExceeded), domain.ErrTransient)
	assert.ErrorIs(t, MapGormErrorToDomain(context.DeadlineExceeded), context.DeadlineExceeded)
	plain := errors.New("boom")
	assert.Equal(t, plain, MapGormErrorToDomain(plain))
}
