package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirasaad/ledger/infra/memory"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(t *testing.T, balance string) *account.Account {
	t.Helper()
	acc, err := account.New().
		WithUserID(uuid.New()).
		WithBalance(decimal.RequireFromString(balance)).
		Build()
	require.NoError(t, err)
	return acc
}

func TestStoreCommitsUnit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()
	acc := newAccount(t, "10")

	err := store.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, acc); err != nil {
			return err
		}
		return repo.UpdateBalance(ctx, acc.ID, decimal.RequireFromString("25"))
	})
	require.NoError(t, err)

	repo, err := store.AccountRepository()
	require.NoError(t, err)
	got, err := repo.Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", got.Balance.StringFixed(2))

	byNumber, err := repo.GetByNumber(ctx, acc.AccountNumber)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, byNumber.ID)
}

func TestStoreRollsBackFailedUnit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()
	acc := newAccount(t, "10")
	repo, _ := store.AccountRepository()
	require.NoError(t, repo.Create(ctx, acc))

	boom := errors.New("boom")
	err := store.Do(ctx, func(uow repository.UnitOfWork) error {
		accRepo, _ := uow.AccountRepository()
		txRepo, _ := uow.TransactionRepository()
		if err := accRepo.UpdateBalance(ctx, acc.ID, decimal.Zero); err != nil {
			return err
		}
		tx := account.NewCompletedTransaction(account.TransactionTypeWithdrawal, decimal.RequireFromString("10"), nil, &acc.ID, nil, time.Now())
		if err := txRepo.Create(ctx, tx); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", got.Balance.StringFixed(2))

	txRepo, _ := store.TransactionRepository()
	list, err := txRepo.ListByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStoreReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()
	acc := newAccount(t, "10")
	repo, _ := store.AccountRepository()
	require.NoError(t, repo.Create(ctx, acc))

	acc.Balance = decimal.RequireFromString("999")
	got, err := repo.Get(ctx, acc.ID)
	require.NoError(t, err)
	got.Balance = decimal.RequireFromString("500")

	again, err := repo.Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", again.Balance.StringFixed(2))
}

func TestStoreNotFoundAndDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()
	repo, _ := store.AccountRepository()

	_, err := repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetByNumber(ctx, "FR760000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateBalance(ctx, uuid.New(), decimal.Zero), domain.ErrNotFound)

	acc := newAccount(t, "0")
	require.NoError(t, repo.Create(ctx, acc))
	assert.ErrorIs(t, repo.Create(ctx, acc), domain.ErrAlreadyExists)

	clash := newAccount(t, "0")
	clash.AccountNumber = acc.AccountNumber
	assert.ErrorIs(t, repo.Create(ctx, clash), domain.ErrAlreadyExists)
}

func TestStoreUnitTimeoutIsTransient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New(memory.WithTimeout(20 * time.Millisecond))
	acc := newAccount(t, "10")
	repo, _ := store.AccountRepository()
	require.NoError(t, repo.Create(ctx, acc))

	err := store.Do(ctx, func(uow repository.UnitOfWork) error {
		accRepo, _ := uow.AccountRepository()
		if err := accRepo.UpdateBalance(ctx, acc.ID, decimal.Zero); err != nil {
			return err
		}
		time.Sleep(50 * time.Millisecond)
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrTransient)

	got, err := repo.Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", got.Balance.StringFixed(2), "expired unit must not publish its writes")
}

func TestStoreCanceledContextIsTransient(t *testing.T) {
	t.Parallel()
	store := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo, _ := store.AccountRepository()
	_, err := repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrTransient)
}

func TestNestedUnitRollsBackIndependently(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()
	acc := newAccount(t, "10")
	repo, _ := store.AccountRepository()
	require.NoError(t, repo.Create(ctx, acc))

	err := store.Do(ctx, func(uow repository.UnitOfWork) error {
		accRepo, _ := uow.AccountRepository()
		if err := accRepo.UpdateBalance(ctx, acc.ID, decimal.RequireFromString("20")); err != nil {
			return err
		}
		nestedErr := uow.Do(ctx, func(inner repository.UnitOfWork) error {
			innerRepo, _ := inner.AccountRepository()
			_ = innerRepo.UpdateBalance(ctx, acc.ID, decimal.RequireFromString("30"))
			return errors.New("inner failure")
		})
		assert.Error(t, nestedErr)
		return nil
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "20.00", got.Balance.StringFixed(2))
}

func TestTransactionQueries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()
	txRepo, _ := store.TransactionRepository()

	a := uuid.New()
	b := uuid.New()
	midnight := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	records := []*account.Transaction{
		account.NewCompletedTransaction(account.TransactionTypeWithdrawal, decimal.RequireFromString("40"), nil, &a, nil, midnight.Add(time.Hour)),
		account.NewCompletedTransaction(account.TransactionTypeWithdrawal, decimal.RequireFromString("60"), nil, &a, nil, midnight.Add(-time.Minute)),
		account.NewCompletedTransaction(account.TransactionTypeTransfer, decimal.RequireFromString("5"), nil, &a, &b, midnight.Add(2*time.Hour)),
		account.NewCompletedTransaction(account.TransactionTypeDeposit, decimal.RequireFromString("7"), nil, nil, &a, midnight.Add(3*time.Hour)),
	}
	pending := account.NewCompletedTransaction(account.TransactionTypeWithdrawal, decimal.RequireFromString("1000"), nil, &a, nil, midnight.Add(time.Hour))
	pending.Status = account.TransactionStatusPending
	records = append(records, pending)
	for _, r := range records {
		require.NoError(t, txRepo.Create(ctx, r))
	}

	sum, err := txRepo.SumCompleted(ctx, repository.SumFilter{AccountID: a, Type: account.TransactionTypeWithdrawal, Since: midnight})
	require.NoError(t, err)
	assert.Equal(t, "40.00", sum.StringFixed(2))

	count, err := txRepo.CountCompleted(ctx, repository.CountFilter{AccountID: a, Since: midnight})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = txRepo.CountCompleted(ctx, repository.CountFilter{AccountID: b, Since: midnight})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	list, err := txRepo.ListByAccount(ctx, a)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].CreatedAt.After(list[i-1].CreatedAt), "list must be newest first")
	}
}
