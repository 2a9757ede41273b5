package transaction_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amirasaad/ledger/internal/fixtures/mocks"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/service/transaction"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFindAllByAccountNewestFirst(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	x := e.open(t, seed{balance: "0"})
	y := e.open(t, seed{owner: uuid.New(), balance: "0"})

	var made []*account.Transaction
	for _, req := range []account.Request{
		account.DepositRequest{DestinationAccountID: x.ID, Amount: dec("100")},
		account.WithdrawalRequest{SourceAccountID: x.ID, Amount: dec("5")},
		account.TransferRequest{SourceAccountID: x.ID, DestinationAccountNumber: y.AccountNumber, Amount: dec("7.5")},
	} {
		tx, err := e.svc.Execute(ctx, e.user, req)
		require.NoError(t, err)
		made = append(made, tx)
	}

	first := e.history(t, x)
	require.Len(t, first, 3)
	for i, tx := range first {
		assert.Equal(t, made[len(made)-1-i].ID, tx.ID)
	}

	second := e.history(t, x)
	assert.Equal(t, first, second)
}

func TestFindAllByAccountRejections(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	foreign := e.open(t, seed{owner: uuid.New(), balance: "0"})

	_, err := e.query.FindAllByAccount(ctx, uuid.New(), e.user)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.query.FindAllByAccount(ctx, foreign.ID, e.user)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestFindAllByAccountStoreFailure(t *testing.T) {
	uow := mocks.NewMockUnitOfWork(t)
	accounts := mocks.NewMockAccountRepository(t)
	txs := mocks.NewMockTransactionRepository(t)
	user := uuid.New()
	acc, err := account.New().WithUserID(user).Build()
	require.NoError(t, err)

	boom := errors.New("connection refused")
	uow.On("AccountRepository").Return(accounts, nil)
	uow.On("TransactionRepository").Return(txs, nil)
	accounts.On("Get", mock.Anything, acc.ID).Return(acc, nil)
	txs.On("ListByAccount", mock.Anything, acc.ID).Return(nil, boom)

	q := transaction.NewQueryService(uow, discard)
	_, err = q.FindAllByAccount(context.Background(), acc.ID, user)
	assert.ErrorIs(t, err, boom)
}
