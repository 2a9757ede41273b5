package app_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	infraeventbus "github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/infra/memory"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/account"
	accountsvc "github.com/amirasaad/ledger/pkg/service/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWiresServices(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	bus := infraeventbus.NewWithMemory(logger)
	cfg := &config.App{Ledger: &config.Ledger{
		StrictLimits:                 true,
		DefaultDailyWithdrawalLimit:  decimal.NewFromInt(250),
		DefaultMaxTransactionsPerDay: 10,
		DefaultOverdraftLimit:        decimal.NewFromInt(20),
	}}

	a := app.New(&app.Deps{Uow: store, EventBus: bus, Logger: logger, Location: time.UTC, Store: store}, cfg)
	require.NotNil(t, a.Audit)

	ctx := context.Background()
	user := uuid.New()
	acc, err := a.AccountService.Create(ctx, user, accountsvc.CreateInput{Type: account.TypeChecking})
	require.NoError(t, err)
	assert.Equal(t, "250.00", acc.DailyWithdrawalLimit.StringFixed(2))
	assert.Equal(t, "5000.00", acc.DailyTransferLimit.StringFixed(2))
	assert.Equal(t, 10, acc.MaxTransactionsPerDay)
	assert.Equal(t, "20.00", acc.OverdraftLimit.StringFixed(2))

	_, err = a.TransactionService.Withdraw(ctx, user, account.WithdrawalRequest{
		SourceAccountID: acc.ID,
		Amount:          decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.Len(t, bus.Published(), 1)

	list, err := a.QueryService.FindAllByAccount(ctx, acc.ID, user)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	a.Close()
}
