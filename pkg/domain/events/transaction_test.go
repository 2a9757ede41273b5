package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionCompletedDecodesThroughFactory(t *testing.T) {
	src := uuid.New()
	tx := account.NewCompletedTransaction(
		account.TransactionTypeWithdrawal,
		decimal.RequireFromString("12.34"),
		nil, &src, nil,
		time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	)
	userID := uuid.New()
	evt := events.NewTransactionCompleted(userID, tx)

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	factory, ok := events.EventTypes[events.EventType(evt.Type())]
	require.True(t, ok)
	decoded := factory()
	require.NoError(t, json.Unmarshal(data, decoded))

	got, ok := events.AsTransactionCompleted(decoded)
	require.True(t, ok)
	assert.Equal(t, tx.ID, got.TransactionID)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "12.34", got.Amount.StringFixed(2))
	assert.Nil(t, got.DestinationAccountID)
	assert.Equal(t, src, *got.SourceAccountID)
}

func TestAsTransactionCompletedRejectsOtherEvents(t *testing.T) {
	var nilEvt *events.TransactionCompleted
	_, ok := events.AsTransactionCompleted(nilEvt)
	assert.False(t, ok)
}
