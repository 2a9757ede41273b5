package eventbus_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	infraeventbus "github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestMemoryBusDispatchesByType(t *testing.T) {
	bus := infraeventbus.NewWithMemory(discard)
	var got []uuid.UUID
	bus.Register(events.EventTypeTransactionCompleted, func(_ context.Context, e events.Event) error {
		tc, ok := events.AsTransactionCompleted(e)
		require.True(t, ok)
		got = append(got, tc.TransactionID)
		return nil
	})
	bus.Register("Other.Event", func(context.Context, events.Event) error {
		t.Fatal("handler for another type must not run")
		return nil
	})

	ev := events.TransactionCompleted{TransactionID: uuid.New()}
	require.NoError(t, bus.Emit(context.Background(), ev))
	assert.Equal(t, []uuid.UUID{ev.TransactionID}, got)
	assert.Len(t, bus.Published(), 1)

	bus.ClearPublished()
	assert.Empty(t, bus.Published())
}

func TestMemoryBusIsolatesHandlerFailures(t *testing.T) {
	bus := infraeventbus.NewWithMemory(discard)
	calls := 0
	bus.Register(events.EventTypeTransactionCompleted, func(context.Context, events.Event) error {
		calls++
		return errors.New("boom")
	})
	bus.Register(events.EventTypeTransactionCompleted, func(context.Context, events.Event) error {
		calls++
		panic("handler bug")
	})
	bus.Register(events.EventTypeTransactionCompleted, func(context.Context, events.Event) error {
		calls++
		return nil
	})

	assert.NoError(t, bus.Emit(context.Background(), events.TransactionCompleted{}))
	assert.Equal(t, 3, calls)
}
