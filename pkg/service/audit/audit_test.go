package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/ledger/internal/fixtures/mocks"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/service/audit"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingSink struct {
	mu      sync.Mutex
	entries []audit.Entry
	err     error
}

func (s *recordingSink) Write(_ context.Context, e audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

func completed() events.TransactionCompleted {
	src := uuid.New()
	return events.TransactionCompleted{
		TransactionID:   uuid.New(),
		UserID:          uuid.New(),
		TransactionType: account.TransactionTypeWithdrawal,
		Amount:          decimal.RequireFromString("42.00"),
		SourceAccountID: &src,
		OccurredAt:      time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestHandleWritesEntry(t *testing.T) {
	sink := &recordingSink{}
	sub := audit.NewSubscriber(sink, discard)
	ev := completed()

	require.NoError(t, sub.Handle(context.Background(), ev))
	require.Len(t, sink.entries, 1)
	got := sink.entries[0]
	assert.Equal(t, "WITHDRAWAL", got.Action)
	assert.Equal(t, "Transaction", got.EntityType)
	assert.Equal(t, ev.TransactionID.String(), got.EntityID)
	assert.Equal(t, ev.UserID.String(), got.UserID)
	assert.Equal(t, ev.OccurredAt, got.OccurredAt)
}

func TestHandleSkipsRedelivery(t *testing.T) {
	sink := &recordingSink{}
	sub := audit.NewSubscriber(sink, discard)
	ev := completed()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sub.Handle(context.Background(), &ev))
		}()
	}
	wg.Wait()
	assert.Len(t, sink.entries, 1)
}

func TestHandleRetriesAfterSinkFailure(t *testing.T) {
	sink := &recordingSink{err: errors.New("disk full")}
	sub := audit.NewSubscriber(sink, discard)
	ev := completed()

	assert.Error(t, sub.Handle(context.Background(), ev))
	sink.err = nil
	assert.NoError(t, sub.Handle(context.Background(), ev))
	assert.Len(t, sink.entries, 1)
}

// stepClock is a settable time source.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestHandleForgetsIDsPastRetention(t *testing.T) {
	sink := &recordingSink{}
	clk := &stepClock{t: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)}
	sub := audit.NewSubscriber(sink, discard, audit.WithRetention(time.Hour), audit.WithClock(clk.Now))
	first, second := completed(), completed()

	require.NoError(t, sub.Handle(context.Background(), first))
	clk.Advance(30 * time.Minute)
	require.NoError(t, sub.Handle(context.Background(), first))
	assert.Len(t, sink.entries, 1)

	clk.Advance(31 * time.Minute)
	require.NoError(t, sub.Handle(context.Background(), second))
	assert.Equal(t, 1, sub.TrackedIDs())
	assert.Len(t, sink.entries, 2)
}

func TestHandleCapsTrackedIDs(t *testing.T) {
	sink := &recordingSink{}
	sub := audit.NewSubscriber(sink, discard, audit.WithMaxTracked(3))

	evs := make([]events.TransactionCompleted, 10)
	for i := range evs {
		evs[i] = completed()
		require.NoError(t, sub.Handle(context.Background(), evs[i]))
	}
	assert.Equal(t, 3, sub.TrackedIDs())

	// recent IDs are still deduplicated
	require.NoError(t, sub.Handle(context.Background(), evs[9]))
	assert.Len(t, sink.entries, 10)
}

type otherEvent struct{}

func (otherEvent) Type() string { return "Other" }

func TestHandleRejectsOtherEvents(t *testing.T) {
	sub := audit.NewSubscriber(nil, discard)
	assert.Error(t, sub.Handle(context.Background(), otherEvent{}))
}

func TestRegister(t *testing.T) {
	bus := mocks.NewMockEventBus(t)
	sub := audit.NewSubscriber(nil, discard)
	bus.On("Register", events.EventTypeTransactionCompleted, mock.Anything).Once()
	sub.Register(bus)
}

func TestLogSink(t *testing.T) {
	sub := audit.NewSubscriber(nil, discard)
	assert.NoError(t, sub.Handle(context.Background(), completed()))
}
