// Package audit records who moved money, once per committed transaction.
//
// The subscriber listens for TransactionCompleted on the event bus. Broker
// backed buses deliver at least once, so entries are deduplicated by
// transaction ID before they reach the Sink.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"golang.org/x/sync/singleflight"
)

const (
	entityTransaction = "Transaction"

	defaultRetention  = 24 * time.Hour
	defaultMaxTracked = 100_000
)

// Entry is one audit record.
type Entry struct {
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Details    events.TransactionCompleted
	OccurredAt time.Time
}

// Sink persists audit entries. Storage of audit rows lives outside the ledger.
type Sink interface {
	Write(ctx context.Context, entry Entry) error
}

// LogSink writes entries as structured log lines.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Write(ctx context.Context, e Entry) error {
	s.Logger.InfoContext(ctx, "[AUDIT] "+e.Action+" by user "+e.UserID+" on "+e.EntityType,
		"action", e.Action,
		"user_id", e.UserID,
		"entity", e.EntityType,
		"entity_id", e.EntityID,
		"transaction_type", e.Details.TransactionType,
		"occurred_at", e.OccurredAt,
	)
	return nil
}

// Subscriber turns TransactionCompleted events into audit entries.
type Subscriber struct {
	sink     Sink
	logger   *slog.Logger
	seen     *seenSet
	inflight singleflight.Group
}

// Option configures a Subscriber.
type Option func(*Subscriber)

// WithRetention sets how long an audited transaction ID is remembered for
// redelivery checks. It should exceed the bus's redelivery horizon.
func WithRetention(d time.Duration) Option {
	return func(s *Subscriber) { s.seen.ttl = d }
}

// WithMaxTracked caps how many audited transaction IDs are remembered. The
// oldest are forgotten first.
func WithMaxTracked(n int) Option {
	return func(s *Subscriber) { s.seen.max = n }
}

// WithClock overrides time.Now for retention.
func WithClock(now func() time.Time) Option {
	return func(s *Subscriber) { s.seen.now = now }
}

// NewSubscriber creates a Subscriber. A nil sink logs entries through logger.
func NewSubscriber(sink Sink, logger *slog.Logger, opts ...Option) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = LogSink{Logger: logger}
	}
	s := &Subscriber{
		sink:   sink,
		logger: logger.With("handler", "audit"),
		seen: &seenSet{
			at:  make(map[string]time.Time),
			ttl: defaultRetention,
			max: defaultMaxTracked,
			now: time.Now,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register subscribes s to completed transactions on bus.
func (s *Subscriber) Register(bus eventbus.Bus) {
	bus.Register(events.EventTypeTransactionCompleted, s.Handle)
}

// Handle writes the audit entry for e. Redelivered events are skipped.
func (s *Subscriber) Handle(ctx context.Context, e events.Event) error {
	tc, ok := events.AsTransactionCompleted(e)
	if !ok {
		err := fmt.Errorf("unexpected event type: %s", e.Type())
		s.logger.Error("unexpected event type", "error", err)
		return err
	}
	key := tc.TransactionID.String()
	log := s.logger.With("event_type", e.Type(), "transaction_id", key)

	if s.seen.contains(key) {
		log.Debug("🔁 [SKIP] Event already audited")
		return nil
	}
	// concurrent deliveries of one key share a single write
	_, err, _ := s.inflight.Do(key, func() (any, error) {
		if s.seen.contains(key) {
			return nil, nil
		}
		entry := Entry{
			UserID:     tc.UserID.String(),
			Action:     string(tc.TransactionType),
			EntityType: entityTransaction,
			EntityID:   key,
			Details:    tc,
			OccurredAt: tc.OccurredAt,
		}
		if err := s.sink.Write(ctx, entry); err != nil {
			return nil, err
		}
		s.seen.add(key)
		return nil, nil
	})
	if err != nil {
		log.Error("❌ [ERROR] Failed to write audit entry", "error", err)
		return err
	}
	return nil
}

// seenSet remembers keys in insertion order until they age past ttl or the
// set grows past max.
type seenSet struct {
	mu    sync.Mutex
	at    map[string]time.Time
	order []string
	ttl   time.Duration
	max   int
	now   func() time.Time
}

func (s *seenSet) contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.at[key]
	return ok && s.now().Sub(at) < s.ttl
}

func (s *seenSet) add(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if _, ok := s.at[key]; !ok {
		s.order = append(s.order, key)
	}
	s.at[key] = now

	for len(s.order) > 0 {
		oldest := s.order[0]
		if len(s.at) <= s.max && now.Sub(s.at[oldest]) < s.ttl {
			break
		}
		delete(s.at, oldest)
		s.order[0] = ""
		s.order = s.order[1:]
	}
}
