// Package memory provides an in-process Ledger Store.
//
// Units of work are serialized: a unit holds the store for its whole
// duration, works on a private copy of the state and publishes it only when
// its function returns nil. A failed or expired unit leaves no trace.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
)

type state struct {
	accounts map[uuid.UUID]*account.Account
	byNumber map[string]uuid.UUID
	txs      []*account.Transaction
}

func newState() *state {
	return &state{
		accounts: make(map[uuid.UUID]*account.Account),
		byNumber: make(map[string]uuid.UUID),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts: make(map[uuid.UUID]*account.Account, len(s.accounts)),
		byNumber: make(map[string]uuid.UUID, len(s.byNumber)),
		txs:      make([]*account.Transaction, len(s.txs)),
	}
	for id, a := range s.accounts {
		c.accounts[id] = a.Clone()
	}
	for n, id := range s.byNumber {
		c.byNumber[n] = id
	}
	// records are never mutated once appended
	copy(c.txs, s.txs)
	return c
}

// Store is an in-memory implementation of repository.UnitOfWork.
type Store struct {
	unit    chan struct{}
	mu      sync.RWMutex
	data    *state
	timeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTimeout bounds how long a unit of work may wait for and hold the store.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		unit: make(chan struct{}, 1),
		data: newState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Do runs fn as one atomic unit.
func (s *Store) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	select {
	case s.unit <- struct{}{}:
	case <-ctx.Done():
		return transient(ctx.Err())
	}
	defer func() { <-s.unit }()

	s.mu.RLock()
	staged := s.data.clone()
	s.mu.RUnlock()

	if err := fn(&unitOfWork{store: s, staged: staged}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return transient(err)
	}

	s.mu.Lock()
	s.data = staged
	s.mu.Unlock()
	return nil
}

// AccountRepository returns a repository that works outside any unit.
func (s *Store) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepository{session: session{store: s}}, nil
}

// TransactionRepository returns a repository that works outside any unit.
func (s *Store) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepository{session: session{store: s}}, nil
}

// Ping always succeeds; it lets the store serve as a health dependency.
func (s *Store) Ping(context.Context) error {
	return nil
}

type unitOfWork struct {
	store  *Store
	staged *state
}

// Do nests a unit inside the current one. The nested writes land in the
// enclosing unit only if fn succeeds.
func (u *unitOfWork) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	nested := u.staged.clone()
	if err := fn(&unitOfWork{store: u.store, staged: nested}); err != nil {
		return err
	}
	*u.staged = *nested
	return nil
}

func (u *unitOfWork) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepository{session: session{store: u.store, staged: u.staged}}, nil
}

func (u *unitOfWork) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepository{session: session{store: u.store, staged: u.staged}}, nil
}

// session routes repository calls either to a unit's staged state or, when
// no unit is active, to the live state under the store locks.
type session struct {
	store  *Store
	staged *state
}

func (s session) read(ctx context.Context, fn func(*state) error) error {
	if err := ctx.Err(); err != nil {
		return transient(err)
	}
	if s.staged != nil {
		return fn(s.staged)
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return fn(s.store.data)
}

func (s session) write(ctx context.Context, fn func(*state) error) error {
	if err := ctx.Err(); err != nil {
		return transient(err)
	}
	if s.staged != nil {
		return fn(s.staged)
	}
	// a write outside a unit waits its turn like a unit of its own
	select {
	case s.store.unit <- struct{}{}:
	case <-ctx.Done():
		return transient(ctx.Err())
	}
	defer func() { <-s.store.unit }()
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return fn(s.store.data)
}

func transient(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrTransient, err)
}

var (
	_ repository.UnitOfWork = (*Store)(nil)
	_ repository.UnitOfWork = (*unitOfWork)(nil)
)
