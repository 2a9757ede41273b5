// Package limit evaluates per-account usage limits before money moves.
//
// Usage is aggregated from COMPLETED transactions over calendar windows
// anchored at local midnight: the current day for daily caps and the first of
// the current month for the monthly transfer cap. The evaluator only reads.
package limit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/money"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Window names the limit a Result was evaluated against.
type Window string

const (
	WindowDailyWithdrawal Window = "DAILY_WITHDRAWAL"
	WindowDailyTransfer   Window = "DAILY_TRANSFER"
	WindowMonthlyTransfer Window = "MONTHLY_TRANSFER"
	WindowDailyCount      Window = "DAILY_TRANSACTION_COUNT"
)

// Result is the outcome of a limit check. CurrentUsage and Limit are always
// set for the last window evaluated, whether or not it allowed the request.
type Result struct {
	Allowed      bool
	Reason       string
	Window       Window
	CurrentUsage decimal.Decimal
	Limit        decimal.Decimal
	Requested    decimal.Decimal
}

// Err returns nil for an allowed result and a *domain.LimitExceededError otherwise.
func (r Result) Err() error {
	if r.Allowed {
		return nil
	}
	return &domain.LimitExceededError{
		Window:       string(r.Window),
		Reason:       r.Reason,
		CurrentUsage: r.CurrentUsage,
		Limit:        r.Limit,
		Requested:    r.Requested,
	}
}

// Evaluator computes whether a prospective transaction fits an account's limits.
type Evaluator struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
	now    func() time.Time
	loc    *time.Location
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock replaces time.Now. Used to pin windows in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		e.now = now
	}
}

// WithLocation sets the time zone whose midnight opens each window.
func WithLocation(loc *time.Location) Option {
	return func(e *Evaluator) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// New creates an Evaluator reading through uow.
func New(uow repository.UnitOfWork, logger *slog.Logger, opts ...Option) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Evaluator{
		uow:    uow,
		logger: logger.With("service", "limit"),
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Check loads the account and evaluates the limits that apply to txType.
// A missing account yields an error matching domain.ErrNotFound.
func (e *Evaluator) Check(
	ctx context.Context,
	accountID uuid.UUID,
	txType account.TransactionType,
	amount decimal.Decimal,
) (Result, error) {
	repo, err := e.uow.AccountRepository()
	if err != nil {
		return Result{}, err
	}
	acc, err := repo.Get(ctx, accountID)
	if errors.Is(err, domain.ErrNotFound) {
		return Result{}, account.ErrAccountNotFound
	}
	if err != nil {
		return Result{}, err
	}
	return e.CheckWith(ctx, e.uow, acc, txType, amount)
}

// CheckWith evaluates limits for an already loaded account, aggregating
// through uow. Inside a unit of work this sees the unit's own view of the
// ledger.
//
// WITHDRAWAL runs the daily withdrawal sum, TRANSFER the daily then the
// monthly transfer sum, and every type finishes with the daily count. The
// first rejection short-circuits.
func (e *Evaluator) CheckWith(
	ctx context.Context,
	uow repository.UnitOfWork,
	acc *account.Account,
	txType account.TransactionType,
	amount decimal.Decimal,
) (Result, error) {
	txRepo, err := uow.TransactionRepository()
	if err != nil {
		return Result{}, err
	}
	now := e.now().In(e.loc)
	day := StartOfDay(now)

	switch txType {
	case account.TransactionTypeWithdrawal:
		res, err := e.checkSum(ctx, txRepo, acc.ID, txType, day, amount, acc.DailyWithdrawalLimit, WindowDailyWithdrawal)
		if err != nil || !res.Allowed {
			return e.done(acc.ID, txType, res, err)
		}
	case account.TransactionTypeTransfer:
		res, err := e.checkSum(ctx, txRepo, acc.ID, txType, day, amount, acc.DailyTransferLimit, WindowDailyTransfer)
		if err != nil || !res.Allowed {
			return e.done(acc.ID, txType, res, err)
		}
		res, err = e.checkSum(ctx, txRepo, acc.ID, txType, StartOfMonth(now), amount, acc.MonthlyTransferLimit, WindowMonthlyTransfer)
		if err != nil || !res.Allowed {
			return e.done(acc.ID, txType, res, err)
		}
	case account.TransactionTypeDeposit:
	default:
		return Result{}, account.ErrUnknownTransactionType
	}

	res, err := e.checkCount(ctx, txRepo, acc, day)
	return e.done(acc.ID, txType, res, err)
}

func (e *Evaluator) checkSum(
	ctx context.Context,
	txRepo repository.TransactionRepository,
	accountID uuid.UUID,
	txType account.TransactionType,
	since time.Time,
	amount, limit decimal.Decimal,
	window Window,
) (Result, error) {
	used, err := txRepo.SumCompleted(ctx, repository.SumFilter{
		AccountID: accountID,
		Type:      txType,
		Since:     since,
	})
	if err != nil {
		return Result{}, fmt.Errorf("aggregate %s usage: %w", window, err)
	}
	res := Result{
		Allowed:      true,
		Window:       window,
		CurrentUsage: used,
		Limit:        limit,
		Requested:    amount,
	}
	if used.Add(amount).GreaterThan(limit) {
		res.Allowed = false
		res.Reason = fmt.Sprintf("%s limit exceeded. Limit: %s, Current: %s, Requested: %s",
			windowLabel(window), money.Format(limit), money.Format(used), money.Format(amount))
	}
	return res, nil
}

// checkCount rejects once the existing count reaches the cap, before the
// new transaction is added.
func (e *Evaluator) checkCount(
	ctx context.Context,
	txRepo repository.TransactionRepository,
	acc *account.Account,
	since time.Time,
) (Result, error) {
	n, err := txRepo.CountCompleted(ctx, repository.CountFilter{
		AccountID: acc.ID,
		Since:     since,
	})
	if err != nil {
		return Result{}, fmt.Errorf("count daily transactions: %w", err)
	}
	max := int64(acc.MaxTransactionsPerDay)
	res := Result{
		Allowed:      true,
		Window:       WindowDailyCount,
		CurrentUsage: decimal.NewFromInt(n),
		Limit:        decimal.NewFromInt(max),
		Requested:    decimal.NewFromInt(1),
	}
	if n >= max {
		res.Allowed = false
		res.Reason = fmt.Sprintf("Daily transaction limit reached. Maximum: %d, Current: %d", max, n)
	}
	return res, nil
}

func (e *Evaluator) done(accountID uuid.UUID, txType account.TransactionType, res Result, err error) (Result, error) {
	if err != nil {
		e.logger.Error("limit check failed", "accountID", accountID, "type", txType, "error", err)
		return Result{}, err
	}
	if !res.Allowed {
		e.logger.Info("limit check rejected",
			"accountID", accountID,
			"type", txType,
			"window", res.Window,
		)
	}
	return res, nil
}

func windowLabel(w Window) string {
	switch w {
	case WindowDailyWithdrawal:
		return "Daily withdrawal"
	case WindowDailyTransfer:
		return "Daily transfer"
	case WindowMonthlyTransfer:
		return "Monthly transfer"
	}
	return string(w)
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns midnight of the first day of t's month in t's location.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
