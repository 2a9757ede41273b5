// Package app wires the ledger services from their infrastructure dependencies.
package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/repository"
	accountsvc "github.com/amirasaad/ledger/pkg/service/account"
	"github.com/amirasaad/ledger/pkg/service/audit"
	"github.com/amirasaad/ledger/pkg/service/limit"
	"github.com/amirasaad/ledger/pkg/service/transaction"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps contains the infrastructure the services are built from.
type Deps struct {
	Uow      repository.UnitOfWork
	EventBus eventbus.Bus
	Logger   *slog.Logger
	// Location anchors the daily and monthly limit windows.
	Location *time.Location
	// Store is pinged by the health endpoint.
	Store Pinger
	// Closers are released on shutdown, in order.
	Closers []io.Closer
}

// App holds the service graph.
type App struct {
	Deps               *Deps
	Config             *config.App
	LimitEvaluator     *limit.Evaluator
	TransactionService *transaction.Service
	QueryService       *transaction.QueryService
	AccountService     *accountsvc.Service
	Audit              *audit.Subscriber
}

// New builds the services and registers the event subscribers.
func New(deps *Deps, cfg *config.App) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	ledger := cfg.Ledger
	if ledger == nil {
		ledger = &config.Ledger{StrictLimits: true}
	}

	a := &App{Deps: deps, Config: cfg}
	a.LimitEvaluator = limit.New(deps.Uow, deps.Logger, limit.WithLocation(deps.Location))
	a.TransactionService = transaction.New(
		deps.Uow,
		a.LimitEvaluator,
		deps.EventBus,
		deps.Logger,
		transaction.WithStrictLimits(ledger.StrictLimits),
	)
	a.QueryService = transaction.NewQueryService(deps.Uow, deps.Logger)
	a.AccountService = accountsvc.NewService(
		deps.Uow,
		deps.Logger,
		accountsvc.WithDefaultLimits(defaultLimits(ledger)),
		accountsvc.WithDefaultOverdraft(ledger.DefaultOverdraftLimit),
	)
	a.setupEventBus()
	return a
}

// Close releases the closers registered in Deps.
func (a *App) Close() {
	for _, c := range a.Deps.Closers {
		if err := c.Close(); err != nil {
			a.Deps.Logger.Warn("failed to close dependency", "error", err)
		}
	}
}

func defaultLimits(l *config.Ledger) account.Limits {
	limits := account.DefaultLimits()
	if !l.DefaultDailyWithdrawalLimit.IsZero() {
		limits.DailyWithdrawal = l.DefaultDailyWithdrawalLimit
	}
	if !l.DefaultDailyTransferLimit.IsZero() {
		limits.DailyTransfer = l.DefaultDailyTransferLimit
	}
	if !l.DefaultMonthlyTransferLimit.IsZero() {
		limits.MonthlyTransfer = l.DefaultMonthlyTransferLimit
	}
	if l.DefaultMaxTransactionsPerDay > 0 {
		limits.MaxTransactionsPerDay = l.DefaultMaxTransactionsPerDay
	}
	return limits
}
