// Package initializer builds the ledger's infrastructure from configuration.
package initializer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/ledger/infra"
	infraeventbus "github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/infra/memory"
	infrarepository "github.com/amirasaad/ledger/infra/repository"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/eventbus"
)

const memoryURL = "memory://"

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(ctx context.Context, cfg *config.App) (deps *app.Deps, err error) {
	deps = &app.Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	ledger := cfg.Ledger
	if ledger == nil {
		ledger = &config.Ledger{Timezone: "Local", StrictLimits: true}
	}
	deps.Location, err = loadLocation(ledger.Timezone)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			closeAll(logger, deps.Closers)
		}
	}()

	if err = initStore(ctx, cfg, ledger.UnitTimeout, deps); err != nil {
		logger.Error("Failed to initialize ledger store", "error", err)
		return nil, err
	}

	bus, closer, err := newEventBus(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		deps.Closers = append(deps.Closers, closer)
	}
	deps.EventBus = bus

	logger.Info("Dependencies initialized",
		"store", storeKind(cfg.DB),
		"event_bus", eventBusDriver(cfg),
		"timezone", deps.Location.String(),
	)
	return deps, nil
}

func initStore(ctx context.Context, cfg *config.App, timeout time.Duration, deps *app.Deps) error {
	if cfg.DB == nil || cfg.DB.Url == "" || cfg.DB.Url == memoryURL {
		store := memory.New(memory.WithTimeout(timeout))
		deps.Uow = store
		deps.Store = store
		return nil
	}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	deps.Closers = append(deps.Closers, sqlDB)

	if cfg.DB.AutoMigrate {
		if err := infrarepository.Migrate(ctx, db); err != nil {
			return err
		}
	}
	uow := infrarepository.NewUoW(db, infrarepository.WithTimeout(timeout))
	deps.Uow = uow
	deps.Store = uow
	return nil
}

func newEventBus(ctx context.Context, cfg *config.App, logger *slog.Logger) (eventbus.Bus, io.Closer, error) {
	switch eventBusDriver(cfg) {
	case "redis":
		if cfg.Redis == nil {
			return nil, nil, fmt.Errorf("redis event bus: REDIS_URL is not set")
		}
		bus, err := infraeventbus.NewWithRedis(ctx, cfg.Redis.URL, cfg.EventBus.Stream, cfg.EventBus.Group, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Redis event bus: %w", err)
		}
		return bus, bus, nil
	case "kafka":
		if cfg.Kafka == nil {
			return nil, nil, fmt.Errorf("kafka event bus: KAFKA_BROKERS is not set")
		}
		bus, err := infraeventbus.NewWithKafka(ctx, cfg.Kafka.Brokers, &infraeventbus.KafkaEventBusConfig{
			GroupID:     cfg.Kafka.GroupID,
			TopicPrefix: cfg.Kafka.Topic,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Kafka event bus: %w", err)
		}
		return bus, bus, nil
	case "memory":
		return infraeventbus.NewWithMemory(logger), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown event bus driver %q", cfg.EventBus.Driver)
	}
}

func eventBusDriver(cfg *config.App) string {
	if cfg.EventBus == nil || cfg.EventBus.Driver == "" {
		return "memory"
	}
	return strings.ToLower(cfg.EventBus.Driver)
}

func storeKind(db *config.DB) string {
	if db == nil || db.Url == "" || db.Url == memoryURL {
		return "memory"
	}
	if strings.HasPrefix(db.Url, "sqlite://") {
		return "sqlite"
	}
	return "postgres"
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

func closeAll(logger *slog.Logger, closers []io.Closer) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Warn("failed to close dependency", "error", err)
		}
	}
}
