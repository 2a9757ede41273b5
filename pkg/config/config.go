package config

import (
	"time"

	"github.com/shopspring/decimal"
)

type DB struct {
	Url             string        `envconfig:"URL" default:"memory://"`
	AutoMigrate     bool          `envconfig:"AUTO_MIGRATE" default:"true"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"1h"`
}

type Jwt struct {
	Secret string `envconfig:"SECRET" required:"true"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
}

type Redis struct {
	URL string `envconfig:"URL" default:"redis://localhost:6379/0"`
}

type Kafka struct {
	Brokers string `envconfig:"BROKERS" default:"localhost:9092"`
	Topic   string `envconfig:"TOPIC" default:"ledger.events"`
	GroupID string `envconfig:"GROUP_ID" default:"ledger"`
}

// EventBus selects where domain events go: memory, redis or kafka.
type EventBus struct {
	Driver string `envconfig:"DRIVER" default:"memory"`
	Stream string `envconfig:"STREAM" default:"ledger:events"`
	Group  string `envconfig:"GROUP" default:"ledger"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Ledger holds the transaction engine settings and the limits given to new accounts.
type Ledger struct {
	UnitTimeout                  time.Duration   `envconfig:"UNIT_TIMEOUT" default:"5s"`
	StrictLimits                 bool            `envconfig:"STRICT_LIMITS" default:"true"`
	Timezone                     string          `envconfig:"TIMEZONE" default:"Local"`
	DefaultDailyWithdrawalLimit  decimal.Decimal `envconfig:"DEFAULT_DAILY_WITHDRAWAL_LIMIT" default:"1000.00"`
	DefaultDailyTransferLimit    decimal.Decimal `envconfig:"DEFAULT_DAILY_TRANSFER_LIMIT" default:"5000.00"`
	DefaultMonthlyTransferLimit  decimal.Decimal `envconfig:"DEFAULT_MONTHLY_TRANSFER_LIMIT" default:"20000.00"`
	DefaultMaxTransactionsPerDay int             `envconfig:"DEFAULT_MAX_TRANSACTIONS_PER_DAY" default:"50"`
	DefaultOverdraftLimit        decimal.Decimal `envconfig:"DEFAULT_OVERDRAFT_LIMIT" default:"0"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[ledger]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Auth      *Auth      `envconfig:"AUTH"`
	Redis     *Redis     `envconfig:"REDIS"`
	Kafka     *Kafka     `envconfig:"KAFKA"`
	EventBus  *EventBus  `envconfig:"EVENT_BUS"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Ledger    *Ledger    `envconfig:"LEDGER"`
}
