package repository

import (
	"time"

	"github.com/google/uuid"
)

// Account represents an account record in the database.
type Account struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountNumber         string    `gorm:"type:varchar(34);uniqueIndex;not null"`
	UserID                uuid.UUID `gorm:"type:uuid;index;not null"`
	Type                  string    `gorm:"type:varchar(16);not null"`
	Status                string    `gorm:"type:varchar(16);not null"`
	Balance               Amount    `gorm:"not null"`
	OverdraftLimit        Amount    `gorm:"not null"`
	DailyWithdrawalLimit  Amount    `gorm:"not null"`
	DailyTransferLimit    Amount    `gorm:"not null"`
	MonthlyTransferLimit  Amount    `gorm:"not null"`
	MaxTransactionsPerDay int       `gorm:"not null"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Transaction represents a persisted ledger transaction. Rows are never updated.
type Transaction struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Type                 string     `gorm:"type:varchar(16);not null"`
	Amount               Amount     `gorm:"not null"`
	Description          *string    `gorm:"type:text"`
	Status               string     `gorm:"type:varchar(16);not null"`
	SourceAccountID      *uuid.UUID `gorm:"type:uuid;index:idx_transactions_source_created,priority:1"`
	DestinationAccountID *uuid.UUID `gorm:"type:uuid;index:idx_transactions_destination_created,priority:1"`
	CreatedAt            time.Time  `gorm:"index:idx_transactions_source_created,priority:2;index:idx_transactions_destination_created,priority:2"`
}

// Models lists every table the ledger owns, in migration order.
func Models() []any {
	return []any{&Account{}, &Transaction{}}
}
