package repository

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const sqliteDialect = "sqlite"

// Amount is a money column. Postgres keeps it as numeric(20,2). SQLite gives
// numeric columns floating point affinity, so there the exact decimal text is
// stored instead.
type Amount struct {
	decimal.Decimal
}

func newAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// GormDBDataType picks the column type for the connected dialect.
func (Amount) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if isSQLite(db) {
		return "text"
	}
	return "numeric(20,2)"
}

func isSQLite(db *gorm.DB) bool {
	return db.Dialector != nil && db.Dialector.Name() == sqliteDialect
}
