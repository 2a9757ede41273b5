package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates the ledger tables and their indexes.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate ledger schema: %w", err)
	}
	return nil
}
