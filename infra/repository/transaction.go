package repository

import (
	"context"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/domain/money"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository returns a gorm-backed repository.TransactionRepository.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *account.Transaction) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(toTransactionModel(tx)).Error
	})
}

// SumCompleted adds up matching amounts. SQLite cannot sum text amounts
// without a floating point hop, so there the rows are added in Go.
func (r *transactionRepository) SumCompleted(ctx context.Context, f repository.SumFilter) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("source_account_id = ? AND type = ? AND status = ? AND created_at >= ?",
			f.AccountID, string(f.Type), string(account.TransactionStatusCompleted), f.Since.UTC())

	total := decimal.Zero
	err := WrapError(func() error {
		if !isSQLite(r.db) {
			return query.Select("COALESCE(SUM(amount), 0)").Row().Scan(&total)
		}
		rows, err := query.Select("amount").Rows()
		if err != nil {
			return err
		}
		defer rows.Close() //nolint:errcheck
		for rows.Next() {
			var amount decimal.Decimal
			if err := rows.Scan(&amount); err != nil {
				return err
			}
			total = total.Add(amount)
		}
		return rows.Err()
	})
	if err != nil {
		return decimal.Zero, err
	}
	return total.Round(money.Scale), nil
}

func (r *transactionRepository) CountCompleted(ctx context.Context, f repository.CountFilter) (int64, error) {
	var n int64
	err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Model(&Transaction{}).
			Where("(source_account_id = ? OR destination_account_id = ?) AND status = ? AND created_at >= ?",
				f.AccountID, f.AccountID, string(account.TransactionStatusCompleted), f.Since.UTC()).
			Count(&n).Error
	})
	return n, err
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Transaction, error) {
	var rows []Transaction
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Where("source_account_id = ? OR destination_account_id = ?", accountID, accountID).
			Order("created_at DESC").
			Order("id DESC").
			Find(&rows).Error
	}); err != nil {
		return nil, err
	}
	out := make([]*account.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, toTransactionDomain(&rows[i]))
	}
	return out, nil
}
