package repository

import (
	"context"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository returns a gorm-backed repository.AccountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(toAccountModel(a)).Error
	})
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	}); err != nil {
		return nil, err
	}
	return toAccountDomain(&m), nil
}

func (r *accountRepository) GetByNumber(ctx context.Context, number string) (*account.Account, error) {
	var m Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).First(&m, "account_number = ?", number).Error
	}); err != nil {
		return nil, err
	}
	return toAccountDomain(&m), nil
}

// GetForUpdate issues SELECT ... FOR UPDATE. The lock is released when the
// enclosing transaction ends, so it must be called on a repository obtained
// inside UoW.Do.
func (r *accountRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "id = ?", id).Error
	}); err != nil {
		return nil, err
	}
	return toAccountDomain(&m), nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	var rows []Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Order("id DESC").
			Find(&rows).Error
	}); err != nil {
		return nil, err
	}
	out := make([]*account.Account, 0, len(rows))
	for i := range rows {
		out = append(out, toAccountDomain(&rows[i]))
	}
	return out, nil
}

func (r *accountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return WrapError(func() error {
		res := r.db.WithContext(ctx).
			Model(&Account{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"balance":    newAmount(balance),
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
