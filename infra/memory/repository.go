package memory

import (
	"context"
	"sort"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type accountRepository struct {
	session
}

func (r *accountRepository) Create(ctx context.Context, acc *account.Account) error {
	return r.write(ctx, func(st *state) error {
		if _, ok := st.accounts[acc.ID]; ok {
			return domain.ErrAlreadyExists
		}
		if _, ok := st.byNumber[acc.AccountNumber]; ok {
			return domain.ErrAlreadyExists
		}
		st.accounts[acc.ID] = acc.Clone()
		st.byNumber[acc.AccountNumber] = acc.ID
		return nil
	})
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var out *account.Account
	err := r.read(ctx, func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = a.Clone()
		return nil
	})
	return out, err
}

func (r *accountRepository) GetByNumber(ctx context.Context, number string) (*account.Account, error) {
	var out *account.Account
	err := r.read(ctx, func(st *state) error {
		id, ok := st.byNumber[number]
		if !ok {
			return domain.ErrNotFound
		}
		out = st.accounts[id].Clone()
		return nil
	})
	return out, err
}

// GetForUpdate is Get: a unit already holds the whole store.
func (r *accountRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return r.Get(ctx, id)
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	var out []*account.Account
	err := r.read(ctx, func(st *state) error {
		for _, a := range st.accounts {
			if a.UserID == userID {
				out = append(out, a.Clone())
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}

func (r *accountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return r.write(ctx, func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return domain.ErrNotFound
		}
		a.Balance = balance
		a.UpdatedAt = time.Now()
		return nil
	})
}

type transactionRepository struct {
	session
}

func (r *transactionRepository) Create(ctx context.Context, tx *account.Transaction) error {
	return r.write(ctx, func(st *state) error {
		for _, existing := range st.txs {
			if existing.ID == tx.ID {
				return domain.ErrAlreadyExists
			}
		}
		st.txs = append(st.txs, tx.Clone())
		return nil
	})
}

func (r *transactionRepository) SumCompleted(ctx context.Context, f repository.SumFilter) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.read(ctx, func(st *state) error {
		for _, tx := range st.txs {
			if tx.Status != account.TransactionStatusCompleted || tx.Type != f.Type {
				continue
			}
			if tx.SourceAccountID == nil || *tx.SourceAccountID != f.AccountID {
				continue
			}
			if tx.CreatedAt.Before(f.Since) {
				continue
			}
			total = total.Add(tx.Amount)
		}
		return nil
	})
	return total, err
}

func (r *transactionRepository) CountCompleted(ctx context.Context, f repository.CountFilter) (int64, error) {
	var n int64
	err := r.read(ctx, func(st *state) error {
		for _, tx := range st.txs {
			if tx.Status == account.TransactionStatusCompleted && tx.Touches(f.AccountID) && !tx.CreatedAt.Before(f.Since) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Transaction, error) {
	out := []*account.Transaction{}
	err := r.read(ctx, func(st *state) error {
		for _, tx := range st.txs {
			if tx.Touches(accountID) {
				out = append(out, tx.Clone())
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}
