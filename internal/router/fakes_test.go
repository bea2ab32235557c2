package router

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"clarity/internal/model"
	"clarity/internal/repository"
)

// memoryUsers is an in-memory UserRepository.
type memoryUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[uuid.UUID]model.User{}}
}

func (r *memoryUsers) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt, user.UpdatedAt = time.Now(), time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUsers) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *memoryUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// memoryTransactions is an in-memory TransactionRepository with the same
// ownership rules as the SQL implementation.
type memoryTransactions struct {
	mu  sync.Mutex
	txs map[uuid.UUID]model.Transaction
}

func newMemoryTransactions() *memoryTransactions {
	return &memoryTransactions{txs: map[uuid.UUID]model.Transaction{}}
}

func (r *memoryTransactions) Create(_ context.Context, tx *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt, tx.UpdatedAt = time.Now(), time.Now()
	r.txs[tx.ID] = *tx
	return nil
}

func (r *memoryTransactions) FindByIDForUser(_ context.Context, userID, id uuid.UUID) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok || tx.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &tx, nil
}

func (r *memoryTransactions) ListByUser(_ context.Context, userID uuid.UUID, filter repository.TransactionFilter) ([]model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Transaction, 0)
	for _, tx := range r.txs {
		if tx.UserID != userID {
			continue
		}
		if filter.Category != "" && tx.Category != filter.Category {
			continue
		}
		if filter.StartDate != nil && tx.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && tx.Date.After(*filter.EndDate) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryTransactions) UpdateForUser(_ context.Context, userID, id uuid.UUID, apply func(tx *model.Transaction)) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok || tx.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	apply(&tx)
	tx.ID, tx.UserID, tx.UpdatedAt = id, userID, time.Now()
	r.txs[id] = tx
	return &tx, nil
}

func (r *memoryTransactions) DeleteForUser(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok || tx.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.txs, id)
	return nil
}

func (r *memoryTransactions) SumByKind(_ context.Context, userID uuid.UUID) ([]repository.KindTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byKind := map[model.Kind]*repository.KindTotal{}
	for _, tx := range r.txs {
		if tx.UserID != userID {
			continue
		}
		t, ok := byKind[tx.Type]
		if !ok {
			t = &repository.KindTotal{Kind: tx.Type, Total: decimal.Zero}
			byKind[tx.Type] = t
		}
		t.Total = t.Total.Add(tx.Amount)
		t.Count++
	}
	out := make([]repository.KindTotal, 0, len(byKind))
	for _, t := range byKind {
		out = append(out, *t)
	}
	return out, nil
}

func (r *memoryTransactions) SumByCategory(_ context.Context, userID uuid.UUID) ([]model.CategoryTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	type key struct {
		kind     model.Kind
		category string
	}
	totals := map[key]*model.CategoryTotal{}
	for _, tx := range r.txs {
		if tx.UserID != userID {
			continue
		}
		k := key{tx.Type, tx.Category}
		t, ok := totals[k]
		if !ok {
			t = &model.CategoryTotal{Type: tx.Type, Category: tx.Category, Total: decimal.Zero}
			totals[k] = t
		}
		t.Total = t.Total.Add(tx.Amount)
		t.Count++
	}
	out := make([]model.CategoryTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// memoryTokenStore keeps revoked token IDs in a map.
type memoryTokenStore struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (s *memoryTokenStore) RevokeToken(_ context.Context, tokenID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = true
	return nil
}

func (s *memoryTokenStore) IsTokenRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[tokenID], nil
}
