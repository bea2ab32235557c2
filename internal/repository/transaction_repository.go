package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clarity/internal/model"
)

// TransactionFilter narrows a listing. Zero values mean "no constraint".
type TransactionFilter struct {
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

// KindTotal is one row of the per-kind aggregate.
type KindTotal struct {
	Kind  model.Kind      `gorm:"column:type"`
	Total decimal.Decimal `gorm:"column:total"`
	Count int64           `gorm:"column:count"`
}

// TransactionRepository defines transaction persistence operations.
// Every read and write is keyed by the owning user; a row owned by someone
// else is reported as gorm.ErrRecordNotFound.
type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*model.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]model.Transaction, error)
	UpdateForUser(ctx context.Context, userID, id uuid.UUID, apply func(tx *model.Transaction)) (*model.Transaction, error)
	DeleteForUser(ctx context.Context, userID, id uuid.UUID) error
	SumByKind(ctx context.Context, userID uuid.UUID) ([]KindTotal, error)
	SumByCategory(ctx context.Context, userID uuid.UUID) ([]model.CategoryTotal, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create inserts a new transaction.
func (r *transactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(tx).Error
}

// FindByIDForUser finds a transaction by ID owned by userID.
func (r *transactionRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*model.Transaction, error) {
	var tx model.Transaction
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

// ListByUser lists userID's transactions, newest first.
func (r *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]model.Transaction, error) {
	txs := make([]model.Transaction, 0)
	if err := r.listQuery(r.db.WithContext(ctx), userID, filter).Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *transactionRepository) listQuery(db *gorm.DB, userID uuid.UUID, filter TransactionFilter) *gorm.DB {
	q := db.Model(&model.Transaction{}).Where("user_id = ?", userID)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.StartDate != nil {
		q = q.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("date <= ?", *filter.EndDate)
	}
	return q.Order("date DESC").Order("created_at DESC")
}

// UpdateForUser locks the row owned by userID, applies the mutation and saves it
// inside one database transaction.
func (r *transactionRepository) UpdateForUser(ctx context.Context, userID, id uuid.UUID, apply func(tx *model.Transaction)) (*model.Transaction, error) {
	var updated model.Transaction
	err := r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&updated).Error; err != nil {
			return err
		}
		apply(&updated)
		// ownership and identity are immutable
		updated.ID = id
		updated.UserID = userID
		return db.Omit(clause.Associations).Save(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteForUser hard-deletes a transaction owned by userID.
func (r *transactionRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Transaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SumByKind totals userID's transactions per kind in a single aggregate query.
func (r *transactionRepository) SumByKind(ctx context.Context, userID uuid.UUID) ([]KindTotal, error) {
	var totals []KindTotal
	if err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("type").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// SumByCategory totals userID's transactions per kind and category.
func (r *transactionRepository) SumByCategory(ctx context.Context, userID uuid.UUID) ([]model.CategoryTotal, error) {
	totals := make([]model.CategoryTotal, 0)
	if err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("type, category, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("type, category").
		Order("type ASC, total DESC, category ASC").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}
