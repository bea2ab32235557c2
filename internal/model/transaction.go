package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Amounts travel as JSON numbers (12.5), not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Kind is the polarity of a transaction.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is income or expense.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is a single income or expense entry owned by exactly one user.
type Transaction struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID       `json:"userId" gorm:"type:char(36);not null;index:idx_transactions_user_date,priority:1;index:idx_transactions_user_category,priority:1"`
	Type        Kind            `json:"type" gorm:"column:type;type:varchar(10);not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Category    string          `json:"category" gorm:"size:100;not null;index:idx_transactions_user_category,priority:2"`
	Description string          `json:"description" gorm:"size:500;not null;default:''"`
	Date        time.Time       `json:"date" gorm:"not null;index:idx_transactions_user_date,priority:2,sort:desc"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Summary is the per-user aggregate. It is derived on every request and never stored.
type Summary struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int64           `json:"transactionCount"`
}

// CategoryTotal aggregates one category of one kind for a user.
type CategoryTotal struct {
	Type     Kind            `json:"type"`
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}
