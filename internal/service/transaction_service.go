package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "clarity/internal/errors"
	"clarity/internal/events"
	"clarity/internal/model"
	"clarity/internal/repository"
)

// TransactionInput carries the caller-supplied fields for create and update.
// Nil pointers mean the field was absent from the request.
type TransactionInput struct {
	Type        string
	Amount      *decimal.Decimal
	Category    string
	Description string
	Date        *time.Time
}

// TransactionService enforces validation and per-user isolation around the transaction store.
type TransactionService interface {
	List(ctx context.Context, userID uuid.UUID, filter repository.TransactionFilter) ([]model.Transaction, error)
	Create(ctx context.Context, userID uuid.UUID, in TransactionInput) (*model.Transaction, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Transaction, error)
	Update(ctx context.Context, userID, id uuid.UUID, in TransactionInput) (*model.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Summarize(ctx context.Context, userID uuid.UUID) (*model.Summary, error)
	SummarizeByCategory(ctx context.Context, userID uuid.UUID) ([]model.CategoryTotal, error)
}

type transactionService struct {
	repo      repository.TransactionRepository
	publisher events.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTransactionService creates a new transaction service. A nil publisher disables events.
func NewTransactionService(repo repository.TransactionRepository, publisher events.Publisher, logger zerolog.Logger) TransactionService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &transactionService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

type validatedInput struct {
	kind        model.Kind
	amount      decimal.Decimal
	category    string
	description string
	date        *time.Time
}

func validateInput(in TransactionInput, requireDate bool) (*validatedInput, error) {
	kind := model.Kind(strings.TrimSpace(in.Type))
	switch {
	case kind == "":
		return nil, apperrors.NewValidationError("type", "is required")
	case !kind.Valid():
		return nil, apperrors.NewValidationError("type", "must be income or expense")
	}

	if in.Amount == nil {
		return nil, apperrors.NewValidationError("amount", "is required")
	}
	if in.Amount.IsNegative() {
		return nil, apperrors.NewValidationError("amount", "must not be negative")
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		return nil, apperrors.NewValidationError("category", "is required")
	}

	if requireDate && in.Date == nil {
		return nil, apperrors.NewValidationError("date", "is required")
	}

	v := &validatedInput{
		kind:        kind,
		amount:      in.Amount.Round(2),
		category:    category,
		description: strings.TrimSpace(in.Description),
	}
	if in.Date != nil {
		d := in.Date.UTC()
		v.date = &d
	}
	return v, nil
}

func (s *transactionService) List(ctx context.Context, userID uuid.UUID, filter repository.TransactionFilter) ([]model.Transaction, error) {
	txs, err := s.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *transactionService) Create(ctx context.Context, userID uuid.UUID, in TransactionInput) (*model.Transaction, error) {
	v, err := validateInput(in, false)
	if err != nil {
		return nil, err
	}

	tx := &model.Transaction{
		UserID:      userID,
		Type:        v.kind,
		Amount:      v.amount,
		Category:    v.category,
		Description: v.description,
		Date:        s.now().UTC(),
	}
	if v.date != nil {
		tx.Date = *v.date
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("transaction_id", tx.ID.String()).
		Str("type", string(tx.Type)).
		Msg("transaction created")
	s.publish(ctx, events.TransactionCreated, tx)
	return tx, nil
}

func (s *transactionService) Get(ctx context.Context, userID, id uuid.UUID) (*model.Transaction, error) {
	tx, err := s.repo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, mapNotFound(err, "get transaction")
	}
	return tx, nil
}

func (s *transactionService) Update(ctx context.Context, userID, id uuid.UUID, in TransactionInput) (*model.Transaction, error) {
	v, err := validateInput(in, true)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.UpdateForUser(ctx, userID, id, func(tx *model.Transaction) {
		tx.Type = v.kind
		tx.Amount = v.amount
		tx.Category = v.category
		tx.Description = v.description
		tx.Date = *v.date
	})
	if err != nil {
		return nil, mapNotFound(err, "update transaction")
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("transaction_id", id.String()).
		Msg("transaction updated")
	s.publish(ctx, events.TransactionUpdated, tx)
	return tx, nil
}

func (s *transactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.DeleteForUser(ctx, userID, id); err != nil {
		return mapNotFound(err, "delete transaction")
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("transaction_id", id.String()).
		Msg("transaction deleted")
	s.publish(ctx, events.TransactionDeleted, &model.Transaction{ID: id, UserID: userID})
	return nil
}

// Summarize computes totals from a single aggregate read. It is never cached.
func (s *transactionService) Summarize(ctx context.Context, userID uuid.UUID) (*model.Summary, error) {
	totals, err := s.repo.SumByKind(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("summarize transactions: %w", err)
	}

	summary := &model.Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, t := range totals {
		switch t.Kind {
		case model.KindIncome:
			summary.TotalIncome = summary.TotalIncome.Add(t.Total)
		case model.KindExpense:
			summary.TotalExpense = summary.TotalExpense.Add(t.Total)
		}
		summary.TransactionCount += t.Count
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary, nil
}

func (s *transactionService) SummarizeByCategory(ctx context.Context, userID uuid.UUID) ([]model.CategoryTotal, error) {
	totals, err := s.repo.SumByCategory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("summarize categories: %w", err)
	}
	return totals, nil
}

// publish never fails the caller; the change is already committed.
func (s *transactionService) publish(ctx context.Context, event string, tx *model.Transaction) {
	if err := s.publisher.PublishTransaction(ctx, events.NewTransactionEvent(event, tx)); err != nil {
		s.logger.Warn().Err(err).
			Str("event", event).
			Str("transaction_id", tx.ID.String()).
			Msg("failed to publish transaction event")
	}
}

func mapNotFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrTransactionNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
