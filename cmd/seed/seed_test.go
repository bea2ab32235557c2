package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity/internal/model"
	"clarity/internal/repository"
	"clarity/internal/service"
)

type recordingService struct {
	service.TransactionService
	existing []model.Transaction
	inputs   []service.TransactionInput
}

func (s *recordingService) List(_ context.Context, _ uuid.UUID, _ repository.TransactionFilter) ([]model.Transaction, error) {
	return s.existing, nil
}

func (s *recordingService) Create(_ context.Context, userID uuid.UUID, in service.TransactionInput) (*model.Transaction, error) {
	s.inputs = append(s.inputs, in)
	return &model.Transaction{ID: uuid.New(), UserID: userID}, nil
}

type keywordResolver struct{}

func (keywordResolver) Resolve(_ context.Context, description string, _ decimal.Decimal, kind model.Kind) model.Category {
	if kind == model.KindExpense && strings.Contains(strings.ToLower(description), "uber") {
		return model.CategoryTransportation
	}
	return model.CategoryOther
}

func TestLoadFixture_Embedded(t *testing.T) {
	entries, err := loadFixture(bytes.NewReader(defaultFixture))

	require.NoError(t, err)
	assert.NotEmpty(t, entries)
	for _, e := range entries {
		assert.True(t, model.Kind(e.Type).Valid(), e.Description)
		if e.Category != "" {
			assert.True(t, model.IsCategoryOf(model.Kind(e.Type), e.Category), e.Category)
		}
	}
}

func TestLoadFixture_Malformed(t *testing.T) {
	_, err := loadFixture(strings.NewReader(`{"type":`))

	assert.Error(t, err)
}

func TestSeedTransactions(t *testing.T) {
	entries := []SeedTransaction{
		{Type: "expense", Amount: "23.40", Category: "", Description: "Uber ride", Date: "2024-03-08"},
		{Type: "expense", Amount: "12.50", Category: "Food & Dining", Description: "Lunch", Date: "2024-03-05"},
		{Type: "income", Amount: "450", Category: "", Description: "Side project", Date: "2024-03-06"},
		{Type: "expense", Amount: "abc", Category: "Shopping", Description: "bad amount", Date: "2024-03-06"},
		{Type: "expense", Amount: "1", Category: "Shopping", Description: "bad date", Date: "March 6"},
	}
	svc := &recordingService{}

	res, err := seedTransactions(context.Background(), svc, keywordResolver{}, uuid.New(), entries, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, 3, res.created)
	assert.Equal(t, 2, res.categorized)
	assert.Equal(t, 2, res.skipped)
	require.Len(t, svc.inputs, 3)
	assert.Equal(t, "Transportation", svc.inputs[0].Category)
	assert.Equal(t, "Food & Dining", svc.inputs[1].Category)
	assert.Equal(t, "Other", svc.inputs[2].Category)
	assert.Equal(t, "23.4", svc.inputs[0].Amount.String())
}

func TestSeedTransactions_SkipsWhenAlreadySeeded(t *testing.T) {
	userID := uuid.New()
	svc := &recordingService{existing: []model.Transaction{{ID: uuid.New(), UserID: userID}}}
	entries := []SeedTransaction{
		{Type: "expense", Amount: "12.50", Category: "Food & Dining", Description: "Lunch", Date: "2024-03-05"},
	}

	res, err := seedTransactions(context.Background(), svc, keywordResolver{}, userID, entries, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, 1, res.existing)
	assert.Zero(t, res.created)
	assert.Empty(t, svc.inputs)
}

func TestReportToken(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, reportToken(&out, "demo@clarity.app", "header.payload.sig"))

	assert.Equal(t, "demo user demo@clarity.app token: header.payload.sig\n", out.String())
}
