package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"clarity/internal/model"
)

func TestSuggestionService_Suggest(t *testing.T) {
	tests := []struct {
		name     string
		resolved model.Category
	}{
		{name: "confident answer", resolved: model.CategoryTransportation},
		{name: "fallback answer", resolved: model.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := new(MockResolver)
			resolver.On("Resolve", mock.Anything, "Uber ride", mock.Anything, model.KindExpense).Return(tt.resolved)
			svc := NewSuggestionService(resolver, nil, time.Hour)

			got := svc.Suggest(context.Background(), "Uber ride", decimal.NewFromInt(20), model.KindExpense)

			assert.Equal(t, tt.resolved, got)
			resolver.AssertNumberOfCalls(t, "Resolve", 1)
		})
	}
}

func TestSuggestionKey(t *testing.T) {
	amount := decimal.RequireFromString("20")

	base := suggestionKey("Uber ride", amount, model.KindExpense)

	assert.Equal(t, base, suggestionKey("  uber   RIDE ", decimal.RequireFromString("20.00"), model.KindExpense))
	assert.NotEqual(t, base, suggestionKey("Uber ride", amount, model.KindIncome))
	assert.NotEqual(t, base, suggestionKey("Uber ride", decimal.RequireFromString("21"), model.KindExpense))
	assert.NotEqual(t, base, suggestionKey("Lyft ride", amount, model.KindExpense))
}
