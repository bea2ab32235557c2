package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"clarity/internal/model"
	"clarity/internal/repository"
	"clarity/internal/service"
)

// SeedTransaction is one fixture entry. An empty category is filled in by the resolver.
type SeedTransaction struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// reportToken writes the demo user's bearer token to w. It is kept out of the structured log.
func reportToken(w io.Writer, email, token string) error {
	_, err := fmt.Fprintf(w, "demo user %s token: %s\n", email, token)
	return err
}

func loadFixture(r io.Reader) ([]SeedTransaction, error) {
	var entries []SeedTransaction
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return entries, nil
}

type seedResult struct {
	created     int
	categorized int
	skipped     int
	existing    int
}

func seedTransactions(
	ctx context.Context,
	txService service.TransactionService,
	resolver service.CategoryResolver,
	userID uuid.UUID,
	entries []SeedTransaction,
	log zerolog.Logger,
) (seedResult, error) {
	var res seedResult
	current, err := txService.List(ctx, userID, repository.TransactionFilter{})
	if err != nil {
		return res, fmt.Errorf("list existing transactions: %w", err)
	}
	if len(current) > 0 {
		res.existing = len(current)
		log.Info().Int("existing", res.existing).Msg("demo user already has transactions, skipping fixture")
		return res, nil
	}

	for i, entry := range entries {
		amount, err := decimal.NewFromString(entry.Amount)
		if err != nil {
			log.Warn().Int("entry", i).Str("amount", entry.Amount).Msg("skipping entry with invalid amount")
			res.skipped++
			continue
		}
		date, err := time.Parse("2006-01-02", entry.Date)
		if err != nil {
			log.Warn().Int("entry", i).Str("date", entry.Date).Msg("skipping entry with invalid date")
			res.skipped++
			continue
		}

		category := strings.TrimSpace(entry.Category)
		if category == "" {
			category = string(resolver.Resolve(ctx, entry.Description, amount, model.Kind(entry.Type)))
			res.categorized++
			log.Debug().Str("description", entry.Description).Str("category", category).Msg("categorized entry")
		}

		_, err = txService.Create(ctx, userID, service.TransactionInput{
			Type:        entry.Type,
			Amount:      &amount,
			Category:    category,
			Description: entry.Description,
			Date:        &date,
		})
		if err != nil {
			return res, fmt.Errorf("create entry %d: %w", i, err)
		}
		res.created++
	}
	return res, nil
}
