package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"clarity/internal/cache"
	"clarity/internal/model"
)

const defaultSuggestionTTL = 24 * time.Hour

// CategoryResolver maps a description onto a closed category. It never fails.
type CategoryResolver interface {
	Resolve(ctx context.Context, description string, amount decimal.Decimal, kind model.Kind) model.Category
}

// SuggestionService answers category suggestions, caching confident answers.
type SuggestionService interface {
	Suggest(ctx context.Context, description string, amount decimal.Decimal, kind model.Kind) model.Category
}

type suggestionService struct {
	resolver CategoryResolver
	cache    *cache.Client
	ttl      time.Duration
}

// NewSuggestionService wraps resolver with a cache. A nil cache disables caching.
func NewSuggestionService(resolver CategoryResolver, cache *cache.Client, ttl time.Duration) SuggestionService {
	if ttl <= 0 {
		ttl = defaultSuggestionTTL
	}
	return &suggestionService{resolver: resolver, cache: cache, ttl: ttl}
}

// Suggest returns the category for description. Fallback answers are not cached
// so a recovered backend is consulted again.
func (s *suggestionService) Suggest(ctx context.Context, description string, amount decimal.Decimal, kind model.Kind) model.Category {
	key := suggestionKey(description, amount, kind)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		if c := string(data); model.IsCategoryOf(kind, c) {
			return model.Category(c)
		}
	}

	category := s.resolver.Resolve(ctx, description, amount, kind)
	if category != model.CategoryOther {
		_ = s.cache.Set(ctx, key, []byte(category), s.ttl)
	}
	return category
}

func suggestionKey(description string, amount decimal.Decimal, kind model.Kind) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(description), " "))
	sum := sha256.Sum256([]byte(string(kind) + "|" + amount.StringFixed(2) + "|" + normalized))
	return "suggestion:" + hex.EncodeToString(sum[:])
}
