package categorizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"clarity/internal/model"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 10 * time.Second

// Resolver maps a free-text description to one label of the kind's closed category set.
// It never fails: every degraded path answers model.CategoryOther.
type Resolver struct {
	backend Backend
	timeout time.Duration
	logger  zerolog.Logger
}

// NewResolver creates a resolver. A nil backend is valid and always yields Other.
func NewResolver(backend Backend, timeout time.Duration, logger zerolog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		backend: backend,
		timeout: timeout,
		logger:  logger,
	}
}

// Enabled reports whether a backend is configured.
func (r *Resolver) Enabled() bool {
	return r != nil && r.backend != nil
}

// Resolve returns the category for description. At most one backend call is made.
func (r *Resolver) Resolve(ctx context.Context, description string, amount decimal.Decimal, kind model.Kind) model.Category {
	description = strings.TrimSpace(description)
	if description == "" {
		return model.CategoryOther
	}
	candidates := model.CategoriesFor(kind)
	if len(candidates) == 0 {
		r.logger.Warn().Str("type", string(kind)).Msg("unknown transaction type, using fallback")
		return model.CategoryOther
	}
	if !r.Enabled() {
		r.logger.Debug().Msg("categorizer backend not configured, using fallback")
		return model.CategoryOther
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	answer, err := r.backend.Complete(ctx, buildPrompt(description, amount, kind, candidates))
	if err != nil {
		r.logger.Warn().Err(err).Msg("categorization failed, using fallback")
		return model.CategoryOther
	}

	category := Reconcile(answer, candidates)
	r.logger.Debug().
		Str("description", description).
		Str("answer", strings.TrimSpace(answer)).
		Str("category", string(category)).
		Msg("categorized transaction")
	return category
}

// Reconcile maps a raw model answer onto candidates.
// An exact match wins; otherwise the first candidate (in order) that contains,
// or is contained in, the answer ignoring case; otherwise Other.
func Reconcile(raw string, candidates []model.Category) model.Category {
	answer := strings.TrimSpace(raw)
	if answer == "" {
		return model.CategoryOther
	}
	for _, c := range candidates {
		if string(c) == answer {
			return c
		}
	}
	lower := strings.ToLower(answer)
	for _, c := range candidates {
		label := strings.ToLower(string(c))
		if strings.Contains(lower, label) || strings.Contains(label, lower) {
			return c
		}
	}
	return model.CategoryOther
}

func buildPrompt(description string, amount decimal.Decimal, kind model.Kind, candidates []model.Category) string {
	labels := make([]string, len(candidates))
	for i, c := range candidates {
		labels[i] = string(c)
	}
	return fmt.Sprintf(`You are a financial assistant. Categorize the following transaction into ONE of these categories: %s.

Transaction details:
- Description: %q
- Amount: $%s
- Type: %s

Respond with ONLY the category name from the list above, nothing else. No explanation.`,
		strings.Join(labels, ", "), description, amount.String(), kind)
}
