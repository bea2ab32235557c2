package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"clarity/internal/model"
	"clarity/internal/repository"
	"clarity/internal/service"
)

// TransactionHandler handles the owner-scoped transaction endpoints.
type TransactionHandler struct {
	transactions service.TransactionService
	suggestions  service.SuggestionService
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(transactions service.TransactionService, suggestions service.SuggestionService) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		suggestions:  suggestions,
	}
}

// TransactionRequest is the body for create and update. Update replaces every field.
type TransactionRequest struct {
	Type        string           `json:"type" example:"expense"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"number" example:"12.5"`
	Category    string           `json:"category" example:"Food & Dining"`
	Description string           `json:"description" example:"Lunch"`
	Date        string           `json:"date" example:"2024-03-01"`
}

func (r TransactionRequest) toInput() (service.TransactionInput, error) {
	date, err := parseDate("date", r.Date)
	if err != nil {
		return service.TransactionInput{}, err
	}
	return service.TransactionInput{
		Type:        r.Type,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Date:        date,
	}, nil
}

// SuggestCategoryRequest asks for a category suggestion.
type SuggestCategoryRequest struct {
	Description string           `json:"description" validate:"required" example:"Uber ride to airport"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"number" example:"35"`
	Type        string           `json:"type" validate:"required,oneof=income expense" example:"expense"`
}

// SuggestCategoryResponse carries the suggested category.
type SuggestCategoryResponse struct {
	Category string `json:"category" example:"Transportation"`
}

// List godoc
// @Summary List the caller's transactions
// @Description Newest first. Date bounds are inclusive; a YYYY-MM-DD endDate covers the whole UTC day.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param category query string false "Exact category"
// @Param startDate query string false "Inclusive lower bound (RFC 3339 or YYYY-MM-DD)"
// @Param endDate query string false "Inclusive upper bound (RFC 3339, or YYYY-MM-DD for the end of that day)"
// @Success 200 {array} model.Transaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	start, err := parseDate("startDate", c.QueryParam("startDate"))
	if err != nil {
		return respondError(err)
	}
	end, err := parseEndDate("endDate", c.QueryParam("endDate"))
	if err != nil {
		return respondError(err)
	}

	txs, err := h.transactions.List(c.Request().Context(), userID, repository.TransactionFilter{
		Category:  c.QueryParam("category"),
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, txs)
}

// Create godoc
// @Summary Record a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "Transaction"
// @Success 201 {object} model.Transaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req TransactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return respondError(err)
	}

	tx, err := h.transactions.Create(c.Request().Context(), userID, input)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, tx)
}

// Get godoc
// @Summary Get one of the caller's transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} model.Transaction
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	tx, err := h.transactions.Get(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, tx)
}

// Update godoc
// @Summary Replace one of the caller's transactions
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body TransactionRequest true "Full field set"
// @Success 200 {object} model.Transaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/{id} [put]
func (h *TransactionHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req TransactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return respondError(err)
	}

	tx, err := h.transactions.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, tx)
}

// Delete godoc
// @Summary Delete one of the caller's transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.transactions.Delete(c.Request().Context(), userID, id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}

// Summary godoc
// @Summary Income, expense and balance totals
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Summary
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /transactions/stats/summary [get]
func (h *TransactionHandler) Summary(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	summary, err := h.transactions.Summarize(c.Request().Context(), userID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// CategoryBreakdown godoc
// @Summary Totals per type and category
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.CategoryTotal
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /transactions/stats/categories [get]
func (h *TransactionHandler) CategoryBreakdown(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	totals, err := h.transactions.SummarizeByCategory(c.Request().Context(), userID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, totals)
}

// SuggestCategory godoc
// @Summary Suggest a category for a description
// @Description Always answers with a category; any backend problem yields "Other".
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SuggestCategoryRequest true "Description and type"
// @Success 200 {object} SuggestCategoryResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /transactions/suggest-category [post]
func (h *TransactionHandler) SuggestCategory(c echo.Context) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}

	var req SuggestCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	amount := decimal.Zero
	if req.Amount != nil {
		amount = *req.Amount
	}

	category := h.suggestions.Suggest(c.Request().Context(), req.Description, amount, model.Kind(req.Type))
	return c.JSON(http.StatusOK, SuggestCategoryResponse{Category: string(category)})
}
