package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"clarity/internal/auth"
	apperrors "clarity/internal/errors"
)

// respondError converts a domain error into an echo.HTTPError carrying an ErrorResponse body.
func respondError(err error) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// bindAndValidate decodes the body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return respondError(apperrors.NewValidationError("body", "is not valid JSON for this request"))
	}
	if err := c.Validate(req); err != nil {
		var validationErr *apperrors.ValidationError
		if !errors.As(err, &validationErr) {
			validationErr = apperrors.NewValidationError("body", err.Error())
		}
		return respondError(validationErr)
	}
	return nil
}

func currentUserID(c echo.Context) (uuid.UUID, error) {
	id, err := auth.UserIDFromContext(c)
	if err != nil {
		return uuid.Nil, respondError(err)
	}
	return id, nil
}

// pathID parses the :id parameter. A malformed id cannot name an owned record,
// so it is reported as not found.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, respondError(apperrors.ErrTransactionNotFound)
	}
	return id, nil
}

const dateOnly = "2006-01-02"

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC midnight).
func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, dateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, apperrors.NewValidationError(field, "must be an RFC 3339 timestamp or YYYY-MM-DD date")
}

// parseEndDate is parseDate for upper bounds: a plain date covers that whole UTC day.
// The bound stops at microsecond precision so MySQL does not round it into the next day.
func parseEndDate(field, value string) (*time.Time, error) {
	t, err := parseDate(field, value)
	if err != nil || t == nil {
		return t, err
	}
	if _, err := time.Parse(dateOnly, strings.TrimSpace(value)); err == nil {
		end := t.Add(24*time.Hour - time.Microsecond)
		return &end, nil
	}
	return t, nil
}

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Message: "Clarity API is running"})
}
