package auth

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "clarity/internal/errors"
)

// ContextKey is where the verified *Claims are stored on echo.Context.
const ContextKey = "user"

// Middleware rejects requests without a valid bearer token.
// A missing or malformed header answers 401; a bad, expired or revoked token answers 403.
func Middleware(jwtService *JWTService, tokens TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
			}
			if tokens != nil {
				if revoked, _ := tokens.IsTokenRevoked(c.Request().Context(), claims.ID); revoked {
					return nil, fmt.Errorf("%w: token revoked", apperrors.ErrInvalidToken)
				}
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			cause := apperrors.ErrMissingToken
			if errors.Is(err, apperrors.ErrInvalidToken) || errors.Is(err, echojwt.ErrJWTInvalid) {
				cause = apperrors.ErrInvalidToken
			}
			httpErr := apperrors.MapErrorToHTTP(cause)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
		},
	})
}

// ClaimsFromContext returns the claims stored by Middleware.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ContextKey).(*Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the authenticated user's id.
func UserIDFromContext(c echo.Context) (uuid.UUID, error) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return uuid.Nil, apperrors.ErrMissingToken
	}
	id, err := claims.Subject()
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidToken
	}
	return id, nil
}
