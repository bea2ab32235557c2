package router

import (
	"errors"
	"math"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"clarity/internal/auth"
	"clarity/internal/config"
	apperrors "clarity/internal/errors"
	"clarity/internal/handler"
)

// Deps bundles what the router needs to wire routes and middleware.
type Deps struct {
	Config             *config.Config
	Logger             zerolog.Logger
	JWTService         *auth.JWTService
	TokenStore         auth.TokenStoreInterface
	AuthHandler        *handler.AuthHandler
	UserHandler        *handler.UserHandler
	TransactionHandler *handler.TransactionHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, d Deps) {
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: d.Config.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(requestLogger(d.Logger))

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	api.GET("/health", handler.Health)

	limited := rateLimiter(d.Config.RateLimitRPS)
	requireAuth := auth.Middleware(d.JWTService, d.TokenStore)

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", d.AuthHandler.Signup, limited)
	authGroup.POST("/login", d.AuthHandler.Login, limited)
	authGroup.POST("/logout", d.AuthHandler.Logout, requireAuth)
	authGroup.GET("/me", d.UserHandler.Me, requireAuth)

	// Secured routes (require JWT authentication)
	tx := api.Group("/transactions", requireAuth)
	tx.GET("", d.TransactionHandler.List)
	tx.POST("", d.TransactionHandler.Create)
	tx.GET("/stats/summary", d.TransactionHandler.Summary)
	tx.GET("/stats/categories", d.TransactionHandler.CategoryBreakdown)
	tx.POST("/suggest-category", d.TransactionHandler.SuggestCategory, limited)
	tx.GET("/:id", d.TransactionHandler.Get)
	tx.PUT("/:id", d.TransactionHandler.Update)
	tx.DELETE("/:id", d.TransactionHandler.Delete)
}

func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := logger.Info()
			if v.Status >= 500 {
				event = logger.Error().Err(v.Error)
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

func rateLimiter(rps float64) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     int(math.Ceil(rps * 2)),
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
				Error: "too many requests",
				Code:  "RATE_LIMITED",
			})
		},
	})
}

// CustomValidator wraps validator for Echo and reports the first failing field
// as an *errors.ValidationError named by its JSON key.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds a CustomValidator that names fields by their json tag.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return apperrors.NewValidationError(fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
