package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"clarity/docs" // swagger docs

	"clarity/internal/auth"
	"clarity/internal/cache"
	"clarity/internal/categorizer"
	"clarity/internal/config"
	"clarity/internal/db"
	"clarity/internal/events"
	"clarity/internal/handler"
	"clarity/internal/logger"
	"clarity/internal/repository"
	"clarity/internal/router"
	"clarity/internal/service"
)

const shutdownTimeout = 30 * time.Second

// @title Clarity API
// @version 1.0
// @description Personal finance API: income and expense tracking, balance summaries and AI-assisted category suggestions.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	appLog := logger.WithComponent(log, logger.ComponentApp)

	if err := cfg.Validate(); err != nil {
		appLog.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.JWTSecret == "change-me" {
		appLog.Warn().Msg("JWT_SECRET is using the default value; set a real secret outside development")
	}
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		appLog.Fatal().Err(err).Msg("database init")
	}
	if cfg.ResetDB {
		appLog.Warn().Msg("RESET_DB=true detected, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		appLog.Fatal().Err(err).Msg("migrate schema")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if cacheClient.Enabled() {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := cacheClient.Ping(pingCtx); err != nil {
			appLog.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, continuing without cache")
		}
		cancel()
	} else {
		appLog.Info().Msg("REDIS_ADDR not set, token revocation and caching disabled")
	}

	publisher := newPublisher(cfg, logger.WithComponent(log, logger.ComponentEvents), appLog)
	defer publisher.Close()

	backend := categorizer.BackendFor(cfg)
	if backend == nil {
		appLog.Info().Msg("categorization backend not configured, suggestions will fall back to Other")
	}
	resolver := categorizer.NewResolver(backend, cfg.CategorizerTimeout, logger.WithComponent(log, logger.ComponentCategorizer))

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	txRepo := repository.NewTransactionRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, logger.WithComponent(log, logger.ComponentAuth))
	userService := service.NewUserService(userRepo, cacheClient)
	txService := service.NewTransactionService(txRepo, publisher, logger.WithComponent(log, logger.ComponentTransaction))
	suggestionService := service.NewSuggestionService(resolver, cacheClient, cfg.SuggestionCacheTTL)

	e := echo.New()
	router.Register(e, router.Deps{
		Config:             cfg,
		Logger:             logger.WithComponent(log, logger.ComponentHTTP),
		JWTService:         jwtService,
		TokenStore:         tokenStore,
		AuthHandler:        handler.NewAuthHandler(authService),
		UserHandler:        handler.NewUserHandler(userService),
		TransactionHandler: handler.NewTransactionHandler(txService, suggestionService),
	})

	if err := run(e, ":"+cfg.ServerPort, appLog); err != nil {
		appLog.Fatal().Err(err).Msg("server stopped with error")
	}
	appLog.Info().Msg("server stopped gracefully")
}

func newPublisher(cfg *config.Config, eventsLog, appLog zerolog.Logger) events.Publisher {
	if cfg.AMQPURL == "" {
		appLog.Info().Msg("AMQP_URL not set, transaction events disabled")
		return events.Noop{}
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, eventsLog)
	if err != nil {
		appLog.Warn().Err(err).Msg("AMQP unavailable, transaction events disabled")
		return events.Noop{}
	}
	appLog.Info().Str("exchange", cfg.AMQPExchange).Msg("publishing transaction events")
	return publisher
}

// run serves until SIGINT or SIGTERM, then shuts down gracefully.
func run(e *echo.Echo, addr string, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
