package main

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"flag"
	"io"
	"os"

	"github.com/joho/godotenv"

	"clarity/internal/auth"
	"clarity/internal/cache"
	"clarity/internal/categorizer"
	"clarity/internal/config"
	"clarity/internal/db"
	apperrors "clarity/internal/errors"
	"clarity/internal/events"
	"clarity/internal/logger"
	"clarity/internal/repository"
	"clarity/internal/service"
)

//go:embed transactions.json
var defaultFixture []byte

func main() {
	_ = godotenv.Load()

	email := flag.String("email", "demo@clarity.local", "demo user email")
	password := flag.String("password", "demo1234", "demo user password")
	name := flag.String("name", "Demo User", "demo user display name")
	file := flag.String("file", "", "JSON fixture to load instead of the embedded one")
	flag.Parse()

	cfg := config.Load()
	log := logger.WithComponent(logger.New(cfg.LogLevel, cfg.LogPretty), logger.ComponentSeed)
	log.Info().Msg("starting seed script")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.Migrate(gormDB, false); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("database migrations completed")

	var fixture io.Reader = bytes.NewReader(defaultFixture)
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("failed to open fixture")
		}
		defer f.Close()
		fixture = f
	}
	entries, err := loadFixture(fixture)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load fixture")
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	authService := service.NewAuthService(userRepo, jwtService, auth.NewTokenStore(cache.New("", "", 0)), log)

	result, err := authService.Signup(ctx, *email, *password, *name)
	if errors.Is(err, apperrors.ErrEmailTaken) {
		log.Info().Str("email", *email).Msg("demo user exists, logging in")
		result, err = authService.Login(ctx, *email, *password)
	}
	if err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("failed to prepare demo user")
	}

	resolver := categorizer.NewResolver(categorizer.BackendFor(cfg), cfg.CategorizerTimeout, log)
	txService := service.NewTransactionService(repository.NewTransactionRepository(gormDB), events.Noop{}, log)

	seeded, err := seedTransactions(ctx, txService, resolver, result.User.ID, entries, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed transactions")
	}

	log.Info().
		Str("email", *email).
		Int("created", seeded.created).
		Int("categorized", seeded.categorized).
		Int("skipped", seeded.skipped).
		Int("existing", seeded.existing).
		Msg("seed completed successfully")
	if err := reportToken(os.Stdout, *email, result.Token); err != nil {
		log.Error().Err(err).Msg("failed to print demo user token")
	}
}
