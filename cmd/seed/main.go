package main

import (
	"context"
	"errors"
	"flag"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-otp-auth/config"
	"github.com/oksasatya/go-otp-auth/internal/domain/entity"
	"github.com/oksasatya/go-otp-auth/internal/domain/repository"
	pginfra "github.com/oksasatya/go-otp-auth/internal/infrastructure/postgres"
	"github.com/oksasatya/go-otp-auth/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.IsDevelopment())

	username := flag.String("username", "demoUser", "username of the demo user")
	email := flag.String("email", "demo@example.com", "email of the demo user")
	password := flag.String("password", "password123", "password of the demo user")
	college := flag.String("college", "Demo University", "affiliation of the demo user")
	flag.Parse()

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	secret, err := helpers.NewSecretMatcher(cfg.PasswordHashing).Encode(*password)
	if err != nil {
		logger.WithError(err).Fatal("failed to encode password")
	}

	u := &entity.User{
		Username: *username,
		Email:    helpers.NormalizeEmail(*email),
		Password: secret,
		College:  *college,
	}
	err = pginfra.NewUserRepository(pool).Create(ctx, u)
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername), errors.Is(err, repository.ErrDuplicateEmail):
		logger.WithField("email", u.Email).Info("demo user already present")
		return
	case err != nil:
		logger.WithError(err).Fatal("failed to seed user")
	}
	logger.WithFields(map[string]any{"id": u.ID, "username": u.Username, "email": u.Email}).Info("seeded user")
}
