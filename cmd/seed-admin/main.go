package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	authsvc "github.com/mvalverde/cartfront-backend/internal/auth"
	"github.com/mvalverde/cartfront-backend/internal/users"
	"github.com/mvalverde/cartfront-backend/pkg/config"
	"github.com/mvalverde/cartfront-backend/pkg/db"
	pkgerrors "github.com/mvalverde/cartfront-backend/pkg/errors"
	"github.com/mvalverde/cartfront-backend/pkg/logger"
)

// Seeds the bootstrap admin account from CARTFRONT_ADMIN_* env vars. Safe to
// run repeatedly; an existing account is left untouched.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed-admin"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.Admin.Password == "" {
		logg.Error(ctx, "CARTFRONT_ADMIN_PASSWORD is required", nil)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	svc, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	ctx = logg.WithField(ctx, "email", cfg.Admin.Email)

	admin, err := svc.CreateAdmin(ctx, authsvc.CreateAdminRequest{
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
		Phone:     cfg.Admin.Phone,
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
			logg.Info(ctx, "admin account already exists, nothing to do")
			return
		}
		logg.Error(ctx, "failed to seed admin", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "user_id", admin.ID.String()), "admin account created")
}
