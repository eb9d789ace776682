package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/eren/clubsphere/internal/app/models"
	appRepos "github.com/eren/clubsphere/internal/app/repositories"
	"github.com/eren/clubsphere/internal/pkg/apperrors"
	pkgAuth "github.com/eren/clubsphere/internal/pkg/auth"
)

const (
	adminUsername = "admin"
	adminEmail    = "admin@clubsphere.app"

	// Default credential for fresh installations; rotate immediately.
	adminPassword = "Admin123!"
)

// CreateDefaultData seeds the default admin account if it does not exist yet.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default admin user...")

	_, err := userRepo.FindByUsername(ctx, adminUsername)
	if err == nil {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}

	hashedPassword, err := pkgAuth.HashPassword(adminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &appModels.User{
		Username:     adminUsername,
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		IsAdmin:      true,
	}

	adminID, err := userRepo.Create(ctx, admin)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Int64("adminID", adminID).Msg("Default admin user created successfully")
	return nil
}
