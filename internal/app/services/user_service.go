package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/eren/clubsphere/internal/app/models/dto"
	"github.com/eren/clubsphere/internal/app/repositories"
	"github.com/eren/clubsphere/internal/pkg/apperrors"
)

// UserService defines the admin-only user management surface. Accounts are
// created by the external identity provider; this service only administers
// existing ones.
type UserService interface {
	GetUser(ctx context.Context, id int64) (*dto.UserResponse, error)
	SetAdmin(ctx context.Context, actorID, targetID int64, req *dto.SetAdminRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, actorID, targetID int64) error
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo repositories.UserRepository
	clubRepo repositories.ClubRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository, clubRepo repositories.ClubRepository, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		clubRepo: clubRepo,
		logger:   logger,
	}
}

// GetUser retrieves a user account
func (s *userServiceImpl) GetUser(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// SetAdmin grants or revokes the platform admin flag. An admin cannot revoke
// their own flag, so the platform always keeps at least one admin.
func (s *userServiceImpl) SetAdmin(ctx context.Context, actorID, targetID int64, req *dto.SetAdminRequest) (*dto.UserResponse, error) {
	isAdmin := *req.IsAdmin
	if targetID == actorID && !isAdmin {
		return nil, apperrors.NewConflictError("Admins cannot revoke their own admin flag")
	}

	if err := s.userRepo.SetAdmin(ctx, targetID, isAdmin); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", targetID).Bool("isAdmin", isAdmin).Int64("actorID", actorID).Msg("Admin flag updated")

	user, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// DeleteUser removes a user account. Club ownership blocks deletion; the club
// must be deleted or transferred first.
func (s *userServiceImpl) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	if targetID == actorID {
		return apperrors.NewConflictError("Admins cannot delete their own account")
	}

	if _, err := s.clubRepo.GetByOwnerID(ctx, targetID); err == nil {
		return apperrors.NewConflictError("User still owns a club; delete or transfer the club first")
	} else if !errors.Is(err, apperrors.ErrClubNotFound) {
		return err
	}

	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", targetID).Int64("actorID", actorID).Msg("User deleted")
	return nil
}
