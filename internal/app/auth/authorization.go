package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/eren/clubsphere/internal/app/models"
	"github.com/eren/clubsphere/internal/app/repositories"
	"github.com/eren/clubsphere/internal/pkg/apperrors"
	"github.com/eren/clubsphere/internal/pkg/logger"
)

// PermissionEngine resolves effective permissions and answers authorization
// checks. Resolution rules:
//   - the club owner (President) always holds the full vocabulary
//   - an active member holds role permissions united with per-member overrides
//   - a suspended or banned member holds nothing
//   - a platform admin bypasses club permission checks entirely
type PermissionEngine struct {
	clubRepo   repositories.ClubRepository
	roleRepo   repositories.RoleRepository
	memberRepo repositories.MemberRepository
}

// NewPermissionEngine creates a new PermissionEngine
func NewPermissionEngine(clubRepo repositories.ClubRepository, roleRepo repositories.RoleRepository, memberRepo repositories.MemberRepository) *PermissionEngine {
	return &PermissionEngine{
		clubRepo:   clubRepo,
		roleRepo:   roleRepo,
		memberRepo: memberRepo,
	}
}

// ResolveEffectivePermissions computes the permission set a user currently
// holds in a club. Non-members resolve to the empty set, not an error.
func (e *PermissionEngine) ResolveEffectivePermissions(ctx context.Context, clubID, userID int64) (models.PermissionSet, error) {
	club, err := e.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}

	if club.OwnerID == userID {
		return models.FullPermissionSet(), nil
	}

	member, err := e.memberRepo.GetMember(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMemberNotFound) {
			return models.PermissionSet{}, nil
		}
		return nil, err
	}

	if member.Status != models.MemberStatusActive {
		return models.PermissionSet{}, nil
	}

	role, err := e.roleRepo.GetByName(ctx, clubID, member.RoleName)
	if err != nil {
		if errors.Is(err, apperrors.ErrRoleNotFound) {
			logger.Warn().Int64("clubID", clubID).Int64("userID", userID).Str("role", member.RoleName).Msg("Member references a missing role")
			return models.NewPermissionSet(member.ExtraPermissions), nil
		}
		return nil, err
	}

	return models.NewPermissionSet(role.Permissions, member.ExtraPermissions), nil
}

// HasPermission reports whether the user holds the permission in the club
func (e *PermissionEngine) HasPermission(ctx context.Context, clubID, userID int64, perm models.Permission) (bool, error) {
	set, err := e.ResolveEffectivePermissions(ctx, clubID, userID)
	if err != nil {
		return false, err
	}
	return set.Has(perm), nil
}

// RequirePermission returns a permission-denied error unless the user holds
// the permission in the club. isAdmin short-circuits the check.
func (e *PermissionEngine) RequirePermission(ctx context.Context, clubID, userID int64, isAdmin bool, perm models.Permission) error {
	if isAdmin {
		return nil
	}

	ok, err := e.HasPermission(ctx, clubID, userID, perm)
	if err != nil {
		return fmt.Errorf("failed to resolve permissions: %w", err)
	}
	if !ok {
		return apperrors.NewForbiddenError(fmt.Sprintf("Missing required permission: %s", perm))
	}

	return nil
}

// IsOwner reports whether the user owns the club
func (e *PermissionEngine) IsOwner(ctx context.Context, clubID, userID int64) (bool, error) {
	club, err := e.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return false, err
	}
	return club.OwnerID == userID, nil
}
