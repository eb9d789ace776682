package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/eren/clubsphere/internal/app/auth"
	"github.com/eren/clubsphere/internal/app/models"
	"github.com/eren/clubsphere/internal/app/models/dto"
	"github.com/eren/clubsphere/internal/app/repositories"
	"github.com/eren/clubsphere/internal/pkg/apperrors"
)

// RoleService defines the interface for the per-club role registry
type RoleService interface {
	CreateRole(ctx context.Context, clubID, userID int64, isAdmin bool, req *dto.CreateRoleRequest) (*dto.RoleResponse, error)
	ListRoles(ctx context.Context, clubID, userID int64, isAdmin bool) ([]dto.RoleResponse, error)
	UpdateRole(ctx context.Context, clubID, userID int64, isAdmin bool, name string, req *dto.UpdateRoleRequest) (*dto.RoleResponse, error)
	DeleteRole(ctx context.Context, clubID, userID int64, isAdmin bool, name string) error
}

// roleServiceImpl implements RoleService
type roleServiceImpl struct {
	roleRepo    repositories.RoleRepository
	permissions *auth.PermissionEngine
	logger      zerolog.Logger
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo repositories.RoleRepository, permissions *auth.PermissionEngine, logger zerolog.Logger) RoleService {
	return &roleServiceImpl{
		roleRepo:    roleRepo,
		permissions: permissions,
		logger:      logger,
	}
}

// CreateRole defines a custom role. Reserved names are rejected.
func (s *roleServiceImpl) CreateRole(ctx context.Context, clubID, userID int64, isAdmin bool, req *dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	if err := s.permissions.RequirePermission(ctx, clubID, userID, isAdmin, models.PermManageRoles); err != nil {
		return nil, err
	}

	if req.Name == models.RoleNameMember || req.Name == models.RoleNamePresident {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s is a reserved role name", req.Name))
	}

	perms, err := parsePermissions(req.Permissions)
	if err != nil {
		return nil, err
	}

	role := &models.ClubRole{
		ClubID:      clubID,
		Name:        req.Name,
		Permissions: perms,
		Color:       req.Color,
	}

	id, err := s.roleRepo.Create(ctx, role)
	if err != nil {
		return nil, err
	}
	role.ID = id

	s.logger.Info().Int64("clubID", clubID).Str("role", req.Name).Msg("Role created")
	return dto.NewRoleResponse(role), nil
}

// ListRoles retrieves a club's roles
func (s *roleServiceImpl) ListRoles(ctx context.Context, clubID, userID int64, isAdmin bool) ([]dto.RoleResponse, error) {
	if err := s.permissions.RequirePermission(ctx, clubID, userID, isAdmin, models.PermViewClub); err != nil {
		return nil, err
	}

	roles, err := s.roleRepo.GetByClubID(ctx, clubID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		responses = append(responses, *dto.NewRoleResponse(role))
	}
	return responses, nil
}

// UpdateRole re-permissions a role. The reserved Member role may be
// re-permissioned but never renamed; President is immutable.
func (s *roleServiceImpl) UpdateRole(ctx context.Context, clubID, userID int64, isAdmin bool, name string, req *dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	if err := s.permissions.RequirePermission(ctx, clubID, userID, isAdmin, models.PermManageRoles); err != nil {
		return nil, err
	}

	if name == models.RoleNamePresident {
		return nil, apperrors.NewForbiddenError("The President role cannot be modified")
	}

	role, err := s.roleRepo.GetByName(ctx, clubID, name)
	if err != nil {
		return nil, err
	}

	perms, err := parsePermissions(req.Permissions)
	if err != nil {
		return nil, err
	}

	role.Permissions = perms
	role.Color = req.Color
	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	return dto.NewRoleResponse(role), nil
}

// DeleteRole removes a custom role. Reserved roles and roles still held by
// active members cannot be deleted.
func (s *roleServiceImpl) DeleteRole(ctx context.Context, clubID, userID int64, isAdmin bool, name string) error {
	if err := s.permissions.RequirePermission(ctx, clubID, userID, isAdmin, models.PermManageRoles); err != nil {
		return err
	}

	if name == models.RoleNameMember || name == models.RoleNamePresident {
		return apperrors.NewForbiddenError(fmt.Sprintf("The reserved %s role cannot be deleted", name))
	}

	holders, err := s.roleRepo.CountActiveHolders(ctx, clubID, name)
	if err != nil {
		return err
	}
	if holders > 0 {
		return apperrors.NewConflictError(fmt.Sprintf("Role is still assigned to %d member(s)", holders))
	}

	if err := s.roleRepo.Delete(ctx, clubID, name); err != nil {
		return err
	}

	s.logger.Info().Int64("clubID", clubID).Str("role", name).Msg("Role deleted")
	return nil
}
