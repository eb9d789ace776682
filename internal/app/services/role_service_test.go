package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eren/clubsphere/internal/app/models"
	"github.com/eren/clubsphere/internal/app/models/dto"
	"github.com/eren/clubsphere/internal/pkg/apperrors"
)

func newRoleService(f *fixture) RoleService {
	return NewRoleService(f.roles, f.engine, f.logger)
}

func TestCreateRole(t *testing.T) {
	f := newFixture()
	svc := newRoleService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")

	resp, err := svc.CreateRole(ctx, clubID, 7, false, &dto.CreateRoleRequest{
		Name:        "Trip Leader",
		Permissions: []string{"view_club", "manage_trips"},
		Color:       "#2a9d8f",
	})
	require.NoError(t, err)
	assert.Equal(t, "Trip Leader", resp.Name)
	assert.False(t, resp.Reserved)
	assert.Equal(t, []string{"view_club", "manage_trips"}, resp.Permissions)
}

func TestCreateRoleRejectsReservedNames(t *testing.T) {
	f := newFixture()
	svc := newRoleService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")

	for _, name := range []string{models.RoleNameMember, models.RoleNamePresident} {
		_, err := svc.CreateRole(ctx, clubID, 7, false, &dto.CreateRoleRequest{Name: name, Permissions: []string{"view_club"}})
		require.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.EqualError(t, err, name+" is a reserved role name")
	}
}

func TestCreateRoleRejectsUnknownPermission(t *testing.T) {
	f := newFixture()
	svc := newRoleService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")

	_, err := svc.CreateRole(ctx, clubID, 7, false, &dto.CreateRoleRequest{Name: "Janitor", Permissions: []string{"sweep_floors"}})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.EqualError(t, err, "Unknown permission: sweep_floors")
}

func TestCreateRoleDuplicateName(t *testing.T) {
	f := newFixture()
	svc := newRoleService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")

	_, err := svc.CreateRole(ctx, clubID, 7, false, &dto.CreateRoleRequest{Name: "Trip Leader", Permissions: []string{"manage_trips"}})
	require.NoError(t, err)

	_, err = svc.CreateRole(ctx, clubID, 7, false, &dto.CreateRoleRequest{Name: "Trip Leader", Permissions: []string{"view_club"}})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUpdateRole(t *testing.T) {
	f := newFixture()
	svc := newRoleService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")

	_, err := svc.UpdateRole(ctx, clubID, 7, false, models.RoleNamePresident, &dto.UpdateRoleRequest{Permissions: []string{"view_club"}})
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.EqualError(t, err, "The President role cannot be modified")

	// The reserved Member role may be re-permissioned
	resp, err := svc.UpdateRole(ctx, clubID, 7, false, models.RoleNameMember, &dto.UpdateRoleRequest{Permissions: []string{"view_club", "view_members", "post_announcements"}})
	require.NoError(t, err)
	assert.Contains(t, resp.Permissions, "post_announcements")
	assert.True(t, resp.Reserved)

	_, err = svc.UpdateRole(ctx, clubID, 7, false, "Ghost", &dto.UpdateRoleRequest{Permissions: []string{"view_club"}})
	assert.ErrorIs(t, err, apperrors.ErrRoleNotFound)
}

func TestDeleteRole(t *testing.T) {
	f := newFixture()
	svc := newRoleService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.roles.put(&models.ClubRole{ClubID: clubID, Name: "Trip Leader", Permissions: []models.Permission{models.PermManageTrips}})

	err := svc.DeleteRole(ctx, clubID, 7, false, models.RoleNameMember)
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.EqualError(t, err, "The reserved Member role cannot be deleted")

	err = svc.DeleteRole(ctx, clubID, 7, false, models.RoleNamePresident)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// A role still held by active members cannot be deleted
	f.roles.holderCounts = map[roleKey]int{{clubID, "Trip Leader"}: 2}
	err = svc.DeleteRole(ctx, clubID, 7, false, "Trip Leader")
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "Role is still assigned to 2 member(s)")

	f.roles.holderCounts = nil
	require.NoError(t, svc.DeleteRole(ctx, clubID, 7, false, "Trip Leader"))
	_, err = f.roles.GetByName(ctx, clubID, "Trip Leader")
	assert.ErrorIs(t, err, apperrors.ErrRoleNotFound)
}

func TestRoleOperationsRequireManageRoles(t *testing.T) {
	f := newFixture()
	svc := newRoleService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)

	_, err := svc.CreateRole(ctx, clubID, 42, false, &dto.CreateRoleRequest{Name: "Trip Leader", Permissions: []string{"manage_trips"}})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = svc.DeleteRole(ctx, clubID, 42, false, "Trip Leader")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Listing only needs view_club, which the Member role carries
	_, err = svc.ListRoles(ctx, clubID, 42, false)
	assert.NoError(t, err)
}
