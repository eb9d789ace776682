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

func newUserService(f *fixture) UserService {
	return NewUserService(f.users, f.clubs, f.logger)
}

func boolPtr(b bool) *bool { return &b }

func TestSetAdmin(t *testing.T) {
	f := newFixture()
	svc := newUserService(f)
	ctx := context.Background()

	f.users.users[1] = &models.User{ID: 1, Username: "root", IsAdmin: true}
	f.users.users[42] = &models.User{ID: 42, Username: "wanderer"}

	resp, err := svc.SetAdmin(ctx, 1, 42, &dto.SetAdminRequest{IsAdmin: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, resp.IsAdmin)

	// Granting again is a no-op, revoking works
	resp, err = svc.SetAdmin(ctx, 1, 42, &dto.SetAdminRequest{IsAdmin: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, resp.IsAdmin)

	_, err = svc.SetAdmin(ctx, 1, 99, &dto.SetAdminRequest{IsAdmin: boolPtr(true)})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestSetAdminRejectsSelfRevocation(t *testing.T) {
	f := newFixture()
	svc := newUserService(f)
	ctx := context.Background()

	f.users.users[1] = &models.User{ID: 1, Username: "root", IsAdmin: true}

	_, err := svc.SetAdmin(ctx, 1, 1, &dto.SetAdminRequest{IsAdmin: boolPtr(false)})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "Admins cannot revoke their own admin flag")

	// Re-affirming their own flag is harmless
	_, err = svc.SetAdmin(ctx, 1, 1, &dto.SetAdminRequest{IsAdmin: boolPtr(true)})
	assert.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture()
	svc := newUserService(f)
	ctx := context.Background()

	f.users.users[1] = &models.User{ID: 1, Username: "root", IsAdmin: true}
	f.users.users[7] = &models.User{ID: 7, Username: "founder"}
	f.users.users[42] = &models.User{ID: 42, Username: "wanderer"}
	f.seedClub(7, "Hiking Club")

	err := svc.DeleteUser(ctx, 1, 1)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "Admins cannot delete their own account")

	// A club owner must hand off the club before their account can go
	err = svc.DeleteUser(ctx, 1, 7)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "User still owns a club; delete or transfer the club first")

	require.NoError(t, svc.DeleteUser(ctx, 1, 42))
	_, err = f.users.FindByID(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	err = svc.DeleteUser(ctx, 1, 42)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestGetUser(t *testing.T) {
	f := newFixture()
	svc := newUserService(f)
	ctx := context.Background()

	f.users.users[42] = &models.User{ID: 42, Username: "wanderer", Email: "wanderer@example.com"}

	resp, err := svc.GetUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "wanderer", resp.Username)
	assert.Equal(t, "wanderer@example.com", resp.Email)

	_, err = svc.GetUser(ctx, 99)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
