package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionVocabulary(t *testing.T) {
	assert.Len(t, AllPermissions, 17)

	for _, p := range AllPermissions {
		assert.True(t, p.IsValid(), "vocabulary token %s must validate", p)
	}

	assert.False(t, Permission("create_trips").IsValid())
	assert.False(t, Permission("").IsValid())
	assert.False(t, Permission("EDIT_CLUB").IsValid())
}

func TestNewPermissionSetUnion(t *testing.T) {
	set := NewPermissionSet(
		[]Permission{PermViewClub, PermViewMembers},
		[]Permission{PermViewMembers, PermManageTrips},
	)

	assert.Len(t, set, 3)
	assert.True(t, set.Has(PermViewClub))
	assert.True(t, set.Has(PermManageTrips))
	assert.False(t, set.Has(PermEditClub))
}

func TestFullPermissionSet(t *testing.T) {
	set := FullPermissionSet()
	assert.Len(t, set, len(AllPermissions))
	for _, p := range AllPermissions {
		assert.True(t, set.Has(p))
	}
}

func TestPermissionSetListOrder(t *testing.T) {
	set := NewPermissionSet([]Permission{PermManageTrips, PermEditClub, PermViewClub})

	// List returns vocabulary order regardless of insertion order
	assert.Equal(t, []Permission{PermEditClub, PermViewClub, PermManageTrips}, set.List())
}

func TestFromStringsDropsUnknownTokens(t *testing.T) {
	perms := FromStrings([]string{"view_club", "not_a_permission", "manage_trips"})
	assert.Equal(t, []Permission{PermViewClub, PermManageTrips}, perms)
}
