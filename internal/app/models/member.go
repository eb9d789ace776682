package models

import "time"

// MemberStatus is the lifecycle status of a club membership.
type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "active"
	MemberStatusSuspended MemberStatus = "suspended"
	MemberStatusBanned    MemberStatus = "banned"
)

// IsValid reports whether s is a known member status.
func (s MemberStatus) IsValid() bool {
	switch s {
	case MemberStatusActive, MemberStatusSuspended, MemberStatusBanned:
		return true
	}
	return false
}

// ClubMember ties a user to a club with a role, a status and optional
// per-member permission overrides layered on top of the role's grants.
type ClubMember struct {
	ID               int64        `json:"id" db:"id"`
	ClubID           int64        `json:"clubId" db:"club_id"`
	UserID           int64        `json:"userId" db:"user_id"`
	RoleName         string       `json:"roleName" db:"role_name"`
	Status           MemberStatus `json:"status" db:"status"`
	ExtraPermissions []Permission `json:"extraPermissions,omitempty" db:"extra_permissions"`
	JoinedAt         time.Time    `json:"joinedAt" db:"joined_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}
