package models

import "time"

// Reserved role names. Every club has exactly one "Member" role whose name can
// never change, and a "President" role held by the owner.
const (
	RoleNameMember    = "Member"
	RoleNamePresident = "President"
)

// ClubRole is a named, per-club bundle of permission tokens assignable to
// members. Names are unique within a club, case-sensitive.
type ClubRole struct {
	ID          int64        `json:"id" db:"id"`
	ClubID      int64        `json:"clubId" db:"club_id"`
	Name        string       `json:"name" db:"name"`
	Permissions []Permission `json:"permissions" db:"permissions"`
	Color       string       `json:"color,omitempty" db:"color"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
}

// IsReserved reports whether the role carries a reserved name.
func (r *ClubRole) IsReserved() bool {
	return r.Name == RoleNameMember || r.Name == RoleNamePresident
}
