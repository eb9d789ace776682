package models

// Permission is one atomic capability from the fixed vocabulary gating a
// specific mutating operation.
type Permission string

// The canonical 17-token permission vocabulary. Trip creation is covered by
// ManageTrips; there is no separate create token.
const (
	PermEditClub             Permission = "edit_club"
	PermDeleteClub           Permission = "delete_club"
	PermManageRoles          Permission = "manage_roles"
	PermAssignRoles          Permission = "assign_roles"
	PermInviteMembers        Permission = "invite_members"
	PermRemoveMembers        Permission = "remove_members"
	PermSuspendMembers       Permission = "suspend_members"
	PermApproveApplications  Permission = "approve_applications"
	PermViewApplications     Permission = "view_applications"
	PermInterviewApplicants  Permission = "interview_applicants"
	PermManageViolations     Permission = "manage_violations"
	PermViewMembers          Permission = "view_members"
	PermViewClub             Permission = "view_club"
	PermPostAnnouncements    Permission = "post_announcements"
	PermManageTrips          Permission = "manage_trips"
	PermUploadContent        Permission = "upload_content"
	PermManageContent        Permission = "manage_content"
)

// AllPermissions lists the full vocabulary in declaration order.
var AllPermissions = []Permission{
	PermEditClub,
	PermDeleteClub,
	PermManageRoles,
	PermAssignRoles,
	PermInviteMembers,
	PermRemoveMembers,
	PermSuspendMembers,
	PermApproveApplications,
	PermViewApplications,
	PermInterviewApplicants,
	PermManageViolations,
	PermViewMembers,
	PermViewClub,
	PermPostAnnouncements,
	PermManageTrips,
	PermUploadContent,
	PermManageContent,
}

// DefaultMemberPermissions is the minimal set carried by the reserved
// "Member" role at club creation. It may be re-permissioned afterwards.
var DefaultMemberPermissions = []Permission{PermViewClub, PermViewMembers}

// IsValid reports whether p is part of the vocabulary.
func (p Permission) IsValid() bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// PermissionSet is an effective permission set resolved for a member.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from permission slices, ignoring duplicates.
func NewPermissionSet(grants ...[]Permission) PermissionSet {
	set := make(PermissionSet)
	for _, list := range grants {
		for _, p := range list {
			set[p] = struct{}{}
		}
	}
	return set
}

// FullPermissionSet returns a set holding the entire vocabulary.
func FullPermissionSet() PermissionSet {
	return NewPermissionSet(AllPermissions)
}

// Has reports whether the set contains p.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// List returns the set's members in vocabulary order.
func (s PermissionSet) List() []Permission {
	out := make([]Permission, 0, len(s))
	for _, p := range AllPermissions {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Strings converts a permission slice to plain strings for persistence.
func Strings(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

// FromStrings converts persisted strings back to permissions, dropping any
// token no longer in the vocabulary.
func FromStrings(tokens []string) []Permission {
	out := make([]Permission, 0, len(tokens))
	for _, t := range tokens {
		if p := Permission(t); p.IsValid() {
			out = append(out, p)
		}
	}
	return out
}
