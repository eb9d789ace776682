package dto

import (
	"time"

	"github.com/eren/clubsphere/internal/app/models"
)

// MemberResponse represents a club membership in API responses
type MemberResponse struct {
	ClubID               int64    `json:"clubId" example:"1"`
	UserID               int64    `json:"userId" example:"42"`
	RoleName             string   `json:"roleName" example:"Member"`
	Status               string   `json:"status" example:"active"`
	ExtraPermissions     []string `json:"extraPermissions,omitempty"`
	EffectivePermissions []string `json:"effectivePermissions,omitempty"`
	JoinedAt             time.Time `json:"joinedAt"`
}

// NewMemberResponse maps a membership model to its response form
func NewMemberResponse(member *models.ClubMember) *MemberResponse {
	return &MemberResponse{
		ClubID:           member.ClubID,
		UserID:           member.UserID,
		RoleName:         member.RoleName,
		Status:           string(member.Status),
		ExtraPermissions: models.Strings(member.ExtraPermissions),
		JoinedAt:         member.JoinedAt,
	}
}

// UpdateMemberStatusRequest changes a member's status
type UpdateMemberStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended banned" example:"suspended"`
	Reason string `json:"reason" binding:"omitempty,max=1000"`
}

// AssignRoleRequest changes a member's role
type AssignRoleRequest struct {
	RoleName string `json:"roleName" binding:"required,min=1,max=50" example:"Trip Leader"`
}

// UpdateOverridesRequest replaces a member's per-member permission overrides
type UpdateOverridesRequest struct {
	Permissions []string `json:"permissions" binding:"required,dive,permtoken"`
}
