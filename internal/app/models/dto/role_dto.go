package dto

import (
	"time"

	"github.com/eren/clubsphere/internal/app/models"
)

// CreateRoleRequest is the payload for defining a custom club role
type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=50" example:"Trip Leader"`
	Permissions []string `json:"permissions" binding:"required,dive,permtoken"`
	Color       string   `json:"color" binding:"omitempty,max=20" example:"#2a9d8f"`
}

// UpdateRoleRequest replaces a role's permission set and color
type UpdateRoleRequest struct {
	Permissions []string `json:"permissions" binding:"required,dive,permtoken"`
	Color       string   `json:"color" binding:"omitempty,max=20"`
}

// RoleResponse represents a club role in API responses
type RoleResponse struct {
	ID          int64     `json:"id" example:"3"`
	ClubID      int64     `json:"clubId" example:"1"`
	Name        string    `json:"name" example:"Trip Leader"`
	Permissions []string  `json:"permissions"`
	Color       string    `json:"color,omitempty"`
	Reserved    bool      `json:"reserved"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewRoleResponse maps a role model to its response form
func NewRoleResponse(role *models.ClubRole) *RoleResponse {
	return &RoleResponse{
		ID:          role.ID,
		ClubID:      role.ClubID,
		Name:        role.Name,
		Permissions: models.Strings(role.Permissions),
		Color:       role.Color,
		Reserved:    role.IsReserved(),
		CreatedAt:   role.CreatedAt,
	}
}
