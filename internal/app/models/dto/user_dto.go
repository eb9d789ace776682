package dto

import (
	"time"

	"github.com/eren/clubsphere/internal/app/models"
)

// SetAdminRequest grants or revokes the platform admin flag
type SetAdminRequest struct {
	IsAdmin *bool `json:"isAdmin" binding:"required" example:"true"`
}

// UserResponse represents a user account in API responses
type UserResponse struct {
	ID        int64     `json:"id" example:"1"`
	Username  string    `json:"username" example:"wanderer"`
	Email     string    `json:"email" example:"wanderer@example.com"`
	IsAdmin   bool      `json:"isAdmin" example:"false"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserResponse maps a user model to its response representation
func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}
