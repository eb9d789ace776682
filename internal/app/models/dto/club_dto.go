package dto

import (
	"time"

	"github.com/eren/clubsphere/internal/app/models"
)

// CreateClubRequest is the payload for founding a club
type CreateClubRequest struct {
	Name        string   `json:"name" binding:"required,min=3,max=100" example:"Hiking Club"`
	Description string   `json:"description" binding:"max=2000" example:"Weekend hikes around the city"`
	Category    string   `json:"category" binding:"max=50" example:"outdoors"`
	Tags        []string `json:"tags" binding:"max=10"`
}

// UpdateClubRequest is the payload for editing a club's descriptive fields
type UpdateClubRequest struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,min=3,max=100"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=2000"`
	Category    *string  `json:"category,omitempty" binding:"omitempty,max=50"`
	Tags        []string `json:"tags,omitempty" binding:"omitempty,max=10"`
}

// FormQuestionRequest is one question of the club's application form
type FormQuestionRequest struct {
	Text     string `json:"text" binding:"required,max=500"`
	Required bool   `json:"required"`
}

// UpdateFormRequest replaces the club's application form configuration
type UpdateFormRequest struct {
	Enabled   bool                  `json:"enabled"`
	Open      bool                  `json:"open"`
	Questions []FormQuestionRequest `json:"questions" binding:"max=50,dive"`
}

// ClubResponse represents a club in API responses
type ClubResponse struct {
	ID            int64                     `json:"id" example:"1"`
	Name          string                    `json:"name" example:"Hiking Club"`
	Description   string                    `json:"description" example:"Weekend hikes around the city"`
	Category      string                    `json:"category" example:"outdoors"`
	Tags          []string                  `json:"tags"`
	OwnerID       int64                     `json:"ownerId" example:"7"`
	MemberCount   int                       `json:"memberCount" example:"12"`
	FormEnabled   bool                      `json:"formEnabled"`
	FormOpen      bool                      `json:"formOpen"`
	FormQuestions []models.FormQuestionSpec `json:"formQuestions,omitempty"`
	CreatedAt     time.Time                 `json:"createdAt"`
}

// NewClubResponse maps a club model to its response form
func NewClubResponse(club *models.Club) *ClubResponse {
	return &ClubResponse{
		ID:            club.ID,
		Name:          club.Name,
		Description:   club.Description,
		Category:      club.Category,
		Tags:          club.Tags,
		OwnerID:       club.OwnerID,
		MemberCount:   club.MemberCount,
		FormEnabled:   club.FormEnabled,
		FormOpen:      club.FormOpen,
		FormQuestions: club.FormQuestions,
		CreatedAt:     club.CreatedAt,
	}
}

// ClubFilterRequest holds listing filters for clubs
type ClubFilterRequest struct {
	Category string `form:"category"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"pageSize,default=20" binding:"min=1,max=100"`
}

// ClubListResponse is the paginated club listing
type ClubListResponse struct {
	Clubs          []ClubResponse `json:"clubs"`
	PaginationInfo PaginationInfo `json:"pagination"`
}

// ViolationRequest records a disciplinary violation against a member
type ViolationRequest struct {
	UserID int64  `json:"userId" binding:"required" example:"42"`
	Reason string `json:"reason" binding:"required,max=1000" example:"Missed three meetings without notice"`
}

// ViolationResponse represents a violation record in API responses
type ViolationResponse struct {
	ID        int64     `json:"id"`
	ClubID    int64     `json:"clubId"`
	UserID    int64     `json:"userId"`
	Reason    string    `json:"reason"`
	IssuedBy  int64     `json:"issuedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewViolationResponse maps a violation model to its response form
func NewViolationResponse(v *models.Violation) *ViolationResponse {
	return &ViolationResponse{
		ID:        v.ID,
		ClubID:    v.ClubID,
		UserID:    v.UserID,
		Reason:    v.Reason,
		IssuedBy:  v.IssuedBy,
		CreatedAt: v.CreatedAt,
	}
}
