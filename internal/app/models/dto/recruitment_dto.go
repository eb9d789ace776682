package dto

import (
	"time"

	"github.com/eren/clubsphere/internal/app/models"
)

// ApplicationAnswerRequest is one answer to a club's application form question
type ApplicationAnswerRequest struct {
	QuestionIndex int    `json:"questionIndex" binding:"min=0"`
	Answer        string `json:"answer" binding:"max=2000"`
}

// ApplyRequest is the payload for applying to a club
type ApplyRequest struct {
	Message string                     `json:"message" binding:"max=2000" example:"I hike every weekend and would love to join"`
	Answers []ApplicationAnswerRequest `json:"answers" binding:"max=50,dive"`
}

// ApplicationResponse represents an application in API responses
type ApplicationResponse struct {
	ID        int64                      `json:"id" example:"5"`
	ClubID    int64                      `json:"clubId" example:"1"`
	UserID    int64                      `json:"userId" example:"42"`
	Status    string                     `json:"status" example:"pending"`
	Message   string                     `json:"message"`
	Answers   []models.ApplicationAnswer `json:"answers,omitempty"`
	Interview *models.Interview          `json:"interview,omitempty"`
	CreatedAt time.Time                  `json:"createdAt"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

// NewApplicationResponse maps an application model to its response form
func NewApplicationResponse(application *models.ClubApplication) *ApplicationResponse {
	return &ApplicationResponse{
		ID:        application.ID,
		ClubID:    application.ClubID,
		UserID:    application.UserID,
		Status:    string(application.Status),
		Message:   application.Message,
		Answers:   application.Answers,
		Interview: application.Interview,
		CreatedAt: application.CreatedAt,
		UpdatedAt: application.UpdatedAt,
	}
}

// ScheduleInterviewRequest schedules an interview for a pending application
type ScheduleInterviewRequest struct {
	Date     time.Time `json:"date" binding:"required" example:"2026-05-10T14:00:00Z"`
	Location string    `json:"location" binding:"required,max=200" example:"Student center room 204"`
	Type     string    `json:"type" binding:"required,oneof=in_person online" example:"in_person"`
	Notes    string    `json:"notes" binding:"omitempty,max=1000"`
}

// CompleteInterviewRequest records the outcome notes of a held interview
type CompleteInterviewRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=2000"`
}

// InviteRequest is the payload for inviting a user to a club
type InviteRequest struct {
	UserID int64 `json:"userId" binding:"required" example:"42"`
}

// InvitationResponse represents an invitation in API responses
type InvitationResponse struct {
	ID        int64     `json:"id" example:"8"`
	Code      string    `json:"code" example:"3f8a1c0e-9d4b-4f3e-b2a6-7c5d1e9f0a2b"`
	ClubID    int64     `json:"clubId" example:"1"`
	UserID    int64     `json:"userId" example:"42"`
	IssuedBy  int64     `json:"issuedBy" example:"7"`
	Status    string    `json:"status" example:"pending"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewInvitationResponse maps an invitation model to its response form
func NewInvitationResponse(invitation *models.ClubInvitation) *InvitationResponse {
	return &InvitationResponse{
		ID:        invitation.ID,
		Code:      invitation.Code,
		ClubID:    invitation.ClubID,
		UserID:    invitation.UserID,
		IssuedBy:  invitation.IssuedBy,
		Status:    string(invitation.Status),
		CreatedAt: invitation.CreatedAt,
	}
}
