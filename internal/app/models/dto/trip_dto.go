package dto

import (
	"time"

	"github.com/eren/clubsphere/internal/app/models"
)

// CreateTripRequest is the payload for planning a trip
type CreateTripRequest struct {
	Title       string     `json:"title" binding:"required,min=3,max=200" example:"Lakeside campout"`
	Destination string     `json:"destination" binding:"required,max=200" example:"Silver Lake"`
	StartAt     time.Time  `json:"startAt" binding:"required" example:"2026-06-12T08:00:00Z"`
	EndAt       *time.Time `json:"endAt,omitempty"`
	Capacity    int        `json:"capacity" binding:"min=0" example:"15"`
}

// UpdateTripRequest edits a trip's descriptive fields and capacity
type UpdateTripRequest struct {
	Title       *string    `json:"title,omitempty" binding:"omitempty,min=3,max=200"`
	Destination *string    `json:"destination,omitempty" binding:"omitempty,max=200"`
	StartAt     *time.Time `json:"startAt,omitempty"`
	EndAt       *time.Time `json:"endAt,omitempty"`
	Capacity    *int       `json:"capacity,omitempty" binding:"omitempty,min=0"`
}

// UpdateTripStatusRequest moves a trip through its lifecycle
type UpdateTripStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ongoing completed cancelled" example:"ongoing"`
}

// AttendanceRequest records whether a participant attended
type AttendanceRequest struct {
	UserID   int64 `json:"userId" binding:"required" example:"42"`
	Attended bool  `json:"attended"`
}

// TripResponse represents a trip in API responses
type TripResponse struct {
	ID               int64      `json:"id" example:"4"`
	ClubID           int64      `json:"clubId" example:"1"`
	Title            string     `json:"title" example:"Lakeside campout"`
	Destination      string     `json:"destination" example:"Silver Lake"`
	StartAt          time.Time  `json:"startAt"`
	EndAt            *time.Time `json:"endAt,omitempty"`
	Capacity         int        `json:"capacity" example:"15"`
	ParticipantCount int        `json:"participantCount" example:"9"`
	Status           string     `json:"status" example:"planned"`
	CreatedBy        int64      `json:"createdBy" example:"7"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// NewTripResponse maps a trip model to its response form
func NewTripResponse(trip *models.ClubTrip, participantCount int) *TripResponse {
	return &TripResponse{
		ID:               trip.ID,
		ClubID:           trip.ClubID,
		Title:            trip.Title,
		Destination:      trip.Destination,
		StartAt:          trip.StartAt,
		EndAt:            trip.EndAt,
		Capacity:         trip.Capacity,
		ParticipantCount: participantCount,
		Status:           string(trip.Status),
		CreatedBy:        trip.CreatedBy,
		CreatedAt:        trip.CreatedAt,
	}
}

// ParticipantResponse represents a trip signup in API responses
type ParticipantResponse struct {
	UserID   int64     `json:"userId" example:"42"`
	Attended bool      `json:"attended"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NewParticipantResponse maps a participant model to its response form
func NewParticipantResponse(p *models.TripParticipant) *ParticipantResponse {
	return &ParticipantResponse{
		UserID:   p.UserID,
		Attended: p.Attended,
		JoinedAt: p.JoinedAt,
	}
}
