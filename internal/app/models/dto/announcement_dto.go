package dto

import (
	"time"

	"github.com/eren/clubsphere/internal/app/models"
)

// PollOptionRequest is one votable option of a new poll
type PollOptionRequest struct {
	Text string `json:"text" binding:"required,max=200"`
}

// FormFieldRequest is one question of a new form announcement
type FormFieldRequest struct {
	Text     string `json:"text" binding:"required,max=500"`
	Required bool   `json:"required"`
}

// CreateAnnouncementRequest is the payload for posting an announcement, poll
// or form
type CreateAnnouncementRequest struct {
	Title         string              `json:"title" binding:"required,min=1,max=200" example:"Pizza night poll"`
	Content       string              `json:"content" binding:"max=5000"`
	Type          string              `json:"type" binding:"required,oneof=announcement poll form" example:"poll"`
	AllowMultiple bool                `json:"allowMultiple"`
	IsAnonymous   bool                `json:"isAnonymous"`
	ClosesAt      *time.Time          `json:"closesAt,omitempty"`
	Options       []PollOptionRequest `json:"options,omitempty" binding:"max=20,dive"`
	Questions     []FormFieldRequest  `json:"questions,omitempty" binding:"max=50,dive"`
}

// AnnouncementResponse represents an announcement in API responses
type AnnouncementResponse struct {
	ID            int64                 `json:"id" example:"9"`
	ClubID        int64                 `json:"clubId" example:"1"`
	Title         string                `json:"title" example:"Pizza night poll"`
	Content       string                `json:"content"`
	Type          string                `json:"type" example:"poll"`
	Pinned        bool                  `json:"pinned"`
	CreatedBy     int64                 `json:"createdBy" example:"7"`
	AllowMultiple bool                  `json:"allowMultiple"`
	IsAnonymous   bool                  `json:"isAnonymous"`
	IsOpen        bool                  `json:"isOpen"`
	ClosesAt      *time.Time            `json:"closesAt,omitempty"`
	Options       []models.PollOption   `json:"options,omitempty"`
	Questions     []models.FormQuestion `json:"questions,omitempty"`
	HasVoted      bool                  `json:"hasVoted,omitempty"`
	HasResponded  bool                  `json:"hasResponded,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// NewAnnouncementResponse maps an announcement model to its response form.
// isOpen reflects lazy expiry evaluated at response time, not the stored flag.
func NewAnnouncementResponse(a *models.ClubAnnouncement, isOpen bool) *AnnouncementResponse {
	return &AnnouncementResponse{
		ID:            a.ID,
		ClubID:        a.ClubID,
		Title:         a.Title,
		Content:       a.Content,
		Type:          string(a.Type),
		Pinned:        a.Pinned,
		CreatedBy:     a.CreatedBy,
		AllowMultiple: a.AllowMultiple,
		IsAnonymous:   a.IsAnonymous,
		IsOpen:        isOpen,
		ClosesAt:      a.ClosesAt,
		Options:       a.Options,
		Questions:     a.Questions,
		CreatedAt:     a.CreatedAt,
	}
}

// VoteRequest casts a vote on a poll option
type VoteRequest struct {
	OptionID int64 `json:"optionId" binding:"required" example:"21"`
}

// PollVoteData represents one cast vote in API responses. UserID is zero for
// anonymous polls.
type PollVoteData struct {
	OptionID  int64     `json:"optionId"`
	UserID    int64     `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmitFormRequest submits answers to a form announcement
type SubmitFormRequest struct {
	Answers []FormAnswerRequest `json:"answers" binding:"required,max=50,dive"`
}

// FormAnswerRequest is one answer inside a form submission
type FormAnswerRequest struct {
	QuestionIndex int    `json:"questionIndex" binding:"min=0"`
	Answer        string `json:"answer" binding:"max=2000"`
}

// FormResponseData represents one member's form submission in API responses.
// UserID is zero for anonymous forms.
type FormResponseData struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"userId,omitempty"`
	Answers   []models.FormAnswer `json:"answers"`
	CreatedAt time.Time           `json:"createdAt"`
}

// CommentRequest posts or edits a comment on an announcement
type CommentRequest struct {
	Text            string `json:"text" binding:"required,min=1,max=2000"`
	ParentCommentID *int64 `json:"parentCommentId,omitempty"`
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	ID              int64     `json:"id" example:"31"`
	AnnouncementID  int64     `json:"announcementId" example:"9"`
	UserID          int64     `json:"userId" example:"42"`
	ParentCommentID *int64    `json:"parentCommentId,omitempty"`
	Text            string    `json:"text"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewCommentResponse maps a comment model to its response form
func NewCommentResponse(c *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:              c.ID,
		AnnouncementID:  c.AnnouncementID,
		UserID:          c.UserID,
		ParentCommentID: c.ParentCommentID,
		Text:            c.Text,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
