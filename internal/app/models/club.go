package models

import "time"

// Club represents a user-created community with exactly one owner (president).
type Club struct {
	ID            int64              `json:"id" db:"id"`
	Name          string             `json:"name" db:"name"`
	Description   string             `json:"description" db:"description"`
	Category      string             `json:"category" db:"category"`
	Tags          []string           `json:"tags" db:"tags"`
	OwnerID       int64              `json:"ownerId" db:"owner_id"`
	MemberCount   int                `json:"memberCount" db:"member_count"`
	FormEnabled   bool               `json:"formEnabled" db:"form_enabled"`
	FormOpen      bool               `json:"formOpen" db:"form_open"`
	FormQuestions []FormQuestionSpec `json:"formQuestions" db:"form_questions"`
	CreatedAt     time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time          `json:"updatedAt" db:"updated_at"`

	// Related entities
	Owner *User      `json:"owner,omitempty"`
	Roles []ClubRole `json:"roles,omitempty"`
}

// FormQuestionSpec is one ordered question of a club's application form.
type FormQuestionSpec struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Required bool   `json:"required"`
}

// Violation is a disciplinary record attached to a club member.
type Violation struct {
	ID        int64     `json:"id" db:"id"`
	ClubID    int64     `json:"clubId" db:"club_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Reason    string    `json:"reason" db:"reason"`
	IssuedBy  int64     `json:"issuedBy" db:"issued_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
