package models

import "time"

// ApplicationStatus is the lifecycle state of a club application.
type ApplicationStatus string

const (
	ApplicationPending            ApplicationStatus = "pending"
	ApplicationInterviewScheduled ApplicationStatus = "interview_scheduled"
	ApplicationInterviewCompleted ApplicationStatus = "interview_completed"
	ApplicationApproved           ApplicationStatus = "approved"
	ApplicationRejected           ApplicationStatus = "rejected"
)

// IsTerminal reports whether no further transition is defined from s.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

// CanTransitionTo reports whether the application state machine permits
// moving from s to next. Withdrawal is a deletion, not a transition, and is
// handled separately.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch s {
	case ApplicationPending:
		return next == ApplicationInterviewScheduled ||
			next == ApplicationApproved ||
			next == ApplicationRejected
	case ApplicationInterviewScheduled:
		return next == ApplicationInterviewCompleted
	case ApplicationInterviewCompleted:
		return next == ApplicationApproved || next == ApplicationRejected
	}
	return false
}

// ApplicationAnswer is a structured answer to one of the club's application
// form questions.
type ApplicationAnswer struct {
	QuestionIndex int    `json:"questionIndex"`
	Question      string `json:"question"`
	Answer        string `json:"answer"`
}

// Interview holds the scheduled interview details of an application.
type Interview struct {
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	Type     string    `json:"type"`
	Notes    string    `json:"notes,omitempty"`
}

// ClubApplication is a user-initiated request to join a club. At most one
// non-terminal application per (club, user) pair may exist at a time.
type ClubApplication struct {
	ID        int64               `json:"id" db:"id"`
	ClubID    int64               `json:"clubId" db:"club_id"`
	UserID    int64               `json:"userId" db:"user_id"`
	Status    ApplicationStatus   `json:"status" db:"status"`
	Message   string              `json:"message" db:"message"`
	Answers   []ApplicationAnswer `json:"answers" db:"answers"`
	Interview *Interview          `json:"interview,omitempty" db:"interview"`
	CreatedAt time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time           `json:"updatedAt" db:"updated_at"`
}
