package models

import "time"

// TripStatus is the lifecycle state of a club trip.
type TripStatus string

const (
	TripPlanned   TripStatus = "planned"
	TripOngoing   TripStatus = "ongoing"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

// CanTransitionTo reports whether the trip state machine permits moving from
// s to next: planned → ongoing → completed, cancelled from planned or ongoing.
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	switch s {
	case TripPlanned:
		return next == TripOngoing || next == TripCancelled
	case TripOngoing:
		return next == TripCompleted || next == TripCancelled
	}
	return false
}

// ClubTrip is a scheduled club outing with optional capacity.
type ClubTrip struct {
	ID          int64      `json:"id" db:"id"`
	ClubID      int64      `json:"clubId" db:"club_id"`
	Title       string     `json:"title" db:"title"`
	Destination string     `json:"destination" db:"destination"`
	StartAt     time.Time  `json:"startAt" db:"start_at"`
	EndAt       *time.Time `json:"endAt,omitempty" db:"end_at"`
	Capacity    int        `json:"capacity" db:"capacity"` // 0 means unlimited
	Status      TripStatus `json:"status" db:"status"`
	CreatedBy   int64      `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Related entities
	Participants []TripParticipant `json:"participants,omitempty"`
}

// TripParticipant is one signed-up member of a trip.
type TripParticipant struct {
	ID       int64     `json:"id" db:"id"`
	TripID   int64     `json:"tripId" db:"trip_id"`
	UserID   int64     `json:"userId" db:"user_id"`
	Attended bool      `json:"attended" db:"attended"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`
}
