package notifier

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Priority of a notification request.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Notification kinds emitted by the workflow services.
const (
	KindApplicationReceived = "application_received"
	KindInterviewScheduled  = "interview_scheduled"
	KindInterviewCompleted  = "interview_completed"
	KindApplicationApproved = "application_approved"
	KindApplicationRejected = "application_rejected"
	KindInvitationReceived  = "invitation_received"
	KindInvitationAccepted  = "invitation_accepted"
	KindInvitationDeclined  = "invitation_declined"
	KindInvitationCancelled = "invitation_cancelled"
	KindMemberRemoved       = "member_removed"
	KindMemberStatusChanged = "member_status_changed"
	KindMemberRoleChanged   = "member_role_changed"
	KindViolationRecorded   = "violation_recorded"
	KindTripCancelled       = "trip_cancelled"
)

// Notification is an outbound notification request. Delivery is owned by an
// external system; the core only emits.
type Notification struct {
	ID            string   `json:"id"`
	RecipientID   int64    `json:"recipientId"`
	Kind          string   `json:"kind"`
	Title         string   `json:"title"`
	Message       string   `json:"message"`
	RelatedClubID int64    `json:"relatedClubId,omitempty"`
	Priority      Priority `json:"priority"`
}

// Notifier accepts notification requests. Implementations must be safe for
// concurrent use. Failures are the caller's to log, never to roll back on.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// stamped assigns a fresh uuid when the request carries no ID, so the delivery
// system can deduplicate on retries.
func stamped(msg Notification) Notification {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	return msg
}

// LogNotifier writes notification requests to the log. Used in development
// and as the fallback driver.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notification request.
func (n *LogNotifier) Notify(_ context.Context, msg Notification) error {
	msg = stamped(msg)
	n.logger.Info().
		Str("id", msg.ID).
		Str("kind", msg.Kind).
		Int64("recipientId", msg.RecipientID).
		Int64("relatedClubId", msg.RelatedClubID).
		Str("priority", string(msg.Priority)).
		Str("title", msg.Title).
		Msg("Notification emitted")
	return nil
}
