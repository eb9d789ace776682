package models

import "time"

// InvitationStatus is the lifecycle state of a club invitation.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationDeclined  InvitationStatus = "declined"
	InvitationCancelled InvitationStatus = "cancelled"
	InvitationExpired   InvitationStatus = "expired"
)

// IsTerminal reports whether no further transition is defined from s.
func (s InvitationStatus) IsTerminal() bool {
	return s != InvitationPending
}

// ClubInvitation is a club-initiated offer of membership. Terminal invitations
// are kept for audit rather than deleted.
type ClubInvitation struct {
	ID        int64            `json:"id" db:"id"`
	Code      string           `json:"code" db:"code"`
	ClubID    int64            `json:"clubId" db:"club_id"`
	UserID    int64            `json:"userId" db:"user_id"`
	IssuedBy  int64            `json:"issuedBy" db:"issued_by"`
	Status    InvitationStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time        `json:"updatedAt" db:"updated_at"`
}
