package models

import "time"

// AnnouncementType distinguishes plain announcements from interactive ones.
type AnnouncementType string

const (
	AnnouncementPlain AnnouncementType = "announcement"
	AnnouncementPoll  AnnouncementType = "poll"
	AnnouncementForm  AnnouncementType = "form"
)

// IsValid reports whether t is a known announcement type.
func (t AnnouncementType) IsValid() bool {
	switch t {
	case AnnouncementPlain, AnnouncementPoll, AnnouncementForm:
		return true
	}
	return false
}

// CommentEditWindow is how long a comment stays editable by its author.
const CommentEditWindow = 15 * time.Minute

// ClubAnnouncement is a club posting. Poll and form announcements carry the
// interaction settings; votes, responses and comments live in their own keyed
// collections referencing the announcement.
type ClubAnnouncement struct {
	ID        int64            `json:"id" db:"id"`
	ClubID    int64            `json:"clubId" db:"club_id"`
	Title     string           `json:"title" db:"title"`
	Content   string           `json:"content" db:"content"`
	Type      AnnouncementType `json:"type" db:"type"`
	Pinned    bool             `json:"pinned" db:"pinned"`
	CreatedBy int64            `json:"createdBy" db:"created_by"`

	// Poll/form settings. IsOpen is a cached derived value; ClosesAt against
	// the current time is the source of truth for expiry.
	AllowMultiple bool       `json:"allowMultiple" db:"allow_multiple"`
	IsAnonymous   bool       `json:"isAnonymous" db:"is_anonymous"`
	IsOpen        bool       `json:"isOpen" db:"is_open"`
	ClosesAt      *time.Time `json:"closesAt,omitempty" db:"closes_at"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Options   []PollOption   `json:"options,omitempty"`
	Questions []FormQuestion `json:"questions,omitempty"`
}

// IsExpired is the pure expiry predicate: an announcement's interaction is
// expired when it was closed explicitly or its closing time has passed.
func (a *ClubAnnouncement) IsExpired(now time.Time) bool {
	if !a.IsOpen {
		return true
	}
	return a.ClosesAt != nil && now.After(*a.ClosesAt)
}

// PollOption is one votable option of a poll announcement.
type PollOption struct {
	ID             int64  `json:"id" db:"id"`
	AnnouncementID int64  `json:"announcementId" db:"announcement_id"`
	Index          int    `json:"index" db:"idx"`
	Text           string `json:"text" db:"text"`
	VoteCount      int    `json:"voteCount" db:"vote_count"`
}

// PollVote is a single vote on a poll option.
type PollVote struct {
	ID             int64     `json:"id" db:"id"`
	AnnouncementID int64     `json:"announcementId" db:"announcement_id"`
	OptionID       int64     `json:"optionId" db:"option_id"`
	UserID         int64     `json:"userId" db:"user_id"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// FormQuestion is one ordered question of a form announcement.
type FormQuestion struct {
	ID             int64  `json:"id" db:"id"`
	AnnouncementID int64  `json:"announcementId" db:"announcement_id"`
	Index          int    `json:"index" db:"idx"`
	Text           string `json:"text" db:"text"`
	Required       bool   `json:"required" db:"required"`
}

// FormAnswer is one answer inside a form response.
type FormAnswer struct {
	QuestionIndex int    `json:"questionIndex"`
	Answer        string `json:"answer"`
}

// FormResponse is one member's submission to a form announcement.
type FormResponse struct {
	ID             int64        `json:"id" db:"id"`
	AnnouncementID int64        `json:"announcementId" db:"announcement_id"`
	UserID         int64        `json:"userId" db:"user_id"`
	Answers        []FormAnswer `json:"answers" db:"answers"`
	CreatedAt      time.Time    `json:"createdAt" db:"created_at"`
}

// Comment is a threaded comment on an announcement. One level of parent
// reference; replies to replies attach to the original parent.
type Comment struct {
	ID              int64     `json:"id" db:"id"`
	AnnouncementID  int64     `json:"announcementId" db:"announcement_id"`
	UserID          int64     `json:"userId" db:"user_id"`
	ParentCommentID *int64    `json:"parentCommentId,omitempty" db:"parent_comment_id"`
	Text            string    `json:"text" db:"text"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// EditableBy reports whether the author may still edit the comment at now.
func (c *Comment) EditableBy(userID int64, now time.Time) bool {
	if c.UserID != userID {
		return false
	}
	return now.Sub(c.CreatedAt) <= CommentEditWindow
}
