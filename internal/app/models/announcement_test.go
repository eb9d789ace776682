package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnnouncementIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	open := &ClubAnnouncement{IsOpen: true}
	assert.False(t, open.IsExpired(now), "open without a closing time never expires")

	closesLater := &ClubAnnouncement{IsOpen: true, ClosesAt: &future}
	assert.False(t, closesLater.IsExpired(now))

	closesEarlier := &ClubAnnouncement{IsOpen: true, ClosesAt: &past}
	assert.True(t, closesEarlier.IsExpired(now))

	// Explicit closure wins even with a future closing time
	closedEarly := &ClubAnnouncement{IsOpen: false, ClosesAt: &future}
	assert.True(t, closedEarly.IsExpired(now))
}

func TestCommentEditableBy(t *testing.T) {
	created := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	comment := &Comment{UserID: 7, CreatedAt: created}

	assert.True(t, comment.EditableBy(7, created.Add(time.Minute)))
	assert.True(t, comment.EditableBy(7, created.Add(CommentEditWindow)), "window boundary is inclusive")
	assert.False(t, comment.EditableBy(7, created.Add(CommentEditWindow+time.Second)))
	assert.False(t, comment.EditableBy(8, created.Add(time.Minute)), "only the author may edit")
}
