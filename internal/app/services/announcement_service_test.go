package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eren/clubsphere/internal/app/models"
	"github.com/eren/clubsphere/internal/app/models/dto"
	"github.com/eren/clubsphere/internal/pkg/apperrors"
)

// newAnnouncementService wires the impl directly so tests can control the
// clock.
func newAnnouncementService(f *fixture, now func() time.Time) *announcementServiceImpl {
	if now == nil {
		now = time.Now
	}
	return &announcementServiceImpl{
		announcementRepo: f.announcements,
		commentRepo:      f.comments,
		memberRepo:       f.members,
		permissions:      f.engine,
		logger:           f.logger,
		now:              now,
	}
}

func TestCreateAnnouncementValidation(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")

	cases := []struct {
		name    string
		req     *dto.CreateAnnouncementRequest
		message string
	}{
		{
			name:    "poll with one option",
			req:     &dto.CreateAnnouncementRequest{Title: "Pizza?", Type: "poll", Options: []dto.PollOptionRequest{{Text: "Yes"}}},
			message: "A poll needs at least two options",
		},
		{
			name:    "form without questions",
			req:     &dto.CreateAnnouncementRequest{Title: "Feedback", Type: "form"},
			message: "A form needs at least one question",
		},
		{
			name:    "plain with options",
			req:     &dto.CreateAnnouncementRequest{Title: "Meeting", Type: "announcement", Options: []dto.PollOptionRequest{{Text: "Huh"}}},
			message: "A plain announcement carries no options or questions",
		},
		{
			name:    "unknown type",
			req:     &dto.CreateAnnouncementRequest{Title: "Quiz", Type: "quiz"},
			message: "Unknown announcement type: quiz",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateAnnouncement(ctx, clubID, 7, false, tc.req)
			require.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.EqualError(t, err, tc.message)
		})
	}

	past := time.Now().Add(-time.Hour)
	_, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{
		Title:    "Late poll",
		Type:     "poll",
		ClosesAt: &past,
		Options:  []dto.PollOptionRequest{{Text: "A"}, {Text: "B"}},
	})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.EqualError(t, err, "Closing time must be in the future")
}

func TestCreatePoll(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")

	resp, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{
		Title:   "Pizza night poll",
		Type:    "poll",
		Options: []dto.PollOptionRequest{{Text: "Friday"}, {Text: "Saturday"}},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsOpen)
	require.Len(t, resp.Options, 2)
	assert.NotZero(t, resp.Options[0].ID)
	assert.Equal(t, "Friday", resp.Options[0].Text)
}

func TestVote(t *testing.T) {
	f := newFixture()
	current := time.Now()
	svc := newAnnouncementService(f, func() time.Time { return current })
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)
	f.addMember(clubID, 43)

	closes := current.Add(time.Hour)
	poll, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{
		Title:    "Pizza night poll",
		Type:     "poll",
		ClosesAt: &closes,
		Options:  []dto.PollOptionRequest{{Text: "Friday"}, {Text: "Saturday"}},
	})
	require.NoError(t, err)
	optionID := poll.Options[0].ID

	// Non-members cannot vote
	err = svc.Vote(ctx, poll.ID, 99, &dto.VoteRequest{OptionID: optionID})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Foreign option IDs are rejected
	err = svc.Vote(ctx, poll.ID, 42, &dto.VoteRequest{OptionID: 9999})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.EqualError(t, err, "The option does not belong to this poll")

	require.NoError(t, svc.Vote(ctx, poll.ID, 42, &dto.VoteRequest{OptionID: optionID}))

	// One vote per member
	err = svc.Vote(ctx, poll.ID, 42, &dto.VoteRequest{OptionID: poll.Options[1].ID})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// After the closing time the poll is expired
	current = closes.Add(time.Minute)
	err = svc.Vote(ctx, poll.ID, 43, &dto.VoteRequest{OptionID: optionID})
	require.ErrorIs(t, err, apperrors.ErrExpired)
	assert.EqualError(t, err, "The poll is closed")
}

func TestVoteAllowMultiple(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)

	poll, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{
		Title:         "Which trails?",
		Type:          "poll",
		AllowMultiple: true,
		Options:       []dto.PollOptionRequest{{Text: "Ridge"}, {Text: "Valley"}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Vote(ctx, poll.ID, 42, &dto.VoteRequest{OptionID: poll.Options[0].ID}))
	require.NoError(t, svc.Vote(ctx, poll.ID, 42, &dto.VoteRequest{OptionID: poll.Options[1].ID}))

	// Same option twice is still a conflict
	err = svc.Vote(ctx, poll.ID, 42, &dto.VoteRequest{OptionID: poll.Options[0].ID})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestVoteOnNonPoll(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)

	plain, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{Title: "Meeting moved", Type: "announcement"})
	require.NoError(t, err)

	err = svc.Vote(ctx, plain.ID, 42, &dto.VoteRequest{OptionID: 1})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.EqualError(t, err, "Votes can only be cast on polls")
}

func TestSubmitForm(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)
	f.addMember(clubID, 43)

	form, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{
		Title: "Gear survey",
		Type:  "form",
		Questions: []dto.FormFieldRequest{
			{Text: "Do you own a tent?", Required: true},
			{Text: "Anything else?", Required: false},
		},
	})
	require.NoError(t, err)

	// Required question unanswered
	err = svc.SubmitForm(ctx, form.ID, 42, &dto.SubmitFormRequest{
		Answers: []dto.FormAnswerRequest{{QuestionIndex: 1, Answer: "Nope"}},
	})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.EqualError(t, err, "Question 0 requires an answer")

	require.NoError(t, svc.SubmitForm(ctx, form.ID, 42, &dto.SubmitFormRequest{
		Answers: []dto.FormAnswerRequest{{QuestionIndex: 0, Answer: "Yes"}},
	}))

	// One submission per member
	err = svc.SubmitForm(ctx, form.ID, 42, &dto.SubmitFormRequest{
		Answers: []dto.FormAnswerRequest{{QuestionIndex: 0, Answer: "Yes again"}},
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// A closed form takes no more submissions
	require.NoError(t, svc.CloseInteraction(ctx, form.ID, 7, false))
	err = svc.SubmitForm(ctx, form.ID, 43, &dto.SubmitFormRequest{
		Answers: []dto.FormAnswerRequest{{QuestionIndex: 0, Answer: "Yes"}},
	})
	require.ErrorIs(t, err, apperrors.ErrExpired)
	assert.EqualError(t, err, "The form is closed")
}

func TestListFormResponsesAnonymous(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)

	form, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{
		Title:       "Honest feedback",
		Type:        "form",
		IsAnonymous: true,
		Questions:   []dto.FormFieldRequest{{Text: "Thoughts?", Required: true}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.SubmitForm(ctx, form.ID, 42, &dto.SubmitFormRequest{
		Answers: []dto.FormAnswerRequest{{QuestionIndex: 0, Answer: "More trips please"}},
	}))

	responses, err := svc.ListFormResponses(ctx, form.ID, 7, false)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Zero(t, responses[0].UserID, "anonymous forms hide the submitting user")
	require.Len(t, responses[0].Answers, 1)
	assert.Equal(t, "More trips please", responses[0].Answers[0].Answer)

	// A plain member lacks post_announcements and cannot read responses
	_, err = svc.ListFormResponses(ctx, form.ID, 42, false)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCloseInteractionOnPlain(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	plain, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{Title: "Meeting moved", Type: "announcement"})
	require.NoError(t, err)

	err = svc.CloseInteraction(ctx, plain.ID, 7, false)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.EqualError(t, err, "A plain announcement has no interaction to close")
}

func TestCloseInteractionCreatorOrPermission(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)
	f.members.members[memberKey{clubID, 42}].ExtraPermissions = []models.Permission{models.PermPostAnnouncements}
	f.addMember(clubID, 43)

	poll, err := svc.CreateAnnouncement(ctx, clubID, 42, false, &dto.CreateAnnouncementRequest{
		Title:   "Pizza night poll",
		Type:    "poll",
		Options: []dto.PollOptionRequest{{Text: "Friday"}, {Text: "Saturday"}},
	})
	require.NoError(t, err)

	// A member who neither created the poll nor holds post_announcements
	err = svc.CloseInteraction(ctx, poll.ID, 43, false)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// The creator may close their own poll
	require.NoError(t, svc.CloseInteraction(ctx, poll.ID, 42, false))
	stored, err := f.announcements.GetByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsOpen)
}

func TestAddComment(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)
	f.addMember(clubID, 43)

	ann, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{Title: "Meeting moved", Type: "announcement"})
	require.NoError(t, err)

	// Only members comment
	_, err = svc.AddComment(ctx, ann.ID, 99, &dto.CommentRequest{Text: "Hello"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	top, err := svc.AddComment(ctx, ann.ID, 42, &dto.CommentRequest{Text: "See you there"})
	require.NoError(t, err)
	assert.Nil(t, top.ParentCommentID)

	reply, err := svc.AddComment(ctx, ann.ID, 43, &dto.CommentRequest{Text: "Same", ParentCommentID: &top.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentCommentID)
	assert.Equal(t, top.ID, *reply.ParentCommentID)

	// A reply to a reply flattens onto the original parent
	deep, err := svc.AddComment(ctx, ann.ID, 42, &dto.CommentRequest{Text: "Thread!", ParentCommentID: &reply.ID})
	require.NoError(t, err)
	require.NotNil(t, deep.ParentCommentID)
	assert.Equal(t, top.ID, *deep.ParentCommentID)
}

func TestAddCommentForeignParent(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)

	first, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{Title: "First", Type: "announcement"})
	require.NoError(t, err)
	second, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{Title: "Second", Type: "announcement"})
	require.NoError(t, err)

	comment, err := svc.AddComment(ctx, first.ID, 42, &dto.CommentRequest{Text: "On the first"})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, second.ID, 42, &dto.CommentRequest{Text: "Crossed", ParentCommentID: &comment.ID})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.EqualError(t, err, "Parent comment belongs to another announcement")
}

func TestEditComment(t *testing.T) {
	f := newFixture()
	created := time.Now()
	current := created
	svc := newAnnouncementService(f, func() time.Time { return current })
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)

	ann, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{Title: "Meeting moved", Type: "announcement"})
	require.NoError(t, err)
	comment, err := svc.AddComment(ctx, ann.ID, 42, &dto.CommentRequest{Text: "See you there"})
	require.NoError(t, err)

	_, err = svc.EditComment(ctx, comment.ID, 43, "hijacked")
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.EqualError(t, err, "Only the author can edit a comment")

	current = created.Add(10 * time.Minute)
	edited, err := svc.EditComment(ctx, comment.ID, 42, "See you all there")
	require.NoError(t, err)
	assert.Equal(t, "See you all there", edited.Text)

	// Past the edit window
	current = created.Add(models.CommentEditWindow + time.Minute)
	_, err = svc.EditComment(ctx, comment.ID, 42, "too late")
	require.ErrorIs(t, err, apperrors.ErrExpired)
	assert.EqualError(t, err, "The edit window for this comment has passed")
}

func TestDeleteComment(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)
	f.addMember(clubID, 43)

	ann, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{Title: "Meeting moved", Type: "announcement"})
	require.NoError(t, err)
	comment, err := svc.AddComment(ctx, ann.ID, 42, &dto.CommentRequest{Text: "See you there"})
	require.NoError(t, err)

	// Another plain member lacks manage_content
	err = svc.DeleteComment(ctx, comment.ID, 43, false)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// The author can always delete their own
	require.NoError(t, svc.DeleteComment(ctx, comment.ID, 42, false))

	// The owner moderates everyone's comments
	comment, err = svc.AddComment(ctx, ann.ID, 42, &dto.CommentRequest{Text: "Again"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteComment(ctx, comment.ID, 7, false))
}

func TestDeleteAnnouncementModeration(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)
	f.members.members[memberKey{clubID, 42}].ExtraPermissions = []models.Permission{models.PermPostAnnouncements}
	f.addMember(clubID, 43)

	ann, err := svc.CreateAnnouncement(ctx, clubID, 42, false, &dto.CreateAnnouncementRequest{Title: "Mine", Type: "announcement"})
	require.NoError(t, err)

	// Someone else without manage_content cannot delete it
	err = svc.DeleteAnnouncement(ctx, ann.ID, 43, false)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// The author can
	require.NoError(t, svc.DeleteAnnouncement(ctx, ann.ID, 42, false))
}

func TestSetPinned(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)

	ann, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{Title: "Rules", Type: "announcement"})
	require.NoError(t, err)

	err = svc.SetPinned(ctx, ann.ID, 42, false, true)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, svc.SetPinned(ctx, ann.ID, 7, false, true))
	stored, err := f.announcements.GetByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.True(t, stored.Pinned)
}

func TestListPollVotes(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)
	f.addMember(clubID, 43)

	poll, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{
		Title:   "Pizza night poll",
		Type:    "poll",
		Options: []dto.PollOptionRequest{{Text: "Friday"}, {Text: "Saturday"}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Vote(ctx, poll.ID, 42, &dto.VoteRequest{OptionID: poll.Options[0].ID}))
	require.NoError(t, svc.Vote(ctx, poll.ID, 43, &dto.VoteRequest{OptionID: poll.Options[1].ID}))

	votes, err := svc.ListPollVotes(ctx, poll.ID, 42, false)
	require.NoError(t, err)
	require.Len(t, votes, 2)
	assert.ElementsMatch(t, []int64{42, 43}, []int64{votes[0].UserID, votes[1].UserID})

	// Outsiders cannot see results
	_, err = svc.ListPollVotes(ctx, poll.ID, 99, false)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Plain announcements have no votes to list
	plain, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{Title: "Meeting", Type: "announcement"})
	require.NoError(t, err)
	_, err = svc.ListPollVotes(ctx, plain.ID, 42, false)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.EqualError(t, err, "Only polls have votes")
}

func TestListPollVotesAnonymous(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)

	poll, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{
		Title:       "Board feedback",
		Type:        "poll",
		IsAnonymous: true,
		Options:     []dto.PollOptionRequest{{Text: "Keep"}, {Text: "Change"}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Vote(ctx, poll.ID, 42, &dto.VoteRequest{OptionID: poll.Options[0].ID}))

	votes, err := svc.ListPollVotes(ctx, poll.ID, 7, false)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Zero(t, votes[0].UserID)
	assert.Equal(t, poll.Options[0].ID, votes[0].OptionID)
}

func TestGetAnnouncementReportsParticipation(t *testing.T) {
	f := newFixture()
	svc := newAnnouncementService(f, nil)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)

	poll, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{
		Title:   "Pizza night poll",
		Type:    "poll",
		Options: []dto.PollOptionRequest{{Text: "Friday"}, {Text: "Saturday"}},
	})
	require.NoError(t, err)

	resp, err := svc.GetAnnouncement(ctx, poll.ID, 42, false)
	require.NoError(t, err)
	assert.False(t, resp.HasVoted)

	require.NoError(t, svc.Vote(ctx, poll.ID, 42, &dto.VoteRequest{OptionID: poll.Options[0].ID}))

	resp, err = svc.GetAnnouncement(ctx, poll.ID, 42, false)
	require.NoError(t, err)
	assert.True(t, resp.HasVoted)

	form, err := svc.CreateAnnouncement(ctx, clubID, 7, false, &dto.CreateAnnouncementRequest{
		Title:     "Feedback",
		Type:      "form",
		Questions: []dto.FormFieldRequest{{Text: "Thoughts?", Required: false}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.SubmitForm(ctx, form.ID, 42, &dto.SubmitFormRequest{
		Answers: []dto.FormAnswerRequest{{QuestionIndex: 0, Answer: "All good"}},
	}))

	resp, err = svc.GetAnnouncement(ctx, form.ID, 42, false)
	require.NoError(t, err)
	assert.True(t, resp.HasResponded)
}
