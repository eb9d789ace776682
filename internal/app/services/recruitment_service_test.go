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
	"github.com/eren/clubsphere/internal/pkg/notifier"
)

func newRecruitmentService(f *fixture) RecruitmentService {
	return NewRecruitmentService(f.applications, f.invitations, f.clubs, f.members, f.users, f.engine, f.notifier, f.logger)
}

func TestApply(t *testing.T) {
	f := newFixture()
	svc := newRecruitmentService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")

	// Recruitment starts closed; applying before the club opens it is rejected
	_, err := svc.Apply(ctx, clubID, 42, &dto.ApplyRequest{Message: "I hike every weekend"})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "The club is not accepting applications right now")

	f.openRecruitment(clubID)

	resp, err := svc.Apply(ctx, clubID, 42, &dto.ApplyRequest{Message: "I hike every weekend"})
	require.NoError(t, err)
	assert.Equal(t, string(models.ApplicationPending), resp.Status)
	assert.Equal(t, int64(42), resp.UserID)

	// The club owner is notified about the new application
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notifier.KindApplicationReceived, f.notifier.sent[0].Kind)
	assert.Equal(t, int64(7), f.notifier.sent[0].RecipientID)

	// Only one in-flight application per club and user
	_, err = svc.Apply(ctx, clubID, 42, &dto.ApplyRequest{})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestApplyRejectsExistingMember(t *testing.T) {
	f := newFixture()
	svc := newRecruitmentService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.addMember(clubID, 42)

	_, err := svc.Apply(ctx, clubID, 42, &dto.ApplyRequest{})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "User is already a member of this club")
}

func TestApplyWithForm(t *testing.T) {
	f := newFixture()
	svc := newRecruitmentService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	questions := []models.FormQuestionSpec{
		{Index: 0, Text: "Why do you want to join?", Required: true},
		{Index: 1, Text: "Favorite trail?", Required: false},
	}
	require.NoError(t, f.clubs.UpdateForm(ctx, clubID, true, false, questions))

	// Form enabled but closed
	_, err := svc.Apply(ctx, clubID, 42, &dto.ApplyRequest{})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "The club is not accepting applications right now")

	require.NoError(t, f.clubs.UpdateForm(ctx, clubID, true, true, questions))

	// Required question unanswered
	_, err = svc.Apply(ctx, clubID, 42, &dto.ApplyRequest{
		Answers: []dto.ApplicationAnswerRequest{{QuestionIndex: 1, Answer: "Ridge loop"}},
	})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.EqualError(t, err, "Question 0 requires an answer")

	resp, err := svc.Apply(ctx, clubID, 42, &dto.ApplyRequest{
		Answers: []dto.ApplicationAnswerRequest{{QuestionIndex: 0, Answer: "I love the outdoors"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Answers, 1)
	assert.Equal(t, "Why do you want to join?", resp.Answers[0].Question)
}

func TestInterviewFlow(t *testing.T) {
	f := newFixture()
	svc := newRecruitmentService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.openRecruitment(clubID)
	resp, err := svc.Apply(ctx, clubID, 42, &dto.ApplyRequest{})
	require.NoError(t, err)
	appID := resp.ID

	// Completing before scheduling is not a legal transition
	err = svc.CompleteInterview(ctx, appID, 7, false, &dto.CompleteInterviewRequest{})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "Cannot complete an interview for a pending application")

	schedule := &dto.ScheduleInterviewRequest{
		Date:     time.Now().Add(72 * time.Hour),
		Location: "Student center room 204",
		Type:     "in_person",
	}
	require.NoError(t, svc.ScheduleInterview(ctx, appID, 7, false, schedule))

	application, err := f.applications.GetByID(ctx, appID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationInterviewScheduled, application.Status)
	require.NotNil(t, application.Interview)
	assert.Equal(t, "Student center room 204", application.Interview.Location)

	// Re-scheduling a scheduled interview is rejected
	err = svc.ScheduleInterview(ctx, appID, 7, false, schedule)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "Cannot schedule an interview for a interview_scheduled application")

	// A scheduled application cannot be approved before the interview is done
	err = svc.ApproveApplication(ctx, appID, 7, false)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "Cannot approve a interview_scheduled application")

	require.NoError(t, svc.CompleteInterview(ctx, appID, 7, false, &dto.CompleteInterviewRequest{Notes: "Great fit"}))
	application, err = f.applications.GetByID(ctx, appID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationInterviewCompleted, application.Status)
	assert.Equal(t, "Great fit", application.Interview.Notes)

	require.NoError(t, svc.ApproveApplication(ctx, appID, 7, false))
	assert.Contains(t, f.notifier.kinds(), notifier.KindInterviewScheduled)
	assert.Contains(t, f.notifier.kinds(), notifier.KindInterviewCompleted)
	assert.Contains(t, f.notifier.kinds(), notifier.KindApplicationApproved)
}

func TestApproveApplicationCreatesMembership(t *testing.T) {
	f := newFixture()
	svc := newRecruitmentService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.openRecruitment(clubID)
	resp, err := svc.Apply(ctx, clubID, 42, &dto.ApplyRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.ApproveApplication(ctx, resp.ID, 7, false))

	member, err := f.members.GetMember(ctx, clubID, 42)
	require.NoError(t, err)
	assert.Equal(t, models.RoleNameMember, member.RoleName)
	assert.Equal(t, models.MemberStatusActive, member.Status)

	// Approving twice is rejected
	err = svc.ApproveApplication(ctx, resp.ID, 7, false)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "Cannot approve a approved application")
}

func TestApproveApplicationEnforcesExclusivity(t *testing.T) {
	f := newFixture()
	svc := newRecruitmentService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	otherClub := f.seedClub(8, "Chess Club")
	f.openRecruitment(clubID)

	resp, err := svc.Apply(ctx, clubID, 42, &dto.ApplyRequest{})
	require.NoError(t, err)

	// Applicant joined another club while the application was pending
	f.addMember(otherClub, 42)

	err = svc.ApproveApplication(ctx, resp.ID, 7, false)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRejectApplication(t *testing.T) {
	f := newFixture()
	svc := newRecruitmentService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.openRecruitment(clubID)
	resp, err := svc.Apply(ctx, clubID, 42, &dto.ApplyRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.RejectApplication(ctx, resp.ID, 7, false))
	assert.Contains(t, f.notifier.kinds(), notifier.KindApplicationRejected)

	err = svc.RejectApplication(ctx, resp.ID, 7, false)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "Cannot reject a rejected application")

	// A rejected applicant may apply again
	_, err = svc.Apply(ctx, clubID, 42, &dto.ApplyRequest{})
	assert.NoError(t, err)
}

func TestWithdrawApplication(t *testing.T) {
	f := newFixture()
	svc := newRecruitmentService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.openRecruitment(clubID)
	resp, err := svc.Apply(ctx, clubID, 42, &dto.ApplyRequest{})
	require.NoError(t, err)

	err = svc.WithdrawApplication(ctx, resp.ID, 99)
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.EqualError(t, err, "Only the applicant can withdraw an application")

	require.NoError(t, svc.WithdrawApplication(ctx, resp.ID, 42))
	_, err = f.applications.GetByID(ctx, resp.ID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	// Terminal applications cannot be withdrawn
	resp, err = svc.Apply(ctx, clubID, 42, &dto.ApplyRequest{})
	require.NoError(t, err)
	require.NoError(t, svc.ApproveApplication(ctx, resp.ID, 7, false))

	err = svc.WithdrawApplication(ctx, resp.ID, 42)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "A approved application cannot be withdrawn")
}

func TestInvite(t *testing.T) {
	f := newFixture()
	svc := newRecruitmentService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.users.users[42] = &models.User{ID: 42, Username: "wanderer"}

	_, err := svc.Invite(ctx, clubID, 7, false, &dto.InviteRequest{UserID: 99})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	resp, err := svc.Invite(ctx, clubID, 7, false, &dto.InviteRequest{UserID: 42})
	require.NoError(t, err)
	assert.Equal(t, string(models.InvitationPending), resp.Status)
	assert.NotEmpty(t, resp.Code)
	assert.Equal(t, int64(7), resp.IssuedBy)

	// Only one pending invitation per club and user
	_, err = svc.Invite(ctx, clubID, 7, false, &dto.InviteRequest{UserID: 42})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	assert.Contains(t, f.notifier.kinds(), notifier.KindInvitationReceived)
}

func TestInviteRejectsExistingMember(t *testing.T) {
	f := newFixture()
	svc := newRecruitmentService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.users.users[42] = &models.User{ID: 42, Username: "wanderer"}
	f.addMember(clubID, 42)

	_, err := svc.Invite(ctx, clubID, 7, false, &dto.InviteRequest{UserID: 42})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "User is already a member of this club")
}

func TestAcceptInvitation(t *testing.T) {
	f := newFixture()
	svc := newRecruitmentService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.users.users[42] = &models.User{ID: 42, Username: "wanderer"}

	resp, err := svc.Invite(ctx, clubID, 7, false, &dto.InviteRequest{UserID: 42})
	require.NoError(t, err)

	err = svc.AcceptInvitation(ctx, resp.ID, 99)
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.EqualError(t, err, "This invitation is addressed to another user")

	require.NoError(t, svc.AcceptInvitation(ctx, resp.ID, 42))

	member, err := f.members.GetMember(ctx, clubID, 42)
	require.NoError(t, err)
	assert.Equal(t, models.RoleNameMember, member.RoleName)

	// Terminal invitations cannot be re-actioned
	err = svc.AcceptInvitation(ctx, resp.ID, 42)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "Invitation is already accepted")

	// The issuer learns about the acceptance
	assert.Contains(t, f.notifier.kinds(), notifier.KindInvitationAccepted)
}

func TestDeclineInvitation(t *testing.T) {
	f := newFixture()
	svc := newRecruitmentService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.users.users[42] = &models.User{ID: 42, Username: "wanderer"}

	resp, err := svc.Invite(ctx, clubID, 7, false, &dto.InviteRequest{UserID: 42})
	require.NoError(t, err)

	require.NoError(t, svc.DeclineInvitation(ctx, resp.ID, 42))

	invitation, err := f.invitations.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationDeclined, invitation.Status)

	err = svc.DeclineInvitation(ctx, resp.ID, 42)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.EqualError(t, err, "Invitation is already declined")

	assert.Contains(t, f.notifier.kinds(), notifier.KindInvitationDeclined)
}

func TestCancelInvitation(t *testing.T) {
	f := newFixture()
	svc := newRecruitmentService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.users.users[42] = &models.User{ID: 42, Username: "wanderer"}
	f.addMember(clubID, 55)

	resp, err := svc.Invite(ctx, clubID, 7, false, &dto.InviteRequest{UserID: 42})
	require.NoError(t, err)

	// A plain member lacks invite_members
	err = svc.CancelInvitation(ctx, resp.ID, 55, false)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, svc.CancelInvitation(ctx, resp.ID, 7, false))

	invitation, err := f.invitations.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationCancelled, invitation.Status)

	// The invitee learns the invitation is gone
	assert.Contains(t, f.notifier.kinds(), notifier.KindInvitationCancelled)
}

func TestGetInvitationByCode(t *testing.T) {
	f := newFixture()
	svc := newRecruitmentService(f)
	ctx := context.Background()

	clubID := f.seedClub(7, "Hiking Club")
	f.users.users[42] = &models.User{ID: 42, Username: "wanderer"}

	resp, err := svc.Invite(ctx, clubID, 7, false, &dto.InviteRequest{UserID: 42})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Code)

	// Both the invitee and the issuer may resolve the code
	found, err := svc.GetInvitationByCode(ctx, resp.Code, 42)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, found.ID)

	_, err = svc.GetInvitationByCode(ctx, resp.Code, 7)
	assert.NoError(t, err)

	// Anyone else is turned away
	_, err = svc.GetInvitationByCode(ctx, resp.Code, 99)
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.EqualError(t, err, "This invitation is addressed to another user")

	_, err = svc.GetInvitationByCode(ctx, "no-such-code", 42)
	assert.ErrorIs(t, err, apperrors.ErrInvitationNotFound)
}
