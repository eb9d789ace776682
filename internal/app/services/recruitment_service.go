package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/eren/clubsphere/internal/app/auth"
	"github.com/eren/clubsphere/internal/app/models"
	"github.com/eren/clubsphere/internal/app/models/dto"
	"github.com/eren/clubsphere/internal/app/repositories"
	"github.com/eren/clubsphere/internal/pkg/apperrors"
	"github.com/eren/clubsphere/internal/pkg/notifier"
)

// RecruitmentService defines the interface for applications and invitations
type RecruitmentService interface {
	Apply(ctx context.Context, clubID, userID int64, req *dto.ApplyRequest) (*dto.ApplicationResponse, error)
	ListClubApplications(ctx context.Context, clubID, userID int64, isAdmin bool) ([]dto.ApplicationResponse, error)
	ListOwnApplications(ctx context.Context, userID int64) ([]dto.ApplicationResponse, error)
	ScheduleInterview(ctx context.Context, applicationID, userID int64, isAdmin bool, req *dto.ScheduleInterviewRequest) error
	CompleteInterview(ctx context.Context, applicationID, userID int64, isAdmin bool, req *dto.CompleteInterviewRequest) error
	ApproveApplication(ctx context.Context, applicationID, userID int64, isAdmin bool) error
	RejectApplication(ctx context.Context, applicationID, userID int64, isAdmin bool) error
	WithdrawApplication(ctx context.Context, applicationID, userID int64) error

	Invite(ctx context.Context, clubID, userID int64, isAdmin bool, req *dto.InviteRequest) (*dto.InvitationResponse, error)
	GetInvitationByCode(ctx context.Context, code string, userID int64) (*dto.InvitationResponse, error)
	ListClubInvitations(ctx context.Context, clubID, userID int64, isAdmin bool) ([]dto.InvitationResponse, error)
	ListOwnInvitations(ctx context.Context, userID int64) ([]dto.InvitationResponse, error)
	AcceptInvitation(ctx context.Context, invitationID, userID int64) error
	DeclineInvitation(ctx context.Context, invitationID, userID int64) error
	CancelInvitation(ctx context.Context, invitationID, userID int64, isAdmin bool) error
}

// recruitmentServiceImpl implements RecruitmentService
type recruitmentServiceImpl struct {
	applicationRepo repositories.ApplicationRepository
	invitationRepo  repositories.InvitationRepository
	clubRepo        repositories.ClubRepository
	memberRepo      repositories.MemberRepository
	userRepo        repositories.UserRepository
	permissions     *auth.PermissionEngine
	notifier        notifier.Notifier
	logger          zerolog.Logger
}

// NewRecruitmentService creates a new RecruitmentService
func NewRecruitmentService(
	applicationRepo repositories.ApplicationRepository,
	invitationRepo repositories.InvitationRepository,
	clubRepo repositories.ClubRepository,
	memberRepo repositories.MemberRepository,
	userRepo repositories.UserRepository,
	permissions *auth.PermissionEngine,
	notify notifier.Notifier,
	logger zerolog.Logger,
) RecruitmentService {
	return &recruitmentServiceImpl{
		applicationRepo: applicationRepo,
		invitationRepo:  invitationRepo,
		clubRepo:        clubRepo,
		memberRepo:      memberRepo,
		userRepo:        userRepo,
		permissions:     permissions,
		notifier:        notify,
		logger:          logger,
	}
}

// Apply submits a membership application. Recruitment must be open, and when
// the club runs an application form every required question must be answered.
func (s *recruitmentServiceImpl) Apply(ctx context.Context, clubID, userID int64, req *dto.ApplyRequest) (*dto.ApplicationResponse, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}

	if _, err := s.memberRepo.GetMember(ctx, clubID, userID); err == nil {
		return nil, apperrors.NewConflictError("User is already a member of this club")
	} else if !errors.Is(err, apperrors.ErrMemberNotFound) {
		return nil, err
	}

	if !club.FormOpen {
		return nil, apperrors.NewConflictError("The club is not accepting applications right now")
	}

	answers, err := s.buildAnswers(club, req.Answers)
	if err != nil {
		return nil, err
	}

	application := &models.ClubApplication{
		ClubID:  clubID,
		UserID:  userID,
		Message: req.Message,
		Answers: answers,
	}

	id, err := s.applicationRepo.Create(ctx, application)
	if err != nil {
		return nil, err
	}
	application.ID = id
	application.Status = models.ApplicationPending

	s.notify(ctx, notifier.Notification{
		RecipientID:   club.OwnerID,
		Kind:          notifier.KindApplicationReceived,
		Title:         "New application",
		Message:       fmt.Sprintf("A new application was submitted to %s", club.Name),
		RelatedClubID: clubID,
		Priority:      notifier.PriorityNormal,
	})

	return dto.NewApplicationResponse(application), nil
}

// buildAnswers validates submitted answers against the club's form. Without a
// form, answers are ignored.
func (s *recruitmentServiceImpl) buildAnswers(club *models.Club, submitted []dto.ApplicationAnswerRequest) ([]models.ApplicationAnswer, error) {
	if !club.FormEnabled {
		return nil, nil
	}

	byIndex := make(map[int]string, len(submitted))
	for _, a := range submitted {
		byIndex[a.QuestionIndex] = a.Answer
	}

	answers := make([]models.ApplicationAnswer, 0, len(club.FormQuestions))
	for _, q := range club.FormQuestions {
		answer, ok := byIndex[q.Index]
		if q.Required && (!ok || answer == "") {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Question %d requires an answer", q.Index))
		}
		if ok {
			answers = append(answers, models.ApplicationAnswer{
				QuestionIndex: q.Index,
				Question:      q.Text,
				Answer:        answer,
			})
		}
	}
	return answers, nil
}

// ListClubApplications retrieves a club's applications
func (s *recruitmentServiceImpl) ListClubApplications(ctx context.Context, clubID, userID int64, isAdmin bool) ([]dto.ApplicationResponse, error) {
	if err := s.permissions.RequirePermission(ctx, clubID, userID, isAdmin, models.PermViewApplications); err != nil {
		return nil, err
	}

	applications, err := s.applicationRepo.GetByClubID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	return applicationResponses(applications), nil
}

// ListOwnApplications retrieves the caller's applications
func (s *recruitmentServiceImpl) ListOwnApplications(ctx context.Context, userID int64) ([]dto.ApplicationResponse, error) {
	applications, err := s.applicationRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return applicationResponses(applications), nil
}

// ScheduleInterview moves a pending application to interview_scheduled
func (s *recruitmentServiceImpl) ScheduleInterview(ctx context.Context, applicationID, userID int64, isAdmin bool, req *dto.ScheduleInterviewRequest) error {
	application, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if err := s.permissions.RequirePermission(ctx, application.ClubID, userID, isAdmin, models.PermInterviewApplicants); err != nil {
		return err
	}
	if !application.Status.CanTransitionTo(models.ApplicationInterviewScheduled) {
		return apperrors.NewConflictError(fmt.Sprintf("Cannot schedule an interview for a %s application", application.Status))
	}

	interview := &models.Interview{
		Date:     req.Date,
		Location: req.Location,
		Type:     req.Type,
		Notes:    req.Notes,
	}
	if err := s.applicationRepo.SetInterview(ctx, applicationID, interview, models.ApplicationInterviewScheduled); err != nil {
		return err
	}

	s.notify(ctx, notifier.Notification{
		RecipientID:   application.UserID,
		Kind:          notifier.KindInterviewScheduled,
		Title:         "Interview scheduled",
		Message:       fmt.Sprintf("Your interview is scheduled for %s at %s", req.Date.Format("2006-01-02 15:04"), req.Location),
		RelatedClubID: application.ClubID,
		Priority:      notifier.PriorityHigh,
	})

	return nil
}

// CompleteInterview moves a scheduled interview to interview_completed
func (s *recruitmentServiceImpl) CompleteInterview(ctx context.Context, applicationID, userID int64, isAdmin bool, req *dto.CompleteInterviewRequest) error {
	application, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if err := s.permissions.RequirePermission(ctx, application.ClubID, userID, isAdmin, models.PermInterviewApplicants); err != nil {
		return err
	}
	if !application.Status.CanTransitionTo(models.ApplicationInterviewCompleted) {
		return apperrors.NewConflictError(fmt.Sprintf("Cannot complete an interview for a %s application", application.Status))
	}

	interview := application.Interview
	if interview == nil {
		interview = &models.Interview{}
	}
	if req.Notes != "" {
		interview.Notes = req.Notes
	}
	if err := s.applicationRepo.SetInterview(ctx, applicationID, interview, models.ApplicationInterviewCompleted); err != nil {
		return err
	}

	s.notify(ctx, notifier.Notification{
		RecipientID:   application.UserID,
		Kind:          notifier.KindInterviewCompleted,
		Title:         "Interview completed",
		Message:       "Your interview has been marked as completed",
		RelatedClubID: application.ClubID,
		Priority:      notifier.PriorityNormal,
	})

	return nil
}

// ApproveApplication approves an application and creates the membership
// atomically. Membership exclusivity is enforced inside the transaction.
func (s *recruitmentServiceImpl) ApproveApplication(ctx context.Context, applicationID, userID int64, isAdmin bool) error {
	application, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if err := s.permissions.RequirePermission(ctx, application.ClubID, userID, isAdmin, models.PermApproveApplications); err != nil {
		return err
	}
	if !application.Status.CanTransitionTo(models.ApplicationApproved) {
		return apperrors.NewConflictError(fmt.Sprintf("Cannot approve a %s application", application.Status))
	}

	member := &models.ClubMember{
		ClubID:   application.ClubID,
		UserID:   application.UserID,
		RoleName: models.RoleNameMember,
	}
	if err := s.applicationRepo.Approve(ctx, applicationID, member); err != nil {
		return err
	}

	s.logger.Info().Int64("applicationID", applicationID).Int64("clubID", application.ClubID).Int64("userID", application.UserID).Msg("Application approved")

	s.notify(ctx, notifier.Notification{
		RecipientID:   application.UserID,
		Kind:          notifier.KindApplicationApproved,
		Title:         "Application approved",
		Message:       "Welcome aboard, your application was approved",
		RelatedClubID: application.ClubID,
		Priority:      notifier.PriorityHigh,
	})

	return nil
}

// RejectApplication rejects an application
func (s *recruitmentServiceImpl) RejectApplication(ctx context.Context, applicationID, userID int64, isAdmin bool) error {
	application, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if err := s.permissions.RequirePermission(ctx, application.ClubID, userID, isAdmin, models.PermApproveApplications); err != nil {
		return err
	}
	if !application.Status.CanTransitionTo(models.ApplicationRejected) {
		return apperrors.NewConflictError(fmt.Sprintf("Cannot reject a %s application", application.Status))
	}

	if err := s.applicationRepo.UpdateStatus(ctx, applicationID, models.ApplicationRejected); err != nil {
		return err
	}

	s.notify(ctx, notifier.Notification{
		RecipientID:   application.UserID,
		Kind:          notifier.KindApplicationRejected,
		Title:         "Application rejected",
		Message:       "Your application was not accepted this time",
		RelatedClubID: application.ClubID,
		Priority:      notifier.PriorityNormal,
	})

	return nil
}

// WithdrawApplication lets the applicant withdraw a non-terminal application
func (s *recruitmentServiceImpl) WithdrawApplication(ctx context.Context, applicationID, userID int64) error {
	application, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if application.UserID != userID {
		return apperrors.NewForbiddenError("Only the applicant can withdraw an application")
	}
	if application.Status.IsTerminal() {
		return apperrors.NewConflictError(fmt.Sprintf("A %s application cannot be withdrawn", application.Status))
	}

	return s.applicationRepo.Delete(ctx, applicationID)
}

// Invite issues a membership invitation to a user
func (s *recruitmentServiceImpl) Invite(ctx context.Context, clubID, userID int64, isAdmin bool, req *dto.InviteRequest) (*dto.InvitationResponse, error) {
	if err := s.permissions.RequirePermission(ctx, clubID, userID, isAdmin, models.PermInviteMembers); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	if _, err := s.memberRepo.GetMember(ctx, clubID, req.UserID); err == nil {
		return nil, apperrors.NewConflictError("User is already a member of this club")
	} else if !errors.Is(err, apperrors.ErrMemberNotFound) {
		return nil, err
	}

	invitation := &models.ClubInvitation{
		Code:     uuid.NewString(),
		ClubID:   clubID,
		UserID:   req.UserID,
		IssuedBy: userID,
	}
	id, err := s.invitationRepo.Create(ctx, invitation)
	if err != nil {
		return nil, err
	}
	invitation.ID = id
	invitation.Status = models.InvitationPending

	s.notify(ctx, notifier.Notification{
		RecipientID:   req.UserID,
		Kind:          notifier.KindInvitationReceived,
		Title:         "Club invitation",
		Message:       "You have been invited to join a club",
		RelatedClubID: clubID,
		Priority:      notifier.PriorityNormal,
	})

	return dto.NewInvitationResponse(invitation), nil
}

// GetInvitationByCode resolves an invitation from its opaque code. Only the
// invitee and the issuer may look it up.
func (s *recruitmentServiceImpl) GetInvitationByCode(ctx context.Context, code string, userID int64) (*dto.InvitationResponse, error) {
	invitation, err := s.invitationRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if invitation.UserID != userID && invitation.IssuedBy != userID {
		return nil, apperrors.NewForbiddenError("This invitation is addressed to another user")
	}
	return dto.NewInvitationResponse(invitation), nil
}

// ListClubInvitations retrieves invitations issued by a club
func (s *recruitmentServiceImpl) ListClubInvitations(ctx context.Context, clubID, userID int64, isAdmin bool) ([]dto.InvitationResponse, error) {
	if err := s.permissions.RequirePermission(ctx, clubID, userID, isAdmin, models.PermInviteMembers); err != nil {
		return nil, err
	}

	invitations, err := s.invitationRepo.GetByClubID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	return invitationResponses(invitations), nil
}

// ListOwnInvitations retrieves invitations addressed to the caller
func (s *recruitmentServiceImpl) ListOwnInvitations(ctx context.Context, userID int64) ([]dto.InvitationResponse, error) {
	invitations, err := s.invitationRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return invitationResponses(invitations), nil
}

// AcceptInvitation accepts a pending invitation and creates the membership
// atomically
func (s *recruitmentServiceImpl) AcceptInvitation(ctx context.Context, invitationID, userID int64) error {
	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if invitation.UserID != userID {
		return apperrors.NewForbiddenError("This invitation is addressed to another user")
	}
	if invitation.Status.IsTerminal() {
		return apperrors.NewConflictError(fmt.Sprintf("Invitation is already %s", invitation.Status))
	}

	member := &models.ClubMember{
		ClubID:   invitation.ClubID,
		UserID:   userID,
		RoleName: models.RoleNameMember,
	}
	if err := s.invitationRepo.Accept(ctx, invitationID, member); err != nil {
		return err
	}

	s.notify(ctx, notifier.Notification{
		RecipientID:   invitation.IssuedBy,
		Kind:          notifier.KindInvitationAccepted,
		Title:         "Invitation accepted",
		Message:       "Your invitation was accepted",
		RelatedClubID: invitation.ClubID,
		Priority:      notifier.PriorityNormal,
	})

	return nil
}

// DeclineInvitation declines a pending invitation
func (s *recruitmentServiceImpl) DeclineInvitation(ctx context.Context, invitationID, userID int64) error {
	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if invitation.UserID != userID {
		return apperrors.NewForbiddenError("This invitation is addressed to another user")
	}
	if invitation.Status.IsTerminal() {
		return apperrors.NewConflictError(fmt.Sprintf("Invitation is already %s", invitation.Status))
	}

	if err := s.invitationRepo.UpdateStatus(ctx, invitationID, models.InvitationDeclined); err != nil {
		return err
	}

	s.notify(ctx, notifier.Notification{
		RecipientID:   invitation.IssuedBy,
		Kind:          notifier.KindInvitationDeclined,
		Title:         "Invitation declined",
		Message:       "Your invitation was declined",
		RelatedClubID: invitation.ClubID,
		Priority:      notifier.PriorityLow,
	})

	return nil
}

// CancelInvitation withdraws a pending invitation on the club's behalf
func (s *recruitmentServiceImpl) CancelInvitation(ctx context.Context, invitationID, userID int64, isAdmin bool) error {
	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if err := s.permissions.RequirePermission(ctx, invitation.ClubID, userID, isAdmin, models.PermInviteMembers); err != nil {
		return err
	}
	if invitation.Status.IsTerminal() {
		return apperrors.NewConflictError(fmt.Sprintf("Invitation is already %s", invitation.Status))
	}

	if err := s.invitationRepo.UpdateStatus(ctx, invitationID, models.InvitationCancelled); err != nil {
		return err
	}

	s.notify(ctx, notifier.Notification{
		RecipientID:   invitation.UserID,
		Kind:          notifier.KindInvitationCancelled,
		Title:         "Invitation cancelled",
		Message:       "A club invitation addressed to you was cancelled",
		RelatedClubID: invitation.ClubID,
		Priority:      notifier.PriorityLow,
	})

	return nil
}

func (s *recruitmentServiceImpl) notify(ctx context.Context, n notifier.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Error().Err(err).Str("kind", n.Kind).Int64("recipientID", n.RecipientID).Msg("Failed to deliver notification")
	}
}

func applicationResponses(applications []*models.ClubApplication) []dto.ApplicationResponse {
	responses := make([]dto.ApplicationResponse, 0, len(applications))
	for _, a := range applications {
		responses = append(responses, *dto.NewApplicationResponse(a))
	}
	return responses
}

func invitationResponses(invitations []*models.ClubInvitation) []dto.InvitationResponse {
	responses := make([]dto.InvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		responses = append(responses, *dto.NewInvitationResponse(inv))
	}
	return responses
}
