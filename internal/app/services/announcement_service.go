package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/eren/clubsphere/internal/app/auth"
	"github.com/eren/clubsphere/internal/app/models"
	"github.com/eren/clubsphere/internal/app/models/dto"
	"github.com/eren/clubsphere/internal/app/repositories"
	"github.com/eren/clubsphere/internal/pkg/apperrors"
)

// AnnouncementService defines the interface for announcements, polls, forms
// and comments
type AnnouncementService interface {
	CreateAnnouncement(ctx context.Context, clubID, userID int64, isAdmin bool, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	GetAnnouncement(ctx context.Context, announcementID, userID int64, isAdmin bool) (*dto.AnnouncementResponse, error)
	ListAnnouncements(ctx context.Context, clubID, userID int64, isAdmin bool) ([]dto.AnnouncementResponse, error)
	SetPinned(ctx context.Context, announcementID, userID int64, isAdmin, pinned bool) error
	CloseInteraction(ctx context.Context, announcementID, userID int64, isAdmin bool) error
	DeleteAnnouncement(ctx context.Context, announcementID, userID int64, isAdmin bool) error

	Vote(ctx context.Context, announcementID, userID int64, req *dto.VoteRequest) error
	ListPollVotes(ctx context.Context, announcementID, userID int64, isAdmin bool) ([]dto.PollVoteData, error)
	SubmitForm(ctx context.Context, announcementID, userID int64, req *dto.SubmitFormRequest) error
	ListFormResponses(ctx context.Context, announcementID, userID int64, isAdmin bool) ([]dto.FormResponseData, error)

	AddComment(ctx context.Context, announcementID, userID int64, req *dto.CommentRequest) (*dto.CommentResponse, error)
	EditComment(ctx context.Context, commentID, userID int64, text string) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, commentID, userID int64, isAdmin bool) error
	ListComments(ctx context.Context, announcementID, userID int64, isAdmin bool) ([]dto.CommentResponse, error)
}

// announcementServiceImpl implements AnnouncementService
type announcementServiceImpl struct {
	announcementRepo repositories.AnnouncementRepository
	commentRepo      repositories.CommentRepository
	memberRepo       repositories.MemberRepository
	permissions      *auth.PermissionEngine
	logger           zerolog.Logger
	now              func() time.Time
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(
	announcementRepo repositories.AnnouncementRepository,
	commentRepo repositories.CommentRepository,
	memberRepo repositories.MemberRepository,
	permissions *auth.PermissionEngine,
	logger zerolog.Logger,
) AnnouncementService {
	return &announcementServiceImpl{
		announcementRepo: announcementRepo,
		commentRepo:      commentRepo,
		memberRepo:       memberRepo,
		permissions:      permissions,
		logger:           logger,
		now:              time.Now,
	}
}

// CreateAnnouncement posts an announcement, poll or form
func (s *announcementServiceImpl) CreateAnnouncement(ctx context.Context, clubID, userID int64, isAdmin bool, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	if err := s.permissions.RequirePermission(ctx, clubID, userID, isAdmin, models.PermPostAnnouncements); err != nil {
		return nil, err
	}

	announcementType := models.AnnouncementType(req.Type)
	switch announcementType {
	case models.AnnouncementPoll:
		if len(req.Options) < 2 {
			return nil, apperrors.NewValidationError("A poll needs at least two options")
		}
	case models.AnnouncementForm:
		if len(req.Questions) < 1 {
			return nil, apperrors.NewValidationError("A form needs at least one question")
		}
	case models.AnnouncementPlain:
		if len(req.Options) > 0 || len(req.Questions) > 0 {
			return nil, apperrors.NewValidationError("A plain announcement carries no options or questions")
		}
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("Unknown announcement type: %s", req.Type))
	}

	if req.ClosesAt != nil && req.ClosesAt.Before(s.now()) {
		return nil, apperrors.NewValidationError("Closing time must be in the future")
	}

	announcement := &models.ClubAnnouncement{
		ClubID:        clubID,
		Title:         req.Title,
		Content:       req.Content,
		Type:          announcementType,
		CreatedBy:     userID,
		AllowMultiple: req.AllowMultiple,
		IsAnonymous:   req.IsAnonymous,
		IsOpen:        announcementType != models.AnnouncementPlain,
		ClosesAt:      req.ClosesAt,
	}
	for i, option := range req.Options {
		announcement.Options = append(announcement.Options, models.PollOption{Index: i, Text: option.Text})
	}
	for i, question := range req.Questions {
		announcement.Questions = append(announcement.Questions, models.FormQuestion{Index: i, Text: question.Text, Required: question.Required})
	}

	id, err := s.announcementRepo.Create(ctx, announcement)
	if err != nil {
		return nil, err
	}

	created, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewAnnouncementResponse(created, !created.IsExpired(s.now())), nil
}

// GetAnnouncement retrieves an announcement with lazily evaluated openness.
// For polls and forms the response also reports whether the caller has
// already participated.
func (s *announcementServiceImpl) GetAnnouncement(ctx context.Context, announcementID, userID int64, isAdmin bool) (*dto.AnnouncementResponse, error) {
	announcement, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		return nil, err
	}
	if err := s.permissions.RequirePermission(ctx, announcement.ClubID, userID, isAdmin, models.PermViewClub); err != nil {
		return nil, err
	}

	response := dto.NewAnnouncementResponse(announcement, !announcement.IsExpired(s.now()))
	switch announcement.Type {
	case models.AnnouncementPoll:
		voted, err := s.announcementRepo.HasVoted(ctx, announcementID, userID)
		if err != nil {
			return nil, err
		}
		response.HasVoted = voted
	case models.AnnouncementForm:
		responded, err := s.announcementRepo.HasResponded(ctx, announcementID, userID)
		if err != nil {
			return nil, err
		}
		response.HasResponded = responded
	}
	return response, nil
}

// ListAnnouncements retrieves a club's announcements, pinned first
func (s *announcementServiceImpl) ListAnnouncements(ctx context.Context, clubID, userID int64, isAdmin bool) ([]dto.AnnouncementResponse, error) {
	if err := s.permissions.RequirePermission(ctx, clubID, userID, isAdmin, models.PermViewClub); err != nil {
		return nil, err
	}

	announcements, err := s.announcementRepo.GetByClubID(ctx, clubID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]dto.AnnouncementResponse, 0, len(announcements))
	for _, a := range announcements {
		responses = append(responses, *dto.NewAnnouncementResponse(a, !a.IsExpired(now)))
	}
	return responses, nil
}

// SetPinned pins or unpins an announcement
func (s *announcementServiceImpl) SetPinned(ctx context.Context, announcementID, userID int64, isAdmin, pinned bool) error {
	announcement, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		return err
	}
	if err := s.permissions.RequirePermission(ctx, announcement.ClubID, userID, isAdmin, models.PermPostAnnouncements); err != nil {
		return err
	}

	return s.announcementRepo.SetPinned(ctx, announcementID, pinned)
}

// CloseInteraction closes a poll or form ahead of its closing time. The
// creator may close their own; otherwise posting permission is required.
func (s *announcementServiceImpl) CloseInteraction(ctx context.Context, announcementID, userID int64, isAdmin bool) error {
	announcement, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		return err
	}
	if announcement.Type == models.AnnouncementPlain {
		return apperrors.NewValidationError("A plain announcement has no interaction to close")
	}
	if announcement.CreatedBy != userID {
		if err := s.permissions.RequirePermission(ctx, announcement.ClubID, userID, isAdmin, models.PermPostAnnouncements); err != nil {
			return err
		}
	}

	return s.announcementRepo.SetOpen(ctx, announcementID, false)
}

// DeleteAnnouncement removes an announcement. The author may delete their own
// post; otherwise content moderation permission is required.
func (s *announcementServiceImpl) DeleteAnnouncement(ctx context.Context, announcementID, userID int64, isAdmin bool) error {
	announcement, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		return err
	}
	if announcement.CreatedBy != userID {
		if err := s.permissions.RequirePermission(ctx, announcement.ClubID, userID, isAdmin, models.PermManageContent); err != nil {
			return err
		}
	}

	return s.announcementRepo.Delete(ctx, announcementID)
}

// Vote casts a vote on an open poll. The single-vote rule is enforced
// atomically at the storage layer.
func (s *announcementServiceImpl) Vote(ctx context.Context, announcementID, userID int64, req *dto.VoteRequest) error {
	announcement, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		return err
	}
	if announcement.Type != models.AnnouncementPoll {
		return apperrors.NewValidationError("Votes can only be cast on polls")
	}
	if _, err := ensureActiveMember(ctx, s.memberRepo, announcement.ClubID, userID); err != nil {
		return err
	}
	if announcement.IsExpired(s.now()) {
		return apperrors.NewExpiredError("The poll is closed")
	}

	valid := false
	for _, option := range announcement.Options {
		if option.ID == req.OptionID {
			valid = true
			break
		}
	}
	if !valid {
		return apperrors.NewValidationError("The option does not belong to this poll")
	}

	return s.announcementRepo.CastVote(ctx, announcementID, req.OptionID, userID, announcement.AllowMultiple)
}

// ListPollVotes retrieves a poll's cast votes. Anonymous polls hide the
// voting user.
func (s *announcementServiceImpl) ListPollVotes(ctx context.Context, announcementID, userID int64, isAdmin bool) ([]dto.PollVoteData, error) {
	announcement, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		return nil, err
	}
	if announcement.Type != models.AnnouncementPoll {
		return nil, apperrors.NewValidationError("Only polls have votes")
	}
	if err := s.permissions.RequirePermission(ctx, announcement.ClubID, userID, isAdmin, models.PermViewClub); err != nil {
		return nil, err
	}

	votes, err := s.announcementRepo.GetVotes(ctx, announcementID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PollVoteData, 0, len(votes))
	for _, v := range votes {
		data := dto.PollVoteData{
			OptionID:  v.OptionID,
			UserID:    v.UserID,
			CreatedAt: v.CreatedAt,
		}
		if announcement.IsAnonymous {
			data.UserID = 0
		}
		out = append(out, data)
	}
	return out, nil
}

// SubmitForm submits answers to an open form, once per member
func (s *announcementServiceImpl) SubmitForm(ctx context.Context, announcementID, userID int64, req *dto.SubmitFormRequest) error {
	announcement, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		return err
	}
	if announcement.Type != models.AnnouncementForm {
		return apperrors.NewValidationError("Responses can only be submitted to forms")
	}
	if _, err := ensureActiveMember(ctx, s.memberRepo, announcement.ClubID, userID); err != nil {
		return err
	}
	if announcement.IsExpired(s.now()) {
		return apperrors.NewExpiredError("The form is closed")
	}

	byIndex := make(map[int]string, len(req.Answers))
	for _, a := range req.Answers {
		byIndex[a.QuestionIndex] = a.Answer
	}

	answers := make([]models.FormAnswer, 0, len(announcement.Questions))
	for _, q := range announcement.Questions {
		answer, ok := byIndex[q.Index]
		if q.Required && (!ok || answer == "") {
			return apperrors.NewValidationError(fmt.Sprintf("Question %d requires an answer", q.Index))
		}
		if ok {
			answers = append(answers, models.FormAnswer{QuestionIndex: q.Index, Answer: answer})
		}
	}

	response := &models.FormResponse{
		AnnouncementID: announcementID,
		UserID:         userID,
		Answers:        answers,
	}
	_, err = s.announcementRepo.CreateResponse(ctx, response)
	return err
}

// ListFormResponses retrieves form submissions. Anonymous forms hide the
// submitting user.
func (s *announcementServiceImpl) ListFormResponses(ctx context.Context, announcementID, userID int64, isAdmin bool) ([]dto.FormResponseData, error) {
	announcement, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		return nil, err
	}
	if announcement.Type != models.AnnouncementForm {
		return nil, apperrors.NewValidationError("Only forms have responses")
	}
	if err := s.permissions.RequirePermission(ctx, announcement.ClubID, userID, isAdmin, models.PermPostAnnouncements); err != nil {
		return nil, err
	}

	responses, err := s.announcementRepo.GetResponses(ctx, announcementID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.FormResponseData, 0, len(responses))
	for _, r := range responses {
		data := dto.FormResponseData{
			ID:        r.ID,
			UserID:    r.UserID,
			Answers:   r.Answers,
			CreatedAt: r.CreatedAt,
		}
		if announcement.IsAnonymous {
			data.UserID = 0
		}
		out = append(out, data)
	}
	return out, nil
}

// AddComment posts a comment or a one-level reply. Replies to replies attach
// to the original parent.
func (s *announcementServiceImpl) AddComment(ctx context.Context, announcementID, userID int64, req *dto.CommentRequest) (*dto.CommentResponse, error) {
	announcement, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		return nil, err
	}
	if _, err := ensureActiveMember(ctx, s.memberRepo, announcement.ClubID, userID); err != nil {
		return nil, err
	}

	parentID := req.ParentCommentID
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.AnnouncementID != announcementID {
			return nil, apperrors.NewValidationError("Parent comment belongs to another announcement")
		}
		if parent.ParentCommentID != nil {
			parentID = parent.ParentCommentID
		}
	}

	comment := &models.Comment{
		AnnouncementID:  announcementID,
		UserID:          userID,
		ParentCommentID: parentID,
		Text:            req.Text,
	}
	if _, err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return dto.NewCommentResponse(comment), nil
}

// EditComment lets the author edit their comment within the edit window
func (s *announcementServiceImpl) EditComment(ctx context.Context, commentID, userID int64, text string) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, apperrors.NewForbiddenError("Only the author can edit a comment")
	}
	if !comment.EditableBy(userID, s.now()) {
		return nil, apperrors.NewExpiredError("The edit window for this comment has passed")
	}

	if err := s.commentRepo.UpdateText(ctx, commentID, text); err != nil {
		return nil, err
	}
	comment.Text = text

	return dto.NewCommentResponse(comment), nil
}

// DeleteComment removes a comment. The author may delete their own; otherwise
// content moderation permission is required.
func (s *announcementServiceImpl) DeleteComment(ctx context.Context, commentID, userID int64, isAdmin bool) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		announcement, err := s.announcementRepo.GetByID(ctx, comment.AnnouncementID)
		if err != nil {
			return err
		}
		if err := s.permissions.RequirePermission(ctx, announcement.ClubID, userID, isAdmin, models.PermManageContent); err != nil {
			return err
		}
	}

	return s.commentRepo.Delete(ctx, commentID)
}

// ListComments retrieves an announcement's comments in posting order
func (s *announcementServiceImpl) ListComments(ctx context.Context, announcementID, userID int64, isAdmin bool) ([]dto.CommentResponse, error) {
	announcement, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		return nil, err
	}
	if err := s.permissions.RequirePermission(ctx, announcement.ClubID, userID, isAdmin, models.PermViewClub); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.GetByAnnouncementID(ctx, announcementID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		responses = append(responses, *dto.NewCommentResponse(c))
	}
	return responses, nil
}
