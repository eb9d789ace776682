package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/eren/clubsphere/internal/app/auth"
	"github.com/eren/clubsphere/internal/app/models"
	"github.com/eren/clubsphere/internal/app/models/dto"
	"github.com/eren/clubsphere/internal/app/repositories"
	"github.com/eren/clubsphere/internal/pkg/apperrors"
	"github.com/eren/clubsphere/internal/pkg/notifier"
)

// ClubService defines the interface for club and membership operations
type ClubService interface {
	CreateClub(ctx context.Context, userID int64, req *dto.CreateClubRequest) (*dto.ClubResponse, error)
	GetClub(ctx context.Context, clubID int64) (*dto.ClubResponse, error)
	ListClubs(ctx context.Context, filter *dto.ClubFilterRequest) (*dto.ClubListResponse, error)
	UpdateClub(ctx context.Context, clubID, userID int64, isAdmin bool, req *dto.UpdateClubRequest) (*dto.ClubResponse, error)
	UpdateForm(ctx context.Context, clubID, userID int64, isAdmin bool, req *dto.UpdateFormRequest) error
	DeleteClub(ctx context.Context, clubID, userID int64, isAdmin bool) error

	ListMembers(ctx context.Context, clubID, userID int64, isAdmin bool) ([]dto.MemberResponse, error)
	GetOwnMembership(ctx context.Context, userID int64) (*dto.MemberResponse, error)
	GetEffectivePermissions(ctx context.Context, clubID, userID int64) ([]string, error)
	ChangeMemberStatus(ctx context.Context, clubID, actorID, targetID int64, isAdmin bool, req *dto.UpdateMemberStatusRequest) error
	AssignRole(ctx context.Context, clubID, actorID, targetID int64, isAdmin bool, req *dto.AssignRoleRequest) error
	UpdateOverrides(ctx context.Context, clubID, actorID, targetID int64, isAdmin bool, req *dto.UpdateOverridesRequest) error
	RemoveMember(ctx context.Context, clubID, actorID, targetID int64, isAdmin bool) error
	LeaveClub(ctx context.Context, clubID, userID int64) error

	RecordViolation(ctx context.Context, clubID, actorID int64, isAdmin bool, req *dto.ViolationRequest) (*dto.ViolationResponse, error)
	ListViolations(ctx context.Context, clubID, actorID int64, isAdmin bool) ([]dto.ViolationResponse, error)
}

// clubServiceImpl implements ClubService
type clubServiceImpl struct {
	clubRepo      repositories.ClubRepository
	roleRepo      repositories.RoleRepository
	memberRepo    repositories.MemberRepository
	violationRepo repositories.ViolationRepository
	userRepo      repositories.UserRepository
	permissions   *auth.PermissionEngine
	notifier      notifier.Notifier
	logger        zerolog.Logger
}

// NewClubService creates a new ClubService
func NewClubService(
	clubRepo repositories.ClubRepository,
	roleRepo repositories.RoleRepository,
	memberRepo repositories.MemberRepository,
	violationRepo repositories.ViolationRepository,
	userRepo repositories.UserRepository,
	permissions *auth.PermissionEngine,
	notify notifier.Notifier,
	logger zerolog.Logger,
) ClubService {
	return &clubServiceImpl{
		clubRepo:      clubRepo,
		roleRepo:      roleRepo,
		memberRepo:    memberRepo,
		violationRepo: violationRepo,
		userRepo:      userRepo,
		permissions:   permissions,
		notifier:      notify,
		logger:        logger,
	}
}

// CreateClub founds a club with the caller as owner and president. The single
// ownership and membership exclusivity rules are checked up front and enforced
// transactionally at the storage layer.
func (s *clubServiceImpl) CreateClub(ctx context.Context, userID int64, req *dto.CreateClubRequest) (*dto.ClubResponse, error) {
	if _, err := s.clubRepo.GetByOwnerID(ctx, userID); err == nil {
		return nil, apperrors.NewConflictError("User already owns a club")
	} else if !errors.Is(err, apperrors.ErrClubNotFound) {
		return nil, err
	}
	active, err := s.memberRepo.HasActiveMembership(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, apperrors.NewConflictError("User already holds an active membership in another club")
	}

	club := &models.Club{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		OwnerID:     userID,
	}

	clubID, err := s.clubRepo.CreateWithOwner(ctx, club)
	if err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Str("name", req.Name).Msg("Club creation rejected")
		return nil, err
	}

	s.logger.Info().Int64("clubID", clubID).Int64("ownerID", userID).Str("name", req.Name).Msg("Club created")

	created, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	return dto.NewClubResponse(created), nil
}

// GetClub retrieves a club by ID
func (s *clubServiceImpl) GetClub(ctx context.Context, clubID int64) (*dto.ClubResponse, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	return dto.NewClubResponse(club), nil
}

// ListClubs retrieves clubs with category filtering and pagination
func (s *clubServiceImpl) ListClubs(ctx context.Context, filter *dto.ClubFilterRequest) (*dto.ClubListResponse, error) {
	offset := uint64((filter.Page - 1) * filter.PageSize)
	clubs, total, err := s.clubRepo.GetAll(ctx, filter.Category, offset, filter.PageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ClubResponse, 0, len(clubs))
	for _, club := range clubs {
		responses = append(responses, *dto.NewClubResponse(club))
	}

	return &dto.ClubListResponse{
		Clubs:          responses,
		PaginationInfo: dto.NewPaginationInfo(filter.Page, filter.PageSize, total),
	}, nil
}

// UpdateClub edits a club's descriptive fields
func (s *clubServiceImpl) UpdateClub(ctx context.Context, clubID, userID int64, isAdmin bool, req *dto.UpdateClubRequest) (*dto.ClubResponse, error) {
	if err := s.permissions.RequirePermission(ctx, clubID, userID, isAdmin, models.PermEditClub); err != nil {
		return nil, err
	}

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		club.Name = *req.Name
	}
	if req.Description != nil {
		club.Description = *req.Description
	}
	if req.Category != nil {
		club.Category = *req.Category
	}
	if req.Tags != nil {
		club.Tags = req.Tags
	}

	if err := s.clubRepo.Update(ctx, club); err != nil {
		return nil, err
	}

	return dto.NewClubResponse(club), nil
}

// UpdateForm replaces the club's application form configuration
func (s *clubServiceImpl) UpdateForm(ctx context.Context, clubID, userID int64, isAdmin bool, req *dto.UpdateFormRequest) error {
	if err := s.permissions.RequirePermission(ctx, clubID, userID, isAdmin, models.PermEditClub); err != nil {
		return err
	}

	questions := make([]models.FormQuestionSpec, len(req.Questions))
	for i, q := range req.Questions {
		questions[i] = models.FormQuestionSpec{Index: i, Text: q.Text, Required: q.Required}
	}

	return s.clubRepo.UpdateForm(ctx, clubID, req.Enabled, req.Open, questions)
}

// DeleteClub removes a club with everything attached to it
func (s *clubServiceImpl) DeleteClub(ctx context.Context, clubID, userID int64, isAdmin bool) error {
	if err := s.permissions.RequirePermission(ctx, clubID, userID, isAdmin, models.PermDeleteClub); err != nil {
		return err
	}

	if err := s.clubRepo.Delete(ctx, clubID); err != nil {
		return err
	}

	s.logger.Info().Int64("clubID", clubID).Int64("deletedBy", userID).Msg("Club deleted")
	return nil
}

// ListMembers retrieves a club's memberships
func (s *clubServiceImpl) ListMembers(ctx context.Context, clubID, userID int64, isAdmin bool) ([]dto.MemberResponse, error) {
	if err := s.permissions.RequirePermission(ctx, clubID, userID, isAdmin, models.PermViewMembers); err != nil {
		return nil, err
	}

	members, err := s.memberRepo.GetMembersByClubID(ctx, clubID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MemberResponse, 0, len(members))
	for _, member := range members {
		responses = append(responses, *dto.NewMemberResponse(member))
	}
	return responses, nil
}

// GetOwnMembership retrieves the caller's active membership, if any
func (s *clubServiceImpl) GetOwnMembership(ctx context.Context, userID int64) (*dto.MemberResponse, error) {
	member, err := s.memberRepo.GetActiveMembership(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := dto.NewMemberResponse(member)
	set, err := s.permissions.ResolveEffectivePermissions(ctx, member.ClubID, userID)
	if err != nil {
		return nil, err
	}
	response.EffectivePermissions = models.Strings(set.List())
	return response, nil
}

// GetEffectivePermissions resolves the caller's own effective permissions in
// the club
func (s *clubServiceImpl) GetEffectivePermissions(ctx context.Context, clubID, userID int64) ([]string, error) {
	set, err := s.permissions.ResolveEffectivePermissions(ctx, clubID, userID)
	if err != nil {
		return nil, err
	}
	return models.Strings(set.List()), nil
}

// ChangeMemberStatus suspends, bans or reinstates a member. The owner cannot
// be targeted.
func (s *clubServiceImpl) ChangeMemberStatus(ctx context.Context, clubID, actorID, targetID int64, isAdmin bool, req *dto.UpdateMemberStatusRequest) error {
	if err := s.permissions.RequirePermission(ctx, clubID, actorID, isAdmin, models.PermSuspendMembers); err != nil {
		return err
	}

	if err := s.rejectOwnerTarget(ctx, clubID, targetID); err != nil {
		return err
	}

	status := models.MemberStatus(req.Status)
	if !status.IsValid() {
		return apperrors.NewValidationError(fmt.Sprintf("Unknown member status: %s", req.Status))
	}

	if err := s.memberRepo.UpdateStatus(ctx, clubID, targetID, status); err != nil {
		return err
	}

	if req.Reason != "" && status != models.MemberStatusActive {
		violation := &models.Violation{ClubID: clubID, UserID: targetID, Reason: req.Reason, IssuedBy: actorID}
		if _, err := s.violationRepo.Create(ctx, violation); err != nil {
			s.logger.Error().Err(err).Int64("clubID", clubID).Int64("userID", targetID).Msg("Failed to record violation alongside status change")
		}
	}

	s.notify(ctx, notifier.Notification{
		RecipientID:   targetID,
		Kind:          notifier.KindMemberStatusChanged,
		Title:         "Membership status changed",
		Message:       fmt.Sprintf("Your membership status is now %s", status),
		RelatedClubID: clubID,
		Priority:      notifier.PriorityHigh,
	})

	return nil
}

// AssignRole changes a member's role. The reserved President role follows
// ownership and cannot be assigned.
func (s *clubServiceImpl) AssignRole(ctx context.Context, clubID, actorID, targetID int64, isAdmin bool, req *dto.AssignRoleRequest) error {
	if err := s.permissions.RequirePermission(ctx, clubID, actorID, isAdmin, models.PermAssignRoles); err != nil {
		return err
	}

	if req.RoleName == models.RoleNamePresident {
		return apperrors.NewValidationError("The President role follows club ownership and cannot be assigned")
	}

	if err := s.rejectOwnerTarget(ctx, clubID, targetID); err != nil {
		return err
	}

	if _, err := s.roleRepo.GetByName(ctx, clubID, req.RoleName); err != nil {
		return err
	}

	if err := s.memberRepo.UpdateRole(ctx, clubID, targetID, req.RoleName); err != nil {
		return err
	}

	s.notify(ctx, notifier.Notification{
		RecipientID:   targetID,
		Kind:          notifier.KindMemberRoleChanged,
		Title:         "Role changed",
		Message:       fmt.Sprintf("Your club role is now %s", req.RoleName),
		RelatedClubID: clubID,
		Priority:      notifier.PriorityNormal,
	})

	return nil
}

// UpdateOverrides replaces a member's per-member permission overrides
func (s *clubServiceImpl) UpdateOverrides(ctx context.Context, clubID, actorID, targetID int64, isAdmin bool, req *dto.UpdateOverridesRequest) error {
	if err := s.permissions.RequirePermission(ctx, clubID, actorID, isAdmin, models.PermAssignRoles); err != nil {
		return err
	}

	perms, err := parsePermissions(req.Permissions)
	if err != nil {
		return err
	}

	return s.memberRepo.UpdateOverrides(ctx, clubID, targetID, perms)
}

// RemoveMember expels a member from the club. The owner cannot be removed.
func (s *clubServiceImpl) RemoveMember(ctx context.Context, clubID, actorID, targetID int64, isAdmin bool) error {
	if err := s.permissions.RequirePermission(ctx, clubID, actorID, isAdmin, models.PermRemoveMembers); err != nil {
		return err
	}

	if err := s.rejectOwnerTarget(ctx, clubID, targetID); err != nil {
		return err
	}

	if err := s.memberRepo.Remove(ctx, clubID, targetID); err != nil {
		return err
	}

	s.notify(ctx, notifier.Notification{
		RecipientID:   targetID,
		Kind:          notifier.KindMemberRemoved,
		Title:         "Removed from club",
		Message:       "You have been removed from the club",
		RelatedClubID: clubID,
		Priority:      notifier.PriorityHigh,
	})

	return nil
}

// LeaveClub lets a member leave voluntarily. The president must delete the
// club instead.
func (s *clubServiceImpl) LeaveClub(ctx context.Context, clubID, userID int64) error {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return err
	}
	if club.OwnerID == userID {
		return apperrors.NewConflictError("The president cannot leave the club; delete the club instead")
	}

	return s.memberRepo.Remove(ctx, clubID, userID)
}

// RecordViolation files a disciplinary record against a member
func (s *clubServiceImpl) RecordViolation(ctx context.Context, clubID, actorID int64, isAdmin bool, req *dto.ViolationRequest) (*dto.ViolationResponse, error) {
	if err := s.permissions.RequirePermission(ctx, clubID, actorID, isAdmin, models.PermManageViolations); err != nil {
		return nil, err
	}

	if _, err := s.memberRepo.GetMember(ctx, clubID, req.UserID); err != nil {
		return nil, err
	}

	violation := &models.Violation{
		ClubID:   clubID,
		UserID:   req.UserID,
		Reason:   req.Reason,
		IssuedBy: actorID,
	}
	id, err := s.violationRepo.Create(ctx, violation)
	if err != nil {
		return nil, err
	}
	violation.ID = id

	s.notify(ctx, notifier.Notification{
		RecipientID:   req.UserID,
		Kind:          notifier.KindViolationRecorded,
		Title:         "Violation recorded",
		Message:       req.Reason,
		RelatedClubID: clubID,
		Priority:      notifier.PriorityHigh,
	})

	return dto.NewViolationResponse(violation), nil
}

// ListViolations retrieves a club's violation records
func (s *clubServiceImpl) ListViolations(ctx context.Context, clubID, actorID int64, isAdmin bool) ([]dto.ViolationResponse, error) {
	if err := s.permissions.RequirePermission(ctx, clubID, actorID, isAdmin, models.PermManageViolations); err != nil {
		return nil, err
	}

	violations, err := s.violationRepo.GetByClubID(ctx, clubID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ViolationResponse, 0, len(violations))
	for _, v := range violations {
		responses = append(responses, *dto.NewViolationResponse(v))
	}
	return responses, nil
}

// rejectOwnerTarget blocks moderation actions aimed at the club owner.
func (s *clubServiceImpl) rejectOwnerTarget(ctx context.Context, clubID, targetID int64) error {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return err
	}
	if club.OwnerID == targetID {
		return apperrors.NewForbiddenError("The club owner cannot be targeted by this action")
	}
	return nil
}

func (s *clubServiceImpl) notify(ctx context.Context, n notifier.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Error().Err(err).Str("kind", n.Kind).Int64("recipientID", n.RecipientID).Msg("Failed to deliver notification")
	}
}

// parsePermissions validates raw permission tokens against the vocabulary.
func parsePermissions(tokens []string) ([]models.Permission, error) {
	perms := make([]models.Permission, 0, len(tokens))
	for _, t := range tokens {
		p := models.Permission(t)
		if !p.IsValid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Unknown permission: %s", t))
		}
		perms = append(perms, p)
	}
	return perms, nil
}

// ensureActiveMember resolves the membership and rejects non-active statuses.
func ensureActiveMember(ctx context.Context, memberRepo repositories.MemberRepository, clubID, userID int64) (*models.ClubMember, error) {
	member, err := memberRepo.GetMember(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMemberNotFound) {
			return nil, apperrors.NewForbiddenError("Only club members can perform this action")
		}
		return nil, err
	}
	if member.Status != models.MemberStatusActive {
		return nil, apperrors.NewForbiddenError("Membership is not active")
	}
	return member, nil
}
