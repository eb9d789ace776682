package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/eren/clubsphere/internal/app/auth"
	"github.com/eren/clubsphere/internal/app/models"
	"github.com/eren/clubsphere/internal/pkg/apperrors"
	"github.com/eren/clubsphere/internal/pkg/notifier"
)

// In-memory repository fakes. They mirror the conflict and not-found
// behavior of the postgres implementations so the services can be tested
// without a database.

type memberKey struct {
	clubID int64
	userID int64
}

type fakeNotifier struct {
	sent []notifier.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n notifier.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) kinds() []string {
	out := make([]string, len(f.sent))
	for i, n := range f.sent {
		out[i] = n.Kind
	}
	return out
}

type fakeMemberRepo struct {
	members map[memberKey]*models.ClubMember
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[memberKey]*models.ClubMember)}
}

func (f *fakeMemberRepo) put(m *models.ClubMember) {
	if m.Status == "" {
		m.Status = models.MemberStatusActive
	}
	f.members[memberKey{m.ClubID, m.UserID}] = m
}

func (f *fakeMemberRepo) GetMember(_ context.Context, clubID, userID int64) (*models.ClubMember, error) {
	m, ok := f.members[memberKey{clubID, userID}]
	if !ok {
		return nil, apperrors.ErrMemberNotFound
	}
	return m, nil
}

func (f *fakeMemberRepo) GetMembersByClubID(_ context.Context, clubID int64) ([]*models.ClubMember, error) {
	var out []*models.ClubMember
	for _, m := range f.members {
		if m.ClubID == clubID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) HasActiveMembership(_ context.Context, userID int64) (bool, error) {
	for _, m := range f.members {
		if m.UserID == userID && m.Status == models.MemberStatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMemberRepo) GetActiveMembership(_ context.Context, userID int64) (*models.ClubMember, error) {
	for _, m := range f.members {
		if m.UserID == userID && m.Status == models.MemberStatusActive {
			return m, nil
		}
	}
	return nil, apperrors.ErrMemberNotFound
}

func (f *fakeMemberRepo) UpdateStatus(_ context.Context, clubID, userID int64, status models.MemberStatus) error {
	m, ok := f.members[memberKey{clubID, userID}]
	if !ok {
		return apperrors.ErrMemberNotFound
	}
	// Mirrors the partial unique index on active memberships
	if status == models.MemberStatusActive {
		for _, other := range f.members {
			if other.UserID == userID && other.ClubID != clubID && other.Status == models.MemberStatusActive {
				return apperrors.NewConflictError("User already holds an active membership in another club")
			}
		}
	}
	m.Status = status
	return nil
}

func (f *fakeMemberRepo) UpdateRole(_ context.Context, clubID, userID int64, roleName string) error {
	m, ok := f.members[memberKey{clubID, userID}]
	if !ok {
		return apperrors.ErrMemberNotFound
	}
	m.RoleName = roleName
	return nil
}

func (f *fakeMemberRepo) UpdateOverrides(_ context.Context, clubID, userID int64, perms []models.Permission) error {
	m, ok := f.members[memberKey{clubID, userID}]
	if !ok {
		return apperrors.ErrMemberNotFound
	}
	m.ExtraPermissions = perms
	return nil
}

func (f *fakeMemberRepo) Remove(_ context.Context, clubID, userID int64) error {
	key := memberKey{clubID, userID}
	if _, ok := f.members[key]; !ok {
		return apperrors.ErrMemberNotFound
	}
	delete(f.members, key)
	return nil
}

type roleKey struct {
	clubID int64
	name   string
}

type fakeRoleRepo struct {
	nextID       int64
	roles        map[roleKey]*models.ClubRole
	holderCounts map[roleKey]int
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[roleKey]*models.ClubRole)}
}

func (f *fakeRoleRepo) seedReserved(clubID int64) {
	f.put(&models.ClubRole{ClubID: clubID, Name: models.RoleNamePresident, Permissions: models.AllPermissions})
	f.put(&models.ClubRole{ClubID: clubID, Name: models.RoleNameMember, Permissions: models.DefaultMemberPermissions})
}

func (f *fakeRoleRepo) put(role *models.ClubRole) {
	f.nextID++
	role.ID = f.nextID
	f.roles[roleKey{role.ClubID, role.Name}] = role
}

func (f *fakeRoleRepo) Create(_ context.Context, role *models.ClubRole) (int64, error) {
	if _, ok := f.roles[roleKey{role.ClubID, role.Name}]; ok {
		return 0, apperrors.NewConflictError("A role with this name already exists in the club")
	}
	f.put(role)
	return role.ID, nil
}

func (f *fakeRoleRepo) GetByName(_ context.Context, clubID int64, name string) (*models.ClubRole, error) {
	role, ok := f.roles[roleKey{clubID, name}]
	if !ok {
		return nil, apperrors.ErrRoleNotFound
	}
	return role, nil
}

func (f *fakeRoleRepo) GetByClubID(_ context.Context, clubID int64) ([]*models.ClubRole, error) {
	var out []*models.ClubRole
	for _, role := range f.roles {
		if role.ClubID == clubID {
			out = append(out, role)
		}
	}
	return out, nil
}

func (f *fakeRoleRepo) Update(_ context.Context, role *models.ClubRole) error {
	if _, ok := f.roles[roleKey{role.ClubID, role.Name}]; !ok {
		return apperrors.ErrRoleNotFound
	}
	f.roles[roleKey{role.ClubID, role.Name}] = role
	return nil
}

func (f *fakeRoleRepo) Delete(_ context.Context, clubID int64, name string) error {
	key := roleKey{clubID, name}
	if _, ok := f.roles[key]; !ok {
		return apperrors.ErrRoleNotFound
	}
	delete(f.roles, key)
	return nil
}

func (f *fakeRoleRepo) CountActiveHolders(_ context.Context, clubID int64, name string) (int, error) {
	// The fake keeps holder counts out of band; tests inject them via
	// holderCounts when a scenario needs a non-zero count.
	if f.holderCounts == nil {
		return 0, nil
	}
	return f.holderCounts[roleKey{clubID, name}], nil
}

type fakeClubRepo struct {
	nextID  int64
	clubs   map[int64]*models.Club
	roles   *fakeRoleRepo
	members *fakeMemberRepo
}

func newFakeClubRepo(roles *fakeRoleRepo, members *fakeMemberRepo) *fakeClubRepo {
	return &fakeClubRepo{clubs: make(map[int64]*models.Club), roles: roles, members: members}
}

func (f *fakeClubRepo) CreateWithOwner(ctx context.Context, club *models.Club) (int64, error) {
	for _, existing := range f.clubs {
		if existing.Name == club.Name {
			return 0, apperrors.NewConflictError("A club with this name already exists")
		}
		if existing.OwnerID == club.OwnerID {
			return 0, apperrors.NewConflictError("User already owns a club")
		}
	}
	if active, _ := f.members.HasActiveMembership(ctx, club.OwnerID); active {
		return 0, apperrors.NewConflictError("User already holds an active membership in another club")
	}

	f.nextID++
	club.ID = f.nextID
	club.CreatedAt = time.Now()
	f.clubs[club.ID] = club

	f.roles.seedReserved(club.ID)
	f.members.put(&models.ClubMember{
		ClubID:   club.ID,
		UserID:   club.OwnerID,
		RoleName: models.RoleNamePresident,
		Status:   models.MemberStatusActive,
	})
	return club.ID, nil
}

func (f *fakeClubRepo) GetByID(_ context.Context, id int64) (*models.Club, error) {
	club, ok := f.clubs[id]
	if !ok {
		return nil, apperrors.ErrClubNotFound
	}
	return club, nil
}

func (f *fakeClubRepo) GetByOwnerID(_ context.Context, ownerID int64) (*models.Club, error) {
	for _, club := range f.clubs {
		if club.OwnerID == ownerID {
			return club, nil
		}
	}
	return nil, apperrors.ErrClubNotFound
}

func (f *fakeClubRepo) GetAll(_ context.Context, category string, offset uint64, limit int) ([]*models.Club, int64, error) {
	var out []*models.Club
	for _, club := range f.clubs {
		if category == "" || club.Category == category {
			out = append(out, club)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeClubRepo) Update(_ context.Context, club *models.Club) error {
	if _, ok := f.clubs[club.ID]; !ok {
		return apperrors.ErrClubNotFound
	}
	f.clubs[club.ID] = club
	return nil
}

func (f *fakeClubRepo) UpdateForm(_ context.Context, clubID int64, enabled, open bool, questions []models.FormQuestionSpec) error {
	club, ok := f.clubs[clubID]
	if !ok {
		return apperrors.ErrClubNotFound
	}
	club.FormEnabled = enabled
	club.FormOpen = open
	club.FormQuestions = questions
	return nil
}

func (f *fakeClubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.clubs[id]; !ok {
		return apperrors.ErrClubNotFound
	}
	delete(f.clubs, id)
	return nil
}

type fakeUserRepo struct {
	users map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) (int64, error) {
	f.users[user.ID] = user
	return user.ID, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) SetAdmin(_ context.Context, id int64, isAdmin bool) error {
	user, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.IsAdmin = isAdmin
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeViolationRepo struct {
	nextID     int64
	violations []*models.Violation
}

func (f *fakeViolationRepo) Create(_ context.Context, violation *models.Violation) (int64, error) {
	f.nextID++
	violation.ID = f.nextID
	violation.CreatedAt = time.Now()
	f.violations = append(f.violations, violation)
	return violation.ID, nil
}

func (f *fakeViolationRepo) GetByClubID(_ context.Context, clubID int64) ([]*models.Violation, error) {
	var out []*models.Violation
	for _, v := range f.violations {
		if v.ClubID == clubID {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeApplicationRepo struct {
	nextID       int64
	applications map[int64]*models.ClubApplication
	members      *fakeMemberRepo
}

func newFakeApplicationRepo(members *fakeMemberRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{applications: make(map[int64]*models.ClubApplication), members: members}
}

func (f *fakeApplicationRepo) Create(_ context.Context, application *models.ClubApplication) (int64, error) {
	for _, existing := range f.applications {
		if existing.ClubID == application.ClubID && existing.UserID == application.UserID && !existing.Status.IsTerminal() {
			return 0, apperrors.NewConflictError("An application for this club is already in progress")
		}
	}
	f.nextID++
	application.ID = f.nextID
	application.Status = models.ApplicationPending
	application.CreatedAt = time.Now()
	f.applications[application.ID] = application
	return application.ID, nil
}

func (f *fakeApplicationRepo) GetByID(_ context.Context, id int64) (*models.ClubApplication, error) {
	application, ok := f.applications[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	return application, nil
}

func (f *fakeApplicationRepo) GetByClubID(_ context.Context, clubID int64) ([]*models.ClubApplication, error) {
	var out []*models.ClubApplication
	for _, a := range f.applications {
		if a.ClubID == clubID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) GetByUserID(_ context.Context, userID int64) ([]*models.ClubApplication, error) {
	var out []*models.ClubApplication
	for _, a := range f.applications {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) UpdateStatus(_ context.Context, id int64, status models.ApplicationStatus) error {
	application, ok := f.applications[id]
	if !ok {
		return apperrors.ErrApplicationNotFound
	}
	application.Status = status
	return nil
}

func (f *fakeApplicationRepo) SetInterview(_ context.Context, id int64, interview *models.Interview, status models.ApplicationStatus) error {
	application, ok := f.applications[id]
	if !ok {
		return apperrors.ErrApplicationNotFound
	}
	application.Interview = interview
	application.Status = status
	return nil
}

func (f *fakeApplicationRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.applications[id]; !ok {
		return apperrors.ErrApplicationNotFound
	}
	delete(f.applications, id)
	return nil
}

func (f *fakeApplicationRepo) Approve(ctx context.Context, id int64, member *models.ClubMember) error {
	application, ok := f.applications[id]
	if !ok {
		return apperrors.ErrApplicationNotFound
	}
	if active, _ := f.members.HasActiveMembership(ctx, member.UserID); active {
		return apperrors.NewConflictError("Applicant already holds an active club membership")
	}
	application.Status = models.ApplicationApproved
	member.Status = models.MemberStatusActive
	f.members.put(member)
	return nil
}

type fakeInvitationRepo struct {
	nextID      int64
	invitations map[int64]*models.ClubInvitation
	members     *fakeMemberRepo
}

func newFakeInvitationRepo(members *fakeMemberRepo) *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: make(map[int64]*models.ClubInvitation), members: members}
}

func (f *fakeInvitationRepo) Create(_ context.Context, invitation *models.ClubInvitation) (int64, error) {
	for _, existing := range f.invitations {
		if existing.ClubID == invitation.ClubID && existing.UserID == invitation.UserID && existing.Status == models.InvitationPending {
			return 0, apperrors.NewConflictError("A pending invitation for this user already exists")
		}
	}
	f.nextID++
	invitation.ID = f.nextID
	invitation.Status = models.InvitationPending
	invitation.CreatedAt = time.Now()
	f.invitations[invitation.ID] = invitation
	return invitation.ID, nil
}

func (f *fakeInvitationRepo) GetByID(_ context.Context, id int64) (*models.ClubInvitation, error) {
	invitation, ok := f.invitations[id]
	if !ok {
		return nil, apperrors.ErrInvitationNotFound
	}
	return invitation, nil
}

func (f *fakeInvitationRepo) GetByCode(_ context.Context, code string) (*models.ClubInvitation, error) {
	for _, invitation := range f.invitations {
		if invitation.Code == code {
			return invitation, nil
		}
	}
	return nil, apperrors.ErrInvitationNotFound
}

func (f *fakeInvitationRepo) GetByClubID(_ context.Context, clubID int64) ([]*models.ClubInvitation, error) {
	var out []*models.ClubInvitation
	for _, inv := range f.invitations {
		if inv.ClubID == clubID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) GetByUserID(_ context.Context, userID int64) ([]*models.ClubInvitation, error) {
	var out []*models.ClubInvitation
	for _, inv := range f.invitations {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) UpdateStatus(_ context.Context, id int64, status models.InvitationStatus) error {
	invitation, ok := f.invitations[id]
	if !ok {
		return apperrors.ErrInvitationNotFound
	}
	invitation.Status = status
	return nil
}

func (f *fakeInvitationRepo) Accept(ctx context.Context, id int64, member *models.ClubMember) error {
	invitation, ok := f.invitations[id]
	if !ok {
		return apperrors.ErrInvitationNotFound
	}
	if active, _ := f.members.HasActiveMembership(ctx, member.UserID); active {
		return apperrors.NewConflictError("Invitee already holds an active club membership")
	}
	invitation.Status = models.InvitationAccepted
	member.Status = models.MemberStatusActive
	f.members.put(member)
	return nil
}

type fakeTripRepo struct {
	nextID       int64
	trips        map[int64]*models.ClubTrip
	participants map[int64][]*models.TripParticipant
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{
		trips:        make(map[int64]*models.ClubTrip),
		participants: make(map[int64][]*models.TripParticipant),
	}
}

func (f *fakeTripRepo) Create(_ context.Context, trip *models.ClubTrip) (int64, error) {
	f.nextID++
	trip.ID = f.nextID
	trip.Status = models.TripPlanned
	trip.CreatedAt = time.Now()
	f.trips[trip.ID] = trip
	return trip.ID, nil
}

func (f *fakeTripRepo) GetByID(_ context.Context, id int64) (*models.ClubTrip, error) {
	trip, ok := f.trips[id]
	if !ok {
		return nil, apperrors.ErrTripNotFound
	}
	return trip, nil
}

func (f *fakeTripRepo) GetByClubID(_ context.Context, clubID int64) ([]*models.ClubTrip, error) {
	var out []*models.ClubTrip
	for _, trip := range f.trips {
		if trip.ClubID == clubID {
			out = append(out, trip)
		}
	}
	return out, nil
}

func (f *fakeTripRepo) Update(_ context.Context, trip *models.ClubTrip) error {
	if _, ok := f.trips[trip.ID]; !ok {
		return apperrors.ErrTripNotFound
	}
	f.trips[trip.ID] = trip
	return nil
}

func (f *fakeTripRepo) UpdateStatus(_ context.Context, id int64, status models.TripStatus) error {
	trip, ok := f.trips[id]
	if !ok {
		return apperrors.ErrTripNotFound
	}
	trip.Status = status
	return nil
}

func (f *fakeTripRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.trips[id]; !ok {
		return apperrors.ErrTripNotFound
	}
	delete(f.trips, id)
	delete(f.participants, id)
	return nil
}

func (f *fakeTripRepo) AddParticipant(_ context.Context, tripID, userID int64, capacity int) error {
	for _, p := range f.participants[tripID] {
		if p.UserID == userID {
			return apperrors.NewConflictError("User is already signed up for this trip")
		}
	}
	if capacity != 0 && len(f.participants[tripID]) >= capacity {
		return apperrors.NewConflictError("Trip is at capacity")
	}
	f.participants[tripID] = append(f.participants[tripID], &models.TripParticipant{
		TripID:   tripID,
		UserID:   userID,
		JoinedAt: time.Now(),
	})
	return nil
}

func (f *fakeTripRepo) RemoveParticipant(_ context.Context, tripID, userID int64) error {
	list := f.participants[tripID]
	for i, p := range list {
		if p.UserID == userID {
			f.participants[tripID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return apperrors.NewResourceNotFoundError("User is not signed up for this trip")
}

func (f *fakeTripRepo) SetAttendance(_ context.Context, tripID, userID int64, attended bool) error {
	for _, p := range f.participants[tripID] {
		if p.UserID == userID {
			p.Attended = attended
			return nil
		}
	}
	return apperrors.NewResourceNotFoundError("User is not signed up for this trip")
}

func (f *fakeTripRepo) GetParticipants(_ context.Context, tripID int64) ([]*models.TripParticipant, error) {
	return f.participants[tripID], nil
}

func (f *fakeTripRepo) CountParticipants(_ context.Context, tripID int64) (int, error) {
	return len(f.participants[tripID]), nil
}

type fakeAnnouncementRepo struct {
	nextID        int64
	nextOptionID  int64
	announcements map[int64]*models.ClubAnnouncement
	votes         map[int64][]*models.PollVote
	responses     map[int64][]*models.FormResponse
}

func newFakeAnnouncementRepo() *fakeAnnouncementRepo {
	return &fakeAnnouncementRepo{
		announcements: make(map[int64]*models.ClubAnnouncement),
		votes:         make(map[int64][]*models.PollVote),
		responses:     make(map[int64][]*models.FormResponse),
	}
}

func (f *fakeAnnouncementRepo) Create(_ context.Context, announcement *models.ClubAnnouncement) (int64, error) {
	f.nextID++
	announcement.ID = f.nextID
	announcement.CreatedAt = time.Now()
	for i := range announcement.Options {
		f.nextOptionID++
		announcement.Options[i].ID = f.nextOptionID
		announcement.Options[i].AnnouncementID = announcement.ID
	}
	f.announcements[announcement.ID] = announcement
	return announcement.ID, nil
}

func (f *fakeAnnouncementRepo) GetByID(_ context.Context, id int64) (*models.ClubAnnouncement, error) {
	announcement, ok := f.announcements[id]
	if !ok {
		return nil, apperrors.ErrAnnouncementNotFound
	}
	return announcement, nil
}

func (f *fakeAnnouncementRepo) GetByClubID(_ context.Context, clubID int64) ([]*models.ClubAnnouncement, error) {
	var out []*models.ClubAnnouncement
	for _, a := range f.announcements {
		if a.ClubID == clubID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAnnouncementRepo) SetPinned(_ context.Context, id int64, pinned bool) error {
	announcement, ok := f.announcements[id]
	if !ok {
		return apperrors.ErrAnnouncementNotFound
	}
	announcement.Pinned = pinned
	return nil
}

func (f *fakeAnnouncementRepo) SetOpen(_ context.Context, id int64, open bool) error {
	announcement, ok := f.announcements[id]
	if !ok {
		return apperrors.ErrAnnouncementNotFound
	}
	announcement.IsOpen = open
	return nil
}

func (f *fakeAnnouncementRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.announcements[id]; !ok {
		return apperrors.ErrAnnouncementNotFound
	}
	delete(f.announcements, id)
	return nil
}

func (f *fakeAnnouncementRepo) CastVote(_ context.Context, announcementID, optionID, userID int64, allowMultiple bool) error {
	for _, v := range f.votes[announcementID] {
		if v.UserID == userID && (!allowMultiple || v.OptionID == optionID) {
			return apperrors.NewConflictError("User has already voted on this poll")
		}
	}
	f.votes[announcementID] = append(f.votes[announcementID], &models.PollVote{
		AnnouncementID: announcementID,
		OptionID:       optionID,
		UserID:         userID,
		CreatedAt:      time.Now(),
	})
	return nil
}

func (f *fakeAnnouncementRepo) GetVotes(_ context.Context, announcementID int64) ([]*models.PollVote, error) {
	return f.votes[announcementID], nil
}

func (f *fakeAnnouncementRepo) HasVoted(_ context.Context, announcementID, userID int64) (bool, error) {
	for _, v := range f.votes[announcementID] {
		if v.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAnnouncementRepo) CreateResponse(_ context.Context, response *models.FormResponse) (int64, error) {
	for _, r := range f.responses[response.AnnouncementID] {
		if r.UserID == response.UserID {
			return 0, apperrors.NewConflictError("User has already responded to this form")
		}
	}
	f.nextID++
	response.ID = f.nextID
	response.CreatedAt = time.Now()
	f.responses[response.AnnouncementID] = append(f.responses[response.AnnouncementID], response)
	return response.ID, nil
}

func (f *fakeAnnouncementRepo) GetResponses(_ context.Context, announcementID int64) ([]*models.FormResponse, error) {
	return f.responses[announcementID], nil
}

func (f *fakeAnnouncementRepo) HasResponded(_ context.Context, announcementID, userID int64) (bool, error) {
	for _, r := range f.responses[announcementID] {
		if r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakeCommentRepo struct {
	nextID   int64
	comments map[int64]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int64]*models.Comment)}
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) (int64, error) {
	f.nextID++
	comment.ID = f.nextID
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	f.comments[comment.ID] = comment
	return comment.ID, nil
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id int64) (*models.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, apperrors.ErrCommentNotFound
	}
	return comment, nil
}

func (f *fakeCommentRepo) GetByAnnouncementID(_ context.Context, announcementID int64) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range f.comments {
		if c.AnnouncementID == announcementID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) UpdateText(_ context.Context, id int64, text string) error {
	comment, ok := f.comments[id]
	if !ok {
		return apperrors.ErrCommentNotFound
	}
	comment.Text = text
	comment.UpdatedAt = time.Now()
	return nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.comments[id]; !ok {
		return apperrors.ErrCommentNotFound
	}
	delete(f.comments, id)
	return nil
}

// fixture bundles the fakes with a permission engine wired over them.
type fixture struct {
	clubs         *fakeClubRepo
	roles         *fakeRoleRepo
	members       *fakeMemberRepo
	users         *fakeUserRepo
	violations    *fakeViolationRepo
	applications  *fakeApplicationRepo
	invitations   *fakeInvitationRepo
	trips         *fakeTripRepo
	announcements *fakeAnnouncementRepo
	comments      *fakeCommentRepo
	notifier      *fakeNotifier
	engine        *auth.PermissionEngine
	logger        zerolog.Logger
}

func newFixture() *fixture {
	members := newFakeMemberRepo()
	roles := newFakeRoleRepo()
	clubs := newFakeClubRepo(roles, members)
	return &fixture{
		clubs:         clubs,
		roles:         roles,
		members:       members,
		users:         newFakeUserRepo(),
		violations:    &fakeViolationRepo{},
		applications:  newFakeApplicationRepo(members),
		invitations:   newFakeInvitationRepo(members),
		trips:         newFakeTripRepo(),
		announcements: newFakeAnnouncementRepo(),
		comments:      newFakeCommentRepo(),
		notifier:      &fakeNotifier{},
		engine:        auth.NewPermissionEngine(clubs, roles, members),
		logger:        zerolog.Nop(),
	}
}

// seedClub founds a club owned by ownerID and returns its ID.
func (f *fixture) seedClub(ownerID int64, name string) int64 {
	id, err := f.clubs.CreateWithOwner(context.Background(), &models.Club{Name: name, OwnerID: ownerID})
	if err != nil {
		panic(err)
	}
	return id
}

// openRecruitment marks the club as accepting applications. Clubs start
// closed, matching the schema default.
func (f *fixture) openRecruitment(clubID int64) {
	f.clubs.clubs[clubID].FormOpen = true
}

// addMember joins userID to the club with the reserved Member role.
func (f *fixture) addMember(clubID, userID int64) {
	f.members.put(&models.ClubMember{
		ClubID:   clubID,
		UserID:   userID,
		RoleName: models.RoleNameMember,
		Status:   models.MemberStatusActive,
		JoinedAt: time.Now(),
	})
}
