package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         UserRepository
	ClubRepository         ClubRepository
	RoleRepository         RoleRepository
	MemberRepository       MemberRepository
	ViolationRepository    ViolationRepository
	ApplicationRepository  ApplicationRepository
	InvitationRepository   InvitationRepository
	TripRepository         TripRepository
	AnnouncementRepository AnnouncementRepository
	CommentRepository      CommentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		ClubRepository:         NewClubRepository(db),
		RoleRepository:         NewRoleRepository(db),
		MemberRepository:       NewMemberRepository(db),
		ViolationRepository:    NewViolationRepository(db),
		ApplicationRepository:  NewApplicationRepository(db),
		InvitationRepository:   NewInvitationRepository(db),
		TripRepository:         NewTripRepository(db),
		AnnouncementRepository: NewAnnouncementRepository(db),
		CommentRepository:      NewCommentRepository(db),
	}
}
