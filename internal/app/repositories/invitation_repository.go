package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/eren/clubsphere/internal/app/models"
	"github.com/eren/clubsphere/internal/db"
	"github.com/eren/clubsphere/internal/pkg/apperrors"
	"github.com/eren/clubsphere/internal/pkg/dberrors"
)

// InvitationRepository handles database operations for club invitations
type InvitationRepository interface {
	Create(ctx context.Context, invitation *models.ClubInvitation) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ClubInvitation, error)
	GetByCode(ctx context.Context, code string) (*models.ClubInvitation, error)
	GetByClubID(ctx context.Context, clubID int64) ([]*models.ClubInvitation, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.ClubInvitation, error)
	UpdateStatus(ctx context.Context, id int64, status models.InvitationStatus) error
	// Accept marks the invitation accepted and creates the membership in one
	// transaction. A membership-exclusivity violation rolls both back and
	// surfaces as a conflict.
	Accept(ctx context.Context, id int64, member *models.ClubMember) error
}

type invitationRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *pgxpool.Pool) InvitationRepository {
	return &invitationRepositoryImpl{db: db}
}

var invitationColumns = []string{"id", "code", "club_id", "user_id", "issued_by", "status", "created_at", "updated_at"}

// Create inserts a pending invitation
func (r *invitationRepositoryImpl) Create(ctx context.Context, invitation *models.ClubInvitation) (int64, error) {
	query := squirrel.Insert("club_invitations").
		Columns("code", "club_id", "user_id", "issued_by", "status").
		Values(invitation.Code, invitation.ClubID, invitation.UserID, invitation.IssuedBy, models.InvitationPending).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "club_invitations_pending_idx") {
			return 0, apperrors.NewConflictError("A pending invitation for this user already exists")
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// GetByID retrieves an invitation by ID
func (r *invitationRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.ClubInvitation, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByCode retrieves an invitation by its opaque code
func (r *invitationRepositoryImpl) GetByCode(ctx context.Context, code string) (*models.ClubInvitation, error) {
	return r.getOne(ctx, squirrel.Eq{"code": code})
}

func (r *invitationRepositoryImpl) getOne(ctx context.Context, pred interface{}) (*models.ClubInvitation, error) {
	query := squirrel.Select(invitationColumns...).
		From("club_invitations").
		Where(pred).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	invitation, err := scanInvitation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvitationNotFound
		}
		return nil, err
	}

	return invitation, nil
}

// GetByClubID retrieves all invitations issued by a club, newest first
func (r *invitationRepositoryImpl) GetByClubID(ctx context.Context, clubID int64) ([]*models.ClubInvitation, error) {
	return r.getAll(ctx, squirrel.Eq{"club_id": clubID})
}

// GetByUserID retrieves all invitations addressed to a user, newest first
func (r *invitationRepositoryImpl) GetByUserID(ctx context.Context, userID int64) ([]*models.ClubInvitation, error) {
	return r.getAll(ctx, squirrel.Eq{"user_id": userID})
}

func (r *invitationRepositoryImpl) getAll(ctx context.Context, pred interface{}) ([]*models.ClubInvitation, error) {
	query := squirrel.Select(invitationColumns...).
		From("club_invitations").
		Where(pred).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var invitations []*models.ClubInvitation
	for rows.Next() {
		invitation, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, invitation)
	}

	return invitations, nil
}

// UpdateStatus changes an invitation's status
func (r *invitationRepositoryImpl) UpdateStatus(ctx context.Context, id int64, status models.InvitationStatus) error {
	query := squirrel.Update("club_invitations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrInvitationNotFound
	}

	return nil
}

// Accept performs the acceptance and membership creation as one unit.
func (r *invitationRepositoryImpl) Accept(ctx context.Context, id int64, member *models.ClubMember) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		update := squirrel.Update("club_invitations").
			Set("status", models.InvitationAccepted).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			PlaceholderFormat(squirrel.Dollar)

		sql, args, err := update.ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}
		result, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error updating invitation: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrInvitationNotFound
		}

		insert := squirrel.Insert("club_members").
			Columns("club_id", "user_id", "role_name", "status").
			Values(member.ClubID, member.UserID, member.RoleName, models.MemberStatusActive).
			PlaceholderFormat(squirrel.Dollar)

		sql, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.NewConflictError("Invitee already holds an active club membership")
			}
			return fmt.Errorf("error creating membership: %w", err)
		}

		return nil
	})
}

func scanInvitation(row pgx.Row) (*models.ClubInvitation, error) {
	var invitation models.ClubInvitation
	err := row.Scan(
		&invitation.ID,
		&invitation.Code,
		&invitation.ClubID,
		&invitation.UserID,
		&invitation.IssuedBy,
		&invitation.Status,
		&invitation.CreatedAt,
		&invitation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}
