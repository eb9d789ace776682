package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/eren/clubsphere/internal/app/models"
	"github.com/eren/clubsphere/internal/pkg/apperrors"
	"github.com/eren/clubsphere/internal/pkg/dberrors"
)

// MemberRepository handles database operations for club memberships
type MemberRepository interface {
	GetMember(ctx context.Context, clubID, userID int64) (*models.ClubMember, error)
	GetMembersByClubID(ctx context.Context, clubID int64) ([]*models.ClubMember, error)
	// HasActiveMembership reports whether the user holds an active membership
	// in any club.
	HasActiveMembership(ctx context.Context, userID int64) (bool, error)
	GetActiveMembership(ctx context.Context, userID int64) (*models.ClubMember, error)
	UpdateStatus(ctx context.Context, clubID, userID int64, status models.MemberStatus) error
	UpdateRole(ctx context.Context, clubID, userID int64, roleName string) error
	UpdateOverrides(ctx context.Context, clubID, userID int64, perms []models.Permission) error
	Remove(ctx context.Context, clubID, userID int64) error
}

type memberRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *pgxpool.Pool) MemberRepository {
	return &memberRepositoryImpl{db: db}
}

var memberColumns = []string{"id", "club_id", "user_id", "role_name", "status", "extra_permissions", "joined_at"}

// GetMember retrieves a membership by club and user
func (r *memberRepositoryImpl) GetMember(ctx context.Context, clubID, userID int64) (*models.ClubMember, error) {
	query := squirrel.Select(memberColumns...).
		From("club_members").
		Where(squirrel.Eq{"club_id": clubID, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	member, err := scanMember(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, err
	}

	return member, nil
}

// GetMembersByClubID retrieves all memberships of a club
func (r *memberRepositoryImpl) GetMembersByClubID(ctx context.Context, clubID int64) ([]*models.ClubMember, error) {
	query := squirrel.Select(memberColumns...).
		From("club_members").
		Where(squirrel.Eq{"club_id": clubID}).
		OrderBy("joined_at ASC").
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

	var members []*models.ClubMember
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	return members, nil
}

// HasActiveMembership checks whether the user is an active member of any club
func (r *memberRepositoryImpl) HasActiveMembership(ctx context.Context, userID int64) (bool, error) {
	query := squirrel.Select("1").
		From("club_members").
		Where(squirrel.Eq{"user_id": userID, "status": models.MemberStatusActive}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var exists int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error executing query: %w", err)
	}

	return true, nil
}

// GetActiveMembership retrieves the user's active membership, if any
func (r *memberRepositoryImpl) GetActiveMembership(ctx context.Context, userID int64) (*models.ClubMember, error) {
	query := squirrel.Select(memberColumns...).
		From("club_members").
		Where(squirrel.Eq{"user_id": userID, "status": models.MemberStatusActive}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	member, err := scanMember(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, err
	}

	return member, nil
}

// UpdateStatus changes a member's status
func (r *memberRepositoryImpl) UpdateStatus(ctx context.Context, clubID, userID int64, status models.MemberStatus) error {
	return r.update(ctx, clubID, userID, squirrel.Update("club_members").Set("status", status))
}

// UpdateRole changes a member's role
func (r *memberRepositoryImpl) UpdateRole(ctx context.Context, clubID, userID int64, roleName string) error {
	return r.update(ctx, clubID, userID, squirrel.Update("club_members").Set("role_name", roleName))
}

// UpdateOverrides replaces a member's per-member permission overrides
func (r *memberRepositoryImpl) UpdateOverrides(ctx context.Context, clubID, userID int64, perms []models.Permission) error {
	return r.update(ctx, clubID, userID, squirrel.Update("club_members").Set("extra_permissions", models.Strings(perms)))
}

func (r *memberRepositoryImpl) update(ctx context.Context, clubID, userID int64, builder squirrel.UpdateBuilder) error {
	query := builder.
		Where(squirrel.Eq{"club_id": clubID, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		// Reinstating a suspended member trips the single-active-membership
		// index when the user joined another club in the meantime
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("User already holds an active membership in another club")
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrMemberNotFound
	}

	return nil
}

// Remove deletes a membership row
func (r *memberRepositoryImpl) Remove(ctx context.Context, clubID, userID int64) error {
	query := squirrel.Delete("club_members").
		Where(squirrel.Eq{"club_id": clubID, "user_id": userID}).
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
		return apperrors.ErrMemberNotFound
	}

	return nil
}

func scanMember(row pgx.Row) (*models.ClubMember, error) {
	var member models.ClubMember
	var extra []string
	err := row.Scan(
		&member.ID,
		&member.ClubID,
		&member.UserID,
		&member.RoleName,
		&member.Status,
		&extra,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, err
	}
	member.ExtraPermissions = models.FromStrings(extra)
	return &member, nil
}
