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

// RoleRepository handles database operations for club roles
type RoleRepository interface {
	Create(ctx context.Context, role *models.ClubRole) (int64, error)
	GetByName(ctx context.Context, clubID int64, name string) (*models.ClubRole, error)
	GetByClubID(ctx context.Context, clubID int64) ([]*models.ClubRole, error)
	Update(ctx context.Context, role *models.ClubRole) error
	Delete(ctx context.Context, clubID int64, name string) error
	CountActiveHolders(ctx context.Context, clubID int64, name string) (int, error)
}

type roleRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *pgxpool.Pool) RoleRepository {
	return &roleRepositoryImpl{db: db}
}

// Create inserts a new role
func (r *roleRepositoryImpl) Create(ctx context.Context, role *models.ClubRole) (int64, error) {
	query := squirrel.Insert("club_roles").
		Columns("club_id", "name", "permissions", "color").
		Values(role.ClubID, role.Name, models.Strings(role.Permissions), role.Color).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.NewConflictError("A role with this name already exists in the club")
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// GetByName retrieves a role by club and name (case-sensitive)
func (r *roleRepositoryImpl) GetByName(ctx context.Context, clubID int64, name string) (*models.ClubRole, error) {
	query := squirrel.Select("id", "club_id", "name", "permissions", "color", "created_at").
		From("club_roles").
		Where(squirrel.Eq{"club_id": clubID, "name": name}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	role, err := scanRole(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRoleNotFound
		}
		return nil, err
	}

	return role, nil
}

// GetByClubID retrieves all roles of a club in creation order
func (r *roleRepositoryImpl) GetByClubID(ctx context.Context, clubID int64) ([]*models.ClubRole, error) {
	query := squirrel.Select("id", "club_id", "name", "permissions", "color", "created_at").
		From("club_roles").
		Where(squirrel.Eq{"club_id": clubID}).
		OrderBy("id ASC").
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

	var roles []*models.ClubRole
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	return roles, nil
}

// Update replaces a role's permission set and color
func (r *roleRepositoryImpl) Update(ctx context.Context, role *models.ClubRole) error {
	query := squirrel.Update("club_roles").
		Set("permissions", models.Strings(role.Permissions)).
		Set("color", role.Color).
		Where(squirrel.Eq{"club_id": role.ClubID, "name": role.Name}).
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
		return apperrors.ErrRoleNotFound
	}

	return nil
}

// Delete removes a role by club and name
func (r *roleRepositoryImpl) Delete(ctx context.Context, clubID int64, name string) error {
	query := squirrel.Delete("club_roles").
		Where(squirrel.Eq{"club_id": clubID, "name": name}).
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
		return apperrors.ErrRoleNotFound
	}

	return nil
}

// CountActiveHolders counts active members currently assigned the role
func (r *roleRepositoryImpl) CountActiveHolders(ctx context.Context, clubID int64, name string) (int, error) {
	query := squirrel.Select("COUNT(*)").
		From("club_members").
		Where(squirrel.Eq{"club_id": clubID, "role_name": name, "status": models.MemberStatusActive}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return count, nil
}

func scanRole(row pgx.Row) (*models.ClubRole, error) {
	var role models.ClubRole
	var perms []string
	err := row.Scan(
		&role.ID,
		&role.ClubID,
		&role.Name,
		&perms,
		&role.Color,
		&role.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	role.Permissions = models.FromStrings(perms)
	return &role, nil
}
