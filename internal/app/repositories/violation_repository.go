package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/eren/clubsphere/internal/app/models"
)

// ViolationRepository handles database operations for member violation records
type ViolationRepository interface {
	Create(ctx context.Context, violation *models.Violation) (int64, error)
	GetByClubID(ctx context.Context, clubID int64) ([]*models.Violation, error)
}

type violationRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewViolationRepository creates a new ViolationRepository
func NewViolationRepository(db *pgxpool.Pool) ViolationRepository {
	return &violationRepositoryImpl{db: db}
}

// Create inserts a violation record
func (r *violationRepositoryImpl) Create(ctx context.Context, violation *models.Violation) (int64, error) {
	query := squirrel.Insert("violations").
		Columns("club_id", "user_id", "reason", "issued_by").
		Values(violation.ClubID, violation.UserID, violation.Reason, violation.IssuedBy).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// GetByClubID retrieves a club's violation records, newest first
func (r *violationRepositoryImpl) GetByClubID(ctx context.Context, clubID int64) ([]*models.Violation, error) {
	query := squirrel.Select("id", "club_id", "user_id", "reason", "issued_by", "created_at").
		From("violations").
		Where(squirrel.Eq{"club_id": clubID}).
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

	var violations []*models.Violation
	for rows.Next() {
		var v models.Violation
		if err := rows.Scan(&v.ID, &v.ClubID, &v.UserID, &v.Reason, &v.IssuedBy, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		violations = append(violations, &v)
	}

	return violations, nil
}
