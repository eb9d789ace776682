package repositories

import (
	"context"
	"encoding/json"
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

// ClubRepository handles database operations for clubs
type ClubRepository interface {
	// CreateWithOwner creates the club, its reserved roles and the owner's
	// membership in one transaction. Returns a conflict if the owner already
	// owns a club or holds an active membership anywhere.
	CreateWithOwner(ctx context.Context, club *models.Club) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Club, error)
	GetByOwnerID(ctx context.Context, ownerID int64) (*models.Club, error)
	GetAll(ctx context.Context, category string, offset uint64, limit int) ([]*models.Club, int64, error)
	Update(ctx context.Context, club *models.Club) error
	UpdateForm(ctx context.Context, clubID int64, enabled, open bool, questions []models.FormQuestionSpec) error
	Delete(ctx context.Context, id int64) error
}

type clubRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewClubRepository creates a new ClubRepository
func NewClubRepository(db *pgxpool.Pool) ClubRepository {
	return &clubRepositoryImpl{db: db}
}

var clubColumns = []string{
	"c.id", "c.name", "c.description", "c.category", "c.tags", "c.owner_id",
	"c.form_enabled", "c.form_open", "c.form_questions", "c.created_at", "c.updated_at",
	"(SELECT COUNT(*) FROM club_members m WHERE m.club_id = c.id AND m.status = 'active') AS member_count",
}

// CreateWithOwner creates a club together with its reserved roles and the
// owner's president membership.
func (r *clubRepositoryImpl) CreateWithOwner(ctx context.Context, club *models.Club) (int64, error) {
	questions, err := json.Marshal(club.FormQuestions)
	if err != nil {
		return 0, fmt.Errorf("error marshalling form questions: %w", err)
	}

	var clubID int64
	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		insertClub := squirrel.Insert("clubs").
			Columns("name", "description", "category", "tags", "owner_id", "form_enabled", "form_open", "form_questions").
			Values(club.Name, club.Description, club.Category, club.Tags, club.OwnerID, club.FormEnabled, club.FormOpen, questions).
			Suffix("RETURNING id").
			PlaceholderFormat(squirrel.Dollar)

		sql, args, err := insertClub.ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&clubID); err != nil {
			if dberrors.IsDuplicateConstraintError(err, "clubs_name_key") {
				return apperrors.NewConflictError("A club with this name already exists")
			}
			if dberrors.IsDuplicateConstraintError(err, "clubs_owner_id_key") {
				return apperrors.NewConflictError("User already owns a club")
			}
			return fmt.Errorf("error inserting club: %w", err)
		}

		insertRoles := squirrel.Insert("club_roles").
			Columns("club_id", "name", "permissions").
			Values(clubID, models.RoleNamePresident, models.Strings(models.AllPermissions)).
			Values(clubID, models.RoleNameMember, models.Strings(models.DefaultMemberPermissions)).
			PlaceholderFormat(squirrel.Dollar)

		sql, args, err = insertRoles.ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error inserting reserved roles: %w", err)
		}

		insertMember := squirrel.Insert("club_members").
			Columns("club_id", "user_id", "role_name", "status").
			Values(clubID, club.OwnerID, models.RoleNamePresident, models.MemberStatusActive).
			PlaceholderFormat(squirrel.Dollar)

		sql, args, err = insertMember.ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.NewConflictError("User already holds an active membership in another club")
			}
			return fmt.Errorf("error inserting owner membership: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return clubID, nil
}

// GetByID retrieves a club by ID
func (r *clubRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.Club, error) {
	return r.getOne(ctx, squirrel.Eq{"c.id": id})
}

// GetByOwnerID retrieves the club owned by a user, if any
func (r *clubRepositoryImpl) GetByOwnerID(ctx context.Context, ownerID int64) (*models.Club, error) {
	return r.getOne(ctx, squirrel.Eq{"c.owner_id": ownerID})
}

func (r *clubRepositoryImpl) getOne(ctx context.Context, pred interface{}) (*models.Club, error) {
	query := squirrel.Select(clubColumns...).
		From("clubs c").
		Where(pred).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	club, err := scanClub(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClubNotFound
		}
		return nil, err
	}

	return club, nil
}

// GetAll retrieves clubs with optional category filtering and pagination
func (r *clubRepositoryImpl) GetAll(ctx context.Context, category string, offset uint64, limit int) ([]*models.Club, int64, error) {
	query := squirrel.Select(clubColumns...).
		From("clubs c").
		OrderBy("c.created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	countQuery := squirrel.Select("COUNT(*)").From("clubs c").PlaceholderFormat(squirrel.Dollar)

	if category != "" {
		query = query.Where(squirrel.Eq{"c.category": category})
		countQuery = countQuery.Where(squirrel.Eq{"c.category": category})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var clubs []*models.Club
	for rows.Next() {
		club, err := scanClub(rows)
		if err != nil {
			return nil, 0, err
		}
		clubs = append(clubs, club)
	}

	sql, args, err = countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting clubs: %w", err)
	}

	return clubs, total, nil
}

// Update updates a club's descriptive fields
func (r *clubRepositoryImpl) Update(ctx context.Context, club *models.Club) error {
	query := squirrel.Update("clubs").
		Set("name", club.Name).
		Set("description", club.Description).
		Set("category", club.Category).
		Set("tags", club.Tags).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": club.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "clubs_name_key") {
			return apperrors.NewConflictError("A club with this name already exists")
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrClubNotFound
	}

	return nil
}

// UpdateForm replaces a club's application form configuration
func (r *clubRepositoryImpl) UpdateForm(ctx context.Context, clubID int64, enabled, open bool, questions []models.FormQuestionSpec) error {
	payload, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("error marshalling form questions: %w", err)
	}

	query := squirrel.Update("clubs").
		Set("form_enabled", enabled).
		Set("form_open", open).
		Set("form_questions", payload).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": clubID}).
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
		return apperrors.ErrClubNotFound
	}

	return nil
}

// Delete removes a club. Memberships, roles, applications, invitations, trips
// and announcements cascade at the schema level.
func (r *clubRepositoryImpl) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("clubs").
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
		return apperrors.ErrClubNotFound
	}

	return nil
}

// scanClub scans one club row including the member count aggregate.
func scanClub(row pgx.Row) (*models.Club, error) {
	var club models.Club
	var questions []byte
	err := row.Scan(
		&club.ID,
		&club.Name,
		&club.Description,
		&club.Category,
		&club.Tags,
		&club.OwnerID,
		&club.FormEnabled,
		&club.FormOpen,
		&questions,
		&club.CreatedAt,
		&club.UpdatedAt,
		&club.MemberCount,
	)
	if err != nil {
		return nil, err
	}

	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &club.FormQuestions); err != nil {
			return nil, fmt.Errorf("error unmarshalling form questions: %w", err)
		}
	}

	return &club, nil
}
