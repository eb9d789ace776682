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

// ApplicationRepository handles database operations for club applications
type ApplicationRepository interface {
	// Create inserts a pending application. The one-in-flight-per-club rule is
	// enforced by a partial unique index; a violation surfaces as a conflict.
	Create(ctx context.Context, application *models.ClubApplication) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ClubApplication, error)
	GetByClubID(ctx context.Context, clubID int64) ([]*models.ClubApplication, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.ClubApplication, error)
	UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error
	SetInterview(ctx context.Context, id int64, interview *models.Interview, status models.ApplicationStatus) error
	Delete(ctx context.Context, id int64) error
	// Approve flips the application to approved and creates the membership in
	// one transaction. A membership-exclusivity violation rolls both back and
	// surfaces as a conflict.
	Approve(ctx context.Context, id int64, member *models.ClubMember) error
}

type applicationRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) ApplicationRepository {
	return &applicationRepositoryImpl{db: db}
}

var applicationColumns = []string{"id", "club_id", "user_id", "status", "message", "answers", "interview", "created_at", "updated_at"}

// Create inserts a new pending application
func (r *applicationRepositoryImpl) Create(ctx context.Context, application *models.ClubApplication) (int64, error) {
	answers, err := json.Marshal(application.Answers)
	if err != nil {
		return 0, fmt.Errorf("error marshalling answers: %w", err)
	}

	query := squirrel.Insert("club_applications").
		Columns("club_id", "user_id", "status", "message", "answers").
		Values(application.ClubID, application.UserID, models.ApplicationPending, application.Message, answers).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "club_applications_open_idx") {
			return 0, apperrors.NewConflictError("An application for this club is already in progress")
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// GetByID retrieves an application by ID
func (r *applicationRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.ClubApplication, error) {
	query := squirrel.Select(applicationColumns...).
		From("club_applications").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	application, err := scanApplication(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, err
	}

	return application, nil
}

// GetByClubID retrieves all applications for a club, newest first
func (r *applicationRepositoryImpl) GetByClubID(ctx context.Context, clubID int64) ([]*models.ClubApplication, error) {
	return r.getAll(ctx, squirrel.Eq{"club_id": clubID})
}

// GetByUserID retrieves all applications of a user, newest first
func (r *applicationRepositoryImpl) GetByUserID(ctx context.Context, userID int64) ([]*models.ClubApplication, error) {
	return r.getAll(ctx, squirrel.Eq{"user_id": userID})
}

func (r *applicationRepositoryImpl) getAll(ctx context.Context, pred interface{}) ([]*models.ClubApplication, error) {
	query := squirrel.Select(applicationColumns...).
		From("club_applications").
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

	var applications []*models.ClubApplication
	for rows.Next() {
		application, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, application)
	}

	return applications, nil
}

// UpdateStatus changes an application's status
func (r *applicationRepositoryImpl) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	query := squirrel.Update("club_applications").
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
		return apperrors.ErrApplicationNotFound
	}

	return nil
}

// SetInterview stores the interview record and moves the application to the
// given status in one statement.
func (r *applicationRepositoryImpl) SetInterview(ctx context.Context, id int64, interview *models.Interview, status models.ApplicationStatus) error {
	payload, err := json.Marshal(interview)
	if err != nil {
		return fmt.Errorf("error marshalling interview: %w", err)
	}

	query := squirrel.Update("club_applications").
		Set("interview", payload).
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
		return apperrors.ErrApplicationNotFound
	}

	return nil
}

// Delete removes an application (withdrawal)
func (r *applicationRepositoryImpl) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("club_applications").
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
		return apperrors.ErrApplicationNotFound
	}

	return nil
}

// Approve performs the approval and membership creation as one unit.
func (r *applicationRepositoryImpl) Approve(ctx context.Context, id int64, member *models.ClubMember) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		update := squirrel.Update("club_applications").
			Set("status", models.ApplicationApproved).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			PlaceholderFormat(squirrel.Dollar)

		sql, args, err := update.ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}
		result, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error updating application: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrApplicationNotFound
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
				return apperrors.NewConflictError("Applicant already holds an active club membership")
			}
			return fmt.Errorf("error creating membership: %w", err)
		}

		return nil
	})
}

func scanApplication(row pgx.Row) (*models.ClubApplication, error) {
	var application models.ClubApplication
	var answers, interview []byte
	err := row.Scan(
		&application.ID,
		&application.ClubID,
		&application.UserID,
		&application.Status,
		&application.Message,
		&answers,
		&interview,
		&application.CreatedAt,
		&application.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &application.Answers); err != nil {
			return nil, fmt.Errorf("error unmarshalling answers: %w", err)
		}
	}
	if len(interview) > 0 {
		if err := json.Unmarshal(interview, &application.Interview); err != nil {
			return nil, fmt.Errorf("error unmarshalling interview: %w", err)
		}
	}

	return &application, nil
}
