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

// UserRepository handles database operations for users
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
	Delete(ctx context.Context, id int64) error
}

type userRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepositoryImpl{db: db}
}

// Create inserts a new user
func (r *userRepositoryImpl) Create(ctx context.Context, user *models.User) (int64, error) {
	query := squirrel.Insert("users").
		Columns("username", "email", "password_hash", "is_admin").
		Values(user.Username, user.Email, user.PasswordHash, user.IsAdmin).
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
			return 0, apperrors.NewConflictError("Username or email already exists")
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// FindByID retrieves a user by ID
func (r *userRepositoryImpl) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByUsername retrieves a user by username
func (r *userRepositoryImpl) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, squirrel.Eq{"username": username})
}

func (r *userRepositoryImpl) findOne(ctx context.Context, pred interface{}) (*models.User, error) {
	query := squirrel.Select("id", "username", "email", "password_hash", "is_admin", "created_at").
		From("users").
		Where(pred).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var user models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &user, nil
}

// SetAdmin updates a user's admin flag
func (r *userRepositoryImpl) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	query := squirrel.Update("users").
		Set("is_admin", isAdmin).
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
		return apperrors.ErrUserNotFound
	}

	return nil
}

// Delete removes a user
func (r *userRepositoryImpl) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("users").
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
		return apperrors.ErrUserNotFound
	}

	return nil
}
