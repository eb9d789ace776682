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
)

// CommentRepository handles database operations for announcement comments
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	GetByAnnouncementID(ctx context.Context, announcementID int64) ([]*models.Comment, error)
	UpdateText(ctx context.Context, id int64, text string) error
	Delete(ctx context.Context, id int64) error
}

type commentRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) CommentRepository {
	return &commentRepositoryImpl{db: db}
}

var commentColumns = []string{"id", "announcement_id", "user_id", "parent_comment_id", "text", "created_at", "updated_at"}

// Create inserts a comment or reply
func (r *commentRepositoryImpl) Create(ctx context.Context, comment *models.Comment) (int64, error) {
	query := squirrel.Insert("comments").
		Columns("announcement_id", "user_id", "parent_comment_id", "text").
		Values(comment.AnnouncementID, comment.UserID, comment.ParentCommentID, comment.Text).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&comment.ID, &comment.CreatedAt); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return comment.ID, nil
}

// GetByID retrieves a comment by ID
func (r *commentRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := squirrel.Select(commentColumns...).
		From("comments").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	comment, err := scanComment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, err
	}

	return comment, nil
}

// GetByAnnouncementID retrieves an announcement's comments in posting order
func (r *commentRepositoryImpl) GetByAnnouncementID(ctx context.Context, announcementID int64) ([]*models.Comment, error) {
	query := squirrel.Select(commentColumns...).
		From("comments").
		Where(squirrel.Eq{"announcement_id": announcementID}).
		OrderBy("created_at ASC").
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

	var comments []*models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	return comments, nil
}

// UpdateText replaces a comment's text
func (r *commentRepositoryImpl) UpdateText(ctx context.Context, id int64, text string) error {
	query := squirrel.Update("comments").
		Set("text", text).
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
		return apperrors.ErrCommentNotFound
	}

	return nil
}

// Delete removes a comment; replies cascade at the schema level
func (r *commentRepositoryImpl) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("comments").
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
		return apperrors.ErrCommentNotFound
	}

	return nil
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var comment models.Comment
	err := row.Scan(
		&comment.ID,
		&comment.AnnouncementID,
		&comment.UserID,
		&comment.ParentCommentID,
		&comment.Text,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
