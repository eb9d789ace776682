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

// AnnouncementRepository handles database operations for announcements, polls
// and forms
type AnnouncementRepository interface {
	// Create inserts the announcement together with its poll options or form
	// questions in one transaction.
	Create(ctx context.Context, announcement *models.ClubAnnouncement) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ClubAnnouncement, error)
	GetByClubID(ctx context.Context, clubID int64) ([]*models.ClubAnnouncement, error)
	SetPinned(ctx context.Context, id int64, pinned bool) error
	SetOpen(ctx context.Context, id int64, open bool) error
	Delete(ctx context.Context, id int64) error

	// CastVote records a vote. With allowMultiple false the vote is inserted
	// only if the user has not voted on the announcement yet; a losing race or
	// repeat vote surfaces as a conflict.
	CastVote(ctx context.Context, announcementID, optionID, userID int64, allowMultiple bool) error
	GetVotes(ctx context.Context, announcementID int64) ([]*models.PollVote, error)
	HasVoted(ctx context.Context, announcementID, userID int64) (bool, error)

	// CreateResponse records a form submission; one per user per form.
	CreateResponse(ctx context.Context, response *models.FormResponse) (int64, error)
	GetResponses(ctx context.Context, announcementID int64) ([]*models.FormResponse, error)
	HasResponded(ctx context.Context, announcementID, userID int64) (bool, error)
}

type announcementRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(db *pgxpool.Pool) AnnouncementRepository {
	return &announcementRepositoryImpl{db: db}
}

var announcementColumns = []string{
	"id", "club_id", "title", "content", "type", "pinned", "created_by",
	"allow_multiple", "is_anonymous", "is_open", "closes_at", "created_at", "updated_at",
}

// Create inserts the announcement with its options or questions.
func (r *announcementRepositoryImpl) Create(ctx context.Context, announcement *models.ClubAnnouncement) (int64, error) {
	var id int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		insert := squirrel.Insert("announcements").
			Columns("club_id", "title", "content", "type", "created_by", "allow_multiple", "is_anonymous", "is_open", "closes_at").
			Values(announcement.ClubID, announcement.Title, announcement.Content, announcement.Type, announcement.CreatedBy,
				announcement.AllowMultiple, announcement.IsAnonymous, announcement.IsOpen, announcement.ClosesAt).
			Suffix("RETURNING id").
			PlaceholderFormat(squirrel.Dollar)

		sql, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			return fmt.Errorf("error inserting announcement: %w", err)
		}

		if len(announcement.Options) > 0 {
			insertOptions := squirrel.Insert("poll_options").
				Columns("announcement_id", "idx", "text").
				PlaceholderFormat(squirrel.Dollar)
			for _, option := range announcement.Options {
				insertOptions = insertOptions.Values(id, option.Index, option.Text)
			}

			sql, args, err = insertOptions.ToSql()
			if err != nil {
				return fmt.Errorf("error building SQL: %w", err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return fmt.Errorf("error inserting poll options: %w", err)
			}
		}

		if len(announcement.Questions) > 0 {
			insertQuestions := squirrel.Insert("form_questions").
				Columns("announcement_id", "idx", "text", "required").
				PlaceholderFormat(squirrel.Dollar)
			for _, question := range announcement.Questions {
				insertQuestions = insertQuestions.Values(id, question.Index, question.Text, question.Required)
			}

			sql, args, err = insertQuestions.ToSql()
			if err != nil {
				return fmt.Errorf("error building SQL: %w", err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return fmt.Errorf("error inserting form questions: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetByID retrieves an announcement including its options or questions
func (r *announcementRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.ClubAnnouncement, error) {
	query := squirrel.Select(announcementColumns...).
		From("announcements").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	announcement, err := scanAnnouncement(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAnnouncementNotFound
		}
		return nil, err
	}

	switch announcement.Type {
	case models.AnnouncementPoll:
		if announcement.Options, err = r.getOptions(ctx, id); err != nil {
			return nil, err
		}
	case models.AnnouncementForm:
		if announcement.Questions, err = r.getQuestions(ctx, id); err != nil {
			return nil, err
		}
	}

	return announcement, nil
}

// GetByClubID retrieves a club's announcements, pinned first, then newest first
func (r *announcementRepositoryImpl) GetByClubID(ctx context.Context, clubID int64) ([]*models.ClubAnnouncement, error) {
	query := squirrel.Select(announcementColumns...).
		From("announcements").
		Where(squirrel.Eq{"club_id": clubID}).
		OrderBy("pinned DESC", "created_at DESC").
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

	var announcements []*models.ClubAnnouncement
	for rows.Next() {
		announcement, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, announcement)
	}

	return announcements, nil
}

func (r *announcementRepositoryImpl) getOptions(ctx context.Context, announcementID int64) ([]models.PollOption, error) {
	query := squirrel.Select("o.id", "o.announcement_id", "o.idx", "o.text",
		"(SELECT COUNT(*) FROM poll_votes v WHERE v.option_id = o.id) AS vote_count").
		From("poll_options o").
		Where(squirrel.Eq{"o.announcement_id": announcementID}).
		OrderBy("o.idx ASC").
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

	var options []models.PollOption
	for rows.Next() {
		var o models.PollOption
		if err := rows.Scan(&o.ID, &o.AnnouncementID, &o.Index, &o.Text, &o.VoteCount); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		options = append(options, o)
	}

	return options, nil
}

func (r *announcementRepositoryImpl) getQuestions(ctx context.Context, announcementID int64) ([]models.FormQuestion, error) {
	query := squirrel.Select("id", "announcement_id", "idx", "text", "required").
		From("form_questions").
		Where(squirrel.Eq{"announcement_id": announcementID}).
		OrderBy("idx ASC").
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

	var questions []models.FormQuestion
	for rows.Next() {
		var q models.FormQuestion
		if err := rows.Scan(&q.ID, &q.AnnouncementID, &q.Index, &q.Text, &q.Required); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		questions = append(questions, q)
	}

	return questions, nil
}

// SetPinned pins or unpins an announcement
func (r *announcementRepositoryImpl) SetPinned(ctx context.Context, id int64, pinned bool) error {
	return r.setFlag(ctx, id, "pinned", pinned)
}

// SetOpen opens or closes an interactive announcement
func (r *announcementRepositoryImpl) SetOpen(ctx context.Context, id int64, open bool) error {
	return r.setFlag(ctx, id, "is_open", open)
}

func (r *announcementRepositoryImpl) setFlag(ctx context.Context, id int64, column string, value bool) error {
	query := squirrel.Update("announcements").
		Set(column, value).
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
		return apperrors.ErrAnnouncementNotFound
	}

	return nil
}

// Delete removes an announcement; options, votes, questions, responses and
// comments cascade at the schema level.
func (r *announcementRepositoryImpl) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("announcements").
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
		return apperrors.ErrAnnouncementNotFound
	}

	return nil
}

// CastVote records a vote under a row lock on the announcement, so concurrent
// votes by the same user serialize and the single-vote rule holds even across
// different options.
func (r *announcementRepositoryImpl) CastVote(ctx context.Context, announcementID, optionID, userID int64, allowMultiple bool) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var lockedID int64
		err := tx.QueryRow(ctx, `SELECT id FROM announcements WHERE id = $1 FOR UPDATE`, announcementID).Scan(&lockedID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrAnnouncementNotFound
			}
			return fmt.Errorf("error locking announcement: %w", err)
		}

		sql := `INSERT INTO poll_votes (announcement_id, option_id, user_id)
			SELECT $1, $2, $3
			WHERE $4 OR NOT EXISTS (
				SELECT 1 FROM poll_votes WHERE announcement_id = $1 AND user_id = $3
			)`

		result, err := tx.Exec(ctx, sql, announcementID, optionID, userID, allowMultiple)
		if err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.NewConflictError("User has already voted on this poll")
			}
			return fmt.Errorf("error executing query: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.NewConflictError("User has already voted on this poll")
		}

		return nil
	})
}

// GetVotes retrieves all votes of a poll announcement
func (r *announcementRepositoryImpl) GetVotes(ctx context.Context, announcementID int64) ([]*models.PollVote, error) {
	query := squirrel.Select("id", "announcement_id", "option_id", "user_id", "created_at").
		From("poll_votes").
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

	var votes []*models.PollVote
	for rows.Next() {
		var v models.PollVote
		if err := rows.Scan(&v.ID, &v.AnnouncementID, &v.OptionID, &v.UserID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		votes = append(votes, &v)
	}

	return votes, nil
}

// HasVoted reports whether the user has voted on the announcement
func (r *announcementRepositoryImpl) HasVoted(ctx context.Context, announcementID, userID int64) (bool, error) {
	return r.exists(ctx, "poll_votes", announcementID, userID)
}

// CreateResponse inserts a form submission
func (r *announcementRepositoryImpl) CreateResponse(ctx context.Context, response *models.FormResponse) (int64, error) {
	answers, err := json.Marshal(response.Answers)
	if err != nil {
		return 0, fmt.Errorf("error marshalling answers: %w", err)
	}

	query := squirrel.Insert("form_responses").
		Columns("announcement_id", "user_id", "answers").
		Values(response.AnnouncementID, response.UserID, answers).
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
			return 0, apperrors.NewConflictError("User has already responded to this form")
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// GetResponses retrieves all submissions to a form announcement
func (r *announcementRepositoryImpl) GetResponses(ctx context.Context, announcementID int64) ([]*models.FormResponse, error) {
	query := squirrel.Select("id", "announcement_id", "user_id", "answers", "created_at").
		From("form_responses").
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

	var responses []*models.FormResponse
	for rows.Next() {
		var response models.FormResponse
		var answers []byte
		if err := rows.Scan(&response.ID, &response.AnnouncementID, &response.UserID, &answers, &response.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		if len(answers) > 0 {
			if err := json.Unmarshal(answers, &response.Answers); err != nil {
				return nil, fmt.Errorf("error unmarshalling answers: %w", err)
			}
		}
		responses = append(responses, &response)
	}

	return responses, nil
}

// HasResponded reports whether the user has submitted the form
func (r *announcementRepositoryImpl) HasResponded(ctx context.Context, announcementID, userID int64) (bool, error) {
	return r.exists(ctx, "form_responses", announcementID, userID)
}

func (r *announcementRepositoryImpl) exists(ctx context.Context, table string, announcementID, userID int64) (bool, error) {
	query := squirrel.Select("1").
		From(table).
		Where(squirrel.Eq{"announcement_id": announcementID, "user_id": userID}).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var found int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error executing query: %w", err)
	}

	return true, nil
}

func scanAnnouncement(row pgx.Row) (*models.ClubAnnouncement, error) {
	var announcement models.ClubAnnouncement
	err := row.Scan(
		&announcement.ID,
		&announcement.ClubID,
		&announcement.Title,
		&announcement.Content,
		&announcement.Type,
		&announcement.Pinned,
		&announcement.CreatedBy,
		&announcement.AllowMultiple,
		&announcement.IsAnonymous,
		&announcement.IsOpen,
		&announcement.ClosesAt,
		&announcement.CreatedAt,
		&announcement.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &announcement, nil
}
