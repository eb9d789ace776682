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

// TripRepository handles database operations for club trips
type TripRepository interface {
	Create(ctx context.Context, trip *models.ClubTrip) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ClubTrip, error)
	GetByClubID(ctx context.Context, clubID int64) ([]*models.ClubTrip, error)
	Update(ctx context.Context, trip *models.ClubTrip) error
	UpdateStatus(ctx context.Context, id int64, status models.TripStatus) error
	Delete(ctx context.Context, id int64) error
	// AddParticipant signs a user up, enforcing the capacity limit under a row
	// lock on the trip. Returns a conflict when the trip is full or the user is
	// already signed up.
	AddParticipant(ctx context.Context, tripID, userID int64, capacity int) error
	RemoveParticipant(ctx context.Context, tripID, userID int64) error
	SetAttendance(ctx context.Context, tripID, userID int64, attended bool) error
	GetParticipants(ctx context.Context, tripID int64) ([]*models.TripParticipant, error)
	CountParticipants(ctx context.Context, tripID int64) (int, error)
}

type tripRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db *pgxpool.Pool) TripRepository {
	return &tripRepositoryImpl{db: db}
}

var tripColumns = []string{"id", "club_id", "title", "destination", "start_at", "end_at", "capacity", "status", "created_by", "created_at", "updated_at"}

// Create inserts a new planned trip
func (r *tripRepositoryImpl) Create(ctx context.Context, trip *models.ClubTrip) (int64, error) {
	query := squirrel.Insert("club_trips").
		Columns("club_id", "title", "destination", "start_at", "end_at", "capacity", "status", "created_by").
		Values(trip.ClubID, trip.Title, trip.Destination, trip.StartAt, trip.EndAt, trip.Capacity, models.TripPlanned, trip.CreatedBy).
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

// GetByID retrieves a trip by ID
func (r *tripRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.ClubTrip, error) {
	query := squirrel.Select(tripColumns...).
		From("club_trips").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	trip, err := scanTrip(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, err
	}

	return trip, nil
}

// GetByClubID retrieves all trips of a club, soonest start first
func (r *tripRepositoryImpl) GetByClubID(ctx context.Context, clubID int64) ([]*models.ClubTrip, error) {
	query := squirrel.Select(tripColumns...).
		From("club_trips").
		Where(squirrel.Eq{"club_id": clubID}).
		OrderBy("start_at ASC").
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

	var trips []*models.ClubTrip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, nil
}

// Update updates a trip's descriptive fields and capacity
func (r *tripRepositoryImpl) Update(ctx context.Context, trip *models.ClubTrip) error {
	query := squirrel.Update("club_trips").
		Set("title", trip.Title).
		Set("destination", trip.Destination).
		Set("start_at", trip.StartAt).
		Set("end_at", trip.EndAt).
		Set("capacity", trip.Capacity).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": trip.ID}).
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
		return apperrors.ErrTripNotFound
	}

	return nil
}

// UpdateStatus changes a trip's lifecycle status
func (r *tripRepositoryImpl) UpdateStatus(ctx context.Context, id int64, status models.TripStatus) error {
	query := squirrel.Update("club_trips").
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
		return apperrors.ErrTripNotFound
	}

	return nil
}

// Delete removes a trip and, via cascade, its participant rows
func (r *tripRepositoryImpl) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("club_trips").
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
		return apperrors.ErrTripNotFound
	}

	return nil
}

// AddParticipant signs a user up while the participant count is below
// capacity. The trip row is locked first so concurrent signups serialize and
// cannot overshoot the limit. Capacity 0 skips the guard.
func (r *tripRepositoryImpl) AddParticipant(ctx context.Context, tripID, userID int64, capacity int) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var lockedID int64
		err := tx.QueryRow(ctx, `SELECT id FROM club_trips WHERE id = $1 FOR UPDATE`, tripID).Scan(&lockedID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrTripNotFound
			}
			return fmt.Errorf("error locking trip: %w", err)
		}

		sql := `INSERT INTO trip_participants (trip_id, user_id)
			SELECT $1, $2
			WHERE $3 = 0 OR (SELECT COUNT(*) FROM trip_participants WHERE trip_id = $1) < $3`

		result, err := tx.Exec(ctx, sql, tripID, userID, capacity)
		if err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.NewConflictError("User is already signed up for this trip")
			}
			return fmt.Errorf("error executing query: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.NewConflictError("Trip is at capacity")
		}

		return nil
	})
}

// RemoveParticipant withdraws a user from a trip
func (r *tripRepositoryImpl) RemoveParticipant(ctx context.Context, tripID, userID int64) error {
	query := squirrel.Delete("trip_participants").
		Where(squirrel.Eq{"trip_id": tripID, "user_id": userID}).
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
		return apperrors.NewResourceNotFoundError("User is not signed up for this trip")
	}

	return nil
}

// SetAttendance records whether a participant attended
func (r *tripRepositoryImpl) SetAttendance(ctx context.Context, tripID, userID int64, attended bool) error {
	query := squirrel.Update("trip_participants").
		Set("attended", attended).
		Where(squirrel.Eq{"trip_id": tripID, "user_id": userID}).
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
		return apperrors.NewResourceNotFoundError("User is not signed up for this trip")
	}

	return nil
}

// GetParticipants retrieves a trip's participants in signup order
func (r *tripRepositoryImpl) GetParticipants(ctx context.Context, tripID int64) ([]*models.TripParticipant, error) {
	query := squirrel.Select("id", "trip_id", "user_id", "attended", "joined_at").
		From("trip_participants").
		Where(squirrel.Eq{"trip_id": tripID}).
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

	var participants []*models.TripParticipant
	for rows.Next() {
		var p models.TripParticipant
		if err := rows.Scan(&p.ID, &p.TripID, &p.UserID, &p.Attended, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		participants = append(participants, &p)
	}

	return participants, nil
}

// CountParticipants counts current signups for a trip
func (r *tripRepositoryImpl) CountParticipants(ctx context.Context, tripID int64) (int, error) {
	query := squirrel.Select("COUNT(*)").
		From("trip_participants").
		Where(squirrel.Eq{"trip_id": tripID}).
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

func scanTrip(row pgx.Row) (*models.ClubTrip, error) {
	var trip models.ClubTrip
	err := row.Scan(
		&trip.ID,
		&trip.ClubID,
		&trip.Title,
		&trip.Destination,
		&trip.StartAt,
		&trip.EndAt,
		&trip.Capacity,
		&trip.Status,
		&trip.CreatedBy,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}
