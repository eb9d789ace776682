package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/eren/clubsphere/internal/app/auth"
	"github.com/eren/clubsphere/internal/app/models"
	"github.com/eren/clubsphere/internal/app/models/dto"
	"github.com/eren/clubsphere/internal/app/repositories"
	"github.com/eren/clubsphere/internal/pkg/apperrors"
	"github.com/eren/clubsphere/internal/pkg/notifier"
)

// TripService defines the interface for trip planning and signups
type TripService interface {
	CreateTrip(ctx context.Context, clubID, userID int64, isAdmin bool, req *dto.CreateTripRequest) (*dto.TripResponse, error)
	GetTrip(ctx context.Context, tripID, userID int64, isAdmin bool) (*dto.TripResponse, error)
	ListTrips(ctx context.Context, clubID, userID int64, isAdmin bool) ([]dto.TripResponse, error)
	UpdateTrip(ctx context.Context, tripID, userID int64, isAdmin bool, req *dto.UpdateTripRequest) (*dto.TripResponse, error)
	UpdateStatus(ctx context.Context, tripID, userID int64, isAdmin bool, req *dto.UpdateTripStatusRequest) error
	DeleteTrip(ctx context.Context, tripID, userID int64, isAdmin bool) error

	JoinTrip(ctx context.Context, tripID, userID int64) error
	LeaveTrip(ctx context.Context, tripID, userID int64) error
	SetAttendance(ctx context.Context, tripID, userID int64, isAdmin bool, req *dto.AttendanceRequest) error
	ListParticipants(ctx context.Context, tripID, userID int64, isAdmin bool) ([]dto.ParticipantResponse, error)
}

// tripServiceImpl implements TripService
type tripServiceImpl struct {
	tripRepo    repositories.TripRepository
	memberRepo  repositories.MemberRepository
	permissions *auth.PermissionEngine
	notifier    notifier.Notifier
	logger      zerolog.Logger
}

// NewTripService creates a new TripService
func NewTripService(
	tripRepo repositories.TripRepository,
	memberRepo repositories.MemberRepository,
	permissions *auth.PermissionEngine,
	notify notifier.Notifier,
	logger zerolog.Logger,
) TripService {
	return &tripServiceImpl{
		tripRepo:    tripRepo,
		memberRepo:  memberRepo,
		permissions: permissions,
		notifier:    notify,
		logger:      logger,
	}
}

// CreateTrip plans a new trip
func (s *tripServiceImpl) CreateTrip(ctx context.Context, clubID, userID int64, isAdmin bool, req *dto.CreateTripRequest) (*dto.TripResponse, error) {
	if err := s.permissions.RequirePermission(ctx, clubID, userID, isAdmin, models.PermManageTrips); err != nil {
		return nil, err
	}

	if req.EndAt != nil && req.EndAt.Before(req.StartAt) {
		return nil, apperrors.NewValidationError("Trip end must not precede its start")
	}

	trip := &models.ClubTrip{
		ClubID:      clubID,
		Title:       req.Title,
		Destination: req.Destination,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Capacity:    req.Capacity,
		CreatedBy:   userID,
	}
	id, err := s.tripRepo.Create(ctx, trip)
	if err != nil {
		return nil, err
	}
	trip.ID = id
	trip.Status = models.TripPlanned

	s.logger.Info().Int64("tripID", id).Int64("clubID", clubID).Str("title", req.Title).Msg("Trip created")
	return dto.NewTripResponse(trip, 0), nil
}

// GetTrip retrieves a trip with its participant count
func (s *tripServiceImpl) GetTrip(ctx context.Context, tripID, userID int64, isAdmin bool) (*dto.TripResponse, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := s.permissions.RequirePermission(ctx, trip.ClubID, userID, isAdmin, models.PermViewClub); err != nil {
		return nil, err
	}

	count, err := s.tripRepo.CountParticipants(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return dto.NewTripResponse(trip, count), nil
}

// ListTrips retrieves a club's trips
func (s *tripServiceImpl) ListTrips(ctx context.Context, clubID, userID int64, isAdmin bool) ([]dto.TripResponse, error) {
	if err := s.permissions.RequirePermission(ctx, clubID, userID, isAdmin, models.PermViewClub); err != nil {
		return nil, err
	}

	trips, err := s.tripRepo.GetByClubID(ctx, clubID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TripResponse, 0, len(trips))
	for _, trip := range trips {
		count, err := s.tripRepo.CountParticipants(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *dto.NewTripResponse(trip, count))
	}
	return responses, nil
}

// UpdateTrip edits a planned trip. Capacity can never drop below the current
// signup count.
func (s *tripServiceImpl) UpdateTrip(ctx context.Context, tripID, userID int64, isAdmin bool, req *dto.UpdateTripRequest) (*dto.TripResponse, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := s.permissions.RequirePermission(ctx, trip.ClubID, userID, isAdmin, models.PermManageTrips); err != nil {
		return nil, err
	}
	if trip.Status != models.TripPlanned {
		return nil, apperrors.NewConflictError(fmt.Sprintf("A %s trip cannot be edited", trip.Status))
	}

	count, err := s.tripRepo.CountParticipants(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		trip.Title = *req.Title
	}
	if req.Destination != nil {
		trip.Destination = *req.Destination
	}
	if req.StartAt != nil {
		trip.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		trip.EndAt = req.EndAt
	}
	if req.Capacity != nil {
		if *req.Capacity != 0 && *req.Capacity < count {
			return nil, apperrors.NewConflictError(fmt.Sprintf("Capacity cannot drop below the current %d signups", count))
		}
		trip.Capacity = *req.Capacity
	}
	if trip.EndAt != nil && trip.EndAt.Before(trip.StartAt) {
		return nil, apperrors.NewValidationError("Trip end must not precede its start")
	}

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}
	return dto.NewTripResponse(trip, count), nil
}

// UpdateStatus moves a trip through its lifecycle. Cancelling notifies every
// participant.
func (s *tripServiceImpl) UpdateStatus(ctx context.Context, tripID, userID int64, isAdmin bool, req *dto.UpdateTripStatusRequest) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if err := s.permissions.RequirePermission(ctx, trip.ClubID, userID, isAdmin, models.PermManageTrips); err != nil {
		return err
	}

	next := models.TripStatus(req.Status)
	if !trip.Status.CanTransitionTo(next) {
		return apperrors.NewConflictError(fmt.Sprintf("Cannot move a %s trip to %s", trip.Status, next))
	}

	if err := s.tripRepo.UpdateStatus(ctx, tripID, next); err != nil {
		return err
	}

	if next == models.TripCancelled {
		participants, err := s.tripRepo.GetParticipants(ctx, tripID)
		if err != nil {
			s.logger.Error().Err(err).Int64("tripID", tripID).Msg("Failed to load participants for cancellation notices")
			return nil
		}
		for _, p := range participants {
			s.notify(ctx, notifier.Notification{
				RecipientID:   p.UserID,
				Kind:          notifier.KindTripCancelled,
				Title:         "Trip cancelled",
				Message:       fmt.Sprintf("The trip %q was cancelled", trip.Title),
				RelatedClubID: trip.ClubID,
				Priority:      notifier.PriorityHigh,
			})
		}
	}

	return nil
}

// DeleteTrip removes a trip
func (s *tripServiceImpl) DeleteTrip(ctx context.Context, tripID, userID int64, isAdmin bool) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if err := s.permissions.RequirePermission(ctx, trip.ClubID, userID, isAdmin, models.PermManageTrips); err != nil {
		return err
	}

	return s.tripRepo.Delete(ctx, tripID)
}

// JoinTrip signs the caller up for a planned trip. Capacity is enforced
// atomically at the storage layer.
func (s *tripServiceImpl) JoinTrip(ctx context.Context, tripID, userID int64) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if _, err := ensureActiveMember(ctx, s.memberRepo, trip.ClubID, userID); err != nil {
		return err
	}
	if trip.Status != models.TripPlanned {
		return apperrors.NewConflictError(fmt.Sprintf("Cannot join a %s trip", trip.Status))
	}
	if time.Now().After(trip.StartAt) {
		return apperrors.NewExpiredError("The trip has already started")
	}

	return s.tripRepo.AddParticipant(ctx, tripID, userID, trip.Capacity)
}

// LeaveTrip withdraws the caller's signup before the trip starts
func (s *tripServiceImpl) LeaveTrip(ctx context.Context, tripID, userID int64) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.Status != models.TripPlanned {
		return apperrors.NewConflictError(fmt.Sprintf("Cannot leave a %s trip", trip.Status))
	}

	return s.tripRepo.RemoveParticipant(ctx, tripID, userID)
}

// SetAttendance records whether a signed-up participant attended. Attendance
// is independent of the trip's status.
func (s *tripServiceImpl) SetAttendance(ctx context.Context, tripID, userID int64, isAdmin bool, req *dto.AttendanceRequest) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if err := s.permissions.RequirePermission(ctx, trip.ClubID, userID, isAdmin, models.PermManageTrips); err != nil {
		return err
	}

	return s.tripRepo.SetAttendance(ctx, tripID, req.UserID, req.Attended)
}

// ListParticipants retrieves a trip's signups
func (s *tripServiceImpl) ListParticipants(ctx context.Context, tripID, userID int64, isAdmin bool) ([]dto.ParticipantResponse, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := s.permissions.RequirePermission(ctx, trip.ClubID, userID, isAdmin, models.PermViewMembers); err != nil {
		return nil, err
	}

	participants, err := s.tripRepo.GetParticipants(ctx, tripID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		responses = append(responses, *dto.NewParticipantResponse(p))
	}
	return responses, nil
}

func (s *tripServiceImpl) notify(ctx context.Context, n notifier.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Error().Err(err).Str("kind", n.Kind).Int64("recipientID", n.RecipientID).Msg("Failed to deliver notification")
	}
}
