package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/eren/clubsphere/internal/app/models/dto"
	"github.com/eren/clubsphere/internal/app/services"
	"github.com/eren/clubsphere/internal/middleware"
)

// TripController handles trip planning and signups
type TripController struct {
	tripService services.TripService
}

// NewTripController creates a new TripController
func NewTripController(tripService services.TripService) *TripController {
	return &TripController{tripService: tripService}
}

// CreateTrip handles planning a new trip
// @Summary Create a trip
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param request body dto.CreateTripRequest true "Trip details"
// @Success 201 {object} dto.StructuredResponse{data=dto.TripResponse}
// @Failure 403 {object} dto.ErrorResponse "Missing manage_trips permission"
// @Router /clubs/{id}/trips [post]
func (c *TripController) CreateTrip(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateTripRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	trip, err := c.tripService.CreateTrip(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(trip, "Trip created successfully"))
}

// ListTrips handles listing a club's trips
// @Summary List trips
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.StructuredResponse{data=[]dto.TripResponse}
// @Router /clubs/{id}/trips [get]
func (c *TripController) ListTrips(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	trips, err := c.tripService.ListTrips(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(trips, "Trips retrieved successfully"))
}

// GetTrip handles retrieving a trip
// @Summary Get trip by ID
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.TripResponse}
// @Failure 404 {object} dto.ErrorResponse "Trip not found"
// @Router /trips/{id} [get]
func (c *TripController) GetTrip(ctx *gin.Context) {
	tripID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	trip, err := c.tripService.GetTrip(ctx, tripID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(trip, "Trip retrieved successfully"))
}

// UpdateTrip handles editing a planned trip
// @Summary Update a trip
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Param request body dto.UpdateTripRequest true "Fields to update"
// @Success 200 {object} dto.StructuredResponse{data=dto.TripResponse}
// @Failure 409 {object} dto.ErrorResponse "Trip no longer editable or capacity below signups"
// @Router /trips/{id} [put]
func (c *TripController) UpdateTrip(ctx *gin.Context) {
	tripID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateTripRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	trip, err := c.tripService.UpdateTrip(ctx, tripID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(trip, "Trip updated successfully"))
}

// UpdateTripStatus handles moving a trip through its lifecycle
// @Summary Update trip status
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Param request body dto.UpdateTripStatusRequest true "New status"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse "Illegal status transition"
// @Router /trips/{id}/status [put]
func (c *TripController) UpdateTripStatus(ctx *gin.Context) {
	tripID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateTripStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	err := c.tripService.UpdateStatus(ctx, tripID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Trip status updated"})
}

// DeleteTrip handles removing a trip
// @Summary Delete a trip
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /trips/{id} [delete]
func (c *TripController) DeleteTrip(ctx *gin.Context) {
	tripID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.tripService.DeleteTrip(ctx, tripID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Trip deleted"})
}

// JoinTrip handles signing up for a trip
// @Summary Join a trip
// @Description Signs the caller up for a planned trip. Capacity is enforced atomically.
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse "Trip full or already joined"
// @Router /trips/{id}/participants [post]
func (c *TripController) JoinTrip(ctx *gin.Context) {
	tripID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.tripService.JoinTrip(ctx, tripID, middleware.GetUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Signed up for the trip"})
}

// LeaveTrip handles withdrawing a trip signup
// @Summary Leave a trip
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /trips/{id}/participants/me [delete]
func (c *TripController) LeaveTrip(ctx *gin.Context) {
	tripID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.tripService.LeaveTrip(ctx, tripID, middleware.GetUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Signup withdrawn"})
}

// SetAttendance handles recording a participant's attendance
// @Summary Record attendance
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Param request body dto.AttendanceRequest true "Attendance record"
// @Success 200 {object} dto.SuccessResponse
// @Router /trips/{id}/attendance [put]
func (c *TripController) SetAttendance(ctx *gin.Context) {
	tripID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	err := c.tripService.SetAttendance(ctx, tripID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Attendance recorded"})
}

// ListParticipants handles listing a trip's signups
// @Summary List trip participants
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ID"
// @Success 200 {object} dto.StructuredResponse{data=[]dto.ParticipantResponse}
// @Router /trips/{id}/participants [get]
func (c *TripController) ListParticipants(ctx *gin.Context) {
	tripID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	participants, err := c.tripService.ListParticipants(ctx, tripID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(participants, "Participants retrieved successfully"))
}
