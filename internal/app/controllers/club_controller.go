package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/eren/clubsphere/internal/app/models/dto"
	"github.com/eren/clubsphere/internal/app/services"
	"github.com/eren/clubsphere/internal/middleware"
	"github.com/eren/clubsphere/internal/pkg/apperrors"
	"github.com/eren/clubsphere/internal/pkg/helpers"
)

// ClubController handles club, membership and violation operations
type ClubController struct {
	clubService services.ClubService
}

// NewClubController creates a new ClubController
func NewClubController(clubService services.ClubService) *ClubController {
	return &ClubController{clubService: clubService}
}

// CreateClub handles founding a new club
// @Summary Create a club
// @Description Creates a club with the caller as owner and president. A user can own at most one club and hold at most one active membership.
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClubRequest true "Club details"
// @Success 201 {object} dto.StructuredResponse{data=dto.ClubResponse} "Club created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 409 {object} dto.ErrorResponse "Name taken, club already owned, or active membership elsewhere"
// @Router /clubs [post]
func (c *ClubController) CreateClub(ctx *gin.Context) {
	var req dto.CreateClubRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	club, err := c.clubService.CreateClub(ctx, middleware.GetUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(club, "Club created successfully"))
}

// GetClub handles retrieving a club by ID
// @Summary Get club by ID
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.ClubResponse}
// @Failure 404 {object} dto.ErrorResponse "Club not found"
// @Router /clubs/{id} [get]
func (c *ClubController) GetClub(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	club, err := c.clubService.GetClub(ctx, clubID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(club, "Club retrieved successfully"))
}

// ListClubs handles listing clubs with filtering and pagination
// @Summary List clubs
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Param page query int false "Page number (1-based)" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.StructuredResponse{data=dto.ClubListResponse}
// @Router /clubs [get]
func (c *ClubController) ListClubs(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)
	filter := &dto.ClubFilterRequest{
		Category: ctx.Query("category"),
		Page:     page,
		PageSize: pageSize,
	}

	clubs, err := c.clubService.ListClubs(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(clubs, "Clubs retrieved successfully"))
}

// UpdateClub handles editing a club's descriptive fields
// @Summary Update a club
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param request body dto.UpdateClubRequest true "Fields to update"
// @Success 200 {object} dto.StructuredResponse{data=dto.ClubResponse}
// @Failure 403 {object} dto.ErrorResponse "Missing edit_club permission"
// @Router /clubs/{id} [put]
func (c *ClubController) UpdateClub(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateClubRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	club, err := c.clubService.UpdateClub(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(club, "Club updated successfully"))
}

// UpdateForm handles replacing the club's application form configuration
// @Summary Configure the application form
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param request body dto.UpdateFormRequest true "Form configuration"
// @Success 200 {object} dto.SuccessResponse
// @Router /clubs/{id}/form [put]
func (c *ClubController) UpdateForm(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateFormRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.clubService.UpdateForm(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Application form updated"})
}

// DeleteClub handles removing a club
// @Summary Delete a club
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse "Missing delete_club permission"
// @Router /clubs/{id} [delete]
func (c *ClubController) DeleteClub(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.clubService.DeleteClub(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Club deleted"})
}

// ListMembers handles listing a club's members
// @Summary List club members
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.StructuredResponse{data=[]dto.MemberResponse}
// @Router /clubs/{id}/members [get]
func (c *ClubController) ListMembers(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	members, err := c.clubService.ListMembers(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(members, "Members retrieved successfully"))
}

// GetOwnMembership handles retrieving the caller's active membership
// @Summary Get own membership
// @Description Retrieves the caller's active club membership with their effective permissions resolved.
// @Tags members
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=dto.MemberResponse}
// @Failure 404 {object} dto.ErrorResponse "No active membership"
// @Router /memberships/me [get]
func (c *ClubController) GetOwnMembership(ctx *gin.Context) {
	member, err := c.clubService.GetOwnMembership(ctx, middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(member, "Membership retrieved successfully"))
}

// GetOwnPermissions handles resolving the caller's effective permissions
// @Summary Get own effective permissions in a club
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.StructuredResponse{data=[]string}
// @Router /clubs/{id}/permissions [get]
func (c *ClubController) GetOwnPermissions(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	perms, err := c.clubService.GetEffectivePermissions(ctx, clubID, middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(perms, "Permissions resolved"))
}

// ChangeMemberStatus handles suspending, banning or reinstating a member
// @Summary Change a member's status
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param userId path int true "Target user ID"
// @Param request body dto.UpdateMemberStatusRequest true "New status"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse "Missing suspend_members permission or owner targeted"
// @Router /clubs/{id}/members/{userId}/status [put]
func (c *ClubController) ChangeMemberStatus(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	var req dto.UpdateMemberStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	err := c.clubService.ChangeMemberStatus(ctx, clubID, middleware.GetUserID(ctx), targetID, middleware.GetIsAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Member status updated"})
}

// AssignRole handles changing a member's role
// @Summary Assign a role to a member
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param userId path int true "Target user ID"
// @Param request body dto.AssignRoleRequest true "Role to assign"
// @Success 200 {object} dto.SuccessResponse
// @Router /clubs/{id}/members/{userId}/role [put]
func (c *ClubController) AssignRole(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	err := c.clubService.AssignRole(ctx, clubID, middleware.GetUserID(ctx), targetID, middleware.GetIsAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Role assigned"})
}

// UpdateOverrides handles replacing a member's permission overrides
// @Summary Set per-member permission overrides
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param userId path int true "Target user ID"
// @Param request body dto.UpdateOverridesRequest true "Override permissions"
// @Success 200 {object} dto.SuccessResponse
// @Router /clubs/{id}/members/{userId}/overrides [put]
func (c *ClubController) UpdateOverrides(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	var req dto.UpdateOverridesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	err := c.clubService.UpdateOverrides(ctx, clubID, middleware.GetUserID(ctx), targetID, middleware.GetIsAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Permission overrides updated"})
}

// RemoveMember handles expelling a member
// @Summary Remove a member from a club
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param userId path int true "Target user ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /clubs/{id}/members/{userId} [delete]
func (c *ClubController) RemoveMember(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	err := c.clubService.RemoveMember(ctx, clubID, middleware.GetUserID(ctx), targetID, middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Member removed"})
}

// LeaveClub handles a member leaving voluntarily
// @Summary Leave a club
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse "The president cannot leave"
// @Router /clubs/{id}/members/me [delete]
func (c *ClubController) LeaveClub(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.clubService.LeaveClub(ctx, clubID, middleware.GetUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Left the club"})
}

// RecordViolation handles filing a violation record
// @Summary Record a violation
// @Tags violations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param request body dto.ViolationRequest true "Violation details"
// @Success 201 {object} dto.StructuredResponse{data=dto.ViolationResponse}
// @Router /clubs/{id}/violations [post]
func (c *ClubController) RecordViolation(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ViolationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	violation, err := c.clubService.RecordViolation(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(violation, "Violation recorded"))
}

// ListViolations handles listing a club's violation records
// @Summary List violations
// @Tags violations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.StructuredResponse{data=[]dto.ViolationResponse}
// @Router /clubs/{id}/violations [get]
func (c *ClubController) ListViolations(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	violations, err := c.clubService.ListViolations(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(violations, "Violations retrieved successfully"))
}

// parseIDParam parses a numeric path parameter, responding with a validation
// error when malformed.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Invalid "+name+" parameter"))
		return 0, false
	}
	return id, true
}
