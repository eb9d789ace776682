package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/eren/clubsphere/internal/app/models/dto"
	"github.com/eren/clubsphere/internal/app/services"
	"github.com/eren/clubsphere/internal/middleware"
)

// RecruitmentController handles applications and invitations
type RecruitmentController struct {
	recruitmentService services.RecruitmentService
}

// NewRecruitmentController creates a new RecruitmentController
func NewRecruitmentController(recruitmentService services.RecruitmentService) *RecruitmentController {
	return &RecruitmentController{recruitmentService: recruitmentService}
}

// Apply handles submitting a membership application
// @Summary Apply to a club
// @Description Submits a membership application. When the club runs an application form, required questions must be answered.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param request body dto.ApplyRequest true "Application"
// @Success 201 {object} dto.StructuredResponse{data=dto.ApplicationResponse}
// @Failure 409 {object} dto.ErrorResponse "Already a member or an application is in progress"
// @Router /clubs/{id}/applications [post]
func (c *RecruitmentController) Apply(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	application, err := c.recruitmentService.Apply(ctx, clubID, middleware.GetUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(application, "Application submitted"))
}

// ListClubApplications handles listing a club's applications
// @Summary List a club's applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.StructuredResponse{data=[]dto.ApplicationResponse}
// @Router /clubs/{id}/applications [get]
func (c *RecruitmentController) ListClubApplications(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	applications, err := c.recruitmentService.ListClubApplications(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(applications, "Applications retrieved successfully"))
}

// ListOwnApplications handles listing the caller's applications
// @Summary List own applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]dto.ApplicationResponse}
// @Router /applications [get]
func (c *RecruitmentController) ListOwnApplications(ctx *gin.Context) {
	applications, err := c.recruitmentService.ListOwnApplications(ctx, middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(applications, "Applications retrieved successfully"))
}

// ScheduleInterview handles scheduling an interview for an application
// @Summary Schedule an interview
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.ScheduleInterviewRequest true "Interview details"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse "Application state does not allow an interview"
// @Router /applications/{id}/interview [post]
func (c *RecruitmentController) ScheduleInterview(ctx *gin.Context) {
	applicationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ScheduleInterviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	err := c.recruitmentService.ScheduleInterview(ctx, applicationID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Interview scheduled"})
}

// CompleteInterview handles marking an interview as held
// @Summary Complete an interview
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.CompleteInterviewRequest true "Outcome notes"
// @Success 200 {object} dto.SuccessResponse
// @Router /applications/{id}/interview/complete [post]
func (c *RecruitmentController) CompleteInterview(ctx *gin.Context) {
	applicationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CompleteInterviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	err := c.recruitmentService.CompleteInterview(ctx, applicationID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Interview completed"})
}

// ApproveApplication handles approving an application
// @Summary Approve an application
// @Description Approves the application and creates the membership atomically. Fails when the applicant already holds an active membership elsewhere.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse "State conflict or membership exclusivity violated"
// @Router /applications/{id}/approve [post]
func (c *RecruitmentController) ApproveApplication(ctx *gin.Context) {
	applicationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := c.recruitmentService.ApproveApplication(ctx, applicationID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Application approved"})
}

// RejectApplication handles rejecting an application
// @Summary Reject an application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /applications/{id}/reject [post]
func (c *RecruitmentController) RejectApplication(ctx *gin.Context) {
	applicationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := c.recruitmentService.RejectApplication(ctx, applicationID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Application rejected"})
}

// WithdrawApplication handles the applicant withdrawing an application
// @Summary Withdraw an application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /applications/{id} [delete]
func (c *RecruitmentController) WithdrawApplication(ctx *gin.Context) {
	applicationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.recruitmentService.WithdrawApplication(ctx, applicationID, middleware.GetUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Application withdrawn"})
}

// Invite handles issuing a membership invitation
// @Summary Invite a user
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param request body dto.InviteRequest true "Invitee"
// @Success 201 {object} dto.StructuredResponse{data=dto.InvitationResponse}
// @Router /clubs/{id}/invitations [post]
func (c *RecruitmentController) Invite(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.InviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	invitation, err := c.recruitmentService.Invite(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(invitation, "Invitation sent"))
}

// ListClubInvitations handles listing a club's invitations
// @Summary List a club's invitations
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.StructuredResponse{data=[]dto.InvitationResponse}
// @Router /clubs/{id}/invitations [get]
func (c *RecruitmentController) ListClubInvitations(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	invitations, err := c.recruitmentService.ListClubInvitations(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(invitations, "Invitations retrieved successfully"))
}

// ListOwnInvitations handles listing invitations addressed to the caller
// @Summary List own invitations
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]dto.InvitationResponse}
// @Router /invitations [get]
func (c *RecruitmentController) ListOwnInvitations(ctx *gin.Context) {
	invitations, err := c.recruitmentService.ListOwnInvitations(ctx, middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(invitations, "Invitations retrieved successfully"))
}

// GetInvitationByCode handles resolving an invitation from its code
// @Summary Look up an invitation by code
// @Description Resolves an invitation from its opaque code. Only the invitee and the issuer may look it up.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param code path string true "Invitation code"
// @Success 200 {object} dto.StructuredResponse{data=dto.InvitationResponse}
// @Failure 404 {object} dto.ErrorResponse "Invitation not found"
// @Router /invitations/code/{code} [get]
func (c *RecruitmentController) GetInvitationByCode(ctx *gin.Context) {
	invitation, err := c.recruitmentService.GetInvitationByCode(ctx, ctx.Param("code"), middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(invitation, "Invitation retrieved successfully"))
}

// AcceptInvitation handles accepting an invitation
// @Summary Accept an invitation
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invitation ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse "Invitation already resolved or membership exclusivity violated"
// @Router /invitations/{id}/accept [post]
func (c *RecruitmentController) AcceptInvitation(ctx *gin.Context) {
	invitationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.recruitmentService.AcceptInvitation(ctx, invitationID, middleware.GetUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Invitation accepted"})
}

// DeclineInvitation handles declining an invitation
// @Summary Decline an invitation
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invitation ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /invitations/{id}/decline [post]
func (c *RecruitmentController) DeclineInvitation(ctx *gin.Context) {
	invitationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.recruitmentService.DeclineInvitation(ctx, invitationID, middleware.GetUserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Invitation declined"})
}

// CancelInvitation handles the club withdrawing an invitation
// @Summary Cancel an invitation
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invitation ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /invitations/{id}/cancel [post]
func (c *RecruitmentController) CancelInvitation(ctx *gin.Context) {
	invitationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := c.recruitmentService.CancelInvitation(ctx, invitationID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Invitation cancelled"})
}
