package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/eren/clubsphere/internal/app/models/dto"
	"github.com/eren/clubsphere/internal/app/services"
	"github.com/eren/clubsphere/internal/middleware"
)

// AnnouncementController handles announcements, polls, forms and comments
type AnnouncementController struct {
	announcementService services.AnnouncementService
}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController(announcementService services.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{announcementService: announcementService}
}

// CreateAnnouncement handles posting an announcement, poll or form
// @Summary Create an announcement
// @Description Posts a plain announcement, a poll (with at least two options) or a form (with at least one question).
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param request body dto.CreateAnnouncementRequest true "Announcement"
// @Success 201 {object} dto.StructuredResponse{data=dto.AnnouncementResponse}
// @Failure 403 {object} dto.ErrorResponse "Missing post_announcements permission"
// @Router /clubs/{id}/announcements [post]
func (c *AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	announcement, err := c.announcementService.CreateAnnouncement(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(announcement, "Announcement created"))
}

// ListAnnouncements handles listing a club's announcements
// @Summary List announcements
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.StructuredResponse{data=[]dto.AnnouncementResponse}
// @Router /clubs/{id}/announcements [get]
func (c *AnnouncementController) ListAnnouncements(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	announcements, err := c.announcementService.ListAnnouncements(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(announcements, "Announcements retrieved successfully"))
}

// GetAnnouncement handles retrieving an announcement
// @Summary Get announcement by ID
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.AnnouncementResponse}
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /announcements/{id} [get]
func (c *AnnouncementController) GetAnnouncement(ctx *gin.Context) {
	announcementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	announcement, err := c.announcementService.GetAnnouncement(ctx, announcementID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(announcement, "Announcement retrieved successfully"))
}

// PinAnnouncement handles pinning an announcement
// @Summary Pin an announcement
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /announcements/{id}/pin [post]
func (c *AnnouncementController) PinAnnouncement(ctx *gin.Context) {
	c.setPinned(ctx, true, "Announcement pinned")
}

// UnpinAnnouncement handles unpinning an announcement
// @Summary Unpin an announcement
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /announcements/{id}/pin [delete]
func (c *AnnouncementController) UnpinAnnouncement(ctx *gin.Context) {
	c.setPinned(ctx, false, "Announcement unpinned")
}

func (c *AnnouncementController) setPinned(ctx *gin.Context, pinned bool, message string) {
	announcementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := c.announcementService.SetPinned(ctx, announcementID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx), pinned)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: message})
}

// CloseInteraction handles closing a poll or form early
// @Summary Close a poll or form
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /announcements/{id}/close [post]
func (c *AnnouncementController) CloseInteraction(ctx *gin.Context) {
	announcementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := c.announcementService.CloseInteraction(ctx, announcementID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Interaction closed"})
}

// DeleteAnnouncement handles removing an announcement
// @Summary Delete an announcement
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /announcements/{id} [delete]
func (c *AnnouncementController) DeleteAnnouncement(ctx *gin.Context) {
	announcementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := c.announcementService.DeleteAnnouncement(ctx, announcementID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Announcement deleted"})
}

// Vote handles casting a vote on a poll
// @Summary Vote on a poll
// @Description Casts a vote on an open poll. One vote per member unless the poll allows multiple.
// @Tags polls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Param request body dto.VoteRequest true "Chosen option"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse "Already voted"
// @Failure 410 {object} dto.ErrorResponse "Poll closed"
// @Router /announcements/{id}/votes [post]
func (c *AnnouncementController) Vote(ctx *gin.Context) {
	announcementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.VoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.announcementService.Vote(ctx, announcementID, middleware.GetUserID(ctx), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Vote recorded"})
}

// ListPollVotes handles listing a poll's cast votes
// @Summary List poll votes
// @Description Retrieves the votes cast on a poll. Anonymous polls hide the voting user.
// @Tags polls
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.StructuredResponse{data=[]dto.PollVoteData}
// @Router /announcements/{id}/votes [get]
func (c *AnnouncementController) ListPollVotes(ctx *gin.Context) {
	announcementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	votes, err := c.announcementService.ListPollVotes(ctx, announcementID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(votes, "Votes retrieved successfully"))
}

// SubmitForm handles submitting a form response
// @Summary Submit a form response
// @Tags forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Param request body dto.SubmitFormRequest true "Answers"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse "Already responded"
// @Failure 410 {object} dto.ErrorResponse "Form closed"
// @Router /announcements/{id}/responses [post]
func (c *AnnouncementController) SubmitForm(ctx *gin.Context) {
	announcementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubmitFormRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.announcementService.SubmitForm(ctx, announcementID, middleware.GetUserID(ctx), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Response submitted"})
}

// ListFormResponses handles listing form submissions
// @Summary List form responses
// @Description Retrieves form submissions. Anonymous forms hide the submitting user.
// @Tags forms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.StructuredResponse{data=[]dto.FormResponseData}
// @Router /announcements/{id}/responses [get]
func (c *AnnouncementController) ListFormResponses(ctx *gin.Context) {
	announcementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	responses, err := c.announcementService.ListFormResponses(ctx, announcementID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(responses, "Responses retrieved successfully"))
}

// AddComment handles posting a comment or reply
// @Summary Comment on an announcement
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Param request body dto.CommentRequest true "Comment"
// @Success 201 {object} dto.StructuredResponse{data=dto.CommentResponse}
// @Router /announcements/{id}/comments [post]
func (c *AnnouncementController) AddComment(ctx *gin.Context) {
	announcementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	comment, err := c.announcementService.AddComment(ctx, announcementID, middleware.GetUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(comment, "Comment posted"))
}

// ListComments handles listing an announcement's comments
// @Summary List comments
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.StructuredResponse{data=[]dto.CommentResponse}
// @Router /announcements/{id}/comments [get]
func (c *AnnouncementController) ListComments(ctx *gin.Context) {
	announcementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	comments, err := c.announcementService.ListComments(ctx, announcementID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(comments, "Comments retrieved successfully"))
}

// EditComment handles the author editing a comment inside the edit window
// @Summary Edit a comment
// @Description Edits the caller's own comment. Allowed only within 15 minutes of posting.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body dto.CommentRequest true "New text"
// @Success 200 {object} dto.StructuredResponse{data=dto.CommentResponse}
// @Failure 410 {object} dto.ErrorResponse "Edit window passed"
// @Router /comments/{id} [put]
func (c *AnnouncementController) EditComment(ctx *gin.Context) {
	commentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	comment, err := c.announcementService.EditComment(ctx, commentID, middleware.GetUserID(ctx), req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(comment, "Comment updated"))
}

// DeleteComment handles removing a comment
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /comments/{id} [delete]
func (c *AnnouncementController) DeleteComment(ctx *gin.Context) {
	commentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := c.announcementService.DeleteComment(ctx, commentID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Comment deleted"})
}
