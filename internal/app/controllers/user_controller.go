package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/eren/clubsphere/internal/app/models/dto"
	"github.com/eren/clubsphere/internal/app/services"
	"github.com/eren/clubsphere/internal/middleware"
)

// UserController handles the admin-only user management endpoints
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetUser handles retrieving a user account
// @Summary Get a user
// @Description Retrieves a user account. Requires platform admin.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.UserResponse}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.GetUser(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(user, "User retrieved successfully"))
}

// SetAdmin handles granting or revoking the platform admin flag
// @Summary Set the admin flag
// @Description Grants or revokes a user's platform admin flag. Admins cannot revoke their own flag. Requires platform admin.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.SetAdminRequest true "New admin flag"
// @Success 200 {object} dto.StructuredResponse{data=dto.UserResponse}
// @Failure 409 {object} dto.ErrorResponse "Self-revocation"
// @Router /users/{id}/admin [put]
func (c *UserController) SetAdmin(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SetAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.userService.SetAdmin(ctx, middleware.GetUserID(ctx), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(user, "Admin flag updated successfully"))
}

// DeleteUser handles removing a user account
// @Summary Delete a user
// @Description Removes a user account. Club owners must delete or transfer their club first. Requires platform admin.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse "User still owns a club"
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx, middleware.GetUserID(ctx), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "User deleted"})
}
