package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/eren/clubsphere/internal/app/models/dto"
	"github.com/eren/clubsphere/internal/app/services"
	"github.com/eren/clubsphere/internal/middleware"
)

// RoleController handles the per-club role registry
type RoleController struct {
	roleService services.RoleService
}

// NewRoleController creates a new RoleController
func NewRoleController(roleService services.RoleService) *RoleController {
	return &RoleController{roleService: roleService}
}

// CreateRole handles defining a custom role
// @Summary Create a role
// @Description Defines a custom role with a permission set. Reserved role names are rejected.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param request body dto.CreateRoleRequest true "Role definition"
// @Success 201 {object} dto.StructuredResponse{data=dto.RoleResponse}
// @Failure 409 {object} dto.ErrorResponse "Role name already in use"
// @Router /clubs/{id}/roles [post]
func (c *RoleController) CreateRole(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	role, err := c.roleService.CreateRole(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(role, "Role created successfully"))
}

// ListRoles handles listing a club's roles
// @Summary List roles
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} dto.StructuredResponse{data=[]dto.RoleResponse}
// @Router /clubs/{id}/roles [get]
func (c *RoleController) ListRoles(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	roles, err := c.roleService.ListRoles(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(roles, "Roles retrieved successfully"))
}

// UpdateRole handles re-permissioning a role
// @Summary Update a role
// @Description Replaces a role's permission set and color. The Member role may be re-permissioned; President is immutable.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param name path string true "Role name"
// @Param request body dto.UpdateRoleRequest true "New permission set"
// @Success 200 {object} dto.StructuredResponse{data=dto.RoleResponse}
// @Router /clubs/{id}/roles/{name} [put]
func (c *RoleController) UpdateRole(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	role, err := c.roleService.UpdateRole(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx), ctx.Param("name"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(role, "Role updated successfully"))
}

// DeleteRole handles removing a custom role
// @Summary Delete a role
// @Description Removes a custom role. Fails when the role is reserved or still held by active members.
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param name path string true "Role name"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse "Role still assigned to members"
// @Router /clubs/{id}/roles/{name} [delete]
func (c *RoleController) DeleteRole(ctx *gin.Context) {
	clubID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.roleService.DeleteRole(ctx, clubID, middleware.GetUserID(ctx), middleware.GetIsAdmin(ctx), ctx.Param("name")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Role deleted"})
}
