package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/storehub/backend/internal/application/identity"
	"github.com/storehub/backend/internal/interfaces/http/dto"
)

// RoleHandler handles role and permission requests
type RoleHandler struct {
	BaseHandler
	roleService *appidentity.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService *appidentity.RoleService) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
	}
}

// List godoc
//
//	@Summary	List roles
//	@Tags		roles
//	@Produce	json
//	@Param		page		query		int		false	"Page number"
//	@Param		per_page	query		int		false	"Page size (1-100)"
//	@Param		search		query		string	false	"Search term"
//	@Param		sort_by		query		string	false	"Sort column"
//	@Param		sort_order	query		string	false	"asc or desc"
//	@Success	200			{object}	dto.Response
//	@Failure	401			{object}	dto.Response
//	@Failure	403			{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}
	page, err := h.roleService.List(c.Request.Context(), req.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Roles retrieved successfully", gin.H{
		"roles":      page.Items,
		"pagination": dto.NewPagination(page),
	})
}

// Get godoc
//
//	@Summary	Get a role
//	@Tags		roles
//	@Produce	json
//	@Param		id	path		int	true	"Role ID"
//	@Success	200	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Failure	403	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/roles/{id} [get]
func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	role, err := h.roleService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Role retrieved successfully", gin.H{"role": role})
}

// Create godoc
//
//	@Summary	Create a role
//	@Tags		roles
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateRoleRequest	true	"Role"
//	@Success	201		{object}	dto.Response
//	@Failure	401		{object}	dto.Response
//	@Failure	403		{object}	dto.Response
//	@Failure	422		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	role, err := h.roleService.Create(c.Request.Context(), appidentity.CreateRoleInput{
		Name:        req.Name,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Role created successfully", gin.H{"role": role})
}

// Update godoc
//
//	@Summary	Update a role
//	@Tags		roles
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"Role ID"
//	@Param		request	body		UpdateRoleRequest	true	"Role"
//	@Success	200		{object}	dto.Response
//	@Failure	401		{object}	dto.Response
//	@Failure	403		{object}	dto.Response
//	@Failure	404		{object}	dto.Response
//	@Failure	422		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/roles/{id} [put]
//	@Router		/roles/{id} [patch]
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req UpdateRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	role, err := h.roleService.Update(c.Request.Context(), id, appidentity.UpdateRoleInput{
		Name:        req.Name,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Role updated successfully", gin.H{"role": role})
}

// Delete godoc
//
//	@Summary	Delete a role
//	@Tags		roles
//	@Produce	json
//	@Param		id	path		int	true	"Role ID"
//	@Success	200	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Failure	403	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/roles/{id} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.roleService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Role deleted successfully", nil)
}

// Permissions godoc
//
//	@Summary	List permissions
//	@Tags		roles
//	@Produce	json
//	@Success	200	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Failure	403	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/permissions [get]
func (h *RoleHandler) Permissions(c *gin.Context) {
	perms, err := h.roleService.Permissions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Permissions retrieved successfully", gin.H{"permissions": perms})
}
