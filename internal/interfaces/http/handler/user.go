package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/storehub/backend/internal/application/identity"
	apptenancy "github.com/storehub/backend/internal/application/tenancy"
	"github.com/storehub/backend/internal/interfaces/http/dto"
)

// UserHandler handles user management and store membership requests
type UserHandler struct {
	BaseHandler
	userService       *appidentity.UserService
	membershipService *apptenancy.MembershipService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *appidentity.UserService, membershipService *apptenancy.MembershipService) *UserHandler {
	return &UserHandler{
		userService:       userService,
		membershipService: membershipService,
	}
}

// List godoc
//
//	@Summary	List users visible in the active store
//	@Tags		users
//	@Produce	json
//	@Param		X-Store-ID	header		int		false	"Active store, defaults to the caller's default store"
//	@Param		page		query		int		false	"Page number"
//	@Param		per_page	query		int		false	"Page size (1-100)"
//	@Param		search		query		string	false	"Search term"
//	@Param		sort_by		query		string	false	"Sort column"
//	@Param		sort_order	query		string	false	"asc or desc"
//	@Success	200			{object}	dto.Response
//	@Failure	401			{object}	dto.Response
//	@Failure	403			{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	page, err := h.userService.List(c.Request.Context(), appidentity.UserListInput{Filter: req.Filter()})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Users retrieved successfully", gin.H{
		"users":      page.Items,
		"pagination": dto.NewPagination(page),
	})
}

// Get godoc
//
//	@Summary	Get a user
//	@Tags		users
//	@Produce	json
//	@Param		id	path		int	true	"User ID"
//	@Success	200	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Failure	403	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "User retrieved successfully", gin.H{"user": user})
}

// Delete godoc
//
//	@Summary	Delete a user
//	@Tags		users
//	@Produce	json
//	@Param		id	path		int	true	"User ID"
//	@Success	200	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Failure	403	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "User deleted successfully", nil)
}

// ListStores godoc
//
//	@Summary	List the stores of a user
//	@Tags		users
//	@Produce	json
//	@Param		id	path		int	true	"User ID"
//	@Success	200	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Failure	403	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/users/{id}/stores [get]
func (h *UserHandler) ListStores(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	stores, err := h.membershipService.ListUserStores(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "User stores retrieved successfully", stores)
}

// AssignStore godoc
//
//	@Summary	Assign a store to a user
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"User ID"
//	@Param		request	body		StoreRefRequest	true	"Store"
//	@Success	200		{object}	dto.Response
//	@Failure	401		{object}	dto.Response
//	@Failure	403		{object}	dto.Response
//	@Failure	404		{object}	dto.Response
//	@Failure	422		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/users/{id}/stores [post]
func (h *UserHandler) AssignStore(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req StoreRefRequest
	if !h.BindJSON(c, &req) {
		return
	}

	store, err := h.membershipService.Assign(c.Request.Context(), id, req.StoreID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Store assigned to user successfully", gin.H{"store": store})
}

// RemoveStore godoc
//
//	@Summary	Remove a store from a user
//	@Tags		users
//	@Produce	json
//	@Param		id		path		int	true	"User ID"
//	@Param		store	path		int	true	"Store ID"
//	@Success	200		{object}	dto.Response
//	@Failure	401		{object}	dto.Response
//	@Failure	403		{object}	dto.Response
//	@Failure	404		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/users/{id}/stores/{store} [delete]
func (h *UserHandler) RemoveStore(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	storeID, ok := h.ParamID(c, "store")
	if !ok {
		return
	}
	if err := h.membershipService.Remove(c.Request.Context(), id, storeID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Store assignment removed successfully", nil)
}

// SetDefaultStore godoc
//
//	@Summary	Set the default store of a user
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"User ID"
//	@Param		request	body		StoreRefRequest	true	"Store"
//	@Success	200		{object}	dto.Response
//	@Failure	401		{object}	dto.Response
//	@Failure	403		{object}	dto.Response
//	@Failure	404		{object}	dto.Response
//	@Failure	422		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/users/{id}/default-store [put]
func (h *UserHandler) SetDefaultStore(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req StoreRefRequest
	if !h.BindJSON(c, &req) {
		return
	}

	store, err := h.membershipService.SetDefault(c.Request.Context(), id, req.StoreID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Default store set successfully", gin.H{"store": store})
}
