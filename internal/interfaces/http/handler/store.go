package handler

import (
	"github.com/gin-gonic/gin"

	apptenancy "github.com/storehub/backend/internal/application/tenancy"
	"github.com/storehub/backend/internal/interfaces/http/dto"
)

// StoreHandler handles store requests
type StoreHandler struct {
	BaseHandler
	storeService *apptenancy.StoreService
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(storeService *apptenancy.StoreService) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
	}
}

// List godoc
//
//	@Summary	List stores
//	@Tags		stores
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
//	@Router		/stores [get]
func (h *StoreHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}
	page, err := h.storeService.List(c.Request.Context(), req.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Stores retrieved successfully", gin.H{
		"stores":     page.Items,
		"pagination": dto.NewPagination(page),
	})
}

// Get godoc
//
//	@Summary	Get a store
//	@Tags		stores
//	@Produce	json
//	@Param		id	path		int	true	"Store ID"
//	@Success	200	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Failure	403	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/stores/{id} [get]
func (h *StoreHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	store, err := h.storeService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Store retrieved successfully", gin.H{"store": store})
}

// Create godoc
//
//	@Summary	Create a store
//	@Tags		stores
//	@Accept		json
//	@Produce	json
//	@Param		request	body		StoreRequest	true	"Store"
//	@Success	201		{object}	dto.Response
//	@Failure	401		{object}	dto.Response
//	@Failure	403		{object}	dto.Response
//	@Failure	422		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/stores [post]
func (h *StoreHandler) Create(c *gin.Context) {
	var req StoreRequest
	if !h.BindJSON(c, &req) {
		return
	}
	store, err := h.storeService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Store created successfully", gin.H{"store": store})
}

// Update godoc
//
//	@Summary	Update a store
//	@Tags		stores
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Store ID"
//	@Param		request	body		StoreRequest	true	"Store"
//	@Success	200		{object}	dto.Response
//	@Failure	401		{object}	dto.Response
//	@Failure	403		{object}	dto.Response
//	@Failure	404		{object}	dto.Response
//	@Failure	422		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/stores/{id} [put]
//	@Router		/stores/{id} [patch]
func (h *StoreHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req StoreRequest
	if !h.BindJSON(c, &req) {
		return
	}
	store, err := h.storeService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Store updated successfully", gin.H{"store": store})
}

// Delete godoc
//
//	@Summary	Delete a store
//	@Tags		stores
//	@Produce	json
//	@Param		id	path		int	true	"Store ID"
//	@Success	200	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Failure	403	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/stores/{id} [delete]
func (h *StoreHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.storeService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Store deleted successfully", nil)
}

// Restore godoc
//
//	@Summary	Restore a deleted store
//	@Tags		stores
//	@Produce	json
//	@Param		id	path		int	true	"Store ID"
//	@Success	200	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Failure	403	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/stores/{id}/restore [post]
func (h *StoreHandler) Restore(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	store, err := h.storeService.Restore(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Store restored successfully", gin.H{"store": store})
}

// Switch godoc
//
//	@Summary	Switch the default store
//	@Tags		stores
//	@Accept		json
//	@Produce	json
//	@Param		request	body		StoreRefRequest	true	"Store"
//	@Success	200		{object}	dto.Response
//	@Failure	401		{object}	dto.Response
//	@Failure	403		{object}	dto.Response
//	@Failure	422		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/stores/switch [post]
func (h *StoreHandler) Switch(c *gin.Context) {
	var req StoreRefRequest
	if !h.BindJSON(c, &req) {
		return
	}
	store, err := h.storeService.Switch(c.Request.Context(), req.StoreID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Store switched successfully", gin.H{"store": store})
}
