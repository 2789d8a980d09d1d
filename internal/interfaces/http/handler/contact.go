package handler

import (
	"github.com/gin-gonic/gin"

	appcontact "github.com/storehub/backend/internal/application/contact"
	"github.com/storehub/backend/internal/interfaces/http/dto"
)

// ContactHandler handles contact requests
type ContactHandler struct {
	BaseHandler
	contactService *appcontact.Service
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *appcontact.Service) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// List godoc
//
//	@Summary	List contacts of the accessible stores
//	@Tags		contacts
//	@Produce	json
//	@Param		X-Store-ID	header		int		false	"Active store, defaults to the caller's default store"
//	@Param		page		query		int		false	"Page number"
//	@Param		per_page	query		int		false	"Page size (1-100)"
//	@Param		search		query		string	false	"Search term"
//	@Param		sort_by		query		string	false	"Sort column"
//	@Param		sort_order	query		string	false	"asc or desc"
//	@Param		type		query		string	false	"client or supplier"
//	@Param		client_type	query		string	false	"Client type"
//	@Param		store_id	query		int		false	"Restrict to one store"
//	@Success	200			{object}	dto.Response
//	@Failure	401			{object}	dto.Response
//	@Failure	403			{object}	dto.Response
//	@Failure	422			{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	var req ContactListRequest
	if !h.BindQuery(c, &req) {
		return
	}
	page, err := h.contactService.List(c.Request.Context(), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Contacts retrieved successfully", gin.H{
		"contacts":   page.Items,
		"pagination": dto.NewPagination(page),
	})
}

// Get godoc
//
//	@Summary	Get a contact
//	@Tags		contacts
//	@Produce	json
//	@Param		id	path		int	true	"Contact ID"
//	@Success	200	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Failure	403	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/contacts/{id} [get]
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	contact, err := h.contactService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Contact retrieved successfully", gin.H{"contact": contact})
}

// Create godoc
//
//	@Summary	Create a contact
//	@Tags		contacts
//	@Accept		json
//	@Produce	json
//	@Param		X-Store-ID	header		int				false	"Active store, defaults to the caller's default store"
//	@Param		request		body		ContactRequest	true	"Contact"
//	@Success	201			{object}	dto.Response
//	@Failure	401			{object}	dto.Response
//	@Failure	403			{object}	dto.Response
//	@Failure	422			{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var req ContactRequest
	if !h.BindJSON(c, &req) {
		return
	}
	contact, err := h.contactService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Contact created successfully", gin.H{"contact": contact})
}

// Update godoc
//
//	@Summary	Update a contact
//	@Tags		contacts
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Contact ID"
//	@Param		request	body		ContactRequest	true	"Contact"
//	@Success	200		{object}	dto.Response
//	@Failure	401		{object}	dto.Response
//	@Failure	403		{object}	dto.Response
//	@Failure	404		{object}	dto.Response
//	@Failure	422		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/contacts/{id} [put]
//	@Router		/contacts/{id} [patch]
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req ContactRequest
	if !h.BindJSON(c, &req) {
		return
	}
	contact, err := h.contactService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Contact updated successfully", gin.H{"contact": contact})
}

// Delete godoc
//
//	@Summary	Delete a contact
//	@Tags		contacts
//	@Produce	json
//	@Param		id	path		int	true	"Contact ID"
//	@Success	200	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Failure	403	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.contactService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Contact deleted successfully", nil)
}

// Restore godoc
//
//	@Summary	Restore a deleted contact
//	@Tags		contacts
//	@Produce	json
//	@Param		id	path		int	true	"Contact ID"
//	@Success	200	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Failure	403	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/contacts/{id}/restore [post]
func (h *ContactHandler) Restore(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	contact, err := h.contactService.Restore(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Contact restored successfully", gin.H{"contact": contact})
}
