package handler

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin"

	appsetting "github.com/storehub/backend/internal/application/setting"
	"github.com/storehub/backend/internal/domain/setting"
	"github.com/storehub/backend/internal/domain/shared"
)

// PutSettingRequest replaces the value of a key
type PutSettingRequest struct {
	Value json.RawMessage `json:"value"`
	Type  string          `json:"type" binding:"omitempty,oneof=string integer boolean json"`
}

// decodeValue keeps numbers as json.Number so integers are not rounded
// through float64
func decodeValue(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// SettingHandler handles settings of the active store
type SettingHandler struct {
	BaseHandler
	settingService *appsetting.Service
}

// NewSettingHandler creates a new setting handler
func NewSettingHandler(settingService *appsetting.Service) *SettingHandler {
	return &SettingHandler{
		settingService: settingService,
	}
}

// List godoc
//
//	@Summary	List settings of the active store
//	@Tags		settings
//	@Produce	json
//	@Param		X-Store-ID	header		int	false	"Active store, defaults to the caller's default store"
//	@Success	200			{object}	dto.Response
//	@Failure	401			{object}	dto.Response
//	@Failure	403			{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/settings [get]
func (h *SettingHandler) List(c *gin.Context) {
	settings, err := h.settingService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Settings retrieved successfully", gin.H{"settings": settings})
}

// Get godoc
//
//	@Summary	Get a setting
//	@Tags		settings
//	@Produce	json
//	@Param		X-Store-ID	header		int		false	"Active store, defaults to the caller's default store"
//	@Param		key			path		string	true	"Setting key"
//	@Success	200			{object}	dto.Response
//	@Failure	401			{object}	dto.Response
//	@Failure	403			{object}	dto.Response
//	@Failure	404			{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/settings/{key} [get]
func (h *SettingHandler) Get(c *gin.Context) {
	st, err := h.settingService.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Setting retrieved successfully", gin.H{"setting": st})
}

// Put godoc
//
//	@Summary	Create or replace a setting
//	@Tags		settings
//	@Accept		json
//	@Produce	json
//	@Param		X-Store-ID	header		int					false	"Active store, defaults to the caller's default store"
//	@Param		key			path		string				true	"Setting key"
//	@Param		request		body		PutSettingRequest	true	"Setting"
//	@Success	200			{object}	dto.Response
//	@Failure	401			{object}	dto.Response
//	@Failure	403			{object}	dto.Response
//	@Failure	422			{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/settings/{key} [put]
func (h *SettingHandler) Put(c *gin.Context) {
	var req PutSettingRequest
	if !h.BindJSON(c, &req) {
		return
	}
	value, err := decodeValue(req.Value)
	if err != nil {
		h.HandleError(c, shared.NewValidationError("value", "The value field must be valid JSON."))
		return
	}
	st, err := h.settingService.Put(c.Request.Context(), c.Param("key"), appsetting.PutInput{
		Value: value,
		Type:  setting.ValueType(req.Type),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Setting saved successfully", gin.H{"setting": st})
}

// Delete godoc
//
//	@Summary	Delete a setting
//	@Tags		settings
//	@Produce	json
//	@Param		X-Store-ID	header		int		false	"Active store, defaults to the caller's default store"
//	@Param		key			path		string	true	"Setting key"
//	@Success	200			{object}	dto.Response
//	@Failure	401			{object}	dto.Response
//	@Failure	403			{object}	dto.Response
//	@Failure	404			{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/settings/{key} [delete]
func (h *SettingHandler) Delete(c *gin.Context) {
	if err := h.settingService.Delete(c.Request.Context(), c.Param("key")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Setting deleted successfully", nil)
}
