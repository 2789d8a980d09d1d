package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/storehub/backend/internal/application/identity"
)

// AvatarUploadRequest asks for a presigned upload URL
type AvatarUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// AvatarConfirmRequest makes an uploaded object the caller's avatar
type AvatarConfirmRequest struct {
	Key string `json:"key" binding:"required,max=255"`
}

// AvatarHandler serves the caller's avatar stored in object storage
type AvatarHandler struct {
	BaseHandler
	avatarService *appidentity.AvatarService
}

// NewAvatarHandler creates a new avatar handler
func NewAvatarHandler(avatarService *appidentity.AvatarService) *AvatarHandler {
	return &AvatarHandler{avatarService: avatarService}
}

// InitiateUpload godoc
//
//	@Summary	Presign an avatar upload
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		AvatarUploadRequest	true	"Image type"
//	@Success	200		{object}	dto.Response
//	@Failure	401		{object}	dto.Response
//	@Failure	422		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/auth/profile/avatar [post]
func (h *AvatarHandler) InitiateUpload(c *gin.Context) {
	var req AvatarUploadRequest
	if !h.BindJSON(c, &req) {
		return
	}
	upload, err := h.avatarService.InitiateUpload(c.Request.Context(), req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Avatar upload initiated", gin.H{"upload": upload})
}

// Confirm godoc
//
//	@Summary	Use an uploaded image as avatar
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		AvatarConfirmRequest	true	"Uploaded key"
//	@Success	200		{object}	dto.Response
//	@Failure	401		{object}	dto.Response
//	@Failure	422		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/auth/profile/avatar [put]
func (h *AvatarHandler) Confirm(c *gin.Context) {
	var req AvatarConfirmRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.avatarService.Confirm(c.Request.Context(), req.Key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Avatar updated successfully", gin.H{"user": user})
}

// Get godoc
//
//	@Summary	Get a download link for the avatar
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/auth/profile/avatar [get]
func (h *AvatarHandler) Get(c *gin.Context) {
	link, err := h.avatarService.URL(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Avatar retrieved successfully", gin.H{"avatar": link})
}
