package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/storehub/backend/internal/application/identity"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register godoc
//
//	@Summary	Register a new account
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		RegisterRequest	true	"Registration"
//	@Success	201		{object}	dto.Response
//	@Failure	422		{object}	dto.Response
//	@Failure	429		{object}	dto.Response
//	@Router		/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), appidentity.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Profile:   req.ProfileRequest.toInput(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "User registered successfully", result)
}

// Login godoc
//
//	@Summary	Sign in with email and password
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		LoginRequest	true	"Credentials"
//	@Success	200		{object}	dto.Response
//	@Failure	401		{object}	dto.Response
//	@Failure	403		{object}	dto.Response
//	@Failure	422		{object}	dto.Response
//	@Failure	429		{object}	dto.Response
//	@Router		/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), appidentity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, "Login successful", result)
}

// Logout godoc
//
//	@Summary	Revoke the presented token
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetClaims(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Logged out successfully", nil)
}

// Profile godoc
//
//	@Summary	Get the authenticated user
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.authService.Profile(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Profile retrieved successfully", gin.H{"user": user})
}

// UpdateProfile godoc
//
//	@Summary	Update the authenticated user
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		UpdateProfileRequest	true	"Profile fields"
//	@Success	200		{object}	dto.Response
//	@Failure	401		{object}	dto.Response
//	@Failure	422		{object}	dto.Response
//	@Security	BearerAuth
//	@Router		/auth/profile [put]
//	@Router		/auth/profile [patch]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, "Profile updated successfully", gin.H{"user": user})
}
