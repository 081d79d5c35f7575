package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/folio-api/internal/dto"
	apierrors "github.com/yukikurage/folio-api/internal/errors"
	"github.com/yukikurage/folio-api/internal/middleware"
	"github.com/yukikurage/folio-api/internal/response"
	"github.com/yukikurage/folio-api/internal/services"
)

// AuthHandler coordinates registration, login and profile handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type registerRequest struct {
	Username  string  `json:"username" binding:"required,min=3,max=50"`
	Email     string  `json:"email" binding:"required,email,max=255"`
	Password  string  `json:"password" binding:"required,password,max=128"`
	FirstName *string `json:"firstName" binding:"omitempty,max=100"`
	LastName  *string `json:"lastName" binding:"omitempty,max=100"`
	Bio       *string `json:"bio"`
	Avatar    *string `json:"avatar" binding:"omitempty,max=500"`
	Website   *string `json:"website" binding:"omitempty,max=500"`
}

// Register creates an account and returns it with a token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Avatar:    req.Avatar,
		Website:   req.Website,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	response.Created(c, dto.AuthResponse{User: dto.ToUserDTO(*user), Token: token}, "User registered successfully")
}

// Login authenticates a user and issues a token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	response.OKWithMessage(c, dto.AuthResponse{User: dto.ToUserDTO(*user), Token: token}, "Login successful")
}

// GetProfile returns the authenticated user.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	response.OK(c, dto.ToUserDTO(*user))
}

// UpdateProfile changes only the supplied profile fields.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateProfileRequest struct {
		FirstName *string `json:"firstName" binding:"omitempty,max=100"`
		LastName  *string `json:"lastName" binding:"omitempty,max=100"`
		Bio       *string `json:"bio"`
		Avatar    *string `json:"avatar" binding:"omitempty,max=500"`
		Website   *string `json:"website" binding:"omitempty,max=500"`
	}

	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Avatar:    req.Avatar,
		Website:   req.Website,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	response.OKWithMessage(c, dto.ToUserDTO(*user), "Profile updated successfully")
}

// DeleteProfile removes the account together with its content.
func (h *AuthHandler) DeleteProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.authService.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondAuthError(c, err)
		return
	}

	response.Message(c, "Account deleted successfully")
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.BadRequest(c, "Username already exists")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.BadRequest(c, "Email already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.MsgInvalidCredentials)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	default:
		_ = c.Error(err)
	}
}
