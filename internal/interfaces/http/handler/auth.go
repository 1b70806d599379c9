package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/silverledger/backend/internal/application/identity"
	"github.com/silverledger/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles registration, login and the current user
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *appidentity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @ID           registerUser
// @Summary      Register a staff account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.RegisterRequest true "Registration request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req appidentity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Login godoc
// @ID           loginUser
// @Summary      Exchange credentials for a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.LoginRequest true "Login request"
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req appidentity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	h.Success(c, appidentity.UserResponse{
		ID:       middleware.GetAuthUserID(c),
		Username: middleware.GetAuthUsername(c),
		Role:     middleware.GetAuthRole(c),
	})
}
