package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/crewdesk-api/internal/constants"
	"github.com/yukikurage/crewdesk-api/internal/dto"
	apierrors "github.com/yukikurage/crewdesk-api/internal/errors"
	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register opens a new workspace and signs its admin in.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		TenantName string `json:"tenant_name"`
		Industry   string `json:"industry"`
		Name       string `json:"name"`
		Username   string `json:"username"`
		Password   string `json:"password"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, tenant, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		TenantName: req.TenantName,
		Industry:   req.Industry,
		Name:       req.Name,
		Username:   req.Username,
		Password:   req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if !startSession(c, *user) {
		return
	}
	c.JSON(http.StatusCreated, dto.ToSessionDTO(*user, *tenant))
}

// Login authenticates a user within a workspace and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		TenantID string `json:"tenant_id" binding:"required"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		TenantID: req.TenantID,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if !startSession(c, *user) {
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user and its workspace.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	user, tenant, err := h.authService.GetUser(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionDTO(*user, *tenant))
}

func startSession(c *gin.Context, user models.User) bool {
	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	session.Set(constants.ContextKeyTenantID, user.TenantID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return false
	}
	return true
}
