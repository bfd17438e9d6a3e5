package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/services"
	"github.com/sjperalta/agent-portal-api/internal/session"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// @Summary Health Check
// @Description Checks if the API is running
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "agent-portal-api",
		"version": "1.0.0",
	})
}

// SessionWriter issues and clears the session cookie. *session.Store satisfies it.
type SessionWriter interface {
	Create(c *gin.Context, user models.SessionUser) error
	Destroy(c *gin.Context)
}

var _ SessionWriter = (*session.Store)(nil)

type AuthHandler struct {
	authService *services.AuthService
	sessions    SessionWriter
}

func NewAuthHandler(authService *services.AuthService, sessions SessionWriter) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// @Summary Login
// @Description Starts an admin session with the admin password, or an agent session with email and the agent passcode
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.LoginCredentials true "Login Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var creds services.LoginCredentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidBody})
		return
	}

	user, err := h.authService.Login(c.Request.Context(), creds)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.sessions.Create(c, *user); err != nil {
		respondError(c, apperr.Internal("failed to create session", err))
		return
	}
	h.authService.RecordLogin(c.Request.Context(), user)

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// @Summary Logout
// @Description Ends the current session. Succeeds without a session.
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authService.Logout(c.Request.Context(), currentUser(c))
	h.sessions.Destroy(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary Current Session
// @Description Returns the identity of the current session, if any
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user, "isAuthenticated": user != nil})
}
