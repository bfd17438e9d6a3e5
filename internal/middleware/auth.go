package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/authz"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/services"
	"github.com/sjperalta/agent-portal-api/internal/session"
)

const sessionKey = "session"

// Session loads the caller's session, when there is a valid one, and attaches
// the client address and user agent to the request context for audit entries.
// It never rejects a request; use RequireAuth or RequireRole for that.
func Session(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := store.Read(c); ok {
			c.Set(sessionKey, &user)
		}

		ctx := services.WithRequestMeta(c.Request.Context(), services.RequestMeta{
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// CurrentUser returns the session loaded by Session, or nil.
func CurrentUser(c *gin.Context) *models.SessionUser {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil
	}
	user, _ := v.(*models.SessionUser)
	return user
}

// RequireAuth aborts with 401 when the request carries no session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := authz.RequireAuth(CurrentUser(c)); err != nil {
			abort(c, err)
			return
		}
		c.Next()
	}
}

// RequireRole aborts with 401 without a session and 403 when the session's
// role is not one of roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := authz.RequireRole(CurrentUser(c), roles...); err != nil {
			abort(c, err)
			return
		}
		c.Next()
	}
}

// RequireAdmin returns a middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperr.HTTPStatus(err), gin.H{
		"error": apperr.PublicMessage(err),
	})
}
