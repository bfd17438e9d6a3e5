package handlers

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"github.com/sjperalta/agent-portal-api/internal/middleware"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/pkg/logger"
)

// MsgInvalidBody is returned when a JSON body cannot be decoded.
const MsgInvalidBody = "Invalid request body"

// respondError writes err as {"error": msg} with the status of its kind.
// Internal failures are logged and reported; their cause is never returned.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
	}
	c.JSON(status, gin.H{"error": apperr.PublicMessage(err)})
}

func currentUser(c *gin.Context) *models.SessionUser {
	return middleware.CurrentUser(c)
}
