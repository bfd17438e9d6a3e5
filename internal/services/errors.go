package services

import (
	"errors"

	"github.com/sjperalta/agent-portal-api/internal/apperr"
	"gorm.io/gorm"
)

// Common service messages
const (
	MsgAgentNotFound      = "Agent not found"
	MsgInspectionNotFound = "Inspection not found"
	MsgDocumentNotFound   = "Document not found"
	MsgInvalidAgentID     = "Invalid agent ID"
)

// lookupError maps a repository lookup failure: a missing row becomes NotFound
// with msg, anything else is an internal failure.
func lookupError(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(msg)
	}
	return apperr.Internal("failed to load record", err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
