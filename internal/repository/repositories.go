package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Agent      AgentRepository
	Inspection InspectionRepository
	Document   DocumentRepository
	Audit      AuditRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Agent:      NewAgentRepository(db),
		Inspection: NewInspectionRepository(db),
		Document:   NewDocumentRepository(db),
		Audit:      NewAuditRepository(db),
	}
}

// ErrDuplicateEmail is returned when an agent email is already registered.
var ErrDuplicateEmail = errors.New("An agent with this email already exists")

// isDuplicateKeyError recognizes unique violations from PostgreSQL and SQLite,
// whether or not gorm translated them.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern builds a case-insensitive substring pattern for
// LOWER(col) LIKE ? ESCAPE '\'. Wildcards in s match literally.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}
