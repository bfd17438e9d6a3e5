// Package session encodes the caller identity into a signed, versioned token
// carried in an HTTP-only cookie. There is no server-side session state.
package session

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sjperalta/agent-portal-api/internal/models"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "agent-portal-session"
	// ClaimsVersion is bumped whenever the claims layout changes; older tokens stop decoding.
	ClaimsVersion = 1
	// DefaultTTL is the session lifetime.
	DefaultTTL = 7 * 24 * time.Hour
)

// Claims represents the JWT claims structure
type Claims struct {
	Version   int         `json:"v"`
	Role      models.Role `json:"role"`
	AgentID   string      `json:"agentId,omitempty"`
	AgentName string      `json:"agentName,omitempty"`
	jwt.RegisteredClaims
}

// Store issues and verifies session tokens and manages the session cookie.
type Store struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewStore creates a session store. secure marks the cookie Secure (production).
func NewStore(secret string, ttl time.Duration, secure bool) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Issue encodes user into a signed token.
func (s *Store) Issue(user models.SessionUser) (string, error) {
	if err := checkUser(user); err != nil {
		return "", err
	}

	now := s.now()
	claims := Claims{
		Version:   ClaimsVersion,
		Role:      user.Role,
		AgentID:   user.AgentID,
		AgentName: user.AgentName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse verifies a token and returns the identity it carries. Any malformed,
// tampered, expired or outdated token yields ok=false.
func (s *Store) Parse(token string) (models.SessionUser, bool) {
	if token == "" {
		return models.SessionUser{}, false
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid || claims.Version != ClaimsVersion {
		return models.SessionUser{}, false
	}

	user := models.SessionUser{
		Role:      claims.Role,
		AgentID:   claims.AgentID,
		AgentName: claims.AgentName,
	}
	if checkUser(user) != nil {
		return models.SessionUser{}, false
	}
	return user, true
}

// Create issues a token for user and sets the session cookie.
func (s *Store) Create(c *gin.Context, user models.SessionUser) error {
	token, err := s.Issue(user)
	if err != nil {
		return err
	}
	s.setCookie(c, token, int(s.ttl/time.Second))
	return nil
}

// Read returns the session carried by the request. The cookie is preferred;
// an Authorization bearer token is accepted for non-browser clients. An
// undecodable cookie is cleared.
func (s *Store) Read(c *gin.Context) (models.SessionUser, bool) {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		user, ok := s.Parse(cookie)
		if !ok {
			s.Destroy(c)
		}
		return user, ok
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return s.Parse(strings.TrimSpace(parts[1]))
	}

	return models.SessionUser{}, false
}

// Destroy expires the session cookie.
func (s *Store) Destroy(c *gin.Context) {
	s.setCookie(c, "", -1)
}

func (s *Store) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", s.secure, true)
}

func checkUser(user models.SessionUser) error {
	if !user.Role.Valid() {
		return errors.New("session role must be admin or agent")
	}
	if user.Role == models.RoleAgent && user.AgentID == "" {
		return errors.New("agent session requires an agent id")
	}
	return nil
}
