package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatalf("cookie %s not set", CookieName)
	return nil
}

func TestStore_IssueParseRoundTrip(t *testing.T) {
	s := NewStore("secret", 0, false)

	users := []models.SessionUser{
		{Role: models.RoleAdmin},
		{Role: models.RoleAgent, AgentID: "agent-1", AgentName: "Sarah Johnson"},
	}
	for _, u := range users {
		token, err := s.Issue(u)
		require.NoError(t, err)

		got, ok := s.Parse(token)
		require.True(t, ok)
		assert.Equal(t, u, got)
	}
}

func TestStore_IssueRejectsInvalidUsers(t *testing.T) {
	s := NewStore("secret", 0, false)

	_, err := s.Issue(models.SessionUser{Role: "superuser"})
	assert.Error(t, err)

	_, err = s.Issue(models.SessionUser{Role: models.RoleAgent})
	assert.Error(t, err)
}

func TestStore_ParseRejectsBadTokens(t *testing.T) {
	s := NewStore("secret", time.Hour, false)
	token, err := s.Issue(models.SessionUser{Role: models.RoleAdmin})
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, ok := s.Parse("")
		assert.False(t, ok)
	})

	t.Run("garbage", func(t *testing.T) {
		_, ok := s.Parse("eyJyb2xlIjoiYWRtaW4ifQ==")
		assert.False(t, ok)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewStore("other", time.Hour, false)
		_, ok := other.Parse(token)
		assert.False(t, ok)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewStore("secret", time.Hour, false)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, ok := later.Parse(token)
		assert.False(t, ok)
	})

	t.Run("old version", func(t *testing.T) {
		claims := Claims{
			Version: 0,
			Role:    models.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		old, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, ok := s.Parse(old)
		assert.False(t, ok)
	})

	t.Run("agent without id", func(t *testing.T) {
		claims := Claims{
			Version: ClaimsVersion,
			Role:    models.RoleAgent,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, ok := s.Parse(forged)
		assert.False(t, ok)
	})
}

func TestStore_CreateSetsCookieAttributes(t *testing.T) {
	s := NewStore("secret", DefaultTTL, true)
	c, w := newContext(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))

	require.NoError(t, s.Create(c, models.SessionUser{Role: models.RoleAdmin}))

	ck := sessionCookie(t, w)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, 7*24*60*60, ck.MaxAge)
}

func TestStore_ReadFromCookieAndBearer(t *testing.T) {
	s := NewStore("secret", 0, false)
	token, err := s.Issue(models.SessionUser{Role: models.RoleAgent, AgentID: "a1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	c, _ := newContext(req)
	user, ok := s.Read(c)
	require.True(t, ok)
	assert.Equal(t, "a1", user.AgentID)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c, _ = newContext(req)
	user, ok = s.Read(c)
	require.True(t, ok)
	assert.Equal(t, models.RoleAgent, user.Role)

	c, _ = newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	_, ok = s.Read(c)
	assert.False(t, ok)
}

func TestStore_ReadClearsUndecodableCookie(t *testing.T) {
	s := NewStore("secret", 0, false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-token"})
	c, w := newContext(req)

	_, ok := s.Read(c)
	assert.False(t, ok)

	ck := sessionCookie(t, w)
	assert.Equal(t, "", ck.Value)
	assert.True(t, ck.MaxAge < 0)
	assert.True(t, strings.Contains(w.Header().Get("Set-Cookie"), "Max-Age=0"))
}
