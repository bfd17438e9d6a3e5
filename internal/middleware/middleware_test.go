package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/internal/services"
	"github.com/sjperalta/agent-portal-api/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newStore() *session.Store {
	return session.NewStore("test-secret", time.Hour, false)
}

func withCookie(t *testing.T, store *session.Store, req *http.Request, user models.SessionUser) {
	t.Helper()
	token, err := store.Issue(user)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestSessionAndRequireAuth(t *testing.T) {
	store := newStore()
	router := gin.New()
	router.Use(Session(store))
	router.GET("/me", RequireAuth(), func(c *gin.Context) {
		user := CurrentUser(c)
		meta := services.RequestMetaFrom(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"role": user.Role, "agentId": user.AgentID, "ua": meta.UserAgent})
	})

	t.Run("no session", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Authentication required", errorBody(t, w))
	})

	t.Run("valid session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("User-Agent", "portal-test")
		withCookie(t, store, req, models.SessionUser{Role: models.RoleAgent, AgentID: "agent-1", AgentName: "Sarah"})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "agent", body["role"])
		assert.Equal(t, "agent-1", body["agentId"])
		assert.Equal(t, "portal-test", body["ua"])
	})

	t.Run("corrupt cookie is treated as anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "not-a-token"})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	store := newStore()
	router := gin.New()
	router.Use(Session(store))
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	withCookie(t, store, req, models.SessionUser{Role: models.RoleAgent, AgentID: "agent-1"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Insufficient permissions", errorBody(t, w))

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	withCookie(t, store, req, models.SessionUser{Role: models.RoleAdmin})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

type memCounter struct {
	counts    map[string]int64
	expires   map[string]time.Duration
	err       error
	expireErr error
}

func newMemCounter() *memCounter {
	return &memCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (m *memCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	if m.err != nil {
		return redis.NewIntResult(0, m.err)
	}
	m.counts[key]++
	return redis.NewIntResult(m.counts[key], nil)
}

func (m *memCounter) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	if m.expireErr != nil {
		return redis.NewBoolResult(false, m.expireErr)
	}
	m.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (m *memCounter) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := m.counts[key]; ok {
			delete(m.counts, key)
			delete(m.expires, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRateLimit(t *testing.T) {
	counter := newMemCounter()
	router := gin.New()
	router.POST("/login", RateLimit(counter, 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	require.Len(t, counter.expires, 1)
	for _, exp := range counter.expires {
		assert.Equal(t, time.Minute, exp)
	}
}

func TestRateLimit_DropsKeyWhenWindowCannotBeSet(t *testing.T) {
	counter := newMemCounter()
	counter.expireErr = errors.New("READONLY replica")

	router := gin.New()
	router.POST("/login", RateLimit(counter, 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Empty(t, counter.counts)
	assert.Empty(t, counter.expires)

	counter.expireErr = nil
	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Len(t, counter.expires, 1)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	counter := newMemCounter()
	counter.err = errors.New("connection refused")

	router := gin.New()
	router.POST("/login", RateLimit(counter, 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	router := gin.New()
	router.POST("/login", RateLimit(nil, 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestCORS_AllowsConfiguredOriginWithCredentials(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
