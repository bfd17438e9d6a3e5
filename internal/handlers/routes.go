package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/agent-portal-api/internal/middleware"
	"github.com/sjperalta/agent-portal-api/internal/session"
)

// RouteOptions carries the middleware the API routes depend on.
type RouteOptions struct {
	Sessions *session.Store
	// LoginLimiter guards POST /auth/login. Optional.
	LoginLimiter gin.HandlerFunc
}

// RegisterRoutes mounts the API under /api/v1.
func RegisterRoutes(router *gin.Engine, h *Handlers, opts RouteOptions) {
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Session(opts.Sessions))

	// Health check (public)
	v1.GET("/health", h.Health.Index)

	// Authentication (public)
	auth := v1.Group("/auth")
	{
		login := []gin.HandlerFunc{h.Auth.Login}
		if opts.LoginLimiter != nil {
			login = append([]gin.HandlerFunc{opts.LoginLimiter}, login...)
		}
		auth.POST("/login", login...)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/session", h.Auth.Session)
	}

	// Signed local downloads carry their own token
	if h.Files != nil {
		v1.GET("/files", h.Files.Download)
	}

	// Protected routes (requires authentication)
	protected := v1.Group("")
	protected.Use(middleware.RequireAuth())
	{
		// Admin-only routes
		admin := protected.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/agents", h.Agent.Create)
			admin.PUT("/agents/:id", h.Agent.Update)
			admin.DELETE("/agents/:id", h.Agent.Delete)

			admin.POST("/inspections", h.Inspection.Create)
			admin.PUT("/inspections/:id", h.Inspection.Update)

			admin.POST("/documents", h.Document.Create)
			admin.DELETE("/documents/:id", h.Document.Delete)

			admin.GET("/audits", h.Audit.Index)
			admin.GET("/audits/export", h.Audit.Export)

			admin.GET("/dashboard/stats", h.Dashboard.Stats)
			admin.GET("/dashboard/activity", h.Dashboard.Activity)

			if h.Jobs != nil {
				admin.GET("/jobs/status", h.Jobs.Status)
			}
		}

		// Admin or owning agent; services narrow agent sessions to their own data
		protected.GET("/agents", h.Agent.Index)
		protected.GET("/agents/:id", h.Agent.Show)
		protected.GET("/agents/:id/report", h.Agent.Report)

		protected.GET("/inspections", h.Inspection.Index)
		protected.GET("/inspections/:id", h.Inspection.Show)

		protected.GET("/documents", h.Document.Index)
		protected.GET("/documents/:id", h.Document.Show)
		protected.GET("/documents/:id/url", h.Document.URL)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}
