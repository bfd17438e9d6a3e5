package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sjperalta/agent-portal-api/docs" // Swagger docs
	"github.com/sjperalta/agent-portal-api/internal/config"
	"github.com/sjperalta/agent-portal-api/internal/database"
	"github.com/sjperalta/agent-portal-api/internal/handlers"
	"github.com/sjperalta/agent-portal-api/internal/jobs"
	"github.com/sjperalta/agent-portal-api/internal/middleware"
	"github.com/sjperalta/agent-portal-api/internal/repository"
	"github.com/sjperalta/agent-portal-api/internal/services"
	"github.com/sjperalta/agent-portal-api/internal/session"
	"github.com/sjperalta/agent-portal-api/internal/storage"
	"github.com/sjperalta/agent-portal-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// loginWindow is the rate limiting window for POST /auth/login.
const loginWindow = time.Minute

// @title Agent Portal API
// @version 1.0
// @description REST API for the real estate agent portal

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry (GlitchTip) when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	if cfg.SeedDemoData {
		if err := database.Seed(context.Background(), db); err != nil {
			logger.Error("Failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	// Initialize storage
	blobs, files, closeStorage, err := setupStorage(cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Audit writes run on the background worker unless disabled
	var worker *jobs.Worker
	var runner jobs.Runner = jobs.Inline{}
	if cfg.AuditAsync {
		worker = jobs.NewWorker(cfg.WorkerCount)
		runner = worker
		logger.Info("Started background worker", "goroutines", cfg.WorkerCount)
	}

	// Initialize services
	svcs, err := services.NewServices(repos, runner, blobs, cfg)
	if err != nil {
		logger.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	sessions := session.NewStore(cfg.SessionSecret, cfg.SessionTTL(), cfg.IsProduction())

	// Login rate limiting needs Redis
	var counter middleware.Counter
	if cfg.RedisURL != "" {
		rdb, err := connectRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn("Login rate limiting disabled", "error", err)
		} else {
			defer rdb.Close()
			counter = rdb
			logger.Info("Connected to Redis")
		}
	}

	// Initialize handlers
	h := handlers.NewHandlers(svcs, sessions, files)
	if worker != nil {
		h.Jobs = handlers.NewJobHandler(worker)
	}

	// Setup router
	router := setupRouter(h, cfg, handlers.RouteOptions{
		Sessions:     sessions,
		LoginLimiter: middleware.RateLimit(counter, cfg.LoginRateLimit, loginWindow),
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Drain pending audit writes
	if worker != nil {
		worker.Shutdown()
		logger.Info("Background worker stopped")
	}

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

// setupStorage builds the configured blob store. files is non-nil only for
// local storage, whose signed links are served by this process.
func setupStorage(cfg *config.Config) (storage.BlobStore, handlers.FileOpener, func(), error) {
	if cfg.StorageProvider == config.StorageProviderGCS {
		gcs, err := storage.NewGCSStorage(context.Background(), cfg.GCSBucket, cfg.GCSCredentialsJSON, cfg.SignedURLTTL())
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("Initialized GCS storage", "bucket", cfg.GCSBucket)
		return gcs, nil, func() { gcs.Close() }, nil
	}

	local, err := storage.NewLocalStorage(cfg.StoragePath, cfg.PublicBaseURL+"/api/v1/files", cfg.SessionSecret, cfg.SignedURLTTL())
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("Initialized local storage", "path", cfg.StoragePath)
	return local, local, func() {}, nil
}

func connectRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func setupRouter(h *handlers.Handlers, cfg *config.Config, opts handlers.RouteOptions) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/files"})))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handlers.RegisterRoutes(router, h, opts)

	return router
}
