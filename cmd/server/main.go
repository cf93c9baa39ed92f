package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/crewdesk-api/internal/clock"
	"github.com/yukikurage/crewdesk-api/internal/config"
	"github.com/yukikurage/crewdesk-api/internal/constants"
	"github.com/yukikurage/crewdesk-api/internal/database"
	"github.com/yukikurage/crewdesk-api/internal/handlers"
	"github.com/yukikurage/crewdesk-api/internal/logger"
	"github.com/yukikurage/crewdesk-api/internal/metrics"
	"github.com/yukikurage/crewdesk-api/internal/middleware"
	"github.com/yukikurage/crewdesk-api/internal/repository"
	"github.com/yukikurage/crewdesk-api/internal/services"
	"github.com/yukikurage/crewdesk-api/internal/store"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: "crewdesk-api",
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.GetLogger().Sync()
	zlog := logger.GetLogger()

	metrics.Register()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Workspaces live in memory unless a database driver is configured
	var backend store.Backend
	if cfg.DBDriver != database.DriverMemory {
		if err := database.Connect(cfg); err != nil {
			zlog.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := database.MigrateDatabase(database.GetDB()); err != nil {
			zlog.Fatal("Failed to run migrations", zap.Error(err))
		}
		repo := repository.NewWorkspaceRepository(database.GetDB())
		tenantIDs, err := repo.ListTenantIDs(context.Background())
		if err != nil {
			zlog.Fatal("Failed to list workspaces", zap.Error(err))
		}
		zlog.Info("Workspaces available", zap.Int("tenants", len(tenantIDs)))
		backend = repo
	}
	workspaces := store.New(backend)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(logger.Middleware())
	r.Use(metrics.Middleware())

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		zlog.Fatal("Failed to create session store", zap.Error(err))
	}
	// Configure session options based on environment
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAgeSeconds,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	// Initialize distiller
	var distiller services.Distiller
	if cfg.OpenAIAPIKey != "" {
		distiller = services.NewOpenAIDistiller(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		zlog.Warn("OPENAI_API_KEY is not set, task distillation is disabled")
	}

	// Initialize services and handlers
	authService := services.NewAuthService(workspaces, clock.System, clock.NewID)
	directoryService := services.NewDirectoryService(workspaces, clock.NewID, cfg.ImportDefaultPassword)
	taskService := services.NewTaskService(workspaces, distiller, clock.System, clock.NewID, cfg.DistillTimeout)
	notificationService := services.NewNotificationService(workspaces)

	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Directory:    handlers.NewDirectoryHandler(directoryService),
		Task:         handlers.NewTaskHandler(taskService),
		Notification: handlers.NewNotificationHandler(notificationService),
	})

	// Start server
	zlog.Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("db_driver", cfg.DBDriver),
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}

// newSessionStore uses Redis when REDIS_HOST is set and signed cookies otherwise.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.RedisHost == "" {
		return cookie.NewStore([]byte(cfg.SessionSecret)), nil
	}

	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	return redisStore.NewStore(
		10,                        // Redis pool size
		"tcp",                     // network type
		redisAddr,                 // Redis address from config
		"",                        // username (empty for default user)
		"",                        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
}
