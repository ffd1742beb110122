package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/meeting-notes/pkg/validator"

	"github.com/johnquangdev/meeting-notes/internal/adapter/handler"
	"github.com/johnquangdev/meeting-notes/internal/adapter/repository"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/external/oauth"
	httpmw "github.com/johnquangdev/meeting-notes/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-notes/internal/usecase/analysis"
	"github.com/johnquangdev/meeting-notes/internal/usecase/auth"
	"github.com/johnquangdev/meeting-notes/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-notes/internal/usecase/profile"
	"github.com/johnquangdev/meeting-notes/internal/usecase/search"
	"github.com/johnquangdev/meeting-notes/internal/usecase/todo"
	pkgai "github.com/johnquangdev/meeting-notes/pkg/ai"
	"github.com/johnquangdev/meeting-notes/pkg/config"
	"github.com/johnquangdev/meeting-notes/pkg/duesignal"
	"github.com/johnquangdev/meeting-notes/pkg/jwt"
	"github.com/johnquangdev/meeting-notes/pkg/metrics"
)

// @title           Meeting Notes API
// @version         1.0
// @description     Turns meeting transcripts into summaries, decisions and tracked todos.

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	m := metrics.New()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()
	e.HTTPErrorHandler = handler.ErrorHandler(logger)

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(m.Middleware())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	logger.Info("connecting to database")
	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get sql.DB", zap.Error(err))
	}

	store, err := newCacheStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to cache", zap.Error(err))
	}
	defer store.Close()

	var archive storage.TranscriptArchive
	if cfg.Storage.Enabled {
		logger.Info("connecting to object storage", zap.String("endpoint", cfg.Storage.Endpoint))
		minioClient, err := storage.NewMinIOClient(ctx, &cfg.Storage)
		if err != nil {
			logger.Fatal("failed to initialize object storage", zap.Error(err))
		}
		archive = minioClient
	}

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	searchRepo := repository.NewSearchRepository(db)

	// Initialize OAuth provider only when configured
	var google oauth.Provider
	if cfg.OAuth.Google.Enabled() {
		google = oauth.NewGoogleProvider(
			cfg.OAuth.Google.ClientID,
			cfg.OAuth.Google.ClientSecret,
			cfg.OAuth.Google.RedirectURL,
		)
	} else {
		logger.Warn("google login disabled: GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET is empty")
	}

	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize services
	authService := auth.NewService(
		profileRepo,
		sessionRepo,
		jwtManager,
		oauth.NewStateManager(store),
		google,
		logger,
	)
	profileService := profile.NewProfileService(profileRepo, logger)

	difyClient := pkgai.NewDifyClient(&cfg.Dify)
	if !difyClient.HasKey() {
		logger.Warn("DIFY_API_KEY is not set; POST /v1/analyze will fail until it is configured")
	}
	analysisService := analysis.NewAnalysisService(
		difyClient,
		profileService,
		store,
		m,
		analysis.Options{
			Language: analysis.PromptLanguage(cfg.Dify.PromptLang),
			CacheTTL: cfg.Dify.CacheTTL,
		},
		logger,
	)
	meetingService := meeting.NewMeetingService(meetingRepo, archive, m, logger)
	todoService := todo.NewTodoService(todoRepo, m, logger)
	searchService := search.NewSearchService(searchRepo, logger)

	loc := cfg.Location()
	classifier := duesignal.NewClassifier(func() time.Time { return time.Now().In(loc) })

	// Setup router with handlers
	router := &handler.Router{
		Auth: handler.NewAuth(authService, handler.AuthOptions{
			FrontendURL:   cfg.OAuth.Google.FrontendURL,
			SecureCookie:  cfg.IsProduction(),
			RefreshMaxAge: int(cfg.JWT.RefreshExpiry.Seconds()),
		}, logger),
		Analysis: handler.NewAnalysis(analysisService, logger),
		Meeting:  handler.NewMeeting(meetingService, classifier, loc, logger),
		Todo:     handler.NewTodo(todoService, classifier, logger),
		Profile:  handler.NewProfile(profileService, logger),
		Search:   handler.NewSearch(searchService, logger),
		System: handler.NewSystem(handler.SystemOptions{
			Environment: cfg.Server.Environment,
			Timezone:    cfg.App.Timezone,
			LLMBaseURL:  cfg.Dify.BaseURL,
		}, sqlDB, store, analysisService, archive, logger),
		Authenticator:  authService,
		AnalyzeLimiter: httpmw.NewRateLimiter(cfg.App.AnalyzeRateLimit, cfg.App.AnalyzeBurst),
		Metrics:        m,
		Diagnostics:    cfg.App.DebugDiagnostics,
	}
	router.Setup(e)
	if cfg.App.DebugDiagnostics {
		logger.Warn("diagnostics endpoint enabled at /debug/diagnostics")
	}

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newCacheStore uses Redis when enabled and an in-process store otherwise.
// The in-process store is only correct for a single API instance.
func newCacheStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Store, error) {
	if !cfg.Redis.Enabled {
		logger.Info("using in-memory cache")
		return cache.NewMemoryStore(), nil
	}
	logger.Info("connecting to redis", zap.String("addr", cfg.GetRedisAddr()))
	return cache.NewRedisStore(ctx, cfg)
}
