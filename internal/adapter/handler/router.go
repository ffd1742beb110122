package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-notes/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-notes/pkg/metrics"
)

// Router holds all handlers
type Router struct {
	Auth     *Auth
	Analysis *Analysis
	Meeting  *Meeting
	Todo     *Todo
	Profile  *Profile
	Search   *Search
	System   *System

	// Authenticator backs the bearer middleware on protected routes
	Authenticator middleware.Authenticator
	// AnalyzeLimiter throttles POST /v1/analyze per user; nil disables it
	AnalyzeLimiter *middleware.RateLimiter
	Metrics        *metrics.Metrics
	Diagnostics    bool
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.System.Health)
	if rt.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(rt.Metrics.Handler()))
	}
	if rt.Diagnostics {
		e.GET("/debug/diagnostics", rt.System.Diagnostics)
	}

	// API v1 group
	v1 := e.Group("/v1")
	requireAuth := middleware.EchoAuth(rt.Authenticator)

	rt.setupAuthRoutes(v1, requireAuth)
	rt.setupAnalysisRoutes(v1, requireAuth)
	rt.setupMeetingRoutes(v1, requireAuth)
	rt.setupTodoRoutes(v1, requireAuth)

	v1.GET("/profiles", rt.Profile.Suggest, requireAuth)
	v1.GET("/search", rt.Search.Search, requireAuth)
	v1.POST("/search", rt.Search.Search, requireAuth)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	authGroup := g.Group("/auth")

	authGroup.POST("/signup", rt.Auth.Signup)
	authGroup.POST("/login", rt.Auth.Login)
	authGroup.POST("/refresh", rt.Auth.RefreshToken)
	authGroup.POST("/logout", rt.Auth.Logout)
	authGroup.GET("/me", rt.Auth.Me, requireAuth)
	authGroup.GET("/google/login", rt.Auth.GoogleLogin)
	authGroup.GET("/google/callback", rt.Auth.GoogleCallback)
}

func (rt *Router) setupAnalysisRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	analyze := []echo.MiddlewareFunc{requireAuth}
	if rt.AnalyzeLimiter != nil {
		analyze = append(analyze, rt.AnalyzeLimiter.Middleware())
	}

	g.GET("/analyze", rt.Analysis.Status)
	g.POST("/analyze", rt.Analysis.Analyze, analyze...)
	g.POST("/transcripts/upload", rt.Analysis.UploadTranscript, requireAuth)
}

func (rt *Router) setupMeetingRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	meetings := g.Group("/meetings", requireAuth)
	meetings.POST("", rt.Meeting.Create)
	meetings.GET("", rt.Meeting.List)
	meetings.GET("/:id", rt.Meeting.Get)
}

func (rt *Router) setupTodoRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	todos := g.Group("/todos", requireAuth)
	todos.GET("", rt.Todo.List)
	todos.GET("/mine", rt.Todo.Mine)
	todos.PATCH("/:id/status", rt.Todo.UpdateStatus)

	g.POST("/admin/todos/status", rt.Todo.AdminUpdateStatus, requireAuth)
}
