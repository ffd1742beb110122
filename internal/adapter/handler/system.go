package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-notes/internal/usecase/analysis"
)

const diagnosticsTimeout = 5 * time.Second

// Pinger checks a backend connection; *sql.DB satisfies it
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SystemOptions holds the values reported by health and diagnostics
type SystemOptions struct {
	Environment string
	Timezone    string
	LLMBaseURL  string
}

// System serves liveness and the opt-in diagnostics endpoint
type System struct {
	opts     SystemOptions
	db       Pinger
	cache    cache.Store
	analysis analysis.Service
	archive  storage.TranscriptArchive
	logger   *zap.Logger
}

// NewSystem creates a new system handler. db, store and archive may be nil.
func NewSystem(
	opts SystemOptions,
	db Pinger,
	store cache.Store,
	analysisSvc analysis.Service,
	archive storage.TranscriptArchive,
	logger *zap.Logger,
) *System {
	return &System{
		opts:     opts,
		db:       db,
		cache:    store,
		analysis: analysisSvc,
		archive:  archive,
		logger:   logger,
	}
}

// Health returns health status
func (h *System) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, common.HealthResponse{
		Status:      "ok",
		Environment: h.opts.Environment,
	})
}

// Diagnostics reports backend wiring. It is routed only when
// DEBUG_DIAGNOSTICS is enabled and never includes secrets.
// GET /debug/diagnostics
func (h *System) Diagnostics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), diagnosticsTimeout)
	defer cancel()

	resp := common.DiagnosticsResponse{
		Environment: h.opts.Environment,
		Timezone:    h.opts.Timezone,
		Database:    "disabled",
		Cache:       "disabled",
		LLM: map[string]interface{}{
			"base_url": h.opts.LLMBaseURL,
		},
	}

	if h.db != nil {
		resp.Database = pingStatus(ctx, h.db.PingContext)
	}
	if h.cache != nil {
		resp.Cache = h.cache.Name() + ": " + pingStatus(ctx, h.cache.Ping)
	}
	if h.analysis != nil {
		st := h.analysis.Status()
		resp.LLM["has_key"] = st.HasKey
	}
	if h.archive != nil {
		info, err := h.archive.BucketInfo(ctx)
		if err != nil {
			if h.logger != nil {
				h.logger.Warn("diagnostics: bucket info failed", zap.Error(err))
			}
			info = map[string]interface{}{"error": err.Error()}
		}
		resp.Storage = info
	}

	return HandleSuccess(h.logger, c, resp)
}

func pingStatus(ctx context.Context, ping func(context.Context) error) string {
	if err := ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
