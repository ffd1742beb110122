// Package metrics defines the Prometheus metrics exported on /metrics.
package metrics

import (
	stdErrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/johnquangdev/meeting-notes/errors"
)

// Metrics holds all Prometheus metrics of the service.
type Metrics struct {
	gatherer prometheus.Gatherer

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Analysis metrics
	AnalyzeTotal      *prometheus.CounterVec
	LLMLatencySeconds *prometheus.HistogramVec

	// Persistence metrics
	MeetingsSavedTotal     prometheus.Counter
	TranscriptArchiveTotal *prometheus.CounterVec
	TodoStatusUpdatesTotal *prometheus.CounterVec
}

// New creates the metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry creates the metrics on reg; gatherer serves /metrics.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: gatherer,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_notes_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meeting_notes_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		AnalyzeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_notes_analyze_total",
				Help: "Transcript analyses by outcome (parsed, unparsed, cached, error)",
			},
			[]string{"outcome"},
		),
		LLMLatencySeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meeting_notes_llm_latency_seconds",
				Help:    "Latency of chat-messages calls",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 120},
			},
			[]string{"status"},
		),

		MeetingsSavedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "meeting_notes_meetings_saved_total",
				Help: "Meetings persisted",
			},
		),
		TranscriptArchiveTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_notes_transcript_archive_total",
				Help: "Transcript archive uploads by status",
			},
			[]string{"status"},
		),
		TodoStatusUpdatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meeting_notes_todo_status_updates_total",
				Help: "Todo status changes by new status",
			},
			[]string{"status"},
		),
	}
}

// RecordAnalyze records an analysis outcome. Safe on a nil receiver.
func (m *Metrics) RecordAnalyze(outcome string) {
	if m == nil {
		return
	}
	m.AnalyzeTotal.WithLabelValues(outcome).Inc()
}

// RecordLLMCall records the latency of one chat-messages call.
func (m *Metrics) RecordLLMCall(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.LLMLatencySeconds.WithLabelValues(status).Observe(d.Seconds())
}

// RecordMeetingSaved counts a persisted meeting.
func (m *Metrics) RecordMeetingSaved() {
	if m == nil {
		return
	}
	m.MeetingsSavedTotal.Inc()
}

// RecordTranscriptArchive counts a transcript upload attempt.
func (m *Metrics) RecordTranscriptArchive(status string) {
	if m == nil {
		return
	}
	m.TranscriptArchiveTotal.WithLabelValues(status).Inc()
}

// RecordTodoStatus counts a todo status change.
func (m *Metrics) RecordTodoStatus(status string) {
	if m == nil {
		return
	}
	m.TodoStatusUpdatesTotal.WithLabelValues(status).Inc()
}

// Middleware records request counts and latency per route template.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := responseStatus(c, err)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			m.HTTPRequestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// responseStatus is the status the client will see. Errors are rendered
// by the echo error handler after the middleware chain returns.
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) && appErr.HTTPCode != 0 {
		return appErr.HTTPCode
	}
	var he *echo.HTTPError
	if stdErrors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
