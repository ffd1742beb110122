package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-notes/internal/usecase/profile"
)

// Profile serves assignee suggestions
type Profile struct {
	svc    profile.Service
	logger *zap.Logger
}

// NewProfile creates a new profile handler
func NewProfile(svc profile.Service, logger *zap.Logger) *Profile {
	return &Profile{svc: svc, logger: logger}
}

// Suggest lists profiles matching q by full name or username
// GET /v1/profiles?q=
func (h *Profile) Suggest(c echo.Context) error {
	profiles, err := h.svc.Suggest(c.Request().Context(), c.QueryParam("q"), profile.DefaultSuggestLimit)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSuggestResponse(profiles))
}
