package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	searchDTO "github.com/johnquangdev/meeting-notes/internal/adapter/dto/search"
	"github.com/johnquangdev/meeting-notes/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-notes/internal/usecase/search"
)

// Search handles keyword search
type Search struct {
	svc    search.Service
	logger *zap.Logger
}

// NewSearch creates a new search handler
func NewSearch(svc search.Service, logger *zap.Logger) *Search {
	return &Search{svc: svc, logger: logger}
}

// Search matches q against meeting titles, decisions and todo tasks.
// q is read from the query string on GET and from the JSON body on POST.
// @Summary      Keyword search
// @Tags         Search
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "Keyword"
// @Success      200  {object}  searchDTO.SearchResponse
// @Router       /search [get]
// @Router       /search [post]
func (h *Search) Search(c echo.Context) error {
	var req searchDTO.SearchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if req.Q == "" {
		req.Q = c.QueryParam("q")
	}
	q := strings.TrimSpace(req.Q)

	hits, err := h.svc.Search(c.Request().Context(), q)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToSearchResponse(q, hits))
}
