package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/errors"
	meetingDTO "github.com/johnquangdev/meeting-notes/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-notes/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-notes/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-notes/pkg/duesignal"
)

// Meeting handles saved meeting requests
type Meeting struct {
	svc        meeting.Service
	classifier *duesignal.Classifier
	loc        *time.Location
	logger     *zap.Logger
}

// NewMeeting creates a new meeting handler. Meeting dates without an
// offset are read in loc.
func NewMeeting(svc meeting.Service, classifier *duesignal.Classifier, loc *time.Location, logger *zap.Logger) *Meeting {
	return &Meeting{svc: svc, classifier: classifier, loc: loc, logger: logger}
}

// Create persists a reviewed analysis result
// @Summary      Save meeting
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      meetingDTO.CreateMeetingRequest  true  "Reviewed result"
// @Success      201      {object}  meetingDTO.MeetingDetailResponse
// @Failure      400      {object}  map[string]interface{}  "Validation failed"
// @Router       /meetings [post]
func (h *Meeting) Create(c echo.Context) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	var req meetingDTO.CreateMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	meetingDate, err := parseMeetingDate(req.MeetingDate, h.loc)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	todos := make([]meeting.TodoInput, 0, len(req.Todos))
	for _, t := range req.Todos {
		todos = append(todos, meeting.TodoInput{
			Task:       t.Task,
			DueDate:    t.DueDate,
			AssigneeID: t.AssigneeID,
		})
	}

	m, err := h.svc.Create(c.Request().Context(), meeting.CreateInput{
		Title:       req.Title,
		MeetingDate: meetingDate,
		Transcript:  req.Transcript,
		Summary:     req.Summary,
		Decisions:   req.Decisions,
		Todos:       todos,
		CreatedBy:   userID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccessStatus(h.logger, c, http.StatusCreated, presenter.ToMeetingDetailResponse(m, h.classifier))
}

// List returns the latest meetings by meeting date
// GET /v1/meetings
func (h *Meeting) List(c echo.Context) error {
	meetings, err := h.svc.ListRecent(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingListResponse(meetings))
}

// Get returns a meeting with its decisions and todos
// GET /v1/meetings/:id
func (h *Meeting) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	m, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingDetailResponse(m, h.classifier))
}
