package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/errors"
	todoDTO "github.com/johnquangdev/meeting-notes/internal/adapter/dto/todo"
	"github.com/johnquangdev/meeting-notes/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-notes/internal/usecase/todo"
	"github.com/johnquangdev/meeting-notes/pkg/duesignal"
)

// Todo handles todo list and status requests
type Todo struct {
	svc        todo.Service
	classifier *duesignal.Classifier
	logger     *zap.Logger
}

// NewTodo creates a new todo handler
func NewTodo(svc todo.Service, classifier *duesignal.Classifier, logger *zap.Logger) *Todo {
	return &Todo{svc: svc, classifier: classifier, logger: logger}
}

func listInput(c echo.Context) todo.ListInput {
	return todo.ListInput{
		Status:   c.QueryParam("status"),
		Assignee: c.QueryParam("assignee"),
		Sort:     c.QueryParam("sort"),
	}
}

// List returns all todos
// @Summary      List todos
// @Tags         Todos
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "open, in_progress, done or all"
// @Param        assignee  query     string  false  "all, __unassigned__ or a profile id"
// @Param        sort      query     string  false  "asc or desc by due date"
// @Success      200       {object}  todoDTO.TodoListResponse
// @Router       /todos [get]
func (h *Todo) List(c echo.Context) error {
	todos, err := h.svc.List(c.Request().Context(), listInput(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToTodoListResponse(todos, h.classifier))
}

// Mine returns todos assigned to the caller
// GET /v1/todos/mine
func (h *Todo) Mine(c echo.Context) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	todos, err := h.svc.ListMine(c.Request().Context(), userID, listInput(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToTodoListResponse(todos, h.classifier))
}

// UpdateStatus changes a todo status
// PATCH /v1/todos/:id/status
func (h *Todo) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid todo id"))
	}

	var req todoDTO.UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	t, err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToTodoResponse(t, h.classifier))
}

// AdminUpdateStatus changes a todo status with the id in the body
// POST /v1/admin/todos/status
func (h *Todo) AdminUpdateStatus(c echo.Context) error {
	var req todoDTO.AdminUpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid todo id"))
	}

	t, err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{
		"ok":   true,
		"todo": presenter.ToTodoResponse(t, h.classifier),
	})
}
