package todo

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notes/pkg/metrics"
)

// Assignee filter values accepted besides a profile id
const (
	AssigneeAll        = "all"
	AssigneeUnassigned = "__unassigned__"
)

// ListInput carries the raw query filters of the todo list
type ListInput struct {
	Status   string
	Assignee string
	Sort     string
}

// Service handles todo listing and status changes
type Service interface {
	List(ctx context.Context, in ListInput) ([]*entities.Todo, error)
	ListMine(ctx context.Context, userID uuid.UUID, in ListInput) ([]*entities.Todo, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*entities.Todo, error)
}

type todoService struct {
	todoRepo repositories.TodoRepository
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewTodoService creates a new todo service
func NewTodoService(todoRepo repositories.TodoRepository, m *metrics.Metrics, logger *zap.Logger) Service {
	return &todoService{
		todoRepo: todoRepo,
		metrics:  m,
		logger:   logger,
	}
}

// ParseFilters converts raw query values into repository filters. Status
// is read leniently; an empty status or "all" disables the filter.
func ParseFilters(in ListInput) (repositories.TodoFilters, error) {
	var f repositories.TodoFilters

	switch status := strings.TrimSpace(in.Status); strings.ToLower(status) {
	case "", "all":
	default:
		s := entities.NormalizeTodoStatus(status)
		f.Status = &s
	}

	switch assignee := strings.TrimSpace(in.Assignee); assignee {
	case "", AssigneeAll:
		f.AssigneeMode = repositories.AssigneeAny
	case AssigneeUnassigned:
		f.AssigneeMode = repositories.AssigneeNone
	default:
		id, err := uuid.Parse(assignee)
		if err != nil {
			return f, errors.ErrInvalidArgument("assignee must be all, __unassigned__ or a profile id")
		}
		f.AssigneeMode = repositories.AssigneeOne
		f.AssigneeID = id
	}

	if strings.EqualFold(strings.TrimSpace(in.Sort), string(repositories.SortDesc)) {
		f.Sort = repositories.SortDesc
	} else {
		f.Sort = repositories.SortAsc
	}
	return f, nil
}

func (s *todoService) List(ctx context.Context, in ListInput) ([]*entities.Todo, error) {
	f, err := ParseFilters(in)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, f)
}

// ListMine lists todos assigned to userID; the assignee filter is ignored
func (s *todoService) ListMine(ctx context.Context, userID uuid.UUID, in ListInput) ([]*entities.Todo, error) {
	in.Assignee = ""
	f, err := ParseFilters(in)
	if err != nil {
		return nil, err
	}
	f.AssigneeMode = repositories.AssigneeOne
	f.AssigneeID = userID
	return s.list(ctx, f)
}

func (s *todoService) list(ctx context.Context, f repositories.TodoFilters) ([]*entities.Todo, error) {
	todos, err := s.todoRepo.List(ctx, f)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list todos", err)
	}
	return todos, nil
}

// UpdateStatus sets a todo's status. Aliases are accepted; unknown
// values are rejected.
func (s *todoService) UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*entities.Todo, error) {
	status, err := entities.ParseTodoStatus(rawStatus)
	if err != nil {
		return nil, errors.ErrTodoInvalidStatus(rawStatus)
	}

	if err := s.todoRepo.UpdateStatus(ctx, id, status); err != nil {
		if stdErrors.Is(err, entities.ErrTodoNotFound) {
			return nil, errors.ErrTodoNotFound(id.String())
		}
		return nil, errors.ErrDBQueryFailed("update todo status", err)
	}
	s.metrics.RecordTodoStatus(string(status))

	if s.logger != nil {
		s.logger.Info("todo status updated",
			zap.String("todo_id", id.String()),
			zap.String("status", string(status)),
		)
	}

	todo, err := s.todoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("get todo", err)
	}
	return todo, nil
}
