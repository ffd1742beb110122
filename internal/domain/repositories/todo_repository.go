package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

// TodoRepository defines the interface for todo data access
type TodoRepository interface {
	// FindByID retrieves a todo
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Todo, error)

	// List retrieves todos with their meeting and assignee preloaded
	List(ctx context.Context, filters TodoFilters) ([]*entities.Todo, error)

	// UpdateStatus sets the status of a todo
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TodoStatus) error
}

// AssigneeFilterMode selects which assignees a todo listing includes
type AssigneeFilterMode int

const (
	AssigneeAny AssigneeFilterMode = iota
	AssigneeNone
	AssigneeOne
)

// SortDirection orders todos by due date
type SortDirection string

const (
	// SortAsc puts the earliest due dates first and undated todos last
	SortAsc SortDirection = "asc"
	// SortDesc puts undated todos first, then the latest due dates
	SortDesc SortDirection = "desc"
)

// TodoFilters represents filter options for listing todos
type TodoFilters struct {
	Status       *entities.TodoStatus
	AssigneeMode AssigneeFilterMode
	AssigneeID   uuid.UUID
	Sort         SortDirection
	Limit        int
}
