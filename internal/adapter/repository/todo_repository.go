package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
)

// todoRepository implements the TodoRepository interface
type todoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *gorm.DB) repositories.TodoRepository {
	return &todoRepository{db: db}
}

// FindByID retrieves a todo by ID
func (r *todoRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Todo, error) {
	var todo entities.Todo
	err := r.withRelations(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&todo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return &todo, nil
}

// withRelations preloads the meeting header and assignee profile
func (r *todoRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Meeting", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "meeting_date")
		}).
		Preload("Assignee")
}

// List retrieves todos with filters, ordered by due date
func (r *todoRepository) List(ctx context.Context, filters repositories.TodoFilters) ([]*entities.Todo, error) {
	var todos []*entities.Todo

	query := r.withRelations(r.db.WithContext(ctx).Model(&entities.Todo{}))

	// Apply filters
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	switch filters.AssigneeMode {
	case repositories.AssigneeNone:
		query = query.Where("assignee_id IS NULL")
	case repositories.AssigneeOne:
		query = query.Where("assignee_id = ?", filters.AssigneeID)
	}

	// Apply sorting
	if filters.Sort == repositories.SortDesc {
		query = query.Order("due_date DESC NULLS FIRST")
	} else {
		query = query.Order("due_date ASC NULLS LAST")
	}
	query = query.Order("created_at DESC")

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	if err := query.Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// UpdateStatus updates the todo status
func (r *todoRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TodoStatus) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Todo{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update todo status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrTodoNotFound
	}
	return nil
}
