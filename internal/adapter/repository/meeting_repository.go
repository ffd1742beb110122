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

// meetingRepository implements the MeetingRepository interface
type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// CreateWithItems inserts meeting, decisions and todos in one transaction
func (r *meetingRepository) CreateWithItems(ctx context.Context, meeting *entities.Meeting, decisions []entities.Decision, todos []*entities.Todo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Decisions", "Todos").Create(meeting).Error; err != nil {
			return fmt.Errorf("failed to insert meeting: %w", err)
		}
		if len(decisions) > 0 {
			if err := tx.Create(&decisions).Error; err != nil {
				return fmt.Errorf("failed to insert decisions: %w", err)
			}
		}
		if len(todos) > 0 {
			if err := tx.Omit("Meeting", "Assignee").Create(&todos).Error; err != nil {
				return fmt.Errorf("failed to insert todos: %w", err)
			}
		}
		return nil
	})
}

// FindByID retrieves a meeting with decisions and todos
func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Preload("Decisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC").Order("created_at ASC")
		}).
		Preload("Todos", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date ASC NULLS LAST").Order("created_at ASC")
		}).
		Preload("Todos.Assignee").
		Where("id = ?", id).
		First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	return &meeting, nil
}

// ListRecent retrieves the latest meetings by meeting date
func (r *meetingRepository) ListRecent(ctx context.Context, limit int) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	query := r.db.WithContext(ctx).
		Omit("transcript").
		Order("meeting_date DESC NULLS LAST").
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// SetTranscriptObject records the archived transcript key
func (r *meetingRepository) SetTranscriptObject(ctx context.Context, id uuid.UUID, objectKey string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Update("transcript_object", objectKey).
		Error
}
