package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// CreateWithItems inserts the meeting, its decisions and its todos
	// atomically. Nothing is written when any insert fails.
	CreateWithItems(ctx context.Context, meeting *entities.Meeting, decisions []entities.Decision, todos []*entities.Todo) error

	// FindByID retrieves a meeting with its decisions (by position) and
	// todos (by due date, assignee preloaded)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// ListRecent retrieves the latest meetings by meeting date
	ListRecent(ctx context.Context, limit int) ([]*entities.Meeting, error)

	// SetTranscriptObject records where the transcript was archived
	SetTranscriptObject(ctx context.Context, id uuid.UUID, objectKey string) error
}
