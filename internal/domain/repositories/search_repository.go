package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SearchHitKind tags where a search hit came from
type SearchHitKind string

const (
	SearchHitMeeting  SearchHitKind = "meeting"
	SearchHitDecision SearchHitKind = "decision"
	SearchHitTodo     SearchHitKind = "todo"
)

// SearchHit is a single keyword match with its meeting context
type SearchHit struct {
	Kind         SearchHitKind
	ID           uuid.UUID
	MeetingID    uuid.UUID
	MeetingTitle string
	MeetingDate  *time.Time
	Text         string
	// Status is set for todo hits only
	Status string
}

// SearchRepository defines keyword search across meetings, decisions and todos.
// Keywords are matched case-insensitively as substrings.
type SearchRepository interface {
	SearchMeetings(ctx context.Context, keyword string, limit int) ([]SearchHit, error)
	SearchDecisions(ctx context.Context, keyword string, limit int) ([]SearchHit, error)
	SearchTodos(ctx context.Context, keyword string, limit int) ([]SearchHit, error)
}
