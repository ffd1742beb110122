package meeting

import (
	"time"

	"github.com/johnquangdev/meeting-notes/internal/adapter/dto/todo"
)

// TodoRequest is one reviewed todo row
type TodoRequest struct {
	Task       string `json:"task" validate:"max=2000"`
	DueDate    string `json:"due_date" validate:"duedate"`
	AssigneeID string `json:"assignee_id" validate:"omitempty,uuid"`
}

// CreateMeetingRequest is the confirmed analysis result to persist
type CreateMeetingRequest struct {
	Title       string        `json:"title" validate:"required,max=500"`
	MeetingDate string        `json:"meeting_date"`
	Transcript  string        `json:"transcript"`
	Summary     []string      `json:"summary"`
	Decisions   []string      `json:"decisions"`
	Todos       []TodoRequest `json:"todos" validate:"dive"`
}

// DecisionResponse is one decision of a meeting
type DecisionResponse struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

// MeetingResponse is a meeting in list views
type MeetingResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	MeetingDate      *time.Time `json:"meeting_date"`
	Summary          []string   `json:"summary"`
	TranscriptObject *string    `json:"transcript_object,omitempty"`
	CreatedBy        string     `json:"created_by"`
	CreatedAt        time.Time  `json:"created_at"`
}

// MeetingDetailResponse is a meeting with its decisions and todos
type MeetingDetailResponse struct {
	MeetingResponse
	Transcript string              `json:"transcript"`
	Decisions  []*DecisionResponse `json:"decisions"`
	Todos      []*todo.TodoResponse `json:"todos"`
}

// MeetingListResponse lists recent meetings
type MeetingListResponse struct {
	Meetings []*MeetingResponse `json:"meetings"`
}
