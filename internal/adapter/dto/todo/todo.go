package todo

import (
	"time"

	"github.com/johnquangdev/meeting-notes/internal/adapter/dto/profile"
	"github.com/johnquangdev/meeting-notes/pkg/duesignal"
)

// ListTodosRequest holds the todo list filters
type ListTodosRequest struct {
	Status   string `query:"status"`
	Assignee string `query:"assignee"`
	Sort     string `query:"sort"`
}

// UpdateStatusRequest changes a todo status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminUpdateStatusRequest changes a todo status by id in the body
type AdminUpdateStatusRequest struct {
	ID     string `json:"id" validate:"required,uuid"`
	Status string `json:"status" validate:"required"`
}

// TodoResponse is a todo with its meeting, assignee and due signal
type TodoResponse struct {
	ID           string                   `json:"id"`
	MeetingID    string                   `json:"meeting_id"`
	MeetingTitle string                   `json:"meeting_title,omitempty"`
	Task         string                   `json:"task"`
	DueDate      *string                  `json:"due_date"`
	Status       string                   `json:"status"`
	DueSignal    duesignal.Signal         `json:"due_signal"`
	DueLabel     string                   `json:"due_label"`
	Assignee     *profile.ProfileResponse `json:"assignee"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// TodoListResponse lists todos
type TodoListResponse struct {
	Todos []*TodoResponse `json:"todos"`
}
