package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DueDateLayout is the wire and storage layout of todo due dates
const DueDateLayout = "2006-01-02"

// Todo is an action item extracted from a meeting
type Todo struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID  uuid.UUID       `json:"meeting_id" gorm:"type:uuid;not null;index"`
	AssigneeID *uuid.UUID      `json:"assignee_id,omitempty" gorm:"type:uuid;index"`
	Task       string          `json:"task" gorm:"type:text;not null"`
	DueDate    *datatypes.Date `json:"due_date,omitempty" gorm:"type:date;index"`
	Status     TodoStatus      `json:"status" gorm:"type:varchar(20);default:'open';not null;index"`

	Meeting  *Meeting `json:"meeting,omitempty" gorm:"foreignKey:MeetingID"`
	Assignee *Profile `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Todo) TableName() string {
	return "todos"
}

// NewTodo creates an open todo for a meeting
func NewTodo(meetingID uuid.UUID, task string) *Todo {
	now := time.Now()
	return &Todo{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Task:      strings.TrimSpace(task),
		Status:    TodoStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetDueDate parses a YYYY-MM-DD string; empty clears the due date
func (t *Todo) SetDueDate(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.DueDate = nil
		return nil
	}
	d, err := ParseDueDate(raw)
	if err != nil {
		return err
	}
	date := datatypes.Date(d)
	t.DueDate = &date
	return nil
}

// ParseDueDate parses a YYYY-MM-DD due date
func ParseDueDate(raw string) (time.Time, error) {
	d, err := time.Parse(DueDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDueDate
	}
	return d, nil
}

// DueDateString returns the due date as YYYY-MM-DD, or nil when unset
func (t *Todo) DueDateString() *string {
	if t.DueDate == nil {
		return nil
	}
	s := time.Time(*t.DueDate).Format(DueDateLayout)
	return &s
}

// UpdateStatus sets a new status
func (t *Todo) UpdateStatus(status TodoStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	return nil
}

// TodoStatus is the progress of a todo
type TodoStatus string

const (
	TodoStatusOpen       TodoStatus = "open"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusDone       TodoStatus = "done"
)

// IsValid checks if the status is one of the stored values
func (s TodoStatus) IsValid() bool {
	switch s {
	case TodoStatusOpen, TodoStatusInProgress, TodoStatusDone:
		return true
	}
	return false
}

// ParseTodoStatus normalises user input and rejects unknown values.
// Accepted aliases: in-progress, inprogress, doing, 進行中, 完了, 未着手.
func ParseTodoStatus(raw string) (TodoStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "open", "未着手":
		return TodoStatusOpen, nil
	case "in_progress", "in-progress", "inprogress", "doing", "進行中":
		return TodoStatusInProgress, nil
	case "done", "完了":
		return TodoStatusDone, nil
	}
	return "", ErrInvalidStatus
}

// NormalizeTodoStatus is the lenient form of ParseTodoStatus; anything
// unknown becomes open.
func NormalizeTodoStatus(raw string) TodoStatus {
	s, err := ParseTodoStatus(raw)
	if err != nil {
		return TodoStatusOpen
	}
	return s
}
