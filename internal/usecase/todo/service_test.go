package todo

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notes/internal/testutil"
)

func addTodo(store *testutil.Store, meetingID uuid.UUID, task, due string, assignee *uuid.UUID, status entities.TodoStatus) *entities.Todo {
	t := entities.NewTodo(meetingID, task)
	if due != "" {
		d, _ := time.Parse(entities.DueDateLayout, due)
		date := datatypes.Date(d)
		t.DueDate = &date
	}
	t.AssigneeID = assignee
	t.Status = status
	store.Todos[t.ID] = t
	return t
}

func tasks(todos []*entities.Todo) []string {
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.Task)
	}
	return out
}

func TestParseFilters(t *testing.T) {
	id := uuid.New()
	inProgress := entities.TodoStatusInProgress
	open := entities.TodoStatusOpen

	tests := []struct {
		name string
		in   ListInput
		want repositories.TodoFilters
	}{
		{"defaults", ListInput{}, repositories.TodoFilters{Sort: repositories.SortAsc}},
		{"all", ListInput{Status: "all", Assignee: "all"}, repositories.TodoFilters{Sort: repositories.SortAsc}},
		{"alias status", ListInput{Status: "doing"}, repositories.TodoFilters{Status: &inProgress, Sort: repositories.SortAsc}},
		{"unknown status is open", ListInput{Status: "whatever"}, repositories.TodoFilters{Status: &open, Sort: repositories.SortAsc}},
		{"unassigned", ListInput{Assignee: "__unassigned__", Sort: "desc"}, repositories.TodoFilters{AssigneeMode: repositories.AssigneeNone, Sort: repositories.SortDesc}},
		{"one assignee", ListInput{Assignee: id.String()}, repositories.TodoFilters{AssigneeMode: repositories.AssigneeOne, AssigneeID: id, Sort: repositories.SortAsc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilters(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFilters(ListInput{Assignee: "sato"})
	var appErr errors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, errors.ErrorCode_INVALID_ARGUMENT, appErr.Code)
}

func TestListSortsByDueDate(t *testing.T) {
	store := testutil.NewStore()
	meetingID := uuid.New()
	addTodo(store, meetingID, "late", "2024-06-20", nil, entities.TodoStatusOpen)
	addTodo(store, meetingID, "undated", "", nil, entities.TodoStatusOpen)
	addTodo(store, meetingID, "early", "2024-06-01", nil, entities.TodoStatusOpen)

	svc := NewTodoService(testutil.TodoRepo{S: store}, nil, nil)
	ctx := context.Background()

	asc, err := svc.List(ctx, ListInput{Sort: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "late", "undated"}, tasks(asc))

	desc, err := svc.List(ctx, ListInput{Sort: "desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"undated", "late", "early"}, tasks(desc))
}

func TestListFilters(t *testing.T) {
	store := testutil.NewStore()
	sato := store.AddProfile("sato@example.com", "Sato", "")
	meetingID := uuid.New()
	addTodo(store, meetingID, "mine open", "2024-06-10", &sato.ID, entities.TodoStatusOpen)
	addTodo(store, meetingID, "mine done", "2024-06-11", &sato.ID, entities.TodoStatusDone)
	addTodo(store, meetingID, "nobody", "2024-06-12", nil, entities.TodoStatusOpen)

	svc := NewTodoService(testutil.TodoRepo{S: store}, nil, nil)
	ctx := context.Background()

	got, err := svc.List(ctx, ListInput{Assignee: AssigneeUnassigned})
	require.NoError(t, err)
	assert.Equal(t, []string{"nobody"}, tasks(got))

	got, err = svc.List(ctx, ListInput{Status: "open"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mine open", "nobody"}, tasks(got))

	got, err = svc.ListMine(ctx, sato.ID, ListInput{Assignee: AssigneeUnassigned})
	require.NoError(t, err)
	assert.Equal(t, []string{"mine open", "mine done"}, tasks(got))

	got, err = svc.ListMine(ctx, sato.ID, ListInput{Status: "完了"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mine done"}, tasks(got))
}

func TestUpdateStatus(t *testing.T) {
	store := testutil.NewStore()
	todo := addTodo(store, uuid.New(), "task", "", nil, entities.TodoStatusOpen)
	svc := NewTodoService(testutil.TodoRepo{S: store}, nil, nil)
	ctx := context.Background()

	updated, err := svc.UpdateStatus(ctx, todo.ID, "in-progress")
	require.NoError(t, err)
	assert.Equal(t, entities.TodoStatusInProgress, updated.Status)

	_, err = svc.UpdateStatus(ctx, todo.ID, "finished")
	var appErr errors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, errors.ErrorCode_TODO_INVALID_STATUS, appErr.Code)
	assert.Equal(t, 400, appErr.HTTPCode)
	assert.Equal(t, entities.TodoStatusInProgress, store.Todos[todo.ID].Status)

	_, err = svc.UpdateStatus(ctx, uuid.New(), "done")
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, errors.ErrorCode_TODO_NOT_FOUND, appErr.Code)
}

func TestUpdateStatusReturnsRelations(t *testing.T) {
	store := testutil.NewStore()
	owner := store.AddProfile("sato@example.com", "Sato", "sato")
	meeting := entities.NewMeeting("Weekly sync", nil, "", nil, owner.ID)
	store.Meetings[meeting.ID] = meeting
	todo := addTodo(store, meeting.ID, "task", "2024-06-12", &owner.ID, entities.TodoStatusOpen)
	svc := NewTodoService(testutil.TodoRepo{S: store}, nil, nil)

	updated, err := svc.UpdateStatus(context.Background(), todo.ID, "done")
	require.NoError(t, err)
	require.NotNil(t, updated.Meeting)
	assert.Equal(t, "Weekly sync", updated.Meeting.Title)
	require.NotNil(t, updated.Assignee)
	assert.Equal(t, owner.ID, updated.Assignee.ID)
}
