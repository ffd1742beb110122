package meeting

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/testutil"
)

type fakeArchive struct {
	err  error
	puts map[uuid.UUID]string
}

func (f *fakeArchive) PutTranscript(_ context.Context, id uuid.UUID, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.puts == nil {
		f.puts = make(map[uuid.UUID]string)
	}
	f.puts[id] = text
	return "transcripts/" + id.String() + ".txt", nil
}

func (f *fakeArchive) BucketInfo(context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func appErr(t *testing.T, err error) errors.AppError {
	t.Helper()
	var ae errors.AppError
	require.True(t, stdErrors.As(err, &ae), "expected AppError, got %v", err)
	return ae
}

func TestCreateNormalisesRows(t *testing.T) {
	store := testutil.NewStore()
	owner := store.AddProfile("owner@example.com", "Owner", "")
	assignee := store.AddProfile("sato@example.com", "Sato", "")
	svc := NewMeetingService(testutil.MeetingRepo{S: store}, nil, nil, nil)

	date := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
	m, err := svc.Create(context.Background(), CreateInput{
		Title:       "  Weekly sync ",
		MeetingDate: &date,
		Transcript:  "text",
		Summary:     []string{"a", " ", "b"},
		Decisions:   []string{"  Ship v2  ", "", "   ", "Hire"},
		Todos: []TodoInput{
			{Task: "Prepare quote", DueDate: "2024-06-12", AssigneeID: assignee.ID.String()},
			{Task: "   ", DueDate: "2024-06-12"},
			{Task: "Book room", DueDate: "", AssigneeID: ""},
		},
		CreatedBy: owner.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Weekly sync", m.Title)
	assert.Equal(t, []string{"a", "b"}, []string(m.Summary))

	require.Len(t, m.Decisions, 2)
	assert.Equal(t, "Ship v2", m.Decisions[0].Content)
	assert.Equal(t, 0, m.Decisions[0].Position)
	assert.Equal(t, "Hire", m.Decisions[1].Content)
	assert.Equal(t, 1, m.Decisions[1].Position)

	require.Len(t, m.Todos, 2)
	assert.Equal(t, entities.TodoStatusOpen, m.Todos[0].Status)
	require.NotNil(t, m.Todos[0].AssigneeID)
	assert.Equal(t, assignee.ID, *m.Todos[0].AssigneeID)
	assert.Equal(t, "2024-06-12", *m.Todos[0].DueDateString())
	assert.Nil(t, m.Todos[1].DueDate)
	assert.Nil(t, m.Todos[1].AssigneeID)

	assert.Len(t, store.Meetings, 1)
	assert.Len(t, store.Decisions, 2)
	assert.Len(t, store.Todos, 2)
}

func TestCreateValidation(t *testing.T) {
	store := testutil.NewStore()
	svc := NewMeetingService(testutil.MeetingRepo{S: store}, nil, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateInput
	}{
		{"blank title", CreateInput{Title: "  "}},
		{"bad due date", CreateInput{Title: "t", Todos: []TodoInput{{Task: "x", DueDate: "06/12/2024"}}}},
		{"bad assignee", CreateInput{Title: "t", Todos: []TodoInput{{Task: "x", AssigneeID: "sato"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			assert.Equal(t, errors.ErrorCode_INVALID_ARGUMENT, appErr(t, err).Code)
		})
	}
	assert.Empty(t, store.Meetings)
}

func TestCreateFailureWritesNothing(t *testing.T) {
	store := testutil.NewStore()
	store.FailCreate = stdErrors.New("insert todos: constraint violation")
	svc := NewMeetingService(testutil.MeetingRepo{S: store}, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateInput{
		Title:     "t",
		Decisions: []string{"d"},
		Todos:     []TodoInput{{Task: "x"}},
	})
	saveErr := appErr(t, err)
	assert.Equal(t, errors.ErrorCode_MEETING_SAVE_FAILED, saveErr.Code)
	assert.Equal(t, errors.ErrorCode_DB_TRANSACTION_FAILED, appErr(t, saveErr.Raw).Code)
	assert.ErrorIs(t, err, store.FailCreate)
	assert.Empty(t, store.Meetings)
	assert.Empty(t, store.Decisions)
	assert.Empty(t, store.Todos)
}

func TestCreateArchivesTranscript(t *testing.T) {
	store := testutil.NewStore()
	archive := &fakeArchive{}
	svc := NewMeetingService(testutil.MeetingRepo{S: store}, archive, nil, nil)

	m, err := svc.Create(context.Background(), CreateInput{Title: "t", Transcript: "hello"})
	require.NoError(t, err)
	require.NotNil(t, m.TranscriptObject)
	assert.Equal(t, "hello", archive.puts[m.ID])
	require.NotNil(t, store.Meetings[m.ID].TranscriptObject)
	assert.Equal(t, *m.TranscriptObject, *store.Meetings[m.ID].TranscriptObject)
}

func TestArchiveFailureDoesNotFailSave(t *testing.T) {
	store := testutil.NewStore()
	svc := NewMeetingService(testutil.MeetingRepo{S: store}, &fakeArchive{err: stdErrors.New("minio down")}, nil, nil)

	m, err := svc.Create(context.Background(), CreateInput{Title: "t", Transcript: "hello"})
	require.NoError(t, err)
	assert.Nil(t, m.TranscriptObject)
	assert.Len(t, store.Meetings, 1)
}

func TestArchiveTranscriptErrors(t *testing.T) {
	store := testutil.NewStore()
	svc := &meetingService{meetingRepo: testutil.MeetingRepo{S: store}, archive: &fakeArchive{err: stdErrors.New("minio down")}}

	m := &entities.Meeting{ID: uuid.New(), Title: "t", Transcript: "hello"}
	err := svc.archiveTranscript(context.Background(), m)
	assert.Equal(t, errors.ErrorCode_INTEGRATION_STORAGE_FAILED, appErr(t, err).Code)
	assert.Nil(t, m.TranscriptObject)

	svc.archive = &fakeArchive{}
	m.Transcript = "   "
	assert.NoError(t, svc.archiveTranscript(context.Background(), m))
}

func TestGetAndList(t *testing.T) {
	store := testutil.NewStore()
	svc := NewMeetingService(testutil.MeetingRepo{S: store}, nil, nil, nil)
	ctx := context.Background()

	older := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	a, err := svc.Create(ctx, CreateInput{Title: "older", MeetingDate: &older, Decisions: []string{"first", "second"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Title: "newer", MeetingDate: &newer})
	require.NoError(t, err)

	list, err := svc.ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Title)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got.Decisions, 2)
	assert.Equal(t, "first", got.Decisions[0].Content)

	_, err = svc.Get(ctx, uuid.New())
	assert.Equal(t, errors.ErrorCode_MEETING_NOT_FOUND, appErr(t, err).Code)
}
