package meeting

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-notes/pkg/metrics"
)

// RecentLimit is how many meetings the list view shows
const RecentLimit = 50

// archiveTimeout bounds the best-effort transcript upload
const archiveTimeout = 15 * time.Second

// TodoInput is a reviewed todo row submitted with a meeting
type TodoInput struct {
	Task       string
	DueDate    string
	AssigneeID string
}

// CreateInput is a reviewed analysis result to persist
type CreateInput struct {
	Title       string
	MeetingDate *time.Time
	Transcript  string
	Summary     []string
	Decisions   []string
	Todos       []TodoInput
	CreatedBy   uuid.UUID
}

// Service handles meeting persistence and retrieval
type Service interface {
	Create(ctx context.Context, in CreateInput) (*entities.Meeting, error)
	ListRecent(ctx context.Context) ([]*entities.Meeting, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
}

type meetingService struct {
	meetingRepo repositories.MeetingRepository
	archive     storage.TranscriptArchive
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewMeetingService creates a new meeting service. archive may be nil
// when object storage is disabled.
func NewMeetingService(
	meetingRepo repositories.MeetingRepository,
	archive storage.TranscriptArchive,
	m *metrics.Metrics,
	logger *zap.Logger,
) Service {
	return &meetingService{
		meetingRepo: meetingRepo,
		archive:     archive,
		metrics:     m,
		logger:      logger,
	}
}

// Create stores the meeting, its decisions and its todos in one
// transaction. Blank decisions and todos without a task are dropped;
// empty due dates and assignees are stored as NULL; every todo starts open.
func (s *meetingService) Create(ctx context.Context, in CreateInput) (*entities.Meeting, error) {
	m := entities.NewMeeting(in.Title, in.MeetingDate, in.Transcript, compact(in.Summary), in.CreatedBy)
	if err := m.Validate(); err != nil {
		return nil, errors.ErrInvalidArgument("title is required")
	}

	decisions := entities.NewDecisions(m.ID, in.Decisions)

	todos := make([]*entities.Todo, 0, len(in.Todos))
	for i, ti := range in.Todos {
		todo := entities.NewTodo(m.ID, ti.Task)
		if todo.Task == "" {
			continue
		}
		if err := todo.SetDueDate(ti.DueDate); err != nil {
			return nil, errors.ErrInvalidArgument(fmt.Sprintf("todos[%d].due_date must be YYYY-MM-DD", i))
		}
		if raw := strings.TrimSpace(ti.AssigneeID); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, errors.ErrInvalidArgument(fmt.Sprintf("todos[%d].assignee_id is not a valid id", i))
			}
			todo.AssigneeID = &id
		}
		todos = append(todos, todo)
	}

	if err := s.meetingRepo.CreateWithItems(ctx, m, decisions, todos); err != nil {
		if s.logger != nil {
			s.logger.Error("failed to save meeting", zap.Error(err))
		}
		return nil, errors.ErrMeetingSaveFailed(errors.ErrDBTransactionFailed(err))
	}
	s.metrics.RecordMeetingSaved()

	m.Decisions = decisions
	m.Todos = make([]entities.Todo, 0, len(todos))
	for _, t := range todos {
		m.Todos = append(m.Todos, *t)
	}

	if s.logger != nil {
		s.logger.Info("meeting saved",
			zap.String("meeting_id", m.ID.String()),
			zap.Int("decisions", len(decisions)),
			zap.Int("todos", len(todos)),
		)
	}

	if err := s.archiveTranscript(ctx, m); err != nil && s.logger != nil {
		s.logger.Warn("transcript archive failed",
			zap.String("meeting_id", m.ID.String()),
			zap.Error(err),
		)
	}
	return m, nil
}

// archiveTranscript uploads the transcript to object storage. Create
// logs the returned error and never fails the save on it.
func (s *meetingService) archiveTranscript(ctx context.Context, m *entities.Meeting) error {
	if s.archive == nil || strings.TrimSpace(m.Transcript) == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()

	key, err := s.archive.PutTranscript(ctx, m.ID, m.Transcript)
	if err != nil {
		s.metrics.RecordTranscriptArchive("error")
		return errors.ErrStorageFailed("put transcript", err)
	}
	if err := s.meetingRepo.SetTranscriptObject(ctx, m.ID, key); err != nil {
		s.metrics.RecordTranscriptArchive("error")
		return errors.ErrDBQueryFailed("set transcript object", err)
	}
	s.metrics.RecordTranscriptArchive("ok")
	m.TranscriptObject = &key
	return nil
}

func (s *meetingService) ListRecent(ctx context.Context) ([]*entities.Meeting, error) {
	meetings, err := s.meetingRepo.ListRecent(ctx, RecentLimit)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list meetings", err)
	}
	return meetings, nil
}

func (s *meetingService) Get(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	m, err := s.meetingRepo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, entities.ErrMeetingNotFound) {
			return nil, errors.ErrMeetingNotFound(id.String())
		}
		return nil, errors.ErrDBQueryFailed("get meeting", err)
	}
	return m, nil
}

// compact trims lines and drops blank ones
func compact(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
