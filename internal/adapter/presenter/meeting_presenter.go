package presenter

import (
	analysisDTO "github.com/johnquangdev/meeting-notes/internal/adapter/dto/analysis"
	meetingDTO "github.com/johnquangdev/meeting-notes/internal/adapter/dto/meeting"
	searchDTO "github.com/johnquangdev/meeting-notes/internal/adapter/dto/search"
	todoDTO "github.com/johnquangdev/meeting-notes/internal/adapter/dto/todo"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notes/internal/usecase/analysis"
	"github.com/johnquangdev/meeting-notes/pkg/duesignal"
)

// ToMeetingResponse converts a Meeting entity to its list shape
func ToMeetingResponse(m *entities.Meeting) *meetingDTO.MeetingResponse {
	if m == nil {
		return nil
	}
	summary := []string(m.Summary)
	if summary == nil {
		summary = []string{}
	}
	return &meetingDTO.MeetingResponse{
		ID:               m.ID.String(),
		Title:            m.Title,
		MeetingDate:      m.MeetingDate,
		Summary:          summary,
		TranscriptObject: m.TranscriptObject,
		CreatedBy:        m.CreatedBy.String(),
		CreatedAt:        m.CreatedAt,
	}
}

// ToMeetingListResponse converts the recent meetings list
func ToMeetingListResponse(meetings []*entities.Meeting) *meetingDTO.MeetingListResponse {
	out := make([]*meetingDTO.MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, ToMeetingResponse(m))
	}
	return &meetingDTO.MeetingListResponse{Meetings: out}
}

// ToMeetingDetailResponse converts a meeting with decisions and todos.
// Due signals are computed against the classifier clock.
func ToMeetingDetailResponse(m *entities.Meeting, classifier *duesignal.Classifier) *meetingDTO.MeetingDetailResponse {
	if m == nil {
		return nil
	}
	resp := &meetingDTO.MeetingDetailResponse{
		MeetingResponse: *ToMeetingResponse(m),
		Transcript:      m.Transcript,
		Decisions:       make([]*meetingDTO.DecisionResponse, 0, len(m.Decisions)),
		Todos:           make([]*todoDTO.TodoResponse, 0, len(m.Todos)),
	}
	for _, d := range m.Decisions {
		resp.Decisions = append(resp.Decisions, &meetingDTO.DecisionResponse{
			ID:       d.ID.String(),
			Content:  d.Content,
			Position: d.Position,
		})
	}
	for i := range m.Todos {
		t := &m.Todos[i]
		item := ToTodoResponse(t, classifier)
		if item.MeetingTitle == "" {
			item.MeetingTitle = m.Title
		}
		resp.Todos = append(resp.Todos, item)
	}
	return resp
}

// ToTodoResponse converts a Todo with its due signal
func ToTodoResponse(t *entities.Todo, classifier *duesignal.Classifier) *todoDTO.TodoResponse {
	if t == nil {
		return nil
	}
	due := t.DueDateString()
	signal := duesignal.Gray
	if classifier != nil {
		signal = classifier.ClassifyPtr(due)
	}
	resp := &todoDTO.TodoResponse{
		ID:        t.ID.String(),
		MeetingID: t.MeetingID.String(),
		Task:      t.Task,
		DueDate:   due,
		Status:    string(t.Status),
		DueSignal: signal,
		DueLabel:  signal.Label(),
		Assignee:  ToProfileResponse(t.Assignee),
		UpdatedAt: t.UpdatedAt,
	}
	if t.Meeting != nil {
		resp.MeetingTitle = t.Meeting.Title
	}
	return resp
}

// ToTodoListResponse converts a list of todos
func ToTodoListResponse(todos []*entities.Todo, classifier *duesignal.Classifier) *todoDTO.TodoListResponse {
	out := make([]*todoDTO.TodoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, ToTodoResponse(t, classifier))
	}
	return &todoDTO.TodoListResponse{Todos: out}
}

// ToSearchResponse converts search hits
func ToSearchResponse(q string, hits []repositories.SearchHit) *searchDTO.SearchResponse {
	out := make([]*searchDTO.HitResponse, 0, len(hits))
	for _, h := range hits {
		out = append(out, &searchDTO.HitResponse{
			Kind:         string(h.Kind),
			ID:           h.ID.String(),
			MeetingID:    h.MeetingID.String(),
			MeetingTitle: h.MeetingTitle,
			MeetingDate:  h.MeetingDate,
			Text:         h.Text,
			Status:       h.Status,
		})
	}
	return &searchDTO.SearchResponse{Query: q, Hits: out}
}

// ToAnalyzeResponse converts an analysis result. Parsed and Source are
// omitted when the answer could not be parsed.
func ToAnalyzeResponse(r *analysis.Result) *analysisDTO.AnalyzeResponse {
	if r == nil {
		return nil
	}
	resp := &analysisDTO.AnalyzeResponse{
		Status:         string(r.Status),
		RawText:        r.Raw,
		ConversationID: r.ConversationID,
		MessageID:      r.MessageID,
		Cached:         r.Cached,
	}
	if r.Parsed() {
		resp.Parsed = r.Result
		resp.Source = string(r.Source)
	}
	return resp
}
