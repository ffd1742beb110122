// Package testutil holds in-memory repository implementations used by
// usecase and handler tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
)

// Store is a shared in-memory dataset backing every fake repository
type Store struct {
	mu        sync.RWMutex
	Profiles  map[uuid.UUID]*entities.Profile
	Sessions  map[uuid.UUID]*entities.Session
	Meetings  map[uuid.UUID]*entities.Meeting
	Decisions map[uuid.UUID]entities.Decision
	Todos     map[uuid.UUID]*entities.Todo

	// FailCreate makes CreateWithItems fail, to exercise rollback paths
	FailCreate error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		Profiles:  make(map[uuid.UUID]*entities.Profile),
		Sessions:  make(map[uuid.UUID]*entities.Session),
		Meetings:  make(map[uuid.UUID]*entities.Meeting),
		Decisions: make(map[uuid.UUID]entities.Decision),
		Todos:     make(map[uuid.UUID]*entities.Todo),
	}
}

// AddProfile inserts a profile with the given names and returns it
func (s *Store) AddProfile(email, fullName, username string) *entities.Profile {
	p := entities.NewProfile(email, fullName)
	if username != "" {
		p.Username = &username
	}
	s.mu.Lock()
	s.Profiles[p.ID] = p
	s.mu.Unlock()
	return p
}

// ProfileRepo is an in-memory repositories.ProfileRepository
type ProfileRepo struct{ S *Store }

func (r ProfileRepo) Create(_ context.Context, p *entities.Profile) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, existing := range r.S.Profiles {
		if existing.Email == p.Email {
			return entities.ErrUserAlreadyExists
		}
		if existing.Username != nil && p.Username != nil && *existing.Username == *p.Username {
			return entities.ErrUsernameTaken
		}
	}
	cp := *p
	r.S.Profiles[p.ID] = &cp
	return nil
}

func (r ProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Profile, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	p, ok := r.S.Profiles[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	cp := *p
	return &cp, nil
}

func (r ProfileRepo) FindByEmail(_ context.Context, email string) (*entities.Profile, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, p := range r.S.Profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r ProfileRepo) FindByOAuth(_ context.Context, provider, oauthID string) (*entities.Profile, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	for _, p := range r.S.Profiles {
		if p.OAuthProvider != nil && p.OAuthID != nil && *p.OAuthProvider == provider && *p.OAuthID == oauthID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r ProfileRepo) Update(_ context.Context, p *entities.Profile) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cp := *p
	r.S.Profiles[p.ID] = &cp
	return nil
}

func (r ProfileRepo) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if p, ok := r.S.Profiles[id]; ok {
		p.UpdateLastLogin()
	}
	return nil
}

func (r ProfileRepo) ListActive(_ context.Context) ([]*entities.Profile, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	out := make([]*entities.Profile, 0, len(r.S.Profiles))
	for _, p := range r.S.Profiles {
		if p.IsActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName() < out[j].DisplayName() })
	return out, nil
}

// SessionRepo is an in-memory repositories.SessionRepository
type SessionRepo struct{ S *Store }

func (r SessionRepo) Create(_ context.Context, session *entities.Session) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cp := *session
	r.S.Sessions[session.ID] = &cp
	return nil
}

func (r SessionRepo) FindByTokenHash(_ context.Context, hash string) (*entities.Session, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	for _, s := range r.S.Sessions {
		if s.RefreshTokenHash == hash && s.RevokedAt == nil {
			cp := *s
			return &cp, nil
		}
	}
	return nil, entities.ErrSessionNotFound
}

func (r SessionRepo) UpdateLastUsed(_ context.Context, id uuid.UUID) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if s, ok := r.S.Sessions[id]; ok {
		s.UpdateLastUsed()
	}
	return nil
}

func (r SessionRepo) Revoke(_ context.Context, id uuid.UUID) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if s, ok := r.S.Sessions[id]; ok && s.RevokedAt == nil {
		s.Revoke()
	}
	return nil
}

func (r SessionRepo) RevokeAllByUserID(_ context.Context, userID uuid.UUID) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, s := range r.S.Sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.Revoke()
		}
	}
	return nil
}

func (r SessionRepo) CleanupOldSessions(_ context.Context, before time.Time) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for id, s := range r.S.Sessions {
		if s.ExpiresAt.Before(before) || (s.RevokedAt != nil && s.RevokedAt.Before(before)) {
			delete(r.S.Sessions, id)
		}
	}
	return nil
}

// MeetingRepo is an in-memory repositories.MeetingRepository
type MeetingRepo struct{ S *Store }

func (r MeetingRepo) CreateWithItems(_ context.Context, m *entities.Meeting, decisions []entities.Decision, todos []*entities.Todo) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if r.S.FailCreate != nil {
		return r.S.FailCreate
	}
	cp := *m
	r.S.Meetings[m.ID] = &cp
	for _, d := range decisions {
		r.S.Decisions[d.ID] = d
	}
	for _, t := range todos {
		tc := *t
		r.S.Todos[t.ID] = &tc
	}
	return nil
}

func (r MeetingRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	m, ok := r.S.Meetings[id]
	if !ok {
		return nil, entities.ErrMeetingNotFound
	}
	cp := *m
	cp.Decisions = nil
	cp.Todos = nil
	for _, d := range r.S.Decisions {
		if d.MeetingID == id {
			cp.Decisions = append(cp.Decisions, d)
		}
	}
	sort.Slice(cp.Decisions, func(i, j int) bool { return cp.Decisions[i].Position < cp.Decisions[j].Position })
	for _, t := range r.S.Todos {
		if t.MeetingID == id {
			tc := *t
			r.attachAssignee(&tc)
			cp.Todos = append(cp.Todos, tc)
		}
	}
	sort.Slice(cp.Todos, func(i, j int) bool { return lessDue(&cp.Todos[i], &cp.Todos[j], repositories.SortAsc) })
	return &cp, nil
}

func (r MeetingRepo) ListRecent(_ context.Context, limit int) ([]*entities.Meeting, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	out := make([]*entities.Meeting, 0, len(r.S.Meetings))
	for _, m := range r.S.Meetings {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].MeetingDate, out[j].MeetingDate
		switch {
		case a == nil && b == nil:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r MeetingRepo) SetTranscriptObject(_ context.Context, id uuid.UUID, key string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if m, ok := r.S.Meetings[id]; ok {
		m.TranscriptObject = &key
	}
	return nil
}

func (r MeetingRepo) attachAssignee(t *entities.Todo) {
	if t.AssigneeID == nil {
		return
	}
	if p, ok := r.S.Profiles[*t.AssigneeID]; ok {
		cp := *p
		t.Assignee = &cp
	}
}

// TodoRepo is an in-memory repositories.TodoRepository
type TodoRepo struct{ S *Store }

func (r TodoRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Todo, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	t, ok := r.S.Todos[id]
	if !ok {
		return nil, entities.ErrTodoNotFound
	}
	return r.withRelations(t), nil
}

func (r TodoRepo) List(_ context.Context, f repositories.TodoFilters) ([]*entities.Todo, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	out := make([]*entities.Todo, 0)
	for _, t := range r.S.Todos {
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		switch f.AssigneeMode {
		case repositories.AssigneeNone:
			if t.AssigneeID != nil {
				continue
			}
		case repositories.AssigneeOne:
			if t.AssigneeID == nil || *t.AssigneeID != f.AssigneeID {
				continue
			}
		}
		out = append(out, r.withRelations(t))
	}
	sort.SliceStable(out, func(i, j int) bool { return lessDue(out[i], out[j], f.Sort) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r TodoRepo) withRelations(t *entities.Todo) *entities.Todo {
	cp := *t
	if m, ok := r.S.Meetings[t.MeetingID]; ok {
		mc := *m
		cp.Meeting = &mc
	}
	MeetingRepo(r).attachAssignee(&cp)
	return &cp
}

func (r TodoRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entities.TodoStatus) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	t, ok := r.S.Todos[id]
	if !ok {
		return entities.ErrTodoNotFound
	}
	t.Status = status
	return nil
}

// lessDue orders by due date; undated todos go last ascending, first descending
func lessDue(a, b *entities.Todo, dir repositories.SortDirection) bool {
	if dir == repositories.SortDesc {
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return a.Task < b.Task
		case a.DueDate == nil:
			return true
		case b.DueDate == nil:
			return false
		}
		return time.Time(*a.DueDate).After(time.Time(*b.DueDate))
	}
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return a.Task < b.Task
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	}
	return time.Time(*a.DueDate).Before(time.Time(*b.DueDate))
}

// SearchRepo is an in-memory repositories.SearchRepository
type SearchRepo struct{ S *Store }

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (r SearchRepo) SearchMeetings(_ context.Context, keyword string, limit int) ([]repositories.SearchHit, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	var hits []repositories.SearchHit
	for _, m := range r.S.Meetings {
		if contains(m.Title, keyword) {
			hits = append(hits, repositories.SearchHit{
				Kind: repositories.SearchHitMeeting, ID: m.ID, MeetingID: m.ID,
				MeetingTitle: m.Title, MeetingDate: m.MeetingDate, Text: m.Title,
			})
		}
	}
	return capHits(hits, limit), nil
}

func (r SearchRepo) SearchDecisions(_ context.Context, keyword string, limit int) ([]repositories.SearchHit, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	var hits []repositories.SearchHit
	for _, d := range r.S.Decisions {
		if !contains(d.Content, keyword) {
			continue
		}
		hit := repositories.SearchHit{Kind: repositories.SearchHitDecision, ID: d.ID, MeetingID: d.MeetingID, Text: d.Content}
		if m, ok := r.S.Meetings[d.MeetingID]; ok {
			hit.MeetingTitle = m.Title
			hit.MeetingDate = m.MeetingDate
		}
		hits = append(hits, hit)
	}
	return capHits(hits, limit), nil
}

func (r SearchRepo) SearchTodos(_ context.Context, keyword string, limit int) ([]repositories.SearchHit, error) {
	r.S.mu.RLock()
	defer r.S.mu.RUnlock()
	var hits []repositories.SearchHit
	for _, t := range r.S.Todos {
		if !contains(t.Task, keyword) {
			continue
		}
		hit := repositories.SearchHit{Kind: repositories.SearchHitTodo, ID: t.ID, MeetingID: t.MeetingID, Text: t.Task, Status: string(t.Status)}
		if m, ok := r.S.Meetings[t.MeetingID]; ok {
			hit.MeetingTitle = m.Title
			hit.MeetingDate = m.MeetingDate
		}
		hits = append(hits, hit)
	}
	return capHits(hits, limit), nil
}

func capHits(hits []repositories.SearchHit, limit int) []repositories.SearchHit {
	sort.Slice(hits, func(i, j int) bool { return hits[i].Text < hits[j].Text })
	if limit > 0 && len(hits) > limit {
		return hits[:limit]
	}
	return hits
}

var (
	_ repositories.ProfileRepository = ProfileRepo{}
	_ repositories.SessionRepository = SessionRepo{}
	_ repositories.MeetingRepository = MeetingRepo{}
	_ repositories.TodoRepository    = TodoRepo{}
	_ repositories.SearchRepository  = SearchRepo{}
)
