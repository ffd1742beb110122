package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching keyword literally
func containsPattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

// searchRepository implements the SearchRepository interface
type searchRepository struct {
	db *gorm.DB
}

// NewSearchRepository creates a new search repository
func NewSearchRepository(db *gorm.DB) repositories.SearchRepository {
	return &searchRepository{db: db}
}

type searchRow struct {
	ID           uuid.UUID
	MeetingID    uuid.UUID
	MeetingTitle string
	MeetingDate  *time.Time
	Text         string
	Status       string
}

func toHits(kind repositories.SearchHitKind, rows []searchRow) []repositories.SearchHit {
	hits := make([]repositories.SearchHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, repositories.SearchHit{
			Kind:         kind,
			ID:           row.ID,
			MeetingID:    row.MeetingID,
			MeetingTitle: row.MeetingTitle,
			MeetingDate:  row.MeetingDate,
			Text:         row.Text,
			Status:       row.Status,
		})
	}
	return hits
}

// SearchMeetings matches meeting titles, newest meeting first
func (r *searchRepository) SearchMeetings(ctx context.Context, keyword string, limit int) ([]repositories.SearchHit, error) {
	var rows []searchRow
	err := r.db.WithContext(ctx).
		Table("meetings AS m").
		Select("m.id AS id, m.id AS meeting_id, m.title AS meeting_title, m.meeting_date AS meeting_date, m.title AS text").
		Where(`m.title ILIKE ? ESCAPE '\'`, containsPattern(keyword)).
		Order("m.meeting_date DESC NULLS LAST").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search meetings: %w", err)
	}
	return toHits(repositories.SearchHitMeeting, rows), nil
}

// SearchDecisions matches decision contents
func (r *searchRepository) SearchDecisions(ctx context.Context, keyword string, limit int) ([]repositories.SearchHit, error) {
	var rows []searchRow
	err := r.db.WithContext(ctx).
		Table("decisions AS d").
		Select("d.id AS id, d.meeting_id AS meeting_id, m.title AS meeting_title, m.meeting_date AS meeting_date, d.content AS text").
		Joins("JOIN meetings m ON m.id = d.meeting_id").
		Where(`d.content ILIKE ? ESCAPE '\'`, containsPattern(keyword)).
		Order("m.meeting_date DESC NULLS LAST").
		Order("d.position ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search decisions: %w", err)
	}
	return toHits(repositories.SearchHitDecision, rows), nil
}

// SearchTodos matches todo tasks
func (r *searchRepository) SearchTodos(ctx context.Context, keyword string, limit int) ([]repositories.SearchHit, error) {
	var rows []searchRow
	err := r.db.WithContext(ctx).
		Table("todos AS t").
		Select("t.id AS id, t.meeting_id AS meeting_id, m.title AS meeting_title, m.meeting_date AS meeting_date, t.task AS text, t.status AS status").
		Joins("JOIN meetings m ON m.id = t.meeting_id").
		Where(`t.task ILIKE ? ESCAPE '\'`, containsPattern(keyword)).
		Order("m.meeting_date DESC NULLS LAST").
		Order("t.created_at ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search todos: %w", err)
	}
	return toHits(repositories.SearchHitTodo, rows), nil
}
