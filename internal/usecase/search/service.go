package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
)

// Per-kind result caps
const (
	MeetingLimit  = 10
	DecisionLimit = 20
	TodoLimit     = 20
)

// Service runs keyword search across meetings, decisions and todos
type Service interface {
	Search(ctx context.Context, keyword string) ([]repositories.SearchHit, error)
}

type searchService struct {
	repo   repositories.SearchRepository
	logger *zap.Logger
}

// NewSearchService creates a new search service
func NewSearchService(repo repositories.SearchRepository, logger *zap.Logger) Service {
	return &searchService{repo: repo, logger: logger}
}

// Search returns meeting hits, then decision hits, then todo hits. An
// empty keyword returns no hits. A failing source is skipped and logged;
// only when every source fails is an error returned.
func (s *searchService) Search(ctx context.Context, keyword string) ([]repositories.SearchHit, error) {
	keyword = strings.TrimSpace(keyword)
	hits := make([]repositories.SearchHit, 0)
	if keyword == "" {
		return hits, nil
	}

	sources := []struct {
		kind  repositories.SearchHitKind
		limit int
		run   func(context.Context, string, int) ([]repositories.SearchHit, error)
	}{
		{repositories.SearchHitMeeting, MeetingLimit, s.repo.SearchMeetings},
		{repositories.SearchHitDecision, DecisionLimit, s.repo.SearchDecisions},
		{repositories.SearchHitTodo, TodoLimit, s.repo.SearchTodos},
	}

	var lastErr error
	failed := 0
	for _, src := range sources {
		found, err := src.run(ctx, keyword, src.limit)
		if err != nil {
			failed++
			lastErr = err
			if s.logger != nil {
				s.logger.Warn("search source failed",
					zap.String("kind", string(src.kind)),
					zap.Error(err),
				)
			}
			continue
		}
		hits = append(hits, found...)
	}

	if failed == len(sources) {
		return nil, errors.ErrDBQueryFailed("search", lastErr)
	}
	return hits, nil
}
