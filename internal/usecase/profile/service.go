package profile

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
)

// DefaultSuggestLimit caps assignee suggestions
const DefaultSuggestLimit = 8

// Service is the assignee directory: suggestions while typing and
// resolution of display names to profile ids.
type Service interface {
	Suggest(ctx context.Context, query string, limit int) ([]*entities.Profile, error)
	ResolveAssignee(ctx context.Context, name string) (*uuid.UUID, error)
	ResolveAssignees(ctx context.Context, names []string) (map[string]uuid.UUID, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	logger      *zap.Logger
}

// NewProfileService creates a new profile directory service
func NewProfileService(profileRepo repositories.ProfileRepository, logger *zap.Logger) Service {
	return &profileService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Normalize folds a name for comparison: NFKC, then Unicode case folding,
// then surrounding space trimmed.
func Normalize(s string) string {
	return strings.TrimSpace(cases.Fold().String(norm.NFKC.String(s)))
}

func candidateNames(p *entities.Profile) []string {
	names := make([]string, 0, 2)
	if p.FullName != nil && strings.TrimSpace(*p.FullName) != "" {
		names = append(names, Normalize(*p.FullName))
	}
	if p.Username != nil && strings.TrimSpace(*p.Username) != "" {
		names = append(names, Normalize(*p.Username))
	}
	return names
}

// Suggest returns profiles whose full name or username contains query.
// An empty query lists profiles up to limit.
func (s *profileService) Suggest(ctx context.Context, query string, limit int) ([]*entities.Profile, error) {
	if limit <= 0 || limit > DefaultSuggestLimit {
		limit = DefaultSuggestLimit
	}

	profiles, err := s.profileRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list profiles", err)
	}

	q := Normalize(query)
	out := make([]*entities.Profile, 0, limit)
	for _, p := range profiles {
		names := candidateNames(p)
		if len(names) == 0 {
			continue
		}
		for _, name := range names {
			if strings.Contains(name, q) {
				out = append(out, p)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// ResolveAssignee returns the id of the single profile whose normalised
// full name or username equals name. Ambiguous or unknown names give nil.
func (s *profileService) ResolveAssignee(ctx context.Context, name string) (*uuid.UUID, error) {
	resolved, err := s.ResolveAssignees(ctx, []string{name})
	if err != nil {
		return nil, err
	}
	if id, ok := resolved[name]; ok {
		return &id, nil
	}
	return nil, nil
}

// ResolveAssignees resolves several names with one directory read. Only
// names with exactly one match appear in the result.
func (s *profileService) ResolveAssignees(ctx context.Context, names []string) (map[string]uuid.UUID, error) {
	out := make(map[string]uuid.UUID)

	wanted := make(map[string][]string)
	for _, n := range names {
		key := Normalize(n)
		if key == "" {
			continue
		}
		wanted[key] = append(wanted[key], n)
	}
	if len(wanted) == 0 {
		return out, nil
	}

	profiles, err := s.profileRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list profiles", err)
	}

	matches := make(map[string]map[uuid.UUID]struct{})
	for _, p := range profiles {
		for _, name := range candidateNames(p) {
			if _, ok := wanted[name]; !ok {
				continue
			}
			if matches[name] == nil {
				matches[name] = make(map[uuid.UUID]struct{})
			}
			matches[name][p.ID] = struct{}{}
		}
	}

	for key, ids := range matches {
		if len(ids) != 1 {
			if s.logger != nil {
				s.logger.Debug("ambiguous assignee name",
					zap.String("name", key),
					zap.Int("matches", len(ids)),
				)
			}
			continue
		}
		for id := range ids {
			for _, original := range wanted[key] {
				out[original] = id
			}
		}
	}
	return out, nil
}
