package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stdErrors "errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-notes/internal/usecase/profile"
	pkgai "github.com/johnquangdev/meeting-notes/pkg/ai"
	"github.com/johnquangdev/meeting-notes/pkg/metrics"
)

// DifyUser is the end-user identifier sent with every analysis call
const DifyUser = "web-analyze"

// ChatClient is the language model endpoint used for analysis
type ChatClient interface {
	HasKey() bool
	ChatMessages(ctx context.Context, in pkgai.ChatRequest) (*pkgai.ChatResponse, error)
}

// Request is one transcript to analyse
type Request struct {
	Title          string
	MeetingDate    string
	Transcript     string
	ConversationID string
}

// Result is an analysis answer with its extraction
type Result struct {
	Extraction
	ConversationID string
	MessageID      string
	Cached         bool
}

// Status reports whether analysis can run
type Status struct {
	OK     bool `json:"ok"`
	HasKey bool `json:"has_key"`
}

// Service runs transcripts through the language model
type Service interface {
	Status() Status
	Analyze(ctx context.Context, req Request) (*Result, error)
}

// Options tunes the analysis service
type Options struct {
	Language PromptLanguage
	CacheTTL time.Duration
}

type analysisService struct {
	client    ChatClient
	extractor *Extractor
	profiles  profile.Service
	cache     cache.Store
	metrics   *metrics.Metrics
	opts      Options
	logger    *zap.Logger
}

// NewAnalysisService constructs the analysis service. profiles, store and
// m may be nil; assignee resolution, caching and metrics are then skipped.
func NewAnalysisService(
	client ChatClient,
	profiles profile.Service,
	store cache.Store,
	m *metrics.Metrics,
	opts Options,
	logger *zap.Logger,
) Service {
	if opts.Language == "" {
		opts.Language = PromptJapanese
	}
	return &analysisService{
		client:    client,
		extractor: NewExtractor(),
		profiles:  profiles,
		cache:     store,
		metrics:   m,
		opts:      opts,
		logger:    logger,
	}
}

func (s *analysisService) Status() Status {
	return Status{OK: true, HasKey: s.client != nil && s.client.HasKey()}
}

type cachedAnswer struct {
	Answer         string `json:"answer"`
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
}

// Analyze sends the transcript to the model and extracts the structured
// result. An answer that cannot be parsed is not an error: the result
// then carries only the raw text.
func (s *analysisService) Analyze(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, errors.ErrTranscriptEmpty()
	}
	if s.client == nil || !s.client.HasKey() {
		s.metrics.RecordAnalyze("error")
		return nil, errors.ErrAINotConfigured()
	}

	query := BuildPrompt(s.opts.Language, req.Title, req.MeetingDate, req.Transcript)

	// Follow-up turns depend on conversation state, so only fresh
	// analyses are served from cache.
	cacheKey := ""
	if s.cache != nil && req.ConversationID == "" && s.opts.CacheTTL > 0 {
		cacheKey = s.cacheKey(query)
		if hit, ok := s.readCache(ctx, cacheKey); ok {
			s.metrics.RecordAnalyze("cached")
			return s.finish(ctx, hit, true), nil
		}
	}

	start := time.Now()
	resp, err := s.client.ChatMessages(ctx, pkgai.ChatRequest{
		Query: query,
		Inputs: map[string]string{
			"title":       req.Title,
			"meetingDate": req.MeetingDate,
		},
		ResponseMode:   "blocking",
		User:           DifyUser,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		s.metrics.RecordLLMCall("error", time.Since(start))
		s.metrics.RecordAnalyze("error")
		if s.logger != nil {
			s.logger.Error("analysis call failed", zap.Error(err))
		}
		return nil, mapClientError(err)
	}
	s.metrics.RecordLLMCall("ok", time.Since(start))

	answer := cachedAnswer{
		Answer:         resp.Answer,
		ConversationID: resp.ConversationID,
		MessageID:      resp.MessageID,
	}
	if cacheKey != "" {
		s.writeCache(ctx, cacheKey, answer)
	}

	result := s.finish(ctx, answer, false)
	if result.Parsed() {
		s.metrics.RecordAnalyze("parsed")
	} else {
		s.metrics.RecordAnalyze("unparsed")
	}

	if s.logger != nil {
		s.logger.Info("analysis completed",
			zap.String("status", string(result.Status)),
			zap.String("source", string(result.Source)),
			zap.String("conversation_id", result.ConversationID),
			zap.Int("transcript_length", len(req.Transcript)),
		)
	}
	return result, nil
}

func (s *analysisService) finish(ctx context.Context, answer cachedAnswer, cached bool) *Result {
	result := &Result{
		Extraction:     s.extractor.Extract(answer.Answer),
		ConversationID: answer.ConversationID,
		MessageID:      answer.MessageID,
		Cached:         cached,
	}
	if result.Parsed() {
		s.resolveAssignees(ctx, result)
	}
	return result
}

// resolveAssignees fills assignee_id on drafts whose assignee name
// matches exactly one profile. Failures leave the drafts untouched.
func (s *analysisService) resolveAssignees(ctx context.Context, result *Result) {
	if s.profiles == nil || len(result.Result.Todos) == 0 {
		return
	}

	names := make([]string, 0, len(result.Result.Todos))
	for _, t := range result.Result.Todos {
		if t.AssigneeID == nil && strings.TrimSpace(t.Assignee) != "" {
			names = append(names, t.Assignee)
		}
	}
	if len(names) == 0 {
		return
	}

	resolved, err := s.profiles.ResolveAssignees(ctx, names)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("assignee resolution failed", zap.Error(err))
		}
		return
	}

	for i := range result.Result.Todos {
		t := &result.Result.Todos[i]
		if t.AssigneeID != nil {
			continue
		}
		if id, ok := resolved[t.Assignee]; ok {
			v := id.String()
			t.AssigneeID = &v
		}
	}
}

func (s *analysisService) cacheKey(query string) string {
	sum := sha256.Sum256([]byte(string(s.opts.Language) + "\x00" + query))
	return "analysis:" + hex.EncodeToString(sum[:])
}

func (s *analysisService) readCache(ctx context.Context, key string) (cachedAnswer, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("analysis cache read failed", zap.Error(err))
		}
		return cachedAnswer{}, false
	}
	if !ok {
		return cachedAnswer{}, false
	}
	var hit cachedAnswer
	if err := json.Unmarshal([]byte(raw), &hit); err != nil {
		return cachedAnswer{}, false
	}
	return hit, true
}

func (s *analysisService) writeCache(ctx context.Context, key string, answer cachedAnswer) {
	raw, err := json.Marshal(answer)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.opts.CacheTTL); err != nil && s.logger != nil {
		s.logger.Warn("analysis cache write failed", zap.Error(err))
	}
}

// mapClientError converts chat client failures to application errors
func mapClientError(err error) error {
	if stdErrors.Is(err, pkgai.ErrNotConfigured) {
		return errors.ErrAINotConfigured()
	}
	if stdErrors.Is(err, pkgai.ErrInvalidResponse) {
		return errors.ErrAIAnalysisFailed(err)
	}

	var apiErr *pkgai.APIError
	if stdErrors.As(err, &apiErr) {
		switch {
		case pkgai.IsUnauthorized(err):
			return errors.ErrAIUnauthorized(err).WithDetail("upstream_body", apiErr.Body)
		case pkgai.IsRateLimited(err):
			return errors.ErrAIQuotaExceeded()
		}
		return errors.ErrExternalAPIFailed("dify", err)
	}

	if stdErrors.Is(err, context.DeadlineExceeded) || stdErrors.Is(err, context.Canceled) {
		return errors.ErrAIServiceUnavailable("dify")
	}
	return errors.ErrExternalAPIFailed("dify", err)
}
