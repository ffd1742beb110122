package analysis

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-notes/internal/testutil"
	"github.com/johnquangdev/meeting-notes/internal/usecase/profile"
	pkgai "github.com/johnquangdev/meeting-notes/pkg/ai"
)

type fakeChat struct {
	mu       sync.Mutex
	hasKey   bool
	answer   string
	err      error
	requests []pkgai.ChatRequest
}

func (f *fakeChat) HasKey() bool { return f.hasKey }

func (f *fakeChat) ChatMessages(_ context.Context, in pkgai.ChatRequest) (*pkgai.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, in)
	if f.err != nil {
		return nil, f.err
	}
	return &pkgai.ChatResponse{Answer: f.answer, ConversationID: "conv-1", MessageID: "msg-1"}, nil
}

func (f *fakeChat) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

const fencedAnswer = "Here you go:\n```json\n" +
	`{"summary":["Budget approved"],"decisions":["Ship v2 in July"],` +
	`"todos":[{"assignee":"ＳＡＴＯ","due_date":"2024-06-12","task":"Prepare the quote"},{"assignee":"Nobody","due_date":"","task":"Book a room"}]}` +
	"\n```"

func TestAnalyzeParsesAndResolvesAssignees(t *testing.T) {
	store := testutil.NewStore()
	sato := store.AddProfile("sato@example.com", "Sato", "")
	profiles := profile.NewProfileService(testutil.ProfileRepo{S: store}, nil)

	chat := &fakeChat{hasKey: true, answer: fencedAnswer}
	svc := NewAnalysisService(chat, profiles, nil, nil, Options{}, nil)

	res, err := svc.Analyze(context.Background(), Request{
		Title:       "Weekly sync",
		MeetingDate: "2024-06-10",
		Transcript:  "Sato: I'll prepare the quote by Wednesday.",
	})
	require.NoError(t, err)
	require.True(t, res.Parsed())
	assert.Equal(t, SourceFenced, res.Source)
	assert.Equal(t, "conv-1", res.ConversationID)
	assert.False(t, res.Cached)

	require.Len(t, res.Result.Todos, 2)
	require.NotNil(t, res.Result.Todos[0].AssigneeID)
	assert.Equal(t, sato.ID.String(), *res.Result.Todos[0].AssigneeID)
	assert.Nil(t, res.Result.Todos[1].AssigneeID)

	require.Equal(t, 1, chat.calls())
	sent := chat.requests[0]
	assert.Equal(t, DifyUser, sent.User)
	assert.Equal(t, "blocking", sent.ResponseMode)
	assert.Equal(t, "Weekly sync", sent.Inputs["title"])
	assert.Equal(t, "2024-06-10", sent.Inputs["meetingDate"])
	assert.Empty(t, sent.ConversationID)
	assert.True(t, strings.Contains(sent.Query, "Sato: I'll prepare the quote by Wednesday."))
	assert.True(t, strings.HasSuffix(sent.Query, "会議名: Weekly sync\n開催日時: 2024-06-10"))
}

func TestAnalyzeUnparsedIsNotAnError(t *testing.T) {
	chat := &fakeChat{hasKey: true, answer: "  Sorry, I could not read that.  "}
	svc := NewAnalysisService(chat, nil, nil, nil, Options{}, nil)

	res, err := svc.Analyze(context.Background(), Request{Transcript: "hello"})
	require.NoError(t, err)
	assert.False(t, res.Parsed())
	assert.Equal(t, ExtractionUnparsed, res.Status)
	assert.Equal(t, "Sorry, I could not read that.", res.Raw)
}

func TestAnalyzeRejectsEmptyTranscript(t *testing.T) {
	chat := &fakeChat{hasKey: true}
	svc := NewAnalysisService(chat, nil, nil, nil, Options{}, nil)

	_, err := svc.Analyze(context.Background(), Request{Transcript: "   "})
	var appErr errors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, errors.ErrorCode_TRANSCRIPT_EMPTY, appErr.Code)
	assert.Equal(t, 0, chat.calls())
}

func TestAnalyzeCarriesConversationID(t *testing.T) {
	chat := &fakeChat{hasKey: true, answer: "{}"}
	svc := NewAnalysisService(chat, nil, nil, nil, Options{}, nil)

	_, err := svc.Analyze(context.Background(), Request{Transcript: "t", ConversationID: "conv-9"})
	require.NoError(t, err)
	assert.Equal(t, "conv-9", chat.requests[0].ConversationID)
}

func TestAnalyzeUsesCache(t *testing.T) {
	mem := cache.NewMemoryStore()
	defer mem.Close()

	chat := &fakeChat{hasKey: true, answer: `{"summary":[],"decisions":[],"todos":[]}`}
	svc := NewAnalysisService(chat, nil, mem, nil, Options{CacheTTL: time.Hour}, nil)
	ctx := context.Background()
	req := Request{Title: "t", Transcript: "same transcript"}

	first, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, 1, chat.calls())

	// follow-up turns bypass the cache
	req.ConversationID = "conv-1"
	_, err = svc.Analyze(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, chat.calls())
}

func TestAnalyzeErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		hasKey bool
		err    error
		code   errors.ErrorCode
		status int
	}{
		{"no key", false, nil, errors.ErrorCode_AI_NOT_CONFIGURED, 500},
		{"client not configured", true, pkgai.ErrNotConfigured, errors.ErrorCode_AI_NOT_CONFIGURED, 500},
		{"unauthorized", true, &pkgai.APIError{StatusCode: 401, Body: `{"code":"unauthorized"}`}, errors.ErrorCode_AI_UNAUTHORIZED, 401},
		{"rate limited", true, &pkgai.APIError{StatusCode: 429, Body: "slow down"}, errors.ErrorCode_AI_QUOTA_EXCEEDED, 429},
		{"bad request", true, &pkgai.APIError{StatusCode: 400, Body: "bad"}, errors.ErrorCode_INTEGRATION_EXTERNAL_API_FAILED, 502},
		{"network", true, stdErrors.New("connection refused"), errors.ErrorCode_INTEGRATION_EXTERNAL_API_FAILED, 502},
		{"undecodable answer", true, fmt.Errorf("%w: unexpected end of JSON input", pkgai.ErrInvalidResponse), errors.ErrorCode_AI_ANALYSIS_FAILED, 502},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &fakeChat{hasKey: tt.hasKey, err: tt.err}
			svc := NewAnalysisService(chat, nil, nil, nil, Options{}, nil)

			_, err := svc.Analyze(context.Background(), Request{Transcript: "t"})
			var appErr errors.AppError
			require.True(t, stdErrors.As(err, &appErr))
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.HTTPCode)
		})
	}
}

func TestUnauthorizedCarriesUpstreamBody(t *testing.T) {
	chat := &fakeChat{hasKey: true, err: &pkgai.APIError{StatusCode: 401, Body: `{"message":"invalid key"}`}}
	svc := NewAnalysisService(chat, nil, nil, nil, Options{}, nil)

	_, err := svc.Analyze(context.Background(), Request{Transcript: "t"})
	var appErr errors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, `{"message":"invalid key"}`, appErr.Details["upstream_body"])
}

func TestStatus(t *testing.T) {
	assert.Equal(t, Status{OK: true, HasKey: true}, NewAnalysisService(&fakeChat{hasKey: true}, nil, nil, nil, Options{}, nil).Status())
	assert.Equal(t, Status{OK: true, HasKey: false}, NewAnalysisService(&fakeChat{}, nil, nil, nil, Options{}, nil).Status())
}

func TestBuildPromptLanguages(t *testing.T) {
	ja := BuildPrompt(PromptJapanese, "定例", "2024-06-10", "本文")
	assert.True(t, strings.HasPrefix(ja, "以下は会議の文字起こしです。"))
	assert.Contains(t, ja, outputContract)
	assert.Contains(t, ja, "--- ここから文字起こし ---\n本文\n--- ここまで ---")

	en := BuildPrompt(PromptEnglish, "Sync", "", "body")
	assert.True(t, strings.HasPrefix(en, "The following is a meeting transcript."))
	assert.True(t, strings.HasSuffix(en, "Meeting title: Sync\nMeeting date: "))

	assert.Equal(t, ja, BuildPrompt("fr", "定例", "2024-06-10", "本文"))
}
