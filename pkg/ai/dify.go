package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/johnquangdev/meeting-notes/pkg/config"
)

var (
	// ErrNotConfigured is returned when no API key is set
	ErrNotConfigured = errors.New("dify api key is not configured")
	// ErrInvalidResponse is returned when a 2xx body is not a chat response
	ErrInvalidResponse = errors.New("invalid dify response")
)

// APIError is a non-2xx answer from the chat-messages endpoint
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dify returned status %d: %s", e.StatusCode, truncate(e.Body, 300))
}

// IsUnauthorized reports whether err is a 401 from the API
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsRateLimited reports whether err is a 429 from the API
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}

// DifyClient is a minimal client for the Dify chat-messages API
type DifyClient struct {
	apiKey        string
	baseURL       string
	client        *http.Client
	maxRetries    uint64
	retryInterval time.Duration
}

// NewDifyClient creates a client from config. A nil config yields a
// client without key, which reports HasKey() == false.
func NewDifyClient(cfg *config.DifyConfig) *DifyClient {
	c := &DifyClient{
		baseURL:       "https://api.dify.ai/v1",
		client:        &http.Client{Timeout: 120 * time.Second},
		maxRetries:    2,
		retryInterval: 500 * time.Millisecond,
	}
	if cfg == nil {
		return c
	}
	c.apiKey = strings.TrimSpace(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		c.client.Timeout = cfg.Timeout
	}
	c.maxRetries = cfg.MaxRetries
	return c
}

// HasKey reports whether an API key is configured
func (d *DifyClient) HasKey() bool {
	return d.apiKey != ""
}

// ChatRequest is the body of a chat-messages call
type ChatRequest struct {
	Query          string            `json:"query"`
	Inputs         map[string]string `json:"inputs"`
	ResponseMode   string            `json:"response_mode"`
	User           string            `json:"user"`
	ConversationID string            `json:"conversation_id,omitempty"`
}

// ChatResponse is the blocking-mode answer
type ChatResponse struct {
	Event          string          `json:"event"`
	MessageID      string          `json:"message_id"`
	ConversationID string          `json:"conversation_id"`
	Mode           string          `json:"mode"`
	Answer         string          `json:"answer"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	CreatedAt      int64           `json:"created_at"`
}

// ChatMessages sends a blocking chat-messages request. Network errors,
// 429 and 5xx answers are retried with exponential backoff; other
// statuses fail immediately with *APIError.
func (d *DifyClient) ChatMessages(ctx context.Context, in ChatRequest) (*ChatResponse, error) {
	if !d.HasKey() {
		return nil, ErrNotConfigured
	}
	if in.ResponseMode == "" {
		in.ResponseMode = "blocking"
	}
	if in.Inputs == nil {
		in.Inputs = map[string]string{}
	}

	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	var out *ChatResponse
	call := func() error {
		resp, err := d.do(ctx, body)
		if err != nil {
			return err
		}
		out = resp
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = d.retryInterval
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, d.maxRetries), ctx)

	if err := backoff.Retry(call, policy); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *DifyClient) do(ctx context.Context, body []byte) (*ChatResponse, error) {
	endpoint := d.baseURL + "/chat-messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, apiErr
		}
		return nil, backoff.Permanent(apiErr)
	}

	var cr ChatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrInvalidResponse, err))
	}
	return &cr, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
