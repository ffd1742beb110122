package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-notes/pkg/config"
)

func newTestClient(url string, retries uint64) *DifyClient {
	c := NewDifyClient(&config.DifyConfig{
		BaseURL:    url,
		APIKey:     "test-key",
		Timeout:    5 * time.Second,
		MaxRetries: retries,
	})
	c.retryInterval = time.Millisecond
	return c
}

func TestChatMessages_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat-messages", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "blocking", payload["response_mode"])
		assert.Equal(t, "web-analyze", payload["user"])
		assert.Equal(t, "conv-1", payload["conversation_id"])
		assert.Equal(t, map[string]interface{}{"title": "Weekly"}, payload["inputs"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"event":           "message",
			"conversation_id": "conv-1",
			"answer":          `{"summary":[],"decisions":[],"todos":[]}`,
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL, 0)
	resp, err := client.ChatMessages(context.Background(), ChatRequest{
		Query:          "analyze",
		Inputs:         map[string]string{"title": "Weekly"},
		User:           "web-analyze",
		ConversationID: "conv-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "conv-1", resp.ConversationID)
	assert.Contains(t, resp.Answer, "summary")
}

func TestChatMessages_OmitsEmptyConversationID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, present := payload["conversation_id"]
		assert.False(t, present)
		json.NewEncoder(w).Encode(map[string]string{"answer": "ok"})
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, 0).ChatMessages(context.Background(), ChatRequest{Query: "q"})
	require.NoError(t, err)
}

func TestChatMessages_UnauthorizedIsNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"unauthorized","message":"Access token is invalid"}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, 3).ChatMessages(context.Background(), ChatRequest{Query: "q"})

	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Body, "Access token is invalid")
}

func TestChatMessages_RetriesServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"answer": "finally"})
	}))
	defer ts.Close()

	resp, err := newTestClient(ts.URL, 2).ChatMessages(context.Background(), ChatRequest{Query: "q"})

	require.NoError(t, err)
	assert.Equal(t, "finally", resp.Answer)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestChatMessages_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, 1).ChatMessages(context.Background(), ChatRequest{Query: "q"})

	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestChatMessages_NotConfigured(t *testing.T) {
	client := NewDifyClient(nil)
	assert.False(t, client.HasKey())

	_, err := client.ChatMessages(context.Background(), ChatRequest{Query: "q"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestChatMessages_UndecodableBodyIsNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>gateway</html>"))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, 3).ChatMessages(context.Background(), ChatRequest{Query: "q"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
