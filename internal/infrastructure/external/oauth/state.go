package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-notes/internal/infrastructure/cache"
)

// StateManager manages OAuth state tokens for CSRF protection. Each state
// remembers the path the browser should return to after login.
type StateManager struct {
	store      cache.Store
	expiration time.Duration
}

// NewStateManager creates a new state manager on top of a cache store
func NewStateManager(store cache.Store) *StateManager {
	return &StateManager{
		store:      store,
		expiration: 15 * time.Minute, // State expires in 15 minutes
	}
}

// SafeNextPath keeps next only when it is a local absolute path
func SafeNextPath(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// GenerateState generates a random state token bound to next
func (sm *StateManager) GenerateState(ctx context.Context, next string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	state := base64.RawURLEncoding.EncodeToString(b)

	key := fmt.Sprintf("oauth:state:%s", state)
	if err := sm.store.Set(ctx, key, SafeNextPath(next), sm.expiration); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}

	return state, nil
}

// ConsumeState validates a state token (one-time use) and returns its next path
func (sm *StateManager) ConsumeState(ctx context.Context, state string) (string, bool, error) {
	if state == "" {
		return "", false, nil
	}
	key := fmt.Sprintf("oauth:state:%s", state)

	next, ok, err := sm.store.Take(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to read oauth state: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return SafeNextPath(next), true, nil
}
