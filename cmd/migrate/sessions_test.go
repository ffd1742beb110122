package main

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/testutil"
)

func TestPruneSessions(t *testing.T) {
	store := testutil.NewStore()
	repo := testutil.SessionRepo{S: store}
	ctx := context.Background()
	now := time.Now()
	user := uuid.New()

	live := entities.NewSession(user, "live", now.Add(time.Hour))
	expired := entities.NewSession(user, "expired", now.Add(-48*time.Hour))
	revoked := entities.NewSession(user, "revoked", now.Add(time.Hour))
	revokedAt := now.Add(-48 * time.Hour)
	revoked.RevokedAt = &revokedAt
	recentlyRevoked := entities.NewSession(user, "recent", now.Add(time.Hour))
	recentlyRevoked.Revoke()

	for _, s := range []*entities.Session{live, expired, revoked, recentlyRevoked} {
		require.NoError(t, repo.Create(ctx, s))
	}

	require.NoError(t, pruneSessions(ctx, repo, now.Add(-24*time.Hour)))

	assert.Contains(t, store.Sessions, live.ID)
	assert.Contains(t, store.Sessions, recentlyRevoked.ID)
	assert.NotContains(t, store.Sessions, expired.ID)
	assert.NotContains(t, store.Sessions, revoked.ID)
}
