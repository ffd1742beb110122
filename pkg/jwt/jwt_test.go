package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	id := uuid.New()

	token, err := m.GenerateAccessToken(id, "a@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "meeting-notes", claims.Issuer)
}

func TestAccessTokenExpired(t *testing.T) {
	m := newTestManager()
	issued := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateAccessToken(uuid.New(), "a@example.com")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(16 * time.Minute) }
	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
	assert.True(t, IsExpired(err))

	_, err = m.ValidateAccessToken("not-a-token")
	assert.False(t, IsExpired(err))
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	m := newTestManager()
	id := uuid.New()

	refresh, err := m.GenerateRefreshToken(id)
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)

	access, err := m.GenerateAccessToken(id, "a@example.com")
	require.NoError(t, err)
	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)

	got, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	m := newTestManager()
	id := uuid.New()

	a, err := m.GenerateRefreshToken(id)
	require.NoError(t, err)
	b, err := m.GenerateRefreshToken(id)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashToken(t *testing.T) {
	m := newTestManager()

	_, err := m.HashToken("")
	assert.Error(t, err)

	h1, err := m.HashToken("abc")
	require.NoError(t, err)
	h2, _ := m.HashToken("abc")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}
