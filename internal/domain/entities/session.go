package entities

import (
	"time"

	"github.com/google/uuid"
)

// Session is a refresh-token login session. Only the SHA-256 of the
// refresh token is stored.
type Session struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	RefreshTokenHash string     `json:"-" gorm:"column:refresh_token;type:text;uniqueIndex;not null"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
	ExpiresAt        time.Time  `json:"expires_at" gorm:"type:timestamptz;not null;index"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty" gorm:"type:timestamptz"`
	LastUsedAt       *time.Time `json:"last_used_at,omitempty" gorm:"type:timestamptz"`

	IPAddress *string `json:"ip_address,omitempty" gorm:"type:varchar(45)"`
	UserAgent *string `json:"user_agent,omitempty" gorm:"type:text"`
}

// TableName specifies the table name for GORM
func (Session) TableName() string {
	return "sessions"
}

// NewSession creates a new session
func NewSession(userID uuid.UUID, refreshTokenHash string, expiresAt time.Time) *Session {
	return &Session{
		ID:               uuid.New(),
		UserID:           userID,
		RefreshTokenHash: refreshTokenHash,
		ExpiresAt:        expiresAt,
		CreatedAt:        time.Now(),
	}
}

// IsExpired checks if session is expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsValid checks if session is valid (not expired and not revoked)
func (s *Session) IsValid() bool {
	if s == nil {
		return false
	}
	return !s.IsExpired() && s.RevokedAt == nil
}

// Revoke revokes the session
func (s *Session) Revoke() {
	now := time.Now()
	s.RevokedAt = &now
}

// UpdateLastUsed updates the last used timestamp
func (s *Session) UpdateLastUsed() {
	now := time.Now()
	s.LastUsedAt = &now
}

// WithDeviceInfo records where the session was opened from
func (s *Session) WithDeviceInfo(ip, userAgent string) *Session {
	if ip != "" {
		s.IPAddress = &ip
	}
	if userAgent != "" {
		s.UserAgent = &userAgent
	}
	return s
}
