package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile represents a registered user and assignee candidate
type Profile struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email    string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName *string   `json:"full_name,omitempty" gorm:"column:full_name;type:varchar(255)"`
	Username *string   `json:"username,omitempty" gorm:"type:varchar(100);uniqueIndex"`
	IsActive bool      `json:"is_active" gorm:"default:true;not null"`

	// OAuth fields
	OAuthProvider *string `json:"oauth_provider,omitempty" gorm:"column:oauth_provider;type:varchar(50);index:idx_oauth"`
	OAuthID       *string `json:"oauth_id,omitempty" gorm:"column:oauth_id;type:varchar(255);index:idx_oauth"`
	PasswordHash  *string `json:"-" gorm:"column:password_hash;type:text"` // Never expose in JSON

	LastLoginAt *time.Time `json:"last_login_at,omitempty" gorm:"type:timestamptz"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile creates a new profile with default values
func NewProfile(email, fullName string) *Profile {
	now := time.Now()
	p := &Profile{
		ID:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if name := strings.TrimSpace(fullName); name != "" {
		p.FullName = &name
	}
	return p
}

// NewOAuthProfile creates a new profile from OAuth provider
func NewOAuthProfile(email, fullName, provider, oauthID string) *Profile {
	p := NewProfile(email, fullName)
	p.OAuthProvider = &provider
	p.OAuthID = &oauthID
	return p
}

// UpdateLastLogin updates the last login timestamp
func (p *Profile) UpdateLastLogin() {
	now := time.Now()
	p.LastLoginAt = &now
	p.UpdatedAt = now
}

// DisplayName returns full_name, falling back to username then email
func (p *Profile) DisplayName() string {
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	if p.Username != nil && *p.Username != "" {
		return *p.Username
	}
	return p.Email
}

// Validate validates profile data
func (p *Profile) Validate() error {
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// PublicProfile is the profile shape exposed to other users
type PublicProfile struct {
	ID       uuid.UUID `json:"id"`
	FullName *string   `json:"full_name"`
	Username *string   `json:"username"`
}

// ToPublic converts Profile to PublicProfile
func (p *Profile) ToPublic() *PublicProfile {
	return &PublicProfile{
		ID:       p.ID,
		FullName: p.FullName,
		Username: p.Username,
	}
}
