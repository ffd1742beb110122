package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

// ProfileRepository implements the profile repository interface using GORM
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{
		db: db,
	}
}

// Create creates a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			if strings.Contains(err.Error(), "username") {
				return entities.ErrUsernameTaken
			}
			return entities.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// FindByID finds a profile by ID
func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Profile, error) {
	var profile entities.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find profile by ID: %w", err)
	}
	return &profile, nil
}

// FindByEmail finds a profile by email
func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*entities.Profile, error) {
	var profile entities.Profile
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find profile by email: %w", err)
	}
	return &profile, nil
}

// FindByOAuth finds a profile by OAuth provider and ID
func (r *ProfileRepository) FindByOAuth(ctx context.Context, provider, oauthID string) (*entities.Profile, error) {
	var profile entities.Profile
	if err := r.db.WithContext(ctx).
		Where("oauth_provider = ? AND oauth_id = ?", provider, oauthID).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find profile by OAuth: %w", err)
	}
	return &profile, nil
}

// Update updates a profile
func (r *ProfileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// UpdateLastLogin updates the last login timestamp
func (r *ProfileRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	if err := r.db.WithContext(ctx).
		Model(&entities.Profile{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": now,
			"updated_at":    now,
		}).Error; err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// ListActive lists every active profile
func (r *ProfileRepository) ListActive(ctx context.Context) ([]*entities.Profile, error) {
	var profiles []*entities.Profile
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("full_name ASC NULLS LAST").
		Order("username ASC NULLS LAST").
		Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}
