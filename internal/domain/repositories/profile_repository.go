package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	// Create creates a new profile
	Create(ctx context.Context, profile *entities.Profile) error

	// FindByID finds a profile by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Profile, error)

	// FindByEmail finds a profile by email
	FindByEmail(ctx context.Context, email string) (*entities.Profile, error)

	// FindByOAuth finds a profile by OAuth provider and ID
	FindByOAuth(ctx context.Context, provider, oauthID string) (*entities.Profile, error)

	// Update updates a profile
	Update(ctx context.Context, profile *entities.Profile) error

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error

	// ListActive returns every active profile ordered by full name
	ListActive(ctx context.Context) ([]*entities.Profile, error)
}
