package presenter

import (
	authDTO "github.com/johnquangdev/meeting-notes/internal/adapter/dto/auth"
	profileDTO "github.com/johnquangdev/meeting-notes/internal/adapter/dto/profile"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/usecase/auth"
)

// ToUserResponse converts a Profile entity to UserResponse DTO
func ToUserResponse(p *entities.Profile) *authDTO.UserResponse {
	if p == nil {
		return nil
	}

	response := &authDTO.UserResponse{
		ID:          p.ID.String(),
		Email:       p.Email,
		DisplayName: p.DisplayName(),
		LastLoginAt: p.LastLoginAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	// Set optional fields
	if p.FullName != nil {
		response.FullName = *p.FullName
	}
	if p.Username != nil {
		response.Username = *p.Username
	}
	if p.OAuthProvider != nil {
		response.OAuthProvider = *p.OAuthProvider
	}

	return response
}

// ToProfileResponse converts a Profile to its public shape
func ToProfileResponse(p *entities.Profile) *profileDTO.ProfileResponse {
	if p == nil {
		return nil
	}
	pub := p.ToPublic()
	return &profileDTO.ProfileResponse{
		ID:          pub.ID.String(),
		FullName:    pub.FullName,
		Username:    pub.Username,
		DisplayName: p.DisplayName(),
	}
}

// ToSuggestResponse converts assignee suggestions
func ToSuggestResponse(profiles []*entities.Profile) *profileDTO.SuggestResponse {
	out := make([]*profileDTO.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, ToProfileResponse(p))
	}
	return &profileDTO.SuggestResponse{Profiles: out}
}

// ToAuthRefreshTokenResponse converts usecase AuthResult to DTO RefreshTokenResponse (for refresh endpoint)
func ToAuthRefreshTokenResponse(result *auth.AuthResult) *authDTO.RefreshTokenResponse {
	if result == nil {
		return nil
	}
	return &authDTO.RefreshTokenResponse{
		AccessToken: result.AccessToken,
		ExpiresIn:   int(result.ExpiresIn),
		TokenType:   "Bearer",
	}
}

// ToAuthResponse converts usecase AuthResult to DTO AuthResponse
func ToAuthResponse(result *auth.AuthResult) *authDTO.AuthResponse {
	if result == nil {
		return nil
	}

	return &authDTO.AuthResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    int(result.ExpiresIn),
		TokenType:    "Bearer",
		User:         ToUserResponse(result.Profile),
	}
}
