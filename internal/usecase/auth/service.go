package auth

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/external/oauth"
	"github.com/johnquangdev/meeting-notes/pkg/jwt"
)

// MinPasswordLength is the shortest password accepted at signup
const MinPasswordLength = 8

// Service handles email/password and OAuth authentication
type Service struct {
	profileRepo  repositories.ProfileRepository
	sessionRepo  repositories.SessionRepository
	jwtManager   *jwt.Manager
	stateManager *oauth.StateManager
	google       oauth.Provider
	logger       *zap.Logger
}

// NewService creates a new auth service. google may be nil when Google
// login is not configured.
func NewService(
	profileRepo repositories.ProfileRepository,
	sessionRepo repositories.SessionRepository,
	jwtManager *jwt.Manager,
	stateManager *oauth.StateManager,
	google oauth.Provider,
	logger *zap.Logger,
) *Service {
	return &Service{
		profileRepo:  profileRepo,
		sessionRepo:  sessionRepo,
		jwtManager:   jwtManager,
		stateManager: stateManager,
		google:       google,
		logger:       logger,
	}
}

// DeviceInfo describes the client opening a session
type DeviceInfo struct {
	IP        string
	UserAgent string
}

// SignupInput represents input for creating an account
type SignupInput struct {
	Email    string
	Password string
	FullName string
	Username string
}

// AuthResult is returned by every successful login
type AuthResult struct {
	Profile      *entities.Profile
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Signup creates an email/password account and logs it in
func (s *Service) Signup(ctx context.Context, in SignupInput, device DeviceInfo) (*AuthResult, error) {
	profile := entities.NewProfile(in.Email, in.FullName)
	if err := profile.Validate(); err != nil {
		return nil, errors.ErrInvalidArgument("email is invalid")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, errors.ErrInvalidArgument(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if username := strings.TrimSpace(in.Username); username != "" {
		profile.Username = &username
	}

	if _, err := s.profileRepo.FindByEmail(ctx, profile.Email); err == nil {
		return nil, errors.ErrUserAlreadyExists(profile.Email)
	} else if !stdErrors.Is(err, entities.ErrUserNotFound) {
		return nil, errors.ErrInternal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.ErrInternal(fmt.Errorf("failed to hash password: %w", err))
	}
	hashed := string(hash)
	profile.PasswordHash = &hashed

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if stdErrors.Is(err, entities.ErrUserAlreadyExists) {
			return nil, errors.ErrUserAlreadyExists(profile.Email)
		}
		if stdErrors.Is(err, entities.ErrUsernameTaken) {
			return nil, errors.ErrAlreadyExists("Username").WithDetail("username", *profile.Username)
		}
		return nil, errors.ErrInternal(err)
	}

	if s.logger != nil {
		s.logger.Info("profile created", zap.String("user_id", profile.ID.String()))
	}

	return s.issueTokens(ctx, profile, device)
}

// Login verifies email and password
func (s *Service) Login(ctx context.Context, email, password string, device DeviceInfo) (*AuthResult, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return nil, errors.ErrInvalidCredentials()
		}
		return nil, errors.ErrInternal(err)
	}

	if profile.PasswordHash == nil {
		return nil, errors.ErrInvalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*profile.PasswordHash), []byte(password)); err != nil {
		return nil, errors.ErrInvalidCredentials()
	}
	if !profile.IsActive {
		return nil, s.rejectDisabled(ctx, profile)
	}

	if err := s.profileRepo.UpdateLastLogin(ctx, profile.ID); err != nil && s.logger != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	return s.issueTokens(ctx, profile, device)
}

// Refresh issues a new access token for a valid refresh token
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.ErrInvalidRefreshToken()
	}

	session, err := s.findSession(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !session.IsValid() || session.UserID != userID {
		return nil, errors.ErrInvalidRefreshToken()
	}

	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return nil, errors.ErrUserNotFound()
		}
		return nil, errors.ErrInternal(err)
	}
	if !profile.IsActive {
		return nil, s.rejectDisabled(ctx, profile)
	}

	// Update last used (non-fatal)
	_ = s.sessionRepo.UpdateLastUsed(ctx, session.ID)

	accessToken, err := s.jwtManager.GenerateAccessToken(profile.ID, profile.Email)
	if err != nil {
		return nil, errors.ErrInternal(fmt.Errorf("failed to generate access token: %w", err))
	}

	return &AuthResult{
		Profile:     profile,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}

// rejectDisabled revokes every session of a disabled profile so refresh
// tokens issued before deactivation stop working.
func (s *Service) rejectDisabled(ctx context.Context, profile *entities.Profile) error {
	if err := s.sessionRepo.RevokeAllByUserID(ctx, profile.ID); err != nil && s.logger != nil {
		s.logger.Warn("failed to revoke sessions of disabled profile",
			zap.String("user_id", profile.ID.String()), zap.Error(err))
	}
	return errors.ErrForbidden("account is disabled")
}

// Logout revokes the session behind a refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.findSession(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := s.sessionRepo.Revoke(ctx, session.ID); err != nil {
		return errors.ErrInternal(err)
	}
	return nil
}

// Authenticate resolves an access token to an active profile
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*entities.Profile, error) {
	claims, err := s.jwtManager.ValidateAccessToken(accessToken)
	if err != nil {
		if jwt.IsExpired(err) {
			return nil, errors.ErrTokenExpired()
		}
		return nil, errors.ErrInvalidToken()
	}

	profile, err := s.profileRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return nil, errors.ErrInvalidToken()
		}
		return nil, errors.ErrInternal(err)
	}
	if !profile.IsActive {
		return nil, errors.ErrForbidden("account is disabled")
	}
	return profile, nil
}

// GoogleEnabled reports whether Google login is available
func (s *Service) GoogleEnabled() bool {
	return s.google != nil && s.stateManager != nil
}

// GoogleAuthURL creates a state token bound to next and returns the consent URL
func (s *Service) GoogleAuthURL(ctx context.Context, next string) (string, error) {
	if !s.GoogleEnabled() {
		return "", errors.ErrOAuthDisabled("google")
	}

	state, err := s.stateManager.GenerateState(ctx, next)
	if err != nil {
		return "", errors.ErrCacheFailed("generate oauth state", err)
	}
	return s.google.GetAuthURL(state), nil
}

// GoogleCallback completes Google login. It returns the local path the
// browser asked to return to.
func (s *Service) GoogleCallback(ctx context.Context, code, state string, device DeviceInfo) (*AuthResult, string, error) {
	if !s.GoogleEnabled() {
		return nil, "/", errors.ErrOAuthDisabled("google")
	}

	next, ok, err := s.stateManager.ConsumeState(ctx, state)
	if err != nil {
		return nil, "/", errors.ErrCacheFailed("read oauth state", err)
	}
	if !ok {
		return nil, "/", errors.ErrOAuthFailed(s.google.Name(), entities.ErrOAuthStateMismatch)
	}
	if code == "" {
		return nil, next, errors.ErrOAuthFailed(s.google.Name(), entities.ErrOAuthCodeInvalid)
	}

	info, err := s.google.Authenticate(ctx, code)
	if err != nil {
		return nil, next, errors.ErrOAuthFailed(s.google.Name(), err)
	}

	profile, err := s.findOrCreateOAuthProfile(ctx, s.google.Name(), info)
	if err != nil {
		return nil, next, err
	}
	if !profile.IsActive {
		return nil, next, s.rejectDisabled(ctx, profile)
	}

	result, err := s.issueTokens(ctx, profile, device)
	if err != nil {
		return nil, next, err
	}
	return result, next, nil
}

func (s *Service) findOrCreateOAuthProfile(ctx context.Context, provider string, info *oauth.UserInfo) (*entities.Profile, error) {
	profile, err := s.profileRepo.FindByOAuth(ctx, provider, info.ID)
	if err == nil {
		profile.UpdateLastLogin()
		if profile.FullName == nil && info.Name != "" {
			name := info.Name
			profile.FullName = &name
		}
		if err := s.profileRepo.Update(ctx, profile); err != nil {
			return nil, errors.ErrInternal(fmt.Errorf("failed to update profile: %w", err))
		}
		return profile, nil
	}
	if !stdErrors.Is(err, entities.ErrUserNotFound) {
		return nil, errors.ErrInternal(err)
	}

	// An email/password account with the same email gets linked
	existing, err := s.profileRepo.FindByEmail(ctx, info.Email)
	if err == nil {
		existing.OAuthProvider = &provider
		existing.OAuthID = &info.ID
		existing.UpdateLastLogin()
		if err := s.profileRepo.Update(ctx, existing); err != nil {
			return nil, errors.ErrInternal(fmt.Errorf("failed to link accounts: %w", err))
		}
		return existing, nil
	}
	if !stdErrors.Is(err, entities.ErrUserNotFound) {
		return nil, errors.ErrInternal(err)
	}

	profile = entities.NewOAuthProfile(info.Email, info.Name, provider, info.ID)
	profile.UpdateLastLogin()
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, errors.ErrInternal(fmt.Errorf("failed to create profile: %w", err))
	}
	if s.logger != nil {
		s.logger.Info("profile created from oauth",
			zap.String("user_id", profile.ID.String()),
			zap.String("provider", provider),
		)
	}
	return profile, nil
}

func (s *Service) findSession(ctx context.Context, refreshToken string) (*entities.Session, error) {
	hash, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, errors.ErrInvalidRefreshToken()
	}
	session, err := s.sessionRepo.FindByTokenHash(ctx, hash)
	if err != nil {
		if stdErrors.Is(err, entities.ErrSessionNotFound) {
			return nil, errors.ErrInvalidRefreshToken()
		}
		return nil, errors.ErrInternal(err)
	}
	return session, nil
}

func (s *Service) issueTokens(ctx context.Context, profile *entities.Profile, device DeviceInfo) (*AuthResult, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(profile.ID, profile.Email)
	if err != nil {
		return nil, errors.ErrInternal(fmt.Errorf("failed to generate access token: %w", err))
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(profile.ID)
	if err != nil {
		return nil, errors.ErrInternal(fmt.Errorf("failed to generate refresh token: %w", err))
	}

	hash, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}

	session := entities.NewSession(
		profile.ID,
		hash,
		time.Now().Add(s.jwtManager.GetRefreshExpiry()),
	).WithDeviceInfo(device.IP, device.UserAgent)

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, errors.ErrInternal(fmt.Errorf("failed to create session: %w", err))
	}

	return &AuthResult{
		Profile:      profile,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}
