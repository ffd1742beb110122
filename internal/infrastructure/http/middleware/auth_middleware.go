package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

const (
	// UserKey holds the authenticated *entities.Profile in the echo context
	UserKey = "user"
	// UserIDKey holds the authenticated profile id (uuid.UUID)
	UserIDKey = "user_id"
	// AccessTokenCookie is the cookie fallback for the bearer token
	AccessTokenCookie = "access_token"
)

// Authenticator resolves an access token to the active profile
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*entities.Profile, error)
}

// EchoAuth returns an Echo middleware that validates the access token and sets
// "user_id" (uuid.UUID) and "user" (*entities.Profile) into Echo context
func EchoAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c.Request())
			if token == "" {
				return errors.ErrUnauthenticated()
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return errors.ErrInvalidToken()
			}

			c.Set(UserKey, user)
			c.Set(UserIDKey, user.ID)

			return next(c)
		}
	}
}

// ExtractToken reads the Authorization header, falling back to the cookie
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// CurrentUser returns the profile stored by EchoAuth
func CurrentUser(c echo.Context) (*entities.Profile, bool) {
	user, ok := c.Get(UserKey).(*entities.Profile)
	return user, ok && user != nil
}

// CurrentUserID returns the profile id stored by EchoAuth
func CurrentUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(UserIDKey).(uuid.UUID)
	return id, ok
}
