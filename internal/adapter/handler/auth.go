package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/errors"
	authDTO "github.com/johnquangdev/meeting-notes/internal/adapter/dto/auth"
	"github.com/johnquangdev/meeting-notes/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-notes/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-notes/internal/usecase/auth"
)

const refreshTokenCookie = "refresh_token"

// AuthOptions configures browser redirects and cookies
type AuthOptions struct {
	// FrontendURL is prefixed to redirect paths after the OAuth callback
	FrontendURL  string
	SecureCookie bool
	// RefreshMaxAge is the refresh cookie lifetime in seconds
	RefreshMaxAge int
}

// Auth handles authentication HTTP requests
type Auth struct {
	authService *auth.Service
	opts        AuthOptions
	logger      *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(authService *auth.Service, opts AuthOptions, logger *zap.Logger) *Auth {
	opts.FrontendURL = strings.TrimRight(opts.FrontendURL, "/")
	return &Auth{
		authService: authService,
		opts:        opts,
		logger:      logger,
	}
}

func deviceInfo(c echo.Context) auth.DeviceInfo {
	return auth.DeviceInfo{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}

// Signup creates an email/password account
// @Summary      Sign up
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      authDTO.SignupRequest  true  "Account"
// @Success      201      {object}  authDTO.AuthResponse
// @Failure      400      {object}  map[string]interface{}  "Validation failed"
// @Failure      409      {object}  map[string]interface{}  "Email already registered"
// @Router       /auth/signup [post]
func (h *Auth) Signup(c echo.Context) error {
	var req authDTO.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.authService.Signup(c.Request().Context(), auth.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Username: req.Username,
	}, deviceInfo(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	h.setSessionCookies(c, result)
	return HandleSuccessStatus(h.logger, c, http.StatusCreated, presenter.ToAuthResponse(result))
}

// Login authenticates with email and password
// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      authDTO.LoginRequest  true  "Credentials"
// @Success      200      {object}  authDTO.AuthResponse
// @Failure      401      {object}  map[string]interface{}  "Invalid credentials"
// @Router       /auth/login [post]
func (h *Auth) Login(c echo.Context) error {
	var req authDTO.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, deviceInfo(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	h.setSessionCookies(c, result)
	return HandleSuccess(h.logger, c, presenter.ToAuthResponse(result))
}

// GoogleLogin handles the initial Google OAuth login request
// GET /v1/auth/google/login?next=/path
func (h *Auth) GoogleLogin(c echo.Context) error {
	authURL, err := h.authService.GoogleAuthURL(c.Request().Context(), c.QueryParam("next"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	// Redirect to Google OAuth
	return c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback handles the OAuth callback from Google. Provider errors
// and failed exchanges send the browser back to the login page with a
// message; success lands on the path stored with the state.
// GET /v1/auth/google/callback
func (h *Auth) GoogleCallback(c echo.Context) error {
	if msg := c.QueryParam("error_description"); msg != "" {
		return h.redirectToLogin(c, msg)
	}
	if msg := c.QueryParam("error"); msg != "" {
		return h.redirectToLogin(c, msg)
	}

	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return h.redirectToLogin(c, "Missing code or state parameter")
	}

	result, next, err := h.authService.GoogleCallback(c.Request().Context(), code, state, deviceInfo(c))
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("google callback failed", zap.Error(err))
		}
		msg := "Authentication failed"
		if appErr, ok := toAppError(err); ok {
			msg = appErr.Message
		}
		return h.redirectToLogin(c, msg)
	}

	h.setSessionCookies(c, result)
	return c.Redirect(http.StatusFound, h.opts.FrontendURL+next)
}

func (h *Auth) redirectToLogin(c echo.Context, msg string) error {
	target := h.opts.FrontendURL + "/login?error=" + url.QueryEscape(msg)
	return c.Redirect(http.StatusFound, target)
}

// RefreshToken refreshes the access token
// POST /v1/auth/refresh
func (h *Auth) RefreshToken(c echo.Context) error {
	var req authDTO.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
			req.RefreshToken = cookie.Value
		}
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, validationError(err))
	}

	result, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	SetCookie(c, middleware.AccessTokenCookie, result.AccessToken, int(result.ExpiresIn), h.opts.SecureCookie)
	return HandleSuccess(h.logger, c, presenter.ToAuthRefreshTokenResponse(result))
}

// Logout revokes the refresh session
// POST /v1/auth/logout
func (h *Auth) Logout(c echo.Context) error {
	var req authDTO.LogoutRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
			req.RefreshToken = cookie.Value
		}
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, validationError(err))
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return HandleError(h.logger, c, err)
	}

	DeleteCookie(c, middleware.AccessTokenCookie)
	DeleteCookie(c, refreshTokenCookie)
	return HandleSuccess(h.logger, c, common.MessageResponse{Message: "Logged out successfully"})
}

// Me returns the current user information
// GET /v1/auth/me
func (h *Auth) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	return HandleSuccess(h.logger, c, presenter.ToUserResponse(user))
}

func (h *Auth) setSessionCookies(c echo.Context, result *auth.AuthResult) {
	SetCookie(c, middleware.AccessTokenCookie, result.AccessToken, int(result.ExpiresIn), h.opts.SecureCookie)
	if result.RefreshToken != "" {
		SetCookie(c, refreshTokenCookie, result.RefreshToken, h.opts.RefreshMaxAge, h.opts.SecureCookie)
	}
}
