package handler

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/errors"
	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

// meetingDateLayouts are accepted for meeting_date, tried in order.
// Layouts without an offset are read in the configured timezone.
var meetingDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseMeetingDate parses an optional meeting date; empty yields nil
func parseMeetingDate(raw string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range meetingDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return &t, nil
		}
	}
	return nil, errors.ErrInvalidArgument("meeting_date must be an ISO date or date-time")
}

// bindAndValidate decodes the request into req and runs struct validation
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload()
	}
	if err := c.Validate(req); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError converts validator errors into an AppError with one
// detail per failing field
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !stdErrors.As(err, &verrs) {
		return errors.ErrInvalidArgument(err.Error())
	}
	appErr := errors.ErrInvalidArgument("Validation failed")
	for _, fe := range verrs {
		appErr = appErr.WithDetail(fe.Namespace(), fe.Tag())
	}
	return appErr
}

// SetCookie sets an HTTP cookie with common security settings
func SetCookie(c echo.Context, name, value string, maxAge int, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// DeleteCookie deletes an HTTP cookie by setting MaxAge to -1
func DeleteCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// toAppError maps domain sentinels that escaped a usecase
func toAppError(err error) (errors.AppError, bool) {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr, true
	}
	switch {
	case stdErrors.Is(err, entities.ErrUserNotFound):
		return errors.ErrUserNotFound(), true
	case stdErrors.Is(err, entities.ErrMeetingNotFound):
		return errors.ErrNotFound("meeting"), true
	case stdErrors.Is(err, entities.ErrTodoNotFound):
		return errors.ErrNotFound("todo"), true
	case stdErrors.Is(err, entities.ErrInvalidStatus):
		return errors.ErrInvalidArgument("invalid status"), true
	case stdErrors.Is(err, entities.ErrInvalidDueDate):
		return errors.ErrInvalidArgument("due_date must be YYYY-MM-DD"), true
	case stdErrors.Is(err, entities.ErrSessionNotFound), stdErrors.Is(err, entities.ErrSessionExpired):
		return errors.ErrInvalidRefreshToken(), true
	case stdErrors.Is(err, entities.ErrUnauthorized):
		return errors.ErrUnauthenticated(), true
	case stdErrors.Is(err, entities.ErrForbidden):
		return errors.ErrForbidden("forbidden"), true
	}
	return errors.AppError{}, false
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return HandleSuccessStatus(logger, c, http.StatusOK, data)
}

// HandleSuccessStatus is HandleSuccess with an explicit status code
func HandleSuccessStatus(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	if appErr, ok := toAppError(err); ok {
		if logger != nil {
			level := logger.Warn
			if appErr.HTTPCode >= http.StatusInternalServerError {
				level = logger.Error
			}
			level("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}

// ErrorHandler renders errors returned by middleware and unmatched routes
// in the same envelope as HandleError
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if stdErrors.As(err, &he) {
			body := errs{
				Code:    httpStatusCode(he.Code),
				Message: fmt.Sprint(he.Message),
			}
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(he.Code)
			} else {
				err = c.JSON(he.Code, body)
			}
		} else {
			err = HandleError(logger, c, err)
		}
		if err != nil && logger != nil {
			logger.Error("http.error_handler.write_failed", zap.Error(err))
		}
	}
}

func httpStatusCode(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest:
		return errors.ErrorCode_INVALID_ARGUMENT
	case http.StatusUnauthorized:
		return errors.ErrorCode_UNAUTHENTICATED
	case http.StatusForbidden:
		return errors.ErrorCode_FORBIDDEN
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return errors.ErrorCode_NOT_FOUND
	case http.StatusTooManyRequests:
		return errors.ErrorCode_RATE_LIMITED
	case http.StatusRequestEntityTooLarge:
		return errors.ErrorCode_INVALID_PAYLOAD
	}
	return errors.ErrorCode_INTERNAL
}
