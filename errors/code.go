package errors

import "strconv"

// ErrorCode is the application error code returned in error envelopes
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED ErrorCode = 0
	ErrorCode_HTTP_OK     ErrorCode = 200

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_FORBIDDEN         ErrorCode = 1006
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1007
	ErrorCode_RATE_LIMITED      ErrorCode = 1008

	// Auth
	ErrorCode_AUTH_INVALID_TOKEN         ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED         ErrorCode = 2001
	ErrorCode_AUTH_INVALID_CREDENTIALS   ErrorCode = 2002
	ErrorCode_AUTH_USER_NOT_FOUND        ErrorCode = 2003
	ErrorCode_AUTH_USER_ALREADY_EXISTS   ErrorCode = 2004
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN ErrorCode = 2005
	ErrorCode_AUTH_OAUTH_FAILED          ErrorCode = 2006
	ErrorCode_AUTH_OAUTH_DISABLED        ErrorCode = 2007

	// Meetings / todos
	ErrorCode_MEETING_NOT_FOUND      ErrorCode = 3000
	ErrorCode_MEETING_SAVE_FAILED    ErrorCode = 3001
	ErrorCode_TODO_NOT_FOUND         ErrorCode = 3002
	ErrorCode_TODO_INVALID_STATUS    ErrorCode = 3003
	ErrorCode_TRANSCRIPT_EMPTY       ErrorCode = 3004
	ErrorCode_TRANSCRIPT_NOT_TEXT    ErrorCode = 3005
	ErrorCode_TRANSCRIPT_READ_FAILED ErrorCode = 3006

	// AI
	ErrorCode_AI_ANALYSIS_FAILED      ErrorCode = 4000
	ErrorCode_AI_SERVICE_UNAVAILABLE  ErrorCode = 4001
	ErrorCode_AI_NOT_CONFIGURED       ErrorCode = 4002
	ErrorCode_AI_UNAUTHORIZED         ErrorCode = 4003
	ErrorCode_AI_QUOTA_EXCEEDED       ErrorCode = 4004

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = 5000
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = 5001
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = 5002

	// Database
	ErrorCode_DB_CONNECTION_FAILED  ErrorCode = 6000
	ErrorCode_DB_QUERY_FAILED       ErrorCode = 6001
	ErrorCode_DB_TRANSACTION_FAILED ErrorCode = 6002
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:                     "UNSPECIFIED",
	ErrorCode_HTTP_OK:                         "HTTP_OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:                  "ALREADY_EXISTS",
	ErrorCode_UNAUTHENTICATED:                 "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                       "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_RATE_LIMITED:                    "RATE_LIMITED",
	ErrorCode_AUTH_INVALID_TOKEN:              "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:              "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_INVALID_CREDENTIALS:        "AUTH_INVALID_CREDENTIALS",
	ErrorCode_AUTH_USER_NOT_FOUND:             "AUTH_USER_NOT_FOUND",
	ErrorCode_AUTH_USER_ALREADY_EXISTS:        "AUTH_USER_ALREADY_EXISTS",
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN:      "AUTH_INVALID_REFRESH_TOKEN",
	ErrorCode_AUTH_OAUTH_FAILED:               "AUTH_OAUTH_FAILED",
	ErrorCode_AUTH_OAUTH_DISABLED:             "AUTH_OAUTH_DISABLED",
	ErrorCode_MEETING_NOT_FOUND:               "MEETING_NOT_FOUND",
	ErrorCode_MEETING_SAVE_FAILED:             "MEETING_SAVE_FAILED",
	ErrorCode_TODO_NOT_FOUND:                  "TODO_NOT_FOUND",
	ErrorCode_TODO_INVALID_STATUS:             "TODO_INVALID_STATUS",
	ErrorCode_TRANSCRIPT_EMPTY:                "TRANSCRIPT_EMPTY",
	ErrorCode_TRANSCRIPT_NOT_TEXT:             "TRANSCRIPT_NOT_TEXT",
	ErrorCode_TRANSCRIPT_READ_FAILED:          "TRANSCRIPT_READ_FAILED",
	ErrorCode_AI_ANALYSIS_FAILED:              "AI_ANALYSIS_FAILED",
	ErrorCode_AI_SERVICE_UNAVAILABLE:          "AI_SERVICE_UNAVAILABLE",
	ErrorCode_AI_NOT_CONFIGURED:               "AI_NOT_CONFIGURED",
	ErrorCode_AI_UNAUTHORIZED:                 "AI_UNAUTHORIZED",
	ErrorCode_AI_QUOTA_EXCEEDED:               "AI_QUOTA_EXCEEDED",
	ErrorCode_INTEGRATION_STORAGE_FAILED:      "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:            "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
	ErrorCode_DB_TRANSACTION_FAILED:           "DB_TRANSACTION_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "ErrorCode(" + strconv.Itoa(int(c)) + ")"
}

// MarshalText renders the code by name in JSON envelopes
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
