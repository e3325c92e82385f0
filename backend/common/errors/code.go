package errors

import "net/http"

// Error codes surfaced in logs and, where useful, to API clients.
const (
	// Generic
	ErrInternalServer = "ERR_INTERNAL_SERVER"
	ErrInvalidParam   = "ERR_INVALID_PARAM"

	// Auth
	ErrInvalidToken = "ERR_INVALID_TOKEN"
	ErrForbidden    = "ERR_FORBIDDEN"

	// Servers
	ErrServerNotFound       = "ERR_SERVER_NOT_FOUND"
	ErrServerConfigNotFound = "ERR_SERVER_CONFIG_NOT_FOUND"
	ErrCategoryNotFound     = "ERR_CATEGORY_NOT_FOUND"
	ErrNotServerOwner       = "ERR_NOT_SERVER_OWNER"

	// Users
	ErrUserNotFound = "ERR_USER_NOT_FOUND"

	// Teams
	ErrTeamNotFound       = "ERR_TEAM_NOT_FOUND"
	ErrTeamMemberNotFound = "ERR_TEAM_MEMBER_NOT_FOUND"
	ErrTeamConfigNotFound = "ERR_TEAM_CONFIG_NOT_FOUND"
	ErrNotTeamMember      = "ERR_NOT_TEAM_MEMBER"
	ErrNotTeamAdmin       = "ERR_NOT_TEAM_ADMIN"
	ErrDuplicateMember    = "ERR_DUPLICATE_MEMBER"
	ErrSoleOwner          = "ERR_SOLE_OWNER"
)

// APIError is an error carrying the HTTP status it should surface as.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func New(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

func NotFound(code, message string) *APIError {
	return New(http.StatusNotFound, code, message)
}

func Forbidden(code, message string) *APIError {
	return New(http.StatusForbidden, code, message)
}

func Conflict(code, message string) *APIError {
	return New(http.StatusConflict, code, message)
}

func BadRequest(code, message string) *APIError {
	return New(http.StatusBadRequest, code, message)
}
