// Package apierror defines the error format rendered by the API.
package apierror

import "net/http"

const (
	// CodeSessionExpired is returned when a server-side session is missing,
	// invalidated or idle-expired. Clients must log in again.
	CodeSessionExpired = "SESSION_EXPIRED"
	// CodeInvalidCredentials is returned on bad login credentials.
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	// CodeForbidden is returned when the authenticated identity lacks the required role.
	CodeForbidden = "FORBIDDEN"
	// CodeUnauthorized is returned when no authenticated identity is attached.
	CodeUnauthorized = "UNAUTHORIZED"
	// CodeNotFound is returned when the requested record does not exist.
	CodeNotFound = "NOT_FOUND"
	// CodeInvalidParameters is returned on malformed or incomplete request payloads.
	CodeInvalidParameters = "INVALID_PARAMETERS"
)

// An Error is an error that can be rendered as a JSON body by the server.
type Error struct {
	HTTPCode int    `json:"-"`
	Message  string `json:"error"`
	Code     string `json:"code,omitempty"`
}

// New returns a new Error with the given message.
func New(message string) *Error {
	return &Error{HTTPCode: http.StatusBadRequest, Message: message}
}

// NewWithCode returns a new Error with the given HTTP status, machine-readable code and message.
func NewWithCode(status int, code, message string) *Error {
	return &Error{HTTPCode: status, Message: message, Code: code}
}

// SessionExpired returns the rejection used when session validation fails.
func SessionExpired() *Error {
	return NewWithCode(http.StatusUnauthorized, CodeSessionExpired, "Session expired. Please log in again.")
}

// StatusCode returns the HTTP status code of err.
func StatusCode(err error) int {
	if aerr, ok := err.(*Error); ok && aerr.HTTPCode != 0 {
		return aerr.HTTPCode
	}
	return http.StatusInternalServerError
}

// Error implements error interface.
func (e *Error) Error() string {
	return e.Message
}
