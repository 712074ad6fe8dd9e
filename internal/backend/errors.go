package backend

import (
	"errors"
	"net/http"
)

// Error kinds. Every *Error carries exactly one of these.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUpstreamAuth = errors.New("upstream authentication failed")
	ErrUpstream     = errors.New("upstream request failed")
	ErrStorage      = errors.New("storage failure")
	ErrAI           = errors.New("ai request failed")
)

// Error is a failure with a message meant for the player.
type Error struct {
	Kind    error
	Message string
	Detail  string
	Hint    string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// ErrorBody is the JSON body of a failed call.
type ErrorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Hint   string `json:"hint,omitempty"`
}

// StatusFor maps an error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUpstreamAuth):
		return http.StatusForbidden
	case errors.Is(err, ErrUpstream), errors.Is(err, ErrAI):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// BodyFor renders err for the client. Errors that are not *Error are reported
// as internal errors with the cause in detail.
func BodyFor(err error) ErrorBody {
	var e *Error
	if errors.As(err, &e) {
		return ErrorBody{Error: e.Message, Detail: e.Detail, Hint: e.Hint}
	}
	return ErrorBody{Error: "Internal server error", Detail: err.Error()}
}

func invalid(msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

func notFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func storageFailure(msg string, err error) *Error {
	return &Error{Kind: ErrStorage, Message: msg, Detail: err.Error(), Err: err}
}
