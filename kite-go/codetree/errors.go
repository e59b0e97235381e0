package codetree

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrTruncated is returned when the backend could not list the whole tree in one response.
	// Callers should list folders on demand with a Subtree instead.
	ErrTruncated = errors.New("tree too large to be retrieved at once")

	// ErrUnresolved is returned when a tree is requested for a context without a branch.
	ErrUnresolved = errors.New("repository context has no branch")
)

// ErrorKind classifies backend failures
type ErrorKind int

// ErrorKind values
const (
	KindUnknown ErrorKind = iota
	KindConnection
	KindInvalidToken
	KindPrivateRepository
	KindEmptyRepository
	KindRateLimited
	KindForbidden
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnection:
		return "Connection error"
	case KindInvalidToken:
		return "Invalid token"
	case KindPrivateRepository:
		return "Private repository"
	case KindEmptyRepository:
		return "Empty repository"
	case KindRateLimited:
		return "API limit exceeded"
	case KindForbidden:
		return "Forbidden"
	default:
		return "Unknown error"
	}
}

// BackendError is a failed request to the hosting provider
type BackendError struct {
	Kind   ErrorKind
	Status int
	// Title and Message are meant to be shown to the user as is.
	Title   string
	Message string
	// NeedAuth is set when supplying (another) access token may fix the failure.
	NeedAuth bool
	Err      error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s (status %d): %s", e.Title, e.Status, e.Message)
}

// Unwrap returns the underlying transport or API error.
func (e *BackendError) Unwrap() error {
	return e.Err
}

// NewBackendError classifies a failed response by its status code. rateLimited is
// set when a 403 response reported no remaining requests; tokenURL is where the user
// can create an access token.
func NewBackendError(status int, rateLimited bool, tokenURL string, cause error) *BackendError {
	e := &BackendError{Status: status, Err: cause}
	switch {
	case status == 0:
		e.Kind = KindConnection
		e.Message = "Cannot connect to website. If your network connection to this website is fine, " +
			"maybe there is an outage of the API. Please try again later."
	case status == http.StatusUnauthorized:
		e.Kind = KindInvalidToken
		e.Message = fmt.Sprintf("The token is invalid. Create a new token at %s.", tokenURL)
		e.NeedAuth = true
	case status == http.StatusConflict:
		e.Kind = KindEmptyRepository
		e.Message = "This repository is empty."
	case status == http.StatusNotFound:
		e.Kind = KindPrivateRepository
		e.Message = fmt.Sprintf("Accessing private repositories requires an access token. Create one at %s.", tokenURL)
		e.NeedAuth = true
	case status == http.StatusForbidden && rateLimited:
		e.Kind = KindRateLimited
		e.Message = fmt.Sprintf("You have exceeded the hourly API limit and need an access token to make extra requests. Create one at %s.", tokenURL)
		e.NeedAuth = true
	case status == http.StatusForbidden:
		e.Kind = KindForbidden
		e.Message = fmt.Sprintf("You are not allowed to access the API. You might need to provide an access token. Create one at %s.", tokenURL)
		e.NeedAuth = true
	default:
		e.Kind = KindUnknown
		e.Title = http.StatusText(status)
		if e.Title == "" {
			e.Title = e.Kind.String()
		}
		e.Message = e.Title
		if cause != nil {
			e.Message = cause.Error()
		}
		return e
	}
	e.Title = e.Kind.String()
	return e
}

// ParseError is malformed data from the backend. It is never fatal to a tree load.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.What, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Describe renders an error returned by the Engine as a title, a message and a status code.
func Describe(err error) (title, message string, status int) {
	var be *BackendError
	switch {
	case err == nil:
		return "", "", 0
	case errors.Is(err, ErrTruncated):
		return "Repo too large", "This repository is too large to be retrieved at once. " +
			"Load folders on demand instead.", http.StatusPartialContent
	case errors.As(err, &be):
		return be.Title, be.Message, be.Status
	default:
		return "Error", err.Error(), 0
	}
}
