package domain

import (
	"errors"
	"fmt"
)

// ErrNotLoggedIn is the cause carried by AuthenticationError when no
// credential is present.
var ErrNotLoggedIn = errors.New("please log in")

// AuthenticationError reports a missing or rejected bearer credential.
type AuthenticationError struct {
	StatusCode int // 0 when the credential was missing locally
	Message    string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return ErrNotLoggedIn.Error()
	}
	return e.Message
}

func (e *AuthenticationError) Unwrap() error {
	if e.StatusCode == 0 {
		return ErrNotLoggedIn
	}
	return nil
}

// ValidationError reports bad input detected before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ServerError is a non-2xx response. Message is the server's text, verbatim.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return e.Message
}

// NetworkError reports a request that could not complete.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// FetchError reports a failed store load.
type FetchError struct {
	Scope Scope
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("loading appointments for %s: %v", e.Scope, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsAuthentication reports whether err is, or wraps, an AuthenticationError.
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
