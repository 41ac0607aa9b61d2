package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/casebridge/casebridge/internal/domain"
)

// ErrMalformedResponse indicates a 2xx body that could not be decoded.
var ErrMalformedResponse = errors.New("malformed response from backend")

// statusError converts a non-2xx response into the domain taxonomy. The
// server's message is kept verbatim.
func statusError(code int, body []byte) error {
	msg := messageFrom(body)
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		if msg == "" {
			msg = "session expired, please log in again"
		}
		return &domain.AuthenticationError{StatusCode: code, Message: msg}
	default:
		return &domain.ServerError{StatusCode: code, Message: msg}
	}
}

func messageFrom(body []byte) string {
	var eb ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Message != "" {
		return eb.Message
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

// transportError wraps anything that kept the request from completing.
// Context cancellation is returned unchanged so callers can tell it apart.
func transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &domain.NetworkError{Err: err}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var (
		authErr *domain.AuthenticationError
		srvErr  *domain.ServerError
		netErr  *domain.NetworkError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.Is(err, context.Canceled):
		return "CANCELLED"
	case errors.As(err, &authErr):
		return "UNAUTHENTICATED"
	case errors.As(err, &srvErr):
		return "SERVER"
	case errors.As(err, &netErr):
		if isConnectionError(netErr.Err) {
			return "UNAVAILABLE"
		}
		return "NETWORK"
	case errors.Is(err, ErrMalformedResponse):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
