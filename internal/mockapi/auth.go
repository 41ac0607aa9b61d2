package mockapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/casebridge/casebridge/internal/domain"
	"github.com/casebridge/casebridge/internal/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

const callerKey contextKey = "caller"

// Caller is the authenticated user of a request.
type Caller struct {
	ID   string
	Role domain.Role
}

func callerFrom(c echo.Context) Caller {
	caller, _ := c.Request().Context().Value(callerKey).(Caller)
	return caller
}

// IssueToken signs an HS256 token for sub. A zero ttl issues a token without
// expiry.
func IssueToken(secret []byte, sub string, role domain.Role, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := session.Claims{
		Role: string(role),
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  sub,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// JWTMiddleware rejects requests without a valid bearer token signed with
// secret.
func JWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims := &session.Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			role, ok := domain.ParseRole(claims.Role)
			if !ok || claims.Subject == "" {
				return echo.NewHTTPError(http.StatusForbidden, "token has no usable role")
			}

			ctx := context.WithValue(c.Request().Context(), callerKey, Caller{ID: claims.Subject, Role: role})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
