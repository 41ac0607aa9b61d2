// Package mockapi is an in-memory implementation of the appointment REST
// backend. It serves `casebridge mock-server` for local use and backs the
// end-to-end tests. It enforces the same lifecycle rules as the client policy
// and answers errors as {"message": "..."}.
package mockapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/casebridge/casebridge/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// BasePath prefixes every route, matching the default client API_URL.
const BasePath = "/api"

type Option func(*Server)

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

type Server struct {
	echo   *echo.Echo
	data   *memory
	secret []byte
	now    func() time.Time
	logger zerolog.Logger
}

func New(secret []byte, opts ...Option) *Server {
	s := &Server{
		data:   newMemory(),
		secret: secret,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(recovery(s.logger))
	e.Use(requestLogger(s.logger))

	g := e.Group(BasePath + "/appointments")
	g.Use(JWTMiddleware(secret))
	s.registerRoutes(g)

	s.echo = e
	return s
}

// Seed stores appointments as-is, bypassing validation.
func (s *Server) Seed(appts ...domain.Appointment) {
	for _, a := range appts {
		s.data.put(a)
	}
}

// Appointment returns the stored record.
func (s *Server) Appointment(id string) (domain.Appointment, bool) {
	return s.data.get(id)
}

// Token issues a token accepted by this server.
func (s *Server) Token(sub string, role domain.Role) (string, error) {
	return IssueToken(s.secret, sub, role, "", time.Hour)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}
