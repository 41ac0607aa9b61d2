package service

import (
	"context"
	"errors"

	"github.com/casebridge/casebridge/internal/api"
	"github.com/casebridge/casebridge/internal/domain"
	"github.com/casebridge/casebridge/internal/session"
	"github.com/casebridge/casebridge/internal/store"
	"github.com/rs/zerolog"
)

// credential returns the bearer token, or fires the login redirect and fails
// when none is stored.
func credential(sess *session.Session) (string, error) {
	token := sess.Token()
	if token == "" {
		sess.RequireLogin(domain.ErrNotLoggedIn.Error())
		return "", &domain.AuthenticationError{}
	}
	return token, nil
}

// expireOnReject clears the credential when the backend rejected it.
func expireOnReject(sess *session.Session, logger zerolog.Logger, err error) {
	var authErr *domain.AuthenticationError
	if !errors.As(err, &authErr) || authErr.StatusCode == 0 {
		return
	}
	if delErr := sess.Expire(authErr.Error()); delErr != nil {
		logger.Warn().Err(delErr).Msg("clearing rejected credential")
	}
}

type authorizedFetcher struct {
	session *session.Session
	client  api.Client
	logger  zerolog.Logger
}

// NewAuthorizedFetcher lists appointments with the session's credential. It
// is the store's only path to the backend.
func NewAuthorizedFetcher(sess *session.Session, client api.Client, logger zerolog.Logger) store.Fetcher {
	return &authorizedFetcher{session: sess, client: client, logger: logger}
}

func (f *authorizedFetcher) Fetch(ctx context.Context, scope domain.Scope) ([]domain.Appointment, error) {
	token, err := credential(f.session)
	if err != nil {
		return nil, err
	}
	list, err := f.client.List(ctx, token, scope)
	if err != nil {
		expireOnReject(f.session, f.logger, err)
		return nil, err
	}
	return list, nil
}
