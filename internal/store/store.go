// Package store holds the appointments currently shown to the user.
//
// The store mirrors one scope of server state. It never decides whether a
// transition is legal; it only replaces its contents with what the backend
// returned. Successful loads are written through to the SQLite cache so the
// last known list can be shown offline.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/casebridge/casebridge/internal/db"
	"github.com/casebridge/casebridge/internal/domain"
	"github.com/casebridge/casebridge/internal/repository"
	"github.com/rs/zerolog"
)

// Fetcher lists the appointments of a scope from the backend.
type Fetcher interface {
	Fetch(ctx context.Context, scope domain.Scope) ([]domain.Appointment, error)
}

// Snapshot is a cached scope listing with the time it was fetched.
type Snapshot struct {
	Scope        domain.Scope
	Appointments []domain.Appointment
	SyncedAt     *time.Time
}

type Option func(*Store)

// WithCache enables write-through to the local database.
func WithCache(conn db.DBTX, uow db.UnitOfWork) Option {
	return func(s *Store) {
		s.cacheDB = conn
		s.uow = uow
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

type Store struct {
	fetcher Fetcher
	cacheDB db.DBTX
	uow     db.UnitOfWork
	logger  zerolog.Logger

	mu     sync.RWMutex
	scope  domain.Scope
	loaded bool
	items  []domain.Appointment
}

func New(fetcher Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher: fetcher,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches scope and replaces the contents. On failure the contents are
// left as they were and a *domain.FetchError is returned.
func (s *Store) Load(ctx context.Context, scope domain.Scope) ([]domain.Appointment, error) {
	list, err := s.fetcher.Fetch(ctx, scope)
	if err != nil {
		return nil, &domain.FetchError{Scope: scope, Err: err}
	}

	s.mu.Lock()
	s.scope = scope
	s.loaded = true
	s.items = append([]domain.Appointment(nil), list...)
	s.mu.Unlock()

	s.writeScope(ctx, scope, list)
	return s.Snapshot(), nil
}

// Reload fetches the current scope again. It reports false when nothing has
// been loaded yet.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	scope, ok := s.Scope()
	if !ok {
		return false, nil
	}
	_, err := s.Load(ctx, scope)
	return true, err
}

// ApplyMutation replaces the record with the same ID, if present.
func (s *Store) ApplyMutation(a domain.Appointment) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == a.ID {
			s.items[i] = a
			break
		}
	}
	s.mu.Unlock()

	s.writeRecord(a, false)
}

// Upsert replaces the record with the same ID or appends it.
func (s *Store) Upsert(a domain.Appointment) {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == a.ID {
			s.items[i] = a
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, a)
	}
	s.mu.Unlock()

	s.writeRecord(a, !found)
}

// Snapshot returns a copy of the contents in server order.
func (s *Store) Snapshot() []domain.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Appointment(nil), s.items...)
}

func (s *Store) Get(id string) (domain.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Appointment{}, false
}

// Scope returns the last loaded scope.
func (s *Store) Scope() (domain.Scope, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scope, s.loaded
}

// Cached reads the last written contents of scope from the local database.
// It does not touch the in-memory contents.
func (s *Store) Cached(ctx context.Context, scope domain.Scope) (*Snapshot, error) {
	if s.cacheDB == nil {
		return nil, fmt.Errorf("offline cache is not configured")
	}
	repo := repository.NewSQLiteAppointmentRepo(s.cacheDB)
	synced, err := repo.LastSynced(ctx, scope.Key())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("no cached appointments for %s: %w", scope, err)
		}
		return nil, err
	}
	list, err := repo.ListByScope(ctx, scope.Key())
	if err != nil {
		return nil, err
	}
	return &Snapshot{Scope: scope, Appointments: list, SyncedAt: synced}, nil
}

func (s *Store) writeScope(ctx context.Context, scope domain.Scope, list []domain.Appointment) {
	if s.uow == nil {
		return
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteAppointmentRepo(tx).ReplaceScope(ctx, scope.Key(), list)
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("scope", scope.Key()).Msg("cache write failed")
	}
}

func (s *Store) writeRecord(a domain.Appointment, added bool) {
	if s.uow == nil {
		return
	}
	scope, loaded := s.Scope()
	ctx := context.Background()
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteAppointmentRepo(tx)
		if err := repo.Upsert(ctx, a); err != nil {
			return err
		}
		if added && loaded {
			return repo.AddToScope(ctx, scope.Key(), a.ID)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("appointment_id", a.ID).Msg("cache write failed")
	}
}
