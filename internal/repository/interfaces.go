package repository

import (
	"context"
	"errors"
	"time"

	"github.com/casebridge/casebridge/internal/domain"
)

var ErrNotFound = errors.New("not found")

// AppointmentRepo is the local cache of server-returned appointments.
// Scopes are addressed by domain.Scope.Key().
type AppointmentRepo interface {
	Upsert(ctx context.Context, a domain.Appointment) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	ListByScope(ctx context.Context, scope string) ([]domain.Appointment, error)
	// ReplaceScope makes the scope contain exactly appts, in order. Run it
	// inside a unit of work; it issues several statements.
	ReplaceScope(ctx context.Context, scope string, appts []domain.Appointment) error
	AddToScope(ctx context.Context, scope, appointmentID string) error
	LastSynced(ctx context.Context, scope string) (*time.Time, error)
}
