package service

import (
	"context"
	"time"

	"github.com/casebridge/casebridge/internal/domain"
)

// AppointmentService turns a user action into one authenticated backend call
// and refreshes the record store afterwards. The CLI commands and the browse
// view both go through it.
type AppointmentService interface {
	Load(ctx context.Context, scope domain.Scope) ([]domain.Appointment, error)
	Confirm(ctx context.Context, id string) (*Outcome, error)
	Cancel(ctx context.Context, id string) (*Outcome, error)
	Complete(ctx context.Context, id string) (*Outcome, error)
	Reschedule(ctx context.Context, id string, date time.Time) (*Outcome, error)
	Create(ctx context.Context, draft domain.Draft) (*Outcome, error)
	ExportICS(ctx context.Context, id string) ([]byte, error)
	State() State
}

// State of the executor. Sending while at least one request is in flight.
type State int

const (
	StateIdle State = iota
	StateSending
)

func (s State) String() string {
	if s == StateSending {
		return "sending"
	}
	return "idle"
}

// Outcome describes a successful action.
type Outcome struct {
	Action      string
	Appointment domain.Appointment
	Message     string
	// Reloaded is true when the store fetched its scope again.
	Reloaded bool
	// ReloadErr is set when the action succeeded but the follow-up reload
	// failed. The store keeps its previous contents in that case.
	ReloadErr error
}
