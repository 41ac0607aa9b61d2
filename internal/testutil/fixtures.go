package testutil

import (
	"time"

	"github.com/casebridge/casebridge/internal/domain"
	"github.com/google/uuid"
)

// FixedNow is the reference instant used by tests that need a stable clock.
var FixedNow = time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)

type AppointmentOption func(*domain.Appointment)

func WithStatus(s domain.AppointmentStatus) AppointmentOption {
	return func(a *domain.Appointment) {
		a.Status = s
	}
}

func WithDate(d time.Time) AppointmentOption {
	return func(a *domain.Appointment) {
		a.Date = d
	}
}

func WithCase(caseID string) AppointmentOption {
	return func(a *domain.Appointment) {
		a.CaseID = caseID
	}
}

func WithType(t domain.AppointmentType) AppointmentOption {
	return func(a *domain.Appointment) {
		a.Type = t
	}
}

func WithID(id string) AppointmentOption {
	return func(a *domain.Appointment) {
		a.ID = id
	}
}

func WithDescription(d string) AppointmentOption {
	return func(a *domain.Appointment) {
		a.Description = d
	}
}

// NewTestAppointment returns a pending meeting one day after FixedNow.
func NewTestAppointment(opts ...AppointmentOption) domain.Appointment {
	a := domain.Appointment{
		ID:       uuid.New().String(),
		CaseID:   "case-1",
		ClientID: "client-1",
		LawyerID: "lawyer-1",
		Date:     FixedNow.Add(24 * time.Hour),
		Type:     domain.TypeMeeting,
		Status:   domain.StatusPending,
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

type DraftOption func(*domain.Draft)

func WithDraftDate(d time.Time) DraftOption {
	return func(dr *domain.Draft) {
		dr.Date = d
	}
}

func WithCreatedBy(r domain.Role) DraftOption {
	return func(dr *domain.Draft) {
		dr.CreatedBy = r
	}
}

// NewTestDraft returns a valid client-created consultation two days after
// FixedNow.
func NewTestDraft(opts ...DraftOption) domain.Draft {
	d := domain.Draft{
		CaseID:      "case-1",
		ClientID:    "client-1",
		LawyerID:    "lawyer-1",
		Date:        FixedNow.Add(48 * time.Hour),
		Type:        domain.TypeConsultation,
		Description: "initial consultation",
		CreatedBy:   domain.RoleClient,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
