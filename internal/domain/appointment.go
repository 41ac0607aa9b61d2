package domain

import (
	"strings"
	"time"
)

type Appointment struct {
	ID          string
	CaseID      string
	ClientID    string
	LawyerID    string
	Date        time.Time
	Type        AppointmentType
	Status      AppointmentStatus
	Description string
}

// IsTerminal reports whether the appointment can no longer change.
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled
}

// Upcoming reports whether the appointment date is strictly after now.
func (a *Appointment) Upcoming(now time.Time) bool {
	return a.Date.After(now)
}

// Draft is the input for creating an appointment.
type Draft struct {
	CaseID      string
	ClientID    string
	LawyerID    string
	Date        time.Time
	Type        AppointmentType
	Description string
	CreatedBy   Role
}

// Validate checks the draft before any request is made. The date must be in
// the future and the counterpart of the creating role must be named.
func (d *Draft) Validate(now time.Time) error {
	if strings.TrimSpace(d.CaseID) == "" {
		return &ValidationError{Field: "case", Message: "case is required"}
	}
	if d.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "date is required"}
	}
	if !d.Date.After(now) {
		return &ValidationError{Field: "date", Message: "appointment date must be in the future"}
	}
	if _, ok := ParseType(string(d.Type)); !ok {
		return &ValidationError{Field: "type", Message: "unknown appointment type " + string(d.Type)}
	}
	switch d.CreatedBy {
	case RoleClient:
		if strings.TrimSpace(d.LawyerID) == "" {
			return &ValidationError{Field: "lawyer", Message: "lawyer is required when a client books an appointment"}
		}
	case RoleLawyer:
		if strings.TrimSpace(d.ClientID) == "" {
			return &ValidationError{Field: "client", Message: "client is required when a lawyer books an appointment"}
		}
	default:
		return &ValidationError{Field: "role", Message: "role must be client or lawyer"}
	}
	return nil
}

// ValidateReschedule checks a requested new date against now.
func ValidateReschedule(newDate, now time.Time) error {
	if newDate.IsZero() {
		return &ValidationError{Field: "date", Message: "date is required"}
	}
	if !newDate.After(now) {
		return &ValidationError{Field: "date", Message: "new date must be in the future"}
	}
	return nil
}

// Scope selects which appointments a store holds: one case or the caller's
// full list.
type Scope struct {
	CaseID string
}

// AllScope is the caller's full appointment list.
var AllScope = Scope{}

func CaseScope(caseID string) Scope {
	return Scope{CaseID: caseID}
}

func (s Scope) IsCase() bool { return s.CaseID != "" }

// Key is the stable cache key for the scope.
func (s Scope) Key() string {
	if s.IsCase() {
		return "case:" + s.CaseID
	}
	return "all"
}

func (s Scope) String() string { return s.Key() }
