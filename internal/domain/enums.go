package domain

import "strings"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pending"
	StatusConfirmed AppointmentStatus = "Confirmed"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// ParseStatus maps a wire status to its canonical form, ignoring case.
// Unknown values are returned unchanged so the policy can treat them as terminal.
func ParseStatus(s string) AppointmentStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending
	case "confirmed":
		return StatusConfirmed
	case "completed":
		return StatusCompleted
	case "cancelled", "canceled":
		return StatusCancelled
	default:
		return AppointmentStatus(s)
	}
}

// AppointmentType is shared by every surface that creates or renders
// appointments. It is the union of the sets used by the case, client and
// lawyer forms.
type AppointmentType string

const (
	TypeMeeting      AppointmentType = "Meeting"
	TypeHearing      AppointmentType = "Hearing"
	TypeCourtHearing AppointmentType = "Court Hearing"
	TypeDeadline     AppointmentType = "Deadline"
	TypeConsultation AppointmentType = "Consultation"
	TypeCall         AppointmentType = "Call"
	TypeReview       AppointmentType = "Review"
	TypeOther        AppointmentType = "Other"
)

// AppointmentTypes lists every accepted type in display order.
var AppointmentTypes = []AppointmentType{
	TypeMeeting, TypeConsultation, TypeCall, TypeReview,
	TypeHearing, TypeCourtHearing, TypeDeadline, TypeOther,
}

// ParseType resolves a user or wire supplied type name.
func ParseType(s string) (AppointmentType, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)
	for _, t := range AppointmentTypes {
		if strings.ToLower(string(t)) == norm {
			return t, true
		}
	}
	return "", false
}

// Role identifies who is creating an appointment.
type Role string

const (
	RoleClient Role = "client"
	RoleLawyer Role = "lawyer"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleClient:
		return RoleClient, true
	case RoleLawyer:
		return RoleLawyer, true
	}
	return "", false
}
