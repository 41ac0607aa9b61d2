package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/casebridge/casebridge/internal/domain"
)

// AppointmentJSON is the backend's appointment representation.
type AppointmentJSON struct {
	ID          string `json:"id"`
	CaseID      string `json:"caseId"`
	ClientID    string `json:"clientId"`
	LawyerID    string `json:"lawyerId"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts "_id" as an alias for "id".
func (a *AppointmentJSON) UnmarshalJSON(data []byte) error {
	type plain AppointmentJSON
	var raw struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = AppointmentJSON(raw.plain)
	if a.ID == "" {
		a.ID = raw.MongoID
	}
	return nil
}

// ToDomain converts the wire form. Unknown types and statuses are kept as-is
// so the lifecycle policy can treat them conservatively.
func (a AppointmentJSON) ToDomain() (domain.Appointment, error) {
	date, err := time.Parse(time.RFC3339, a.Date)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("appointment %s: parsing date %q: %w", a.ID, a.Date, err)
	}
	typ, ok := domain.ParseType(a.Type)
	if !ok {
		typ = domain.AppointmentType(a.Type)
	}
	return domain.Appointment{
		ID:          a.ID,
		CaseID:      a.CaseID,
		ClientID:    a.ClientID,
		LawyerID:    a.LawyerID,
		Date:        date,
		Type:        typ,
		Status:      domain.ParseStatus(a.Status),
		Description: a.Description,
	}, nil
}

// FromDomain renders an appointment in wire form.
func FromDomain(a domain.Appointment) AppointmentJSON {
	return AppointmentJSON{
		ID:          a.ID,
		CaseID:      a.CaseID,
		ClientID:    a.ClientID,
		LawyerID:    a.LawyerID,
		Date:        a.Date.UTC().Format(time.RFC3339),
		Type:        string(a.Type),
		Status:      string(a.Status),
		Description: a.Description,
	}
}

// CreateRequest is the body of POST /appointments.
type CreateRequest struct {
	Client      string `json:"client"`
	Lawyer      string `json:"lawyer"`
	Case        string `json:"case"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

func NewCreateRequest(d domain.Draft) CreateRequest {
	return CreateRequest{
		Client:      d.ClientID,
		Lawyer:      d.LawyerID,
		Case:        d.CaseID,
		Date:        d.Date.UTC().Format(time.RFC3339),
		Type:        string(d.Type),
		Description: d.Description,
	}
}

// RescheduleRequest is the body of PATCH /appointments/{id}/date.
type RescheduleRequest struct {
	Date string `json:"date"`
}

// ErrorBody is the backend's error payload.
type ErrorBody struct {
	Message string `json:"message"`
}
