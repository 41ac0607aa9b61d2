package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		CaseID:    "case-1",
		ClientID:  "client-1",
		LawyerID:  "lawyer-1",
		Date:      policyNow.Add(48 * time.Hour),
		Type:      TypeConsultation,
		CreatedBy: RoleClient,
	}
}

func TestDraftValidate_OK(t *testing.T) {
	d := validDraft()
	assert.NoError(t, d.Validate(policyNow))
}

func TestDraftValidate_PastDate(t *testing.T) {
	d := validDraft()
	d.Date = policyNow.Add(-time.Hour)
	err := d.Validate(policyNow)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "date", vErr.Field)
}

func TestDraftValidate_RoleCounterpart(t *testing.T) {
	d := validDraft()
	d.LawyerID = ""
	err := d.Validate(policyNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lawyer is required")

	d = validDraft()
	d.CreatedBy = RoleLawyer
	d.ClientID = ""
	err = d.Validate(policyNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client is required")

	d = validDraft()
	d.CreatedBy = RoleLawyer
	d.LawyerID = ""
	assert.NoError(t, d.Validate(policyNow))
}

func TestDraftValidate_UnknownType(t *testing.T) {
	d := validDraft()
	d.Type = "Brunch"
	assert.True(t, IsValidation(d.Validate(policyNow)))
}

func TestValidateReschedule(t *testing.T) {
	assert.NoError(t, ValidateReschedule(policyNow.Add(time.Second), policyNow))
	assert.True(t, IsValidation(ValidateReschedule(policyNow, policyNow)))
	assert.True(t, IsValidation(ValidateReschedule(time.Time{}, policyNow)))
}

func TestParseType(t *testing.T) {
	for in, want := range map[string]AppointmentType{
		"meeting":       TypeMeeting,
		"Court Hearing": TypeCourtHearing,
		"court_hearing": TypeCourtHearing,
		"court-hearing": TypeCourtHearing,
		" DEADLINE ":    TypeDeadline,
	} {
		got, ok := ParseType(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := ParseType("party")
	assert.False(t, ok)
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusCancelled, ParseStatus("canceled"))
	assert.Equal(t, StatusConfirmed, ParseStatus("CONFIRMED"))
	assert.Equal(t, AppointmentStatus("Weird"), ParseStatus("Weird"))
}

func TestScopeKey(t *testing.T) {
	assert.Equal(t, "all", AllScope.Key())
	assert.Equal(t, "case:c9", CaseScope("c9").Key())
}

func TestErrorTaxonomy_Unwrap(t *testing.T) {
	missing := &AuthenticationError{}
	assert.ErrorIs(t, missing, ErrNotLoggedIn)
	assert.Equal(t, "please log in", missing.Error())

	wrapped := fmt.Errorf("confirming: %w", &AuthenticationError{StatusCode: 401, Message: "token expired"})
	assert.True(t, IsAuthentication(wrapped))
	assert.False(t, errors.Is(wrapped, ErrNotLoggedIn))

	cause := errors.New("dial tcp: refused")
	fetch := &FetchError{Scope: AllScope, Err: &NetworkError{Err: cause}}
	assert.ErrorIs(t, fetch, cause)
	assert.Contains(t, fetch.Error(), "all")

	assert.Equal(t, "Cannot confirm", (&ServerError{StatusCode: 409, Message: "Cannot confirm"}).Error())
	assert.Equal(t, "server returned status 500", (&ServerError{StatusCode: 500}).Error())
}
