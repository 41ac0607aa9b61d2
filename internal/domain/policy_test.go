package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var policyNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func apptAt(status AppointmentStatus, date time.Time) Appointment {
	return Appointment{ID: "a1", Status: status, Date: date}
}

func TestPermittedActions_DecisionTable(t *testing.T) {
	future := policyNow.Add(24 * time.Hour)
	past := policyNow.Add(-24 * time.Hour)

	cases := []struct {
		name   string
		status AppointmentStatus
		date   time.Time
		want   []Action
	}{
		{"pending upcoming", StatusPending, future, []Action{ActionConfirm, ActionCancel, ActionReschedule}},
		{"pending expired", StatusPending, past, nil},
		{"confirmed upcoming", StatusConfirmed, future, []Action{ActionComplete, ActionCancel, ActionReschedule}},
		{"confirmed late", StatusConfirmed, past, []Action{ActionComplete}},
		{"completed future", StatusCompleted, future, nil},
		{"completed past", StatusCompleted, past, nil},
		{"cancelled future", StatusCancelled, future, nil},
		{"cancelled past", StatusCancelled, past, nil},
		{"unknown status", AppointmentStatus("Archived"), future, nil},
		{"empty status", AppointmentStatus(""), future, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PermittedActions(apptAt(tc.status, tc.date), policyNow)
			assert.Equal(t, NewActionSet(tc.want...), got)
			assert.ElementsMatch(t, tc.want, got.List())
		})
	}
}

func TestPermittedActions_DateEqualToNowIsNotUpcoming(t *testing.T) {
	got := PermittedActions(apptAt(StatusPending, policyNow), policyNow)
	assert.True(t, got.Empty())

	got = PermittedActions(apptAt(StatusConfirmed, policyNow), policyNow)
	assert.Equal(t, NewActionSet(ActionComplete), got)
}

func TestPermittedActions_PendingFutureNeverAllowsComplete(t *testing.T) {
	for h := 1; h <= 24*30; h += 7 {
		got := PermittedActions(apptAt(StatusPending, policyNow.Add(time.Duration(h)*time.Hour)), policyNow)
		assert.True(t, got.Has(ActionConfirm))
		assert.True(t, got.Has(ActionCancel))
		assert.False(t, got.Has(ActionComplete))
	}
}

func TestActionSet_StringAndOrder(t *testing.T) {
	s := NewActionSet(ActionReschedule, ActionConfirm, ActionCancel)
	assert.Equal(t, "confirm, cancel, reschedule", s.String())
	assert.Equal(t, "none", ActionSet(0).String())
	assert.False(t, s.Has(Action("delete")))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusConfirmed))
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusConfirmed, StatusCompleted))
	assert.True(t, CanTransition(StatusConfirmed, StatusCancelled))

	assert.False(t, CanTransition(StatusPending, StatusCompleted))
	assert.False(t, CanTransition(StatusConfirmed, StatusPending))
	assert.False(t, CanTransition(StatusCompleted, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusConfirmed))
	assert.False(t, CanTransition(StatusConfirmed, StatusConfirmed))
}

func TestAction_TargetStatus(t *testing.T) {
	s, ok := ActionConfirm.TargetStatus()
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, s)

	_, ok = ActionReschedule.TargetStatus()
	assert.False(t, ok)
}

func TestExpired(t *testing.T) {
	assert.True(t, Expired(apptAt(StatusPending, policyNow.Add(-time.Minute)), policyNow))
	assert.False(t, Expired(apptAt(StatusConfirmed, policyNow.Add(-time.Minute)), policyNow))
	assert.False(t, Expired(apptAt(StatusPending, policyNow.Add(time.Minute)), policyNow))
}
