package domain

import (
	"strings"
	"time"
)

type Action string

const (
	ActionConfirm    Action = "confirm"
	ActionCancel     Action = "cancel"
	ActionComplete   Action = "complete"
	ActionReschedule Action = "reschedule"
)

// actionOrder fixes the display order of an ActionSet.
var actionOrder = []Action{ActionConfirm, ActionComplete, ActionCancel, ActionReschedule}

// TargetStatus is the status an appointment moves to after the action.
// Reschedule keeps the current status and returns false.
func (a Action) TargetStatus() (AppointmentStatus, bool) {
	switch a {
	case ActionConfirm:
		return StatusConfirmed, true
	case ActionCancel:
		return StatusCancelled, true
	case ActionComplete:
		return StatusCompleted, true
	}
	return "", false
}

// PastTense is the word used in success messages.
func (a Action) PastTense() string {
	switch a {
	case ActionConfirm:
		return "confirmed"
	case ActionCancel:
		return "cancelled"
	case ActionComplete:
		return "completed"
	case ActionReschedule:
		return "rescheduled"
	}
	return string(a)
}

// ActionSet is a small set of actions.
type ActionSet uint8

func bit(a Action) ActionSet {
	for i, known := range actionOrder {
		if a == known {
			return 1 << i
		}
	}
	return 0
}

func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s |= bit(a)
	}
	return s
}

func (s ActionSet) Has(a Action) bool {
	b := bit(a)
	return b != 0 && s&b != 0
}

func (s ActionSet) Empty() bool { return s == 0 }

func (s ActionSet) List() []Action {
	var out []Action
	for _, a := range actionOrder {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s ActionSet) String() string {
	actions := s.List()
	if len(actions) == 0 {
		return "none"
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

// PermittedActions returns the actions allowed for an appointment at now.
// A pending appointment whose date has passed is expired and allows nothing.
// A confirmed appointment can still be completed late. Unknown statuses
// allow nothing.
func PermittedActions(a Appointment, now time.Time) ActionSet {
	upcoming := a.Upcoming(now)
	switch a.Status {
	case StatusPending:
		if upcoming {
			return NewActionSet(ActionConfirm, ActionCancel, ActionReschedule)
		}
		return 0
	case StatusConfirmed:
		if upcoming {
			return NewActionSet(ActionComplete, ActionCancel, ActionReschedule)
		}
		return NewActionSet(ActionComplete)
	default:
		return 0
	}
}

// CanTransition reports whether a status change respects the lifecycle:
// Pending -> Confirmed -> Completed, or Pending|Confirmed -> Cancelled.
func CanTransition(from, to AppointmentStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// Expired reports a pending appointment whose date has passed.
func Expired(a Appointment, now time.Time) bool {
	return a.Status == StatusPending && !a.Upcoming(now)
}
