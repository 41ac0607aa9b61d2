package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/casebridge/casebridge/internal/domain"
)

const descriptionWidth = 32

// FormatAppointmentList renders appointments as a table with the actions the
// lifecycle policy permits at now.
func FormatAppointmentList(appts []domain.Appointment, now time.Time) string {
	if len(appts) == 0 {
		return Dim("No appointments found.") + "\n"
	}

	headers := []string{"ID", "DATE", "WHEN", "TYPE", "STATUS", "CASE", "ACTIONS", "DESCRIPTION"}
	rows := make([][]string, 0, len(appts))
	for _, a := range appts {
		rows = append(rows, []string{
			TruncID(a.ID),
			DateTime(a.Date),
			RelativeDateStyled(a.Date, now),
			StylePurple.Render(string(a.Type)),
			StatusPill(a, domain.Expired(a, now)),
			a.CaseID,
			ActionsLabel(domain.PermittedActions(a, now)),
			Truncate(a.Description, descriptionWidth),
		})
	}
	return RenderTable(headers, rows)
}

// FormatAppointment renders one appointment in a box.
func FormatAppointment(a domain.Appointment, now time.Time) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", StyleDim.Render(fmt.Sprintf("%-12s", label)), value)
	}
	field("ID", a.ID)
	field("Status", StatusPill(a, domain.Expired(a, now)))
	field("Date", DateTime(a.Date)+"  "+RelativeDateStyled(a.Date, now))
	field("Type", string(a.Type))
	field("Case", a.CaseID)
	field("Client", a.ClientID)
	field("Lawyer", a.LawyerID)
	if a.Description != "" {
		field("Description", a.Description)
	}
	field("Actions", ActionsLabel(domain.PermittedActions(a, now)))
	return RenderBox("Appointment", b.String())
}

// FormatCachedHeader notes that a listing came from the offline cache.
func FormatCachedHeader(scope domain.Scope, syncedAt *time.Time, now time.Time) string {
	when := "unknown"
	if syncedAt != nil {
		when = RelativeDateFrom(*syncedAt, now)
	}
	return StyleYellow.Render(fmt.Sprintf("Offline copy of %s, last synced %s", scope, when)) + "\n"
}

// ActionsLabel lists permitted actions, or a dim dash.
func ActionsLabel(s domain.ActionSet) string {
	if s.Empty() {
		return Dim("—")
	}
	return s.String()
}
