package mockapi

import (
	"strings"
	"time"

	"github.com/casebridge/casebridge/internal/domain"
)

const icsTimeFormat = "20060102T150405Z"

// defaultDuration is used for DTEND; appointments carry no end time.
const defaultDuration = time.Hour

func renderICS(a domain.Appointment, now time.Time) []byte {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\r\n")
	}
	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//casebridge//mock-server//EN")
	line("BEGIN:VEVENT")
	line("UID:" + a.ID + "@casebridge")
	line("DTSTAMP:" + now.UTC().Format(icsTimeFormat))
	line("DTSTART:" + a.Date.UTC().Format(icsTimeFormat))
	line("DTEND:" + a.Date.Add(defaultDuration).UTC().Format(icsTimeFormat))
	line("SUMMARY:" + escapeICS(string(a.Type)+" (case "+a.CaseID+")"))
	if a.Description != "" {
		line("DESCRIPTION:" + escapeICS(a.Description))
	}
	line("STATUS:" + icsStatus(a.Status))
	line("END:VEVENT")
	line("END:VCALENDAR")
	return []byte(b.String())
}

func icsStatus(s domain.AppointmentStatus) string {
	switch s {
	case domain.StatusConfirmed, domain.StatusCompleted:
		return "CONFIRMED"
	case domain.StatusCancelled:
		return "CANCELLED"
	default:
		return "TENTATIVE"
	}
}

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

func escapeICS(s string) string {
	return icsEscaper.Replace(s)
}
