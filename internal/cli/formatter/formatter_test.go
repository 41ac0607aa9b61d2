package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/casebridge/casebridge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

var fmtNow = time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

func TestRelativeDateFrom(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"now", fmtNow, "Now"},
		{"in 30 minutes", fmtNow.Add(30 * time.Minute), "In 30min"},
		{"10 minutes ago", fmtNow.Add(-10 * time.Minute), "10min ago"},
		{"in 5 hours", fmtNow.Add(5 * time.Hour), "In 5h"},
		{"3 hours ago", fmtNow.Add(-3 * time.Hour), "3h ago"},
		{"tomorrow", fmtNow.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", fmtNow.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", fmtNow.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", fmtNow.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", fmtNow.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", fmtNow.Add(90 * 24 * time.Hour), "In 3mo"},
		{"2 weeks past", fmtNow.Add(-14 * 24 * time.Hour), "2w ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, fmtNow))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "é…", Truncate("éàü", 2))
	assert.Equal(t, "anything", Truncate("anything", 0))
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "LONG HEADER"}, [][]string{
		{"wide cell", "x"},
		{"y"},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "A          LONG HEADER", lines[0])
	assert.Equal(t, "─────────  ───────────", lines[1])
	assert.Equal(t, "wide cell  x", lines[2])
	assert.Equal(t, "y          ", lines[3])
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}

func TestFormatAppointmentList(t *testing.T) {
	pending := domain.Appointment{
		ID: "1234567890ab", CaseID: "case-9", Date: fmtNow.Add(48 * time.Hour),
		Type: domain.TypeHearing, Status: domain.StatusPending, Description: "filing deadline review",
	}
	expired := domain.Appointment{
		ID: "exp", CaseID: "case-9", Date: fmtNow.Add(-48 * time.Hour),
		Type: domain.TypeCall, Status: domain.StatusPending,
	}
	out := stripANSI(FormatAppointmentList([]domain.Appointment{pending, expired}, fmtNow))

	assert.Contains(t, out, "12345678")
	assert.NotContains(t, out, "1234567890ab")
	assert.Contains(t, out, "○ Pending")
	assert.Contains(t, out, "confirm, cancel, reschedule")
	assert.Contains(t, out, "◌ Expired")
	assert.Contains(t, out, "In 2d")
	assert.Contains(t, out, "filing deadline review")
}

func TestFormatAppointmentList_Empty(t *testing.T) {
	assert.Equal(t, "No appointments found.\n", stripANSI(FormatAppointmentList(nil, fmtNow)))
}

func TestFormatAppointment(t *testing.T) {
	a := domain.Appointment{
		ID: "a-1", CaseID: "case-1", ClientID: "client-1", LawyerID: "lawyer-1",
		Date: fmtNow.Add(-time.Hour), Type: domain.TypeMeeting, Status: domain.StatusConfirmed,
	}
	out := stripANSI(FormatAppointment(a, fmtNow))
	assert.Contains(t, out, "APPOINTMENT")
	assert.Contains(t, out, "● Confirmed")
	assert.Contains(t, out, "lawyer-1")
	assert.Contains(t, out, "complete")
	assert.NotContains(t, out, "Description")
}

func TestStatusPill_UnknownStatus(t *testing.T) {
	a := domain.Appointment{Status: "NoShow"}
	assert.Equal(t, "? NoShow", stripANSI(StatusPill(a, false)))
}

func TestActionsLabel(t *testing.T) {
	assert.Equal(t, "—", stripANSI(ActionsLabel(0)))
	assert.Equal(t, "complete", ActionsLabel(domain.NewActionSet(domain.ActionComplete)))
}

func TestFormatCachedHeader(t *testing.T) {
	synced := fmtNow.Add(-3 * time.Hour)
	out := stripANSI(FormatCachedHeader(domain.CaseScope("c1"), &synced, fmtNow))
	assert.Equal(t, "Offline copy of case:c1, last synced 3h ago\n", out)
}
