package formatter

import (
	"fmt"
	"strings"

	"github.com/casebridge/casebridge/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle picks the color for an appointment status.
func StatusStyle(s domain.AppointmentStatus) lipgloss.Style {
	switch s {
	case domain.StatusPending:
		return StyleYellow
	case domain.StatusConfirmed:
		return StyleGreen
	case domain.StatusCompleted:
		return StyleBlue
	case domain.StatusCancelled:
		return StyleRed
	default:
		return StyleDim
	}
}

// StatusPill returns a colored indicator such as "● Confirmed". An expired
// pending appointment is shown as such.
func StatusPill(a domain.Appointment, expired bool) string {
	if expired {
		return StyleDim.Render("◌ Expired")
	}
	switch a.Status {
	case domain.StatusPending:
		return StyleYellow.Render("○ Pending")
	case domain.StatusConfirmed:
		return StyleGreen.Render("● Confirmed")
	case domain.StatusCompleted:
		return StyleBlue.Render("✔ Completed")
	case domain.StatusCancelled:
		return StyleRed.Render("✖ Cancelled")
	default:
		return StyleDim.Render("? " + string(a.Status))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// Success and Failure render the one-line banners shown after an action.
func Success(text string) string {
	return StyleGreen.Render("✔ " + text)
}

func Failure(text string) string {
	return StyleRed.Render("✖ " + text)
}

func Warning(text string) string {
	return StyleYellow.Render("! " + text)
}
