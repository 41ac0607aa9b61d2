package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := t.Sub(now)
	if diff > -time.Hour && diff < time.Hour {
		mins := int(math.Round(diff.Minutes()))
		switch {
		case mins == 0:
			return "Now"
		case mins > 0:
			return fmt.Sprintf("In %dmin", mins)
		default:
			return fmt.Sprintf("%dmin ago", -mins)
		}
	}
	if diff > -24*time.Hour && diff < 24*time.Hour {
		hours := int(math.Round(diff.Hours()))
		if hours > 0 {
			return fmt.Sprintf("In %dh", hours)
		}
		return fmt.Sprintf("%dh ago", -hours)
	}

	days := int(math.Round(diff.Hours() / 24))
	switch {
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// RelativeDateStyled colors RelativeDateFrom by urgency: red within a day,
// yellow within a week, dim once past.
func RelativeDateStyled(t, now time.Time) string {
	text := RelativeDateFrom(t, now)
	until := t.Sub(now)
	switch {
	case until < 0:
		return StyleDim.Render(text)
	case until <= 24*time.Hour:
		return StyleRed.Render(text)
	case until <= 7*24*time.Hour:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// DateTime renders an appointment date in local time.
func DateTime(t time.Time) string {
	return t.Local().Format("Mon Jan 2, 2006 15:04")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate shortens s to width runes, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
