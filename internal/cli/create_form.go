package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/casebridge/casebridge/internal/cli/formatter"
	"github.com/casebridge/casebridge/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// casebridgeHuhTheme returns a huh theme matching the formatter palette.
func casebridgeHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// draftInput holds the string form of a draft while it is being edited.
type draftInput struct {
	CaseID      string
	ClientID    string
	LawyerID    string
	Date        string
	Type        string
	Description string
	Role        string
}

func (in *draftInput) toDraft() (domain.Draft, error) {
	d := domain.Draft{
		CaseID:      strings.TrimSpace(in.CaseID),
		ClientID:    strings.TrimSpace(in.ClientID),
		LawyerID:    strings.TrimSpace(in.LawyerID),
		Type:        domain.AppointmentType(strings.TrimSpace(in.Type)),
		Description: strings.TrimSpace(in.Description),
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return d, &domain.ValidationError{Field: "role", Message: "--as must be client or lawyer"}
	}
	d.CreatedBy = role
	if strings.TrimSpace(in.Date) != "" {
		t, err := parseTime(strings.TrimSpace(in.Date))
		if err != nil {
			return d, &domain.ValidationError{Field: "date", Message: err.Error()}
		}
		d.Date = t
	}
	return d, nil
}

func typeOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(domain.AppointmentTypes))
	for _, t := range domain.AppointmentTypes {
		opts = append(opts, huh.NewOption(string(t), string(t)))
	}
	return opts
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func validateFutureDate(now func() time.Time) func(string) error {
	return func(s string) error {
		t, err := parseTime(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		if !t.After(now()) {
			return errors.New("date must be in the future")
		}
		return nil
	}
}

// createForm edits in. The counterpart field follows the role chosen on
// the first page.
func createForm(in *draftInput, now func() time.Time) *huh.Form {
	if in.Type == "" {
		in.Type = string(domain.TypeMeeting)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Booking as").
				Options(
					huh.NewOption("Client", string(domain.RoleClient)),
					huh.NewOption("Lawyer", string(domain.RoleLawyer)),
				).
				Value(&in.Role),
			huh.NewInput().
				Title("Case ID").
				Value(&in.CaseID).
				Validate(required("case")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Lawyer ID").
				Value(&in.LawyerID).
				Validate(required("lawyer")),
		).WithHideFunc(func() bool { return in.Role != string(domain.RoleClient) }),
		huh.NewGroup(
			huh.NewInput().
				Title("Client ID").
				Value(&in.ClientID).
				Validate(required("client")),
		).WithHideFunc(func() bool { return in.Role != string(domain.RoleLawyer) }),
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD HH:MM, local time").
				Placeholder(now().Add(24*time.Hour).Format("2006-01-02 15:04")).
				Value(&in.Date).
				Validate(validateFutureDate(now)),
			huh.NewSelect[string]().
				Title("Type").
				Options(typeOptions()...).
				Value(&in.Type),
			huh.NewText().
				Title("Description").
				Value(&in.Description),
		),
	).WithTheme(casebridgeHuhTheme()).WithShowHelp(false)
}
