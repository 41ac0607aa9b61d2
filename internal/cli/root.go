package cli

import (
	"fmt"
	"time"

	"github.com/casebridge/casebridge/internal/cli/formatter"
	"github.com/casebridge/casebridge/internal/config"
	"github.com/casebridge/casebridge/internal/service"
	"github.com/casebridge/casebridge/internal/session"
	"github.com/casebridge/casebridge/internal/store"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// App holds the services and runtime hooks used by CLI commands.
type App struct {
	Appointments service.AppointmentService
	Store        *store.Store
	Session      *session.Session
	Config       *config.Config
	Logger       zerolog.Logger

	// Now defaults to time.Now. Tests pin it.
	Now func() time.Time
	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// RunForm and RunProgram run huh forms and bubbletea programs. Tests
	// replace them to avoid touching the terminal.
	RunForm    func(*huh.Form) error
	RunProgram func(tea.Model) error
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) runForm(f *huh.Form) error {
	if a.RunForm != nil {
		return a.RunForm(f)
	}
	return f.Run()
}

func (a *App) runProgram(m tea.Model) error {
	if a.RunProgram != nil {
		return a.RunProgram(m)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// NewRootCmd creates the top-level "casebridge" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "casebridge",
		Short:         "Manage appointments between lawyers and clients",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if app.Session == nil {
				return
			}
			errOut := cmd.ErrOrStderr()
			app.Session.OnLoginRequired(func(reason string) {
				fmt.Fprintln(errOut, formatter.Warning("Login required: "+reason))
				fmt.Fprintln(errOut, formatter.Dim("Run `casebridge login --token <token>` to sign in."))
			})
		},
	}

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newAppointmentsCmd(app),
		newMockServerCmd(app),
	)

	return root
}
