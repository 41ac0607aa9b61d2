package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casebridge/casebridge/internal/cli/formatter"
	"github.com/casebridge/casebridge/internal/domain"
	"github.com/spf13/cobra"
)

func newCreateCmd(app *App) *cobra.Command {
	var in draftInput
	var interactive bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Book a new appointment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Role == "" {
				in.Role = defaultRole(app)
			}
			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive needs a terminal")
				}
				if err := app.runForm(createForm(&in, app.now)); err != nil {
					return err
				}
			}
			fillOwnID(app, &in)

			draft, err := in.toDraft()
			if err != nil {
				return err
			}
			out, err := app.Appointments.Create(cmd.Context(), draft)
			if err != nil {
				var vErr *domain.ValidationError
				if errors.As(err, &vErr) && vErr.Field == "type" {
					fmt.Fprintln(cmd.ErrOrStderr(), typeHint())
				}
				return err
			}
			printOutcome(cmd, app, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.CaseID, "case", "", "Case the appointment belongs to")
	cmd.Flags().StringVar(&in.ClientID, "client", "", "Client ID (required when booking as a lawyer)")
	cmd.Flags().StringVar(&in.LawyerID, "lawyer", "", "Lawyer ID (required when booking as a client)")
	cmd.Flags().StringVar(&in.Date, "date", "", "Date and time (RFC3339 or YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&in.Type, "type", string(domain.TypeMeeting), "Appointment type")
	cmd.Flags().StringVar(&in.Description, "description", "", "Free-text description")
	cmd.Flags().StringVar(&in.Role, "as", "", "Book as client or lawyer (default from the token role)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in the appointment with a form")

	return cmd
}

// defaultRole takes the role claim from the stored token, falling back to
// client.
func defaultRole(app *App) string {
	if claims, err := app.Session.Claims(); err == nil {
		if role, ok := domain.ParseRole(claims.Role); ok {
			return string(role)
		}
	}
	return string(domain.RoleClient)
}

// fillOwnID sets the caller's own participant ID from the token subject.
func fillOwnID(app *App, in *draftInput) {
	claims, err := app.Session.Claims()
	if err != nil || claims.Subject == "" {
		return
	}
	role, _ := domain.ParseRole(in.Role)
	switch {
	case role == domain.RoleClient && in.ClientID == "":
		in.ClientID = claims.Subject
	case role == domain.RoleLawyer && in.LawyerID == "":
		in.LawyerID = claims.Subject
	}
}

func typeHint() string {
	names := make([]string, 0, len(domain.AppointmentTypes))
	for _, t := range domain.AppointmentTypes {
		names = append(names, string(t))
	}
	return formatter.Dim("Types: " + strings.Join(names, ", "))
}
