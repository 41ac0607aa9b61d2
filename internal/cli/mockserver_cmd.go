package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casebridge/casebridge/internal/cli/formatter"
	"github.com/casebridge/casebridge/internal/domain"
	"github.com/casebridge/casebridge/internal/mockapi"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const (
	demoLawyer = "lawyer-1"
	demoClient = "client-1"
)

func newMockServerCmd(app *App) *cobra.Command {
	var addr string
	var demo bool

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run a local reference backend for development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = app.Config.MockAddr
			}
			srv := mockapi.New([]byte(app.Config.MockSecret), mockapi.WithLogger(app.Logger))
			if demo {
				srv.Seed(demoAppointments(app.now())...)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s listening on http://%s%s\n", formatter.Bold("mock-server"), addr, mockapi.BasePath)
			if demo {
				for _, who := range []struct {
					sub  string
					role domain.Role
				}{{demoLawyer, domain.RoleLawyer}, {demoClient, domain.RoleClient}} {
					token, err := mockapi.IssueToken([]byte(app.Config.MockSecret), who.sub, who.role, "", 24*time.Hour)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s %s\n", formatter.Dim(fmt.Sprintf("%-8s token:", who.sub)), token)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from CASEBRIDGE_MOCK_ADDR)")
	cmd.Flags().BoolVar(&demo, "demo", false, "Seed sample appointments and print demo tokens")

	cmd.AddCommand(newMockTokenCmd(app))

	return cmd
}

func newMockTokenCmd(app *App) *cobra.Command {
	var sub, role, name string
	var ttl time.Duration
	var login bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a token accepted by the mock server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, ok := domain.ParseRole(role)
			if !ok {
				return &domain.ValidationError{Field: "role", Message: "--role must be client or lawyer"}
			}
			token, err := mockapi.IssueToken([]byte(app.Config.MockSecret), sub, r, name, ttl)
			if err != nil {
				return err
			}
			if login {
				if err := app.Session.Login(token); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Logged in as %s (%s)", sub, r)))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&sub, "sub", "", "Subject (the user ID)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleClient), "client or lawyer")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime, 0 for none")
	cmd.Flags().BoolVar(&login, "login", false, "Store the token instead of printing it")
	_ = cmd.MarkFlagRequired("sub")

	return cmd
}

// demoAppointments covers every status plus an expired pending record.
func demoAppointments(now time.Time) []domain.Appointment {
	day := 24 * time.Hour
	base := now.Truncate(time.Hour)
	mk := func(caseID string, offset time.Duration, t domain.AppointmentType, s domain.AppointmentStatus, desc string) domain.Appointment {
		return domain.Appointment{
			ID:          uuid.New().String(),
			CaseID:      caseID,
			ClientID:    demoClient,
			LawyerID:    demoLawyer,
			Date:        base.Add(offset),
			Type:        t,
			Status:      s,
			Description: desc,
		}
	}
	return []domain.Appointment{
		mk("case-100", 2*day, domain.TypeConsultation, domain.StatusPending, "Initial consultation"),
		mk("case-100", 5*day, domain.TypeHearing, domain.StatusConfirmed, "Preliminary hearing"),
		mk("case-100", -3*day, domain.TypeMeeting, domain.StatusConfirmed, "Evidence review"),
		mk("case-200", -7*day, domain.TypeCall, domain.StatusCompleted, "Status call"),
		mk("case-200", -2*day, domain.TypeReview, domain.StatusPending, "Contract review"),
		mk("case-200", 10*day, domain.TypeDeadline, domain.StatusCancelled, "Filing deadline"),
	}
}
