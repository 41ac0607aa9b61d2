package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/casebridge/casebridge/internal/cli/formatter"
	"github.com/casebridge/casebridge/internal/domain"
	"github.com/casebridge/casebridge/internal/service"
	"github.com/spf13/cobra"
)

func newAppointmentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appt"},
		Short:   "List, act on and create appointments",
	}

	cmd.AddCommand(
		newListCmd(app),
		newShowCmd(app),
		newTransitionCmd(app, domain.ActionConfirm, "Confirm a pending appointment"),
		newTransitionCmd(app, domain.ActionCancel, "Cancel an appointment"),
		newTransitionCmd(app, domain.ActionComplete, "Mark a confirmed appointment as completed"),
		newRescheduleCmd(app),
		newCreateCmd(app),
		newICSCmd(app),
		newBrowseCmd(app),
	)

	return cmd
}

func scopeFor(caseID string) domain.Scope {
	if caseID = strings.TrimSpace(caseID); caseID != "" {
		return domain.CaseScope(caseID)
	}
	return domain.AllScope
}

func newListCmd(app *App) *cobra.Command {
	var caseID string
	var cached bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments with the actions each one allows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			scope := scopeFor(caseID)
			out := cmd.OutOrStdout()

			if cached {
				return printCached(ctx, app, out, scope)
			}

			list, err := app.Appointments.Load(ctx, scope)
			if err != nil {
				var netErr *domain.NetworkError
				if errors.As(err, &netErr) {
					if cacheErr := printCached(ctx, app, out, scope); cacheErr == nil {
						fmt.Fprintln(cmd.ErrOrStderr(), formatter.Warning(err.Error()))
						return nil
					}
				}
				return err
			}
			fmt.Fprint(out, formatter.FormatAppointmentList(list, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Only appointments for this case")
	cmd.Flags().BoolVar(&cached, "cached", false, "Read the last synced copy instead of the backend")

	return cmd
}

func printCached(ctx context.Context, app *App, out io.Writer, scope domain.Scope) error {
	snap, err := app.Store.Cached(ctx, scope)
	if err != nil {
		return err
	}
	now := app.now()
	fmt.Fprint(out, formatter.FormatCachedHeader(scope, snap.SyncedAt, now))
	fmt.Fprint(out, formatter.FormatAppointmentList(snap.Appointments, now))
	return nil
}

// loadAndResolve fills the store for scope and expands an ID prefix against
// it. An ID matching nothing is passed through for the backend to judge.
func loadAndResolve(ctx context.Context, app *App, caseID, arg string) (string, error) {
	if _, err := app.Appointments.Load(ctx, scopeFor(caseID)); err != nil {
		return "", err
	}
	return resolveID(app, arg)
}

func resolveID(app *App, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", &domain.ValidationError{Field: "id", Message: "appointment ID is required"}
	}
	if _, ok := app.Store.Get(arg); ok {
		return arg, nil
	}

	var matches []string
	for _, a := range app.Store.Snapshot() {
		if strings.HasPrefix(a.ID, arg) {
			matches = append(matches, a.ID)
		}
	}
	switch len(matches) {
	case 0:
		return arg, nil
	case 1:
		return matches[0], nil
	default:
		return "", &domain.ValidationError{
			Field:   "id",
			Message: fmt.Sprintf("ID prefix %q is ambiguous: %s", arg, strings.Join(matches, ", ")),
		}
	}
}

func newShowCmd(app *App) *cobra.Command {
	var caseID string

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := loadAndResolve(cmd.Context(), app, caseID, args[0])
			if err != nil {
				return err
			}
			a, ok := app.Store.Get(id)
			if !ok {
				return fmt.Errorf("appointment %s not found in %s", id, scopeFor(caseID))
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAppointment(a, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Case the appointment belongs to")

	return cmd
}

func newTransitionCmd(app *App, action domain.Action, short string) *cobra.Command {
	var caseID string
	var force bool

	cmd := &cobra.Command{
		Use:   string(action) + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := loadAndResolve(ctx, app, caseID, args[0])
			if err != nil {
				return err
			}
			if force {
				ctx = service.SkipPolicyGuard(ctx)
			}

			var out *service.Outcome
			switch action {
			case domain.ActionConfirm:
				out, err = app.Appointments.Confirm(ctx, id)
			case domain.ActionCancel:
				out, err = app.Appointments.Cancel(ctx, id)
			case domain.ActionComplete:
				out, err = app.Appointments.Complete(ctx, id)
			}
			if err != nil {
				return err
			}
			printOutcome(cmd, app, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Case the appointment belongs to")
	cmd.Flags().BoolVar(&force, "force", false, "Send the request even if the local copy says it is not allowed")

	return cmd
}

func newRescheduleCmd(app *App) *cobra.Command {
	var caseID string
	var force bool
	var date time.Time

	cmd := &cobra.Command{
		Use:   "reschedule ID",
		Short: "Move an appointment to a new date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Reject a past date before the scope load touches the network.
			if err := domain.ValidateReschedule(date, app.now()); err != nil {
				return err
			}
			ctx := cmd.Context()
			id, err := loadAndResolve(ctx, app, caseID, args[0])
			if err != nil {
				return err
			}
			if force {
				ctx = service.SkipPolicyGuard(ctx)
			}
			out, err := app.Appointments.Reschedule(ctx, id, date)
			if err != nil {
				return err
			}
			printOutcome(cmd, app, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Case the appointment belongs to")
	cmd.Flags().BoolVar(&force, "force", false, "Send the request even if the local copy says it is not allowed")
	cmd.Flags().Var(newTimeValue(&date), "date", "New date and time (RFC3339 or YYYY-MM-DD HH:MM)")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func printOutcome(cmd *cobra.Command, app *App, out *service.Outcome) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, formatter.Success(out.Message))
	fmt.Fprint(w, formatter.FormatAppointmentList([]domain.Appointment{out.Appointment}, app.now()))
	if out.ReloadErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), formatter.Warning("could not refresh the list: "+out.ReloadErr.Error()))
	}
}

func newICSCmd(app *App) *cobra.Command {
	var caseID, output string

	cmd := &cobra.Command{
		Use:   "ics ID",
		Short: "Download the calendar file for an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := loadAndResolve(ctx, app, caseID, args[0])
			if err != nil {
				return err
			}
			data, err := app.Appointments.ExportICS(ctx, id)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if output == "" {
				output = fmt.Sprintf("appointment-%s.ics", id)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Saved "+output))
			return nil
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Case the appointment belongs to")
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write, - for stdout (default appointment-<id>.ics)")

	return cmd
}
