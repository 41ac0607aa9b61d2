package cli

import (
	"fmt"
	"strings"

	"github.com/casebridge/casebridge/internal/cli/formatter"
	"github.com/casebridge/casebridge/internal/domain"
	"github.com/casebridge/casebridge/internal/session"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the bearer token used for every request",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" && len(args) == 1 {
				token = args[0]
			}
			if err := app.Session.Login(token); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			claims, err := app.Session.Claims()
			if err != nil {
				// Opaque tokens are fine; the backend decides.
				fmt.Fprintln(out, formatter.Success("Logged in"))
				return nil
			}
			fmt.Fprintln(out, formatter.Success("Logged in as "+describeClaims(claims)))
			if left, ok := claims.ExpiresIn(app.now()); ok && left <= 0 {
				fmt.Fprintln(out, formatter.Warning("token has already expired; the backend will reject it"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer token issued by the backend")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Session.Logout(); err != nil {
				return fmt.Errorf("removing credential: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Logged out"))
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity carried by the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.Session.LoggedIn() {
				app.Session.RequireLogin(domain.ErrNotLoggedIn.Error())
				return &domain.AuthenticationError{}
			}
			claims, err := app.Session.Claims()
			if err != nil {
				return err
			}

			var b strings.Builder
			field := func(label, value string) {
				if value == "" {
					value = formatter.Dim("—")
				}
				fmt.Fprintf(&b, "%s %s\n", formatter.Dim(fmt.Sprintf("%-8s", label)), value)
			}
			field("Subject", claims.Subject)
			field("Role", claims.Role)
			field("Name", claims.Name)
			expiry := "never"
			if left, ok := claims.ExpiresIn(app.now()); ok {
				expiry = formatter.DateTime(claims.ExpiresAt.Time)
				if left <= 0 {
					expiry += " " + formatter.StyleRed.Render("(expired)")
				}
			}
			field("Expires", expiry)

			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderBox("Session", b.String()))
			return nil
		},
	}
}

func describeClaims(c *session.Claims) string {
	who := c.Name
	if who == "" {
		who = c.Subject
	}
	if who == "" {
		who = "unknown user"
	}
	if c.Role != "" {
		who += " (" + c.Role + ")"
	}
	return who
}
