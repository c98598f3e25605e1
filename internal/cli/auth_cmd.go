// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jeranaias/agentdesk/internal/model"
	"github.com/jeranaias/agentdesk/internal/ui/auth"
)

// =============================================================================
// LOGIN
// =============================================================================

func newLoginCmd(flags *rootFlags) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Sign in to the backend. The session cookie and user record are stored
locally so later commands and the interface start signed in.

The password is prompted without echo when --password is omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			if username == "" {
				if username, err = p.Line("Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = p.Password("Password: "); err != nil {
					return err
				}
			}

			creds := model.Credentials{Username: username, Password: password}
			if err := creds.Validate(); err != nil {
				return err
			}
			user, err := e.client.Login(ctx, creds)
			if err != nil {
				return err
			}
			if err := e.session.SaveLogin(ctx, user, e.client.Cookies()); err != nil {
				return fmt.Errorf("logged in, but the session could not be saved: %w", err)
			}
			slog.Info("LOGIN", "user", user.Username, "admin", user.IsAdmin())

			return flags.emit(cmd, user, func(w io.Writer) {
				fmt.Fprintf(w, "%s Logged in as %s (%s)\n", RenderStatus("ok"), user.DisplayName(), roleName(user))
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when omitted)")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

// =============================================================================
// LOGOUT
// =============================================================================

func newLogoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			wasLoggedIn := e.snap.User != nil
			if wasLoggedIn {
				// The local session is dropped even when the backend call fails.
				if err := e.client.Logout(ctx); err != nil {
					slog.Warn("LOGOUT_REMOTE", "error", err)
				}
			}
			if err := e.session.Clear(ctx); err != nil {
				return err
			}

			return flags.emit(cmd, map[string]bool{"logged_out": wasLoggedIn}, func(w io.Writer) {
				if wasLoggedIn {
					fmt.Fprintf(w, "%s Logged out\n", RenderStatus("ok"))
				} else {
					fmt.Fprintln(w, DimStyle.Render("Not logged in"))
				}
			})
		},
	}
}

// =============================================================================
// REGISTER
// =============================================================================

func newRegisterCmd(flags *rootFlags) *cobra.Command {
	var reg model.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			if reg.Username == "" {
				if reg.Username, err = p.Line("Username: "); err != nil {
					return err
				}
			}
			if reg.Password == "" {
				if reg.Password, err = p.Password("Password: "); err != nil {
					return err
				}
				confirm, err := p.Password("Confirm password: ")
				if err != nil {
					return err
				}
				if confirm != reg.Password {
					return &ValidationError{Field: "password", Reason: "passwords do not match"}
				}
			}
			if err := reg.Validate(); err != nil {
				return err
			}

			message, err := e.client.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			slog.Info("REGISTER", "user", reg.Username)
			if message == "" {
				message = auth.RegistrationSuccessful
			}

			return flags.emit(cmd, map[string]string{"username": reg.Username, "message": message}, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s\n", RenderStatus("ok"), message)
				fmt.Fprintln(w, DimStyle.Render("Run 'agentdesk login -u "+reg.Username+"' to sign in."))
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&reg.Username, "username", "u", "", "username (prompted when omitted)")
	f.StringVar(&reg.Password, "password", "", "password, at least 8 characters (prompted when omitted)")
	f.StringVar(&reg.Email, "email", "", "email address")
	f.StringVar(&reg.FirstName, "first-name", "", "first name")
	f.StringVar(&reg.LastName, "last-name", "", "last name")
	return cmd
}

// =============================================================================
// WHOAMI
// =============================================================================

func newWhoamiCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if _, err := e.requireUser(); err != nil {
				return err
			}
			user, err := e.client.Me(ctx)
			if err != nil {
				return e.check(ctx, err)
			}
			// Refresh the stored record; roles may have changed server side.
			if err := e.session.SaveLogin(ctx, user, e.client.Cookies()); err != nil {
				slog.Warn("SESSION_SAVE", "error", err)
			}

			return flags.emit(cmd, user, func(w io.Writer) {
				fmt.Fprintln(w, TitleStyle.Render("Signed in"))
				fmt.Fprintln(w, RenderSeparator(40))
				fmt.Fprintln(w, RenderLabel("Username")+ValueStyle.Render(user.Username))
				if name := user.DisplayName(); name != user.Username {
					fmt.Fprintln(w, RenderLabel("Name")+ValueStyle.Render(name))
				}
				if user.Email != "" {
					fmt.Fprintln(w, RenderLabel("Email")+ValueStyle.Render(user.Email))
				}
				fmt.Fprintln(w, RenderLabel("Role")+ValueStyle.Render(roleName(user)))
				fmt.Fprintln(w, RenderLabel("Backend")+DimStyle.Render(e.client.BaseURL()))
			})
		},
	}
}

func roleName(u *model.User) string {
	if u.IsAdmin() {
		return "administrator"
	}
	return "user"
}
