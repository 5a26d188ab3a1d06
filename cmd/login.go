package cmd

import (
	"errors"
	"fmt"

	"github.com/bnema/usahome-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var (
		identity string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the USA Home backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.sessions.Login(cmd.Context(), identity, password)
			if err != nil {
				return err
			}

			role := "member"
			if session.IsProfessional {
				role = "professional"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", session.Identity, role)
			return err
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Account identity (email or username)")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("identity")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return err
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.sessions.Current(cmd.Context())
			if errors.Is(err, domain.ErrSessionNotFound) {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return err
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (logged in %s)\n", session.Identity, session.CreatedAt.Format("2006-01-02 15:04"))
			return err
		},
	}
}
