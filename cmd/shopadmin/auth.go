package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fashioneshop/shopadmin/internal/session"
	"github.com/fashioneshop/shopadmin/internal/views"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the admin token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if username == "" {
				if username, err = prompt(in, a.toasts.w, "Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt(in, a.toasts.w, "Password: "); err != nil {
					return err
				}
			}
			if err := a.session.Login(cmd.Context(), username, password); err != nil {
				return shown(err)
			}
			if a.toasts.Route() == session.RouteAdmin {
				fmt.Fprintln(a.out, "Run `shopadmin dashboard` for the store overview.")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password (prompted when empty)")
	return cmd
}

func prompt(in *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the admin token and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.session.Logout(cmd.Context())
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "whoami",
		Short:       "Show the signed-in admin",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{routeAnnotation: session.RouteAdmin},
		RunE: func(cmd *cobra.Command, args []string) error {
			u, _ := a.session.User()
			fmt.Fprintf(a.out, "%s (%s, id %d)\n", u.Username, u.Role, u.ID)
			return nil
		},
	}
}

func newDashboardCmd(a *app) *cobra.Command {
	var period int
	cmd := &cobra.Command{
		Use:         "dashboard",
		Short:       "Store overview with sales and traffic",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{routeAnnotation: session.RouteAdmin},
		RunE: func(cmd *cobra.Command, args []string) error {
			d := views.NewDashboard(a.env(), period)
			return a.show(cmd.Context(), d, d.Load)
		},
	}
	cmd.Flags().IntVar(&period, "period", 30, "days covered by the sales and traffic reports")
	return cmd
}

// loader adapts a typed Load to the shape show takes.
func loader[T any](load func(context.Context) (T, error)) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := load(ctx)
		return err
	}
}
