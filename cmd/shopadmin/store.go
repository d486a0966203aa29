package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fashioneshop/shopadmin/internal/views"
)

func newShippingCmd(a *app) *cobra.Command {
	cmd := group("shipping", "Manage shipping zones", "/admin/shipping")

	var form views.ShippingForm
	formFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&form.Zone, "zone", "", "zone name")
		c.Flags().StringVar(&form.Cost, "cost", "", "delivery cost")
		c.Flags().StringVar(&form.EstimatedDays, "days", "", "estimated delivery days")
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List shipping zones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := views.NewShipping(a.env())
			return a.show(cmd.Context(), s, loader(s.Load))
		},
	}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a shipping zone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := views.NewShipping(a.env()).Create(cmd.Context(), form)
			if err != nil {
				return shown(err)
			}
			fmt.Fprintln(a.out, id)
			return nil
		},
	}
	formFlags(create)
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a shipping zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return shown(views.NewShipping(a.env()).Update(cmd.Context(), id, form))
		},
	}
	formFlags(update)
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a shipping zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return shown(views.NewShipping(a.env()).Delete(cmd.Context(), id))
		},
	}

	cmd.AddCommand(list, create, update, del)
	return cmd
}

func newSettingsCmd(a *app) *cobra.Command {
	cmd := group("settings", "Manage store settings", "/admin/settings")

	list := &cobra.Command{
		Use:   "list",
		Short: "List settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := views.NewSettings(a.env())
			return a.show(cmd.Context(), s, loader(s.Load))
		},
	}
	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.api.Settings.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, st.Value)
			return nil
		},
	}
	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return shown(views.NewSettings(a.env()).Set(cmd.Context(), args[0], args[1]))
		},
	}
	bulk := &cobra.Command{
		Use:   "bulk <key=value>...",
		Short: "Change several settings in one request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make(map[string]string, len(args))
			for _, arg := range args {
				k, v, ok := strings.Cut(arg, "=")
				if !ok || k == "" {
					return fmt.Errorf("expected key=value, got %q", arg)
				}
				values[k] = v
			}
			return shown(views.NewSettings(a.env()).Save(cmd.Context(), values))
		},
	}
	del := &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return shown(views.NewSettings(a.env()).Delete(cmd.Context(), args[0]))
		},
	}

	cmd.AddCommand(list, get, set, bulk, del)
	return cmd
}
