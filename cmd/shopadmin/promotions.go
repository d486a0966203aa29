package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fashioneshop/shopadmin/internal/resources"
	"github.com/fashioneshop/shopadmin/internal/views"
)

func newOffersCmd(a *app) *cobra.Command {
	cmd := group("offers", "Manage discount offers", "/admin/offers")

	var form views.OfferForm
	formFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&form.Name, "name", "", "offer name")
		c.Flags().StringVar(&form.Type, "type", "percentage", "percentage or fixed")
		c.Flags().StringVar(&form.Value, "value", "", "discount value")
		c.Flags().StringVar(&form.MinPurchase, "min-purchase", "", "minimum order total")
		c.Flags().StringVar(&form.StartDate, "start", "", "first day, YYYY-MM-DD")
		c.Flags().StringVar(&form.EndDate, "end", "", "last day, YYYY-MM-DD")
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := views.NewOffers(a.env())
			return a.show(cmd.Context(), s, loader(s.Load))
		},
	}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an offer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := views.NewOffers(a.env()).Create(cmd.Context(), form)
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
		Short: "Replace an offer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return shown(views.NewOffers(a.env()).Update(cmd.Context(), id, form))
		},
	}
	formFlags(update)
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an offer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return shown(views.NewOffers(a.env()).Delete(cmd.Context(), id))
		},
	}

	cmd.AddCommand(list, create, update, del)
	return cmd
}

func newNotificationsCmd(a *app) *cobra.Command {
	cmd := group("notifications", "Manage customer notifications", "/admin/notifications")

	var in resources.NotificationInput
	inputFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&in.Title, "title", "", "notification title")
		c.Flags().StringVar(&in.Message, "message", "", "notification text")
		c.Flags().StringVar(&in.Type, "type", "info", "notification type")
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := views.NewNotifications(a.env())
			return a.show(cmd.Context(), s, loader(s.Load))
		},
	}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a notification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := views.NewNotifications(a.env()).Create(cmd.Context(), in)
			if err != nil {
				return shown(err)
			}
			fmt.Fprintln(a.out, id)
			return nil
		},
	}
	inputFlags(create)
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return shown(views.NewNotifications(a.env()).Update(cmd.Context(), id, in))
		},
	}
	inputFlags(update)
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return shown(views.NewNotifications(a.env()).Delete(cmd.Context(), id))
		},
	}
	trigger := &cobra.Command{
		Use:   "trigger <id>",
		Short: "Send a notification to every customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return shown(views.NewNotifications(a.env()).Trigger(cmd.Context(), id))
		},
	}

	cmd.AddCommand(list, create, update, del, trigger)
	return cmd
}

func newPopupsCmd(a *app) *cobra.Command {
	cmd := group("popups", "Manage storefront popups", "/admin/popups")

	var in resources.PopupInput
	inputFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&in.Title, "title", "", "popup title")
		c.Flags().StringVar(&in.Content, "content", "", "popup body")
		c.Flags().StringVar(&in.ButtonText, "button-text", "", "call to action label")
		c.Flags().StringVar(&in.ButtonLink, "button-link", "", "call to action URL")
		c.Flags().BoolVar(&in.IsActive, "active", false, "show the popup on the storefront")
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List popups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := views.NewPopups(a.env())
			return a.show(cmd.Context(), s, loader(s.Load))
		},
	}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a popup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := views.NewPopups(a.env()).Create(cmd.Context(), in)
			if err != nil {
				return shown(err)
			}
			fmt.Fprintln(a.out, id)
			return nil
		},
	}
	inputFlags(create)
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a popup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return shown(views.NewPopups(a.env()).Update(cmd.Context(), id, in))
		},
	}
	inputFlags(update)
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a popup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return shown(views.NewPopups(a.env()).Delete(cmd.Context(), id))
		},
	}

	cmd.AddCommand(list, create, update, del)
	return cmd
}
