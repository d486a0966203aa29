package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fashioneshop/shopadmin/internal/views"
)

// orderStatuses are the states an order can be moved to.
var orderStatuses = []string{"pending", "confirmed", "shipped", "delivered", "cancelled"}

func newOrdersCmd(a *app) *cobra.Command {
	cmd := group("orders", "Manage customer orders", "/admin/orders")

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := views.NewOrders(a.env())
			s.SetStatusFilter(status)
			return a.show(cmd.Context(), s, loader(s.Load))
		},
	}
	list.Flags().StringVar(&status, "status", "", "only orders in this status")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one order with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			o, err := a.api.Orders.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return views.RenderOrder(a.out, o)
		},
	}

	setStatus := &cobra.Command{
		Use:       "status <id> <status>",
		Short:     "Move an order to another status",
		Long:      "Move an order to another status: " + strings.Join(orderStatuses, ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: orderStatuses,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return shown(views.NewOrders(a.env()).UpdateStatus(cmd.Context(), id, args[1]))
		},
	}

	var dir string
	export := &cobra.Command{
		Use:   "export",
		Short: "Download all orders as orders-<date>.csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := views.NewOrders(a.env()).Export(cmd.Context(), dir)
			if err != nil {
				return shown(err)
			}
			fmt.Fprintln(a.out, path)
			return nil
		},
	}
	export.Flags().StringVar(&dir, "dir", ".", "directory to write the file to")

	cmd.AddCommand(list, show, setStatus, export)
	return cmd
}
