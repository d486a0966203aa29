package views

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/fashioneshop/shopadmin/internal/cache"
	"github.com/fashioneshop/shopadmin/internal/resources"
)

// OrderPageSize is how many orders the list screen asks for.
const OrderPageSize = 100

const (
	MsgOrderStatusUpdated = "Order status updated"
	MsgOrdersExported     = "Orders exported successfully"
	MsgOrdersExportFailed = "Failed to export orders"
)

// ExportFileName is the name a CSV export taken at t is saved under.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("orders-%s.csv", t.Format("2006-01-02"))
}

// Orders lists orders, optionally only those in one status.
type Orders struct {
	*list[resources.OrderList]
	env Env
}

func NewOrders(env Env) *Orders {
	env = env.withDefaults()
	s := &Orders{env: env}
	s.list = newList(env, grid{
		title:   "Orders",
		empty:   "No orders found",
		headers: []string{"ID", "Customer", "Phone", "Items", "Total", "Status", "Placed"},
	}, s.query(""), orderRows)
	return s
}

func (s *Orders) query(status string) query[resources.OrderList] {
	limit := OrderPageSize
	f := resources.OrderFilter{Status: &status, Limit: &limit}
	return query[resources.OrderList]{
		key: cache.NewKey(resources.NameOrders, "status="+status, "limit="+strconv.Itoa(limit)),
		fetch: func(ctx context.Context) (resources.OrderList, error) {
			return s.env.API.Orders.List(ctx, f)
		},
	}
}

// SetStatusFilter shows only orders in status, or all when status is empty.
func (s *Orders) SetStatusFilter(status string) {
	s.set(s.query(status))
}

func (s *Orders) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := s.env.API.Orders.UpdateStatus(ctx, id, status)
	return s.env.mutated(resources.NameOrders, MsgOrderStatusUpdated, err)
}

// Export downloads every order as CSV into dir and returns the file path.
func (s *Orders) Export(ctx context.Context, dir string) (string, error) {
	data, err := s.env.API.Orders.ExportCSV(ctx)
	if err == nil {
		path := filepath.Join(dir, ExportFileName(s.env.Now()))
		if err = os.WriteFile(path, data, 0o644); err == nil {
			s.env.Notify.Success(MsgOrdersExported)
			return path, nil
		}
	}
	s.env.Logger.Warn("order export failed", zap.Error(err))
	s.env.Notify.Error(MsgOrdersExportFailed)
	return "", err
}

func orderRows(l resources.OrderList) [][]string {
	rows := make([][]string, 0, len(l.Orders))
	for _, o := range l.Orders {
		items := 0
		for _, it := range o.Items {
			items += it.Quantity
		}
		rows = append(rows, []string{
			ref(o.ID), o.CustomerName, o.Phone, num(items), money(o.Total), o.Status, ago(o.CreatedAt),
		})
	}
	return rows
}

// RenderOrder writes one order with its lines.
func RenderOrder(w io.Writer, o resources.Order) error {
	err := renderTable(w, grid{title: "Order " + ref(o.ID), headers: []string{"Field", "Value"}}, [][]string{
		{"Customer", o.CustomerName},
		{"Phone", o.Phone},
		{"Address", o.Address},
		{"Status", o.Status},
		{"Placed", ago(o.CreatedAt)},
		{"Shipping", money(o.ShippingCost)},
		{"Total", money(o.Total)},
	})
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(o.Items))
	for _, it := range o.Items {
		rows = append(rows, []string{ref(it.ProductID), it.Title, num(it.Quantity), money(it.Price)})
	}
	return renderTable(w, grid{title: "Items", empty: "No items", headers: []string{"Product", "Title", "Qty", "Price"}}, rows)
}
