package resources

import (
	"context"

	"github.com/fashioneshop/shopadmin/internal/client"
)

// OrderFilter narrows an order list. Nil fields are not sent.
type OrderFilter struct {
	Status *string
	Limit  *int
	Offset *int
}

func (f OrderFilter) path() string {
	return query("/orders", map[string]*string{
		"status": f.Status,
		"limit":  intParam(f.Limit),
		"offset": intParam(f.Offset),
	})
}

// Orders reads orders and moves them through their statuses.
type Orders struct{ c *client.Client }

// List returns one page of orders, newest first.
func (o *Orders) List(ctx context.Context, f OrderFilter) (OrderList, error) {
	return client.Get[OrderList](ctx, o.c, f.path())
}

func (o *Orders) Get(ctx context.Context, id int64) (Order, error) {
	return client.Get[Order](ctx, o.c, idPath("/orders", id))
}

// UpdateStatus moves an order to status.
func (o *Orders) UpdateStatus(ctx context.Context, id int64, status string) (Message, error) {
	return client.Put[Message](ctx, o.c, idPath("/orders", id), map[string]string{"status": status})
}

// ExportCSV downloads every order as CSV.
func (o *Orders) ExportCSV(ctx context.Context) ([]byte, error) {
	return o.c.Download(ctx, "/orders/export")
}
